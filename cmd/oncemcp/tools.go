package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// descriptionWidth bounds descriptions in the table view.
const descriptionWidth = 72

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

func newToolsCmd(opts *rootOptions) *cobra.Command {
	var (
		remote string
		asJSON bool
		wide   bool
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, closeFn, err := openSession(cmd.Context(), opts, remote, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			tools, err := client.ListTools(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				infos := make([]toolInfo, 0, len(tools))
				for _, t := range tools {
					infos = append(infos, toolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTools(cmd, tools, wide))
			return err
		},
	}

	addRemoteFlag(cmd, &remote)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tools with their input schemas as JSON")
	cmd.Flags().BoolVar(&wide, "wide", false, "do not truncate descriptions")

	return cmd
}

// renderTools lays tools out as an aligned name/description table.
func renderTools(cmd *cobra.Command, tools []toolbox.Tool, wide bool) string {
	renderer := lipgloss.NewRenderer(cmd.OutOrStdout())

	nameWidth := 0
	for _, t := range tools {
		nameWidth = max(nameWidth, runewidth.StringWidth(t.Name))
	}

	nameStyle := renderer.NewStyle().Bold(true).Width(nameWidth + 2)
	descStyle := renderer.NewStyle().Faint(true)

	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		desc := t.Description
		if !wide {
			desc = runewidth.Truncate(desc, descriptionWidth, "…")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, nameStyle.Render(t.Name), descStyle.Render(desc)))
	}

	return strings.Join(lines, "\n")
}

func addRemoteFlag(cmd *cobra.Command, remote *string) {
	cmd.Flags().StringVar(remote, "remote", "", "streamable HTTP endpoint of a running server, e.g. http://localhost:8080/mcp")
}
