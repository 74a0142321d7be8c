package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResourcesCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List resources and resource templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, closeFn, err := openSession(cmd.Context(), opts, remote, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			resources, err := client.Resources(cmd.Context())
			if err != nil {
				return err
			}

			for _, r := range resources {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Key(), r.Description); err != nil {
					return err
				}
			}

			return nil
		},
	}

	addRemoteFlag(cmd, &remote)

	return cmd
}

func newReadCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:     "read <uri>",
		Short:   "Read a resource",
		Example: "  oncemcp read resource://1nce/products\n  oncemcp read resource://1nce/sims/8988228066612345678/status",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := openSession(cmd.Context(), opts, remote, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			text, err := client.ReadResource(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	addRemoteFlag(cmd, &remote)

	return cmd
}

func newPromptCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:     "prompt <name> [key=value...]",
		Short:   "Render a prompt",
		Example: "  oncemcp prompt order_status_prompt order_number=1234",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			promptArgs, err := parsePromptArgs(args[1:])
			if err != nil {
				return err
			}

			client, closeFn, err := openSession(cmd.Context(), opts, remote, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			text, err := client.GetPrompt(cmd.Context(), args[0], promptArgs)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	addRemoteFlag(cmd, &remote)

	return cmd
}

func parsePromptArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("prompt: argument %q must be key=value", pair)
		}
		out[key] = value
	}

	return out, nil
}
