package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newCallCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Call one tool and print its result",
		Example: `  oncemcp call get_all_sims '{"page_size":50}'
  oncemcp call get_sim_usage '{"iccid":"8988...","start_date":"2024-01-01","end_date":"2024-01-31"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var input json.RawMessage
			if len(args) == 2 {
				input = json.RawMessage(args[1])
				if !json.Valid(input) {
					return fmt.Errorf("call %s: arguments are not valid JSON", name)
				}
			}

			client, closeFn, err := openSession(cmd.Context(), opts, remote, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := client.CallTool(cmd.Context(), name, input)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), result.Content); err != nil {
				return err
			}

			if result.IsError {
				return fmt.Errorf("call %s: tool reported an error", name)
			}

			return nil
		},
	}

	addRemoteFlag(cmd, &remote)

	return cmd
}
