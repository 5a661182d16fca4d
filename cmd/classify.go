package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newClassifyCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Print the mode a message would be routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := state.app.pipeline(cmd.Context())
			if err != nil {
				return err
			}

			mode, err := p.classifier.Classify(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "classification failed, defaulting to %s: %v\n", mode, err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), mode)
			return err
		},
	}
}
