package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newTellCmd(state *cliState) *cobra.Command {
	var outDir string
	var noSave bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tell <message>",
		Short: "Send one message and print Noarh's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := newConversation(cmd.Context(), state.app, outDir, !noSave)
			if err != nil {
				return err
			}

			result, artifacts, err := conv.submit(cmd, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				return conv.writeJSON(cmd, result, artifacts)
			}
			return conv.render(cmd, result, artifacts)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from config output.dir)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write audio, images, or the transcript")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the turn as JSON")

	return cmd
}
