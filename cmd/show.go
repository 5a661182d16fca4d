package cmd

import (
	"fmt"

	chatrender "github.com/bnema/noarh/internal/adapters/render/chat"
	"github.com/bnema/noarh/internal/adapters/render/files"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return offline(&cobra.Command{
		Use:   "show <session-dir>",
		Short: "Render a saved conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := files.ReadTranscript(args[0])
			if err != nil {
				return err
			}

			rendered, err := chatrender.RenderTranscript(saved.Transcript)
			if err != nil {
				return fmt.Errorf("render transcript: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "session %s\n%s\n", saved.SessionID, rendered)
			return err
		},
	})
}
