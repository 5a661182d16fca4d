package cmd

import (
	"fmt"

	"github.com/bnema/noarh/internal/domain"
	"github.com/spf13/cobra"
)

func newDirectiveCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "directive",
		Short: "Print the system directive sent for a mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, ok := domain.ParseMode(mode)
			if !ok {
				return fmt.Errorf("unknown mode %q (story|identity|reject)", mode)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), domain.BuildDirective(parsed))
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", domain.ModeStory.String(), "Mode (story|identity|reject)")

	return offline(cmd)
}
