package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	state := &cliState{wire: wireApp}

	rootCmd := &cobra.Command{
		Use:           "noarh",
		Short:         "Noarh: a calm bedtime storyteller in your terminal",
		Long:          "noarh classifies each message, answers with a bedtime story in the Noarh persona, narrates it aloud, and illustrates it. Audio, images, and the transcript are written under the output directory.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipWireAnnotation] == "true" {
				return nil
			}

			app, err := state.wire(state.opts)
			if err != nil {
				return fmt.Errorf("wire app: %w", err)
			}
			state.app = app
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if state.app != nil && state.app.logger != nil {
				_ = state.app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&state.opts.configPath, "config", "", "Config file (default ~/.noarh/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&state.opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newDirectiveCmd(),
		newShowCmd(),
		newClassifyCmd(state),
		newTellCmd(state),
		newChatCmd(state),
		newKeyCmd(state),
	)

	return rootCmd
}

const skipWireAnnotation = "noarh/skip-wire"

// offline marks commands that need neither config nor credentials.
func offline(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[skipWireAnnotation] = "true"
	return cmd
}

type cliState struct {
	opts wireOptions
	wire func(wireOptions) (*app, error)
	app  *app
}

func (s *cliState) logger() *zap.Logger {
	if s.app == nil || s.app.logger == nil {
		return zap.NewNop()
	}
	return s.app.logger
}
