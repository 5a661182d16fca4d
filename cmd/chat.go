package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxLineBytes = 1 << 20

func newChatCmd(state *cliState) *cobra.Command {
	var outDir string
	var noSave bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with Noarh interactively (exit, quit, or EOF to leave)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conv, err := newConversation(cmd.Context(), state.app, outDir, !noSave)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			done := make(chan struct{})
			defer close(done)
			lines := readLines(cmd.InOrStdin(), done)

			prompt := func() { _, _ = fmt.Fprint(out, "you> ") }
			prompt()
			for {
				if ctx.Err() != nil {
					_, _ = fmt.Fprintln(out)
					return farewell(cmd, conv)
				}

				var in inputLine
				var ok bool
				select {
				case <-ctx.Done():
					_, _ = fmt.Fprintln(out)
					return farewell(cmd, conv)
				case in, ok = <-lines:
				}
				if !ok {
					_, _ = fmt.Fprintln(out)
					return farewell(cmd, conv)
				}
				if in.err != nil {
					return fmt.Errorf("read input: %w", in.err)
				}

				line := strings.TrimSpace(in.text)
				switch strings.ToLower(line) {
				case "":
					prompt()
					continue
				case "exit", "quit":
					return farewell(cmd, conv)
				}

				result, artifacts, err := conv.submit(cmd, line)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return err
					}
					state.logger().Error("turn failed", zap.Error(err))
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					prompt()
					continue
				}
				if err := conv.render(cmd, result, artifacts); err != nil {
					return err
				}
				prompt()
			}
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from config output.dir)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write audio, images, or the transcript")

	return cmd
}

type inputLine struct {
	text string
	err  error
}

// readLines scans r on its own goroutine so a blocked read never holds up
// cancellation. The channel closes at EOF or once done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		send := func(in inputLine) bool {
			select {
			case lines <- in:
				return true
			case <-done:
				return false
			}
		}
		for scanner.Scan() {
			if !send(inputLine{text: scanner.Text()}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(inputLine{err: err})
		}
	}()
	return lines
}

func farewell(cmd *cobra.Command, conv *conversation) error {
	out := cmd.OutOrStdout()
	if conv.writer == nil || conv.session.Turns() == 0 {
		_, err := fmt.Fprintln(out, "Good night.")
		return err
	}

	_, err := fmt.Fprintf(out, "Good night. %d turn(s) saved to %s\n", conv.session.Turns(), conv.writer.Dir())
	return err
}
