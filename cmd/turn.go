package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	chatrender "github.com/bnema/noarh/internal/adapters/render/chat"
	"github.com/bnema/noarh/internal/adapters/render/files"
	"github.com/bnema/noarh/internal/application"
	"github.com/bnema/noarh/internal/domain"
	"github.com/spf13/cobra"
)

type turnOutput struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	Reply     string `json:"reply"`
	Fallback  bool   `json:"fallback"`
	AudioPath string `json:"audio_path,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

// conversation ties a session to the writer persisting its turns.
type conversation struct {
	app     *app
	session *application.Session
	writer  *files.Writer
}

func newConversation(ctx context.Context, app *app, outDir string, save bool) (*conversation, error) {
	p, err := app.pipeline(ctx)
	if err != nil {
		return nil, err
	}

	session := application.NewSession(p.orchestrator)
	conv := &conversation{app: app, session: session}
	if !save {
		return conv, nil
	}

	if outDir == "" {
		outDir = app.cfg.Output.Dir
	}
	writer, err := files.NewWriter(outDir, session.ID(), app.cfg.Speech.Format)
	if err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}
	conv.writer = writer

	return conv, nil
}

func (c *conversation) submit(cmd *cobra.Command, message string) (domain.TurnResult, files.Artifacts, error) {
	var result domain.TurnResult
	err := runTurnSpinner(cmd.Context(), cmd.ErrOrStderr(), "Noarh is thinking...", func(ctx context.Context) error {
		var err error
		result, err = c.session.Submit(ctx, message)
		return err
	})
	if err != nil {
		return domain.TurnResult{}, files.Artifacts{}, err
	}

	var artifacts files.Artifacts
	if c.writer != nil {
		artifacts, err = c.writer.WriteTurn(cmd.Context(), c.session.Turns(), result)
		if err != nil {
			return result, artifacts, fmt.Errorf("save turn: %w", err)
		}
	}

	return result, artifacts, nil
}

func (c *conversation) render(cmd *cobra.Command, result domain.TurnResult, artifacts files.Artifacts) error {
	rendered, err := c.app.renderTurn(result, chatrender.RenderOptions{
		AudioPath: artifacts.AudioPath,
		ImagePath: artifacts.ImagePath,
	})
	if err != nil {
		return fmt.Errorf("render turn: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func (c *conversation) writeJSON(cmd *cobra.Command, result domain.TurnResult, artifacts files.Artifacts) error {
	encoded, err := json.MarshalIndent(turnOutput{
		SessionID: c.session.ID(),
		Mode:      result.Mode.String(),
		Reply:     result.Reply,
		Fallback:  result.Fallback,
		AudioPath: artifacts.AudioPath,
		ImagePath: artifacts.ImagePath,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode turn json: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return err
}
