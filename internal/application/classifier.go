package application

import (
	"context"
	"fmt"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"go.uber.org/zap"
)

const classifierDirective = "You are a strict but story-friendly classifier."

const classificationTemplate = `
You are routing user intent for a storyteller AI.

Classify the user's message into ONE category only.

Categories:
- story :
  The user wants a story OR provides a name, event, place, or concept
  that could reasonably be turned into a story, even if they did not
  explicitly ask for a story.
  Examples:
  - "messi"
  - "فتح القسطنطينية"
  - "a lonely dragon"
  - "the moon"

- identity :
  The user asks about who you are, who created you, or your purpose.

- reject :
  Requests that are not stories and cannot be reasonably turned into a story
  (math, coding, instructions, factual Q&A, commands, etc.)

IMPORTANT:
- If unsure between story and reject, choose story.
- Output ONLY ONE WORD: story, identity, or reject.

User message:
"""%s"""
`

// Classifier maps a raw user message to a Mode with one deterministic completion call.
type Classifier struct {
	completer ports.Completer
	logger    *zap.Logger
}

func NewClassifier(completer ports.Completer, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{completer: completer, logger: logger}
}

func ClassificationPrompt(message string) string {
	return fmt.Sprintf(classificationTemplate, message)
}

// Classify always yields a usable mode. When the call fails or the label is
// outside the known set, the mode is ModeReject and the error says why.
func (c *Classifier) Classify(ctx context.Context, message string) (domain.Mode, error) {
	raw, err := c.completer.Complete(ctx, ports.CompletionRequest{
		Directive:   classifierDirective,
		Turns:       []domain.Turn{domain.UserTurn(ClassificationPrompt(message))},
		Temperature: ports.Temperature(0),
	})
	if err != nil {
		c.logger.Warn("intent classification failed", zap.Error(err))
		return domain.ModeReject, fmt.Errorf("classify message: %w", err)
	}

	mode, ok := domain.ParseMode(raw)
	if !ok {
		c.logger.Warn("classifier returned an unknown label", zap.String("label", raw))
		return domain.ModeReject, fmt.Errorf("classify message: %w: %q", domain.ErrUnknownMode, raw)
	}

	c.logger.Info("classified message", zap.Stringer("mode", mode))
	return mode, nil
}
