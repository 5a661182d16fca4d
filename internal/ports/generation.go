package ports

import (
	"context"

	"github.com/bnema/noarh/internal/domain"
)

// CompletionRequest is one text-completion call: a system directive plus the
// conversation the model should answer. A nil Temperature leaves the provider default.
type CompletionRequest struct {
	Directive   string
	Turns       []domain.Turn
	Temperature *float64
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type SpeechRequest struct {
	Text         string
	Voice        string
	Instructions string
	Speed        float64
}

type Speaker interface {
	Speak(ctx context.Context, req SpeechRequest) ([]byte, error)
}

type Drawer interface {
	Draw(ctx context.Context, prompt string) ([]byte, error)
}

func Temperature(v float64) *float64 {
	return &v
}
