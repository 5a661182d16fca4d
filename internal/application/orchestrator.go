package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"go.uber.org/zap"
)

// TurnRunner runs one conversational turn over a transcript ending with a user turn.
type TurnRunner interface {
	RunTurn(ctx context.Context, transcript domain.Transcript) (domain.TurnResult, error)
}

type OrchestratorConfig struct {
	Classifier  *Classifier
	Completer   ports.Completer
	Synthesizer *Synthesizer
	Illustrator *Illustrator
	Logger      *zap.Logger
}

type Orchestrator struct {
	classifier  *Classifier
	completer   ports.Completer
	synthesizer *Synthesizer
	illustrator *Illustrator
	logger      *zap.Logger
}

var _ TurnRunner = (*Orchestrator)(nil)

func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	switch {
	case cfg.Classifier == nil:
		return nil, fmt.Errorf("new orchestrator: classifier is nil")
	case cfg.Completer == nil:
		return nil, fmt.Errorf("new orchestrator: completer is nil")
	case cfg.Synthesizer == nil:
		return nil, fmt.Errorf("new orchestrator: synthesizer is nil")
	case cfg.Illustrator == nil:
		return nil, fmt.Errorf("new orchestrator: illustrator is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		classifier:  cfg.Classifier,
		completer:   cfg.Completer,
		synthesizer: cfg.Synthesizer,
		illustrator: cfg.Illustrator,
		logger:      logger,
	}, nil
}

// RunTurn routes the latest user message, generates the reply, and attaches
// speech and, for stories, an illustration. The caller's transcript is not modified;
// the returned result carries a copy with the assistant turn appended.
func (o *Orchestrator) RunTurn(ctx context.Context, transcript domain.Transcript) (domain.TurnResult, error) {
	message, err := transcript.LatestUser()
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("run turn: %w", err)
	}

	// Classify already degrades to reject; the error is only informative here.
	mode, _ := o.classifier.Classify(ctx, message)

	reply, fallback := o.reply(ctx, mode, transcript, message)
	if err := ctx.Err(); err != nil {
		return domain.TurnResult{}, fmt.Errorf("run turn: %w", err)
	}

	result := domain.TurnResult{
		Transcript: transcript.Append(domain.AssistantTurn(reply)),
		Mode:       mode,
		Reply:      reply,
		Fallback:   fallback,
	}

	result.Audio = o.synthesizer.Synthesize(ctx, reply)
	if mode.Illustrated() {
		result.Image = o.illustrator.Illustrate(ctx, reply)
	}
	if err := ctx.Err(); err != nil {
		return domain.TurnResult{}, fmt.Errorf("run turn: %w", err)
	}

	o.logger.Info("turn complete",
		zap.Stringer("mode", mode),
		zap.Bool("fallback_reply", fallback),
		zap.Bool("audio", result.HasAudio()),
		zap.Bool("image", result.HasImage()),
	)

	return result, nil
}

// ReplyRequest builds the reply call for mode. Story replies see the whole
// transcript minus system entries; identity and reject replies see only the latest message.
func ReplyRequest(mode domain.Mode, transcript domain.Transcript, message string) ports.CompletionRequest {
	req := ports.CompletionRequest{Directive: domain.BuildDirective(mode).String()}
	if mode.FullHistory() {
		req.Turns = transcript.WithoutSystem()
	} else {
		req.Turns = []domain.Turn{domain.UserTurn(message)}
	}
	return req
}

func (o *Orchestrator) reply(ctx context.Context, mode domain.Mode, transcript domain.Transcript, message string) (string, bool) {
	reply, err := o.completer.Complete(ctx, ReplyRequest(mode, transcript, message))
	if err == nil && strings.TrimSpace(reply) == "" {
		err = domain.ErrEmptyReply
	}
	if err != nil {
		o.logger.Error("reply generation failed, using placeholder",
			zap.Stringer("mode", mode),
			zap.Error(err),
		)
		return mode.Placeholder(), true
	}

	return strings.TrimSpace(reply), false
}
