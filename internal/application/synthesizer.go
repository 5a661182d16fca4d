package application

import (
	"context"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"go.uber.org/zap"
)

type SpeechConfig struct {
	Voice        string
	Instructions string
	Speed        float64
}

func DefaultSpeechConfig() SpeechConfig {
	return SpeechConfig{
		Voice:        "alloy",
		Instructions: "Speak calmly like a bedtime storyteller",
		Speed:        0.9,
	}
}

// Synthesizer turns reply text into audio. Audio is optional, so failures are
// logged and reported as nil.
type Synthesizer struct {
	speaker ports.Speaker
	cfg     SpeechConfig
	logger  *zap.Logger
}

func NewSynthesizer(speaker ports.Speaker, cfg SpeechConfig, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Synthesizer{speaker: speaker, cfg: cfg, logger: logger}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) []byte {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	audio, err := s.speaker.Speak(ctx, ports.SpeechRequest{
		Text:         text,
		Voice:        s.cfg.Voice,
		Instructions: s.cfg.Instructions,
		Speed:        s.cfg.Speed,
	})
	if err == nil && len(audio) == 0 {
		err = domain.ErrNoAudio
	}
	if err != nil {
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		return nil
	}

	return audio
}
