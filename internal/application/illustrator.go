package application

import (
	"context"
	"fmt"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"go.uber.org/zap"
)

// FallbackImagePrompt never depends on the reply.
const FallbackImagePrompt = "A cozy nighttime reading scene, warm lamp light, " +
	"books, moonlight, peaceful atmosphere, dreamy illustration"

func PrimaryImagePrompt(scene string) string {
	return fmt.Sprintf("A gentle dreamy bedtime story illustration: %s, "+
		"soft warm lighting, cozy atmosphere, whimsical storybook style", scene)
}

// Illustrator draws a scene for a story reply, falling back to one generic
// scene when the specific one cannot be drawn.
type Illustrator struct {
	drawer ports.Drawer
	logger *zap.Logger
}

func NewIllustrator(drawer ports.Drawer, logger *zap.Logger) *Illustrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Illustrator{drawer: drawer, logger: logger}
}

// Illustrate issues at most two draw calls and never fails the caller.
func (i *Illustrator) Illustrate(ctx context.Context, scene string) []byte {
	image, err := i.draw(ctx, PrimaryImagePrompt(scene))
	if err == nil {
		return image
	}
	i.logger.Warn("primary illustration failed", zap.Error(err))

	image, fallbackErr := i.draw(ctx, FallbackImagePrompt)
	if fallbackErr == nil {
		return image
	}

	i.logger.Warn("fallback illustration failed",
		zap.Error(fmt.Errorf("primary illustration failed: %w; fallback illustration failed: %w", err, fallbackErr)),
	)
	return nil
}

func (i *Illustrator) draw(ctx context.Context, prompt string) ([]byte, error) {
	image, err := i.drawer.Draw(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, domain.ErrNoImage
	}

	return image, nil
}
