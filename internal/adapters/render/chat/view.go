package chat

import (
	"fmt"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

type RenderOptions struct {
	// Width wraps the reply text; zero means 80 columns.
	Width     int
	AudioPath string
	ImagePath string
}

// RenderTurn formats one completed turn: mode badge, reply, and where the
// audio and illustration were written.
func RenderTurn(result domain.TurnResult, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return turnView(result, opts, s)
	})
}

// RenderTranscript formats a whole conversation, skipping system turns.
func RenderTranscript(transcript domain.Transcript) (string, error) {
	return run(func(s styles) string {
		return transcriptView(transcript, s)
	})
}

func turnView(result domain.TurnResult, opts RenderOptions, s styles) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		s.speaker.Render(domain.PersonaName),
		" ",
		modeBadge(result.Mode, s),
	)
	if result.Fallback {
		header += " " + s.fallback.Render("[placeholder]")
	}

	lines := []string{
		header,
		s.reply.Width(width(opts)).Render(result.Reply),
		artifactLine("audio", result.HasAudio(), opts.AudioPath, s),
	}
	if result.Mode.Illustrated() {
		lines = append(lines, artifactLine("image", result.HasImage(), opts.ImagePath, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func transcriptView(transcript domain.Transcript, s styles) string {
	turns := transcript.WithoutSystem()
	lines := []string{
		s.title.Render("Conversation"),
		s.header.Render(fmt.Sprintf("turns: %d", len(turns))),
	}

	if len(turns) == 0 {
		lines = append(lines, s.empty.Render("Nothing has been said yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, turn := range turns {
		lines = append(lines, s.section.Render(turnLine(turn, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func turnLine(turn domain.Turn, s styles) string {
	label := s.user.Render("you")
	if turn.Role == domain.RoleAssistant {
		label = s.speaker.Render(domain.PersonaName)
	}

	return lipgloss.JoinVertical(lipgloss.Left, label, s.reply.Width(defaultWidth).Render(turn.Content))
}

func modeBadge(mode domain.Mode, s styles) string {
	text := fmt.Sprintf("(%s)", mode)
	if mode == domain.ModeReject {
		return s.reject.Render(text)
	}
	return s.badge.Render(text)
}

func artifactLine(kind string, present bool, path string, s styles) string {
	switch {
	case !present:
		return s.missing.Render(kind + ": unavailable")
	case strings.TrimSpace(path) == "":
		return s.artifact.Render(kind + ": ready")
	default:
		return s.artifact.Render(kind + ": " + path)
	}
}

func width(opts RenderOptions) int {
	if opts.Width <= 0 {
		return defaultWidth
	}
	return opts.Width
}
