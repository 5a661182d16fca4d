package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/noarh/internal/domain"
	"github.com/google/uuid"
)

// Session holds one in-memory conversation. Submissions are serialized so the
// transcript is only ever extended by one turn at a time.
type Session struct {
	id     string
	runner TurnRunner

	mu         sync.Mutex
	transcript domain.Transcript
}

func NewSession(runner TurnRunner) *Session {
	return &Session{id: uuid.NewString(), runner: runner}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Submit(ctx context.Context, message string) (domain.TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return domain.TurnResult{}, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.runner.RunTurn(ctx, s.transcript.Append(domain.UserTurn(message)))
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("submit message: %w", err)
	}

	s.transcript = result.Transcript
	return result, nil
}

func (s *Session) Transcript() domain.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transcript.Clone()
}

// Turns is the number of completed user/assistant exchanges.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, turn := range s.transcript {
		if turn.Role == domain.RoleAssistant {
			n++
		}
	}
	return n
}
