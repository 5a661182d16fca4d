package domain

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

type Turn struct {
	Role    Role
	Content string
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Transcript is append-only within a session. Methods never modify the receiver's backing array.
type Transcript []Turn

func (t Transcript) Last() (Turn, bool) {
	if len(t) == 0 {
		return Turn{}, false
	}
	return t[len(t)-1], true
}

// LatestUser returns the content of the trailing user turn.
func (t Transcript) LatestUser() (string, error) {
	last, ok := t.Last()
	if !ok || last.Role != RoleUser {
		return "", ErrNoUserTurn
	}
	if strings.TrimSpace(last.Content) == "" {
		return "", ErrNoUserTurn
	}
	return last.Content, nil
}

func (t Transcript) Append(turns ...Turn) Transcript {
	out := make(Transcript, 0, len(t)+len(turns))
	out = append(out, t...)
	return append(out, turns...)
}

func (t Transcript) WithoutSystem() Transcript {
	out := make(Transcript, 0, len(t))
	for _, turn := range t {
		if turn.Role == RoleSystem {
			continue
		}
		out = append(out, turn)
	}
	return out
}

func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	return append(Transcript(nil), t...)
}
