package domain

import "strings"

// Mode is the classified conversational intent of a single user turn.
type Mode int

const (
	ModeStory Mode = iota
	ModeIdentity
	ModeReject
)

// Modes lists every known mode in classification order.
var Modes = []Mode{ModeStory, ModeIdentity, ModeReject}

func ParseMode(raw string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "story":
		return ModeStory, true
	case "identity":
		return ModeIdentity, true
	case "reject":
		return ModeReject, true
	default:
		return ModeReject, false
	}
}

func (m Mode) String() string {
	switch m {
	case ModeStory:
		return "story"
	case ModeIdentity:
		return "identity"
	case ModeReject:
		return "reject"
	default:
		return "unknown"
	}
}

// FullHistory reports whether the reply call sees the whole transcript
// rather than only the latest user message.
func (m Mode) FullHistory() bool {
	switch m {
	case ModeIdentity, ModeReject:
		return false
	default:
		return true
	}
}

// Illustrated reports whether replies in this mode get an image.
func (m Mode) Illustrated() bool {
	switch m {
	case ModeIdentity, ModeReject:
		return false
	default:
		return true
	}
}

// Placeholder is the reply used when reply generation fails.
func (m Mode) Placeholder() string {
	switch m {
	case ModeIdentity:
		return IdentityPlaceholder
	case ModeReject:
		return RefusalPhrase
	default:
		return StoryPlaceholder
	}
}
