package files

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int           `toml:"version"`
	SessionID string        `toml:"session_id"`
	Turns     []turnSchema  `toml:"turns"`
	Replies   []replySchema `toml:"replies,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported transcript schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type turnSchema struct {
	Role    string `toml:"role"`
	Content string `toml:"content"`
}

type replySchema struct {
	Index    int    `toml:"index"`
	Mode     string `toml:"mode"`
	Fallback bool   `toml:"fallback,omitempty"`
	Audio    string `toml:"audio,omitempty"`
	Image    string `toml:"image,omitempty"`
}
