package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/noarh/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	TranscriptFile  = "transcript.toml"
	outputDirMode   = 0o755
	outputFileMode  = 0o644
	tempFilePattern = ".transcript-*.toml.tmp"
)

// Artifacts are the paths written for one turn. Empty means the turn had
// nothing of that kind.
type Artifacts struct {
	AudioPath string
	ImagePath string
}

// Writer persists a session under <root>/<session-id>: one audio and one
// image file per assistant turn plus a transcript.toml manifest.
type Writer struct {
	dir         string
	sessionID   string
	audioFormat string

	mu      sync.Mutex
	replies []replySchema
}

func NewWriter(root, sessionID, audioFormat string) (*Writer, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("output root is empty")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id is empty")
	}
	if audioFormat == "" {
		audioFormat = "mp3"
	}

	dir, err := filepath.Abs(filepath.Join(root, sessionID))
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}

	return &Writer{dir: dir, sessionID: sessionID, audioFormat: audioFormat}, nil
}

func (w *Writer) Dir() string {
	return w.dir
}

// WriteTurn stores the result's audio and image as turn-NNN files, then
// rewrites the manifest with the result's transcript.
func (w *Writer) WriteTurn(ctx context.Context, index int, result domain.TurnResult) (Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return Artifacts{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, outputDirMode); err != nil {
		return Artifacts{}, fmt.Errorf("create output directory: %w", err)
	}

	var artifacts Artifacts
	var written []string
	discard := func() {
		for _, path := range written {
			_ = os.Remove(path)
		}
	}

	reply := replySchema{Index: index, Mode: result.Mode.String(), Fallback: result.Fallback}
	if result.HasAudio() {
		reply.Audio = turnFileName(index, w.audioFormat)
		artifacts.AudioPath = filepath.Join(w.dir, reply.Audio)
		if err := os.WriteFile(artifacts.AudioPath, result.Audio, outputFileMode); err != nil {
			return Artifacts{}, fmt.Errorf("write turn audio: %w", err)
		}
		written = append(written, artifacts.AudioPath)
	}
	if result.HasImage() {
		reply.Image = turnFileName(index, "png")
		artifacts.ImagePath = filepath.Join(w.dir, reply.Image)
		if err := os.WriteFile(artifacts.ImagePath, result.Image, outputFileMode); err != nil {
			discard()
			return Artifacts{}, fmt.Errorf("write turn image: %w", err)
		}
		written = append(written, artifacts.ImagePath)
	}

	if err := ctx.Err(); err != nil {
		discard()
		return Artifacts{}, err
	}

	// The reply is recorded only once the manifest naming it is on disk.
	replies := append(w.replies[:len(w.replies):len(w.replies)], reply)
	if err := w.writeManifest(result.Transcript, replies); err != nil {
		discard()
		return Artifacts{}, err
	}
	w.replies = replies

	return artifacts, nil
}

func turnFileName(index int, ext string) string {
	return fmt.Sprintf("turn-%03d.%s", index, ext)
}

func (w *Writer) writeManifest(transcript domain.Transcript, replies []replySchema) error {
	file := fileSchema{SessionID: w.sessionID, Replies: replies}
	file.applyDefaults()
	for _, turn := range transcript {
		file.Turns = append(file.Turns, turnSchema{Role: string(turn.Role), Content: turn.Content})
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode transcript file: %w", err)
	}

	tempFile, err := os.CreateTemp(w.dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp transcript file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp transcript file: %w", err)
	}
	if err := tempFile.Chmod(outputFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp transcript file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp transcript file: %w", err)
	}
	if err := os.Rename(tempName, filepath.Join(w.dir, TranscriptFile)); err != nil {
		return fmt.Errorf("replace transcript file: %w", err)
	}

	cleanup = false
	return nil
}

// Saved is a transcript read back from disk.
type Saved struct {
	SessionID  string
	Transcript domain.Transcript
	Modes      []domain.Mode
}

// ReadTranscript loads <dir>/transcript.toml.
func ReadTranscript(dir string) (Saved, error) {
	data, err := os.ReadFile(filepath.Join(dir, TranscriptFile))
	if err != nil {
		return Saved{}, fmt.Errorf("read transcript file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return Saved{}, fmt.Errorf("decode transcript file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return Saved{}, err
	}

	saved := Saved{SessionID: file.SessionID}
	for _, turn := range file.Turns {
		role := domain.Role(turn.Role)
		if !role.Valid() {
			return Saved{}, fmt.Errorf("decode transcript file: unknown role %q", turn.Role)
		}
		saved.Transcript = append(saved.Transcript, domain.Turn{Role: role, Content: turn.Content})
	}
	for _, reply := range file.Replies {
		mode, _ := domain.ParseMode(reply.Mode)
		saved.Modes = append(saved.Modes, mode)
	}

	return saved, nil
}
