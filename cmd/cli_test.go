package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/noarh/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyReply = "Once upon a time, a sleepy dragon counted the stars."

type fakeOpenAI struct {
	server      *httptest.Server
	chatCalls   atomic.Int32
	speechCalls atomic.Int32
	imageCalls  atomic.Int32
	failReplies bool
	chatDelay   time.Duration
}

func newFakeOpenAI(t *testing.T) *fakeOpenAI {
	t.Helper()

	f := &fakeOpenAI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", f.handleChat)
	mux.HandleFunc("/v1/audio/speech", func(w http.ResponseWriter, _ *http.Request) {
		f.speechCalls.Add(1)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	})
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, _ *http.Request) {
		f.imageCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"created":1,"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString([]byte("png-bytes")))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeOpenAI) handleChat(w http.ResponseWriter, r *http.Request) {
	f.chatCalls.Add(1)

	if f.chatDelay > 0 {
		select {
		case <-time.After(f.chatDelay):
		case <-r.Context().Done():
			return
		}
	}

	var body struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) < 2 {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
		return
	}

	system := body.Messages[0].Content
	last := body.Messages[len(body.Messages)-1].Content

	var content string
	switch {
	case strings.HasPrefix(system, "You are a strict but story-friendly classifier."):
		content = classifyFixture(last)
	case f.failReplies:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
		return
	case strings.Contains(system, "Current Mode: REJECT"):
		content = domain.RefusalPhrase
	case strings.Contains(system, "Current Mode: IDENTITY"):
		content = "I am Noarh, a gentle storyteller."
	default:
		content = storyReply
	}

	encoded, _ := json.Marshal(content)
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, encoded)
}

func classifyFixture(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "who are you"):
		return "identity"
	case strings.Contains(lower, "write code"):
		return "reject"
	default:
		return "Story"
	}
}

type cliEnv struct {
	home   string
	outDir string
	openai *fakeOpenAI
}

func setupCLIEnv(t *testing.T) cliEnv {
	t.Helper()

	env := cliEnv{home: t.TempDir(), outDir: filepath.Join(t.TempDir(), "out"), openai: newFakeOpenAI(t)}
	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("NOARH_OPENAI_BASE_URL", env.openai.server.URL+"/v1/")
	t.Setenv("NOARH_OPENAI_MAX_RETRIES", "0")
	t.Setenv("NOARH_SECRETS_USE_PASS", "false")
	t.Setenv("NOARH_OUTPUT_DIR", env.outDir)

	return env
}

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestDirectivePrintsModeBlock(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "directive", "--mode", "reject")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Current Mode: REJECT")
	assert.Contains(t, stdout, domain.RefusalPhrase)

	_, _, err = executeCLI(t, t.TempDir(), "directive", "--mode", "poem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "poem"`)
}

func TestKeySetRequiresValueFlag(t *testing.T) {
	setupCLIEnv(t)

	_, _, err := executeCLI(t, t.TempDir(), "key", "set", "--provider", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"value\" not set")
}

func TestKeySetShowClearRoundTrip(t *testing.T) {
	setupCLIEnv(t)
	t.Setenv("OPENAI_API_KEY", "")
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "key", "set", "--provider", "openai", "--value", "sk-abcdefgh12345678")
	require.NoError(t, err)
	assert.Contains(t, stdout, "stored openai api key")

	stdout, _, err = executeCLI(t, home, "key", "show", "--provider", "openai")
	require.NoError(t, err)
	assert.Contains(t, stdout, "openai: sk-a***********5678")

	_, err = os.Stat(filepath.Join(home, ".noarh", "secrets", "noarh", "openai", "api_key"))
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "key", "clear", "--provider", "openai")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "key", "show", "--provider", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no openai api key configured")
}

func TestKeyRejectsUnknownProvider(t *testing.T) {
	setupCLIEnv(t)

	_, _, err := executeCLI(t, t.TempDir(), "key", "show", "--provider", "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported provider "anthropic"`)
}

func TestTellStoryWritesArtifacts(t *testing.T) {
	env := setupCLIEnv(t)

	stdout, _, err := executeCLI(t, env.home, "tell", "a", "lonely", "dragon")
	require.NoError(t, err)

	assert.Contains(t, stdout, "(story)")
	assert.Contains(t, stdout, "sleepy dragon")
	assert.Contains(t, stdout, "turn-001.mp3")
	assert.Contains(t, stdout, "turn-001.png")
	assert.EqualValues(t, 2, env.openai.chatCalls.Load())
	assert.EqualValues(t, 1, env.openai.speechCalls.Load())
	assert.EqualValues(t, 1, env.openai.imageCalls.Load())

	sessionDir := onlySessionDir(t, env.outDir)
	audio, err := os.ReadFile(filepath.Join(sessionDir, "turn-001.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(audio))
	_, err = os.Stat(filepath.Join(sessionDir, "transcript.toml"))
	require.NoError(t, err)
}

func TestTellShowsThinkingSpinner(t *testing.T) {
	env := setupCLIEnv(t)
	env.openai.chatDelay = 200 * time.Millisecond

	stdout, stderr, err := executeCLI(t, env.home, "tell", "--no-save", "a lonely dragon")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Noarh is thinking")
	assert.NotContains(t, stdout, "Noarh is thinking")
	assert.Contains(t, stdout, "sleepy dragon")
}

func TestTellRejectSkipsIllustration(t *testing.T) {
	env := setupCLIEnv(t)

	stdout, _, err := executeCLI(t, env.home, "tell", "--no-save", "write code for a web server")
	require.NoError(t, err)

	assert.Contains(t, stdout, "(reject)")
	assert.Contains(t, stdout, domain.RefusalPhrase)
	assert.NotContains(t, stdout, "image:")
	assert.EqualValues(t, 0, env.openai.imageCalls.Load())
	assert.EqualValues(t, 1, env.openai.speechCalls.Load())

	_, err = os.Stat(env.outDir)
	assert.True(t, os.IsNotExist(err))
}

func TestTellJSONOutput(t *testing.T) {
	env := setupCLIEnv(t)

	stdout, _, err := executeCLI(t, env.home, "tell", "--json", "who are you?")
	require.NoError(t, err)

	var out turnOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "identity", out.Mode)
	assert.Equal(t, "I am Noarh, a gentle storyteller.", out.Reply)
	assert.False(t, out.Fallback)
	assert.NotEmpty(t, out.SessionID)
	assert.True(t, strings.HasSuffix(out.AudioPath, "turn-001.mp3"))
	assert.Empty(t, out.ImagePath)
}

func TestTellUsesPlaceholderWhenReplyFails(t *testing.T) {
	env := setupCLIEnv(t)
	env.openai.failReplies = true

	stdout, _, err := executeCLI(t, env.home, "tell", "--no-save", "the moon")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[placeholder]")
	assert.Contains(t, stdout, "Once upon a quiet night")
}

func TestTellWithoutAPIKeyFails(t *testing.T) {
	env := setupCLIEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, _, err := executeCLI(t, env.home, "tell", "the moon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api key not configured")
	assert.EqualValues(t, 0, env.openai.chatCalls.Load())
}

func TestClassifyPrintsMode(t *testing.T) {
	env := setupCLIEnv(t)

	stdout, _, err := executeCLI(t, env.home, "classify", "who are you")
	require.NoError(t, err)
	assert.Equal(t, "identity\n", stdout)

	stdout, _, err = executeCLI(t, env.home, "classify", "messi")
	require.NoError(t, err)
	assert.Equal(t, "story\n", stdout)
}

func TestChatRunsTurnsUntilExitThenShow(t *testing.T) {
	env := setupCLIEnv(t)

	stdout, _, err := executeCLIWithInput(t, env.home, "a lonely dragon\n\nwho are you?\nexit\n", "chat")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(stdout, "Noarh ("))
	assert.Contains(t, stdout, "(story)")
	assert.Contains(t, stdout, "(identity)")
	assert.Contains(t, stdout, "Good night. 2 turn(s) saved to")

	sessionDir := onlySessionDir(t, env.outDir)
	assert.FileExists(t, filepath.Join(sessionDir, "turn-001.png"))
	assert.FileExists(t, filepath.Join(sessionDir, "turn-002.mp3"))
	assert.NoFileExists(t, filepath.Join(sessionDir, "turn-002.png"))

	stdout, _, err = executeCLI(t, env.home, "show", sessionDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "turns: 4")
	assert.Contains(t, stdout, "a lonely dragon")
	assert.Contains(t, stdout, "who are you?")
}

func TestChatEndsOnEOF(t *testing.T) {
	env := setupCLIEnv(t)

	stdout, _, err := executeCLIWithInput(t, env.home, "", "chat", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Good night.")
	assert.EqualValues(t, 0, env.openai.chatCalls.Load())
}

func TestChatInterruptedTurnIsNotKept(t *testing.T) {
	env := setupCLIEnv(t)
	env.openai.chatDelay = 5 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	stdout, _, err := executeCLIWithContext(t, ctx, env.home, "a lonely dragon\n", "chat", "--no-save")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, stdout, "Noarh (")
	assert.EqualValues(t, 0, env.openai.speechCalls.Load())
}

func TestChatCancelledBeforeInputSaysGoodNight(t *testing.T) {
	env := setupCLIEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := executeCLIWithContext(t, ctx, env.home, "a lonely dragon\n", "chat", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Good night.")
	assert.EqualValues(t, 0, env.openai.chatCalls.Load())
}

func onlySessionDir(t *testing.T, outDir string) string {
	t.Helper()

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsDir())

	return filepath.Join(outDir, entries[0].Name())
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithContext(t, context.Background(), home, input, args...)
}

func executeCLIWithContext(t *testing.T, ctx context.Context, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}
