package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/noarh/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAIKeyRef = "noarh/openai/api_key"

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "absolute", key: "/etc/noarh", wantErr: "invalid secret key"},
		{name: "parent", key: "..", wantErr: "invalid secret key"},
		{name: "traversal", key: "../escape", wantErr: "invalid secret key"},
		{name: "nested traversal", key: "noarh/../../escape", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Put(context.Background(), openAIKeyRef, "sk-first"))
	require.NoError(t, store.Put(context.Background(), openAIKeyRef, "sk-second"))

	got, err := store.Get(context.Background(), openAIKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "sk-second", got)

	info, err := os.Stat(filepath.Join(root, openAIKeyRef))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "noarh", "openai"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStoreGetTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, openAIKeyRef)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("sk-edited\n"), 0o600))

	got, err := NewStore(root).Get(context.Background(), openAIKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "sk-edited", got)
}

func TestStoreGetMissingSecretIsNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewStore(t.TempDir()).Get(context.Background(), openAIKeyRef)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIsIdempotentWhenSecretMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), openAIKeyRef, "sk-test"))

	require.NoError(t, store.Delete(context.Background(), openAIKeyRef))
	require.NoError(t, store.Delete(context.Background(), openAIKeyRef))

	_, err := store.Get(context.Background(), openAIKeyRef)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStore(t.TempDir()).Put(ctx, openAIKeyRef, "sk-test")
	require.ErrorIs(t, err, context.Canceled)
}
