package env

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
)

// Store resolves provider API keys from their conventional environment
// variables. It never writes.
type Store struct {
	lookup func(string) (string, bool)
	vars   map[string]string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(providers ...domain.Provider) *Store {
	if len(providers) == 0 {
		providers = []domain.Provider{domain.ProviderOpenAI, domain.ProviderGemini}
	}

	vars := make(map[string]string, len(providers))
	for _, p := range providers {
		vars[p.SecretRef()] = p.APIKeyEnv()
	}

	return &Store{lookup: os.LookupEnv, vars: vars}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, ok := s.vars[key]
	if !ok {
		return "", fmt.Errorf("no environment variable for %q: %w", key, domain.ErrSecretNotFound)
	}

	value, ok := s.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("env %s: %w", name, domain.ErrSecretNotFound)
	}

	return strings.TrimSpace(value), nil
}

func (s *Store) Put(context.Context, string, string) error {
	return ports.ErrReadOnlyStore
}

func (s *Store) Delete(context.Context, string) error {
	return ports.ErrReadOnlyStore
}
