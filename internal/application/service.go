package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
)

var ErrEmptyAPIKey = errors.New("api key is empty")

// KeyService manages provider API keys in the secret store.
type KeyService struct {
	store ports.SecretStore
}

func NewKeyService(store ports.SecretStore) *KeyService {
	return &KeyService{store: store}
}

func (s *KeyService) SetAPIKey(ctx context.Context, provider domain.Provider, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyAPIKey
	}

	if err := s.store.Put(ctx, provider.SecretRef(), value); err != nil {
		return fmt.Errorf("store %s api key: %w", provider, err)
	}

	return nil
}

func (s *KeyService) APIKey(ctx context.Context, provider domain.Provider) (string, error) {
	value, err := s.store.Get(ctx, provider.SecretRef())
	if err != nil {
		return "", fmt.Errorf("load %s api key: %w", provider, err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("load %s api key: %w", provider, domain.ErrSecretNotFound)
	}

	return value, nil
}

func (s *KeyService) RemoveAPIKey(ctx context.Context, provider domain.Provider) error {
	if err := s.store.Delete(ctx, provider.SecretRef()); err != nil {
		return fmt.Errorf("delete %s api key: %w", provider, err)
	}

	return nil
}

// MaskKey keeps the first and last four characters of a key.
func MaskKey(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}

	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}
