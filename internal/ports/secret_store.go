package ports

import (
	"context"
	"errors"
)

// ErrReadOnlyStore is returned by stores that can only serve reads.
var ErrReadOnlyStore = errors.New("secret store is read-only")

type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
