package chain

import (
	"context"
	"errors"
	"fmt"

	envstore "github.com/bnema/noarh/internal/adapters/secrets/env"
	filestore "github.com/bnema/noarh/internal/adapters/secrets/file"
	passstore "github.com/bnema/noarh/internal/adapters/secrets/pass"
	"github.com/bnema/noarh/internal/ports"
)

type link struct {
	name  string
	store ports.SecretStore
}

// Store tries each backend in order. Reads stop at the first hit, writes
// land in the first writable backend, deletes reach every writable backend.
type Store struct {
	links []link
}

var _ ports.SecretStore = (*Store)(nil)

var errNoStores = errors.New("secret store chain is empty")

func NewStore(stores ...ports.SecretStore) (*Store, error) {
	if len(stores) == 0 {
		return nil, errNoStores
	}

	links := make([]link, 0, len(stores))
	for i, s := range stores {
		if s == nil {
			return nil, fmt.Errorf("secret store %d is nil", i)
		}
		links = append(links, link{name: backendName(i, len(stores)), store: s})
	}

	return &Store{links: links}, nil
}

// NewDefault chains environment variables, pass when enabled, then plain
// files under fileRoot.
func NewDefault(fileRoot string, usePass bool) (*Store, error) {
	stores := []ports.SecretStore{envstore.NewStore()}
	if usePass {
		stores = append(stores, passstore.NewStore())
	}
	stores = append(stores, filestore.NewStore(fileRoot))

	return NewStore(stores...)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, l := range s.links {
		value, err := l.store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("%s backend get failed: %w", l.name, err))
	}

	return "", combine(errs)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for _, l := range s.links {
		err := l.store.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldStop(err) {
			return err
		}
		if errors.Is(err, ports.ErrReadOnlyStore) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s backend put failed: %w", l.name, err))
	}
	if len(errs) == 0 {
		return ports.ErrReadOnlyStore
	}

	return combine(errs)
}

// Delete removes the key from every writable backend so a stale copy in a
// later backend cannot resurface on the next Get.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for _, l := range s.links {
		err := l.store.Delete(ctx, key)
		if err == nil {
			deleted = true
			continue
		}
		if shouldStop(err) {
			return err
		}
		if errors.Is(err, ports.ErrReadOnlyStore) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s backend delete failed: %w", l.name, err))
	}
	if len(errs) > 0 && !deleted {
		return combine(errs)
	}

	return nil
}

func combine(errs []error) error {
	err := errs[0]
	for _, next := range errs[1:] {
		err = fmt.Errorf("%w; %w", err, next)
	}
	return err
}

func backendName(i, total int) string {
	switch {
	case i == 0:
		return "primary"
	case i == total-1:
		return "fallback"
	default:
		return fmt.Sprintf("secondary %d", i)
	}
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
