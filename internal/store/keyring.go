package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/99designs/keyring"

	"github.com/nhle/tasknest/internal/config"
)

const keyringService = "tasknest"

// KeyringKV stores each record as an item in a keyring. The file backend
// keeps items as encrypted files under a directory, which suits machines
// without a desktop secret service.
type KeyringKV struct {
	ring keyring.Keyring
}

// KeyringOptions configures NewKeyringKV.
type KeyringOptions struct {
	// Dir is where the file backend keeps its items.
	Dir string

	// Password unlocks the file backend. Empty means
	// config.DefaultKeyringPassword.
	Password string

	// Backends restricts the keyring implementations tried, in order.
	// Defaults to the file backend only.
	Backends []keyring.BackendType
}

// NewKeyringKV opens a keyring for the tasknest service.
func NewKeyringKV(opts KeyringOptions) (*KeyringKV, error) {
	backends := opts.Backends
	if len(backends) == 0 {
		backends = []keyring.BackendType{keyring.FileBackend}
	}
	password := opts.Password
	if password == "" {
		password = config.DefaultKeyringPassword
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              keyringService,
		AllowedBackends:          backends,
		FileDir:                  opts.Dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(password),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &KeyringKV{ring: ring}, nil
}

func (k *KeyringKV) Get(_ context.Context, key string) ([]byte, error) {
	item, err := k.ring.Get(key)
	if isMissing(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting keyring item %q: %w", key, err)
	}
	return item.Data, nil
}

func (k *KeyringKV) Put(_ context.Context, key string, value []byte) error {
	err := k.ring.Set(keyring.Item{
		Key:   key,
		Data:  value,
		Label: "TaskNest " + key,
	})
	if err != nil {
		return fmt.Errorf("setting keyring item %q: %w", key, err)
	}
	return nil
}

// PutMany writes entries one at a time. Keyrings have no transactions, so
// when a write fails the entries already written are rolled back to their
// previous values.
func (k *KeyringKV) PutMany(ctx context.Context, entries map[string][]byte) error {
	type previous struct {
		data    []byte
		existed bool
	}
	saved := make(map[string]previous, len(entries))
	for key := range entries {
		data, err := k.Get(ctx, key)
		switch {
		case err == nil:
			saved[key] = previous{data: data, existed: true}
		case errors.Is(err, ErrKeyNotFound):
			saved[key] = previous{}
		default:
			return err
		}
	}

	var written []string
	for key, value := range entries {
		if err := k.Put(ctx, key, value); err != nil {
			for _, w := range written {
				if p := saved[w]; p.existed {
					_ = k.Put(ctx, w, p.data)
				} else {
					_ = k.Delete(ctx, w)
				}
			}
			return err
		}
		written = append(written, key)
	}
	return nil
}

func (k *KeyringKV) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := k.ring.Remove(key); err != nil && !isMissing(err) {
			return fmt.Errorf("deleting keyring item %q: %w", key, err)
		}
	}
	return nil
}

func (k *KeyringKV) Close() error { return nil }

func isMissing(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}
