// Package store records redeemed punch-card secrets so a card can only be
// redeemed once.
package store

import (
	"context"
	"errors"
	"sync"
)

// SecretSize is the length of a punch-card secret in bytes.
const SecretSize = 32

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a set of redeemed card secrets. Implementations are safe for
// concurrent use.
type Store interface {
	// Add records secret and reports whether it was not already present.
	Add(ctx context.Context, secret [SecretSize]byte) (bool, error)
	// AddAll records every secret only if none of them is present. It reports
	// whether the secrets were recorded.
	AddAll(ctx context.Context, secrets ...[SecretSize]byte) (bool, error)
	Contains(ctx context.Context, secret [SecretSize]byte) (bool, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// Open returns a SQLite store for a non-empty dsn and an in-memory store
// otherwise.
func Open(dsn string) (Store, error) {
	if dsn == "" {
		return NewMemory(), nil
	}
	return NewSQLite(dsn)
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	used   map[[SecretSize]byte]struct{}
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{used: make(map[[SecretSize]byte]struct{})}
}

func (m *Memory) Add(_ context.Context, secret [SecretSize]byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	if _, ok := m.used[secret]; ok {
		return false, nil
	}
	m.used[secret] = struct{}{}
	return true, nil
}

func (m *Memory) AddAll(_ context.Context, secrets ...[SecretSize]byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	seen := make(map[[SecretSize]byte]struct{}, len(secrets))
	for _, s := range secrets {
		if _, ok := m.used[s]; ok {
			return false, nil
		}
		if _, ok := seen[s]; ok {
			return false, nil
		}
		seen[s] = struct{}{}
	}
	for s := range seen {
		m.used[s] = struct{}{}
	}
	return true, nil
}

func (m *Memory) Contains(_ context.Context, secret [SecretSize]byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.used[secret]
	return ok, nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.used), nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.used = nil
	return nil
}
