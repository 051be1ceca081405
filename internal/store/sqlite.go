package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLite persists redeemed secrets in a SQLite database.
type SQLite struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewSQLite opens (and initializes) the database named by dsn. A plain file
// path is opened with WAL journaling; ":memory:" and "file:" DSNs are passed
// through unchanged.
func NewSQLite(dsn string) (*SQLite, error) {
	if dsn == "" {
		return nil, errors.New("sqlite dsn must not be empty")
	}

	source := dsn
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(filepath.Clean(dsn)); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to ensure store directory: %w", err)
			}
		}
		source = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
	}

	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("failed to open redeemed-card store: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	if err := bootstrap(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func bootstrap(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS redeemed (
			secret BLOB PRIMARY KEY NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("failed to create redeemed table: %w", err)
	}
	return nil
}

func (s *SQLite) Add(ctx context.Context, secret [SecretSize]byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO redeemed (secret) VALUES (?)`, secret[:])
	if err != nil {
		return false, fmt.Errorf("failed to record secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n == 1, nil
}

func (s *SQLite) AddAll(ctx context.Context, secrets ...[SecretSize]byte) (added bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if !added || err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, secret := range secrets {
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO redeemed (secret) VALUES (?)`, secret[:])
		if err != nil {
			return false, fmt.Errorf("failed to record secret: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to read insert result: %w", err)
		}
		if n != 1 {
			return false, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit secrets: %w", err)
	}
	return true, nil
}

func (s *SQLite) Contains(ctx context.Context, secret [SecretSize]byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM redeemed WHERE secret = ?`, secret[:]).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up secret: %w", err)
	}
	return true, nil
}

func (s *SQLite) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM redeemed`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count secrets: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
