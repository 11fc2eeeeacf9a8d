// Package audit keeps the audit trail of a ledger in a SQLite database.
//
// Every line recorded by the ledger becomes a row. Rows are never updated
// or removed, which makes the database an append only history of all
// successful operations.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
	"github.com/tendermint/tendermint/libs/log"

	_ "modernc.org/sqlite"
)

const (
	// DefaultFile is the database file name used inside a home directory.
	DefaultFile = "audit.db"

	maxBusyTimeoutMs = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	message    TEXT NOT NULL
)`

// Entry is a single recorded audit line.
type Entry struct {
	ID        string
	Seq       int64
	CreatedAt time.Time
	Message   string
}

// Store is an EventSink persisting every line to SQLite.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger log.Logger
	now    func() time.Time
}

var _ disburse.EventSink = (*Store)(nil)

// Open returns a store backed by the database file at given path. The file
// and its directory are created if missing. A nil logger discards all
// entries.
func Open(path string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = disburse.DefaultLogger
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create db directory: %s", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(path)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open sqlite: %s", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ping sqlite: %s", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "set busy timeout: %s", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ensure schema: %s", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("module", "audit"),
		now:    time.Now,
	}, nil
}

// Record stores the message. Recording must never fail the operation that
// produced the line, so a failed write is only logged.
func (s *Store) Record(message string) {
	if _, err := s.Append(message); err != nil {
		s.logger.Error("cannot record audit line", "err", err, "line", message)
	}
}

// Append stores the message and returns the created entry.
func (s *Store) Append(message string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Message:   message,
	}
	res, err := s.db.Exec(
		`INSERT INTO events (id, created_at, message) VALUES (?, ?, ?)`,
		e.ID, e.CreatedAt.UnixNano(), e.Message,
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "insert: %s", err)
	}
	if e.Seq, err = res.LastInsertId(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "last insert id: %s", err)
	}
	return &e, nil
}

// Entries returns all recorded entries in the order they were recorded.
func (s *Store) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT seq, id, created_at, message FROM events ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query: %s", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.Seq, &e.ID, &created, &e.Message); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan: %s", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "rows: %s", err)
	}
	return entries, nil
}

// Lines returns all recorded messages in order.
func (s *Store) Lines() ([]string, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Message
	}
	return lines, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %s", err)
	}
	return nil
}
