// Package sqlite is a Store persisting thread messages in a local SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/checkmarble/zepstream"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const defaultContextSize = 20

var (
	_ zepstream.Store          = (*Sqlite)(nil)
	_ zepstream.ContextFetcher = (*Sqlite)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	thread_id  TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages (thread_id, created_at);
`

type Sqlite struct {
	db *sql.DB

	contextSize int
	now         func() time.Time
}

type Opt func(*Sqlite)

// WithContextSize sets how many of the latest messages are returned as the
// context of a thread.
func WithContextSize(size int) Opt {
	return func(s *Sqlite) {
		s.contextSize = size
	}
}

// WithClock replaces the function used to timestamp recorded messages.
func WithClock(now func() time.Time) Opt {
	return func(s *Sqlite) {
		s.now = now
	}
}

// New opens the database at path, ":memory:" included, and creates the
// messages table if needed.
func New(path string, opts ...Opt) (*Sqlite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}

	// SQLite has a single writer, and an in-memory database only lives as long
	// as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()

			return nil, errors.Wrapf(err, "could not set pragma '%s'", pragma)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, errors.Wrap(err, "could not create schema")
	}

	s := Sqlite{
		db:          db,
		contextSize: defaultContextSize,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return &s, nil
}

func (s *Sqlite) AppendMessage(ctx context.Context, threadId string, role zepstream.Role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, thread_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), threadId, string(role), content, s.now().UnixNano())

	if err != nil {
		return errors.Wrap(err, "could not insert message")
	}

	return nil
}

// Messages returns the latest messages of a thread, oldest first. A limit of
// zero or less returns all of them.
func (s *Sqlite) Messages(ctx context.Context, threadId string, limit int) ([]zepstream.Message, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread_id, role, content, created_at FROM (
			SELECT rowid, * FROM messages
			WHERE thread_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, rowid ASC
	`, threadId, limit)

	if err != nil {
		return nil, errors.Wrap(err, "could not query messages")
	}
	defer rows.Close()

	messages := make([]zepstream.Message, 0)

	for rows.Next() {
		var (
			msg       zepstream.Message
			createdAt int64
		)

		if err := rows.Scan(&msg.Id, &msg.ThreadId, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, errors.Wrap(err, "could not scan message")
		}

		msg.CreatedAt = time.Unix(0, createdAt)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read messages")
	}

	return messages, nil
}

func (s *Sqlite) ThreadContext(ctx context.Context, threadId string) (string, error) {
	messages, err := s.Messages(ctx, threadId, s.contextSize)
	if err != nil {
		return "", err
	}

	return zepstream.FormatContext(messages), nil
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}
