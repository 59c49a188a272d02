package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/globequiz/internal/globequiz"
)

// SQLiteStore keeps each session as a JSONB document. Mode and status are
// copied into columns for ad-hoc queries.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (globequiz.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM sessions WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return globequiz.Session{}, ErrNotFound
	}
	if err != nil {
		return globequiz.Session{}, fmt.Errorf("reading session %s: %w", id, err)
	}

	var sess globequiz.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return globequiz.Session{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return sess, nil
}

func (s *SQLiteStore) PutSession(ctx context.Context, sess globequiz.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", sess.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, mode, status, data, updated_at) VALUES (?, ?, ?, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET
		   mode = excluded.mode,
		   status = excluded.status,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		sess.ID, string(sess.Mode), string(sess.Status), string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing session %s: %w", sess.ID, err)
	}
	return nil
}

// Check satisfies health.Checker.
func (s *SQLiteStore) Check(ctx context.Context) error { return s.db.PingContext(ctx) }
