package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides access to the labnote SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".labnote", "labnote.db")
}

// Open opens (or creates) the database at path and ensures the schema
// exists. The parent directory is created if missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// EnsureSchema creates the session tables if they are missing. It is
// idempotent and safe to call on every start; once the tables exist it
// has no effect.
func (s *Store) EnsureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession persists a session with its notes and attachments in one
// transaction. Generated ids are threaded into child inserts: session id
// into each note, note id into each of its attachments. Either the whole
// tree is committed or nothing is. Returns the new session id.
//
// Sessions are immutable snapshots: saving the same content twice inserts
// two distinct rows.
func (s *Store) CreateSession(ctx context.Context, title string, createdAt time.Time, notes []Note) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, ErrEmptyTitle
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (title, created_at) VALUES (?, ?)",
		title, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}

	for _, note := range notes {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO notes (session_id, text) VALUES (?, ?)",
			sessionID, note.Text,
		)
		if err != nil {
			return 0, fmt.Errorf("insert note: %w", err)
		}
		noteID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("note id: %w", err)
		}

		for _, path := range note.Attachments {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO attachments (note_id, file_path) VALUES (?, ?)",
				noteID, path,
			); err != nil {
				return 0, fmt.Errorf("insert attachment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit session: %w", err)
	}
	return sessionID, nil
}

// ListSessions returns all sessions as id/title pairs, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title FROM sessions ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Title); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// LoadSession reconstructs a full session by id. Notes and attachments come
// back in insertion order, which is primary-key order since rows are never
// updated or deleted. Returns ErrSessionNotFound if no session matches.
func (s *Store) LoadSession(ctx context.Context, id int64) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, created_at FROM sessions WHERE id = ?", id,
	)

	var sess Session
	var createdAt string
	if err := row.Scan(&sess.ID, &sess.Title, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	sess.CreatedAt = t

	notes, err := s.notesForSession(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.Notes = notes

	return &sess, nil
}

// LoadLatestSession loads the session with the highest id. Returns
// ErrNoSessions when the store is empty.
func (s *Store) LoadLatestSession(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id FROM sessions ORDER BY id DESC LIMIT 1",
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoSessions
		}
		return nil, fmt.Errorf("scan latest session id: %w", err)
	}

	return s.LoadSession(ctx, id)
}

// notesForSession returns the ordered notes of a session with their
// attachment paths. Notes are fully materialized before attachments are
// queried so only one result set is open at a time.
func (s *Store) notesForSession(ctx context.Context, sessionID int64) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, text FROM notes WHERE session_id = ? ORDER BY id ASC",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.SessionID, &n.Text); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	for i := range notes {
		paths, err := s.attachmentsForNote(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
		notes[i].Attachments = paths
	}
	return notes, nil
}

func (s *Store) attachmentsForNote(ctx context.Context, noteID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT file_path FROM attachments WHERE note_id = ? ORDER BY id ASC",
		noteID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
