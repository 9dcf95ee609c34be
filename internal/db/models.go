// Package db provides SQLite persistence for labnote sessions.
package db

import "time"

// Session is one recorded working session with its notes.
type Session struct {
	ID        int64
	Title     string
	CreatedAt time.Time
	Notes     []Note
}

// Note is a single text entry within a session.
type Note struct {
	ID        int64
	SessionID int64
	Text      string
	// Attachments holds file paths in insertion order. Only the paths are
	// stored; the files themselves are never copied and may dangle.
	Attachments []string
}

// SessionInfo is the id/title pair used by session pickers.
type SessionInfo struct {
	ID    int64
	Title string
}
