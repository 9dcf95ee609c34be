package app

import "labnote/internal/db"

// SessionsLoadedMsg carries the session directory listing, newest first.
type SessionsLoadedMsg struct {
	Sessions []db.SessionInfo
}

// SessionLoadedMsg carries a fully reconstructed session from the store.
type SessionLoadedMsg struct {
	Session *db.Session
}

// SessionSavedMsg is sent after a successful save.
type SessionSavedMsg struct {
	ID int64
}

// ExportedMsg carries the path of a finished PDF export.
type ExportedMsg struct {
	Path string
}

// StoreErrorMsg is sent when a store or export operation fails.
type StoreErrorMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
