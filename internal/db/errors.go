package db

import "errors"

// Sentinel errors for store operations. These are part of the Store's public
// API and should be checked with errors.Is().
var (
	// ErrEmptyTitle indicates an attempt to save a session with a blank title.
	ErrEmptyTitle = errors.New("session title is empty")

	// ErrSessionNotFound indicates the requested session id does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoSessions indicates the store holds no sessions at all.
	ErrNoSessions = errors.New("no sessions in store")
)
