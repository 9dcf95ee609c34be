// Package session holds the mutable working copy of the current session.
//
// Thread Safety: Not thread-safe - a Workspace belongs to a single
// interactive user and its caller must not overlap operations.
package session

import (
	"strings"
	"time"

	"labnote/internal/db"
)

// Workspace is the in-memory session being composed: a title, a creation
// timestamp, the committed notes, and a scratch buffer of attachments
// staged for the next note.
type Workspace struct {
	Title     string
	CreatedAt time.Time

	notes  []db.Note
	staged []string
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{}
}

// StartNew begins a fresh session: the creation timestamp is reset to now
// and committed notes and staged attachments are discarded.
func (w *Workspace) StartNew(title string) {
	w.Title = title
	w.CreatedAt = time.Now()
	w.notes = nil
	w.staged = nil
}

// StageAttachments appends paths to the staged buffer. Duplicates are
// allowed and preserved.
func (w *Workspace) StageAttachments(paths ...string) {
	w.staged = append(w.staged, paths...)
}

// HasStaged reports whether any attachments are staged for the next note.
func (w *Workspace) HasStaged() bool {
	return len(w.staged) > 0
}

// Staged returns a copy of the staged attachment paths.
func (w *Workspace) Staged() []string {
	out := make([]string, len(w.staged))
	copy(out, w.staged)
	return out
}

// CommitNote appends a note built from text and a snapshot of the staged
// buffer, then clears the buffer. When text is blank and nothing is staged
// the call is a no-op and returns false.
func (w *Workspace) CommitNote(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" && len(w.staged) == 0 {
		return false
	}

	attachments := make([]string, len(w.staged))
	copy(attachments, w.staged)

	w.notes = append(w.notes, db.Note{Text: text, Attachments: attachments})
	w.staged = nil
	return true
}

// Notes returns a copy of the committed notes in insertion order.
func (w *Workspace) Notes() []db.Note {
	out := make([]db.Note, len(w.notes))
	copy(out, w.notes)
	return out
}

// NoteCount returns the number of committed notes.
func (w *Workspace) NoteCount() int {
	return len(w.notes)
}

// SelectNote returns the attachments of the note at index. A stale index
// (negative, or past the end after the list shrank on reload) degrades to
// "none selected" rather than failing.
func (w *Workspace) SelectNote(index int) ([]string, bool) {
	if index < 0 || index >= len(w.notes) {
		return nil, false
	}
	return w.notes[index].Attachments, true
}

// Adopt replaces the workspace contents with a session loaded from storage.
// Any staged attachments are discarded.
func (w *Workspace) Adopt(title string, createdAt time.Time, notes []db.Note) {
	w.Title = title
	w.CreatedAt = createdAt
	w.notes = make([]db.Note, len(notes))
	copy(w.notes, notes)
	w.staged = nil
}
