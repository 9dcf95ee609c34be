// Package report renders a session as a paginated PDF document.
package report

import "strings"

// wrapLines greedily wraps text into lines of at most limit characters.
// A word is appended to the current line when it fits with a separating
// space; otherwise the line is flushed and the word starts a new one. A
// single word longer than the limit occupies its own line unsplit.
func wrapLines(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}

	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= limit:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
