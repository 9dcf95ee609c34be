package report

import (
	"fmt"
	"path/filepath"
	"time"

	"labnote/internal/db"
)

// Page geometry in points. The values mirror the layout the report has
// always used: a fixed left margin for headers, deeper indents for note
// bodies and attachment bullets, and a bottom margin that triggers the
// page break.
const (
	topMargin    = 40.0
	bottomMargin = 100.0
	marginLeft   = 40.0
	indentBody   = 60.0
	indentBullet = 80.0

	titleAdvance  = 30.0
	headerAdvance = 20.0
	lineAdvance   = 18.0
	noteGap       = 30.0
)

// defaultColumns is the column budget for word-wrapping note text.
const defaultColumns = 80

type lineKind int

const (
	kindTitle lineKind = iota
	kindMeta
	kindEntryHeader
	kindBody
	kindAttachHeader
	kindBullet
)

// line is one positioned string on a page. X/Y are the text baseline
// origin in points from the top-left corner.
type line struct {
	X, Y float64
	Text string
	Kind lineKind
}

type page []line

// layoutPages lays the session out as positioned lines. The vertical
// cursor advances by a fixed amount per line; the page-break check runs
// once per note, after the note is placed, so the next note's header
// always starts above the bottom margin. A single long note can still
// overflow its page - the break is deliberately note-granular, not
// line-granular.
func layoutPages(title string, createdAt time.Time, notes []db.Note, columns int, pageHeight float64) []page {
	y := topMargin
	var pages []page
	var current page

	current = append(current, line{marginLeft, y, "Session report: " + title, kindTitle})
	y += titleAdvance
	current = append(current, line{marginLeft, y, "Date: " + createdAt.Format("2006-01-02 15:04"), kindMeta})
	y += titleAdvance

	for i, note := range notes {
		current = append(current, line{marginLeft, y, fmt.Sprintf("Entry %d:", i+1), kindEntryHeader})
		y += headerAdvance

		for _, text := range wrapLines(note.Text, columns) {
			current = append(current, line{indentBody, y, text, kindBody})
			y += lineAdvance
		}

		if len(note.Attachments) > 0 {
			current = append(current, line{indentBody, y, "Attachments:", kindAttachHeader})
			y += lineAdvance
			for _, path := range note.Attachments {
				current = append(current, line{indentBullet, y, "• " + filepath.Base(path), kindBullet})
				y += lineAdvance
			}
		}

		y += noteGap

		if y > pageHeight-bottomMargin {
			pages = append(pages, current)
			current = nil
			y = topMargin
		}
	}

	return append(pages, current)
}
