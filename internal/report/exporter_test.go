package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"labnote/internal/db"
)

var testCreatedAt = time.Date(2026, 5, 17, 9, 30, 0, 0, time.UTC)

func TestLayoutHeaderBlock(t *testing.T) {
	notes := []db.Note{
		{Text: "observed growth", Attachments: []string{"/data/plates/gel.png"}},
	}

	pages := layoutPages("Experiment 12", testCreatedAt, notes, defaultColumns, 842)
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}

	lines := pages[0]
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6: %+v", len(lines), lines)
	}

	want := []struct {
		x, y float64
		text string
		kind lineKind
	}{
		{40, 40, "Session report: Experiment 12", kindTitle},
		{40, 70, "Date: 2026-05-17 09:30", kindMeta},
		{40, 100, "Entry 1:", kindEntryHeader},
		{60, 120, "observed growth", kindBody},
		{60, 138, "Attachments:", kindAttachHeader},
		{80, 156, "• gel.png", kindBullet},
	}
	for i, w := range want {
		got := lines[i]
		if got.X != w.x || got.Y != w.y || got.Text != w.text || got.Kind != w.kind {
			t.Errorf("line %d = (%v, %v, %q, %d), want (%v, %v, %q, %d)",
				i, got.X, got.Y, got.Text, got.Kind, w.x, w.y, w.text, w.kind)
		}
	}
}

func TestLayoutAttachmentBulletsUseBaseName(t *testing.T) {
	notes := []db.Note{
		{Text: "n", Attachments: []string{"/long/nested/path/reads.fasta", "plain.csv"}},
	}

	pages := layoutPages("T", testCreatedAt, notes, defaultColumns, 842)

	var bullets []string
	for _, l := range pages[0] {
		if l.Kind == kindBullet {
			bullets = append(bullets, l.Text)
		}
	}
	if len(bullets) != 2 {
		t.Fatalf("got %d bullets, want 2", len(bullets))
	}
	if bullets[0] != "• reads.fasta" || bullets[1] != "• plain.csv" {
		t.Errorf("bullets = %q", bullets)
	}
}

func TestLayoutNoAttachmentsNoSubheader(t *testing.T) {
	pages := layoutPages("T", testCreatedAt, []db.Note{{Text: "bare"}}, defaultColumns, 842)

	for _, l := range pages[0] {
		if l.Kind == kindAttachHeader || l.Kind == kindBullet {
			t.Errorf("unexpected attachment line %q for a note without attachments", l.Text)
		}
	}
}

func TestLayoutPageBreakAtNoteBoundary(t *testing.T) {
	// Page height 300 breaks when the cursor passes 200. The header block
	// ends at y=100; each bare one-line note advances 20+18+30=68. Note 2
	// finishes at 236, past the limit, so note 3 must open page two at the
	// top margin.
	notes := []db.Note{
		{Text: "one"},
		{Text: "two"},
		{Text: "three"},
	}

	pages := layoutPages("T", testCreatedAt, notes, defaultColumns, 300)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	first := pages[1][0]
	if first.Text != "Entry 3:" {
		t.Errorf("first line of page 2 = %q, want %q", first.Text, "Entry 3:")
	}
	if first.Y != topMargin {
		t.Errorf("first line of page 2 at y=%v, want top margin %v", first.Y, topMargin)
	}
	if first.Kind != kindEntryHeader {
		t.Errorf("first line of page 2 kind = %d, want entry header", first.Kind)
	}

	// Entries 1 and 2 stay on page one.
	last := pages[0][len(pages[0])-1]
	if last.Text != "two" {
		t.Errorf("last line of page 1 = %q, want %q", last.Text, "two")
	}
}

func TestLayoutLongNoteNotRechecked(t *testing.T) {
	// A single note whose wrapped body runs past the bottom margin stays on
	// one page: the break check is per note, not per line.
	long := strings.Repeat("word ", 200)

	pages := layoutPages("T", testCreatedAt, []db.Note{{Text: long}}, 20, 300)
	if len(pages) != 2 {
		// One content page plus the empty page opened by the trailing break.
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if len(pages[1]) != 0 {
		t.Errorf("page 2 has %d lines, want 0", len(pages[1]))
	}

	var bodyLines int
	for _, l := range pages[0] {
		if l.Kind == kindBody {
			bodyLines++
		}
	}
	if bodyLines < 20 {
		t.Errorf("got %d body lines on page 1, want the whole note", bodyLines)
	}
}

func TestExportWritesPDF(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	notes := []db.Note{
		{Text: "first entry", Attachments: []string{"/tmp/a.png"}},
		{Text: "second entry"},
	}
	path, err := e.Export("Experiment 12", testCreatedAt, notes)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("path %q not in export dir %q", path, dir)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "Report_Experiment 12_") || !strings.HasSuffix(base, ".pdf") {
		t.Errorf("file name = %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("exported file does not start with a PDF header")
	}

	// No temp files may survive a successful export.
	leftovers, err := filepath.Glob(filepath.Join(dir, ".report-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestExportSanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	path, err := e.Export(`bad/title: why?`, testCreatedAt, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	base := filepath.Base(path)
	if strings.ContainsAny(base, `/\:*?"<>|`) {
		t.Errorf("file name %q contains invalid characters", base)
	}
	if !strings.HasPrefix(base, "Report_bad_title_ why__") {
		t.Errorf("file name = %q", base)
	}
}

func TestExportFailureLeavesNoFile(t *testing.T) {
	// Use a directory path that is already a regular file so the export
	// directory cannot be created.
	parent := t.TempDir()
	blocked := filepath.Join(parent, "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	e := NewExporter(filepath.Join(blocked, "exports"))
	if _, err := e.Export("T", testCreatedAt, nil); err == nil {
		t.Fatal("Export succeeded, want error")
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries in parent dir, want only the blocker", len(entries))
	}
}

func TestSafeFilename(t *testing.T) {
	got := safeFilename(`a/b\c:d*e?f"g<h>i|j`)
	want := "a_b_c_d_e_f_g_h_i_j"
	if got != want {
		t.Errorf("safeFilename = %q, want %q", got, want)
	}
}
