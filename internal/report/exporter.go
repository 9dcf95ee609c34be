package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"labnote/internal/db"
)

// Exporter writes session reports as PDF files into Dir.
type Exporter struct {
	// Dir is the target directory. It is created if missing.
	Dir string
	// Columns is the word-wrap budget for note text. Zero means the
	// default of 80.
	Columns int
}

// NewExporter returns an exporter targeting dir with the default column
// budget.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Columns: defaultColumns}
}

// Export renders the session to a PDF and returns the resolved file path.
// The document is composed to a temporary file first and renamed into
// place only on full success, so a failed export never leaves a partial
// file at the final destination.
func (e *Exporter) Export(title string, createdAt time.Time, notes []db.Note) (string, error) {
	columns := e.Columns
	if columns <= 0 {
		columns = defaultColumns
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	for _, p := range layoutPages(title, createdAt, notes, columns, pageHeight) {
		pdf.AddPage()
		for _, l := range p {
			switch l.Kind {
			case kindTitle:
				pdf.SetFont("Arial", "B", 16)
				pdf.SetTextColor(0, 0, 0)
			case kindEntryHeader:
				pdf.SetFont("Arial", "B", 16)
				pdf.SetTextColor(0, 0, 139)
			case kindAttachHeader:
				pdf.SetFont("Arial", "", 12)
				pdf.SetTextColor(139, 0, 0)
			default:
				pdf.SetFont("Arial", "", 12)
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.Text(l.X, l.Y, tr(l.Text))
		}
	}

	if err := pdf.Error(); err != nil {
		return "", fmt.Errorf("compose report: %w", err)
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(e.Dir, ".report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}

	if err := pdf.Output(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close report: %w", err)
	}

	name := fmt.Sprintf("Report_%s_%s.pdf", safeFilename(title), time.Now().Format("20060102_150405"))
	path := filepath.Join(e.Dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize report: %w", err)
	}

	return path, nil
}

// safeFilename replaces characters that are invalid in file names with
// underscores.
func safeFilename(title string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, title)
}
