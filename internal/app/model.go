package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"labnote/internal/db"
	"labnote/internal/report"
	"labnote/internal/session"
	"labnote/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusSessions PanelFocus = iota
	FocusNotes
)

// inputMode tracks what the text prompt at the bottom is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputTitle
	inputNote
	inputAttach
)

// Model is the root bubbletea model for the labnote TUI.
type Model struct {
	// Collaborators
	store    *db.Store
	exporter *report.Exporter
	ws       *session.Workspace

	// Session directory
	sessions        []db.SessionInfo
	selectedSession int

	// Note list
	selectedNote int

	// Text prompt state
	mode  inputMode
	input string

	// UI state
	focusedPanel PanelFocus
	width        int
	height       int

	// Errors
	errorMessage   string
	errorTransient bool

	// Status
	statusText string
}

// New creates a new Model over an open store and exporter.
func New(store *db.Store, exporter *report.Exporter) Model {
	return Model{
		store:        store,
		exporter:     exporter,
		ws:           session.New(),
		selectedNote: -1,
		focusedPanel: FocusSessions,
		statusText:   "No session. Press n to start one.",
	}
}

// Init returns the initial command, which loads the session directory.
func (m Model) Init() tea.Cmd {
	return loadSessionsCmd(m.store)
}

// loadSessionsCmd reads the session directory, newest first.
func loadSessionsCmd(store *db.Store) tea.Cmd {
	return func() tea.Msg {
		sessions, err := store.ListSessions(context.Background())
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return SessionsLoadedMsg{Sessions: sessions}
	}
}

// loadSessionCmd reconstructs one session by id.
func loadSessionCmd(store *db.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		sess, err := store.LoadSession(context.Background(), id)
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return SessionLoadedMsg{Session: sess}
	}
}

// loadLatestCmd reconstructs the most recent session.
func loadLatestCmd(store *db.Store) tea.Cmd {
	return func() tea.Msg {
		sess, err := store.LoadLatestSession(context.Background())
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return SessionLoadedMsg{Session: sess}
	}
}

// saveSessionCmd persists the workspace contents as a new session row.
func saveSessionCmd(store *db.Store, title string, createdAt time.Time, notes []db.Note) tea.Cmd {
	return func() tea.Msg {
		id, err := store.CreateSession(context.Background(), title, createdAt, notes)
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return SessionSavedMsg{ID: id}
	}
}

// exportCmd renders the workspace contents to a PDF report.
func exportCmd(exporter *report.Exporter, title string, createdAt time.Time, notes []db.Note) tea.Cmd {
	return func() tea.Msg {
		path, err := exporter.Export(title, createdAt, notes)
		if err != nil {
			return StoreErrorMsg{Err: fmt.Errorf("export report: %w", err)}
		}
		return ExportedMsg{Path: path}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SessionsLoadedMsg:
		m.sessions = msg.Sessions
		if m.selectedSession >= len(m.sessions) {
			m.selectedSession = max(0, len(m.sessions)-1)
		}
		return m, nil

	case SessionLoadedMsg:
		sess := msg.Session
		m.ws.Adopt(sess.Title, sess.CreatedAt, sess.Notes)
		if m.ws.NoteCount() > 0 {
			m.selectedNote = 0
		} else {
			m.selectedNote = -1
		}
		m.focusedPanel = FocusNotes
		m.statusText = fmt.Sprintf("Loaded session %d: %s", sess.ID, sess.Title)
		return m, nil

	case SessionSavedMsg:
		m.statusText = fmt.Sprintf("Saved as session %d", msg.ID)
		return m, loadSessionsCmd(m.store)

	case ExportedMsg:
		m.statusText = "Exported " + filepath.Base(msg.Path)
		return m, nil

	case StoreErrorMsg:
		m.errorMessage = msg.Err.Error()
		m.errorTransient = true
		return m, clearTransientErrorCmd()

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeyTab:
		if m.focusedPanel == FocusSessions {
			m.focusedPanel = FocusNotes
		} else {
			m.focusedPanel = FocusSessions
		}
		return m, nil

	case KeyJ, KeyDown:
		if m.focusedPanel == FocusSessions {
			if m.selectedSession < len(m.sessions)-1 {
				m.selectedSession++
			}
		} else if m.selectedNote < m.ws.NoteCount()-1 {
			m.selectedNote++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.focusedPanel == FocusSessions {
			if m.selectedSession > 0 {
				m.selectedSession--
			}
		} else if m.selectedNote > 0 {
			m.selectedNote--
		}
		return m, nil

	case KeyEnter:
		if m.focusedPanel == FocusSessions && m.selectedSession < len(m.sessions) {
			return m, loadSessionCmd(m.store, m.sessions[m.selectedSession].ID)
		}
		return m, nil

	case KeyNewSession:
		m.mode = inputTitle
		m.input = ""
		return m, nil

	case KeyAddNote:
		if m.ws.Title == "" {
			return m.transientError("start a session first (n)")
		}
		m.mode = inputNote
		m.input = ""
		return m, nil

	case KeyAttach:
		if m.ws.Title == "" {
			return m.transientError("start a session first (n)")
		}
		m.mode = inputAttach
		m.input = ""
		return m, nil

	case KeySave:
		if m.ws.Title == "" {
			return m.transientError("nothing to save")
		}
		// Staged attachments not yet bound to a note are flushed into a
		// final note so the save does not silently drop them.
		if m.ws.HasStaged() {
			m.ws.CommitNote("")
		}
		return m, saveSessionCmd(m.store, m.ws.Title, m.ws.CreatedAt, m.ws.Notes())

	case KeyLoadLatest:
		return m, loadLatestCmd(m.store)

	case KeyExport:
		if m.ws.Title == "" {
			return m.transientError("nothing to export")
		}
		return m, exportCmd(m.exporter, m.ws.Title, m.ws.CreatedAt, m.ws.Notes())
	}

	return m, nil
}

// handleInputKey processes key presses while the text prompt is active.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc, KeyCtrlC:
		m.mode = inputNone
		m.input = ""
		return m, nil

	case KeyEnter:
		return m.confirmInput()

	case KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
		return m, nil
	}
}

// confirmInput applies the prompt text according to the active mode.
func (m Model) confirmInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input)
	mode := m.mode
	m.mode = inputNone
	m.input = ""

	switch mode {
	case inputTitle:
		if text == "" {
			return m, nil
		}
		m.ws.StartNew(text)
		m.selectedNote = -1
		m.focusedPanel = FocusNotes
		m.statusText = "Session: " + text
		return m, nil

	case inputNote:
		if m.ws.CommitNote(text) {
			m.selectedNote = m.ws.NoteCount() - 1
			m.statusText = fmt.Sprintf("Entry %d added", m.ws.NoteCount())
		}
		return m, nil

	case inputAttach:
		if text == "" {
			return m, nil
		}
		m.ws.StageAttachments(text)
		m.statusText = fmt.Sprintf("%d attachment(s) staged", len(m.ws.Staged()))
		return m, nil
	}

	return m, nil
}

func (m Model) transientError(text string) (tea.Model, tea.Cmd) {
	m.errorMessage = text
	m.errorTransient = true
	return m, clearTransientErrorCmd()
}

func (m Model) sessionPanelWidth() int {
	if m.width == 0 {
		return 30
	}
	return max(20, m.width*30/100)
}

func (m Model) notePanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.sessionPanelWidth()-3)
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + divider(1) + divider(1) + error/input(1) + footer(1) + padding
	reserved := 7
	return max(5, m.height-reserved)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.mode != inputNone {
		sections = append(sections, m.renderInputBar())
	} else if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("LABNOTE")

	var current string
	if m.ws.Title != "" {
		current = ui.DimStyle.Render(" — " + m.ws.Title +
			" (" + m.ws.CreatedAt.Format("2006-01-02 15:04") + ")")
	}

	return title + current
}

func (m Model) renderStatusBar() string {
	status := ui.StatusStyle.Render(m.statusText)

	var staged string
	if m.ws.HasStaged() {
		staged = "  " + ui.StagedBadgeStyle.Render(fmt.Sprintf("⎘ %d staged", len(m.ws.Staged())))
	}

	return status + staged
}

func (m Model) renderMainContent() string {
	sessionW := m.sessionPanelWidth()
	noteW := m.notePanelWidth()
	contentH := m.contentHeight()

	sessionPanel := m.renderSessionPanel(sessionW, contentH)
	notePanel := m.renderNotePanel(noteW, contentH)

	divider := ui.DividerStyle.Render("│")

	sessionLines := strings.Split(sessionPanel, "\n")
	noteLines := strings.Split(notePanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		var left, right string
		if i < len(sessionLines) {
			left = sessionLines[i]
		}
		left = padRight(left, sessionW)
		if i < len(noteLines) {
			right = noteLines[i]
		}
		rows = append(rows, left+divider+right)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderSessionPanel(width, height int) string {
	var header string
	if m.focusedPanel == FocusSessions {
		header = ui.PanelTitleActiveStyle.Render(fmt.Sprintf("SESSIONS (%d)", len(m.sessions)))
	} else {
		header = ui.PanelTitleStyle.Render(fmt.Sprintf("SESSIONS (%d)", len(m.sessions)))
	}

	var lines []string
	lines = append(lines, header)

	if len(m.sessions) == 0 {
		lines = append(lines, ui.DimStyle.Render("  No saved sessions"))
	} else {
		for i, info := range m.sessions {
			label := fmt.Sprintf("[%d] %s", info.ID, info.Title)
			var line string
			if i == m.selectedSession && m.focusedPanel == FocusSessions {
				line = ui.SelectedStyle.Render("> " + label)
			} else {
				line = "  " + label
			}
			lines = append(lines, truncateToWidth(line, width))
		}
	}

	return clampLines(lines, width, height)
}

func (m Model) renderNotePanel(width, height int) string {
	var header string
	if m.focusedPanel == FocusNotes {
		header = ui.PanelTitleActiveStyle.Render(fmt.Sprintf("NOTES (%d)", m.ws.NoteCount()))
	} else {
		header = ui.PanelTitleStyle.Render(fmt.Sprintf("NOTES (%d)", m.ws.NoteCount()))
	}

	var lines []string
	lines = append(lines, header)

	notes := m.ws.Notes()
	if m.ws.Title == "" {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Press n to start a session"))
	} else if len(notes) == 0 {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Press a to add a note"))
	} else {
		textWidth := max(10, width-6)
		for i, note := range notes {
			marker := "  "
			if i == m.selectedNote && m.focusedPanel == FocusNotes {
				marker = ui.SelectedStyle.Render("> ")
			}
			label := note.Text
			if label == "" {
				label = "(attachments only)"
			}
			if n := len(note.Attachments); n > 0 {
				label += fmt.Sprintf(" (%d files)", n)
			}
			wrapped := wrapText(label, textWidth)
			lines = append(lines, marker+fmt.Sprintf("%d. ", i+1)+wrapped[0])
			for _, wl := range wrapped[1:] {
				lines = append(lines, "     "+wl)
			}
		}

		// Attachment detail for the selected note. SelectNote tolerates a
		// stale index, so a shrunken list simply shows nothing here.
		if attachments, ok := m.ws.SelectNote(m.selectedNote); ok && len(attachments) > 0 {
			lines = append(lines, "")
			lines = append(lines, ui.AttachHeaderStyle.Render("  Attachments:"))
			for _, path := range attachments {
				lines = append(lines, ui.DimStyle.Render("   • "+filepath.Base(path)))
			}
		}
	}

	return clampLines(lines, width, height)
}

func (m Model) renderInputBar() string {
	var prompt string
	switch m.mode {
	case inputTitle:
		prompt = "New session title: "
	case inputNote:
		prompt = "Note text: "
	case inputAttach:
		prompt = "Attachment path: "
	}
	return ui.PromptStyle.Render(prompt) + m.input + ui.CursorStyle.Render("▌")
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var parts []string

	parts = append(parts, ui.FooterKeyStyle.Render("n")+ui.FooterDescStyle.Render(" New"))
	parts = append(parts, ui.FooterKeyStyle.Render("a")+ui.FooterDescStyle.Render(" Note"))
	parts = append(parts, ui.FooterKeyStyle.Render("f")+ui.FooterDescStyle.Render(" Attach"))
	parts = append(parts, ui.FooterKeyStyle.Render("s")+ui.FooterDescStyle.Render(" Save"))
	parts = append(parts, ui.FooterKeyStyle.Render("l")+ui.FooterDescStyle.Render(" Latest"))
	parts = append(parts, ui.FooterKeyStyle.Render("x")+ui.FooterDescStyle.Render(" Export"))
	parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Focus"))
	parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(parts, "  ")
}

// Helpers

// clampLines pads or trims lines to exactly height rows of width columns.
func clampLines(lines []string, width, height int) string {
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	// Get visible length (ignoring ANSI codes)
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	// Simple truncation for non-styled strings
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
