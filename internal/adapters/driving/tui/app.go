package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/margin-labs/margo/internal/adapters/driving/tui/components/margin"
	"github.com/margin-labs/margo/internal/adapters/driving/tui/components/status"
	"github.com/margin-labs/margo/internal/adapters/driving/tui/keymap"
	"github.com/margin-labs/margo/internal/adapters/driving/tui/messages"
	"github.com/margin-labs/margo/internal/adapters/driving/tui/styles"
	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/textdiff"
)

const (
	// marginPanelWidth is the outer width of the margin panel.
	marginPanelWidth = 34

	// statusTickInterval drives the status bar refresh, so checker
	// state transitions show without waiting for input.
	statusTickInterval = 500 * time.Millisecond
)

// App is the editor application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// The textarea owns the text the user types; after every input the
// app diffs the previous snapshot against the textarea's value and
// feeds the resulting change set to the checker. Effects dispatched
// by the checker arrive as MarkersUpdated messages and re-render the
// margin.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// buffer is the document view the checker reads.
	buffer *DocBuffer

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the editor keybindings.
	keymap *keymap.KeyMap

	// textarea is the editing surface.
	textarea textarea.Model

	// margin lists suggestions beside the editor.
	margin *margin.Panel

	// statusbar shows checker state and keybinding hints.
	statusbar *status.Bar

	// filePath is the document being edited.
	filePath string

	// lastText is the snapshot the next edit is diffed against.
	lastText string

	// editorHeight is the textarea height in rows.
	editorHeight int

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the editor for a document buffer. The buffer's text
// is the initial editor content.
func NewApp(ports *Ports, buffer *DocBuffer, filePath string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if buffer == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingBuffer)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Start writing..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetValue(buffer.Text())
	ta.Focus()

	return &App{
		ports:        ports,
		buffer:       buffer,
		styles:       s,
		keymap:       km,
		textarea:     ta,
		margin:       margin.NewPanel(s),
		statusbar:    status.NewBar(s, km),
		filePath:     filePath,
		lastText:     buffer.Text(),
		editorHeight: 24,
	}, nil
}

// Init implements tea.Model. The opened document counts as a change,
// so the first analysis cycle runs without waiting for a keystroke.
func (a *App) Init() tea.Cmd {
	a.ports.Checker.HandleUpdate(domain.ViewUpdate{DocChanged: true})

	return tea.Batch(
		textarea.Blink,
		tea.EnterAltScreen,
		tea.SetWindowTitle("margo - "+filepath.Base(a.filePath)),
		a.tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			a.ports.Checker.Destroy()
			return a, tea.Quit

		case keymap.Matches(msg.String(), a.keymap.Save):
			return a, a.saveFile()

		case keymap.Matches(msg.String(), a.keymap.ToggleMargin):
			a.margin.Toggle()
			a.layout()
			return a, nil
		}

		var cmd tea.Cmd
		a.textarea, cmd = a.textarea.Update(msg)
		a.syncBuffer()
		a.statusbar.SetStatus(a.ports.Checker.Status())
		return a, cmd

	case messages.MarkersUpdated:
		a.refreshMargin()
		a.statusbar.SetStatus(a.ports.Checker.Status())
		return a, nil

	case messages.FileSaved:
		if msg.Err != nil {
			a.statusbar.SetError("save failed: " + msg.Err.Error())
		} else {
			a.statusbar.SetMessage("saved " + filepath.Base(msg.Path))
		}
		return a, nil

	case messages.StatusTick:
		a.statusbar.SetStatus(a.ports.Checker.Status())
		return a, a.tick()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("margo") + a.styles.Muted.Render("  "+a.filePath)

	body := a.textarea.View()
	if a.margin.Visible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", a.margin.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, a.statusbar.View())
}

// Run starts the editor and blocks until it exits. The checker is
// destroyed on the way out, cancelling any in-flight analysis.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	a.buffer.SetNotify(p.Send)
	defer a.ports.Checker.Destroy()

	_, err := p.Run()
	return err
}

// tick schedules the next status refresh.
func (a *App) tick() tea.Cmd {
	return tea.Tick(statusTickInterval, func(t time.Time) tea.Msg {
		return messages.StatusTick{At: t}
	})
}

// layout distributes the terminal area between editor, margin and
// status bar.
func (a *App) layout() {
	marginWidth := 0
	if a.margin.Visible() {
		marginWidth = marginPanelWidth
		if marginWidth > a.width/2 {
			marginWidth = a.width / 2
		}
	}

	a.editorHeight = a.height - 2
	if a.editorHeight < 1 {
		a.editorHeight = 1
	}

	editorWidth := a.width - marginWidth - 1
	if editorWidth < 20 {
		editorWidth = 20
	}

	a.textarea.SetWidth(editorWidth)
	a.textarea.SetHeight(a.editorHeight)
	a.margin.SetDimensions(marginWidth, a.editorHeight)
	a.statusbar.SetWidth(a.width)
}

// syncBuffer reconciles the buffer with the textarea after an input
// and feeds the checker one update per transaction.
func (a *App) syncBuffer() {
	text := a.textarea.Value()
	docChanged := text != a.lastText

	var cs domain.ChangeSet
	if docChanged {
		cs = textdiff.Changes(a.lastText, text)
		editedFrom := len(text)
		if len(cs.Changes) > 0 {
			editedFrom = cs.Changes[0].From
		}
		a.buffer.SetText(text, editedFrom)
		a.lastText = text
	}

	viewportChanged := a.buffer.SetViewportLines(a.visibleLineRange())

	if docChanged || viewportChanged {
		a.statusbar.Clear()
		a.ports.Checker.HandleUpdate(domain.ViewUpdate{
			DocChanged:      docChanged,
			ViewportChanged: viewportChanged,
			Changes:         cs,
		})
	}
}

// visibleLineRange approximates the visible lines from the cursor row
// and editor height, padded a screen either side so partially visible
// lines are always covered.
func (a *App) visibleLineRange() (int, int) {
	cursor := a.textarea.Line() + 1
	return cursor - a.editorHeight, cursor + a.editorHeight
}

// refreshMargin rebuilds the margin entries from the current marker
// set. Markers whose positions fell off the document since their
// cycle ran are skipped; re-analysis replaces them.
func (a *App) refreshMargin() {
	decorations := a.buffer.Markers().Decorations()

	entries := make([]margin.Entry, 0, len(decorations))
	for _, d := range decorations {
		line, err := a.buffer.LineAt(d.From)
		if err != nil {
			continue
		}
		latest := d.Markers[len(d.Markers)-1]
		entries = append(entries, margin.Entry{
			Line:        line.Number,
			Suggestions: latest.Suggestions,
		})
	}
	a.margin.SetEntries(entries)
}

// saveFile writes the buffer to disk, keeping the file's permissions
// when it already exists.
func (a *App) saveFile() tea.Cmd {
	text := a.buffer.Text()
	path := a.filePath

	return func() tea.Msg {
		perm := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(path, []byte(text), perm); err != nil {
			return messages.FileSaved{Path: path, Err: err}
		}
		return messages.FileSaved{Path: path, Err: nil}
	}
}

// CurrentText returns the editor content.
func (a *App) CurrentText() string {
	return a.textarea.Value()
}

// Buffer returns the document buffer the checker reads.
func (a *App) Buffer() *DocBuffer {
	return a.buffer
}

// MarginEntries returns the current margin content.
func (a *App) MarginEntries() []margin.Entry {
	return a.margin.Entries()
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.layout()
}
