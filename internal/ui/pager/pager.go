// Package pager is the interactive terminal diff viewer behind `intradiff
// view`: a scrollable viewport over the terminal rendering, with file
// jumping, a layout toggle and live reload.
package pager

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/intraline"
	"github.com/zjrosen/intradiff/internal/keys"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/pubsub"
	"github.com/zjrosen/intradiff/internal/render"
	"github.com/zjrosen/intradiff/internal/ui/styles"
)

// statusBarHeight is the number of rows below the viewport.
const statusBarHeight = 1

// Reload is the payload of reload events: the re-parsed files, or the error
// that prevented parsing them.
type Reload struct {
	Files []diff.File
	Err   error
}

// Config wires the pager to the rest of the program.
type Config struct {
	Options  render.Options
	Computer *intraline.Computer
	// TerminalOptions are passed to every terminal renderer the pager builds.
	TerminalOptions []render.TerminalOption
	// Reloads delivers new diffs while watching; nil disables reloading.
	Reloads pubsub.Subscriber[Reload]
	// Logs delivers log entries; warnings and errors appear in the status bar.
	Logs pubsub.Subscriber[string]
}

// Model is the pager's bubbletea model.
type Model struct {
	files    []diff.File
	cfg      Config
	viewport viewport.Model
	help     help.Model
	keys     keys.PagerKeyMap

	fileStarts []int
	width      int
	height     int
	ready      bool
	showHelp   bool
	status     string

	reloads *pubsub.Listener[Reload]
	logs    *pubsub.Listener[string]
}

// New returns a pager over files. ctx bounds the event subscriptions.
func New(ctx context.Context, files []diff.File, cfg Config) Model {
	m := Model{
		files:    files,
		cfg:      cfg,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     keys.Pager,
	}
	if cfg.Reloads != nil {
		m.reloads = pubsub.NewListener(ctx, cfg.Reloads)
	}
	if cfg.Logs != nil {
		m.logs = pubsub.NewListener(ctx, cfg.Logs)
	}
	return m
}

// Init starts listening for reload and log events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reloads.Listen(), m.logs.Listen())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-statusBarHeight, 1)
		m.ready = true
		m.rerender(false)
		return m, nil

	case pubsub.Event[Reload]:
		if msg.Payload.Err != nil {
			// Keep showing the previous diff.
			m.status = "reload failed: " + msg.Payload.Err.Error()
		} else {
			m.files = msg.Payload.Files
			m.status = fmt.Sprintf("reloaded %d file(s)", len(m.files))
			m.rerender(true)
		}
		return m, m.reloads.Listen()

	case pubsub.Event[string]:
		if entry := strings.TrimSpace(msg.Payload); strings.Contains(entry, "[WARN]") || strings.Contains(entry, "[ERROR]") {
			m.status = entry
		}
		return m, m.logs.Listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.NextFile):
		m.viewport.SetYOffset(nextStart(m.fileStarts, m.viewport.YOffset))
	case key.Matches(msg, m.keys.PrevFile):
		m.viewport.SetYOffset(prevStart(m.fileStarts, m.viewport.YOffset))
	case key.Matches(msg, m.keys.ToggleMode):
		m.cfg.Options.Mode = m.cfg.Options.Mode.Toggle()
		m.status = "layout: " + string(m.cfg.Options.Mode)
		m.rerender(true)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// rerender renders the files at the current width. With keepPosition the
// viewport stays on the same file rather than the same line.
func (m *Model) rerender(keepPosition bool) {
	if !m.ready {
		return
	}
	file := currentFile(m.fileStarts, m.viewport.YOffset)

	opts := m.cfg.Options
	opts.Width = m.width
	r := render.NewTerminal(opts, m.cfg.Computer, m.cfg.TerminalOptions...)
	lines, starts := r.RenderFiles(context.Background(), m.files)
	if len(lines) == 0 {
		lines = []string{lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No changes to display")}
	}
	m.fileStarts = starts
	m.viewport.SetContent(strings.Join(lines, "\n"))
	log.Debug(log.CatUI, "pager rendered", "lines", len(lines), "files", len(starts), "mode", opts.Mode)

	if keepPosition && file >= 0 && file < len(starts) {
		m.viewport.SetYOffset(starts[file])
	}
}

// View renders the viewport and status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.statusBar()
}

func (m Model) statusBar() string {
	if m.showHelp {
		m.help.ShowAll = true
		m.help.Width = m.width
		return m.help.View(m.keys)
	}

	file := currentFile(m.fileStarts, m.viewport.YOffset)
	pos := fmt.Sprintf("file %d/%d", file+1, len(m.fileStarts))
	if len(m.fileStarts) == 0 {
		pos = "no files"
	}
	left := fmt.Sprintf("%s  %s  %3.0f%%", pos, m.cfg.Options.Mode, m.viewport.ScrollPercent()*100)
	if m.status != "" {
		left += "  " + m.status
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return styles.StatusBarStyle.MaxWidth(m.width).Render(left)
	}
	return styles.StatusBarStyle.MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// currentFile returns the index of the file shown at line offset, or -1.
func currentFile(starts []int, offset int) int {
	idx := -1
	for i, s := range starts {
		if s > offset {
			break
		}
		idx = i
	}
	return idx
}

// nextStart returns the first file start after offset, or offset itself
// when there is none.
func nextStart(starts []int, offset int) int {
	for _, s := range starts {
		if s > offset {
			return s
		}
	}
	return offset
}

// prevStart returns the last file start before offset, or 0.
func prevStart(starts []int, offset int) int {
	prev := 0
	for _, s := range starts {
		if s >= offset {
			break
		}
		prev = s
	}
	return prev
}
