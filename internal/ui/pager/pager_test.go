package pager

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/pubsub"
	"github.com/zjrosen/intradiff/internal/render"
)

const twoFiles = `diff --git a/a.py b/a.py
--- a/a.py
+++ b/a.py
@@ -1,3 +1,3 @@
 # Sort the data
-bubblesort(arr)
+quicksort(arr)
 return arr
diff --git a/b.py b/b.py
--- a/b.py
+++ b/b.py
@@ -1,3 +1,3 @@
 # Sort the data
-bubblesort(arr)
+mergesort(arr)
 return arr
`

func newTestModel(t *testing.T, width, height int) Model {
	t.Helper()
	files, err := diff.Parse(twoFiles)
	require.NoError(t, err)

	m := New(context.Background(), files, Config{
		Options:         render.DefaultOptions(),
		TerminalOptions: []render.TerminalOption{render.WithColorProfile(termenv.Ascii)},
	})
	return update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_BeforeSize(t *testing.T) {
	files, err := diff.Parse(twoFiles)
	require.NoError(t, err)
	m := New(context.Background(), files, Config{Options: render.DefaultOptions()})
	require.Equal(t, "Loading...", m.View())
}

func TestView_RendersDiff(t *testing.T) {
	m := newTestModel(t, 80, 20)

	view := m.View()
	require.Contains(t, view, "a.py +1 -1")
	require.Contains(t, view, "   2 | -bubblesort(arr)")
	require.Contains(t, view, "b.py +1 -1")
	require.Contains(t, view, "file 1/2")
	require.Equal(t, []int{0, 6}, m.fileStarts)
}

func TestUpdate_FileNavigation(t *testing.T) {
	m := newTestModel(t, 80, 4)

	m = update(t, m, keyMsg("n"))
	require.Equal(t, 6, m.viewport.YOffset)
	require.Contains(t, m.View(), "file 2/2")

	// No file after the last one.
	m = update(t, m, keyMsg("n"))
	require.Equal(t, 6, m.viewport.YOffset)

	m = update(t, m, keyMsg("N"))
	require.Equal(t, 0, m.viewport.YOffset)
}

func TestUpdate_Scrolling(t *testing.T) {
	m := newTestModel(t, 80, 4)

	m = update(t, m, keyMsg("j"))
	require.Equal(t, 1, m.viewport.YOffset)
	m = update(t, m, keyMsg("k"))
	require.Equal(t, 0, m.viewport.YOffset)
	m = update(t, m, keyMsg("G"))
	require.True(t, m.viewport.AtBottom())
	m = update(t, m, keyMsg("g"))
	require.Equal(t, 0, m.viewport.YOffset)
}

func TestUpdate_ToggleMode(t *testing.T) {
	m := newTestModel(t, 100, 20)
	require.NotContains(t, m.View(), "│")

	m = update(t, m, keyMsg("v"))
	require.Equal(t, render.ModeSideBySide, m.cfg.Options.Mode)
	require.Contains(t, m.View(), "│")
	require.Contains(t, m.View(), "layout: side-by-side")

	m = update(t, m, keyMsg("v"))
	require.Equal(t, render.ModeUnified, m.cfg.Options.Mode)
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(t, 80, 20)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_Reload(t *testing.T) {
	m := newTestModel(t, 80, 20)
	files, err := diff.Parse(twoFiles)
	require.NoError(t, err)
	files = files[:1]

	m = update(t, m, pubsub.Event[Reload]{Type: pubsub.ReloadedEvent, Payload: Reload{Files: files}})
	require.Equal(t, []int{0}, m.fileStarts)
	require.Contains(t, m.View(), "reloaded 1 file(s)")
	require.NotContains(t, m.View(), "b.py")
}

func TestUpdate_ReloadFailedKeepsDiff(t *testing.T) {
	m := newTestModel(t, 80, 20)

	m = update(t, m, pubsub.Event[Reload]{Type: pubsub.ReloadFailedEvent, Payload: Reload{Err: errors.New("malformed hunk header")}})
	require.Equal(t, []int{0, 6}, m.fileStarts)
	require.Contains(t, m.View(), "reload failed: malformed hunk header")
}

func TestUpdate_LogWarningsShowInStatus(t *testing.T) {
	m := newTestModel(t, 200, 20)

	m = update(t, m, pubsub.Event[string]{Type: pubsub.LoggedEvent, Payload: "2026-01-01T00:00:00 [DEBUG] [ui] noise\n"})
	require.NotContains(t, m.View(), "noise")

	m = update(t, m, pubsub.Event[string]{Type: pubsub.LoggedEvent, Payload: "2026-01-01T00:00:00 [WARN] [render] ignoring mark\n"})
	require.Contains(t, m.View(), "ignoring mark")
}

func TestUpdate_ListensForEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := pubsub.NewBroker[Reload]()
	m := New(ctx, nil, Config{Options: render.DefaultOptions(), Reloads: reloads})
	cmd := m.Init()
	require.NotNil(t, cmd)

	reloads.Publish(pubsub.ReloadedEvent, Reload{})
	msg := cmd()
	event, ok := msg.(pubsub.Event[Reload])
	require.True(t, ok)
	require.Equal(t, pubsub.ReloadedEvent, event.Type)
}

func TestUpdate_Help(t *testing.T) {
	m := newTestModel(t, 120, 20)
	m = update(t, m, keyMsg("?"))
	require.Contains(t, m.View(), "previous file")
}

func TestFileStarts(t *testing.T) {
	starts := []int{0, 6, 14}

	require.Equal(t, -1, currentFile(nil, 0))
	require.Equal(t, 0, currentFile(starts, 5))
	require.Equal(t, 1, currentFile(starts, 6))
	require.Equal(t, 2, currentFile(starts, 20))

	require.Equal(t, 6, nextStart(starts, 0))
	require.Equal(t, 14, nextStart(starts, 6))
	require.Equal(t, 20, nextStart(starts, 20))

	require.Equal(t, 0, prevStart(starts, 6))
	require.Equal(t, 6, prevStart(starts, 10))
	require.Equal(t, 0, prevStart(starts, 0))
}
