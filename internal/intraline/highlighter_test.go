package intraline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/intradiff/internal/diff"
)

func TestHighlighter_UnifiedGroup(t *testing.T) {
	h := NewHighlighter(nil)
	g := diff.Group{Type: diff.GroupDelta, Lines: sortLines()}

	ops := h.ResetGroup(g)
	require.Len(t, ops, 3)

	var got []string
	var wholes []bool
	for _, l := range g.Lines {
		out, whole := h.Line(l, l.Text)
		got = append(got, out)
		wholes = append(wholes, whole)
	}
	require.Equal(t, []string{
		"# Sort the data",
		"<del>bubblesort</del>(arr)",
		"<ins>quicksort</ins>(arr)",
		"return arr",
	}, got)
	require.Equal(t, []bool{false, false, false, false}, wholes)
	require.Equal(t, 43, h.Left.Position())
	require.Equal(t, 42, h.Right.Position())
}

func TestHighlighter_WholeLines(t *testing.T) {
	h := NewHighlighter(nil)
	g := diff.Group{Type: diff.GroupDelta, Lines: []diff.Line{
		{Type: diff.LineRemove, Text: "alpha"},
		{Type: diff.LineAdd, Text: "omega"},
	}}
	h.ResetGroup(g)

	_, whole := h.Line(g.Lines[0], "alpha")
	require.True(t, whole)
	_, whole = h.Line(g.Lines[1], "omega")
	require.True(t, whole)
}

func TestHighlighter_NonDeltaGroupIsIdle(t *testing.T) {
	h := NewHighlighter(nil)
	h.ResetGroup(diff.Group{Type: diff.GroupDelta, Lines: []diff.Line{
		{Type: diff.LineRemove, Text: "a"},
		{Type: diff.LineAdd, Text: "b"},
	}})

	ops := h.ResetGroup(diff.Group{Type: diff.GroupBoth, Lines: []diff.Line{{Type: diff.LineBoth, Text: "a"}}})
	require.Nil(t, ops)
	require.Empty(t, h.Left.Pending())
	require.Empty(t, h.Right.Pending())

	out, whole := h.Line(diff.Line{Type: diff.LineBoth, Text: "a"}, "a")
	require.False(t, whole)
	require.Equal(t, "a", out)
}

func TestHighlighter_HeaderLinePassesThrough(t *testing.T) {
	h := NewHighlighter(nil)
	out, whole := h.Line(diff.Line{Type: diff.LineHeader, Text: "@@"}, "@@")
	require.False(t, whole)
	require.Equal(t, "@@", out)
	require.Zero(t, h.Left.Position())
}
