package intraline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSideHighlighter_SortExample(t *testing.T) {
	s := NewSideHighlighter("<del>", "</del>")
	s.Reset([]Range{{16, 26}})

	out, whole := s.ProcessLine("# Sort the data", "# Sort the data")
	require.False(t, whole)
	require.Equal(t, "# Sort the data", out)
	require.Equal(t, 16, s.Position())

	out, whole = s.ProcessLine("bubblesort(arr)", `<span class="n">bubblesort</span>(arr)`)
	require.False(t, whole)
	require.Equal(t, `<span class="n"><del>bubblesort</del></span>(arr)`, out)

	out, whole = s.ProcessLine("return arr", "return arr")
	require.False(t, whole)
	require.Equal(t, "return arr", out)
	require.Empty(t, s.Pending())
	require.Equal(t, 43, s.Position())
}

func TestSideHighlighter_WholeLine(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset([]Range{{0, 6}})

	out, whole := s.ProcessLine("hello", "<b>hello</b>")
	require.True(t, whole)
	require.Equal(t, "<b>hello</b>", out, "whole lines are left for the container to mark")

	local, whole := s.LineRanges("next")
	require.False(t, whole)
	require.Nil(t, local)
}

func TestSideHighlighter_RangeSpanningLines(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset([]Range{{1, 6}})

	out, _ := s.ProcessLine("abc", "abc")
	require.Equal(t, "a<ins>bc</ins>", out)

	out, whole := s.ProcessLine("def", "def")
	require.False(t, whole)
	require.Equal(t, "<ins>de</ins>f", out)
}

func TestSideHighlighter_MiddleLineIsWhole(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset([]Range{{2, 11}})

	local, whole := s.LineRanges("abc")
	require.False(t, whole)
	require.Equal(t, []Range{{2, 4}}, local, "end clamped to text length plus slack")

	_, whole = s.LineRanges("def")
	require.True(t, whole)

	local, whole = s.LineRanges("ghij")
	require.False(t, whole)
	require.Equal(t, []Range{{0, 3}}, local)
}

func TestSideHighlighter_NewlineOnlyRangeNotRendered(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset([]Range{{5, 6}})

	out, whole := s.ProcessLine("hello", "hello")
	require.False(t, whole)
	require.Equal(t, "hello", out)
}

func TestSideHighlighter_SeveralRangesOnOneLine(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset([]Range{{0, 1}, {3, 5}, {9, 10}})

	local, whole := s.LineRanges("abcdef")
	require.False(t, whole)
	require.Equal(t, []Range{{0, 1}, {3, 5}}, local)

	local, _ = s.LineRanges("ghi")
	require.Equal(t, []Range{{2, 3}}, local)
}

func TestSideHighlighter_SlackConfigurable(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Slack = 0
	s.Reset([]Range{{2, 10}})

	local, _ := s.LineRanges("abc")
	require.Equal(t, []Range{{2, 3}}, local)
}

func TestSideHighlighter_IdleIsNoop(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset(nil)

	for _, line := range []string{"a", "", "<tag>"} {
		out, whole := s.ProcessLine(line, line)
		require.False(t, whole)
		require.Equal(t, line, out)
	}
	require.Equal(t, 2+1+6, s.Position())
}

func TestSideHighlighter_ResetRewinds(t *testing.T) {
	s := NewSideHighlighter("<ins>", "</ins>")
	s.Reset([]Range{{0, 1}})
	s.LineRanges("abc")
	require.Equal(t, 4, s.Position())

	s.Reset([]Range{{0, 1}})
	require.Zero(t, s.Position())
	local, _ := s.LineRanges("abc")
	require.Equal(t, []Range{{0, 1}}, local)
}
