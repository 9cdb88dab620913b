package intraline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/intradiff/internal/diff"
)

func sortLines() []diff.Line {
	return []diff.Line{
		{Type: diff.LineBoth, Text: "# Sort the data"},
		{Type: diff.LineRemove, Text: "bubblesort(arr)"},
		{Type: diff.LineAdd, Text: "quicksort(arr)"},
		{Type: diff.LineBoth, Text: "return arr"},
	}
}

func TestSideText(t *testing.T) {
	lines := sortLines()
	require.Equal(t, "# Sort the data\nbubblesort(arr)\nreturn arr\n", SideText(lines, Left))
	require.Equal(t, "# Sort the data\nquicksort(arr)\nreturn arr\n", SideText(lines, Right))
}

func TestSideText_NothingQualifies(t *testing.T) {
	lines := []diff.Line{{Type: diff.LineAdd, Text: "x"}, {Type: diff.LineHeader, Text: "@@"}}
	require.Equal(t, "", SideText(lines, Left))
	require.Equal(t, "x\n", SideText(lines, Right))
}

func TestComputeOps_SortExample(t *testing.T) {
	want := []Op{
		{Kind: OpEqual, LeftStart: 0, LeftEnd: 16, RightStart: 0, RightEnd: 16},
		{Kind: OpReplace, LeftStart: 16, LeftEnd: 26, RightStart: 16, RightEnd: 25},
		{Kind: OpEqual, LeftStart: 26, LeftEnd: 43, RightStart: 25, RightEnd: 42},
	}
	aligners := map[string]Aligner{
		AlignerDifflib: DifflibAligner{},
		AlignerMyers:   MyersAligner{},
	}
	for name, a := range aligners {
		t.Run(name, func(t *testing.T) {
			c := NewComputer(a, DefaultMaxGroupChars)
			require.Equal(t, want, c.ComputeOps(sortLines()))
		})
	}
}

func TestOp_MarshalJSON(t *testing.T) {
	ops := NewComputer(nil, DefaultMaxGroupChars).ComputeOps(sortLines())
	data, err := json.Marshal(ops)
	require.NoError(t, err)
	require.JSONEq(t, `[["equal",0,16,0,16],["replace",16,26,16,25],["equal",26,43,25,42]]`, string(data))
}

type recordingAligner struct {
	calls int
}

func (a *recordingAligner) Align(left, right []string) []Op {
	a.calls++
	return DifflibAligner{}.Align(left, right)
}

func TestComputeOps_SizeGuard(t *testing.T) {
	tests := []struct {
		name  string
		lines []diff.Line
		want  Op
	}{
		{
			name: "both sides",
			lines: []diff.Line{
				{Type: diff.LineRemove, Text: "aaaaaaaa"},
				{Type: diff.LineAdd, Text: "aaaaaaab"},
			},
			want: Op{Kind: OpReplace, LeftEnd: 9, RightEnd: 9},
		},
		{
			name:  "added only",
			lines: []diff.Line{{Type: diff.LineAdd, Text: "xxxxxxxxxxxx"}},
			want:  Op{Kind: OpReplace, LeftEnd: 0, RightEnd: 13},
		},
		{
			name: "counts runes",
			lines: []diff.Line{
				{Type: diff.LineBoth, Text: "ééééé"},
				{Type: diff.LineRemove, Text: "ü"},
				{Type: diff.LineAdd, Text: "üüüüü"},
			},
			want: Op{Kind: OpReplace, LeftEnd: 8, RightEnd: 12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingAligner{}
			c := NewComputer(rec, 10)
			require.Equal(t, []Op{tt.want}, c.ComputeOps(tt.lines))
			require.Zero(t, rec.calls, "aligner must not run over the limit")
		})
	}
}

func TestComputeOps_AtLimitStillAligns(t *testing.T) {
	rec := &recordingAligner{}
	c := NewComputer(rec, 10)
	ops := c.ComputeOps([]diff.Line{
		{Type: diff.LineRemove, Text: "abcde"},
		{Type: diff.LineAdd, Text: "abcdf"},
	})
	require.Equal(t, 1, rec.calls)
	require.Equal(t, []Op{
		{Kind: OpReplace, LeftStart: 0, LeftEnd: 5, RightStart: 0, RightEnd: 5},
		{Kind: OpEqual, LeftStart: 5, LeftEnd: 6, RightStart: 5, RightEnd: 6},
	}, ops)
}

func TestComputeOps_GuardDisabled(t *testing.T) {
	rec := &recordingAligner{}
	c := NewComputer(rec, 0)
	c.ComputeOps([]diff.Line{{Type: diff.LineRemove, Text: strings.Repeat("a", 20000)}})
	require.Equal(t, 1, rec.calls)
}

func TestComputer_OverLimit(t *testing.T) {
	lines := []diff.Line{
		{Type: diff.LineRemove, Text: "abcde"},
		{Type: diff.LineAdd, Text: "abcdé"},
	}
	require.False(t, NewComputer(nil, 10).OverLimit(lines))
	require.True(t, NewComputer(nil, 9).OverLimit(lines))
	require.False(t, NewComputer(nil, 0).OverLimit(lines))
}

func TestMapOps(t *testing.T) {
	ops := []Op{
		{Kind: OpEqual, LeftStart: 0, LeftEnd: 1, RightStart: 0, RightEnd: 1},
		{Kind: OpInsert, LeftStart: 1, LeftEnd: 1, RightStart: 1, RightEnd: 3},
	}
	got := MapOps(ops, []int{0, 4}, []int{0, 4, 5, 9})
	require.Equal(t, []Op{
		{Kind: OpEqual, LeftStart: 0, LeftEnd: 4, RightStart: 0, RightEnd: 4},
		{Kind: OpInsert, LeftStart: 4, LeftEnd: 4, RightStart: 4, RightEnd: 9},
	}, got)
}

func TestNewAligner(t *testing.T) {
	a, err := NewAligner("", 0)
	require.NoError(t, err)
	require.IsType(t, DifflibAligner{}, a)

	a, err = NewAligner(AlignerMyers, time.Second)
	require.NoError(t, err)
	require.Equal(t, MyersAligner{Timeout: time.Second}, a)

	_, err = NewAligner("patience", 0)
	require.ErrorContains(t, err, "unknown aligner")
}

func TestMyersAligner_FoldsRuns(t *testing.T) {
	ops := MyersAligner{}.Align([]string{"a", "b", "c"}, []string{"a", "x", "y", "c", "d"})
	require.Equal(t, []Op{
		{Kind: OpEqual, LeftStart: 0, LeftEnd: 1, RightStart: 0, RightEnd: 1},
		{Kind: OpReplace, LeftStart: 1, LeftEnd: 2, RightStart: 1, RightEnd: 3},
		{Kind: OpEqual, LeftStart: 2, LeftEnd: 3, RightStart: 3, RightEnd: 4},
		{Kind: OpInsert, LeftStart: 3, LeftEnd: 3, RightStart: 4, RightEnd: 5},
	}, ops)
}

func drawLines(rt *rapid.T) []diff.Line {
	types := []diff.LineType{diff.LineBoth, diff.LineRemove, diff.LineAdd}
	n := rapid.IntRange(0, 8).Draw(rt, "n")
	lines := make([]diff.Line, n)
	for i := range lines {
		lines[i] = diff.Line{
			Type: rapid.SampledFrom(types).Draw(rt, "type"),
			Text: rapid.StringMatching(`[ab_ (é]{0,8}`).Draw(rt, "text"),
		}
	}
	return lines
}

// Ops must partition both side texts, and the ranges derived from them must
// be sorted and disjoint.
func TestComputeOps_Partition(t *testing.T) {
	for _, name := range []string{AlignerDifflib, AlignerMyers} {
		t.Run(name, func(t *testing.T) {
			a, err := NewAligner(name, 0)
			require.NoError(t, err)
			c := NewComputer(a, DefaultMaxGroupChars)

			rapid.Check(t, func(rt *rapid.T) {
				lines := drawLines(rt)
				ops := c.ComputeOps(lines)

				l, r := 0, 0
				for _, op := range ops {
					require.Equal(rt, l, op.LeftStart)
					require.Equal(rt, r, op.RightStart)
					require.GreaterOrEqual(rt, op.LeftEnd, op.LeftStart)
					require.GreaterOrEqual(rt, op.RightEnd, op.RightStart)
					l, r = op.LeftEnd, op.RightEnd
				}
				require.Equal(rt, len([]rune(SideText(lines, Left))), l)
				require.Equal(rt, len([]rune(SideText(lines, Right))), r)

				left, right := AssignRanges(ops)
				for _, ranges := range [][]Range{left, right} {
					for i, rg := range ranges {
						require.LessOrEqual(rt, rg.Start, rg.End)
						if i > 0 {
							require.LessOrEqual(rt, ranges[i-1].End, rg.Start)
						}
					}
				}
			})
		})
	}
}
