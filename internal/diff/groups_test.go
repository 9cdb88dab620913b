package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleHunk() Hunk {
	return Hunk{Lines: []Line{
		{Type: LineHeader, Text: "func main() {"},
		{Type: LineBoth, Text: "a", BeforeNumber: 1, AfterNumber: 1},
		{Type: LineRemove, Text: "b", BeforeNumber: 2},
		{Type: LineRemove, Text: "c", BeforeNumber: 3},
		{Type: LineAdd, Text: "B", AfterNumber: 2},
		{Type: LineBoth, Text: "d", BeforeNumber: 4, AfterNumber: 3},
		{Type: LineAdd, Text: "e", AfterNumber: 4},
	}}
}

func TestGroups(t *testing.T) {
	groups := Groups(sampleHunk())

	var types []GroupType
	var sizes []int
	for _, g := range groups {
		types = append(types, g.Type)
		sizes = append(sizes, len(g.Lines))
	}
	require.Equal(t, []GroupType{GroupHeader, GroupBoth, GroupDelta, GroupBoth, GroupDelta}, types)
	require.Equal(t, []int{1, 1, 3, 1, 1}, sizes)
	require.Equal(t, "B", groups[2].Lines[2].Text)
}

func TestGroups_Empty(t *testing.T) {
	require.Nil(t, Groups(Hunk{}))
}

func TestGroups_AppendDoesNotClobberHunk(t *testing.T) {
	h := sampleHunk()
	groups := Groups(h)

	_ = append(groups[1].Lines, Line{Text: "overwrite"})
	require.Equal(t, LineRemove, h.Lines[2].Type)
}

func TestAlign_Delta(t *testing.T) {
	g := Groups(sampleHunk())[2]

	pairs := Align(g)
	require.Len(t, pairs, 2)
	require.Equal(t, "b", pairs[0].Left.Text)
	require.Equal(t, "B", pairs[0].Right.Text)
	require.Equal(t, "c", pairs[1].Left.Text)
	require.Equal(t, LineBlank, pairs[1].Right.Type)
}

func TestAlign_AddOnly(t *testing.T) {
	g := Groups(sampleHunk())[4]

	pairs := Align(g)
	require.Len(t, pairs, 1)
	require.Equal(t, LineBlank, pairs[0].Left.Type)
	require.Equal(t, "e", pairs[0].Right.Text)
}

func TestAlign_BothAndHeader(t *testing.T) {
	groups := Groups(sampleHunk())

	header := Align(groups[0])
	require.Len(t, header, 1)
	require.Equal(t, LineHeader, header[0].Left.Type)
	require.Equal(t, LineBlank, header[0].Right.Type)

	both := Align(groups[1])
	require.Len(t, both, 1)
	require.Equal(t, both[0].Left, both[0].Right)
}

func TestLineType_String(t *testing.T) {
	require.Equal(t, "both", LineBoth.String())
	require.Equal(t, "add", LineAdd.String())
	require.Equal(t, "remove", LineRemove.String())
	require.Equal(t, "header", LineHeader.String())
	require.Equal(t, "blank", LineBlank.String())
	require.Equal(t, "delta", GroupDelta.String())
}
