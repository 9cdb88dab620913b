package intraline

import (
	"strings"

	"github.com/zjrosen/intradiff/internal/diff"
)

// Side selects one half of a changed group.
type Side int

const (
	Left  Side = iota // removed / old
	Right             // added / new
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

func (s Side) owns(t diff.LineType) bool {
	switch t {
	case diff.LineBoth:
		return true
	case diff.LineRemove:
		return s == Left
	case diff.LineAdd:
		return s == Right
	default:
		return false
	}
}

// SideText joins the lines belonging to side (unchanged lines plus the side's
// own removed or added lines), each followed by "\n". Returns "" when no line
// qualifies.
func SideText(lines []diff.Line, side Side) string {
	var b strings.Builder
	for _, l := range lines {
		if side.owns(l.Type) {
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
