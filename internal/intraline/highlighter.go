package intraline

import "github.com/zjrosen/intradiff/internal/diff"

// Default markers for changed spans.
const (
	DefaultRemoveStartTag = "<del>"
	DefaultRemoveEndTag   = "</del>"
	DefaultAddStartTag    = "<ins>"
	DefaultAddEndTag      = "</ins>"
)

// Highlighter runs the per-group pass: it computes the ops of each changed
// group and feeds the resulting ranges to one SideHighlighter per side.
type Highlighter struct {
	Computer *Computer
	Left     *SideHighlighter
	Right    *SideHighlighter
}

// NewHighlighter returns a Highlighter using the default markers.
func NewHighlighter(c *Computer) *Highlighter {
	if c == nil {
		c = NewComputer(nil, DefaultMaxGroupChars)
	}
	return &Highlighter{
		Computer: c,
		Left:     NewSideHighlighter(DefaultRemoveStartTag, DefaultRemoveEndTag),
		Right:    NewSideHighlighter(DefaultAddStartTag, DefaultAddEndTag),
	}
}

// ResetGroup prepares both sides for the lines of g and returns the ops it
// computed. Groups other than deltas have nothing to highlight and leave both
// sides idle.
func (h *Highlighter) ResetGroup(g diff.Group) []Op {
	if g.Type != diff.GroupDelta {
		h.Left.Reset(nil)
		h.Right.Reset(nil)
		return nil
	}
	ops := h.Computer.ComputeOps(g.Lines)
	left, right := AssignRanges(ops)
	h.Left.Reset(left)
	h.Right.Reset(right)
	return ops
}

// Line processes one line of the current group in unified order. Removed
// lines go through the left side and added lines through the right; lines
// present on both sides advance both, with the left result returned.
func (h *Highlighter) Line(l diff.Line, html string) (string, bool) {
	switch l.Type {
	case diff.LineRemove:
		return h.Left.ProcessLine(l.Text, html)
	case diff.LineAdd:
		return h.Right.ProcessLine(l.Text, html)
	case diff.LineBoth:
		h.Right.LineRanges(l.Text)
		return h.Left.ProcessLine(l.Text, html)
	default:
		return html, false
	}
}
