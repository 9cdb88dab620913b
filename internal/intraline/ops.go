package intraline

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/log"
)

// DefaultMaxGroupChars is the group size (in runes, summed over all line
// texts) above which token alignment is skipped.
const DefaultMaxGroupChars = 10 * 1024

// OpKind is the kind of an edit operation.
type OpKind int

const (
	OpEqual OpKind = iota
	OpDelete
	OpInsert
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Op is an edit operation over two sequences. Left and right spans are
// half-open; the left span is empty for inserts and the right span is empty
// for deletes. Depending on context the indices are token indices or rune
// offsets.
type Op struct {
	Kind       OpKind
	LeftStart  int
	LeftEnd    int
	RightStart int
	RightEnd   int
}

// MarshalJSON encodes the op as a 5-tuple: ["replace",16,26,16,25].
func (o Op) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Kind.String(), o.LeftStart, o.LeftEnd, o.RightStart, o.RightEnd})
}

// MapOps translates token-index ops into rune-offset ops using the
// cumulative lengths of each side (see AccumulateLengths).
func MapOps(ops []Op, left, right []int) []Op {
	mapped := make([]Op, len(ops))
	for i, op := range ops {
		mapped[i] = Op{
			Kind:       op.Kind,
			LeftStart:  left[op.LeftStart],
			LeftEnd:    left[op.LeftEnd],
			RightStart: right[op.RightStart],
			RightEnd:   right[op.RightEnd],
		}
	}
	return mapped
}

// Computer turns a group of diff lines into rune-offset ops.
type Computer struct {
	Aligner Aligner
	// MaxGroupChars bounds the work done per group; larger groups are
	// reported as entirely replaced. Zero or less disables the bound.
	MaxGroupChars int
}

// NewComputer returns a Computer; a nil aligner means DifflibAligner.
func NewComputer(aligner Aligner, maxGroupChars int) *Computer {
	if aligner == nil {
		aligner = DifflibAligner{}
	}
	return &Computer{Aligner: aligner, MaxGroupChars: maxGroupChars}
}

// ComputeOps aligns the left and right side texts of lines and returns the
// resulting ops as rune offsets into those texts.
func (c *Computer) ComputeOps(lines []diff.Line) []Op {
	left := SideText(lines, Left)
	right := SideText(lines, Right)

	if total, over := c.overLimit(lines); over {
		log.Debug(log.CatIntraline, "group over size limit, marking whole block",
			"chars", total, "limit", c.MaxGroupChars)
		return wholeBlock(utf8.RuneCountInString(left), utf8.RuneCountInString(right))
	}

	aligner := c.Aligner
	if aligner == nil {
		aligner = DifflibAligner{}
	}
	lt, rt := Tokenize(left), Tokenize(right)
	return MapOps(aligner.Align(lt, rt), AccumulateLengths(lt), AccumulateLengths(rt))
}

// OverLimit reports whether lines exceed MaxGroupChars, in which case
// ComputeOps skips alignment.
func (c *Computer) OverLimit(lines []diff.Line) bool {
	_, over := c.overLimit(lines)
	return over
}

func (c *Computer) overLimit(lines []diff.Line) (int, bool) {
	if c.MaxGroupChars <= 0 {
		return 0, false
	}
	total := 0
	for _, l := range lines {
		total += utf8.RuneCountInString(l.Text)
	}
	return total, total > c.MaxGroupChars
}

// wholeBlock is the single op covering both sides entirely. It is always a
// replace, even when one side is empty, so callers see one shape.
func wholeBlock(leftLen, rightLen int) []Op {
	return []Op{{Kind: OpReplace, LeftEnd: leftLen, RightEnd: rightLen}}
}
