package intraline

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Aligner computes token-index ops between two token sequences. Ops must be
// ordered and partition both sequences with no gaps or overlaps.
type Aligner interface {
	Align(left, right []string) []Op
}

// Aligner names accepted by NewAligner.
const (
	AlignerDifflib = "difflib"
	AlignerMyers   = "myers"
)

// NewAligner returns the aligner registered under name. The timeout only
// applies to the myers aligner.
func NewAligner(name string, timeout time.Duration) (Aligner, error) {
	switch name {
	case AlignerDifflib, "":
		return DifflibAligner{}, nil
	case AlignerMyers:
		return MyersAligner{Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unknown aligner %q", name)
	}
}

// DifflibAligner aligns with difflib's SequenceMatcher (longest contiguous
// matching blocks, applied recursively). Automatic junk detection is off so
// frequent tokens such as spaces still anchor matches in long groups.
type DifflibAligner struct{}

func (DifflibAligner) Align(left, right []string) []Op {
	m := difflib.NewMatcherWithJunk(left, right, false, nil)
	codes := m.GetOpCodes()
	ops := make([]Op, 0, len(codes))
	for _, c := range codes {
		ops = append(ops, Op{
			Kind:       kindFromTag(c.Tag),
			LeftStart:  c.I1,
			LeftEnd:    c.I2,
			RightStart: c.J1,
			RightEnd:   c.J2,
		})
	}
	return ops
}

func kindFromTag(tag byte) OpKind {
	switch tag {
	case 'd':
		return OpDelete
	case 'i':
		return OpInsert
	case 'r':
		return OpReplace
	default:
		return OpEqual
	}
}

// MyersAligner aligns with diff-match-patch's Myers implementation. Each
// distinct token is encoded as one rune so the character diff operates on
// whole tokens; consecutive delete/insert runs are folded into a replace.
type MyersAligner struct {
	// Timeout bounds the diff; zero means no limit. On timeout the result
	// is still a valid, if coarser, partition.
	Timeout time.Duration
}

func (a MyersAligner) Align(left, right []string) []Op {
	codes := make(map[string]rune)
	lr, rr := encodeTokens(left, codes), encodeTokens(right, codes)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = a.Timeout
	diffs := dmp.DiffMainRunes(lr, rr, false)

	var ops []Op
	i, j := 0, 0
	del, ins := 0, 0
	flush := func() {
		if del == 0 && ins == 0 {
			return
		}
		kind := OpReplace
		switch {
		case ins == 0:
			kind = OpDelete
		case del == 0:
			kind = OpInsert
		}
		ops = append(ops, Op{Kind: kind, LeftStart: i, LeftEnd: i + del, RightStart: j, RightEnd: j + ins})
		i, j = i+del, j+ins
		del, ins = 0, 0
	}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			del += n
		case diffmatchpatch.DiffInsert:
			ins += n
		case diffmatchpatch.DiffEqual:
			flush()
			ops = append(ops, Op{Kind: OpEqual, LeftStart: i, LeftEnd: i + n, RightStart: j, RightEnd: j + n})
			i, j = i+n, j+n
		}
	}
	flush()
	return ops
}

// encodeTokens maps each token to a stable rune, skipping the surrogate
// block so every code is a valid rune.
func encodeTokens(tokens []string, codes map[string]rune) []rune {
	out := make([]rune, len(tokens))
	for k, tok := range tokens {
		r, ok := codes[tok]
		if !ok {
			r = rune(len(codes) + 1)
			if r >= 0xD800 {
				r += 0x800
			}
			codes[tok] = r
		}
		out[k] = r
	}
	return out
}
