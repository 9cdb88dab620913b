package intraline

// Range is a half-open [Start, End) span of rune offsets into a side text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// AssignRanges splits rune-offset ops into the changed ranges of each side:
// deletes and replaces mark the left side, inserts and replaces the right.
// Op order is kept, so both results are sorted by Start.
func AssignRanges(ops []Op) (left, right []Range) {
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			left = append(left, Range{op.LeftStart, op.LeftEnd})
		case OpInsert:
			right = append(right, Range{op.RightStart, op.RightEnd})
		case OpReplace:
			left = append(left, Range{op.LeftStart, op.LeftEnd})
			right = append(right, Range{op.RightStart, op.RightEnd})
		}
	}
	return left, right
}
