package diff

// Groups splits a hunk into header, unchanged and delta groups, preserving
// line order. A delta group is the maximal run of consecutive removed and
// added lines, in whatever interleaving the diff presented them.
func Groups(h Hunk) []Group {
	var groups []Group
	for i := 0; i < len(h.Lines); {
		gt := groupTypeOf(h.Lines[i].Type)
		j := i + 1
		for j < len(h.Lines) && groupTypeOf(h.Lines[j].Type) == gt && gt != GroupHeader {
			j++
		}
		groups = append(groups, Group{Type: gt, Lines: h.Lines[i:j:j]})
		i = j
	}
	return groups
}

func groupTypeOf(t LineType) GroupType {
	switch t {
	case LineHeader:
		return GroupHeader
	case LineAdd, LineRemove:
		return GroupDelta
	default:
		return GroupBoth
	}
}

// Pair is one row of a side-by-side layout. Sides without content carry a
// LineBlank line.
type Pair struct {
	Left  Line
	Right Line
}

// Align converts a group's lines into side-by-side rows:
//   - Unchanged lines appear on both sides
//   - Removed lines appear on the left, added lines on the right, paired
//     top to bottom, with the shorter side padded by blank lines
//   - Header lines appear on the left with a blank right
func Align(g Group) []Pair {
	if len(g.Lines) == 0 {
		return nil
	}

	switch g.Type {
	case GroupHeader:
		pairs := make([]Pair, 0, len(g.Lines))
		for _, l := range g.Lines {
			pairs = append(pairs, Pair{Left: l, Right: Line{Type: LineBlank}})
		}
		return pairs
	case GroupBoth:
		pairs := make([]Pair, 0, len(g.Lines))
		for _, l := range g.Lines {
			pairs = append(pairs, Pair{Left: l, Right: l})
		}
		return pairs
	}

	var removed, added []Line
	for _, l := range g.Lines {
		switch l.Type {
		case LineRemove:
			removed = append(removed, l)
		case LineAdd:
			added = append(added, l)
		}
	}

	rows := max(len(removed), len(added))
	pairs := make([]Pair, rows)
	for i := range rows {
		pairs[i].Left = Line{Type: LineBlank}
		pairs[i].Right = Line{Type: LineBlank}
		if i < len(removed) {
			pairs[i].Left = removed[i]
		}
		if i < len(added) {
			pairs[i].Right = added[i]
		}
	}
	return pairs
}
