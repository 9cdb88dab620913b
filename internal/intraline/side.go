package intraline

import "unicode/utf8"

// DefaultLineSlack lets a line-relative range extend one rune past the end of
// the line text, covering its newline separator.
const DefaultLineSlack = 1

// SideHighlighter tracks one side of a group while its lines are rendered in
// order. Reset it at the start of each group with that side's ranges; every
// rendered line of the side (unchanged lines included) must then go through
// LineRanges or ProcessLine exactly once.
type SideHighlighter struct {
	StartTag string
	EndTag   string
	// Slack is how far past the line text a clamped range may end.
	Slack int

	ranges   []Range
	position int
}

// NewSideHighlighter returns a highlighter wrapping changed spans with the
// given markup.
func NewSideHighlighter(startTag, endTag string) *SideHighlighter {
	return &SideHighlighter{StartTag: startTag, EndTag: endTag, Slack: DefaultLineSlack}
}

// Reset installs the ranges of a new group and rewinds to its first line.
func (s *SideHighlighter) Reset(ranges []Range) {
	s.ranges = ranges
	s.position = 0
}

// Position is the side-text offset of the next line.
func (s *SideHighlighter) Position() int {
	return s.position
}

// Pending returns the ranges not yet fully consumed.
func (s *SideHighlighter) Pending() []Range {
	return s.ranges
}

// LineRanges consumes one line of source text. It reports whether the whole
// line lies inside a changed range; otherwise it returns the changed ranges
// intersecting the line, relative to the line start and clamped to
// [0, len(line)+Slack].
func (s *SideHighlighter) LineRanges(sourceText string) (local []Range, whole bool) {
	n := utf8.RuneCountInString(sourceText)
	defer func() { s.position += n + 1 }()

	s.discardConsumed()
	if len(s.ranges) == 0 {
		return nil, false
	}

	if first := s.ranges[0]; first.Start <= s.position && first.End >= s.position+n {
		return nil, true
	}

	limit := n + s.Slack
	for _, r := range s.ranges {
		if r.Start > s.position+n {
			break
		}
		local = append(local, Range{
			Start: clamp(r.Start-s.position, 0, limit),
			End:   clamp(r.End-s.position, 0, limit),
		})
	}
	return local, false
}

// ProcessLine consumes one line and returns its html with changed spans
// wrapped in StartTag/EndTag. When the entire line is changed the html is
// returned untouched and whole is true; callers mark the line container
// instead.
func (s *SideHighlighter) ProcessLine(sourceText, html string) (out string, whole bool) {
	local, whole := s.LineRanges(sourceText)
	if whole || len(local) == 0 {
		return html, whole
	}
	return InsertTags(sourceText, html, local, s.StartTag, s.EndTag), false
}

// discardConsumed drops ranges that end at or before the current position.
// Ranges are sorted, so they can only ever be dropped from the front.
func (s *SideHighlighter) discardConsumed() {
	i := 0
	for i < len(s.ranges) && s.ranges[i].End <= s.position {
		i++
	}
	s.ranges = s.ranges[i:]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
