package intraline

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/intradiff/internal/log"
)

// maxEntityLen bounds how far past '&' we look for the closing ';'.
const maxEntityLen = 32

// InsertTags wraps each range of src (rune offsets, sorted) in startTag and
// endTag inside markup, the HTML rendering of src. markup may already contain
// tags, which count as zero characters, and entities, which count as one.
// Markers open right before the first character of a range and close right
// after its last one; any tags crossed in between are bracketed by
// endTag/startTag so the inserted markup never straddles existing elements.
// Ranges are clamped to src; empty ones are skipped.
func InsertTags(src, markup string, ranges []Range, startTag, endTag string) string {
	n := utf8.RuneCountInString(src)

	var b strings.Builder
	b.Grow(len(markup) + len(ranges)*(len(startTag)+len(endTag)))

	cur, pos := 0, 0
	for _, r := range ranges {
		start, end := max(r.Start, pos), min(r.End, n)
		if start >= end {
			continue
		}
		from := skipTags(markup, advance(markup, cur, start-pos))
		to := advance(markup, from, end-start)

		b.WriteString(markup[cur:from])
		b.WriteString(startTag)
		writeWrapped(&b, markup[from:to], startTag, endTag)
		b.WriteString(endTag)
		cur, pos = to, end
	}
	b.WriteString(markup[cur:])
	return b.String()
}

// advance moves past n characters of markup starting at byte index i. Tags
// before each character are skipped; tags after the last one are not.
func advance(markup string, i, n int) int {
	for ; n > 0; n-- {
		i = skipTags(markup, i)
		if i >= len(markup) {
			return len(markup)
		}
		i += charWidth(markup, i)
	}
	return i
}

// skipTags moves past any run of complete <...> tags at i. A '<' without a
// closing '>' is left in place and treated as text.
func skipTags(markup string, i int) int {
	for i < len(markup) && markup[i] == '<' {
		end := strings.IndexByte(markup[i:], '>')
		if end < 0 {
			return i
		}
		i += end + 1
	}
	return i
}

// charWidth is the byte width of the character at i: a whole entity such as
// "&lt;" or "&#39;", or a single UTF-8 rune.
func charWidth(markup string, i int) int {
	if markup[i] == '&' {
		if w := entityWidth(markup[i:]); w > 0 {
			return w
		}
	}
	_, size := utf8.DecodeRuneInString(markup[i:])
	return size
}

func entityWidth(s string) int {
	for k := 1; k < len(s) && k <= maxEntityLen; k++ {
		c := s[k]
		switch {
		case c == ';':
			if k == 1 {
				return 0
			}
			return k + 1
		case c == '#' && k == 1,
			'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		default:
			return 0
		}
	}
	return 0
}

// writeWrapped copies slice, closing and reopening the marker around every
// tag run inside it.
func writeWrapped(b *strings.Builder, slice, startTag, endTag string) {
	for len(slice) > 0 {
		i := strings.IndexByte(slice, '<')
		if i < 0 {
			b.WriteString(slice)
			return
		}
		j := skipTags(slice, i)
		if j == i {
			b.WriteString(slice[:i+1])
			slice = slice[i+1:]
			continue
		}
		b.WriteString(slice[:i])
		b.WriteString(endTag)
		b.WriteString(slice[i:j])
		b.WriteString(startTag)
		slice = slice[j:]
	}
}

// Mark is a search term to highlight with a background colour.
type Mark struct {
	Text  string
	Color string
}

// MarkMatches wraps every non-overlapping occurrence of m.Text in src with a
// <mark> element coloured m.Color, inside markup (the HTML of src). A mark
// with an empty text or colour is logged and ignored.
func MarkMatches(src, markup string, m Mark) string {
	if m.Text == "" || m.Color == "" {
		log.Warn(log.CatIntraline, "ignoring match highlight with empty text or color",
			"text", m.Text, "color", m.Color)
		return markup
	}

	ranges := FindMatches(src, m.Text)
	if len(ranges) == 0 {
		return markup
	}

	startTag := fmt.Sprintf(`<mark style="background-color:%s">`, html.EscapeString(m.Color))
	return InsertTags(src, markup, ranges, startTag, "</mark>")
}

// FindMatches returns the rune ranges of every non-overlapping occurrence of
// text in src, left to right. An empty text matches nothing.
func FindMatches(src, text string) []Range {
	if text == "" {
		return nil
	}
	var ranges []Range
	width := utf8.RuneCountInString(text)
	byteOff, runeOff := 0, 0
	for {
		i := strings.Index(src[byteOff:], text)
		if i < 0 {
			return ranges
		}
		runeOff += utf8.RuneCountInString(src[byteOff : byteOff+i])
		ranges = append(ranges, Range{runeOff, runeOff + width})
		runeOff += width
		byteOff += i + len(text)
	}
}
