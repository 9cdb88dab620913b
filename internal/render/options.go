// Package render turns parsed diffs into HTML pages or styled terminal text,
// with intraline highlighting of the changed spans inside each line.
package render

import (
	"context"
	"fmt"
	"io"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/intraline"
)

// Mode is the diff layout.
type Mode string

const (
	ModeUnified    Mode = "unified"
	ModeSideBySide Mode = "side-by-side"
)

// ParseMode validates a layout name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUnified, ModeSideBySide:
		return Mode(s), nil
	case "":
		return ModeUnified, nil
	default:
		return "", fmt.Errorf("unknown render mode %q (want %q or %q)", s, ModeUnified, ModeSideBySide)
	}
}

// Toggle returns the other layout.
func (m Mode) Toggle() Mode {
	if m == ModeSideBySide {
		return ModeUnified
	}
	return ModeSideBySide
}

// Markup is how one side's changes are marked in HTML.
type Markup struct {
	StartTag       string
	EndTag         string
	WholeLineClass string
}

// Options configures both renderers.
type Options struct {
	Mode     Mode
	Fragment bool
	// Style is the chroma style whose CSS is embedded in full pages.
	Style string
	Title string
	// Language overrides the syntax-highlighting language derived from each
	// file's extension.
	Language string

	Remove Markup
	Add    Markup
	// LineSlack is how far past a line's text a changed range may extend.
	LineSlack int

	Marks []intraline.Mark

	// Width is the terminal width; zero disables truncation and forces the
	// unified layout.
	Width int
}

// DefaultOptions returns the stock layout and markup.
func DefaultOptions() Options {
	return Options{
		Mode:  ModeUnified,
		Style: "github",
		Title: "intradiff",
		Remove: Markup{
			StartTag:       intraline.DefaultRemoveStartTag,
			EndTag:         intraline.DefaultRemoveEndTag,
			WholeLineClass: "del-whole",
		},
		Add: Markup{
			StartTag:       intraline.DefaultAddStartTag,
			EndTag:         intraline.DefaultAddEndTag,
			WholeLineClass: "ins-whole",
		},
		LineSlack: intraline.DefaultLineSlack,
	}
}

// Renderer writes a rendering of files to w.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, files []diff.File) error
}

// newHighlighter builds the per-render group highlighter from the markup
// options.
func newHighlighter(opts Options, computer *intraline.Computer) *intraline.Highlighter {
	hl := intraline.NewHighlighter(computer)
	hl.Left = intraline.NewSideHighlighter(opts.Remove.StartTag, opts.Remove.EndTag)
	hl.Right = intraline.NewSideHighlighter(opts.Add.StartTag, opts.Add.EndTag)
	hl.Left.Slack = opts.LineSlack
	hl.Right.Slack = opts.LineSlack
	return hl
}

// rowIndices maps each side-by-side row of g to the indices of its left and
// right lines within g.Lines; -1 marks a blank side.
func rowIndices(g diff.Group) [][2]int {
	pairs := diff.Align(g)
	rows := make([][2]int, len(pairs))

	if g.Type != diff.GroupDelta {
		for i, p := range pairs {
			rows[i] = [2]int{i, i}
			if p.Right.Type == diff.LineBlank {
				rows[i][1] = -1
			}
		}
		return rows
	}

	var removed, added []int
	for i, l := range g.Lines {
		switch l.Type {
		case diff.LineRemove:
			removed = append(removed, i)
		case diff.LineAdd:
			added = append(added, i)
		}
	}
	for i, p := range pairs {
		rows[i] = [2]int{-1, -1}
		if p.Left.Type != diff.LineBlank {
			rows[i][0] = removed[i]
		}
		if p.Right.Type != diff.LineBlank {
			rows[i][1] = added[i]
		}
	}
	return rows
}

func formatStats(f diff.File) string {
	if f.IsBinary {
		return "binary"
	}
	switch {
	case f.Additions > 0 && f.Deletions > 0:
		return fmt.Sprintf("+%d -%d", f.Additions, f.Deletions)
	case f.Additions > 0:
		return fmt.Sprintf("+%d", f.Additions)
	case f.Deletions > 0:
		return fmt.Sprintf("-%d", f.Deletions)
	default:
		return ""
	}
}
