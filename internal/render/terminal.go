package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/intraline"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/tracing"
	"github.com/zjrosen/intradiff/internal/ui/styles"
)

// lineNumberWidth is the width reserved for line numbers in the gutter.
const lineNumberWidth = 4

// Side-by-side layout constants
const (
	sideBySideSeparator   = "│"
	sideBySideMinColWidth = 40 // Minimum width for each column
	sideBySideGutterWidth = 5  // "NNNN " for line numbers
)

const tabWidth = 4

// Span kinds within a rendered line. Marks are numbered from spanMark.
const (
	spanPlain = iota
	spanChanged
	spanMark
)

type segment struct {
	text string
	kind int
}

type termStyles struct {
	add, del, context, hunk, file, gutter, muted lipgloss.Style
	wordAdd, wordDel                             lipgloss.Style
	marks                                        []lipgloss.Style
}

// TerminalRenderer renders diffs as ANSI-styled text.
type TerminalRenderer struct {
	opts     Options
	computer *intraline.Computer
	renderer *lipgloss.Renderer
	tracer   trace.Tracer
	marks    []intraline.Mark
	st       termStyles
}

// TerminalOption configures a TerminalRenderer.
type TerminalOption func(*TerminalRenderer)

// WithColorProfile renders with a fixed color profile instead of detecting
// the terminal's.
func WithColorProfile(p termenv.Profile) TerminalOption {
	return func(r *TerminalRenderer) {
		lr := lipgloss.NewRenderer(io.Discard)
		lr.SetColorProfile(p)
		lr.SetHasDarkBackground(true)
		r.renderer = lr
	}
}

// WithTerminalTracer records render spans on tracer.
func WithTerminalTracer(tracer trace.Tracer) TerminalOption {
	return func(r *TerminalRenderer) {
		r.tracer = tracer
	}
}

// NewTerminal returns a terminal renderer. Marks with an empty text or color
// are dropped with a warning.
func NewTerminal(opts Options, computer *intraline.Computer, options ...TerminalOption) *TerminalRenderer {
	if computer == nil {
		computer = intraline.NewComputer(nil, intraline.DefaultMaxGroupChars)
	}
	r := &TerminalRenderer{
		opts:     opts,
		computer: computer,
		renderer: lipgloss.DefaultRenderer(),
		tracer:   tracing.Noop(),
	}
	for _, o := range options {
		o(r)
	}
	for _, m := range opts.Marks {
		if m.Text == "" || m.Color == "" {
			log.Warn(log.CatRender, "ignoring mark without text or color", "text", m.Text, "color", m.Color)
			continue
		}
		r.marks = append(r.marks, m)
	}
	r.st = r.newStyles()
	return r
}

func (r *TerminalRenderer) newStyles() termStyles {
	s := r.renderer.NewStyle
	st := termStyles{
		add:     s().Foreground(styles.DiffAdditionColor),
		del:     s().Foreground(styles.DiffDeletionColor),
		context: s().Foreground(styles.DiffContextColor),
		hunk:    s().Foreground(styles.DiffHunkColor),
		file:    s().Foreground(styles.DiffFileColor).Bold(true),
		gutter:  s().Foreground(styles.TextMutedColor),
		muted:   s().Foreground(styles.TextMutedColor),
		wordAdd: s().Foreground(styles.DiffAdditionColor).Background(styles.DiffWordAdditionBgColor),
		wordDel: s().Foreground(styles.DiffDeletionColor).Background(styles.DiffWordDeletionBgColor),
	}
	for _, m := range r.marks {
		st.marks = append(st.marks, s().Background(lipgloss.Color(m.Color)))
	}
	return st
}

// Render writes every rendered line to w.
func (r *TerminalRenderer) Render(ctx context.Context, w io.Writer, files []diff.File) error {
	lines, _ := r.RenderFiles(ctx, files)
	if len(lines) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
		return fmt.Errorf("writing terminal output: %w", err)
	}
	return nil
}

// RenderFiles returns the rendered lines of files and the index of each
// file's header line within them.
func (r *TerminalRenderer) RenderFiles(ctx context.Context, files []diff.File) (lines []string, fileStarts []int) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRender, trace.WithAttributes(
		attribute.String(tracing.AttrRenderFormat, "terminal"),
		attribute.String(tracing.AttrRenderMode, string(r.layout())),
		attribute.Int(tracing.AttrFileCount, len(files)),
	))
	defer span.End()

	for _, f := range files {
		fileStarts = append(fileStarts, len(lines))
		lines = append(lines, r.file(ctx, f)...)
	}
	log.Debug(log.CatRender, "rendered terminal", "files", len(files), "lines", len(lines), "mode", r.layout())
	return lines, fileStarts
}

// layout is the mode actually used; side-by-side needs a known, wide
// enough terminal and falls back to unified otherwise.
func (r *TerminalRenderer) layout() Mode {
	minWidth := sideBySideGutterWidth + sideBySideMinColWidth + 1 + sideBySideGutterWidth + sideBySideMinColWidth
	if r.opts.Mode == ModeSideBySide && r.opts.Width >= minWidth {
		return ModeSideBySide
	}
	return ModeUnified
}

func (r *TerminalRenderer) file(ctx context.Context, f diff.File) []string {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRenderFile, trace.WithAttributes(
		attribute.String(tracing.AttrFilePath, f.DisplayPath()),
		attribute.Int(tracing.AttrHunkCount, len(f.Hunks)),
	))
	defer span.End()

	header := f.DisplayPath()
	if stats := formatStats(f); stats != "" {
		header += " " + stats
	}
	lines := []string{r.truncate(r.st.file.Render(header), r.opts.Width)}

	switch {
	case f.IsBinary:
		return append(lines, r.st.muted.Render("Binary file - cannot display diff"))
	case len(f.Hunks) == 0:
		return append(lines, r.st.muted.Render("No changes to display"))
	}

	hl := newHighlighter(r.opts, r.computer)
	for _, h := range f.Hunks {
		for _, g := range diff.Groups(h) {
			lines = append(lines, r.group(ctx, h, g, hl)...)
		}
	}
	return lines
}

func (r *TerminalRenderer) group(ctx context.Context, h diff.Hunk, g diff.Group, hl *intraline.Highlighter) []string {
	_, span := r.tracer.Start(ctx, tracing.SpanRenderGroup, trace.WithAttributes(
		attribute.String(tracing.AttrGroupType, g.Type.String()),
		attribute.Int(tracing.AttrGroupLines, len(g.Lines)),
	))
	defer span.End()

	ops := hl.ResetGroup(g)
	span.SetAttributes(attribute.Int(tracing.AttrOpCount, len(ops)))

	if g.Type == diff.GroupHeader {
		return []string{r.truncate(r.st.hunk.Render(hunkHeader(h)), r.opts.Width)}
	}

	segs := make([][]segment, len(g.Lines))
	for i, l := range g.Lines {
		var local []intraline.Range
		var whole bool
		switch l.Type {
		case diff.LineRemove:
			local, whole = hl.Left.LineRanges(l.Text)
		case diff.LineAdd:
			local, whole = hl.Right.LineRanges(l.Text)
		case diff.LineBoth:
			hl.Right.LineRanges(l.Text)
			hl.Left.LineRanges(l.Text)
		}
		segs[i] = r.segments(l.Text, local, whole)
	}

	if r.layout() == ModeSideBySide {
		return r.sideBySide(g, segs)
	}

	contentWidth := 0
	if r.opts.Width > 0 {
		contentWidth = max(r.opts.Width-(lineNumberWidth+3), 1)
	}
	out := make([]string, 0, len(g.Lines))
	for i, l := range g.Lines {
		lineStyle, wordStyle, prefix := r.lineStyles(l.Type)
		full := lineStyle.Render(prefix) + r.renderSegments(segs[i], lineStyle, wordStyle)
		out = append(out, r.st.gutter.Render(formatGutter(l.BeforeNumber, l.AfterNumber))+r.truncate(full, contentWidth))
	}
	return out
}

func (r *TerminalRenderer) sideBySide(g diff.Group, segs [][]segment) []string {
	sideWidth := (r.opts.Width - 1) / 2
	contentWidth := max(sideWidth-sideBySideGutterWidth, 1)

	var out []string
	for _, pair := range rowIndices(g) {
		left := r.sideCell(g, segs, pair[0], contentWidth, true)
		right := r.sideCell(g, segs, pair[1], contentWidth, false)
		out = append(out, left+r.st.muted.Render(sideBySideSeparator)+right)
	}
	return out
}

func (r *TerminalRenderer) sideCell(g diff.Group, segs [][]segment, i, contentWidth int, left bool) string {
	if i < 0 {
		return strings.Repeat(" ", sideBySideGutterWidth+contentWidth)
	}
	l := g.Lines[i]
	num := l.AfterNumber
	if left {
		num = l.BeforeNumber
	}
	gutter := strings.Repeat(" ", sideBySideGutterWidth)
	if num > 0 {
		gutter = fmt.Sprintf("%4d ", num)
	}
	lineStyle, wordStyle, _ := r.lineStyles(l.Type)
	content := r.truncate(r.renderSegments(segs[i], lineStyle, wordStyle), contentWidth)
	return r.st.gutter.Render(gutter) + padding.String(content, uint(contentWidth)) //nolint:gosec // contentWidth >= 1
}

func (r *TerminalRenderer) lineStyles(t diff.LineType) (line, word lipgloss.Style, prefix string) {
	switch t {
	case diff.LineAdd:
		return r.st.add, r.st.wordAdd, "+"
	case diff.LineRemove:
		return r.st.del, r.st.wordDel, "-"
	default:
		return r.st.context, r.st.context, " "
	}
}

// segments splits text into runs of equal span kind. Changed ranges are rune
// offsets local to the line; mark matches take precedence over them.
func (r *TerminalRenderer) segments(text string, local []intraline.Range, whole bool) []segment {
	runes := []rune(text)
	kinds := make([]int, len(runes))
	if whole {
		for i := range kinds {
			kinds[i] = spanChanged
		}
	}
	for _, rg := range local {
		for i := max(rg.Start, 0); i < min(rg.End, len(runes)); i++ {
			kinds[i] = spanChanged
		}
	}
	for k, m := range r.marks {
		for _, rg := range intraline.FindMatches(text, m.Text) {
			for i := rg.Start; i < rg.End; i++ {
				kinds[i] = spanMark + k
			}
		}
	}

	var segs []segment
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && kinds[j] == kinds[i] {
			j++
		}
		segs = append(segs, segment{text: string(runes[i:j]), kind: kinds[i]})
		i = j
	}
	return segs
}

func (r *TerminalRenderer) renderSegments(segs []segment, lineStyle, changedStyle lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segs {
		text := strings.ReplaceAll(s.text, "\t", strings.Repeat(" ", tabWidth))
		switch {
		case s.kind == spanPlain:
			b.WriteString(lineStyle.Render(text))
		case s.kind == spanChanged:
			b.WriteString(changedStyle.Render(text))
		default:
			b.WriteString(r.st.marks[s.kind-spanMark].Render(text))
		}
	}
	return b.String()
}

// truncate cuts s to width display cells; zero means unlimited.
func (r *TerminalRenderer) truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "")
}

func formatGutter(oldLineNum, newLineNum int) string {
	// Additions use new line number, deletions use old, context shows new
	if newLineNum > 0 {
		return fmt.Sprintf("%4d | ", newLineNum)
	} else if oldLineNum > 0 {
		return fmt.Sprintf("%4d | ", oldLineNum)
	}
	return "     | "
}
