package render

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/highlight"
	"github.com/zjrosen/intradiff/internal/intraline"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/templates"
	"github.com/zjrosen/intradiff/internal/tracing"
)

var pageTemplate = template.Must(template.ParseFS(templates.HTMLFS(), "page.html.tmpl"))

type pageData struct {
	Title    string
	RenderID string
	CSS      template.CSS
	Files    []fileData
}

type fileData struct {
	Path       string
	Stats      string
	Mode       Mode
	SideBySide bool
	Columns    int
	Binary     bool
	Rows       []rowData
}

type rowData struct {
	Kind   string
	Header string

	// unified
	OldNum string
	NewNum string
	Code   cellData

	// side-by-side
	Left  cellData
	Right cellData
}

type cellData struct {
	Num   string
	Kind  string
	Class string
	HTML  template.HTML
}

var blankCell = cellData{Kind: diff.LineBlank.String()}

// HTMLRenderer renders diffs as HTML tables.
type HTMLRenderer struct {
	opts        Options
	highlighter *highlight.Highlighter
	computer    *intraline.Computer
	tracer      trace.Tracer
	newID       func() string
}

// HTMLOption configures an HTMLRenderer.
type HTMLOption func(*HTMLRenderer)

// WithTracer records render spans on tracer.
func WithTracer(tracer trace.Tracer) HTMLOption {
	return func(r *HTMLRenderer) {
		r.tracer = tracer
	}
}

// WithRenderID replaces the random render id generator.
func WithRenderID(fn func() string) HTMLOption {
	return func(r *HTMLRenderer) {
		r.newID = fn
	}
}

// NewHTML returns an HTML renderer. A nil highlighter disables syntax
// highlighting; a nil computer uses the default aligner and size guard.
func NewHTML(opts Options, highlighter *highlight.Highlighter, computer *intraline.Computer, options ...HTMLOption) *HTMLRenderer {
	if highlighter == nil {
		highlighter = highlight.New(false)
	}
	if computer == nil {
		computer = intraline.NewComputer(nil, intraline.DefaultMaxGroupChars)
	}
	r := &HTMLRenderer{
		opts:        opts,
		highlighter: highlighter,
		computer:    computer,
		tracer:      tracing.Noop(),
		newID:       uuid.NewString,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Render writes a full page, or only the diff tables when Fragment is set.
func (r *HTMLRenderer) Render(ctx context.Context, w io.Writer, files []diff.File) error {
	page := pageData{Title: r.opts.Title, RenderID: r.newID()}

	ctx, span := r.tracer.Start(ctx, tracing.SpanRender, trace.WithAttributes(
		attribute.String(tracing.AttrRenderFormat, "html"),
		attribute.String(tracing.AttrRenderMode, string(r.opts.Mode)),
		attribute.String(tracing.AttrRenderID, page.RenderID),
		attribute.Int(tracing.AttrFileCount, len(files)),
	))
	defer span.End()

	name := "fragment"
	if !r.opts.Fragment {
		name = "page"
		css, err := r.css()
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		page.CSS = template.CSS(css)
	}

	for _, f := range files {
		page.Files = append(page.Files, r.file(ctx, f))
	}

	if err := pageTemplate.ExecuteTemplate(w, name, page); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("executing %s template: %w", name, err)
	}
	log.Debug(log.CatRender, "rendered html", "files", len(files), "mode", r.opts.Mode, "id", page.RenderID)
	return nil
}

func (r *HTMLRenderer) css() (string, error) {
	base, err := fs.ReadFile(templates.HTMLFS(), "diff.css")
	if err != nil {
		return "", fmt.Errorf("reading base css: %w", err)
	}
	if r.opts.Style == "" {
		return string(base), nil
	}
	chroma, err := highlight.CSS(r.opts.Style)
	if err != nil {
		return "", err
	}
	return string(base) + "\n" + chroma, nil
}

func (r *HTMLRenderer) file(ctx context.Context, f diff.File) fileData {
	lang := r.opts.Language
	if lang == "" {
		lang = f.Language()
	}
	ctx, span := r.tracer.Start(ctx, tracing.SpanRenderFile, trace.WithAttributes(
		attribute.String(tracing.AttrFilePath, f.DisplayPath()),
		attribute.String(tracing.AttrFileLanguage, lang),
		attribute.Int(tracing.AttrHunkCount, len(f.Hunks)),
	))
	defer span.End()

	fd := fileData{
		Path:       f.DisplayPath(),
		Stats:      formatStats(f),
		Mode:       r.opts.Mode,
		SideBySide: r.opts.Mode == ModeSideBySide,
		Columns:    3,
		Binary:     f.IsBinary,
	}
	if fd.SideBySide {
		fd.Columns = 4
	}
	if f.IsBinary {
		return fd
	}

	hl := newHighlighter(r.opts, r.computer)
	for _, h := range f.Hunks {
		left, right := r.highlightSides(ctx, lang, h)
		offset := 0
		for _, g := range diff.Groups(h) {
			fd.Rows = append(fd.Rows, r.groupRows(ctx, h, g, hl, left[offset:], right[offset:])...)
			offset += len(g.Lines)
		}
	}
	return fd
}

// highlightSides highlights the old and new text of a hunk separately, so
// each lexer sees coherent code, and returns the html of every hunk line
// from each side's point of view.
func (r *HTMLRenderer) highlightSides(ctx context.Context, lang string, h diff.Hunk) (left, right []string) {
	left = make([]string, len(h.Lines))
	right = make([]string, len(h.Lines))
	for _, side := range []struct {
		out  []string
		own  diff.LineType
		name string
	}{{left, diff.LineRemove, "left"}, {right, diff.LineAdd, "right"}} {
		var idx []int
		var texts []string
		for i, l := range h.Lines {
			if l.Type == diff.LineBoth || l.Type == side.own {
				idx = append(idx, i)
				texts = append(texts, l.Text)
			}
		}
		if len(idx) == 0 {
			continue
		}
		lines := r.highlighter.Lines(ctx, lang, strings.Join(texts, "\n"))
		if len(lines) != len(idx) {
			log.Warn(log.CatRender, "highlighter returned wrong line count", "side", side.name, "want", len(idx), "got", len(lines))
			lines = highlight.New(false).Lines(ctx, lang, strings.Join(texts, "\n"))
		}
		for k, i := range idx {
			side.out[i] = lines[k]
		}
	}
	return left, right
}

// processed is one group line after intraline and match marking.
type processed struct {
	html  string
	whole bool
}

func (r *HTMLRenderer) groupRows(ctx context.Context, h diff.Hunk, g diff.Group, hl *intraline.Highlighter, left, right []string) []rowData {
	_, span := r.tracer.Start(ctx, tracing.SpanRenderGroup, trace.WithAttributes(
		attribute.String(tracing.AttrGroupType, g.Type.String()),
		attribute.Int(tracing.AttrGroupLines, len(g.Lines)),
	))
	defer span.End()

	ops := hl.ResetGroup(g)
	span.SetAttributes(
		attribute.Int(tracing.AttrOpCount, len(ops)),
		attribute.Int(tracing.AttrLeftRanges, len(hl.Left.Pending())),
		attribute.Int(tracing.AttrRightRange, len(hl.Right.Pending())),
	)

	if g.Type == diff.GroupDelta && r.computer.OverLimit(g.Lines) {
		span.AddEvent(tracing.EventSizeGuard)
	}

	lines := make([]processed, len(g.Lines))
	for i, l := range g.Lines {
		src := left[i]
		if l.Type == diff.LineAdd {
			src = right[i]
		}
		var p processed
		p.html, p.whole = hl.Line(l, src)
		for _, m := range r.opts.Marks {
			p.html = intraline.MarkMatches(l.Text, p.html, m)
		}
		lines[i] = p
	}

	if g.Type == diff.GroupHeader {
		return []rowData{{Kind: diff.LineHeader.String(), Header: hunkHeader(h)}}
	}
	if r.opts.Mode == ModeSideBySide {
		return r.sideBySideRows(g, lines)
	}

	rows := make([]rowData, 0, len(g.Lines))
	for i, l := range g.Lines {
		rows = append(rows, rowData{
			Kind:   l.Type.String(),
			OldNum: lineNumber(l.BeforeNumber),
			NewNum: lineNumber(l.AfterNumber),
			Code:   r.cell(l, lines[i], 0),
		})
	}
	return rows
}

func (r *HTMLRenderer) sideBySideRows(g diff.Group, lines []processed) []rowData {
	idx := rowIndices(g)
	rows := make([]rowData, 0, len(idx))
	for _, pair := range idx {
		row := rowData{Kind: g.Type.String(), Left: blankCell, Right: blankCell}
		if i := pair[0]; i >= 0 {
			row.Left = r.cell(g.Lines[i], lines[i], g.Lines[i].BeforeNumber)
		}
		if i := pair[1]; i >= 0 {
			row.Right = r.cell(g.Lines[i], lines[i], g.Lines[i].AfterNumber)
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *HTMLRenderer) cell(l diff.Line, p processed, num int) cellData {
	c := cellData{
		Num:  lineNumber(num),
		Kind: l.Type.String(),
		// The html comes from the highlighter (escaped) plus configured
		// markup, so it is trusted here.
		HTML: template.HTML(p.html), // #nosec G203
	}
	if p.whole {
		switch l.Type {
		case diff.LineRemove:
			c.Class = r.opts.Remove.WholeLineClass
		case diff.LineAdd:
			c.Class = r.opts.Add.WholeLineClass
		}
	}
	return c
}

func lineNumber(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func hunkHeader(h diff.Hunk) string {
	if h.Header != "" {
		return h.Header
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}
