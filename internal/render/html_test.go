package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/highlight"
	"github.com/zjrosen/intradiff/internal/intraline"
	"github.com/zjrosen/intradiff/internal/tracing"
)

func renderHTML(t *testing.T, opts Options, files []diff.File, options ...HTMLOption) string {
	t.Helper()
	options = append([]HTMLOption{WithRenderID(func() string { return "test-id" })}, options...)
	r := NewHTML(opts, highlight.New(false), nil, options...)
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, files))
	return buf.String()
}

func fragmentOptions() Options {
	opts := DefaultOptions()
	opts.Fragment = true
	return opts
}

func TestHTML_UnifiedRows(t *testing.T) {
	out := renderHTML(t, fragmentOptions(), parse(t, sortDiff))

	require.Contains(t, out, `<div class="intradiff" data-render-id="test-id">`)
	require.Contains(t, out, `<table class="diff unified" data-path="sort.py">`)
	require.Contains(t, out, `<span class="stats">+1 -1</span>`)
	require.Contains(t, out, `<tr class="header"><td colspan="3">@@ -10,4 +10,4 @@ def main():</td></tr>`)
	require.Contains(t, out, `<tr class="both"><td class="num">10</td><td class="num">10</td><td class="code both"># Sort the data</td></tr>`)
	require.Contains(t, out, `<tr class="remove"><td class="num">11</td><td class="num"></td><td class="code remove"><del>bubblesort</del>(arr)</td></tr>`)
	require.Contains(t, out, `<tr class="add"><td class="num"></td><td class="num">11</td><td class="code add"><ins>quicksort</ins>(arr)</td></tr>`)
	require.NotContains(t, out, "<!DOCTYPE html>")
}

func TestHTML_SideBySideRows(t *testing.T) {
	opts := fragmentOptions()
	opts.Mode = ModeSideBySide
	out := renderHTML(t, opts, parse(t, sortDiff))

	require.Contains(t, out, `<table class="diff side-by-side" data-path="sort.py">`)
	require.Contains(t, out, `<tr class="header"><td colspan="4">`)
	require.Contains(t, out, `<tr class="delta"><td class="num">11</td><td class="code remove"><del>bubblesort</del>(arr)</td><td class="num">11</td><td class="code add"><ins>quicksort</ins>(arr)</td></tr>`)
	require.Contains(t, out, `<tr class="both"><td class="num">12</td><td class="code both">return arr</td><td class="num">12</td><td class="code both">return arr</td></tr>`)
}

func TestHTML_WholeLineUsesClass(t *testing.T) {
	input := `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,1 @@
 keep
-gone
`
	opts := fragmentOptions()
	opts.Mode = ModeSideBySide
	out := renderHTML(t, opts, parse(t, input))

	require.Contains(t, out, `<tr class="delta"><td class="num">2</td><td class="code remove del-whole">gone</td><td class="num"></td><td class="code blank"></td></tr>`)
}

func TestHTML_CustomMarkup(t *testing.T) {
	opts := fragmentOptions()
	opts.Remove = Markup{StartTag: `<span class="old">`, EndTag: "</span>"}
	opts.Add = Markup{StartTag: `<span class="new">`, EndTag: "</span>"}
	out := renderHTML(t, opts, parse(t, sortDiff))

	require.Contains(t, out, `<span class="old">bubblesort</span>(arr)`)
	require.Contains(t, out, `<span class="new">quicksort</span>(arr)`)
}

func TestHTML_Marks(t *testing.T) {
	opts := fragmentOptions()
	opts.Marks = []intraline.Mark{{Text: "arr", Color: "yellow"}}
	out := renderHTML(t, opts, parse(t, sortDiff))

	require.Contains(t, out, `<del>bubblesort</del>(<mark style="background-color:yellow">arr</mark>)`)
	require.Contains(t, out, `return <mark style="background-color:yellow">arr</mark>`)
}

func TestHTML_EscapesSource(t *testing.T) {
	input := `diff --git a/a.html b/a.html
--- a/a.html
+++ b/a.html
@@ -1 +1 @@
-<b>old</b>
+<b>new</b>
`
	out := renderHTML(t, fragmentOptions(), parse(t, input))

	require.Contains(t, out, `&lt;b&gt;<del>old</del>&lt;/b&gt;`)
	require.Contains(t, out, `&lt;b&gt;<ins>new</ins>&lt;/b&gt;`)
}

func TestHTML_BinaryAndEmptyFiles(t *testing.T) {
	files := []diff.File{
		{OldPath: "img.png", NewPath: "img.png", IsBinary: true},
		{OldPath: "run.sh", NewPath: "run.sh"},
	}
	out := renderHTML(t, fragmentOptions(), files)

	require.Contains(t, out, "Binary file not shown")
	require.Contains(t, out, `<span class="stats">binary</span>`)
	require.Contains(t, out, "No content changes")
}

func TestHTML_FullPage(t *testing.T) {
	out := renderHTML(t, DefaultOptions(), parse(t, sortDiff))

	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, "<title>intradiff</title>")
	require.Contains(t, out, ".del-whole")
	require.Contains(t, out, ".chroma")
}

func TestHTML_UnknownStyle(t *testing.T) {
	opts := DefaultOptions()
	opts.Style = "no-such-style"
	r := NewHTML(opts, nil, nil)

	var buf bytes.Buffer
	require.Error(t, r.Render(context.Background(), &buf, parse(t, sortDiff)))
}

func TestHTML_SyntaxHighlightingKeepsIntraline(t *testing.T) {
	r := NewHTML(fragmentOptions(), highlight.New(true), nil, WithRenderID(func() string { return "x" }))
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, parse(t, sortDiff)))

	out := buf.String()
	require.Contains(t, out, "<del>")
	require.Contains(t, out, "<ins>")
	require.Contains(t, out, `<span class="`)
}

func TestHTML_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	computer := intraline.NewComputer(nil, 10)
	r := NewHTML(fragmentOptions(), nil, computer,
		WithRenderID(func() string { return "x" }),
		WithTracer(tp.Tracer("test")))
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, parse(t, sortDiff)))

	names := map[string]int{}
	guarded := false
	for _, s := range recorder.Ended() {
		names[s.Name()]++
		for _, e := range s.Events() {
			if e.Name == tracing.EventSizeGuard {
				guarded = true
			}
		}
	}
	require.Equal(t, 1, names[tracing.SpanRender])
	require.Equal(t, 1, names[tracing.SpanRenderFile])
	require.Equal(t, 4, names[tracing.SpanRenderGroup])
	require.True(t, guarded, "29 changed characters exceed the limit of 10")

	// Over the limit the whole delta is marked as replaced.
	require.Contains(t, buf.String(), `class="code remove del-whole">bubblesort(arr)`)
}
