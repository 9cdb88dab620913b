package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanParse          = "diff.parse"
	SpanGitDiff        = "git.diff"
	SpanRender         = "render"
	SpanRenderFile     = "render.file"
	SpanRenderGroup    = "render.group"
	SpanHighlightLines = "highlight.lines"
)

// Span attribute keys.
const (
	AttrFilePath     = "file.path"
	AttrFileLanguage = "file.language"
	AttrFileCount    = "file.count"
	AttrHunkCount    = "file.hunks"

	AttrGroupType  = "group.type"
	AttrGroupLines = "group.lines"
	AttrOpCount    = "intraline.ops"
	AttrLeftRanges = "intraline.left_ranges"
	AttrRightRange = "intraline.right_ranges"

	AttrRenderMode   = "render.mode"
	AttrRenderFormat = "render.format"
	AttrRenderID     = "render.id"

	AttrLexer     = "highlight.lexer"
	AttrLineCount = "highlight.lines"
	AttrCacheHit  = "highlight.cache_hit"

	AttrGitRef = "git.ref"

	AttrErrorMessage = "error.message"
)

// Event names.
const (
	EventSizeGuard   = "intraline.size_guard"
	EventLexFallback = "highlight.fallback"
)

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
