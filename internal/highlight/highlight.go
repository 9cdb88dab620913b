// Package highlight renders source text to per-line HTML with chroma class
// names. Every line it returns has exactly the text of the corresponding
// source line once tags are skipped and entities decoded, which is what lets
// intraline markers be inserted afterwards.
package highlight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/intradiff/internal/cachemanager"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/tracing"
)

const DefaultCacheTTL = 10 * time.Minute

// Source is one block of text to highlight.
type Source struct {
	// Lang is a chroma language name or alias ("go", "python"), or a file
	// name whose extension selects the lexer.
	Lang string
	Text string
}

// Highlighter produces highlighted HTML lines, caching results by language
// and content.
type Highlighter struct {
	enabled bool
	ttl     time.Duration
	cache   *cachemanager.ReadThroughCache[string, []string, Source]
	tracer  trace.Tracer
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithCache stores results in cache for ttl instead of a private in-memory
// cache.
func WithCache(cache cachemanager.CacheManager[string, []string], ttl time.Duration) Option {
	return func(h *Highlighter) {
		h.ttl = ttl
		h.cache = cachemanager.NewReadThroughCache[string, []string, Source](cache, h.highlight, false)
	}
}

// WithTracer records a span per highlighted block.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Highlighter) {
		h.tracer = tracer
	}
}

// New returns a Highlighter. When enabled is false, Lines only escapes text.
func New(enabled bool, opts ...Option) *Highlighter {
	h := &Highlighter{
		enabled: enabled,
		ttl:     DefaultCacheTTL,
		tracer:  tracing.Noop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cache == nil {
		manager := cachemanager.NewInMemoryCacheManager[string, []string](
			"highlight", h.ttl, cachemanager.DefaultCleanupInterval)
		h.cache = cachemanager.NewReadThroughCache[string, []string, Source](manager, h.highlight, false)
	}
	return h
}

// Lines returns one HTML string per "\n"-separated line of text; callers
// join their lines with "\n" and get the same count back.
func (h *Highlighter) Lines(ctx context.Context, lang, text string) []string {
	src := Source{Lang: lang, Text: text}
	if !h.enabled {
		return escapeLines(src.Text)
	}

	ctx, span := h.tracer.Start(ctx, tracing.SpanHighlightLines,
		trace.WithAttributes(attribute.String(tracing.AttrFileLanguage, lang)))
	defer span.End()

	lines, err := h.cache.GetWithRefresh(ctx, cacheKey(src), src, h.ttl)
	if err != nil {
		tracing.RecordError(span, err)
		log.ErrorErr(log.CatHighlight, "highlighting failed, using plain text", err, "lang", lang)
		return escapeLines(src.Text)
	}
	span.SetAttributes(attribute.Int(tracing.AttrLineCount, len(lines)))
	return lines
}

func cacheKey(src Source) string {
	sum := sha256.Sum256([]byte(src.Text))
	return src.Lang + ":" + hex.EncodeToString(sum[:16])
}

// highlight is the uncached computation behind Lines.
func (h *Highlighter) highlight(ctx context.Context, src Source) ([]string, error) {
	lexer := lexerFor(ctx, src.Lang, src.Text)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(tracing.AttrLexer, lexer.Config().Name))

	it, err := chroma.Coalesce(lexer).Tokenise(nil, src.Text)
	if err != nil {
		return nil, fmt.Errorf("tokenising %s: %w", src.Lang, err)
	}

	want := strings.Split(src.Text, "\n")
	got := formatLines(it.Tokens())
	out := make([]string, len(want))
	for i, line := range want {
		// Lexers may normalise text (tabs, a forced final newline). Any line
		// whose text changed falls back to plain escaping.
		if i < len(got) && got[i].text == line {
			out[i] = got[i].html
			continue
		}
		out[i] = html.EscapeString(line)
	}
	return out, nil
}

func lexerFor(ctx context.Context, lang, text string) chroma.Lexer {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Match(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		log.Debug(log.CatHighlight, "no lexer, using fallback", "lang", lang)
		trace.SpanFromContext(ctx).AddEvent(tracing.EventLexFallback)
		lexer = lexers.Fallback
	}
	return lexer
}

type formattedLine struct {
	text string
	html string
}

func formatLines(tokens []chroma.Token) []formattedLine {
	var lines []formattedLine
	var text, markup strings.Builder
	flush := func() {
		lines = append(lines, formattedLine{text: text.String(), html: markup.String()})
		text.Reset()
		markup.Reset()
	}

	for _, tok := range tokens {
		class := classFor(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				flush()
			}
			if part == "" {
				continue
			}
			text.WriteString(part)
			if class == "" {
				markup.WriteString(html.EscapeString(part))
				continue
			}
			fmt.Fprintf(&markup, `<span class="%s">%s</span>`, class, html.EscapeString(part))
		}
	}
	flush()
	return lines
}

// classFor maps a token type to its short chroma class, walking up to the
// sub-category and category for types without their own class. Plain text
// and whitespace get no span.
func classFor(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if class, ok := chroma.StandardTypes[candidate]; ok {
			if class == "w" {
				return ""
			}
			return class
		}
	}
	return ""
}

func escapeLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return lines
}

// CSS returns the stylesheet for the class names Lines emits, in the named
// chroma style.
func CSS(style string) (string, error) {
	s := styles.Get(style)
	if s.Name != style {
		return "", fmt.Errorf("unknown highlight style %q", style)
	}

	var b strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, s); err != nil {
		return "", fmt.Errorf("writing css: %w", err)
	}
	return b.String(), nil
}
