package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/intradiff/internal/cachemanager"
	"github.com/zjrosen/intradiff/internal/config"
	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/git"
	"github.com/zjrosen/intradiff/internal/highlight"
	"github.com/zjrosen/intradiff/internal/intraline"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/render"
	"github.com/zjrosen/intradiff/internal/tracing"
)

// inputFlags selects where the diff comes from.
type inputFlags struct {
	gitRef  string
	staged  bool
	dir     string
	oldPath string
	newPath string
	json    bool
	context int
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.gitRef, "git", "", "diff the working tree against REF with git")
	cmd.Flags().BoolVar(&in.staged, "staged", false, "with --git, diff the index instead of the working tree")
	cmd.Flags().StringVar(&in.dir, "dir", ".", "repository directory for --git")
	cmd.Flags().StringVar(&in.oldPath, "old", "", "old file to compare (with --new)")
	cmd.Flags().StringVar(&in.newPath, "new", "", "new file to compare (with --old)")
	cmd.Flags().BoolVar(&in.json, "json", false, "read the diff as JSON instead of unified text")
	cmd.Flags().IntVarP(&in.context, "unified", "U", -1, "context lines for --git and --old/--new")
}

func (in inputFlags) validate(args []string) error {
	sources := 0
	if in.gitRef != "" || in.staged {
		sources++
	}
	if in.oldPath != "" || in.newPath != "" {
		if in.oldPath == "" || in.newPath == "" {
			return errors.New("--old and --new must be used together")
		}
		sources++
	}
	if len(args) > 0 {
		sources++
	}
	if sources > 1 {
		return errors.New("choose one input: a diff file, --git, or --old/--new")
	}
	if in.json && (in.gitRef != "" || in.staged || in.oldPath != "") {
		return errors.New("--json only applies to a diff file or stdin")
	}
	return nil
}

// source loads diffs for one command invocation. It is re-run on every
// watch tick.
type source struct {
	in    inputFlags
	path  string // diff file; "" or "-" is stdin
	git   git.GitExecutor
	stdin io.Reader
}

func newSource(in inputFlags, args []string) *source {
	s := &source{in: in, stdin: os.Stdin}
	if len(args) > 0 {
		s.path = args[0]
	}
	if in.gitRef != "" || in.staged {
		s.git = git.NewRealExecutor(in.dir, git.WithTracer(tracer()))
	}
	return s
}

func (s *source) fromStdin() bool {
	return s.git == nil && s.in.oldPath == "" && (s.path == "" || s.path == "-")
}

// Load reads and parses the diff.
func (s *source) Load(ctx context.Context) ([]diff.File, error) {
	ctx, span := tracer().Start(ctx, tracing.SpanParse)
	defer span.End()

	text, err := s.read(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	var files []diff.File
	if s.in.json {
		files, err = diff.ParseJSON([]byte(text))
	} else {
		files, err = diff.Parse(text)
	}
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrFileCount, len(files)))
	log.Debug(log.CatDiff, "loaded diff", "files", len(files), "bytes", len(text))
	return files, nil
}

func (s *source) read(ctx context.Context) (string, error) {
	switch {
	case s.git != nil:
		if !s.git.IsGitRepo() {
			return "", fmt.Errorf("%s: %w", s.in.dir, git.ErrNotGitRepo)
		}
		return s.git.Diff(ctx, git.DiffOptions{Ref: s.in.gitRef, Staged: s.in.staged, Context: s.in.context})
	case s.in.oldPath != "":
		return unifiedFromFiles(s.in.oldPath, s.in.newPath, s.in.context)
	case s.fromStdin():
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(s.path)
		if err != nil {
			return "", fmt.Errorf("reading diff: %w", err)
		}
		return string(data), nil
	}
}

// WatchPaths lists the files whose changes should trigger a reload. Stdin
// cannot be watched.
func (s *source) WatchPaths(files []diff.File) ([]string, error) {
	switch {
	case s.git != nil:
		root, err := s.git.GetRepoRoot()
		if err != nil {
			return nil, err
		}
		var paths []string
		for _, f := range files {
			if f.IsDeleted || f.NewPath == "" || f.NewPath == "/dev/null" {
				continue
			}
			paths = append(paths, filepath.Join(root, f.NewPath))
		}
		if len(paths) == 0 {
			return nil, errors.New("nothing to watch: the git diff has no files")
		}
		return paths, nil
	case s.in.oldPath != "":
		return []string{s.in.oldPath, s.in.newPath}, nil
	case s.fromStdin():
		return nil, errors.New("--watch needs a diff file, --git or --old/--new, not stdin")
	default:
		return []string{s.path}, nil
	}
}

func unifiedFromFiles(oldPath, newPath string, contextLines int) (string, error) {
	oldText, err := os.ReadFile(oldPath)
	if err != nil {
		return "", fmt.Errorf("reading old file: %w", err)
	}
	newText, err := os.ReadFile(newPath)
	if err != nil {
		return "", fmt.Errorf("reading new file: %w", err)
	}
	if contextLines < 0 {
		contextLines = 3
	}
	return diff.Unified(oldPath, newPath, string(oldText), string(newText), contextLines)
}

// outputFlags shapes the rendering.
type outputFlags struct {
	mode     string
	fragment bool
	lang     string
	marks    []string
	style    string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.mode, "mode", "m", "", `layout: "unified" or "side-by-side" (default from config)`)
	cmd.Flags().StringVar(&o.lang, "lang", "", "syntax-highlighting language for every file (default: by extension)")
	cmd.Flags().StringArrayVar(&o.marks, "mark", nil, "highlight every occurrence of TEXT, as TEXT=COLOR (repeatable)")
}

// renderOptions merges the config with command-line overrides.
func renderOptions(c config.Config, o outputFlags) (render.Options, error) {
	opts := render.DefaultOptions()

	mode := c.Render.Mode
	if o.mode != "" {
		mode = o.mode
	}
	m, err := render.ParseMode(mode)
	if err != nil {
		return opts, err
	}
	opts.Mode = m
	opts.Fragment = c.Render.Fragment || o.fragment
	opts.Style = c.Render.Style
	if o.style != "" {
		opts.Style = o.style
	}
	if c.Render.Title != "" {
		opts.Title = c.Render.Title
	}
	opts.Language = o.lang
	opts.Remove = markup(opts.Remove, c.Render.Remove)
	opts.Add = markup(opts.Add, c.Render.Add)
	opts.LineSlack = c.Intraline.LineSlack

	for _, mk := range c.Marks {
		opts.Marks = append(opts.Marks, intraline.Mark{Text: mk.Text, Color: mk.Color})
	}
	for _, s := range o.marks {
		mk, err := parseMark(s)
		if err != nil {
			return opts, err
		}
		opts.Marks = append(opts.Marks, mk)
	}
	return opts, nil
}

func markup(base render.Markup, c config.MarkupConfig) render.Markup {
	if c.StartTag != "" {
		base.StartTag = c.StartTag
		base.EndTag = c.EndTag
	}
	if c.WholeLineClass != "" {
		base.WholeLineClass = c.WholeLineClass
	}
	return base
}

// parseMark parses TEXT=COLOR; the last '=' separates the colour so the
// text itself may contain '='.
func parseMark(s string) (intraline.Mark, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 || i == len(s)-1 {
		return intraline.Mark{}, fmt.Errorf("invalid --mark %q: want TEXT=COLOR", s)
	}
	return intraline.Mark{Text: s[:i], Color: s[i+1:]}, nil
}

func newComputer(c config.IntralineConfig) (*intraline.Computer, error) {
	aligner, err := intraline.NewAligner(c.Aligner, c.MyersTimeout)
	if err != nil {
		return nil, err
	}
	return intraline.NewComputer(aligner, c.MaxGroupChars), nil
}

func newHighlighter(c config.HighlightConfig) *highlight.Highlighter {
	ttl := c.CacheTTL
	if ttl <= 0 {
		ttl = highlight.DefaultCacheTTL
	}
	cache := cachemanager.NewInMemoryCacheManager[string, []string](
		"highlight", ttl, cachemanager.DefaultCleanupInterval)
	return highlight.New(c.Enabled,
		highlight.WithCache(cache, ttl),
		highlight.WithTracer(tracer()),
	)
}

// tracer is the command's tracer, a no-op before setup has run.
func tracer() trace.Tracer {
	if traceProvider == nil {
		return tracing.Noop()
	}
	return traceProvider.Tracer()
}
