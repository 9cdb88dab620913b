package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/render"
	"github.com/zjrosen/intradiff/internal/watcher"
)

const (
	formatHTML = "html"
	formatANSI = "ansi"
)

var renderCmd = &cobra.Command{
	Use:   "render [DIFF]",
	Short: "Render a diff as HTML or terminal text",
	Long: `Render a unified diff with intraline highlighting.

The diff is read from DIFF, from stdin when DIFF is "-" or omitted, from
git with --git, or computed from two files with --old and --new.

Examples:
  git diff | intradiff render > diff.html
  intradiff render changes.patch --mode side-by-side --out diff.html
  intradiff render --git HEAD~1 --format ansi
  intradiff render --old a.py --new b.py --mark TODO=yellow --watch --out diff.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var (
	renderIn     inputFlags
	renderOut    outputFlags
	renderPath   string
	renderFormat string
	renderWatch  bool
)

func init() {
	renderIn.register(renderCmd)
	renderOut.register(renderCmd)
	renderCmd.Flags().BoolVar(&renderOut.fragment, "fragment", false, "write only the diff tables, without the page around them")
	renderCmd.Flags().StringVar(&renderOut.style, "style", "", "chroma style for the page CSS (default from config)")
	renderCmd.Flags().StringVarP(&renderPath, "out", "o", "", "output file (default: stdout)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", formatHTML, `output format: "html" or "ansi"`)
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "re-render whenever the input changes")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := renderIn.validate(args); err != nil {
		return err
	}
	r, err := newRenderer(renderFormat, renderOut)
	if err != nil {
		return err
	}
	src := newSource(renderIn, args)
	out := &output{path: renderPath, stdout: cmd.OutOrStdout()}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if err := renderTo(ctx, r, out, files); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}

	paths, err := src.WatchPaths(files)
	if err != nil {
		return err
	}
	return watchLoop(ctx, paths, func() {
		files, err := src.Load(ctx)
		if err != nil {
			// Keep the last good output.
			log.ErrorErr(log.CatWatcher, "reload failed, keeping previous output", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "intradiff: %v\n", err)
			return
		}
		if err := renderTo(ctx, r, out, files); err != nil {
			log.ErrorErr(log.CatRender, "re-render failed", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "intradiff: %v\n", err)
		}
	})
}

// newRenderer builds the renderer for format from the loaded config.
func newRenderer(format string, o outputFlags) (render.Renderer, error) {
	opts, err := renderOptions(cfg, o)
	if err != nil {
		return nil, err
	}
	computer, err := newComputer(cfg.Intraline)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatHTML:
		return render.NewHTML(opts, newHighlighter(cfg.Highlight), computer,
			render.WithTracer(tracer())), nil
	case formatANSI:
		opts.Width = terminalWidth()
		return render.NewTerminal(opts, computer,
			render.WithColorProfile(termenv.EnvColorProfile()),
			render.WithTerminalTracer(tracer())), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want %q or %q)", format, formatHTML, formatANSI)
	}
}

// terminalWidth is stdout's width, or zero when stdout is not a terminal.
func terminalWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// watchLoop calls reload after every debounced change to paths until ctx
// is done.
func watchLoop(ctx context.Context, paths []string, reload func()) error {
	w, err := watcher.New(watcher.Config{Paths: paths, DebounceDur: cfg.Watch.Debounce})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	log.Info(log.CatWatcher, "watching for changes", "paths", len(paths))
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			reload()
		}
	}
}

// output writes each rendering either to stdout or atomically to a file,
// so a browser refreshing the page never sees a partial write.
type output struct {
	path   string
	stdout io.Writer
}

func renderTo(ctx context.Context, r render.Renderer, out *output, files []diff.File) error {
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, files); err != nil {
		return err
	}
	return out.write(buf.Bytes())
}

func (o *output) write(data []byte) error {
	if o.path == "" {
		_, err := o.stdout.Write(data)
		return err
	}

	dir := filepath.Dir(o.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".intradiff.out.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { //nolint:gosec // G302: rendered pages are meant to be readable
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(tmpPath, o.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming output: %w", err)
	}
	log.Debug(log.CatRender, "wrote output", "path", o.path, "bytes", len(data))
	return nil
}
