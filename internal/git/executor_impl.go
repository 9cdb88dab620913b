package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/tracing"
)

// Git-specific errors.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrUnknownRevision indicates a ref that git cannot resolve.
	ErrUnknownRevision = errors.New("unknown revision")
)

// Compile-time check that RealExecutor implements GitExecutor.
var _ GitExecutor = (*RealExecutor)(nil)

// RealExecutor implements GitExecutor by executing actual git commands.
type RealExecutor struct {
	workDir string
	tracer  trace.Tracer
}

// Option configures a RealExecutor.
type Option func(*RealExecutor)

// WithTracer records a span per diff.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *RealExecutor) {
		e.tracer = tracer
	}
}

// NewRealExecutor creates a new RealExecutor.
func NewRealExecutor(workDir string, opts ...Option) *RealExecutor {
	e := &RealExecutor{workDir: workDir, tracer: tracing.Noop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runGitOutput executes a git command and returns stdout and any error.
func (e *RealExecutor) runGitOutput(ctx context.Context, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug(log.CatGit, "running git", "args", strings.Join(args, " "), "dir", e.workDir)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("git %s: %w", args[0], ctxErr)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		// Parse git-specific errors
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	// Not a git repository
	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	// fatal: bad revision 'x' / unknown revision or path not in the working tree
	if strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "bad revision") ||
		strings.Contains(stderrLower, "needed a single revision") ||
		strings.Contains(stderrLower, "invalid object name") {
		return fmt.Errorf("%w: %s", ErrUnknownRevision, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// IsGitRepo checks if the working directory is a git repository.
func (e *RealExecutor) IsGitRepo() bool {
	_, err := e.runGitOutput(context.Background(), "rev-parse", "--git-dir")
	return err == nil
}

// GetRepoRoot returns the root directory of the git repository.
func (e *RealExecutor) GetRepoRoot() (string, error) {
	out, err := e.runGitOutput(context.Background(), "rev-parse", "--show-toplevel")
	return strings.TrimSpace(out), err
}

// ResolveRef returns the commit hash ref names.
func (e *RealExecutor) ResolveRef(ctx context.Context, ref string) (string, error) {
	out, err := e.runGitOutput(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		var exitErr *exec.ExitError
		// --quiet exits 1 with no stderr for unknown refs
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", ErrUnknownRevision, ref)
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Diff runs git diff and returns its output unchanged.
func (e *RealExecutor) Diff(ctx context.Context, opts DiffOptions) (string, error) {
	ctx, span := e.tracer.Start(ctx, tracing.SpanGitDiff,
		trace.WithAttributes(attribute.String(tracing.AttrGitRef, opts.Ref)))
	defer span.End()

	out, err := e.runGitOutput(ctx, diffArgs(opts)...)
	if err != nil {
		tracing.RecordError(span, err)
		return "", err
	}
	log.Debug(log.CatGit, "git diff", "ref", opts.Ref, "bytes", len(out))
	return out, nil
}

func diffArgs(opts DiffOptions) []string {
	// Color, external drivers and renames-only output would all break the
	// parser, so they are switched off regardless of user config.
	args := []string{"diff", "--no-color", "--no-ext-diff", "--find-renames"}
	if opts.Staged {
		args = append(args, "--cached")
	}
	if opts.Context >= 0 {
		args = append(args, "-U"+strconv.Itoa(opts.Context))
	}
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}
	return args
}
