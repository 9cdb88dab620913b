// Package git runs git to produce unified diffs for rendering.
package git

import "context"

// DiffOptions selects what `git diff` compares.
type DiffOptions struct {
	// Ref is the revision (or "A..B" range) to diff against. Empty means the
	// working tree against the index.
	Ref string
	// Staged diffs the index against Ref (or HEAD).
	Staged bool
	// Context is the number of context lines; negative uses git's default.
	Context int
	// Paths limits the diff to these pathspecs.
	Paths []string
}

// GitExecutor provides the git operations intradiff needs.
type GitExecutor interface {
	// IsGitRepo reports whether the working directory is inside a repository.
	IsGitRepo() bool

	// GetRepoRoot returns the top-level directory of the repository.
	GetRepoRoot() (string, error)

	// ResolveRef returns the full commit hash ref names.
	// Returns ErrUnknownRevision if ref does not name a commit.
	ResolveRef(ctx context.Context, ref string) (string, error)

	// Diff returns the unified diff text for opts.
	// Returns ErrNotGitRepo outside a repository and ErrUnknownRevision for a
	// bad ref.
	Diff(ctx context.Context, opts DiffOptions) (string, error)
}
