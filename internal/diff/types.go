// Package diff holds the diff data model (files, hunks, lines, groups) and the
// parsers that produce it from unified diff text or review-server JSON.
package diff

import (
	"path/filepath"
	"strings"
)

// LineType represents the type of a diff line.
type LineType int

const (
	LineBoth   LineType = iota // ' ' prefix - unchanged line
	LineAdd                    // '+' prefix - added line
	LineRemove                 // '-' prefix - removed line
	LineHeader                 // '@@ ... @@' - hunk marker
	LineBlank                  // padding row in side-by-side layout
)

// String returns the line type name used in rendered markup.
func (t LineType) String() string {
	switch t {
	case LineBoth:
		return "both"
	case LineAdd:
		return "add"
	case LineRemove:
		return "remove"
	case LineHeader:
		return "header"
	case LineBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Line represents a single line of a unified diff.
type Line struct {
	Type         LineType
	Text         string // content without the +/-/space prefix and trailing newline
	BeforeNumber int    // line number in old file (0 if not applicable)
	AfterNumber  int    // line number in new file (0 if not applicable)
}

// GroupType classifies a contiguous run of lines.
type GroupType int

const (
	GroupBoth   GroupType = iota // unchanged lines
	GroupDelta                   // removed and/or added lines
	GroupHeader                  // hunk header
)

// String returns a human-readable name for the group type.
func (t GroupType) String() string {
	switch t {
	case GroupBoth:
		return "both"
	case GroupDelta:
		return "delta"
	case GroupHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Group is a contiguous run of lines sharing a classification.
type Group struct {
	Type  GroupType
	Lines []Line
}

// Hunk represents a contiguous section of changes in a diff.
type Hunk struct {
	OldStart int    // Starting line number in old file
	OldCount int    // Number of lines from old file
	NewStart int    // Starting line number in new file
	NewCount int    // Number of lines from new file
	Header   string // The @@ line text
	Lines    []Line
}

// File represents a single file's changes in a diff.
type File struct {
	OldPath    string // Path in old version (or /dev/null for new files)
	NewPath    string // Path in new version (or /dev/null for deleted files)
	Additions  int
	Deletions  int
	IsBinary   bool
	IsRenamed  bool
	IsNew      bool
	IsDeleted  bool
	Similarity int // Rename similarity percentage (0-100)
	Hunks      []Hunk
}

// DisplayPath returns the path shown in file headers.
func (f File) DisplayPath() string {
	switch {
	case f.IsDeleted:
		return f.OldPath
	case f.IsRenamed && f.OldPath != f.NewPath:
		return f.OldPath + " → " + f.NewPath
	case f.NewPath != "":
		return f.NewPath
	default:
		return f.OldPath
	}
}

// extLanguages maps file extensions to syntax-highlighter language ids.
var extLanguages = map[string]string{
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".css":   "css",
	".go":    "go",
	".htm":   "html",
	".html":  "html",
	".java":  "java",
	".js":    "javascript",
	".json":  "json",
	".md":    "markdown",
	".proto": "protobuf",
	".py":    "python",
	".rs":    "rust",
	".sh":    "bash",
	".ts":    "typescript",
	".yaml":  "yaml",
	".yml":   "yaml",
}

// Language returns the highlighter language id for the file, or "" when the
// extension is unknown.
func (f File) Language() string {
	path := f.NewPath
	if f.IsDeleted || path == "" || path == "/dev/null" {
		path = f.OldPath
	}
	return extLanguages[strings.ToLower(filepath.Ext(path))]
}
