package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedHunk is returned when a hunk header cannot be parsed.
var ErrMalformedHunk = errors.New("malformed hunk header")

var (
	diffHeaderRegex      = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRegex      = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	oldFileRegex         = regexp.MustCompile(`^--- (?:a/)?(.+?)(?:\t.*)?$`)
	newFileRegex         = regexp.MustCompile(`^\+\+\+ (?:b/)?(.+?)(?:\t.*)?$`)
	similarityRegex      = regexp.MustCompile(`^similarity index (\d+)%$`)
	renameFromRegex      = regexp.MustCompile(`^rename from (.+)$`)
	renameToRegex        = regexp.MustCompile(`^rename to (.+)$`)
	binaryFilesRegex     = regexp.MustCompile(`^Binary files .+ and .+ differ$`)
	newFileModeRegex     = regexp.MustCompile(`^new file mode (\d+)$`)
	deletedFileModeRegex = regexp.MustCompile(`^deleted file mode (\d+)$`)
	skippedHeaderRegex   = regexp.MustCompile(`^(?:old mode|new mode|index) `)
)

const devNull = "/dev/null"

// Parse parses unified diff output into structured File slices.
// Both `git diff` output and plain `diff -u` output (no "diff --git" line)
// are accepted. It handles:
// - Binary files
// - Renamed files with similarity index
// - New files (--- /dev/null)
// - Deleted files (+++ /dev/null)
// - "\ No newline at end of file" markers
func Parse(output string) ([]File, error) {
	if output == "" {
		return nil, nil
	}

	p := parser{}
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		if err := p.line(line); err != nil {
			return nil, err
		}
	}
	p.flushFile()
	return p.files, nil
}

type parser struct {
	files      []File
	file       *File
	hunk       *Hunk
	oldLineNum int
	newLineNum int
	// oldLeft/newLeft count the lines still owed to the current hunk so a
	// plain "--- " removal line is not mistaken for a file header.
	oldLeft int
	newLeft int
}

func (p *parser) flushHunk() {
	if p.file != nil && p.hunk != nil {
		p.file.Hunks = append(p.file.Hunks, *p.hunk)
	}
	p.hunk = nil
}

func (p *parser) flushFile() {
	p.flushHunk()
	if p.file != nil {
		p.files = append(p.files, *p.file)
	}
	p.file = nil
}

func (p *parser) inHunk() bool {
	return p.hunk != nil && (p.oldLeft > 0 || p.newLeft > 0)
}

func (p *parser) line(line string) error {
	if matches := diffHeaderRegex.FindStringSubmatch(line); matches != nil {
		p.flushFile()
		p.file = &File{OldPath: matches[1], NewPath: matches[2]}
		return nil
	}

	if !p.inHunk() {
		if handled := p.fileHeader(line); handled {
			return nil
		}
	}

	if matches := hunkHeaderRegex.FindStringSubmatch(line); matches != nil {
		return p.hunkHeader(line, matches)
	}

	if !p.inHunk() {
		return nil
	}
	p.content(line)
	return nil
}

// fileHeader consumes per-file metadata lines and reports whether it did.
func (p *parser) fileHeader(line string) bool {
	if strings.HasPrefix(line, "--- ") {
		matches := oldFileRegex.FindStringSubmatch(line)
		if matches == nil {
			return false
		}
		// Plain `diff -u` output has no "diff --git" line; each "---"
		// outside a hunk starts a new file.
		if p.file == nil || len(p.file.Hunks) > 0 || p.hunk != nil {
			p.flushFile()
			p.file = &File{}
		}
		p.file.OldPath = matches[1]
		if matches[1] == devNull {
			p.file.IsNew = true
		}
		return true
	}
	if p.file == nil {
		return false
	}
	if strings.HasPrefix(line, "+++ ") {
		matches := newFileRegex.FindStringSubmatch(line)
		if matches == nil {
			return false
		}
		p.file.NewPath = matches[1]
		if matches[1] == devNull {
			p.file.IsDeleted = true
		}
		return true
	}
	if matches := similarityRegex.FindStringSubmatch(line); matches != nil {
		if similarity, err := strconv.Atoi(matches[1]); err == nil {
			p.file.Similarity = similarity
			p.file.IsRenamed = true
		}
		return true
	}
	if matches := renameFromRegex.FindStringSubmatch(line); matches != nil {
		p.file.OldPath = matches[1]
		p.file.IsRenamed = true
		return true
	}
	if matches := renameToRegex.FindStringSubmatch(line); matches != nil {
		p.file.NewPath = matches[1]
		p.file.IsRenamed = true
		return true
	}
	if binaryFilesRegex.MatchString(line) {
		p.file.IsBinary = true
		return true
	}
	if newFileModeRegex.MatchString(line) {
		p.file.IsNew = true
		return true
	}
	if deletedFileModeRegex.MatchString(line) {
		p.file.IsDeleted = true
		return true
	}
	return skippedHeaderRegex.MatchString(line)
}

func (p *parser) hunkHeader(line string, matches []string) error {
	if p.file == nil {
		p.file = &File{}
	}
	p.flushHunk()

	oldStart, err := strconv.Atoi(matches[1])
	if err != nil {
		return fmt.Errorf("%w: invalid old start: %s", ErrMalformedHunk, line)
	}
	oldCount := 1
	if matches[2] != "" {
		if oldCount, err = strconv.Atoi(matches[2]); err != nil {
			return fmt.Errorf("%w: invalid old count: %s", ErrMalformedHunk, line)
		}
	}
	newStart, err := strconv.Atoi(matches[3])
	if err != nil {
		return fmt.Errorf("%w: invalid new start: %s", ErrMalformedHunk, line)
	}
	newCount := 1
	if matches[4] != "" {
		if newCount, err = strconv.Atoi(matches[4]); err != nil {
			return fmt.Errorf("%w: invalid new count: %s", ErrMalformedHunk, line)
		}
	}

	p.hunk = &Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Header:   line,
		Lines: []Line{{
			Type: LineHeader,
			Text: strings.TrimSpace(matches[5]),
		}},
	}
	p.oldLineNum, p.newLineNum = oldStart, newStart
	p.oldLeft, p.newLeft = oldCount, newCount
	return nil
}

func (p *parser) content(line string) {
	if len(line) == 0 {
		// Some tools strip the trailing space of empty context lines.
		line = " "
	}
	text := line[1:]

	switch line[0] {
	case ' ':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:         LineBoth,
			Text:         text,
			BeforeNumber: p.oldLineNum,
			AfterNumber:  p.newLineNum,
		})
		p.oldLineNum++
		p.newLineNum++
		p.oldLeft--
		p.newLeft--
	case '-':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:         LineRemove,
			Text:         text,
			BeforeNumber: p.oldLineNum,
		})
		p.file.Deletions++
		p.oldLineNum++
		p.oldLeft--
	case '+':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:        LineAdd,
			Text:        text,
			AfterNumber: p.newLineNum,
		})
		p.file.Additions++
		p.newLineNum++
		p.newLeft--
	default:
		// "\ No newline at end of file" or trailing garbage.
	}
}
