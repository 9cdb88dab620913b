package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified produces a unified diff of two texts, suitable for Parse. It is
// used to render two plain files without going through git. A single
// trailing newline on either text is ignored.
func Unified(oldName, newName, oldText, newText string, context int) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.TrimSuffix(oldText, "\n")),
		B:        difflib.SplitLines(strings.TrimSuffix(newText, "\n")),
		FromFile: oldName,
		ToFile:   newName,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("computing unified diff: %w", err)
	}
	return text, nil
}
