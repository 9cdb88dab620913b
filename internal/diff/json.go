package diff

import (
	"encoding/json"
	"fmt"
)

// jsonDiff is the review-server diff payload: per file, an ordered list of
// content chunks. A chunk carries either common lines ("ab"), removed and/or
// added lines ("a"/"b"), or a count of unchanged lines that were elided
// ("skip").
type jsonDiff struct {
	Files []jsonFile `json:"files"`
}

type jsonFile struct {
	Path    string      `json:"path"`
	OldPath string      `json:"old_path"`
	NewPath string      `json:"new_path"`
	Binary  bool        `json:"binary"`
	Content []jsonChunk `json:"content"`
}

type jsonChunk struct {
	AB   []string `json:"ab"`
	A    []string `json:"a"`
	B    []string `json:"b"`
	Skip int      `json:"skip"`
}

// ParseJSON converts a review-server JSON diff into the same File model Parse
// produces. Each run of chunks between "skip" markers becomes one hunk.
func ParseJSON(data []byte) ([]File, error) {
	var payload jsonDiff
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding json diff: %w", err)
	}

	files := make([]File, 0, len(payload.Files))
	for _, jf := range payload.Files {
		if jf.OldPath == "" && jf.NewPath == "" {
			jf.OldPath, jf.NewPath = jf.Path, jf.Path
		}
		f := File{
			OldPath:   jf.OldPath,
			NewPath:   jf.NewPath,
			IsBinary:  jf.Binary,
			IsNew:     jf.OldPath == "" || jf.OldPath == devNull,
			IsDeleted: jf.NewPath == "" || jf.NewPath == devNull,
		}
		f.IsRenamed = !f.IsNew && !f.IsDeleted && f.OldPath != f.NewPath

		oldNum, newNum := 1, 1
		var cur *Hunk
		flush := func() {
			if cur == nil {
				return
			}
			cur.Header = fmt.Sprintf("@@ -%d,%d +%d,%d @@", cur.OldStart, cur.OldCount, cur.NewStart, cur.NewCount)
			f.Hunks = append(f.Hunks, *cur)
			cur = nil
		}
		start := func() {
			if cur == nil {
				cur = &Hunk{
					OldStart: oldNum,
					NewStart: newNum,
					Lines:    []Line{{Type: LineHeader}},
				}
			}
		}

		for _, chunk := range jf.Content {
			if chunk.Skip > 0 {
				flush()
				oldNum += chunk.Skip
				newNum += chunk.Skip
				continue
			}
			start()
			for _, text := range chunk.AB {
				cur.Lines = append(cur.Lines, Line{Type: LineBoth, Text: text, BeforeNumber: oldNum, AfterNumber: newNum})
				oldNum++
				newNum++
				cur.OldCount++
				cur.NewCount++
			}
			for _, text := range chunk.A {
				cur.Lines = append(cur.Lines, Line{Type: LineRemove, Text: text, BeforeNumber: oldNum})
				oldNum++
				cur.OldCount++
				f.Deletions++
			}
			for _, text := range chunk.B {
				cur.Lines = append(cur.Lines, Line{Type: LineAdd, Text: text, AfterNumber: newNum})
				newNum++
				cur.NewCount++
				f.Additions++
			}
		}
		flush()
		files = append(files, f)
	}
	return files, nil
}
