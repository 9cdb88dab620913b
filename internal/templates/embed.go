package templates

import (
	"embed"
	"io/fs"
)

// htmlTemplates embeds the HTML diff page. The structure is:
//   - html/page.html.tmpl (page, fragment and file table templates)
//   - html/diff.css (layout and intraline styles, chroma classes appended at render time)
//
//go:embed html
var htmlTemplates embed.FS

// HTMLFS returns the embedded filesystem holding the HTML renderer templates.
func HTMLFS() fs.FS {
	sub, err := fs.Sub(htmlTemplates, "html")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "html" is a constant.
		panic(err)
	}
	return sub
}
