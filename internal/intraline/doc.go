// Package intraline computes word-level differences inside a changed diff
// group and marks them up in already syntax-highlighted HTML.
//
// The pipeline for one group is:
//
//  1. SideText joins the lines of each side (removed/left, added/right).
//  2. Tokenize splits each side into word runs and single non-word runes.
//  3. An Aligner produces token-index opcodes; MapOps turns them into rune
//     offsets using AccumulateLengths.
//  4. AssignRanges splits the opcodes into per-side changed ranges.
//  5. A SideHighlighter walks the rendered lines of its side in order and
//     wraps the changed spans with its start/end markup, skipping over
//     existing tags and counting entities as one character.
//
// All offsets are rune offsets into the side text. Nothing here returns an
// error: out-of-range input is clamped so a bad range degrades the rendering
// instead of failing it.
package intraline
