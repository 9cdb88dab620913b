package intraline

import (
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits s into maximal runs of word runes (letters, digits,
// underscore) and single non-word runes. Concatenating the tokens yields s.
// Example: "foo.bar(x)" → ["foo", ".", "bar", "(", "x", ")"]
func Tokenize(s string) []string {
	var tokens []string
	word := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isWordRune(r) {
			if word < 0 {
				word = i
			}
			i += size
			continue
		}
		if word >= 0 {
			tokens = append(tokens, s[word:i])
			word = -1
		}
		tokens = append(tokens, s[i:i+size])
		i += size
	}
	if word >= 0 {
		tokens = append(tokens, s[word:])
	}
	return tokens
}

// AccumulateLengths returns the rune offset at which each token starts, plus
// the total length as a final entry (len(tokens)+1 entries).
func AccumulateLengths(tokens []string) []int {
	offsets := make([]int, len(tokens)+1)
	for i, tok := range tokens {
		offsets[i+1] = offsets[i] + utf8.RuneCountInString(tok)
	}
	return offsets
}
