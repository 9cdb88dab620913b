package intraline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "call", in: "foo.bar(x)", want: []string{"foo", ".", "bar", "(", "x", ")"}},
		{name: "underscore and digits", in: "a__b1 +=2", want: []string{"a__b1", " ", "+", "=", "2"}},
		{name: "repeated punctuation splits", in: "!!", want: []string{"!", "!"}},
		{name: "unicode letters", in: "héllo wörld", want: []string{"héllo", " ", "wörld"}},
		{name: "newlines", in: "a\nb\n", want: []string{"a", "\n", "b", "\n"}},
		{name: "emoji is a single token", in: "x🙂y", want: []string{"x", "🙂", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		tokens := Tokenize(s)
		require.Equal(rt, s, strings.Join(tokens, ""))
		for _, tok := range tokens {
			require.NotEmpty(rt, tok)
		}
	})
}

func TestAccumulateLengths(t *testing.T) {
	got := AccumulateLengths([]string{"#", " ", "Sort", " ", "the", " ", "data", "\n"})
	require.Equal(t, []int{0, 1, 2, 6, 7, 10, 11, 15, 16}, got)
}

func TestAccumulateLengths_CountsRunes(t *testing.T) {
	require.Equal(t, []int{0, 5, 6}, AccumulateLengths([]string{"héllo", "🙂"}))
	require.Equal(t, []int{0}, AccumulateLengths(nil))
}
