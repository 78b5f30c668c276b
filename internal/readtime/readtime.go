// Package readtime estimates how long an HTML fragment takes to read.
//
// Tag removal is a textual approximation, not an HTML parse: every substring
// matching <...> is dropped in a single non-greedy pass. Nesting, comments
// containing '>', and script or style bodies are not special-cased, so their
// text counts as words.
package readtime

import (
	"math"
	"regexp"
	"strings"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 220

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags removes every <...> run from s.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// WordCount counts whitespace-separated words in s after stripping tags.
func WordCount(s string) int {
	return len(strings.Fields(StripTags(s)))
}

// Minutes converts a word count into whole minutes: words/WordsPerMinute
// rounded half to even, never less than 1.
func Minutes(words int) int {
	m := int(math.RoundToEven(float64(words) / WordsPerMinute))
	return max(1, m)
}

// Estimate returns the reading time in minutes for an HTML fragment.
func Estimate(html string) int {
	return Minutes(WordCount(html))
}
