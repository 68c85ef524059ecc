// Package scoring holds the lexical signals blended into the final match score:
// text normalization, keyword (skill) overlap and bag-of-words cosine similarity.
package scoring

import (
	"regexp"
	"strings"
)

var reNonLetter = regexp.MustCompile(`[^a-z\s]`)

// Normalize lowercases s and drops every character that is not an ASCII letter or whitespace.
func Normalize(s string) string {
	return reNonLetter.ReplaceAllString(strings.ToLower(s), "")
}

// Tokens splits normalized text into whitespace-delimited words.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
