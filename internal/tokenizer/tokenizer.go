// Package tokenizer turns file contents into the normalized token sets the
// index stores, and normalizes query terms into the same form.
package tokenizer

import (
	"regexp"
	"strings"
)

// Tokenizer extracts tokens from content and normalizes query terms.
// Both operations are pure. Every token emitted by Tokenize must be a fixed
// point of Normalize; the index relies on this to match query terms against
// stored tokens.
type Tokenizer interface {
	// Tokenize returns the distinct normalized tokens found in content.
	Tokenize(content string) map[string]struct{}
	// Normalize converts a query term into the form used for index lookups.
	Normalize(term string) string
}

var nonWordRe = regexp.MustCompile(`\W+`)

// Simple is the default tokenizer: lowercase the content, split on maximal
// runs of non-word characters, and keep the distinct non-empty pieces.
// Token frequency is lost; only membership survives.
type Simple struct{}

// Tokenize implements Tokenizer.
func (Simple) Tokenize(content string) map[string]struct{} {
	parts := nonWordRe.Split(strings.ToLower(content), -1)
	tokens := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens[p] = struct{}{}
		}
	}
	return tokens
}

// Normalize implements Tokenizer.
func (Simple) Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
