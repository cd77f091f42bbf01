// Package extract implements field recognition for customer-service
// conversation text: one pattern extractor per field, an optional
// model-backed extractor, and a resolver that merges the two.
package extract

import "strings"

// contextBefore returns up to n characters preceding start, lowercased.
// Extractors use the window to decide whether a numeric match is the
// field they want or a lookalike (order ids vs phones vs zips).
func contextBefore(text string, start, n int) string {
	from := start - n
	if from < 0 {
		from = 0
	}
	return strings.ToLower(text[from:start])
}

// contextAfter returns up to n characters following end, lowercased.
func contextAfter(text string, end, n int) string {
	to := end + n
	if to > len(text) {
		to = len(text)
	}
	return strings.ToLower(text[end:to])
}

// surrounding returns up to n characters on each side of [start, end),
// excluding the match itself, lowercased.
func surrounding(text string, start, end, n int) string {
	return contextBefore(text, start, n) + " " + contextAfter(text, end, n)
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
