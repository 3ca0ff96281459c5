// Package chunk splits a page-marked text stream into bounded-size segments
// suitable for a single LLM call.
package chunk

import (
	"strings"

	"github.com/obafemi-akin/policy-extract/internal/document"
)

// DefaultMaxChars keeps a chunk comfortably inside a typical model context
// budget, leaving room for the prompt scaffold and schema.
const DefaultMaxChars = 20000

// Split breaks text into chunks of at most maxChars characters. Text that
// already fits is returned as a single chunk, unchanged. That includes the
// empty string, which yields [""].
//
// Larger streams are split on page markers and consecutive pages are packed
// greedily into each chunk. A single page that alone exceeds maxChars seals
// the pending chunk and is force-split at whitespace boundaries, never
// breaking a token. Output order matches document order and concatenating
// the chunks reproduces the input, except inside forced word splits.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	pages := strings.Split(text, document.PageMarker)
	var current strings.Builder

	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}

		pageText := page
		if i > 0 {
			pageText = document.PageMarker + page
		}

		switch {
		case len(pageText) > maxChars:
			// Oversized page: seal whatever is pending, then word-pack it.
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, splitWords(pageText, maxChars)...)

		case current.Len()+len(pageText) <= maxChars:
			current.WriteString(pageText)

		default:
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(pageText)
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitWords greedily packs whitespace-delimited tokens into chunks of at
// most maxChars. Tokens are never broken, even when a single token exceeds
// maxChars on its own.
func splitWords(text string, maxChars int) []string {
	var chunks []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		if current.Len()+len(word)+1 <= maxChars {
			current.WriteString(word)
			current.WriteString(" ")
			continue
		}
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(word)
		current.WriteString(" ")
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
