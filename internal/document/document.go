package document

import (
	"fmt"
	"strings"
)

// PageMarker is the token that precedes each page's text in the flat stream.
// The chunker splits on this token to recover page boundaries.
const PageMarker = "--- Page"

// Page is one page of a source document. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// Marker renders the full page marker line for a page number.
func Marker(number int) string {
	return fmt.Sprintf("%s %d ---", PageMarker, number)
}

// PageStream flattens pages into a single marked text stream. Pages with no
// text are omitted entirely, so markers in the output are not guaranteed to
// be contiguous. An input with no text-bearing pages yields "".
func PageStream(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		parts = append(parts, Marker(p.Number)+"\n"+p.Text)
	}
	return strings.Join(parts, "\n\n")
}
