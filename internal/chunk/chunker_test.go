package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/obafemi-akin/policy-extract/internal/document"
)

// makeStream builds a page-marked stream with the given page text sizes.
func makeStream(sizes ...int) string {
	pages := make([]document.Page, 0, len(sizes))
	for i, n := range sizes {
		pages = append(pages, document.Page{
			Number: i + 1,
			Text:   strings.Repeat(fmt.Sprintf("p%dword ", i+1), n/7+1),
		})
	}
	return document.PageStream(pages)
}

func TestSplitSmallInputIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"plain", "short policy text"},
		{"exactly max", strings.Repeat("a", 100)},
		{"marked pages", makeStream(20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, 100_000)
			if len(got) != 1 {
				t.Fatalf("expected 1 chunk, got %d", len(got))
			}
			if got[0] != tt.text {
				t.Errorf("chunk differs from input: %q != %q", got[0], tt.text)
			}
		})
	}
}

func TestSplitExactlyMaxIsSingleChunk(t *testing.T) {
	text := strings.Repeat("x", 500)
	got := Split(text, 500)
	if len(got) != 1 || got[0] != text {
		t.Fatalf("text of length == max must be one unchanged chunk, got %d chunks", len(got))
	}
}

func TestSplitRoundTrip(t *testing.T) {
	// Several pages, none oversized, total well above max.
	text := makeStream(400, 400, 400, 400, 400, 400)
	max := 1000
	chunks := Split(text, max)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d chars at max %d, got %d", len(text), max, len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks do not reproduce the input")
	}
}

func TestSplitNeverExceedsMax(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		max   int
	}{
		{"even pages", []int{300, 300, 300, 300}, 700},
		{"oversized page", []int{200, 5000, 200}, 800},
		{"all oversized", []int{3000, 3000}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, c := range Split(makeStream(tt.sizes...), tt.max) {
				if len(c) > tt.max {
					t.Errorf("chunk %d has %d chars, max is %d", i, len(c), tt.max)
				}
			}
		})
	}
}

func TestSplitOversizedPageKeepsWordsIntact(t *testing.T) {
	text := makeStream(100, 4000)
	max := 600
	chunks := Split(text, max)

	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}
	for i, c := range chunks {
		for _, w := range strings.Fields(c) {
			if _, ok := words[w]; !ok {
				t.Errorf("chunk %d contains token %q not present in input: a word was split", i, w)
			}
		}
	}
}

func TestSplitPreservesPageOrder(t *testing.T) {
	text := makeStream(400, 400, 400, 400)
	chunks := Split(text, 900)

	joined := strings.Join(chunks, "")
	last := -1
	for n := 1; n <= 4; n++ {
		idx := strings.Index(joined, document.Marker(n))
		if idx < 0 {
			t.Fatalf("page %d marker missing from output", n)
		}
		if idx < last {
			t.Errorf("page %d appears out of order", n)
		}
		last = idx
	}
}

func TestSplitSealsPendingChunkBeforeOversizedPage(t *testing.T) {
	text := makeStream(300, 5000)
	max := 800
	chunks := Split(text, max)

	// First chunk must be the small page alone, sealed before the forced split.
	if !strings.Contains(chunks[0], document.Marker(1)) {
		t.Fatalf("first chunk should hold page 1, got %q", chunks[0][:40])
	}
	if strings.Contains(chunks[0], document.Marker(2)) {
		t.Error("page 2 leaked into the sealed chunk")
	}
	if len(chunks) < 3 {
		t.Errorf("oversized page should produce multiple sub-chunks, got %d chunks total", len(chunks))
	}
}
