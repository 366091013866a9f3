package chunker

import (
	"fmt"
	"regexp"
	"strings"
)

// Separator levels applied in order, from coarsest to finest. The final level
// is a generic whitespace run handled by whitespaceRE rather than a literal.
var separators = []string{"\n\n", "\n", ". ", " "}

var whitespaceRE = regexp.MustCompile(`\s+`)

// Splitter splits text into bounded-size chunks with a fixed character
// overlap between adjacent chunks. Splitting cascades through separator
// levels of decreasing granularity (paragraph, line, sentence, word) so that
// chunk boundaries fall on the most natural break available.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a Splitter. chunkSize must be positive and overlap must be
// non-negative and strictly smaller than chunkSize, otherwise packing could
// stall without making forward progress.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// Split breaks text into chunks of at most the configured size. A segment
// with no separator left to split on is emitted whole even when it exceeds
// the limit; there is no splitting rule below word granularity. Empty or
// whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := []string{text}
	for _, sep := range separators {
		var next []string
		for _, c := range chunks {
			if len(c) <= s.chunkSize {
				next = append(next, c)
				continue
			}
			next = s.splitSegment(next, c, sep)
		}
		chunks = next
	}

	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitSegment splits one oversized segment on the given separator and
// greedily repacks the parts, appending the closed chunks to acc.
func (s *Splitter) splitSegment(acc []string, segment, sep string) []string {
	wordLevel := sep == " "

	var parts []string
	if wordLevel {
		parts = whitespaceRE.Split(segment, -1)
	} else {
		parts = strings.Split(segment, sep)
	}

	current := ""
	for i, part := range parts {
		// Re-append the separator between parts so no characters are lost.
		// The word level re-joins with single spaces instead; original
		// whitespace runs are not preserved.
		add := part
		if !wordLevel && i < len(parts)-1 {
			add = part + sep
		}
		joined := add
		if wordLevel && current != "" && add != "" {
			joined = " " + add
		}

		if len(current)+len(joined) <= s.chunkSize {
			current += joined
			continue
		}

		if trimmed := strings.TrimSpace(current); trimmed != "" {
			acc = append(acc, trimmed)
		}
		// Seed the next chunk with the tail of the one just closed so that
		// context straddling the boundary survives retrieval.
		current = s.overlapTail(current) + add
	}
	if trimmed := strings.TrimSpace(current); trimmed != "" {
		acc = append(acc, trimmed)
	}
	return acc
}

// overlapTail returns the trailing overlap characters of the closed chunk,
// or the whole chunk when it is shorter than the overlap.
func (s *Splitter) overlapTail(closed string) string {
	if s.overlap <= 0 {
		return ""
	}
	if len(closed) < s.overlap {
		return closed
	}
	return closed[len(closed)-s.overlap:]
}
