// File: internal/chunker/chunker.go

// Package chunker splits normalized source documents into overlapping,
// sentence-aware segments for embedding and storage. It is a pure package:
// both functions are deterministic and hold no state.
package chunker

import (
	"regexp"
	"strings"
)

// MinChunkLen is the discard threshold: chunks shorter than this after
// trimming are treated as noise (e.g. trailing fragments) and dropped.
const MinChunkLen = 50

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	spaceRuns    = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`(?m)^\s+$`)
)

// Normalize prepares raw source text for chunking: CRLF to LF, runs of three
// or more newlines collapsed to two, runs of spaces and tabs collapsed to one,
// whitespace-only lines blanked, and the result trimmed.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Chunk walks text in windows of targetSize characters. When the naive window
// end is not the end of text, the cut point moves back to the latest sentence
// boundary ('.' or '\n') found after the window midpoint; the boundary
// character is kept in the chunk. Consecutive chunks overlap by overlap
// characters. Chunks shorter than MinChunkLen after trimming are dropped.
//
// Character positions are rune positions, so multi-byte text cuts cleanly.
func Chunk(text string, targetSize, overlap int) []string {
	if targetSize <= 0 || overlap < 0 || overlap >= targetSize {
		return nil
	}

	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + targetSize

		if end < len(runes) {
			breakPoint := lastBoundary(runes, end)
			if breakPoint > start+targetSize/2 {
				end = breakPoint + 1
			}
		} else {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(chunk)) >= MinChunkLen {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			// Guard against a boundary so early that the window would not
			// advance; skip the overlap in that case.
			next = end
		}
		start = next
	}

	return chunks
}

// lastBoundary returns the position of the latest '.' or '\n' at or before
// end, or -1 if there is none.
func lastBoundary(runes []rune, end int) int {
	for i := end; i >= 0; i-- {
		if runes[i] == '.' || runes[i] == '\n' {
			return i
		}
	}
	return -1
}
