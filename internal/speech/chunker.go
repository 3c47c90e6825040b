package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChars is the default maximum characters per synthesis request,
// measured after SSML escaping. Polly bills up to 3000 characters per call
// and caps the whole SSML document at 6000.
const DefaultMaxChars = 1500

// SplitText splits text into segments whose SSML-escaped form is at most
// maxChars characters. Segments break after sentence terminators when possible, then at spaces,
// and only mid-word when a single word is longer than maxChars.
// Joining the segments yields the original text.
func SplitText(text string, maxChars int) []string {
	if text == "" {
		return nil
	}

	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var segments []string
	rest := text

	for escapedLen(rest) > maxChars {
		cut := cutPoint(rest, maxChars)
		segments = append(segments, rest[:cut])
		rest = rest[cut:]
	}

	// Flush remaining text
	if rest != "" {
		segments = append(segments, rest)
	}

	return segments
}

// cutPoint returns the byte offset at which to end the next segment of s.
// The escaped form of s is known to be longer than maxChars.
func cutPoint(s string, maxChars int) int {
	limit := byteOffset(s, maxChars)
	window := s[:limit]

	// Prefer the last sentence end inside the window
	if i := lastSentenceEnd(window); i > 0 {
		return i
	}

	// Then the last space
	if i := strings.LastIndexFunc(window, unicode.IsSpace); i > 0 {
		_, size := utf8.DecodeRuneInString(window[i:])
		return i + size
	}

	// A single word exceeds the limit
	return limit
}

// lastSentenceEnd returns the offset just past the last terminator that is
// followed by whitespace, or 0 if there is none.
func lastSentenceEnd(s string) int {
	end := 0
	for i, r := range s {
		if !strings.ContainsRune(".!?。！？", r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(s) {
			continue
		}
		n, _ := utf8.DecodeRuneInString(s[next:])
		if unicode.IsSpace(n) {
			end = next + utf8.RuneLen(n)
		}
	}
	return end
}

// byteOffset returns the byte offset just past the longest prefix of s whose
// escaped length fits in n. At least one rune is always included.
func byteOffset(s string, n int) int {
	total := 0
	for i, r := range s {
		total += escapedRuneLen(r)
		if total > n {
			if i == 0 {
				_, size := utf8.DecodeRuneInString(s)
				return size
			}
			return i
		}
	}
	return len(s)
}

// escapedLen returns the length in runes of s after xml.EscapeText.
func escapedLen(s string) int {
	n := 0
	for _, r := range s {
		n += escapedRuneLen(r)
	}
	return n
}

func escapedRuneLen(r rune) int {
	switch r {
	case '<', '>':
		return 4 // &lt; &gt;
	case '&', '"', '\'', '\t', '\n', '\r':
		return 5 // &amp; &#34; &#39; &#x9; &#xA; &#xD;
	default:
		return 1
	}
}
