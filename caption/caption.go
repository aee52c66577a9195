// CLAUDE:SUMMARY WebVTT-like caption track parser: three-state line scanner producing ordered, deduplicated timed cues.
// Package caption parses WebVTT-like subtitle tracks into timed cues.
//
// The parser is deterministic and forgiving: malformed fragments are
// skipped, never fatal. A track with no recognizable timing line yields
// an empty cue list, not an error.
package caption

import (
	"strconv"
	"strings"
)

// Cue is one timed caption entry. Only the start time is kept; chunk end
// times are derived later from the next cue or an explicit boundary.
type Cue struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// Parse scans a raw caption track and returns its cues in source order.
//
// The scanner has three states: header-skip (everything up to the first
// blank line is format preamble), await-timing, and collect-text. Cue
// index lines, blank lines and markup-only lines never change state.
// A cue whose text already appeared earlier in the output is dropped —
// auto-generated tracks repeat lines across overlapping cues.
func Parse(raw string) []Cue {
	var cues []Cue
	seen := make(map[string]struct{})

	var start float64
	var buf []string
	open := false
	headerDone := false

	flush := func() {
		if !open {
			return
		}
		open = false
		text := strings.Join(buf, " ")
		buf = buf[:0]
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		cues = append(cues, Cue{Start: start, Text: text})
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if !headerDone {
			if line == "" {
				headerDone = true
			}
			continue
		}

		if s, ok := parseTimingLine(line); ok {
			flush()
			start = s
			open = true
			continue
		}

		if line == "" || isCueIndex(line) {
			continue
		}

		text := strings.TrimSpace(stripMarkup(line))
		if text == "" {
			continue
		}
		if open {
			buf = append(buf, text)
		}
	}
	flush()

	return cues
}

// parseTimingLine recognizes "H:MM:SS.mmm --> H:MM:SS.mmm" and returns the
// start side in seconds. A line with the arrow but unparseable numbers is
// not a timing line; it falls through as ordinary text.
func parseTimingLine(line string) (float64, bool) {
	left, _, found := strings.Cut(line, "-->")
	if !found {
		return 0, false
	}
	return parseTimestamp(strings.TrimSpace(left))
}

// parseTimestamp converts "H:MM:SS.mmm" to seconds.
func parseTimestamp(ts string) (float64, bool) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || s < 0 || s >= 60 {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + s, true
}

// isCueIndex reports whether the line is a bare numeric cue counter.
func isCueIndex(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripMarkup removes inline <...> tags. An unterminated tag swallows the
// rest of the line, matching how lenient players render it.
func stripMarkup(line string) string {
	if !strings.ContainsRune(line, '<') {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	depth := 0
	for _, r := range line {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
