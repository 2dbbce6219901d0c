package parser

import (
	"strings"
)

// FenceState tracks whether a line-by-line scan is inside a fenced code
// block, and which kind. Info carries the fence's info string (e.g.
// "leaflet") while the fence is open so callers can treat special blocks
// differently.
type FenceState struct {
	InFence  bool
	FenceCh  byte
	FenceLen int
	Info     string
}

// NormalizeFenceLine prepares a line for fence marker detection.
// It strips leading whitespace, blockquote prefixes, and list markers so
// fences inside quotes and list items are still recognized.
func NormalizeFenceLine(line string) string {
	s := strings.TrimLeft(line, " \t")
	for {
		switch {
		case strings.HasPrefix(s, ">"):
			s = strings.TrimLeft(strings.TrimPrefix(s, ">"), " \t")
		case len(s) >= 2 && (s[0] == '-' || s[0] == '*' || s[0] == '+') && (s[1] == ' ' || s[1] == '\t'):
			s = strings.TrimLeft(s[1:], " \t")
		default:
			return s
		}
	}
}

// ParseFenceMarker checks if a line (after normalization) starts a code
// fence. Returns the fence character, fence length, the info string
// following the marker, and whether it's a valid fence.
func ParseFenceMarker(line string) (ch byte, n int, info string, ok bool) {
	if len(line) < 3 {
		return 0, 0, "", false
	}
	ch = line[0]
	if ch != '`' && ch != '~' {
		return 0, 0, "", false
	}
	i := 0
	for i < len(line) && line[i] == ch {
		i++
	}
	if i < 3 {
		return 0, 0, "", false
	}
	info = strings.TrimSpace(line[i:])
	return ch, i, info, true
}

// Update advances the fence state with the next line.
// Returns true if the line is a fence marker (opening or closing).
func (fs *FenceState) Update(line string) bool {
	fenceLine := NormalizeFenceLine(line)
	ch, n, info, ok := ParseFenceMarker(fenceLine)
	if !ok {
		return false
	}

	if !fs.InFence {
		fs.InFence = true
		fs.FenceCh = ch
		fs.FenceLen = n
		fs.Info = info
		return true
	}

	// A closing marker must reuse the opening character, be at least as
	// long, and carry no info string.
	if fs.FenceCh == ch && n >= fs.FenceLen && info == "" {
		fs.InFence = false
		fs.FenceCh = 0
		fs.FenceLen = 0
		fs.Info = ""
		return true
	}

	return false
}

// RemoveInlineCode blanks inline code spans in a line, replacing them
// with spaces so character positions stay valid for other scans.
// Handles multi-backtick delimiters (``code with `tick` inside``).
func RemoveInlineCode(line string) string {
	result := []byte(line)
	i := 0

	for i < len(result) {
		if result[i] != '`' {
			i++
			continue
		}

		start := i
		openLen := 0
		for i < len(result) && result[i] == '`' {
			openLen++
			i++
		}

		end := findClosingTicks(result, i, openLen)
		if end < 0 {
			// Unmatched opener, leave it and keep scanning.
			continue
		}
		for k := start; k < end; k++ {
			result[k] = ' '
		}
		i = end
	}

	return string(result)
}

// findClosingTicks returns the index just past a run of exactly n
// backticks at or after from, or -1 when none exists.
func findClosingTicks(b []byte, from, n int) int {
	for j := from; j < len(b); j++ {
		if b[j] != '`' {
			continue
		}
		runLen := 0
		for j < len(b) && b[j] == '`' {
			runLen++
			j++
		}
		if runLen == n {
			return j
		}
		// Overshot or undershot; continue after this run.
		j--
	}
	return -1
}
