// Package wikilink provides canonical parsing/scanning of bracketed
// vault links.
//
// Grammar:
//
//	[[target]]
//	[[target|display text]]
//	![[target]]          (embed form)
//
// The target may carry an anchor ("note#Heading", "note#^block") which is
// left intact here; splitting target from anchor is the resolver's job.
// This package intentionally does NOT understand markdown code fences;
// higher-level parsers decide whether scanning is enabled for a region.
package wikilink

import (
	"regexp"
	"strings"
)

// Match represents a wikilink found in a single line.
type Match struct {
	Target      string
	DisplayText *string
	Embed       bool
	Start       int
	End         int
	Literal     string
}

// re matches [[target]] or [[target|display]].
// The target cannot contain [ or ] so array-ish text like [[[ref]]] is
// not swallowed.
var re = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// ParseExact parses a string that is exactly a wikilink literal (with or
// without a leading '!'), returning its target and optional display text.
func ParseExact(s string) (target string, display *string, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "!")
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if target == "" {
		return "", nil, false
	}
	if len(parts) == 2 {
		d := strings.TrimSpace(parts[1])
		display = &d
	}
	return target, display, true
}

// FindAllInLine finds wikilinks in a single line. A match directly
// preceded by '!' is flagged as an embed. Matches preceded by '[' are
// skipped to avoid array syntax like [[[ref]]].
func FindAllInLine(line string) []Match {
	var out []Match

	matches := re.FindAllStringSubmatchIndex(line, -1)
	for _, m := range matches {
		if len(m) < 4 {
			continue
		}
		start, end := m[0], m[1]

		if start > 0 && line[start-1] == '[' {
			continue
		}

		target := strings.TrimSpace(line[m[2]:m[3]])
		if target == "" {
			continue
		}

		var display *string
		if len(m) >= 6 && m[4] >= 0 && m[5] >= 0 {
			d := strings.TrimSpace(line[m[4]:m[5]])
			display = &d
		}

		embed := start > 0 && line[start-1] == '!'
		litStart := start
		if embed {
			litStart--
		}

		out = append(out, Match{
			Target:      target,
			DisplayText: display,
			Embed:       embed,
			Start:       litStart,
			End:         end,
			Literal:     line[litStart:end],
		})
	}

	return out
}
