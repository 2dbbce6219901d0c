// Package slugs provides the slug normalization used by the fuzzy tier of
// target resolution: when a reference matches no file exactly, both sides
// are slugified and compared, so "Meeting Notes" still finds
// "meeting-notes.md".
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Component converts a single path component to a URL-safe slug.
// Falls back to a simple lowercase/space-to-dash form when gosimple/slug
// strips everything (e.g. punctuation-only input).
func Component(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// Path slugifies each "/"-separated component of a vault-relative path,
// stripping a trailing ".md" first. "Projects/Meeting Notes.md" becomes
// "projects/meeting-notes".
func Path(p string) string {
	p = strings.TrimSuffix(p, ".md")
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = Component(part)
	}
	return strings.Join(parts, "/")
}
