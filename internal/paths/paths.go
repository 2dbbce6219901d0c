// Package paths provides canonical helpers for vault-relative paths.
//
// Every component that touches the corpus (walking, resolution, asset
// tracking, reporting) keys files by the same form: forward slashes, no
// leading "./" or "/", no repeated separators. Centralizing the
// conversions keeps those components in agreement.
package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts a vault-relative path-like value to canonical form:
// - OS separators become '/'
// - leading "./" and "/" are trimmed
// - repeated '/' collapse
//
// Examples:
// - "./notes/today.md" -> "notes/today.md"
// - "notes//a.md"      -> "notes/a.md"
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// IsMarkdown reports whether p names a markdown document.
func IsMarkdown(p string) bool {
	return strings.EqualFold(path.Ext(p), ".md")
}

// TrimMarkdown strips a trailing ".md" from p, if present.
func TrimMarkdown(p string) string {
	if IsMarkdown(p) {
		return p[:len(p)-len(".md")]
	}
	return p
}

// WithMarkdown appends ".md" to p unless it already names a markdown file.
func WithMarkdown(p string) string {
	if IsMarkdown(p) {
		return p
	}
	return p + ".md"
}

// Basename returns the final path element of p without any extension.
// Used for corpus-wide short-name lookups ("freya" matches
// "people/freya.md").
func Basename(p string) string {
	base := path.Base(Normalize(p))
	if ext := path.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// RelativeTo interprets ref relative to the directory of source (both
// vault-relative) and returns the cleaned vault-relative result. The
// second return is false when ref climbs out of the vault root.
//
// Example: RelativeTo("projects/plan.md", "../img/a.png") -> "img/a.png".
func RelativeTo(source, ref string) (string, bool) {
	joined := path.Join(path.Dir(Normalize(source)), Normalize(ref))
	joined = path.Clean(joined)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	if joined == "." {
		return "", false
	}
	return joined, true
}

// HasPrefixDir reports whether p is prefix itself or lies under it as a
// directory. Both arguments are normalized first, so "Attachments" and
// "Attachments/" behave identically.
func HasPrefixDir(p, prefix string) bool {
	p = Normalize(p)
	prefix = strings.TrimSuffix(Normalize(prefix), "/")
	if prefix == "" {
		return false
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
