// Package parser extracts document metadata from markdown: frontmatter,
// headings, block anchors, and outbound references.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the typed frontmatter record of a document. It is
// interpreted exactly once when the corpus snapshot is built; downstream
// components never re-read the raw YAML.
type Frontmatter struct {
	Title   string
	Aliases []string
	Tags    []string

	// Raw is the raw frontmatter content between the delimiters.
	Raw string

	// EndLine is the 1-indexed line of the closing delimiter. Body line
	// numbers are offset by this so findings point at file lines.
	EndLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line
// indices. Frontmatter is only recognized when the very first line is
// '---'. If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil (and no error) when the document has no frontmatter. A
// syntactically broken YAML block is an error; callers decide whether to
// warn and continue with the bare body.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, nil
	}

	raw := strings.Join(lines[1:endLine], "\n")

	var data map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse frontmatter as YAML: %w", err)
	}

	// YAML decodes an empty document (or comments only) into a nil map.
	// That still counts as frontmatter present because it shifts body
	// line offsets.
	fm := &Frontmatter{
		Raw:     raw,
		EndLine: endLine + 1,
	}

	for key, value := range data {
		switch key {
		case "title":
			if s, ok := value.(string); ok {
				fm.Title = s
			}
		case "aliases", "alias":
			fm.Aliases = append(fm.Aliases, stringList(value)...)
		case "tags", "tag":
			fm.Tags = append(fm.Tags, stringList(value)...)
		}
	}

	return fm, nil
}

// stringList coerces a YAML scalar-or-sequence into a string slice.
// Obsidian accepts both "aliases: foo" and a proper list.
func stringList(value interface{}) []string {
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}
