package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Metadata is everything the checker knows about a document beyond its
// raw text: the typed frontmatter record, ordered headings, block anchor
// definitions, and ordered outbound references. It is built once per
// document when the corpus snapshot is assembled and treated as
// immutable afterwards.
type Metadata struct {
	Frontmatter  *Frontmatter // nil when the document has none
	Headings     []Heading
	BlockAnchors []string
	Refs         []Reference

	// Warnings collects non-fatal parse notes (e.g. broken frontmatter
	// YAML). The document still participates in the scan.
	Warnings []string
}

// HasBlockAnchor reports whether id is defined as a block anchor.
func (m *Metadata) HasBlockAnchor(id string) bool {
	for _, a := range m.BlockAnchors {
		if a == id {
			return true
		}
	}
	return false
}

// ParseDocument parses markdown content into its Metadata.
//
// Broken frontmatter YAML is tolerated: the delimiters still shift body
// line numbers, the typed record stays empty, and a warning is recorded.
// One bad document must never hide its own outbound references.
func ParseDocument(content string) *Metadata {
	meta := &Metadata{}

	bodyStart := 1
	body := content

	lines := strings.Split(content, "\n")
	if _, endLine, ok := FrontmatterBounds(lines); ok && endLine != -1 {
		fm, err := ParseFrontmatter(content)
		if err != nil {
			meta.Warnings = append(meta.Warnings, fmt.Sprintf("frontmatter ignored: %v", err))
			fm = &Frontmatter{EndLine: endLine + 1}
		}
		meta.Frontmatter = fm

		bodyStart = fm.EndLine + 1
		if fm.EndLine < len(lines) {
			body = strings.Join(lines[fm.EndLine:], "\n")
		} else {
			body = ""
		}
	}

	meta.Headings = ExtractHeadings(body, bodyStart)
	meta.BlockAnchors = ExtractBlockAnchors(body)

	refs := ExtractWikiRefs(body, bodyStart)
	refs = append(refs, ExtractMarkdownRefs(body, bodyStart)...)
	refs = append(refs, ExtractMapImageRefs(body, bodyStart)...)
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Line < refs[j].Line
	})
	meta.Refs = refs

	return meta
}
