package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/rook/internal/wikilink"
)

// RefKind distinguishes how a reference was authored. Inline image refs
// (map block "image:" lines) get their own failure category downstream,
// so the kind travels with the reference.
type RefKind string

const (
	RefLink        RefKind = "link"
	RefEmbed       RefKind = "embed"
	RefInlineImage RefKind = "inline-image"
)

// Reference represents an outbound reference found in a document. The
// raw target is kept exactly as authored (including any #anchor);
// splitting and cleaning happen at resolution time.
type Reference struct {
	RawTarget string
	Kind      RefKind
	Line      int // 1-indexed
}

// blockAnchorRe matches a block anchor definition at end of line:
// "some text ^quote-1". The anchor must follow start-of-line or
// whitespace so expressions like 2^10 are not picked up.
var blockAnchorRe = regexp.MustCompile(`(?:^|\s)\^([A-Za-z0-9][A-Za-z0-9_-]*)\s*$`)

// leafletImageRe matches an "image:" entry inside a map block.
var leafletImageRe = regexp.MustCompile(`^\s*image:\s*(.+?)\s*$`)

// ExtractWikiRefs extracts [[wikilink]] and ![[embed]] references from
// content. Refs inside fenced code blocks and inline code spans are
// skipped.
func ExtractWikiRefs(content string, startLine int) []Reference {
	var refs []Reference

	lines := strings.Split(content, "\n")
	state := FenceState{}
	for lineOffset, line := range lines {
		lineNum := startLine + lineOffset

		if state.Update(line) {
			continue // fence marker line
		}
		if state.InFence {
			continue
		}

		sanitized := RemoveInlineCode(line)
		for _, match := range wikilink.FindAllInLine(sanitized) {
			kind := RefLink
			if match.Embed {
				kind = RefEmbed
			}
			refs = append(refs, Reference{
				RawTarget: match.Target,
				Kind:      kind,
				Line:      lineNum,
			})
		}
	}

	return refs
}

// ExtractMapImageRefs extracts image references from "image:" lines
// inside fenced map blocks (info string "leaflet"). The value may be a
// bare path or a [[wikilink]]; either way the reference carries no
// display text and kind RefInlineImage.
func ExtractMapImageRefs(content string, startLine int) []Reference {
	var refs []Reference

	lines := strings.Split(content, "\n")
	state := FenceState{}
	for lineOffset, line := range lines {
		lineNum := startLine + lineOffset

		if state.Update(line) {
			continue
		}
		if !state.InFence || !isMapBlock(state.Info) {
			continue
		}

		m := leafletImageRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.Trim(m[1], `"'`)
		if target, _, ok := wikilink.ParseExact(value); ok {
			value = target
		}
		if value == "" {
			continue
		}

		refs = append(refs, Reference{
			RawTarget: value,
			Kind:      RefInlineImage,
			Line:      lineNum,
		})
	}

	return refs
}

// isMapBlock reports whether a fence info string marks an interactive
// map block.
func isMapBlock(info string) bool {
	fields := strings.Fields(info)
	return len(fields) > 0 && strings.EqualFold(fields[0], "leaflet")
}

// ExtractBlockAnchors collects ^block-anchor definitions, deduplicated,
// in order of first appearance. Anchors are matched outside fenced code
// blocks and outside inline code.
func ExtractBlockAnchors(content string) []string {
	var anchors []string
	seen := make(map[string]struct{})

	state := FenceState{}
	for _, line := range strings.Split(content, "\n") {
		if state.Update(line) {
			continue
		}
		if state.InFence {
			continue
		}

		sanitized := RemoveInlineCode(line)
		m := blockAnchorRe.FindStringSubmatch(sanitized)
		if m == nil {
			continue
		}
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		anchors = append(anchors, id)
	}

	return anchors
}
