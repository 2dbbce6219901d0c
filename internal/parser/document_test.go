package parser

import (
	"testing"
)

func TestParseDocument(t *testing.T) {
	content := `---
title: Trip Plan
tags: [travel]
---

# Trip Plan

See [[places/oslo]] and the [route](maps/route.md).

## Packing List

- tent ^gear-1
- ![[attachments/tent.jpg]]

` + "```leaflet\nimage: [[maps/norway.png]]\n```\n"

	meta := ParseDocument(content)

	if meta.Frontmatter == nil || meta.Frontmatter.Title != "Trip Plan" {
		t.Fatalf("frontmatter = %+v", meta.Frontmatter)
	}
	if len(meta.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", meta.Warnings)
	}

	// Frontmatter closes at line 4, so the body starts at line 5 and
	// every position below reflects file lines, not body lines.
	if len(meta.Headings) != 2 {
		t.Fatalf("headings = %+v", meta.Headings)
	}
	if meta.Headings[0].Text != "Trip Plan" || meta.Headings[0].Line != 6 {
		t.Errorf("heading[0] = %+v", meta.Headings[0])
	}
	if meta.Headings[1].Text != "Packing List" || meta.Headings[1].Line != 10 {
		t.Errorf("heading[1] = %+v", meta.Headings[1])
	}

	if !meta.HasBlockAnchor("gear-1") {
		t.Errorf("missing block anchor gear-1: %v", meta.BlockAnchors)
	}
	if meta.HasBlockAnchor("nope") {
		t.Errorf("unexpected block anchor")
	}

	wantRefs := []Reference{
		{RawTarget: "places/oslo", Kind: RefLink, Line: 8},
		{RawTarget: "maps/route.md", Kind: RefLink, Line: 8},
		{RawTarget: "attachments/tent.jpg", Kind: RefEmbed, Line: 13},
		{RawTarget: "maps/norway.png", Kind: RefInlineImage, Line: 16},
	}
	if len(meta.Refs) != len(wantRefs) {
		t.Fatalf("refs = %+v", meta.Refs)
	}
	for i, want := range wantRefs {
		if meta.Refs[i] != want {
			t.Errorf("ref[%d] = %+v, want %+v", i, meta.Refs[i], want)
		}
	}
}

func TestParseDocumentNoFrontmatter(t *testing.T) {
	meta := ParseDocument("# Top\n\n[[other]]\n")
	if meta.Frontmatter != nil {
		t.Fatalf("expected nil frontmatter")
	}
	if len(meta.Headings) != 1 || meta.Headings[0].Line != 1 {
		t.Fatalf("headings = %+v", meta.Headings)
	}
	if len(meta.Refs) != 1 || meta.Refs[0].Line != 3 {
		t.Fatalf("refs = %+v", meta.Refs)
	}
}

func TestParseDocumentBrokenFrontmatter(t *testing.T) {
	content := "---\ntitle: [oops\n---\n\n# Still Parsed\n\n[[link]]\n"
	meta := ParseDocument(content)

	if len(meta.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", meta.Warnings)
	}
	if meta.Frontmatter == nil || meta.Frontmatter.Title != "" {
		t.Fatalf("frontmatter = %+v", meta.Frontmatter)
	}
	// Body offset still honors the delimiters.
	if len(meta.Headings) != 1 || meta.Headings[0].Line != 5 {
		t.Fatalf("headings = %+v", meta.Headings)
	}
	if len(meta.Refs) != 1 || meta.Refs[0].Line != 7 {
		t.Fatalf("refs = %+v", meta.Refs)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	meta := ParseDocument("")
	if meta.Frontmatter != nil || len(meta.Refs) != 0 || len(meta.Headings) != 0 {
		t.Fatalf("meta = %+v", meta)
	}
}
