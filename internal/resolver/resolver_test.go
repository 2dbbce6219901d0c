package resolver

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.August, 21, 12, 0, 0, 0, time.UTC)

func testResolver() *Resolver {
	files := []string{
		"index.md",
		"people/freya.md",
		"people/thor.md",
		"projects/bifrost.md",
		"projects/Meeting Notes.md",
		"daily/2025-02-01.md",
		"attachments/diagram.png",
		"attachments/report.pdf",
		"notes/diagram.md",
	}
	return New(files, Options{
		IgnoreFiles: []string{"scratch", "templates/weekly"},
		Aliases: map[string][]string{
			"The Allfather": {"people/odin.md"},
			"Lady Freya":    {"people/freya.md"},
		},
		Now: testNow,
	})
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		raw        string
		wantTarget string
		wantAnchor string
	}{
		{"people/freya", "people/freya", ""},
		{"note#Heading", "note", "Heading"},
		{"note#^block-1", "note", "^block-1"},
		{"#Just An Anchor", "", "Just An Anchor"},
		{"<my file.md>", "my file.md", ""},
		{`docs/setup.md "Setup Guide"`, "docs/setup.md", ""},
		{"docs/setup.md 'Setup Guide'", "docs/setup.md", ""},
		{"my%20file", "my file", ""},
		{"note#Some%20Section", "note", "Some Section"},
		{"  spaced  ", "spaced", ""},
		{"", "", ""},
		{"a#b#c", "a", "b#c"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			target, anchor := SplitTarget(tt.raw)
			if target != tt.wantTarget || anchor != tt.wantAnchor {
				t.Errorf("SplitTarget(%q) = (%q, %q), want (%q, %q)",
					tt.raw, target, anchor, tt.wantTarget, tt.wantAnchor)
			}
		})
	}
}

func TestResolveExactAndRelative(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name     string
		raw      string
		source   string
		wantKind Kind
		wantPath string
	}{
		{"exact doc path", "people/freya.md", "index.md", Document, "people/freya.md"},
		{"exact doc path without extension", "people/freya", "index.md", Document, "people/freya.md"},
		{"exact asset path", "attachments/diagram.png", "index.md", Asset, "attachments/diagram.png"},
		{"relative to source", "freya", "people/thor.md", Document, "people/freya.md"},
		{"relative with dotdot", "../attachments/report.pdf", "projects/bifrost.md", Asset, "attachments/report.pdf"},
		{"missing", "people/loki", "index.md", Unresolved, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.raw, tt.source)
			if res.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", res.Kind, tt.wantKind)
			}
			if res.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", res.Path, tt.wantPath)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := testResolver()
	// Same inputs, same outputs, every time.
	for i := 0; i < 10; i++ {
		res := r.Resolve("bifrost", "index.md")
		if res.Kind != Document || res.Path != "projects/bifrost.md" {
			t.Fatalf("run %d: %+v", i, res)
		}
	}
}

func TestResolveShortNames(t *testing.T) {
	r := testResolver()

	res := r.Resolve("bifrost", "index.md")
	if res.Kind != Document || res.Path != "projects/bifrost.md" {
		t.Fatalf("short name: %+v", res)
	}

	// Extension-carrying short names match assets by filename.
	res = r.Resolve("diagram.png", "projects/bifrost.md")
	if res.Kind != Asset || res.Path != "attachments/diagram.png" {
		t.Fatalf("asset short name: %+v", res)
	}

	// Without an extension the basename tier only sees documents.
	res = r.Resolve("diagram", "index.md")
	if res.Kind != Document || res.Path != "notes/diagram.md" {
		t.Fatalf("doc basename: %+v", res)
	}
}

func TestResolveSlugFallback(t *testing.T) {
	r := testResolver()

	res := r.Resolve("projects/meeting-notes", "index.md")
	if res.Kind != Document || res.Path != "projects/Meeting Notes.md" {
		t.Fatalf("slug fallback: %+v", res)
	}
}

func TestResolveAliases(t *testing.T) {
	r := testResolver()

	res := r.Resolve("Lady Freya", "index.md")
	if res.Kind != Document || res.Path != "people/freya.md" {
		t.Fatalf("alias: %+v", res)
	}
}

func TestResolveExternal(t *testing.T) {
	r := testResolver()

	for _, raw := range []string{
		"https://example.com/page",
		"http://example.com",
		"mailto:freya@asgard.realm",
		"view-source:https://example.com",
		"https://example.com/docs#section",
	} {
		res := r.Resolve(raw, "index.md")
		if res.Kind != External {
			t.Errorf("Resolve(%q).Kind = %v, want External", raw, res.Kind)
		}
	}
}

func TestResolveIgnoreFiles(t *testing.T) {
	r := testResolver()

	res := r.Resolve("scratch", "index.md")
	if res.Kind != Ignored {
		t.Fatalf("ignored file: %+v", res)
	}
	res = r.Resolve("templates/weekly", "index.md")
	if res.Kind != Ignored {
		t.Fatalf("ignored path: %+v", res)
	}
	// Ignore matching is exact, not prefix.
	res = r.Resolve("scratchpad", "index.md")
	if res.Kind == Ignored {
		t.Fatalf("scratchpad should not be ignored: %+v", res)
	}
}

func TestResolvePeriodicSuppression(t *testing.T) {
	r := testResolver()

	tests := []struct {
		raw      string
		wantKind Kind
	}{
		{"daily/2025-08-20", Unresolved},   // elapsed and missing
		{"daily/2025-08-21", Suppressed},   // today
		{"daily/2025-08-22", Suppressed},   // tomorrow
		{"daily/2025-02-01", Document},     // elapsed and present
		{"weekly/2025-W34", Suppressed},    // current week
		{"2025-08", Suppressed},            // current month
		{"2025-Q3", Suppressed},            // current quarter
		{"2025", Suppressed},               // current year
		{"monthly/2025-07", Unresolved},    // elapsed month, missing
		{"meeting-2025-08-22", Unresolved}, // date embedded in a name is not periodic
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := r.Resolve(tt.raw, "index.md")
			if res.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", res.Kind, tt.wantKind)
			}
		})
	}
}

func TestResolveSelfReference(t *testing.T) {
	r := testResolver()

	res := r.Resolve("#Notes", "people/freya.md")
	if res.Kind != Document || !res.SelfRef {
		t.Fatalf("self ref: %+v", res)
	}
	if res.Path != "people/freya.md" {
		t.Errorf("path = %q", res.Path)
	}
	if res.Anchor != "Notes" {
		t.Errorf("anchor = %q", res.Anchor)
	}
}

func TestResolveEmptyTarget(t *testing.T) {
	r := testResolver()

	res := r.Resolve("", "index.md")
	if res.Kind != Unresolved || res.SelfRef {
		t.Fatalf("empty: %+v", res)
	}
}

func TestResolveAnchorCarried(t *testing.T) {
	r := testResolver()

	res := r.Resolve("people/freya#Background", "index.md")
	if res.Kind != Document || res.Anchor != "Background" {
		t.Fatalf("anchored: %+v", res)
	}
}

func TestPick(t *testing.T) {
	got := pick([]string{"bbb/x.md", "a/x.md", "ccc/x.md"})
	if got != "a/x.md" {
		t.Errorf("pick shortest = %q", got)
	}
	got = pick([]string{"b/x.md", "a/x.md"})
	if got != "a/x.md" {
		t.Errorf("pick lexicographic = %q", got)
	}
}
