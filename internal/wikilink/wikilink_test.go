package wikilink

import "testing"

func TestParseExact(t *testing.T) {
	tests := []struct {
		in          string
		wantTarget  string
		wantDisplay *string
		wantOK      bool
	}{
		{in: "[[people/freya]]", wantTarget: "people/freya", wantOK: true},
		{in: " [[people/freya]] ", wantTarget: "people/freya", wantOK: true},
		{in: "![[img/photo.png]]", wantTarget: "img/photo.png", wantOK: true},
		{
			in:         "[[people/freya|Lady Freya]]",
			wantTarget: "people/freya",
			wantDisplay: func() *string {
				s := "Lady Freya"
				return &s
			}(),
			wantOK: true,
		},
		{in: "[[note#Heading]]", wantTarget: "note#Heading", wantOK: true},
		{in: "[[]]", wantOK: false},
		{in: "people/freya", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target, display, ok := ParseExact(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if target != tt.wantTarget {
				t.Fatalf("target=%q, want %q", target, tt.wantTarget)
			}
			if (display == nil) != (tt.wantDisplay == nil) {
				t.Fatalf("display nil=%v, want %v", display == nil, tt.wantDisplay == nil)
			}
			if display != nil && *display != *tt.wantDisplay {
				t.Fatalf("display=%q, want %q", *display, *tt.wantDisplay)
			}
		})
	}
}

func TestFindAllInLine(t *testing.T) {
	line := "See [[a]] and [[b|B]] and [[[c]]]"
	m := FindAllInLine(line)
	if len(m) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(m))
	}
	if m[0].Target != "a" || m[1].Target != "b" {
		t.Fatalf("unexpected targets: %#v", []string{m[0].Target, m[1].Target})
	}
	if m[0].Embed || m[1].Embed {
		t.Fatalf("plain links flagged as embeds")
	}
}

func TestFindAllInLineEmbeds(t *testing.T) {
	line := "Before ![[img/a.png]] and [[note]] after"
	m := FindAllInLine(line)
	if len(m) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(m))
	}
	if !m[0].Embed {
		t.Fatalf("expected first match to be an embed")
	}
	if m[0].Literal != "![[img/a.png]]" {
		t.Fatalf("embed literal=%q", m[0].Literal)
	}
	if m[0].Start != len("Before ") {
		t.Fatalf("embed start=%d, want %d", m[0].Start, len("Before "))
	}
	if m[1].Embed {
		t.Fatalf("second match should not be an embed")
	}
}

func TestFindAllInLineAnchors(t *testing.T) {
	line := "[[note#Section One]] and [[other#^blockid|see]]"
	m := FindAllInLine(line)
	if len(m) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(m))
	}
	if m[0].Target != "note#Section One" {
		t.Fatalf("target=%q", m[0].Target)
	}
	if m[1].Target != "other#^blockid" {
		t.Fatalf("target=%q", m[1].Target)
	}
	if m[1].DisplayText == nil || *m[1].DisplayText != "see" {
		t.Fatalf("display=%v", m[1].DisplayText)
	}
}
