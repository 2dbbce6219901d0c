package vault

import (
	"context"
	"sync"
	"testing"

	"github.com/aidanlsb/rook/internal/parser"
	"github.com/aidanlsb/rook/internal/testutil"
)

func TestLoadSnapshot(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithFile("index.md", "# Index\n\nSee [[notes/plan]] and ![[attachments/pic.png]].\n").
		WithFile("notes/plan.md", "# Plan\n\nNothing yet.\n").
		WithFile("attachments/pic.png", "not really a png").
		WithFile("readme.txt", "plain text").
		WithFile(".obsidian/app.json", "{}").
		WithFile(".rook/cache.db", "stale").
		Build()

	store, err := Load(context.Background(), tv.Path, LoadOptions{Jobs: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantFiles := []string{"attachments/pic.png", "index.md", "notes/plan.md", "readme.txt"}
	files := store.AllFiles()
	if len(files) != len(wantFiles) {
		t.Fatalf("AllFiles = %v, want %v", files, wantFiles)
	}
	for i := range wantFiles {
		if files[i] != wantFiles[i] {
			t.Errorf("AllFiles[%d] = %q, want %q", i, files[i], wantFiles[i])
		}
	}

	docs := store.Documents()
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Path != "index.md" || docs[1].Path != "notes/plan.md" {
		t.Errorf("document order: %s, %s", docs[0].Path, docs[1].Path)
	}

	meta := store.Metadata("index.md")
	if meta == nil {
		t.Fatal("Metadata(index.md) = nil")
	}
	if len(meta.Refs) != 2 {
		t.Errorf("index.md refs = %d, want 2", len(meta.Refs))
	}
	if store.Metadata("attachments/pic.png") != nil {
		t.Error("assets should have no metadata")
	}

	if !store.HasDocument("notes/plan.md") {
		t.Error("HasDocument(notes/plan.md) = false")
	}
	if store.HasDocument("readme.txt") {
		t.Error("HasDocument(readme.txt) = true")
	}

	text, ok := store.ReadText("notes/plan.md")
	if !ok || text != "# Plan\n\nNothing yet.\n" {
		t.Errorf("ReadText = %q, %v", text, ok)
	}

	if len(store.Warnings()) != 0 {
		t.Errorf("warnings = %v", store.Warnings())
	}
}

func TestLoadExclude(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithFile("index.md", "# Index\n").
		WithFile("archive/old.md", "# Old\n").
		WithFile("archive/deep/older.md", "# Older\n").
		Build()

	store, err := Load(context.Background(), tv.Path, LoadOptions{
		Exclude: []string{"archive/**"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(store.Documents()) != 1 {
		t.Errorf("documents = %d, want 1", len(store.Documents()))
	}
	for _, f := range store.AllFiles() {
		if f != "index.md" {
			t.Errorf("unexpected file survived exclude: %s", f)
		}
	}
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(context.Background(), "/definitely/not/a/vault", LoadOptions{})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

type fakeCache struct {
	mu   sync.Mutex
	m    map[string]*parser.Metadata
	hits int
	puts int
}

func newFakeCache() *fakeCache {
	return &fakeCache{m: make(map[string]*parser.Metadata)}
}

func (c *fakeCache) Get(hash string) (*parser.Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.m[hash]
	if ok {
		c.hits++
	}
	return meta, ok
}

func (c *fakeCache) Put(hash string, meta *parser.Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[hash] = meta
	c.puts++
}

func TestLoadCacheReadThrough(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithFile("a.md", "# A\n\n[[b]]\n").
		WithFile("b.md", "# B\n").
		Build()

	cache := newFakeCache()

	store1, err := Load(context.Background(), tv.Path, LoadOptions{Cache: cache})
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if cache.puts != 2 || cache.hits != 0 {
		t.Fatalf("after first load: puts=%d hits=%d", cache.puts, cache.hits)
	}

	store2, err := Load(context.Background(), tv.Path, LoadOptions{Cache: cache})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if cache.hits != 2 {
		t.Errorf("after second load: hits=%d, want 2", cache.hits)
	}

	// Cached metadata must describe the same document.
	m1 := store1.Metadata("a.md")
	m2 := store2.Metadata("a.md")
	if len(m1.Refs) != len(m2.Refs) {
		t.Errorf("cached metadata diverges: %d refs vs %d", len(m1.Refs), len(m2.Refs))
	}
}

func TestResolvePath(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithFile("report.md", "# Report\n").
		WithFile("docs/guide.md", "# Guide\n").
		WithFile("docs/style.css", "body {}\n").
		Build()

	store, err := Load(context.Background(), tv.Path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		raw        string
		relativeTo string
		want       string
		ok         bool
	}{
		{"report.md", "", "report.md", true},
		{"report", "", "report.md", true},
		{"docs/guide", "", "docs/guide.md", true},
		{"guide", "docs/guide.md", "docs/guide.md", true},
		{"style.css", "docs/guide.md", "docs/style.css", true},
		{"missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := store.ResolvePath(tt.raw, tt.relativeTo)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = (%q, %v), want (%q, %v)",
					tt.raw, tt.relativeTo, got, ok, tt.want, tt.ok)
			}
		})
	}
}
