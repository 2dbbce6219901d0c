package check

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/aidanlsb/rook/internal/report"
	"github.com/aidanlsb/rook/internal/testutil"
	"github.com/aidanlsb/rook/internal/vault"
)

var testNow = time.Date(2025, time.August, 21, 12, 0, 0, 0, time.UTC)

func loadVault(t *testing.T, files map[string]string) *vault.Store {
	t.Helper()

	v := testutil.NewTestVault(t)
	for path, content := range files {
		v.WithFile(path, content)
	}
	v.Build()

	store, err := vault.Load(context.Background(), v.Path, vault.LoadOptions{})
	if err != nil {
		t.Fatalf("failed to load vault: %v", err)
	}
	return store
}

func TestRunFindings(t *testing.T) {
	store := loadVault(t, map[string]string{
		"index.md": "---\ntitle: Index\n---\n\n" +
			"# Index\n\n" +
			"Intro paragraph. ^intro\n\n" +
			"See [[notes/target]] and [[missing]].\n" +
			"Read [section](notes/target.md#Notes) and [bad](notes/target.md#Nope%20Typo).\n" +
			"Embed: ![[attachments/pic.png]]\n" +
			"Self: [[#^intro]] and [[#^absent]]\n" +
			"Web: [site](https://example.com)\n" +
			"Soon: [[daily/2030-01-01]]\n" +
			"Past: [[daily/2020-01-01]]\n\n" +
			"```leaflet\nid: map1\nimage: attachments/map.png\nimage: gone.png\n```\n",
		"notes/target.md":       "---\naliases: [Target Note]\n---\n\n## Notes\n\nBody.\n",
		"attachments/pic.png":   "png",
		"attachments/map.png":   "png",
		"attachments/orphan.pdf": "pdf",
		"notes/elsewhere.png":   "png",
	})

	res, err := Run(context.Background(), store, Options{
		AttachmentGlobs: []string{"**/attachments/**"},
		Now:             testNow,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantRefs := []report.Row{
		{Source: "index.md", Target: "missing"},
		{Source: "index.md", Target: "daily/2020-01-01"},
	}
	if !reflect.DeepEqual(res.Report.MissingRefs, wantRefs) {
		t.Errorf("missing refs = %+v, want %+v", res.Report.MissingRefs, wantRefs)
	}

	wantAnchors := []report.Row{
		{Source: "index.md", Anchor: "Nope Typo", Target: "notes/target.md"},
		{Source: "index.md", Anchor: "^absent", Target: "index.md"},
	}
	if !reflect.DeepEqual(res.Report.MissingAnchors, wantAnchors) {
		t.Errorf("missing anchors = %+v, want %+v", res.Report.MissingAnchors, wantAnchors)
	}

	wantImages := []report.Row{
		{Source: "index.md", Target: "gone.png"},
	}
	if !reflect.DeepEqual(res.Report.MissingMapImages, wantImages) {
		t.Errorf("missing map images = %+v, want %+v", res.Report.MissingMapImages, wantImages)
	}

	wantUnref := []string{"attachments/orphan.pdf"}
	if !reflect.DeepEqual(res.Report.Unreferenced, wantUnref) {
		t.Errorf("unreferenced = %v, want %v", res.Report.Unreferenced, wantUnref)
	}

	if res.Docs != 2 {
		t.Errorf("docs = %d, want 2", res.Docs)
	}
	if res.Files != 6 {
		t.Errorf("files = %d, want 6", res.Files)
	}
}

func TestRunDeterministic(t *testing.T) {
	files := map[string]string{
		"a.md":          "[[gone-1]] [[gone-2]] [[b]]\n",
		"b.md":          "[[gone-1]] ![[pics/one.png]]\n",
		"pics/one.png":  "png",
		"pics/two.png":  "png",
		"pics/three.png": "png",
	}

	store := loadVault(t, files)

	first, err := Run(context.Background(), store, Options{Now: testNow, Jobs: 4})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Run(context.Background(), store, Options{Now: testNow, Jobs: 4})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first.Report, again.Report) {
			t.Fatalf("run %d diverged:\n%+v\nvs\n%+v", i, first.Report, again.Report)
		}
	}

	// Findings merge in document order: all of a.md before b.md.
	wantRefs := []report.Row{
		{Source: "a.md", Target: "gone-1"},
		{Source: "a.md", Target: "gone-2"},
		{Source: "b.md", Target: "gone-1"},
	}
	if !reflect.DeepEqual(first.Report.MissingRefs, wantRefs) {
		t.Errorf("missing refs = %+v, want %+v", first.Report.MissingRefs, wantRefs)
	}
}

func TestRunDedupeWithinDocument(t *testing.T) {
	store := loadVault(t, map[string]string{
		"a.md": "[[gone]] again [[gone]] and [](gone.md)\n",
	})

	res, err := Run(context.Background(), store, Options{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []report.Row{
		{Source: "a.md", Target: "gone"},
		{Source: "a.md", Target: "gone.md"},
	}
	if !reflect.DeepEqual(res.Report.MissingRefs, want) {
		t.Errorf("missing refs = %+v, want %+v", res.Report.MissingRefs, want)
	}
}

func TestRunDedupeKeepsCategoriesApart(t *testing.T) {
	store := loadVault(t, map[string]string{
		"a.md": "![[pic.png]]\n\n```leaflet\nid: m\nimage: pic.png\n```\n",
	})

	res, err := Run(context.Background(), store, Options{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The same broken target shows up once per category, not once overall.
	wantRefs := []report.Row{{Source: "a.md", Target: "pic.png"}}
	if !reflect.DeepEqual(res.Report.MissingRefs, wantRefs) {
		t.Errorf("missing refs = %+v, want %+v", res.Report.MissingRefs, wantRefs)
	}
	wantImages := []report.Row{{Source: "a.md", Target: "pic.png"}}
	if !reflect.DeepEqual(res.Report.MissingMapImages, wantImages) {
		t.Errorf("missing map images = %+v, want %+v", res.Report.MissingMapImages, wantImages)
	}
}

func TestRunIgnoreRules(t *testing.T) {
	store := loadVault(t, map[string]string{
		"a.md": "[[scratch]] [[gone]] [x](b.md#Formatting) [y](b.md#Real%20Gone)\n",
		"b.md": "# Something\n",
	})

	res, err := Run(context.Background(), store, Options{
		IgnoreFiles:   []string{"scratch"},
		IgnoreAnchors: []string{"Formatting"},
		Now:           testNow,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantRefs := []report.Row{{Source: "a.md", Target: "gone"}}
	if !reflect.DeepEqual(res.Report.MissingRefs, wantRefs) {
		t.Errorf("missing refs = %+v, want %+v", res.Report.MissingRefs, wantRefs)
	}

	wantAnchors := []report.Row{{Source: "a.md", Anchor: "Real Gone", Target: "b.md"}}
	if !reflect.DeepEqual(res.Report.MissingAnchors, wantAnchors) {
		t.Errorf("missing anchors = %+v, want %+v", res.Report.MissingAnchors, wantAnchors)
	}
}

func TestRunPeriodicSuppression(t *testing.T) {
	store := loadVault(t, map[string]string{
		"log.md": "[[daily/2025-08-21]] [[weekly/2025-W34]] [[monthly/2025-08]] [[daily/2025-08-20]]\n",
	})

	res, err := Run(context.Background(), store, Options{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Current day, week, and month are all suppressed; only the elapsed
	// day is reported.
	want := []report.Row{{Source: "log.md", Target: "daily/2025-08-20"}}
	if !reflect.DeepEqual(res.Report.MissingRefs, want) {
		t.Errorf("missing refs = %+v, want %+v", res.Report.MissingRefs, want)
	}
}

func TestRunTrackerExemptions(t *testing.T) {
	store := loadVault(t, map[string]string{
		"a.md":                        "nothing linked\n",
		"attachments/orphan.pdf":      "pdf",
		"templates/logo.png":          "png",
		"drawings/sketch.excalidraw":  "{}",
		"drawings/sketch.excalidraw.md": "wrapper\n",
		"archive/old.png":             "png",
	})

	res, err := Run(context.Background(), store, Options{
		Templates:               []string{"templates"},
		IgnoreUnreferencedPaths: []string{"archive"},
		Now:                     testNow,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"attachments/orphan.pdf"}
	if !reflect.DeepEqual(res.Report.Unreferenced, want) {
		t.Errorf("unreferenced = %v, want %v", res.Report.Unreferenced, want)
	}
}

func TestRunAliasResolution(t *testing.T) {
	store := loadVault(t, map[string]string{
		"a.md":            "[[The Allfather]]\n",
		"people/odin.md":  "---\naliases:\n  - The Allfather\n---\n\nbody\n",
	})

	res, err := Run(context.Background(), store, Options{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Report.MissingRefs) != 0 {
		t.Errorf("aliased link reported missing: %+v", res.Report.MissingRefs)
	}
}

func TestRunCancelled(t *testing.T) {
	store := loadVault(t, map[string]string{
		"a.md": "[[gone]]\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, store, Options{Now: testNow}); err == nil {
		t.Error("expected error from cancelled context")
	}
}
