// Package vault loads a read-only snapshot of an Obsidian-style vault.
package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/rook/internal/parser"
	"github.com/aidanlsb/rook/internal/paths"
)

// Document is one markdown file captured at load time.
type Document struct {
	Path string // vault-relative slash path
	Text string
	Hash string // hex sha256 of the raw content
	Meta *parser.Metadata
}

// LoadWarning records a file that could not be read during loading.
type LoadWarning struct {
	Path string
	Err  error
}

// MetadataCache is an optional read-through cache keyed by content hash.
// Implementations treat Put as best-effort; a failed Put must not surface.
type MetadataCache interface {
	Get(hash string) (*parser.Metadata, bool)
	Put(hash string, meta *parser.Metadata)
}

// LoadOptions controls snapshot loading.
type LoadOptions struct {
	Exclude []string // doublestar globs of vault-relative files to skip
	Jobs    int      // parallel document readers, 0 means GOMAXPROCS
	Cache   MetadataCache
}

// Store is an immutable snapshot of a vault taken at load time.
type Store struct {
	root     string
	docs     map[string]*Document
	order    []string
	files    []string
	fileSet  map[string]struct{}
	warnings []LoadWarning
}

// Load walks root, reads every markdown document, and parses metadata.
// Documents are read in parallel. A file that cannot be read becomes a
// warning, never an error; only an unusable root or cancellation fails
// the load.
func Load(ctx context.Context, root string, opts LoadOptions) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("vault path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", root)
	}

	var (
		files    []string
		warnings []LoadWarning
	)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			rel, _ := filepath.Rel(root, p)
			warnings = append(warnings, LoadWarning{Path: filepath.ToSlash(rel), Err: err})
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		norm := paths.Normalize(filepath.ToSlash(rel))
		if excluded(norm, opts.Exclude) {
			return nil
		}
		files = append(files, norm)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking vault: %w", err)
	}
	sort.Strings(files)

	var mdPaths []string
	for _, f := range files {
		if paths.IsMarkdown(f) {
			mdPaths = append(mdPaths, f)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	loaded := make([]*Document, len(mdPaths))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rel := range mdPaths {
		i, rel := i, rel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				mu.Lock()
				warnings = append(warnings, LoadWarning{Path: rel, Err: err})
				mu.Unlock()
				return nil
			}
			sum := sha256.Sum256(raw)
			hash := hex.EncodeToString(sum[:])

			var meta *parser.Metadata
			if opts.Cache != nil {
				if m, ok := opts.Cache.Get(hash); ok {
					meta = m
				}
			}
			if meta == nil {
				meta = parser.ParseDocument(string(raw))
				if opts.Cache != nil {
					opts.Cache.Put(hash, meta)
				}
			}
			loaded[i] = &Document{Path: rel, Text: string(raw), Hash: hash, Meta: meta}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make(map[string]*Document, len(loaded))
	var order []string
	for _, doc := range loaded {
		if doc == nil {
			continue
		}
		docs[doc.Path] = doc
		order = append(order, doc.Path)
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Path < warnings[j].Path })

	fileSet := make(map[string]struct{}, len(files))
	for _, f := range files {
		fileSet[f] = struct{}{}
	}

	return &Store{
		root:     root,
		docs:     docs,
		order:    order,
		files:    files,
		fileSet:  fileSet,
		warnings: warnings,
	}, nil
}

func excluded(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Root returns the absolute vault root the snapshot was loaded from.
func (s *Store) Root() string { return s.root }

// Documents returns every loaded document in path order.
func (s *Store) Documents() []*Document {
	out := make([]*Document, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.docs[p])
	}
	return out
}

// Metadata returns the parsed metadata for path, or nil when the path is
// not a loaded document.
func (s *Store) Metadata(path string) *parser.Metadata {
	if doc, ok := s.docs[paths.Normalize(path)]; ok {
		return doc.Meta
	}
	return nil
}

// ReadText returns the snapshot content of a document.
func (s *Store) ReadText(path string) (string, bool) {
	if doc, ok := s.docs[paths.Normalize(path)]; ok {
		return doc.Text, true
	}
	return "", false
}

// HasDocument reports whether path is a loaded document.
func (s *Store) HasDocument(path string) bool {
	_, ok := s.docs[paths.Normalize(path)]
	return ok
}

// AllFiles returns every file in the vault, documents and assets alike,
// sorted by path.
func (s *Store) AllFiles() []string {
	return s.files
}

// Warnings returns files skipped because they could not be read.
func (s *Store) Warnings() []LoadWarning {
	return s.warnings
}

// ResolvePath finds an existing file for a loosely written path: exact,
// with a markdown extension added, or relative to another document.
func (s *Store) ResolvePath(raw, relativeTo string) (string, bool) {
	t := paths.Normalize(raw)
	if t == "" {
		return "", false
	}
	candidates := []string{t, paths.WithMarkdown(t)}
	if relativeTo != "" {
		if rel, ok := paths.RelativeTo(relativeTo, t); ok {
			candidates = append(candidates, rel, paths.WithMarkdown(rel))
		}
	}
	for _, c := range candidates {
		if _, ok := s.fileSet[c]; ok {
			return c, true
		}
	}
	return "", false
}
