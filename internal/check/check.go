// Package check runs the vault-wide reference integrity scan.
//
// The scan walks every document in the corpus snapshot, resolves each
// outbound reference, validates anchors on resolved documents, and
// marks resolved assets reached. Per-document findings are accumulated
// independently and merged in document order, so a fixed snapshot and
// config always produce the same report.
package check

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/rook/internal/anchors"
	"github.com/aidanlsb/rook/internal/assets"
	"github.com/aidanlsb/rook/internal/parser"
	"github.com/aidanlsb/rook/internal/report"
	"github.com/aidanlsb/rook/internal/resolver"
	"github.com/aidanlsb/rook/internal/vault"
)

// Options configures a scan. The zero value checks everything with
// built-in defaults.
type Options struct {
	// IgnoreAnchors lists raw anchor fragments never flagged as missing.
	IgnoreAnchors []string

	// IgnoreFiles lists clean targets excluded from resolution.
	IgnoreFiles []string

	// IgnoreUnreferencedPaths lists path prefixes excluded from the
	// unreferenced-asset report.
	IgnoreUnreferencedPaths []string

	// AttachmentGlobs restricts the unreferenced-asset report to
	// attachment-like paths. Empty means every asset qualifies.
	AttachmentGlobs []string

	// Templates lists path prefixes whose assets are structurally
	// reachable and never tracked.
	Templates []string

	// ReportFile is the vault-relative report document, exempt from
	// asset tracking.
	ReportFile string

	// Now anchors periodic-note suppression. Zero means current UTC time.
	Now time.Time

	// Jobs bounds the per-document fan-out. Zero or negative means
	// GOMAXPROCS.
	Jobs int
}

// Result is the outcome of a completed scan.
type Result struct {
	// Report holds the four finding categories, ready to render.
	Report report.Content

	// Docs is the number of documents scanned, Files the total corpus
	// file count, Refs the number of references examined.
	Docs  int
	Files int
	Refs  int
}

// docFindings accumulates one document's contribution to the report.
type docFindings struct {
	missingRefs      []report.Row
	missingAnchors   []report.Row
	missingMapImages []report.Row
	refs             int
}

type checker struct {
	store    *vault.Store
	resolver *resolver.Resolver
	anchors  *anchors.Validator
	tracker  *assets.Tracker
}

// Run scans the whole corpus snapshot and returns the merged findings.
// Cancellation stops scheduling documents and returns the context error;
// partial results are discarded.
func Run(ctx context.Context, store *vault.Store, opts Options) (*Result, error) {
	files := store.AllFiles()

	c := &checker{
		store: store,
		resolver: resolver.New(files, resolver.Options{
			IgnoreFiles: opts.IgnoreFiles,
			Aliases:     collectAliases(store),
			Now:         opts.Now,
		}),
		anchors: anchors.NewValidator(opts.IgnoreAnchors),
		tracker: assets.NewTracker(files, assets.Exemptions{
			Templates:  opts.Templates,
			ReportFile: opts.ReportFile,
		}),
	}

	docs := store.Documents()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Findings land in per-document slots so the merge below is
	// deterministic regardless of scheduling. The tracker is the only
	// shared state the workers touch.
	findings := make([]docFindings, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			findings[i] = c.document(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Docs:  len(docs),
		Files: len(files),
	}
	for _, f := range findings {
		res.Report.MissingRefs = append(res.Report.MissingRefs, f.missingRefs...)
		res.Report.MissingAnchors = append(res.Report.MissingAnchors, f.missingAnchors...)
		res.Report.MissingMapImages = append(res.Report.MissingMapImages, f.missingMapImages...)
		res.Refs += f.refs
	}

	res.Report.Unreferenced = c.tracker.Unreferenced(assets.Filter{
		IgnorePrefixes:  opts.IgnoreUnreferencedPaths,
		AttachmentGlobs: opts.AttachmentGlobs,
		HasDocument:     store.HasDocument,
	})

	return res, nil
}

// document checks one document's references. Duplicate findings within
// a document collapse to the first occurrence; the same breakage in two
// documents stays two rows because each names its own source.
func (c *checker) document(doc *vault.Document) docFindings {
	var out docFindings
	if doc.Meta == nil {
		return out
	}

	// Dedupe within a category only: the same broken target may appear
	// as both a structural reference and a map image, and each category
	// reports its own row.
	seen := make(map[string]struct{})
	record := func(category string, rows *[]report.Row, row report.Row) {
		key := category + "\x00" + row.Source + "\x00" + row.Anchor + "\x00" + row.Target
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		*rows = append(*rows, row)
	}

	for _, ref := range doc.Meta.Refs {
		out.refs++
		res := c.resolver.Resolve(ref.RawTarget, doc.Path)

		switch res.Kind {
		case resolver.External, resolver.Ignored, resolver.Suppressed:
			continue

		case resolver.Document:
			if res.Anchor == "" {
				continue
			}
			ok, detail := c.anchors.Check(res.Anchor, c.store.Metadata(res.Path))
			if !ok {
				record("anchor", &out.missingAnchors, report.Row{
					Source: doc.Path,
					Anchor: res.Anchor,
					Target: res.Path,
					Detail: detail,
				})
			}

		case resolver.Asset:
			c.tracker.Mark(res.Path)

		case resolver.Unresolved:
			row := report.Row{Source: doc.Path, Target: res.Target}
			if ref.Kind == parser.RefInlineImage {
				record("map-image", &out.missingMapImages, row)
			} else {
				record("ref", &out.missingRefs, row)
			}
		}
	}

	return out
}

// collectAliases maps every frontmatter alias to the documents that
// declare it. Several documents may claim the same alias; the resolver
// breaks the tie deterministically.
func collectAliases(store *vault.Store) map[string][]string {
	aliases := make(map[string][]string)
	for _, doc := range store.Documents() {
		if doc.Meta == nil || doc.Meta.Frontmatter == nil {
			continue
		}
		for _, alias := range doc.Meta.Frontmatter.Aliases {
			aliases[alias] = append(aliases[alias], doc.Path)
		}
	}
	return aliases
}
