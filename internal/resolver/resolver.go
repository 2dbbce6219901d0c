// Package resolver classifies and resolves reference targets against a
// corpus snapshot.
//
// Resolution is pure: for a fixed snapshot, config, and clock the same
// raw target from the same source always yields the same Result. An
// unresolvable target is a normal outcome, never an error.
package resolver

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aidanlsb/rook/internal/paths"
	"github.com/aidanlsb/rook/internal/periodic"
	"github.com/aidanlsb/rook/internal/slugs"
)

// Kind classifies what a reference target turned out to be.
type Kind int

const (
	// Unresolved means no corpus file matches the target.
	Unresolved Kind = iota
	// External means the target is an outside URL (http, mailto, ...).
	External
	// Ignored means config excludes the target from checking.
	Ignored
	// Suppressed means the target names a periodic note whose period
	// has not yet elapsed.
	Suppressed
	// Document means the target resolved to a markdown document.
	Document
	// Asset means the target resolved to a non-document file.
	Asset
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case External:
		return "external"
	case Ignored:
		return "ignored"
	case Suppressed:
		return "suppressed"
	case Document:
		return "document"
	case Asset:
		return "asset"
	default:
		return "unresolved"
	}
}

// Result is the outcome of resolving one reference.
type Result struct {
	Kind Kind

	// Path is the resolved vault-relative path (Document and Asset only).
	Path string

	// Target is the cleaned target text, useful for findings.
	Target string

	// Anchor is the raw anchor half of the reference ("" when absent).
	Anchor string

	// SelfRef marks an empty target with an anchor: the reference points
	// into its own source document.
	SelfRef bool
}

// Options configures a Resolver.
type Options struct {
	// IgnoreFiles lists clean targets that are never checked.
	IgnoreFiles []string

	// Aliases maps frontmatter aliases to the documents declaring them.
	Aliases map[string][]string

	// Now anchors periodic-note suppression. Zero means time.Now in UTC.
	Now time.Time
}

// Resolver resolves clean targets against the corpus.
type Resolver struct {
	files   map[string]struct{} // every vault file
	byName  map[string][]string // exact filename -> paths
	byBase  map[string][]string // document basename (no .md) -> paths
	bySlug  map[string][]string // slugified doc path -> paths
	aliases map[string][]string
	ignore  map[string]struct{}
	now     time.Time
}

// New builds a Resolver over the given vault-relative file listing.
func New(files []string, opts Options) *Resolver {
	r := &Resolver{
		files:   make(map[string]struct{}, len(files)),
		byName:  make(map[string][]string),
		byBase:  make(map[string][]string),
		bySlug:  make(map[string][]string),
		aliases: opts.Aliases,
		ignore:  make(map[string]struct{}, len(opts.IgnoreFiles)),
		now:     opts.Now,
	}
	if r.now.IsZero() {
		r.now = time.Now().UTC()
	}
	if r.aliases == nil {
		r.aliases = map[string][]string{}
	}

	for _, f := range files {
		f = paths.Normalize(f)
		r.files[f] = struct{}{}
		r.byName[path.Base(f)] = append(r.byName[path.Base(f)], f)

		// Extension-less lookups ([[note]]) and slug matching are
		// document behaviors; assets are always referenced with their
		// extension.
		if paths.IsMarkdown(f) {
			noExt := paths.TrimMarkdown(f)
			base := path.Base(noExt)
			r.byBase[base] = append(r.byBase[base], f)
			r.bySlug[slugs.Path(noExt)] = append(r.bySlug[slugs.Path(noExt)], f)
		}
	}

	for _, ig := range opts.IgnoreFiles {
		r.ignore[strings.TrimSpace(ig)] = struct{}{}
	}

	return r
}

// titleRe strips a trailing quoted markdown link title.
var titleRe = regexp.MustCompile(`\s+("[^"]*"|'[^']*')\s*$`)

// SplitTarget cleans a raw reference target and separates the anchor:
// surrounding <...> is removed, a trailing quoted title is dropped, the
// string is split at the first '#', %20 becomes a space, and both halves
// are trimmed.
func SplitTarget(raw string) (target, anchor string) {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = s[1 : len(s)-1]
	}
	s = titleRe.ReplaceAllString(s, "")

	if i := strings.Index(s, "#"); i >= 0 {
		target, anchor = s[:i], s[i+1:]
	} else {
		target = s
	}

	target = strings.TrimSpace(strings.ReplaceAll(target, "%20", " "))
	anchor = strings.TrimSpace(strings.ReplaceAll(anchor, "%20", " "))
	return target, anchor
}

// externalSchemes are target prefixes that mark a reference as leaving
// the vault entirely.
var externalSchemes = []string{"http", "mailto", "view-source"}

// Resolve resolves one raw reference target from the given source
// document.
func (r *Resolver) Resolve(rawTarget, source string) Result {
	target, anchor := SplitTarget(rawTarget)

	if target == "" {
		if anchor != "" {
			return Result{
				Kind:    Document,
				Path:    paths.Normalize(source),
				Target:  target,
				Anchor:  anchor,
				SelfRef: true,
			}
		}
		return Result{Kind: Unresolved, Target: target, Anchor: anchor}
	}

	lower := strings.ToLower(target)
	for _, scheme := range externalSchemes {
		if strings.HasPrefix(lower, scheme) {
			return Result{Kind: External, Target: target, Anchor: anchor}
		}
	}

	if _, ok := r.ignore[target]; ok {
		return Result{Kind: Ignored, Target: target, Anchor: anchor}
	}

	if p, ok := periodic.Parse(paths.Basename(target)); ok && !p.Elapsed(r.now) {
		return Result{Kind: Suppressed, Target: target, Anchor: anchor}
	}

	if resolved, ok := r.lookup(target, source); ok {
		kind := Asset
		if paths.IsMarkdown(resolved) {
			kind = Document
		}
		return Result{Kind: kind, Path: resolved, Target: target, Anchor: anchor}
	}

	return Result{Kind: Unresolved, Target: target, Anchor: anchor}
}

// lookup runs the resolution ladder: exact vault path, source-relative
// path, filename or basename match, alias, slug. Ties are broken
// deterministically (shortest path, then lexicographic) so a fixed
// corpus always resolves the same way.
func (r *Resolver) lookup(target, source string) (string, bool) {
	t := paths.Normalize(target)

	if _, ok := r.files[t]; ok {
		return t, true
	}
	if md := paths.WithMarkdown(t); md != t {
		if _, ok := r.files[md]; ok {
			return md, true
		}
	}

	if rel, ok := paths.RelativeTo(source, t); ok {
		if _, found := r.files[rel]; found {
			return rel, true
		}
		if md := paths.WithMarkdown(rel); md != rel {
			if _, found := r.files[md]; found {
				return md, true
			}
		}
	}

	// Short-name tiers only apply to bare names; "a/freya" must not
	// match "b/freya".
	if !strings.Contains(t, "/") {
		name := path.Base(t)
		if ext := path.Ext(name); ext != "" && !strings.EqualFold(ext, ".md") {
			if matches := r.byName[name]; len(matches) > 0 {
				return pick(matches), true
			}
		} else {
			if matches := r.byBase[paths.TrimMarkdown(name)]; len(matches) > 0 {
				return pick(matches), true
			}
		}

		if matches := r.aliases[t]; len(matches) > 0 {
			return pick(matches), true
		}
	}

	if matches := r.bySlug[slugs.Path(t)]; len(matches) > 0 {
		return pick(matches), true
	}

	return "", false
}

// Exists reports whether a vault-relative path is part of the corpus.
func (r *Resolver) Exists(p string) bool {
	_, ok := r.files[paths.Normalize(p)]
	return ok
}

// pick chooses deterministically among equally valid matches: the
// shortest path wins, lexicographic order breaks remaining ties.
func pick(matches []string) string {
	best := matches[0]
	for _, m := range matches[1:] {
		if len(m) < len(best) || (len(m) == len(best) && m < best) {
			best = m
		}
	}
	return best
}
