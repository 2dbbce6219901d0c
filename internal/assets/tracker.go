// Package assets tracks which non-document files are ever referenced
// during a scan.
package assets

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aidanlsb/rook/internal/paths"
)

// Exemptions describes files that never count as unreferenced, regardless
// of whether anything links to them.
type Exemptions struct {
	Templates  []string // directory prefixes holding template files
	ReportFile string   // the generated report document
}

func (e Exemptions) exempt(p string) bool {
	if hasHiddenSegment(p) {
		return true
	}
	for _, t := range e.Templates {
		if t != "" && paths.HasPrefixDir(p, t) {
			return true
		}
	}
	return e.ReportFile != "" && p == e.ReportFile
}

// hasHiddenSegment reports whether any path segment starts with a dot.
// This covers vault tooling directories like .obsidian.
func hasHiddenSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// Tracker holds the set of asset paths not yet referenced by any document.
// Marking is monotonic and safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	unreached map[string]struct{}
}

// NewTracker seeds the unreached set from the full vault listing. Documents
// and exempt files never enter the set.
func NewTracker(files []string, ex Exemptions) *Tracker {
	unreached := make(map[string]struct{})
	for _, f := range files {
		p := paths.Normalize(f)
		if paths.IsMarkdown(p) || ex.exempt(p) {
			continue
		}
		unreached[p] = struct{}{}
	}
	return &Tracker{unreached: unreached}
}

// Mark records that path was referenced. Marking an already-reached or
// unknown path is a no-op.
func (t *Tracker) Mark(path string) {
	t.mu.Lock()
	delete(t.unreached, paths.Normalize(path))
	t.mu.Unlock()
}

// Filter narrows the unreferenced set at the end of a scan.
type Filter struct {
	IgnorePrefixes  []string
	AttachmentGlobs []string
	HasDocument     func(path string) bool
}

// Unreferenced returns the still-unreached asset paths that survive the
// filter, sorted lexicographically.
func (t *Tracker) Unreferenced(f Filter) []string {
	t.mu.Lock()
	all := make([]string, 0, len(t.unreached))
	for p := range t.unreached {
		all = append(all, p)
	}
	t.mu.Unlock()

	var out []string
	for _, p := range all {
		if f.skip(p) {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (f Filter) skip(p string) bool {
	for _, prefix := range f.IgnorePrefixes {
		if prefix != "" && paths.HasPrefixDir(p, prefix) {
			return true
		}
	}
	if !f.isAttachment(p) {
		return true
	}
	// A drawing whose companion source document exists is only ever
	// referenced through that document.
	if strings.EqualFold(path.Ext(p), ".excalidraw") &&
		f.HasDocument != nil && f.HasDocument(p+".md") {
		return true
	}
	return false
}

// isAttachment reports whether p falls under the attachments convention.
// Assets living elsewhere are assumed intentionally unlinked.
func (f Filter) isAttachment(p string) bool {
	if len(f.AttachmentGlobs) == 0 {
		return true
	}
	for _, g := range f.AttachmentGlobs {
		if ok, err := doublestar.Match(g, p); err == nil && ok {
			return true
		}
	}
	return false
}
