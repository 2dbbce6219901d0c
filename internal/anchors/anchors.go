// Package anchors validates heading and block-anchor fragments against
// target documents.
package anchors

import (
	"strings"

	"github.com/aidanlsb/rook/internal/parser"
)

var punctReplacer = strings.NewReplacer("?", "", ":", "", ".", "")

// Normalize canonicalizes a heading anchor or heading text for comparison.
// Heading text and authored anchors diverge in case, punctuation, and URL
// encoding, so both sides are compared in this form. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "%20", " ")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "%23", "")
	s = strings.ReplaceAll(s, "#", "")
	s = punctReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Validator checks anchor fragments against a target document's headings
// and block anchors.
type Validator struct {
	ignore map[string]struct{}
}

// NewValidator builds a validator that treats the given anchor fragments
// as always valid.
func NewValidator(ignoreAnchors []string) *Validator {
	ignore := make(map[string]struct{}, len(ignoreAnchors))
	for _, a := range ignoreAnchors {
		ignore[a] = struct{}{}
	}
	return &Validator{ignore: ignore}
}

// Check reports whether anchor resolves inside the document described by
// meta. The detail string is non-empty only when the failure has a cause
// beyond the anchor simply not being found.
func (v *Validator) Check(anchor string, meta *parser.Metadata) (ok bool, detail string) {
	if anchor == "" {
		return true, ""
	}
	if _, skip := v.ignore[anchor]; skip {
		return true, ""
	}
	if meta == nil {
		return false, "no metadata for target"
	}
	if strings.HasPrefix(anchor, "^") {
		// Block anchors match exactly, no normalization.
		if meta.HasBlockAnchor(strings.TrimPrefix(anchor, "^")) {
			return true, ""
		}
		return false, ""
	}
	want := Normalize(anchor)
	for _, h := range meta.Headings {
		if Normalize(h.Text) == want {
			return true, ""
		}
	}
	return false, ""
}
