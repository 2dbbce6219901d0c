package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-indexed
}

// ExtractHeadings extracts headings from markdown content using goldmark.
// startLine is added to every reported line so body-only content still
// yields file-accurate positions.
func ExtractHeadings(content string, startLine int) []Heading {
	var headings []Heading

	md := goldmark.New()
	reader := text.NewReader([]byte(content))
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(content)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		// Collect text from all descendants, not just direct children:
		// emphasis or code inside a heading still contributes to the
		// text an anchor has to match.
		headingText := strings.TrimSpace(collectText(heading, []byte(content)))
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		line := startLine
		if heading.Lines().Len() > 0 {
			offset := heading.Lines().At(0).Start
			line = startLine + offsetToLine(lineStarts, offset)
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Line:  line,
		})

		return ast.WalkContinue, nil
	})

	return headings
}

// ExtractMarkdownRefs extracts [text](target) links and ![alt](target)
// images from markdown content using goldmark. Code blocks and inline
// code are skipped by the parser itself. Autolinks (<https://...>) are
// ignored: they are URLs by construction and never vault references.
func ExtractMarkdownRefs(content string, startLine int) []Reference {
	var refs []Reference

	src := []byte(content)
	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(content)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest string
		var kind RefKind
		switch node := n.(type) {
		case *ast.Link:
			dest = string(node.Destination)
			kind = RefLink
		case *ast.Image:
			dest = string(node.Destination)
			kind = RefEmbed
		default:
			return ast.WalkContinue, nil
		}

		dest = strings.TrimSpace(dest)
		if dest == "" {
			return ast.WalkContinue, nil
		}

		refs = append(refs, Reference{
			RawTarget: dest,
			Kind:      kind,
			Line:      startLine + inlineNodeLine(n, lineStarts),
		})

		return ast.WalkContinue, nil
	})

	return refs
}

// collectText concatenates the source text of every Text descendant.
func collectText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// inlineNodeLine finds the 0-indexed line of an inline node: the first
// Text descendant's segment when one exists, otherwise the first line of
// the nearest ancestor block. Images with empty alt text have no Text
// children, hence the fallback.
func inlineNodeLine(n ast.Node, lineStarts []int) int {
	var firstText *ast.Text
	var find func(ast.Node)
	find = func(n ast.Node) {
		if firstText != nil {
			return
		}
		if t, ok := n.(*ast.Text); ok {
			firstText = t
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			find(c)
		}
	}
	find(n)
	if firstText != nil {
		return offsetToLine(lineStarts, firstText.Segment.Start)
	}

	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == ast.TypeInline {
			continue
		}
		if p.Lines().Len() > 0 {
			return offsetToLine(lineStarts, p.Lines().At(0).Start)
		}
	}
	return 0
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
