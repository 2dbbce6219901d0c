// Package report renders check findings into a marker-delimited section
// of a vault document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/rook/internal/atomicfile"
)

// Markers delimit the managed region of the report document. Everything
// outside them is left untouched.
const (
	BeginMarker = "<!-- rook:begin -->"
	EndMarker   = "<!-- rook:end -->"
)

// Row is one finding line in a report table.
type Row struct {
	Source string
	Anchor string // set only for missing-anchor rows
	Target string
	Detail string // optional annotation appended to the target cell
}

// Content holds everything a check run feeds into the report.
type Content struct {
	MissingRefs      []Row
	MissingAnchors   []Row
	MissingMapImages []Row
	Unreferenced     []string
}

// Empty reports whether the content holds no findings at all.
func (c Content) Empty() bool {
	return len(c.MissingRefs) == 0 &&
		len(c.MissingAnchors) == 0 &&
		len(c.MissingMapImages) == 0 &&
		len(c.Unreferenced) == 0
}

// Count returns the total number of findings.
func (c Content) Count() int {
	return len(c.MissingRefs) + len(c.MissingAnchors) +
		len(c.MissingMapImages) + len(c.Unreferenced)
}

// Render produces the markdown body that goes between the markers. The
// output has no leading or trailing newline and is stable across runs for
// identical content.
func Render(c Content) string {
	var sb strings.Builder

	sb.WriteString("## Missing references\n\n")
	if len(c.MissingRefs) == 0 {
		sb.WriteString("None found.\n")
	} else {
		sb.WriteString("| Source | Target |\n")
		sb.WriteString("| --- | --- |\n")
		for _, r := range c.MissingRefs {
			fmt.Fprintf(&sb, "| %s | %s |\n", cell(r.Source, ""), cell(r.Target, r.Detail))
		}
	}

	sb.WriteString("\n## Missing anchors\n\n")
	if len(c.MissingAnchors) == 0 {
		sb.WriteString("None found.\n")
	} else {
		sb.WriteString("| Source | Anchor | Target |\n")
		sb.WriteString("| --- | --- | --- |\n")
		for _, r := range c.MissingAnchors {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n",
				cell(r.Source, ""), cell("#"+r.Anchor, ""), cell(r.Target, r.Detail))
		}
	}

	sb.WriteString("\n## Missing map images\n\n")
	if len(c.MissingMapImages) == 0 {
		sb.WriteString("None found.\n")
	} else {
		sb.WriteString("| Source | Image |\n")
		sb.WriteString("| --- | --- |\n")
		for _, r := range c.MissingMapImages {
			fmt.Fprintf(&sb, "| %s | %s |\n", cell(r.Source, ""), cell(r.Target, r.Detail))
		}
	}

	sb.WriteString("\n## Unreferenced attachments\n\n")
	if len(c.Unreferenced) == 0 {
		sb.WriteString("None found.")
	} else {
		for i, p := range c.Unreferenced {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- " + cell(p, ""))
		}
	}

	return sb.String()
}

// cell formats a value for a table cell. Backticks keep bracketed targets
// from rendering as live links inside the report document.
func cell(value, detail string) string {
	v := "`" + strings.ReplaceAll(value, "|", "\\|") + "`"
	if detail != "" {
		v += " (" + detail + ")"
	}
	return v
}

// Splice replaces the text between the markers in doc with body. When doc
// has no markers yet, a marker block is appended. A lone or out-of-order
// marker is an error.
func Splice(doc, body string) (string, error) {
	begin := strings.Index(doc, BeginMarker)
	end := strings.Index(doc, EndMarker)

	switch {
	case begin == -1 && end == -1:
		out := doc
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if out != "" {
			out += "\n"
		}
		return out + BeginMarker + "\n" + body + "\n" + EndMarker + "\n", nil
	case begin == -1:
		return "", fmt.Errorf("report document has %s without %s", EndMarker, BeginMarker)
	case end == -1:
		return "", fmt.Errorf("report document has %s without %s", BeginMarker, EndMarker)
	case end < begin:
		return "", fmt.Errorf("report markers out of order: %s before %s", EndMarker, BeginMarker)
	}

	head := doc[:begin+len(BeginMarker)]
	tail := doc[end:]
	return head + "\n" + body + "\n" + tail, nil
}

// Update renders content into the report file at path. The file must
// already exist; rook never creates the report document on its own.
func Update(path string, c Content) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report file %s does not exist; create it first or run 'rook init'", filepath.ToSlash(path))
		}
		return fmt.Errorf("reading report file: %w", err)
	}

	updated, err := Splice(string(raw), Render(c))
	if err != nil {
		return err
	}
	if updated == string(raw) {
		return nil
	}
	if err := atomicfile.WriteFile(path, []byte(updated), 0); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}
