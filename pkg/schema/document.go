package schema

import (
	"regexp"
	"sort"
	"strings"

	"src.elv.sh/formtk/pkg/diag"
	"src.elv.sh/formtk/pkg/errutil"
)

// Document is a schema document: a main block of statements, followed by
// named blocks that statements can refer to as nested records.
//
// In the text form, a named block starts with a header line "[NAME]" and
// extends to the next header. Blank lines and lines starting with "#" are
// ignored.
type Document struct {
	Name   string
	Text   string
	Main   *Block
	Blocks map[string]*Block
}

// Block is a named list of statements in a Document.
type Block struct {
	// Empty for the main block.
	Name string
	// Range of the header line; zero for the main block.
	Header diag.Ranging
	// Ranges of the statement lines, with surrounding whitespace trimmed.
	Statements []diag.Ranging
}

var headerPattern = regexp.MustCompile(`^\[([A-Za-z_][A-Za-z0-9_]*)\]$`)

// ParseDocument splits a schema text into blocks. It fails on malformed and
// duplicate block headers.
func ParseDocument(name, text string) (*Document, error) {
	doc := &Document{Name: name, Text: text, Main: &Block{}, Blocks: map[string]*Block{}}
	current := doc.Main
	var errs []error
	for lineFrom := 0; lineFrom < len(text); {
		lineTo := len(text)
		next := len(text)
		if i := strings.IndexByte(text[lineFrom:], '\n'); i >= 0 {
			lineTo = lineFrom + i
			next = lineTo + 1
		}
		r := trimRange(text, diag.Ranging{From: lineFrom, To: lineTo})
		line := text[r.From:r.To]
		lineFrom = next

		switch {
		case line == "" || line[0] == '#':
			continue
		case line[0] == '[':
			m := headerPattern.FindStringSubmatch(line)
			if m == nil {
				errs = append(errs, newError(doc, r, "malformed block header %q", line))
				continue
			}
			if prev, ok := doc.Blocks[m[1]]; ok {
				line, _ := doc.context(prev.Header).Position()
				errs = append(errs, newError(doc, r, "block %s already defined on line %d", m[1], line))
				continue
			}
			current = &Block{Name: m[1], Header: r}
			doc.Blocks[m[1]] = current
		default:
			current.Statements = append(current.Statements, r)
		}
	}
	if len(errs) > 0 {
		return nil, errutil.Multi(errs...)
	}
	return doc, nil
}

// NewDocument builds a Document from a main block and a map from block names
// to block bodies, as supplied by an external loader.
func NewDocument(name, main string, blocks map[string]string) (*Document, error) {
	names := make([]string, 0, len(blocks))
	for n := range blocks {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(main)
	for _, n := range names {
		sb.WriteString("\n[" + n + "]\n")
		sb.WriteString(blocks[n])
	}
	return ParseDocument(name, sb.String())
}

func (doc *Document) context(r diag.Ranger) *diag.Context {
	return diag.NewContext(doc.Name, doc.Text, r)
}

func trimRange(text string, r diag.Ranging) diag.Ranging {
	for r.From < r.To && isSpace(text[r.From]) {
		r.From++
	}
	for r.To > r.From && isSpace(text[r.To-1]) {
		r.To--
	}
	return r
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }
