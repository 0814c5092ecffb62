// Package diag contains building blocks for formatting and processing
// diagnostic information attached to a range of source text.
package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a source. It is typically used for errors
// that can be associated with a part of the source, like compile errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Position returns the 1-based line and column of the start of the range.
// Columns count bytes.
func (c *Context) Position() (line, col int) {
	from := min(max(c.From, 0), len(c.Source))
	before := c.Source[:from]
	return strings.Count(before, "\n") + 1, from - strings.LastIndexByte(before, '\n')
}

// Describe returns "name:line:col".
func (c *Context) Describe() string {
	line, col := c.Position()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// Show shows the context: its position followed by the line of source it
// lives on, with the culprit highlighted.
func (c *Context) Show(indent string, s Styles) string {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Sprintf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	head := c.Source[strings.LastIndexByte(c.Source[:c.From], '\n')+1 : c.From]
	culprit := c.Source[c.From:c.To]
	culprit = strings.TrimSuffix(culprit, "\n")
	tail := c.Source[c.To:]
	if i := strings.IndexByte(tail, '\n'); i >= 0 {
		tail = tail[:i]
	}
	if strings.Contains(culprit, "\n") {
		// Only the first line of a multi-line culprit is shown.
		culprit = culprit[:strings.IndexByte(culprit, '\n')]
		tail = ""
	}
	if culprit == "" {
		culprit = "^"
	}
	return indent + c.Describe() + ": " + head + s.CulpritStart + culprit + s.CulpritEnd + tail
}
