package diag

import (
	"fmt"
	"strings"
)

// Shower wraps the Show method.
type Shower interface {
	// Show shows the receiver in a human-readable, possibly multi-line form.
	Show(indent string) string
}

// Styles controls how Show highlights parts of a diagnostic.
type Styles struct {
	CulpritStart, CulpritEnd string
	MessageStart, MessageEnd string
}

var (
	// ANSI highlights with SGR sequences.
	ANSI = Styles{"\033[1;4m", "\033[m", "\033[31;1m", "\033[m"}
	// Plain does not highlight.
	Plain = Styles{}
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error with ANSI highlighting.
func (e *Error) Show(indent string) string {
	return e.ShowStyled(indent, ANSI)
}

// ShowStyled shows the error with the given styles.
func (e *Error) ShowStyled(indent string, s Styles) string {
	header := fmt.Sprintf("%s: %s%s%s\n", title(e.Type), s.MessageStart, e.Message, s.MessageEnd)
	return indent + header + e.Context.Show(indent+"  ", s)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
