// Package term contains the model of terminal output used by widgets: a
// rectangle of styled cells with a cursor, and the events widgets react to.
package term

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is an indivisible unit on the screen. It is not necessarily 1 column
// wide.
type Cell struct {
	Text  string
	Style string
}

// Pos is a line/column position.
type Pos struct {
	Line, Col int
}

// Commonly used SGR styles.
const (
	Bold      = "1"
	Dim       = "2"
	Underline = "4"
	Inverse   = "7"
	FgRed     = "31"
	FgGreen   = "32"
	FgYellow  = "33"
	FgBlue    = "34"
	FgMagenta = "35"
)

func cellsWidth(cs []Cell) int {
	w := 0
	for _, c := range cs {
		w += runewidth.StringWidth(c.Text)
	}
	return w
}

// Buffer reflects a rectangle area in the terminal, along with a cursor
// (called a "dot" here).
type Buffer struct {
	Width int
	// Lines the content of the buffer.
	Lines [][]Cell
	// Dot is what the user perceives as the cursor.
	Dot Pos
}

// TrimToLines trims a buffer to the lines [low, high).
func (b *Buffer) TrimToLines(low, high int) {
	if low < 0 {
		low = 0
	}
	if high > len(b.Lines) {
		high = len(b.Lines)
	}
	if low > high {
		low = high
	}
	b.Lines = b.Lines[low:high]
	b.Dot.Line -= low
	if b.Dot.Line < 0 {
		b.Dot.Line = 0
	}
}

// ExtendDown extends b downwards, by adding all lines from b2 to the bottom
// of this buffer and setting b.Width to the larger of b.Width and b2.Width. If
// moveDot is true, it also updates b.Dot to match the dot of b2. It returns b
// itself.
func (b *Buffer) ExtendDown(b2 *Buffer, moveDot bool) *Buffer {
	if b2 == nil || b2.Lines == nil {
		return b
	}
	if moveDot {
		b.Dot = Pos{Line: len(b.Lines) + b2.Dot.Line, Col: b2.Dot.Col}
	}
	b.Lines = append(b.Lines, b2.Lines...)
	b.Width = max(b.Width, b2.Width)
	return b
}

// Indent shifts every line of b right by n columns, and returns b itself.
func (b *Buffer) Indent(n int) *Buffer {
	if n <= 0 {
		return b
	}
	pad := makeSpacing(n)
	for i, line := range b.Lines {
		b.Lines[i] = append(append([]Cell(nil), pad...), line...)
	}
	b.Dot.Col += n
	b.Width += n
	return b
}

// String returns the content of the buffer without styles, one line per
// line of the buffer, with trailing spaces removed.
func (b *Buffer) String() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		var lb strings.Builder
		for _, c := range line {
			lb.WriteString(c.Text)
		}
		sb.WriteString(strings.TrimRight(lb.String(), " "))
	}
	return sb.String()
}

// TTYString returns the content of the buffer with styles encoded as SGR
// sequences, suitable for writing to a terminal.
func (b *Buffer) TTYString() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		lastStyle := ""
		for _, c := range line {
			if c.Style != lastStyle {
				sb.WriteString("\033[;" + c.Style + "m")
				lastStyle = c.Style
			}
			sb.WriteString(c.Text)
		}
		if lastStyle != "" {
			sb.WriteString("\033[m")
		}
	}
	return sb.String()
}

func makeSpacing(n int) []Cell {
	s := make([]Cell, n)
	for i := range s {
		s[i].Text = " "
	}
	return s
}
