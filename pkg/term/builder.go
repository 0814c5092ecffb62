package term

import (
	"github.com/mattn/go-runewidth"
)

// BufferBuilder supports building of Buffer.
type BufferBuilder struct {
	Width, Col, Indent int
	// Lines the content of the buffer.
	Lines [][]Cell
	// Dot is what the user perceives as the cursor.
	Dot Pos
}

// NewBufferBuilder makes a new BufferBuilder, initially with one empty line.
func NewBufferBuilder(width int) *BufferBuilder {
	return &BufferBuilder{Width: width, Lines: [][]Cell{make([]Cell, 0, width)}}
}

// Cursor returns the position where the next cell would be written.
func (bb *BufferBuilder) Cursor() Pos {
	return Pos{len(bb.Lines) - 1, bb.Col}
}

// SetIndent sets the indentation of lines started by wrapping or Newline.
func (bb *BufferBuilder) SetIndent(indent int) *BufferBuilder {
	bb.Indent = indent
	return bb
}

// SetDot sets the dot of the buffer being built.
func (bb *BufferBuilder) SetDot(dot Pos) *BufferBuilder {
	bb.Dot = dot
	return bb
}

// SetDotHere sets the dot to the current cursor.
func (bb *BufferBuilder) SetDotHere() *BufferBuilder {
	return bb.SetDot(bb.Cursor())
}

func (bb *BufferBuilder) appendLine() {
	bb.Lines = append(bb.Lines, make([]Cell, 0, bb.Width))
	bb.Col = 0
}

func (bb *BufferBuilder) appendCell(c Cell) {
	n := len(bb.Lines)
	bb.Lines[n-1] = append(bb.Lines[n-1], c)
	bb.Col += runewidth.StringWidth(c.Text)
}

// Newline starts a new line.
func (bb *BufferBuilder) Newline() *BufferBuilder {
	bb.appendLine()
	for i := 0; i < bb.Indent; i++ {
		bb.appendCell(Cell{Text: " "})
	}
	return bb
}

// WriteRune writes a single rune, wrapping the line when needed. Control
// characters are written in caret notation.
func (bb *BufferBuilder) WriteRune(r rune, style string) *BufferBuilder {
	if r == '\n' {
		return bb.Newline()
	}
	c := Cell{string(r), style}
	if r < 0x20 || r == 0x7f {
		c = Cell{"^" + string(r^0x40), style}
	}
	if bb.Col+runewidth.StringWidth(c.Text) > bb.Width && bb.Col > 0 {
		bb.Newline()
	}
	bb.appendCell(c)
	return bb
}

// Write writes a string with one style.
func (bb *BufferBuilder) Write(text, style string) *BufferBuilder {
	for _, r := range text {
		bb.WriteRune(r, style)
	}
	return bb
}

// WriteSpaces writes n spaces with one style.
func (bb *BufferBuilder) WriteSpaces(n int, style string) *BufferBuilder {
	for i := 0; i < n; i++ {
		bb.appendCell(Cell{" ", style})
	}
	return bb
}

// Buffer returns the Buffer built.
func (bb *BufferBuilder) Buffer() *Buffer {
	return &Buffer{Width: bb.Width, Lines: bb.Lines, Dot: bb.Dot}
}
