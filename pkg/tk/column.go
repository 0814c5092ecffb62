package tk

import (
	"src.elv.sh/formtk/pkg/term"
)

// Column is a container that stacks its children vertically. It keeps track
// of which child holds the focus.
type Column interface {
	Widget
	Focuser
	// Insert inserts w so that it becomes the i-th child.
	Insert(i int, w Widget)
	// Remove removes the i-th child.
	Remove(i int)
	// Move moves the child at from so that it becomes the child at to.
	Move(from, to int)
	// Len returns the number of children.
	Len() int
	// Child returns the i-th child.
	Child(i int) Widget
	// Focused returns the index of the child holding the focus, or -1.
	Focused() int
	// Focus gives the focus to the i-th child.
	Focus(i int) bool
}

// ColumnSpec specifies the configuration for Column.
type ColumnSpec struct {
	// Key bindings, consulted after the focused child declines an event.
	Bindings Bindings
	// Shown when the column has no children.
	Placeholder string
	// Number of columns children are indented by.
	Indent int
}

type column struct {
	ColumnSpec
	children []Widget
	focus    int
}

// NewColumn creates a new Column from the given spec.
func NewColumn(spec ColumnSpec) Column {
	if spec.Bindings == nil {
		spec.Bindings = DummyBindings{}
	}
	return &column{ColumnSpec: spec, focus: -1}
}

func (w *column) Insert(i int, child Widget) {
	if i < 0 || i > len(w.children) {
		i = len(w.children)
	}
	w.children = append(w.children, nil)
	copy(w.children[i+1:], w.children[i:])
	w.children[i] = child
	if w.focus >= i {
		w.focus++
	}
}

func (w *column) Remove(i int) {
	if i < 0 || i >= len(w.children) {
		return
	}
	leave(w.children[i])
	w.children = append(w.children[:i], w.children[i+1:]...)
	switch {
	case w.focus == i:
		w.focus = -1
		if i < len(w.children) && enter(w.children[i], 1) {
			w.focus = i
		} else if i > 0 && enter(w.children[i-1], -1) {
			w.focus = i - 1
		}
	case w.focus > i:
		w.focus--
	}
}

func (w *column) Move(from, to int) {
	n := len(w.children)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	child := w.children[from]
	if from < to {
		copy(w.children[from:to], w.children[from+1:to+1])
	} else {
		copy(w.children[to+1:from+1], w.children[to:from])
	}
	w.children[to] = child
	switch {
	case w.focus == from:
		w.focus = to
	case from < w.focus && w.focus <= to:
		w.focus--
	case to <= w.focus && w.focus < from:
		w.focus++
	}
}

func (w *column) Len() int           { return len(w.children) }
func (w *column) Child(i int) Widget { return w.children[i] }
func (w *column) Focused() int       { return w.focus }

func (w *column) Focus(i int) bool {
	if i < 0 || i >= len(w.children) {
		return false
	}
	if w.focus >= 0 {
		leave(w.children[w.focus])
	}
	w.focus = -1
	if enter(w.children[i], 1) {
		w.focus = i
		return true
	}
	return false
}

func (w *column) Enter(dir int) bool {
	w.focus = -1
	return w.enterFrom(start(len(w.children), dir), dir)
}

func (w *column) enterFrom(i, dir int) bool {
	for ; 0 <= i && i < len(w.children); i += dir {
		if enter(w.children[i], dir) {
			w.focus = i
			return true
		}
	}
	return false
}

func (w *column) Advance(dir int) bool {
	if w.focus < 0 {
		return w.Enter(dir)
	}
	if advance(w.children[w.focus], dir) {
		return true
	}
	next := w.focus + dir
	w.focus = -1
	return w.enterFrom(next, dir)
}

func (w *column) Leave() {
	if w.focus >= 0 {
		leave(w.children[w.focus])
	}
	w.focus = -1
}

func (w *column) Handle(event term.Event) bool {
	if w.focus >= 0 && w.children[w.focus].Handle(event) {
		return true
	}
	return w.Bindings.Handle(w, event)
}

func (w *column) Render(width, height int) *term.Buffer {
	if len(w.children) == 0 {
		return Label{w.Placeholder, term.Dim}.Render(width, height).Indent(w.Indent)
	}
	buf := &term.Buffer{Width: width}
	for i, child := range w.children {
		remaining := height - len(buf.Lines)
		if remaining <= 0 {
			break
		}
		b := child.Render(width-w.Indent, remaining).Indent(w.Indent)
		buf.ExtendDown(b, i == w.focus)
	}
	buf.Width = width
	return buf
}

func start(n, dir int) int {
	if dir > 0 {
		return 0
	}
	return n - 1
}
