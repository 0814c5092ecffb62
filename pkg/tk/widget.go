// Package tk is the widget toolkit that editor trees render through.
//
// A widget renders itself into a rectangle of terminal cells and reacts to
// events. Containers hold other widgets in order and route events and focus
// to them. The toolkit knows nothing about the data widgets edit; the editor
// engine reads and writes widget values through their state accessors.
package tk

import (
	"src.elv.sh/formtk/pkg/term"
)

// Widget is the basic component of the UI.
type Widget interface {
	Renderer
	Handler
}

// Renderer wraps the Render method.
type Renderer interface {
	// Render renders onto a region of bound width and height.
	Render(width, height int) *term.Buffer
}

// Handler wraps the Handle method.
type Handler interface {
	// Handle tries to handle an event and returns whether it has been handled.
	Handle(event term.Event) bool
}

// Focuser is implemented by widgets that can hold the focus.
type Focuser interface {
	// Enter gives the focus to the widget, entering from the first focusable
	// part when dir > 0 and from the last one otherwise. It returns false if
	// the widget cannot hold the focus.
	Enter(dir int) bool
	// Advance moves the focus inside the widget in the direction of dir. It
	// returns false, leaving the widget unfocused, when the focus would leave
	// the widget.
	Advance(dir int) bool
	// Leave removes the focus from the widget.
	Leave()
}

func enter(w Widget, dir int) bool {
	if f, ok := w.(Focuser); ok {
		return f.Enter(dir)
	}
	return false
}

func advance(w Widget, dir int) bool {
	if f, ok := w.(Focuser); ok {
		return f.Advance(dir)
	}
	return false
}

func leave(w Widget) {
	if f, ok := w.(Focuser); ok {
		f.Leave()
	}
}

// Bindings is the interface for key bindings.
type Bindings interface {
	Handle(Widget, term.Event) bool
}

// DummyBindings is a trivial Bindings implementation.
type DummyBindings struct{}

// Handle always returns false.
func (DummyBindings) Handle(w Widget, event term.Event) bool {
	return false
}

// MapBindings is a map-backed Bindings implementation.
type MapBindings map[term.Event]func(Widget)

// Handle handles the event by calling the function corresponding to the event
// in the map. If there is no corresponding function, it returns false.
func (m MapBindings) Handle(w Widget, event term.Event) bool {
	fn, ok := m[event]
	if ok {
		fn(w)
	}
	return ok
}

// Empty is an empty widget.
type Empty struct{}

// Render shows nothing, although the resulting Buffer still occupies one line.
func (Empty) Render(width, height int) *term.Buffer {
	return term.NewBufferBuilder(width).Buffer()
}

// Handle always returns false.
func (Empty) Handle(event term.Event) bool { return false }

// Label is a widget that shows a fixed text.
type Label struct {
	Content string
	Style   string
}

// Render shows the content. If the given box is too small, the text is
// cropped.
func (l Label) Render(width, height int) *term.Buffer {
	b := term.NewBufferBuilder(width).Write(l.Content, l.Style).Buffer()
	b.TrimToLines(0, height)
	return b
}

// Handle always returns false.
func (l Label) Handle(event term.Event) bool { return false }
