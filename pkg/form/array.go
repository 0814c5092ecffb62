package form

import (
	"context"

	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tk"
)

// Array is a node with a dynamic list of children of the same kind, bound to
// the elements of a list.
//
// Each element is staged under a sequence id that is allocated when the
// element is added and never reused. Children address their staged value by
// id, so moving a child changes only its position. Collecting rebuilds the
// list by walking the children in their current order.
type Array struct {
	Base
	newElem func(out lens.Lens) Node
	env     *Env
	// Returns the initial value of elements added with key bindings.
	newValue func() any

	seq    int
	staged lens.Staging
	// Sequence ids of the children, in the same order.
	ids []int
	// Whether the bound list was nil when the array was built.
	wasNil bool

	col      tk.Column
	bindings tk.Bindings
	attached bool
	// Set for arrays whose shape is managed by their parent.
	fixed bool
}

// NewArray creates an Array bound to out. Each element node is created by
// newElem with a lens over the staged value of the element. Edits made with
// the key bindings of the array are reported to env, which may be nil.
func NewArray(out lens.Lens, newElem func(out lens.Lens) Node, env *Env) *Array {
	a := &Array{newElem: newElem, env: env, newValue: func() any { return nil }, staged: lens.Staging{}}
	a.Out = out
	return a
}

func (a *Array) Kind() Kind        { return KindArray }
func (a *Array) Widget() tk.Widget { return a.col }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.children) }

// Child returns the node of the i-th element.
func (a *Array) Child(i int) Node { return a.children[i] }

// IDs returns the sequence ids of the elements, in their current order.
func (a *Array) IDs() []int { return append([]int(nil), a.ids...) }

// Present reports whether the array has any element.
func (a *Array) Present() bool { return len(a.children) > 0 }

// PreBuild stages the elements of the bound list and creates their nodes.
// A value that is not a list is treated as an empty list.
func (a *Array) PreBuild() {
	v := a.Out.Get()
	a.wasNil = v == nil
	list, ok := v.([]any)
	if !ok && v != nil {
		logger.Printf("%s: ignoring %T bound to an array", Path(a), v)
	}
	for _, elem := range list {
		a.stage(len(a.children), elem)
	}
	a.col = tk.NewColumn(tk.ColumnSpec{
		Bindings:    bindingsFunc(a.handleKey),
		Placeholder: "(empty)",
	})
}

func (a *Array) PostBuild() {
	for i, c := range a.children {
		a.col.Insert(i, c.Widget())
	}
}

// PreSetup installs the key bindings of the array.
func (a *Array) PreSetup() {
	a.attached = true
	if !a.fixed {
		a.bindings = a.defaultBindings()
	}
}

// MidOutput rebuilds the bound list from the staged values, in the current
// order of the children.
func (a *Array) MidOutput(context.Context) error {
	if len(a.ids) == 0 && a.wasNil {
		a.Out.Set(nil)
		return nil
	}
	list := make([]any, len(a.ids))
	for i, id := range a.ids {
		list[i] = a.staged[id]
	}
	a.Out.Set(list)
	return nil
}

func (a *Array) stage(at int, initial any) Node {
	a.seq++
	id := a.seq
	a.staged[id] = initial
	child := a.newElem(lens.Seq(a.staged, id))
	a.insertChild(a, at, child)
	a.ids = append(a.ids, 0)
	copy(a.ids[at+1:], a.ids[at:])
	a.ids[at] = id
	return child
}

// Add inserts a new element at position at, staging initial as its value.
// The new node is built and populated, and attached if the array already
// is. An out-of-range position adds at the end.
func (a *Array) Add(at int, initial any) Node {
	if at < 0 || at > len(a.children) {
		at = len(a.children)
	}
	if a.col == nil {
		// Not built yet; Build will take care of the new element.
		return a.stage(at, initial)
	}
	child := a.stage(at, initial)
	Build(child)
	Populate(child)
	a.col.Insert(at, child.Widget())
	if a.attached {
		Attach(child)
	}
	return child
}

// Remove removes the element at position at and discards its staged value.
func (a *Array) Remove(at int) {
	if at < 0 || at >= len(a.children) {
		return
	}
	delete(a.staged, a.ids[at])
	a.removeChild(at)
	a.ids = append(a.ids[:at], a.ids[at+1:]...)
	if a.col != nil {
		a.col.Remove(at)
	}
}

// Move moves the element at position from to position to. The staged values
// are not touched.
func (a *Array) Move(from, to int) {
	n := len(a.children)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	a.moveChild(from, to)
	id := a.ids[from]
	if from < to {
		copy(a.ids[from:to], a.ids[from+1:to+1])
	} else {
		copy(a.ids[to+1:from+1], a.ids[to:from])
	}
	a.ids[to] = id
	if a.col != nil {
		a.col.Move(from, to)
	}
}

func (a *Array) handleKey(w tk.Widget, event term.Event) bool {
	return a.bindings != nil && a.bindings.Handle(w, event)
}

func (a *Array) defaultBindings() tk.Bindings {
	return tk.MapBindings{
		term.KeyEvent(term.K('n', term.Ctrl)): func(tk.Widget) {
			at := a.col.Focused() + 1
			if a.col.Focused() < 0 {
				at = len(a.children)
			}
			a.Add(at, a.newValue())
			a.col.Focus(at)
			a.env.changed(a)
		},
		term.KeyEvent(term.K('d', term.Ctrl)): func(tk.Widget) {
			if i := a.col.Focused(); i >= 0 {
				a.Remove(i)
				a.env.changed(a)
			}
		},
		term.KeyEvent(term.K(term.Up, term.Alt)): func(tk.Widget) {
			if i := a.col.Focused(); i > 0 {
				a.Move(i, i-1)
				a.env.changed(a)
			}
		},
		term.KeyEvent(term.K(term.Down, term.Alt)): func(tk.Widget) {
			if i := a.col.Focused(); i >= 0 && i < len(a.children)-1 {
				a.Move(i, i+1)
				a.env.changed(a)
			}
		},
	}
}

type bindingsFunc func(tk.Widget, term.Event) bool

func (f bindingsFunc) Handle(w tk.Widget, event term.Event) bool { return f(w, event) }
