package tk

import (
	"src.elv.sh/formtk/pkg/term"
)

// Labeled decorates a widget with a label. A collapsible Labeled can hide
// its child; the label itself then holds the focus, and Enter toggles it.
type Labeled interface {
	Widget
	Focuser
	// Toggle switches between collapsed and expanded. It does nothing for a
	// Labeled that is not collapsible.
	Toggle()
	// Collapsed returns whether the child is hidden.
	Collapsed() bool
	// Child returns the decorated widget.
	Child() Widget
}

// LabeledSpec specifies the configuration and initial state for Labeled.
type LabeledSpec struct {
	Label       string
	Child       Widget
	Collapsible bool
	Collapsed   bool
	// Marks the label, for instance to show that a required field is empty.
	Mark func() string
}

type labeled struct {
	LabeledSpec
	labelFocused bool
	childFocused bool
}

// NewLabeled creates a new Labeled from the given spec.
func NewLabeled(spec LabeledSpec) Labeled {
	if spec.Child == nil {
		spec.Child = Empty{}
	}
	if spec.Mark == nil {
		spec.Mark = func() string { return "" }
	}
	if !spec.Collapsible {
		spec.Collapsed = false
	}
	return &labeled{LabeledSpec: spec}
}

func (w *labeled) Child() Widget   { return w.LabeledSpec.Child }
func (w *labeled) Collapsed() bool { return w.LabeledSpec.Collapsed }

func (w *labeled) Toggle() {
	if !w.Collapsible {
		return
	}
	w.LabeledSpec.Collapsed = !w.LabeledSpec.Collapsed
	if w.LabeledSpec.Collapsed && w.childFocused {
		leave(w.LabeledSpec.Child)
		w.childFocused = false
		w.labelFocused = true
	}
}

func (w *labeled) Enter(dir int) bool {
	w.labelFocused, w.childFocused = false, false
	if !w.Collapsible {
		w.childFocused = enter(w.LabeledSpec.Child, dir)
		return w.childFocused
	}
	if dir < 0 && !w.LabeledSpec.Collapsed && enter(w.LabeledSpec.Child, dir) {
		w.childFocused = true
		return true
	}
	w.labelFocused = true
	return true
}

func (w *labeled) Advance(dir int) bool {
	switch {
	case w.labelFocused:
		w.labelFocused = false
		if dir > 0 && !w.LabeledSpec.Collapsed && enter(w.LabeledSpec.Child, dir) {
			w.childFocused = true
			return true
		}
		return false
	case w.childFocused:
		if advance(w.LabeledSpec.Child, dir) {
			return true
		}
		w.childFocused = false
		if dir < 0 && w.Collapsible {
			w.labelFocused = true
			return true
		}
		return false
	}
	return w.Enter(dir)
}

func (w *labeled) Leave() {
	if w.childFocused {
		leave(w.LabeledSpec.Child)
	}
	w.labelFocused, w.childFocused = false, false
}

func (w *labeled) Handle(event term.Event) bool {
	if w.labelFocused {
		if event == term.KeyEvent(term.K(term.Enter)) {
			w.Toggle()
			return true
		}
		return false
	}
	if w.childFocused {
		return w.LabeledSpec.Child.Handle(event)
	}
	return false
}

func (w *labeled) Render(width, height int) *term.Buffer {
	bb := term.NewBufferBuilder(width)
	if w.Collapsible {
		if w.LabeledSpec.Collapsed {
			bb.Write("▸ ", "")
		} else {
			bb.Write("▾ ", "")
		}
	}
	style := term.Bold
	if w.labelFocused {
		bb.SetDotHere()
		style = term.Inverse
	}
	bb.Write(w.Label, style)
	if mark := w.Mark(); mark != "" {
		bb.Write(" "+mark, term.FgRed)
	}
	buf := bb.Buffer()
	if w.LabeledSpec.Collapsed || height <= 1 {
		buf.TrimToLines(0, height)
		return buf
	}
	child := w.LabeledSpec.Child.Render(width-2, height-len(buf.Lines)).Indent(2)
	return buf.ExtendDown(child, w.childFocused)
}
