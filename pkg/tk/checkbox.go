package tk

import (
	"src.elv.sh/formtk/pkg/term"
)

// Checkbox is a widget holding a boolean.
type Checkbox interface {
	Widget
	Focuser
	Checked() bool
	// SetChecked sets the value without triggering OnChange.
	SetChecked(bool)
	SetOnChange(func(bool))
}

// CheckboxSpec specifies the configuration and initial state for Checkbox.
type CheckboxSpec struct {
	OnChange func(bool)
	Checked  bool
}

type checkbox struct {
	CheckboxSpec
	focused bool
}

// NewCheckbox creates a new Checkbox from the given spec.
func NewCheckbox(spec CheckboxSpec) Checkbox {
	if spec.OnChange == nil {
		spec.OnChange = func(bool) {}
	}
	return &checkbox{CheckboxSpec: spec}
}

func (w *checkbox) Checked() bool            { return w.CheckboxSpec.Checked }
func (w *checkbox) SetChecked(b bool)        { w.CheckboxSpec.Checked = b }
func (w *checkbox) SetOnChange(f func(bool)) { w.OnChange = f }
func (w *checkbox) Enter(int) bool           { w.focused = true; return true }
func (w *checkbox) Advance(int) bool         { w.focused = false; return false }
func (w *checkbox) Leave()                   { w.focused = false }

func (w *checkbox) Handle(event term.Event) bool {
	switch event {
	case term.KeyEvent(term.K(' ')), term.KeyEvent(term.K(term.Enter)):
		w.CheckboxSpec.Checked = !w.CheckboxSpec.Checked
		w.OnChange(w.CheckboxSpec.Checked)
		return true
	}
	return false
}

func (w *checkbox) Render(width, height int) *term.Buffer {
	bb := term.NewBufferBuilder(width)
	style := ""
	if w.focused {
		bb.SetDotHere()
		style = term.Inverse
	}
	if w.CheckboxSpec.Checked {
		bb.Write("[x]", style)
	} else {
		bb.Write("[ ]", style)
	}
	return bb.Buffer()
}
