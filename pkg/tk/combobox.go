package tk

import (
	"src.elv.sh/formtk/pkg/term"
)

// ComboBox is a widget for picking one item out of candidates that are
// fetched as the user types a query.
type ComboBox interface {
	Widget
	Focuser
	// Query returns the query field.
	Query() TextField
	// SetItems replaces the candidates and selects the first one.
	SetItems(items []Item)
	// Items returns the current candidates.
	Items() []Item
	// Selected returns the index of the selected candidate, or -1.
	Selected() int
	// Accept picks the selected candidate.
	Accept()
	// Value returns the picked item, and whether there is one.
	Value() (Item, bool)
	// SetValue sets the picked item without triggering OnPick. A zero Item
	// clears the value.
	SetValue(Item)
	SetOnQuery(func(string))
	SetOnPick(func(Item))
}

// Item is a candidate of a ComboBox.
type Item struct {
	ID    string
	Label string
}

// ComboBoxSpec specifies the configuration for ComboBox.
type ComboBoxSpec struct {
	Placeholder string
	// Called when the query changes.
	OnQuery func(string)
	// Called when a candidate is picked or the value is cleared.
	OnPick func(Item)
	// Maximum number of candidates shown.
	MaxItems int
}

type comboBox struct {
	ComboBoxSpec
	query    TextField
	items    []Item
	selected int
	value    Item
	focused  bool
}

// NewComboBox creates a new ComboBox from the given spec.
func NewComboBox(spec ComboBoxSpec) ComboBox {
	if spec.OnQuery == nil {
		spec.OnQuery = func(string) {}
	}
	if spec.OnPick == nil {
		spec.OnPick = func(Item) {}
	}
	if spec.MaxItems <= 0 {
		spec.MaxItems = 5
	}
	w := &comboBox{ComboBoxSpec: spec, selected: -1}
	w.query = NewTextField(TextFieldSpec{
		Placeholder: spec.Placeholder,
		OnChange:    w.onQueryChange,
	})
	return w
}

func (w *comboBox) onQueryChange(q string) {
	if w.value != (Item{}) {
		w.value = Item{}
		w.OnPick(Item{})
	}
	w.OnQuery(q)
}

func (w *comboBox) Query() TextField          { return w.query }
func (w *comboBox) Items() []Item             { return w.items }
func (w *comboBox) Selected() int             { return w.selected }
func (w *comboBox) SetOnQuery(f func(string)) { w.OnQuery = f }
func (w *comboBox) SetOnPick(f func(Item))    { w.OnPick = f }

func (w *comboBox) SetItems(items []Item) {
	w.items = items
	w.selected = -1
	if len(items) > 0 {
		w.selected = 0
	}
}

func (w *comboBox) Value() (Item, bool) { return w.value, w.value != (Item{}) }

func (w *comboBox) SetValue(it Item) {
	w.value = it
	w.query.SetText(it.Label)
	w.SetItems(nil)
}

func (w *comboBox) Accept() {
	if w.selected < 0 || w.selected >= len(w.items) {
		return
	}
	w.SetValue(w.items[w.selected])
	w.OnPick(w.value)
}

func (w *comboBox) Enter(dir int) bool {
	w.focused = true
	return w.query.Enter(dir)
}

func (w *comboBox) Advance(dir int) bool {
	w.Leave()
	return false
}

func (w *comboBox) Leave() {
	w.focused = false
	w.query.Leave()
}

func (w *comboBox) Handle(event term.Event) bool {
	switch event {
	case term.KeyEvent(term.K(term.Up)):
		if w.selected > 0 {
			w.selected--
		}
		return true
	case term.KeyEvent(term.K(term.Down)):
		if w.selected < len(w.items)-1 {
			w.selected++
		}
		return true
	case term.KeyEvent(term.K(term.Enter)):
		if len(w.items) == 0 {
			return false
		}
		w.Accept()
		return true
	}
	return w.query.Handle(event)
}

func (w *comboBox) Render(width, height int) *term.Buffer {
	buf := w.query.Render(width, 1)
	if !w.focused || height <= 1 {
		return buf
	}
	bb := term.NewBufferBuilder(width)
	for i, it := range w.items {
		if i == w.MaxItems || i+1 >= height {
			break
		}
		if i > 0 {
			bb.Newline()
		}
		style := term.Dim
		if i == w.selected {
			style = term.Inverse
		}
		bb.Write(it.Label, style)
	}
	if len(w.items) > 0 {
		buf.ExtendDown(bb.Buffer(), false)
	}
	return buf
}
