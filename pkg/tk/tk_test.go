package tk

import (
	"testing"

	"src.elv.sh/formtk/pkg/term"
)

type renderTest struct {
	Name   string
	Given  Renderer
	Width  int
	Height int
	Want   string
}

func testRender(t *testing.T, tests []renderTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			got := test.Given.Render(test.Width, test.Height).String()
			if got != test.Want {
				t.Errorf("Render -> %q, want %q", got, test.Want)
			}
		})
	}
}

func key(r rune, mods ...term.Mod) term.Event { return term.KeyEvent(term.K(r, mods...)) }

func typeString(w Widget, s string) {
	for _, r := range s {
		w.Handle(key(r))
	}
}

func columnOf(ws ...Widget) Column {
	c := NewColumn(ColumnSpec{})
	for _, w := range ws {
		c.Insert(c.Len(), w)
	}
	return c
}

func TestRender(t *testing.T) {
	testRender(t, []renderTest{
		{
			Name:  "label",
			Given: Label{Content: "hello"},
			Width: 10, Height: 1,
			Want: "hello",
		},
		{
			Name:  "text field with placeholder",
			Given: NewTextField(TextFieldSpec{Placeholder: "(empty)"}),
			Width: 10, Height: 1,
			Want: "(empty)",
		},
		{
			Name:  "column placeholder",
			Given: NewColumn(ColumnSpec{Placeholder: "no rows"}),
			Width: 10, Height: 3,
			Want: "no rows",
		},
		{
			Name:  "column stacks children",
			Given: columnOf(Label{Content: "a"}, Label{Content: "b"}),
			Width: 10, Height: 3,
			Want: "a\nb",
		},
		{
			Name:  "column crops to height",
			Given: columnOf(Label{Content: "a"}, Label{Content: "b"}, Label{Content: "c"}),
			Width: 10, Height: 2,
			Want: "a\nb",
		},
		{
			Name: "labeled indents child",
			Given: NewLabeled(LabeledSpec{
				Label: "Name", Child: Label{Content: "x"}}),
			Width: 10, Height: 3,
			Want: "Name\n  x",
		},
		{
			Name: "collapsed labeled hides child",
			Given: NewLabeled(LabeledSpec{
				Label: "Items", Child: Label{Content: "x"},
				Collapsible: true, Collapsed: true}),
			Width: 10, Height: 3,
			Want: "▸ Items",
		},
		{
			Name: "labeled with mark",
			Given: NewLabeled(LabeledSpec{
				Label: "Name", Mark: func() string { return "*" }}),
			Width: 10, Height: 1,
			Want: "Name *",
		},
		{
			Name:  "checkbox",
			Given: NewCheckbox(CheckboxSpec{Checked: true}),
			Width: 10, Height: 1,
			Want: "[x]",
		},
	})
}

func TestTextField_Editing(t *testing.T) {
	var changes []string
	w := NewTextField(TextFieldSpec{OnChange: func(s string) { changes = append(changes, s) }})
	typeString(w, "abc")
	w.Handle(key(term.Left))
	w.Handle(key(term.Backspace))
	w.Handle(term.PasteEvent("XY"))
	if got := w.Text(); got != "aXYc" {
		t.Errorf("Text -> %q, want %q", got, "aXYc")
	}
	if len(changes) != 5 {
		t.Errorf("OnChange called %d times, want 5", len(changes))
	}
	if w.Handle(key(term.Enter)) {
		t.Errorf("single-line field handled Enter")
	}
	w.Handle(key('u', term.Ctrl))
	if got := w.Text(); got != "" {
		t.Errorf("Text after Ctrl-U -> %q", got)
	}
}

func TestTextField_Accept(t *testing.T) {
	w := NewTextField(TextFieldSpec{Accept: func(r rune) bool { return '0' <= r && r <= '9' }})
	typeString(w, "1a2")
	w.Handle(term.PasteEvent("3b"))
	if got := w.Text(); got != "12" {
		t.Errorf("Text -> %q, want %q", got, "12")
	}
}

func TestTextField_Multiline(t *testing.T) {
	w := NewTextField(TextFieldSpec{Multiline: true})
	typeString(w, "a")
	w.Handle(key(term.Enter))
	typeString(w, "b")
	if got := w.Render(10, 5).String(); got != "a\nb" {
		t.Errorf("Render -> %q", got)
	}
}

func TestColumn_FocusTraversal(t *testing.T) {
	f1 := NewTextField(TextFieldSpec{})
	f2 := NewTextField(TextFieldSpec{})
	inner := columnOf(f2)
	c := columnOf(f1, Label{Content: "not focusable"}, inner)

	if !c.Enter(1) || c.Focused() != 0 {
		t.Fatalf("Enter didn't focus the first field")
	}
	typeString(c, "x")
	if !c.Advance(1) || c.Focused() != 2 {
		t.Fatalf("Advance didn't skip the label; focus = %d", c.Focused())
	}
	typeString(c, "y")
	if c.Advance(1) {
		t.Errorf("Advance past the last field should leave the column")
	}
	if f1.Text() != "x" || f2.Text() != "y" {
		t.Errorf("events went to the wrong fields: %q %q", f1.Text(), f2.Text())
	}
	if !c.Enter(-1) || c.Focused() != 2 {
		t.Errorf("Enter(-1) should focus the last field")
	}
}

func TestColumn_MoveAndRemoveKeepFocus(t *testing.T) {
	fields := []TextField{NewTextField(TextFieldSpec{}), NewTextField(TextFieldSpec{}), NewTextField(TextFieldSpec{})}
	c := columnOf(fields[0], fields[1], fields[2])
	c.Focus(0)
	c.Move(0, 2)
	if c.Focused() != 2 || c.Child(2) != fields[0] {
		t.Errorf("focus didn't follow the moved child; focus = %d", c.Focused())
	}
	c.Remove(0)
	if c.Focused() != 1 {
		t.Errorf("focus = %d after removing an earlier child, want 1", c.Focused())
	}
	c.Remove(1)
	if c.Focused() != 0 || c.Len() != 1 {
		t.Errorf("removing the focused last child should focus the previous one; focus = %d", c.Focused())
	}
}

func TestColumn_Bindings(t *testing.T) {
	called := 0
	c := NewColumn(ColumnSpec{Bindings: MapBindings{
		key('n', term.Ctrl): func(Widget) { called++ },
	}})
	c.Insert(0, NewTextField(TextFieldSpec{}))
	c.Focus(0)
	if !c.Handle(key('n', term.Ctrl)) || called != 1 {
		t.Errorf("binding not called")
	}
}

func TestLabeled_Toggle(t *testing.T) {
	f := NewTextField(TextFieldSpec{})
	w := NewLabeled(LabeledSpec{Label: "L", Child: f, Collapsible: true, Collapsed: true})
	w.Enter(1)
	if w.Advance(1) {
		t.Errorf("collapsed Labeled should not advance into its child")
	}
	w.Enter(1)
	w.Handle(key(term.Enter))
	if w.Collapsed() {
		t.Fatalf("Enter on the label didn't expand")
	}
	if !w.Advance(1) {
		t.Fatalf("expanded Labeled should advance into its child")
	}
	typeString(w, "v")
	if f.Text() != "v" {
		t.Errorf("child didn't receive keys")
	}
}

func TestCheckbox(t *testing.T) {
	var got []bool
	w := NewCheckbox(CheckboxSpec{OnChange: func(b bool) { got = append(got, b) }})
	w.Handle(key(' '))
	w.Handle(key(term.Enter))
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("OnChange calls = %v", got)
	}
}

func TestComboBox(t *testing.T) {
	var queries []string
	var picked []Item
	w := NewComboBox(ComboBoxSpec{})
	w.SetOnQuery(func(q string) {
		queries = append(queries, q)
		w.SetItems([]Item{{"1", "Alice " + q}, {"2", "Bob " + q}})
	})
	w.SetOnPick(func(it Item) { picked = append(picked, it) })
	w.Enter(1)
	typeString(w, "al")
	if len(queries) != 2 || queries[1] != "al" {
		t.Errorf("queries = %v", queries)
	}
	if got := w.Render(20, 5).String(); got != "al\nAlice al\nBob al" {
		t.Errorf("Render -> %q", got)
	}
	w.Handle(key(term.Down))
	w.Handle(key(term.Enter))
	v, ok := w.Value()
	if !ok || v.ID != "2" || w.Query().Text() != "Bob al" {
		t.Errorf("Value -> %v, %v; query %q", v, ok, w.Query().Text())
	}
	typeString(w, "x")
	if _, ok := w.Value(); ok {
		t.Errorf("editing the query should clear the value")
	}
	if len(picked) != 2 || picked[1] != (Item{}) {
		t.Errorf("picked = %v", picked)
	}
}
