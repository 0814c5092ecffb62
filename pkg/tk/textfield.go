package tk

import (
	"unicode/utf8"

	"src.elv.sh/formtk/pkg/term"
)

// TextField is a widget for editing a piece of text.
type TextField interface {
	Widget
	Focuser
	// CopyState returns a copy of the state.
	CopyState() TextFieldState
	// SetText replaces the content and moves the dot to its end, without
	// triggering OnChange.
	SetText(s string)
	// Text returns the content.
	Text() string
	// SetOnChange replaces the callback called after every edit.
	SetOnChange(f func(string))
}

// TextFieldSpec specifies the configuration and initial state for TextField.
type TextFieldSpec struct {
	// Key bindings, consulted before the default handling.
	Bindings Bindings
	// Shown dimmed when the content is empty.
	Placeholder string
	// Whether Enter inserts a newline.
	Multiline bool
	// Restricts the characters that can be inserted.
	Accept func(r rune) bool
	// Called after every edit with the new content.
	OnChange func(string)

	State TextFieldState
}

// TextFieldState keeps the mutable state of TextField.
type TextFieldState struct {
	Content string
	// Position of the dot, as a byte index into Content.
	Dot int
}

type textField struct {
	TextFieldSpec
	focused bool
}

// NewTextField creates a new TextField from the given spec.
func NewTextField(spec TextFieldSpec) TextField {
	if spec.Bindings == nil {
		spec.Bindings = DummyBindings{}
	}
	if spec.Accept == nil {
		spec.Accept = func(rune) bool { return true }
	}
	if spec.OnChange == nil {
		spec.OnChange = func(string) {}
	}
	return &textField{TextFieldSpec: spec}
}

func (w *textField) CopyState() TextFieldState  { return w.State }
func (w *textField) Text() string               { return w.State.Content }
func (w *textField) SetOnChange(f func(string)) { w.OnChange = f }

func (w *textField) SetText(s string) {
	w.State = TextFieldState{Content: s, Dot: len(s)}
}

func (w *textField) Enter(int) bool   { w.focused = true; return true }
func (w *textField) Advance(int) bool { w.focused = false; return false }
func (w *textField) Leave()           { w.focused = false }

func (w *textField) Handle(event term.Event) bool {
	if w.Bindings.Handle(w, event) {
		return true
	}
	switch event := event.(type) {
	case term.PasteEvent:
		w.insert(string(event))
		return true
	case term.KeyEvent:
		return w.handleKey(term.Key(event))
	}
	return false
}

func (w *textField) handleKey(k term.Key) bool {
	s := &w.State
	switch {
	case k == term.K(term.Backspace):
		if s.Dot > 0 {
			_, size := utf8.DecodeLastRuneInString(s.Content[:s.Dot])
			s.Content = s.Content[:s.Dot-size] + s.Content[s.Dot:]
			s.Dot -= size
			w.OnChange(s.Content)
		}
	case k == term.K(term.Delete):
		if s.Dot < len(s.Content) {
			_, size := utf8.DecodeRuneInString(s.Content[s.Dot:])
			s.Content = s.Content[:s.Dot] + s.Content[s.Dot+size:]
			w.OnChange(s.Content)
		}
	case k == term.K(term.Left):
		if s.Dot > 0 {
			_, size := utf8.DecodeLastRuneInString(s.Content[:s.Dot])
			s.Dot -= size
		}
	case k == term.K(term.Right):
		if s.Dot < len(s.Content) {
			_, size := utf8.DecodeRuneInString(s.Content[s.Dot:])
			s.Dot += size
		}
	case k == term.K(term.Home):
		s.Dot = 0
	case k == term.K(term.End):
		s.Dot = len(s.Content)
	case k == term.K('u', term.Ctrl):
		if s.Content != "" {
			*s = TextFieldState{}
			w.OnChange("")
		}
	case k == term.K(term.Enter):
		if !w.Multiline {
			return false
		}
		w.insert("\n")
	case k.Mod == 0 && k.Rune >= 0x20 && k.Rune != term.Backspace:
		if !w.Accept(k.Rune) {
			return true
		}
		w.insert(string(k.Rune))
	default:
		return false
	}
	return true
}

func (w *textField) insert(text string) {
	for _, r := range text {
		if !w.Accept(r) || (r == '\n' && !w.Multiline) {
			return
		}
	}
	s := &w.State
	s.Content = s.Content[:s.Dot] + text + s.Content[s.Dot:]
	s.Dot += len(text)
	w.OnChange(s.Content)
}

func (w *textField) Render(width, height int) *term.Buffer {
	bb := term.NewBufferBuilder(width)
	style := ""
	if w.focused {
		style = term.Underline
	}
	s := w.State
	if s.Content == "" && w.Placeholder != "" {
		if w.focused {
			bb.SetDotHere()
		}
		bb.Write(w.Placeholder, term.Dim)
	} else {
		bb.Write(s.Content[:s.Dot], style)
		if w.focused {
			bb.SetDotHere()
		}
		bb.Write(s.Content[s.Dot:], style)
	}
	buf := bb.Buffer()
	buf.TrimToLines(0, height)
	return buf
}
