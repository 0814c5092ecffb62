package form

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/tk"
)

// Text is a leaf editing a string, on one line or on several.
type Text struct {
	Base
	Multiline bool
	env       *Env
	w         tk.TextField
	// Whether the external value was nil. An empty text is then collected
	// as nil again.
	wasNil bool
}

// NewText creates a Text bound to out.
func NewText(out lens.Lens, multiline bool, env *Env) *Text {
	t := &Text{Multiline: multiline, env: env}
	t.Out = out
	return t
}

func (t *Text) Kind() Kind {
	if t.Multiline {
		return KindLongText
	}
	return KindText
}

func (t *Text) Widget() tk.Widget { return t.w }

// TextField returns the widget of the node.
func (t *Text) TextField() tk.TextField { return t.w }

func (t *Text) PreBuild() {
	t.w = tk.NewTextField(tk.TextFieldSpec{Multiline: t.Multiline})
	t.Int = textLens(t.w)
}

func (t *Text) PreSetup() {
	t.w.SetOnChange(func(string) { t.env.changed(t) })
}

func (t *Text) ConvertInput(v any) any {
	t.wasNil = v == nil
	s, _ := lens.StringCodec.Decode(v)
	return s
}

func (t *Text) ConvertOutput(v any) (any, error) {
	if v == "" && t.wasNil {
		return nil, nil
	}
	return v, nil
}

func (t *Text) Present() bool { return strings.TrimSpace(t.w.Text()) != "" }

func textLens(w tk.TextField) lens.Lens {
	return lens.Funcs(
		func() any { return w.Text() },
		func(v any) { s, _ := v.(string); w.SetText(s) })
}

// unparsed remembers a bound value that a leaf could not parse, along with the
// text shown for it. As long as the text is not edited, the value is
// collected unchanged.
type unparsed struct {
	value any
	text  string
	ok    bool
}

func (u *unparsed) set(v any) string {
	*u = unparsed{v, fmt.Sprint(v), true}
	return u.text
}

func (u *unparsed) unedited(text any) (any, bool) {
	if u.ok && text == u.text {
		return u.value, true
	}
	return nil, false
}

// Integer is a leaf editing an integer. The widget holds the decimal form of
// the value; it is converted with lens.IntCodec on both ways.
type Integer struct {
	Base
	env *Env
	w   tk.TextField
	bad unparsed
}

// NewInteger creates an Integer bound to out.
func NewInteger(out lens.Lens, env *Env) *Integer {
	n := &Integer{env: env}
	n.Out = out
	return n
}

func (n *Integer) Kind() Kind        { return KindInteger }
func (n *Integer) Widget() tk.Widget { return n.w }

// TextField returns the widget of the node.
func (n *Integer) TextField() tk.TextField { return n.w }

func (n *Integer) PreBuild() {
	n.w = tk.NewTextField(tk.TextFieldSpec{
		Accept: func(r rune) bool { return unicode.IsDigit(r) || r == '-' || r == '+' },
	})
	n.Int = textLens(n.w)
}

func (n *Integer) PreSetup() {
	n.w.SetOnChange(func(string) { n.env.changed(n) })
}

func (n *Integer) ConvertInput(v any) any {
	n.bad = unparsed{}
	i, err := lens.IntCodec.Decode(v)
	if errors.Is(err, lens.ErrEmpty) {
		return ""
	}
	if err != nil {
		logger.Printf("%s: %v", Path(n), err)
		return n.bad.set(v)
	}
	return lens.IntCodec.Encode(i)
}

func (n *Integer) ConvertOutput(v any) (any, error) {
	if raw, ok := n.bad.unedited(v); ok {
		return raw, nil
	}
	i, err := lens.IntCodec.Decode(v)
	if errors.Is(err, lens.ErrEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Value returns the integer in the widget.
func (n *Integer) Value() (int, error) {
	return lens.Of(n.Int, lens.IntCodec).Value()
}

func (n *Integer) Present() bool {
	if _, ok := n.bad.unedited(n.w.Text()); ok {
		return true
	}
	_, err := n.Value()
	return err == nil
}

// DateLayout is the layout dates are edited in.
const DateLayout = "2006-01-02"

// Date is a leaf editing a calendar date. Dates are collected in the form
// they were populated from: a time.Time stays a time.Time, anything else
// becomes a string in DateLayout. A bound value that is not a date is
// collected unchanged unless it is edited.
type Date struct {
	Base
	env    *Env
	w      tk.TextField
	asTime bool
	bad    unparsed
}

// NewDate creates a Date bound to out.
func NewDate(out lens.Lens, env *Env) *Date {
	d := &Date{env: env}
	d.Out = out
	return d
}

func (d *Date) Kind() Kind        { return KindDate }
func (d *Date) Widget() tk.Widget { return d.w }

// TextField returns the widget of the node.
func (d *Date) TextField() tk.TextField { return d.w }

func (d *Date) PreBuild() {
	d.w = tk.NewTextField(tk.TextFieldSpec{
		Placeholder: "YYYY-MM-DD",
		Accept:      func(r rune) bool { return unicode.IsDigit(r) || r == '-' },
	})
	d.Int = textLens(d.w)
}

func (d *Date) PreSetup() {
	d.w.SetOnChange(func(string) { d.env.changed(d) })
}

func (d *Date) ConvertInput(v any) any {
	d.asTime, d.bad = false, unparsed{}
	switch v := v.(type) {
	case nil:
		return ""
	case time.Time:
		d.asTime = true
		return v.Format(DateLayout)
	case string:
		if s := strings.TrimSpace(v); s == "" || isDate(s) {
			return v
		}
		logger.Printf("%s: %q is not a date", Path(d), v)
		return d.bad.set(v)
	default:
		logger.Printf("%s: unexpected %T bound to a date", Path(d), v)
		return d.bad.set(v)
	}
}

func (d *Date) ConvertOutput(v any) (any, error) {
	if raw, ok := d.bad.unedited(v); ok {
		return raw, nil
	}
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	if d.asTime {
		return t, nil
	}
	return t.Format(DateLayout), nil
}

func isDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func (d *Date) Present() bool { return strings.TrimSpace(d.w.Text()) != "" }

// Boolean is a leaf editing a boolean through a checkbox.
type Boolean struct {
	Base
	env    *Env
	w      tk.Checkbox
	wasNil bool
}

// NewBoolean creates a Boolean bound to out.
func NewBoolean(out lens.Lens, env *Env) *Boolean {
	b := &Boolean{env: env}
	b.Out = out
	return b
}

func (b *Boolean) Kind() Kind        { return KindBoolean }
func (b *Boolean) Widget() tk.Widget { return b.w }

// Checkbox returns the widget of the node.
func (b *Boolean) Checkbox() tk.Checkbox { return b.w }

func (b *Boolean) PreBuild() {
	b.w = tk.NewCheckbox(tk.CheckboxSpec{})
	b.Int = lens.Funcs(
		func() any { return b.w.Checked() },
		func(v any) { c, _ := v.(bool); b.w.SetChecked(c) })
}

func (b *Boolean) PreSetup() {
	b.w.SetOnChange(func(bool) { b.env.changed(b) })
}

func (b *Boolean) ConvertInput(v any) any {
	b.wasNil = v == nil
	c, err := lens.BoolCodec.Decode(v)
	if err != nil {
		logger.Printf("%s: %v", Path(b), err)
	}
	return c
}

// ConvertOutput keeps a nil external value nil unless the box is checked.
func (b *Boolean) ConvertOutput(v any) (any, error) {
	if v == false && b.wasNil {
		return nil, nil
	}
	return v, nil
}

// Present reports whether the box is checked.
func (b *Boolean) Present() bool { return b.w.Checked() }
