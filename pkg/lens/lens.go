// Package lens contains lenses, values that address exactly one mutable slot
// inside a data graph made of records, lists and staging maps.
//
// A lens never owns the data it addresses. Creating a lens does not
// materialize its key; reading a slot that does not exist yields nil.
//
// Records are represented as map[string]any and lists as []any, which is the
// shape produced by decoding YAML or JSON into an any.
package lens

// Lens addresses one mutable slot.
type Lens interface {
	// Get returns the current value of the slot, or nil if the slot does not
	// exist.
	Get() any
	// Set assigns the slot, creating it and any missing container it lives in.
	Set(v any)
}

// Exchange copies the value of from into to. The value is deep-copied, so
// later mutations through either lens are not visible through the other.
func Exchange(from, to Lens) {
	to.Set(Copy(from.Get()))
}

type ptr struct{ p *any }

// FromPtr returns a Lens over the variable p points to.
func FromPtr(p *any) Lens { return ptr{p} }

// FromInit returns a Lens over a fresh variable with an initial value.
func FromInit(v any) Lens { return FromPtr(&v) }

func (l ptr) Get() any  { return *l.p }
func (l ptr) Set(v any) { *l.p = v }

// Holder is a single-field proxy. It is used to anchor a whole record, so
// that the record itself can be replaced through a lens.
type Holder struct {
	V any
}

// Lens returns a Lens over the only field of h.
func (h *Holder) Lens() Lens { return FromPtr(&h.V) }

type field struct {
	parent Lens
	key    string
}

// Field returns a Lens over the field key of the record addressed by parent.
// The record is looked up through parent on every access, so the lens stays
// valid when parent is reassigned.
func Field(parent Lens, key string) Lens { return field{parent, key} }

func (l field) Get() any {
	m, _ := l.parent.Get().(map[string]any)
	return m[l.key]
}

func (l field) Set(v any) {
	m, ok := l.parent.Get().(map[string]any)
	if !ok || m == nil {
		m = make(map[string]any)
		l.parent.Set(m)
	}
	m[l.key] = v
}

type index struct {
	parent Lens
	i      int
}

// Index returns a Lens over element i of the list addressed by parent.
// Setting an element beyond the end of the list extends it with nils.
func Index(parent Lens, i int) Lens { return index{parent, i} }

func (l index) Get() any {
	li, _ := l.parent.Get().([]any)
	if l.i < 0 || l.i >= len(li) {
		return nil
	}
	return li[l.i]
}

func (l index) Set(v any) {
	li, _ := l.parent.Get().([]any)
	if l.i < len(li) {
		li[l.i] = v
		return
	}
	extended := make([]any, l.i+1)
	copy(extended, li)
	extended[l.i] = v
	l.parent.Set(extended)
}

// Staging maps stable sequence ids to staged values.
type Staging map[int]any

type seq struct {
	staged Staging
	id     int
}

// Seq returns a Lens over the entry id of a staging map.
func Seq(staged Staging, id int) Lens { return seq{staged, id} }

func (l seq) Get() any  { return l.staged[l.id] }
func (l seq) Set(v any) { l.staged[l.id] = v }

type funcs struct {
	get func() any
	set func(any)
}

// Funcs returns a Lens backed by a getter and a setter. It is used to expose
// state that lives outside the data graph, such as the value of a widget.
func Funcs(get func() any, set func(any)) Lens { return funcs{get, set} }

func (l funcs) Get() any  { return l.get() }
func (l funcs) Set(v any) { l.set(v) }
