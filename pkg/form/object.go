package form

import (
	"context"

	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/tk"
)

// Member declares one field of an Object.
type Member struct {
	Name string
	// Creates the node of the field, given a lens over the field.
	New func(out lens.Lens) Node
}

// Object is a node with a fixed set of named children, each bound to a field
// of the record the object is bound to.
type Object struct {
	Base
	col tk.Column
	// Fields missing from the record when it was populated.
	absent map[string]bool
	// Whether the record was created by PreBuild.
	created bool
}

// NewObject creates an Object bound to out.
func NewObject(out lens.Lens, members ...Member) *Object {
	o := &Object{}
	o.Out = out
	for _, m := range members {
		child := m.New(lens.Field(out, m.Name))
		child.base().Name = m.Name
		o.insertChild(o, len(o.children), child)
	}
	return o
}

func (o *Object) Kind() Kind        { return KindObject }
func (o *Object) Widget() tk.Widget { return o.col }

// PreBuild makes sure the object is bound to a record, so that the lenses of
// the children have a container to address.
func (o *Object) PreBuild() {
	m, ok := o.Out.Get().(map[string]any)
	if !ok || m == nil {
		if v := o.Out.Get(); v != nil {
			logger.Printf("%s: replacing %T with an empty record", Path(o), v)
		}
		o.Out.Set(map[string]any{})
		o.created = true
	}
	o.col = tk.NewColumn(tk.ColumnSpec{Placeholder: "(no fields)"})
}

func (o *Object) PostBuild() {
	for i, c := range o.children {
		o.col.Insert(i, c.Widget())
	}
}

func (o *Object) PreInput() {
	m, _ := o.Out.Get().(map[string]any)
	o.absent = map[string]bool{}
	for _, c := range o.children {
		if _, ok := m[c.base().Name]; !ok {
			o.absent[c.base().Name] = true
		}
	}
}

// PostOutput drops fields that were missing from the record and are still
// empty, so that collecting an unedited tree gives back the same record. A
// record field created by PreBuild that is still empty is reset to nil, for
// the enclosing object to drop.
func (o *Object) PostOutput(context.Context) error {
	m, _ := o.Out.Get().(map[string]any)
	for name := range o.absent {
		if v, ok := m[name]; ok && v == nil {
			delete(m, name)
		}
	}
	if o.created && len(m) == 0 && isField(o) {
		o.Out.Set(nil)
	}
	return nil
}

// isField reports whether n is bound to a field of a record, possibly
// through rows.
func isField(n Node) bool {
	for n.base().Name == "" {
		p := n.base().parent
		if p == nil || p.Kind() != KindRow {
			return false
		}
		n = p
	}
	return true
}

// Field returns the child bound to the named field, or nil.
func (o *Object) Field(name string) Node {
	for _, c := range o.children {
		if c.base().Name == name {
			return c
		}
	}
	return nil
}

// Present reports whether any field of the object holds a value.
func (o *Object) Present() bool {
	for _, c := range o.children {
		if Present(c) {
			return true
		}
	}
	return false
}
