package form

import (
	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/schema"
)

// Materialize creates the tree for a compiled schema, bound to a copy of
// record. Every field of a record is wrapped in a Row labeled with the field
// label; rows of nested records are collapsible.
func Materialize(tree *schema.Tree, record map[string]any, env *Env) *Root {
	return NewRoot(record, Members(tree.Fields, env)...)
}

// Members returns the members of an Object with the given fields.
func Members(fields []*schema.Field, env *Env) []Member {
	members := make([]Member, len(fields))
	for i, f := range fields {
		f := f
		members[i] = Member{Name: f.Name, New: func(out lens.Lens) Node {
			return NewRow(out, f.Label, f.Kind == schema.Object, func(out lens.Lens) Node {
				return MaterializeField(f, out, env)
			})
		}}
	}
	return members
}

// MaterializeField creates the node for one field descriptor, bound to out.
func MaterializeField(f *schema.Field, out lens.Lens, env *Env) Node {
	var n Node
	switch f.Kind {
	case schema.ShortText:
		n = NewText(out, false, env)
	case schema.LongText:
		n = NewText(out, true, env)
	case schema.Integer:
		n = NewInteger(out, env)
	case schema.Date:
		n = NewDate(out, env)
	case schema.Boolean:
		n = NewBoolean(out, env)
	case schema.File:
		n = NewFile(out, arg(f), env)
	case schema.Ref:
		n = NewRef(out, arg(f), env)
	case schema.Array:
		n = NewArray(out, elemFunc(f.Elem, env), env)
	case schema.Grid:
		n = NewGrid(out, elemFunc(f.Elem, env), env)
	case schema.Object:
		n = NewObject(out, Members(f.Fields, env)...)
	default:
		panic("unknown kind " + f.Kind.String())
	}
	n.base().Required = f.Required
	return n
}

func elemFunc(elem *schema.Field, env *Env) func(lens.Lens) Node {
	return func(out lens.Lens) Node { return MaterializeField(elem, out, env) }
}

func arg(f *schema.Field) string {
	if len(f.Args) > 0 {
		return f.Args[0]
	}
	return ""
}
