// Package schema compiles textual schemas into trees of field descriptors.
//
// A schema is a list of statements, one field per line:
//
//	title   TEXTSHORT!        "Title"
//	cover   FILE(image)       "Cover"
//	authors REF(author)[]     "Authors"
//	tracks  TRACK[]           "Tracks"
//	chords  TEXTSHORT[][]
//
//	[TRACK]
//	name    TEXTSHORT "Name"
//	length  INTEGER   "Length"
//
// The output is pure data; the form package interprets it.
package schema

import (
	"src.elv.sh/formtk/pkg/diag"
	"src.elv.sh/formtk/pkg/errutil"
)

// Tree is a compiled schema.
type Tree struct {
	Name   string
	Fields []*Field
}

// Field is the descriptor of one field.
type Field struct {
	diag.Ranging
	// Name of the field in the record. Empty for array and grid elements.
	Name  string
	Label string
	Kind  Kind
	// Arguments of the kind: the accepted file kind for File, the target
	// entity type for Ref.
	Args []string
	// Descriptor of each element, for Array and Grid.
	Elem *Field
	// Name of the nested block and its compiled fields, for Object.
	Block  string
	Fields []*Field
	// Whether the field must have a value before the record is submitted.
	Required bool
}

// CompileText parses and compiles a schema text.
func CompileText(name, text string) (*Tree, error) {
	doc, err := ParseDocument(name, text)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// Compile compiles the main block of a document, resolving nested records
// recursively. It reports every error found in the blocks it reaches, and
// returns no tree if there is any.
func Compile(doc *Document) (*Tree, error) {
	c := &compiler{doc: doc, state: map[string]blockState{}, compiled: map[string][]*Field{}}
	fields := c.block(doc.Main)
	if len(c.errs) > 0 {
		return nil, errutil.Multi(c.errs...)
	}
	return &Tree{Name: doc.Name, Fields: fields}, nil
}

type blockState uint8

const (
	compiling blockState = iota + 1
	compiled
)

type compiler struct {
	doc      *Document
	state    map[string]blockState
	compiled map[string][]*Field
	errs     []error
}

func (c *compiler) block(b *Block) []*Field {
	fields := make([]*Field, 0, len(b.Statements))
	seen := map[string]bool{}
	for _, r := range b.Statements {
		st, err := parseStatement(c.doc, r)
		if err != nil {
			c.errs = append(c.errs, err)
			continue
		}
		if seen[st.Name] {
			c.errs = append(c.errs, newError(c.doc, st, "duplicate field %s", st.Name))
			continue
		}
		seen[st.Name] = true
		if f := c.statement(st); f != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

func (c *compiler) statement(st *Statement) *Field {
	elem := c.typeExpr(&st.Type)
	if elem == nil {
		return nil
	}
	label := st.Label
	if !st.HasLabel {
		label = st.Name
	}
	var f *Field
	switch st.Type.Dims {
	case 0:
		f = elem
	case 1:
		f = &Field{Kind: Array, Elem: elem}
	case 2:
		f = &Field{Kind: Grid, Elem: elem}
	}
	f.Ranging, f.Name, f.Label, f.Required = st.Ranging, st.Name, label, st.Type.Required
	return f
}

// typeExpr compiles the element type of a statement, ignoring its suffix.
func (c *compiler) typeExpr(t *TypeExpr) *Field {
	if kw, ok := keywords[t.Name]; ok && !t.Braced {
		switch {
		case kw.arg != "" && !t.HasArg:
			c.errs = append(c.errs, newError(c.doc, t,
				"%s requires an argument, as in %s(%s)", t.Name, t.Name, kw.arg))
			return nil
		case kw.arg == "" && t.HasArg:
			c.errs = append(c.errs, newError(c.doc, t, "%s takes no argument", t.Name))
			return nil
		}
		f := &Field{Kind: kw.kind, Ranging: t.Ranging}
		if t.HasArg {
			f.Args = []string{t.Arg}
		}
		return f
	}

	b, ok := c.doc.Blocks[t.Name]
	if !ok {
		if t.Braced {
			c.errs = append(c.errs, newError(c.doc, t, "undefined nested record %s", t.Name))
		} else {
			c.errs = append(c.errs, newError(c.doc, t, "unknown type %s", t.Name))
		}
		return nil
	}
	if t.HasArg {
		c.errs = append(c.errs, newError(c.doc, t, "nested record %s takes no argument", t.Name))
		return nil
	}
	switch c.state[t.Name] {
	case compiling:
		c.errs = append(c.errs, newError(c.doc, t, "recursive reference to nested record %s", t.Name))
		return nil
	case 0:
		c.state[t.Name] = compiling
		c.compiled[t.Name] = c.block(b)
		c.state[t.Name] = compiled
	}
	return &Field{Kind: Object, Block: t.Name, Fields: c.compiled[t.Name], Ranging: t.Ranging}
}
