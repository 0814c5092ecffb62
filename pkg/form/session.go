package form

import (
	"context"

	"src.elv.sh/formtk/pkg/schema"
	"src.elv.sh/formtk/pkg/tk"
)

// Session is one editing session over a record: a tree that has been built,
// populated and attached, waiting to be edited and collected.
type Session struct {
	root *Root
}

// NewSession materializes a compiled schema against a record and drives the
// tree through Build, Populate and Attach. The record itself is never
// modified.
func NewSession(tree *schema.Tree, record map[string]any, env *Env) *Session {
	return Bind(Materialize(tree, record, env))
}

// Bind drives an unbuilt tree through Build, Populate and Attach.
func Bind(root *Root) *Session {
	Build(root)
	Populate(root)
	Attach(root)
	return &Session{root}
}

// Root returns the root of the tree.
func (s *Session) Root() *Root { return s.root }

// Widget returns the widget of the tree.
func (s *Session) Widget() tk.Widget { return s.root.Widget() }

// Mount mounts the widget of the tree on a host.
func (s *Session) Mount(h Host) { h.Mount(s.root.Widget()) }

// Missing returns the paths of required fields that have no value.
func (s *Session) Missing() []string { return Missing(s.root) }

// Ready reports whether all required fields have a value.
func (s *Session) Ready() bool { return len(s.Missing()) == 0 }

// Collect collects the tree and returns the resulting record.
func (s *Session) Collect(ctx context.Context) (map[string]any, error) {
	if err := Collect(ctx, s.root); err != nil {
		return nil, err
	}
	return s.root.Record(), nil
}
