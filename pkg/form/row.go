package form

import (
	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/tk"
)

// Row decorates a single child with a label. A collapsible row starts
// collapsed. The child is bound to the same lens as the row; the row itself
// does not touch the data.
type Row struct {
	Base
	Label       string
	Collapsible bool
	w           tk.Labeled
}

// NewRow creates a Row bound to out, whose child is created by newChild with
// the same lens.
func NewRow(out lens.Lens, label string, collapsible bool, newChild func(lens.Lens) Node) *Row {
	r := &Row{Label: label, Collapsible: collapsible}
	r.Out = out
	r.insertChild(r, 0, newChild(out))
	return r
}

func (r *Row) Kind() Kind        { return KindRow }
func (r *Row) Widget() tk.Widget { return r.w }

// Child returns the decorated node.
func (r *Row) Child() Node { return r.children[0] }

func (r *Row) PostBuild() {
	child := r.Child()
	r.w = tk.NewLabeled(tk.LabeledSpec{
		Label:       r.Label,
		Child:       child.Widget(),
		Collapsible: r.Collapsible,
		Collapsed:   r.Collapsible,
		Mark: func() string {
			if child.base().Required && !Present(child) {
				return "(required)"
			}
			return ""
		},
	})
}

func (r *Row) Present() bool { return Present(r.Child()) }

// Toggle collapses or expands the row.
func (r *Row) Toggle() { r.w.Toggle() }

// Collapsed returns whether the child is hidden.
func (r *Row) Collapsed() bool { return r.w.Collapsed() }
