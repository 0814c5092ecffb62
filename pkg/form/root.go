package form

import (
	"src.elv.sh/formtk/pkg/lens"
)

// Root is the Object at the top of a tree. It works on a deep copy of the
// record it is bound to, kept in a holder.
type Root struct {
	*Object
	holder *lens.Holder
}

// NewRoot creates a Root bound to a copy of record.
func NewRoot(record map[string]any, members ...Member) *Root {
	holder := &lens.Holder{V: lens.Copy(record)}
	return &Root{NewObject(holder.Lens(), members...), holder}
}

func (r *Root) Kind() Kind { return KindRoot }

// Record returns the record the tree works on. After a successful Collect,
// it holds the edited data.
func (r *Root) Record() map[string]any {
	m, _ := r.holder.V.(map[string]any)
	return m
}
