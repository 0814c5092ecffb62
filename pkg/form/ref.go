package form

import (
	"fmt"
	"sort"

	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/tk"
)

// Ref is a leaf holding the id of an entity of a given type. The entity is
// picked among candidates the Lookuper returns for the typed query.
type Ref struct {
	Base
	// The type of the referenced entity.
	Target string
	env    *Env
	w      tk.ComboBox
	// The current value: an id, or whatever was populated.
	id any
}

// NewRef creates a Ref bound to out.
func NewRef(out lens.Lens, target string, env *Env) *Ref {
	r := &Ref{Target: target, env: env}
	r.Out = out
	return r
}

func (r *Ref) Kind() Kind        { return KindRef }
func (r *Ref) Widget() tk.Widget { return r.w }

// ComboBox returns the widget of the node.
func (r *Ref) ComboBox() tk.ComboBox { return r.w }

func (r *Ref) PreBuild() {
	r.w = tk.NewComboBox(tk.ComboBoxSpec{Placeholder: "search " + r.Target})
	r.Int = lens.Funcs(func() any { return r.id }, r.setID)
}

func (r *Ref) setID(v any) {
	r.id = v
	switch v := v.(type) {
	case nil:
		r.w.SetValue(tk.Item{})
	case string:
		// The label of an entity is only known once it is looked up.
		r.w.SetValue(tk.Item{ID: v, Label: v})
	default:
		s := fmt.Sprint(v)
		r.w.SetValue(tk.Item{ID: s, Label: s})
	}
}

// PreSetup makes the widget look up candidates as the query changes.
func (r *Ref) PreSetup() {
	r.w.SetOnQuery(r.Lookup)
	r.w.SetOnPick(func(it tk.Item) {
		if it.ID == "" {
			r.id = nil
		} else {
			r.id = it.ID
		}
		r.env.changed(r)
	})
}

// Lookup replaces the candidates with the entities matching keyword, sorted
// by label. Errors are logged and leave no candidates.
func (r *Ref) Lookup(keyword string) {
	if r.env == nil || r.env.Lookuper == nil {
		return
	}
	found, err := r.env.Lookuper.Lookup(r.env.context(), r.Target, keyword)
	if err != nil {
		logger.Printf("%s: lookup %s %q: %v", Path(r), r.Target, keyword, err)
		r.w.SetItems(nil)
		return
	}
	items := make([]tk.Item, 0, len(found))
	for id, label := range found {
		items = append(items, tk.Item{ID: id, Label: label})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Label != items[j].Label {
			return items[i].Label < items[j].Label
		}
		return items[i].ID < items[j].ID
	})
	r.w.SetItems(items)
}

func (r *Ref) Present() bool { return r.id != nil && r.id != "" }
