// Package form implements editor trees: trees of nodes that bind interactive
// widgets to the slots of a nested data record.
//
// A tree goes through four phases, driven by the walkers in this package:
//
//   - Build creates the widgets of every node.
//   - Populate copies data from the record into the widgets.
//   - Attach wires interactive behavior such as key bindings.
//   - Collect copies data back from the widgets into the record.
//
// Between Attach and Collect, the tree is edited through its widgets; arrays
// can gain, lose and reorder elements.
package form

import (
	"context"
	"strconv"
	"strings"

	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/logutil"
	"src.elv.sh/formtk/pkg/tk"
)

var logger = logutil.GetLogger("[form] ")

// Kind identifies the kind of a Node.
type Kind int

// Possible values of Kind.
const (
	KindText Kind = iota
	KindLongText
	KindInteger
	KindDate
	KindBoolean
	KindFile
	KindRef
	KindObject
	KindArray
	KindGrid
	KindRow
	KindRoot
)

var kindNames = [...]string{
	"text", "long-text", "integer", "date", "boolean", "file", "reference",
	"object", "array", "grid", "row", "root",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a node of an editor tree. Implementations embed Base, which
// provides the tree links and no-op bodies for all the hooks.
type Node interface {
	base() *Base
	// Kind returns the kind of the node.
	Kind() Kind
	// Widget returns the widget the node renders through. It is nil before
	// the node is built.
	Widget() tk.Widget

	// Called by Build before building the children.
	PreBuild()
	// Called by Build after building the children.
	PostBuild()
	// Called by Populate before the external value is copied in.
	PreInput()
	// Called by Attach before attaching the children.
	PreSetup()
	// Called by Collect after collecting the children.
	MidOutput(ctx context.Context) error
	// Called by Collect after MidOutput.
	PostMidOutput(ctx context.Context) error
	// Called by Collect after the internal value is copied out.
	PostOutput(ctx context.Context) error
}

// InputConverter is implemented by nodes that normalize the external value
// before it is copied into the internal lens.
type InputConverter interface {
	ConvertInput(v any) any
}

// OutputConverter is implemented by nodes that convert the internal value
// before it is copied into the external lens.
type OutputConverter interface {
	ConvertOutput(v any) (any, error)
}

// Presenter is implemented by nodes that can tell whether they hold a value.
type Presenter interface {
	Present() bool
}

// Base holds the state common to all nodes.
type Base struct {
	// Where the data of the node lives in the surrounding record.
	Out lens.Lens
	// Staging slot of the node, usually exposing the value of its widget.
	// Nil for nodes that have none.
	Int lens.Lens
	// Name of the record field the node is bound to. Empty for array
	// elements and for nodes that decorate their parent.
	Name string
	// Whether a value must be present before the record is submitted.
	Required bool

	parent   Node
	children []Node
}

func (b *Base) base() *Base { return b }

// Parent returns the parent of the node, or nil for the root.
func (b *Base) Parent() Node { return b.parent }

// Children returns the children of the node in their current order. The
// slice must not be modified.
func (b *Base) Children() []Node { return b.children }

func (b *Base) PreBuild()                           {}
func (b *Base) PostBuild()                          {}
func (b *Base) PreInput()                           {}
func (b *Base) PreSetup()                           {}
func (b *Base) MidOutput(context.Context) error     { return nil }
func (b *Base) PostMidOutput(context.Context) error { return nil }
func (b *Base) PostOutput(context.Context) error    { return nil }

func (b *Base) insertChild(self Node, i int, child Node) {
	child.base().parent = self
	b.children = append(b.children, nil)
	copy(b.children[i+1:], b.children[i:])
	b.children[i] = child
}

func (b *Base) removeChild(i int) Node {
	child := b.children[i]
	child.base().parent = nil
	b.children = append(b.children[:i], b.children[i+1:]...)
	return child
}

func (b *Base) moveChild(from, to int) {
	child := b.children[from]
	if from < to {
		copy(b.children[from:to], b.children[from+1:to+1])
	} else {
		copy(b.children[to+1:from+1], b.children[to:from])
	}
	b.children[to] = child
}

// Path returns the path of a node from the root of its tree, made of field
// names and array indices joined by dots.
func Path(n Node) string {
	var segs []string
	for n != nil {
		b := n.base()
		p := b.parent
		switch {
		case b.Name != "":
			segs = append(segs, b.Name)
		case p != nil && (p.Kind() == KindArray || p.Kind() == KindGrid):
			for i, c := range p.base().children {
				if c == n {
					segs = append(segs, strconv.Itoa(i))
					break
				}
			}
		}
		n = p
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

// Present reports whether n holds a value. Nodes that do not implement
// Presenter are always considered present.
func Present(n Node) bool {
	if p, ok := n.(Presenter); ok {
		return p.Present()
	}
	return true
}

// Missing returns the paths of all required nodes in the tree rooted at n
// that hold no value.
func Missing(n Node) []string {
	var paths []string
	var walk func(Node)
	walk = func(n Node) {
		if n.base().Required && !Present(n) {
			paths = append(paths, Path(n))
		}
		for _, c := range n.base().children {
			walk(c)
		}
	}
	walk(n)
	return paths
}
