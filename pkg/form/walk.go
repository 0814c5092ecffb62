package form

import (
	"context"
	"errors"
	"fmt"

	"src.elv.sh/formtk/pkg/lens"
)

// Build runs the build phase on the tree rooted at n: PreBuild, then the
// children depth first, then PostBuild.
func Build(n Node) {
	n.PreBuild()
	for _, c := range snapshot(n) {
		Build(c)
	}
	n.PostBuild()
}

// Populate runs the populate phase on the tree rooted at n. For a node with
// an internal lens, the external value is copied into it, through
// ConvertInput if the node implements InputConverter.
func Populate(n Node) {
	n.PreInput()
	b := n.base()
	if b.Int != nil {
		if c, ok := n.(InputConverter); ok {
			b.Int.Set(c.ConvertInput(b.Out.Get()))
		} else {
			lens.Exchange(b.Out, b.Int)
		}
	}
	for _, c := range snapshot(n) {
		Populate(c)
	}
}

// Attach runs the attach phase on the tree rooted at n.
func Attach(n Node) {
	n.PreSetup()
	for _, c := range snapshot(n) {
		Attach(c)
	}
}

// Collect runs the collect phase on the tree rooted at n. Children are
// collected one after another in their current order, each one completely
// before the next starts. Then the MidOutput and PostMidOutput hooks run, the
// internal value is copied out, through ConvertOutput if the node implements
// OutputConverter, and PostOutput runs.
//
// The first error aborts the walk and is returned as a *CollectError. Work
// done before the error, such as uploads, is not undone.
func Collect(ctx context.Context, n Node) error {
	for _, c := range snapshot(n) {
		if err := Collect(ctx, c); err != nil {
			return err
		}
	}
	if err := n.MidOutput(ctx); err != nil {
		return collectError(n, err)
	}
	if err := n.PostMidOutput(ctx); err != nil {
		return collectError(n, err)
	}
	b := n.base()
	if b.Int != nil {
		if c, ok := n.(OutputConverter); ok {
			v, err := c.ConvertOutput(b.Int.Get())
			if err != nil {
				return collectError(n, err)
			}
			b.Out.Set(v)
		} else {
			lens.Exchange(b.Int, b.Out)
		}
	}
	if err := n.PostOutput(ctx); err != nil {
		return collectError(n, err)
	}
	return nil
}

// CollectError is returned by Collect. It records where the walk failed.
type CollectError struct {
	// Path of the failing node, as returned by Path.
	Path string
	Err  error
}

func (e *CollectError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("collect: %v", e.Err)
	}
	return fmt.Sprintf("collect %s: %v", e.Path, e.Err)
}

func (e *CollectError) Unwrap() error { return e.Err }

func collectError(n Node, err error) error {
	var ce *CollectError
	if errors.As(err, &ce) {
		return err
	}
	return &CollectError{Path(n), err}
}

// Hooks may add or remove children; walkers iterate over the children the
// node had when the walk reached it.
func snapshot(n Node) []Node {
	return append([]Node(nil), n.base().children...)
}
