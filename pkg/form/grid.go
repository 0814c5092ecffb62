package form

import (
	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tk"
)

// Grid is a node bound to a list of rows, each row being a list of cells of
// the same kind. It is an Array of rows, where each row is an Array of cells;
// the rows always have the same number of cells.
type Grid struct {
	*Array
	cols int
}

// NewGrid creates a Grid bound to out. Each cell node is created by newCell
// with a lens over the staged value of the cell.
func NewGrid(out lens.Lens, newCell func(out lens.Lens) Node, env *Env) *Grid {
	g := &Grid{}
	g.Array = NewArray(out, func(out lens.Lens) Node {
		row := NewArray(out, newCell, nil)
		row.fixed = true
		return row
	}, env)
	g.newValue = func() any { return make([]any, g.cols) }
	return g
}

func (g *Grid) Kind() Kind { return KindGrid }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.Len() }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Row returns the i-th row.
func (g *Grid) Row(i int) *Array { return g.Child(i).(*Array) }

// Cell returns the node of a cell.
func (g *Grid) Cell(row, col int) Node { return g.Row(row).Child(col) }

// PreBuild pads the bound rows with nils so that they all have the same
// length.
func (g *Grid) PreBuild() {
	if rows, ok := g.Out.Get().([]any); ok {
		g.cols = 0
		for i, row := range rows {
			cells, ok := row.([]any)
			if !ok && row != nil {
				logger.Printf("%s: ignoring %T bound to row %d", Path(g), row, i)
			}
			g.cols = max(g.cols, len(cells))
		}
		padded := make([]any, len(rows))
		for i, row := range rows {
			cells, _ := row.([]any)
			padded[i] = append(append([]any(nil), cells...), make([]any, g.cols-len(cells))...)
		}
		g.Out.Set(padded)
	}
	g.Array.PreBuild()
}

func (g *Grid) PreSetup() {
	g.Array.PreSetup()
	g.bindings = g.gridBindings()
}

// AddRow inserts a row of empty cells at position at.
func (g *Grid) AddRow(at int) { g.Add(at, g.newValue()) }

// RemoveRow removes the row at position at.
func (g *Grid) RemoveRow(at int) { g.Remove(at) }

// AddColumn inserts a column of empty cells at position at in every row.
func (g *Grid) AddColumn(at int) {
	if at < 0 || at > g.cols {
		at = g.cols
	}
	for i := 0; i < g.Rows(); i++ {
		g.Row(i).Add(at, nil)
	}
	g.cols++
}

// RemoveColumn removes the column at position at from every row.
func (g *Grid) RemoveColumn(at int) {
	if at < 0 || at >= g.cols {
		return
	}
	for i := 0; i < g.Rows(); i++ {
		g.Row(i).Remove(at)
	}
	g.cols--
}

func (g *Grid) focusedCol() int {
	if r := g.col.Focused(); r >= 0 {
		return g.Row(r).col.Focused()
	}
	return -1
}

// The grid handles the bindings of its rows too, since rows cannot change
// shape on their own.
func (g *Grid) gridBindings() tk.Bindings {
	rowBindings := g.defaultBindings().(tk.MapBindings)
	rowBindings[term.KeyEvent(term.K('n', term.Alt))] = func(tk.Widget) {
		g.AddColumn(g.focusedCol() + 1)
		g.env.changed(g)
	}
	rowBindings[term.KeyEvent(term.K('d', term.Alt))] = func(tk.Widget) {
		if c := g.focusedCol(); c >= 0 {
			g.RemoveColumn(c)
			g.env.changed(g)
		}
	}
	return rowBindings
}
