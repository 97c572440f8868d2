package engine

import "fmt"

// CellKind discriminates the three kinds of table cell.
type CellKind uint8

const (
	// CellNode is a real node: width > 0, node != nil.
	CellNode CellKind = iota
	// CellSpacer fills horizontal space between unrelated nodes: width
	// > 0, node == nil.
	CellSpacer
	// CellContinuation marks an elided tail: width == 0, node == nil.
	CellContinuation
)

// Cell is one entry in a TableView row.
type Cell struct {
	Kind           CellKind
	DisplayWidth   int
	Position       int
	ParentPosition int
	Path           Path // valid only when Kind == CellNode
	Active         bool
	Abbreviated    bool // true when max_depth collapsed this joint
}

// Row is one depth level of the rendering.
type Row struct {
	Cells []Cell
}

// TableView is the full tabular rendering produced by ViewTable.
type TableView struct {
	Rows []Row
}

// ViewParams bounds the rendering. MaxDepth <= 0 means unbounded depth;
// otherwise at most MaxDepth rows are rendered and joints on the last
// of them are abbreviated. MaxWidth <= 0 means unbounded width. BasePath selects a subtree
// rooted elsewhere; the zero Path renders the whole network.
type ViewParams struct {
	BasePath Path
	MaxDepth int
	MaxWidth int
}

// viewRowBuilder accumulates cells for a single depth level while the
// depth-first walk is in progress.
type viewRowBuilder struct {
	cells        []Cell
	cumPos       int
	widthReached bool
}

// ViewTable computes the tabular rendering of the network's topology.
// The algorithm is depth-first: a node's display width equals the sum
// of its children's widths, or 1 if it has no children. parentPosition
// records where the parent sat in the previous row, letting consumers
// draw connecting lines. The MaxWidth cutoff is grounded on
// internal/piece/strategy.go's "n = min(n, capacity)" clamping idiom.
func (n *Network[T, U]) ViewTable(params ViewParams) (*TableView, error) {
	if params.MaxDepth < 0 || params.MaxWidth < 0 {
		return nil, ErrExcessiveViewDimensions
	}

	baseItemVec, _, ok := n.trees.childVecsAt(params.BasePath)
	if !ok {
		return nil, wrapPathErr(ErrUnknownPath, "view-table", params.BasePath)
	}

	rows := make([]*viewRowBuilder, 0)

	var widthOf func(path Path, itemVec *ChildVec[*Node[T, U]], index int, depth int, active bool, parentPos int) (int, error)
	widthOf = func(path Path, itemVec *ChildVec[*Node[T, U]], index int, depth int, active bool, parentPos int) (int, error) {
		for len(rows) <= depth {
			rows = append(rows, &viewRowBuilder{})
		}
		row := rows[depth]

		node := itemVec.At(index)
		nodeWeight := itemVec.WeightAt(index)
		nodeActive := active && nodeWeight > 0

		abbreviated := params.MaxDepth > 0 && depth+1 >= params.MaxDepth && !node.IsBucket()

		var width int
		if node.IsBucket() || node.Next().IsEmpty() || abbreviated {
			width = 1
		} else {
			width = 0
			for i := 0; i < node.Next().Len(); i++ {
				childPath := path.Push(i)
				w, err := widthOf(childPath, node.Next(), i, depth+1, nodeActive, row.cumPos)
				if err != nil {
					return 0, err
				}
				width += w
			}
		}

		if row.widthReached {
			return width, nil
		}

		if params.MaxWidth > 0 && row.cumPos >= params.MaxWidth {
			row.cells = append(row.cells, Cell{
				Kind:           CellContinuation,
				DisplayWidth:   0,
				Position:       row.cumPos,
				ParentPosition: parentPos,
			})
			row.widthReached = true
			return width, nil
		}

		row.cells = append(row.cells, Cell{
			Kind:           CellNode,
			DisplayWidth:   width,
			Position:       row.cumPos,
			ParentPosition: parentPos,
			Path:           path,
			Active:         nodeActive,
			Abbreviated:    abbreviated,
		})
		row.cumPos += width

		return width, nil
	}

	for i := 0; i < baseItemVec.Len(); i++ {
		if _, err := widthOf(params.BasePath.Push(i), baseItemVec, i, 0, true, 0); err != nil {
			return nil, err
		}
	}

	view := &TableView{Rows: make([]Row, len(rows))}
	for i, r := range rows {
		view.Rows[i] = Row{Cells: r.cells}
	}

	if err := view.verify(); err != nil {
		return nil, err
	}

	return view, nil
}

// verify checks that in every row each cell's Position equals the
// cumulative DisplayWidth of the cells before it. It does not check
// ParentPosition against the cells of the row above.
func (v *TableView) verify() error {
	for depth, row := range v.Rows {
		cum := 0
		for _, cell := range row.Cells {
			if cell.Position != cum {
				return fmt.Errorf("engine: table view: row %d cell position %d != cumulative %d", depth, cell.Position, cum)
			}
			cum += cell.DisplayWidth
		}
	}
	return nil
}
