package diagram

import "fmt"

// InteractionState gates which mutation a node currently accepts.
type InteractionState int

const (
	Idle InteractionState = iota
	Dragging
	Resizing
)

func (s InteractionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("InteractionState(%d)", int(s))
	}
}

// TableNode is one schema table drawn as a box with one row per column.
// ID is the table name, unique within a company.
type TableNode struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Columns  []string         `json:"columns"`
	Position Point            `json:"position"`
	Size     Size             `json:"size"`
	State    InteractionState `json:"state"`

	// LoadErr is set when the column fetch for this table failed; Columns is
	// then empty, never nil.
	LoadErr error `json:"-"`
}

func newTableNode(name string, columns []string, loadErr error, cfg Config) *TableNode {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &TableNode{
		ID:      name,
		Label:   name,
		Columns: cols,
		Size:    Size{Width: cfg.MinWidth, Height: cfg.NodeHeight(len(cols))},
		LoadErr: loadErr,
	}
}

// Degraded reports whether the node is shown without its columns.
func (n TableNode) Degraded() bool { return n.LoadErr != nil }

func (n TableNode) Rect() Rect { return rectOf(n.Position, n.Size) }

func (n TableNode) HasColumn(name string) bool {
	return n.columnIndex(name) >= 0
}

func (n TableNode) columnIndex(name string) int {
	for i, c := range n.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// rowCenterY is the canvas y of the middle of column row i.
func (n TableNode) rowCenterY(i int, cfg Config) float64 {
	return n.Position.Y + cfg.BaseHeight + float64(i)*cfg.RowHeight + cfg.RowHeight/2
}

// SourcePoint is where an outgoing edge leaves column row i (right edge).
func (n TableNode) SourcePoint(i int, cfg Config) Point {
	return Point{X: n.Position.X + n.Size.Width, Y: n.rowCenterY(i, cfg)}
}

// TargetPoint is where an incoming edge enters column row i (left edge).
func (n TableNode) TargetPoint(i int, cfg Config) Point {
	return Point{X: n.Position.X, Y: n.rowCenterY(i, cfg)}
}

// recomputeHeight is idempotent; only the column count feeds it.
func (n *TableNode) recomputeHeight(cfg Config) {
	n.Size.Height = cfg.NodeHeight(len(n.Columns))
}

func (n TableNode) clone() TableNode {
	c := n
	c.Columns = make([]string, len(n.Columns))
	copy(c.Columns, n.Columns)
	return c
}
