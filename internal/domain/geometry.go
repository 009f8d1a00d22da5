package domain

import "fmt"

// Topology describes how the physical LED strip snakes through the
// logical grid.
type Topology int

const (
	// RowMajor wires every row left to right.
	RowMajor Topology = iota
	// SerpentineRow wires even rows left to right and odd rows right to left.
	SerpentineRow
	// ColumnMajor wires every column top to bottom.
	ColumnMajor
	// SerpentineColumn wires even columns top to bottom and odd columns bottom to top.
	SerpentineColumn
)

// ParseTopology parses a topology name from configuration.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "row-major":
		return RowMajor, nil
	case "serpentine-row", "":
		// Serpentine rows are by far the most common matrix wiring, so
		// an unset topology defaults to it.
		return SerpentineRow, nil
	case "column-major":
		return ColumnMajor, nil
	case "serpentine-column":
		return SerpentineColumn, nil
	default:
		return 0, fmt.Errorf("%w: unknown topology %q", ErrConfig, s)
	}
}

// String returns the configuration name of the topology.
func (t Topology) String() string {
	switch t {
	case RowMajor:
		return "row-major"
	case SerpentineRow:
		return "serpentine-row"
	case ColumnMajor:
		return "column-major"
	case SerpentineColumn:
		return "serpentine-column"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

// Mapper maps logical (x, y) coordinates to physical LED indexes for a
// fixed grid size and wiring topology. Mapping is a pure function: the
// same input always yields the same index, and over the full grid it
// is a bijection onto [0, width*height).
type Mapper struct {
	width    int
	height   int
	topology Topology
}

// NewMapper creates a mapper for the given grid.
func NewMapper(width, height int, topology Topology) (Mapper, error) {
	if width <= 0 || height <= 0 {
		return Mapper{}, fmt.Errorf("%w: mapper dimensions must be positive, got %dx%d", ErrConfig, width, height)
	}
	return Mapper{width: width, height: height, topology: topology}, nil
}

// Width returns the grid width.
func (m Mapper) Width() int { return m.width }

// Height returns the grid height.
func (m Mapper) Height() int { return m.height }

// Map returns the physical LED index for a logical coordinate.
func (m Mapper) Map(x, y int) (int, error) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0, fmt.Errorf("%w: coordinate (%d, %d) outside %dx%d grid", ErrOutOfRange, x, y, m.width, m.height)
	}
	switch m.topology {
	case RowMajor:
		return y*m.width + x, nil
	case SerpentineRow:
		if y%2 == 0 {
			return y*m.width + x, nil
		}
		return y*m.width + (m.width - 1 - x), nil
	case ColumnMajor:
		return x*m.height + y, nil
	case SerpentineColumn:
		if x%2 == 0 {
			return x*m.height + y, nil
		}
		return x*m.height + (m.height - 1 - y), nil
	default:
		return 0, fmt.Errorf("%w: unknown topology %d", ErrConfig, int(m.topology))
	}
}

// IndexTable precomputes the physical index for every coordinate in
// row-major scan order. table[y*width+x] is the physical index of
// logical pixel (x, y).
func (m Mapper) IndexTable() []int {
	table := make([]int, m.width*m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			idx, _ := m.Map(x, y) // coordinates are in range by construction
			table[y*m.width+x] = idx
		}
	}
	return table
}
