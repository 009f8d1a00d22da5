package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopology(t *testing.T) {
	tests := []struct {
		input string
		want  Topology
	}{
		{"row-major", RowMajor},
		{"serpentine-row", SerpentineRow},
		{"", SerpentineRow},
		{"column-major", ColumnMajor},
		{"serpentine-column", SerpentineColumn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTopology(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTopologyUnknown(t *testing.T) {
	_, err := ParseTopology("zigzag")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTopologyString(t *testing.T) {
	assert.Equal(t, "row-major", RowMajor.String())
	assert.Equal(t, "serpentine-row", SerpentineRow.String())
	assert.Equal(t, "column-major", ColumnMajor.String())
	assert.Equal(t, "serpentine-column", SerpentineColumn.String())
}

func TestNewMapperInvalidDimensions(t *testing.T) {
	_, err := NewMapper(0, 4, RowMajor)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewMapper(4, -1, RowMajor)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestMapRowMajor(t *testing.T) {
	m, err := NewMapper(4, 2, RowMajor)
	require.NoError(t, err)

	tests := []struct {
		x, y, want int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{0, 1, 4},
		{3, 1, 7},
	}
	for _, tt := range tests {
		got, err := m.Map(tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "(%d, %d)", tt.x, tt.y)
	}
}

func TestMapSerpentineRow(t *testing.T) {
	m, err := NewMapper(4, 2, SerpentineRow)
	require.NoError(t, err)

	// Odd rows run right to left.
	tests := []struct {
		x, y, want int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{0, 1, 7},
		{3, 1, 4},
	}
	for _, tt := range tests {
		got, err := m.Map(tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "(%d, %d)", tt.x, tt.y)
	}
}

func TestMapColumnMajor(t *testing.T) {
	m, err := NewMapper(4, 2, ColumnMajor)
	require.NoError(t, err)

	got, err := m.Map(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = m.Map(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestMapSerpentineColumn(t *testing.T) {
	m, err := NewMapper(2, 3, SerpentineColumn)
	require.NoError(t, err)

	// Odd columns run bottom to top.
	tests := []struct {
		x, y, want int
	}{
		{0, 0, 0},
		{0, 2, 2},
		{1, 0, 5},
		{1, 2, 3},
	}
	for _, tt := range tests {
		got, err := m.Map(tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "(%d, %d)", tt.x, tt.y)
	}
}

func TestMapOutOfRange(t *testing.T) {
	m, err := NewMapper(4, 4, SerpentineRow)
	require.NoError(t, err)

	coords := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
	for _, c := range coords {
		_, err := m.Map(c[0], c[1])
		assert.ErrorIs(t, err, ErrOutOfRange, "(%d, %d)", c[0], c[1])
	}
}

func TestMapIsBijection(t *testing.T) {
	topologies := []Topology{RowMajor, SerpentineRow, ColumnMajor, SerpentineColumn}
	sizes := [][2]int{{1, 1}, {4, 2}, {3, 5}, {8, 8}, {16, 9}}

	for _, topo := range topologies {
		for _, size := range sizes {
			w, h := size[0], size[1]
			m, err := NewMapper(w, h, topo)
			require.NoError(t, err)

			seen := make(map[int]bool, w*h)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					idx, err := m.Map(x, y)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, idx, 0)
					assert.Less(t, idx, w*h)
					assert.False(t, seen[idx], "%s %dx%d: index %d mapped twice", topo, w, h, idx)
					seen[idx] = true
				}
			}
			assert.Len(t, seen, w*h, "%s %dx%d: mapping must cover every index", topo, w, h)
		}
	}
}

func TestMapIsDeterministic(t *testing.T) {
	m, err := NewMapper(8, 8, SerpentineRow)
	require.NoError(t, err)

	first, err := m.Map(5, 3)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := m.Map(5, 3)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestIndexTableMatchesMap(t *testing.T) {
	m, err := NewMapper(6, 4, SerpentineRow)
	require.NoError(t, err)

	table := m.IndexTable()
	require.Len(t, table, 24)

	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			want, err := m.Map(x, y)
			require.NoError(t, err)
			assert.Equal(t, want, table[y*6+x])
		}
	}
}
