package domain

import "fmt"

// Mask is a two-dimensional boolean raster, stored row-major.
type Mask struct {
	Height int
	Width  int
	data   []bool
}

// NewMask creates an all-false mask.
func NewMask(height, width int) *Mask {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Mask{Height: height, Width: width, data: make([]bool, height*width)}
}

// MaskFromRows builds a mask from rows of equal length.
func MaskFromRows(rows [][]bool) (*Mask, error) {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}

	m := NewMask(height, width)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, y, len(row), width)
		}
		copy(m.data[y*width:(y+1)*width], row)
	}
	return m, nil
}

// At returns the value at row y, column x.
func (m *Mask) At(y, x int) bool {
	return m.data[y*m.Width+x]
}

// Set assigns the value at row y, column x.
func (m *Mask) Set(y, x int, v bool) {
	m.data[y*m.Width+x] = v
}

// Rows returns a copy of the mask as rows.
func (m *Mask) Rows() [][]bool {
	rows := make([][]bool, m.Height)
	for y := range rows {
		rows[y] = append([]bool(nil), m.data[y*m.Width:(y+1)*m.Width]...)
	}
	return rows
}

// Area returns the number of true pixels.
func (m *Mask) Area() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// Bounds returns the smallest rectangle holding every true pixel.
// ok is false for an empty mask.
func (m *Mask) Bounds() (x, y, width, height int, ok bool) {
	minX, minY := m.Width, m.Height
	maxX, maxY := -1, -1
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			if !m.At(row, col) {
				continue
			}
			minX = min(minX, col)
			maxX = max(maxX, col)
			minY = min(minY, row)
			maxY = max(maxY, row)
		}
	}
	if maxX < 0 {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX - minX + 1, maxY - minY + 1, true
}

// Equal reports whether both masks have the same size and pixels.
func (m *Mask) Equal(other *Mask) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Height != other.Height || m.Width != other.Width {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
