package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskFromRows(t *testing.T) {
	m, err := MaskFromRows([][]bool{{false, true, false}, {true, true, false}})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Height)
	assert.Equal(t, 3, m.Width)
	assert.True(t, m.At(0, 1))
	assert.False(t, m.At(1, 2))
	assert.Equal(t, [][]bool{{false, true, false}, {true, true, false}}, m.Rows())
	assert.Equal(t, 3, m.Area())
}

func TestMaskFromRows_Ragged(t *testing.T) {
	_, err := MaskFromRows([][]bool{{true, false}, {true}})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMask_SetAndRowsCopy(t *testing.T) {
	m := NewMask(2, 2)
	m.Set(1, 0, true)

	rows := m.Rows()
	rows[1][0] = false

	assert.True(t, m.At(1, 0))
	assert.Equal(t, 1, m.Area())
}

func TestMask_Bounds(t *testing.T) {
	m := NewMask(5, 6)
	_, _, _, _, ok := m.Bounds()
	assert.False(t, ok)

	m.Set(1, 2, true)
	m.Set(3, 4, true)
	x, y, w, h, ok := m.Bounds()

	assert.True(t, ok)
	assert.Equal(t, []int{2, 1, 3, 3}, []int{x, y, w, h})
}

func TestMask_Equal(t *testing.T) {
	a := NewMask(2, 3)
	b := NewMask(2, 3)
	assert.True(t, a.Equal(b))

	b.Set(0, 0, true)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(NewMask(3, 2)))
}

func TestNewMask_NegativeSize(t *testing.T) {
	m := NewMask(-1, 3)

	assert.Equal(t, 0, m.Height)
	assert.Equal(t, 0, m.Area())
}
