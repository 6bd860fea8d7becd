package rle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

func mustMask(t *testing.T, rows [][]bool) *domain.Mask {
	t.Helper()
	m, err := domain.MaskFromRows(rows)
	require.NoError(t, err)
	return m
}

func TestEncode_ColumnMajor(t *testing.T) {
	m := mustMask(t, [][]bool{
		{false, true, false},
		{true, true, false},
	})

	r := Encode(m)

	assert.Equal(t, [2]int{2, 3}, r.Size)
	assert.Equal(t, []int{1, 3, 2}, r.Counts)
	assert.False(t, r.IsCompressed())
}

func TestEncode_StartsWithFalseRun(t *testing.T) {
	m := mustMask(t, [][]bool{
		{true, false},
		{true, false},
	})

	assert.Equal(t, []int{0, 2, 2}, Encode(m).Counts)
}

func TestEncode_AllFalseAndAllTrue(t *testing.T) {
	allFalse := domain.NewMask(2, 3)
	assert.Equal(t, []int{6}, Encode(allFalse).Counts)

	allTrue := domain.NewMask(2, 3)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			allTrue.Set(y, x, true)
		}
	}
	assert.Equal(t, []int{0, 6}, Encode(allTrue).Counts)
}

func TestDecode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := [][2]int{{1, 1}, {2, 3}, {5, 4}, {17, 9}, {32, 32}}

	for _, size := range sizes {
		for _, density := range []float64{0, 0.1, 0.5, 0.9, 1} {
			m := domain.NewMask(size[0], size[1])
			for y := 0; y < size[0]; y++ {
				for x := 0; x < size[1]; x++ {
					m.Set(y, x, rng.Float64() < density)
				}
			}

			decoded, err := Decode(Encode(m))
			require.NoError(t, err)
			assert.True(t, m.Equal(decoded), "uncompressed round trip %v density %v", size, density)

			decoded, err = Decode(EncodeCompressed(m))
			require.NoError(t, err)
			assert.True(t, m.Equal(decoded), "compressed round trip %v density %v", size, density)
		}
	}
}

func TestDecode_ListCounts(t *testing.T) {
	m, err := Decode(&domain.RLE{Size: [2]int{2, 3}, Counts: []int{1, 3, 2}})

	require.NoError(t, err)
	assert.Equal(t, [][]bool{
		{false, true, false},
		{true, true, false},
	}, m.Rows())
}

func TestDecode_CountsMismatch(t *testing.T) {
	_, err := Decode(&domain.RLE{Size: [2]int{2, 3}, Counts: []int{1, 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidRLE)

	_, err = Decode(&domain.RLE{Size: [2]int{2, 3}, Counts: []int{4, -1, 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidRLE)
}

func TestArea(t *testing.T) {
	assert.Equal(t, 3, Area([]int{1, 3, 2}))
	assert.Equal(t, 0, Area([]int{6}))
	assert.Equal(t, 5, Area([]int{0, 2, 1, 3}))
}

func TestCountsToString(t *testing.T) {
	assert.Equal(t, "2120", CountsToString([]int{2, 1, 2, 1}))
	assert.Equal(t, "T3", CountsToString([]int{100}))
	// 3-10 is a negative delta.
	assert.Equal(t, "1:2I2", CountsToString([]int{1, 10, 2, 3, 4}))
}

func TestCountsFromString(t *testing.T) {
	tests := [][]int{
		{2, 1, 2, 1},
		{100},
		{1, 10, 2, 3, 4},
		{0, 6},
		{12345, 1, 99999, 3, 7, 1 << 20},
	}
	for _, counts := range tests {
		got, err := CountsFromString(CountsToString(counts))
		require.NoError(t, err)
		assert.Equal(t, counts, got)
	}
}

func TestCountsFromString_Invalid(t *testing.T) {
	_, err := CountsFromString("P")
	assert.ErrorIs(t, err, domain.ErrInvalidRLE)

	_, err = CountsFromString("1 2")
	assert.ErrorIs(t, err, domain.ErrInvalidRLE)
}
