// Package rle implements the COCO run-length encoding of binary masks.
//
// Runs are counted in column-major order and alternate between false and true,
// always starting with a (possibly empty) false run. The compressed string form
// matches pycocotools' rleToString/rleFrString.
package rle

import (
	"fmt"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// Encode returns the uncompressed RLE of a mask.
func Encode(m *domain.Mask) *domain.RLE {
	return &domain.RLE{
		Size:   [2]int{m.Height, m.Width},
		Counts: runs(m),
	}
}

// EncodeCompressed returns the RLE of a mask with counts in the compressed string form.
func EncodeCompressed(m *domain.Mask) *domain.RLE {
	return &domain.RLE{
		Size:             [2]int{m.Height, m.Width},
		CompressedCounts: CountsToString(runs(m)),
	}
}

// Decode expands an RLE into a mask of size r.Size.
func Decode(r *domain.RLE) (*domain.Mask, error) {
	height, width := r.Height(), r.Width()
	if height < 0 || width < 0 {
		return nil, fmt.Errorf("%w: negative size %v", domain.ErrInvalidRLE, r.Size)
	}

	counts := r.Counts
	if r.IsCompressed() {
		var err error
		counts, err = CountsFromString(r.CompressedCounts)
		if err != nil {
			return nil, err
		}
	}

	total := 0
	for _, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("%w: negative count %d", domain.ErrInvalidRLE, c)
		}
		total += c
	}
	if total != height*width {
		return nil, fmt.Errorf("%w: counts sum to %d, size %dx%d needs %d",
			domain.ErrInvalidRLE, total, height, width, height*width)
	}

	m := domain.NewMask(height, width)
	idx := 0
	value := false
	for _, c := range counts {
		if value {
			for i := idx; i < idx+c; i++ {
				m.Set(i%height, i/height, true)
			}
		}
		idx += c
		value = !value
	}
	return m, nil
}

// Area returns the number of true pixels described by uncompressed counts.
func Area(counts []int) int {
	area := 0
	for i := 1; i < len(counts); i += 2 {
		area += counts[i]
	}
	return area
}

func runs(m *domain.Mask) []int {
	counts := make([]int, 0, 8)
	prev := false
	n := 0
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			v := m.At(y, x)
			if v != prev {
				counts = append(counts, n)
				n = 0
				prev = v
			}
			n++
		}
	}
	return append(counts, n)
}
