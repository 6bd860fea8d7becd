package rle

import (
	"fmt"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// maxGroups bounds the 5-bit groups of one count; 13 groups already exceed 64 bits.
const maxGroups = 13

// CountsToString packs counts into the COCO compressed string form.
// Each count after the second is stored as a delta against the count two places before,
// split into 5-bit groups with a continuation bit, offset by '0'.
func CountsToString(counts []int) string {
	b := make([]byte, 0, len(counts)*2)
	for i, c := range counts {
		x := int64(c)
		if i > 2 {
			x -= int64(counts[i-2])
		}
		for more := true; more; {
			ch := x & 0x1f
			x >>= 5
			if ch&0x10 != 0 {
				more = x != -1
			} else {
				more = x != 0
			}
			if more {
				ch |= 0x20
			}
			b = append(b, byte(ch+48))
		}
	}
	return string(b)
}

// CountsFromString unpacks the COCO compressed string form.
func CountsFromString(s string) ([]int, error) {
	counts := make([]int, 0, len(s))
	p := 0
	for p < len(s) {
		var x int64
		k := 0
		for more := true; more; {
			if p >= len(s) {
				return nil, fmt.Errorf("%w: truncated compressed counts", domain.ErrInvalidRLE)
			}
			if k >= maxGroups {
				return nil, fmt.Errorf("%w: count too large at offset %d", domain.ErrInvalidRLE, p)
			}
			c := int64(s[p]) - 48
			if c < 0 || c > 63 {
				return nil, fmt.Errorf("%w: invalid character %q at offset %d", domain.ErrInvalidRLE, s[p], p)
			}
			x |= (c & 0x1f) << (5 * k)
			more = c&0x20 != 0
			p++
			k++
			if !more && c&0x10 != 0 {
				x |= -1 << (5 * k)
			}
		}
		if len(counts) > 2 {
			x += int64(counts[len(counts)-2])
		}
		counts = append(counts, int(x))
	}
	return counts, nil
}
