package driven

import (
	"io"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// MaskImageCodec reads and writes masks in the image format Annofab uses for
// raster annotations.
type MaskImageCodec interface {
	// Encode writes the mask as an image.
	Encode(w io.Writer, mask *domain.Mask) error

	// Decode reads an image; non-transparent pixels become true.
	Decode(r io.Reader) (*domain.Mask, error)
}
