// Package maskimage encodes binary masks as the PNG images Annofab stores for
// segmentation annotations.
package maskimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Ensure PNGCodec implements the interface.
var _ driven.MaskImageCodec = PNGCodec{}

// PNGCodec writes the foreground as opaque white on a transparent background.
// Any pixel with non-zero alpha reads back as foreground.
type PNGCodec struct{}

// NewPNGCodec creates a PNG mask codec.
func NewPNGCodec() PNGCodec {
	return PNGCodec{}
}

// Encode writes mask as an RGBA PNG.
func (PNGCodec) Encode(w io.Writer, mask *domain.Mask) error {
	img := image.NewNRGBA(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(y, x) {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Decode reads a PNG into a mask.
func (PNGCodec) Decode(r io.Reader) (*domain.Mask, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode png: %v", domain.ErrUnsupportedFormat, err)
	}

	bounds := img.Bounds()
	mask := domain.NewMask(bounds.Dy(), bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				mask.Set(y-bounds.Min.Y, x-bounds.Min.X, true)
			}
		}
	}
	return mask, nil
}
