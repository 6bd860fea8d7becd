package domain

import "fmt"

// AnnotationKind selects which part of a COCO annotation is converted to Annofab.
type AnnotationKind string

const (
	// AnnotationKindBBox converts the bbox of every annotation into a bounding box.
	AnnotationKindBBox AnnotationKind = "bbox"
	// AnnotationKindPolygonSegmentation converts iscrowd=0 polygon segmentations into polygons.
	AnnotationKindPolygonSegmentation AnnotationKind = "polygon_segmentation"
	// AnnotationKindRLESegmentation converts iscrowd=1 RLE segmentations into raster masks.
	AnnotationKindRLESegmentation AnnotationKind = "rle_segmentation"
)

// AnnotationKinds lists every supported kind.
func AnnotationKinds() []AnnotationKind {
	return []AnnotationKind{
		AnnotationKindBBox,
		AnnotationKindPolygonSegmentation,
		AnnotationKindRLESegmentation,
	}
}

// ParseAnnotationKind parses a kind name.
func ParseAnnotationKind(s string) (AnnotationKind, error) {
	for _, k := range AnnotationKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown annotation kind %q", ErrInvalidInput, s)
}

// String returns the kind name.
func (k AnnotationKind) String() string {
	return string(k)
}
