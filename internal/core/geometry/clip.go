// Package geometry clips Annofab coordinates to image bounds and measures polygons.
package geometry

import (
	"math"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// ClipBoundingBox clamps both corners of a box into [0,width]x[0,height].
// Afterwards right_bottom is pulled up to left_top on any axis where it is smaller,
// so the result is a zero-area box rather than a negative one.
func ClipBoundingBox(leftTop, rightBottom domain.Point, width, height int) (domain.Point, domain.Point) {
	newLeftTop := clampPoint(leftTop, width, height)
	newRightBottom := clampPoint(rightBottom, width, height)
	newRightBottom.X = max(newRightBottom.X, newLeftTop.X)
	newRightBottom.Y = max(newRightBottom.Y, newLeftTop.Y)
	return newLeftTop, newRightBottom
}

// ClipPolygon clamps every point into [0,width]x[0,height].
// Point order and count are kept; points may coincide afterwards.
func ClipPolygon(points []domain.Point, width, height int) []domain.Point {
	clipped := make([]domain.Point, len(points))
	for i, p := range points {
		clipped[i] = clampPoint(p, width, height)
	}
	return clipped
}

// PolygonArea returns the area enclosed by the points using the shoelace formula.
func PolygonArea(points []domain.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum int64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	return math.Abs(float64(sum)) / 2
}

// BoundingRect returns the axis-aligned rectangle around the points as x, y, width, height.
func BoundingRect(points []domain.Point) (x, y, width, height int) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// Flatten converts points into the COCO [x0, y0, x1, y1, ...] form.
func Flatten(points []domain.Point) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, float64(p.X), float64(p.Y))
	}
	return flat
}

// PointsFromFlat converts a COCO flat polygon into points, rounding each coordinate to
// the nearest integer. A trailing unpaired value is ignored.
func PointsFromFlat(flat []float64) []domain.Point {
	points := make([]domain.Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		points = append(points, domain.Point{X: Round(flat[i]), Y: Round(flat[i+1])})
	}
	return points
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

func clampPoint(p domain.Point, width, height int) domain.Point {
	return domain.Point{
		X: clamp(p.X, 0, width),
		Y: clamp(p.Y, 0, height),
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
