// Package domain defines the core entities for afcoco.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SimpleAnnotation, Detail, DetailData: the Annofab simple annotation format
//   - Instances, Image, Category, Annotation: the COCO Instances format
//   - Segmentation, RLE, Mask: polygon and raster geometry
//   - InputData, Task: records downloaded from the Annofab platform
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
