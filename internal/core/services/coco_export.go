package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/geometry"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
	"github.com/custodia-labs/afcoco/internal/core/ports/driving"
	"github.com/custodia-labs/afcoco/internal/core/rle"
)

// progressInterval is how many items a batch loop handles between progress messages.
const progressInterval = 1000

// Ensure AnnofabToCocoConverter implements the interface.
var _ driving.AnnofabToCocoConverter = (*AnnofabToCocoConverter)(nil)

// ExportOptions configures an AnnofabToCocoConverter.
type ExportOptions struct {
	// TargetLabels restricts conversion to these labels. Empty converts every label.
	TargetLabels []string

	// ClipToImage clamps bounding boxes and polygons into the image.
	// Annofab lets annotators draw them past the image edge.
	ClipToImage bool

	// IncludeSegmentation converts raster annotations into iscrowd=1 RLE annotations.
	// Otherwise they are skipped like any other unsupported type.
	IncludeSegmentation bool

	// CompressedRLE emits RLE counts in the compressed string form.
	CompressedRLE bool

	// MaskCodec reads raster annotation images. Required with IncludeSegmentation.
	MaskCodec driven.MaskImageCodec
}

// OuterFileOpener opens files stored next to an annotation JSON file.
type OuterFileOpener interface {
	OpenOuterFile(dataURI string) (io.ReadCloser, error)
}

// AnnofabToCocoConverter converts Annofab simple annotations into COCO annotations.
// A converter is built for one run and is not safe for concurrent use.
type AnnofabToCocoConverter struct {
	categoryIDsByName map[string]int64
	imagesByFileName  map[string]domain.Image
	targetLabels      map[string]struct{}
	opts              ExportOptions
	log               driven.Logger
}

// NewAnnofabToCocoConverter indexes the COCO categories and images the annotations are
// joined with. Duplicate category names or image file names are rejected.
func NewAnnofabToCocoConverter(
	categories []domain.Category,
	images []domain.Image,
	opts ExportOptions,
	log driven.Logger,
) (*AnnofabToCocoConverter, error) {
	categoryIDs, err := CategoryIDsByName(categories)
	if err != nil {
		return nil, err
	}
	imagesByFileName, err := ImagesByFileName(images)
	if err != nil {
		return nil, err
	}
	if opts.IncludeSegmentation && opts.MaskCodec == nil {
		return nil, fmt.Errorf("%w: converting segmentation requires a mask codec", domain.ErrInvalidInput)
	}

	return &AnnofabToCocoConverter{
		categoryIDsByName: categoryIDs,
		imagesByFileName:  imagesByFileName,
		targetLabels:      toSet(opts.TargetLabels),
		opts:              opts,
		log:               log,
	}, nil
}

// ConvertBundle converts every unit of the bundle that passes the filter.
// Annotation IDs are assigned sequentially from 1 across the whole bundle.
//
//nolint:gocognit // Filtering, lookup and failure accounting per unit
func (c *AnnofabToCocoConverter) ConvertBundle(
	ctx context.Context,
	bundle driven.AnnotationBundle,
	filter driving.UnitFilter,
) (*driving.ExportResult, error) {
	taskIDs := toSet(filter.TaskIDs)
	inputDataIDs := toSet(filter.InputDataIDs)

	result := &driving.ExportResult{Annotations: []domain.Annotation{}}
	nextID := int64(1)
	read := 0

	for unit, err := range bundle.Units() {
		if err != nil {
			return nil, fmt.Errorf("read annotation bundle: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		read++
		if read%progressInterval == 0 {
			c.log.Info("Read %d annotation files...", read)
		}

		if !inSet(taskIDs, unit.TaskID()) || !inSet(inputDataIDs, unit.InputDataID()) {
			continue
		}

		annotation, err := unit.Load()
		if err != nil {
			result.TotalCount++
			c.log.Warn("Failed to load annotation file '%s': %v", unit.Path(), err)
			continue
		}
		if filter.TaskPhase != "" && annotation.TaskPhase != filter.TaskPhase {
			continue
		}
		if filter.TaskStatus != "" && annotation.TaskStatus != filter.TaskStatus {
			continue
		}
		result.TotalCount++

		image, ok := c.imagesByFileName[annotation.InputDataName]
		if !ok {
			c.log.Warn("No COCO image has file_name='%s'; skipping annotation file '%s'",
				annotation.InputDataName, unit.Path())
			continue
		}

		annotations, next, err := c.ConvertUnit(annotation, image, nextID, unit)
		if err != nil {
			c.log.Warn("Failed to convert annotation file '%s': %v", unit.Path(), err)
			continue
		}

		nextID = next
		result.Annotations = append(result.Annotations, annotations...)
		result.SuccessCount++
		c.log.Debug("Converted annotation file '%s' into %d COCO annotations", unit.Path(), len(annotations))
	}

	c.log.Info("Converted %d/%d annotation files into %d COCO annotations",
		result.SuccessCount, result.TotalCount, len(result.Annotations))
	return result, nil
}

// ConvertUnit converts the details of one annotation file, assigning IDs from startID.
// It returns the annotations and the next free ID. files may be nil when the bundle
// has no raster annotations to read.
func (c *AnnofabToCocoConverter) ConvertUnit(
	annotation *domain.SimpleAnnotation,
	image domain.Image,
	startID int64,
	files OuterFileOpener,
) ([]domain.Annotation, int64, error) {
	annotations := make([]domain.Annotation, 0, len(annotation.Details))
	nextID := startID
	for i := range annotation.Details {
		converted, err := c.ConvertDetail(annotation, &annotation.Details[i], image, nextID, files)
		if err != nil {
			return nil, startID, fmt.Errorf("annotation_id=%q: %w", annotation.Details[i].AnnotationID, err)
		}
		if converted == nil {
			continue
		}
		annotations = append(annotations, *converted)
		nextID++
	}
	return annotations, nextID, nil
}

// ConvertDetail converts one detail into a COCO annotation with the given ID.
// It returns nil when the detail is filtered out or its data type is not converted.
func (c *AnnofabToCocoConverter) ConvertDetail(
	annotation *domain.SimpleAnnotation,
	detail *domain.Detail,
	image domain.Image,
	id int64,
	files OuterFileOpener,
) (*domain.Annotation, error) {
	if !inSet(c.targetLabels, detail.Label) {
		return nil, nil
	}

	switch data := detail.Data.(type) {
	case *domain.BoundingBox:
		return c.convertBoundingBox(annotation, detail, data, image, id)
	case *domain.Points:
		return c.convertPoints(annotation, detail, data, image, id)
	case *domain.SegmentationData:
		if !c.opts.IncludeSegmentation {
			c.log.Debug("Skipping segmentation annotation_id='%s'", detail.AnnotationID)
			return nil, nil
		}
		return c.convertSegmentation(detail, data, image, id, files)
	default:
		if data != nil {
			c.log.Debug("Skipping annotation_id='%s' of unsupported type '%s'", detail.AnnotationID, data.DataType())
		}
		return nil, nil
	}
}

func (c *AnnofabToCocoConverter) categoryID(label string) (int64, error) {
	id, ok := c.categoryIDsByName[label]
	if !ok {
		return 0, fmt.Errorf("%w: no COCO category named %q", domain.ErrNotFound, label)
	}
	return id, nil
}

func (c *AnnofabToCocoConverter) convertBoundingBox(
	annotation *domain.SimpleAnnotation,
	detail *domain.Detail,
	data *domain.BoundingBox,
	image domain.Image,
	id int64,
) (*domain.Annotation, error) {
	categoryID, err := c.categoryID(detail.Label)
	if err != nil {
		return nil, err
	}

	leftTop, rightBottom := data.LeftTop, data.RightBottom
	if c.opts.ClipToImage {
		newLeftTop, newRightBottom := geometry.ClipBoundingBox(leftTop, rightBottom, image.Width, image.Height)
		if newLeftTop != leftTop || newRightBottom != rightBottom {
			c.log.Debug("Clipped bounding box to the image :: task_id='%s', input_data_id='%s', annotation_id='%s', "+
				"label='%s', coco_image_id=%d, coco_annotation_id=%d :: left_top %v -> %v, right_bottom %v -> %v",
				annotation.TaskID, annotation.InputDataID, detail.AnnotationID, detail.Label, image.ID, id,
				leftTop, newLeftTop, rightBottom, newRightBottom)
		}
		leftTop, rightBottom = newLeftTop, newRightBottom
	}

	width := rightBottom.X - leftTop.X
	height := rightBottom.Y - leftTop.Y
	x0, y0 := float64(leftTop.X), float64(leftTop.Y)
	x1, y1 := float64(rightBottom.X), float64(rightBottom.Y)

	return &domain.Annotation{
		ID:         id,
		ImageID:    image.ID,
		CategoryID: categoryID,
		BBox:       []float64{x0, y0, float64(width), float64(height)},
		// Clockwise from left_top.
		Segmentation: domain.Segmentation{Polygons: [][]float64{{x0, y0, x1, y0, x1, y1, x0, y1}}},
		Area:         float64(width * height),
		IsCrowd:      0,
	}, nil
}

func (c *AnnofabToCocoConverter) convertPoints(
	annotation *domain.SimpleAnnotation,
	detail *domain.Detail,
	data *domain.Points,
	image domain.Image,
	id int64,
) (*domain.Annotation, error) {
	categoryID, err := c.categoryID(detail.Label)
	if err != nil {
		return nil, err
	}

	points := data.Points
	if c.opts.ClipToImage {
		clipped := geometry.ClipPolygon(points, image.Width, image.Height)
		if !slices.Equal(clipped, points) {
			c.log.Debug("Clipped polygon to the image :: task_id='%s', input_data_id='%s', annotation_id='%s', "+
				"label='%s', coco_image_id=%d, coco_annotation_id=%d :: points %v -> %v",
				annotation.TaskID, annotation.InputDataID, detail.AnnotationID, detail.Label, image.ID, id,
				points, clipped)
		}
		points = clipped
	}

	x, y, width, height := geometry.BoundingRect(points)
	return &domain.Annotation{
		ID:           id,
		ImageID:      image.ID,
		CategoryID:   categoryID,
		BBox:         []float64{float64(x), float64(y), float64(width), float64(height)},
		Segmentation: domain.Segmentation{Polygons: [][]float64{geometry.Flatten(points)}},
		Area:         geometry.PolygonArea(points),
		IsCrowd:      0,
	}, nil
}

func (c *AnnofabToCocoConverter) convertSegmentation(
	detail *domain.Detail,
	data *domain.SegmentationData,
	image domain.Image,
	id int64,
	files OuterFileOpener,
) (*domain.Annotation, error) {
	categoryID, err := c.categoryID(detail.Label)
	if err != nil {
		return nil, err
	}
	if files == nil {
		return nil, errors.New("segmentation images are not available for this annotation file")
	}

	mask, err := c.readMask(files, data.DataURI)
	if err != nil {
		return nil, err
	}
	if mask.Height != image.Height || mask.Width != image.Width {
		return nil, fmt.Errorf("%w: segmentation image is %dx%d but COCO image %d is %dx%d",
			domain.ErrInvalidInput, mask.Width, mask.Height, image.ID, image.Width, image.Height)
	}

	x, y, width, height, ok := mask.Bounds()
	if !ok {
		c.log.Debug("Skipping empty segmentation annotation_id='%s'", detail.AnnotationID)
		return nil, nil
	}

	encoded := rle.Encode(mask)
	if c.opts.CompressedRLE {
		encoded = rle.EncodeCompressed(mask)
	}

	return &domain.Annotation{
		ID:           id,
		ImageID:      image.ID,
		CategoryID:   categoryID,
		BBox:         []float64{float64(x), float64(y), float64(width), float64(height)},
		Segmentation: domain.Segmentation{RLE: encoded},
		Area:         float64(mask.Area()),
		IsCrowd:      1,
	}, nil
}

func (c *AnnofabToCocoConverter) readMask(files OuterFileOpener, dataURI string) (*domain.Mask, error) {
	rc, err := files.OpenOuterFile(dataURI)
	if err != nil {
		return nil, fmt.Errorf("open segmentation image %q: %w", dataURI, err)
	}
	defer rc.Close()

	mask, err := c.opts.MaskCodec.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode segmentation image %q: %w", dataURI, err)
	}
	return mask, nil
}
