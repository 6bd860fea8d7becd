package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/geometry"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
	"github.com/custodia-labs/afcoco/internal/core/ports/driving"
	"github.com/custodia-labs/afcoco/internal/core/rle"
)

// Attribute keys that trace an Annofab detail back to its COCO annotation.
const (
	AttributeCocoAnnotationID = "coco.annotation_id"
	AttributeCocoImageID      = "coco.image_id"
)

// Ensure CocoToAnnofabConverter implements the interface.
var _ driving.CocoToAnnofabConverter = (*CocoToAnnofabConverter)(nil)

// ImportOptions configures a CocoToAnnofabConverter.
type ImportOptions struct {
	// TargetCategoryNames restricts conversion to these categories. Empty converts all.
	TargetCategoryNames []string

	// TargetImageFileNames restricts conversion to these images. Empty converts all.
	TargetImageFileNames []string

	// NewID generates annotation IDs. Defaults to random UUIDs.
	NewID driven.IDGenerator

	// MaskCodec writes raster annotation images. Required for RLE segmentation.
	MaskCodec driven.MaskImageCodec
}

// ConvertedDetail is an Annofab detail with the mask of a raster annotation.
type ConvertedDetail struct {
	Detail domain.Detail

	// Mask is set for raster annotations only.
	Mask *domain.Mask
}

// CocoToAnnofabConverter converts a COCO document into Annofab details.
// A converter is built for one run and is not safe for concurrent use.
type CocoToAnnofabConverter struct {
	kind                 domain.AnnotationKind
	images               []domain.Image
	annotationsByImageID map[int64][]domain.Annotation
	categoryNamesByID    map[int64]string
	targetCategoryNames  map[string]struct{}
	newID                driven.IDGenerator
	maskCodec            driven.MaskImageCodec
	log                  driven.Logger
}

// NewCocoToAnnofabConverter indexes the document for conversion of the given kind.
func NewCocoToAnnofabConverter(
	instances *domain.Instances,
	kind domain.AnnotationKind,
	opts ImportOptions,
	log driven.Logger,
) (*CocoToAnnofabConverter, error) {
	if _, err := domain.ParseAnnotationKind(string(kind)); err != nil {
		return nil, err
	}
	if kind == domain.AnnotationKindRLESegmentation && opts.MaskCodec == nil {
		return nil, fmt.Errorf("%w: converting RLE segmentation requires a mask codec", domain.ErrInvalidInput)
	}

	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &CocoToAnnofabConverter{
		kind:                 kind,
		images:               FilterImagesByFileName(instances.Images, opts.TargetImageFileNames),
		annotationsByImageID: AnnotationsByImageID(instances.Annotations),
		categoryNamesByID:    CategoryNamesByID(instances.Categories),
		targetCategoryNames:  toSet(opts.TargetCategoryNames),
		newID:                newID,
		maskCodec:            opts.MaskCodec,
		log:                  log,
	}, nil
}

// Images returns the images the converter will process.
func (c *CocoToAnnofabConverter) Images() []domain.Image {
	return c.images
}

// Convert writes the Annofab annotations of every image whose input data and task resolve.
func (c *CocoToAnnofabConverter) Convert(
	ctx context.Context,
	writer driven.AnnotationWriter,
	taskIDsByInputDataID map[string]string,
	inputDataIDsByName map[string]string,
) (*driving.ImportResult, error) {
	result := &driving.ImportResult{TotalCount: len(c.images)}
	c.log.Info("Converting the annotations of %d COCO images to Annofab format", len(c.images))

	for i, image := range c.images {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if (i+1)%progressInterval == 0 {
			c.log.Info("Converting the annotations of COCO image %d...", i+1)
		}

		inputDataID, ok := inputDataIDsByName[image.FileName]
		if !ok {
			c.log.Warn("No input_data_id for input_data_name='%s'; skipping", image.FileName)
			continue
		}
		taskID, ok := taskIDsByInputDataID[inputDataID]
		if !ok {
			c.log.Warn("No task_id for input_data_id='%s'; skipping", inputDataID)
			continue
		}

		n, err := c.convertImage(writer, image, taskID, inputDataID)
		if err != nil {
			c.log.Warn("Failed to convert the annotations of COCO image file_name='%s': %v", image.FileName, err)
			continue
		}
		result.SuccessCount++
		result.DetailCount += n
	}

	c.log.Info("Converted the annotations of %d/%d COCO images to Annofab format", result.SuccessCount, result.TotalCount)
	return result, nil
}

func (c *CocoToAnnofabConverter) convertImage(
	writer driven.AnnotationWriter,
	image domain.Image,
	taskID, inputDataID string,
) (int, error) {
	converted, _, err := c.ConvertAnnotationsForImage(image)
	if err != nil {
		return 0, err
	}
	if len(converted) == 0 {
		c.log.Debug("COCO image file_name='%s' has no annotations to convert", image.FileName)
	}

	details := make([]domain.Detail, len(converted))
	for i, cd := range converted {
		if cd.Mask != nil {
			if err := c.writeMask(writer, taskID, inputDataID, cd.Detail.AnnotationID, cd.Mask); err != nil {
				return 0, err
			}
		}
		details[i] = cd.Detail
	}

	if err := writer.WriteDetails(taskID, inputDataID, details); err != nil {
		return 0, fmt.Errorf("write details: %w", err)
	}
	c.log.Debug("Wrote %d Annofab details for COCO image file_name='%s' (task_id='%s', input_data_id='%s')",
		len(details), image.FileName, taskID, inputDataID)
	return len(details), nil
}

func (c *CocoToAnnofabConverter) writeMask(
	writer driven.AnnotationWriter,
	taskID, inputDataID, annotationID string,
	mask *domain.Mask,
) (err error) {
	w, err := writer.CreateMaskFile(taskID, inputDataID, annotationID)
	if err != nil {
		return fmt.Errorf("create mask file: %w", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close mask file: %w", cerr)
		}
	}()

	if err := c.maskCodec.Encode(w, mask); err != nil {
		return fmt.Errorf("encode mask: %w", err)
	}
	return nil
}

// ConvertAnnotationsForImage converts the annotations of one image.
// count is the number of COCO annotations that produced at least one detail;
// a multi-polygon annotation produces several.
func (c *CocoToAnnofabConverter) ConvertAnnotationsForImage(image domain.Image) ([]ConvertedDetail, int, error) {
	annotations := c.annotationsByImageID[image.ID]
	converted := make([]ConvertedDetail, 0, len(annotations))
	count := 0

	for i := range annotations {
		var details []ConvertedDetail
		var err error

		switch c.kind {
		case domain.AnnotationKindBBox:
			details, err = c.convertBBox(&annotations[i])
		case domain.AnnotationKindPolygonSegmentation:
			details, err = c.convertPolygonSegmentation(&annotations[i])
		case domain.AnnotationKindRLESegmentation:
			details, err = c.convertRLESegmentation(&annotations[i], image)
		default:
			err = fmt.Errorf("%w: unknown annotation kind %q", domain.ErrInvalidInput, c.kind)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("coco annotation id=%d: %w", annotations[i].ID, err)
		}

		if len(details) > 0 {
			count++
			converted = append(converted, details...)
		}
	}
	return converted, count, nil
}

// categoryName resolves the annotation's category and applies the category filter.
// ok is false when the category is filtered out.
func (c *CocoToAnnofabConverter) categoryName(a *domain.Annotation) (name string, ok bool, err error) {
	name, found := c.categoryNamesByID[a.CategoryID]
	if !found {
		return "", false, fmt.Errorf("%w: category_id=%d", domain.ErrNotFound, a.CategoryID)
	}
	if !inSet(c.targetCategoryNames, name) {
		return name, false, nil
	}
	return name, true, nil
}

func (c *CocoToAnnofabConverter) attributes(a *domain.Annotation) map[string]any {
	return map[string]any{
		AttributeCocoAnnotationID: a.ID,
		AttributeCocoImageID:      a.ImageID,
	}
}

func (c *CocoToAnnofabConverter) convertBBox(a *domain.Annotation) ([]ConvertedDetail, error) {
	name, ok, err := c.categoryName(a)
	if err != nil || !ok {
		return nil, err
	}
	if len(a.BBox) != 4 {
		return nil, fmt.Errorf("%w: bbox has %d values", domain.ErrInvalidInput, len(a.BBox))
	}

	x, y, width, height := a.BBox[0], a.BBox[1], a.BBox[2], a.BBox[3]
	data := &domain.BoundingBox{
		LeftTop:     domain.Point{X: geometry.Round(x), Y: geometry.Round(y)},
		RightBottom: domain.Point{X: geometry.Round(x + width), Y: geometry.Round(y + height)},
	}
	return []ConvertedDetail{{Detail: domain.Detail{
		AnnotationID: c.newID(),
		Label:        name,
		Data:         data,
		Attributes:   c.attributes(a),
	}}}, nil
}

func (c *CocoToAnnofabConverter) convertPolygonSegmentation(a *domain.Annotation) ([]ConvertedDetail, error) {
	if a.IsCrowd != 0 {
		return nil, nil
	}
	name, ok, err := c.categoryName(a)
	if err != nil || !ok {
		return nil, err
	}
	if a.Segmentation.IsRLE() {
		return nil, errors.New("iscrowd=0 annotation has an RLE segmentation")
	}

	details := make([]ConvertedDetail, 0, len(a.Segmentation.Polygons))
	for _, polygon := range a.Segmentation.Polygons {
		details = append(details, ConvertedDetail{Detail: domain.Detail{
			AnnotationID: c.newID(),
			Label:        name,
			Data:         &domain.Points{Points: geometry.PointsFromFlat(polygon)},
			Attributes:   c.attributes(a),
		}})
	}
	return details, nil
}

func (c *CocoToAnnofabConverter) convertRLESegmentation(a *domain.Annotation, image domain.Image) ([]ConvertedDetail, error) {
	if a.IsCrowd != 1 {
		return nil, nil
	}
	name, ok, err := c.categoryName(a)
	if err != nil || !ok {
		return nil, err
	}
	if !a.Segmentation.IsRLE() {
		return nil, errors.New("iscrowd=1 annotation has no RLE segmentation")
	}

	encoded := *a.Segmentation.RLE
	if encoded.Size == [2]int{} && !encoded.IsCompressed() {
		// List counts without a size are laid out over the image.
		encoded.Size = [2]int{image.Height, image.Width}
	}
	if encoded.Height() != image.Height || encoded.Width() != image.Width {
		return nil, fmt.Errorf("%w: RLE size %v does not match image %dx%d",
			domain.ErrInvalidRLE, encoded.Size, image.Height, image.Width)
	}

	mask, err := rle.Decode(&encoded)
	if err != nil {
		return nil, err
	}

	id := c.newID()
	return []ConvertedDetail{{
		Detail: domain.Detail{
			AnnotationID: id,
			Label:        name,
			Data:         &domain.SegmentationData{DataURI: id},
			Attributes:   c.attributes(a),
		},
		Mask: mask,
	}}, nil
}
