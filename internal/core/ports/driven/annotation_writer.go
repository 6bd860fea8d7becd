package driven

import (
	"io"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// AnnotationWriter stores converted Annofab annotations, laid out the way
// `annofabcli annotation import` expects them.
type AnnotationWriter interface {
	// WriteDetails stores the details of one input data of one task.
	WriteDetails(taskID, inputDataID string, details []domain.Detail) error

	// CreateMaskFile creates the mask image of one raster annotation.
	// The caller must close the returned writer.
	CreateMaskFile(taskID, inputDataID, annotationID string) (io.WriteCloser, error)
}
