package driving

import (
	"context"

	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// CocoToAnnofabConverter converts a COCO document into Annofab annotation files.
type CocoToAnnofabConverter interface {
	// Convert writes one annotation file per image whose input data and task can be
	// resolved. Images that fail are logged and skipped.
	Convert(
		ctx context.Context,
		writer driven.AnnotationWriter,
		taskIDsByInputDataID map[string]string,
		inputDataIDsByName map[string]string,
	) (*ImportResult, error)
}

// ImportResult is the outcome of Convert.
type ImportResult struct {
	// SuccessCount is the number of images written.
	SuccessCount int

	// TotalCount is the number of images considered.
	TotalCount int

	// DetailCount is the number of Annofab details written.
	DetailCount int
}
