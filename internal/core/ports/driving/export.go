package driving

import (
	"context"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// AnnofabToCocoConverter converts an Annofab annotation bundle into COCO annotations.
type AnnofabToCocoConverter interface {
	// ConvertBundle converts every unit of the bundle that passes the filter.
	// Units that fail are logged and skipped; the error is reserved for failures
	// that stop the whole run.
	ConvertBundle(ctx context.Context, bundle driven.AnnotationBundle, filter UnitFilter) (*ExportResult, error)
}

// UnitFilter selects the units to convert. Nil or empty fields do not filter.
type UnitFilter struct {
	TaskIDs      []string
	InputDataIDs []string
	TaskPhase    string
	TaskStatus   string
}

// ExportResult is the outcome of ConvertBundle.
type ExportResult struct {
	// Annotations holds the converted annotations with IDs starting at 1.
	Annotations []domain.Annotation

	// SuccessCount is the number of units converted.
	SuccessCount int

	// TotalCount is the number of units that passed the filter.
	TotalCount int
}
