package driven

import (
	"io"
	"iter"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// AnnotationBundle is an Annofab simple annotation bundle (a ZIP file or its
// extracted directory). Each JSON file in it is one AnnotationUnit.
type AnnotationBundle interface {
	// Units yields the units in a single forward pass. The sequence is not restartable.
	// A non-nil error ends the iteration.
	Units() iter.Seq2[AnnotationUnit, error]

	// Close releases the underlying file.
	Close() error
}

// AnnotationUnit is a lazily loaded annotation file of one input data in one task.
type AnnotationUnit interface {
	// TaskID returns the task the file belongs to, taken from its path.
	TaskID() string

	// InputDataID returns the input data the file describes, taken from its path.
	InputDataID() string

	// Path returns the file location for diagnostics.
	Path() string

	// Load reads and decodes the JSON file.
	Load() (*domain.SimpleAnnotation, error)

	// OpenOuterFile opens a file stored next to the JSON file, such as a mask image
	// referenced by a detail's data_uri.
	OpenOuterFile(dataURI string) (io.ReadCloser, error)
}
