package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Ensure AnnotationWriter implements the interface.
var _ driven.AnnotationWriter = (*AnnotationWriter)(nil)

// AnnotationWriter writes Annofab annotation files in the layout
// `annofabcli annotation import` reads:
//
//	<root>/<task_id>/<input_data_id>.json
//	<root>/<task_id>/<input_data_id>/<annotation_id>
type AnnotationWriter struct {
	root string
}

// NewAnnotationWriter creates a writer rooted at dir.
func NewAnnotationWriter(dir string) *AnnotationWriter {
	return &AnnotationWriter{root: dir}
}

// Root returns the output directory.
func (w *AnnotationWriter) Root() string {
	return w.root
}

// WriteDetails writes {"details": [...]} for one input data.
func (w *AnnotationWriter) WriteDetails(taskID, inputDataID string, details []domain.Detail) error {
	if details == nil {
		details = []domain.Detail{}
	}
	path := filepath.Join(w.root, taskID, inputDataID+".json")
	return WriteJSON(path, domain.AnnotationDetails{Details: details})
}

// CreateMaskFile creates the outer file of a raster annotation.
func (w *AnnotationWriter) CreateMaskFile(taskID, inputDataID, annotationID string) (io.WriteCloser, error) {
	dir := filepath.Join(w.root, taskID, inputDataID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return os.Create(filepath.Join(dir, annotationID))
}
