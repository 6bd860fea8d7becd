package memory

import (
	"bytes"
	"io"
	"path"
	"sort"
	"sync"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Ensure AnnotationWriter implements the interface.
var _ driven.AnnotationWriter = (*AnnotationWriter)(nil)

// AnnotationWriter is an in-memory implementation of driven.AnnotationWriter.
// Entries are keyed by "<task_id>/<input_data_id>", as the file layout would be.
type AnnotationWriter struct {
	mu      sync.RWMutex
	details map[string][]domain.Detail
	masks   map[string][]byte
}

// NewAnnotationWriter creates a new in-memory annotation writer.
func NewAnnotationWriter() *AnnotationWriter {
	return &AnnotationWriter{
		details: make(map[string][]domain.Detail),
		masks:   make(map[string][]byte),
	}
}

// WriteDetails stores the details of one input data, replacing earlier ones.
func (w *AnnotationWriter) WriteDetails(taskID, inputDataID string, details []domain.Detail) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.details[path.Join(taskID, inputDataID)] = append([]domain.Detail(nil), details...)
	return nil
}

// CreateMaskFile returns a writer whose content is stored on Close.
func (w *AnnotationWriter) CreateMaskFile(taskID, inputDataID, annotationID string) (io.WriteCloser, error) {
	return &maskBuffer{owner: w, key: path.Join(taskID, inputDataID, annotationID)}, nil
}

// Details returns the stored details of one input data.
func (w *AnnotationWriter) Details(taskID, inputDataID string) ([]domain.Detail, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	details, ok := w.details[path.Join(taskID, inputDataID)]
	return details, ok
}

// Mask returns the stored mask file content of one annotation.
func (w *AnnotationWriter) Mask(taskID, inputDataID, annotationID string) ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.masks[path.Join(taskID, inputDataID, annotationID)]
	return data, ok
}

// Keys returns the sorted "<task_id>/<input_data_id>" keys of stored detail files.
func (w *AnnotationWriter) Keys() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	keys := make([]string, 0, len(w.details))
	for k := range w.details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type maskBuffer struct {
	bytes.Buffer
	owner *AnnotationWriter
	key   string
}

func (b *maskBuffer) Close() error {
	b.owner.mu.Lock()
	defer b.owner.mu.Unlock()
	b.owner.masks[b.key] = append([]byte(nil), b.Bytes()...)
	return nil
}
