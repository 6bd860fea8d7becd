package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Ensure DirBundle implements the interface.
var _ driven.AnnotationBundle = (*DirBundle)(nil)

// DirBundle reads units from an extracted bundle directory.
type DirBundle struct {
	root string
}

// NewDirBundle creates a bundle rooted at dir.
func NewDirBundle(dir string) *DirBundle {
	return &DirBundle{root: dir}
}

// Units walks the directory in lexical order.
func (b *DirBundle) Units() iter.Seq2[driven.AnnotationUnit, error] {
	return func(yield func(driven.AnnotationUnit, error) bool) {
		err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(b.root, p)
			if err != nil {
				return err
			}
			taskID, inputDataID, ok := unitKeys(filepath.ToSlash(rel))
			if !ok {
				return nil
			}
			if !yield(&dirUnit{path: p, taskID: taskID, inputDataID: inputDataID}, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(nil, fmt.Errorf("walk %s: %w", b.root, err))
		}
	}
}

// Close is a no-op; files are opened per call.
func (b *DirBundle) Close() error {
	return nil
}

type dirUnit struct {
	path        string
	taskID      string
	inputDataID string
}

func (u *dirUnit) TaskID() string      { return u.taskID }
func (u *dirUnit) InputDataID() string { return u.inputDataID }
func (u *dirUnit) Path() string        { return u.path }

func (u *dirUnit) Load() (*domain.SimpleAnnotation, error) {
	f, err := os.Open(u.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeAnnotation(f, u.path)
}

func (u *dirUnit) OpenOuterFile(dataURI string) (io.ReadCloser, error) {
	name, err := outerName(filepath.ToSlash(u.path), u.inputDataID, dataURI)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.FromSlash(name))
}
