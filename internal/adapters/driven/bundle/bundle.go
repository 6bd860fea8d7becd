package bundle

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"path"
	"strings"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Open opens the bundle at p, which is a ZIP file or a directory.
func Open(p string) (driven.AnnotationBundle, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("open annotation bundle: %w", err)
	}
	if info.IsDir() {
		return NewDirBundle(p), nil
	}

	zb, err := OpenZipBundle(p)
	if err != nil {
		return nil, err
	}
	return zb, nil
}

// unitKeys extracts the task and input data IDs from a slash-separated file name.
// Only the last two elements count, so a bundle extracted under an extra folder works.
func unitKeys(name string) (taskID, inputDataID string, ok bool) {
	if !strings.HasSuffix(name, ".json") {
		return "", "", false
	}
	dir := path.Dir(name)
	if dir == "." || dir == "/" {
		return "", "", false
	}
	return path.Base(dir), strings.TrimSuffix(path.Base(name), ".json"), true
}

// outerName returns the slash-separated name of a file referenced by a detail.
func outerName(unitName, inputDataID, dataURI string) (string, error) {
	if !isLocal(dataURI) {
		return "", fmt.Errorf("%w: data_uri %q escapes the annotation directory", domain.ErrInvalidInput, dataURI)
	}
	return path.Join(path.Dir(unitName), inputDataID, dataURI), nil
}

func isLocal(name string) bool {
	if name == "" || path.IsAbs(name) {
		return false
	}
	cleaned := path.Clean(name)
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

func decodeAnnotation(r io.Reader, name string) (*domain.SimpleAnnotation, error) {
	var annotation domain.SimpleAnnotation
	if err := json.NewDecoder(r).Decode(&annotation); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &annotation, nil
}

// Ensure ZipBundle implements the interface.
var _ driven.AnnotationBundle = (*ZipBundle)(nil)

// ZipBundle reads units straight from a ZIP file without extracting it.
type ZipBundle struct {
	path   string
	reader *zip.ReadCloser
	files  map[string]*zip.File
}

// OpenZipBundle opens a ZIP bundle.
func OpenZipBundle(p string) (*ZipBundle, error) {
	reader, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is neither a directory nor a ZIP file: %v",
			domain.ErrUnsupportedFormat, p, err)
	}

	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		files[f.Name] = f
	}
	return &ZipBundle{path: p, reader: reader, files: files}, nil
}

// Units yields the JSON files in archive order.
func (b *ZipBundle) Units() iter.Seq2[driven.AnnotationUnit, error] {
	return func(yield func(driven.AnnotationUnit, error) bool) {
		for _, f := range b.reader.File {
			if f.FileInfo().IsDir() {
				continue
			}
			taskID, inputDataID, ok := unitKeys(f.Name)
			if !ok {
				continue
			}
			if !yield(&zipUnit{bundle: b, file: f, taskID: taskID, inputDataID: inputDataID}, nil) {
				return
			}
		}
	}
}

// Close closes the ZIP file.
func (b *ZipBundle) Close() error {
	return b.reader.Close()
}

type zipUnit struct {
	bundle      *ZipBundle
	file        *zip.File
	taskID      string
	inputDataID string
}

func (u *zipUnit) TaskID() string      { return u.taskID }
func (u *zipUnit) InputDataID() string { return u.inputDataID }
func (u *zipUnit) Path() string        { return u.bundle.path + "!" + u.file.Name }

func (u *zipUnit) Load() (*domain.SimpleAnnotation, error) {
	rc, err := u.file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u.Path(), err)
	}
	defer rc.Close()
	return decodeAnnotation(rc, u.Path())
}

func (u *zipUnit) OpenOuterFile(dataURI string) (io.ReadCloser, error) {
	name, err := outerName(u.file.Name, u.inputDataID, dataURI)
	if err != nil {
		return nil, err
	}
	f, ok := u.bundle.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s!%s", domain.ErrNotFound, u.bundle.path, name)
	}
	return f.Open()
}
