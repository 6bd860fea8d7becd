package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// recordingLogger captures log lines per level.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(format string, args ...any) { l.add("DEBUG", format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recordingLogger) Warn(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.add("ERROR", format, args...) }

// count returns how many lines of the level contain substr.
func (l *recordingLogger) count(level, substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") && strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// fakeUnit is an in-memory annotation file.
type fakeUnit struct {
	annotation *domain.SimpleAnnotation
	loadErr    error
	files      map[string]string
	loads      int
}

func (u *fakeUnit) TaskID() string      { return u.annotation.TaskID }
func (u *fakeUnit) InputDataID() string { return u.annotation.InputDataID }
func (u *fakeUnit) Path() string {
	return u.annotation.TaskID + "/" + u.annotation.InputDataID + ".json"
}

func (u *fakeUnit) Load() (*domain.SimpleAnnotation, error) {
	u.loads++
	if u.loadErr != nil {
		return nil, u.loadErr
	}
	return u.annotation, nil
}

func (u *fakeUnit) OpenOuterFile(dataURI string) (io.ReadCloser, error) {
	content, ok := u.files[dataURI]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// fakeBundle yields its units once, then an optional error.
type fakeBundle struct {
	units []*fakeUnit
	err   error
}

func (b *fakeBundle) Units() iter.Seq2[driven.AnnotationUnit, error] {
	return func(yield func(driven.AnnotationUnit, error) bool) {
		for _, u := range b.units {
			if !yield(u, nil) {
				return
			}
		}
		if b.err != nil {
			yield(nil, b.err)
		}
	}
}

func (b *fakeBundle) Close() error { return nil }

// textMaskCodec stores masks as lines of '0' and '1'.
type textMaskCodec struct{}

func (textMaskCodec) Encode(w io.Writer, mask *domain.Mask) error {
	for _, row := range mask.Rows() {
		var sb strings.Builder
		for _, v := range row {
			if v {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func (textMaskCodec) Decode(r io.Reader) (*domain.Mask, error) {
	var rows [][]bool
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		row := make([]bool, len(line))
		for i, ch := range line {
			switch ch {
			case '1':
				row[i] = true
			case '0':
			default:
				return nil, errors.New("bad mask character")
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return domain.MaskFromRows(rows)
}

// sequentialIDs returns "id-1", "id-2", ...
func sequentialIDs() driven.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// fakeRunner records commands and optionally fakes their effects.
type fakeRunner struct {
	calls  [][]string
	err    error
	onCall func(name string, args []string) error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (*driven.CommandResult, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.onCall != nil {
		if err := r.onCall(name, args); err != nil {
			return &driven.CommandResult{ExitCode: 1}, err
		}
	}
	if r.err != nil {
		return &driven.CommandResult{ExitCode: 2}, r.err
	}
	return &driven.CommandResult{}, nil
}
