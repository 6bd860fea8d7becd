// Package annofabcli runs external commands, in practice the annofabcli executable
// that talks to the Annofab web API.
package annofabcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner executes commands with os/exec, streaming their output.
type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a runner that streams to the given writers.
// Nil writers default to the process stdout and stderr.
func NewRunner(stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{stdout: stdout, stderr: stderr}
}

// Run executes name and waits for it. Cancelling ctx kills the process.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*driven.CommandResult, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", domain.ErrCommandFailed, name, err)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	err := cmd.Run()
	if err == nil {
		return &driven.CommandResult{}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result := &driven.CommandResult{ExitCode: exitErr.ExitCode()}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%w: %w", domain.ErrCommandFailed, ctxErr)
		}
		return result, fmt.Errorf("%w: exit status %d", domain.ErrCommandFailed, result.ExitCode)
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrCommandFailed, err)
}
