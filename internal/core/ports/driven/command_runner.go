package driven

import "context"

// CommandRunner runs an external command synchronously.
type CommandRunner interface {
	// Run executes name with args and waits for it to finish.
	// A non-zero exit status is returned as an error wrapping domain.ErrCommandFailed,
	// together with the result.
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
}

// CommandResult describes a finished command.
type CommandResult struct {
	// ExitCode is the process exit status.
	ExitCode int

	// Output is the captured combined output. Runners that stream output to the
	// terminal leave it empty.
	Output []byte
}

// IDGenerator returns a new unique annotation ID.
type IDGenerator func() string
