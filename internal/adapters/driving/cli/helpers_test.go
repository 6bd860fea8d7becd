package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
	"github.com/custodia-labs/afcoco/internal/core/ports/driving"
	"github.com/custodia-labs/afcoco/internal/core/services"
)

// missingConfig returns a config path that does not exist.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.toml")
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
// A --config pointing to a missing file is added unless args choose a config.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	hasConfig := false
	for _, a := range args {
		if a == "--config" || a == "--no-config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append(args, "--config", missingConfig(t))
	}

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mockPlatform implements driving.PlatformService for testing.
type mockPlatform struct {
	opts      services.PlatformOptions
	projectID string
	images    []domain.Image
	imageDir  string
	taskIDs   []string
	latest    bool
	tasks     []domain.Task
	inputData []domain.InputData
	err       error
}

func (m *mockPlatform) PutInputData(_ context.Context, projectID string, images []domain.Image, imageDir string) error {
	m.projectID, m.images, m.imageDir = projectID, images, imageDir
	return m.err
}

func (m *mockPlatform) PutTasks(_ context.Context, projectID string, inputDataIDs []string) error {
	m.projectID, m.taskIDs = projectID, inputDataIDs
	return m.err
}

func (m *mockPlatform) DownloadTasks(_ context.Context, projectID string, latest bool) ([]domain.Task, error) {
	m.projectID, m.latest = projectID, latest
	return m.tasks, m.err
}

func (m *mockPlatform) DownloadInputData(_ context.Context, projectID string, latest bool) ([]domain.InputData, error) {
	m.projectID, m.latest = projectID, latest
	return m.inputData, m.err
}

func setupPlatformTest(platform *mockPlatform, answer bool) func() {
	oldPlatform := newPlatformService
	oldConfirm := confirm
	newPlatformService = func(opts services.PlatformOptions, _ driven.Logger) driving.PlatformService {
		platform.opts = opts
		return platform
	}
	confirm = func(_ io.Writer, _ string) (bool, error) {
		return answer, nil
	}
	return func() {
		newPlatformService = oldPlatform
		confirm = oldConfirm
	}
}

func sequentialIDs() driven.IDGenerator {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}
