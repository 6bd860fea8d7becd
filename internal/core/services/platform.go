package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
	"github.com/custodia-labs/afcoco/internal/core/ports/driving"
)

// Ensure PlatformService implements the interface.
var _ driving.PlatformService = (*PlatformService)(nil)

// DefaultAnnofabCLI is the executable used when none is configured.
const DefaultAnnofabCLI = "annofabcli"

// defaultParallelism is passed to `annofabcli input_data put --parallelism`.
const defaultParallelism = 4

// PlatformOptions configures a PlatformService.
type PlatformOptions struct {
	// Executable is the annofabcli command. Defaults to "annofabcli".
	Executable string

	// Parallelism for input data uploads. Defaults to 4.
	Parallelism int

	// TempDir holds the JSON files handed to annofabcli. When empty, a temporary
	// directory is created and removed per call.
	TempDir string
}

// PlatformService drives the annofabcli executable.
// Every call blocks until annofabcli exits; a failure is never retried.
type PlatformService struct {
	runner driven.CommandRunner
	opts   PlatformOptions
	log    driven.Logger
}

// NewPlatformService creates a platform service running commands through runner.
func NewPlatformService(runner driven.CommandRunner, opts PlatformOptions, log driven.Logger) *PlatformService {
	if opts.Executable == "" {
		opts.Executable = DefaultAnnofabCLI
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = defaultParallelism
	}
	return &PlatformService{runner: runner, opts: opts, log: log}
}

// InputDataPutRequests builds the `annofabcli input_data put --json` payload.
// Both the input data ID and name are the COCO file name.
func InputDataPutRequests(images []domain.Image, imageDir string) []domain.InputDataPutRequest {
	requests := make([]domain.InputDataPutRequest, 0, len(images))
	for _, img := range images {
		requests = append(requests, domain.InputDataPutRequest{
			InputDataID:   img.FileName,
			InputDataName: img.FileName,
			InputDataPath: "file://" + filepath.Join(imageDir, img.FileName),
		})
	}
	return requests
}

// TaskPutRequest builds the `annofabcli task put --json` payload: one task per input
// data, named after it.
func TaskPutRequest(inputDataIDs []string) map[string][]string {
	tasks := make(map[string][]string, len(inputDataIDs))
	for _, id := range inputDataIDs {
		tasks[id] = []string{id}
	}
	return tasks
}

// PutInputData registers every image as an input data.
func (s *PlatformService) PutInputData(ctx context.Context, projectID string, images []domain.Image, imageDir string) error {
	requests := InputDataPutRequests(images, imageDir)
	s.log.Info("Registering %d COCO images as Annofab input data :: project_id='%s'", len(requests), projectID)

	return s.withTempDir(func(dir string) error {
		jsonFile, err := writeTempJSON(dir, "input_data_info.json", requests)
		if err != nil {
			return err
		}
		return s.run(ctx, "input_data", "put", "--yes",
			"--project_id", projectID,
			"--json", "file://"+jsonFile,
			"--parallelism", strconv.Itoa(s.opts.Parallelism))
	})
}

// PutTasks creates one task per input data.
func (s *PlatformService) PutTasks(ctx context.Context, projectID string, inputDataIDs []string) error {
	request := TaskPutRequest(inputDataIDs)
	s.log.Info("Creating %d Annofab tasks :: project_id='%s'", len(request), projectID)

	return s.withTempDir(func(dir string) error {
		jsonFile, err := writeTempJSON(dir, "task_info.json", request)
		if err != nil {
			return err
		}
		return s.run(ctx, "task", "put", "--yes",
			"--project_id", projectID,
			"--json", "file://"+jsonFile)
	})
}

// DownloadTasks downloads the task list of a project.
func (s *PlatformService) DownloadTasks(ctx context.Context, projectID string, latest bool) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.download(ctx, "task", projectID, latest, &tasks)
	return tasks, err
}

// DownloadInputData downloads the input data list of a project.
func (s *PlatformService) DownloadInputData(ctx context.Context, projectID string, latest bool) ([]domain.InputData, error) {
	var inputData []domain.InputData
	err := s.download(ctx, "input_data", projectID, latest, &inputData)
	return inputData, err
}

func (s *PlatformService) download(ctx context.Context, resource, projectID string, latest bool, v any) error {
	s.log.Info("Downloading the Annofab %s list :: project_id='%s'", resource, projectID)

	return s.withTempDir(func(dir string) error {
		output := filepath.Join(dir, fmt.Sprintf("%d--%s.json", time.Now().UnixNano(), resource))
		args := []string{resource, "download", "--project_id", projectID, "--output", output}
		if latest {
			args = append(args, "--latest")
		}
		if err := s.run(ctx, args...); err != nil {
			return err
		}

		data, err := os.ReadFile(output)
		if err != nil {
			return fmt.Errorf("read downloaded %s list: %w", resource, err)
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse downloaded %s list: %w", resource, err)
		}
		return nil
	})
}

func (s *PlatformService) run(ctx context.Context, args ...string) error {
	s.log.Debug("Running %s %v", s.opts.Executable, args)
	if _, err := s.runner.Run(ctx, s.opts.Executable, args...); err != nil {
		return fmt.Errorf("%s %s %s: %w", s.opts.Executable, args[0], args[1], err)
	}
	return nil
}

func (s *PlatformService) withTempDir(fn func(dir string) error) error {
	if s.opts.TempDir != "" {
		if err := os.MkdirAll(s.opts.TempDir, 0o755); err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		return fn(s.opts.TempDir)
	}

	dir, err := os.MkdirTemp("", "afcoco-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	return fn(dir)
}

func writeTempJSON(dir, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%d--%s", time.Now().UnixNano(), name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
