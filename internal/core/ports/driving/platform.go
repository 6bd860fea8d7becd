package driving

import (
	"context"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// PlatformService registers and downloads data on the Annofab platform
// through annofabcli.
type PlatformService interface {
	// PutInputData registers every image as an input data whose file lives in imageDir.
	PutInputData(ctx context.Context, projectID string, images []domain.Image, imageDir string) error

	// PutTasks creates one task per input data, with the task ID equal to the input data ID.
	PutTasks(ctx context.Context, projectID string, inputDataIDs []string) error

	// DownloadTasks downloads the task list of a project.
	DownloadTasks(ctx context.Context, projectID string, latest bool) ([]domain.Task, error)

	// DownloadInputData downloads the input data list of a project.
	DownloadInputData(ctx context.Context, projectID string, latest bool) ([]domain.InputData, error)
}
