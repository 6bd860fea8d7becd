package file

import (
	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// ReadInstances reads a COCO Instances document.
func ReadInstances(path string) (*domain.Instances, error) {
	var instances domain.Instances
	if err := ReadJSON(path, &instances); err != nil {
		return nil, err
	}
	return &instances, nil
}

// WriteInstances writes a COCO Instances document. Missing sections are written
// as empty arrays.
func WriteInstances(path string, instances *domain.Instances) error {
	out := *instances
	if out.Images == nil {
		out.Images = []domain.Image{}
	}
	if out.Annotations == nil {
		out.Annotations = []domain.Annotation{}
	}
	if out.Categories == nil {
		out.Categories = []domain.Category{}
	}
	return WriteJSON(path, &out)
}

// ReadTasks reads a task list downloaded with `annofabcli task download`.
func ReadTasks(path string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := ReadJSON(path, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ReadInputDataList reads an input data list downloaded with `annofabcli input_data download`.
func ReadInputDataList(path string) ([]domain.InputData, error) {
	var inputData []domain.InputData
	if err := ReadJSON(path, &inputData); err != nil {
		return nil, err
	}
	return inputData, nil
}
