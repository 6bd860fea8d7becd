package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/afcoco/internal/core/domain"
)

// ImagesFromInputData builds COCO images from an Annofab input data list.
// The file name is the input_data_name and image IDs start at 1.
// Input data names must be unique because they are the join key to COCO.
func ImagesFromInputData(inputData []domain.InputData) ([]domain.Image, error) {
	if dups := duplicates(inputData, func(d domain.InputData) string { return d.InputDataName }); len(dups) > 0 {
		return nil, fmt.Errorf("%w: input_data_name %q appears more than once; names must be unique to join with COCO file_name",
			domain.ErrDuplicateKey, dups)
	}

	images := make([]domain.Image, 0, len(inputData))
	for i, d := range inputData {
		res := d.SystemMetadata.OriginalResolution
		if res == nil {
			return nil, fmt.Errorf("%w: input_data_id=%q has no original_resolution",
				domain.ErrInvalidInput, d.InputDataID)
		}
		images = append(images, domain.Image{
			ID:       int64(i + 1),
			FileName: d.InputDataName,
			Width:    res.Width,
			Height:   res.Height,
		})
	}
	return images, nil
}

// TaskIDsByInputDataID maps each input data ID to the task containing it.
// An input data in more than one task has no unique parent and is rejected.
func TaskIDsByInputDataID(tasks []domain.Task) (map[string]string, error) {
	result := make(map[string]string)
	for _, task := range tasks {
		for _, inputDataID := range task.InputDataIDList {
			if other, ok := result[inputDataID]; ok && other != task.TaskID {
				return nil, fmt.Errorf("%w: input_data_id=%q is in task %q and task %q",
					domain.ErrAmbiguousParent, inputDataID, other, task.TaskID)
			}
			result[inputDataID] = task.TaskID
		}
	}
	return result, nil
}

// InputDataIDsByName maps each input_data_name to its input_data_id.
func InputDataIDsByName(inputData []domain.InputData) (map[string]string, error) {
	result := make(map[string]string, len(inputData))
	for _, d := range inputData {
		if _, ok := result[d.InputDataName]; ok {
			return nil, fmt.Errorf("%w: input_data_name=%q appears more than once",
				domain.ErrDuplicateKey, d.InputDataName)
		}
		result[d.InputDataName] = d.InputDataID
	}
	return result, nil
}

// InputDataIDs returns the input data IDs in list order.
func InputDataIDs(inputData []domain.InputData) []string {
	ids := make([]string, len(inputData))
	for i, d := range inputData {
		ids[i] = d.InputDataID
	}
	return ids
}

// CategoryIDsByName maps category names to IDs. Names must be unique.
func CategoryIDsByName(categories []domain.Category) (map[string]int64, error) {
	result := make(map[string]int64, len(categories))
	for _, c := range categories {
		if _, ok := result[c.Name]; ok {
			return nil, fmt.Errorf("%w: category name %q appears more than once", domain.ErrDuplicateKey, c.Name)
		}
		result[c.Name] = c.ID
	}
	return result, nil
}

// CategoryNamesByID maps category IDs to names. A repeated ID keeps the last name.
func CategoryNamesByID(categories []domain.Category) map[int64]string {
	result := make(map[int64]string, len(categories))
	for _, c := range categories {
		result[c.ID] = c.Name
	}
	return result
}

// ImagesByFileName maps file names to images. File names must be unique.
func ImagesByFileName(images []domain.Image) (map[string]domain.Image, error) {
	result := make(map[string]domain.Image, len(images))
	for _, img := range images {
		if _, ok := result[img.FileName]; ok {
			return nil, fmt.Errorf("%w: image file_name %q appears more than once", domain.ErrDuplicateKey, img.FileName)
		}
		result[img.FileName] = img
	}
	return result, nil
}

// AnnotationsByImageID groups annotations by image, keeping document order.
func AnnotationsByImageID(annotations []domain.Annotation) map[int64][]domain.Annotation {
	result := make(map[int64][]domain.Annotation)
	for _, a := range annotations {
		result[a.ImageID] = append(result[a.ImageID], a)
	}
	return result
}

// FilterImagesByFileName keeps the images whose file name is listed.
// An empty list keeps every image.
func FilterImagesByFileName(images []domain.Image, fileNames []string) []domain.Image {
	if len(fileNames) == 0 {
		return images
	}
	wanted := toSet(fileNames)
	filtered := make([]domain.Image, 0, len(fileNames))
	for _, img := range images {
		if _, ok := wanted[img.FileName]; ok {
			filtered = append(filtered, img)
		}
	}
	return filtered
}

// toSet returns nil for an empty list, meaning "no filter".
func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func duplicates[T any](items []T, key func(T) string) []string {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[key(item)]++
	}
	var dups []string
	for k, n := range counts {
		if n > 1 {
			dups = append(dups, k)
		}
	}
	slices.Sort(dups)
	return dups
}
