package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/afcoco/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/afcoco/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/services"
)

var importFlags struct {
	cocoInstances  string
	kind           string
	taskJSON       string
	inputDataJSON  string
	projectID      string
	latest         bool
	categories     []string
	imageFileNames []string
	output         string
	dryRun         bool
}

var importCocoCmd = &cobra.Command{
	Use:   "import-coco",
	Short: "Convert COCO Instances annotations to Annofab annotation files",
	Long: `Converts the annotations of a COCO Instances document into the files
'annofabcli annotation import' reads: <output>/<task_id>/<input_data_id>.json.

Images are matched to input data by file_name = input_data_name. The task and
input data lists come from --task-json and --input-data-json, or are downloaded
with annofabcli when --project-id is given.

--kind selects what is converted:
  bbox                  every annotation's bbox
  polygon_segmentation  polygons of iscrowd=0 annotations
  rle_segmentation      RLE masks of iscrowd=1 annotations, written as PNG images

--dry-run converts everything in memory and lists the files that would be written.`,
	Args: cobra.NoArgs,
	RunE: runImportCoco,
}

func init() {
	f := importCocoCmd.Flags()
	f.StringVar(&importFlags.cocoInstances, "coco-instances", "", "COCO Instances JSON")
	f.StringVar(&importFlags.kind, "kind", "", "annotation kind: bbox, polygon_segmentation or rle_segmentation")
	f.StringVar(&importFlags.taskJSON, "task-json", "", "Annofab task list JSON")
	f.StringVar(&importFlags.inputDataJSON, "input-data-json", "", "Annofab input data list JSON")
	f.StringVar(&importFlags.projectID, "project-id", "", "download the task and input data lists of this project")
	f.BoolVar(&importFlags.latest, "latest", false, "download the latest lists instead of the daily snapshot")
	f.StringArrayVar(&importFlags.categories, "category", nil, "only convert these category names")
	f.StringArrayVar(&importFlags.imageFileNames, "image-file-name", nil, "only convert these image file names")
	f.StringVarP(&importFlags.output, "output", "o", "", "output directory")
	f.BoolVar(&importFlags.dryRun, "dry-run", false, "convert without writing any file")

	for _, name := range []string{"coco-instances", "kind"} {
		_ = importCocoCmd.MarkFlagRequired(name)
	}
	importCocoCmd.MarkFlagsOneRequired("output", "dry-run")
	importCocoCmd.MarkFlagsMutuallyExclusive("output", "dry-run")
	importCocoCmd.MarkFlagsRequiredTogether("task-json", "input-data-json")
	importCocoCmd.MarkFlagsMutuallyExclusive("task-json", "project-id")
	rootCmd.AddCommand(importCocoCmd)
}

func runImportCoco(cmd *cobra.Command, _ []string) error {
	fl := importFlags
	appLog.Section("COCO to Annofab")
	if err := expandListArgs(&fl.categories, &fl.imageFileNames); err != nil {
		return err
	}

	kind, err := domain.ParseAnnotationKind(fl.kind)
	if err != nil {
		return err
	}

	instances, err := file.ReadInstances(fl.cocoInstances)
	if err != nil {
		return fmt.Errorf("read COCO instances: %w", err)
	}

	tasks, inputData, err := loadProjectLists(cmd, fl.taskJSON, fl.inputDataJSON, fl.projectID, fl.latest)
	if err != nil {
		return err
	}
	taskIDs, err := services.TaskIDsByInputDataID(tasks)
	if err != nil {
		return err
	}
	inputDataIDs, err := services.InputDataIDsByName(inputData)
	if err != nil {
		return err
	}

	converter, err := services.NewCocoToAnnofabConverter(instances, kind, services.ImportOptions{
		TargetCategoryNames:  fl.categories,
		TargetImageFileNames: fl.imageFileNames,
		NewID:                newID,
		MaskCodec:            maskCodec,
	}, appLog)
	if err != nil {
		return err
	}

	if fl.dryRun {
		writer := memory.NewAnnotationWriter()
		result, err := converter.Convert(cmd.Context(), writer, taskIDs, inputDataIDs)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		for _, key := range writer.Keys() {
			cmd.Printf("  %s.json\n", key)
		}
		cmd.Printf("Dry run: %d Annofab annotations for %d/%d COCO images, nothing written\n",
			result.DetailCount, result.SuccessCount, result.TotalCount)
		return nil
	}

	writer := file.NewAnnotationWriter(fl.output)
	result, err := converter.Convert(cmd.Context(), writer, taskIDs, inputDataIDs)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Wrote %d Annofab annotations for %d/%d COCO images to %s\n",
		result.DetailCount, result.SuccessCount, result.TotalCount, fl.output)
	return nil
}

// loadProjectLists reads the task and input data lists from files, or downloads
// them when no files are given.
func loadProjectLists(
	cmd *cobra.Command,
	taskJSON, inputDataJSON, projectIDFlag string,
	latest bool,
) ([]domain.Task, []domain.InputData, error) {
	if taskJSON != "" {
		tasks, err := file.ReadTasks(taskJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("read task list: %w", err)
		}
		inputData, err := file.ReadInputDataList(inputDataJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("read input data list: %w", err)
		}
		return tasks, inputData, nil
	}

	project, err := projectID(projectIDFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("either --task-json and --input-data-json or %w", err)
	}

	platform := newPlatformService(platformOptions(""), appLog)
	tasks, err := platform.DownloadTasks(cmd.Context(), project, latest)
	if err != nil {
		return nil, nil, err
	}
	inputData, err := platform.DownloadInputData(cmd.Context(), project, latest)
	if err != nil {
		return nil, nil, err
	}
	return tasks, inputData, nil
}
