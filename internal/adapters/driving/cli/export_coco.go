package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/afcoco/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/afcoco/internal/core/domain"
	"github.com/custodia-labs/afcoco/internal/core/ports/driving"
	"github.com/custodia-labs/afcoco/internal/core/services"
)

var exportFlags struct {
	annotation          string
	cocoInstances       string
	inputDataJSON       string
	output              string
	clipToImage         bool
	taskIDs             []string
	inputDataIDs        []string
	labels              []string
	taskPhase           string
	taskStatus          string
	includeSegmentation bool
	rleCompressed       bool
}

var exportCocoCmd = &cobra.Command{
	Use:   "export-coco",
	Short: "Convert Annofab simple annotations to a COCO Instances document",
	Long: `Converts an Annofab simple annotation bundle (ZIP file or directory) into a
COCO Instances document. Categories come from --coco-instances. Images come from
--coco-instances too, or from an Annofab input data list when --input-data-json is given.

Bounding boxes and polygons become iscrowd=0 annotations. Segmentation annotations
become iscrowd=1 RLE annotations with --include-segmentation and are skipped otherwise.

List flags accept file://<path> to read one value per line.`,
	Args: cobra.NoArgs,
	RunE: runExportCoco,
}

func init() {
	f := exportCocoCmd.Flags()
	f.StringVar(&exportFlags.annotation, "annotation", "", "Annofab simple annotation ZIP file or directory")
	f.StringVar(&exportFlags.cocoInstances, "coco-instances", "", "COCO Instances JSON providing categories (and images)")
	f.StringVar(&exportFlags.inputDataJSON, "input-data-json", "", "Annofab input data list JSON to build the images from")
	f.StringVarP(&exportFlags.output, "output", "o", "", "output COCO Instances JSON")
	f.BoolVar(&exportFlags.clipToImage, "clip-to-image", false, "clip bounding boxes and polygons to the image")
	f.StringArrayVar(&exportFlags.taskIDs, "task-id", nil, "only convert these tasks")
	f.StringArrayVar(&exportFlags.inputDataIDs, "input-data-id", nil, "only convert these input data")
	f.StringArrayVar(&exportFlags.labels, "label", nil, "only convert these labels")
	f.StringVar(&exportFlags.taskPhase, "task-phase", "", "only convert tasks in this phase")
	f.StringVar(&exportFlags.taskStatus, "task-status", "", "only convert tasks with this status")
	f.BoolVar(&exportFlags.includeSegmentation, "include-segmentation", false,
		"convert segmentation annotations to RLE")
	f.BoolVar(&exportFlags.rleCompressed, "rle-compressed", false, "write RLE counts in compressed string form")

	for _, name := range []string{"annotation", "coco-instances", "output"} {
		_ = exportCocoCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(exportCocoCmd)
}

func runExportCoco(cmd *cobra.Command, _ []string) error {
	fl := exportFlags
	appLog.Section("Annofab to COCO")
	if err := expandListArgs(&fl.taskIDs, &fl.inputDataIDs, &fl.labels); err != nil {
		return err
	}

	instances, err := file.ReadInstances(fl.cocoInstances)
	if err != nil {
		return fmt.Errorf("read COCO instances: %w", err)
	}

	images := instances.Images
	if fl.inputDataJSON != "" {
		inputData, err := file.ReadInputDataList(fl.inputDataJSON)
		if err != nil {
			return fmt.Errorf("read input data list: %w", err)
		}
		if images, err = services.ImagesFromInputData(inputData); err != nil {
			return err
		}
	}

	converter, err := services.NewAnnofabToCocoConverter(instances.Categories, images, services.ExportOptions{
		TargetLabels:        fl.labels,
		ClipToImage:         fl.clipToImage,
		IncludeSegmentation: fl.includeSegmentation,
		CompressedRLE:       fl.rleCompressed,
		MaskCodec:           maskCodec,
	}, appLog)
	if err != nil {
		return err
	}

	b, err := openBundle(fl.annotation)
	if err != nil {
		return err
	}
	defer b.Close()

	result, err := converter.ConvertBundle(cmd.Context(), b, driving.UnitFilter{
		TaskIDs:      fl.taskIDs,
		InputDataIDs: fl.inputDataIDs,
		TaskPhase:    fl.taskPhase,
		TaskStatus:   fl.taskStatus,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	out := &domain.Instances{
		Images:      images,
		Annotations: result.Annotations,
		Categories:  instances.Categories,
	}
	if err := file.WriteInstances(fl.output, out); err != nil {
		return fmt.Errorf("write COCO instances: %w", err)
	}

	cmd.Printf("Wrote %d COCO annotations from %d/%d annotation files to %s\n",
		len(result.Annotations), result.SuccessCount, result.TotalCount, fl.output)
	return nil
}
