package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/afcoco/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/afcoco/internal/core/services"
)

var createInputDataFlags struct {
	cocoInstances  string
	imageDir       string
	projectID      string
	imageFileNames []string
	tempDir        string
	yes            bool
}

var createInputDataCmd = &cobra.Command{
	Use:   "create-input-data",
	Short: "Register the images of a COCO document as Annofab input data",
	Long: `Registers every image of a COCO Instances document as an Annofab input data
with 'annofabcli input_data put'. The input data ID and name are the image file_name
and the file is read from --image-dir.`,
	Args: cobra.NoArgs,
	RunE: runCreateInputData,
}

func init() {
	f := createInputDataCmd.Flags()
	f.StringVar(&createInputDataFlags.cocoInstances, "coco-instances", "", "COCO Instances JSON")
	f.StringVar(&createInputDataFlags.imageDir, "image-dir", "", "directory holding the image files")
	f.StringVar(&createInputDataFlags.projectID, "project-id", "", "Annofab project ID")
	f.StringArrayVar(&createInputDataFlags.imageFileNames, "image-file-name", nil, "only register these image file names")
	f.StringVar(&createInputDataFlags.tempDir, "temp-dir", "", "keep the annofabcli request files in this directory")
	f.BoolVarP(&createInputDataFlags.yes, "yes", "y", false, "do not ask for confirmation")

	for _, name := range []string{"coco-instances", "image-dir"} {
		_ = createInputDataCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(createInputDataCmd)
}

func runCreateInputData(cmd *cobra.Command, _ []string) error {
	fl := createInputDataFlags
	if err := expandListArgs(&fl.imageFileNames); err != nil {
		return err
	}
	project, err := projectID(fl.projectID)
	if err != nil {
		return err
	}

	instances, err := file.ReadInstances(fl.cocoInstances)
	if err != nil {
		return fmt.Errorf("read COCO instances: %w", err)
	}
	images := services.FilterImagesByFileName(instances.Images, fl.imageFileNames)
	if len(images) == 0 {
		cmd.Println("No images to register.")
		return nil
	}

	question := fmt.Sprintf("Register %d images as input data in project %s?", len(images), project)
	if err := confirmOrSkip(cmd.OutOrStdout(), fl.yes, question); err != nil {
		return err
	}

	platform := newPlatformService(platformOptions(fl.tempDir), appLog)
	if err := platform.PutInputData(cmd.Context(), project, images, fl.imageDir); err != nil {
		return fmt.Errorf("create input data failed: %w", err)
	}

	cmd.Printf("Registered %d input data in project %s\n", len(images), project)
	return nil
}
