package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/afcoco/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/afcoco/internal/core/services"
)

var createTaskFlags struct {
	projectID     string
	inputDataJSON string
	inputDataIDs  []string
	tempDir       string
	yes           bool
}

var createTaskCmd = &cobra.Command{
	Use:   "create-task",
	Short: "Create one Annofab task per input data",
	Long: `Creates one task per input data with 'annofabcli task put'. The task ID is
the input data ID. Input data come from an input data list JSON (--input-data-json)
or are given directly (--input-data-id, which accepts file://<path>).`,
	Args: cobra.NoArgs,
	RunE: runCreateTask,
}

func init() {
	f := createTaskCmd.Flags()
	f.StringVar(&createTaskFlags.projectID, "project-id", "", "Annofab project ID")
	f.StringVar(&createTaskFlags.inputDataJSON, "input-data-json", "", "Annofab input data list JSON")
	f.StringArrayVar(&createTaskFlags.inputDataIDs, "input-data-id", nil, "input data IDs")
	f.StringVar(&createTaskFlags.tempDir, "temp-dir", "", "keep the annofabcli request file in this directory")
	f.BoolVarP(&createTaskFlags.yes, "yes", "y", false, "do not ask for confirmation")

	createTaskCmd.MarkFlagsOneRequired("input-data-json", "input-data-id")
	createTaskCmd.MarkFlagsMutuallyExclusive("input-data-json", "input-data-id")
	rootCmd.AddCommand(createTaskCmd)
}

func runCreateTask(cmd *cobra.Command, _ []string) error {
	fl := createTaskFlags
	if err := expandListArgs(&fl.inputDataIDs); err != nil {
		return err
	}
	project, err := projectID(fl.projectID)
	if err != nil {
		return err
	}

	ids := fl.inputDataIDs
	if fl.inputDataJSON != "" {
		inputData, err := file.ReadInputDataList(fl.inputDataJSON)
		if err != nil {
			return fmt.Errorf("read input data list: %w", err)
		}
		ids = services.InputDataIDs(inputData)
	}
	if len(ids) == 0 {
		return errors.New("no input data to create tasks for")
	}

	question := fmt.Sprintf("Create %d tasks in project %s?", len(ids), project)
	if err := confirmOrSkip(cmd.OutOrStdout(), fl.yes, question); err != nil {
		return err
	}

	platform := newPlatformService(platformOptions(fl.tempDir), appLog)
	if err := platform.PutTasks(cmd.Context(), project, ids); err != nil {
		return fmt.Errorf("create task failed: %w", err)
	}

	cmd.Printf("Created %d tasks in project %s\n", len(ids), project)
	return nil
}
