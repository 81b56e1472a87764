package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/orchestrator"
)

// NewRunCmd создаёт команду выполнения workflow.
func NewRunCmd(outputFn func() *Output) *cobra.Command {
	var inputs []string

	cmd := &cobra.Command{
		Use:   "run WORKFLOW_FILE",
		Short: "Execute a workflow from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			spec, err := loadWorkflow(args[0])
			if err != nil {
				return err
			}

			inputValues, err := parseInputs(inputs)
			if err != nil {
				return err
			}

			orc, err := orchestrator.FromSpec(spec, orchestrator.Config{
				Inputs: inputValues,
			})
			if err != nil {
				return err
			}

			report, err := orc.Run(cmd.Context())
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Run %s finished: %s (%s)",
				report.RunID, report.Status, report.Duration().Round(time.Millisecond)))

			headers := []string{"TASK", "TYPE", "STATUS", "DURATION", "ERROR"}
			rows := make([][]string, len(report.Tasks))
			for i, task := range report.Tasks {
				rows[i] = []string{
					task.Name,
					task.Type,
					out.StatusCell(task.Status),
					task.Duration().Round(time.Millisecond).String(),
					task.Error,
				}
			}
			out.Print(headers, rows, report)

			if !report.Succeeded() {
				return fmt.Errorf("run finished with status %s", report.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&inputs, "input", nil, "Input values as KEY=VALUE (repeatable)")

	return cmd
}

// loadWorkflow читает и парсит файл workflow.
func loadWorkflow(path string) (*domain.WorkflowSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	return engine.ParseWorkflow(data)
}

// parseInputs разбирает флаги --input KEY=VALUE.
func parseInputs(inputs []string) (map[string]any, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	values := make(map[string]any, len(inputs))
	for _, kv := range inputs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid input format %q, expected KEY=VALUE", kv)
		}
		values[parts[0]] = parts[1]
	}
	return values, nil
}
