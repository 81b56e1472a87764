package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
)

// NewValidateCmd создаёт команду проверки workflow без выполнения.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate WORKFLOW_FILE",
		Short: "Validate a workflow file and show its execution plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			// ParseWorkflow включает структурную валидацию
			spec, err := loadWorkflow(args[0])
			if err != nil {
				return err
			}

			// Циклы ловит построение графа
			tasks := make([]*domain.Task, 0, len(spec.Tasks))
			for i := range spec.Tasks {
				tasks = append(tasks, spec.Tasks[i].Task())
			}

			graph, err := engine.BuildGraph(tasks)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow is valid: %d tasks", graph.Size()))

			headers := []string{"#", "TASK", "TYPE", "DEPENDS_ON"}
			rows := make([][]string, len(graph.Order))
			for i, node := range graph.Order {
				rows[i] = []string{
					fmt.Sprintf("%d", i+1),
					node.Name,
					node.Task.Type,
					strings.Join(node.Task.DependsOn, ", "),
				}
			}
			out.Print(headers, rows, spec)

			return nil
		},
	}
}
