package engine

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Conveyor/internal/domain"
)

// ParseWorkflow парсит WorkflowSpec из YAML и валидирует его.
//
// Возвращает ErrInvalidWorkflow, если документ не распарсился,
// или ошибку валидации из Validate.
func ParseWorkflow(data []byte) (*domain.WorkflowSpec, error) {
	var spec domain.WorkflowSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkflow, err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// Validate выполняет структурную валидацию WorkflowSpec.
//
// Проверяет:
//   - Наличие tasks
//   - Непустые имена и типы
//   - Уникальность имён tasks
//   - Валидность зависимостей (depends_on, включая self-dependency)
//
// Отсутствие циклов проверяется отдельно при построении графа
// (BuildGraph), известность типа — реестром шагов во время run'а.
func Validate(spec *domain.WorkflowSpec) error {
	if spec == nil || len(spec.Tasks) == 0 {
		return ErrEmptyTasks
	}

	taskNames := make(map[string]bool, len(spec.Tasks))

	for i := range spec.Tasks {
		task := &spec.Tasks[i]

		if err := validateTaskDef(task, taskNames); err != nil {
			return err
		}
	}

	return validateDependencies(spec.Tasks, taskNames)
}

// validateTaskDef валидирует одно определение task.
// taskNames — уже встреченные имена (для проверки уникальности).
func validateTaskDef(task *domain.TaskDef, taskNames map[string]bool) error {
	if task.Name == "" {
		return NewValidationError("", "name", "task has empty name", ErrEmptyTaskName)
	}

	if taskNames[task.Name] {
		return NewValidationError(task.Name, "name",
			fmt.Sprintf("duplicate task name: %s", task.Name), ErrDuplicateTask)
	}
	taskNames[task.Name] = true

	if task.Type == "" {
		return NewValidationError(task.Name, "type",
			"task has empty type", ErrEmptyTaskType)
	}

	for _, dep := range task.DependsOn {
		if dep == task.Name {
			return NewValidationError(task.Name, "depends_on",
				"task depends on itself", ErrSelfDependency)
		}
	}

	return nil
}

// validateDependencies проверяет, что все depends_on ссылаются на
// объявленные tasks.
func validateDependencies(tasks []domain.TaskDef, taskNames map[string]bool) error {
	for i := range tasks {
		task := &tasks[i]

		for _, dep := range task.DependsOn {
			if !taskNames[dep] {
				return NewValidationError(task.Name, "depends_on",
					fmt.Sprintf("depends on unknown task: %s", dep), ErrUnknownDependency)
			}
		}
	}

	return nil
}
