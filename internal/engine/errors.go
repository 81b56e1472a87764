package engine

import "errors"

// Ошибки валидации WorkflowSpec.
var (
	// ErrEmptyTasks — workflow не содержит tasks.
	ErrEmptyTasks = errors.New("workflow spec has no tasks")

	// ErrEmptyTaskName — task не имеет имени.
	ErrEmptyTaskName = errors.New("task has empty name")

	// ErrDuplicateTask — несколько tasks с одинаковым именем.
	ErrDuplicateTask = errors.New("duplicate task name")

	// ErrUnknownDependency — task зависит от незарегистрированного task.
	ErrUnknownDependency = errors.New("task depends on unknown task")

	// ErrSelfDependency — task зависит от самого себя.
	ErrSelfDependency = errors.New("task depends on itself")

	// ErrCyclicDependency — обнаружен цикл в зависимостях.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrEmptyTaskType — task не имеет типа.
	ErrEmptyTaskType = errors.New("task has empty type")

	// ErrInvalidWorkflow — файл workflow не распарсился.
	ErrInvalidWorkflow = errors.New("invalid workflow definition")
)

// Ошибки рендеринга шаблонов.
var (
	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	TaskName string // имя task, где произошла ошибка
	Field    string // поле, вызвавшее ошибку
	Message  string // описание ошибки
	Err      error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.TaskName != "" {
		return "task " + e.TaskName + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(taskName, field, message string, err error) *ValidationError {
	return &ValidationError{
		TaskName: taskName,
		Field:    field,
		Message:  message,
		Err:      err,
	}
}
