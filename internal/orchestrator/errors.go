package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrDuplicateTask — task с таким именем уже зарегистрирован.
	ErrDuplicateTask = errors.New("task already registered")

	// ErrEmptyTaskName — task без имени не может быть зарегистрирован.
	ErrEmptyTaskName = errors.New("task has empty name")

	// ErrNoTasks — run без единого зарегистрированного task.
	ErrNoTasks = errors.New("no tasks registered")

	// ErrUnknownTaskType — тип task не зарегистрирован в реестре шагов.
	ErrUnknownTaskType = errors.New("unknown task type")

	// ErrAlreadyRan — оркестратор владеет tasks только на время одного
	// run'а; повторный Run на том же экземпляре запрещён.
	ErrAlreadyRan = errors.New("orchestrator already ran")

	// ErrMissingInput — обязательный входной параметр не передан.
	ErrMissingInput = errors.New("required input missing")
)
