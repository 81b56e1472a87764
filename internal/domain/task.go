package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task — именованная единица работы внутри workflow.
//
// Identity task'а — уникальное в рамках одного run имя (Name).
// DependsOn перечисляет имена tasks, которые должны успешно завершиться
// до того, как этот task получит право на выполнение.
//
// Статус мутирует только оркестратор во время run'а. После завершения
// run'а task остаётся только носителем финального статуса и результата —
// никакого персистентного состояния нет.
type Task struct {
	// ID — уникальный идентификатор task (для логов и отчётов).
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя task в рамках workflow.
	Name string `json:"name"`

	// Type — тип task: "extract", "validate", "transform", "delay"
	// или любой пользовательский тип, зарегистрированный в steps.Registry.
	Type string `json:"type"`

	// DependsOn — имена tasks, от которых зависит этот task.
	// Порядок сохраняется как объявлен.
	DependsOn []string `json:"depends_on,omitempty"`

	// Config — конфигурация выполнения (зависит от типа).
	// Строковые значения могут содержать Go templates и рендерятся
	// перед выполнением через engine.RenderConfig.
	Config map[string]any `json:"config,omitempty"`

	// Status — текущий статус task.
	Status TaskStatus `json:"status"`

	// Outputs — результаты успешного выполнения.
	// Доступны следующим tasks через {{ .Tasks.X.Outputs.Y }}.
	Outputs map[string]any `json:"outputs,omitempty"`

	// Error — текст ошибки при FAILED или причина SKIPPED.
	Error string `json:"error,omitempty"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания task.
	CreatedAt time.Time `json:"created_at"`
}

// NewTask создаёт task в статусе PENDING.
func NewTask(name, taskType string, config map[string]any, dependsOn ...string) *Task {
	if config == nil {
		config = make(map[string]any)
	}
	return &Task{
		ID:        uuid.New(),
		Name:      name,
		Type:      taskType,
		DependsOn: dependsOn,
		Config:    config,
		Status:    TaskStatusPending,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0 для tasks, которые не выполнялись (PENDING, SKIPPED).
func (t *Task) Duration() time.Duration {
	if t.StartedAt == nil || t.FinishedAt == nil {
		return 0
	}
	return t.FinishedAt.Sub(*t.StartedAt)
}

// IsFinished возвращает true, если task в терминальном статусе.
func (t *Task) IsFinished() bool {
	return t.Status.IsTerminal()
}

// MarkRunning переводит task в статус RUNNING.
func (t *Task) MarkRunning() {
	now := time.Now()
	t.Status = TaskStatusRunning
	t.StartedAt = &now
}

// MarkSucceeded переводит task в статус SUCCEEDED с результатами.
func (t *Task) MarkSucceeded(outputs map[string]any) {
	now := time.Now()
	t.Status = TaskStatusSucceeded
	t.FinishedAt = &now
	t.Outputs = outputs
}

// MarkFailed переводит task в статус FAILED с ошибкой.
func (t *Task) MarkFailed(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.FinishedAt = &now
	t.Error = err
}

// MarkSkipped переводит task в статус SKIPPED с причиной.
// Task в SKIPPED никогда не выполнялся: StartedAt остаётся nil.
func (t *Task) MarkSkipped(reason string) {
	now := time.Now()
	t.Status = TaskStatusSkipped
	t.FinishedAt = &now
	t.Error = reason
}
