package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Report — итог одного run'а.
//
// Report ссылается на те же tasks, что были зарегистрированы: после
// завершения run'а каждый из них несёт терминальный статус, результат
// или ошибку.
type Report struct {
	// RunID — уникальный идентификатор run.
	RunID uuid.UUID `json:"run_id"`

	// Workflow — имя workflow (может быть пустым).
	Workflow string `json:"workflow,omitempty"`

	// Status — итоговый статус run: SUCCEEDED, если каждый task
	// завершился с SUCCEEDED, иначе FAILED.
	Status domain.RunStatus `json:"status"`

	// StartedAt — время начала выполнения.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время завершения.
	FinishedAt time.Time `json:"finished_at"`

	// Tasks — tasks run'а в порядке регистрации с финальными статусами.
	Tasks []*domain.Task `json:"tasks"`
}

// Stats — сводка статусов tasks одного run'а.
type Stats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// newReport создаёт отчёт для начинающегося run'а.
func newReport(workflow string, tasks []*domain.Task) *Report {
	return &Report{
		RunID:    uuid.New(),
		Workflow: workflow,
		Status:   domain.RunStatusPending,
		Tasks:    tasks,
	}
}

// markRunning фиксирует начало выполнения.
func (r *Report) markRunning() {
	r.Status = domain.RunStatusRunning
	r.StartedAt = time.Now()
}

// finalize выводит итоговый статус из статусов tasks.
func (r *Report) finalize() {
	r.FinishedAt = time.Now()

	r.Status = domain.RunStatusSucceeded
	for _, task := range r.Tasks {
		if task.Status != domain.TaskStatusSucceeded {
			r.Status = domain.RunStatusFailed
			return
		}
	}
}

// Duration возвращает продолжительность run'а.
func (r *Report) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded возвращает true, если run завершился успешно.
func (r *Report) Succeeded() bool {
	return r.Status == domain.RunStatusSucceeded
}

// Task возвращает task по имени или nil.
func (r *Report) Task(name string) *domain.Task {
	for _, task := range r.Tasks {
		if task.Name == name {
			return task
		}
	}
	return nil
}

// Stats возвращает сводку статусов tasks.
func (r *Report) Stats() Stats {
	stats := Stats{Total: len(r.Tasks)}
	for _, task := range r.Tasks {
		switch task.Status {
		case domain.TaskStatusSucceeded:
			stats.Succeeded++
		case domain.TaskStatusFailed:
			stats.Failed++
		case domain.TaskStatusSkipped:
			stats.Skipped++
		}
	}
	return stats
}
