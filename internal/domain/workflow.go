package domain

// WorkflowSpec — декларативное определение workflow.
//
// Это "рецепт" для Conveyor: какие tasks выполнить и в каком порядке
// (порядок выводится из зависимостей). Спецификация загружается из YAML
// или собирается программно, валидируется engine.Validate и передаётся
// оркестратору.
type WorkflowSpec struct {
	// Version — версия формата спецификации (для обратной совместимости).
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Name — имя workflow (например, "sync-orders", "daily-report").
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Description — описание назначения workflow.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Inputs — входные параметры workflow.
	// Ключ — имя параметра, значение — его определение.
	Inputs map[string]InputDef `yaml:"inputs,omitempty" json:"inputs,omitempty"`

	// Tasks — список tasks для выполнения.
	// Порядок объявления используется как tie-break при равной
	// глубине зависимостей.
	Tasks []TaskDef `yaml:"tasks" json:"tasks"`
}

// InputDef — определение входного параметра.
type InputDef struct {
	// Type — тип параметра: "string", "number", "boolean", "object".
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Required — обязательный ли параметр.
	Required bool `yaml:"required,omitempty" json:"required,omitempty"`

	// Default — значение по умолчанию.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`

	// Description — описание параметра.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// TaskDef — определение task в workflow.
type TaskDef struct {
	// Name — уникальное имя task в рамках workflow.
	// Используется в depends_on и для ссылок на результаты.
	Name string `yaml:"name" json:"name"`

	// Type — тип task: "extract", "validate", "transform", "delay"
	// или пользовательский тип.
	Type string `yaml:"type" json:"type"`

	// DependsOn — имена tasks, от которых зависит этот task.
	// Task начнёт выполнение только после успешного завершения
	// всех зависимостей.
	DependsOn []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`

	// Config — конфигурация task (зависит от типа).
	// Для delay: duration_sec / duration_ms
	// Для transform: mappings
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

// Task создаёт Task в статусе PENDING из определения.
func (d *TaskDef) Task() *Task {
	return NewTask(d.Name, d.Type, d.Config, d.DependsOn...)
}
