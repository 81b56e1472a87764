package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/steps"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// Orchestrator выполняет один run набора tasks.
//
// Жизненный цикл:
//   - Register / RegisterFunc — регистрация tasks (до Run)
//   - Run — валидация графа и последовательное выполнение tasks
//     в топологическом порядке; независимые tasks идут в порядке
//     регистрации
//
// Orchestrator владеет tasks на время одного run'а и не рассчитан на
// конкурентное использование. После Run tasks несут свои финальные
// статусы, никакого другого состояния не остаётся.
type Orchestrator struct {
	workflow string
	registry *steps.Registry
	inputs   map[string]any
	logger   *slog.Logger

	tasks []*domain.Task
	index map[string]*domain.Task
	ran   bool
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Workflow — имя workflow (для логов и отчёта).
	Workflow string

	// Registry — реестр шагов. По умолчанию steps.DefaultRegistry().
	Registry *steps.Registry

	// Inputs — входные параметры run'а, доступные в шаблонах
	// через {{ .Inputs.x }}.
	Inputs map[string]any

	// Logger — структурный логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	registry := cfg.Registry
	if registry == nil {
		registry = steps.DefaultRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		workflow: cfg.Workflow,
		registry: registry,
		inputs:   cfg.Inputs,
		logger:   logger,
		tasks:    make([]*domain.Task, 0),
		index:    make(map[string]*domain.Task),
	}
}

// FromSpec создаёт Orchestrator из валидированного WorkflowSpec.
//
// Входные параметры собираются из cfg.Inputs поверх значений по
// умолчанию из spec.Inputs; отсутствие обязательного параметра —
// ErrMissingInput. Имя workflow берётся из spec, если не задано в cfg.
func FromSpec(spec *domain.WorkflowSpec, cfg Config) (*Orchestrator, error) {
	if err := engine.Validate(spec); err != nil {
		return nil, err
	}

	inputs, err := mergeInputs(spec.Inputs, cfg.Inputs)
	if err != nil {
		return nil, err
	}
	cfg.Inputs = inputs

	if cfg.Workflow == "" {
		cfg.Workflow = spec.Name
	}

	o := New(cfg)
	for i := range spec.Tasks {
		if err := o.Register(spec.Tasks[i].Task()); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// mergeInputs накладывает переданные значения на значения по умолчанию
// и проверяет обязательные параметры.
func mergeInputs(defs map[string]domain.InputDef, provided map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(defs)+len(provided))

	for name, def := range defs {
		if def.Default != nil {
			merged[name] = def.Default
		}
	}
	for name, value := range provided {
		merged[name] = value
	}

	for name, def := range defs {
		if def.Required {
			if _, ok := merged[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
			}
		}
	}

	return merged, nil
}

// Register добавляет task в run.
//
// Возвращает ErrDuplicateTask, если task с таким именем уже
// зарегистрирован, и ErrEmptyTaskName для task без имени.
func (o *Orchestrator) Register(task *domain.Task) error {
	if task == nil || task.Name == "" {
		return ErrEmptyTaskName
	}

	if _, exists := o.index[task.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, task.Name)
	}

	o.tasks = append(o.tasks, task)
	o.index[task.Name] = task
	return nil
}

// RegisterFunc регистрирует task с пользовательской функцией выполнения.
//
// Функция оборачивается в steps.FuncStep с типом "func.{name}" и
// регистрируется в реестре этого оркестратора.
func (o *Orchestrator) RegisterFunc(name string, dependsOn []string, fn steps.RunFunc) error {
	stepType := "func." + name
	o.registry.Register(steps.NewFuncStep(stepType, fn))
	return o.Register(domain.NewTask(name, stepType, nil, dependsOn...))
}

// Tasks возвращает зарегистрированные tasks в порядке регистрации.
func (o *Orchestrator) Tasks() []*domain.Task {
	tasks := make([]*domain.Task, len(o.tasks))
	copy(tasks, o.tasks)
	return tasks
}

// Run выполняет все зарегистрированные tasks.
//
// До какого-либо выполнения проверяется, что все типы известны реестру
// и что граф зависимостей валиден (нет неизвестных зависимостей и
// циклов) — любая из этих ошибок прерывает run, ни один task не
// переходит в RUNNING.
//
// Дальше tasks выполняются строго последовательно в топологическом
// порядке. Ошибка выполнения task не прерывает run: task получает
// FAILED, его зависимые — SKIPPED, независимые tasks продолжают
// выполняться. После возврата каждый task в терминальном статусе.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if o.ran {
		return nil, ErrAlreadyRan
	}
	o.ran = true

	if len(o.tasks) == 0 {
		return nil, ErrNoTasks
	}

	for _, task := range o.tasks {
		if !o.registry.Has(task.Type) {
			return nil, fmt.Errorf("%w: %s (task %s)", ErrUnknownTaskType, task.Type, task.Name)
		}
	}

	graph, err := engine.BuildGraph(o.tasks)
	if err != nil {
		return nil, err
	}

	report := newReport(o.workflow, o.tasks)
	logger := telemetry.WithRunID(o.logger, report.RunID.String())
	if o.workflow != "" {
		logger = logger.With("workflow", o.workflow)
	}

	report.markRunning()
	logger.Info("run started", "tasks", graph.Size())

	runCtx := engine.NewContext(o.inputs)

	for _, node := range graph.Order {
		o.runTask(ctx, logger, node.Task, runCtx)
		telemetry.ObserveTask(string(node.Task.Status))
	}

	report.finalize()
	telemetry.ObserveRun(string(report.Status), report.Duration())

	stats := report.Stats()
	logger.Info("run finished",
		"status", report.Status,
		"duration_ms", report.Duration().Milliseconds(),
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
	)

	return report, nil
}

// runTask проводит task через фиксированный жизненный цикл:
// pre-check (гейт зависимостей, рендеринг конфигурации) → execute →
// post-check (фиксация результата и статуса).
func (o *Orchestrator) runTask(ctx context.Context, logger *slog.Logger, task *domain.Task, runCtx *engine.Context) {
	// pre-check: все зависимости должны завершиться с SUCCEEDED.
	// Зависимости идут раньше в топологическом порядке, поэтому
	// к этому моменту все они в терминальном статусе.
	if blocker := o.blockingDependency(task); blocker != nil {
		reason := fmt.Sprintf("dependency %s finished with %s", blocker.Name, blocker.Status)
		task.MarkSkipped(reason)
		runCtx.AddTaskResult(task.Name, nil, string(domain.TaskStatusSkipped))
		logger.Info("task skipped", "task", task.Name, "reason", reason)
		return
	}

	// pre-check: рендеринг конфигурации по результатам предыдущих tasks
	config, err := engine.RenderConfig(task.Config, runCtx)
	if err != nil {
		o.failTask(logger, task, runCtx, fmt.Sprintf("render config: %v", err))
		return
	}

	// Тип проверен до начала run'а
	step, err := o.registry.Get(task.Type)
	if err != nil {
		o.failTask(logger, task, runCtx, err.Error())
		return
	}

	task.MarkRunning()
	logger.Info("task started", "task", task.Name, "type", task.Type)

	resp, err := step.Execute(ctx, steps.NewRequest(task.Name, config, runCtx))

	// post-check: фиксация результата
	if err != nil {
		o.failTask(logger, task, runCtx, err.Error())
		return
	}

	var outputs map[string]any
	if resp != nil {
		outputs = resp.Outputs
	}
	if outputs == nil {
		outputs = make(map[string]any)
	}

	task.MarkSucceeded(outputs)
	runCtx.AddTaskResult(task.Name, outputs, string(domain.TaskStatusSucceeded))
	logger.Info("task succeeded",
		"task", task.Name,
		"duration_ms", task.Duration().Milliseconds(),
	)
}

// failTask фиксирует ошибку выполнения task.
// Ошибка не распространяется: run продолжается, зависимые tasks будут
// пропущены гейтом зависимостей.
func (o *Orchestrator) failTask(logger *slog.Logger, task *domain.Task, runCtx *engine.Context, errMsg string) {
	task.MarkFailed(errMsg)
	runCtx.AddTaskResult(task.Name, nil, string(domain.TaskStatusFailed))
	logger.Error("task failed", "task", task.Name, "error", errMsg)
}

// blockingDependency возвращает первую зависимость, завершившуюся
// не с SUCCEEDED, или nil, если все зависимости успешны.
func (o *Orchestrator) blockingDependency(task *domain.Task) *domain.Task {
	for _, depName := range task.DependsOn {
		dep := o.index[depName]
		if dep.Status != domain.TaskStatusSucceeded {
			return dep
		}
	}
	return nil
}
