package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/steps"
)

// newTestOrchestrator создаёт оркестратор с пустым реестром,
// в который tasks добавляются через RegisterFunc.
func newTestOrchestrator() *Orchestrator {
	return New(Config{Registry: steps.NewRegistry()})
}

// succeed — функция выполнения, всегда успешная.
func succeed(ctx context.Context, req *steps.Request) (map[string]any, error) {
	return map[string]any{"done": true}, nil
}

// fail — функция выполнения, всегда падающая.
func fail(ctx context.Context, req *steps.Request) (map[string]any, error) {
	return nil, errors.New("boom")
}

func TestRun_AllSucceed(t *testing.T) {
	// A (без зависимостей), B (dep: A), C (dep: A)
	o := newTestOrchestrator()

	mustRegisterFunc(t, o, "A", nil, succeed)
	mustRegisterFunc(t, o, "B", []string{"A"}, succeed)
	mustRegisterFunc(t, o, "C", []string{"A"}, succeed)

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Succeeded() {
		t.Errorf("expected SUCCEEDED run, got %s", report.Status)
	}

	for _, name := range []string{"A", "B", "C"} {
		task := report.Task(name)
		if task.Status != domain.TaskStatusSucceeded {
			t.Errorf("task %s: expected SUCCEEDED, got %s", name, task.Status)
		}
		if !task.IsFinished() {
			t.Errorf("task %s should be terminal", name)
		}
	}

	stats := report.Stats()
	if stats.Total != 3 || stats.Succeeded != 3 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRun_FailureSkipsDependents(t *testing.T) {
	// A падает ⇒ B и C (оба зависят от A) — SKIPPED
	o := newTestOrchestrator()

	mustRegisterFunc(t, o, "A", nil, fail)
	mustRegisterFunc(t, o, "B", []string{"A"}, succeed)
	mustRegisterFunc(t, o, "C", []string{"A"}, succeed)

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Succeeded() {
		t.Error("run with failed task should not succeed")
	}

	taskA := report.Task("A")
	if taskA.Status != domain.TaskStatusFailed {
		t.Errorf("A: expected FAILED, got %s", taskA.Status)
	}
	if taskA.Error != "boom" {
		t.Errorf("A: expected recorded error, got %q", taskA.Error)
	}

	for _, name := range []string{"B", "C"} {
		task := report.Task(name)
		if task.Status != domain.TaskStatusSkipped {
			t.Errorf("task %s: expected SKIPPED, got %s", name, task.Status)
		}
		if task.StartedAt != nil {
			t.Errorf("task %s: skipped task must not execute", name)
		}
	}
}

func TestRun_SkipPropagatesTransitively(t *testing.T) {
	// A падает ⇒ B (dep: A) SKIPPED ⇒ C (dep: B) SKIPPED
	o := newTestOrchestrator()

	mustRegisterFunc(t, o, "A", nil, fail)
	mustRegisterFunc(t, o, "B", []string{"A"}, succeed)
	mustRegisterFunc(t, o, "C", []string{"B"}, succeed)

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Task("B").Status != domain.TaskStatusSkipped {
		t.Errorf("B: expected SKIPPED, got %s", report.Task("B").Status)
	}
	if report.Task("C").Status != domain.TaskStatusSkipped {
		t.Errorf("C: expected SKIPPED, got %s", report.Task("C").Status)
	}
}

func TestRun_FailureDoesNotAbortIndependentTasks(t *testing.T) {
	o := newTestOrchestrator()

	mustRegisterFunc(t, o, "A", nil, fail)
	mustRegisterFunc(t, o, "B", nil, succeed)

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Task("A").Status != domain.TaskStatusFailed {
		t.Errorf("A: expected FAILED, got %s", report.Task("A").Status)
	}
	if report.Task("B").Status != domain.TaskStatusSucceeded {
		t.Errorf("independent B should still run, got %s", report.Task("B").Status)
	}
}

func TestRun_RegistrationOrder(t *testing.T) {
	// Независимые tasks выполняются в порядке регистрации
	o := newTestOrchestrator()

	var executed []string
	record := func(name string) steps.RunFunc {
		return func(ctx context.Context, req *steps.Request) (map[string]any, error) {
			executed = append(executed, name)
			return nil, nil
		}
	}

	mustRegisterFunc(t, o, "third", nil, record("third"))
	mustRegisterFunc(t, o, "first", nil, record("first"))
	mustRegisterFunc(t, o, "second", nil, record("second"))

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"third", "first", "second"}
	if len(executed) != len(want) {
		t.Fatalf("expected %v, got %v", want, executed)
	}
	for i := range want {
		if executed[i] != want[i] {
			t.Fatalf("expected execution order %v, got %v", want, executed)
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	o := newTestOrchestrator()

	if err := o.Register(domain.NewTask("A", "delay", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := o.Register(domain.NewTask("A", "extract", nil))
	if !errors.Is(err, ErrDuplicateTask) {
		t.Errorf("expected ErrDuplicateTask, got %v", err)
	}
}

func TestRegister_EmptyName(t *testing.T) {
	o := newTestOrchestrator()

	if err := o.Register(domain.NewTask("", "delay", nil)); !errors.Is(err, ErrEmptyTaskName) {
		t.Errorf("expected ErrEmptyTaskName, got %v", err)
	}
	if err := o.Register(nil); !errors.Is(err, ErrEmptyTaskName) {
		t.Errorf("expected ErrEmptyTaskName for nil task, got %v", err)
	}
}

func TestRun_UnknownDependencyAbortsBeforeExecution(t *testing.T) {
	o := newTestOrchestrator()

	executed := false
	mustRegisterFunc(t, o, "A", nil, func(ctx context.Context, req *steps.Request) (map[string]any, error) {
		executed = true
		return nil, nil
	})
	mustRegisterFunc(t, o, "B", []string{"missing"}, succeed)

	_, err := o.Run(context.Background())
	if !errors.Is(err, engine.ErrUnknownDependency) {
		t.Fatalf("expected ErrUnknownDependency, got %v", err)
	}

	if executed {
		t.Error("no task should execute when validation fails")
	}
	for _, task := range o.Tasks() {
		if task.Status != domain.TaskStatusPending {
			t.Errorf("task %s: expected PENDING after aborted run, got %s", task.Name, task.Status)
		}
	}
}

func TestRun_CyclicDependencyAbortsBeforeExecution(t *testing.T) {
	// A→B→A
	o := newTestOrchestrator()

	executed := false
	watch := func(ctx context.Context, req *steps.Request) (map[string]any, error) {
		executed = true
		return nil, nil
	}

	mustRegisterFunc(t, o, "A", []string{"B"}, watch)
	mustRegisterFunc(t, o, "B", []string{"A"}, watch)

	_, err := o.Run(context.Background())
	if !errors.Is(err, engine.ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}

	if executed {
		t.Error("no task should reach RUNNING on cyclic dependency")
	}
	for _, task := range o.Tasks() {
		if task.Status != domain.TaskStatusPending {
			t.Errorf("task %s: expected PENDING, got %s", task.Name, task.Status)
		}
	}
}

func TestRun_SelfDependency(t *testing.T) {
	o := newTestOrchestrator()
	mustRegisterFunc(t, o, "A", []string{"A"}, succeed)

	_, err := o.Run(context.Background())
	if !errors.Is(err, engine.ErrSelfDependency) {
		t.Errorf("expected ErrSelfDependency, got %v", err)
	}
}

func TestRun_UnknownTaskType(t *testing.T) {
	o := newTestOrchestrator()

	if err := o.Register(domain.NewTask("A", "no-such-type", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := o.Run(context.Background())
	if !errors.Is(err, ErrUnknownTaskType) {
		t.Errorf("expected ErrUnknownTaskType, got %v", err)
	}
}

func TestRun_NoTasks(t *testing.T) {
	o := newTestOrchestrator()

	_, err := o.Run(context.Background())
	if !errors.Is(err, ErrNoTasks) {
		t.Errorf("expected ErrNoTasks, got %v", err)
	}
}

func TestRun_SecondRunRejected(t *testing.T) {
	o := newTestOrchestrator()
	mustRegisterFunc(t, o, "A", nil, succeed)

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := o.Run(context.Background())
	if !errors.Is(err, ErrAlreadyRan) {
		t.Errorf("expected ErrAlreadyRan, got %v", err)
	}
}

func TestRun_OutputsFlowBetweenTasks(t *testing.T) {
	o := newTestOrchestrator()

	mustRegisterFunc(t, o, "producer", nil, func(ctx context.Context, req *steps.Request) (map[string]any, error) {
		return map[string]any{"value": "42"}, nil
	})

	var got any
	mustRegisterFunc(t, o, "consumer", []string{"producer"}, func(ctx context.Context, req *steps.Request) (map[string]any, error) {
		got = req.Context.Outputs("producer")["value"]
		return nil, nil
	})

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Succeeded() {
		t.Fatalf("expected SUCCEEDED run, got %s", report.Status)
	}
	if got != "42" {
		t.Errorf("consumer should see producer outputs, got %v", got)
	}
}

func TestRun_ConfigRenderFailureFailsTask(t *testing.T) {
	o := New(Config{})

	task := domain.NewTask("T", "delay", map[string]any{
		"duration_ms": "{{ .Inputs.broken",
	})
	if err := o.Register(task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Task("T").Status != domain.TaskStatusFailed {
		t.Errorf("expected FAILED on render error, got %s", report.Task("T").Status)
	}
}

func TestRun_EveryTaskTerminal(t *testing.T) {
	// Смесь успехов, падений и пропусков — после Run нет
	// нетерминальных статусов
	o := newTestOrchestrator()

	mustRegisterFunc(t, o, "A", nil, succeed)
	mustRegisterFunc(t, o, "B", nil, fail)
	mustRegisterFunc(t, o, "C", []string{"A"}, succeed)
	mustRegisterFunc(t, o, "D", []string{"B"}, succeed)
	mustRegisterFunc(t, o, "E", []string{"C", "D"}, succeed)

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, task := range report.Tasks {
		if !task.Status.IsTerminal() {
			t.Errorf("task %s: non-terminal status %s after run", task.Name, task.Status)
		}
	}

	// E зависит от D (SKIPPED) — тоже SKIPPED
	if report.Task("E").Status != domain.TaskStatusSkipped {
		t.Errorf("E: expected SKIPPED, got %s", report.Task("E").Status)
	}

	stats := report.Stats()
	if stats.Succeeded != 2 || stats.Failed != 1 || stats.Skipped != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestFromSpec(t *testing.T) {
	spec := &domain.WorkflowSpec{
		Name: "etl",
		Inputs: map[string]domain.InputDef{
			"source": {Type: "string", Required: true},
			"marker": {Type: "string", Default: "record"},
		},
		Tasks: []domain.TaskDef{
			{Name: "extract", Type: "extract", Config: map[string]any{
				"source": "{{ .Inputs.source }}",
				"count":  4,
			}},
			{Name: "validate", Type: "validate", DependsOn: []string{"extract"}, Config: map[string]any{
				"task":     "extract",
				"contains": "{{ .Inputs.marker }}",
			}},
			{Name: "transform", Type: "transform", DependsOn: []string{"validate"}, Config: map[string]any{
				"mappings": map[string]any{
					"total": "{{ .Tasks.validate.Outputs.valid_count }}",
				},
			}},
		},
	}

	o, err := FromSpec(spec, Config{Inputs: map[string]any{"source": "orders-db"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Succeeded() {
		for _, task := range report.Tasks {
			t.Logf("task %s: %s %s", task.Name, task.Status, task.Error)
		}
		t.Fatalf("expected SUCCEEDED run, got %s", report.Status)
	}

	extract := report.Task("extract")
	if extract.Outputs["source"] != "orders-db" {
		t.Errorf("input should render into config, got %v", extract.Outputs["source"])
	}

	transform := report.Task("transform")
	if transform.Outputs["total"] != float64(4) {
		t.Errorf("expected total 4, got %v", transform.Outputs["total"])
	}
}

func TestFromSpec_MissingRequiredInput(t *testing.T) {
	spec := &domain.WorkflowSpec{
		Inputs: map[string]domain.InputDef{
			"source": {Type: "string", Required: true},
		},
		Tasks: []domain.TaskDef{
			{Name: "A", Type: "delay", Config: map[string]any{"duration_ms": 1}},
		},
	}

	_, err := FromSpec(spec, Config{})
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}
}

func TestFromSpec_InvalidSpec(t *testing.T) {
	spec := &domain.WorkflowSpec{
		Tasks: []domain.TaskDef{
			{Name: "A", Type: "delay"},
			{Name: "A", Type: "delay"},
		},
	}

	_, err := FromSpec(spec, Config{})
	if !errors.Is(err, engine.ErrDuplicateTask) {
		t.Errorf("expected engine.ErrDuplicateTask, got %v", err)
	}
}

func TestReport_TaskLookup(t *testing.T) {
	o := newTestOrchestrator()
	mustRegisterFunc(t, o, "A", nil, succeed)

	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Task("A") == nil {
		t.Error("expected task A in report")
	}
	if report.Task("missing") != nil {
		t.Error("expected nil for unknown task")
	}
	if report.RunID.String() == "" {
		t.Error("report should carry a run ID")
	}
}

// mustRegisterFunc регистрирует функцию-task и падает при ошибке.
func mustRegisterFunc(t *testing.T, o *Orchestrator, name string, deps []string, fn steps.RunFunc) {
	t.Helper()
	if err := o.RegisterFunc(name, deps, fn); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
}

// Пример из документации: конвейер extract → validate → transform.
func ExampleOrchestrator() {
	o := New(Config{
		Workflow: "etl",
		Inputs:   map[string]any{"source": "orders-db"},
	})

	o.Register(domain.NewTask("extract", "extract", map[string]any{
		"source": "{{ .Inputs.source }}",
		"count":  3,
	}))
	o.Register(domain.NewTask("validate", "validate", map[string]any{
		"task":     "extract",
		"contains": "record",
	}, "extract"))

	report, _ := o.Run(context.Background())
	fmt.Println(report.Status, report.Task("validate").Outputs["valid_count"])
	// Output: SUCCEEDED 3
}
