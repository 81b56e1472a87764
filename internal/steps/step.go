package steps

import (
	"context"
	"errors"

	"github.com/shaiso/Conveyor/internal/engine"
)

// Ошибки шагов.
var (
	// ErrStepNotFound — тип шага не найден в реестре.
	ErrStepNotFound = errors.New("step type not found")

	// ErrInvalidConfig — невалидная конфигурация шага.
	ErrInvalidConfig = errors.New("invalid step config")

	// ErrStepCancelled — выполнение шага отменено.
	ErrStepCancelled = errors.New("step execution cancelled")
)

// Step — стратегия выполнения task.
//
// Каждый тип task (extract, validate, transform, delay) реализует этот
// интерфейс. Оркестратор подбирает реализацию по Task.Type через Registry
// и вызывает Execute внутри фиксированного жизненного цикла
// pre-check → execute → post-check.
type Step interface {
	// Type возвращает тип шага.
	Type() string

	// Execute выполняет шаг и возвращает результат.
	// Шаг должен проверять ctx.Done() в долгих операциях.
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Request — входные данные для выполнения шага.
type Request struct {
	// TaskName — имя task, для которого выполняется шаг.
	TaskName string

	// Config — конфигурация task (уже отрендеренная через engine.RenderConfig).
	Config map[string]any

	// Context — контекст run'а с inputs и результатами предыдущих tasks.
	Context *engine.Context
}

// Response — результат выполнения шага.
type Response struct {
	// Outputs — выходные данные шага.
	// Доступны следующим tasks через {{ .Tasks.taskName.Outputs.field }}.
	Outputs map[string]any
}

// NewRequest создаёт новый Request.
func NewRequest(taskName string, config map[string]any, runCtx *engine.Context) *Request {
	if config == nil {
		config = make(map[string]any)
	}
	if runCtx == nil {
		runCtx = engine.NewContext(nil)
	}
	return &Request{
		TaskName: taskName,
		Config:   config,
		Context:  runCtx,
	}
}

// NewResponse создаёт новый Response с outputs.
func NewResponse(outputs map[string]any) *Response {
	if outputs == nil {
		outputs = make(map[string]any)
	}
	return &Response{
		Outputs: outputs,
	}
}

// EmptyResponse возвращает пустой Response.
func EmptyResponse() *Response {
	return &Response{
		Outputs: make(map[string]any),
	}
}

// GetConfigString извлекает строковое значение из конфига.
func GetConfigString(config map[string]any, key string) string {
	if v, ok := config[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetConfigInt извлекает числовое значение из конфига.
func GetConfigInt(config map[string]any, key string) int {
	if v, ok := config[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetConfigSlice извлекает слайс из конфига.
func GetConfigSlice(config map[string]any, key string) []any {
	if v, ok := config[key]; ok {
		switch s := v.(type) {
		case []any:
			return s
		case []string:
			result := make([]any, len(s))
			for i, item := range s {
				result[i] = item
			}
			return result
		}
	}
	return nil
}

// GetConfigMap извлекает map из конфига.
func GetConfigMap(config map[string]any, key string) map[string]any {
	if v, ok := config[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}
