package steps

import "context"

// RunFunc — пользовательская функция выполнения task.
//
// Получает контекст и Request с отрендеренной конфигурацией,
// возвращает outputs или ошибку.
type RunFunc func(ctx context.Context, req *Request) (map[string]any, error)

// FuncStep — адаптер, превращающий произвольную функцию в Step.
//
// Используется для программной регистрации пользовательских типов tasks
// без объявления отдельного типа:
//
//	registry.Register(steps.NewFuncStep("notify", func(ctx context.Context, req *steps.Request) (map[string]any, error) {
//	    ...
//	}))
type FuncStep struct {
	stepType string
	fn       RunFunc
}

// NewFuncStep создаёт Step с заданным типом поверх функции.
func NewFuncStep(stepType string, fn RunFunc) *FuncStep {
	return &FuncStep{
		stepType: stepType,
		fn:       fn,
	}
}

// Type возвращает тип шага.
func (s *FuncStep) Type() string {
	return s.stepType
}

// Execute вызывает обёрнутую функцию.
func (s *FuncStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	outputs, err := s.fn(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewResponse(outputs), nil
}
