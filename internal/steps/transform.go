package steps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shaiso/Conveyor/internal/engine"
)

const (
	// StepTypeTransform — тип шага трансформации.
	StepTypeTransform = "transform"

	// Ключ конфигурации.
	configMappings = "mappings"
)

// TransformStep — шаг трансформации данных.
//
// Финальная стадия конвейера: применяет Go templates к результатам
// предыдущих tasks и собирает новые outputs.
//
// Конфигурация:
//
//	{
//	    "mappings": {
//	        "total": "{{ .Tasks.validate.Outputs.valid_count }}",
//	        "records": "{{ upper (json .Tasks.validate.Outputs.records) }}"
//	    }
//	}
//
// Результат каждого mapping парсится как JSON, если это возможно,
// иначе остаётся строкой:
//
//	{
//	    "total": 9,
//	    "records": ["RECORD_0", "RECORD_1", ...]
//	}
type TransformStep struct{}

// NewTransformStep создаёт новый TransformStep.
func NewTransformStep() *TransformStep {
	return &TransformStep{}
}

// Type возвращает тип шага.
func (s *TransformStep) Type() string {
	return StepTypeTransform
}

// Execute выполняет трансформацию данных.
func (s *TransformStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	default:
	}

	mappings := s.parseMappings(req.Config)
	if len(mappings) == 0 {
		return EmptyResponse(), nil
	}

	tmplCtx := req.Context
	if tmplCtx == nil {
		tmplCtx = engine.NewContext(nil)
	}

	outputs := make(map[string]any, len(mappings))
	for key, tmpl := range mappings {
		rendered, err := engine.Render(tmpl, tmplCtx)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", key, err)
		}

		outputs[key] = s.parseValue(rendered)
	}

	return &Response{Outputs: outputs}, nil
}

// parseMappings извлекает mappings из конфигурации.
func (s *TransformStep) parseMappings(config map[string]any) map[string]string {
	raw := config[configMappings]
	if raw == nil {
		return nil
	}

	switch m := raw.(type) {
	case map[string]string:
		return m

	case map[string]any:
		result := make(map[string]string, len(m))
		for key, val := range m {
			if str, ok := val.(string); ok {
				result[key] = str
			}
		}
		return result

	default:
		return nil
	}
}

// parseValue пытается распарсить строку как JSON.
// Если не получается — возвращает строку как есть.
func (s *TransformStep) parseValue(value string) any {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return parsed
	}
	return value
}
