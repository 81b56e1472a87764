package steps

import (
	"context"
	"fmt"
	"strings"
)

const (
	// StepTypeValidate — тип шага валидации данных.
	StepTypeValidate = "validate"

	// Ключи конфигурации validate.
	configTask     = "task"
	configField    = "field"
	configContains = "contains"

	// defaultRecordsField — поле с записями по умолчанию.
	defaultRecordsField = "records"
)

// ValidateStep — шаг валидации данных.
//
// Вторая стадия конвейера: берёт записи из outputs предыдущего task
// и оставляет только те, что проходят проверку. Записи, не являющиеся
// строками, отбрасываются.
//
// Конфигурация:
//
//	{
//	    "task": "extract",      // имя task-источника (обязателен)
//	    "field": "records",     // поле в его outputs (по умолчанию "records")
//	    "contains": "record"    // подстрока, обязательная в валидной записи
//	}
//
// Outputs:
//
//	{
//	    "records": [...],       // валидные записи
//	    "valid_count": 9,
//	    "dropped_count": 1
//	}
type ValidateStep struct{}

// NewValidateStep создаёт новый ValidateStep.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Type возвращает тип шага.
func (s *ValidateStep) Type() string {
	return StepTypeValidate
}

// Execute фильтрует записи task-источника.
func (s *ValidateStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	default:
	}

	taskName := GetConfigString(req.Config, configTask)
	if taskName == "" {
		return nil, fmt.Errorf("%w: %s: task required",
			ErrInvalidConfig, StepTypeValidate)
	}

	field := GetConfigString(req.Config, configField)
	if field == "" {
		field = defaultRecordsField
	}

	outputs := req.Context.Outputs(taskName)
	if outputs == nil {
		return nil, fmt.Errorf("%w: %s: task %s has no recorded outputs",
			ErrInvalidConfig, StepTypeValidate, taskName)
	}

	records, ok := outputs[field].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: task %s output %s is not a list",
			ErrInvalidConfig, StepTypeValidate, taskName, field)
	}

	contains := GetConfigString(req.Config, configContains)

	valid := make([]any, 0, len(records))
	for _, record := range records {
		str, ok := record.(string)
		if !ok {
			continue
		}
		if contains != "" && !strings.Contains(str, contains) {
			continue
		}
		valid = append(valid, str)
	}

	return &Response{
		Outputs: map[string]any{
			"records":       valid,
			"valid_count":   len(valid),
			"dropped_count": len(records) - len(valid),
		},
	}, nil
}
