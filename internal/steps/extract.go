package steps

import (
	"context"
	"fmt"
)

const (
	// StepTypeExtract — тип шага извлечения данных.
	StepTypeExtract = "extract"

	// Ключи конфигурации extract.
	configSource = "source"
	configCount  = "count"
	configPrefix = "prefix"

	// defaultRecordCount — количество записей по умолчанию.
	defaultRecordCount = 10

	// defaultRecordPrefix — префикс записей по умолчанию.
	defaultRecordPrefix = "record"
)

// ExtractStep — шаг извлечения данных.
//
// Первая стадия конвейера: генерирует набор записей из указанного
// источника. Источник — произвольная строка-идентификатор; записи
// синтезируются как "{prefix}_{i}".
//
// Конфигурация:
//
//	{
//	    "source": "orders-db",  // идентификатор источника (обязателен)
//	    "count": 10,            // количество записей (по умолчанию 10)
//	    "prefix": "record"      // префикс записей (по умолчанию "record")
//	}
//
// Outputs:
//
//	{
//	    "source": "orders-db",
//	    "records": ["record_0", "record_1", ...],
//	    "count": 10
//	}
type ExtractStep struct{}

// NewExtractStep создаёт новый ExtractStep.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Type возвращает тип шага.
func (s *ExtractStep) Type() string {
	return StepTypeExtract
}

// Execute генерирует записи из источника.
func (s *ExtractStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	default:
	}

	source := GetConfigString(req.Config, configSource)
	if source == "" {
		return nil, fmt.Errorf("%w: %s: source required",
			ErrInvalidConfig, StepTypeExtract)
	}

	count := GetConfigInt(req.Config, configCount)
	if count <= 0 {
		count = defaultRecordCount
	}

	prefix := GetConfigString(req.Config, configPrefix)
	if prefix == "" {
		prefix = defaultRecordPrefix
	}

	records := make([]any, count)
	for i := 0; i < count; i++ {
		records[i] = fmt.Sprintf("%s_%d", prefix, i)
	}

	return &Response{
		Outputs: map[string]any{
			"source":  source,
			"records": records,
			"count":   count,
		},
	}, nil
}
