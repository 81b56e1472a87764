package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// Context — контекст для рендеринга шаблонов.
//
// Используется в Go templates для доступа к данным run'а:
//   - {{ .Inputs.param_name }}
//   - {{ .Tasks.task_name.Outputs.field }}
type Context struct {
	// Inputs — входные параметры run.
	Inputs map[string]any `json:"inputs"`

	// Tasks — результаты завершившихся tasks.
	Tasks map[string]*TaskContext `json:"tasks"`
}

// TaskContext — результат выполнения task для использования в шаблонах.
type TaskContext struct {
	// Outputs — выходные данные task.
	Outputs map[string]any `json:"outputs"`

	// Status — терминальный статус: "SUCCEEDED", "FAILED", "SKIPPED".
	Status string `json:"status"`
}

// NewContext создаёт новый контекст с входными параметрами.
func NewContext(inputs map[string]any) *Context {
	if inputs == nil {
		inputs = make(map[string]any)
	}
	return &Context{
		Inputs: inputs,
		Tasks:  make(map[string]*TaskContext),
	}
}

// AddTaskResult добавляет результат выполнения task в контекст.
func (c *Context) AddTaskResult(name string, outputs map[string]any, status string) {
	if outputs == nil {
		outputs = make(map[string]any)
	}
	c.Tasks[name] = &TaskContext{
		Outputs: outputs,
		Status:  status,
	}
}

// Outputs возвращает outputs завершившегося task.
// Возвращает nil, если task ещё не завершился или не записал результат.
func (c *Context) Outputs(name string) map[string]any {
	if tc, ok := c.Tasks[name]; ok {
		return tc.Outputs
	}
	return nil
}

// templateFuncs — дополнительные функции для шаблонов.
var templateFuncs = template.FuncMap{
	// json — сериализует значение в JSON строку
	"json": func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return string(b)
	},

	// fromJSON — парсит JSON строку
	"fromJSON": func(s string) any {
		var result any
		if err := json.Unmarshal([]byte(s), &result); err != nil {
			return nil
		}
		return result
	},

	// default — возвращает значение по умолчанию, если первый аргумент пустой
	"default": func(def, val any) any {
		if val == nil {
			return def
		}
		if s, ok := val.(string); ok && s == "" {
			return def
		}
		return val
	},

	// join — объединяет слайс строк
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},

	// split — разбивает строку на слайс
	"split": func(sep, s string) []string {
		return strings.Split(s, sep)
	},

	// contains — проверяет, содержит ли строка подстроку
	"contains": strings.Contains,

	// lower — приводит к нижнему регистру
	"lower": strings.ToLower,

	// upper — приводит к верхнему регистру
	"upper": strings.ToUpper,

	// trim — удаляет пробелы по краям
	"trim": strings.TrimSpace,

	// replace — заменяет подстроку
	"replace": strings.ReplaceAll,
}

// Render рендерит строковый шаблон с контекстом.
//
// Шаблон может содержать Go template выражения:
//
//	{{ .Inputs.param }}
//	{{ .Tasks.extract.Outputs.count }}
//	{{ if eq .Tasks.validate.Status "SUCCEEDED" }}...{{ end }}
func Render(tmpl string, ctx *Context) (string, error) {
	// Строки без шаблонных выражений возвращаем как есть
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Funcs(templateFuncs).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}

// RenderValue рендерит произвольное значение.
// Рекурсивно обрабатывает map и slice.
func RenderValue(value any, ctx *Context) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case string:
		return Render(v, ctx)

	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			rendered, err := RenderValue(val, ctx)
			if err != nil {
				return nil, err
			}
			result[key] = rendered
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			rendered, err := RenderValue(val, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = rendered
		}
		return result, nil

	case map[string]string:
		result := make(map[string]string, len(v))
		for key, val := range v {
			rendered, err := Render(val, ctx)
			if err != nil {
				return nil, err
			}
			result[key] = rendered
		}
		return result, nil

	case []string:
		result := make([]string, len(v))
		for i, val := range v {
			rendered, err := Render(val, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = rendered
		}
		return result, nil

	default:
		// Остальные типы (int, float, bool) возвращаем как есть
		return value, nil
	}
}

// RenderConfig рендерит конфигурацию task.
// Это обёртка над RenderValue для map[string]any.
func RenderConfig(config map[string]any, ctx *Context) (map[string]any, error) {
	if config == nil {
		return make(map[string]any), nil
	}

	rendered, err := RenderValue(config, ctx)
	if err != nil {
		return nil, err
	}

	result, ok := rendered.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map, got %T", ErrTemplateRender, rendered)
	}

	return result, nil
}
