// Package engine содержит движок построения плана выполнения workflow.
//
// Включает:
//   - parser.go   — парсинг WorkflowSpec из YAML и структурная валидация
//   - dag.go      — построение графа зависимостей и топологическая сортировка
//   - template.go — рендеринг Go templates ({{ .Inputs.x }}, {{ .Tasks.y.Outputs.z }})
//
// Engine отвечает за понимание структуры workflow и определение
// детерминированного порядка выполнения tasks на основе их зависимостей.
// Само выполнение — задача пакета orchestrator.
package engine
