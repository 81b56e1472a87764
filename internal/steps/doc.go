// Package steps содержит стратегии выполнения tasks.
//
// Step — интерфейс-стратегия; Registry сопоставляет Task.Type с
// реализацией. Встроенные шаги:
//   - extract   — генерация записей из источника
//   - validate  — фильтрация записей предыдущего task
//   - transform — трансформация данных через Go templates
//   - delay     — пауза с поддержкой отмены через context
//
// Пользовательские типы регистрируются в Registry напрямую или через
// адаптер FuncStep.
package steps
