// Package orchestrator выполняет workflows.
//
// Orchestrator собирает tasks (Register/FromSpec), валидирует граф
// зависимостей через engine и последовательно проводит каждый task
// через фиксированный жизненный цикл pre-check → execute → post-check,
// обновляя статус на каждом шаге. Ошибка одного task не прерывает run:
// его зависимые получают SKIPPED, остальные выполняются.
//
// Один экземпляр — один run. Результат возвращается как Report.
package orchestrator
