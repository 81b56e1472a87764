// Package telemetry — структурное логирование и метрики.
//
// Логирование настраивается через переменные окружения LOG_LEVEL и
// LOG_FORMAT. Метрики выполнения (runs/tasks по статусам, длительность
// run'ов) регистрируются в глобальном реестре prometheus.
package telemetry
