// Package cli содержит команды CLI conveyor.
//
// Команды выполняют workflows прямо в процессе CLI — никакого сервера:
//   - run       — загрузить YAML workflow и выполнить его
//   - validate  — проверить файл и показать план выполнения
//
// Вывод — таблица (tabwriter) или JSON по флагу --json.
package cli
