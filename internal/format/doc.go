// Package format re-emits a (possibly edited) syntax tree as text.
//
// Назначение: селективная печать. Чистые поддеревья копируются байт-в-байт
// из исходника, грязные собираются из клея (ключевые слова и пунктуация
// между детьми) и детей; списки аргументов пересобираются по слотам.
// Не делает: форматирование "с нуля", переиндентацию, IO.
// Зависимости: internal/ast, internal/source.
package format
