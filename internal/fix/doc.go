// Package fix applies structural edits to a parsed unit.
//
// Операции ставятся в очередь Session и применяются строго по порядку к
// закрытой копии дерева; Fix либо возвращает весь новый текст, либо ошибку
// без частичного результата. Исходный ast.Unit никогда не меняется.
package fix
