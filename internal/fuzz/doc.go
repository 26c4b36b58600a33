// Package fuzztests houses Go fuzz harnesses for the lavish pipeline
// (source -> lexer -> parser -> symbols -> sema -> schema). They guard
// against panics, hangs and broken span invariants on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
