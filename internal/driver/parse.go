package driver

import (
	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/lexer"
	"lavish/internal/parser"
	"lavish/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
	OK      bool
}

// Parse parses the file at path without resolving it.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	return parseOne(fs, fileID, maxDiagnostics), nil
}

// ParseSource parses an in-memory buffer.
func ParseSource(name string, content []byte, maxDiagnostics int) *ParseResult {
	fs := source.NewFileSet()
	return parseOne(fs, fs.AddVirtual(name, content), maxDiagnostics)
}

func parseOne(fs *source.FileSet, id source.FileID, maxDiagnostics int) *ParseResult {
	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	result := parser.ParseFile(lx, builder, parser.Options{Reporter: reporter})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
		OK:      result.OK,
	}
}
