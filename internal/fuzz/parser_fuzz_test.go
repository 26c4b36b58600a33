package fuzztests

import (
	"context"
	"testing"
	"time"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/driver"
	"lavish/internal/lexer"
	"lavish/internal/parser"
	"lavish/internal/source"
	"lavish/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.lavish", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(128)
		reporter := diag.BagReporter{Bag: bag}
		lx := lexer.New(file, lexer.Options{Reporter: reporter})
		builder := ast.NewBuilder(ast.Hints{}, nil)

		res := parser.ParseFile(lx, builder, parser.Options{Reporter: reporter})
		if res.OK == bag.HasErrors() {
			t.Fatalf("OK=%v but %d errors reported", res.OK, bag.ErrorCount())
		}
		if res.OK {
			if err := testkit.CheckSpanInvariants(builder, res.File, file); err != nil {
				t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		}
	})
}

// FuzzCompileNoHang runs the whole pipeline and checks that it finishes
// in time and that a schema is produced exactly when there are no errors.
func FuzzCompileNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("namespace a { struct A { b: b.B } } namespace b { struct B { a: a.A } }"))
	f.Add([]byte("namespace a { namespace a { struct a { a: a.a.a } } }"))
	f.Add([]byte("namespace n { server fn f() { server fn f() { client fn f() } } }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		type outcome struct {
			res *driver.Result
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			res, err := driver.Compile(ctx, "fuzz.lavish", input, driver.Options{MaxDiagnostics: 128, Validate: true})
			done <- outcome{res, err}
		}()

		select {
		case out := <-done:
			if out.err != nil {
				return // истёк таймаут внутри пайплайна
			}
			if out.res.OK() == out.res.Bag.HasErrors() {
				t.Fatalf("schema=%v with %d errors", out.res.OK(), out.res.Bag.ErrorCount())
			}
		case <-ctx.Done():
			t.Fatalf("compile hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
