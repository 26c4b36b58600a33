package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/lexer"
	"lavish/internal/parser"
	"lavish/internal/source"
)

type parsedFile struct {
	builder *ast.Builder
	bag     *diag.Bag
	ok      bool
}

// parseFiles parses every file of the unit. With more than one file and
// Jobs != 1 the files are parsed concurrently into private builders that
// share one interner, then absorbed into the first builder in input
// order, so ids and diagnostics do not depend on scheduling. The error is
// only set when ctx is cancelled.
func parseFiles(ctx context.Context, fs *source.FileSet, ids []source.FileID, bag *diag.Bag, opts Options) (*ast.Builder, []ast.FileID, bool, error) {
	strs := source.NewInterner()
	hints := ast.Hints{Files: uint(len(ids))}

	if len(ids) == 1 || opts.Jobs == 1 {
		builder := ast.NewBuilder(hints, strs)
		reporter := diag.BagReporter{Bag: bag}
		files := make([]ast.FileID, 0, len(ids))
		ok := true
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, nil, false, err
			}
			lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
			res := parser.ParseFile(lx, builder, parser.Options{Reporter: reporter})
			files = append(files, res.File)
			ok = ok && res.OK
		}
		return builder, files, ok, nil
	}

	results := make([]parsedFile, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	limit := opts.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local := diag.NewBag(0)
			reporter := diag.BagReporter{Bag: local}
			builder := ast.NewBuilder(ast.Hints{Files: 1}, strs)
			lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
			res := parser.ParseFile(lx, builder, parser.Options{Reporter: reporter})
			results[i] = parsedFile{builder: builder, bag: local, ok: res.OK}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, false, err
	}

	builder := ast.NewBuilder(hints, strs)
	files := make([]ast.FileID, 0, len(ids))
	ok := true
	for _, r := range results {
		bag.Merge(r.bag)
		files = append(files, builder.Absorb(r.builder)...)
		ok = ok && r.ok
	}
	return builder, files, ok, nil
}
