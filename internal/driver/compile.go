package driver

import (
	"context"
	"fmt"
	"slices"
	"time"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/observ"
	"lavish/internal/project"
	"lavish/internal/sema"
	"lavish/internal/source"
	"lavish/internal/symbols"
	"lavish/schema"
)

// Result holds every artefact of one compilation. Schema is set exactly
// when Bag has no errors; the intermediate fields are nil after a cache
// hit or when an earlier phase failed.
type Result struct {
	FileSet *source.FileSet
	Sources []source.FileID
	Bag     *diag.Bag

	Builder *ast.Builder
	Files   []ast.FileID
	Symbols *symbols.Result
	Sema    *sema.Result
	Schema  *schema.Schema

	Digest  project.Digest
	Cached  bool
	Timings *observ.Report
}

// OK reports whether a schema was produced.
func (r *Result) OK() bool { return r != nil && r.Schema != nil }

// Compile compiles one in-memory source buffer; name only labels
// diagnostics.
func Compile(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return compileUnit(ctx, fs, []source.FileID{id}, diag.NewBag(0), opts)
}

// CompileFiles loads paths and compiles them as one unit. Files are
// processed in sorted order; unreadable files become IO4001 diagnostics.
// The returned error is only set when ctx was cancelled.
func CompileFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	return compilePaths(ctx, paths, diag.NewBag(0), opts)
}

func compilePaths(ctx context.Context, paths []string, bag *diag.Bag, opts Options) (*Result, error) {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	fs := source.NewFileSet()
	ids := make([]source.FileID, 0, len(sorted))
	for _, path := range sorted {
		id, err := fs.Load(path)
		if err != nil {
			reportOutside(bag, diag.IOLoadFileError, fmt.Sprintf("failed to load file: %v", err))
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 && !bag.HasErrors() {
		reportOutside(bag, diag.IONoSources, "no source files to compile")
	}
	return compileUnit(ctx, fs, ids, bag, opts)
}

// reportOutside records a diagnostic that belongs to no source position.
func reportOutside(bag *diag.Bag, code diag.Code, msg string) {
	bag.Add(diag.NewError(code, source.Span{}, msg))
}

type pipeline struct {
	opts  Options
	timer *observ.Timer
	res   *Result
}

func (p *pipeline) begin(name string) (int, time.Time) {
	if p.opts.Observer != nil {
		p.opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	idx := -1
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	return idx, time.Now()
}

func (p *pipeline) end(name string, idx int, start time.Time, note string) {
	elapsed := time.Since(start)
	if p.timer != nil && idx >= 0 {
		p.timer.End(idx, note)
	}
	if p.opts.Observer != nil {
		p.opts.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed})
	}
	p.opts.Logger.Debug().
		Str("phase", name).
		Dur("elapsed", elapsed).
		Str("note", note).
		Int("diagnostics", p.res.Bag.Len()).
		Msg("phase finished")
}

// compileUnit runs the pipeline over already loaded files: parse every
// file, then register, resolve and assemble once for the whole unit.
func compileUnit(ctx context.Context, fs *source.FileSet, ids []source.FileID, bag *diag.Bag, opts Options) (*Result, error) {
	p := &pipeline{
		opts: opts,
		res:  &Result{FileSet: fs, Sources: ids, Bag: bag},
	}
	if opts.EnableTimings {
		p.timer = observ.NewTimer()
	}
	res := p.res
	log := opts.Logger

	if len(ids) == 0 {
		p.finish("")
		return res, nil
	}

	res.Digest = unitDigest(fs, ids, opts.CompilerVersion)
	if opts.Cache != nil && !bag.HasErrors() {
		idx, start := p.begin("cache")
		doc, hit, err := opts.Cache.Get(res.Digest)
		if err != nil {
			log.Warn().Err(err).Str("key", res.Digest.String()).Msg("schema cache read failed")
		}
		if hit {
			if s, loadErr := schema.Load(doc); loadErr == nil {
				res.Schema, res.Cached = s, true
			} else {
				log.Warn().Err(loadErr).Str("key", res.Digest.String()).Msg("cached schema is unusable")
			}
		}
		p.end("cache", idx, start, fmt.Sprintf("hit=%t", res.Cached))
		if res.Cached {
			p.finish(fs.Get(ids[0]).Path)
			return res, nil
		}
	}

	idx, start := p.begin("parse")
	builder, files, ok, err := parseFiles(ctx, fs, ids, bag, opts)
	p.end("parse", idx, start, fmt.Sprintf("files=%d", len(ids)))
	if err != nil {
		return res, err
	}
	res.Builder, res.Files = builder, files
	if !ok {
		p.finish(fs.Get(ids[0]).Path)
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	reporter := diag.BagReporter{Bag: bag}

	idx, start = p.begin("symbols")
	syms := symbols.Register(builder, files, symbols.RegisterOptions{
		Reporter: reporter,
		Validate: opts.Validate,
	})
	res.Symbols = &syms
	p.end("symbols", idx, start, fmt.Sprintf("symbols=%d", syms.Table.Symbols.Len()))

	idx, start = p.begin("sema")
	checked := sema.Check(builder, files, sema.Options{Reporter: reporter, Symbols: &syms})
	res.Sema = &checked
	p.end("sema", idx, start, fmt.Sprintf("functions=%d", len(checked.Functions)))

	if !bag.HasErrors() {
		idx, start = p.begin("schema")
		res.Schema = schema.Build(schema.Input{Builder: builder, Files: fs, Symbols: &syms, Sema: &checked})
		p.end("schema", idx, start, "")

		if opts.Cache != nil && bag.Len() == 0 {
			paths := make([]string, len(ids))
			for i, id := range ids {
				paths[i] = fs.Get(id).Path
			}
			if err := opts.Cache.Put(res.Digest, paths, res.Schema.Document()); err != nil {
				log.Warn().Err(err).Msg("schema cache write failed")
			}
		}
	}

	p.finish(fs.Get(ids[0]).Path)
	return res, nil
}

// finish applies the warning policy, sorts diagnostics, applies
// MaxDiagnostics and attaches timings. The bag is unlimited until here,
// so the cap only trims what is shown and the kept diagnostics are the
// first ones by position.
func (p *pipeline) finish(path string) {
	bag := p.res.Bag
	if p.opts.IgnoreWarnings {
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}
	if p.opts.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
		if bag.HasErrors() {
			p.res.Schema = nil
		}
	}
	bag.Sort()
	bag.Truncate(p.opts.MaxDiagnostics)

	if p.timer != nil {
		report := p.timer.Report()
		p.res.Timings = &report
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "unit",
			Path:    path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	p.opts.Logger.Debug().
		Int("errors", bag.ErrorCount()).
		Bool("schema", p.res.Schema != nil).
		Bool("cached", p.res.Cached).
		Msg("compilation finished")
}
