// Package lavish compiles lavish IDL sources into a resolved, immutable
// schema.Schema.
//
// Every entry point returns either a complete schema or an *Error listing
// all diagnostics of the failed compilation; there is no partial result.
package lavish

import (
	"context"

	"lavish/internal/driver"
	"lavish/internal/version"
	"lavish/schema"
)

// Compile compiles a single source buffer. name labels positions.
func Compile(ctx context.Context, name string, src []byte, opts ...CompileOption) (*schema.Schema, error) {
	cfg := applyCompileOptions(opts)
	res, err := driver.Compile(ctx, name, src, cfg.driverOptions())
	return finish(res, err, cfg)
}

// CompileFiles compiles the files at paths as one unit: declarations in
// any file can reference declarations in the others and namespaces may be
// reopened across files.
func CompileFiles(ctx context.Context, paths []string, opts ...CompileOption) (*schema.Schema, error) {
	cfg := applyCompileOptions(opts)
	res, err := driver.CompileFiles(ctx, paths, cfg.driverOptions())
	return finish(res, err, cfg)
}

// CompileWorkspace locates lavish.toml in dir or one of its parents and
// compiles the files its members match.
func CompileWorkspace(ctx context.Context, dir string, opts ...CompileOption) (*schema.Schema, error) {
	cfg := applyCompileOptions(opts)
	res, err := driver.CompileWorkspace(ctx, dir, cfg.driverOptions())
	if res == nil {
		return finish(nil, err, cfg)
	}
	return finish(res.Result, err, cfg)
}

func (cfg compileOptions) driverOptions() driver.Options {
	opts := driver.Options{
		MaxDiagnostics:   cfg.maxDiagnostics,
		Jobs:             cfg.jobs,
		Logger:           cfg.logger,
		CompilerVersion:  version.Version,
		WarningsAsErrors: cfg.warningsAsErrors,
	}
	if cfg.cacheDir != "" {
		opts.Cache = driver.NewCache(cfg.cacheDir)
	}
	return opts
}

func finish(res *driver.Result, err error, cfg compileOptions) (*schema.Schema, error) {
	if err != nil {
		return nil, err
	}
	diags := convertDiagnostics(res.Bag.Items(), res.FileSet)
	if !res.OK() {
		return nil, &Error{Diagnostics: diags, Omitted: res.Bag.Omitted()}
	}
	if cfg.onDiagnostic != nil {
		for _, d := range diags {
			cfg.onDiagnostic(d)
		}
	}
	return res.Schema, nil
}
