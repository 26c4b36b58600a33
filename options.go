package lavish

import (
	"github.com/rs/zerolog"
)

// CompileOption configures Compile, CompileFiles and CompileWorkspace.
type CompileOption interface{ apply(*compileOptions) }

type compileOptions struct {
	logger           zerolog.Logger
	jobs             int
	maxDiagnostics   int
	cacheDir         string
	warningsAsErrors bool
	onDiagnostic     func(Diagnostic)
}

type compileOptionFunc func(*compileOptions)

func (f compileOptionFunc) apply(cfg *compileOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithLogger routes pipeline debug traces to logger.
func WithLogger(logger zerolog.Logger) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.logger = logger
	})
}

// WithJobs bounds the number of files parsed concurrently; 0 selects
// GOMAXPROCS.
func WithJobs(n int) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.jobs = n
	})
}

// WithMaxDiagnostics caps the number of reported diagnostics. The cap
// never turns a failed compilation into a successful one.
func WithMaxDiagnostics(n int) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.maxDiagnostics = n
	})
}

// WithCacheDir keeps compiled schemas under dir and reuses them while the
// sources are unchanged.
func WithCacheDir(dir string) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.cacheDir = dir
	})
}

// WithWarningsAsErrors fails compilation on warnings.
func WithWarningsAsErrors(b bool) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.warningsAsErrors = b
	})
}

// WithDiagnosticHandler receives the warnings of a successful compilation.
// Failed compilations report everything through *Error instead.
func WithDiagnosticHandler(fn func(Diagnostic)) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.onDiagnostic = fn
	})
}

func applyCompileOptions(opts []CompileOption) compileOptions {
	cfg := compileOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}
