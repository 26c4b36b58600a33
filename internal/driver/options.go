package driver

import (
	"github.com/rs/zerolog"
)

// Options control one compilation.
type Options struct {
	// MaxDiagnostics caps how many diagnostics Result.Bag keeps after
	// sorting; 0 means unlimited. Errors past the cap still fail the
	// compilation and are counted by Bag.ErrorCount.
	MaxDiagnostics int
	// Jobs bounds parallel parsing in multi-file units; <= 0 selects
	// GOMAXPROCS.
	Jobs int
	// Logger receives debug traces of the pipeline. The zero value
	// discards everything.
	Logger zerolog.Logger
	// EnableTimings records phase durations into Result.Timings and an
	// OBS6001 info diagnostic.
	EnableTimings bool
	Observer      PhaseObserver
	// Cache, if set, short-circuits units compiled before.
	Cache *Cache
	// CompilerVersion is mixed into cache keys.
	CompilerVersion string

	IgnoreWarnings   bool
	WarningsAsErrors bool
	// Validate runs the symbol table invariant checks after registration.
	Validate bool
}
