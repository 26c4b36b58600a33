package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lavish/internal/diag"
	"lavish/internal/diagfmt"
	"lavish/internal/driver"
	"lavish/internal/observ"
	"lavish/internal/source"
	"lavish/internal/version"
)

// globalFlags are the persistent root flags of one invocation.
type globalFlags struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	logger         zerolog.Logger
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		g.color = true
	case "off":
		g.color = false
	case "auto":
		g.color = isTerminal(cmd.ErrOrStderr())
	default:
		return g, fmt.Errorf("unknown color mode: %s", colorFlag)
	}

	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	levelFlag, err := flags.GetString("log-level")
	if err != nil {
		return g, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		return g, fmt.Errorf("invalid log level %q: %w", levelFlag, err)
	}
	g.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    !g.color,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
	return g, nil
}

// isTerminal проверяет, является ли вывод терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// compileFlags registers the flags shared by check, schema and build.
func compileFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Int("jobs", 0, "max parallel parser workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse schemas of unchanged inputs from the user cache directory")
}

func driverOptions(cmd *cobra.Command, g globalFlags) (driver.Options, error) {
	opts := driver.Options{
		MaxDiagnostics:  g.maxDiagnostics,
		Logger:          g.logger,
		EnableTimings:   g.timings,
		CompilerVersion: version.Version,
	}
	var err error
	if opts.IgnoreWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if opts.WarningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.IgnoreWarnings && opts.WarningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return opts, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache {
		cache, cacheErr := driver.OpenCache("lavish")
		if cacheErr != nil {
			// без кеша компиляция всё равно работает
			g.logger.Warn().Err(cacheErr).Msg("schema cache disabled")
		} else {
			opts.Cache = cache
			g.logger.Debug().Str("dir", cache.Dir()).Msg("schema cache enabled")
		}
	}
	return opts, nil
}

// printDiagnostics renders bag to stderr in the pretty format, leaving the
// timing payload to printTimings.
func printDiagnostics(cmd *cobra.Command, g globalFlags, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	shown := bag
	if g.timings {
		shown = diag.NewBag(0)
		shown.Merge(bag)
		shown.Filter(func(d diag.Diagnostic) bool { return d.Code != diag.ObsTimings })
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), shown, fs, diagfmt.PrettyOpts{
		Color:     g.color,
		Context:   2,
		ShowNotes: true,
	})
}

func printTimings(cmd *cobra.Command, g globalFlags, report *observ.Report) {
	if !g.timings || report == nil {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "timings:")
	for _, phase := range report.Phases {
		fmt.Fprintf(out, "  %-12s %8.2f ms", phase.Name, phase.DurationMS)
		if phase.Note != "" {
			fmt.Fprintf(out, "  (%s)", phase.Note)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  %-12s %8.2f ms\n", "total", report.TotalMS)
}
