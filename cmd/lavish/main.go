package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lavish/internal/prof"
	"lavish/internal/version"
)

// Коды выхода: 1 - в исходниках есть ошибки, 2 - сам запуск не удался
// (флаги, чтение файлов, запись вывода).
const (
	exitDiagnostics = 1
	exitUsage       = 2
)

// exitError carries a process exit code through cobra's RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// errDiagnostics is returned when compilation reported errors; they are
// already printed.
var errDiagnostics = &exitError{code: exitDiagnostics}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lavish",
		Short:         "Lavish schema compiler",
		Long:          `Lavish compiles .lavish interface definitions into a checked schema`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	root.PersistentFlags().String("log-level", "warn", "log level (trace|debug|info|warn|error|disabled)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to `file`")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to `file` on exit")
	root.PersistentFlags().String("trace-out", "", "write a runtime trace to `file`")

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newCheckCmd(),
		newSchemaCmd(),
		newBuildCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	var session *prof.Session
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		var err error
		session, err = startProfiling(cmd)
		return err
	}
	err := root.ExecuteContext(ctx)
	if session != nil {
		if stopErr := session.Stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("failed to write profiles: %w", stopErr)
		}
	}
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(root.ErrOrStderr(), "lavish:", exit.err)
		}
		return exit.code
	}
	fmt.Fprintln(root.ErrOrStderr(), "lavish:", err)
	return exitUsage
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("trace-out"); err != nil {
		return nil, fmt.Errorf("failed to get trace-out flag: %w", err)
	}
	if opts == (prof.Options{}) {
		return nil, nil
	}
	return prof.Start(opts)
}
