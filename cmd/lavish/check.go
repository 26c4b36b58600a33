package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lavish/internal/diag"
	"lavish/internal/diagfmt"
	"lavish/internal/driver"
	"lavish/internal/project"
	"lavish/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.lavish|directory>...",
		Short: "Check lavish sources and report diagnostics",
		Long: `Check compiles the given files, and every .lavish file under the given
directories, as one unit and reports all diagnostics. It exits with status 1
when any error was found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in json output")
	compileFlags(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", pathModeStr)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, g)
	if err != nil {
		return err
	}
	paths, err := collectSources(args)
	if err != nil {
		return err
	}

	res, err := driver.CompileFiles(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		printDiagnostics(cmd, g, res.Bag, res.FileSet)
		printTimings(cmd, g, res.Timings)
		if !g.quiet {
			printSummary(cmd, res)
		}
	case "short":
		diagfmt.Short(out, res.Bag, res.FileSet, pathMode)
	case "json":
		err = diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              g.maxDiagnostics,
			IncludeNotes:     withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	}
	if err != nil {
		return err
	}
	if !res.OK() {
		return errDiagnostics
	}
	return nil
}

func printSummary(cmd *cobra.Command, res *driver.Result) {
	warnings := 0
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevWarning {
			warnings++
		}
	}
	out := cmd.ErrOrStderr()
	if res.OK() {
		fmt.Fprintf(out, "ok: %d files, %d declarations, %d warnings\n",
			len(res.Sources), len(res.Schema.Paths()), warnings)
		return
	}
	fmt.Fprintf(out, "failed: %d errors, %d warnings\n", res.Bag.ErrorCount(), warnings)
	if n := res.Bag.Omitted(); n > 0 {
		fmt.Fprintf(out, "note: %d more diagnostics not shown (see --max-diagnostics)\n", n)
	}
}

// collectSources expands directories to the .lavish files below them.
// Plain file arguments are kept even with another extension; missing
// files are left for the compiler to report.
func collectSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == project.SourceExt {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}
	return out, nil
}
