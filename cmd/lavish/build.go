package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lavish/internal/driver"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [directory]",
		Short: "Build the workspace described by lavish.toml",
		Long: `Build looks for lavish.toml in the given directory (default: the current
one) or its parents, compiles every workspace member and writes the schema
document to [output].path in [output].format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
	compileFlags(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, g)
	if err != nil {
		return err
	}

	res, err := driver.CompileWorkspace(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, g, res.Bag, res.FileSet)
	printTimings(cmd, g, res.Timings)
	if !res.OK() {
		return errDiagnostics
	}

	m := res.Manifest
	out := m.OutputPath()
	if err := emitDocument(cmd, res.Schema.Document(), m.Output.Format, out); err != nil {
		return err
	}
	if !g.quiet && out != "" {
		cached := ""
		if res.Cached {
			cached = " (cached)"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "built %s: %d declarations -> %s%s\n",
			m.Name, len(res.Schema.Paths()), out, cached)
	}
	return nil
}
