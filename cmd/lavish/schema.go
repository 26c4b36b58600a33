package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lavish/internal/driver"
	"lavish/internal/project"
	"lavish/schema"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [flags] <file.lavish|directory>...",
		Short: "Compile lavish sources and emit the schema document",
		Long: `Schema compiles the given sources as one unit and writes the resulting
schema document. Diagnostics go to stderr; nothing is written when the
sources have errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSchema,
	}
	cmd.Flags().String("format", "json", "document format (json|msgpack)")
	cmd.Flags().StringP("out", "o", "", "write the document to a file instead of stdout")
	compileFlags(cmd)
	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format := project.OutputFormat(formatStr)
	if format != project.FormatJSON && format != project.FormatMsgpack {
		return fmt.Errorf("unknown format: %s", formatStr)
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
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
	printDiagnostics(cmd, g, res.Bag, res.FileSet)
	printTimings(cmd, g, res.Timings)
	if !res.OK() {
		return errDiagnostics
	}
	return emitDocument(cmd, res.Schema.Document(), format, outPath)
}

// emitDocument encodes doc to path, or to stdout when path is empty. Files
// are replaced atomically.
func emitDocument(cmd *cobra.Command, doc *schema.Document, format project.OutputFormat, path string) error {
	if path == "" {
		return encodeDocument(cmd.OutOrStdout(), doc, format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".lavish-*")
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := encodeDocument(f, doc, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func encodeDocument(w io.Writer, doc *schema.Document, format project.OutputFormat) error {
	if format == project.FormatMsgpack {
		return doc.EncodeMsgpack(w)
	}
	return doc.EncodeJSON(w)
}
