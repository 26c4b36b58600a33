package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lavish/internal/version"
	"lavish/schema"
)

type versionPayload struct {
	Tool            string `json:"tool"`
	Version         string `json:"version"`
	DocumentVersion uint16 `json:"document_version"`
	GitCommit       string `json:"git_commit,omitempty"`
	BuildDate       string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show lavish build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			payload := versionPayload{
				Tool:            "lavish",
				Version:         valueOrUnknown(version.Version),
				DocumentVersion: schema.DocumentVersion,
				GitCommit:       strings.TrimSpace(version.GitCommit),
				BuildDate:       strings.TrimSpace(version.BuildDate),
			}
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), payload, g.color)
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer, p versionPayload, color bool) {
	v := p.Version
	if color {
		v = version.Colored()
	}
	fmt.Fprintf(out, "lavish %s (schema document v%d)\n", v, p.DocumentVersion)
	if p.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
