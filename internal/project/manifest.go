package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// OutputFormat selects the encoding of the schema document written by
// `lavish build`.
type OutputFormat string

const (
	FormatJSON    OutputFormat = "json"
	FormatMsgpack OutputFormat = "msgpack"
)

// Manifest is a decoded lavish.toml.
type Manifest struct {
	Path    string // absolute path of lavish.toml
	Dir     string // directory member globs are relative to
	Name    string
	Members []string
	Output  Output
}

type Output struct {
	Format OutputFormat
	Path   string // relative to Dir; empty means stdout
}

var (
	// ErrWorkspaceSectionMissing indicates that [workspace] is missing.
	ErrWorkspaceSectionMissing = errors.New("missing [workspace]")
	// ErrNoMembers indicates that [workspace].members is missing or empty.
	ErrNoMembers = errors.New("missing [workspace].members")
)

type manifestFile struct {
	Workspace struct {
		Name    string   `toml:"name"`
		Members []string `toml:"members"`
	} `toml:"workspace"`
	Output struct {
		Format string `toml:"format"`
		Path   string `toml:"path"`
	} `toml:"output"`
}

// LoadManifest parses and validates lavish.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	var cfg manifestFile
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", abs, undecoded[0].String())
	}
	if !meta.IsDefined("workspace") {
		return nil, fmt.Errorf("%s: %w", abs, ErrWorkspaceSectionMissing)
	}

	m := &Manifest{
		Path: abs,
		Dir:  filepath.Dir(abs),
		Name: strings.TrimSpace(cfg.Workspace.Name),
	}
	if m.Name == "" {
		m.Name = filepath.Base(m.Dir)
	}
	for _, member := range cfg.Workspace.Members {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		if filepath.IsAbs(member) {
			return nil, fmt.Errorf("%s: invalid member %q: must be relative", abs, member)
		}
		if _, err := filepath.Match(member, ""); err != nil {
			return nil, fmt.Errorf("%s: invalid member %q: %w", abs, member, err)
		}
		m.Members = append(m.Members, member)
	}
	if len(m.Members) == 0 {
		return nil, fmt.Errorf("%s: %w", abs, ErrNoMembers)
	}

	switch format := OutputFormat(strings.TrimSpace(cfg.Output.Format)); format {
	case "":
		m.Output.Format = FormatJSON
	case FormatJSON, FormatMsgpack:
		m.Output.Format = format
	default:
		return nil, fmt.Errorf("%s: unsupported [output].format %q (want json or msgpack)", abs, cfg.Output.Format)
	}
	m.Output.Path = strings.TrimSpace(cfg.Output.Path)
	if m.Output.Path != "" && filepath.IsAbs(m.Output.Path) {
		return nil, fmt.Errorf("%s: invalid [output].path %q: must be relative", abs, m.Output.Path)
	}
	return m, nil
}

// OutputPath returns the absolute output path, or "" for stdout.
func (m *Manifest) OutputPath() string {
	if m.Output.Path == "" {
		return ""
	}
	return filepath.Join(m.Dir, filepath.FromSlash(m.Output.Path))
}
