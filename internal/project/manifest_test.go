package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, `
[workspace]
name = "chat"
members = ["schema/*.lavish", "extra"]

[output]
format = "msgpack"
path = "build/chat.schema"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "chat" || m.Dir != dir {
		t.Fatalf("manifest = %+v", m)
	}
	if !slices.Equal(m.Members, []string{"schema/*.lavish", "extra"}) {
		t.Fatalf("members = %v", m.Members)
	}
	if m.Output.Format != FormatMsgpack {
		t.Fatalf("format = %q", m.Output.Format)
	}
	if want := filepath.Join(dir, "build", "chat.schema"); m.OutputPath() != want {
		t.Fatalf("OutputPath = %q, want %q", m.OutputPath(), want)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, "[workspace]\nmembers = [\"a.lavish\"]\n")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != filepath.Base(dir) {
		t.Fatalf("name defaults to the directory, got %q", m.Name)
	}
	if m.Output.Format != FormatJSON || m.OutputPath() != "" {
		t.Fatalf("output = %+v", m.Output)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{name: "no workspace", content: "[output]\nformat = \"json\"\n", wantErr: ErrWorkspaceSectionMissing},
		{name: "no members", content: "[workspace]\nname = \"x\"\n", wantErr: ErrNoMembers},
		{name: "blank members", content: "[workspace]\nmembers = [\"  \"]\n", wantErr: ErrNoMembers},
		{name: "absolute member", content: "[workspace]\nmembers = [\"/etc/*.lavish\"]\n", wantMsg: "must be relative"},
		{name: "bad glob", content: "[workspace]\nmembers = [\"[\"]\n", wantMsg: "invalid member"},
		{name: "bad format", content: "[workspace]\nmembers = [\"a\"]\n[output]\nformat = \"yaml\"\n", wantMsg: "unsupported [output].format"},
		{name: "unknown key", content: "[workspace]\nmembers = [\"a\"]\nmember = 1\n", wantMsg: "unknown key"},
		{name: "broken toml", content: "[workspace\n", wantMsg: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestResolveMembers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "schema", "b.lavish"), "")
	writeFile(t, filepath.Join(dir, "schema", "a.lavish"), "")
	writeFile(t, filepath.Join(dir, "schema", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "extra", "deep", "c.lavish"), "")

	m := &Manifest{Dir: dir, Members: []string{"schema/*", "extra", "schema/a.lavish", "missing/*.lavish"}}
	files, unmatched, err := m.ResolveMembers()
	if err != nil {
		t.Fatalf("ResolveMembers: %v", err)
	}
	want := []string{
		filepath.Join(dir, "extra", "deep", "c.lavish"),
		filepath.Join(dir, "schema", "a.lavish"),
		filepath.Join(dir, "schema", "b.lavish"),
	}
	if !slices.Equal(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	if !slices.Equal(unmatched, []string{"missing/*.lavish"}) {
		t.Fatalf("unmatched = %v", unmatched)
	}
}

func TestResolveMembersRejectsEscape(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ws")
	writeFile(t, filepath.Join(root, "outside.lavish"), "")
	m := &Manifest{Dir: dir, Members: []string{"../*.lavish"}}
	if _, _, err := m.ResolveMembers(); err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Fatalf("err = %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestName), "[workspace]\nmembers=[\"x\"]\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	root, ok, err := FindWorkspaceRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindWorkspaceRoot: ok=%v err=%v", ok, err)
	}
	if root != dir {
		t.Fatalf("root = %q, want %q", root, dir)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := StringDigest("a"), StringDigest("b")
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("Combine must be deterministic")
	}
	if !(Digest{}).IsZero() || a.IsZero() {
		t.Fatalf("IsZero")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest length = %d", len(a.String()))
	}
}
