package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"lavish/internal/diag"
	"lavish/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	content := []byte("namespace n { struct S { x: \"oops }\n")
	fileID := fs.Add("/home/user/project/src/test.lavish", content, 0)

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Span{File: fileID, Start: 28, End: 36}, "unterminated string"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "absolute", mode: PathModeAbsolute, contains: "/home/user/project/src/test.lavish:1:29"},
		{name: "relative", mode: PathModeRelative, contains: "src/test.lavish:1:29"},
		{name: "basename", mode: PathModeBasename, contains: "test.lavish:1:29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()
			for _, want := range []string{tt.contains, "ERROR", "LEX1002", "unterminated string"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	src := "namespace n {\n  struct S { x: Foo }\n}\n"
	fileID := fs.AddVirtual("s.lavish", []byte(src))
	start := uint32(strings.Index(src, "Foo"))

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaUnresolvedType, source.Span{File: fileID, Start: start, End: start + 3}, "unresolved type 'Foo'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	want := strings.Join([]string{
		"s.lavish:2:17: ERROR SEM3002: unresolved type 'Foo'",
		"1 | namespace n {",
		"2 |   struct S { x: Foo }",
		"  |                 ^~~",
		"3 | }",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyCaretUsesDisplayWidth(t *testing.T) {
	fs := source.NewFileSet()
	// комментарий с широкими символами перед ошибкой
	src := "/* 日本 */ ?"
	fileID := fs.AddVirtual("w.lavish", []byte(src))
	start := uint32(strings.Index(src, "?"))

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{File: fileID, Start: start, End: start + 1}, "unknown character '?'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	// "/* 日本 */ " занимает 11 колонок терминала
	if want := "  | " + strings.Repeat(" ", 11) + "^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyNotesAndUnlocated(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("d.lavish", []byte("namespace n {\n  struct A {}\n  struct A {}\n}\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: missing.lavish"))
	bag.Add(diag.NewError(diag.SemaDuplicateDeclaration, source.Span{File: fileID, Start: 37, End: 38}, "duplicate declaration of 'A'").
		WithNote(source.Span{File: fileID, Start: 23, End: 24}, "previous declaration here"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	output := buf.String()
	for _, want := range []string{
		"ERROR IO4001: failed to load file: missing.lavish\n",
		"d.lavish:3:10: ERROR SEM3001: duplicate declaration of 'A'",
		"note: d.lavish:2:10: previous declaration here",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in:\n%s", want, output)
		}
	}
	if strings.Contains(output, "d.lavish:1:1") {
		t.Fatalf("unlocated diagnostic must not point at the first file:\n%s", output)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.lavish", []byte("?"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.SemaNestedSameRole, source.Span{File: fileID, Start: 0, End: 1}, "w"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("s.lavish", []byte("namespace n { struct S { x: Foo } }"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.ProjMemberNotFound, source.Span{}, "member \"x/*\" matches nothing"))
	bag.Add(diag.NewError(diag.SemaUnresolvedType, source.Span{File: fileID, Start: 28, End: 31}, "unresolved\ntype 'Foo'"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeAuto)
	want := "error PRJ5002: member \"x/*\" matches nothing\n" +
		"s.lavish:1:29: error SEM3002: unresolved type 'Foo'\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
