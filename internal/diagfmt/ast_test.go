package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/lexer"
	"lavish/internal/parser"
	"lavish/internal/source"
)

const dumpSource = `namespace chat {
  struct Message {
    body: string,
    tags: map<string, array<u8>>,
  }
  enum Mood { Happy, Sad }
  server fn send(msg: Message) -> (id: u64) {
    client fn confirm(ok: bool)
  }
}
`

func parseForDump(t *testing.T) (*ast.Builder, ast.FileID, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("dump.lavish", []byte(dumpSource))
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(lx, builder, parser.Options{Reporter: reporter})
	if !res.OK || bag.HasErrors() {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return builder, res.File, fs
}

func TestFormatASTPretty(t *testing.T) {
	builder, fileID, fs := parseForDump(t)
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, builder, fileID, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"File dump.lavish",
		"└─ namespace chat (span: 1:1-",
		"   ├─ struct Message (span: 2:3-",
		"   │  ├─ field body: string",
		"   │  └─ field tags: map<string, array<u8>>",
		"   ├─ enum Mood",
		"   │  ├─ variant Happy",
		"   └─ server fn send",
		"      ├─ param msg: Message",
		"      ├─ result id: u64",
		"      └─ client fn confirm",
		"         └─ param ok: bool",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatASTJSON(t *testing.T) {
	builder, fileID, _ := parseForDump(t)
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, builder, fileID); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if root.Type != "File" || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	ns := root.Children[0]
	if ns.Type != "Namespace" || ns.Name != "chat" || len(ns.Children) != 3 {
		t.Fatalf("namespace = %+v", ns)
	}
	send := ns.Children[2]
	if send.Type != "Fn" || send.Kind != "server" || len(send.Children) != 3 {
		t.Fatalf("send = %+v", send)
	}
	if nested := send.Children[2]; nested.Kind != "client" || nested.Name != "confirm" {
		t.Fatalf("nested = %+v", nested)
	}
}

func TestFormatASTUnknownFile(t *testing.T) {
	builder, _, fs := parseForDump(t)
	if err := FormatASTPretty(&bytes.Buffer{}, builder, ast.FileID(42), fs); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.lavish", []byte("// Chat.\nnamespace chat {}"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	toks := lx.All()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	out := pretty.String()
	for _, want := range []string{"  1: 2:1-2:10", "KwNamespace", `"namespace"`, `doc: "Chat."`, "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 5 || decoded[0].Doc != "Chat." || decoded[4].Kind != "EOF" {
		t.Fatalf("tokens = %+v", decoded)
	}
}
