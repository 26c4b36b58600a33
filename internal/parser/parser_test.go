package parser_test

import (
	"strings"
	"testing"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/lexer"
	"lavish/internal/parser"
	"lavish/internal/source"
	"lavish/internal/testkit"
)

type parsed struct {
	builder *ast.Builder
	file    *ast.File
	bag     *diag.Bag
	fs      *source.FileSet
	ok      bool
}

// parseSource разбирает строку и возвращает все артефакты
func parseSource(t *testing.T, input string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.lavish", []byte(input))
	bag := diag.NewBag(16)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
	return parsed{builder: b, file: b.Files.Get(res.File), bag: bag, fs: fs, ok: res.OK}
}

func mustParse(t *testing.T, input string) parsed {
	t.Helper()
	p := parseSource(t, input)
	if !p.ok || p.bag.Len() != 0 {
		t.Fatalf("unexpected parse failure:\n%s", diag.FormatGoldenDiagnostics(p.bag.Items(), p.fs, true))
	}
	return p
}

func (p parsed) name(id ast.ItemID) string {
	return p.builder.Name(id)
}

func (p parsed) str(id source.StringID) string {
	return p.builder.StringsInterner.MustLookup(id)
}

func TestParseLayeredFixture(t *testing.T) {
	src := `namespace layered {
    // Logs a user in.
    server fn login() -> (ok: bool) {
        client fn challenge(input: string) -> (hashed: string)
    }
}
`
	p := mustParse(t, src)
	if len(p.file.Namespaces) != 1 {
		t.Fatalf("want 1 namespace, got %d", len(p.file.Namespaces))
	}
	nsID := p.file.Namespaces[0]
	if got := p.name(nsID); got != "layered" {
		t.Fatalf("namespace name = %q", got)
	}
	ns := p.builder.Items.Namespace(nsID)
	if len(ns.Items) != 1 {
		t.Fatalf("want 1 item, got %d", len(ns.Items))
	}

	loginID := ns.Items[0]
	login := p.builder.Items.Fn(loginID)
	if login == nil {
		t.Fatalf("item is not a function")
	}
	if login.Role != ast.RoleServer || p.name(loginID) != "login" {
		t.Fatalf("login: role=%v name=%q", login.Role, p.name(loginID))
	}
	if doc := p.builder.Items.Get(loginID).Doc; doc != "Logs a user in." {
		t.Fatalf("login doc = %q", doc)
	}
	if len(login.Params) != 0 || len(login.Results) != 1 {
		t.Fatalf("login params=%d results=%d", len(login.Params), len(login.Results))
	}
	if p.str(login.Results[0].Name) != "ok" {
		t.Fatalf("result name = %q", p.str(login.Results[0].Name))
	}
	if expr := p.builder.Types.Get(login.Results[0].Type); expr.Kind != ast.TypeExprPrimitive || expr.Prim != ast.PrimBool {
		t.Fatalf("result type = %+v", expr)
	}

	if len(login.Nested) != 1 {
		t.Fatalf("want 1 nested fn, got %d", len(login.Nested))
	}
	chID := login.Nested[0]
	ch := p.builder.Items.Fn(chID)
	if ch.Role != ast.RoleClient || p.name(chID) != "challenge" {
		t.Fatalf("challenge: role=%v name=%q", ch.Role, p.name(chID))
	}
	if len(ch.Params) != 1 || p.str(ch.Params[0].Name) != "input" {
		t.Fatalf("challenge params = %+v", ch.Params)
	}
	if len(ch.Results) != 1 || p.str(ch.Results[0].Name) != "hashed" {
		t.Fatalf("challenge results = %+v", ch.Results)
	}
}

func TestParseFnWithoutParamsResultsBody(t *testing.T) {
	p := mustParse(t, "namespace admin { server fn shutdown() }")
	ns := p.builder.Items.Namespace(p.file.Namespaces[0])
	fn := p.builder.Items.Fn(ns.Items[0])
	if fn == nil {
		t.Fatalf("expected function")
	}
	if len(fn.Params) != 0 || len(fn.Results) != 0 || len(fn.Nested) != 0 {
		t.Fatalf("shutdown: params=%d results=%d nested=%d", len(fn.Params), len(fn.Results), len(fn.Nested))
	}
}

func TestParseStructEnumAndTypes(t *testing.T) {
	src := `namespace types {
  struct Message {
    id: u64,
    tags: array<string>,
    reply: option<Message>,
    meta: map<string, types.Meta>,
    data: data,
  }
  enum Mood { Happy, Sad, }
  struct Meta {}
}`
	p := mustParse(t, src)
	ns := p.builder.Items.Namespace(p.file.Namespaces[0])
	if len(ns.Items) != 3 {
		t.Fatalf("want 3 items, got %d", len(ns.Items))
	}

	st := p.builder.Items.Struct(ns.Items[0])
	if st == nil || len(st.Fields) != 5 {
		t.Fatalf("struct fields = %+v", st)
	}
	kinds := []ast.TypeExprKind{ast.TypeExprPrimitive, ast.TypeExprArray, ast.TypeExprOption, ast.TypeExprMap, ast.TypeExprPrimitive}
	for i, f := range st.Fields {
		if got := p.builder.Types.Get(f.Type).Kind; got != kinds[i] {
			t.Errorf("field %s: kind %d, want %d", p.str(f.Name), got, kinds[i])
		}
	}
	// keyword as a member name
	if p.str(st.Fields[4].Name) != "data" {
		t.Errorf("field 4 name = %q", p.str(st.Fields[4].Name))
	}

	m := p.builder.Types.Get(st.Fields[3].Type)
	if key := p.builder.Types.Get(m.Elem); key.Prim != ast.PrimString {
		t.Errorf("map key = %+v", key)
	}
	if got := p.builder.Types.PathString(m.Value, p.builder.StringsInterner); got != "types.Meta" {
		t.Errorf("map value path = %q", got)
	}

	en := p.builder.Items.Enum(ns.Items[1])
	if en == nil || len(en.Variants) != 2 {
		t.Fatalf("enum = %+v", en)
	}
	if p.str(en.Variants[0].Name) != "Happy" || p.str(en.Variants[1].Name) != "Sad" {
		t.Fatalf("variants = %q %q", p.str(en.Variants[0].Name), p.str(en.Variants[1].Name))
	}
	if st := p.builder.Items.Struct(ns.Items[2]); st == nil || len(st.Fields) != 0 {
		t.Fatalf("empty struct = %+v", st)
	}
}

func TestParseNestedNamespacesAndSemicolons(t *testing.T) {
	p := mustParse(t, "namespace a { namespace b { struct S {}; }; struct T {} }\nnamespace c {}")
	if len(p.file.Namespaces) != 2 {
		t.Fatalf("want 2 top-level namespaces, got %d", len(p.file.Namespaces))
	}
	a := p.builder.Items.Namespace(p.file.Namespaces[0])
	if len(a.Items) != 2 {
		t.Fatalf("a items = %d", len(a.Items))
	}
	if p.builder.Items.Get(a.Items[0]).Kind != ast.ItemNamespace || p.name(a.Items[0]) != "b" {
		t.Fatalf("first item of a should be namespace b")
	}
}

func TestParseDocComments(t *testing.T) {
	src := `// Namespace doc.
namespace chat {
    // A participant.
    // Second line.
    struct Participant {
        // Display name.
        name: string, // trailing, not doc
        age: u8,
    }

    // detached

    enum Color {
        // The red one.
        Red,
    }
}`
	p := mustParse(t, src)
	nsID := p.file.Namespaces[0]
	if doc := p.builder.Items.Get(nsID).Doc; doc != "Namespace doc." {
		t.Errorf("namespace doc = %q", doc)
	}
	ns := p.builder.Items.Namespace(nsID)
	if doc := p.builder.Items.Get(ns.Items[0]).Doc; doc != "A participant.\nSecond line." {
		t.Errorf("struct doc = %q", doc)
	}
	st := p.builder.Items.Struct(ns.Items[0])
	if st.Fields[0].Doc != "Display name." {
		t.Errorf("field doc = %q", st.Fields[0].Doc)
	}
	if st.Fields[1].Doc != "" {
		t.Errorf("trailing comment leaked into next field doc: %q", st.Fields[1].Doc)
	}
	if doc := p.builder.Items.Get(ns.Items[1]).Doc; doc != "" {
		t.Errorf("comment separated by blank line must not be doc, got %q", doc)
	}
	en := p.builder.Items.Enum(ns.Items[1])
	if en.Variants[0].Doc != "The red one." {
		t.Errorf("variant doc = %q", en.Variants[0].Doc)
	}
}

func TestParseErrorsFailFast(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"top level struct", "struct A {}", "error SYN2004 test.lavish:1:1 expected 'namespace', found 'struct'"},
		{"missing brace", "namespace a struct", "error SYN2001 test.lavish:1:13 expected '{', found 'struct'"},
		{"missing name", "namespace {", "error SYN2002 test.lavish:1:11 expected identifier, found '{'"},
		{"bad item", "namespace a { fn x() }", "error SYN2001 test.lavish:1:15 expected 'namespace', 'struct', 'enum', 'server', 'client' or '}', found 'fn'"},
		{"missing type", "namespace a { struct S { x: } }", "error SYN2003 test.lavish:1:29 expected type, found '}'"},
		{"missing colon", "namespace a { struct S { x u8 } }", "error SYN2001 test.lavish:1:28 expected ':', found 'u8'"},
		{"unclosed map", "namespace a { struct S { x: map<u8 u8> } }", "error SYN2001 test.lavish:1:36 expected ',', found 'u8'"},
		{"eof", "namespace a {\n  struct S {", "error SYN2002 test.lavish:2:13 expected identifier, found end of file"},
		{"string literal", `namespace a { struct S { x: "u8" } }`, `error SYN2005 test.lavish:1:29 expected type, found string literal "u8"`},
		{"struct in fn body", "namespace a { server fn f() { struct S {} } }", "error SYN2001 test.lavish:1:31 expected 'server', 'client' or '}', found 'struct'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			if p.ok {
				t.Fatalf("expected failure")
			}
			if p.bag.Len() != 1 {
				t.Fatalf("fail-fast parser must report exactly one diagnostic, got:\n%s",
					diag.FormatGoldenDiagnostics(p.bag.Items(), p.fs, false))
			}
			got := diag.FormatGoldenDiagnostics(p.bag.Items(), p.fs, false)
			if strings.TrimSpace(got) != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestLexErrorStopsParserWithoutSyntaxDiagnostic(t *testing.T) {
	p := parseSource(t, "namespace a { struct S { x: u8 @ } }")
	if p.ok {
		t.Fatalf("expected failure")
	}
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexUnknownChar {
		t.Fatalf("want a single LEX1001, got:\n%s", diag.FormatGoldenDiagnostics(items, p.fs, false))
	}
}

func TestUnterminatedCommentAtEOF(t *testing.T) {
	p := parseSource(t, "namespace a {}\n/* never closed")
	if p.ok {
		t.Fatalf("expected failure")
	}
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("want a single LEX1003, got:\n%s", diag.FormatGoldenDiagnostics(items, p.fs, false))
	}
}

func TestEmptySource(t *testing.T) {
	p := mustParse(t, "  // nothing here\n")
	if len(p.file.Namespaces) != 0 {
		t.Fatalf("want no namespaces, got %d", len(p.file.Namespaces))
	}
}

func TestSpanInvariants(t *testing.T) {
	sources := map[string]string{
		"layered": `namespace layered {
    server fn login() -> (ok: bool) {
        client fn challenge(input: string) -> (hashed: string)
    }
    server fn shutdown()
}`,
		"nested": `namespace outer { namespace inner { struct S { a: u8, b: map<string, inner.S>, } } enum E { x, y, } }`,
		"reopened": "namespace a {}\nnamespace a { struct T {} }\n",
		"empty":    "// nothing here\n",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			p := mustParse(t, src)
			fileID := ast.FileID(1) // первый файл свежего builder
			if err := testkit.CheckSpanInvariants(p.builder, fileID, p.fs.Get(p.file.Source)); err != nil {
				t.Fatal(err)
			}
		})
	}
}
