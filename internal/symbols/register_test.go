package symbols_test

import (
	"strings"
	"testing"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/lexer"
	"lavish/internal/parser"
	"lavish/internal/source"
	"lavish/internal/symbols"
)

type registered struct {
	res symbols.Result
	bag *diag.Bag
	fs  *source.FileSet
}

func register(t *testing.T, sources ...string) registered {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	var files []ast.FileID
	for i, src := range sources {
		id := fs.AddVirtual("f"+string(rune('0'+i))+".lavish", []byte(src))
		lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
		res := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
		if !res.OK {
			t.Fatalf("parse failed:\n%s", diag.FormatGoldenDiagnostics(bag.Items(), fs, true))
		}
		files = append(files, res.File)
	}
	res := symbols.Register(b, files, symbols.RegisterOptions{Reporter: rep, Validate: true})
	return registered{res: res, bag: bag, fs: fs}
}

func (r registered) golden() string {
	return diag.FormatGoldenDiagnostics(r.bag.Items(), r.fs, true)
}

func (r registered) lookup(t *testing.T, scope symbols.ScopeID, name string) (symbols.SymbolID, bool) {
	t.Helper()
	id, ok := r.res.Table.Strings.Find(name)
	if !ok {
		return symbols.NoSymbolID, false
	}
	return r.res.Table.LookupIn(scope, id, symbols.KindMaskAny)
}

func (r registered) inner(id symbols.SymbolID) symbols.ScopeID {
	return r.res.Table.Symbols.Get(id).Inner
}

func TestDuplicateSiblingStructs(t *testing.T) {
	r := register(t, "namespace n {\n  struct A {}\n  struct A {}\n}")
	want := strings.Join([]string{
		"note SEM3001 f0.lavish:2:10 previous declaration here",
		"error SEM3001 f0.lavish:3:10 duplicate declaration of 'A'",
	}, "\n")
	if got := r.golden(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDuplicatesAreAllReported(t *testing.T) {
	src := `namespace n {
  struct A { x: u8, x: u16 }
  enum A { One, One }
  server fn f(p: u8, p: u8) -> (r: u8, r: u8)
  namespace f {}
}`
	r := register(t, src)
	if n := r.bag.ErrorCount(); n != 6 {
		t.Fatalf("want 6 duplicate errors, got %d:\n%s", n, r.golden())
	}
	for _, d := range r.bag.Items() {
		if d.Code != diag.SemaDuplicateDeclaration {
			t.Fatalf("unexpected code %s", d.Code.ID())
		}
	}
}

func TestNamespacesReopenAndMerge(t *testing.T) {
	r := register(t,
		"namespace chat { struct Message {} }",
		"namespace chat { enum Mood { Happy } }\nnamespace other {}",
	)
	if r.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", r.golden())
	}
	if len(r.res.Namespaces) != 2 {
		t.Fatalf("want 2 top-level namespaces, got %d", len(r.res.Namespaces))
	}
	chat := r.res.Namespaces[0]
	sym := r.res.Table.Symbols.Get(chat)
	if len(sym.Reopened) != 1 || len(sym.ItemIDs()) != 2 {
		t.Fatalf("chat should be declared twice, got %+v", sym)
	}
	members := r.res.Table.Members(chat, symbols.KindMaskAny)
	if len(members) != 2 {
		t.Fatalf("merged members = %d", len(members))
	}
	if _, ok := r.lookup(t, r.inner(chat), "Mood"); !ok {
		t.Fatalf("Mood not visible in merged namespace")
	}
}

func TestNamespaceClashesWithStruct(t *testing.T) {
	r := register(t, "namespace n { struct x {} namespace x { struct y {} struct y {} } }")
	if n := r.bag.ErrorCount(); n != 2 {
		t.Fatalf("want clash plus inner duplicate, got:\n%s", r.golden())
	}
}

func TestNestedFunctionsStayOutOfNamespace(t *testing.T) {
	src := `namespace layered {
  server fn login() -> (ok: bool) {
    client fn challenge(input: string) -> (hashed: string)
  }
}`
	r := register(t, src)
	if r.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", r.golden())
	}
	layered := r.res.Namespaces[0]
	login, ok := r.lookup(t, r.inner(layered), "login")
	if !ok {
		t.Fatalf("login must be in the namespace table")
	}
	if _, ok := r.lookup(t, r.inner(layered), "challenge"); ok {
		t.Fatalf("challenge must not be in the namespace table")
	}
	challenge, ok := r.lookup(t, r.inner(login), "challenge")
	if !ok {
		t.Fatalf("challenge must be in login's nesting table")
	}
	if got := r.res.Table.Path(challenge); got != "layered.login.challenge" {
		t.Fatalf("path = %q", got)
	}
	if got := r.res.Table.Owner(challenge); got != login {
		t.Fatalf("owner = %d, want %d", got, login)
	}
	if got := r.res.Table.Path(login); got != "layered.login" {
		t.Fatalf("path = %q", got)
	}
}

func TestNestedNamesMayRepeatAcrossScopes(t *testing.T) {
	src := `namespace n {
  server fn a() { client fn cb() }
  server fn b() { client fn cb() }
  server fn cb()
}`
	r := register(t, src)
	if r.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", r.golden())
	}
}

func TestNestedSiblingDuplicate(t *testing.T) {
	r := register(t, "namespace n { server fn a() { client fn cb() client fn cb() } }")
	if r.bag.ErrorCount() != 1 {
		t.Fatalf("want one duplicate, got:\n%s", r.golden())
	}
}

func TestLookupChainWalksToParents(t *testing.T) {
	r := register(t, "namespace outer { struct Shared {} namespace inner { struct Local {} } }")
	outer := r.res.Namespaces[0]
	inner, ok := r.lookup(t, r.inner(outer), "inner")
	if !ok {
		t.Fatalf("inner namespace missing")
	}
	name, _ := r.res.Table.Strings.Find("Shared")
	if _, ok := r.res.Table.LookupChain(r.inner(inner), name, symbols.KindMaskType); !ok {
		t.Fatalf("Shared must be visible from inner")
	}
	local, _ := r.res.Table.Strings.Find("Local")
	if _, ok := r.res.Table.LookupChain(r.inner(outer), local, symbols.KindMaskType); ok {
		t.Fatalf("Local must not leak to outer")
	}
	innerName, _ := r.res.Table.Strings.Find("inner")
	if _, ok := r.res.Table.LookupChain(r.inner(outer), innerName, symbols.KindMaskType); ok {
		t.Fatalf("namespaces are not types")
	}
}
