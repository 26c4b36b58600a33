package ast_test

import (
	"testing"

	"lavish/internal/ast"
	"lavish/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := ast.NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be empty")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 {
		t.Fatalf("got id=%d value=%v", id, a.Get(id))
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range must be nil")
	}
}

// buildOne creates a builder with namespace `name { struct S { f: T } server fn call() { client fn back() } }`.
func buildOne(strs *source.Interner, name string, file source.FileID) *ast.Builder {
	b := ast.NewBuilder(ast.Hints{}, strs)
	sp := source.Span{File: file}
	fileID := b.NewFile(sp)

	ns := b.NewNamespace(sp, strs.Intern(name), sp, "")
	typ := b.Types.New(ast.TypeExpr{Kind: ast.TypeExprPath, Path: []ast.PathSegment{{Name: strs.Intern("T")}}})
	arr := b.Types.New(ast.TypeExpr{Kind: ast.TypeExprArray, Elem: typ})
	st := b.NewStruct(sp, strs.Intern("S"), sp, "", []ast.Field{{Name: strs.Intern("f"), Type: arr}})
	back := b.NewFn(sp, strs.Intern("back"), sp, "", ast.FnDecl{Role: ast.RoleClient})
	call := b.NewFn(sp, strs.Intern("call"), sp, "", ast.FnDecl{Nested: []ast.ItemID{back}})
	b.PushItem(ns, st)
	b.PushItem(ns, call)
	b.PushNamespace(fileID, ns)
	return b
}

func TestAbsorbRemapsIDs(t *testing.T) {
	strs := source.NewInterner()
	dst := buildOne(strs, "first", 0)
	src := buildOne(strs, "second", 1)

	files := dst.Absorb(src)
	if len(files) != 1 || files[0] != 2 {
		t.Fatalf("absorbed files = %v", files)
	}

	f := dst.Files.Get(files[0])
	if f.Source != 1 || len(f.Namespaces) != 1 {
		t.Fatalf("file = %+v", f)
	}
	nsID := f.Namespaces[0]
	if dst.Name(nsID) != "second" {
		t.Fatalf("namespace name = %q", dst.Name(nsID))
	}
	ns := dst.Items.Namespace(nsID)
	if ns == nil || len(ns.Items) != 2 {
		t.Fatalf("namespace payload = %+v", ns)
	}

	st := dst.Items.Struct(ns.Items[0])
	if st == nil || dst.Name(ns.Items[0]) != "S" {
		t.Fatalf("struct not remapped")
	}
	arr := dst.Types.Get(st.Fields[0].Type)
	if arr.Kind != ast.TypeExprArray {
		t.Fatalf("field type kind = %v", arr.Kind)
	}
	if got := dst.Types.PathString(arr.Elem, strs); got != "T" {
		t.Fatalf("array elem = %q", got)
	}

	call := dst.Items.Fn(ns.Items[1])
	if call == nil || len(call.Nested) != 1 {
		t.Fatalf("fn payload = %+v", call)
	}
	if dst.Name(call.Nested[0]) != "back" || dst.Items.Fn(call.Nested[0]).Role != ast.RoleClient {
		t.Fatalf("nested fn not remapped")
	}

	// первый файл не тронут
	first := dst.Files.Get(1)
	if dst.Name(first.Namespaces[0]) != "first" {
		t.Fatalf("original file damaged")
	}
}

func TestAbsorbRejectsForeignInterner(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	a := ast.NewBuilder(ast.Hints{}, nil)
	b := ast.NewBuilder(ast.Hints{}, nil)
	a.Absorb(b)
}
