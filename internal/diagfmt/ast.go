package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"lavish/internal/ast"
	"lavish/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Name     string          `json:"name,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Doc      string          `json:"doc,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

type astPrinter struct {
	b  *ast.Builder
	fs *source.FileSet
}

func (p astPrinter) name(id source.StringID) string {
	return p.b.StringsInterner.MustLookup(id)
}

// FormatASTPretty печатает дерево файла:
//
//	File chat.lavish (span: 1:1-12:2)
//	└─ namespace chat (span: 1:1-12:2)
//	   ├─ struct Message (span: 2:3-5:4)
//	   │  └─ field body: string
//	   └─ server fn send
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	root, err := buildAST(builder, fileID, fs)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString(prettyLabel(root, fs) + "\n")
	writeChildren(&sb, root.Children, "", fs)
	_, err = io.WriteString(w, sb.String())
	return err
}

func writeChildren(sb *strings.Builder, children []ASTNodeOutput, prefix string, fs *source.FileSet) {
	for i, child := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix + branch + prettyLabel(child, fs) + "\n")
		writeChildren(sb, child.Children, prefix+next, fs)
	}
}

func prettyLabel(n ASTNodeOutput, fs *source.FileSet) string {
	var parts []string
	switch n.Type {
	case "File":
		parts = append(parts, "File", n.Name)
	case "Field", "Param", "Result":
		parts = append(parts, strings.ToLower(n.Type), n.Name+": "+n.Text)
	case "Variant":
		parts = append(parts, "variant", n.Name)
	case "Fn":
		parts = append(parts, n.Kind, "fn", n.Name)
	default:
		parts = append(parts, n.Kind, n.Name)
	}
	label := strings.Join(parts, " ")
	switch n.Type {
	case "File", "Namespace", "Struct", "Enum", "Fn":
		label += " (span: " + formatSpan(n.Span, fs) + ")"
	}
	if n.Doc != "" {
		label += fmt.Sprintf(" doc=%q", n.Doc)
	}
	return label
}

// FormatASTJSON выводит то же дерево в JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	root, err := buildAST(builder, fileID, nil)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func buildAST(builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) (ASTNodeOutput, error) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return ASTNodeOutput{}, fmt.Errorf("file %d not found", fileID)
	}
	p := astPrinter{b: builder, fs: fs}
	root := ASTNodeOutput{Type: "File", Span: file.Span}
	if fs != nil {
		root.Name = fs.Get(file.Source).FormatPath("auto", fs.BaseDir())
	}
	for _, id := range file.Namespaces {
		root.Children = append(root.Children, p.item(id))
	}
	return root, nil
}

func (p astPrinter) item(id ast.ItemID) ASTNodeOutput {
	item := p.b.Items.Get(id)
	node := ASTNodeOutput{
		Kind: item.Kind.String(),
		Name: p.name(item.Name),
		Span: item.Span,
		Doc:  item.Doc,
	}
	switch item.Kind {
	case ast.ItemNamespace:
		node.Type = "Namespace"
		for _, child := range p.b.Items.Namespace(id).Items {
			node.Children = append(node.Children, p.item(child))
		}
	case ast.ItemStruct:
		node.Type = "Struct"
		node.Children = p.fields("Field", p.b.Items.Struct(id).Fields)
	case ast.ItemEnum:
		node.Type = "Enum"
		for _, v := range p.b.Items.Enum(id).Variants {
			node.Children = append(node.Children, ASTNodeOutput{Type: "Variant", Name: p.name(v.Name), Span: v.Span, Doc: v.Doc})
		}
	case ast.ItemFn:
		fn := p.b.Items.Fn(id)
		node.Type = "Fn"
		node.Kind = fn.Role.String()
		node.Children = append(node.Children, p.fields("Param", fn.Params)...)
		node.Children = append(node.Children, p.fields("Result", fn.Results)...)
		for _, nested := range fn.Nested {
			node.Children = append(node.Children, p.item(nested))
		}
	default:
		panic(fmt.Sprintf("diagfmt: unknown item kind %d", item.Kind))
	}
	return node
}

func (p astPrinter) fields(typ string, fields []ast.Field) []ASTNodeOutput {
	out := make([]ASTNodeOutput, 0, len(fields))
	for _, f := range fields {
		out = append(out, ASTNodeOutput{
			Type: typ,
			Name: p.name(f.Name),
			Span: f.Span,
			Text: p.typeExpr(f.Type),
			Doc:  f.Doc,
		})
	}
	return out
}

// typeExpr renders a type as written in the source.
func (p astPrinter) typeExpr(id ast.TypeID) string {
	expr := p.b.Types.Get(id)
	if expr == nil {
		return "<nil>"
	}
	switch expr.Kind {
	case ast.TypeExprPrimitive:
		return expr.Prim.String()
	case ast.TypeExprArray:
		return "array<" + p.typeExpr(expr.Elem) + ">"
	case ast.TypeExprOption:
		return "option<" + p.typeExpr(expr.Elem) + ">"
	case ast.TypeExprMap:
		return "map<" + p.typeExpr(expr.Elem) + ", " + p.typeExpr(expr.Value) + ">"
	case ast.TypeExprPath:
		return p.b.Types.PathString(id, p.b.StringsInterner)
	default:
		panic(fmt.Sprintf("diagfmt: unknown type expression kind %d", expr.Kind))
	}
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	if fs == nil {
		return fmt.Sprintf("%d-%d", sp.Start, sp.End)
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
