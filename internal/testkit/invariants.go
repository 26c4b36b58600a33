// Package testkit holds structural checks shared by parser tests and the
// fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lavish/internal/ast"
	"lavish/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within the file content and points at sf
// 2) every item, field and variant span is non-empty and nested in its parent
// 3) siblings appear in source order without overlapping
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Source != sf.ID || f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	// пустой файл: span может быть пустым
	if len(f.Namespaces) == 0 {
		return nil
	}
	c := checker{b: b, file: sf.ID}
	return c.items(f.Namespaces, f.Span, "file")
}

type checker struct {
	b    *ast.Builder
	file source.FileID
}

func (c checker) span(sp, parent source.Span, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != c.file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, c.file)
	}
	if sp.Start < parent.Start || sp.End > parent.End {
		return fmt.Errorf("%s span %v is outside parent span %v", what, sp, parent)
	}
	return nil
}

func (c checker) items(ids []ast.ItemID, parent source.Span, parentName string) error {
	var prev source.Span
	for i, id := range ids {
		item := c.b.Items.Get(id)
		if item == nil {
			return fmt.Errorf("nil item for id=%d in %s", id, parentName)
		}
		name := c.b.Name(id)
		if err := c.span(item.Span, parent, item.Kind.String()+" "+name); err != nil {
			return err
		}
		if err := c.span(item.NameSpan, item.Span, "name of "+name); err != nil {
			return err
		}
		if i > 0 && item.Span.Start < prev.End {
			return fmt.Errorf("%s %s overlaps its previous sibling %v", item.Kind, name, prev)
		}
		prev = item.Span
		if err := c.children(id, item); err != nil {
			return err
		}
	}
	return nil
}

func (c checker) children(id ast.ItemID, item *ast.Item) error {
	name := c.b.Name(id)
	switch item.Kind {
	case ast.ItemNamespace:
		return c.items(c.b.Items.Namespace(id).Items, item.Span, name)
	case ast.ItemStruct:
		return c.fields(c.b.Items.Struct(id).Fields, item.Span, name)
	case ast.ItemEnum:
		var prev source.Span
		for i, v := range c.b.Items.Enum(id).Variants {
			if err := c.span(v.Span, item.Span, "variant of "+name); err != nil {
				return err
			}
			if i > 0 && v.Span.Start < prev.End {
				return fmt.Errorf("variants of %s overlap at %v", name, v.Span)
			}
			prev = v.Span
		}
		return nil
	case ast.ItemFn:
		fn := c.b.Items.Fn(id)
		if err := c.fields(fn.Params, item.Span, name); err != nil {
			return err
		}
		if err := c.fields(fn.Results, item.Span, name); err != nil {
			return err
		}
		return c.items(fn.Nested, item.Span, name)
	default:
		return fmt.Errorf("unknown item kind %d", item.Kind)
	}
}

func (c checker) fields(fields []ast.Field, parent source.Span, parentName string) error {
	var prev source.Span
	for i, f := range fields {
		if err := c.span(f.Span, parent, "member of "+parentName); err != nil {
			return err
		}
		if i > 0 && f.Span.Start < prev.End {
			return fmt.Errorf("members of %s overlap at %v", parentName, f.Span)
		}
		prev = f.Span
	}
	return nil
}
