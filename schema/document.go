package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// DocumentVersion is bumped whenever the Document layout changes.
const DocumentVersion uint16 = 1

// Document is the flat, serializable form of a Schema, for generators that
// run in another process. Declarations are listed in schema order with
// parents before children; references are qualified paths.
type Document struct {
	Version    uint16         `json:"version" msgpack:"version"`
	Namespaces []NamespaceDoc `json:"namespaces" msgpack:"namespaces"`
	Structs    []StructDoc    `json:"structs" msgpack:"structs"`
	Enums      []EnumDoc      `json:"enums" msgpack:"enums"`
	Functions  []FunctionDoc  `json:"functions" msgpack:"functions"`
}

type NamespaceDoc struct {
	Path string   `json:"path" msgpack:"path"`
	Doc  string   `json:"doc,omitempty" msgpack:"doc,omitempty"`
	Pos  Position `json:"pos" msgpack:"pos"`
}

type StructDoc struct {
	Path   string     `json:"path" msgpack:"path"`
	Doc    string     `json:"doc,omitempty" msgpack:"doc,omitempty"`
	Pos    Position   `json:"pos" msgpack:"pos"`
	Fields []FieldDoc `json:"fields" msgpack:"fields"`
}

type EnumDoc struct {
	Path     string       `json:"path" msgpack:"path"`
	Doc      string       `json:"doc,omitempty" msgpack:"doc,omitempty"`
	Pos      Position     `json:"pos" msgpack:"pos"`
	Variants []VariantDoc `json:"variants" msgpack:"variants"`
}

type VariantDoc struct {
	Name string   `json:"name" msgpack:"name"`
	Doc  string   `json:"doc,omitempty" msgpack:"doc,omitempty"`
	Pos  Position `json:"pos" msgpack:"pos"`
}

// FunctionDoc.Namespace is the owning namespace; Parent is set for nested
// functions only.
type FunctionDoc struct {
	Path      string     `json:"path" msgpack:"path"`
	Namespace string     `json:"namespace" msgpack:"namespace"`
	Parent    string     `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Role      string     `json:"role" msgpack:"role"`
	Doc       string     `json:"doc,omitempty" msgpack:"doc,omitempty"`
	Pos       Position   `json:"pos" msgpack:"pos"`
	Params    []FieldDoc `json:"params" msgpack:"params"`
	Results   []FieldDoc `json:"results" msgpack:"results"`
}

type FieldDoc struct {
	Name string   `json:"name" msgpack:"name"`
	Type TypeDoc  `json:"type" msgpack:"type"`
	Doc  string   `json:"doc,omitempty" msgpack:"doc,omitempty"`
	Pos  Position `json:"pos" msgpack:"pos"`
}

// TypeDoc encodes a TypeRef. Name holds the primitive keyword or the
// referenced path; Elem is used by array and option, Key and Value by map.
type TypeDoc struct {
	Kind  string   `json:"kind" msgpack:"kind"`
	Name  string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Elem  *TypeDoc `json:"elem,omitempty" msgpack:"elem,omitempty"`
	Key   *TypeDoc `json:"key,omitempty" msgpack:"key,omitempty"`
	Value *TypeDoc `json:"value,omitempty" msgpack:"value,omitempty"`
}

// Document flattens the schema.
func (s *Schema) Document() *Document {
	doc := &Document{
		Version:    DocumentVersion,
		Namespaces: make([]NamespaceDoc, 0, len(s.allNamespaces)),
		Structs:    make([]StructDoc, 0, len(s.structs)),
		Enums:      make([]EnumDoc, 0, len(s.enums)),
		Functions:  make([]FunctionDoc, 0, len(s.functions)),
	}
	for _, ns := range s.allNamespaces {
		doc.Namespaces = append(doc.Namespaces, NamespaceDoc{Path: ns.Path, Doc: ns.Doc, Pos: ns.Pos})
	}
	for _, st := range s.structs {
		doc.Structs = append(doc.Structs, StructDoc{Path: st.Path, Doc: st.Doc, Pos: st.Pos, Fields: fieldDocs(st.Fields)})
	}
	for _, en := range s.enums {
		ed := EnumDoc{Path: en.Path, Doc: en.Doc, Pos: en.Pos, Variants: make([]VariantDoc, len(en.Variants))}
		for i, v := range en.Variants {
			ed.Variants[i] = VariantDoc(v)
		}
		doc.Enums = append(doc.Enums, ed)
	}
	for _, fn := range s.functions {
		fd := FunctionDoc{
			Path:      fn.Path,
			Namespace: fn.Namespace.Path,
			Role:      fn.Role.String(),
			Doc:       fn.Doc,
			Pos:       fn.Pos,
			Params:    fieldDocs(fn.Params),
			Results:   fieldDocs(fn.Results),
		}
		if fn.Parent != nil {
			fd.Parent = fn.Parent.Path
		}
		doc.Functions = append(doc.Functions, fd)
	}
	return doc
}

func fieldDocs(fields []Field) []FieldDoc {
	out := make([]FieldDoc, len(fields))
	for i, f := range fields {
		out[i] = FieldDoc{Name: f.Name, Type: typeDoc(f.Type), Doc: f.Doc, Pos: f.Pos}
	}
	return out
}

func typeDoc(ref TypeRef) TypeDoc {
	td := TypeDoc{Kind: ref.Kind().String()}
	switch t := ref.(type) {
	case Primitive:
		td.Name = t.String()
	case *Array:
		elem := typeDoc(t.Elem)
		td.Elem = &elem
	case *Option:
		elem := typeDoc(t.Elem)
		td.Elem = &elem
	case *Map:
		key, value := typeDoc(t.Key), typeDoc(t.Value)
		td.Key, td.Value = &key, &value
	case *StructRef:
		td.Name = t.Path
	case *EnumRef:
		td.Name = t.Path
	default:
		panic(fmt.Sprintf("schema: unknown type ref %T", ref))
	}
	return td
}

// EncodeJSON writes the document as indented JSON.
func (d *Document) EncodeJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

// EncodeMsgpack writes the document in msgpack.
func (d *Document) EncodeMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(d)
}

// DecodeJSON reads a document written by EncodeJSON.
func DecodeJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schema document: %w", err)
	}
	return checkVersion(&doc)
}

// DecodeMsgpack reads a document written by EncodeMsgpack.
func DecodeMsgpack(r io.Reader) (*Document, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schema document: %w", err)
	}
	return checkVersion(&doc)
}

func checkVersion(doc *Document) (*Document, error) {
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("schema document version %d, want %d", doc.Version, DocumentVersion)
	}
	return doc, nil
}
