package schema

import (
	"fmt"
	"strings"
)

// Load rebuilds a Schema from a document, e.g. inside a generator plugin.
// Unlike Build it has to distrust its input: every reference must point at
// a declaration of the document, parents must precede their children, a
// nested function shares its parent's namespace and no struct contains
// itself through plain struct fields.
func Load(doc *Document) (*Schema, error) {
	if doc == nil {
		return nil, fmt.Errorf("schema: nil document")
	}
	if _, err := checkVersion(doc); err != nil {
		return nil, err
	}
	s := newSchema()

	for _, nd := range doc.Namespaces {
		if _, dup := s.nsIndex[nd.Path]; dup || nd.Path == "" {
			return nil, fmt.Errorf("schema: bad namespace path %q", nd.Path)
		}
		ns := &Namespace{Name: lastSegment(nd.Path), Path: nd.Path, Doc: nd.Doc, Pos: nd.Pos}
		if pp := parentPath(nd.Path); pp != "" {
			parent, ok := s.nsIndex[pp]
			if !ok {
				return nil, fmt.Errorf("schema: namespace %q listed before its parent", nd.Path)
			}
			ns.Parent = parent
		}
		s.addNamespace(ns)
	}

	ownerOf := func(path string) (*Namespace, error) {
		ns, ok := s.nsIndex[parentPath(path)]
		if !ok {
			return nil, fmt.Errorf("schema: %q has no enclosing namespace", path)
		}
		return ns, nil
	}

	for _, sd := range doc.Structs {
		ns, err := ownerOf(sd.Path)
		if err != nil {
			return nil, err
		}
		st := &Struct{Name: lastSegment(sd.Path), Path: sd.Path, Doc: sd.Doc, Pos: sd.Pos, Namespace: ns}
		if err := s.addLoaded(st); err != nil {
			return nil, err
		}
		ns.Structs = append(ns.Structs, st)
	}
	for _, ed := range doc.Enums {
		ns, err := ownerOf(ed.Path)
		if err != nil {
			return nil, err
		}
		en := &Enum{Name: lastSegment(ed.Path), Path: ed.Path, Doc: ed.Doc, Pos: ed.Pos, Namespace: ns}
		en.Variants = make([]Variant, len(ed.Variants))
		for i, v := range ed.Variants {
			en.Variants[i] = Variant(v)
		}
		if err := s.addLoaded(en); err != nil {
			return nil, err
		}
		ns.Enums = append(ns.Enums, en)
	}
	for _, fd := range doc.Functions {
		ns, ok := s.nsIndex[fd.Namespace]
		if !ok {
			return nil, fmt.Errorf("schema: function %q: unknown namespace %q", fd.Path, fd.Namespace)
		}
		r, ok := ParseRole(fd.Role)
		if !ok {
			return nil, fmt.Errorf("schema: function %q: bad role %q", fd.Path, fd.Role)
		}
		fn := &Function{
			Name:      lastSegment(fd.Path),
			Path:      fd.Path,
			Doc:       fd.Doc,
			Pos:       fd.Pos,
			Role:      r,
			Namespace: ns,
			Nested:    []*Function{},
		}
		if fd.Parent != "" {
			parent, ok := s.Function(fd.Parent)
			if !ok {
				return nil, fmt.Errorf("schema: function %q listed before its parent %q", fd.Path, fd.Parent)
			}
			if parent.Namespace != ns {
				return nil, fmt.Errorf("schema: function %q: namespace %q differs from parent's %q", fd.Path, fd.Namespace, parent.Namespace.Path)
			}
			fn.Parent = parent
			parent.Nested = append(parent.Nested, fn)
		} else {
			ns.Functions = append(ns.Functions, fn)
		}
		if err := s.addLoaded(fn); err != nil {
			return nil, err
		}
	}

	// второй проход: типы ссылаются на уже созданные объявления
	var err error
	for i, sd := range doc.Structs {
		if s.structs[i].Fields, err = s.loadFields(sd.Fields); err != nil {
			return nil, fmt.Errorf("schema: struct %q: %w", sd.Path, err)
		}
	}
	for i, fd := range doc.Functions {
		fn := s.functions[i]
		if fn.Params, err = s.loadFields(fd.Params); err != nil {
			return nil, fmt.Errorf("schema: function %q: %w", fd.Path, err)
		}
		if fn.Results, err = s.loadFields(fd.Results); err != nil {
			return nil, fmt.Errorf("schema: function %q: %w", fd.Path, err)
		}
	}
	if err := s.checkContainment(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkContainment rejects cycles in the graph of fields whose type is a
// bare struct. option, array and map fields break a cycle.
func (s *Schema) checkContainment() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*Struct]int, len(s.structs))
	var visit func(st *Struct, path []string) error
	visit = func(st *Struct, path []string) error {
		switch state[st] {
		case visiting:
			return fmt.Errorf("schema: struct %q contains itself: %s", st.Path, strings.Join(append(path, st.Path), " -> "))
		case done:
			return nil
		}
		state[st] = visiting
		path = append(path, st.Path)
		for _, f := range st.Fields {
			if ref, ok := f.Type.(*StructRef); ok {
				if err := visit(ref.Struct(), path); err != nil {
					return err
				}
			}
		}
		state[st] = done
		return nil
	}
	for _, st := range s.structs {
		if err := visit(st, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) addLoaded(d Decl) error {
	if _, dup := s.index[d.QualifiedPath()]; dup {
		return fmt.Errorf("schema: %q declared twice", d.QualifiedPath())
	}
	s.addDecl(d)
	return nil
}

func (s *Schema) loadFields(docs []FieldDoc) ([]Field, error) {
	out := make([]Field, len(docs))
	for i, fd := range docs {
		ref, err := s.loadType(&fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		out[i] = Field{Name: fd.Name, Type: ref, Doc: fd.Doc, Pos: fd.Pos}
	}
	return out, nil
}

func (s *Schema) loadType(td *TypeDoc) (TypeRef, error) {
	if td == nil {
		return nil, fmt.Errorf("missing type")
	}
	switch td.Kind {
	case "primitive":
		p, ok := ParsePrimitive(td.Name)
		if !ok {
			return nil, fmt.Errorf("unknown primitive %q", td.Name)
		}
		return p, nil
	case "array", "option":
		elem, err := s.loadType(td.Elem)
		if err != nil {
			return nil, err
		}
		if td.Kind == "array" {
			return &Array{Elem: elem}, nil
		}
		return &Option{Elem: elem}, nil
	case "map":
		key, err := s.loadType(td.Key)
		if err != nil {
			return nil, err
		}
		prim, ok := key.(Primitive)
		if !ok {
			return nil, fmt.Errorf("map key %s is not a primitive", key)
		}
		value, err := s.loadType(td.Value)
		if err != nil {
			return nil, err
		}
		return &Map{Key: prim, Value: value}, nil
	case "struct", "enum":
		ref, err := s.ResolveType(td.Name)
		if err != nil {
			return nil, err
		}
		if ref.Kind().String() != td.Kind {
			return nil, fmt.Errorf("%q is a %s, not a %s", td.Name, ref.Kind(), td.Kind)
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", td.Kind)
	}
}

func lastSegment(path string) string {
	if pp := parentPath(path); pp != "" {
		return path[len(pp)+1:]
	}
	return path
}
