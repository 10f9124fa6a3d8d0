package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/go-graphql-projection/types"
)

// Load parses and validates SDL sources and resolves them into a Schema.
// Directive usages must be declared in the sources, as with any SDL.
func Load(sources ...*ast.Source) (*Schema, error) {
	doc, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	order := make(map[*ast.Source]int, len(sources))
	for i, src := range sources {
		order[src] = i
	}
	return fromAST(doc, order)
}

// LoadString is Load for a single in-memory SDL document.
func LoadString(name, sdl string) (*Schema, error) {
	return Load(&ast.Source{Name: name, Input: sdl})
}

// MustLoad is like LoadString but panics on error. It is intended for
// package-level schema variables in generated code.
func MustLoad(name, sdl string) *Schema {
	s, err := LoadString(name, sdl)
	if err != nil {
		panic(err)
	}
	return s
}

func fromAST(doc *ast.Schema, order map[*ast.Source]int) (*Schema, error) {
	s := &Schema{types: make(map[string]*Type)}
	if doc.Query != nil {
		s.query = doc.Query.Name
	}
	if doc.Mutation != nil {
		s.mutation = doc.Mutation.Name
	}
	if doc.Subscription != nil {
		s.subscription = doc.Subscription.Name
	}

	defs := make([]*ast.Definition, 0, len(doc.Types))
	for _, def := range doc.Types {
		defs = append(defs, def)
	}
	sortByPosition(defs, order)

	for _, def := range defs {
		t, err := convertDefinition(doc, def)
		if err != nil {
			return nil, err
		}
		s.types[t.Name] = t
		if !def.BuiltIn {
			s.order = append(s.order, t.Name)
		}
	}
	return s, nil
}

func convertDefinition(doc *ast.Schema, def *ast.Definition) (*Type, error) {
	t := &Type{
		Name:       def.Name,
		Kind:       Kind(def.Kind),
		Interfaces: append([]string(nil), def.Interfaces...),
		fieldIndex: make(map[string]*Field),
	}

	switch def.Kind {
	case ast.Object, ast.Interface:
		for _, fd := range def.Fields {
			if strings.HasPrefix(fd.Name, types.IntrospectionPrefix) {
				continue
			}
			f := convertField(doc, fd)
			t.Fields = append(t.Fields, f)
			t.fieldIndex[f.Name] = f
		}
	case ast.InputObject:
		for _, fd := range def.Fields {
			t.InputFields = append(t.InputFields, &Argument{
				Name:    fd.Name,
				Type:    convertType(fd.Type),
				Default: literal(fd.DefaultValue),
			})
		}
	case ast.Enum:
		for _, v := range def.EnumValues {
			t.EnumValues = append(t.EnumValues, v.Name)
		}
	}

	if def.Kind == ast.Interface || def.Kind == ast.Union {
		for _, p := range doc.PossibleTypes[def.Name] {
			if p.Kind == ast.Object {
				t.PossibleTypes = append(t.PossibleTypes, p.Name)
			}
		}
		if len(t.PossibleTypes) == 0 {
			return nil, fmt.Errorf("schema: abstract type %s has no object members", def.Name)
		}
	}
	return t, nil
}

func convertField(doc *ast.Schema, fd *ast.FieldDefinition) *Field {
	f := &Field{
		Name:     fd.Name,
		Type:     convertType(fd.Type),
		Required: fd.Directives.ForName(types.DirectivePrimaryKey) != nil || fd.Directives.ForName(types.DirectiveRequired) != nil,
	}
	selection := fd.Directives.ForName(types.DirectiveSelection) != nil
	for _, ad := range fd.Arguments {
		a := &Argument{
			Name:    ad.Name,
			Type:    convertType(ad.Type),
			Default: literal(ad.DefaultValue),
		}
		a.Selection = selection && a.Optional()
		f.Arguments = append(f.Arguments, a)
	}

	switch {
	case f.Required:
	case fd.Directives.ForName(types.DirectiveDefault) != nil:
		f.Default = true
	case len(f.Arguments) == 0:
		if def := doc.Types[f.Type.NamedType()]; def != nil && def.IsLeafType() {
			f.Default = true
		}
	}
	return f
}

func convertType(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	ref := &TypeRef{NonNull: t.NonNull}
	if t.Elem != nil {
		ref.Elem = convertType(t.Elem)
	} else {
		ref.Name = t.NamedType
	}
	return ref
}

func literal(v *ast.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// sortByPosition orders definitions the way they were written: by source,
// then by offset. Built-in definitions come first. Sources missing from
// order are ranked after the known ones, by name.
func sortByPosition(defs []*ast.Definition, order map[*ast.Source]int) {
	key := func(d *ast.Definition) (int, string, int) {
		if d.Position == nil || d.Position.Src == nil {
			return -1, "", 0
		}
		if idx, ok := order[d.Position.Src]; ok {
			return idx, "", d.Position.Start
		}
		return len(order), d.Position.Src.Name, d.Position.Start
	}
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].BuiltIn != defs[j].BuiltIn {
			return defs[i].BuiltIn
		}
		si, ni, pi := key(defs[i])
		sj, nj, pj := key(defs[j])
		if si != sj {
			return si < sj
		}
		if ni != nj {
			return ni < nj
		}
		return pi < pj
	})
}
