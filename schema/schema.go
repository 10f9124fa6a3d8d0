// Package schema is the read-only description of a GraphQL schema that
// projections, the compiler and the decoder consult.
//
// A Schema is built once with Load from SDL sources and shared by every
// projection tree built against it.
package schema

import (
	"fmt"
	"strings"
)

// Kind is the kind of a named GraphQL type.
type Kind string

const (
	Object      Kind = "OBJECT"
	Interface   Kind = "INTERFACE"
	Union       Kind = "UNION"
	Enum        Kind = "ENUM"
	Scalar      Kind = "SCALAR"
	InputObject Kind = "INPUT_OBJECT"
)

// TypeRef is a reference to a type as it appears on a field or argument:
// a named type, or a list of TypeRef, either of which may be non-null.
type TypeRef struct {
	Name    string
	NonNull bool
	Elem    *TypeRef
}

// NamedType returns the innermost named type.
func (t *TypeRef) NamedType() string {
	if t.Elem != nil {
		return t.Elem.NamedType()
	}
	return t.Name
}

// IsList reports whether t is a list type.
func (t *TypeRef) IsList() bool {
	return t.Elem != nil
}

// String returns the type in SDL notation, e.g. "[String!]!".
func (t *TypeRef) String() string {
	var s string
	if t.Elem != nil {
		s = "[" + t.Elem.String() + "]"
	} else {
		s = t.Name
	}
	if t.NonNull {
		s += "!"
	}
	return s
}

// Argument describes one argument of a field, or one field of an input
// object.
type Argument struct {
	Name string
	Type *TypeRef
	// Default is the SDL literal of the default value, or "" when none.
	Default string
	// Selection is set on optional arguments of fields annotated
	// @selection: they are assigned inside the projection block rather
	// than passed positionally.
	Selection bool
}

// Optional reports whether the argument may be omitted.
func (a *Argument) Optional() bool {
	return !a.Type.NonNull || a.Default != ""
}

// Field describes one field of an object or interface type.
type Field struct {
	Name string
	Type *TypeRef
	// Default fields are selected unless the projection is minimized.
	Default bool
	// Required fields are selected regardless of the projection.
	Required  bool
	Arguments []*Argument
}

// Argument returns the argument called name.
func (f *Field) Argument(name string) (*Argument, bool) {
	for _, a := range f.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Type is one named type of the schema.
type Type struct {
	Name string
	Kind Kind
	// Fields in declaration order (objects and interfaces).
	Fields []*Field
	// PossibleTypes are the concrete members of an interface or union, in
	// declaration order.
	PossibleTypes []string
	// Interfaces implemented by an object type.
	Interfaces []string
	EnumValues []string
	// InputFields of an input object, in declaration order.
	InputFields []*Argument

	fieldIndex map[string]*Field
}

// Field returns the field called name.
func (t *Type) Field(name string) (*Field, bool) {
	f, ok := t.fieldIndex[name]
	return f, ok
}

// IsAbstract reports whether values of t carry a runtime type
// discriminator (interfaces and unions).
func (t *Type) IsAbstract() bool {
	return t.Kind == Interface || t.Kind == Union
}

// IsLeaf reports whether t is a scalar or enum.
func (t *Type) IsLeaf() bool {
	return t.Kind == Scalar || t.Kind == Enum
}

// HasPossibleType reports whether name is a concrete member of t.
func (t *Type) HasPossibleType(name string) bool {
	for _, p := range t.PossibleTypes {
		if p == name {
			return true
		}
	}
	return false
}

// HasEnumValue reports whether value is declared on the enum t.
func (t *Type) HasEnumValue(value string) bool {
	for _, v := range t.EnumValues {
		if v == value {
			return true
		}
	}
	return false
}

// Schema is a set of named types plus the operation root types.
type Schema struct {
	types        map[string]*Type
	order        []string
	query        string
	mutation     string
	subscription string
}

// Type returns the named type.
func (s *Schema) Type(name string) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// MustType returns the named type or panics. It is meant for generated
// code that was produced from the same schema.
func (s *Schema) MustType(name string) *Type {
	t, ok := s.types[name]
	if !ok {
		panic(fmt.Sprintf("schema: unknown type %q", name))
	}
	return t
}

// Types returns the non built-in types in declaration order.
func (s *Schema) Types() []*Type {
	out := make([]*Type, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.types[name])
	}
	return out
}

// QueryType returns the query root type.
func (s *Schema) QueryType() *Type { return s.root(s.query) }

// MutationType returns the mutation root type, or nil.
func (s *Schema) MutationType() *Type { return s.root(s.mutation) }

// SubscriptionType returns the subscription root type, or nil.
func (s *Schema) SubscriptionType() *Type { return s.root(s.subscription) }

// IsRoot reports whether name is one of the operation root types.
func (s *Schema) IsRoot(name string) bool {
	return name != "" && (name == s.query || name == s.mutation || name == s.subscription)
}

func (s *Schema) root(name string) *Type {
	if name == "" {
		return nil
	}
	return s.types[name]
}

// String lists the types, for debugging.
func (s *Schema) String() string {
	var b strings.Builder
	for _, t := range s.Types() {
		fmt.Fprintf(&b, "%s %s\n", strings.ToLower(string(t.Kind)), t.Name)
	}
	return b.String()
}
