package gen

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/llehouerou/go-graphql-projection/ident"
	"github.com/llehouerou/go-graphql-projection/schema"
)

// file is the data the template renders.
type file struct {
	Package    string
	SchemaVar  string
	SchemaName string
	Imports    []string
	Scalars    []scalarBinding
	Enums      []enum
	Inputs     []input
	Objects    []object

	// Root type names, empty when the schema has no such root.
	Query        string
	Mutation     string
	Subscription string
}

type scalarBinding struct {
	Name  string
	Codec string
}

type enum struct {
	Name   string
	Values []enumValue
}

type enumValue struct {
	Const string
	Value string
}

type input struct {
	Name   string
	Fields []inputField
}

type inputField struct {
	Name     string
	GoName   string
	GoType   string
	Optional bool
	// Pointer is set on optional non-list fields, which are dereferenced
	// when present.
	Pointer bool
}

// object is a concrete or abstract output type.
type object struct {
	Name       string
	Receiver   string
	Projection string
	Abstract   bool
	// Members of an abstract type.
	Members []string
	// Markers are the sealing methods of the abstract types an object
	// belongs to.
	Markers []string
	// Marker seals an abstract type.
	Marker string
	Fields []field
	// Getters an abstract type shares with every member.
	Getters []getter
	Blocks  []block
}

type field struct {
	Name   string
	GoName string
	// Method is false for required leaves without arguments: there is
	// nothing to switch on.
	Method    bool
	Leaf      bool
	Signature string
	Params    []param
	// BlockKind is "" (no block), "child", "query" or "selection".
	BlockKind string
	Block     string
	Child     string
	Getter    getter
}

type param struct {
	Name   string
	Arg    string
	GoType string
	Setter string
}

type getter struct {
	GoName string
	Type   string
	// Expr reads the field; "%s" stands for the receiver.
	Expr string
}

// block is a selection block: a "query" block embeds the child projection,
// a "selection" block only sets arguments of a leaf.
type block struct {
	Name     string
	Kind     string
	Field    string
	Owner    string
	Child    string
	Receiver string
	Setters  []param
}

// reservedParams are identifiers the generated method bodies use.
var reservedParams = map[string]bool{
	"p": true, "c": true, "q": true, "s": true, "fn": true, "f": true, "child": true, "frag": true,
}

type builder struct {
	cfg     *Config
	schema  *schema.Schema
	imports map[string]bool
	markers map[string][]string
}

func buildFile(cfg *Config, s *schema.Schema) (*file, error) {
	b := &builder{
		cfg:     cfg,
		schema:  s,
		imports: make(map[string]bool),
		markers: make(map[string][]string),
	}
	out := &file{
		Package:    cfg.Package,
		SchemaVar:  cfg.SchemaVar,
		SchemaName: cfg.SchemaName,
	}
	if t := s.QueryType(); t != nil {
		out.Query = t.Name
	}
	if t := s.MutationType(); t != nil {
		out.Mutation = t.Name
	}
	if t := s.SubscriptionType(); t != nil {
		out.Subscription = t.Name
	}

	for _, t := range s.Types() {
		if t.IsAbstract() {
			for _, m := range t.PossibleTypes {
				b.markers[m] = append(b.markers[m], marker(t.Name))
			}
		}
	}

	for _, t := range s.Types() {
		var err error
		switch t.Kind {
		case schema.Scalar:
			err = b.scalar(out, t)
		case schema.Enum:
			out.Enums = append(out.Enums, b.enum(t))
		case schema.InputObject:
			var in input
			in, err = b.input(t)
			out.Inputs = append(out.Inputs, in)
		case schema.Object, schema.Interface, schema.Union:
			var o object
			o, err = b.object(t)
			out.Objects = append(out.Objects, o)
		}
		if err != nil {
			return nil, err
		}
	}

	for name := range b.cfg.Scalars {
		if _, ok := builtinScalars[name]; ok {
			out.Scalars = append(out.Scalars, scalarBinding{Name: name, Codec: b.cfg.Scalars[name].Codec})
		}
	}
	sort.Slice(out.Scalars, func(i, j int) bool { return out.Scalars[i].Name < out.Scalars[j].Name })

	for path := range b.imports {
		out.Imports = append(out.Imports, path)
	}
	sort.Strings(out.Imports)
	return out, nil
}

func (b *builder) scalar(out *file, t *schema.Type) error {
	sc, ok := b.cfg.scalar(t.Name)
	if !ok {
		return fmt.Errorf("scalar %s has no binding in the config", t.Name)
	}
	if _, builtin := builtinScalars[t.Name]; !builtin {
		out.Scalars = append(out.Scalars, scalarBinding{Name: t.Name, Codec: sc.Codec})
	}
	return nil
}

func (b *builder) enum(t *schema.Type) enum {
	e := enum{Name: t.Name}
	for _, v := range t.EnumValues {
		e.Values = append(e.Values, enumValue{
			Const: t.Name + ident.ParseScreamingSnakeCase(v).ToMixedCaps(),
			Value: v,
		})
	}
	return e
}

func (b *builder) input(t *schema.Type) (input, error) {
	in := input{Name: t.Name}
	for _, f := range t.InputFields {
		ref := f.Type
		if f.Optional() && !ref.IsList() {
			ref = nullable(ref)
		}
		goType, err := b.goType(ref)
		if err != nil {
			return in, fmt.Errorf("%s.%s: %w", t.Name, f.Name, err)
		}
		in.Fields = append(in.Fields, inputField{
			Name:     f.Name,
			GoName:   ident.ParseLowerCamelCase(f.Name).ToMixedCaps(),
			GoType:   goType,
			Optional: f.Optional(),
			Pointer:  f.Optional() && !ref.IsList(),
		})
	}
	return in, nil
}

func (b *builder) object(t *schema.Type) (object, error) {
	o := object{
		Name:       t.Name,
		Receiver:   strings.ToLower(t.Name[:1]),
		Projection: t.Name + "Projection",
		Abstract:   t.IsAbstract(),
		Markers:    b.markers[t.Name],
	}
	if o.Abstract {
		o.Members = t.PossibleTypes
		o.Marker = marker(t.Name)
	}

	for _, f := range t.Fields {
		fd, blk, err := b.field(t, f)
		if err != nil {
			return o, fmt.Errorf("%s.%s: %w", t.Name, f.Name, err)
		}
		o.Fields = append(o.Fields, fd)
		if blk != nil {
			o.Blocks = append(o.Blocks, *blk)
		}
	}

	if t.Kind == schema.Interface {
		getters, err := b.sharedGetters(t)
		if err != nil {
			return o, err
		}
		o.Getters = getters
	}
	return o, nil
}

func (b *builder) field(owner *schema.Type, f *schema.Field) (field, *block, error) {
	named, ok := b.schema.Type(f.Type.NamedType())
	if !ok {
		return field{}, nil, fmt.Errorf("unknown type %s", f.Type.NamedType())
	}
	fd := field{
		Name:   f.Name,
		GoName: ident.ParseLowerCamelCase(f.Name).ToMixedCaps(),
		Leaf:   named.IsLeaf(),
	}
	fd.Method = !(fd.Leaf && f.Required && len(f.Arguments) == 0)

	g, err := b.getter(f)
	if err != nil {
		return fd, nil, err
	}
	fd.Getter = g

	var setters []param
	for _, a := range f.Arguments {
		if a.Selection {
			ref := *a.Type
			ref.NonNull = true
			goType, err := b.goType(&ref)
			if err != nil {
				return fd, nil, fmt.Errorf("argument %s: %w", a.Name, err)
			}
			setters = append(setters, param{
				Name:   paramName(a.Name),
				Arg:    a.Name,
				GoType: goType,
				Setter: "Set" + ident.ParseLowerCamelCase(a.Name).ToMixedCaps(),
			})
			continue
		}
		goType, err := b.goType(a.Type)
		if err != nil {
			return fd, nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		fd.Params = append(fd.Params, param{Name: paramName(a.Name), Arg: a.Name, GoType: goType})
	}

	var blk *block
	switch {
	case len(setters) > 0:
		kind, suffix, receiver := "query", "Query", "q"
		if fd.Leaf {
			kind, suffix, receiver = "selection", "Selection", "s"
		}
		blk = &block{
			Name:     owner.Name + fd.GoName + suffix,
			Kind:     kind,
			Field:    f.Name,
			Owner:    owner.Name,
			Receiver: receiver,
			Setters:  setters,
		}
		if !fd.Leaf {
			blk.Child = named.Name + "Projection"
		}
		fd.BlockKind, fd.Block, fd.Child = kind, blk.Name, blk.Child
	case !fd.Leaf:
		fd.BlockKind, fd.Block, fd.Child = "child", named.Name+"Projection", named.Name+"Projection"
	}

	parts := make([]string, 0, len(fd.Params)+1)
	for _, p := range fd.Params {
		parts = append(parts, p.Name+" "+p.GoType)
	}
	if fd.Block != "" {
		parts = append(parts, "fn ...func(*"+fd.Block+")")
	}
	fd.Signature = strings.Join(parts, ", ")
	return fd, blk, nil
}

// getter returns the entity accessor of a field.
func (b *builder) getter(f *schema.Field) (getter, error) {
	g := getter{GoName: ident.ParseLowerCamelCase(f.Name).ToMixedCaps()}
	ref := f.Type
	named := b.schema.MustType(ref.NamedType())
	quoted := fmt.Sprintf("%q", f.Name)

	if ref.IsList() && ref.Elem.IsList() {
		return g, fmt.Errorf("nested list type %s is not supported", ref)
	}

	switch {
	case named.IsLeaf():
		base, err := b.goType(&schema.TypeRef{Name: named.Name, NonNull: true})
		if err != nil {
			return g, err
		}
		value, pointer, list := "Value", "Pointer", "List"
		if named.Kind == schema.Enum {
			value, pointer, list = "Enum", "EnumPointer", "EnumList"
		}
		fn := value
		g.Type = base
		switch {
		case ref.IsList():
			fn, g.Type = list, "[]"+base
		case !ref.NonNull:
			fn, g.Type = pointer, "*"+base
		}
		g.Expr = fmt.Sprintf("projection.%s[%s](%%[1]s.obj, %s)", fn, base, quoted)
	default:
		wrap := "new" + named.Name
		elem := named.Name
		if !named.IsAbstract() {
			elem = "*" + named.Name
		}
		if ref.IsList() {
			g.Type = "[]" + elem
			g.Expr = fmt.Sprintf("wrapList(%%[1]s.ctx, projection.NestedList(%%[1]s.obj, %s), %s)", quoted, wrap)
		} else {
			g.Type = elem
			g.Expr = fmt.Sprintf("%s(%%[1]s.ctx, projection.Nested(%%[1]s.obj, %s))", wrap, quoted)
		}
	}
	return g, nil
}

// sharedGetters keeps the interface fields whose accessor has the same Go
// type on every member, so members satisfy the sealed interface.
func (b *builder) sharedGetters(t *schema.Type) ([]getter, error) {
	var out []getter
	for _, f := range t.Fields {
		g, err := b.getter(f)
		if err != nil {
			return nil, err
		}
		shared := true
		for _, m := range t.PossibleTypes {
			mf, ok := b.schema.MustType(m).Field(f.Name)
			if !ok {
				shared = false
				break
			}
			mg, err := b.getter(mf)
			if err != nil || mg.Type != g.Type {
				shared = false
				break
			}
		}
		if shared {
			out = append(out, g)
		}
	}
	return out, nil
}

// goType returns the Go type of a value of ref as written in generated
// code. Nullable scalars, enums and inputs become pointers; lists are
// slices of non-pointer elements.
func (b *builder) goType(ref *schema.TypeRef) (string, error) {
	if ref.IsList() {
		elem := *ref.Elem
		elem.NonNull = true
		inner, err := b.goType(&elem)
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil
	}

	t, ok := b.schema.Type(ref.Name)
	if !ok {
		return "", fmt.Errorf("unknown type %s", ref.Name)
	}
	var base string
	switch t.Kind {
	case schema.Scalar:
		sc, ok := b.cfg.scalar(t.Name)
		if !ok {
			return "", fmt.Errorf("scalar %s has no binding in the config", t.Name)
		}
		if sc.Import != "" {
			b.imports[sc.Import] = true
		}
		base = sc.Type
	case schema.Enum, schema.InputObject:
		base = t.Name
	case schema.Object:
		return "*" + t.Name, nil
	default:
		return t.Name, nil
	}
	if !ref.NonNull {
		return "*" + base, nil
	}
	return base, nil
}

func nullable(ref *schema.TypeRef) *schema.TypeRef {
	c := *ref
	c.NonNull = false
	return &c
}

func marker(typeName string) string {
	return "is" + typeName
}

// paramName turns a GraphQL argument name into a Go parameter name that
// does not collide with keywords or the identifiers of method bodies.
func paramName(arg string) string {
	name := ident.ParseLowerCamelCase(arg).ToUnexported()
	if token.IsKeyword(name) || reservedParams[name] {
		name += "Arg"
	}
	return name
}
