package projection

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Object is a decoded GraphQL object. It holds exactly the fields its
// projection selected; a field that was selected and came back null is
// present with a nil value.
type Object struct {
	typename string
	values   map[string]any
	order    []string
	// nodes that shaped the object: the node itself, followed by the
	// fragment node when the object was decoded through an interface or
	// union.
	nodes []*Node
}

func (o *Object) set(field string, v any) {
	if _, ok := o.values[field]; !ok {
		o.order = append(o.order, field)
	}
	o.values[field] = v
}

// Typename returns the concrete type of the object.
func (o *Object) Typename() string { return o.typename }

// Has reports whether field was selected.
func (o *Object) Has(field string) bool {
	_, ok := o.values[field]
	return ok
}

// Get returns the decoded value of field, or a *PropertyNotSelectedError
// when the projection did not select it.
func (o *Object) Get(field string) (any, error) {
	v, ok := o.values[field]
	if !ok {
		return nil, &PropertyNotSelectedError{Type: o.typename, Field: field}
	}
	return v, nil
}

// Fields returns the selected field names in selection order.
func (o *Object) Fields() []string {
	return append([]string(nil), o.order...)
}

// Projection returns the nodes that shaped the object, to be replayed with
// Node.CopyFrom.
func (o *Object) Projection() []*Node {
	return append([]*Node(nil), o.nodes...)
}

// Equal reports whether both objects have the same concrete type and the
// same selected fields with equal values. Projections are not compared.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.typename != other.typename || len(o.values) != len(other.values) {
		return false
	}
	for k, v := range o.values {
		ov, ok := other.values[k]
		if !ok || !equalValues(v, ov) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	switch a := a.(type) {
	case *Object:
		bo, ok := b.(*Object)
		return ok && a.Equal(bo)
	case []any:
		bl, ok := b.([]any)
		if !ok || len(a) != len(bl) {
			return false
		}
		for i := range a {
			if !equalValues(a[i], bl[i]) {
				return false
			}
		}
		return true
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && a.Equal(bt)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// String renders the object for debugging, e.g. Country{id: 7, name: Spain}.
func (o *Object) String() string {
	var b strings.Builder
	b.WriteString(o.typename)
	b.WriteString("{")
	for i, k := range o.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, o.values[k])
	}
	b.WriteString("}")
	return b.String()
}

// Value returns field as T, or the zero T when it is null. It panics with
// a *PropertyNotSelectedError when the field was not selected.
func Value[T any](o *Object, field string) T {
	var zero T
	v := o.mustGet(field)
	if v == nil {
		return zero
	}
	return cast[T](o, field, v)
}

// Pointer returns field as *T, nil when it is null. It panics like Value.
func Pointer[T any](o *Object, field string) *T {
	v := o.mustGet(field)
	if v == nil {
		return nil
	}
	t := cast[T](o, field, v)
	return &t
}

// List returns a list field as []T. Null elements become the zero T.
func List[T any](o *Object, field string) []T {
	v := o.mustGet(field)
	if v == nil {
		return nil
	}
	items := cast[[]any](o, field, v)
	out := make([]T, len(items))
	for i, item := range items {
		if item != nil {
			out[i] = cast[T](o, field, item)
		}
	}
	return out
}

// Enum returns an enum field converted to E.
func Enum[E ~string](o *Object, field string) E {
	return E(Value[string](o, field))
}

// EnumPointer returns a nullable enum field converted to *E.
func EnumPointer[E ~string](o *Object, field string) *E {
	s := Pointer[string](o, field)
	if s == nil {
		return nil
	}
	e := E(*s)
	return &e
}

// EnumList returns an enum list field converted to []E.
func EnumList[E ~string](o *Object, field string) []E {
	items := List[string](o, field)
	if items == nil {
		return nil
	}
	out := make([]E, len(items))
	for i, s := range items {
		out[i] = E(s)
	}
	return out
}

// Nested returns an object field, nil when it is null.
func Nested(o *Object, field string) *Object {
	return Value[*Object](o, field)
}

// NestedList returns a list-of-objects field.
func NestedList(o *Object, field string) []*Object {
	return List[*Object](o, field)
}

func (o *Object) mustGet(field string) any {
	v, err := o.Get(field)
	if err != nil {
		panic(err)
	}
	return v
}

func cast[T any](o *Object, field string, v any) T {
	t, ok := v.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("projection: %s.%s holds %T, not %T", o.typename, field, v, zero))
	}
	return t
}
