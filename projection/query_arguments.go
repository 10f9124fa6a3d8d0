package projection

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/llehouerou/go-graphql-projection/internal/reflectutil"
	"github.com/llehouerou/go-graphql-projection/schema"
)

// Input is implemented by Go values passed as GraphQL input objects. The
// returned map is keyed by input field name; absent keys are omitted from
// the request.
type Input interface {
	InputFields() map[string]any
}

// encodeValue checks v against the declared type ref and converts it to
// its variables-map form: scalars go through the registry, enums become
// strings, lists become []any and input objects map[string]any.
func (e *Env) encodeValue(ref *schema.TypeRef, v any) (any, error) {
	if in, ok := v.(Input); ok && !reflectutil.IsNil(v) {
		return e.encodeNamed(ref, in)
	}
	if reflectutil.IsNil(v) {
		if ref.NonNull {
			return nil, fmt.Errorf("null for non-null type %s", ref)
		}
		return nil, nil
	}
	v = deref(v)

	if ref.IsList() {
		items, ok := reflectutil.Elements(v)
		if !ok {
			return nil, fmt.Errorf("want a list for %s, got %T", ref, v)
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			enc, err := e.encodeValue(ref.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, enc)
		}
		return out, nil
	}
	return e.encodeNamed(ref, v)
}

func (e *Env) encodeNamed(ref *schema.TypeRef, v any) (any, error) {
	t, ok := e.Schema.Type(ref.Name)
	if !ok {
		return nil, fmt.Errorf("unknown type %s", ref.Name)
	}
	switch t.Kind {
	case schema.Scalar:
		return e.Scalars.Encode(t.Name, v)
	case schema.Enum:
		return encodeEnum(t, v)
	case schema.InputObject:
		return e.encodeInput(t, v)
	default:
		return nil, fmt.Errorf("%s %s cannot be used as an argument", strings.ToLower(string(t.Kind)), t.Name)
	}
}

func encodeEnum(t *schema.Type, v any) (any, error) {
	var s string
	if str, ok := reflectutil.String(v); ok {
		s = str
	} else if st, ok := v.(fmt.Stringer); ok {
		s = st.String()
	} else {
		return nil, fmt.Errorf("want a %s value, got %T", t.Name, v)
	}
	if !t.HasEnumValue(s) {
		return nil, fmt.Errorf("%q is not a value of enum %s", s, t.Name)
	}
	return s, nil
}

func (e *Env) encodeInput(t *schema.Type, v any) (any, error) {
	var fields map[string]any
	switch v := v.(type) {
	case Input:
		fields = v.InputFields()
	case map[string]any:
		fields = v
	default:
		return nil, fmt.Errorf("want an input object %s, got %T", t.Name, v)
	}

	known := make(map[string]bool, len(t.InputFields))
	out := make(map[string]any, len(fields))
	for _, f := range t.InputFields {
		known[f.Name] = true
		raw, present := fields[f.Name]
		if !present {
			if f.Type.NonNull && f.Default == "" {
				return nil, fmt.Errorf("%s.%s: missing required input field", t.Name, f.Name)
			}
			continue
		}
		enc, err := e.encodeValue(f.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name, f.Name, err)
		}
		out[f.Name] = enc
	}

	var unknown []string
	for name := range fields {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%s has no input fields %s", t.Name, strings.Join(unknown, ", "))
	}
	return out, nil
}

// deref follows pointers so that optional positional parameters (*string,
// *int64) encode like their values.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// Variable is one hoisted argument value.
type Variable struct {
	// Name without the leading "$", e.g. "arg0".
	Name string
	// Type is the declared GraphQL type, e.g. "ID!".
	Type  string
	Value any
}

// errMissingArgument is reported for a selected field whose non-null
// argument without default was never supplied.
var errMissingArgument = errors.New("missing required argument")
