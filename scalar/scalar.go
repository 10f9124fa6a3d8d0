// Package scalar maps GraphQL scalar names to Go representations and the
// functions that move values between the two.
//
// Encode turns a Go value into a JSON-compatible value suitable for a
// variables map. Decode turns a value produced by the JSON decoder
// (json.Number, string, bool, map[string]any, []any) into the Go value.
package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/llehouerou/go-graphql-projection/internal/reflectutil"
)

// Codec describes one scalar.
type Codec struct {
	// GoType is the host type values decode to.
	GoType reflect.Type
	Encode func(v any) (any, error)
	Decode func(v any) (any, error)
}

// Registry is a set of scalar codecs keyed by GraphQL name. It is safe for
// concurrent use; registration normally happens once at startup.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry returns a registry holding the GraphQL built-in scalars:
// Int, Float, String, Boolean and ID (as string).
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec)}
	r.Register("Int", Int)
	r.Register("Float", Float)
	r.Register("String", String)
	r.Register("Boolean", Boolean)
	r.Register("ID", ID)
	return r
}

// Register adds or replaces the codec for name. It returns the receiver so
// registrations can be chained.
func (r *Registry) Register(name string, c Codec) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[name] = c
	return r
}

// Lookup returns the codec registered for name.
func (r *Registry) Lookup(name string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[name]
	return c, ok
}

// Names returns the registered scalar names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode converts v to its variables-map form using the codec for name.
func (r *Registry) Encode(name string, v any) (any, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownScalarError{Name: name}
	}
	out, err := c.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return out, nil
}

// Decode converts a decoded JSON value to its Go form using the codec for
// name.
func (r *Registry) Decode(name string, v any) (any, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownScalarError{Name: name}
	}
	out, err := c.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

// UnknownScalarError is returned for a scalar name with no codec.
type UnknownScalarError struct {
	Name string
}

func (e *UnknownScalarError) Error() string {
	return fmt.Sprintf("no codec registered for scalar %q", e.Name)
}

// Int is the built-in Int scalar, decoded as int and range-checked to 32 bits.
var Int = Codec{
	GoType: reflect.TypeOf(0),
	Encode: func(v any) (any, error) {
		i, ok := reflectutil.Int64(v)
		if !ok {
			return nil, fmt.Errorf("want an integer, got %T", v)
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("%d overflows a 32-bit integer", i)
		}
		return int(i), nil
	},
	Decode: func(v any) (any, error) {
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("%d overflows a 32-bit integer", i)
		}
		return int(i), nil
	},
}

// Float is the built-in Float scalar, decoded as float64.
var Float = Codec{
	GoType: reflect.TypeOf(float64(0)),
	Encode: func(v any) (any, error) {
		f, ok := reflectutil.Float64(v)
		if !ok {
			return nil, fmt.Errorf("want a number, got %T", v)
		}
		return f, nil
	},
	Decode: func(v any) (any, error) {
		switch v := v.(type) {
		case json.Number:
			return v.Float64()
		case float64:
			return v, nil
		}
		if f, ok := reflectutil.Float64(v); ok {
			return f, nil
		}
		return nil, fmt.Errorf("want a number, got %T", v)
	},
}

// String is the built-in String scalar.
var String = Codec{
	GoType: reflect.TypeOf(""),
	Encode: func(v any) (any, error) {
		s, ok := reflectutil.String(v)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", v)
		}
		return s, nil
	},
	Decode: func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", v)
		}
		return s, nil
	},
}

// Boolean is the built-in Boolean scalar.
var Boolean = Codec{
	GoType: reflect.TypeOf(false),
	Encode: func(v any) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want a bool, got %T", v)
		}
		return b, nil
	},
	Decode: func(v any) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want a bool, got %T", v)
		}
		return b, nil
	},
}

// ID is the built-in ID scalar carried as a string. Integers are accepted
// on both sides since servers serialize IDs either way.
var ID = Codec{
	GoType: reflect.TypeOf(""),
	Encode: func(v any) (any, error) {
		if s, ok := reflectutil.String(v); ok {
			return s, nil
		}
		if i, ok := reflectutil.Int64(v); ok {
			return strconv.FormatInt(i, 10), nil
		}
		return nil, fmt.Errorf("want a string or an integer, got %T", v)
	},
	Decode: func(v any) (any, error) {
		switch v := v.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		}
		return nil, fmt.Errorf("want a string or a number, got %T", v)
	},
}

// toInt64 accepts the shapes an integer can take after JSON decoding.
func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case json.Number:
		return v.Int64()
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	if i, ok := reflectutil.Int64(v); ok {
		return i, nil
	}
	return 0, fmt.Errorf("want an integer, got %T", v)
}
