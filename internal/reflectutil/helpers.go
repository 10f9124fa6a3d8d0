package reflectutil

import (
	"math"
	"reflect"
)

// Int64 converts any Go integer (or a named type over one) to int64.
// Unsigned values above math.MaxInt64 are rejected.
func Int64(x any) (int64, bool) {
	v := UnwrapToConcreteValue(reflect.ValueOf(x))
	if !v.IsValid() {
		return 0, false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// Float64 converts any Go integer or float to float64.
func Float64(x any) (float64, bool) {
	v := UnwrapToConcreteValue(reflect.ValueOf(x))
	if !v.IsValid() {
		return 0, false
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	if i, ok := Int64(x); ok {
		return float64(i), true
	}
	return 0, false
}

// String returns the string held in x, accepting named string types.
func String(x any) (string, bool) {
	v := UnwrapToConcreteValue(reflect.ValueOf(x))
	if !v.IsValid() || v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}
