package reflectutil

import "reflect"

// IndexSafe safely indexes into a reflect.Value.
// Returns the value at index i if v is valid and i is within bounds,
// otherwise returns an invalid reflect.Value.
func IndexSafe(v reflect.Value, i int) reflect.Value {
	if v.IsValid() && i >= 0 && i < v.Len() {
		return v.Index(i)
	}
	return reflect.ValueOf(nil)
}

// IsNillable returns true if the given kind can hold a nil value.
func IsNillable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Ptr,
		reflect.Interface,
		reflect.Slice,
		reflect.Map,
		reflect.Chan,
		reflect.Func:
		return true
	default:
		return false
	}
}

// UnwrapToConcreteValue unwraps pointers and interfaces to get to the concrete value.
// Returns the concrete value, or an invalid reflect.Value if a nil is met on the way.
//
// Example:
//
//	var x **int
//	v := reflect.ValueOf(x)
//	concrete := UnwrapToConcreteValue(v) // returns the int value (if not nil)
func UnwrapToConcreteValue(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// IsNil reports whether x is nil, including typed nils stored in an
// interface (a nil *T, a nil slice or a nil map).
func IsNil(x any) bool {
	if x == nil {
		return true
	}
	return IsNilValue(reflect.ValueOf(x))
}

// IsNilValue safely checks if a reflect.Value is nil.
// Returns true if:
// - The value is invalid
// - The value's kind can hold nil (pointer, interface, slice, map, chan, func) AND it is nil
// Returns false for non-nillable kinds (int, string, struct, etc.)
func IsNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	return IsNillable(v.Kind()) && v.IsNil()
}

// Elements returns the items of a slice or array held in x, boxed as any.
// Pointers are followed. The second result is false when x is not a list.
func Elements(x any) ([]any, bool) {
	v := UnwrapToConcreteValue(reflect.ValueOf(x))
	if !v.IsValid() {
		return nil, false
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is a scalar in every codec we know.
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		out = append(out, IndexSafe(v, i).Interface())
	}
	return out, true
}
