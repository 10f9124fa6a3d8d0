package projection

import (
	"errors"
	"fmt"
)

// ErrFrozen is reported when a projection tree is changed after it was
// compiled.
var ErrFrozen = errors.New("projection is frozen")

// BuildError reports an invalid projection: an unknown field or argument,
// an argument value the field does not accept, a fragment on a type that is
// not a member of the interface or union, or conflicting positional
// arguments.
type BuildError struct {
	Type     string
	Field    string
	Argument string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build projection %s: %v", location(e.Type, e.Field, e.Argument), e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// CompileError reports a projection the compiler cannot turn into a
// document, such as a selected field whose required argument was never
// supplied.
type CompileError struct {
	Type     string
	Field    string
	Argument string
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", location(e.Type, e.Field, e.Argument), e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// DecodeError reports a response that does not match the projection that
// requested it: a missing field, a null for a non-null field, a value of
// the wrong shape or an unexpected type discriminator.
type DecodeError struct {
	// Path is the location in the response data, e.g. "country.films[0].title".
	Path  string
	Type  string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode %s: %v", location(e.Type, e.Field, ""), e.Err)
	}
	return fmt.Sprintf("decode %s at %s: %v", location(e.Type, e.Field, ""), e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PropertyNotSelectedError is returned, or raised by typed getters, when a
// field is read from an object whose projection did not select it. It
// tells "not fetched" apart from "fetched as null".
type PropertyNotSelectedError struct {
	Type  string
	Field string
}

func (e *PropertyNotSelectedError) Error() string {
	return fmt.Sprintf(
		"property %q of %s is not available: add %q to the projection to switch it on",
		e.Field, e.Type, e.Field,
	)
}

func location(typ, field, arg string) string {
	s := typ
	if field != "" {
		s += "." + field
	}
	if arg != "" {
		s += "(" + arg + ")"
	}
	if s == "" {
		return "<unknown>"
	}
	return s
}
