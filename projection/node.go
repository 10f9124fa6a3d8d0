// Package projection builds GraphQL selection sets as trees of Nodes,
// compiles them into documents with hoisted variables, and decodes
// responses into Objects that remember which fields were selected.
//
// A Node is not safe for concurrent use. The first invalid call on a tree
// is recorded and turns every later call on the same tree into a no-op;
// Err and Compile report it.
package projection

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/llehouerou/go-graphql-projection/schema"
	"github.com/llehouerou/go-graphql-projection/types"
)

// tree is the state shared by all nodes of one projection.
type tree struct {
	err    error
	frozen bool
}

// argValue is an encoded argument value.
type argValue struct {
	value      any
	positional bool
}

// Node is one selected occurrence of a GraphQL type.
type Node struct {
	env  *Env
	typ  *schema.Type
	tree *tree

	toggled   map[string]bool
	args      map[string]map[string]argValue
	children  map[string]*Node
	fragments map[string]*Node
	minimized bool
}

// NewRoot returns the root node of an operation: a projection of the
// schema's query, mutation or subscription type.
func NewRoot(env *Env, op types.Operation) (*Node, error) {
	var root *schema.Type
	switch op {
	case types.OperationQuery:
		root = env.Schema.QueryType()
	case types.OperationMutation:
		root = env.Schema.MutationType()
	case types.OperationSubscription:
		root = env.Schema.SubscriptionType()
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	if root == nil {
		return nil, fmt.Errorf("schema has no %s type", op)
	}
	return newNode(env, root, &tree{}), nil
}

// New returns a detached projection of the named type, e.g. to replay an
// existing selection with CopyFrom.
func New(env *Env, typeName string) (*Node, error) {
	t, ok := env.Schema.Type(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
	if t.IsLeaf() || t.Kind == schema.InputObject {
		return nil, fmt.Errorf("type %s has no selection set", typeName)
	}
	return newNode(env, t, &tree{}), nil
}

func newNode(env *Env, t *schema.Type, tr *tree) *Node {
	return &Node{
		env:       env,
		typ:       t,
		tree:      tr,
		toggled:   make(map[string]bool),
		args:      make(map[string]map[string]argValue),
		children:  make(map[string]*Node),
		fragments: make(map[string]*Node),
	}
}

// Type returns the schema type the node projects. It is nil on the
// placeholder returned after a failed call.
func (n *Node) Type() *schema.Type { return n.typ }

// Env returns the environment the node was built with.
func (n *Node) Env() *Env { return n.env }

// Err returns the first error recorded on the node's tree.
func (n *Node) Err() error { return n.tree.err }

// Frozen reports whether the tree was compiled.
func (n *Node) Frozen() bool { return n.tree.frozen }

// Minimize drops default-selected fields from this node. Required fields
// and explicitly selected fields stay.
func (n *Node) Minimize() {
	if !n.writable("", "") {
		return
	}
	n.minimized = true
}

// Select switches a field on. Object-valued fields are opened with their
// default projection.
func (n *Node) Select(field string) {
	f, ok := n.field(field)
	if !ok {
		return
	}
	if !n.isLeaf(f) {
		n.Open(field)
		return
	}
	n.toggled[field] = true
}

// Open selects an object-valued field and returns its child node, reusing
// the child if the field is already open.
func (n *Node) Open(field string) *Node {
	f, ok := n.field(field)
	if !ok {
		return n.placeholder()
	}
	if n.isLeaf(f) {
		n.fail(field, "", fmt.Errorf("%s is a leaf of type %s and has no selection set", field, f.Type))
		return n.placeholder()
	}
	n.toggled[field] = true
	return n.child(f)
}

// Argument records a positional argument of field and selects the field.
// A nil value for a nullable argument is ignored. Supplying a different
// value for an argument already set positionally is a conflicting
// selection.
func (n *Node) Argument(field, arg string, value any) {
	n.setArgument(field, arg, value, true)
}

// SetSelection assigns a selection argument of field and selects the
// field. Later assignments win; nil removes the value.
func (n *Node) SetSelection(field, arg string, value any) {
	n.setArgument(field, arg, value, false)
}

func (n *Node) setArgument(field, argName string, value any, positional bool) {
	f, ok := n.field(field)
	if !ok {
		return
	}
	arg, ok := f.Argument(argName)
	if !ok {
		n.fail(field, argName, errors.New("unknown argument"))
		return
	}
	if !positional && !arg.Selection {
		n.fail(field, argName, errors.New("not a selection argument"))
		return
	}
	encoded, err := n.env.encodeValue(arg.Type, value)
	if err != nil {
		n.fail(field, argName, err)
		return
	}
	n.toggled[field] = true

	values := n.args[field]
	if values == nil {
		values = make(map[string]argValue)
		n.args[field] = values
	}
	prev, exists := values[argName]
	switch {
	case positional && encoded == nil:
		return
	case positional && exists && prev.positional && !reflect.DeepEqual(prev.value, encoded):
		n.fail(field, argName, fmt.Errorf("conflicting selection: already set to %v, got %v", prev.value, encoded))
		return
	case !positional && encoded == nil:
		delete(values, argName)
		return
	}
	values[argName] = argValue{value: encoded, positional: positional}
}

// On opens the fragment for a concrete member of an interface or union and
// returns its node, reusing it if already open.
func (n *Node) On(typeName string) *Node {
	if !n.writable("", "") {
		return n.placeholder()
	}
	if !n.typ.IsAbstract() {
		n.fail("", "", fmt.Errorf("fragment on %s: %s is not an interface or union", typeName, n.typ.Name))
		return n.placeholder()
	}
	if !n.typ.HasPossibleType(typeName) {
		n.fail("", "", fmt.Errorf("fragment on %s: not a member of %s", typeName, n.typ.Name))
		return n.placeholder()
	}
	if frag, ok := n.fragments[typeName]; ok {
		return frag
	}
	frag := newNode(n.env, n.env.Schema.MustType(typeName), n.tree)
	n.fragments[typeName] = frag
	return frag
}

// CopyFrom replays the selection of existing nodes onto n. Each source
// must project the same type as n, an interface or union n belongs to (the
// abstract part of a fragment-decoded object), or a member of n when n is
// abstract. The copied fields are recorded as explicit selections and n is
// minimized, so n compiles to the same shape as the sources.
func (n *Node) CopyFrom(srcs ...*Node) {
	if !n.writable("", "") {
		return
	}
	for _, src := range srcs {
		if src == nil || src.typ == nil {
			continue
		}
		switch {
		case n.accepts(src.typ):
			n.copyNode(src)
		case n.typ.HasPossibleType(src.typ.Name):
			// a concrete projection copied onto one of its interfaces or
			// unions lands in the matching fragment
			n.minimized = true
			n.On(src.typ.Name).copyNode(src)
		default:
			n.fail("", "", fmt.Errorf("cannot copy a projection of %s", src.typ.Name))
			return
		}
	}
}

func (n *Node) accepts(t *schema.Type) bool {
	if t.Name == n.typ.Name {
		return true
	}
	switch t.Kind {
	case schema.Interface:
		for _, name := range n.typ.Interfaces {
			if name == t.Name {
				return true
			}
		}
	case schema.Union:
		return t.HasPossibleType(n.typ.Name)
	}
	return false
}

func (n *Node) copyNode(src *Node) {
	n.minimized = true
	for _, sel := range src.selection() {
		name := sel.field.Name
		f, ok := n.typ.Field(name)
		if !ok {
			continue
		}
		n.toggled[name] = true
		for argName, v := range src.args[name] {
			if n.args[name] == nil {
				n.args[name] = make(map[string]argValue)
			}
			n.args[name][argName] = v
		}
		if sel.child != nil {
			n.child(f).copyNode(sel.child)
		}
	}
	if src.typ.Name != n.typ.Name {
		return
	}
	for _, name := range src.typ.PossibleTypes {
		if frag, ok := src.fragments[name]; ok {
			n.On(name).copyNode(frag)
		}
	}
}

func (n *Node) child(f *schema.Field) *Node {
	if c, ok := n.children[f.Name]; ok {
		return c
	}
	c := newNode(n.env, n.env.Schema.MustType(f.Type.NamedType()), n.tree)
	n.children[f.Name] = c
	return c
}

func (n *Node) isLeaf(f *schema.Field) bool {
	t, ok := n.env.Schema.Type(f.Type.NamedType())
	return ok && t.IsLeaf()
}

// field resolves a field for a mutating call, recording an error when the
// tree is not writable or the field is unknown.
func (n *Node) field(name string) (*schema.Field, bool) {
	if !n.writable(name, "") {
		return nil, false
	}
	f, ok := n.typ.Field(name)
	if !ok {
		n.fail(name, "", errors.New("unknown field"))
		return nil, false
	}
	return f, true
}

func (n *Node) writable(field, arg string) bool {
	if n.tree.err != nil {
		return false
	}
	if n.tree.frozen {
		n.fail(field, arg, ErrFrozen)
		return false
	}
	return true
}

func (n *Node) fail(field, arg string, err error) {
	if n.tree.err != nil {
		return
	}
	var typeName string
	if n.typ != nil {
		typeName = n.typ.Name
	}
	n.tree.err = &BuildError{Type: typeName, Field: field, Argument: arg, Err: err}
}

// placeholder is handed out after a failed call so that chained calls stay
// safe; the tree already carries the error.
func (n *Node) placeholder() *Node {
	return &Node{env: n.env, tree: n.tree}
}
