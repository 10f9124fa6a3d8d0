package projection

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/llehouerou/go-graphql-projection/schema"
	"github.com/llehouerou/go-graphql-projection/types"
)

// selected is one field of a node's computed selection.
type selected struct {
	field *schema.Field
	child *Node
}

// selection computes the fields a node selects, in declaration order: the
// required ones, the explicitly selected ones, and the default ones unless
// the node is minimized.
func (n *Node) selection() []selected {
	var out []selected
	for _, f := range n.typ.Fields {
		if !f.Required && !n.toggled[f.Name] && (!f.Default || n.minimized) {
			continue
		}
		out = append(out, selected{field: f, child: n.children[f.Name]})
	}
	return out
}

// fragmentSelection is the selection of a fragment node minus the fields
// its abstract parent already selects. An object field selected on both
// with a wider shape inside the fragment is kept there, projected with the
// union of both selections. Arguments must agree on both sides.
func fragmentSelection(parent, frag *Node) ([]selected, error) {
	inParent := make(map[string]selected)
	for _, sel := range parent.selection() {
		inParent[sel.field.Name] = sel
	}
	var out []selected
	for _, sel := range frag.selection() {
		name := sel.field.Name
		psel, ok := inParent[name]
		if !ok {
			out = append(out, sel)
			continue
		}
		if !sameArguments(parent.args[name], frag.args[name]) {
			return nil, &BuildError{
				Type:  frag.typ.Name,
				Field: name,
				Err:   fmt.Errorf("conflicting selection: arguments differ from %s.%s", parent.typ.Name, name),
			}
		}
		if sel.child == nil || psel.child == nil {
			continue
		}
		merged, err := mergeNodes(psel.child, sel.child)
		if err != nil {
			return nil, err
		}
		same, err := sameShape(psel.child, merged)
		if err != nil {
			return nil, err
		}
		if !same {
			out = append(out, selected{field: sel.field, child: merged})
		}
	}
	return out, nil
}

func sameArguments(a, b map[string]argValue) bool {
	if len(a) != len(b) {
		return false
	}
	for name, av := range a {
		bv, ok := b[name]
		if !ok || !reflect.DeepEqual(av.value, bv.value) {
			return false
		}
	}
	return true
}

// mergeNodes returns a detached node selecting everything a and b select.
func mergeNodes(a, b *Node) (*Node, error) {
	if err := argumentConflict(a, b); err != nil {
		return nil, err
	}
	m := newNode(a.env, a.typ, &tree{})
	m.copyNode(a)
	m.copyNode(b)
	return m, m.tree.err
}

// argumentConflict walks the fields both nodes select and reports the
// first one whose arguments differ.
func argumentConflict(a, b *Node) error {
	inA := make(map[string]selected)
	for _, sel := range a.selection() {
		inA[sel.field.Name] = sel
	}
	for _, sel := range b.selection() {
		name := sel.field.Name
		asel, ok := inA[name]
		if !ok {
			continue
		}
		if !sameArguments(a.args[name], b.args[name]) {
			return &BuildError{
				Type:  b.typ.Name,
				Field: name,
				Err:   errors.New("conflicting selection: arguments differ between the interface and the fragment"),
			}
		}
		if asel.child != nil && sel.child != nil {
			if err := argumentConflict(asel.child, sel.child); err != nil {
				return err
			}
		}
	}
	for name, bf := range b.fragments {
		if af, ok := a.fragments[name]; ok {
			if err := argumentConflict(af, bf); err != nil {
				return err
			}
		}
	}
	return nil
}

// sameShape reports whether both nodes compile to the same selection set.
func sameShape(a, b *Node) (bool, error) {
	var wa, wb queryWriter
	if err := wa.writeSelectionSet(a); err != nil {
		return false, err
	}
	if err := wb.writeSelectionSet(b); err != nil {
		return false, err
	}
	return wa.buf.String() == wb.buf.String() && reflect.DeepEqual(wa.variables, wb.variables), nil
}

// queryWriter emits a selection set and collects the hoisted variables in
// the order they are met.
type queryWriter struct {
	buf       strings.Builder
	variables []Variable
}

func (w *queryWriter) writeSelectionSet(n *Node) error {
	w.buf.WriteString("{")
	sels := n.selection()
	for _, sel := range sels {
		if err := w.writeField(n, sel); err != nil {
			return err
		}
	}
	if n.typ.IsAbstract() {
		w.buf.WriteString(" ")
		w.buf.WriteString(types.TypenameField)
		for _, name := range n.typ.PossibleTypes {
			frag, ok := n.fragments[name]
			if !ok {
				continue
			}
			w.buf.WriteString(" ")
			w.buf.WriteString(types.FragmentOnPrefix)
			w.buf.WriteString(name)
			w.buf.WriteString(" {")
			fsels, err := fragmentSelection(n, frag)
			if err != nil {
				return err
			}
			for _, sel := range fsels {
				if err := w.writeField(frag, sel); err != nil {
					return err
				}
			}
			if len(fsels) == 0 {
				w.buf.WriteString(" ")
				w.buf.WriteString(types.TypenameField)
			}
			w.buf.WriteString(" }")
		}
	} else if len(sels) == 0 {
		// A selection set may not be empty.
		w.buf.WriteString(" ")
		w.buf.WriteString(types.TypenameField)
	}
	w.buf.WriteString(" }")
	return nil
}

func (w *queryWriter) writeField(n *Node, sel selected) error {
	f := sel.field
	w.buf.WriteString(" ")
	w.buf.WriteString(f.Name)

	values := n.args[f.Name]
	first := true
	for _, arg := range f.Arguments {
		v, ok := values[arg.Name]
		if !ok {
			if !arg.Optional() {
				return &CompileError{Type: n.typ.Name, Field: f.Name, Argument: arg.Name, Err: errMissingArgument}
			}
			continue
		}
		if first {
			w.buf.WriteString("(")
			first = false
		} else {
			w.buf.WriteString(", ")
		}
		name := types.VariablePrefix + strconv.Itoa(len(w.variables))
		w.variables = append(w.variables, Variable{Name: name, Type: arg.Type.String(), Value: v.value})
		fmt.Fprintf(&w.buf, "%s: $%s", arg.Name, name)
	}
	if !first {
		w.buf.WriteString(")")
	}

	if n.isLeaf(f) {
		return nil
	}
	if sel.child == nil {
		return &CompileError{Type: n.typ.Name, Field: f.Name, Err: fmt.Errorf("object field has no projection")}
	}
	w.buf.WriteString(" ")
	return w.writeSelectionSet(sel.child)
}
