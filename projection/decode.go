package projection

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/llehouerou/go-graphql-projection/pkg/jsonutil"
	"github.com/llehouerou/go-graphql-projection/schema"
	"github.com/llehouerou/go-graphql-projection/types"
)

// Decode builds the Object graph for the "data" member of a response to
// req. Only the fields selected by the request's projection are read;
// a missing key, a null for a non-null field or an unknown type
// discriminator is a *DecodeError.
func Decode(req *Request, data []byte) (*Object, error) {
	root := req.root
	raw, err := jsonutil.ParseObject(data)
	if err != nil {
		return nil, &DecodeError{Type: root.typ.Name, Err: err}
	}
	d := &decoder{env: root.env}
	return d.object(root, raw)
}

type decoder struct {
	env  *Env
	path []string
}

func (d *decoder) object(n *Node, raw map[string]any) (*Object, error) {
	obj := &Object{typename: n.typ.Name, values: make(map[string]any)}

	if !n.typ.IsAbstract() {
		obj.nodes = []*Node{n}
		if err := d.fields(obj, n, n.selection(), raw); err != nil {
			return nil, err
		}
		return obj, nil
	}

	typename, err := d.discriminator(n, raw)
	if err != nil {
		return nil, err
	}
	obj.typename = typename
	obj.nodes = []*Node{n}
	if err := d.fields(obj, n, n.selection(), raw); err != nil {
		return nil, err
	}
	if frag, ok := n.fragments[typename]; ok {
		obj.nodes = append(obj.nodes, frag)
		sels, err := fragmentSelection(n, frag)
		if err != nil {
			return nil, err
		}
		if err := d.fields(obj, frag, sels, raw); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (d *decoder) discriminator(n *Node, raw map[string]any) (string, error) {
	v, ok := raw[types.TypenameField]
	if !ok {
		return "", d.fail(n.typ.Name, types.TypenameField, errors.New("missing type discriminator"))
	}
	name, ok := v.(string)
	if !ok {
		return "", d.fail(n.typ.Name, types.TypenameField, fmt.Errorf("type discriminator is %s", jsonutil.Describe(v)))
	}
	if !n.typ.HasPossibleType(name) {
		return "", d.fail(n.typ.Name, types.TypenameField, fmt.Errorf("unexpected type discriminator %q", name))
	}
	return name, nil
}

func (d *decoder) fields(obj *Object, n *Node, sels []selected, raw map[string]any) error {
	for _, sel := range sels {
		name := sel.field.Name
		d.path = append(d.path, name)
		v, ok := raw[name]
		if !ok {
			err := d.fail(n.typ.Name, name, errors.New("missing field"))
			d.path = d.path[:len(d.path)-1]
			return err
		}
		decoded, err := d.value(n, sel.field, sel.field.Type, sel.child, v)
		d.path = d.path[:len(d.path)-1]
		if err != nil {
			return err
		}
		obj.set(name, decoded)
	}
	return nil
}

func (d *decoder) value(owner *Node, f *schema.Field, ref *schema.TypeRef, child *Node, v any) (any, error) {
	if v == nil {
		if ref.NonNull {
			return nil, d.fail(owner.typ.Name, f.Name, fmt.Errorf("null for non-null type %s", ref))
		}
		return nil, nil
	}

	if ref.IsList() {
		items, ok := v.([]any)
		if !ok {
			return nil, d.fail(owner.typ.Name, f.Name, fmt.Errorf("want a list, got %s", jsonutil.Describe(v)))
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			d.path = append(d.path, "["+strconv.Itoa(i)+"]")
			decoded, err := d.value(owner, f, ref.Elem, child, item)
			d.path = d.path[:len(d.path)-1]
			if err != nil {
				return nil, err
			}
			out = append(out, decoded)
		}
		return out, nil
	}

	t, ok := d.env.Schema.Type(ref.Name)
	if !ok {
		return nil, d.fail(owner.typ.Name, f.Name, fmt.Errorf("unknown type %s", ref.Name))
	}
	switch t.Kind {
	case schema.Scalar:
		out, err := d.env.Scalars.Decode(t.Name, v)
		if err != nil {
			return nil, d.fail(owner.typ.Name, f.Name, err)
		}
		return out, nil
	case schema.Enum:
		s, ok := v.(string)
		if !ok || !t.HasEnumValue(s) {
			return nil, d.fail(owner.typ.Name, f.Name, fmt.Errorf("%v is not a value of enum %s", v, t.Name))
		}
		return s, nil
	default:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, d.fail(owner.typ.Name, f.Name, fmt.Errorf("want an object, got %s", jsonutil.Describe(v)))
		}
		return d.object(child, m)
	}
}

func (d *decoder) fail(typ, field string, err error) error {
	return &DecodeError{Path: jsonutil.FormatPath(d.path), Type: typ, Field: field, Err: err}
}
