package projection

import (
	"fmt"
	"strings"

	"github.com/llehouerou/go-graphql-projection/types"
)

// OptionType identifies the kind of a compile Option.
type OptionType string

const (
	optionTypeOperationName      OptionType = "operation_name"
	OptionTypeOperationDirective OptionType = "operation_directive"
)

// Option customizes the compiled operation.
type Option interface {
	Type() OptionType
	String() string
}

type operationName string

func (o operationName) Type() OptionType { return optionTypeOperationName }
func (o operationName) String() string   { return string(o) }

// OperationName names the operation: "query CountryByID($arg0: ID!) {...}".
func OperationName(name string) Option {
	return operationName(name)
}

type operationDirective string

func (o operationDirective) Type() OptionType { return OptionTypeOperationDirective }
func (o operationDirective) String() string   { return string(o) }

// OperationDirective adds a directive to the operation, e.g. "@cached".
func OperationDirective(directive string) Option {
	return operationDirective(directive)
}

type constructOptionsOutput struct {
	operationName       string
	operationDirectives []string
}

func (coo constructOptionsOutput) OperationDirectivesString() string {
	operationDirectivesStr := strings.Join(coo.operationDirectives, " ")
	if operationDirectivesStr != "" {
		return " " + operationDirectivesStr
	}
	return ""
}

func constructOptions(options []Option) (*constructOptionsOutput, error) {
	output := &constructOptionsOutput{}

	for _, option := range options {
		switch option.Type() {
		case optionTypeOperationName:
			output.operationName = option.String()
		case OptionTypeOperationDirective:
			output.operationDirectives = append(
				output.operationDirectives,
				option.String(),
			)
		default:
			return nil, fmt.Errorf("invalid query option type: %s", option.Type())
		}
	}

	return output, nil
}

// Request is a compiled operation. It is immutable; the root node it keeps
// is frozen and is needed to decode the response.
type Request struct {
	Operation types.Operation
	Document  string
	// Variables in emission order.
	Variables []Variable

	root *Node
}

// Root returns the frozen projection the request was compiled from.
func (r *Request) Root() *Node { return r.root }

// VariableMap returns the variables keyed by name, or nil when there are
// none, ready to be sent as the "variables" member of a request.
func (r *Request) VariableMap() map[string]any {
	if len(r.Variables) == 0 {
		return nil
	}
	m := make(map[string]any, len(r.Variables))
	for _, v := range r.Variables {
		m[v.Name] = v.Value
	}
	return m
}

// Compile freezes the tree rooted at root and compiles it into a request.
// Fields are emitted in schema declaration order and every argument value
// is hoisted into a variable, so equal shapes compile to equal documents.
// The first build error recorded on the tree is returned as is.
func Compile(op types.Operation, root *Node, options ...Option) (*Request, error) {
	if err := root.Err(); err != nil {
		return nil, err
	}
	if root.typ == nil {
		return nil, &CompileError{Err: fmt.Errorf("empty projection")}
	}
	optionsOutput, err := constructOptions(options)
	if err != nil {
		return nil, &CompileError{Type: root.typ.Name, Err: err}
	}
	if !root.tree.frozen {
		if err := root.materialize(0); err != nil {
			return nil, err
		}
		root.tree.frozen = true
	}

	w := &queryWriter{}
	if err := w.writeSelectionSet(root); err != nil {
		return nil, err
	}

	var doc strings.Builder
	doc.WriteString(string(op))
	if optionsOutput.operationName != "" {
		doc.WriteString(" ")
		doc.WriteString(optionsOutput.operationName)
	}
	if len(w.variables) > 0 {
		doc.WriteString("(")
		for i, v := range w.variables {
			if i > 0 {
				doc.WriteString(", ")
			}
			fmt.Fprintf(&doc, "$%s: %s", v.Name, v.Type)
		}
		doc.WriteString(")")
	}
	doc.WriteString(optionsOutput.OperationDirectivesString())
	doc.WriteString(" ")
	doc.WriteString(w.buf.String())

	return &Request{
		Operation: op,
		Document:  doc.String(),
		Variables: w.variables,
		root:      root,
	}, nil
}

// maxDefaultDepth bounds the expansion of object fields that are selected
// by default, which would otherwise recurse forever on cyclic schemas.
const maxDefaultDepth = 32

// materialize creates the child nodes of object fields that are selected
// without an explicit block (required or default fields), so that the
// compiler and the decoder see the same tree.
func (n *Node) materialize(depth int) error {
	if depth > maxDefaultDepth {
		return &CompileError{Type: n.typ.Name, Err: fmt.Errorf("default selection nested deeper than %d levels", maxDefaultDepth)}
	}
	for _, sel := range n.selection() {
		if n.isLeaf(sel.field) {
			continue
		}
		child := n.child(sel.field)
		if err := child.materialize(depth + 1); err != nil {
			return err
		}
	}
	for _, frag := range n.fragments {
		if err := frag.materialize(depth + 1); err != nil {
			return err
		}
	}
	return nil
}
