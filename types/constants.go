package types

// GraphQL-related constants used throughout the codebase.
// Centralizing these prevents typos and makes refactoring safer.
const (
	// TypenameField is the GraphQL introspection field used for type
	// discrimination in unions and interfaces.
	TypenameField = "__typename"

	// FragmentOnPrefix is the full prefix for typed inline fragments
	// (e.g., "... on Film").
	FragmentOnPrefix = "... on "

	// VariablePrefix is the name prefix of hoisted argument variables
	// ($arg0, $arg1, ...).
	VariablePrefix = "arg"

	// IntrospectionPrefix marks schema fields injected by the parser
	// (__schema, __type) that never take part in projections.
	IntrospectionPrefix = "__"
)

// Schema directives that drive projection semantics.
const (
	// DirectivePrimaryKey marks an identifier field. It is always selected.
	DirectivePrimaryKey = "primaryKey"

	// DirectiveRequired marks a field that is always selected.
	DirectiveRequired = "required"

	// DirectiveDefault marks a field that is selected unless the
	// projection is minimized.
	DirectiveDefault = "default"

	// DirectiveSelection turns the optional arguments of a field into
	// selection arguments, set inside the projection block.
	DirectiveSelection = "selection"
)

// Operation is the kind of a GraphQL operation.
type Operation string

const (
	OperationQuery        Operation = "query"
	OperationMutation     Operation = "mutation"
	OperationSubscription Operation = "subscription"
)
