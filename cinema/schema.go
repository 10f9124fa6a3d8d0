// Package cinema is the typed client of the cinema example schema:
// countries, their films and actors, tags, and creation events.
//
// Most of the package is generated by projectiongen from schema.graphqls;
// entity.go adds the hand-written shortcuts.
package cinema

import _ "embed"

//go:generate go run ../cmd/projectiongen --config projectiongen.yaml

// SchemaSDL is the cinema schema.
//
//go:embed schema.graphqls
var SchemaSDL string
