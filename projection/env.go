package projection

import (
	"fmt"

	"github.com/llehouerou/go-graphql-projection/scalar"
	"github.com/llehouerou/go-graphql-projection/schema"
)

// Env binds a schema to the scalar codecs used to encode arguments and
// decode responses. It is read-only and shared by all projection trees.
type Env struct {
	Schema  *schema.Schema
	Scalars *scalar.Registry
}

// NewEnv returns an Env. A nil registry means the built-in scalars only.
func NewEnv(s *schema.Schema, scalars *scalar.Registry) *Env {
	if scalars == nil {
		scalars = scalar.NewRegistry()
	}
	return &Env{Schema: s, Scalars: scalars}
}

// Validate checks that every scalar declared by the schema has a codec.
func (e *Env) Validate() error {
	for _, t := range e.Schema.Types() {
		if t.Kind != schema.Scalar {
			continue
		}
		if _, ok := e.Scalars.Lookup(t.Name); !ok {
			return fmt.Errorf("scalar %s has no registered codec", t.Name)
		}
	}
	return nil
}
