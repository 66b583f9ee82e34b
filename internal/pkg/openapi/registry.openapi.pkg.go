package openapi

import (
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	ErrSchemaNotRegistered = errors.New("schema not registered")
	ErrSchemaDuplicate     = errors.New("schema already registered")
)

// SchemaRegistry collects named component schemas before a document is
// assembled. Registration runs in two phases: Register and RegisterDeferred
// collect, Resolve runs the deferred providers. Ref only hands out
// references to names that made it through both phases, so a reference can
// never point at a schema that failed to materialize.
type SchemaRegistry struct {
	schemas  openapi3.Schemas
	deferred map[string]func() (*openapi3.SchemaRef, error)
	order    []string
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		schemas:  openapi3.Schemas{},
		deferred: map[string]func() (*openapi3.SchemaRef, error){},
	}
}

func (r *SchemaRegistry) Register(name string, schema *openapi3.SchemaRef) error {
	if name == "" {
		return errors.New("schema name is empty")
	}
	if schema == nil {
		return fmt.Errorf("nil schema for %s", name)
	}
	if r.exists(name) {
		return fmt.Errorf("%w: %s", ErrSchemaDuplicate, name)
	}
	r.schemas[name] = schema
	return nil
}

// RegisterDeferred records a provider to run later, for schemas that cannot
// be built yet when routes are wired.
func (r *SchemaRegistry) RegisterDeferred(name string, resolve func() (*openapi3.SchemaRef, error)) error {
	if name == "" {
		return errors.New("schema name is empty")
	}
	if resolve == nil {
		return fmt.Errorf("nil resolver for %s", name)
	}
	if r.exists(name) {
		return fmt.Errorf("%w: %s", ErrSchemaDuplicate, name)
	}
	r.deferred[name] = resolve
	r.order = append(r.order, name)
	return nil
}

func (r *SchemaRegistry) exists(name string) bool {
	if _, ok := r.schemas[name]; ok {
		return true
	}
	_, ok := r.deferred[name]
	return ok
}

// Resolve runs every deferred provider in registration order. The first
// provider error aborts with that name wrapped in; the failed name stays
// unresolved, so a later Ref for it fails as well.
func (r *SchemaRegistry) Resolve() error {
	for _, name := range r.order {
		resolve, ok := r.deferred[name]
		if !ok {
			continue
		}
		schema, err := resolve()
		if err != nil {
			return fmt.Errorf("resolving schema %s: %w", name, err)
		}
		if schema == nil {
			return fmt.Errorf("resolving schema %s: resolver returned nil", name)
		}
		r.schemas[name] = schema
		delete(r.deferred, name)
	}
	return nil
}

// Ref returns a $ref to a registered schema. Unknown names and deferred
// names that have not been resolved yet are errors. The ref carries the
// resolved value so in-memory document validation can follow it.
func (r *SchemaRegistry) Ref(name string) (*openapi3.SchemaRef, error) {
	schema, ok := r.schemas[name]
	if !ok {
		if _, pending := r.deferred[name]; pending {
			return nil, fmt.Errorf("%w: %s is pending resolution", ErrSchemaNotRegistered, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotRegistered, name)
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schema.Value), nil
}

// Components returns a snapshot of the resolved schemas.
func (r *SchemaRegistry) Components() openapi3.Schemas {
	out := make(openapi3.Schemas, len(r.schemas))
	for name, schema := range r.schemas {
		out[name] = schema
	}
	return out
}
