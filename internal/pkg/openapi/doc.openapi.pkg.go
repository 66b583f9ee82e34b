package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Doc owns the OpenAPI document under assembly.
type Doc struct {
	t *openapi3.T
}

func NewDoc(title, version string) *Doc {
	return &Doc{
		t: &openapi3.T{
			OpenAPI: "3.0.3",
			Info: &openapi3.Info{
				Title:   title,
				Version: version,
			},
			Paths: openapi3.NewPaths(),
		},
	}
}

func (d *Doc) AddOperation(method, path string, op *openapi3.Operation) {
	if op.Responses == nil {
		op.Responses = openapi3.NewResponses()
	}
	d.t.AddOperation(path, method, op)
}

// Components resolves the registry and installs its schemas on the
// document. A failed resolution leaves the document without components.
func (d *Doc) Components(reg *SchemaRegistry) error {
	if err := reg.Resolve(); err != nil {
		return err
	}
	d.t.Components = &openapi3.Components{Schemas: reg.Components()}
	return nil
}

// JSON validates the document and renders it.
func (d *Doc) JSON() ([]byte, error) {
	if err := d.t.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return json.Marshal(d.t)
}
