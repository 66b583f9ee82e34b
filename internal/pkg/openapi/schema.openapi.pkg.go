package openapi

import (
	"fmt"
	"strings"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/upload"

	"github.com/getkin/kin-openapi/openapi3"
)

const formDataMime = "multipart/form-data"

// FileSchema renders one compiled upload field: a binary string for scalar
// fields, an array of binary strings with item bounds for array fields. The
// remaining constraints go into the description, so generated docs carry
// them without custom extensions.
func FileSchema(field upload.Field) *openapi3.SchemaRef {
	binary := openapi3.NewStringSchema().WithFormat("binary")

	schema := binary
	if field.IsArray {
		schema = openapi3.NewArraySchema()
		schema.Items = binary.NewRef()
		if field.MinFiles > 0 {
			schema.MinItems = uint64(field.MinFiles)
		}
		if field.MaxFiles > 0 {
			maxItems := uint64(field.MaxFiles)
			schema.MaxItems = &maxItems
		}
	}
	schema.Description = describeField(field)

	return schema.NewRef()
}

func describeField(f upload.Field) string {
	parts := []string{fmt.Sprintf("Upload field %q", f.Name)}

	if allowed := f.Allowed(); len(allowed) > 0 {
		parts = append(parts, "allowed types: "+strings.Join(allowed, ", "))
	}

	switch {
	case f.MinSize > 0 && f.MaxSize > 0:
		parts = append(parts, fmt.Sprintf("size between %s and %s", helper.FormatSize(f.MinSize), helper.FormatSize(f.MaxSize)))
	case f.MinSize > 0:
		parts = append(parts, "minimum size "+helper.FormatSize(f.MinSize))
	case f.MaxSize > 0:
		parts = append(parts, "maximum size "+helper.FormatSize(f.MaxSize))
	}

	if f.IsArray {
		switch {
		case f.MinFiles > 0 && f.MaxFiles > 0:
			parts = append(parts, fmt.Sprintf("%d to %d files", f.MinFiles, f.MaxFiles))
		case f.MinFiles > 0:
			parts = append(parts, fmt.Sprintf("at least %d files", f.MinFiles))
		case f.MaxFiles > 0:
			parts = append(parts, fmt.Sprintf("at most %d files", f.MaxFiles))
		}
	}

	return strings.Join(parts, "; ")
}

// RequestBody builds the multipart/form-data request body for a compiled
// field set: one property per field in declaration order, required fields
// listed in the object's required array.
func RequestBody(fields *upload.Fields) *openapi3.RequestBodyRef {
	schema := openapi3.NewObjectSchema()
	for _, field := range fields.Specs() {
		schema.WithPropertyRef(field.Name, FileSchema(field))
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithFormDataSchema(schema))

	return &openapi3.RequestBodyRef{Value: body}
}

// AttachUpload merges the field set's multipart body into an operation the
// caller owns. Other content types already present on the operation are
// kept; only the multipart/form-data entry is written.
func AttachUpload(op *openapi3.Operation, fields *upload.Fields) {
	body := RequestBody(fields)

	if op.RequestBody == nil || op.RequestBody.Value == nil {
		op.RequestBody = body
		return
	}
	if op.RequestBody.Value.Content == nil {
		op.RequestBody.Value.Content = openapi3.Content{}
	}
	op.RequestBody.Value.Content[formDataMime] = body.Value.Content[formDataMime]
}
