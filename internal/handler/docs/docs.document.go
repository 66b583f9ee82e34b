package docs

import (
	"net/http"
	"uploadkit-go/internal/common/enum"
	"uploadkit-go/internal/handler/media"
	"uploadkit-go/internal/pkg/openapi"

	"github.com/getkin/kin-openapi/openapi3"
)

// NewDocument assembles the service document: every media route, the
// multipart request body generated from the compiled upload fields, and the
// component schemas behind the responses.
func NewDocument(title, version string) (*openapi.Doc, error) {
	reg := openapi.NewSchemaRegistry()

	if err := reg.Register("ResultDownload", resultDownloadSchema()); err != nil {
		return nil, err
	}
	if err := reg.Register("Media", mediaSchema()); err != nil {
		return nil, err
	}

	// The page schemas need the Media ref, which is only handed out once
	// every plain registration went through.
	if err := reg.RegisterDeferred("MediaPage", func() (*openapi3.SchemaRef, error) {
		items, err := reg.Ref("Media")
		if err != nil {
			return nil, err
		}
		data := openapi3.NewArraySchema()
		data.Items = items
		return openapi3.NewObjectSchema().
			WithProperty("currentPage", openapi3.NewIntegerSchema()).
			WithProperty("perPage", openapi3.NewIntegerSchema()).
			WithProperty("totalItems", openapi3.NewInt64Schema()).
			WithProperty("totalPages", openapi3.NewIntegerSchema()).
			WithPropertyRef("data", data.NewRef()).
			NewRef(), nil
	}); err != nil {
		return nil, err
	}
	if err := reg.RegisterDeferred("MediaCursorPage", func() (*openapi3.SchemaRef, error) {
		items, err := reg.Ref("Media")
		if err != nil {
			return nil, err
		}
		data := openapi3.NewArraySchema()
		data.Items = items
		return openapi3.NewObjectSchema().
			WithPropertyRef("items", data.NewRef()).
			WithProperty("nextCursor", openapi3.NewStringSchema()).
			WithProperty("hasMore", openapi3.NewBoolSchema()).
			WithProperty("perPage", openapi3.NewIntegerSchema()).
			NewRef(), nil
	}); err != nil {
		return nil, err
	}

	doc := openapi.NewDoc(title, version)
	if err := doc.Components(reg); err != nil {
		return nil, err
	}

	resultRef, err := reg.Ref("ResultDownload")
	if err != nil {
		return nil, err
	}
	mediaRef, err := reg.Ref("Media")
	if err != nil {
		return nil, err
	}
	pageRef, err := reg.Ref("MediaPage")
	if err != nil {
		return nil, err
	}
	cursorPageRef, err := reg.Ref("MediaCursorPage")
	if err != nil {
		return nil, err
	}

	uploadOp := openapi3.NewOperation()
	uploadOp.OperationID = "uploadMedia"
	uploadOp.Summary = "Upload files"
	openapi.AttachUpload(uploadOp, media.UploadFields())
	attachUploadPost(uploadOp)
	uploadOp.AddParameter(apiKeyParam())
	results := openapi3.NewArraySchema()
	results.Items = resultRef
	uploadOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, envelope(results.NewRef())),
		openapi3.WithStatus(http.StatusBadRequest, message("Validation failed")),
	)
	doc.AddOperation(http.MethodPost, "/media/upload", uploadOp)

	listOp := openapi3.NewOperation()
	listOp.OperationID = "listMedia"
	listOp.Summary = "List uploaded media"
	listOp.AddParameter(apiKeyParam())
	listOp.AddParameter(openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema()))
	listOp.AddParameter(openapi3.NewQueryParameter("limit").WithSchema(openapi3.NewIntegerSchema()))
	listOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, envelope(pageRef)),
	)
	doc.AddOperation(http.MethodGet, "/media", listOp)

	cursorOp := openapi3.NewOperation()
	cursorOp.OperationID = "listMediaCursor"
	cursorOp.Summary = "List uploaded media by cursor"
	cursorOp.AddParameter(apiKeyParam())
	cursorOp.AddParameter(openapi3.NewQueryParameter("cursor").WithSchema(openapi3.NewStringSchema()))
	cursorOp.AddParameter(openapi3.NewQueryParameter("limit").WithSchema(openapi3.NewIntegerSchema()))
	cursorOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, envelope(cursorPageRef)),
	)
	doc.AddOperation(http.MethodGet, "/media/cursor", cursorOp)

	downloadOp := openapi3.NewOperation()
	downloadOp.OperationID = "downloadMedia"
	downloadOp.Summary = "Download a file by grant token"
	downloadOp.AddParameter(openapi3.NewQueryParameter("token").WithRequired(true).WithSchema(openapi3.NewStringSchema()))
	downloadOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, binaryResponse()),
		openapi3.WithStatus(http.StatusBadRequest, message("Token missing or invalid")),
	)
	doc.AddOperation(http.MethodGet, "/media/download", downloadOp)

	getOp := openapi3.NewOperation()
	getOp.OperationID = "getMedia"
	getOp.Summary = "Fetch one media record"
	getOp.AddParameter(apiKeyParam())
	getOp.AddParameter(openapi3.NewPathParameter("id").WithSchema(openapi3.NewStringSchema()))
	getOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, envelope(mediaRef)),
		openapi3.WithStatus(http.StatusNotFound, message("Media not found")),
	)
	doc.AddOperation(http.MethodGet, "/media/{id}", getOp)

	deleteOp := openapi3.NewOperation()
	deleteOp.OperationID = "deleteMedia"
	deleteOp.Summary = "Delete a media record and its object"
	deleteOp.AddParameter(apiKeyParam())
	deleteOp.AddParameter(openapi3.NewPathParameter("id").WithSchema(openapi3.NewStringSchema()))
	deleteOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, message("Deleted")),
		openapi3.WithStatus(http.StatusNotFound, message("Media not found")),
	)
	doc.AddOperation(http.MethodDelete, "/media/{id}", deleteOp)

	return doc, nil
}

// The upload endpoint carries its destination as ordinary form fields next
// to the files.
func attachUploadPost(op *openapi3.Operation) {
	mediaTypes := make([]interface{}, 0, 4)
	for _, v := range enum.Values(enum.IMAGE, enum.VIDEO, enum.DOC, enum.FILE) {
		mediaTypes = append(mediaTypes, v)
	}

	silent := openapi3.NewStringSchema().WithEnum("true", "false")
	silent.Description = "Suppresses the realtime notification for this upload."

	form := op.RequestBody.Value.Content.Get("multipart/form-data").Schema.Value
	form.WithProperty("folder", openapi3.NewStringSchema()).
		WithProperty("directory", openapi3.NewStringSchema()).
		WithProperty("media", openapi3.NewStringSchema().WithEnum(mediaTypes...)).
		WithProperty("silent", silent)
	form.Required = append(form.Required, "folder", "directory", "media")
}

func resultDownloadSchema() *openapi3.SchemaRef {
	return openapi3.NewObjectSchema().
		WithProperty("url", openapi3.NewStringSchema()).
		WithProperty("originFileName", openapi3.NewStringSchema()).
		WithProperty("fileName", openapi3.NewStringSchema()).
		WithProperty("bucket", openapi3.NewStringSchema()).
		WithProperty("object", openapi3.NewStringSchema()).
		WithProperty("mimeType", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewInt64Schema()).
		WithProperty("token", openapi3.NewStringSchema()).
		NewRef()
}

func mediaSchema() *openapi3.SchemaRef {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("folder", openapi3.NewStringSchema()).
		WithProperty("originalName", openapi3.NewStringSchema()).
		WithProperty("storedName", openapi3.NewStringSchema()).
		WithProperty("bucket", openapi3.NewStringSchema()).
		WithProperty("object", openapi3.NewStringSchema()).
		WithProperty("mimeType", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewInt64Schema()).
		WithProperty("checksum", openapi3.NewStringSchema()).
		WithProperty("processed", openapi3.NewBoolSchema()).
		WithProperty("createdAt", openapi3.NewDateTimeSchema()).
		WithProperty("updatedAt", openapi3.NewDateTimeSchema()).
		NewRef()
}

func envelope(data *openapi3.SchemaRef) *openapi3.ResponseRef {
	schema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithPropertyRef("data", data)
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Success").
			WithJSONSchema(schema),
	}
}

func message(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchema(openapi3.NewObjectSchema().
				WithProperty("message", openapi3.NewStringSchema())),
	}
}

func binaryResponse() *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("File content").
			WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema().WithFormat("binary"), []string{"application/octet-stream"})),
	}
}

func apiKeyParam() *openapi3.Parameter {
	return openapi3.NewHeaderParameter("X-Api-Key").
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema())
}
