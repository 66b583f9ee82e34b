package types

// BufferedFile is one file received in a multipart request, fully read into
// memory. MediaType carries the form field name the file arrived under.
type BufferedFile struct {
	MediaType    string `json:"mediaType" validate:"required"`
	OriginalName string `json:"originalName" validate:"required"`
	Encoding     string `json:"encoding" validate:"required"`
	MimeType     string `json:"mimetype" validate:"required"`
	Size         int64  `json:"size" validate:"required"`
	Buffer       []byte `json:"buffer" validate:"required"`
}

// BufferedFiles groups received files by form field name, in the order the
// multipart parser produced them.
type BufferedFiles map[string][]BufferedFile
