package model

import (
	"uploadkit-go/internal/common/enum"
	types "uploadkit-go/internal/common/type"
)

type ResultDownload struct {
	URL            string `json:"url" validate:"required"`
	OriginFileName string `json:"originFileName" validate:"required"`
	FileName       string `json:"fileName" validate:"required"`
	Bucket         string `json:"bucket" validate:"required"`
	Object         string `json:"object" validate:"required"`
	MimeType       string `json:"mimeType" validate:"required"`
	Size           int64  `json:"size" validate:"required"`
	Token          string `json:"token" validate:"required"`
}

// UploadPost carries the form fields that travel alongside the files.
// Silent arrives as a form string, the typed flag coerces it and skips the
// realtime notification when set.
type UploadPost struct {
	Folder    string             `form:"folder" json:"folder" validate:"required"`
	Directory string             `form:"directory" json:"directory" validate:"required"`
	MediaType enum.FileTypeEnum  `form:"media" json:"media" validate:"required,enum"`
	Silent    types.StringToBool `form:"silent" json:"silent" validate:"omitempty,stringToBool"`
}
