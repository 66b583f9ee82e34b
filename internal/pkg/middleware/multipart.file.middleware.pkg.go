package middleware

import (
	"io"
	"net/http"
	_type "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/upload"

	"github.com/gin-gonic/gin"
)

// MultipartFormMiddleware parses the multipart form, buffers every file of
// the declared fields, and validates the set against the compiled
// FieldSpecs. On success the normalized files are stored under the "files"
// context key and the handler runs; on any violation a 400 is sent and the
// chain stops. Form fields that no FieldSpec declares are left untouched.
func MultipartFormMiddleware(fields *upload.Fields) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))

		form, err := c.MultipartForm()
		if err != nil {
			send(helper.ParseResponse(&_type.Response{
				Code:    http.StatusInternalServerError,
				Message: "Failed retrieving files",
				Error:   err,
			}))
			return
		}

		bufferedFiles := make(_type.BufferedFiles)

		for _, field := range fields.Specs() {
			for _, fileHeader := range form.File[field.Name] {
				file, err := fileHeader.Open()
				if err != nil {
					send(helper.ParseResponse(&_type.Response{
						Code:    http.StatusInternalServerError,
						Message: "Failed reading file",
						Error:   err,
					}))
					return
				}

				fileBuffer, err := io.ReadAll(file)
				if err != nil {
					send(helper.ParseResponse(&_type.Response{
						Code:    http.StatusInternalServerError,
						Message: "Failed reading file content",
						Error:   err,
					}))
					return
				}
				err = file.Close()
				if err != nil {
					send(helper.ParseResponse(&_type.Response{
						Code:    http.StatusInternalServerError,
						Message: "Failed close file",
						Error:   err,
					}))
					return
				}

				bufferedFiles[field.Name] = append(bufferedFiles[field.Name], _type.BufferedFile{
					MediaType:    field.Name,
					OriginalName: fileHeader.Filename,
					Encoding:     "7bit",
					MimeType:     fileHeader.Header.Get("Content-Type"),
					Size:         fileHeader.Size,
					Buffer:       fileBuffer,
				})
			}
		}

		files, err := fields.Validate(bufferedFiles)
		if err != nil {
			send(helper.ParseResponse(&_type.Response{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
				Error:   err,
			}))
			return
		}

		c.Set("files", files)
		c.Next()
	}
}
