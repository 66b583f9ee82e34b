package media

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"uploadkit-go/internal/common/enum"
	_type "uploadkit-go/internal/common/type"
	database "uploadkit-go/internal/pkg/db"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/jwt"
	"uploadkit-go/internal/pkg/upload"
	"uploadkit-go/internal/pkg/validation"
	csmodel "uploadkit-go/internal/service/cloud-storage/model"
	"uploadkit-go/internal/service/media"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	media media.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth jwt.IDownloadAuth, apiKeys []string)
	Upload(c *gin.Context)
	List(c *gin.Context)
	ListCursor(c *gin.Context)
	Get(c *gin.Context)
	Download(c *gin.Context)
	Delete(c *gin.Context)
}

func NewHandler(mediaService media.IService) IHandler {
	return &Handler{media: mediaService}
}

// UploadFields declares the multipart contract of POST /media/upload: one
// required document or image up to 32MB, plus up to five optional
// attachments of image or video type up to 8MB each.
func UploadFields() *upload.Fields {
	return upload.MustCompile([]upload.FieldSpec{
		{
			Name:      "file",
			Required:  true,
			MaxSize:   "32MB",
			MimeTypes: append(enum.IMAGE.MimeTypes(), enum.DOC.MimeTypes()...),
		},
		{
			Name:         "attachments",
			IsArray:      true,
			MaxFiles:     5,
			MaxSize:      "8MB",
			MimePatterns: []*regexp.Regexp{regexp.MustCompile(`^(image|video)/`)},
		},
	})
}

func (h *Handler) Upload(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	files := c.MustGet("files").(upload.Files)

	var body csmodel.UploadPost
	if err := c.ShouldBind(&body); err != nil {
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid upload request",
			Error:   err,
		}))
		return
	}

	if err := validation.Validate(body); err != nil {
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Error:   err,
		}))
		return
	}

	buffered := make([]_type.BufferedFile, 0, 1)
	if file, ok := files.File("file"); ok {
		buffered = append(buffered, file)
	}
	buffered = append(buffered, files.List("attachments")...)

	results, err := h.media.Upload(buffered, body)
	if err != nil {
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed storing files",
			Error:   err,
		}))
		return
	}

	send(helper.ParseResponse(&_type.Response{
		Data: results,
	}))
}

func (h *Handler) List(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	pagination := database.NewPaginationRequest(c)
	result, err := h.media.List(*pagination)
	if err != nil {
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed listing media",
			Error:   err,
		}))
		return
	}

	send(helper.ParseResponse(&_type.Response{
		Data: result,
	}))
}

func (h *Handler) ListCursor(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	limit, _ := strconv.Atoi(c.Query("limit"))
	result, err := h.media.ListCursor(c.Query("cursor"), limit)
	if err != nil {
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed listing media",
			Error:   err,
		}))
		return
	}

	send(helper.ParseResponse(&_type.Response{
		Data: result,
	}))
}

func (h *Handler) Get(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	record, err := h.media.Get(c.Param("id"))
	if err != nil {
		code := http.StatusInternalServerError
		message := "Failed fetching media"
		if database.IsNotFound(err) {
			code = http.StatusNotFound
			message = "Media not found"
		}
		send(helper.ParseResponse(&_type.Response{
			Code:    code,
			Message: message,
			Error:   err,
		}))
		return
	}

	send(helper.ParseResponse(&_type.Response{
		Data: record,
	}))
}

func (h *Handler) Download(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	grant := c.MustGet("grant").(*jwt.DownloadGrant)

	buffer, record, err := h.media.Download(grant)
	if err != nil {
		code := http.StatusInternalServerError
		message := "Failed fetching file"
		if database.IsNotFound(err) {
			code = http.StatusNotFound
			message = "Media not found"
		}
		send(helper.ParseResponse(&_type.Response{
			Code:    code,
			Message: message,
			Error:   err,
		}))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.OriginalName))
	c.Data(http.StatusOK, record.MimeType, buffer)
}

func (h *Handler) Delete(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	if err := h.media.Delete(c.Param("id")); err != nil {
		code := http.StatusInternalServerError
		message := "Failed deleting media"
		if database.IsNotFound(err) {
			code = http.StatusNotFound
			message = "Media not found"
		}
		send(helper.ParseResponse(&_type.Response{
			Code:    code,
			Message: message,
			Error:   err,
		}))
		return
	}

	send(helper.ParseResponse(&_type.Response{
		Message: "Deleted",
	}))
}
