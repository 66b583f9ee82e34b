package docs

import (
	"net/http"
	_type "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/openapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	doc *openapi.Doc
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	OpenAPI(c *gin.Context)
}

func NewHandler(doc *openapi.Doc) IHandler {
	return &Handler{doc: doc}
}

func (h *Handler) OpenAPI(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	payload, err := h.doc.JSON()
	if err != nil {
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed rendering document",
			Error:   err,
		}))
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}
