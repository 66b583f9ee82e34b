package docs

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	group := e.Group("/docs")

	group.
		GET("/openapi.json", h.OpenAPI)
}
