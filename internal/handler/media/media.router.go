package media

import (
	"uploadkit-go/internal/pkg/jwt"
	"uploadkit-go/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth jwt.IDownloadAuth, apiKeys []string) {
	group := e.Group("/media")
	apiKey := middleware.APIKeyMiddleware(apiKeys)

	group.
		POST("/upload", apiKey, middleware.MultipartFormMiddleware(UploadFields()), h.Upload).
		GET("", apiKey, h.List).
		GET("/cursor", apiKey, h.ListCursor).
		GET("/download", middleware.DownloadTokenMiddleware(auth), h.Download).
		GET("/:id", apiKey, h.Get).
		DELETE("/:id", apiKey, h.Delete)
}
