package middleware

import (
	"net/http"
	"strings"
	_type "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// DownloadTokenMiddleware guards download routes with the signed grants
// minted by the jwt package. The token is read from the "token" query
// parameter so plain download links work, with a bearer Authorization
// header as fallback. The validated grant lands under the "grant" key.
func DownloadTokenMiddleware(auth jwt.IDownloadAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))

		token := c.Query("token")
		if token == "" {
			parts := strings.Split(c.GetHeader("Authorization"), " ")
			if len(parts) == 2 {
				token = parts[1]
			}
		}
		if token == "" {
			send(helper.ParseResponse(&_type.Response{Code: http.StatusBadRequest, Message: "token not found"}))
			return
		}

		grant, err := auth.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&_type.Response{Code: http.StatusBadRequest, Message: "invalid token", Error: err}))
			return
		}

		c.Set("grant", grant)
		c.Next()
	}
}
