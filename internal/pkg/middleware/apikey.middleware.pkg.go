package middleware

import (
	"errors"
	"net/http"
	_type "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyMiddleware restricts a route group to callers holding one of the
// configured API keys. hashedKeys are bcrypt hashes, so the plain keys never
// live in the process environment or config files.
func APIKeyMiddleware(hashedKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))

		key := c.GetHeader("X-Api-Key")
		if key == "" {
			send(helper.ParseResponse(&_type.Response{
				Code:    http.StatusForbidden,
				Message: "missing api key",
				Error:   errors.New("missing api key"),
			}))
			return
		}

		for _, hashed := range hashedKeys {
			if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(key)) == nil {
				c.Next()
				return
			}
		}

		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusForbidden,
			Message: "invalid api key",
			Error:   errors.New("invalid api key"),
		}))
	}
}
