package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestInit stamps every request with an id and its arrival time. A
// caller-provided X-Request-Id is kept and echoed back, so a failed upload
// can be traced through whatever forwarded it.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestId", id)
		c.Header("X-Request-Id", id)

		version := c.Request.Header.Get("version")
		if version == "" {
			version = "1.0.0"
		}
		c.Set("version", version)
		c.Set("start-time", time.Now())

		c.Next()
	}
}
