package middleware

import (
	"net/http"
	"time"
	_type "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"

	"github.com/gin-gonic/gin"
)

// ResponseInit installs the send closure every handler replies through. It
// fills the envelope defaults, aborts the chain and writes exactly one
// response. Timing and error details only ship in debug mode.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		debug := gin.Mode() == gin.DebugMode

		c.Set("send", func(r *_type.Response) {
			if r.Message == "" {
				r.Message = "Success"
			}
			if r.Code == 0 {
				r.Code = http.StatusOK
			}

			response := _type.ResponseAPI{
				Message: r.Message,
				Data:    r.Data,
			}
			if debug {
				response.Debug = debugInfo(c, r)
			}

			c.Abort()
			c.JSON(r.Code, response)
		})

		c.Next()
	}
}

func debugInfo(c *gin.Context, r *_type.Response) *_type.ResponseAPIDebug {
	start := time.Now()
	if value, exists := c.Get("start-time"); exists {
		if t, ok := value.(time.Time); ok {
			start = t
		}
	}
	end := time.Now()

	var errText *string
	if r.Error != nil {
		errText = helper.StringPtr(r.Error.Error())
	}

	return &_type.ResponseAPIDebug{
		RequestID: c.GetString("requestId"),
		Version:   c.GetString("version"),
		StartTime: start,
		EndTime:   end,
		RuntimeMs: end.Sub(start).Milliseconds(),
		Error:     errText,
	}
}
