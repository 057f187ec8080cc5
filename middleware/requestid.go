package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXRequestID 请求 ID 头
const HeaderXRequestID = "X-Request-ID"

const requestIDMaxLength = 128

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// RequestID 沿用合法的 X-Request-ID，否则生成 UUID v4
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderXRequestID)
		if len(id) == 0 || len(id) > requestIDMaxLength || !validRequestID.MatchString(id) {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header(HeaderXRequestID, id)
		c.Next()
	}
}
