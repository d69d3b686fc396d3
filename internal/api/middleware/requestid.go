package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jmluang/xTerm/internal/shared/id"
)

// RequestIDHeader carries the request identifier on responses.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request identifier.
const requestIDKey = "requestID"

// RequestID assigns each request a sortable identifier. An incoming
// X-Request-ID is kept so desktop clients can correlate retries.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the identifier assigned to the current request.
func RequestIDFrom(c *gin.Context) string {
	rid, _ := c.Get(requestIDKey)
	s, _ := rid.(string)
	return s
}
