package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key the request id is stored under.
const RequestIDKey = "request_id"

// RequestLogger tags every request with an id, echoes it back in the
// X-Request-ID header and logs one line per request once the handler
// chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		// Client-supplied ids can be arbitrarily short
		id := requestID
		if len(id) > 8 {
			id = id[:8]
		}
		log.Printf("[%s] %s %s | %d | %v | %s",
			id, c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())

		for _, e := range c.Errors {
			log.Printf("[%s] error: %v", id, e.Err)
		}
	}
}
