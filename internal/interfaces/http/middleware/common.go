package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
)

// RequestIDHeader carries the request id on both requests and responses.
const RequestIDHeader = "X-Request-ID"

// MaxRequestIDLength bounds caller-supplied request ids.
const MaxRequestIDLength = 128

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
	// AllowAll admits every origin when AllowOrigins is empty.
	AllowAll bool
}

// CORS builds a gin-contrib/cors handler. A "*" entry admits every origin.
// With no origins and AllowAll unset it returns nil and the caller should
// not install CORS handling at all.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	c := cors.DefaultConfig()
	c.AllowMethods = cfg.AllowMethods
	c.AllowHeaders = append([]string{"Origin"}, cfg.AllowHeaders...)
	c.ExposeHeaders = []string{"Content-Length", "Content-Disposition", RequestIDHeader}
	if cfg.MaxAge > 0 {
		c.MaxAge = cfg.MaxAge
	}

	origins := make([]string, 0, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			origins = nil
			break
		}
		origins = append(origins, o)
	}
	switch {
	case c.AllowAllOrigins:
	case len(origins) > 0:
		c.AllowOrigins = origins
	case cfg.AllowAll:
		c.AllowAllOrigins = true
	default:
		return nil
	}
	return cors.New(c)
}

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(logger.GinRequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(logger.GinRequestIDKey)
}

// Secure adds baseline security headers to responses
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
