package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/dto"
)

// DefaultAPIKeyHeader is the header checked when none is configured.
const DefaultAPIKeyHeader = "x-api-key"

// APIKeyConfig holds API key middleware configuration
type APIKeyConfig struct {
	// Key is the shared secret. An empty key rejects every request.
	Key string
	// Header names the request header carrying the key.
	Header string
}

// APIKey rejects requests whose header does not carry the shared key.
func APIKey(cfg APIKeyConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	expected := []byte(cfg.Key)

	return func(c *gin.Context) {
		got := c.GetHeader(header)
		if got == "" {
			abortUnauthorized(c, "API Key missing")
			return
		}
		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			abortUnauthorized(c, "Invalid API Key")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	logger.GetGinLogger(c).Warn("Rejected request", zap.String("reason", message))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(shared.CodeUnauthorized, message, GetRequestID(c)))
}
