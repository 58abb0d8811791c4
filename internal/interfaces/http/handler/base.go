package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/dto"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	// hideInternal replaces store error detail with a generic message.
	hideInternal bool
}

// HandlerOption configures the shared handler behaviour.
type HandlerOption func(*BaseHandler)

// WithInternalErrorsHidden reports infrastructure failures as a generic
// "Internal server error" instead of the underlying error text. Production
// deployments turn it on.
func WithInternalErrorsHidden(hide bool) HandlerOption {
	return func(h *BaseHandler) {
		h.hideInternal = hide
	}
}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, shared.CodeValidation, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError is a generic error handler that handles both domain and standard errors
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
		return
	}

	statusCode := dto.GetHTTPStatus(domainErr.Code)
	resp := dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, getRequestID(c))
	resp.MissingFields = domainErr.Missing

	if statusCode >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed",
			zap.String("code", domainErr.Code),
			zap.Error(err),
		)
		if h.hideInternal && domainErr.Code == shared.CodeInfrastructure {
			resp.Message = "Internal server error"
			resp.Error.Message = resp.Message
		}
	}
	c.JSON(statusCode, resp)
}
