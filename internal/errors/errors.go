package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/stwalsh4118/immowert/api/internal/middleware"
)

// Error codes carried in ErrorDetail.Code.
const (
	ErrNotFound         = "NOT_FOUND"
	ErrBadRequest       = "BAD_REQUEST"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidation       = "VALIDATION_ERROR"
	ErrRatesUnavailable = "RATES_UNAVAILABLE"
)

// ErrorResponse is the envelope every failed request is answered with.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound answers 404 for unknown routes.
func NotFound(c *gin.Context, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Route not found", requestFields(c, nil))
	}
	abort(c, http.StatusNotFound, ErrorDetail{Code: ErrNotFound, Message: message})
}

// BadRequest answers 400 for bodies that cannot be decoded or inputs the
// valuation service rejects.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		fields := requestFields(c, map[string]interface{}{"message": message})
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Bad request", fields)
	}
	abort(c, http.StatusBadRequest, ErrorDetail{Code: ErrBadRequest, Message: message, Details: details})
}

// InternalServerError answers 500. err is logged but never sent to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, requestFields(c, map[string]interface{}{"message": message}))
	}
	abort(c, http.StatusInternalServerError, ErrorDetail{Code: ErrInternalServer, Message: message})
}

// ServiceUnavailable answers 503 while a dependency such as the rate tables
// is missing.
func ServiceUnavailable(c *gin.Context, code, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Service unavailable", err, requestFields(c, map[string]interface{}{"code": code}))
	}
	abort(c, http.StatusServiceUnavailable, ErrorDetail{Code: code, Message: message})
}

// ValidationError answers 400 with one message per rejected field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = formatValidationError(fe)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Validation error", requestFields(c, map[string]interface{}{"fields": details}))
	}
	abort(c, http.StatusBadRequest, ErrorDetail{
		Code:    ErrValidation,
		Message: "Validation failed for one or more fields",
		Details: details,
	})
}

func abort(c *gin.Context, status int, detail ErrorDetail) {
	detail.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: detail})
}

func requestFields(c *gin.Context, extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{
		"request_id": middleware.GetRequestID(c),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

// formatValidationError covers the tags used on the valuation request bodies.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "lte":
		return "Must be less than or equal to " + fe.Param()
	case "max":
		return "Must not exceed " + fe.Param()
	default:
		return "Validation failed for tag: " + fe.Tag()
	}
}
