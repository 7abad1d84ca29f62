package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studio/backend/internal/application/settings"
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
	"github.com/studio/backend/internal/interfaces/http/dto"
	"github.com/studio/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return ""
}

// getActor extracts the authenticated actor from JWT claims
func getActor(c *gin.Context) (course.Actor, bool) {
	return middleware.GetActor(c)
}

// courseKeyParam parses the course_id path parameter
func courseKeyParam(c *gin.Context) (course.Key, error) {
	return course.ParseKey(c.Param("course_id"))
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends the flat 400 body clients map onto form fields
func (h *BaseHandler) ValidationError(c *gin.Context, details []course.ValidationDetail) {
	out := make([]dto.ValidationDetail, 0, len(details))
	for _, d := range details {
		out = append(out, dto.ValidationDetail{Key: d.Key, Message: d.Message})
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(out))
}

// DenyByDecision writes the response for a denied access decision.
// Returns false when the decision allows the operation.
func (h *BaseHandler) DenyByDecision(c *gin.Context, d settings.Decision) bool {
	switch d {
	case settings.DecisionAllowed:
		return false
	case settings.DecisionUnauthorized:
		h.Unauthorized(c, "Authentication required")
	case settings.DecisionNotFound:
		h.NotFound(c, "Course not found")
	default:
		h.Forbidden(c, "You do not have access to this course")
	}
	return true
}

// HandleError converts application and domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErr *settings.ValidationError
	if errors.As(err, &validationErr) {
		h.ValidationError(c, validationErr.Details)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		statusCode := dto.GetHTTPStatus(code)
		requestID := getRequestID(c)
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
