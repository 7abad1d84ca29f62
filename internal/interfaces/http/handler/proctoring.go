package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
	appdto "github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/interfaces/http/dto"
)

// ProctoringHandler serves the proctored exam settings endpoints
type ProctoringHandler struct {
	BaseHandler
	service *settings.ProctoringService
	authz   settings.Authorizer
	logger  *zap.Logger
}

// NewProctoringHandler creates a new proctoring handler
func NewProctoringHandler(service *settings.ProctoringService, authz settings.Authorizer, logger *zap.Logger) *ProctoringHandler {
	return &ProctoringHandler{
		service: service,
		authz:   authz,
		logger:  logger,
	}
}

// RegisterRoutes registers proctoring routes
func (h *ProctoringHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exams := rg.Group("/proctored_exam_settings")
	{
		exams.GET("/:course_id", h.Get)
		exams.POST("/:course_id", h.Update)
	}
	rg.GET("/proctoring_errors/:course_id", h.Errors)
}

// Get returns the proctoring field group plus the provider whitelist.
func (h *ProctoringHandler) Get(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	actor, _ := getActor(c)
	if h.DenyByDecision(c, h.authz.CanReadCourse(c.Request.Context(), actor, key)) {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Update applies proctoring changes. Staff-only fields submitted by a
// non-staff actor come back as 403.
func (h *ProctoringHandler) Update(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	actor, _ := getActor(c)
	if h.DenyByDecision(c, h.authz.CanWriteCourse(c.Request.Context(), actor, key)) {
		return
	}

	var body struct {
		ProctoredExamSettings appdto.ProctoredExamSettings `json:"proctored_exam_settings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body must contain a proctored_exam_settings object")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, key, body.ProctoredExamSettings)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Proctored exam settings updated",
		zap.String("course_key", key.String()),
		zap.String("user_id", actor.ID.String()),
	)
	c.JSON(http.StatusOK, resp)
}

// Errors reports validation problems in the stored proctoring
// configuration together with the settings MFE deep link.
func (h *ProctoringHandler) Errors(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	actor, _ := getActor(c)
	if h.DenyByDecision(c, h.authz.CanReadCourse(c.Request.Context(), actor, key)) {
		return
	}

	resp, err := h.service.Errors(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
