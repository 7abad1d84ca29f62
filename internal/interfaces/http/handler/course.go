package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
)

// CreateCourseRequest is the POST body for creating a course run.
type CreateCourseRequest struct {
	Org         string     `json:"org" binding:"required,max=64"`
	Number      string     `json:"number" binding:"required,max=64"`
	Run         string     `json:"run" binding:"required,max=64"`
	DisplayName string     `json:"display_name" binding:"required,max=255"`
	Start       *time.Time `json:"start"`
}

// CourseHandler serves course run management endpoints
type CourseHandler struct {
	BaseHandler
	service *settings.CourseService
	logger  *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(service *settings.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers course routes
func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.POST("", h.Create)
		courses.GET("/:course_id", h.Get)
	}
}

// Create provisions a new course run and enrolls the creator on its
// team.
func (h *CourseHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	info, err := h.service.Create(c.Request.Context(), actor, settings.CreateCourseRequest{
		Org:         req.Org,
		Number:      req.Number,
		Run:         req.Run,
		DisplayName: req.DisplayName,
		Start:       req.Start,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Course created",
		zap.String("course_key", info.Key),
		zap.String("user_id", actor.ID.String()),
	)
	h.Created(c, info)
}

// Get returns the summary view of a course run.
func (h *CourseHandler) Get(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	info, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
