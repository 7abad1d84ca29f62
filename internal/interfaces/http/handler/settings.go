package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
	appdto "github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/interfaces/http/dto"
)

// SettingsHandler serves the advanced settings endpoints
type SettingsHandler struct {
	BaseHandler
	service *settings.Service
	authz   settings.Authorizer
	logger  *zap.Logger
}

// NewSettingsHandler creates a new advanced settings handler
func NewSettingsHandler(service *settings.Service, authz settings.Authorizer, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		authz:   authz,
		logger:  logger,
	}
}

// RegisterRoutes registers advanced settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	advanced := rg.Group("/advanced_settings")
	{
		advanced.GET("/:course_id", h.Get)
		advanced.PATCH("/:course_id", h.Update)
		// Legacy clients submit the same partial payload with POST or PUT.
		advanced.POST("/:course_id", h.Update)
		advanced.PUT("/:course_id", h.Update)
	}

	apps := rg.Group("/course_apps")
	{
		apps.GET("/:course_id", h.ListApps)
	}
}

// Get returns the settings map for a course run.
// Responds with the raw map rather than the standard envelope so the
// keys land at the top level of the body.
func (h *SettingsHandler) Get(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	actor, _ := getActor(c)
	if h.DenyByDecision(c, h.authz.CanReadCourse(c.Request.Context(), actor, key)) {
		return
	}

	req := appdto.FetchRequest{
		FilterFields: parseFilterFields(c.Query("filter_fields")),
		FetchAll:     parseFetchAll(c),
	}

	view, err := h.service.Fetch(c.Request.Context(), key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update applies a partial settings payload and returns the full
// reconciled map. Validation failures return 400 with a detail list.
func (h *SettingsHandler) Update(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	actor, _ := getActor(c)
	if h.DenyByDecision(c, h.authz.CanWriteCourse(c.Request.Context(), actor, key)) {
		return
	}

	var payload appdto.UpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body must be a JSON object of settings updates")
		return
	}

	view, err := h.service.Update(c.Request.Context(), actor, key, payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Advanced settings updated",
		zap.String("course_key", key.String()),
		zap.Int("changed_fields", len(payload)),
	)
	c.JSON(http.StatusOK, view)
}

// ListApps returns the registered course apps with their effective
// enabled state.
func (h *SettingsHandler) ListApps(c *gin.Context) {
	key, err := courseKeyParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course key")
		return
	}

	actor, _ := getActor(c)
	if h.DenyByDecision(c, h.authz.CanReadCourse(c.Request.Context(), actor, key)) {
		return
	}

	apps, err := h.service.CourseApps(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func parseFilterFields(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// parseFetchAll treats the bare presence of the parameter as true, so
// both ?fetch_all and ?fetch_all=true opt in.
func parseFetchAll(c *gin.Context) bool {
	raw, present := c.GetQuery("fetch_all")
	if !present {
		return false
	}
	switch strings.ToLower(raw) {
	case "false", "0":
		return false
	default:
		return true
	}
}
