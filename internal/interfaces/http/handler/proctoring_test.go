package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/interfaces/http/middleware"
)

const testMFEURL = "https://course-authoring.example.com"

func newProctoringRouter(t *testing.T, start *time.Time, authz settings.Authorizer, mw ...gin.HandlerFunc) (*gin.Engine, *memStore) {
	t.Helper()

	store := newMemStore()
	c, err := course.NewCourse(handlerTestKey, "Demo Course", start)
	require.NoError(t, err)
	require.NoError(t, store.CreateCourse(context.Background(), c))

	svc := settings.NewProctoringService(
		store,
		course.DefaultSchema(),
		[]course.ProctoringProvider{
			{Name: "proctortrack", RequiresEscalationEmail: true},
			{Name: "software_secure"},
		},
		testMFEURL,
		zap.NewNop(),
	)

	engine := gin.New()
	engine.Use(mw...)
	api := engine.Group("/api/v1")
	NewProctoringHandler(svc, authz, zap.NewNop()).RegisterRoutes(api)
	return engine, store
}

func TestProctoringHandler_Get(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns settings, providers and start date", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, &start, allowAll())

		w := doJSON(t, engine, "GET", "/api/v1/proctored_exam_settings/"+handlerTestKey.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, `"proctored_exam_settings"`)
		assert.Contains(t, body, `"available_proctoring_providers":["proctortrack","software_secure"]`)
		assert.Contains(t, body, `"course_start_date":"2026-10-01T00:00:00Z"`)
	})

	t.Run("read denied yields 403", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, nil, &stubAuthorizer{read: settings.DecisionForbidden})

		w := doJSON(t, engine, "GET", "/api/v1/proctored_exam_settings/"+handlerTestKey.String(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestProctoringHandler_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("staff can change the provider", func(t *testing.T) {
		engine, store := newProctoringRouter(t, nil, allowAll(), asUser(userID, true))

		w := doJSON(t, engine, "POST", "/api/v1/proctored_exam_settings/"+handlerTestKey.String(), gin.H{
			"proctored_exam_settings": gin.H{
				"enable_proctored_exams": true,
				"proctoring_provider":    "software_secure",
			},
		})
		require.Equal(t, http.StatusOK, w.Code)

		c, err := store.GetCourse(context.Background(), handlerTestKey)
		require.NoError(t, err)
		assert.Equal(t, "software_secure", c.Settings()["proctoring_provider"])
	})

	t.Run("non-staff changing a staff-only field yields 403", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, nil, allowAll(), asUser(userID, false))

		w := doJSON(t, engine, "POST", "/api/v1/proctored_exam_settings/"+handlerTestKey.String(), gin.H{
			"proctored_exam_settings": gin.H{
				"create_zendesk_tickets": false,
			},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid provider yields the detail list", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, nil, allowAll(), asUser(userID, true))

		w := doJSON(t, engine, "POST", "/api/v1/proctored_exam_settings/"+handlerTestKey.String(), gin.H{
			"proctored_exam_settings": gin.H{
				"proctoring_provider": "nonexistent",
			},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"detail"`)
	})

	t.Run("write denied yields 401 for anonymous", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, nil, &stubAuthorizer{
			read:  settings.DecisionAllowed,
			write: settings.DecisionUnauthorized,
		})

		w := doJSON(t, engine, "POST", "/api/v1/proctored_exam_settings/"+handlerTestKey.String(), gin.H{
			"proctored_exam_settings": gin.H{"create_zendesk_tickets": true},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProctoringHandler_Errors(t *testing.T) {
	t.Run("reports the mfe url with stored problems", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, nil, allowAll())

		w := doJSON(t, engine, "GET", "/api/v1/proctoring_errors/"+handlerTestKey.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, `"mfe_proctored_exam_settings_url"`)
		assert.Contains(t, body, testMFEURL)
		assert.Contains(t, body, `"proctoring_errors"`)
	})

	t.Run("unknown course yields 404", func(t *testing.T) {
		engine, _ := newProctoringRouter(t, nil, &stubAuthorizer{read: settings.DecisionNotFound})

		w := doJSON(t, engine, "GET", "/api/v1/proctoring_errors/"+handlerTestKey.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetActorFromMiddleware(t *testing.T) {
	engine := gin.New()
	userID := uuid.New()
	engine.Use(asUser(userID, true))
	engine.GET("/whoami", func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "is_staff": actor.IsStaff})
	})

	w := doJSON(t, engine, "GET", "/whoami", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"is_staff":true`)
}
