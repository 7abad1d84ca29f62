package courseapp

import (
	"context"

	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
)

// App describes one pluggable course feature that can be enabled or
// disabled per course run. An app may shadow an advanced-settings key:
// toggling the app is then the preferred way to change that setting.
type App struct {
	// ID is the stable app identifier (e.g. "calculator").
	ID string
	// Name is the author-facing display name.
	Name string
	// Description explains what enabling the app does.
	Description string
	// SettingKey is the advanced-settings key this app shadows,
	// empty if the app has no settings counterpart.
	SettingKey string
	// DefaultEnabled is the status for courses without a record.
	DefaultEnabled bool
}

// Status is the per-course enablement record for one app.
type Status struct {
	shared.BaseEntity
	CourseKey course.Key
	AppID     string
	Enabled   bool
}

// NewStatus creates an enablement record.
func NewStatus(courseKey course.Key, appID string, enabled bool) (*Status, error) {
	if courseKey.IsZero() {
		return nil, shared.NewDomainError("INVALID_COURSE_KEY", "Course key cannot be empty")
	}
	if appID == "" {
		return nil, shared.NewDomainError("INVALID_APP_ID", "App ID cannot be empty")
	}
	return &Status{
		BaseEntity: shared.NewBaseEntity(),
		CourseKey:  courseKey,
		AppID:      appID,
		Enabled:    enabled,
	}, nil
}

// StatusRepository persists per-course app enablement records.
type StatusRepository interface {
	Upsert(ctx context.Context, status *Status) error
	Find(ctx context.Context, courseKey course.Key, appID string) (*Status, error)
	FindAllForCourse(ctx context.Context, courseKey course.Key) ([]Status, error)
}
