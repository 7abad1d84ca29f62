package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/studio/backend/internal/domain/shared"
)

// Actor identifies the user performing a settings operation.
// Staff status gates access to privileged settings.
type Actor struct {
	ID      uuid.UUID
	IsStaff bool
}

// Course is the aggregate root for a single course run and its
// free-form advanced settings.
type Course struct {
	shared.BaseEntity
	Key         Key
	DisplayName string
	Start       *time.Time
	End         *time.Time

	// settings holds the current value for every schema field that
	// has been explicitly set. Fields absent from the map carry their
	// schema default.
	settings map[string]any
}

// NewCourse creates a course run with empty settings.
func NewCourse(key Key, displayName string, start *time.Time) (*Course, error) {
	if key.IsZero() {
		return nil, shared.NewDomainError("INVALID_COURSE_KEY", "Course key cannot be empty")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_COURSE_NAME", "Course display name cannot be empty")
	}
	return &Course{
		BaseEntity:  shared.NewBaseEntity(),
		Key:         key,
		DisplayName: displayName,
		Start:       start,
		settings:    make(map[string]any),
	}, nil
}

// RestoreCourse rebuilds a course from persisted state.
func RestoreCourse(entity shared.BaseEntity, key Key, displayName string, start, end *time.Time, settings map[string]any) *Course {
	if settings == nil {
		settings = make(map[string]any)
	}
	return &Course{
		BaseEntity:  entity,
		Key:         key,
		DisplayName: displayName,
		Start:       start,
		End:         end,
		settings:    settings,
	}
}

// Setting returns the explicitly set value for a settings key.
func (c *Course) Setting(key string) (any, bool) {
	v, ok := c.settings[key]
	return v, ok
}

// SetSetting records a value for a settings key. It does not validate;
// callers go through Schema.ValidateAndUpdate.
func (c *Course) SetSetting(key string, value any) {
	c.settings[key] = value
}

// UnsetSetting removes an explicit value so the field reverts to its default.
func (c *Course) UnsetSetting(key string) {
	delete(c.settings, key)
}

// Settings returns a copy of all explicitly set values.
func (c *Course) Settings() map[string]any {
	out := make(map[string]any, len(c.settings))
	for k, v := range c.settings {
		out[k] = v
	}
	return out
}

// HasStarted reports whether the course start date has passed.
// A course with no start date is treated as not started.
func (c *Course) HasStarted(now time.Time) bool {
	return c.Start != nil && c.Start.Before(now)
}
