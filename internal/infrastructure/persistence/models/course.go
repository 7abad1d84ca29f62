package models

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/domain/course"
)

// logger for model conversion errors (silent failures are logged for debugging)
var modelLogger = zap.L().Named("course.models")

// CourseModel is the persistence model for the Course aggregate root.
// Advanced settings are stored as a single JSONB document keyed by
// setting name; only explicitly set fields appear in it.
type CourseModel struct {
	BaseModel
	CourseKey    string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string     `gorm:"type:varchar(255);not null"`
	StartAt      *time.Time `gorm:"index"`
	EndAt        *time.Time
	SettingsJSON string `gorm:"column:settings;type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts the persistence model to a domain Course aggregate.
func (m *CourseModel) ToDomain() (*course.Course, error) {
	key, err := course.ParseKey(m.CourseKey)
	if err != nil {
		return nil, err
	}

	settings := make(map[string]any)
	if m.SettingsJSON != "" && m.SettingsJSON != "{}" {
		if err := json.Unmarshal([]byte(m.SettingsJSON), &settings); err != nil {
			modelLogger.Warn("failed to parse course settings JSON",
				zap.String("course_key", m.CourseKey),
				zap.Error(err))
			settings = make(map[string]any)
		}
	}

	return course.RestoreCourse(m.BaseModel.ToDomain(), key, m.DisplayName, m.StartAt, m.EndAt, settings), nil
}

// FromDomain populates the persistence model from a domain Course aggregate.
func (m *CourseModel) FromDomain(c *course.Course) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CourseKey = c.Key.String()
	m.DisplayName = c.DisplayName
	m.StartAt = c.Start
	m.EndAt = c.End

	if jsonBytes, err := json.Marshal(c.Settings()); err == nil {
		m.SettingsJSON = string(jsonBytes)
	} else {
		m.SettingsJSON = "{}"
	}
}

// CourseModelFromDomain creates a new persistence model from a domain Course aggregate.
func CourseModelFromDomain(c *course.Course) *CourseModel {
	m := &CourseModel{}
	m.FromDomain(c)
	return m
}
