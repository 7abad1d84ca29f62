package models

import (
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/courseapp"
)

// CourseAppStatusModel is the persistence model for per-course app
// enablement. One row per (course, app) pair; absence means the app's
// default applies.
type CourseAppStatusModel struct {
	BaseModel
	CourseKey string `gorm:"type:varchar(255);not null;uniqueIndex:idx_course_app,priority:1"`
	AppID     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_course_app,priority:2"`
	Enabled   bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CourseAppStatusModel) TableName() string {
	return "course_app_statuses"
}

// ToDomain converts the persistence model to a domain Status entity.
func (m *CourseAppStatusModel) ToDomain() (*courseapp.Status, error) {
	key, err := course.ParseKey(m.CourseKey)
	if err != nil {
		return nil, err
	}
	return &courseapp.Status{
		BaseEntity: m.BaseModel.ToDomain(),
		CourseKey:  key,
		AppID:      m.AppID,
		Enabled:    m.Enabled,
	}, nil
}

// FromDomain populates the persistence model from a domain Status entity.
func (m *CourseAppStatusModel) FromDomain(s *courseapp.Status) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CourseKey = s.CourseKey.String()
	m.AppID = s.AppID
	m.Enabled = s.Enabled
}

// CourseAppStatusModelFromDomain creates a new persistence model from a domain Status entity.
func CourseAppStatusModelFromDomain(s *courseapp.Status) *CourseAppStatusModel {
	m := &CourseAppStatusModel{}
	m.FromDomain(s)
	return m
}
