package models

import (
	"github.com/google/uuid"
)

// CourseTeamMemberModel is the persistence model for course team
// membership. One row per (course, user) pair; the role records how
// the member was granted access.
type CourseTeamMemberModel struct {
	BaseModel
	CourseKey string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_course_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_user,priority:2"`
	Role      string    `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (CourseTeamMemberModel) TableName() string {
	return "course_team_members"
}
