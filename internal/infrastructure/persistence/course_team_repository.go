package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
	"github.com/studio/backend/internal/infrastructure/persistence/models"
)

// GormCourseTeamRepository stores course team membership using GORM
type GormCourseTeamRepository struct {
	db *gorm.DB
}

// NewGormCourseTeamRepository creates a new GormCourseTeamRepository
func NewGormCourseTeamRepository(db *gorm.DB) *GormCourseTeamRepository {
	return &GormCourseTeamRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormCourseTeamRepository) WithTx(tx *gorm.DB) *GormCourseTeamRepository {
	return &GormCourseTeamRepository{db: tx}
}

// AddMember grants a user a role on a course team. Re-adding an existing
// member updates the role in place.
func (r *GormCourseTeamRepository) AddMember(ctx context.Context, key course.Key, userID uuid.UUID, role string) error {
	model := &models.CourseTeamMemberModel{
		CourseKey: key.String(),
		UserID:    userID,
		Role:      role,
	}
	model.FromDomainBaseEntity(shared.NewBaseEntity())
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_key"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(model).Error
}

// RemoveMember revokes a user's course team membership
func (r *GormCourseTeamRepository) RemoveMember(ctx context.Context, key course.Key, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("course_key = ? AND user_id = ?", key.String(), userID).
		Delete(&models.CourseTeamMemberModel{}).Error
}

// IsMember reports whether the user holds any role on the course team
func (r *GormCourseTeamRepository) IsMember(ctx context.Context, key course.Key, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CourseTeamMemberModel{}).
		Where("course_key = ? AND user_id = ?", key.String(), userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
