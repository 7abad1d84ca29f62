package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/courseapp"
	"github.com/studio/backend/internal/domain/shared"
	"github.com/studio/backend/internal/infrastructure/persistence/models"
)

// GormAppStatusRepository implements courseapp.StatusRepository using GORM
type GormAppStatusRepository struct {
	db *gorm.DB
}

// NewGormAppStatusRepository creates a new GormAppStatusRepository
func NewGormAppStatusRepository(db *gorm.DB) *GormAppStatusRepository {
	return &GormAppStatusRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormAppStatusRepository) WithTx(tx *gorm.DB) *GormAppStatusRepository {
	return &GormAppStatusRepository{db: tx}
}

// Upsert saves an enablement record, replacing any existing row for the
// same (course, app) pair.
func (r *GormAppStatusRepository) Upsert(ctx context.Context, status *courseapp.Status) error {
	model := models.CourseAppStatusModelFromDomain(status)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_key"}, {Name: "app_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(model).Error
}

// Find loads one app's enablement record for a course
func (r *GormAppStatusRepository) Find(ctx context.Context, courseKey course.Key, appID string) (*courseapp.Status, error) {
	var model models.CourseAppStatusModel
	err := r.db.WithContext(ctx).
		Where("course_key = ? AND app_id = ?", courseKey.String(), appID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: app status %s/%s", shared.ErrNotFound, courseKey, appID)
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForCourse loads every explicit enablement record for a course
func (r *GormAppStatusRepository) FindAllForCourse(ctx context.Context, courseKey course.Key) ([]courseapp.Status, error) {
	var rows []models.CourseAppStatusModel
	err := r.db.WithContext(ctx).
		Where("course_key = ?", courseKey.String()).
		Order("app_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	statuses := make([]courseapp.Status, 0, len(rows))
	for _, row := range rows {
		status, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}
