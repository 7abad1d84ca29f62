package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
	"github.com/studio/backend/internal/infrastructure/persistence/models"
)

// GormCourseStore implements course.Store using GORM
type GormCourseStore struct {
	db *gorm.DB
}

// NewGormCourseStore creates a new GormCourseStore
func NewGormCourseStore(db *gorm.DB) *GormCourseStore {
	return &GormCourseStore{db: db}
}

// WithTx returns a new store instance bound to the given transaction
func (s *GormCourseStore) WithTx(tx *gorm.DB) *GormCourseStore {
	return &GormCourseStore{db: tx}
}

// GetCourse loads a course run by its key
func (s *GormCourseStore) GetCourse(ctx context.Context, key course.Key) (*course.Course, error) {
	var model models.CourseModel
	err := s.db.WithContext(ctx).
		Where("course_key = ?", key.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", shared.ErrNotFound, key)
		}
		return nil, err
	}
	return model.ToDomain()
}

// CreateCourse inserts a new course run
func (s *GormCourseStore) CreateCourse(ctx context.Context, c *course.Course) error {
	model := models.CourseModelFromDomain(c)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_key"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: course %s", shared.ErrAlreadyExists, c.Key)
	}
	return nil
}

// UpdateCourse persists the current state of a course run
func (s *GormCourseStore) UpdateCourse(ctx context.Context, c *course.Course) error {
	c.Touch()
	model := models.CourseModelFromDomain(c)
	result := s.db.WithContext(ctx).
		Model(&models.CourseModel{}).
		Where("course_key = ?", model.CourseKey).
		Updates(map[string]any{
			"display_name": model.DisplayName,
			"start_at":     model.StartAt,
			"end_at":       model.EndAt,
			"settings":     model.SettingsJSON,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: course %s", shared.ErrNotFound, c.Key)
	}
	return nil
}

// BulkOperations runs fn inside a single transaction. The course row is
// locked for the duration, so concurrent writers to the same run
// serialize instead of clobbering each other's settings.
func (s *GormCourseStore) BulkOperations(ctx context.Context, key course.Key, fn func(ctx context.Context, store course.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.CourseModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_key = ?", key.String()).
			First(&model).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// A missing row is fn's problem: GetCourse inside the
		// transaction reports not-found with domain semantics.
		return fn(ctx, s.WithTx(tx))
	})
}
