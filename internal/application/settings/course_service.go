package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
)

// CreateCourseRequest is the payload for creating a course run.
type CreateCourseRequest struct {
	Org         string
	Number      string
	Run         string
	DisplayName string
	Start       *time.Time
}

// CourseInfo is the summary view of a course run.
type CourseInfo struct {
	Key         string     `json:"key"`
	DisplayName string     `json:"display_name"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
}

// TeamEnroller grants a user a role on a course team.
type TeamEnroller interface {
	AddMember(ctx context.Context, key course.Key, userID uuid.UUID, role string) error
}

// RoleInstructor is the team role granted to a course run's creator.
const RoleInstructor = "instructor"

// CourseService manages course run lifecycle for the authoring API.
type CourseService struct {
	store  course.Store
	team   TeamEnroller
	logger *zap.Logger
}

// CourseServiceOption configures optional collaborators.
type CourseServiceOption func(*CourseService)

// WithTeamEnroller wires course team enrollment into course creation.
func WithTeamEnroller(team TeamEnroller) CourseServiceOption {
	return func(s *CourseService) {
		s.team = team
	}
}

// NewCourseService creates a course service.
func NewCourseService(store course.Store, logger *zap.Logger, opts ...CourseServiceOption) *CourseService {
	s := &CourseService{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create provisions a new course run with empty settings.
func (s *CourseService) Create(ctx context.Context, actor course.Actor, req CreateCourseRequest) (*CourseInfo, error) {
	key := course.Key{Org: req.Org, Number: req.Number, Run: req.Run}
	if _, err := course.ParseKey(key.String()); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCourse(ctx, key); err == nil {
		return nil, fmt.Errorf("%w: course %s", shared.ErrAlreadyExists, key)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err := course.NewCourse(key, req.DisplayName, req.Start)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCourse(ctx, c); err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}

	if s.team != nil && actor.ID != uuid.Nil {
		if err := s.team.AddMember(ctx, key, actor.ID, RoleInstructor); err != nil {
			s.logger.Warn("Failed to enroll creator on course team",
				zap.String("course_key", key.String()),
				zap.String("user_id", actor.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Course created",
		zap.String("course_key", key.String()),
		zap.String("user_id", actor.ID.String()),
	)
	return courseInfo(c), nil
}

// Get returns the summary view of a course run.
func (s *CourseService) Get(ctx context.Context, key course.Key) (*CourseInfo, error) {
	c, err := s.store.GetCourse(ctx, key)
	if err != nil {
		return nil, err
	}
	return courseInfo(c), nil
}

func courseInfo(c *course.Course) *CourseInfo {
	return &CourseInfo{
		Key:         c.Key.String(),
		DisplayName: c.DisplayName,
		Start:       c.Start,
		End:         c.End,
	}
}
