package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
)

// MembershipChecker answers course team membership questions.
type MembershipChecker interface {
	IsMember(ctx context.Context, key course.Key, userID uuid.UUID) (bool, error)
}

// CourseAuthorizer grants studio access to global staff and course team
// members. Read and write access follow the same policy: anyone who can
// open a course run in the authoring UI can also change its settings.
type CourseAuthorizer struct {
	store  course.Store
	team   MembershipChecker
	logger *zap.Logger
}

// NewCourseAuthorizer creates a course authorizer.
func NewCourseAuthorizer(store course.Store, team MembershipChecker, logger *zap.Logger) *CourseAuthorizer {
	return &CourseAuthorizer{store: store, team: team, logger: logger}
}

// CanReadCourse decides whether the actor may view course settings.
func (a *CourseAuthorizer) CanReadCourse(ctx context.Context, actor course.Actor, key course.Key) settings.Decision {
	return a.check(ctx, actor, key)
}

// CanWriteCourse decides whether the actor may change course settings.
func (a *CourseAuthorizer) CanWriteCourse(ctx context.Context, actor course.Actor, key course.Key) settings.Decision {
	return a.check(ctx, actor, key)
}

func (a *CourseAuthorizer) check(ctx context.Context, actor course.Actor, key course.Key) settings.Decision {
	if actor.ID == uuid.Nil {
		return settings.DecisionUnauthorized
	}

	if _, err := a.store.GetCourse(ctx, key); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return settings.DecisionNotFound
		}
		// Fail closed on infrastructure errors.
		a.logger.Error("Course lookup failed during authorization",
			zap.String("course_key", key.String()),
			zap.Error(err),
		)
		return settings.DecisionForbidden
	}

	if actor.IsStaff {
		return settings.DecisionAllowed
	}

	member, err := a.team.IsMember(ctx, key, actor.ID)
	if err != nil {
		a.logger.Error("Team membership lookup failed during authorization",
			zap.String("course_key", key.String()),
			zap.String("user_id", actor.ID.String()),
			zap.Error(err),
		)
		return settings.DecisionForbidden
	}
	if member {
		return settings.DecisionAllowed
	}
	return settings.DecisionForbidden
}
