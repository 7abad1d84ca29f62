package settings

import (
	"context"

	"github.com/studio/backend/internal/domain/course"
)

// Decision is the outcome of an authorization check. Checks return
// values, not errors: the HTTP layer translates outcomes to status
// codes, and the core never uses failures for control flow.
type Decision int

const (
	// DecisionAllowed grants the operation.
	DecisionAllowed Decision = iota
	// DecisionUnauthorized means no authenticated user.
	DecisionUnauthorized
	// DecisionForbidden means the user lacks studio access to the course.
	DecisionForbidden
	// DecisionNotFound means the course key does not resolve.
	DecisionNotFound
)

// Allowed reports whether the decision grants the operation.
func (d Decision) Allowed() bool {
	return d == DecisionAllowed
}

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionUnauthorized:
		return "unauthorized"
	case DecisionForbidden:
		return "forbidden"
	case DecisionNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Authorizer answers studio access questions for a course run.
type Authorizer interface {
	CanReadCourse(ctx context.Context, actor course.Actor, key course.Key) Decision
	CanWriteCourse(ctx context.Context, actor course.Actor, key course.Key) Decision
}
