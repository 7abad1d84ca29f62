package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/domain/course"
)

// AuditLogListener records settings changes to the structured log so
// operators can trace who-changed-what from log aggregation alone.
type AuditLogListener struct {
	logger *zap.Logger
}

// NewAuditLogListener creates a change listener writing to the given logger
func NewAuditLogListener(logger *zap.Logger) *AuditLogListener {
	return &AuditLogListener{logger: logger}
}

func (l *AuditLogListener) SettingsChanged(_ context.Context, key course.Key, changedKeys []string) error {
	l.logger.Info("settings changed",
		zap.String("course_key", key.String()),
		zap.Strings("changed_keys", changedKeys),
	)
	return nil
}
