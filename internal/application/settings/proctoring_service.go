package settings

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
)

// ProctoringService exposes the proctored-exam slice of the advanced
// settings, plus stored-settings diagnostics.
type ProctoringService struct {
	store     course.Store
	schema    *course.Schema
	providers []course.ProctoringProvider
	mfeURL    string
	logger    *zap.Logger
	now       func() time.Time
}

// NewProctoringService creates a proctoring settings service. mfeURL is
// the base URL of the authoring frontend hosting the proctored exam
// settings page.
func NewProctoringService(
	store course.Store,
	schema *course.Schema,
	providers []course.ProctoringProvider,
	mfeURL string,
	logger *zap.Logger,
) *ProctoringService {
	return &ProctoringService{
		store:     store,
		schema:    schema,
		providers: providers,
		mfeURL:    mfeURL,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the proctored exam settings for a course.
func (s *ProctoringService) Get(ctx context.Context, key course.Key) (*dto.ProctoredExamSettingsResponse, error) {
	c, err := s.store.GetCourse(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.response(c), nil
}

// Update applies proctoring settings. Staff-only fields are rejected
// with a forbidden outcome when a non-staff actor tries to change them.
func (s *ProctoringService) Update(ctx context.Context, actor course.Actor, key course.Key, req dto.ProctoredExamSettings) (*dto.ProctoredExamSettingsResponse, error) {
	var resp *dto.ProctoredExamSettingsResponse

	err := s.store.BulkOperations(ctx, key, func(ctx context.Context, store course.Store) error {
		c, err := store.GetCourse(ctx, key)
		if err != nil {
			return err
		}

		payload := make(map[string]course.FieldUpdate)
		setIf := func(settingKey string, v any, present bool) {
			if present {
				payload[settingKey] = course.FieldUpdate{Value: v}
			}
		}
		setIf(course.EnableProctoredExamsKey, deref(req.EnableProctoredExams), req.EnableProctoredExams != nil)
		setIf(course.AllowProctoringOptOutKey, deref(req.AllowProctoringOptOut), req.AllowProctoringOptOut != nil)
		setIf(course.ProctoringProviderKey, deref(req.ProctoringProvider), req.ProctoringProvider != nil)
		setIf(course.ProctoringEscalationEmailKey, deref(req.ProctoringEscalationEmail), req.ProctoringEscalationEmail != nil)
		setIf(course.CreateZendeskTicketsKey, deref(req.CreateZendeskTickets), req.CreateZendeskTickets != nil)

		if err := s.checkStaffOnly(c, payload, actor); err != nil {
			return err
		}

		valid, details, _ := s.schema.ValidateAndUpdate(c, payload, course.ValidationContext{
			Now:       s.now(),
			Actor:     actor,
			Providers: s.providers,
		})
		if !valid {
			return &ValidationError{Details: details}
		}

		if err := store.UpdateCourse(ctx, c); err != nil {
			return fmt.Errorf("persisting proctoring settings: %w", err)
		}

		s.logger.Info("Proctored exam settings updated",
			zap.String("course_key", key.String()),
			zap.String("user_id", actor.ID.String()),
			zap.Int("fields", len(payload)),
		)
		resp = s.response(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Errors reports problems in the currently stored proctoring settings.
func (s *ProctoringService) Errors(ctx context.Context, key course.Key) (*dto.ProctoringErrorsResponse, error) {
	c, err := s.store.GetCourse(ctx, key)
	if err != nil {
		return nil, err
	}

	errs := s.schema.ValidateProctoringSettings(c, s.providers)
	if errs == nil {
		errs = []course.ProctoringError{}
	}
	return &dto.ProctoringErrorsResponse{
		MFEProctoredExamSettingsURL: fmt.Sprintf("%s/course/%s/proctored-exam-settings", s.mfeURL, key),
		ProctoringErrors:            errs,
	}, nil
}

// checkStaffOnly rejects changes to staff-only fields by non-staff
// actors. Submitting the currently stored value is not a change.
func (s *ProctoringService) checkStaffOnly(c *course.Course, payload map[string]course.FieldUpdate, actor course.Actor) error {
	if actor.IsStaff {
		return nil
	}
	for key, update := range payload {
		spec, ok := s.schema.Spec(key)
		if !ok || !spec.StaffOnly {
			continue
		}
		current := spec.Default
		if v, ok := c.Setting(key); ok {
			current = v
		}
		if update.Value != current {
			return fmt.Errorf("%w: %s can only be changed by platform staff", shared.ErrForbidden, spec.DisplayName)
		}
	}
	return nil
}

// response builds the settings view from the current course state.
func (s *ProctoringService) response(c *course.Course) *dto.ProctoredExamSettingsResponse {
	get := func(key string) any {
		if v, ok := c.Setting(key); ok {
			return v
		}
		if spec, ok := s.schema.Spec(key); ok {
			return spec.Default
		}
		return nil
	}
	boolPtr := func(key string) *bool {
		if b, ok := get(key).(bool); ok {
			return &b
		}
		return nil
	}
	strPtr := func(key string) *string {
		if s, ok := get(key).(string); ok {
			return &s
		}
		return nil
	}

	return &dto.ProctoredExamSettingsResponse{
		ProctoredExamSettings: dto.ProctoredExamSettings{
			EnableProctoredExams:      boolPtr(course.EnableProctoredExamsKey),
			AllowProctoringOptOut:     boolPtr(course.AllowProctoringOptOutKey),
			ProctoringProvider:        strPtr(course.ProctoringProviderKey),
			ProctoringEscalationEmail: strPtr(course.ProctoringEscalationEmailKey),
			CreateZendeskTickets:      boolPtr(course.CreateZendeskTicketsKey),
		},
		AvailableProctoringProviders: course.ProviderNames(s.providers),
		CourseStartDate:              c.Start,
	}
}

// deref returns the pointed-to value or the zero value for nil.
func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
