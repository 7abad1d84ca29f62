package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/courseapp"
	"github.com/studio/backend/internal/domain/shared"
)

// ValidationError carries the itemized field errors of a rejected update.
type ValidationError struct {
	Details []course.ValidationDetail
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("settings validation failed for %d field(s)", len(e.Details))
}

// Features are the platform-level switches this service consults. They
// are injected at construction; nothing reads ambient global state.
type Features struct {
	// EnablePublisher hides publisher-managed fields in the settings UI.
	EnablePublisher bool
	// DisableMobileCourseAvailable retires the mobile_available setting.
	DisableMobileCourseAvailable bool
}

// ViewCache is a read-through cache for full settings views.
type ViewCache interface {
	Get(ctx context.Context, key course.Key) (dto.SettingsView, bool)
	Set(ctx context.Context, key course.Key, view dto.SettingsView)
	Invalidate(ctx context.Context, key course.Key)
}

// Followups receives fire-and-forget work triggered by a successful
// settings update. Implementations must never block the caller; failures
// are theirs to log.
type Followups interface {
	UpdateCreditRequirements(courseKey course.Key)
	NotifySettingsChanged(courseKey course.Key, changedKeys []string)
}

// Service orchestrates advanced-settings reads and updates: app-status
// reconciliation, validation, persistence and the merged response view.
type Service struct {
	store      course.Store
	schema     *course.Schema
	apps       *courseapp.Manager
	statusRepo courseapp.StatusRepository
	cache      ViewCache
	followups  Followups
	providers  []course.ProctoringProvider
	features   Features
	logger     *zap.Logger
	now        func() time.Time
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithViewCache enables the read-through settings view cache.
func WithViewCache(cache ViewCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// WithFollowups wires the async follow-up sink.
func WithFollowups(f Followups) ServiceOption {
	return func(s *Service) { s.followups = f }
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a settings service.
func NewService(
	store course.Store,
	schema *course.Schema,
	apps *courseapp.Manager,
	statusRepo courseapp.StatusRepository,
	providers []course.ProctoringProvider,
	features Features,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		store:      store,
		schema:     schema,
		apps:       apps,
		statusRepo: statusRepo,
		providers:  providers,
		features:   features,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the settings view for a course.
func (s *Service) Fetch(ctx context.Context, key course.Key, req dto.FetchRequest) (dto.SettingsView, error) {
	cacheable := len(req.FilterFields) == 0 && !req.FetchAll
	if cacheable && s.cache != nil {
		if view, ok := s.cache.Get(ctx, key); ok {
			return view, nil
		}
	}

	c, err := s.store.GetCourse(ctx, key)
	if err != nil {
		return nil, err
	}

	view := dto.SettingsView(s.schema.Fetch(c, course.FetchOptions{
		FilterFields:      req.FilterFields,
		IncludeDeprecated: req.FetchAll,
	}))
	s.applyFeatureOverrides(view)

	if cacheable && s.cache != nil {
		s.cache.Set(ctx, key, view)
	}
	return view, nil
}

// Update applies a partial settings payload and returns the full
// reconciled view of the persisted state.
//
// App-shadowed keys are peeled off first and routed through the course
// app status records; keys the app path rejects fall back to generic
// metadata validation. The remainder is validated as a whole: one
// failing field rejects the request and persists nothing.
func (s *Service) Update(ctx context.Context, actor course.Actor, key course.Key, payload dto.UpdatePayload) (dto.SettingsView, error) {
	var view dto.SettingsView
	var changed []string

	err := s.store.BulkOperations(ctx, key, func(ctx context.Context, store course.Store) error {
		c, err := store.GetCourse(ctx, key)
		if err != nil {
			return err
		}

		appManaged, generic := partitionPayload(payload, s.apps.SettingsMapping())
		result := s.reconcileAppStatus(ctx, c, appManaged, generic, actor)

		valid, details, _ := s.schema.ValidateAndUpdate(c, generic, course.ValidationContext{
			Now:       s.now(),
			Actor:     actor,
			Providers: s.providers,
		})
		if !valid {
			return &ValidationError{Details: details}
		}

		if err := store.UpdateCourse(ctx, c); err != nil {
			return fmt.Errorf("persisting course settings: %w", err)
		}

		for k := range payload {
			changed = append(changed, k)
		}
		sort.Strings(changed)

		// The response reflects the authoritative persisted state, with
		// every updated field merged over the full current view.
		view = dto.SettingsView(s.schema.Fetch(c, course.FetchOptions{IncludeDeprecated: true}))
		s.applyFeatureOverrides(view)

		s.logger.Info("Course settings updated",
			zap.String("course_key", key.String()),
			zap.Int("fields", len(payload)),
			zap.Int("app_processed", len(result.Processed)),
			zap.Int("app_failed", len(result.Failed)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, key)
	}
	if s.followups != nil {
		s.followups.UpdateCreditRequirements(key)
		s.followups.NotifySettingsChanged(key, changed)
	}
	return view, nil
}

// applyFeatureOverrides adjusts the per-request view for platform
// feature switches without mutating the shared schema.
func (s *Service) applyFeatureOverrides(view dto.SettingsView) {
	if s.features.DisableMobileCourseAvailable {
		if field, ok := view["mobile_available"]; ok {
			field.Deprecated = true
			view["mobile_available"] = field
		}
	}
}

// partitionPayload splits an update payload into the keys shadowed by a
// registered course app (with a non-null value) and the rest. The input
// payload is never mutated.
func partitionPayload(payload dto.UpdatePayload, mapping map[string]string) (appManaged, generic dto.UpdatePayload) {
	appManaged = make(dto.UpdatePayload)
	generic = make(dto.UpdatePayload)
	for key, update := range payload {
		if _, shadowed := mapping[key]; shadowed && update.Value != nil {
			appManaged[key] = update
		} else {
			generic[key] = update
		}
	}
	return appManaged, generic
}

// reconcileAppStatus routes app-shadowed settings through the course app
// status records. A key the app path accepts also updates the underlying
// course field, keeping the settings view coherent. A key it rejects is
// moved into the generic payload so ordinary metadata validation gets a
// chance at it. This path never fails the request.
func (s *Service) reconcileAppStatus(ctx context.Context, c *course.Course, appManaged, generic dto.UpdatePayload, actor course.Actor) dto.ReconcileResult {
	var result dto.ReconcileResult

	keys := make([]string, 0, len(appManaged))
	for key := range appManaged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		update := appManaged[key]
		app, _ := s.apps.AppForSetting(key)

		if err := s.setAppStatus(ctx, c, app, update.Value); err != nil {
			// Fall back to the generic metadata path.
			generic[key] = update
			result.Failed = append(result.Failed, key)
			s.logger.Debug("Course app rejected setting, falling back to metadata validation",
				zap.String("course_key", c.Key.String()),
				zap.String("app_id", app.ID),
				zap.String("setting", key),
				zap.Error(err),
			)
			continue
		}
		result.Processed = append(result.Processed, key)
	}

	if len(keys) > 0 {
		s.logger.Info("Reconciled app-managed settings",
			zap.String("course_key", c.Key.String()),
			zap.String("user_id", actor.ID.String()),
			zap.Int("processed", len(result.Processed)),
			zap.Int("failed", len(result.Failed)),
		)
	}
	return result
}

// setAppStatus flips one app's enablement for a course. Only boolean
// values are valid toggles; anything else is an app-level validation
// failure.
func (s *Service) setAppStatus(ctx context.Context, c *course.Course, app courseapp.App, value any) error {
	enabled, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: app %q status must be a boolean", shared.ErrInvalidInput, app.ID)
	}

	status, err := courseapp.NewStatus(c.Key, app.ID, enabled)
	if err != nil {
		return err
	}
	if err := s.statusRepo.Upsert(ctx, status); err != nil {
		return fmt.Errorf("saving app status: %w", err)
	}

	// The app owns the shadowed field; keep the stored setting in sync.
	c.SetSetting(app.SettingKey, enabled)
	return nil
}

// CourseApps returns every registered app with its effective status for
// a course.
func (s *Service) CourseApps(ctx context.Context, key course.Key) ([]dto.CourseAppView, error) {
	if _, err := s.store.GetCourse(ctx, key); err != nil {
		return nil, err
	}

	statuses, err := s.statusRepo.FindAllForCourse(ctx, key)
	if err != nil {
		return nil, err
	}
	byApp := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		byApp[st.AppID] = st.Enabled
	}

	apps := s.apps.List()
	views := make([]dto.CourseAppView, 0, len(apps))
	for _, app := range apps {
		enabled, ok := byApp[app.ID]
		if !ok {
			enabled = app.DefaultEnabled
		}
		views = append(views, dto.CourseAppView{
			ID:          app.ID,
			Name:        app.Name,
			Description: app.Description,
			Enabled:     enabled,
		})
	}
	return views, nil
}

// IsNotFound reports whether an error means the course does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
