package dto

import (
	"time"

	"github.com/studio/backend/internal/domain/course"
)

// FetchRequest captures the query options for a settings read.
type FetchRequest struct {
	// FilterFields restricts the response to the named keys.
	FilterFields []string
	// FetchAll includes deprecated and hidden fields.
	FetchAll bool
}

// UpdatePayload is the PATCH body: a partial map of setting key to
// {"value": ...}.
type UpdatePayload map[string]course.FieldUpdate

// SettingsView is the response shape for both reads and successful
// updates: the full reconciled settings map.
type SettingsView map[string]course.SettingsField

// ReconcileResult summarizes one app-status reconciliation pass.
type ReconcileResult struct {
	// Processed keys were handled by the course-apps path and removed
	// from the generic payload.
	Processed []string
	// Failed keys hit app-level validation and fell back to the
	// generic metadata path.
	Failed []string
}

// ProctoredExamSettings is the proctoring field group as a flat object.
type ProctoredExamSettings struct {
	EnableProctoredExams      *bool   `json:"enable_proctored_exams,omitempty"`
	AllowProctoringOptOut     *bool   `json:"allow_proctoring_opt_out,omitempty"`
	ProctoringProvider        *string `json:"proctoring_provider,omitempty"`
	ProctoringEscalationEmail *string `json:"proctoring_escalation_email,omitempty"`
	CreateZendeskTickets      *bool   `json:"create_zendesk_tickets,omitempty"`
}

// ProctoredExamSettingsResponse is the GET/POST response for the
// proctored exam settings endpoint.
type ProctoredExamSettingsResponse struct {
	ProctoredExamSettings         ProctoredExamSettings `json:"proctored_exam_settings"`
	AvailableProctoringProviders  []string              `json:"available_proctoring_providers"`
	CourseStartDate               *time.Time            `json:"course_start_date"`
}

// ProctoringErrorsResponse is the GET response for stored-settings
// proctoring problems.
type ProctoringErrorsResponse struct {
	MFEProctoredExamSettingsURL string                   `json:"mfe_proctored_exam_settings_url"`
	ProctoringErrors            []course.ProctoringError `json:"proctoring_errors"`
}

// CourseAppView is one registered app with its effective status for a
// course.
type CourseAppView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}
