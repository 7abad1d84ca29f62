package course

import (
	"fmt"
	"sort"
	"strings"
)

// Settings keys for the proctored exam field group.
const (
	EnableProctoredExamsKey      = "enable_proctored_exams"
	AllowProctoringOptOutKey     = "allow_proctoring_opt_out"
	ProctoringProviderKey        = "proctoring_provider"
	ProctoringEscalationEmailKey = "proctoring_escalation_email"
	CreateZendeskTicketsKey      = "create_zendesk_tickets"
	EnableTimedExamsKey          = "enable_timed_exams"
)

// ProctoredExamSettingKeys lists every settings key in the proctored exam
// group, in the order the settings UI presents them.
var ProctoredExamSettingKeys = []string{
	EnableProctoredExamsKey,
	AllowProctoringOptOutKey,
	ProctoringProviderKey,
	ProctoringEscalationEmailKey,
	CreateZendeskTicketsKey,
}

// ProctoringProvider describes one available proctoring backend.
type ProctoringProvider struct {
	Name                    string
	RequiresEscalationEmail bool
}

// ProviderNames returns the sorted names of a provider set.
func ProviderNames(providers []ProctoringProvider) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// findProvider looks a provider up by name.
func findProvider(providers []ProctoringProvider, name string) (ProctoringProvider, bool) {
	for _, p := range providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProctoringProvider{}, false
}

// ValidateProctoringProvider checks a proposed proctoring_provider value.
// The provider is immutable once the course start date has passed, and must
// be one of the configured providers.
func ValidateProctoringProvider(proposed any, c *Course, vctx ValidationContext) []ValidationDetail {
	name, ok := proposed.(string)
	if !ok {
		return []ValidationDetail{{
			Key:     ProctoringProviderKey,
			Message: "incorrect format for field 'Proctoring Provider': expected a string value",
			Model:   "Proctoring Provider",
		}}
	}

	current := ""
	if v, ok := c.Setting(ProctoringProviderKey); ok {
		current, _ = v.(string)
	}

	if name != current && c.HasStarted(vctx.Now) {
		return []ValidationDetail{{
			Key: ProctoringProviderKey,
			Message: fmt.Sprintf(
				"The proctoring provider cannot be modified after a course has started. Contact support to change from %s to %s.",
				displayProvider(current), displayProvider(name),
			),
			Model: "Proctoring Provider",
		}}
	}

	if _, known := findProvider(vctx.Providers, name); !known && name != "" {
		return []ValidationDetail{{
			Key: ProctoringProviderKey,
			Message: fmt.Sprintf(
				"The selected proctoring provider, %s, is not a valid provider. Please select from one of %s.",
				name, strings.Join(ProviderNames(vctx.Providers), ", "),
			),
			Model: "Proctoring Provider",
		}}
	}

	return nil
}

func displayProvider(name string) string {
	if name == "" {
		return "(none)"
	}
	return name
}

// ProctoringError is one problem found in the currently stored proctoring
// settings, reported with the display name of the offending field.
type ProctoringError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
	Model   string `json:"model"`
}

// ValidateProctoringSettings inspects the stored proctoring configuration
// of a course and returns every inconsistency. Used by the settings pages
// to warn authors before learners are affected.
func (s *Schema) ValidateProctoringSettings(c *Course, providers []ProctoringProvider) []ProctoringError {
	var errs []ProctoringError

	enabled := false
	if v, ok := c.Setting(EnableProctoredExamsKey); ok {
		enabled, _ = v.(bool)
	}
	if !enabled {
		return nil
	}

	providerName := ""
	if v, ok := c.Setting(ProctoringProviderKey); ok {
		providerName, _ = v.(string)
	}

	provider, known := findProvider(providers, providerName)
	if providerName == "" || !known {
		errs = append(errs, ProctoringError{
			Key: ProctoringProviderKey,
			Message: fmt.Sprintf(
				"The selected proctoring provider, %s, is not a valid provider. Please select from one of %s.",
				displayProvider(providerName), strings.Join(ProviderNames(providers), ", "),
			),
			Model: s.displayName(ProctoringProviderKey),
		})
		return errs
	}

	if provider.RequiresEscalationEmail {
		email := ""
		if v, ok := c.Setting(ProctoringEscalationEmailKey); ok {
			email, _ = v.(string)
		}
		if email == "" {
			errs = append(errs, ProctoringError{
				Key: ProctoringEscalationEmailKey,
				Message: fmt.Sprintf(
					"A proctoring escalation email is required when %s is the proctoring provider.",
					provider.Name,
				),
				Model: s.displayName(ProctoringEscalationEmailKey),
			})
		}
	}

	return errs
}

// displayName returns the display name for a key, falling back to the key
// itself for fields not in the schema.
func (s *Schema) displayName(key string) string {
	if spec, ok := s.Spec(key); ok {
		return spec.DisplayName
	}
	return key
}
