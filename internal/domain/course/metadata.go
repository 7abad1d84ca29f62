package course

import (
	"fmt"
	"sort"
)

// FieldUpdate is the wire shape for one setting in an update payload:
// {"key": {"value": ...}}.
type FieldUpdate struct {
	Value any `json:"value"`
}

// FetchOptions controls which fields a settings read returns.
type FetchOptions struct {
	// FilterFields restricts the result to the named keys. Empty means all.
	FilterFields []string
	// IncludeDeprecated also returns deprecated fields (fetch_all).
	IncludeDeprecated bool
}

// Fetch materializes the settings view for a course: every registered
// field with its current (or default) value and display metadata.
// Deprecated fields are excluded unless IncludeDeprecated is set.
func (s *Schema) Fetch(c *Course, opts FetchOptions) map[string]SettingsField {
	var filter map[string]struct{}
	if len(opts.FilterFields) > 0 {
		filter = make(map[string]struct{}, len(opts.FilterFields))
		for _, f := range opts.FilterFields {
			filter[f] = struct{}{}
		}
	}

	result := make(map[string]SettingsField)
	for key, spec := range s.fields {
		if spec.Deprecated && !opts.IncludeDeprecated {
			continue
		}
		if filter != nil {
			if _, ok := filter[key]; !ok {
				continue
			}
		}
		result[key] = s.fieldView(c, spec)
	}
	return result
}

// fieldView builds the view model for one field.
func (s *Schema) fieldView(c *Course, spec FieldSpec) SettingsField {
	value := spec.Default
	if v, ok := c.Setting(spec.Key); ok {
		value = v
	}
	return SettingsField{
		Value:                  value,
		DisplayName:            spec.DisplayName,
		Help:                   spec.Help,
		Deprecated:             spec.Deprecated,
		HideOnEnabledPublisher: spec.HideOnEnabledPublisher,
	}
}

// ValidateAndUpdate validates a partial update payload and, only if every
// field passes, applies it to the course. The update is all-or-nothing at
// the validation stage: a single failing field leaves the course untouched.
//
// The returned map contains the post-update view of the touched fields.
func (s *Schema) ValidateAndUpdate(c *Course, payload map[string]FieldUpdate, vctx ValidationContext) (bool, []ValidationDetail, map[string]SettingsField) {
	var errs []ValidationDetail
	proposed := make(map[string]any)
	cleared := make(map[string]struct{})

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	// Deterministic error ordering across runs.
	sort.Strings(keys)

	for _, key := range keys {
		update := payload[key]

		if s.IsReserved(key) {
			errs = append(errs, ValidationDetail{
				Key:     key,
				Message: fmt.Sprintf("%s is a reserved setting and cannot be edited here", key),
			})
			continue
		}
		spec, ok := s.Spec(key)
		if !ok {
			errs = append(errs, ValidationDetail{
				Key:     key,
				Message: fmt.Sprintf("%s is not a recognized course setting", key),
			})
			continue
		}

		// A null value reverts the field to its default.
		if update.Value == nil {
			if spec.Nullable {
				cleared[key] = struct{}{}
				continue
			}
			errs = append(errs, ValidationDetail{
				Key:     key,
				Message: fmt.Sprintf("incorrect format for field '%s': null is not allowed", spec.DisplayName),
				Model:   spec.DisplayName,
			})
			continue
		}

		if !checkKind(spec.Kind, update.Value) {
			errs = append(errs, ValidationDetail{
				Key:     key,
				Message: fmt.Sprintf("incorrect format for field '%s': expected a %s value", spec.DisplayName, spec.Kind),
				Model:   spec.DisplayName,
			})
			continue
		}

		if spec.Validate != nil {
			if fieldErrs := spec.Validate(update.Value, c, vctx); len(fieldErrs) > 0 {
				errs = append(errs, fieldErrs...)
				continue
			}
		}

		proposed[key] = update.Value
	}

	if len(errs) > 0 {
		return false, errs, nil
	}

	for key, value := range proposed {
		c.SetSetting(key, value)
	}
	for key := range cleared {
		c.UnsetSetting(key)
	}
	c.Touch()

	updated := make(map[string]SettingsField, len(proposed)+len(cleared))
	for key := range proposed {
		spec, _ := s.Spec(key)
		updated[key] = s.fieldView(c, spec)
	}
	for key := range cleared {
		spec, _ := s.Spec(key)
		updated[key] = s.fieldView(c, spec)
	}
	return true, nil, updated
}
