package course

import (
	"fmt"
	"sort"
	"time"

	"github.com/studio/backend/internal/domain/shared"
)

// FieldKind is the expected JSON-compatible type of a settings field.
type FieldKind int

const (
	KindBool FieldKind = iota
	KindInt
	KindString
	KindList
	KindMap
)

// String returns the human-readable name of the kind, used in error messages.
func (k FieldKind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "object"
	default:
		return "unknown"
	}
}

// ValidationDetail is one field-level validation failure. Model carries the
// field display name so form UIs can anchor the message.
type ValidationDetail struct {
	Key     string `json:"key"`
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// ValidationContext carries the request-scoped state validators need.
// It is constructed explicitly by the caller; validators never reach
// into ambient configuration.
type ValidationContext struct {
	Now       time.Time
	Actor     Actor
	Providers []ProctoringProvider
}

// FieldValidator checks a proposed value against the current course state.
// It returns every applicable error, never raising on malformed shapes.
type FieldValidator func(proposed any, c *Course, vctx ValidationContext) []ValidationDetail

// FieldSpec describes one editable course setting.
type FieldSpec struct {
	Key                    string
	DisplayName            string
	Help                   string
	Kind                   FieldKind
	Default                any
	Nullable               bool
	Deprecated             bool
	HideOnEnabledPublisher bool
	StaffOnly              bool
	Validate               FieldValidator
}

// SettingsField is the per-request view of one setting, materialized from
// the course settings map and the field spec.
type SettingsField struct {
	Value                  any    `json:"value"`
	DisplayName            string `json:"display_name"`
	Help                   string `json:"help"`
	Deprecated             bool   `json:"deprecated"`
	HideOnEnabledPublisher bool   `json:"hide_on_enabled_publisher"`
}

// Schema is the registry of editable settings plus the reserved keys that
// are owned by other subsystems and must never pass through this path.
type Schema struct {
	fields   map[string]FieldSpec
	order    []string
	reserved map[string]struct{}
}

// ReservedKeys are system fields managed outside advanced settings:
// identity, scheduling dates, tab and grading structures.
var ReservedKeys = []string{
	"display_name",
	"start",
	"end",
	"enrollment_start",
	"enrollment_end",
	"tabs",
	"graders",
	"checklists",
	"cohort_config",
	"xml_attributes",
}

// NewSchema creates an empty schema with the standard reserved key set.
func NewSchema() *Schema {
	reserved := make(map[string]struct{}, len(ReservedKeys))
	for _, k := range ReservedKeys {
		reserved[k] = struct{}{}
	}
	return &Schema{
		fields:   make(map[string]FieldSpec),
		reserved: reserved,
	}
}

// Register adds a field spec to the schema.
func (s *Schema) Register(spec FieldSpec) error {
	if spec.Key == "" {
		return fmt.Errorf("%w: field key cannot be empty", shared.ErrInvalidInput)
	}
	if _, ok := s.reserved[spec.Key]; ok {
		return fmt.Errorf("%w: field %q is reserved", shared.ErrInvalidInput, spec.Key)
	}
	if _, ok := s.fields[spec.Key]; ok {
		return fmt.Errorf("%w: field %q already registered", shared.ErrAlreadyExists, spec.Key)
	}
	s.fields[spec.Key] = spec
	s.order = append(s.order, spec.Key)
	return nil
}

// MustRegister registers a field spec and panics on failure. For schema
// construction at startup.
func (s *Schema) MustRegister(spec FieldSpec) {
	if err := s.Register(spec); err != nil {
		panic(err)
	}
}

// Spec returns the field spec for a key.
func (s *Schema) Spec(key string) (FieldSpec, bool) {
	spec, ok := s.fields[key]
	return spec, ok
}

// Keys returns all registered field keys in sorted order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	sort.Strings(keys)
	return keys
}

// IsReserved reports whether a key is system-owned.
func (s *Schema) IsReserved(key string) bool {
	_, ok := s.reserved[key]
	return ok
}

// MarkDeprecated flags a registered field as deprecated, used for
// configuration-driven retirement of settings (e.g. mobile_available
// when mobile courses are disabled platform-wide).
func (s *Schema) MarkDeprecated(key string) {
	if spec, ok := s.fields[key]; ok {
		spec.Deprecated = true
		s.fields[key] = spec
	}
}

// checkKind reports whether a decoded JSON value matches the field kind.
// JSON numbers arrive as float64; whole floats are accepted for integer
// fields.
func checkKind(kind FieldKind, value any) bool {
	switch kind {
	case KindBool:
		_, ok := value.(bool)
		return ok
	case KindInt:
		switch n := value.(type) {
		case int:
			return true
		case int64:
			return true
		case float64:
			return n == float64(int64(n))
		default:
			return false
		}
	case KindString:
		_, ok := value.(string)
		return ok
	case KindList:
		_, ok := value.([]any)
		if !ok {
			_, ok = value.([]string)
		}
		return ok
	case KindMap:
		_, ok := value.(map[string]any)
		return ok
	default:
		return false
	}
}
