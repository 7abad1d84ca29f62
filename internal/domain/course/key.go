package course

import (
	"fmt"
	"strings"

	"github.com/studio/backend/internal/domain/shared"
)

// KeyPrefix is the serialized form prefix for course run keys.
const KeyPrefix = "course-v1"

// Key identifies a single course run. The canonical string form is
// "course-v1:Org+Number+Run".
type Key struct {
	Org    string
	Number string
	Run    string
}

// ParseKey parses the canonical string form of a course key.
func ParseKey(s string) (Key, error) {
	prefix, rest, found := strings.Cut(s, ":")
	if !found || prefix != KeyPrefix {
		return Key{}, fmt.Errorf("%w: course key must start with %q", shared.ErrInvalidInput, KeyPrefix+":")
	}

	parts := strings.Split(rest, "+")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("%w: course key must have org, number and run components", shared.ErrInvalidInput)
	}
	for _, p := range parts {
		if p == "" {
			return Key{}, fmt.Errorf("%w: course key components cannot be empty", shared.ErrInvalidInput)
		}
	}

	return Key{Org: parts[0], Number: parts[1], Run: parts[2]}, nil
}

// MustParseKey parses a course key and panics on failure. For tests and fixtures.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the canonical serialized form.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s+%s+%s", KeyPrefix, k.Org, k.Number, k.Run)
}

// IsZero reports whether the key is the zero value.
func (k Key) IsZero() bool {
	return k == Key{}
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(data []byte) error {
	parsed, err := ParseKey(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
