package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateTeams(t *testing.T, value any) []ValidationDetail {
	t.Helper()
	return ValidateTeamsConfiguration(value, testCourse(t), ValidationContext{})
}

func testCourse(t *testing.T) *Course {
	t.Helper()
	c, err := NewCourse(MustParseKey("course-v1:edX+DemoX+Demo_2026"), "Demo Course", nil)
	require.NoError(t, err)
	return c
}

func messages(errs []ValidationDetail) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func countMessage(errs []ValidationDetail, message string) int {
	n := 0
	for _, e := range errs {
		if e.Message == message {
			n++
		}
	}
	return n
}

func TestValidateTeamsConfiguration_GlobalSize(t *testing.T) {
	tests := []struct {
		name    string
		size    any
		wantMsg string
	}{
		{"negative size", float64(-1), "max_team_size must be greater than zero"},
		{"zero size", float64(0), "max_team_size must be greater than zero"},
		{"over limit", float64(501), "max_team_size cannot be greater than 500"},
		{"non-numeric size", "ten", "max_team_size must be greater than zero"},
		{"at limit", float64(500), ""},
		{"valid size", float64(5), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateTeams(t, map[string]any{"max_team_size": tt.size})
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
			} else {
				require.Len(t, errs, 1)
				assert.Equal(t, tt.wantMsg, errs[0].Message)
				assert.Equal(t, TeamsConfigKey, errs[0].Key)
			}
		})
	}

	t.Run("absent size is valid", func(t *testing.T) {
		assert.Empty(t, validateTeams(t, map[string]any{}))
	})
}

func TestValidateTeamsConfiguration_TopicSize(t *testing.T) {
	t.Run("one error per offending topic", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "max_team_size": float64(-1)},
				map[string]any{"id": "t2", "name": "Topic 2", "max_team_size": float64(0)},
				map[string]any{"id": "t3", "name": "Topic 3", "max_team_size": float64(3)},
			},
		})
		assert.Equal(t, 2, countMessage(errs, "max_team_size must be greater than zero"))
	})

	t.Run("per-topic limit boundary", func(t *testing.T) {
		ok := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "max_team_size": float64(500)},
			},
		})
		assert.Empty(t, ok)

		over := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "max_team_size": float64(501)},
			},
		})
		require.Len(t, over, 1)
		assert.Equal(t, "max_team_size cannot be greater than 500", over[0].Message)
	})

	t.Run("global and topic scopes flagged independently", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"max_team_size": float64(501),
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "max_team_size": float64(-2)},
			},
		})
		assert.Equal(t, 1, countMessage(errs, "max_team_size cannot be greater than 500"))
		assert.Equal(t, 1, countMessage(errs, "max_team_size must be greater than zero"))
	})
}

func TestValidateTeamsConfiguration_DuplicateIDs(t *testing.T) {
	t.Run("reports sorted duplicate ids", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t2", "name": "B"},
				map[string]any{"id": "t1", "name": "A"},
				map[string]any{"id": "t2", "name": "B again"},
				map[string]any{"id": "t1", "name": "A again"},
			},
		})
		assert.Equal(t, 1, countMessage(errs, "duplicate ids: t1,t2"))
	})

	t.Run("duplicate ids and size errors are collected together", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1"},
				map[string]any{"id": "t1", "max_team_size": float64(-1)},
				map[string]any{"id": "t2"},
				map[string]any{"id": "t2"},
			},
		})
		assert.Equal(t, 1, countMessage(errs, "duplicate ids: t1,t2"))
		assert.Equal(t, 1, countMessage(errs, "max_team_size must be greater than zero"))
	})
}

func TestValidateTeamsConfiguration_Topics(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "", "description": "fine otherwise"},
			},
		})
		assert.Contains(t, messages(errs), "name attribute must not be empty")
	})

	t.Run("extra keys", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "foo": "bar"},
			},
		})
		assert.Contains(t, messages(errs), "extra keys: foo")
	})

	t.Run("multiple extra keys sorted", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "zeta": 1, "alpha": 2},
			},
		})
		assert.Contains(t, messages(errs), "extra keys: alpha,zeta")
	})

	t.Run("unrecognized type", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "type": "foo"},
			},
		})
		assert.Contains(t, messages(errs), "type foo is invalid")
	})

	t.Run("recognized or omitted type is valid", func(t *testing.T) {
		for _, topic := range []map[string]any{
			{"id": "t1", "name": "Topic 1", "type": "open"},
			{"id": "t1", "name": "Topic 1", "type": "private_managed"},
			{"id": "t1", "name": "Topic 1"},
		} {
			errs := validateTeams(t, map[string]any{"team_sets": []any{topic}})
			assert.Empty(t, errs)
		}
	})

	t.Run("legacy topics spelling accepted", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"topics": []any{
				map[string]any{"id": "t1", "name": "Topic 1", "type": "foo"},
			},
		})
		assert.Contains(t, messages(errs), "type foo is invalid")
	})
}

func TestValidateTeamsConfiguration_MalformedShapes(t *testing.T) {
	t.Run("non-object value yields no errors", func(t *testing.T) {
		assert.Empty(t, validateTeams(t, "not a map"))
		assert.Empty(t, validateTeams(t, []any{"still not a map"}))
		assert.Empty(t, validateTeams(t, nil))
	})

	t.Run("non-list team_sets validates only global size", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"max_team_size": float64(-3),
			"team_sets":     "whoops",
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "max_team_size must be greater than zero", errs[0].Message)
	})

	t.Run("non-object topic entries are skipped", func(t *testing.T) {
		errs := validateTeams(t, map[string]any{
			"team_sets": []any{
				"junk",
				map[string]any{"id": "t1", "name": ""},
			},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "name attribute must not be empty", errs[0].Message)
	})
}
