package course

import (
	"fmt"
	"sort"
	"strings"
)

// TeamsConfigKey is the settings key carrying the course teams configuration.
const TeamsConfigKey = "teams_configuration"

// MaxTeamSizeLimit caps both the global and per-topic max_team_size.
const MaxTeamSizeLimit = 500

// TeamSetType enumerates the recognized team-set types.
var teamSetTypes = map[string]struct{}{
	"open":            {},
	"open_managed":    {},
	"public_managed":  {},
	"private_managed": {},
}

// teamSetKeys are the recognized keys in one team-set record.
var teamSetKeys = map[string]struct{}{
	"id":                {},
	"name":              {},
	"description":       {},
	"type":              {},
	"max_team_size":     {},
	"user_partition_id": {},
}

// ValidateTeamsConfiguration checks a proposed teams_configuration value.
// All applicable errors are collected and returned together; the validator
// never stops at the first failure and never rejects a payload for shape
// alone. A value that is not an object is treated as having no topics and
// no global size, so nothing can be validated and no error is produced;
// the field-kind check upstream already rejects non-object values on the
// write path.
func ValidateTeamsConfiguration(proposed any, _ *Course, _ ValidationContext) []ValidationDetail {
	config, ok := proposed.(map[string]any)
	if !ok {
		return nil
	}

	var errs []ValidationDetail
	add := func(message string) {
		errs = append(errs, ValidationDetail{
			Key:     TeamsConfigKey,
			Message: message,
			Model:   "Teams Configuration",
		})
	}

	if size, present := teamSize(config["max_team_size"]); present {
		errs = append(errs, checkTeamSize(size)...)
	}

	topics := extractTopics(config)

	seen := make(map[string]int)
	for _, topic := range topics {
		if id, ok := topic["id"].(string); ok {
			seen[id]++
		}
	}
	var dups []string
	for id, count := range seen {
		if count > 1 {
			dups = append(dups, id)
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		add(fmt.Sprintf("duplicate ids: %s", strings.Join(dups, ",")))
	}

	for _, topic := range topics {
		if name, ok := topic["name"]; ok {
			if s, isStr := name.(string); !isStr || s == "" {
				add("name attribute must not be empty")
			}
		}

		var extra []string
		for key := range topic {
			if _, known := teamSetKeys[key]; !known {
				extra = append(extra, key)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			add(fmt.Sprintf("extra keys: %s", strings.Join(extra, ",")))
		}

		if t, ok := topic["type"]; ok {
			if s, isStr := t.(string); !isStr {
				add(fmt.Sprintf("type %v is invalid", t))
			} else if _, known := teamSetTypes[s]; !known {
				add(fmt.Sprintf("type %s is invalid", s))
			}
		}

		if size, present := teamSize(topic["max_team_size"]); present {
			errs = append(errs, checkTeamSize(size)...)
		}
	}

	return errs
}

// checkTeamSize validates one max_team_size value at either scope.
func checkTeamSize(size int) []ValidationDetail {
	detail := func(message string) []ValidationDetail {
		return []ValidationDetail{{
			Key:     TeamsConfigKey,
			Message: message,
			Model:   "Teams Configuration",
		}}
	}
	if size <= 0 {
		return detail("max_team_size must be greater than zero")
	}
	if size > MaxTeamSizeLimit {
		return detail("max_team_size cannot be greater than 500")
	}
	return nil
}

// extractTopics pulls the topic list out of a teams configuration,
// accepting both the "team_sets" and the legacy "topics" spelling.
// Entries that are not objects are skipped.
func extractTopics(config map[string]any) []map[string]any {
	raw, ok := config["team_sets"]
	if !ok {
		raw, ok = config["topics"]
	}
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	topics := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if topic, ok := entry.(map[string]any); ok {
			topics = append(topics, topic)
		}
	}
	return topics
}

// teamSize interprets a max_team_size value. JSON numbers decode to
// float64; other shapes are reported as present with an out-of-range
// sentinel so they surface as a validation error rather than a panic.
func teamSize(v any) (size int, present bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		// Non-numeric sizes fail the greater-than-zero rule.
		return 0, true
	}
}
