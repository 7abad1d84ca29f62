package courseapp

import "github.com/studio/backend/internal/domain/course"

// BuiltinApps returns the standard course apps. Calculator, notes and
// wiki shadow an advanced-settings key; the others are standalone toggles.
func BuiltinApps() []App {
	return []App{
		{
			ID:          "calculator",
			Name:        "Calculator",
			Description: "Provide an in-course calculator for simple and complex calculations.",
			SettingKey:  "show_calculator",
		},
		{
			ID:          "edxnotes",
			Name:        "Notes",
			Description: "Allow learners to highlight passages and make notes right in the course.",
			SettingKey:  "edxnotes",
		},
		{
			ID:          "wiki",
			Name:        "Wiki",
			Description: "Enable the course wiki, optionally readable by unenrolled users.",
			SettingKey:  "allow_public_wiki_access",
		},
		{
			ID:             "teams",
			Name:           "Teams",
			Description:    "Leverage teams to allow learners to connect by topic of interest.",
			SettingKey:     course.TeamsConfigKey,
			DefaultEnabled: false,
		},
		{
			ID:             "progress",
			Name:           "Progress",
			Description:    "Allow learners to track their progress throughout the course.",
			DefaultEnabled: true,
		},
		{
			ID:             "textbooks",
			Name:           "Textbooks",
			Description:    "Provide links to applicable resources for your course.",
			DefaultEnabled: true,
		},
	}
}

// NewDefaultManager creates a manager pre-loaded with the builtin apps.
func NewDefaultManager() *Manager {
	m := NewManager()
	for _, app := range BuiltinApps() {
		// Builtin registrations cannot collide.
		_ = m.Register(app)
	}
	return m
}
