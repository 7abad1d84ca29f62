package courseapp

import (
	"fmt"
	"sort"
	"sync"

	"github.com/studio/backend/internal/domain/shared"
)

// Manager is the registry of course apps. Registration happens once at
// startup; lookups are concurrent-safe for the request path.
type Manager struct {
	mu   sync.RWMutex
	apps map[string]App
}

// NewManager creates an empty app registry.
func NewManager() *Manager {
	return &Manager{
		apps: make(map[string]App),
	}
}

// Register adds an app to the registry.
func (m *Manager) Register(app App) error {
	if app.ID == "" {
		return fmt.Errorf("%w: app ID cannot be empty", shared.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apps[app.ID]; exists {
		return fmt.Errorf("%w: app %q already registered", shared.ErrAlreadyExists, app.ID)
	}
	if app.SettingKey != "" {
		for _, other := range m.apps {
			if other.SettingKey == app.SettingKey {
				return fmt.Errorf("%w: setting %q is already shadowed by app %q",
					shared.ErrAlreadyExists, app.SettingKey, other.ID)
			}
		}
	}

	m.apps[app.ID] = app
	return nil
}

// Get returns an app by ID.
func (m *Manager) Get(id string) (App, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, exists := m.apps[id]
	return app, exists
}

// List returns all registered apps sorted by ID.
func (m *Manager) List() []App {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]App, 0, len(m.apps))
	for _, app := range m.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps
}

// SettingsMapping returns the advanced-settings keys that registered apps
// shadow, mapped to the owning app ID.
func (m *Manager) SettingsMapping() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping := make(map[string]string)
	for id, app := range m.apps {
		if app.SettingKey != "" {
			mapping[app.SettingKey] = id
		}
	}
	return mapping
}

// AppForSetting returns the app shadowing a settings key, if any.
func (m *Manager) AppForSetting(settingKey string) (App, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, app := range m.apps {
		if app.SettingKey != "" && app.SettingKey == settingKey {
			return app, true
		}
	}
	return App{}, false
}

// Unregister removes an app. Useful for tests.
func (m *Manager) Unregister(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apps[id]; !exists {
		return fmt.Errorf("%w: app %q not found", shared.ErrNotFound, id)
	}
	delete(m.apps, id)
	return nil
}
