package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/PacMenOrganizationLLC/HungryGame/game/engine"
	"github.com/PacMenOrganizationLLC/HungryGame/game/service"
)

var ErrInvalidPreset = errors.New("invalid preset")

// builtinPresets are always discoverable, with or without a config
// directory. The password values are default hints for the admin form, not
// credentials.
var builtinPresets = []*service.PresetInfo{
	{Name: "classic", NumRows: 10, NumCols: 10, Password: "changeme"},
	{Name: "blitz", NumRows: 6, NumCols: 6, Password: "changeme", TimeLimit: 2},
	{Name: "marathon", NumRows: 25, NumCols: 25, Password: "changeme", TimeLimit: 30},
}

// Manager implements service.PresetManager. Presets are loaded once at
// construction; a missing directory is not an error, it just means only the
// built-ins are advertised.
type Manager struct {
	presets []*service.PresetInfo
	mu      sync.RWMutex
}

// NewManager builds a manager from the built-in presets plus any *.json
// files in configDir. A file preset with a built-in's name overrides it.
func NewManager(configDir string) (*Manager, error) {
	m := &Manager{}

	byName := make(map[string]*service.PresetInfo, len(builtinPresets))
	order := make([]string, 0, len(builtinPresets))
	for _, p := range builtinPresets {
		byName[p.Name] = p
		order = append(order, p.Name)
	}

	if configDir != "" {
		loaded, err := loadDir(configDir)
		if err != nil {
			return nil, err
		}
		for _, p := range loaded {
			if _, exists := byName[p.Name]; !exists {
				order = append(order, p.Name)
			}
			byName[p.Name] = p
		}
	}

	sort.Strings(order[len(builtinPresets):])
	for _, name := range order {
		m.presets = append(m.presets, byName[name])
	}
	return m, nil
}

// List returns every discoverable preset, built-ins first.
func (m *Manager) List() []*service.PresetInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.PresetInfo, len(m.presets))
	copy(result, m.presets)
	return result
}

// Default returns the first preset as a start configuration.
func (m *Manager) Default() engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.presets[0]
	return engine.GameConfig{
		NumRows:   p.NumRows,
		NumCols:   p.NumCols,
		Secret:    p.Password,
		TimeLimit: p.TimeLimit,
	}
}

// loadDir reads every *.json preset in dir. A missing dir yields no presets.
func loadDir(dir string) ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var presets []*service.PresetInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read preset file %s: %w", entry.Name(), err)
		}

		var preset service.PresetInfo
		if err := json.Unmarshal(data, &preset); err != nil {
			return nil, fmt.Errorf("failed to parse preset %s: %w", entry.Name(), err)
		}
		if preset.Name == "" {
			preset.Name = strings.TrimSuffix(entry.Name(), ".json")
		}

		cfg := engine.GameConfig{
			NumRows:   preset.NumRows,
			NumCols:   preset.NumCols,
			Secret:    preset.Password,
			TimeLimit: preset.TimeLimit,
		}
		if err := engine.ValidateGameConfig(cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPreset, entry.Name(), err)
		}

		presets = append(presets, &preset)
	}
	return presets, nil
}
