package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/srtcast/srtcast/internal/session"
)

// Preset is a named, saved set of session inputs.
type Preset struct {
	Name  string        `toml:"name" json:"name"`
	Input session.Input `toml:"input" json:"input"`

	CreatedAt time.Time `toml:"created_at" json:"created_at"`
	UpdatedAt time.Time `toml:"updated_at" json:"updated_at"`
}

// PresetsFile is the on-disk layout of the presets file.
type PresetsFile struct {
	Version int               `toml:"version" json:"version"`
	Presets map[string]Preset `toml:"presets" json:"presets"`
}

// PresetManager loads and stores presets in a TOML file.
type PresetManager struct {
	path string
	file *PresetsFile
}

// NewPresetManager creates a manager backed by the given file path.
func NewPresetManager(path string) *PresetManager {
	if path == "" {
		path = "presets.toml"
	}

	return &PresetManager{
		path: path,
		file: &PresetsFile{
			Version: 1,
			Presets: make(map[string]Preset),
		},
	}
}

// Load reads the presets file. A missing file leaves the manager empty.
func (pm *PresetManager) Load() error {
	if _, err := os.Stat(pm.path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(pm.path)
	if err != nil {
		return fmt.Errorf("failed to read presets: %w", err)
	}

	if err := toml.Unmarshal(data, pm.file); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}

	// TOML cannot tell an absent share_screen from screen 0, and a
	// hand-edited preset that omits it must not select screen 0. A second
	// decode with a pointer field finds the omissions.
	var screens struct {
		Presets map[string]struct {
			Input struct {
				ShareScreen *int `toml:"share_screen"`
			} `toml:"input"`
		} `toml:"presets"`
	}
	if err := toml.Unmarshal(data, &screens); err == nil {
		for name, preset := range pm.file.Presets {
			if screens.Presets[name].Input.ShareScreen == nil {
				preset.Input.ShareScreen = session.NoScreen
				pm.file.Presets[name] = preset
			}
		}
	}

	if pm.file.Presets == nil {
		pm.file.Presets = make(map[string]Preset)
	}
	if pm.file.Version == 0 {
		pm.file.Version = 1
	}

	return nil
}

// Save writes the presets file, creating its directory if needed.
func (pm *PresetManager) Save() error {
	dir := filepath.Dir(pm.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	data, err := toml.Marshal(pm.file)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.WriteFile(pm.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}

	return nil
}

// Set stores a preset under its name, preserving the original creation
// time when the name already exists.
func (pm *PresetManager) Set(name string, in session.Input) error {
	if name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}

	now := time.Now()
	preset := Preset{
		Name:      name,
		Input:     in,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, ok := pm.file.Presets[name]; ok {
		preset.CreatedAt = existing.CreatedAt
	}

	pm.file.Presets[name] = preset
	return pm.Save()
}

// Get retrieves a preset by name.
func (pm *PresetManager) Get(name string) (Preset, bool) {
	preset, ok := pm.file.Presets[name]
	return preset, ok
}

// Remove deletes a preset by name.
func (pm *PresetManager) Remove(name string) error {
	if _, ok := pm.file.Presets[name]; !ok {
		return fmt.Errorf("preset %s not found", name)
	}

	delete(pm.file.Presets, name)
	return pm.Save()
}

// All returns every stored preset.
func (pm *PresetManager) All() map[string]Preset {
	return pm.file.Presets
}
