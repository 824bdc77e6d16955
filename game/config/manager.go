package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level loading and caching
type Manager struct {
	levelsDir    string
	defaultLevel *engine.LevelConfig
	defaultID    string
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelsDir string) (*Manager, error) {
	// Ensure levels directory exists
	if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
	}

	m := &Manager{
		levelsDir: levelsDir,
		levels:    make(map[string]*engine.LevelConfig),
	}

	// Load default level
	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by name
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	m.mu.RLock()
	// Check cache first
	if level, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[name]; exists {
		return level, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelsDir, filename)

	data, err := os.ReadFile(levelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	if err := engine.ValidateLevelConfig(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	// Cache the level
	m.levels[name] = &level
	return &level, nil
}

// ListLevels returns information about all available levels
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var levels []*service.LevelInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for level name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the level to get details
		level, err := m.LoadLevel(name)
		if err != nil {
			// Skip invalid levels
			continue
		}

		maxTicks := level.MaxTicks
		if maxTicks <= 0 {
			maxTicks = engine.DefaultMaxTicks
		}
		required := level.RequiredSaved
		if required <= 0 {
			required = engine.DefaultRequiredSaved
		}

		levels = append(levels, &service.LevelInfo{
			Filename:      entry.Name(),
			LevelID:       name, // This is the identifier to use for session creation
			Name:          level.Name,
			Description:   level.Description,
			Width:         len(level.Layout[0]),
			Height:        len(level.Layout),
			RobotCount:    level.Spawner.Count,
			RequiredSaved: required,
			MaxTicks:      maxTicks,
		})
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// DefaultID returns the identifier of the default level
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	m.defaultID = name
	return nil
}

// RefreshCache reloads all cached levels from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel loads the default level, preferring classic.json.
func (m *Manager) loadDefaultLevel() error {
	level, err := m.LoadLevel("classic")
	if err == nil {
		m.mu.Lock()
		m.defaultLevel = level
		m.defaultID = "classic"
		m.mu.Unlock()
		return nil
	}

	// Fall back to the first available level
	levels, listErr := m.ListLevels()
	if listErr == nil && len(levels) > 0 {
		level, err = m.LoadLevel(levels[0].LevelID)
		if err == nil {
			m.mu.Lock()
			m.defaultLevel = level
			m.defaultID = levels[0].LevelID
			m.mu.Unlock()
			return nil
		}
	}

	// Last resort: a built-in minimal level
	m.mu.Lock()
	m.defaultLevel = m.createMinimalLevel()
	m.defaultID = "default"
	m.mu.Unlock()
	return nil
}

// SaveLevel saves a level to disk
func (m *Manager) SaveLevel(name string, level *engine.LevelConfig) error {
	// Validate level before saving
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelsDir, filename)

	// Marshal level to JSON with indentation
	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.levels[name] = level
	m.mu.Unlock()

	return nil
}

// createMinimalLevel creates a minimal valid level
func (m *Manager) createMinimalLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "default",
		Description: "Default minimal level",
		Layout: []string{
			"#####",
			"#..G#",
			"#####",
		},
		Spawner: engine.SpawnerConfig{X: 1, Y: 1, Direction: engine.East, Count: 1},
	}
}
