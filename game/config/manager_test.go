package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/gridbots/game/engine"
)

func createTestLevelsDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "levels-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir
}

func createValidLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "Test Level",
		Description: "Test level",
		Layout: []string{
			"#######",
			"#.....#",
			"#.###.#",
			"#....G#",
			"#######",
		},
		Spawner:  engine.SpawnerConfig{X: 1, Y: 1, Direction: engine.East, Count: 1},
		MaxTicks: 60,
	}
}

func writeLevelFile(t *testing.T, dir, name string, level *engine.LevelConfig) {
	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(dir, filename)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestLevelsDir(t)
		defer os.RemoveAll(dir)

		classic := createValidLevel()
		classic.Name = "Classic"
		writeLevelFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to minimal level", func(t *testing.T) {
		dir := createTestLevelsDir(t)
		defer os.RemoveAll(dir)

		manager, err := NewManager(dir)
		if err != nil {
			t.Errorf("NewManager should succeed even without level files, got error: %v", err)
		}

		if manager == nil {
			t.Fatal("Expected manager to be created")
		}

		defaultLevel := manager.GetDefault()
		if defaultLevel == nil {
			t.Fatal("Expected default level to be available")
		}
		if err := engine.ValidateLevelConfig(defaultLevel); err != nil {
			t.Errorf("Built-in default level must validate: %v", err)
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	classic := createValidLevel()
	classic.Name = "Classic"
	writeLevelFile(t, dir, "classic", classic)

	easy := createValidLevel()
	easy.Name = "Easy"
	easy.MaxTicks = 120
	writeLevelFile(t, dir, "easy", easy)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing level", func(t *testing.T) {
		level, err := manager.LoadLevel("easy")
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if level.Name != "Easy" {
			t.Errorf("Expected level name 'Easy', got '%s'", level.Name)
		}
		if level.MaxTicks != 120 {
			t.Errorf("Expected max ticks 120, got %d", level.MaxTicks)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		level, err := manager.LoadLevel("easy.json")
		if err != nil {
			t.Fatalf("Failed to load level with extension: %v", err)
		}
		if level.Name != "Easy" {
			t.Errorf("Expected level name 'Easy', got '%s'", level.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		level1, _ := manager.LoadLevel("easy")

		level2, err := manager.LoadLevel("easy")
		if err != nil {
			t.Fatalf("Failed to load level from cache: %v", err)
		}

		// Should be the same pointer (cached)
		if level1 != level2 {
			t.Error("Expected level to be loaded from cache")
		}
	})

	t.Run("load non-existent level", func(t *testing.T) {
		_, err := manager.LoadLevel("non-existent")
		if err != ErrLevelNotFound {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("load invalid level", func(t *testing.T) {
		// No layout, no spawner
		invalidData := []byte(`{"name": "Broken"}`)
		err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644)
		if err != nil {
			t.Fatalf("Failed to write invalid level: %v", err)
		}

		_, err = manager.LoadLevel("invalid")
		if err == nil {
			t.Error("Expected error for invalid level")
		}
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644)
		if err != nil {
			t.Fatalf("Failed to write malformed level: %v", err)
		}

		_, err = manager.LoadLevel("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	classic := createValidLevel()
	classic.Name = "Classic Level"
	writeLevelFile(t, dir, "classic", classic)

	other := createValidLevel()
	other.Name = "Other"
	writeLevelFile(t, dir, "aaa_other", other)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// classic.json wins over alphabetically earlier files
	level := manager.GetDefault()
	if level == nil {
		t.Fatal("Expected default level to be non-nil")
	}
	if level.Name != "Classic Level" {
		t.Errorf("Expected default level name 'Classic Level', got '%s'", level.Name)
	}
	if manager.DefaultID() != "classic" {
		t.Errorf("Expected default ID 'classic', got '%s'", manager.DefaultID())
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	classic := createValidLevel()
	classic.Name = "Classic"
	writeLevelFile(t, dir, "classic", classic)

	hard := createValidLevel()
	hard.Name = "Hard"
	writeLevelFile(t, dir, "hard", hard)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("hard"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.GetDefault().Name != "Hard" {
		t.Errorf("Expected default 'Hard', got '%s'", manager.GetDefault().Name)
	}
	if manager.DefaultID() != "hard" {
		t.Errorf("Expected default ID 'hard', got '%s'", manager.DefaultID())
	}

	if err := manager.SetDefault("missing"); err == nil {
		t.Error("Expected error when setting a missing level as default")
	}
}

func TestManager_ListLevels(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	levels := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"easy", "Easy"},
		{"medium", "Medium"},
		{"hard", "Hard"},
	}

	for _, lvl := range levels {
		level := createValidLevel()
		level.Name = lvl.name
		writeLevelFile(t, dir, lvl.filename, level)
	}

	// Also add a non-JSON file that should be ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	levelList, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}
	if len(levelList) != 4 {
		t.Errorf("Expected 4 levels, got %d", len(levelList))
	}

	foundLevels := make(map[string]bool)
	for _, info := range levelList {
		foundLevels[info.Name] = true

		if info.LevelID == "" {
			t.Errorf("Level '%s' has empty level ID", info.Name)
		}
		if info.Width != 7 || info.Height != 5 {
			t.Errorf("Level '%s': expected 7x5, got %dx%d", info.Name, info.Width, info.Height)
		}
		if info.RobotCount != 1 {
			t.Errorf("Level '%s': expected 1 robot, got %d", info.Name, info.RobotCount)
		}
		if info.RequiredSaved != engine.DefaultRequiredSaved {
			t.Errorf("Level '%s': expected required saved default, got %d", info.Name, info.RequiredSaved)
		}
		if info.MaxTicks != 60 {
			t.Errorf("Level '%s': expected max ticks 60, got %d", info.Name, info.MaxTicks)
		}
	}

	for _, lvl := range levels {
		if !foundLevels[lvl.name] {
			t.Errorf("Level '%s' not found in list", lvl.name)
		}
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	level := createValidLevel()
	level.Name = "Changeable"
	level.MaxTicks = 60
	writeLevelFile(t, dir, "classic", level)
	writeLevelFile(t, dir, "changeable", level)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadLevel("changeable")
	if loaded.MaxTicks != 60 {
		t.Errorf("Expected initial max ticks 60, got %d", loaded.MaxTicks)
	}

	// Modify level file and refresh
	level.MaxTicks = 120
	writeLevelFile(t, dir, "changeable", level)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}

	reloaded, _ := manager.LoadLevel("changeable")
	if reloaded.MaxTicks != 120 {
		t.Errorf("Expected reloaded max ticks 120, got %d", reloaded.MaxTicks)
	}
}

func TestManager_SaveLevel(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	classic := createValidLevel()
	writeLevelFile(t, dir, "classic", classic)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save valid level", func(t *testing.T) {
		level := createValidLevel()
		level.Name = "Authored"
		if err := manager.SaveLevel("authored", level); err != nil {
			t.Fatalf("Failed to save level: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "authored.json")); err != nil {
			t.Errorf("Expected level file on disk: %v", err)
		}

		loaded, err := manager.LoadLevel("authored")
		if err != nil {
			t.Fatalf("Failed to load saved level: %v", err)
		}
		if loaded.Name != "Authored" {
			t.Errorf("Expected name 'Authored', got '%s'", loaded.Name)
		}
	})

	t.Run("reject invalid level", func(t *testing.T) {
		level := createValidLevel()
		level.Layout = nil
		err := manager.SaveLevel("broken", level)
		if err == nil {
			t.Error("Expected error when saving invalid level")
		}
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	classic := createValidLevel()
	writeLevelFile(t, dir, "classic", classic)

	for i := 1; i <= 5; i++ {
		level := createValidLevel()
		level.Name = "Level" + string(rune('0'+i))
		writeLevelFile(t, dir, "level"+string(rune('0'+i)), level)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := "level" + string(rune('0'+((id%5)+1)))
			_, err := manager.LoadLevel(name)
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 levels in cache, got %d", manager.Count())
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := createTestLevelsDir(t)
	defer os.RemoveAll(dir)

	classic := createValidLevel()
	writeLevelFile(t, dir, "classic", classic)

	testLevel := createValidLevel()
	testLevel.Name = "Test"
	writeLevelFile(t, dir, "test", testLevel)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	for i := 0; i < 10; i++ {
		level, err := manager.LoadLevel("test")
		if err != nil {
			t.Fatalf("Failed to load level on iteration %d: %v", i, err)
		}
		if level.Name != "Test" {
			t.Errorf("Unexpected level name on iteration %d", i)
		}
	}

	// Both "classic" (the default) and "test" are cached
	if manager.Count() != 2 {
		t.Errorf("Expected 2 levels in cache, got %d", manager.Count())
	}
}

// Count is a test-only helper exposing the cache size.

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.levels)
}
