package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/eval"
	"github.com/wricardo/gridbots/game/program"
	"github.com/wricardo/gridbots/game/service"
)

// stubLevelManager serves a single fixed level under the ID "test".
type stubLevelManager struct {
	level *engine.LevelConfig
}

func (s *stubLevelManager) LoadLevel(name string) (*engine.LevelConfig, error) {
	if name != "test" {
		return nil, fmt.Errorf("level not found: %s", name)
	}
	return s.level, nil
}

func (s *stubLevelManager) ListLevels() ([]*service.LevelInfo, error) { return nil, nil }
func (s *stubLevelManager) GetDefault() *engine.LevelConfig           { return s.level }
func (s *stubLevelManager) DefaultID() string                         { return "test" }
func (s *stubLevelManager) SaveLevel(name string, level *engine.LevelConfig) error {
	return nil
}

func newTestPersistence(t *testing.T) (*FilePersistence, *engine.LevelConfig, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "session_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	level := createTestLevel()
	persistence, err := NewFilePersistence(tempDir, &stubLevelManager{level: level})
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	return persistence, level, tempDir
}

func TestFilePersistence(t *testing.T) {
	persistence, level, _ := newTestPersistence(t)

	session := &service.Session{
		ID:             "test1",
		LevelID:        "test",
		Level:          level,
		Runner:         eval.NewRunner(level, nil, 0),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	t.Run("Save and Load Session", func(t *testing.T) {
		err := persistence.Save(session)
		if err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loadedSession, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		if loadedSession.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loadedSession.ID)
		}
		if loadedSession.LevelID != "test" {
			t.Errorf("Expected level ID 'test', got %s", loadedSession.LevelID)
		}
		if loadedSession.Runner.State.StepCount != 0 {
			t.Errorf("Fresh session should replay to tick 0, got %d", loadedSession.Runner.State.StepCount)
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		// Install a program and advance a couple of ticks
		prog := program.FromActions([]engine.Action{engine.ActionAdvance, engine.ActionAdvance})
		session.Program = prog
		session.Runner.SetProgram(prog)
		session.Runner.Tick()
		session.Runner.Tick()

		err := persistence.Save(session)
		if err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		// Loading replays the run on a fresh simulation
		loadedSession, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}

		if loadedSession.Runner.State.StepCount != session.Runner.State.StepCount {
			t.Errorf("Tick count not persisted: expected %d, got %d",
				session.Runner.State.StepCount, loadedSession.Runner.State.StepCount)
		}

		if len(loadedSession.Runner.State.Robots) != len(session.Runner.State.Robots) {
			t.Fatalf("Robot count differs after replay")
		}
		for i, r := range session.Runner.State.Robots {
			if loadedSession.Runner.State.Robots[i].Pos != r.Pos {
				t.Errorf("Robot %d position not reproduced: expected %v, got %v",
					i, r.Pos, loadedSession.Runner.State.Robots[i].Pos)
			}
		}

		if loadedSession.Program == nil {
			t.Error("Program should be persisted with the session")
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		session2 := &service.Session{
			ID:             "test2",
			LevelID:        "test",
			Level:          level,
			Runner:         eval.NewRunner(level, nil, 0),
			CreatedAt:      time.Now(),
			LastAccessedAt: time.Now(),
		}
		err := persistence.Save(session2)
		if err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}

		if len(sessionIDs) < 2 {
			t.Errorf("Expected at least 2 sessions, got %d", len(sessionIDs))
		}

		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if !found["test1"] || !found["test2"] {
			t.Error("Expected sessions not found in list")
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		err := persistence.Delete("test2")
		if err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}

		_, err = persistence.Load("test2")
		if err == nil {
			t.Error("Should not be able to load deleted session")
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		_, err := persistence.Load("nonexistent")
		if err == nil {
			t.Error("Should get error when loading non-existent session")
		}

		err = persistence.Delete("nonexistent")
		if err == nil {
			t.Error("Should get error when deleting non-existent session")
		}

		err = persistence.Save(nil)
		if err == nil {
			t.Error("Should get error when saving nil session")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	persistence, level, tempDir := newTestPersistence(t)

	session := &service.Session{
		ID:             "file_test",
		LevelID:        "test",
		Level:          level,
		Runner:         eval.NewRunner(level, nil, 0),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	err := persistence.Save(session)
	if err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// Check file exists in correct location
	expectedFile := filepath.Join(tempDir, "file_test.json")
	if _, err := os.Stat(expectedFile); os.IsNotExist(err) {
		t.Errorf("Expected file %s does not exist", expectedFile)
	}

	// Check file contains valid JSON
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	if len(data) == 0 {
		t.Error("Session file should not be empty")
	}

	// Check it contains expected fields (basic validation)
	content := string(data)
	expectedFields := []string{"\"id\"", "\"level_id\"", "\"created_at\"", "\"ticks_elapsed\""}
	for _, field := range expectedFields {
		if !containsString(content, field) {
			t.Errorf("Session file should contain field %s", field)
		}
	}
}

func containsString(str, substr string) bool {
	return strings.Contains(str, substr)
}
