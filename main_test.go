package main

import (
	"os"
	"testing"

	"github.com/wricardo/gridbots/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedAppName := "Gridbots Puzzle Game Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalLevelsDir := *levelsDir
	originalDataDir := *dataDir
	*levelsDir = "levels"
	*dataDir = t.TempDir()
	defer func() {
		*levelsDir = originalLevelsDir
		*dataDir = originalDataDir
	}()

	if _, err := os.Stat("levels"); os.IsNotExist(err) {
		t.Skip("Skipping test - levels directory not found")
	}

	hub := websocket.NewHub()
	go hub.Run()

	gameService, err := initializeServices(hub)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidLevelsDir(t *testing.T) {
	originalLevelsDir := *levelsDir
	originalDataDir := *dataDir
	*levelsDir = "/non/existent/path"
	*dataDir = t.TempDir()
	defer func() {
		*levelsDir = originalLevelsDir
		*dataDir = originalDataDir
	}()

	hub := websocket.NewHub()
	go hub.Run()

	_, err := initializeServices(hub)
	if err == nil {
		t.Error("Expected error for non-existent levels directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	// Test that flags have reasonable defaults
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *levelsDir == "" {
		t.Error("Levels directory should have a default value")
	}

	if *dataDir == "" {
		t.Error("Data directory should have a default value")
	}
}

// Note: We can't easily test main(), runHTTPServer(), and runStdioMCPWithInternalServer()
// without significant mocking or refactoring, as they start servers and block.
// These functions would be better tested in integration tests that start actual servers
// and test their endpoints.

func TestServiceInitialization(t *testing.T) {
	originalLevelsDir := *levelsDir
	originalDataDir := *dataDir
	*levelsDir = "levels"
	*dataDir = t.TempDir()
	defer func() {
		*levelsDir = originalLevelsDir
		*dataDir = originalDataDir
	}()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Service initialization panicked: %v", r)
		}
	}()

	if _, err := os.Stat("levels"); os.IsNotExist(err) {
		t.Skip("Skipping test - levels directory not found")
	}

	hub := websocket.NewHub()
	go hub.Run()

	_, err := initializeServices(hub)
	if err != nil {
		// This is expected if levels are missing, but shouldn't panic
		t.Logf("Service initialization failed as expected: %v", err)
	}
}
