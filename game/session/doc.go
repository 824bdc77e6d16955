// Package session provides session management for the gridbots puzzle
// game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - File-based persistence and replay-based restore
//   - Completed-level progress storage
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores sessions as JSON files; because the simulation is
// deterministic, only the level ID, the program, and the elapsed tick count
// are stored, and loading replays the run to reproduce the exact state.
// FileProgressStore keeps the player's completed-level records.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated with
// cryptographic randomness.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", "corridor", level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve an existing session
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// CleanupExpiredSessions removes stale sessions and frees resources.
package session
