// Package websocket provides WebSocket transport for the gridbots puzzle
// game.
//
// The websocket package implements:
//   - Real-time push of simulation state after each step or run
//   - Live solver progress streaming
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Clients subscribe to a channel: a session ID for
// state updates, or a solver job ID for search progress. Each connection
// is handled by dedicated read and write goroutines.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - State update: {channel: "ab12", event: "state_update", sim_state: {...}}
//   - Solver progress: {channel: "<job-id>", event: "solver_progress", progress: {...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a step
//	hub.BroadcastToSession(sessionID, state)
//
//	// from a solver progress callback
//	hub.BroadcastSolverProgress(jobID, progress)
//
// Concurrency:
//
// All broadcasts flow through the hub's event loop, so connection
// registration and message fan-out never race. Slow clients are dropped
// rather than allowed to block the loop.
package websocket
