// Package mcp provides a Model Context Protocol interface for the gridbots
// puzzle game.
//
// The mcp package implements a thin client that proxies all requests to the
// REST API server. It exposes the game to MCP-capable agents as a set of
// tools:
//
// Session tools:
//   - create_session - Create a new game session for a level
//   - get_session - Session details with the rendered grid
//   - list_sessions - List all active sessions
//
// Execution tools:
//   - set_program - Install a block program (resets the simulation)
//   - step - Advance exactly one tick
//   - run_program - Run the program to completion
//   - reset_session - Rewind to the initial state
//
// Level tools:
//   - list_levels - List available levels
//   - describe_level - Layout, spawner, exits, and win condition
//
// Solver tools:
//   - solve_level - Start a background beam-search job
//   - solver_status - Poll a job for its best program and score
//   - cancel_solver - Cancel a running job
//
// Reference tools:
//   - list_progress - Completed-level records
//   - program_reference - The block program language reference
//
// Architecture:
//
// The client holds no game state of its own. Every tool call becomes an HTTP
// request against the REST API, and the JSON response is rendered into a
// text form suitable for a language model: the grid as ASCII art with robots
// overlaid as their facing letter, plus per-robot status lines.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
