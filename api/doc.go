// Package api provides HTTP REST API handlers for the gridbots puzzle
// game.
//
// The api package implements:
//   - RESTful endpoints for sessions, programs, and execution
//   - Level listing, retrieval, and creation
//   - Asynchronous solver job control
//   - Player progress listing
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (body: {"level_id": "corridor"})
//   - GET /api/sessions - List all sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Program and Execution:
//   - GET /api/sessions/{id}/state - Current simulation state
//   - PUT /api/sessions/{id}/program - Install a program (body: {"program": [...]})
//   - POST /api/sessions/{id}/step - Advance exactly one tick
//   - POST /api/sessions/{id}/run - Run to completion (body: {"max_ticks": 100})
//   - POST /api/sessions/{id}/reset - Rewind to the initial state
//
// Levels:
//   - GET /api/levels - List available levels
//   - GET /api/levels/{name} - Get a level definition
//   - POST /api/levels - Save a new level
//
// Solver:
//   - POST /api/solve - Start a solver job (body: {"level_id": "...", "search": {...}})
//   - GET /api/solve/{id} - Poll job status
//   - DELETE /api/solve/{id} - Cancel a job
//
// Progress:
//   - GET /api/progress - Completed-level records
//
// WebSocket:
//   - GET /ws?session={id} - Stream state updates for a session
//   - GET /ws?job={id} - Stream solver progress for a job
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
