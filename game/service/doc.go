// Package service provides the business logic layer for the gridbots
// puzzle game.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Program installation and execution (step, run, reset)
//   - Level loading and listing
//   - Asynchronous solver jobs with live progress
//   - Completed-level progress tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. LevelManager manages level loading and validation.
// ProgressStore records which levels the player has beaten.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the simulation packages, providing session isolation and
// orchestration. Each session holds its own runner: a simulation state plus
// one VM per robot executing the shared program.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr, nil, nil)
//
//	// Create a session and install a program
//	info, err := gameService.CreateSession(ctx, "corridor")
//	if err != nil {
//		log.Fatal(err)
//	}
//	info, err = gameService.SetProgram(ctx, info.ID, prog)
//
//	// Run it
//	result, err := gameService.Run(ctx, info.ID, 0)
//
// Solver Jobs:
//
// SolveLevel starts a beam search in the background and returns a job ID.
// SolverStatus polls the job; CancelSolver stops it cooperatively. A
// SolverProgressFunc can be supplied at construction to stream progress to
// connected clients.
package service
