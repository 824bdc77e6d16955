// Package engine provides the deterministic multi-agent simulation at the
// core of GridBots.
//
// The engine package implements the world and tick mechanics including:
//   - The rectangular tile grid (walls, goals, hazards, plates, doors,
//     water, rafts, jetties) and pure tile queries
//   - Robot spawning, grid movement with live-updating occupancy, and
//     deterministic queueing in robot-array order
//   - Pressure plate / door latch devices and raft ferrying
//   - Win/lose resolution against a saved-robot quota and a tick budget
//   - Level configuration loading and validation
//
// Core Types:
//
// SimState is the authoritative simulation state advanced one step at a time
// by Tick. LevelConfig defines a level's layout and rules loaded from JSON
// files. Robot, Spawner, and RaftState are the entity states threaded
// through every tick.
//
// Usage:
//
//	level, err := engine.LoadLevelConfig("levels/corridor.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state := engine.InitSimStateFromConfig(level)
//	for state.Status == engine.StatusRunning {
//		state.Tick(map[int]engine.Action{0: engine.ActionAdvance})
//	}
//
// Determinism:
//
// Tick is a strictly synchronous step function with no hidden state. Given
// identical initial state and identical per-tick action inputs it reproduces
// identical state sequences forever; replay correctness depends on it.
// Blocked or illegal moves are silently absorbed, never errors.
package engine
