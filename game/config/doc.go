// Package config provides level management for the gridbots puzzle game.
//
// The config package handles:
//   - Loading levels from JSON files
//   - Level validation and verification
//   - Default level management
//   - Level discovery and listing
//
// Level Format:
//
// Levels are stored as JSON files in the levels directory. Each level
// defines:
//   - Grid layout using character mapping (#=wall, G=goal, P=plate, etc.)
//   - Spawner placement, contingent size, and spawn interval
//   - Win quota (required_saved) and tick budget (max_ticks)
//
// Available Levels:
//
// The package ships multiple difficulty tiers:
//   - classic: introductory open room with a single robot
//   - corridor: straight-line walk to the exit
//   - pressure_door: plate-and-door puzzle for a robot convoy
//   - raft_crossing: water crossing on a ferrying raft
//   - hazard_field: routing around lethal tiles under a tick budget
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	level, err := manager.LoadLevel("corridor")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get the default level
//	defaultLevel := manager.GetDefault()
//
//	// List available levels
//	levels, err := manager.ListLevels()
//
// Validation:
//
// All levels are validated for:
//   - Rectangular layout within the size bounds
//   - Known tile characters and legend mappings
//   - Spawner placement on an enterable tile
//   - At least one exit, and a plate for every door
package config
