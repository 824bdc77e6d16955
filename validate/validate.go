// Command validate provides a small CLI that validates level JSON files in
// the ../levels directory. It checks:
//   - JSON structure and required fields
//   - Grid consistency and allowed characters (. # G X P D W R J)
//   - Spawner pose, exits, and win-condition sanity
//   - Reachability: at least one exit is reachable from the spawner via
//     passable cells (doors count as passable since a plate can open them,
//     water counts when the level has a raft)
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/gridbots/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateLevel loads and validates a single level JSON file. Structural
// checks are delegated to the engine's validator; on top of that it runs a
// reachability analysis from the spawner to the exits.
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	level, err := engine.LoadLevelConfig(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	reachability := validateReachability(level)
	if !reachability.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, reachability.Errors...)

	// Add informational data
	if result.Valid {
		state := engine.InitSimStateFromConfig(level)
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", level.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", state.Width, state.Height))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Robots: %d (interval %d)", level.Spawner.Count, level.Spawner.IntervalTicks))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Exits: %d", len(state.Exits)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Win: save %d within %d ticks", state.RequiredSaved, state.MaxSteps))
		if len(state.Rafts) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Rafts: %d, jetties: %d", len(state.Rafts), len(state.Jetties)))
		}
	}

	return result
}

// validateReachability ensures at least one exit is reachable from the
// spawner using 4-directional movement over passable cells. Doors are
// treated as passable because a pressure plate can open them; water is
// passable only when the level carries a raft to ferry robots across.
func validateReachability(level *engine.LevelConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	state := engine.InitSimStateFromConfig(level)
	hasRaft := len(state.Rafts) > 0

	isPassable := func(p engine.Position) bool {
		if !state.InBounds(p) {
			return false
		}
		switch state.TileAt(p) {
		case engine.Empty, engine.Goal, engine.Plate, engine.Door, engine.Jetty, engine.Raft:
			return true
		case engine.Water:
			return hasRaft
		}
		return false
	}

	// Flood fill from the spawner entry cell
	visited := make(map[engine.Position]bool)
	queue := []engine.Position{state.Spawner.Pos}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		neighbors := []engine.Position{
			{X: current.X - 1, Y: current.Y},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y - 1},
			{X: current.X, Y: current.Y + 1},
		}
		for _, n := range neighbors {
			if !visited[n] && isPassable(n) {
				queue = append(queue, n)
			}
		}
	}

	reachable := 0
	for _, exit := range state.Exits {
		if visited[exit] {
			reachable++
		}
	}

	if reachable == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Reachability failure: none of the %d exits can be reached from the spawner at (%d,%d)",
			len(state.Exits), state.Spawner.Pos.X, state.Spawner.Pos.Y))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: %d/%d exits reachable from the spawner", reachable, len(state.Exits)))
	}

	return result
}

// main scans ../levels for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	levelsDir := "../levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelsDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
