// Command analyze prints quick, human-readable heuristics about level files
// in the project's levels directory. It summarizes dimensions, spawn and win
// settings, tile counts, and highlights levels whose tick budget cannot
// possibly cover the walk from the spawner to the nearest exit.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/gridbots/game/engine"
)

func main() {
	levelsDir := "levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelsDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelsDir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeLevel(file)
	}
}

func analyzeLevel(path string) {
	level, err := engine.LoadLevelConfig(path)
	if err != nil {
		fmt.Printf("Error loading level: %v\n", err)
		return
	}

	state := engine.InitSimStateFromConfig(level)

	fmt.Printf("Name: %s\n", level.Name)
	fmt.Printf("Grid Size: %d x %d\n", state.Width, state.Height)
	fmt.Printf("Spawner: (%d, %d) facing %s, %d robot(s), interval %d\n",
		state.Spawner.Pos.X, state.Spawner.Pos.Y, state.Spawner.Dir,
		state.Spawner.Count, state.Spawner.IntervalTicks)
	fmt.Printf("Win Condition: save %d within %d ticks\n", state.RequiredSaved, state.MaxSteps)
	fmt.Printf("Exits: %d\n", len(state.Exits))

	// Tile histogram
	walls := engine.CountTileType(state.Grid, engine.Wall)
	hazards := engine.CountTileType(state.Grid, engine.Hazard)
	water := engine.CountTileType(state.Grid, engine.Water)
	plates := engine.CountTileType(state.Grid, engine.Plate)
	doors := engine.CountTileType(state.Grid, engine.Door)
	fmt.Printf("Tiles: %d walls, %d hazards, %d water", walls, hazards, water)
	if plates > 0 || doors > 0 {
		fmt.Printf(", %d plates, %d doors", plates, doors)
	}
	if len(state.Rafts) > 0 {
		fmt.Printf(", %d rafts, %d jetties", len(state.Rafts), len(state.Jetties))
	}
	fmt.Println()

	// Tick budget heuristics. Walking the Manhattan distance is the absolute
	// floor; real paths around walls are longer, so a budget near the floor
	// is a red flag even if technically winnable.
	walkDist := state.DistanceToNearestExit(state.Spawner.Pos)
	fmt.Printf("Spawner to nearest exit: %d cells (Manhattan)\n", walkDist)

	// The last robot spawns at this tick and still has to make the walk.
	lastSpawnTick := 0
	if state.Spawner.IntervalTicks > 0 {
		lastSpawnTick = (state.Spawner.Count - 1) * state.Spawner.IntervalTicks
	}

	floor := lastSpawnTick + walkDist
	switch {
	case walkDist >= engine.UnreachableDistance:
		fmt.Println("⚠️  CRITICAL: level has no exits")
	case floor > state.MaxSteps:
		fmt.Printf("⚠️  CRITICAL: tick budget %d is below the floor of %d (last spawn at tick %d + %d cell walk)\n",
			state.MaxSteps, floor, lastSpawnTick, walkDist)
	case floor*2 > state.MaxSteps:
		fmt.Printf("⚠️  WARNING: tick budget %d is tight (floor is %d before any turning or queueing)\n",
			state.MaxSteps, floor)
	default:
		fmt.Printf("✅ Tick budget %d leaves headroom over the floor of %d\n", state.MaxSteps, floor)
	}

	// Device sanity beyond what the validator enforces
	if plates > 0 && doors == 0 {
		fmt.Println("ℹ️  Level has pressure plates but no doors; plates only matter for on_plate programs")
	}
	if water > 0 && len(state.Rafts) == 0 {
		fmt.Println("⚠️  WARNING: open water with no raft is a pure death trap")
	}
	if len(state.Rafts) > 0 && len(state.Jetties) == 0 {
		fmt.Println("⚠️  WARNING: raft has no jetty to ferry to; it will never move")
	}
}
