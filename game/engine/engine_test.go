package engine

import (
	"testing"
)

// openFieldState builds a bare state for tick tests: an all-empty grid with
// robots placed directly, no spawner debt, and no exits unless set.
func openFieldState(width, height int, robots ...*Robot) *SimState {
	grid := make([][]TileType, height)
	for y := range grid {
		grid[y] = make([]TileType, width)
		for x := range grid[y] {
			grid[y][x] = Empty
		}
	}
	return &SimState{
		Grid:          grid,
		Width:         width,
		Height:        height,
		Robots:        robots,
		Spawner:       Spawner{Count: len(robots), IntervalTicks: 1},
		Status:        StatusRunning,
		MaxSteps:      100,
		RequiredSaved: 1,
		SpawnedCount:  len(robots),
	}
}

func TestTileAt_OutOfBoundsReadsAsWall(t *testing.T) {
	state := openFieldState(3, 3)

	for _, p := range []Position{{X: -1, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 3}} {
		if got := state.TileAt(p); got != Wall {
			t.Errorf("TileAt(%v) = %s, want wall", p, got)
		}
	}
	if got := state.TileAt(Position{X: 1, Y: 1}); got != Empty {
		t.Errorf("TileAt(1,1) = %s, want empty", got)
	}
}

func TestCanEnter_DoorFollowsLatch(t *testing.T) {
	state := openFieldState(3, 3)
	state.Grid[1][1] = Door

	door := Position{X: 1, Y: 1}
	if state.CanEnter(door) {
		t.Error("closed door should not be enterable")
	}
	state.DoorUnlocked = true
	if !state.CanEnter(door) {
		t.Error("unlocked door should be enterable")
	}
}

func TestCanEnter_WaterIsEnterable(t *testing.T) {
	state := openFieldState(3, 3)
	state.Grid[1][1] = Water
	if !state.CanEnter(Position{X: 1, Y: 1}) {
		t.Error("water is enterable; lethality is resolved after the move")
	}
}

func TestSpawnRobot_AssignsIDsInSpawnOrder(t *testing.T) {
	state := openFieldState(3, 3)
	state.Spawner = Spawner{Pos: Position{X: 1, Y: 1}, Dir: East, Count: 2, IntervalTicks: 1}
	state.SpawnedCount = 0
	state.Robots = nil

	first := state.spawnRobot()
	second := state.spawnRobot()

	if first.ID != 0 || second.ID != 1 {
		t.Errorf("expected ids 0,1 in spawn order, got %d,%d", first.ID, second.ID)
	}
	if first.Dir != East {
		t.Errorf("spawned robot should face the spawner direction, got %s", first.Dir)
	}
	if state.SpawnedCount != 2 {
		t.Errorf("spawned count should be 2, got %d", state.SpawnedCount)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	state := openFieldState(4, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][2] = Plate
	state.Rafts = []*RaftState{{
		Pos:         Position{X: 2, Y: 2},
		Route:       []Position{{X: 2, Y: 2}, {X: 3, Y: 2}},
		ReturnIndex: -1,
	}}

	snapshot := state.Clone()

	state.Tick(map[int]Action{0: ActionAdvance})
	state.Grid[1][1] = Wall
	state.Rafts[0].DockIndex = 1

	if snapshot.Robots[0].Pos != (Position{X: 1, Y: 1}) {
		t.Error("clone's robot moved with the original")
	}
	if snapshot.Grid[1][1] != Empty {
		t.Error("clone's grid shares storage with the original")
	}
	if snapshot.Rafts[0].DockIndex != 0 {
		t.Error("clone's raft state shares storage with the original")
	}
	if snapshot.StepCount != 0 {
		t.Error("clone's step count advanced with the original")
	}
}

func TestSavedAndActiveCounts(t *testing.T) {
	state := openFieldState(4, 3,
		&Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Alive: true},
		&Robot{ID: 1, Pos: Position{X: 2, Y: 1}, Alive: true, ReachedGoal: true},
		&Robot{ID: 2, Pos: Position{X: 3, Y: 1}, Alive: false},
	)

	if got := state.SavedCount(); got != 1 {
		t.Errorf("SavedCount = %d, want 1", got)
	}
	if got := state.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}
}
