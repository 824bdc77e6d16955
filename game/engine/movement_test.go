package engine

import (
	"encoding/json"
	"testing"
)

func TestTick_AdvanceMovesRobot(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})

	state.Tick(map[int]Action{0: ActionAdvance})

	if state.Robots[0].Pos != (Position{X: 2, Y: 1}) {
		t.Errorf("robot should advance to (2,1), got %v", state.Robots[0].Pos)
	}
	if state.StepCount != 1 {
		t.Errorf("step count should be 1, got %d", state.StepCount)
	}
}

func TestTick_WallAbsorbsAdvance(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][2] = Wall

	state.Tick(map[int]Action{0: ActionAdvance})

	if state.Robots[0].Pos != (Position{X: 1, Y: 1}) {
		t.Errorf("blocked advance must leave the robot in place, got %v", state.Robots[0].Pos)
	}
	if state.Status != StatusRunning {
		t.Errorf("blocked advance is not an error, status = %s", state.Status)
	}
}

func TestTick_ConvoyMovesInOneTick(t *testing.T) {
	// Leader at x=2, follower at x=1, both facing east. The leader vacates
	// its cell before the follower resolves, so the whole convoy moves.
	state := openFieldState(6, 3,
		&Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true},
		&Robot{ID: 1, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true},
	)

	state.Tick(map[int]Action{0: ActionAdvance, 1: ActionAdvance})

	if state.Robots[0].Pos.X != 3 {
		t.Errorf("leader should be at x=3, got %d", state.Robots[0].Pos.X)
	}
	if state.Robots[1].Pos.X != 2 {
		t.Errorf("follower should be at x=2, got %d", state.Robots[1].Pos.X)
	}
}

func TestTick_FollowerBlockedByWaitingLeader(t *testing.T) {
	state := openFieldState(6, 3,
		&Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true},
		&Robot{ID: 1, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true},
	)

	state.Tick(map[int]Action{0: ActionWait, 1: ActionAdvance})

	if state.Robots[0].Pos.X != 2 || state.Robots[1].Pos.X != 1 {
		t.Errorf("waiting leader must block the follower, got x=%d,%d",
			state.Robots[0].Pos.X, state.Robots[1].Pos.X)
	}
}

func TestTick_ExitSavesRobotAndWins(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][3] = Goal
	state.Exits = []Position{{X: 3, Y: 1}}

	state.Tick(map[int]Action{0: ActionAdvance})

	if !state.Robots[0].ReachedGoal {
		t.Error("robot entering an exit must be saved")
	}
	if state.Status != StatusWon {
		t.Errorf("quota of 1 met, expected won, got %s", state.Status)
	}

	// Saved is a latch: further ticks never undo it.
	state.Status = StatusRunning
	state.Tick(map[int]Action{0: ActionAdvance})
	if !state.Robots[0].ReachedGoal || !state.Robots[0].Alive {
		t.Error("saved robot flipped state on a later tick")
	}
}

func TestTick_WonBeatsLostOnFinalTick(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][3] = Goal
	state.Exits = []Position{{X: 3, Y: 1}}
	state.MaxSteps = 1

	state.Tick(map[int]Action{0: ActionAdvance})

	if state.Status != StatusWon {
		t.Errorf("quota met on the last allowed tick should win, got %s", state.Status)
	}
}

func TestTick_TickBudgetExhaustedLoses(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.MaxSteps = 2

	state.Tick(nil)
	if state.Status != StatusRunning {
		t.Fatalf("one tick left, status = %s", state.Status)
	}
	state.Tick(nil)
	if state.Status != StatusLost {
		t.Errorf("tick budget exhausted without quota, expected lost, got %s", state.Status)
	}
}

func TestTick_AllRobotsDeadLoses(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][2] = Water

	state.Tick(map[int]Action{0: ActionAdvance})

	if state.Robots[0].Alive {
		t.Error("robot stepping into open water must die")
	}
	if state.Status != StatusLost {
		t.Errorf("no active robots and no spawns remaining, expected lost, got %s", state.Status)
	}
}

func TestTick_HazardBlocksInsteadOfKilling(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][2] = Hazard

	state.Tick(map[int]Action{0: ActionAdvance})

	if state.Robots[0].Pos != (Position{X: 1, Y: 1}) {
		t.Errorf("hazard must block the advance, got %v", state.Robots[0].Pos)
	}
	if !state.Robots[0].Alive {
		t.Error("a blocked robot does not die")
	}
}

func TestTick_TerminalStateIsInert(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.Status = StatusWon

	state.Tick(map[int]Action{0: ActionAdvance})

	if state.StepCount != 0 || state.Robots[0].Pos.X != 1 {
		t.Error("ticks after a terminal status must be no-ops")
	}
}

func TestTick_SpawnDeferredWhileEntryOccupied(t *testing.T) {
	state := openFieldState(5, 3)
	state.Spawner = Spawner{Pos: Position{X: 1, Y: 1}, Dir: East, Count: 2, IntervalTicks: 1}
	state.SpawnedCount = 0
	state.Robots = nil

	state.Tick(nil) // tick 0: robot 0 spawns and waits on the entry cell
	if state.SpawnedCount != 1 {
		t.Fatalf("expected first spawn on tick 0, got %d spawned", state.SpawnedCount)
	}

	state.Tick(nil) // tick 1: entry occupied, spawn deferred exactly one tick
	if state.SpawnedCount != 1 {
		t.Fatalf("occupied entry must defer the spawn, got %d spawned", state.SpawnedCount)
	}
	if state.NextSpawnTick != 2 {
		t.Errorf("deferred spawn should be rescheduled for tick 2, got %d", state.NextSpawnTick)
	}

	state.Tick(map[int]Action{0: ActionAdvance}) // tick 2: spawn resolves before moves, deferred again
	if state.SpawnedCount != 1 {
		t.Fatalf("spawn resolves before actions, entry was still occupied")
	}

	state.Tick(nil) // tick 3: entry free, second robot spawns
	if state.SpawnedCount != 2 {
		t.Errorf("expected second spawn once the entry cleared, got %d", state.SpawnedCount)
	}
	if state.Robots[1].ID != 1 {
		t.Errorf("second robot should have id 1, got %d", state.Robots[1].ID)
	}
}

func TestTick_DoorLatchStaysOpen(t *testing.T) {
	state := openFieldState(6, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][2] = Plate
	state.Grid[1][4] = Door

	state.Tick(map[int]Action{0: ActionAdvance}) // onto the plate
	if !state.DoorUnlocked {
		t.Fatal("plate press must unlock the door the same tick")
	}

	state.Tick(map[int]Action{0: ActionAdvance}) // off the plate
	if !state.DoorUnlocked {
		t.Error("door latch must not re-lock when the plate releases")
	}
	if state.TileAt(Position{X: 2, Y: 1}) != Plate {
		t.Error("plate tile must survive the robot passing over it")
	}
}

func TestTick_GlobalSignalToggles(t *testing.T) {
	state := openFieldState(5, 3, &Robot{ID: 0, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true})

	state.Tick(map[int]Action{0: ActionSignalOn})
	if !state.GlobalSignal {
		t.Fatal("signal_on should raise the shared signal")
	}
	state.Tick(map[int]Action{0: ActionSignalOff})
	if state.GlobalSignal {
		t.Error("signal_off should clear the shared signal")
	}
}

func TestTick_RaftFerriesRiderAndReturns(t *testing.T) {
	state := openFieldState(7, 3, &Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][3] = Raft
	state.Grid[1][4] = Jetty
	state.Jetties = []Position{{X: 4, Y: 1}}
	state.Rafts = []*RaftState{{
		Pos:         Position{X: 3, Y: 1},
		Route:       []Position{{X: 3, Y: 1}, {X: 4, Y: 1}},
		ReturnIndex: -1,
	}}

	state.Tick(map[int]Action{0: ActionAdvance}) // board the raft; it ferries the same tick

	robot := state.Robots[0]
	if robot.Pos != (Position{X: 4, Y: 1}) {
		t.Fatalf("rider should be carried to the jetty, got %v", robot.Pos)
	}
	if !robot.Alive {
		t.Fatal("a mounted robot must survive the crossing")
	}
	raft := state.Rafts[0]
	if raft.Pos != (Position{X: 4, Y: 1}) || raft.DockIndex != 1 {
		t.Fatalf("raft should dock at the jetty, got %v dock %d", raft.Pos, raft.DockIndex)
	}
	if state.TileAt(Position{X: 3, Y: 1}) != Jetty || state.TileAt(Position{X: 4, Y: 1}) != Raft {
		t.Error("raft and jetty markers must swap so the tile multiset is conserved")
	}
	if raft.ReturnIndex != 0 {
		t.Errorf("raft should remember the stop it left, got %d", raft.ReturnIndex)
	}

	state.Tick(map[int]Action{0: ActionAdvance}) // disembark east; empty raft returns

	if state.Robots[0].Pos != (Position{X: 5, Y: 1}) {
		t.Errorf("rider should disembark to (5,1), got %v", state.Robots[0].Pos)
	}
	if raft.Pos != (Position{X: 3, Y: 1}) {
		t.Errorf("empty raft should ferry back to its origin stop, got %v", raft.Pos)
	}
	if raft.ReturnIndex != -1 {
		t.Errorf("return trip complete, expected return index -1, got %d", raft.ReturnIndex)
	}
}

func TestTick_RaftMultiStopDelivery(t *testing.T) {
	state := openFieldState(9, 3, &Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true})
	state.Grid[1][2] = Raft
	state.Grid[1][4] = Jetty
	state.Grid[1][6] = Jetty
	state.Jetties = []Position{{X: 4, Y: 1}, {X: 6, Y: 1}}
	state.Rafts = []*RaftState{{
		Pos:         Position{X: 2, Y: 1},
		Route:       []Position{{X: 2, Y: 1}, {X: 4, Y: 1}, {X: 6, Y: 1}},
		ReturnIndex: -1,
	}}

	if state.RaftsSettled() {
		t.Fatal("a raft with a rider aboard is not settled")
	}

	// The rider issues no actions at all; the raft alone moves it stop by
	// stop along the route.
	state.Tick(nil)
	if state.Robots[0].Pos != (Position{X: 4, Y: 1}) {
		t.Fatalf("rider should be at the first jetty, got %v", state.Robots[0].Pos)
	}
	if state.RaftsSettled() {
		t.Error("mid-route with a rider aboard the raft is still not settled")
	}

	state.Tick(nil)
	if state.Robots[0].Pos != (Position{X: 6, Y: 1}) {
		t.Fatalf("rider should be carried on to the second jetty, got %v", state.Robots[0].Pos)
	}
	if state.Rafts[0].DockIndex != 2 {
		t.Errorf("raft should be docked at the final stop, got index %d", state.Rafts[0].DockIndex)
	}
}

func TestTick_RaftWaitsForOccupiedStop(t *testing.T) {
	state := openFieldState(7, 3,
		&Robot{ID: 0, Pos: Position{X: 3, Y: 1}, Dir: East, Alive: true},
		&Robot{ID: 1, Pos: Position{X: 4, Y: 1}, Dir: East, Alive: true},
	)
	state.Grid[1][3] = Raft
	state.Grid[1][4] = Jetty
	state.Rafts = []*RaftState{{
		Pos:         Position{X: 3, Y: 1},
		Route:       []Position{{X: 3, Y: 1}, {X: 4, Y: 1}},
		ReturnIndex: -1,
	}}

	state.Tick(nil) // jetty occupied by robot 1, raft must hold

	if state.Rafts[0].Pos != (Position{X: 3, Y: 1}) {
		t.Errorf("raft must not dock on an occupied stop, got %v", state.Rafts[0].Pos)
	}
	if state.Robots[0].Pos != (Position{X: 3, Y: 1}) {
		t.Errorf("rider should still be on the raft, got %v", state.Robots[0].Pos)
	}
}

func TestTick_Deterministic(t *testing.T) {
	build := func() *SimState {
		state := openFieldState(8, 4,
			&Robot{ID: 0, Pos: Position{X: 2, Y: 1}, Dir: East, Alive: true},
			&Robot{ID: 1, Pos: Position{X: 1, Y: 1}, Dir: East, Alive: true},
			&Robot{ID: 2, Pos: Position{X: 1, Y: 2}, Dir: North, Alive: true},
		)
		state.Grid[1][4] = Plate
		state.Grid[2][4] = Door
		return state
	}

	script := []map[int]Action{
		{0: ActionAdvance, 1: ActionAdvance, 2: ActionAdvance},
		{0: ActionAdvance, 1: ActionTurnRight, 2: ActionSignalOn},
		{0: ActionTurnRight, 1: ActionAdvance, 2: ActionWait},
		{0: ActionAdvance, 2: ActionAdvance},
	}

	a, b := build(), build()
	for _, actions := range script {
		a.Tick(actions)
		b.Tick(actions)
	}

	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(aj) != string(bj) {
		t.Errorf("identical scripts diverged:\n%s\n%s", aj, bj)
	}
}
