package eval

import (
	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/program"
)

// Score weights. A saved robot dominates everything except an outright win;
// milestone bonuses reward partial progress on device puzzles so the solver
// has a gradient to climb.
const (
	scorePerSaved    = 1000
	scoreWon         = 5000
	scoreDoorOpened  = 50
	scorePlateBonus  = 25
	scoreRaftUsed    = 50
	scoreWaterTouch  = 10
	scoreDistanceCap = 100
)

// DefaultSampleEvery is the trace sampling stride when the caller passes
// none.
const DefaultSampleEvery = 10

// Options configures a single evaluation run.
type Options struct {
	MaxTicks    int `json:"max_ticks,omitempty"`
	VMMaxSteps  int `json:"vm_max_steps,omitempty"`
	SampleEvery int `json:"sample_every,omitempty"`
}

// Event records the first tick a milestone was observed.
type Event struct {
	Type string `json:"type"`
	Tick int    `json:"tick"`
}

// RobotSnapshot is one robot's pose in a trace frame.
type RobotSnapshot struct {
	ID     int              `json:"id"`
	X      int              `json:"x"`
	Y      int              `json:"y"`
	Dir    engine.Direction `json:"dir"`
	Status string           `json:"status"`
}

// TraceFrame is a downsampled per-tick snapshot for cheap external preview.
type TraceFrame struct {
	Tick   int             `json:"tick"`
	Robots []RobotSnapshot `json:"robots"`
}

// Result is the reduced outcome of running one program against one level.
// BestRobots is the robot snapshot at the peak-score tick, which is not
// necessarily the final tick: a run can peak and then regress.
type Result struct {
	Solved      bool           `json:"solved"`
	Score       int            `json:"score"`
	Ticks       int            `json:"ticks"`
	Status      engine.Status  `json:"status"`
	FinalRobots []engine.Robot `json:"final_robots"`
	BestRobots  []engine.Robot `json:"best_robots"`
	Events      []Event        `json:"events"`
	TraceLite   []TraceFrame   `json:"trace_lite"`
}

// milestones is the monotonic accumulator folded over the trajectory.
type milestones struct {
	doorOpened   bool
	platePressed bool
	raftUsed     bool
	waterTouched bool
	anySaved     bool
}

// Evaluate runs a program through a fresh simulation of the level until a
// terminal status, the tick ceiling, or all controllers going idle, and
// reduces the trajectory to a score plus a compressed preview trace.
func Evaluate(level *engine.LevelConfig, prog *program.Program, opts Options) *Result {
	runner := NewRunner(level, prog, opts.VMMaxSteps)
	state := runner.State

	ceiling := opts.MaxTicks
	if ceiling <= 0 || ceiling > state.MaxSteps {
		ceiling = state.MaxSteps
	}
	sampleEvery := opts.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = DefaultSampleEvery
	}

	result := &Result{Status: state.Status}
	var seen milestones

	foldMilestones(state, &seen, &result.Events)
	bestScore := scoreState(state, seen)
	result.BestRobots = snapshotRobots(state)
	result.TraceLite = append(result.TraceLite, traceFrame(state))
	lastSampled := 0

	for state.Status == engine.StatusRunning && state.StepCount < ceiling {
		runner.Tick()

		foldMilestones(state, &seen, &result.Events)
		if score := scoreState(state, seen); score > bestScore {
			bestScore = score
			result.BestRobots = snapshotRobots(state)
		}

		if state.StepCount-lastSampled >= sampleEvery {
			result.TraceLite = append(result.TraceLite, traceFrame(state))
			lastSampled = state.StepCount
		}

		if state.Status == engine.StatusRunning && runner.ControllersIdle() {
			break
		}
	}

	if lastSampled != state.StepCount {
		result.TraceLite = append(result.TraceLite, traceFrame(state))
	}

	result.Solved = state.Status == engine.StatusWon
	result.Score = bestScore
	result.Ticks = state.StepCount
	result.Status = state.Status
	result.FinalRobots = snapshotRobots(state)
	return result
}

// foldMilestones merges this tick's observations into the accumulator,
// recording an event the first time each milestone appears.
func foldMilestones(state *engine.SimState, seen *milestones, events *[]Event) {
	mark := func(flag *bool, name string) {
		if !*flag {
			*flag = true
			*events = append(*events, Event{Type: name, Tick: state.StepCount})
		}
	}

	if state.DoorUnlocked {
		mark(&seen.doorOpened, "door_opened")
	}
	if state.PlatePressed() {
		mark(&seen.platePressed, "plate_pressed")
	}
	for _, r := range state.Robots {
		switch state.TileAt(r.Pos) {
		case engine.Raft:
			mark(&seen.raftUsed, "raft_used")
		case engine.Water:
			mark(&seen.waterTouched, "water_touched")
		}
	}
	if state.SavedCount() > 0 {
		mark(&seen.anySaved, "robot_saved")
	}
}

// scoreState computes the fitness of the current state given the milestones
// observed so far.
func scoreState(state *engine.SimState, seen milestones) int {
	score := state.SavedCount() * scorePerSaved

	if seen.doorOpened {
		score += scoreDoorOpened
	}
	if seen.platePressed {
		score += scorePlateBonus
	}
	if seen.raftUsed {
		score += scoreRaftUsed
	}
	if seen.waterTouched {
		score += scoreWaterTouch
	}
	if state.Status == engine.StatusWon {
		score += scoreWon
	}

	if dist, ok := state.MinDistanceToExit(); ok {
		if bonus := scoreDistanceCap - dist; bonus > 0 {
			score += bonus
		}
	}

	return score
}

func snapshotRobots(state *engine.SimState) []engine.Robot {
	robots := make([]engine.Robot, len(state.Robots))
	for i, r := range state.Robots {
		robots[i] = *r
	}
	return robots
}

func traceFrame(state *engine.SimState) TraceFrame {
	frame := TraceFrame{Tick: state.StepCount}
	for _, r := range state.Robots {
		status := "active"
		switch {
		case r.ReachedGoal:
			status = "saved"
		case !r.Alive:
			status = "dead"
		}
		frame.Robots = append(frame.Robots, RobotSnapshot{
			ID:     r.ID,
			X:      r.Pos.X,
			Y:      r.Pos.Y,
			Dir:    r.Dir,
			Status: status,
		})
	}
	return frame
}
