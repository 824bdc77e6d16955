package engine

import (
	"encoding/json"
	"fmt"
)

// TileType represents different types of grid tiles
type TileType string

const (
	Empty  TileType = "empty"
	Wall   TileType = "wall"
	Goal   TileType = "goal"
	Hazard TileType = "hazard"
	Plate  TileType = "plate"
	Door   TileType = "door"
	Water  TileType = "water"
	Raft   TileType = "raft"
	Jetty  TileType = "jetty"
)

const (
	// Validation constants
	MinGridSize = 2
	MaxGridSize = 64
	MaxRobots   = 32

	// Level defaults applied by the loader
	DefaultRequiredSaved = 1
	DefaultMaxTicks      = 200

	UnreachableDistance = 999999
)

// LethalToUnmounted reports whether a robot standing on this tile without a
// raft underneath dies. Raft tiles themselves are safe ground.
func (t TileType) LethalToUnmounted() bool {
	return t == Hazard || t == Water
}

// BlocksAdvance reports whether a robot can never step onto this tile.
// Doors are handled separately because passability depends on the latch.
func (t TileType) BlocksAdvance() bool {
	return t == Wall || t == Hazard
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a compass heading. The zero value faces north.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionLetters = [4]string{"N", "E", "S", "W"}

func (d Direction) String() string {
	if d < North || d > West {
		return "?"
	}
	return directionLetters[d]
}

// Delta returns the grid offset one step in this direction. Y grows downward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

// Left returns the heading after a 90 degree counter-clockwise turn.
func (d Direction) Left() Direction {
	return (d + 3) % 4
}

// Right returns the heading after a 90 degree clockwise turn.
func (d Direction) Right() Direction {
	return (d + 1) % 4
}

// ParseDirection normalizes a level-file direction: an integer 0-3 or a
// compass letter (case-insensitive, long forms accepted).
func ParseDirection(raw json.RawMessage) (Direction, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 || n > 3 {
			return North, fmt.Errorf("direction out of range: %d", n)
		}
		return Direction(n), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return North, fmt.Errorf("direction must be an integer 0-3 or a compass letter")
	}

	switch s {
	case "N", "n", "north", "North":
		return North, nil
	case "E", "e", "east", "East":
		return East, nil
	case "S", "s", "south", "South":
		return South, nil
	case "W", "w", "west", "West":
		return West, nil
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// MarshalJSON encodes the direction as its compass letter.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either form so persisted states round-trip.
func (d *Direction) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDirection(data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Action is one entry of the closed action vocabulary a program can emit.
type Action string

const (
	ActionAdvance   Action = "advance"
	ActionTurnLeft  Action = "turn_left"
	ActionTurnRight Action = "turn_right"
	ActionWait      Action = "wait"
	ActionSignalOn  Action = "signal_on"
	ActionSignalOff Action = "signal_off"
)

// Vocabulary lists every action in a stable order. The solver's branching
// and tie-breaking depend on this order never changing at runtime.
var Vocabulary = []Action{
	ActionAdvance,
	ActionTurnLeft,
	ActionTurnRight,
	ActionWait,
	ActionSignalOn,
	ActionSignalOff,
}

// Valid reports whether a is part of the action vocabulary.
func (a Action) Valid() bool {
	for _, v := range Vocabulary {
		if a == v {
			return true
		}
	}
	return false
}

// Robot is the per-agent state. Alive and ReachedGoal are monotonic: once a
// robot dies or reaches an exit it never comes back.
type Robot struct {
	ID          int       `json:"id"`
	Pos         Position  `json:"pos"`
	Dir         Direction `json:"dir"`
	Alive       bool      `json:"alive"`
	ReachedGoal bool      `json:"reached_goal"`
}

// Blocking reports whether the robot occupies space for collision purposes.
func (r *Robot) Blocking() bool {
	return r.Alive && !r.ReachedGoal
}

// Spawner emits robots at a fixed pose. IntervalTicks == 0 means the whole
// contingent appears at tick 0; otherwise one robot per interval, gated on
// the entry cell being free.
type Spawner struct {
	Pos           Position  `json:"pos"`
	Dir           Direction `json:"dir"`
	Count         int       `json:"count"`
	IntervalTicks int       `json:"interval_ticks"`
}

// RaftState tracks one raft: its live position (mirrored by a Raft tile in
// the grid), its cyclic ferry route, and a pending empty return trip.
// ReturnIndex is -1 when no return trip is owed.
type RaftState struct {
	Pos         Position   `json:"pos"`
	Route       []Position `json:"route"`
	DockIndex   int        `json:"dock_index"`
	ReturnIndex int        `json:"return_index"`
}

// Status is the terminal state of a simulation
type Status string

const (
	StatusRunning Status = "running"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// SimState is the complete authoritative simulation state. Robot order in
// Robots is spawn order and serves as the deterministic queueing tie-break.
type SimState struct {
	Grid          [][]TileType `json:"grid"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	Robots        []*Robot     `json:"robots"`
	Spawner       Spawner      `json:"spawner"`
	Exits         []Position   `json:"exits"`
	Status        Status       `json:"status"`
	StepCount     int          `json:"step_count"`
	MaxSteps      int          `json:"max_steps"`
	RequiredSaved int          `json:"required_saved"`
	SpawnedCount  int          `json:"spawned_count"`
	NextSpawnTick int          `json:"next_spawn_tick"`
	DoorUnlocked  bool         `json:"door_unlocked"`
	GlobalSignal  bool         `json:"global_signal"`
	Rafts         []*RaftState `json:"rafts,omitempty"`
	Jetties       []Position   `json:"jetties,omitempty"`
	LevelName     string       `json:"level_name"`
}
