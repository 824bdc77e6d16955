package service

import (
	"time"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/eval"
	"github.com/wricardo/gridbots/game/program"
	"github.com/wricardo/gridbots/game/solver"
	"github.com/wricardo/gridbots/game/vm"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelID        string              `json:"level_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	SimState       *engine.SimState    `json:"sim_state"`
	Level          *engine.LevelConfig `json:"level"`
	Program        *program.Program    `json:"program,omitempty"`
}

// RobotVMInfo pairs a robot with its controller status for a tick report.
type RobotVMInfo struct {
	RobotID  int       `json:"robot_id"`
	VMStatus vm.Status `json:"vm_status"`
}

// StepResult is the outcome of advancing a session by one tick.
type StepResult struct {
	SimState *engine.SimState `json:"sim_state"`
	Robots   []RobotVMInfo    `json:"robots"`
	Done     bool             `json:"done"`
	Message  string           `json:"message,omitempty"`
}

// RunResult is the outcome of running a session's program to completion,
// the tick budget, or all controllers going idle.
type RunResult struct {
	SimState      *engine.SimState `json:"sim_state"`
	TicksExecuted int              `json:"ticks_executed"`
	Solved        bool             `json:"solved"`
	Events        []eval.Event     `json:"events"`
	Message       string           `json:"message,omitempty"`
}

// LevelInfo provides information about an available level
type LevelInfo struct {
	Filename      string `json:"filename"`
	LevelID       string `json:"level_id"` // The identifier to use for session creation
	Name          string `json:"name"`     // Display name
	Description   string `json:"description"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	RobotCount    int    `json:"robot_count"`
	RequiredSaved int    `json:"required_saved"`
	MaxTicks      int    `json:"max_ticks"`
}

// SolverJobStatus is the lifecycle state of an asynchronous solver job.
type SolverJobStatus string

const (
	JobRunning   SolverJobStatus = "running"
	JobSolved    SolverJobStatus = "solved"
	JobExhausted SolverJobStatus = "exhausted"
	JobCancelled SolverJobStatus = "cancelled"
)

// SolverJobInfo is the externally visible snapshot of a solver job.
type SolverJobInfo struct {
	ID          string           `json:"id"`
	LevelID     string           `json:"level_id"`
	Status      SolverJobStatus  `json:"status"`
	StartedAt   time.Time        `json:"started_at"`
	Attempts    int              `json:"attempts"`
	Depth       int              `json:"depth"`
	BestScore   int              `json:"best_score"`
	Solved      bool             `json:"solved"`
	ElapsedMs   int64            `json:"elapsed_ms"`
	BestProgram *program.Program `json:"best_program,omitempty"`
}

// SolverProgressFunc receives live solver snapshots for streaming to
// clients. May be nil.
type SolverProgressFunc func(jobID string, p solver.Progress)

// LevelProgress is one completed-level record.
type LevelProgress struct {
	LevelID     string    `json:"level_id"`
	CompletedAt time.Time `json:"completed_at"`
	BestTicks   int       `json:"best_ticks"`
	ProgramSize int       `json:"program_size"`
}
