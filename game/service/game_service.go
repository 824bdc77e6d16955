package service

import (
	"context"
	"time"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/eval"
	"github.com/wricardo/gridbots/game/program"
	"github.com/wricardo/gridbots/game/solver"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Program and Execution
	SetProgram(ctx context.Context, sessionID string, prog *program.Program) (*SessionInfo, error)
	Step(ctx context.Context, sessionID string) (*StepResult, error)
	Run(ctx context.Context, sessionID string, maxTicks int) (*RunResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.SimState, error)

	// Game State
	GetSimState(ctx context.Context, sessionID string) (*engine.SimState, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error)
	SaveLevel(ctx context.Context, levelName string, level *engine.LevelConfig) error

	// Solver
	SolveLevel(ctx context.Context, levelName string, evalOpts eval.Options, searchOpts solver.Options) (*SolverJobInfo, error)
	SolverStatus(ctx context.Context, jobID string) (*SolverJobInfo, error)
	CancelSolver(ctx context.Context, jobID string) error

	// Player Progress
	ListProgress(ctx context.Context) ([]*LevelProgress, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, levelID string, level *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager handles level loading and storage
type LevelManager interface {
	LoadLevel(name string) (*engine.LevelConfig, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.LevelConfig
	DefaultID() string
	SaveLevel(name string, level *engine.LevelConfig) error
}

// ProgressStore records which levels the player has beaten.
type ProgressStore interface {
	RecordWin(levelID string, ticks int, programSize int) error
	List() ([]*LevelProgress, error)
}

// Session is one active puzzle attempt: a level, the player's current
// program, and the runner executing it.
type Session struct {
	ID             string
	LevelID        string
	Level          *engine.LevelConfig
	Runner         *eval.Runner
	Program        *program.Program
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
