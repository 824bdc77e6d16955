package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/eval"
	"github.com/wricardo/gridbots/game/program"
	"github.com/wricardo/gridbots/game/solver"
)

var ErrJobNotFound = errors.New("solver job not found")

// solverJob is the internal record for one asynchronous search.
type solverJob struct {
	info       SolverJobInfo
	evalOpts   eval.Options
	searchOpts solver.Options
	cancel     context.CancelFunc
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions   SessionManager
	levels     LevelManager
	progress   ProgressStore
	onProgress SolverProgressFunc

	mu     sync.RWMutex
	jobsMu sync.RWMutex
	jobs   map[string]*solverJob
}

// NewGameService creates a new game service instance. progress and
// onProgress may be nil.
func NewGameService(sessions SessionManager, levels LevelManager, progress ProgressStore, onProgress SolverProgressFunc) GameService {
	return &gameServiceImpl{
		sessions:   sessions,
		levels:     levels,
		progress:   progress,
		onProgress: onProgress,
		jobs:       make(map[string]*solverJob),
	}
}

// resolveLevel loads the named level, falling back to the default when the
// name is empty.
func (s *gameServiceImpl) resolveLevel(levelName string) (string, *engine.LevelConfig, error) {
	if levelName == "" {
		return s.levels.DefaultID(), s.levels.GetDefault(), nil
	}
	level, err := s.levels.LoadLevel(levelName)
	if err != nil {
		// Provide a helpful error message with available options
		available, listErr := s.levels.ListLevels()
		if listErr == nil && len(available) > 0 {
			var ids []string
			for _, l := range available {
				ids = append(ids, l.LevelID)
			}
			return "", nil, fmt.Errorf("level '%s' not found. Available levels: %v", levelName, ids)
		}
		return "", nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
	}
	return levelName, level, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.LevelID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		SimState:       sess.Runner.State,
		Level:          sess.Level,
		Program:        sess.Program,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	levelID, level, err := s.resolveLevel(levelName)
	if err != nil {
		return nil, err
	}

	// Let the session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", levelID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SetProgram installs a program on a session and resets the run.
func (s *gameServiceImpl) SetProgram(ctx context.Context, sessionID string, prog *program.Program) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Program = prog
	sess.Runner.SetProgram(prog)

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after program change: %v\n", sessionID, err)
	}

	return sessionInfo(sess), nil
}

// Step advances a session exactly one tick.
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string) (*StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Runner.Tick()
	state := sess.Runner.State

	result := &StepResult{
		SimState: state,
		Done:     state.Status != engine.StatusRunning,
		Message:  statusMessage(state),
	}
	for _, robot := range state.Robots {
		result.Robots = append(result.Robots, RobotVMInfo{
			RobotID:  robot.ID,
			VMStatus: sess.Runner.VMStatus(robot.ID),
		})
	}

	if state.Status == engine.StatusWon {
		s.recordWin(sess)
	}

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after step: %v\n", sessionID, err)
	}

	return result, nil
}

// Run restarts the session and executes its program until a terminal
// status, the tick budget, or all controllers going idle.
func (s *gameServiceImpl) Run(ctx context.Context, sessionID string, maxTicks int) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	evaluated := eval.Evaluate(sess.Level, sess.Program, eval.Options{MaxTicks: maxTicks})

	// Replay the same deterministic trajectory on the session's runner so
	// its visible state matches the reduced result.
	sess.Runner.Reset()
	for i := 0; i < evaluated.Ticks; i++ {
		sess.Runner.Tick()
	}

	if evaluated.Solved {
		s.recordWin(sess)
	}

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after run: %v\n", sessionID, err)
	}

	return &RunResult{
		SimState:      sess.Runner.State,
		TicksExecuted: evaluated.Ticks,
		Solved:        evaluated.Solved,
		Events:        evaluated.Events,
		Message:       statusMessage(sess.Runner.State),
	}, nil
}

// Reset rewinds a session to its initial state, keeping the program.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.SimState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Runner.Reset()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return sess.Runner.State, nil
}

// GetSimState retrieves the current simulation state
func (s *gameServiceImpl) GetSimState(ctx context.Context, sessionID string) (*engine.SimState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Runner.State, nil
}

// ListLevels returns available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(levelName)
}

// SaveLevel saves a level to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelName string, level *engine.LevelConfig) error {
	return s.levels.SaveLevel(levelName, level)
}

// SolveLevel starts an asynchronous solver search for a level.
func (s *gameServiceImpl) SolveLevel(ctx context.Context, levelName string, evalOpts eval.Options, searchOpts solver.Options) (*SolverJobInfo, error) {
	levelID, level, err := s.resolveLevel(levelName)
	if err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	job := &solverJob{
		info: SolverJobInfo{
			ID:        uuid.NewString(),
			LevelID:   levelID,
			Status:    JobRunning,
			StartedAt: time.Now(),
		},
		evalOpts:   evalOpts,
		searchOpts: searchOpts,
		cancel:     cancel,
	}

	s.jobsMu.Lock()
	s.jobs[job.info.ID] = job
	s.jobsMu.Unlock()

	go s.runSolver(jobCtx, job, level)

	info := job.info
	return &info, nil
}

// runSolver drives one search to completion and folds its progress into
// the job record.
func (s *gameServiceImpl) runSolver(ctx context.Context, job *solverJob, level *engine.LevelConfig) {
	jobID := job.info.ID

	onProgress := func(p solver.Progress) {
		s.jobsMu.Lock()
		job.info.Attempts = p.Attempts
		job.info.Depth = p.Depth
		job.info.BestScore = p.BestScore
		job.info.Solved = p.Solved
		job.info.ElapsedMs = p.ElapsedMs
		job.info.BestProgram = p.BestProgram
		s.jobsMu.Unlock()

		if s.onProgress != nil {
			s.onProgress(jobID, p)
		}
	}

	result := solver.Search(ctx, level, job.evalOpts, job.searchOpts, onProgress)

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	job.info.Attempts = result.Attempts
	job.info.BestScore = result.BestScore
	job.info.Solved = result.Solved
	job.info.ElapsedMs = result.ElapsedMs
	job.info.BestProgram = result.BestProgram
	switch {
	case ctx.Err() != nil:
		job.info.Status = JobCancelled
	case result.Solved:
		job.info.Status = JobSolved
	default:
		job.info.Status = JobExhausted
	}
}

// SolverStatus returns the current snapshot of a solver job.
func (s *gameServiceImpl) SolverStatus(ctx context.Context, jobID string) (*SolverJobInfo, error) {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}
	info := job.info
	return &info, nil
}

// CancelSolver requests cancellation of a running solver job.
func (s *gameServiceImpl) CancelSolver(ctx context.Context, jobID string) error {
	s.jobsMu.RLock()
	job, exists := s.jobs[jobID]
	s.jobsMu.RUnlock()

	if !exists {
		return ErrJobNotFound
	}
	job.cancel()
	return nil
}

// ListProgress returns the completed-level records.
func (s *gameServiceImpl) ListProgress(ctx context.Context) ([]*LevelProgress, error) {
	if s.progress == nil {
		return []*LevelProgress{}, nil
	}
	return s.progress.List()
}

// recordWin notes a completed level. Failures are logged, never fatal: a
// win on the board outranks a bookkeeping hiccup.
func (s *gameServiceImpl) recordWin(sess *Session) {
	if s.progress == nil {
		return
	}
	size := 0
	if sess.Program != nil {
		size = sess.Program.Size()
	}
	if err := s.progress.RecordWin(sess.LevelID, sess.Runner.State.StepCount, size); err != nil {
		fmt.Printf("Warning: Failed to record progress for level %s: %v\n", sess.LevelID, err)
	}
}

// statusMessage renders a short human-readable summary of the state.
func statusMessage(state *engine.SimState) string {
	switch state.Status {
	case engine.StatusWon:
		return fmt.Sprintf("Level complete! %d/%d robots saved in %d ticks.",
			state.SavedCount(), state.RequiredSaved, state.StepCount)
	case engine.StatusLost:
		if state.ActiveCount() == 0 && !state.SpawnsRemaining() {
			return "All robots are out of play. Try a different program."
		}
		return fmt.Sprintf("Out of time: %d/%d robots saved after %d ticks.",
			state.SavedCount(), state.RequiredSaved, state.StepCount)
	default:
		return fmt.Sprintf("Tick %d/%d, %d/%d robots saved.",
			state.StepCount, state.MaxSteps, state.SavedCount(), state.RequiredSaved)
	}
}
