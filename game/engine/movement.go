package engine

// Tick advances the simulation by one step. actions maps robot ID to the
// action its controller chose this tick; robots without an entry wait.
// Illegal or blocked moves are silently absorbed, never errors.
//
// Resolution order: spawn, actions in robot-array order, devices, raft
// ferry, termination. Robot-array order is the deterministic queueing
// tie-break.
func (s *SimState) Tick(actions map[int]Action) {
	if s.Status != StatusRunning {
		return
	}

	// Snapshot blocking occupancy. The set is updated live during action
	// resolution so a robot vacating a cell frees it for the next robot in
	// array order (single-tick convoy motion).
	occupied := make(map[Position]bool)
	for _, r := range s.Robots {
		if r.Blocking() {
			occupied[r.Pos] = true
		}
	}

	s.resolveSpawn(occupied)

	for _, robot := range s.Robots {
		if !robot.Blocking() {
			continue
		}

		// A robot never blocks its own move.
		delete(occupied, robot.Pos)

		s.applyAction(robot, actions[robot.ID], occupied)

		if robot.Blocking() {
			occupied[robot.Pos] = true
		}
	}

	s.updateDevices()
	s.ferryRafts()

	s.StepCount++
	s.updateStatus()
}

// resolveSpawn emits a robot when the schedule says so and the entry cell is
// free; otherwise the attempt is deferred exactly one tick. Interval zero is
// fully handled at init time.
func (s *SimState) resolveSpawn(occupied map[Position]bool) {
	if !s.SpawnsRemaining() || s.Spawner.IntervalTicks == 0 {
		return
	}
	if s.StepCount < s.NextSpawnTick {
		return
	}

	if occupied[s.Spawner.Pos] {
		s.NextSpawnTick = s.StepCount + 1
		return
	}

	robot := s.spawnRobot()
	if robot.Blocking() {
		occupied[robot.Pos] = true
	}
	s.NextSpawnTick = s.StepCount + s.Spawner.IntervalTicks
}

// applyAction resolves one robot's action against the live occupancy set.
func (s *SimState) applyAction(robot *Robot, action Action, occupied map[Position]bool) {
	switch action {
	case ActionTurnLeft:
		robot.Dir = robot.Dir.Left()
	case ActionTurnRight:
		robot.Dir = robot.Dir.Right()
	case ActionSignalOn:
		s.GlobalSignal = true
	case ActionSignalOff:
		s.GlobalSignal = false
	case ActionAdvance:
		dx, dy := robot.Dir.Delta()
		dest := Position{X: robot.Pos.X + dx, Y: robot.Pos.Y + dy}
		if !s.CanEnter(dest) || occupied[dest] {
			return
		}
		robot.Pos = dest
		if s.IsExit(robot.Pos) {
			robot.ReachedGoal = true
		}
		if s.TileAt(robot.Pos).LethalToUnmounted() {
			robot.Alive = false
		}
	default:
		// wait, or no action supplied
	}
}

// updateStatus derives the terminal status after a tick. Won beats lost so a
// quota met on the final allowed tick still wins.
func (s *SimState) updateStatus() {
	if s.SavedCount() >= s.RequiredSaved {
		s.Status = StatusWon
		return
	}
	if s.StepCount >= s.MaxSteps {
		s.Status = StatusLost
		return
	}
	if s.ActiveCount() == 0 && !s.SpawnsRemaining() {
		s.Status = StatusLost
	}
}
