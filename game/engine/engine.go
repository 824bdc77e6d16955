package engine

// Core queries and state plumbing for the simulation. The tick logic itself
// lives in movement.go and devices.go.

// InBounds reports whether p lies on the grid.
func (s *SimState) InBounds(p Position) bool {
	return p.Y >= 0 && p.Y < s.Height && p.X >= 0 && p.X < s.Width
}

// TileAt returns the tile at p. Out-of-bounds positions read as walls so
// callers never need a separate bounds check.
func (s *SimState) TileAt(p Position) TileType {
	if !s.InBounds(p) {
		return Wall
	}
	return s.Grid[p.Y][p.X]
}

// IsExit reports whether p belongs to the exit set.
func (s *SimState) IsExit(p Position) bool {
	for _, e := range s.Exits {
		if e == p {
			return true
		}
	}
	return false
}

// CanEnter reports whether a robot may advance onto p, ignoring occupancy.
// Doors are passable only once the latch has been triggered. Water and raft
// tiles are enterable; water is lethal, which is the mover's problem.
func (s *SimState) CanEnter(p Position) bool {
	tile := s.TileAt(p)
	if tile.BlocksAdvance() {
		return false
	}
	if tile == Door && !s.DoorUnlocked {
		return false
	}
	return true
}

// SavedCount returns how many robots have reached an exit.
func (s *SimState) SavedCount() int {
	count := 0
	for _, r := range s.Robots {
		if r.ReachedGoal {
			count++
		}
	}
	return count
}

// ActiveCount returns how many robots are still alive and en route.
func (s *SimState) ActiveCount() int {
	count := 0
	for _, r := range s.Robots {
		if r.Blocking() {
			count++
		}
	}
	return count
}

// SpawnsRemaining reports whether the spawner still owes robots.
func (s *SimState) SpawnsRemaining() bool {
	return s.SpawnedCount < s.Spawner.Count
}

// RobotByID returns the robot with the given ID, or nil.
func (s *SimState) RobotByID(id int) *Robot {
	for _, r := range s.Robots {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// blockingAt reports whether any blocking robot currently stands on p.
func (s *SimState) blockingAt(p Position) bool {
	for _, r := range s.Robots {
		if r.Blocking() && r.Pos == p {
			return true
		}
	}
	return false
}

// spawnRobot appends a new robot at the spawner pose. IDs are assigned in
// spawn order. A robot spawned directly onto an exit counts as saved.
func (s *SimState) spawnRobot() *Robot {
	robot := &Robot{
		ID:    s.SpawnedCount,
		Pos:   s.Spawner.Pos,
		Dir:   s.Spawner.Dir,
		Alive: true,
	}
	if s.IsExit(robot.Pos) {
		robot.ReachedGoal = true
	}
	s.Robots = append(s.Robots, robot)
	s.SpawnedCount++
	return robot
}

// Clone returns a deep copy of the state. The previous tick stays immutable,
// which replay and the evaluator's peak-snapshot logic rely on.
func (s *SimState) Clone() *SimState {
	dup := *s

	dup.Grid = make([][]TileType, len(s.Grid))
	for y, row := range s.Grid {
		dup.Grid[y] = append([]TileType(nil), row...)
	}

	dup.Robots = make([]*Robot, len(s.Robots))
	for i, r := range s.Robots {
		copied := *r
		dup.Robots[i] = &copied
	}

	dup.Exits = append([]Position(nil), s.Exits...)
	dup.Jetties = append([]Position(nil), s.Jetties...)

	dup.Rafts = make([]*RaftState, len(s.Rafts))
	for i, raft := range s.Rafts {
		copied := *raft
		copied.Route = append([]Position(nil), raft.Route...)
		dup.Rafts[i] = &copied
	}

	return &dup
}
