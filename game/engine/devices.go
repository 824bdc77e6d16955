package engine

// Device resolution: pressure plates, the door latch, and raft ferrying.

// PlatePressed reports whether some blocking robot stands on a plate tile.
func (s *SimState) PlatePressed() bool {
	for _, r := range s.Robots {
		if r.Blocking() && s.TileAt(r.Pos) == Plate {
			return true
		}
	}
	return false
}

// updateDevices latches the door open the first tick any plate is pressed.
// The latch never re-locks.
func (s *SimState) updateDevices() {
	if !s.DoorUnlocked && s.PlatePressed() {
		s.DoorUnlocked = true
	}
}

// ferryRafts moves each raft along its cyclic route. A raft carrying at
// least one blocking robot advances to the next stop when that stop is free,
// taking its riders with it and noting the stop it left so it can ferry back
// empty later. The grid markers of the two cells are swapped, so the tile
// multiset is conserved and the previous tick stays replayable.
func (s *SimState) ferryRafts() {
	for _, raft := range s.Rafts {
		if len(raft.Route) < 2 {
			continue
		}

		riders := s.ridersOn(raft)
		if len(riders) > 0 {
			next := (raft.DockIndex + 1) % len(raft.Route)
			dest := raft.Route[next]
			if !s.raftStopFree(dest) {
				continue
			}
			prev := raft.DockIndex
			s.moveRaft(raft, next)
			for _, r := range riders {
				r.Pos = dest
				if s.IsExit(r.Pos) {
					r.ReachedGoal = true
				}
			}
			raft.ReturnIndex = prev
			continue
		}

		if raft.ReturnIndex >= 0 && raft.ReturnIndex != raft.DockIndex {
			dest := raft.Route[raft.ReturnIndex]
			if s.raftStopFree(dest) {
				s.moveRaft(raft, raft.ReturnIndex)
				raft.ReturnIndex = -1
			}
		}
	}
}

// RaftsSettled reports whether no raft will move on its own next tick: no
// raft carries a blocking rider and no empty return trip is owed. While this
// is false the simulation keeps evolving even with no robot acting.
func (s *SimState) RaftsSettled() bool {
	for _, raft := range s.Rafts {
		if len(raft.Route) < 2 {
			continue
		}
		if len(s.ridersOn(raft)) > 0 {
			return false
		}
		if raft.ReturnIndex >= 0 && raft.ReturnIndex != raft.DockIndex {
			return false
		}
	}
	return true
}

// ridersOn returns the blocking robots standing on the raft's tile.
func (s *SimState) ridersOn(raft *RaftState) []*Robot {
	var riders []*Robot
	for _, r := range s.Robots {
		if r.Blocking() && r.Pos == raft.Pos {
			riders = append(riders, r)
		}
	}
	return riders
}

// raftStopFree reports whether a raft may dock at p: no blocking robot
// stands there and no other raft occupies the cell.
func (s *SimState) raftStopFree(p Position) bool {
	if s.blockingAt(p) {
		return false
	}
	return s.TileAt(p) != Raft
}

// moveRaft swaps the grid markers between the raft's cell and the target
// stop and updates the raft's position and dock index.
func (s *SimState) moveRaft(raft *RaftState, stopIndex int) {
	dest := raft.Route[stopIndex]
	src := raft.Pos
	s.Grid[src.Y][src.X], s.Grid[dest.Y][dest.X] = s.Grid[dest.Y][dest.X], s.Grid[src.Y][src.X]
	raft.Pos = dest
	raft.DockIndex = stopIndex
}
