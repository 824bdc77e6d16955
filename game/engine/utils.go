package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DistanceToNearestExit returns the Manhattan distance from p to the closest
// exit, or UnreachableDistance when the level has no exits.
func (s *SimState) DistanceToNearestExit(p Position) int {
	min := UnreachableDistance
	for _, e := range s.Exits {
		if d := ManhattanDistance(p, e); d < min {
			min = d
		}
	}
	return min
}

// MinDistanceToExit returns the smallest distance-to-exit over all robots
// that are alive or already saved. Saved robots count as distance zero.
func (s *SimState) MinDistanceToExit() (int, bool) {
	min := UnreachableDistance
	found := false
	for _, r := range s.Robots {
		if !r.Alive && !r.ReachedGoal {
			continue
		}
		found = true
		if r.ReachedGoal {
			return 0, true
		}
		if d := s.DistanceToNearestExit(r.Pos); d < min {
			min = d
		}
	}
	return min, found
}

// CountTileType counts the tiles of a specific type in the grid
func CountTileType(grid [][]TileType, tile TileType) int {
	count := 0
	for _, row := range grid {
		for _, t := range row {
			if t == tile {
				count++
			}
		}
	}
	return count
}
