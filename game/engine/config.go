package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Layout characters. The legend in a level file is optional; when present it
// must agree with this canonical mapping.
var tileChars = map[byte]TileType{
	'.': Empty,
	'#': Wall,
	'G': Goal,
	'X': Hazard,
	'P': Plate,
	'D': Door,
	'W': Water,
	'R': Raft,
	'J': Jetty,
}

// LevelConfig is a level definition as authored in a JSON file.
type LevelConfig struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Layout        []string          `json:"layout"`
	Legend        map[string]string `json:"legend,omitempty"`
	Spawner       SpawnerConfig     `json:"spawner"`
	Exits         []Position        `json:"exits,omitempty"`
	RequiredSaved int               `json:"required_saved,omitempty"`
	MaxTicks      int               `json:"max_ticks,omitempty"`
}

// SpawnerConfig is the spawner pose as authored. Direction accepts an
// integer 0-3 or a compass letter; the Direction type normalizes it.
type SpawnerConfig struct {
	X             int       `json:"x"`
	Y             int       `json:"y"`
	Direction     Direction `json:"direction"`
	Count         int       `json:"count"`
	IntervalTicks int       `json:"interval_ticks"`
}

// ValidateLevelConfig validates a level configuration for correctness and
// playability.
func ValidateLevelConfig(config *LevelConfig) error {
	if config.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}

	height := len(config.Layout)
	if height < MinGridSize || height > MaxGridSize {
		return fmt.Errorf("level validation: layout must have between %d and %d rows, got %d", MinGridSize, MaxGridSize, height)
	}

	width := len(config.Layout[0])
	if width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("level validation: layout rows must have between %d and %d characters, got %d", MinGridSize, MaxGridSize, width)
	}

	goalCount := 0
	plateCount := 0
	doorCount := 0
	for i, row := range config.Layout {
		if len(row) != width {
			return fmt.Errorf("level validation: row %d must have %d characters to match row 1, got %d", i+1, width, len(row))
		}
		for j := 0; j < len(row); j++ {
			tile, ok := tileChars[row[j]]
			if !ok {
				return fmt.Errorf("level validation: invalid character '%c' at row %d, col %d", row[j], i+1, j+1)
			}
			switch tile {
			case Goal:
				goalCount++
			case Plate:
				plateCount++
			case Door:
				doorCount++
			}
		}
	}

	// Legend, when present, must match the canonical mapping.
	for key, value := range config.Legend {
		if len(key) != 1 {
			return fmt.Errorf("level validation: legend key %q must be a single character", key)
		}
		tile, ok := tileChars[key[0]]
		if !ok {
			return fmt.Errorf("level validation: legend key %q is not a known tile character", key)
		}
		if value != string(tile) {
			return fmt.Errorf("level validation: legend[%q] must be %q, got %q", key, string(tile), value)
		}
	}

	// Spawner pose
	sp := config.Spawner
	if sp.X < 0 || sp.X >= width || sp.Y < 0 || sp.Y >= height {
		return fmt.Errorf("level validation: spawner at (%d, %d) is outside the %dx%d grid", sp.X, sp.Y, width, height)
	}
	entry := tileChars[config.Layout[sp.Y][sp.X]]
	if entry.BlocksAdvance() || entry == Water || entry == Door {
		return fmt.Errorf("level validation: spawner entry cell (%d, %d) is %s", sp.X, sp.Y, entry)
	}
	if sp.Count < 1 || sp.Count > MaxRobots {
		return fmt.Errorf("level validation: spawner count must be between 1 and %d, got %d", MaxRobots, sp.Count)
	}
	if sp.IntervalTicks < 0 {
		return fmt.Errorf("level validation: spawner interval_ticks cannot be negative, got %d", sp.IntervalTicks)
	}

	// Exits: explicit list entries must be on the grid; otherwise there must
	// be at least one goal tile to act as an exit.
	for _, e := range config.Exits {
		if e.X < 0 || e.X >= width || e.Y < 0 || e.Y >= height {
			return fmt.Errorf("level validation: exit at (%d, %d) is outside the %dx%d grid", e.X, e.Y, width, height)
		}
	}
	if len(config.Exits) == 0 && goalCount == 0 {
		return fmt.Errorf("level validation: layout must contain at least one goal (G) cell or an explicit exit list")
	}

	// A door that no plate can ever open is an authoring error.
	if doorCount > 0 && plateCount == 0 {
		return fmt.Errorf("level validation: layout has %d door cells but no pressure plate to open them", doorCount)
	}

	if config.RequiredSaved < 0 {
		return fmt.Errorf("level validation: required_saved cannot be negative, got %d", config.RequiredSaved)
	}
	required := config.RequiredSaved
	if required == 0 {
		required = DefaultRequiredSaved
	}
	if required > sp.Count {
		return fmt.Errorf("level validation: required_saved (%d) exceeds spawner count (%d)", required, sp.Count)
	}

	if config.MaxTicks < 0 {
		return fmt.Errorf("level validation: max_ticks cannot be negative, got %d", config.MaxTicks)
	}

	return nil
}

// LoadLevelConfig loads a level configuration from a JSON file.
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %w", filename, err)
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid level '%s': %w", filename, err)
	}

	return &config, nil
}

// InitSimStateFromConfig creates a fresh simulation state from a validated
// level configuration, applying the documented defaults.
func InitSimStateFromConfig(config *LevelConfig) *SimState {
	height := len(config.Layout)
	width := len(config.Layout[0])

	grid := make([][]TileType, height)
	var exits []Position
	var jetties []Position
	var raftOrigins []Position

	for y := 0; y < height; y++ {
		grid[y] = make([]TileType, width)
		for x := 0; x < width; x++ {
			tile := tileChars[config.Layout[y][x]]
			grid[y][x] = tile
			switch tile {
			case Goal:
				exits = append(exits, Position{X: x, Y: y})
			case Jetty:
				jetties = append(jetties, Position{X: x, Y: y})
			case Raft:
				raftOrigins = append(raftOrigins, Position{X: x, Y: y})
			}
		}
	}

	if len(config.Exits) > 0 {
		exits = append([]Position(nil), config.Exits...)
	}

	required := config.RequiredSaved
	if required == 0 {
		required = DefaultRequiredSaved
	}
	maxTicks := config.MaxTicks
	if maxTicks == 0 {
		maxTicks = DefaultMaxTicks
	}

	state := &SimState{
		Grid:   grid,
		Width:  width,
		Height: height,
		Robots: []*Robot{},
		Spawner: Spawner{
			Pos:           Position{X: config.Spawner.X, Y: config.Spawner.Y},
			Dir:           config.Spawner.Direction,
			Count:         config.Spawner.Count,
			IntervalTicks: config.Spawner.IntervalTicks,
		},
		Exits:         exits,
		Status:        StatusRunning,
		MaxSteps:      maxTicks,
		RequiredSaved: required,
		Jetties:       jetties,
		LevelName:     config.Name,
	}

	for _, origin := range raftOrigins {
		state.Rafts = append(state.Rafts, newRaftState(origin, jetties))
	}

	// interval_ticks == 0 means the whole contingent appears at tick 0.
	if state.Spawner.IntervalTicks == 0 {
		for state.SpawnedCount < state.Spawner.Count {
			state.spawnRobot()
		}
	}

	return state
}

// newRaftState builds the cyclic ferry route for a raft: its origin plus
// every jetty, sorted row-major so the order is deterministic.
func newRaftState(origin Position, jetties []Position) *RaftState {
	route := make([]Position, 0, len(jetties)+1)
	route = append(route, origin)
	route = append(route, jetties...)
	sort.Slice(route, func(i, j int) bool {
		if route[i].Y != route[j].Y {
			return route[i].Y < route[j].Y
		}
		return route[i].X < route[j].X
	})

	dock := 0
	for i, p := range route {
		if p == origin {
			dock = i
			break
		}
	}

	return &RaftState{
		Pos:         origin,
		Route:       route,
		DockIndex:   dock,
		ReturnIndex: -1,
	}
}

// LayoutFromGrid renders a grid back into layout strings, mainly for
// debugging output and level round-trips.
func LayoutFromGrid(grid [][]TileType) []string {
	reverse := make(map[TileType]byte, len(tileChars))
	for ch, tile := range tileChars {
		reverse[tile] = ch
	}

	rows := make([]string, len(grid))
	for y, row := range grid {
		var b strings.Builder
		for _, tile := range row {
			b.WriteByte(reverse[tile])
		}
		rows[y] = b.String()
	}
	return rows
}
