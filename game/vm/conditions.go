package vm

import (
	"fmt"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/program"
)

// EvalCondition evaluates a condition tree against the tick context.
// Conditions are pure: they read the world, the robot, the door latch, and
// the global signal, and change nothing.
//
// The program codec rejects unknown kinds at decode time, so an unknown
// variant here is a programmer error and panics rather than guessing.
func EvalCondition(c program.Condition, ctx Context) bool {
	switch v := c.(type) {
	case *program.PrimitiveCond:
		return evalPrimitive(v.Kind, ctx)
	case *program.NotCond:
		return !EvalCondition(v.C, ctx)
	case *program.AndCond:
		for _, sub := range v.Conds {
			if !EvalCondition(sub, ctx) {
				return false
			}
		}
		return true
	case *program.OrCond:
		for _, sub := range v.Conds {
			if EvalCondition(sub, ctx) {
				return true
			}
		}
		return false
	}
	panic(fmt.Sprintf("vm: unknown condition type %T", c))
}

func evalPrimitive(kind program.CondKind, ctx Context) bool {
	s, r := ctx.State, ctx.Robot

	switch kind {
	case program.CondAheadClear:
		return directionClear(s, r, r.Dir)
	case program.CondLeftClear:
		return directionClear(s, r, r.Dir.Left())
	case program.CondRightClear:
		return directionClear(s, r, r.Dir.Right())
	case program.CondOnGoal:
		return s.IsExit(r.Pos)
	case program.CondOnPlate:
		return s.TileAt(r.Pos) == engine.Plate
	case program.CondHazardAhead:
		return s.TileAt(neighbor(r.Pos, r.Dir)).LethalToUnmounted()
	case program.CondSignalOn:
		return s.GlobalSignal
	case program.CondOnRaft:
		return s.TileAt(r.Pos) == engine.Raft
	}
	panic(fmt.Sprintf("vm: unknown primitive condition %q", kind))
}

// directionClear reports no wall, hazard, or closed door one step in the
// given direction. Water counts as clear; it is enterable, just lethal.
func directionClear(s *engine.SimState, r *engine.Robot, dir engine.Direction) bool {
	return s.CanEnter(neighbor(r.Pos, dir))
}

func neighbor(p engine.Position, dir engine.Direction) engine.Position {
	dx, dy := dir.Delta()
	return engine.Position{X: p.X + dx, Y: p.Y + dy}
}
