package vm

import (
	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/program"
)

// Status reports where a VM stands in its program
type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusStepLimit Status = "step_limit"
)

const (
	// DefaultMaxSteps caps executed actions when the caller passes none.
	DefaultMaxSteps = 1000

	// maxStructuralVisits bounds the zero-cost structural work per Step
	// call, so degenerate trees (huge repeats over empty bodies) cannot
	// spin the interpreter without ever producing an action.
	maxStructuralVisits = 100000
)

type frameKind int

const (
	frameSeq frameKind = iota
	frameRepeat
	frameUntil
)

// frame is one resumable position inside a nested control node. The node
// slices are shared with the immutable program tree; only the cursor fields
// belong to the VM.
type frame struct {
	kind      frameKind
	nodes     []program.Node
	idx       int
	remaining int
	cond      program.Condition
}

// Context is the read-only per-tick input for condition evaluation: the
// world, the robot this VM controls, and through the state the door latch
// and global signal.
type Context struct {
	State *engine.SimState
	Robot *engine.Robot
}

// VM is a resumable, one-action-per-call evaluator of a program tree. It is
// a plain value: Clone gives an independent snapshot suitable for replay.
type VM struct {
	frames   []frame
	Steps    int
	MaxSteps int
	Status   Status
}

// New creates a VM positioned at the start of the program.
func New(p *program.Program, maxSteps int) *VM {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	m := &VM{MaxSteps: maxSteps, Status: StatusRunning}
	if p != nil && len(p.Nodes) > 0 {
		m.frames = []frame{{kind: frameSeq, nodes: p.Nodes}}
	}
	return m
}

// Clone returns an independent copy of the VM state.
func (m *VM) Clone() *VM {
	dup := *m
	dup.frames = make([]frame, len(m.frames))
	copy(dup.frames, m.frames)
	return &dup
}

// Depth returns the current frame-stack depth, mainly for tests.
func (m *VM) Depth() int {
	return len(m.frames)
}

func (m *VM) push(f frame) {
	m.frames = append(m.frames, f)
}

func (m *VM) pop() {
	m.frames = m.frames[:len(m.frames)-1]
}

// Step advances the program to its next action. Structural nodes (sequence
// advance, repeat countdown, repeat-until checks, branch selection) resolve
// eagerly and cost nothing; only an action leaf or end-of-program yields.
// The returned bool is false when no action was produced, in which case
// Status tells why (done or step_limit).
func (m *VM) Step(ctx Context) (engine.Action, bool) {
	if m.Status != StatusRunning {
		return "", false
	}

	for visits := 0; visits < maxStructuralVisits; visits++ {
		if len(m.frames) == 0 {
			m.Status = StatusDone
			return "", false
		}

		f := &m.frames[len(m.frames)-1]
		if f.idx >= len(f.nodes) {
			switch f.kind {
			case frameSeq:
				m.pop()
			case frameRepeat:
				f.remaining--
				if f.remaining > 0 {
					f.idx = 0
				} else {
					m.pop()
				}
			case frameUntil:
				if EvalCondition(f.cond, ctx) {
					m.pop()
				} else {
					f.idx = 0
				}
			}
			continue
		}

		node := f.nodes[f.idx]
		f.idx++

		switch v := node.(type) {
		case *program.ActionNode:
			if m.Steps >= m.MaxSteps {
				m.Status = StatusStepLimit
				return "", false
			}
			m.Steps++
			return v.Act, true

		case *program.RepeatNode:
			if v.Times > 0 && len(v.Body) > 0 {
				m.push(frame{kind: frameRepeat, nodes: v.Body, remaining: v.Times})
			}

		case *program.RepeatUntilNode:
			// Pre-check: skip entirely when already true. An empty body
			// can never change the condition, so it is skipped too.
			if len(v.Body) > 0 && !EvalCondition(v.Cond, ctx) {
				m.push(frame{kind: frameUntil, nodes: v.Body, cond: v.Cond})
			}

		case *program.IfNode:
			if EvalCondition(v.Cond, ctx) {
				if len(v.Then) > 0 {
					m.push(frame{kind: frameSeq, nodes: v.Then})
				}
			} else if len(v.Else) > 0 {
				m.push(frame{kind: frameSeq, nodes: v.Else})
			}
		}
	}

	m.Status = StatusStepLimit
	return "", false
}
