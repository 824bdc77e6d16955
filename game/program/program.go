package program

import (
	"strings"

	"github.com/wricardo/gridbots/game/engine"
)

// Node is one node of a program tree. The set of implementations is closed:
// ActionNode, RepeatNode, RepeatUntilNode, and IfNode. Trees are immutable
// values; anything extending a program builds new nodes rather than mutating
// shared structure.
type Node interface {
	node()
}

// ActionNode is a leaf emitting one action. ID is an opaque identifier the
// external editor uses for highlighting; the core never interprets it.
type ActionNode struct {
	ID  string
	Act engine.Action
}

// RepeatNode runs its body exactly Times times. Times zero is a no-op.
type RepeatNode struct {
	ID    string
	Times int
	Body  []Node
}

// RepeatUntilNode checks Cond before the first entry, skipping the body
// entirely when already true, then runs the body fully and rechecks.
type RepeatUntilNode struct {
	ID   string
	Cond Condition
	Body []Node
}

// IfNode evaluates Cond once, runs one branch, and never re-enters. Else may
// be nil.
type IfNode struct {
	ID   string
	Cond Condition
	Then []Node
	Else []Node
}

func (*ActionNode) node()      {}
func (*RepeatNode) node()      {}
func (*RepeatUntilNode) node() {}
func (*IfNode) node()          {}

// CondKind identifies a primitive condition.
type CondKind string

const (
	CondAheadClear  CondKind = "ahead_clear"
	CondLeftClear   CondKind = "left_clear"
	CondRightClear  CondKind = "right_clear"
	CondOnGoal      CondKind = "on_goal"
	CondOnPlate     CondKind = "on_plate"
	CondHazardAhead CondKind = "hazard_ahead"
	CondSignalOn    CondKind = "signal_on"
	CondOnRaft      CondKind = "on_raft"
)

// Condition is one node of a boolean condition tree. The set of
// implementations is closed: PrimitiveCond, NotCond, AndCond, OrCond.
type Condition interface {
	cond()
}

// PrimitiveCond is a leaf condition evaluated against the tick context.
type PrimitiveCond struct {
	Kind CondKind
}

// NotCond negates its operand.
type NotCond struct {
	C Condition
}

// AndCond is true when every operand is true.
type AndCond struct {
	Conds []Condition
}

// OrCond is true when any operand is true.
type OrCond struct {
	Conds []Condition
}

func (*PrimitiveCond) cond() {}
func (*NotCond) cond()       {}
func (*AndCond) cond()       {}
func (*OrCond) cond()        {}

// Program is a top-level sequence of nodes.
type Program struct {
	Nodes []Node
}

// FromActions builds a flat program from an action sequence. The solver's
// candidates are all of this shape.
func FromActions(actions []engine.Action) *Program {
	nodes := make([]Node, len(actions))
	for i, a := range actions {
		nodes[i] = &ActionNode{Act: a}
	}
	return &Program{Nodes: nodes}
}

// Extend returns a new program with one more action appended. The existing
// nodes are shared, never mutated.
func (p *Program) Extend(action engine.Action) *Program {
	nodes := make([]Node, 0, len(p.Nodes)+1)
	nodes = append(nodes, p.Nodes...)
	nodes = append(nodes, &ActionNode{Act: action})
	return &Program{Nodes: nodes}
}

// Size returns the total node count of the tree.
func (p *Program) Size() int {
	return sizeNodes(p.Nodes)
}

func sizeNodes(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total++
		switch v := n.(type) {
		case *RepeatNode:
			total += sizeNodes(v.Body)
		case *RepeatUntilNode:
			total += sizeNodes(v.Body)
		case *IfNode:
			total += sizeNodes(v.Then) + sizeNodes(v.Else)
		}
	}
	return total
}

// String renders the program in a compact single-line form for logs.
func (p *Program) String() string {
	var b strings.Builder
	writeNodes(&b, p.Nodes)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch v := n.(type) {
		case *ActionNode:
			b.WriteString(string(v.Act))
		case *RepeatNode:
			b.WriteString("repeat[")
			writeNodes(b, v.Body)
			b.WriteString("]")
		case *RepeatUntilNode:
			b.WriteString("until(")
			b.WriteString(condString(v.Cond))
			b.WriteString(")[")
			writeNodes(b, v.Body)
			b.WriteString("]")
		case *IfNode:
			b.WriteString("if(")
			b.WriteString(condString(v.Cond))
			b.WriteString(")[")
			writeNodes(b, v.Then)
			b.WriteString("]")
			if len(v.Else) > 0 {
				b.WriteString("else[")
				writeNodes(b, v.Else)
				b.WriteString("]")
			}
		}
	}
}

func condString(c Condition) string {
	switch v := c.(type) {
	case *PrimitiveCond:
		return string(v.Kind)
	case *NotCond:
		return "not " + condString(v.C)
	case *AndCond:
		parts := make([]string, len(v.Conds))
		for i, sub := range v.Conds {
			parts[i] = condString(sub)
		}
		return "(" + strings.Join(parts, " and ") + ")"
	case *OrCond:
		parts := make([]string, len(v.Conds))
		for i, sub := range v.Conds {
			parts[i] = condString(sub)
		}
		return "(" + strings.Join(parts, " or ") + ")"
	}
	return "?"
}
