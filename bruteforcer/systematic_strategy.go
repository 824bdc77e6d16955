package main

import (
	"fmt"
	"log"
	"strings"
)

// Node is one block of a program in the server's JSON wire format.
type Node map[string]interface{}

func act(name string) Node {
	return Node{"type": "action", "action": name}
}

func until(cond Node, body ...Node) Node {
	return Node{"type": "repeat_until", "cond": cond, "body": body}
}

func ifNode(cond Node, then []Node, elseBody []Node) Node {
	n := Node{"type": "if", "cond": cond, "then": then}
	if len(elseBody) > 0 {
		n["else"] = elseBody
	}
	return n
}

func cond(kind string) Node {
	return Node{"type": kind}
}

func not(c Node) Node {
	return Node{"type": "not", "cond": c}
}

// SystematicStrategy enumerates candidate programs in a fixed order: a small
// set of hand-written loop templates first (these solve most corridor-style
// levels in a handful of attempts), then every flat action sequence by
// increasing length with obviously wasteful sequences pruned.
type SystematicStrategy struct {
	maxDepth  int
	templates []Program
	tmplIndex int

	// Flat enumeration state: current depth and the per-position action
	// indices of the last emitted sequence.
	depth   int
	indices []int
}

// Program is a candidate as a node list plus a short label for logs.
type Program struct {
	Nodes []Node
	Label string
}

// flatActions is the alphabet for flat enumeration. Signal actions are
// excluded here: on single-robot levels they only waste ticks, and the
// templates cover the signalling patterns that matter.
var flatActions = []string{"advance", "turn_left", "turn_right", "wait"}

func NewSystematicStrategy(maxDepth int) *SystematicStrategy {
	s := &SystematicStrategy{
		maxDepth: maxDepth,
		depth:    0,
	}

	// Loop templates, roughly in order of how often they solve a level.
	walk := until(cond("on_goal"), act("advance"))
	wallFollowRight := until(cond("on_goal"),
		ifNode(cond("ahead_clear"),
			[]Node{act("advance")},
			[]Node{act("turn_right")}),
	)
	wallFollowLeft := until(cond("on_goal"),
		ifNode(cond("ahead_clear"),
			[]Node{act("advance")},
			[]Node{act("turn_left")}),
	)
	hugRight := until(cond("on_goal"),
		ifNode(cond("right_clear"),
			[]Node{act("turn_right"), act("advance")},
			[]Node{ifNode(cond("ahead_clear"),
				[]Node{act("advance")},
				[]Node{act("turn_left")})}),
	)
	hugLeft := until(cond("on_goal"),
		ifNode(cond("left_clear"),
			[]Node{act("turn_left"), act("advance")},
			[]Node{ifNode(cond("ahead_clear"),
				[]Node{act("advance")},
				[]Node{act("turn_right")})}),
	)
	cautiousWalk := until(cond("on_goal"),
		ifNode(not(cond("hazard_ahead")),
			[]Node{ifNode(cond("ahead_clear"),
				[]Node{act("advance")},
				[]Node{act("turn_right")})},
			[]Node{act("turn_right")}),
	)

	s.templates = []Program{
		{Nodes: []Node{walk}, Label: "walk-to-goal"},
		{Nodes: []Node{wallFollowRight}, Label: "wall-follow-right"},
		{Nodes: []Node{wallFollowLeft}, Label: "wall-follow-left"},
		{Nodes: []Node{hugRight}, Label: "hug-right-wall"},
		{Nodes: []Node{hugLeft}, Label: "hug-left-wall"},
		{Nodes: []Node{cautiousWalk}, Label: "cautious-walk"},
	}

	log.Printf("📊 Systematic Strategy: %d templates, then flat sequences to depth %d",
		len(s.templates), maxDepth)

	return s
}

// Next returns the next candidate program, or false when the enumeration is
// exhausted.
func (s *SystematicStrategy) Next() ([]Node, bool) {
	if s.tmplIndex < len(s.templates) {
		t := s.templates[s.tmplIndex]
		s.tmplIndex++
		log.Printf("🧭 Trying template: %s", t.Label)
		return t.Nodes, true
	}

	for {
		if !s.advanceIndices() {
			return nil, false
		}
		if s.worthTrying() {
			nodes := make([]Node, len(s.indices))
			for i, idx := range s.indices {
				nodes[i] = act(flatActions[idx])
			}
			return nodes, true
		}
	}
}

// advanceIndices steps the flat enumeration like an odometer, growing the
// sequence length when the current depth rolls over.
func (s *SystematicStrategy) advanceIndices() bool {
	if s.depth == 0 {
		if s.maxDepth < 1 {
			return false
		}
		s.depth = 1
		s.indices = []int{0}
		return true
	}

	for pos := s.depth - 1; pos >= 0; pos-- {
		s.indices[pos]++
		if s.indices[pos] < len(flatActions) {
			return true
		}
		s.indices[pos] = 0
	}

	// Rolled over: next depth
	s.depth++
	if s.depth > s.maxDepth {
		return false
	}
	s.indices = make([]int, s.depth)
	return true
}

// worthTrying prunes sequences that provably waste ticks: a turn immediately
// undone, three turns the same way (a single opposite turn is shorter), a
// leading wait, or no advance at all.
func (s *SystematicStrategy) worthTrying() bool {
	const (
		advance = 0
		left    = 1
		right   = 2
		wait    = 3
	)

	hasAdvance := false
	for _, idx := range s.indices {
		if idx == advance {
			hasAdvance = true
			break
		}
	}
	if !hasAdvance {
		return false
	}

	if s.indices[0] == wait {
		return false
	}

	for i := 1; i < len(s.indices); i++ {
		a, b := s.indices[i-1], s.indices[i]
		if (a == left && b == right) || (a == right && b == left) {
			return false
		}
	}

	for i := 2; i < len(s.indices); i++ {
		if s.indices[i] == s.indices[i-1] && s.indices[i] == s.indices[i-2] &&
			(s.indices[i] == left || s.indices[i] == right) {
			return false
		}
	}

	return true
}

// describeProgram renders a short label for logging. Template programs keep
// their names; flat sequences list their actions.
func describeProgram(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n["type"] == "action" {
			parts = append(parts, fmt.Sprintf("%v", n["action"]))
		} else {
			parts = append(parts, fmt.Sprintf("%v(...)", n["type"]))
		}
	}
	return strings.Join(parts, " ")
}
