package program

import (
	"encoding/json"
	"fmt"

	"github.com/wricardo/gridbots/game/engine"
)

// JSON wire format for program trees as emitted by the external block
// editor. A program is an array of node objects; every node object carries a
// "type" discriminator and an optional opaque "id".
//
//	{"type":"action","action":"advance","id":"b1"}
//	{"type":"repeat","times":3,"body":[...]}
//	{"type":"repeat_until","cond":{...},"body":[...]}
//	{"type":"if","cond":{...},"then":[...],"else":[...]}
//
// Conditions use the same shape: primitives are {"type":"ahead_clear"} etc.,
// combinators are {"type":"not","cond":{...}} and
// {"type":"and"|"or","conds":[...]}.
//
// Unknown kinds are rejected at decode time; downstream code can therefore
// treat trees as well-formed by construction.

type rawNode struct {
	Type   string            `json:"type"`
	ID     string            `json:"id,omitempty"`
	Action engine.Action     `json:"action,omitempty"`
	Times  *int              `json:"times,omitempty"`
	Cond   json.RawMessage   `json:"cond,omitempty"`
	Body   []json.RawMessage `json:"body,omitempty"`
	Then   []json.RawMessage `json:"then,omitempty"`
	Else   []json.RawMessage `json:"else,omitempty"`
}

type rawCond struct {
	Type  string            `json:"type"`
	Cond  json.RawMessage   `json:"cond,omitempty"`
	Conds []json.RawMessage `json:"conds,omitempty"`
}

var primitiveKinds = map[string]CondKind{
	string(CondAheadClear):  CondAheadClear,
	string(CondLeftClear):   CondLeftClear,
	string(CondRightClear):  CondRightClear,
	string(CondOnGoal):      CondOnGoal,
	string(CondOnPlate):     CondOnPlate,
	string(CondHazardAhead): CondHazardAhead,
	string(CondSignalOn):    CondSignalOn,
	string(CondOnRaft):      CondOnRaft,
}

// Decode parses a JSON program tree.
func Decode(data []byte) (*Program, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("program: expected a JSON array of nodes: %w", err)
	}
	nodes, err := decodeNodes(raws)
	if err != nil {
		return nil, err
	}
	return &Program{Nodes: nodes}, nil
}

func decodeNodes(raws []json.RawMessage) ([]Node, error) {
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(data json.RawMessage) (Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("program: malformed node: %w", err)
	}

	switch raw.Type {
	case "action":
		if !raw.Action.Valid() {
			return nil, fmt.Errorf("program: unknown action %q", raw.Action)
		}
		return &ActionNode{ID: raw.ID, Act: raw.Action}, nil

	case "repeat":
		if raw.Times == nil || *raw.Times < 0 {
			return nil, fmt.Errorf("program: repeat needs a non-negative times count")
		}
		body, err := decodeNodes(raw.Body)
		if err != nil {
			return nil, err
		}
		return &RepeatNode{ID: raw.ID, Times: *raw.Times, Body: body}, nil

	case "repeat_until":
		cond, err := DecodeCondition(raw.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeNodes(raw.Body)
		if err != nil {
			return nil, err
		}
		return &RepeatUntilNode{ID: raw.ID, Cond: cond, Body: body}, nil

	case "if":
		cond, err := DecodeCondition(raw.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeNodes(raw.Then)
		if err != nil {
			return nil, err
		}
		elseBody, err := decodeNodes(raw.Else)
		if err != nil {
			return nil, err
		}
		return &IfNode{ID: raw.ID, Cond: cond, Then: then, Else: elseBody}, nil
	}

	return nil, fmt.Errorf("program: unknown node type %q", raw.Type)
}

// DecodeCondition parses a JSON condition tree.
func DecodeCondition(data json.RawMessage) (Condition, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("program: missing condition")
	}

	var raw rawCond
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("program: malformed condition: %w", err)
	}

	if kind, ok := primitiveKinds[raw.Type]; ok {
		return &PrimitiveCond{Kind: kind}, nil
	}

	switch raw.Type {
	case "not":
		inner, err := DecodeCondition(raw.Cond)
		if err != nil {
			return nil, err
		}
		return &NotCond{C: inner}, nil

	case "and", "or":
		if len(raw.Conds) == 0 {
			return nil, fmt.Errorf("program: %s needs at least one operand", raw.Type)
		}
		conds := make([]Condition, 0, len(raw.Conds))
		for _, sub := range raw.Conds {
			c, err := DecodeCondition(sub)
			if err != nil {
				return nil, err
			}
			conds = append(conds, c)
		}
		if raw.Type == "and" {
			return &AndCond{Conds: conds}, nil
		}
		return &OrCond{Conds: conds}, nil
	}

	return nil, fmt.Errorf("program: unknown condition type %q", raw.Type)
}

// MarshalJSON renders the program back into the wire format.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeNodes(p.Nodes))
}

// UnmarshalJSON parses the wire format in place.
func (p *Program) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	p.Nodes = decoded.Nodes
	return nil
}

func encodeNodes(nodes []Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, encodeNode(n))
	}
	return out
}

func encodeNode(n Node) map[string]any {
	switch v := n.(type) {
	case *ActionNode:
		m := map[string]any{"type": "action", "action": v.Act}
		if v.ID != "" {
			m["id"] = v.ID
		}
		return m
	case *RepeatNode:
		m := map[string]any{"type": "repeat", "times": v.Times, "body": encodeNodes(v.Body)}
		if v.ID != "" {
			m["id"] = v.ID
		}
		return m
	case *RepeatUntilNode:
		m := map[string]any{"type": "repeat_until", "cond": encodeCond(v.Cond), "body": encodeNodes(v.Body)}
		if v.ID != "" {
			m["id"] = v.ID
		}
		return m
	case *IfNode:
		m := map[string]any{"type": "if", "cond": encodeCond(v.Cond), "then": encodeNodes(v.Then)}
		if len(v.Else) > 0 {
			m["else"] = encodeNodes(v.Else)
		}
		if v.ID != "" {
			m["id"] = v.ID
		}
		return m
	}
	panic(fmt.Sprintf("program: unknown node type %T", n))
}

func encodeCond(c Condition) map[string]any {
	switch v := c.(type) {
	case *PrimitiveCond:
		return map[string]any{"type": string(v.Kind)}
	case *NotCond:
		return map[string]any{"type": "not", "cond": encodeCond(v.C)}
	case *AndCond:
		conds := make([]map[string]any, len(v.Conds))
		for i, sub := range v.Conds {
			conds[i] = encodeCond(sub)
		}
		return map[string]any{"type": "and", "conds": conds}
	case *OrCond:
		conds := make([]map[string]any, len(v.Conds))
		for i, sub := range v.Conds {
			conds[i] = encodeCond(sub)
		}
		return map[string]any{"type": "or", "conds": conds}
	}
	panic(fmt.Sprintf("program: unknown condition type %T", c))
}
