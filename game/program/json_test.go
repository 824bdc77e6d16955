package program

import (
	"encoding/json"
	"testing"

	"github.com/wricardo/gridbots/game/engine"
)

func TestDecode_NestedTree(t *testing.T) {
	data := []byte(`[
		{"type":"action","action":"advance","id":"b1"},
		{"type":"repeat","times":3,"body":[
			{"type":"if","cond":{"type":"ahead_clear"},
				"then":[{"type":"action","action":"advance"}],
				"else":[{"type":"action","action":"turn_left"}]}
		]},
		{"type":"repeat_until",
			"cond":{"type":"or","conds":[{"type":"on_goal"},{"type":"not","cond":{"type":"ahead_clear"}}]},
			"body":[{"type":"action","action":"advance"}]}
	]`)

	p, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Nodes) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(p.Nodes))
	}

	action, ok := p.Nodes[0].(*ActionNode)
	if !ok || action.Act != engine.ActionAdvance || action.ID != "b1" {
		t.Errorf("node 0 = %#v, want advance with id b1", p.Nodes[0])
	}

	repeat, ok := p.Nodes[1].(*RepeatNode)
	if !ok || repeat.Times != 3 || len(repeat.Body) != 1 {
		t.Fatalf("node 1 = %#v, want repeat x3 with one child", p.Nodes[1])
	}
	branch, ok := repeat.Body[0].(*IfNode)
	if !ok || len(branch.Then) != 1 || len(branch.Else) != 1 {
		t.Errorf("repeat body should hold an if with both branches, got %#v", repeat.Body[0])
	}

	until, ok := p.Nodes[2].(*RepeatUntilNode)
	if !ok {
		t.Fatalf("node 2 = %#v, want repeat_until", p.Nodes[2])
	}
	or, ok := until.Cond.(*OrCond)
	if !ok || len(or.Conds) != 2 {
		t.Fatalf("until condition should be a 2-way or, got %#v", until.Cond)
	}
	if _, ok := or.Conds[1].(*NotCond); !ok {
		t.Errorf("second operand should be a not, got %#v", or.Conds[1])
	}
}

func TestDecode_Rejections(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not an array", `{"type":"action","action":"advance"}`},
		{"unknown node type", `[{"type":"teleport"}]`},
		{"unknown action", `[{"type":"action","action":"fly"}]`},
		{"repeat without times", `[{"type":"repeat","body":[]}]`},
		{"repeat negative times", `[{"type":"repeat","times":-1,"body":[]}]`},
		{"if without condition", `[{"type":"if","then":[]}]`},
		{"unknown condition", `[{"type":"if","cond":{"type":"moon_phase"},"then":[]}]`},
		{"empty and", `[{"type":"if","cond":{"type":"and","conds":[]},"then":[]}]`},
		{"nested bad node", `[{"type":"repeat","times":2,"body":[{"type":"bogus"}]}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.data)); err == nil {
				t.Errorf("expected decode error for %s", tc.name)
			}
		})
	}
}

func TestProgramJSONRoundTrip(t *testing.T) {
	src := []byte(`[
		{"type":"action","action":"advance","id":"b1"},
		{"type":"repeat_until",
			"cond":{"type":"and","conds":[{"type":"on_plate"},{"type":"signal_on"}]},
			"body":[{"type":"action","action":"wait"}]}
	]`)

	first, err := Decode(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var second Program
	if err := json.Unmarshal(encoded, &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("round trip changed the program:\n%s\n%s", first, &second)
	}
	if second.Nodes[0].(*ActionNode).ID != "b1" {
		t.Error("round trip dropped the editor id")
	}
}
