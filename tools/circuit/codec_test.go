package circuit

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Neumenon/statelink/idgen"
	"github.com/Neumenon/statelink/urlstate"
)

func TestSerializeNodes(t *testing.T) {
	nodes := []Node{
		{ID: "n1", Type: Input, X: 40.4, Y: 99.5, Label: "A", State: true},
		{ID: "n2", Type: And, X: 100, Y: 100, Label: "Gate"},
		{ID: "n3", Type: Or, X: -3, Y: 7, Label: ""},
	}
	got := SerializeNodes(nodes)
	want := "I:n1:40,100:A:1;A:n2:100,100:Gate;R:n3:-3,7:"
	if got != want {
		t.Errorf("SerializeNodes:\n  got:  %s\n  want: %s", got, want)
	}
}

func TestParseNodeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Node
	}{
		{
			name:  "input with state",
			input: "I:n1:10,20:Switch:1",
			want:  []Node{{ID: "n1", Type: Input, X: 10, Y: 20, Label: "Switch", State: true}},
		},
		{
			name:  "gate without state",
			input: "X:g:5,6:xor",
			want:  []Node{{ID: "g", Type: Xor, X: 5, Y: 6, Label: "xor"}},
		},
		{
			name:  "state ignored on non-input",
			input: "O:o:1,1:out:1",
			want:  []Node{{ID: "o", Type: Output, X: 1, Y: 1, Label: "out"}},
		},
		{
			name:  "missing y defaults to zero",
			input: "N:n:7:not",
			want:  []Node{{ID: "n", Type: Not, X: 7, Y: 0, Label: "not"}},
		},
		{
			name:  "unknown type dropped",
			input: "Z:n1:0,0:bad;A:n2:0,0:ok",
			want:  []Node{{ID: "n2", Type: And, Label: "ok"}},
		},
		{
			name:  "too few fields dropped",
			input: "A:n1:0,0",
			want:  nil,
		},
		{
			name:  "bad coordinate dropped",
			input: "A:n1:x,0:label",
			want:  nil,
		},
		{
			name:  "empty id dropped",
			input: "A::0,0:label",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNodeString(tt.input)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseNodeString(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseNodeString_TrailingDelimiters(t *testing.T) {
	got := ParseNodeString("A:n1:100,100:Label" + strings.Repeat(":", 100))
	if len(got) != 1 {
		t.Fatalf("expected 1 node, got %d", len(got))
	}
	if got[0].ID != "n1" || got[0].Label != "Label" {
		t.Errorf("unexpected node: %+v", got[0])
	}
}

func TestParseNodeString_LegacyPercent(t *testing.T) {
	got := ParseNodeString("I:n3:100,100:50%")
	if len(got) != 1 {
		t.Fatalf("expected 1 node, got %d", len(got))
	}
	if got[0].Label != "50%" {
		t.Errorf("label = %q, want %q", got[0].Label, "50%")
	}
}

func TestNodeLabelInjection(t *testing.T) {
	for _, label := range []string{
		"Normal;I:fake:200,200:Injected",
		"Hello:World",
		"a>b:1",
		"100% & more, really",
		"日本語",
	} {
		t.Run(label, func(t *testing.T) {
			node := Node{ID: "n1", Type: And, X: 100, Y: 100, Label: label}
			encoded := SerializeNodes([]Node{node})
			if strings.Contains(encoded, ";") {
				t.Fatalf("encoded node contains a record delimiter: %s", encoded)
			}
			parsed := ParseNodeString(encoded)
			if len(parsed) != 1 {
				t.Fatalf("expected exactly 1 node, got %d", len(parsed))
			}
			if parsed[0].Label != label {
				t.Errorf("label = %q, want %q", parsed[0].Label, label)
			}
		})
	}
}

func TestParseNodeString_OversizedRecord(t *testing.T) {
	huge := "A:big:0,0:" + strings.Repeat("A", 2100)
	input := "I:a:1,1:x:0;" + huge + ";O:b:2,2:y"
	got := ParseNodeString(input)
	if len(got) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("unexpected siblings: %+v", got)
	}
	if len(ParseNodeString(huge)) != 0 {
		t.Error("oversized record alone should decode to nothing")
	}
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Connection
	}{
		{"basic", "n1>n2:0;n3>n2:1", []Connection{
			{From: "n1", To: "n2", InputIndex: 0},
			{From: "n3", To: "n2", InputIndex: 1},
		}},
		{"trailing colons", "n1>n2:0" + strings.Repeat(":", 100), []Connection{
			{From: "n1", To: "n2", InputIndex: 0},
		}},
		{"trailing arrows", "n1>n2:0" + strings.Repeat(">", 100), []Connection{
			{From: "n1", To: "n2", InputIndex: 0},
		}},
		{"bad index defaults to zero", "n1>n2:x", []Connection{
			{From: "n1", To: "n2", InputIndex: 0},
		}},
		{"missing arrow", "n1n2:0", nil},
		{"missing index", "n1>n2", nil},
		{"empty endpoint", ">n2:0", nil},
	}

	ignoreID := cmpopts.IgnoreFields(Connection{}, "ID")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseConnectionString(tt.input)
			if diff := cmp.Diff(tt.want, got, ignoreID, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			for _, c := range got {
				if c.ID == "" {
					t.Error("connection ID was not regenerated")
				}
			}
		})
	}
}

func TestSerializer_RoundTrip(t *testing.T) {
	state := State{
		Nodes: []Node{
			{ID: "in1", Type: Input, X: 50, Y: 50, Label: "A", State: true},
			{ID: "in2", Type: Input, X: 50, Y: 150, Label: "B"},
			{ID: "g1", Type: Xor, X: 200, Y: 100, Label: "sum: A ⊕ B"},
			{ID: "out", Type: Output, X: 350, Y: 100, Label: "S"},
		},
		Connections: []Connection{
			{ID: "c1", From: "in1", To: "g1", InputIndex: 0},
			{ID: "c2", From: "in2", To: "g1", InputIndex: 1},
			{ID: "c3", From: "g1", To: "out", InputIndex: 0},
		},
	}

	s := Serializer{NewID: idgen.Sequence("wire-")}
	params := s.Serialize(state)
	if diff := cmp.Diff([]string{ParamNodes, ParamWires}, params.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	got, ok := s.Deserialize(urlstate.ParseParams(params.Encode()))
	if !ok {
		t.Fatal("Deserialize reported nothing to restore")
	}
	if diff := cmp.Diff(state, got, cmpopts.IgnoreFields(Connection{}, "ID")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.Connections[0].ID != "wire-1" {
		t.Errorf("expected regenerated ID wire-1, got %q", got.Connections[0].ID)
	}
}

func TestSerializer_Deterministic(t *testing.T) {
	state := State{Nodes: []Node{{ID: "n1", Type: Not, X: 1.2, Y: 3.7, Label: "x y"}}}
	a := Serializer{}.Serialize(state).Encode()
	b := Serializer{}.Serialize(state).Encode()
	if a != b {
		t.Errorf("non-deterministic output: %q vs %q", a, b)
	}
}

func TestSerializer_EmptyParams(t *testing.T) {
	if _, ok := (Serializer{}).Deserialize(nil); ok {
		t.Error("expected nothing to restore from empty params")
	}
	if p := (Serializer{}).Serialize(State{}); p.Len() != 0 {
		t.Errorf("empty state should serialize to no params, got %q", p.Encode())
	}

	var p urlstate.Params
	p.Set(ParamWires, "")
	got, ok := Serializer{}.Deserialize(p)
	if !ok {
		t.Fatal("present but empty parameter should still restore")
	}
	if len(got.Nodes) != 0 || len(got.Connections) != 0 {
		t.Errorf("expected empty state, got %+v", got)
	}
}

func TestNodeType(t *testing.T) {
	for _, typ := range Types {
		back, ok := TypeFromCode(typ.Code())
		if !ok || back != typ {
			t.Errorf("%s: code %q does not map back", typ, typ.Code())
		}
		named, ok := ParseNodeType(typ.String())
		if !ok || named != typ {
			t.Errorf("%s: name does not map back", typ)
		}
	}
	for _, bad := range []string{"", "constructor", "__proto__", "toString", "a", "II"} {
		if _, ok := TypeFromCode(bad); ok {
			t.Errorf("TypeFromCode(%q) accepted", bad)
		}
	}
	if NodeType(0).Valid() || NodeType(99).Valid() {
		t.Error("out-of-range node types reported valid")
	}
}
