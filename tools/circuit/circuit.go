// Package circuit encodes logic-circuit designs for shareable links.
//
// Nodes travel in parameter "n" and wires in parameter "w":
//
//	n=A:n1:100,200:Gate;I:n2:40,200:In:1
//	w=n2>n1:0
//
// Node labels and identifiers are escaped with urlstate.EscapeText, so a label
// can never contain a structural delimiter.
package circuit

import (
	"fmt"
)

// NodeType is the kind of a circuit component.
type NodeType uint8

const (
	Input NodeType = iota + 1
	Output
	And
	Or
	Not
	Xor
)

// Types lists every node type in code order.
var Types = []NodeType{Input, Output, And, Or, Not, Xor}

// String returns the component name used by the designer, e.g. "AND".
func (t NodeType) String() string {
	switch t {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	case Xor:
		return "XOR"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
}

// Code returns the single-character wire code. OR uses 'R' because 'O' is
// taken by OUTPUT.
func (t NodeType) Code() string {
	switch t {
	case Input:
		return "I"
	case Output:
		return "O"
	case And:
		return "A"
	case Or:
		return "R"
	case Not:
		return "N"
	case Xor:
		return "X"
	default:
		return ""
	}
}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	return t.Code() != ""
}

// TypeFromCode maps a wire code back to its NodeType.
func TypeFromCode(code string) (NodeType, bool) {
	switch code {
	case "I":
		return Input, true
	case "O":
		return Output, true
	case "A":
		return And, true
	case "R":
		return Or, true
	case "N":
		return Not, true
	case "X":
		return Xor, true
	default:
		return 0, false
	}
}

// ParseNodeType maps a component name such as "XOR" to its NodeType.
func ParseNodeType(name string) (NodeType, bool) {
	switch name {
	case "INPUT":
		return Input, true
	case "OUTPUT":
		return Output, true
	case "AND":
		return And, true
	case "OR":
		return Or, true
	case "NOT":
		return Not, true
	case "XOR":
		return Xor, true
	default:
		return 0, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("circuit: invalid node type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(text []byte) error {
	v, ok := ParseNodeType(string(text))
	if !ok {
		return fmt.Errorf("circuit: unknown node type %q", text)
	}
	*t = v
	return nil
}

// Node is one placed component.
type Node struct {
	ID    string   `json:"id"`
	Type  NodeType `json:"type"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Label string   `json:"label"`
	State bool     `json:"state,omitempty"` // INPUT only
}

// Connection wires the output of From into input InputIndex of To.
type Connection struct {
	ID         string `json:"id"`
	From       string `json:"from"`
	To         string `json:"to"`
	InputIndex int    `json:"inputIndex"`
}

// State is everything the designer restores from a link.
type State struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}
