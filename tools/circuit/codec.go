package circuit

import (
	"strconv"
	"strings"

	"github.com/Neumenon/statelink/idgen"
	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamNodes = "n"
	ParamWires = "w"
)

// Keys lists every parameter in encoding order.
var Keys = []string{ParamNodes, ParamWires}

// Field counts for the bounded splits. A node is type:id:pos:label[:state];
// anything after the fifth field stays in the state field.
const (
	nodeFields     = 5
	nodeMinFields  = 4
	posFields      = 2
	wireArrowParts = 2
	wireColonParts = 2
)

// Record caps.
const (
	MaxNodes       = 500
	MaxConnections = 1000
	maxNodeLength  = urlstate.MaxRecordLength
	maxWireLength  = urlstate.MaxRecordLength
)

// ============================================================
// Nodes
// ============================================================

// SerializeNodes encodes nodes as "T:id:x,y:label[:state]" joined by ';'.
// Coordinates are rounded; the state field is written for INPUT nodes only.
func SerializeNodes(nodes []Node) string {
	return urlstate.JoinList(nodes, formatNode, ";")
}

func formatNode(n Node) string {
	var b strings.Builder
	b.WriteString(n.Type.Code())
	b.WriteByte(':')
	b.WriteString(urlstate.EscapeText(n.ID))
	b.WriteByte(':')
	b.WriteString(urlstate.FormatCoord(n.X))
	b.WriteByte(',')
	b.WriteString(urlstate.FormatCoord(n.Y))
	b.WriteByte(':')
	b.WriteString(urlstate.EscapeText(n.Label))
	if n.Type == Input {
		b.WriteByte(':')
		b.WriteString(urlstate.FormatBool(n.State))
	}
	return b.String()
}

// ParseNodeString decodes a node list. Malformed nodes are dropped.
func ParseNodeString(s string) []Node {
	return urlstate.ParseList(s, parseNode, urlstate.ListOptions{
		Delimiter:     ";",
		MaxItems:      MaxNodes,
		MaxItemLength: maxNodeLength,
	})
}

func parseNode(raw string) (Node, bool) {
	fields, ok := urlstate.SplitFields(raw, ":", nodeFields)
	if !ok || len(fields) < nodeMinFields {
		return Node{}, false
	}

	typ, ok := TypeFromCode(fields[0])
	if !ok {
		return Node{}, false
	}
	id := urlstate.UnescapeText(fields[1])
	if id == "" {
		return Node{}, false
	}
	x, y, ok := parsePosition(fields[2])
	if !ok {
		return Node{}, false
	}

	n := Node{
		ID:    id,
		Type:  typ,
		X:     float64(x),
		Y:     float64(y),
		Label: urlstate.UnescapeText(fields[3]),
	}
	if typ == Input && len(fields) == nodeFields {
		v, _ := urlstate.LeadingInt(fields[4])
		n.State = v == 1
	}
	return n, true
}

// parsePosition reads "x,y". A missing y is 0; an unreadable coordinate
// rejects the node.
func parsePosition(s string) (int, int, bool) {
	pos, ok := urlstate.SplitFields(s, ",", posFields)
	if !ok {
		return 0, 0, false
	}
	x, ok := urlstate.ParseCoord(pos[0])
	if !ok {
		return 0, 0, false
	}
	if len(pos) < posFields {
		return x, 0, true
	}
	y, ok := urlstate.ParseCoord(pos[1])
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

// ============================================================
// Connections
// ============================================================

// SerializeConnections encodes connections as "from>to:inputIndex" joined by ';'.
func SerializeConnections(conns []Connection) string {
	return urlstate.JoinList(conns, formatConnection, ";")
}

func formatConnection(c Connection) string {
	return urlstate.EscapeText(c.From) + ">" + urlstate.EscapeText(c.To) + ":" + strconv.Itoa(c.InputIndex)
}

// ParseConnectionString decodes a connection list, minting a fresh ID for
// every connection. Malformed connections are dropped.
func ParseConnectionString(s string) []Connection {
	return parseConnections(s, nil)
}

func parseConnections(s string, newID idgen.Generator) []Connection {
	newID = idgen.Or(newID)
	return urlstate.ParseList(s, func(raw string) (Connection, bool) {
		c, ok := parseConnection(raw)
		if ok {
			c.ID = newID()
		}
		return c, ok
	}, urlstate.ListOptions{
		Delimiter:     ";",
		MaxItems:      MaxConnections,
		MaxItemLength: maxWireLength,
	})
}

func parseConnection(raw string) (Connection, bool) {
	arrow, ok := urlstate.SplitFields(raw, ">", wireArrowParts)
	if !ok || len(arrow) < wireArrowParts {
		return Connection{}, false
	}
	target, ok := urlstate.SplitFields(arrow[1], ":", wireColonParts)
	if !ok || len(target) < wireColonParts {
		return Connection{}, false
	}

	from := urlstate.UnescapeText(arrow[0])
	to := urlstate.UnescapeText(target[0])
	if from == "" || to == "" {
		return Connection{}, false
	}
	idx, ok := urlstate.LeadingInt(target[1])
	if !ok || idx < 0 {
		idx = 0
	}
	return Connection{From: from, To: to, InputIndex: idx}, true
}

// ============================================================
// Serializer
// ============================================================

// Serializer implements urlstate.Serializer for circuit designs. Node IDs
// are carried through; connection IDs are regenerated with NewID
// (idgen.Default when nil).
type Serializer struct {
	NewID idgen.Generator
}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer.
func (s Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	if v := SerializeNodes(state.Nodes); v != "" {
		p.Set(ParamNodes, v)
	}
	if v := SerializeConnections(state.Connections); v != "" {
		p.Set(ParamWires, v)
	}
	return p
}

// Deserialize implements urlstate.Serializer.
func (s Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(ParamNodes, ParamWires) {
		return State{}, false
	}
	nodes, _ := p.Get(ParamNodes)
	wires, _ := p.Get(ParamWires)
	return State{
		Nodes:       ParseNodeString(nodes),
		Connections: parseConnections(wires, s.NewID),
	}, true
}
