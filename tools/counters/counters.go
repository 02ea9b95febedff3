// Package counters encodes double-sided counter boards for shareable links.
//
//	c=p:32,32;p:128,32;n:224,32&so=paired&ct=x
//
// A counter is "p" (+1) or "n" (-1) followed by its position.
package counters

import (
	"strings"

	"github.com/Neumenon/statelink/idgen"
	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamCounters    = "c"
	ParamNumberLine  = "nl"
	ParamStats       = "st"
	ParamSlowMode    = "sl"
	ParamSpeed       = "sp"
	ParamSort        = "so"
	ParamOrdered     = "or"
	ParamCounterType = "ct"
)

// Keys lists every parameter in encoding order.
var Keys = []string{
	ParamCounters, ParamNumberLine, ParamStats, ParamSlowMode,
	ParamSpeed, ParamSort, ParamOrdered, ParamCounterType,
}

// MaxCounters caps the number of counters restored from one link.
const MaxCounters = 500

const (
	counterFields = 2
	posFields     = 2
)

// ============================================================
// Enumerations
// ============================================================

// SortState is how counters are arranged on the board.
type SortState string

const (
	SortNone    SortState = "none"
	SortGrouped SortState = "grouped"
	SortPaired  SortState = "paired"
)

// ParseSortState returns the named sort state, or SortNone for anything else.
func ParseSortState(s string) SortState {
	switch SortState(s) {
	case SortGrouped, SortPaired:
		return SortState(s)
	default:
		return SortNone
	}
}

// CounterType is the face shown on counters.
type CounterType string

const (
	TypeNumeric CounterType = "numeric"
	TypeX       CounterType = "x"
	TypeY       CounterType = "y"
	TypeZ       CounterType = "z"
	TypeA       CounterType = "a"
	TypeB       CounterType = "b"
	TypeC       CounterType = "c"
)

// ParseCounterType returns the named type, or TypeNumeric for anything else.
func ParseCounterType(s string) CounterType {
	switch t := CounterType(s); t {
	case TypeX, TypeY, TypeZ, TypeA, TypeB, TypeC:
		return t
	default:
		return TypeNumeric
	}
}

// ============================================================
// Records
// ============================================================

// Counter is one counter. Value is +1 or -1.
type Counter struct {
	ID    string  `json:"id"`
	Value int     `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// SerializeCounters encodes counters as "p:x,y" or "n:x,y" joined by ';'.
// Any positive value is written as "p", everything else as "n".
func SerializeCounters(counters []Counter) string {
	return urlstate.JoinList(counters, formatCounter, ";")
}

func formatCounter(c Counter) string {
	var b strings.Builder
	if c.Value > 0 {
		b.WriteString("p:")
	} else {
		b.WriteString("n:")
	}
	b.WriteString(urlstate.FormatCoord(c.X))
	b.WriteByte(',')
	b.WriteString(urlstate.FormatCoord(c.Y))
	return b.String()
}

// ParseCounterString decodes a counter list with fresh IDs. Malformed
// counters are dropped.
func ParseCounterString(s string) []Counter {
	return parseCounters(s, nil)
}

var defaultID = idgen.Prefixed("counter-", idgen.Default)

func parseCounters(s string, newID idgen.Generator) []Counter {
	if newID == nil {
		newID = defaultID
	}
	return urlstate.ParseList(s, func(raw string) (Counter, bool) {
		c, ok := parseCounter(raw)
		if ok {
			c.ID = newID()
		}
		return c, ok
	}, urlstate.ListOptions{
		Delimiter:     ";",
		MaxItems:      MaxCounters,
		MaxItemLength: urlstate.MaxRecordLength,
	})
}

func parseCounter(raw string) (Counter, bool) {
	parts, ok := urlstate.SplitFields(raw, ":", counterFields)
	if !ok || len(parts) < counterFields {
		return Counter{}, false
	}
	var c Counter
	switch parts[0] {
	case "p":
		c.Value = 1
	case "n":
		c.Value = -1
	default:
		return Counter{}, false
	}

	pos, ok := urlstate.SplitFields(parts[1], ",", posFields)
	if !ok || len(pos) < posFields {
		return Counter{}, false
	}
	x, ok := urlstate.StrictCoord(pos[0])
	if !ok {
		return Counter{}, false
	}
	y, ok := urlstate.StrictCoord(pos[1])
	if !ok {
		return Counter{}, false
	}
	c.X, c.Y = float64(x), float64(y)
	return c, true
}

// ============================================================
// Serializer
// ============================================================

// State is the restorable board.
type State struct {
	Counters         []Counter   `json:"counters"`
	ShowNumberLine   bool        `json:"showNumberLine"`
	ShowStats        bool        `json:"showStats"`
	IsSequentialMode bool        `json:"isSequentialMode"`
	AnimSpeed        float64     `json:"animSpeed"`
	SortState        SortState   `json:"sortState"`
	IsOrdered        bool        `json:"isOrdered"`
	CounterType      CounterType `json:"counterType"`
}

// Defaults returns the settings used when a link omits them.
func Defaults() State {
	return State{
		ShowStats:   true,
		AnimSpeed:   1000,
		SortState:   SortNone,
		IsOrdered:   true,
		CounterType: TypeNumeric,
	}
}

// Serializer implements urlstate.Serializer for counter boards. Counter IDs
// are minted with NewID, or "counter-" prefixed random IDs when nil.
type Serializer struct {
	NewID idgen.Generator
}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. The animation speed is written
// only in sequential mode.
func (s Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	def := Defaults()

	if v := SerializeCounters(state.Counters); v != "" {
		p.Set(ParamCounters, v)
	}
	if state.ShowNumberLine != def.ShowNumberLine {
		p.Set(ParamNumberLine, urlstate.FormatBool(state.ShowNumberLine))
	}
	if state.ShowStats != def.ShowStats {
		p.Set(ParamStats, urlstate.FormatBool(state.ShowStats))
	}
	if state.IsSequentialMode {
		p.Set(ParamSlowMode, urlstate.FormatBool(true))
		if state.AnimSpeed != def.AnimSpeed {
			p.Set(ParamSpeed, urlstate.FormatNumber(state.AnimSpeed))
		}
	}
	if sort := ParseSortState(string(state.SortState)); sort != def.SortState {
		p.Set(ParamSort, string(sort))
	}
	if state.IsOrdered != def.IsOrdered {
		p.Set(ParamOrdered, urlstate.FormatBool(state.IsOrdered))
	}
	if ct := ParseCounterType(string(state.CounterType)); ct != def.CounterType {
		p.Set(ParamCounterType, string(ct))
	}
	return p
}

// Deserialize implements urlstate.Serializer. Unknown sort states and
// counter types fall back to their defaults.
func (s Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(Keys...) {
		return State{}, false
	}
	def := Defaults()
	counters, _ := p.Get(ParamCounters)
	return State{
		Counters:         parseCounters(counters, s.NewID),
		ShowNumberLine:   urlstate.BoolParam(p, ParamNumberLine, def.ShowNumberLine),
		ShowStats:        urlstate.BoolParam(p, ParamStats, def.ShowStats),
		IsSequentialMode: urlstate.BoolParam(p, ParamSlowMode, def.IsSequentialMode),
		AnimSpeed:        urlstate.NumberParam(p, ParamSpeed, def.AnimSpeed),
		SortState:        ParseSortState(urlstate.StringParam(p, ParamSort, "")),
		IsOrdered:        urlstate.BoolParam(p, ParamOrdered, def.IsOrdered),
		CounterType:      ParseCounterType(urlstate.StringParam(p, ParamCounterType, "")),
	}, true
}
