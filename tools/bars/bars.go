// Package bars encodes bar-model diagrams for shareable links.
//
//	b=0:Total,100,50,300;2:,100,120,150
//
// Bar labels are escaped with urlstate.EscapeText and may be empty.
package bars

import (
	"strconv"
	"strings"

	"github.com/Neumenon/statelink/idgen"
	"github.com/Neumenon/statelink/urlstate"
)

// ParamBars is the only parameter.
const ParamBars = "b"

// Keys lists every parameter.
var Keys = []string{ParamBars}

// MaxBars caps the number of bars restored from one link.
const MaxBars = 500

// A bar is "colorIndex:label,x,y,width".
const (
	colorFields = 2
	bodyFields  = 4
)

// Bar is one block of the model.
type Bar struct {
	ID         string  `json:"id"`
	ColorIndex int     `json:"colorIndex"`
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
}

// State is the restorable diagram.
type State struct {
	Bars []Bar `json:"bars"`
}

// SerializeBars encodes bars joined by ';'. Geometry is rounded.
func SerializeBars(bars []Bar) string {
	return urlstate.JoinList(bars, formatBar, ";")
}

func formatBar(b Bar) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(b.ColorIndex))
	sb.WriteByte(':')
	sb.WriteString(urlstate.EscapeText(b.Label))
	sb.WriteByte(',')
	sb.WriteString(urlstate.FormatCoord(b.X))
	sb.WriteByte(',')
	sb.WriteString(urlstate.FormatCoord(b.Y))
	sb.WriteByte(',')
	sb.WriteString(urlstate.FormatCoord(b.Width))
	return sb.String()
}

// ParseBarsString decodes a bar list with fresh IDs. Malformed bars are
// dropped.
func ParseBarsString(s string) []Bar {
	return parseBars(s, nil)
}

var defaultID = idgen.Prefixed("bar-", idgen.Default)

func parseBars(s string, newID idgen.Generator) []Bar {
	if newID == nil {
		newID = defaultID
	}
	return urlstate.ParseList(s, func(raw string) (Bar, bool) {
		b, ok := parseBar(raw)
		if ok {
			b.ID = newID()
		}
		return b, ok
	}, urlstate.ListOptions{
		Delimiter:     ";",
		MaxItems:      MaxBars,
		MaxItemLength: urlstate.MaxRecordLength,
	})
}

func parseBar(raw string) (Bar, bool) {
	head, ok := urlstate.SplitFields(raw, ":", colorFields)
	if !ok || len(head) < colorFields {
		return Bar{}, false
	}
	color, ok := urlstate.LeadingInt(head[0])
	if !ok || color < 0 {
		return Bar{}, false
	}

	// Surplus commas stay in the width field and end its digits.
	body, ok := urlstate.SplitFields(head[1], ",", bodyFields)
	if !ok || len(body) != bodyFields {
		return Bar{}, false
	}
	var geom [bodyFields - 1]int
	for i, f := range body[1:] {
		n, ok := urlstate.ParseCoord(f)
		if !ok {
			return Bar{}, false
		}
		geom[i] = n
	}

	return Bar{
		ColorIndex: color,
		Label:      urlstate.UnescapeText(body[0]),
		X:          float64(geom[0]),
		Y:          float64(geom[1]),
		Width:      float64(geom[2]),
	}, true
}

// Serializer implements urlstate.Serializer for bar models. Bar IDs are
// minted with NewID, or "bar-" prefixed random IDs when nil.
type Serializer struct {
	NewID idgen.Generator
}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer.
func (s Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	if v := SerializeBars(state.Bars); v != "" {
		p.Set(ParamBars, v)
	}
	return p
}

// Deserialize implements urlstate.Serializer.
func (s Serializer) Deserialize(p urlstate.Params) (State, bool) {
	v, ok := p.Get(ParamBars)
	if !ok {
		return State{}, false
	}
	return State{Bars: parseBars(v, s.NewID)}, true
}
