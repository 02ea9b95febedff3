// Package numberline encodes number lines with point markers and jump arcs
// for shareable links.
//
//	min=0&max=20&points=3,start,,|7.5,,%23ef4444,1&arcs=p-1,p-2,%2B4.5
//
// Points are "value,label,color,hidden" joined by '|'; arcs are
// "fromId,toId,label". Text fields are escaped with urlstate.EscapeText.
// Point IDs follow from position ("p-1", "p-2", ...), so arcs refer to
// points by position.
package numberline

import (
	"strconv"
	"strings"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamMin    = "min"
	ParamMax    = "max"
	ParamPoints = "points"
	ParamArcs   = "arcs"
	ParamLabels = "labels"
	ParamHide   = "hide"
	ParamSnap   = "snap"
)

// Keys lists every parameter in encoding order.
var Keys = []string{ParamMin, ParamMax, ParamPoints, ParamArcs, ParamLabels, ParamHide, ParamSnap}

// Caps on restored records.
const (
	MaxPoints = 20
	MaxArcs   = 40
)

const (
	pointFields = 4
	arcFields   = 3
)

// Colors is the palette for points that carry no color.
var Colors = []string{"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899"}

// Point is a marker on the line.
type Point struct {
	ID     string  `json:"id"`
	Value  float64 `json:"value"`
	Label  string  `json:"label,omitempty"`
	Color  string  `json:"color"`
	Hidden bool    `json:"hidden,omitempty"`
}

// Arc is a jump between two points.
type Arc struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Label  string `json:"label,omitempty"`
}

// PointID returns the ID of the point at index i.
func PointID(i int) string {
	return "p-" + strconv.Itoa(i+1)
}

// State is the restorable number line.
type State struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Points      []Point `json:"points"`
	Arcs        []Arc   `json:"arcs"`
	ShowLabels  bool    `json:"showLabels"`
	HideValues  bool    `json:"hideValues"`
	SnapToTicks bool    `json:"snapToTicks"`
}

// Defaults returns the view used when a link omits a setting.
func Defaults() State {
	return State{Min: -10, Max: 10, ShowLabels: true, SnapToTicks: true}
}

// ============================================================
// Points
// ============================================================

// SerializePoints encodes points joined by '|'.
func SerializePoints(points []Point) string {
	return urlstate.JoinList(points, formatPoint, "|")
}

func formatPoint(p Point) string {
	var b strings.Builder
	b.WriteString(urlstate.FormatNumber(p.Value))
	b.WriteByte(',')
	b.WriteString(urlstate.EscapeText(p.Label))
	b.WriteByte(',')
	b.WriteString(urlstate.EscapeText(p.Color))
	b.WriteByte(',')
	if p.Hidden {
		b.WriteString("1")
	}
	return b.String()
}

// ParsePoints decodes at most MaxPoints points. A point without a readable
// value is dropped; a point without a color takes one from Colors.
func ParsePoints(s string) []Point {
	points := urlstate.ParseList(s, parsePoint, urlstate.ListOptions{
		Delimiter:     "|",
		MaxItems:      MaxPoints,
		MaxItemLength: urlstate.MaxRecordLength,
	})
	for i := range points {
		points[i].ID = PointID(i)
		if points[i].Color == "" {
			points[i].Color = Colors[i%len(Colors)]
		}
	}
	return points
}

func parsePoint(raw string) (Point, bool) {
	f, ok := urlstate.SplitFields(raw, ",", pointFields)
	if !ok {
		return Point{}, false
	}
	v, ok := urlstate.LeadingNumber(f[0])
	if !ok {
		return Point{}, false
	}
	p := Point{Value: v}
	if len(f) > 1 {
		p.Label = urlstate.UnescapeText(f[1])
	}
	if len(f) > 2 {
		p.Color = urlstate.UnescapeText(f[2])
	}
	if len(f) > 3 {
		p.Hidden = strings.HasPrefix(f[3], "1")
	}
	return p, true
}

// ============================================================
// Arcs
// ============================================================

// SerializeArcs encodes arcs joined by '|'.
func SerializeArcs(arcs []Arc) string {
	return urlstate.JoinList(arcs, func(a Arc) string {
		return urlstate.EscapeText(a.FromID) + "," + urlstate.EscapeText(a.ToID) + "," + urlstate.EscapeText(a.Label)
	}, "|")
}

// ParseArcs decodes at most MaxArcs arcs. Both endpoints are required.
func ParseArcs(s string) []Arc {
	return urlstate.ParseList(s, func(raw string) (Arc, bool) {
		f, ok := urlstate.SplitFields(raw, ",", arcFields)
		if !ok || len(f) < 2 || f[0] == "" || f[1] == "" {
			return Arc{}, false
		}
		a := Arc{FromID: urlstate.UnescapeText(f[0]), ToID: urlstate.UnescapeText(f[1])}
		if len(f) > 2 {
			a.Label = urlstate.UnescapeText(f[2])
		}
		return a, true
	}, urlstate.ListOptions{
		Delimiter:     "|",
		MaxItems:      MaxArcs,
		MaxItemLength: urlstate.MaxRecordLength,
	})
}

// ============================================================
// Serializer
// ============================================================

// Serializer implements urlstate.Serializer for number lines.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. Arc endpoints naming one of the
// written points are rewritten to that point's positional ID.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	def := Defaults()

	if state.Min != def.Min {
		p.Set(ParamMin, urlstate.FormatNumber(state.Min))
	}
	if state.Max != def.Max {
		p.Set(ParamMax, urlstate.FormatNumber(state.Max))
	}

	points := state.Points
	if len(points) > MaxPoints {
		points = points[:MaxPoints]
	}
	if v := SerializePoints(points); v != "" {
		p.Set(ParamPoints, v)
	}

	ids := make(map[string]string, len(points))
	for i, pt := range points {
		if _, ok := ids[pt.ID]; !ok {
			ids[pt.ID] = PointID(i)
		}
	}
	arcs := make([]Arc, 0, min(len(state.Arcs), MaxArcs))
	for _, a := range state.Arcs {
		if len(arcs) == MaxArcs {
			break
		}
		if id, ok := ids[a.FromID]; ok {
			a.FromID = id
		}
		if id, ok := ids[a.ToID]; ok {
			a.ToID = id
		}
		arcs = append(arcs, a)
	}
	if v := SerializeArcs(arcs); v != "" {
		p.Set(ParamArcs, v)
	}

	if state.ShowLabels != def.ShowLabels {
		p.Set(ParamLabels, urlstate.FormatBool(state.ShowLabels))
	}
	if state.HideValues != def.HideValues {
		p.Set(ParamHide, urlstate.FormatBool(state.HideValues))
	}
	if state.SnapToTicks != def.SnapToTicks {
		p.Set(ParamSnap, urlstate.FormatBool(state.SnapToTicks))
	}
	return p
}

// Deserialize implements urlstate.Serializer.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(Keys...) {
		return State{}, false
	}
	def := Defaults()
	return State{
		Min:         urlstate.NumberParam(p, ParamMin, def.Min),
		Max:         urlstate.NumberParam(p, ParamMax, def.Max),
		Points:      ParsePoints(urlstate.StringParam(p, ParamPoints, "")),
		Arcs:        ParseArcs(urlstate.StringParam(p, ParamArcs, "")),
		ShowLabels:  urlstate.BoolParam(p, ParamLabels, def.ShowLabels),
		HideValues:  urlstate.BoolParam(p, ParamHide, def.HideValues),
		SnapToTicks: urlstate.BoolParam(p, ParamSnap, def.SnapToTicks),
	}, true
}
