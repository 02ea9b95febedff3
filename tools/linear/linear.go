// Package linear encodes linear-equation graphs for shareable links.
//
//	lines=0.5,1|-2,3.25&active=line-2&tri=1&triSize=2
//
// A line is "m,c" for y = mx + c, rounded to two decimals. Line IDs and
// colors are not carried; they follow from each line's position.
package linear

import (
	"math"
	"strconv"
	"strings"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamLines        = "lines"
	ParamActive       = "active"
	ParamEquation     = "eq"
	ParamIntercepts   = "int"
	ParamTriangle     = "tri"
	ParamTriangleSize = "triSize"
	ParamTriangleCalc = "triCalc"
	ParamGrid         = "grid"
)

// Keys lists every parameter in encoding order.
var Keys = []string{
	ParamLines, ParamActive, ParamEquation, ParamIntercepts,
	ParamTriangle, ParamTriangleSize, ParamTriangleCalc, ParamGrid,
}

// MaxLines caps the number of lines restored from one link.
const MaxLines = 10

const lineFields = 2

// Default gradient and intercept for a line whose field is unreadable.
const (
	DefaultM = 0.5
	DefaultC = 1
)

// Colors is the palette assigned to lines by position.
var Colors = []string{"#2563EB", "#DC2626", "#059669", "#D97706", "#8B5CF6"}

// Line is y = M*x + C.
type Line struct {
	ID      string  `json:"id"`
	M       float64 `json:"m"`
	C       float64 `json:"c"`
	Color   string  `json:"color"`
	Visible bool    `json:"visible"`
}

// LineID returns the ID of the line at index i.
func LineID(i int) string {
	return "line-" + strconv.Itoa(i+1)
}

func newLine(i int, m, c float64) Line {
	return Line{ID: LineID(i), M: m, C: c, Color: Colors[i%len(Colors)], Visible: true}
}

// State is the restorable graph.
type State struct {
	Lines                   []Line  `json:"lines"`
	ActiveLineID            string  `json:"activeLineId"`
	ShowEquation            bool    `json:"showEquation"`
	ShowIntercepts          bool    `json:"showIntercepts"`
	ShowSlopeTriangle       bool    `json:"showSlopeTriangle"`
	SlopeTriangleSize       float64 `json:"slopeTriangleSize"`
	ShowGradientCalculation bool    `json:"showGradientCalculation"`
	ShowGrid                bool    `json:"showGrid"`
}

// Defaults returns the graph shown when a link omits a setting: one line
// y = 0.5x + 1.
func Defaults() State {
	return State{
		Lines:             []Line{newLine(0, DefaultM, DefaultC)},
		ActiveLineID:      LineID(0),
		SlopeTriangleSize: 1,
		ShowGrid:          true,
	}
}

// ============================================================
// Field codecs
// ============================================================

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// SerializeLines encodes lines as "m,c" joined by '|'.
func SerializeLines(lines []Line) string {
	return urlstate.JoinList(lines, func(l Line) string {
		return urlstate.FormatNumber(round2(l.M)) + "," + urlstate.FormatNumber(round2(l.C))
	}, "|")
}

// ParseLines decodes at most MaxLines lines. An unreadable gradient or
// intercept takes its default; surplus commas are ignored.
func ParseLines(s string) []Line {
	pairs := urlstate.ParseList(s, func(raw string) ([2]float64, bool) {
		f, ok := urlstate.SplitFields(raw, ",", lineFields)
		if !ok {
			return [2]float64{}, false
		}
		m, ok := urlstate.LeadingNumber(f[0])
		if !ok {
			m = DefaultM
		}
		c := float64(DefaultC)
		if len(f) == lineFields {
			if v, ok := urlstate.LeadingNumber(f[1]); ok {
				c = v
			}
		}
		return [2]float64{m, c}, true
	}, urlstate.ListOptions{
		Delimiter:     "|",
		MaxItems:      MaxLines,
		MaxItemLength: urlstate.MaxRecordLength,
	})

	lines := make([]Line, len(pairs))
	for i, mc := range pairs {
		lines[i] = newLine(i, mc[0], mc[1])
	}
	return lines
}

// ============================================================
// Serializer
// ============================================================

// Serializer implements urlstate.Serializer for linear-equation graphs.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. The line list is omitted when it
// is the default single line; the active line is written by position.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	def := Defaults()

	lines := state.Lines
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	if v := SerializeLines(lines); v != "" && v != SerializeLines(def.Lines) {
		p.Set(ParamLines, v)
	}
	for i, l := range lines {
		if l.ID == state.ActiveLineID && i > 0 {
			p.Set(ParamActive, LineID(i))
		}
	}
	if state.ShowEquation != def.ShowEquation {
		p.Set(ParamEquation, urlstate.FormatBool(state.ShowEquation))
	}
	if state.ShowIntercepts != def.ShowIntercepts {
		p.Set(ParamIntercepts, urlstate.FormatBool(state.ShowIntercepts))
	}
	if state.ShowSlopeTriangle != def.ShowSlopeTriangle {
		p.Set(ParamTriangle, urlstate.FormatBool(state.ShowSlopeTriangle))
	}
	if state.SlopeTriangleSize != def.SlopeTriangleSize {
		p.Set(ParamTriangleSize, urlstate.FormatNumber(state.SlopeTriangleSize))
	}
	if state.ShowGradientCalculation != def.ShowGradientCalculation {
		p.Set(ParamTriangleCalc, urlstate.FormatBool(state.ShowGradientCalculation))
	}
	if state.ShowGrid != def.ShowGrid {
		p.Set(ParamGrid, urlstate.FormatBool(state.ShowGrid))
	}
	return p
}

// Deserialize implements urlstate.Serializer. A missing or empty line list
// restores the default line, and an active ID naming no line selects the
// first one.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(Keys...) {
		return State{}, false
	}
	def := Defaults()

	lines := ParseLines(urlstate.StringParam(p, ParamLines, ""))
	if len(lines) == 0 {
		lines = def.Lines
	}
	active := lines[0].ID
	if v, ok := p.Get(ParamActive); ok {
		for _, l := range lines {
			if l.ID == strings.TrimSpace(v) {
				active = l.ID
			}
		}
	}

	return State{
		Lines:                   lines,
		ActiveLineID:            active,
		ShowEquation:            urlstate.BoolParam(p, ParamEquation, def.ShowEquation),
		ShowIntercepts:          urlstate.BoolParam(p, ParamIntercepts, def.ShowIntercepts),
		ShowSlopeTriangle:       urlstate.BoolParam(p, ParamTriangle, def.ShowSlopeTriangle),
		SlopeTriangleSize:       urlstate.NumberParam(p, ParamTriangleSize, def.SlopeTriangleSize),
		ShowGradientCalculation: urlstate.BoolParam(p, ParamTriangleCalc, def.ShowGradientCalculation),
		ShowGrid:                urlstate.BoolParam(p, ParamGrid, def.ShowGrid),
	}, true
}
