// Package fractionwall encodes fraction walls for shareable links.
//
//	v=2;3;6&s=2:0;6:3&l=p&e=1&c=2:0,6:3
//
// A segment is "denominator:index" with 1 <= denominator <= MaxDenominator
// and 0 <= index < denominator.
package fractionwall

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamVisible     = "v"
	ParamShaded      = "s"
	ParamLabels      = "l"
	ParamEquivalence = "e"
	ParamCompare     = "c"
)

// Keys lists every parameter in encoding order.
var Keys = []string{ParamVisible, ParamShaded, ParamLabels, ParamEquivalence, ParamCompare}

// MaxDenominator is the largest row the wall draws.
const MaxDenominator = 20

const (
	segmentFields = 2
	pairFields    = 2
)

// LabelMode is how segments are labelled.
type LabelMode string

const (
	LabelFraction LabelMode = "fraction"
	LabelDecimal  LabelMode = "decimal"
	LabelPercent  LabelMode = "percent"
	LabelNone     LabelMode = "none"
)

// code is the one-letter form written into links.
func (m LabelMode) code() string {
	switch m {
	case LabelDecimal:
		return "d"
	case LabelPercent:
		return "p"
	case LabelNone:
		return "n"
	default:
		return "f"
	}
}

// ParseLabelMode decodes a one-letter code; anything unknown is
// LabelFraction.
func ParseLabelMode(code string) LabelMode {
	switch code {
	case "d":
		return LabelDecimal
	case "p":
		return LabelPercent
	case "n":
		return LabelNone
	default:
		return LabelFraction
	}
}

// Segment is the Index-th piece of the 1/Denominator row.
type Segment struct {
	Denominator int `json:"d"`
	Index       int `json:"i"`
}

// Valid reports whether s lies on the wall.
func (s Segment) Valid() bool {
	return s.Denominator >= 1 && s.Denominator <= MaxDenominator && s.Index >= 0 && s.Index < s.Denominator
}

// String returns "d:i".
func (s Segment) String() string {
	return strconv.Itoa(s.Denominator) + ":" + strconv.Itoa(s.Index)
}

// ParseSegment decodes "d:i", rejecting segments off the wall.
func ParseSegment(raw string) (Segment, bool) {
	f, ok := urlstate.SplitFields(raw, ":", segmentFields)
	if !ok || len(f) < segmentFields {
		return Segment{}, false
	}
	d, ok := urlstate.StrictInt(f[0])
	if !ok {
		return Segment{}, false
	}
	i, ok := urlstate.StrictInt(f[1])
	if !ok {
		return Segment{}, false
	}
	s := Segment{Denominator: d, Index: i}
	return s, s.Valid()
}

// State is the restorable wall. Comparison is nil when no pair is selected.
type State struct {
	VisibleDenominators  []int       `json:"visibleDenominators"`
	ShadedSegments       []Segment   `json:"shadedSegments"`
	LabelMode            LabelMode   `json:"labelMode"`
	ShowEquivalenceLines bool        `json:"showEquivalenceLines"`
	Comparison           *[2]Segment `json:"comparisonPair"`
}

// DefaultDenominators are the rows shown when a link lists none.
func DefaultDenominators() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
}

// Defaults returns the wall shown when a link omits a setting.
func Defaults() State {
	return State{VisibleDenominators: DefaultDenominators(), LabelMode: LabelFraction}
}

// ============================================================
// Field codecs
// ============================================================

func listOptions(maxItems int) urlstate.ListOptions {
	return urlstate.ListOptions{
		Delimiter:     urlstate.DefaultDelimiter,
		MaxItems:      maxItems,
		MaxItemLength: urlstate.MaxRecordLength,
	}
}

func validDenominator(d int) bool {
	return d >= 1 && d <= MaxDenominator
}

// ParseDenominators decodes ';'-joined rows, dropping out-of-range ones.
func ParseDenominators(s string) []int {
	return urlstate.ParseList(s, func(raw string) (int, bool) {
		d, ok := urlstate.StrictInt(raw)
		return d, ok && validDenominator(d)
	}, listOptions(MaxDenominator))
}

// ParseSegments decodes ';'-joined segments, dropping those off the wall.
func ParseSegments(s string) []Segment {
	return urlstate.ParseList(s, ParseSegment, listOptions(MaxDenominator*(MaxDenominator+1)/2))
}

// ParseComparison decodes "d:i,d:i". Both segments must be valid.
func ParseComparison(s string) (*[2]Segment, bool) {
	f, ok := urlstate.SplitFields(s, ",", pairFields)
	if !ok || len(f) < pairFields {
		return nil, false
	}
	a, ok := ParseSegment(f[0])
	if !ok {
		return nil, false
	}
	b, ok := ParseSegment(f[1])
	if !ok {
		return nil, false
	}
	return &[2]Segment{a, b}, true
}

func validSegments(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}

// ============================================================
// Serializer
// ============================================================

// Serializer implements urlstate.Serializer for fraction walls.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. Rows and segments off the wall
// are not written, nor is a comparison holding one.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params

	rows := slices.DeleteFunc(slices.Clone(state.VisibleDenominators), func(d int) bool {
		return !validDenominator(d)
	})
	if len(rows) > 0 && !slices.Equal(rows, DefaultDenominators()) {
		p.Set(ParamVisible, urlstate.JoinList(rows, strconv.Itoa, urlstate.DefaultDelimiter))
	}
	if v := urlstate.JoinList(validSegments(state.ShadedSegments), Segment.String, urlstate.DefaultDelimiter); v != "" {
		p.Set(ParamShaded, v)
	}
	if code := state.LabelMode.code(); code != "f" {
		p.Set(ParamLabels, code)
	}
	if state.ShowEquivalenceLines {
		p.Set(ParamEquivalence, urlstate.FormatBool(true))
	}
	if c := state.Comparison; c != nil && c[0].Valid() && c[1].Valid() {
		p.Set(ParamCompare, fmt.Sprintf("%s,%s", c[0], c[1]))
	}
	return p
}

// Deserialize implements urlstate.Serializer.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(Keys...) {
		return State{}, false
	}
	state := Defaults()
	if rows := ParseDenominators(urlstate.StringParam(p, ParamVisible, "")); len(rows) > 0 {
		state.VisibleDenominators = rows
	}
	state.ShadedSegments = ParseSegments(urlstate.StringParam(p, ParamShaded, ""))
	state.LabelMode = ParseLabelMode(urlstate.StringParam(p, ParamLabels, ""))
	state.ShowEquivalenceLines = urlstate.BoolParam(p, ParamEquivalence, false)
	if v, ok := p.Get(ParamCompare); ok {
		state.Comparison, _ = ParseComparison(v)
	}
	return state, true
}
