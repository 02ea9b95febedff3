// Package sequences encodes number-sequence explorers for shareable links.
//
//	t=geometric&a=3&r=2&tc=8&rc=4&sr=1
//
// Term counts are clamped to MaxTerms so a link cannot request an
// unbounded sequence.
package sequences

import (
	"strconv"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamType     = "t"
	ParamFirst    = "a"
	ParamDiff     = "d"
	ParamRatio    = "r"
	ParamSecond   = "d2"
	ParamTerms    = "tc"
	ParamRevealed = "rc"
	ParamCounters = "sc"
	ParamRule     = "sr"
	ParamNthTerm  = "sn"
	ParamConfig   = "cfg"
)

// Keys lists every parameter in encoding order.
var Keys = []string{
	ParamType, ParamFirst, ParamDiff, ParamRatio, ParamSecond, ParamTerms,
	ParamRevealed, ParamCounters, ParamRule, ParamNthTerm, ParamConfig,
}

// MaxTerms is the longest sequence a link may describe.
const MaxTerms = 100

// Type is the kind of sequence.
type Type string

const (
	Arithmetic Type = "arithmetic"
	Geometric  Type = "geometric"
	Quadratic  Type = "quadratic"
)

// ParseType returns the named type, or Arithmetic for anything else.
func ParseType(s string) Type {
	switch t := Type(s); t {
	case Geometric, Quadratic:
		return t
	default:
		return Arithmetic
	}
}

// State is the restorable explorer. A is the first term, D the common (or
// first) difference, R the common ratio and D2 the second difference.
type State struct {
	Type          Type    `json:"sequenceType"`
	A             float64 `json:"a"`
	D             float64 `json:"d"`
	R             float64 `json:"r"`
	D2            float64 `json:"d2"`
	TermCount     int     `json:"termCount"`
	RevealedCount int     `json:"revealedCount"`
	ShowCounters  bool    `json:"showCounters"`
	ShowRule      bool    `json:"showRule"`
	ShowNthTerm   bool    `json:"showNthTerm"`
	ShowConfig    bool    `json:"showConfig"`
}

// Defaults returns the explorer shown when a link omits a setting.
func Defaults() State {
	return State{Type: Arithmetic, A: 2, D: 3, R: 2, D2: 2, ShowCounters: true}
}

// clampTerms limits a count to [0, MaxTerms].
func clampTerms(n int) int {
	return min(max(n, 0), MaxTerms)
}

// Serializer implements urlstate.Serializer for sequence explorers.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. Counts are clamped before they
// are written.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	def := Defaults()

	if t := ParseType(string(state.Type)); t != def.Type {
		p.Set(ParamType, string(t))
	}
	numbers := []struct {
		key      string
		val, def float64
	}{
		{ParamFirst, state.A, def.A},
		{ParamDiff, state.D, def.D},
		{ParamRatio, state.R, def.R},
		{ParamSecond, state.D2, def.D2},
	}
	for _, n := range numbers {
		if n.val != n.def {
			p.Set(n.key, urlstate.FormatNumber(n.val))
		}
	}
	if n := clampTerms(state.TermCount); n != def.TermCount {
		p.Set(ParamTerms, strconv.Itoa(n))
	}
	if n := clampTerms(state.RevealedCount); n != def.RevealedCount {
		p.Set(ParamRevealed, strconv.Itoa(n))
	}

	flags := []struct {
		key      string
		val, def bool
	}{
		{ParamCounters, state.ShowCounters, def.ShowCounters},
		{ParamRule, state.ShowRule, def.ShowRule},
		{ParamNthTerm, state.ShowNthTerm, def.ShowNthTerm},
		{ParamConfig, state.ShowConfig, def.ShowConfig},
	}
	for _, f := range flags {
		if f.val != f.def {
			p.Set(f.key, urlstate.FormatBool(f.val))
		}
	}
	return p
}

// Deserialize implements urlstate.Serializer. Unknown types decode as
// arithmetic; counts outside [0, MaxTerms] are clamped.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(Keys...) {
		return State{}, false
	}
	def := Defaults()
	return State{
		Type:          ParseType(urlstate.StringParam(p, ParamType, string(def.Type))),
		A:             urlstate.NumberParam(p, ParamFirst, def.A),
		D:             urlstate.NumberParam(p, ParamDiff, def.D),
		R:             urlstate.NumberParam(p, ParamRatio, def.R),
		D2:            urlstate.NumberParam(p, ParamSecond, def.D2),
		TermCount:     clampTerms(urlstate.IntParam(p, ParamTerms, def.TermCount)),
		RevealedCount: clampTerms(urlstate.IntParam(p, ParamRevealed, def.RevealedCount)),
		ShowCounters:  urlstate.BoolParam(p, ParamCounters, def.ShowCounters),
		ShowRule:      urlstate.BoolParam(p, ParamRule, def.ShowRule),
		ShowNthTerm:   urlstate.BoolParam(p, ParamNthTerm, def.ShowNthTerm),
		ShowConfig:    urlstate.BoolParam(p, ParamConfig, def.ShowConfig),
	}, true
}
