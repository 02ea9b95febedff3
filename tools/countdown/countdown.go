// Package countdown encodes numbers-round puzzles for shareable links.
//
//	src=100,25,3,7,9,1&tgt=532&ops=+,-,*&rng=100,500&lrg=random
//
// Sources and target are required; the remaining settings fall back to
// the classic rules.
package countdown

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamSources    = "src"
	ParamTarget     = "tgt"
	ParamOperations = "ops"
	ParamRange      = "rng"
	ParamLarge      = "lrg"
)

// Keys lists every parameter in encoding order.
var Keys = []string{ParamSources, ParamTarget, ParamOperations, ParamRange, ParamLarge}

// MaxSources caps the number of source numbers. The solver's work grows
// factorially with this count.
const MaxSources = 6

const rangeFields = 2

// Operation is an arithmetic operator the solver may use.
type Operation string

const (
	Add      Operation = "+"
	Subtract Operation = "-"
	Multiply Operation = "*"
	Divide   Operation = "/"
	Power    Operation = "^"
)

// Operations lists every operator.
var Operations = []Operation{Add, Subtract, Multiply, Divide, Power}

// Valid reports whether op is a known operator.
func (op Operation) Valid() bool {
	return slices.Contains(Operations, op)
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown operators are
// rejected.
func (op *Operation) UnmarshalText(text []byte) error {
	v := Operation(text)
	if !v.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidOperation, string(text))
	}
	*op = v
	return nil
}

// ErrInvalidOperation is returned when decoding an unknown operator.
var ErrInvalidOperation = errors.New("countdown: invalid operation")

// LargeCount is how many large numbers are drawn: a fixed count or random.
type LargeCount struct {
	N      int
	Random bool
}

const randomLarge = "random"

// String returns the count, or "random".
func (c LargeCount) String() string {
	if c.Random {
		return randomLarge
	}
	return strconv.Itoa(c.N)
}

// ParseLargeCount decodes "random" or an integer; anything else yields def.
func ParseLargeCount(s string, def LargeCount) LargeCount {
	if s == randomLarge {
		return LargeCount{Random: true}
	}
	n, ok := urlstate.StrictInt(s)
	if !ok {
		return def
	}
	return LargeCount{N: n}
}

// MarshalJSON encodes a number or the string "random".
func (c LargeCount) MarshalJSON() ([]byte, error) {
	if c.Random {
		return json.Marshal(randomLarge)
	}
	return json.Marshal(c.N)
}

// UnmarshalJSON accepts an integer or "random".
func (c *LargeCount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != randomLarge {
			return fmt.Errorf("countdown: invalid large count %q", s)
		}
		*c = LargeCount{Random: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("countdown: large count must be an integer or %q: %w", randomLarge, err)
	}
	*c = LargeCount{N: n}
	return nil
}

// Config holds the round rules.
type Config struct {
	AllowedOperations []Operation `json:"allowedOperations"`
	LargeNumbersCount LargeCount  `json:"largeNumbersCount"`
	TargetRange       [2]int      `json:"targetRange"`
}

// DefaultConfig returns the classic rules.
func DefaultConfig() Config {
	return Config{
		AllowedOperations: []Operation{Add, Subtract, Multiply, Divide},
		LargeNumbersCount: LargeCount{N: 1},
		TargetRange:       [2]int{100, 999},
	}
}

// State is the restorable puzzle.
type State struct {
	Config  Config `json:"config"`
	Sources []int  `json:"sources"`
	Target  int    `json:"target"`
}

// ============================================================
// Field codecs
// ============================================================

func listOptions(maxItems int) urlstate.ListOptions {
	return urlstate.ListOptions{
		Delimiter:     ",",
		MaxItems:      maxItems,
		MaxItemLength: urlstate.MaxRecordLength,
	}
}

// ParseSources decodes at most MaxSources comma-separated integers.
func ParseSources(s string) []int {
	return urlstate.ParseList(s, urlstate.StrictInt, listOptions(MaxSources))
}

// ParseOperations decodes comma-separated operators, dropping unknown ones
// and repeats.
func ParseOperations(s string) []Operation {
	return distinctOperations(urlstate.ParseList(s, func(raw string) (Operation, bool) {
		op := Operation(raw)
		return op, op.Valid()
	}, listOptions(len(Operations)*2)))
}

// distinctOperations keeps the first occurrence of each known operator.
func distinctOperations(ops []Operation) []Operation {
	var out []Operation
	for _, op := range ops {
		if op.Valid() && !slices.Contains(out, op) {
			out = append(out, op)
		}
	}
	return out
}

// ParseRange decodes "min,max". Anything but exactly two integers yields def.
func ParseRange(s string, def [2]int) [2]int {
	parts, ok := urlstate.SplitFields(s, ",", rangeFields+1)
	if !ok || len(parts) != rangeFields {
		return def
	}
	lo, ok := urlstate.StrictInt(parts[0])
	if !ok {
		return def
	}
	hi, ok := urlstate.StrictInt(parts[1])
	if !ok {
		return def
	}
	return [2]int{lo, hi}
}

func formatRange(r [2]int) string {
	return strconv.Itoa(r[0]) + "," + strconv.Itoa(r[1])
}

// ============================================================
// Serializer
// ============================================================

// Serializer implements urlstate.Serializer for countdown puzzles.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. A puzzle without sources
// encodes to nothing. Sources beyond MaxSources and unknown operators are
// not written. Rules equal to DefaultConfig are omitted.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	if len(state.Sources) == 0 {
		return p
	}
	def := DefaultConfig()

	sources := state.Sources
	if len(sources) > MaxSources {
		sources = sources[:MaxSources]
	}
	p.Set(ParamSources, urlstate.JoinList(sources, strconv.Itoa, ","))
	p.Set(ParamTarget, strconv.Itoa(state.Target))

	if ops := distinctOperations(state.Config.AllowedOperations); !slices.Equal(ops, def.AllowedOperations) {
		p.Set(ParamOperations, urlstate.JoinList(ops, func(op Operation) string {
			return string(op)
		}, ","))
	}
	if state.Config.TargetRange != def.TargetRange {
		p.Set(ParamRange, formatRange(state.Config.TargetRange))
	}
	if state.Config.LargeNumbersCount != def.LargeNumbersCount {
		p.Set(ParamLarge, state.Config.LargeNumbersCount.String())
	}
	return p
}

// Deserialize implements urlstate.Serializer. Both sources and target must
// be present and non-empty; an unreadable target decodes as 0. A present
// but empty operator list means no operators.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	src, _ := p.Get(ParamSources)
	tgt, _ := p.Get(ParamTarget)
	if src == "" || tgt == "" {
		return State{}, false
	}

	cfg := DefaultConfig()
	if ops, ok := p.Get(ParamOperations); ok {
		cfg.AllowedOperations = ParseOperations(ops)
	}
	if rng, ok := p.Get(ParamRange); ok {
		cfg.TargetRange = ParseRange(rng, cfg.TargetRange)
	}
	if lrg, ok := p.Get(ParamLarge); ok {
		cfg.LargeNumbersCount = ParseLargeCount(lrg, cfg.LargeNumbersCount)
	}

	return State{
		Config:  cfg,
		Sources: ParseSources(src),
		Target:  urlstate.ParseInt(tgt, true, 0),
	}, true
}
