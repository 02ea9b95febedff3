// Package pointless encodes number-puzzle rounds for shareable links.
//
//	c=primes-in-range&p=max:50,min:10
//
// The category is required. Generator settings are "key:value" pairs joined
// by ','; keys and values are escaped with urlstate.EscapeText.
package pointless

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamCategory = "c"
	ParamSettings = "p"
)

// Keys lists every parameter in encoding order.
var Keys = []string{ParamCategory, ParamSettings}

// MaxSettings caps the number of settings restored from one link.
const MaxSettings = 16

const settingFields = 2

// Category selects the question generator.
type Category string

const (
	Factors           Category = "factors"
	MultiplesInRange  Category = "multiples-in-range"
	PrimesInRange     Category = "primes-in-range"
	SquaresInRange    Category = "squares-in-range"
	CubesInRange      Category = "cubes-in-range"
	PowersOf2         Category = "powers-of-2"
	TriangularNumbers Category = "triangular-numbers"
)

// Categories lists every known category.
var Categories = []Category{
	Factors, MultiplesInRange, PrimesInRange, SquaresInRange,
	CubesInRange, PowersOf2, TriangularNumbers,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ============================================================
// Values
// ============================================================

// Value is a setting value: a number when the text parses as a finite
// number, otherwise text. It marshals to a JSON number or string.
type Value struct {
	text    string
	num     float64
	numeric bool
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{text: urlstate.FormatNumber(f), num: f, numeric: true}
}

// Text returns a Value holding s as written.
func Text(s string) Value {
	return Value{text: s}
}

// ParseValue returns a numeric Value when s is a finite number, otherwise a
// text Value.
func ParseValue(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(s)
	}
	return Number(f)
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.numeric }

// Float returns the numeric value, or 0 for text.
func (v Value) Float() float64 { return v.num }

// String returns the encoded form.
func (v Value) String() string { return v.text }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return []byte(v.text), nil
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("pointless: setting must be a number or string: %w", err)
	}
	*v = Number(f)
	return nil
}

// ============================================================
// Serializer
// ============================================================

// State is the restorable round.
type State struct {
	Category Category         `json:"category"`
	Params   map[string]Value `json:"params"`
}

// SerializeSettings encodes settings as "key:value" pairs joined by ',' in
// key order.
func SerializeSettings(settings map[string]Value) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return urlstate.JoinList(keys, func(k string) string {
		return urlstate.EscapeText(k) + ":" + urlstate.EscapeText(settings[k].String())
	}, ",")
}

type setting struct {
	key   string
	value Value
}

// ParseSettings decodes a settings list. Pairs without a key or without a
// ':' are dropped; a repeated key keeps its last value.
func ParseSettings(s string) map[string]Value {
	pairs := urlstate.ParseList(s, parseSetting, urlstate.ListOptions{
		Delimiter:     ",",
		MaxItems:      MaxSettings,
		MaxItemLength: urlstate.MaxRecordLength,
	})
	out := make(map[string]Value, len(pairs))
	for _, kv := range pairs {
		out[kv.key] = kv.value
	}
	return out
}

func parseSetting(raw string) (setting, bool) {
	parts, ok := urlstate.SplitFields(raw, ":", settingFields)
	if !ok || len(parts) < settingFields {
		return setting{}, false
	}
	key := urlstate.UnescapeText(parts[0])
	if key == "" {
		return setting{}, false
	}
	return setting{key: key, value: ParseValue(urlstate.UnescapeText(parts[1]))}, true
}

// Serializer implements urlstate.Serializer for puzzle rounds.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. An unknown category produces
// no parameters.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	if !state.Category.Valid() {
		return p
	}
	p.Set(ParamCategory, string(state.Category))
	if v := SerializeSettings(state.Params); v != "" {
		p.Set(ParamSettings, v)
	}
	return p
}

// Deserialize implements urlstate.Serializer. A missing or unknown category
// is not restorable.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	c, _ := p.Get(ParamCategory)
	category := Category(c)
	if !category.Valid() {
		return State{}, false
	}
	settings, _ := p.Get(ParamSettings)
	return State{Category: category, Params: ParseSettings(settings)}, true
}
