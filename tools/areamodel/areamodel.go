// Package areamodel encodes area-model multiplication sessions for shareable
// links. Scalar settings use one parameter each; revealed cells travel in
// "rc" as "row-col" identifiers joined by ';'.
//
//	a=23&b=14&ap=1&rc=0-0;1-1
package areamodel

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamFactorA         = "a"
	ParamFactorB         = "b"
	ParamAutoPartition   = "ap"
	ParamFactorLabels    = "fl"
	ParamPartialProducts = "pp"
	ParamTotal           = "tt"
	ParamGridLines       = "gl"
	ParamArray           = "ar"
	ParamRevealed        = "rc"
)

// Keys lists every parameter in encoding order.
var Keys = []string{
	ParamFactorA, ParamFactorB, ParamAutoPartition, ParamFactorLabels,
	ParamPartialProducts, ParamTotal, ParamGridLines, ParamArray, ParamRevealed,
}

// MaxCells caps the number of revealed cells restored from one link.
const MaxCells = urlstate.DefaultMaxItems

const cellFields = 2

// Cell identifies one partial-product region.
type Cell struct {
	Row int
	Col int
}

// String returns "row-col".
func (c Cell) String() string {
	return strconv.Itoa(c.Row) + "-" + strconv.Itoa(c.Col)
}

// MarshalText encodes the cell as "row-col".
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes "row-col".
func (c *Cell) UnmarshalText(b []byte) error {
	v, ok := ParseCell(string(b))
	if !ok {
		return fmt.Errorf("areamodel: invalid cell %q", b)
	}
	*c = v
	return nil
}

// ParseCell decodes "row-col" with non-negative integer parts.
func ParseCell(raw string) (Cell, bool) {
	parts, ok := urlstate.SplitFields(raw, "-", cellFields)
	if !ok || len(parts) < cellFields {
		return Cell{}, false
	}
	row, ok := urlstate.StrictInt(parts[0])
	if !ok || row < 0 {
		return Cell{}, false
	}
	col, ok := urlstate.StrictInt(parts[1])
	if !ok || col < 0 {
		return Cell{}, false
	}
	return Cell{Row: row, Col: col}, true
}

func compareCells(a, b Cell) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

// normalizeCells returns a sorted copy of cells without duplicates.
func normalizeCells(cells []Cell) []Cell {
	out := slices.Clone(cells)
	slices.SortFunc(out, compareCells)
	return slices.Compact(out)
}

// State is the restorable session.
type State struct {
	FactorA             string `json:"factorA"`
	FactorB             string `json:"factorB"`
	AutoPartition       bool   `json:"autoPartition"`
	ShowFactorLabels    bool   `json:"showFactorLabels"`
	ShowPartialProducts bool   `json:"showPartialProducts"`
	ShowTotal           bool   `json:"showTotal"`
	ShowGridLines       bool   `json:"showGridLines"`
	ShowArray           bool   `json:"showArray"`
	RevealedCells       []Cell `json:"revealedCells"`
}

// Defaults returns the settings used when a link omits them.
func Defaults() State {
	return State{
		ShowFactorLabels:    true,
		ShowPartialProducts: true,
		ShowTotal:           true,
		ShowGridLines:       true,
	}
}

// Serializer implements urlstate.Serializer for area models.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. Revealed cells are written in
// row-major order without duplicates.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	def := Defaults()

	if state.FactorA != def.FactorA {
		p.Set(ParamFactorA, state.FactorA)
	}
	if state.FactorB != def.FactorB {
		p.Set(ParamFactorB, state.FactorB)
	}
	setBool(&p, ParamAutoPartition, state.AutoPartition, def.AutoPartition)
	setBool(&p, ParamFactorLabels, state.ShowFactorLabels, def.ShowFactorLabels)
	setBool(&p, ParamPartialProducts, state.ShowPartialProducts, def.ShowPartialProducts)
	setBool(&p, ParamTotal, state.ShowTotal, def.ShowTotal)
	setBool(&p, ParamGridLines, state.ShowGridLines, def.ShowGridLines)
	setBool(&p, ParamArray, state.ShowArray, def.ShowArray)

	if v := urlstate.JoinList(normalizeCells(state.RevealedCells), Cell.String, ";"); v != "" {
		p.Set(ParamRevealed, v)
	}
	return p
}

func setBool(p *urlstate.Params, key string, v, def bool) {
	if v != def {
		p.Set(key, urlstate.FormatBool(v))
	}
}

// Deserialize implements urlstate.Serializer. Factor text longer than
// urlstate.MaxRecordLength falls back to the default.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(Keys...) {
		return State{}, false
	}
	def := Defaults()
	rc, _ := p.Get(ParamRevealed)
	cells := urlstate.ParseList(rc, ParseCell, urlstate.ListOptions{
		Delimiter:     ";",
		MaxItems:      MaxCells,
		MaxItemLength: urlstate.MaxRecordLength,
	})

	return State{
		FactorA:             factorParam(p, ParamFactorA, def.FactorA),
		FactorB:             factorParam(p, ParamFactorB, def.FactorB),
		AutoPartition:       urlstate.BoolParam(p, ParamAutoPartition, def.AutoPartition),
		ShowFactorLabels:    urlstate.BoolParam(p, ParamFactorLabels, def.ShowFactorLabels),
		ShowPartialProducts: urlstate.BoolParam(p, ParamPartialProducts, def.ShowPartialProducts),
		ShowTotal:           urlstate.BoolParam(p, ParamTotal, def.ShowTotal),
		ShowGridLines:       urlstate.BoolParam(p, ParamGridLines, def.ShowGridLines),
		ShowArray:           urlstate.BoolParam(p, ParamArray, def.ShowArray),
		RevealedCells:       normalizeCells(cells),
	}, true
}

func factorParam(p urlstate.Params, key, def string) string {
	v := urlstate.StringParam(p, key, def)
	if len(v) > urlstate.MaxRecordLength {
		return def
	}
	return v
}
