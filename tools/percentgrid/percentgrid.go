// Package percentgrid encodes hundred-square percentage grids for shareable
// links.
//
//	s=0;1;2;10;11;12
//
// Squares are numbered 0 to 99 row by row.
package percentgrid

import (
	"slices"
	"strconv"

	"github.com/Neumenon/statelink/urlstate"
)

// ParamSelected is the only parameter.
const ParamSelected = "s"

// Keys lists every parameter.
var Keys = []string{ParamSelected}

// TotalSquares is the size of the grid.
const TotalSquares = 100

// State is the restorable grid.
type State struct {
	SelectedIndices []int `json:"selectedIndices"`
}

func validIndex(i int) bool {
	return i >= 0 && i < TotalSquares
}

// normalize returns the valid indices sorted without repeats.
func normalize(indices []int) []int {
	out := slices.DeleteFunc(slices.Clone(indices), func(i int) bool {
		return !validIndex(i)
	})
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseSelected decodes ';'-joined indices, sorted and without repeats.
// Indices off the grid are dropped.
func ParseSelected(s string) []int {
	return normalize(urlstate.ParseList(s, func(raw string) (int, bool) {
		i, ok := urlstate.StrictInt(raw)
		return i, ok && validIndex(i)
	}, urlstate.ListOptions{
		Delimiter:     urlstate.DefaultDelimiter,
		MaxItems:      TotalSquares,
		MaxItemLength: urlstate.MaxRecordLength,
	}))
}

// Serializer implements urlstate.Serializer for percentage grids.
type Serializer struct{}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. Indices are written sorted.
func (Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	if v := urlstate.JoinList(normalize(state.SelectedIndices), strconv.Itoa, urlstate.DefaultDelimiter); v != "" {
		p.Set(ParamSelected, v)
	}
	return p
}

// Deserialize implements urlstate.Serializer.
func (Serializer) Deserialize(p urlstate.Params) (State, bool) {
	v, ok := p.Get(ParamSelected)
	if !ok {
		return State{}, false
	}
	return State{SelectedIndices: ParseSelected(v)}, true
}
