// Package tiles encodes algebra-tile boards for shareable links.
//
//	t=x:1,100,150;x2:-1,200,200;x_h:1,40,40&lb=0&sn=1
//
// Tile identifiers are not carried in the link; they are minted on decode.
package tiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Neumenon/statelink/idgen"
	"github.com/Neumenon/statelink/urlstate"
)

// Parameter names.
const (
	ParamTiles  = "t"
	ParamLabels = "lb"
	ParamShowY  = "y"
	ParamSnap   = "sn"
)

// Keys lists every parameter in encoding order.
var Keys = []string{ParamTiles, ParamLabels, ParamShowY, ParamSnap}

// MaxTiles caps the number of tiles restored from one link.
const MaxTiles = 500

// A tile is "type:value,x,y". The numeric part has exactly three fields, so
// a surplus comma lands in the last field and fails the integer check.
const (
	tileFields    = 2
	numericFields = 3
)

// Tile is one tile on the board. Type is the tile kind with an optional
// rotation suffix, e.g. "x", "x2", "x_h".
type Tile struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Value int     `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// State is the restorable board.
type State struct {
	Tiles      []Tile `json:"tiles"`
	ShowLabels bool   `json:"showLabels"`
	ShowY      bool   `json:"showY"`
	SnapToGrid bool   `json:"snapToGrid"`
}

// Defaults returns the board settings used when a link omits them.
func Defaults() State {
	return State{ShowLabels: true}
}

// ValidType reports whether s is a non-empty run of ASCII letters, digits
// and underscores.
func ValidType(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

// ErrInvalidType is returned when decoding a tile whose type fails
// ValidType.
var ErrInvalidType = errors.New("tiles: invalid tile type")

// UnmarshalJSON rejects tiles whose type could not be written into a link.
func (t *Tile) UnmarshalJSON(data []byte) error {
	type plain Tile
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !ValidType(v.Type) {
		return fmt.Errorf("%w %q", ErrInvalidType, v.Type)
	}
	*t = Tile(v)
	return nil
}

// SerializeTiles encodes tiles joined by ';'. Positions are rounded. Tiles
// with an invalid type are not written.
func SerializeTiles(tiles []Tile) string {
	valid := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if ValidType(t.Type) {
			valid = append(valid, t)
		}
	}
	return urlstate.JoinList(valid, formatTile, ";")
}

func formatTile(t Tile) string {
	var b strings.Builder
	b.WriteString(t.Type)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(t.Value))
	b.WriteByte(',')
	b.WriteString(urlstate.FormatCoord(t.X))
	b.WriteByte(',')
	b.WriteString(urlstate.FormatCoord(t.Y))
	return b.String()
}

// ParseTileString decodes a tile list with fresh IDs. Malformed tiles are
// dropped.
func ParseTileString(s string) []Tile {
	return parseTiles(s, nil)
}

func parseTiles(s string, newID idgen.Generator) []Tile {
	if newID == nil {
		newID = defaultID
	}
	return urlstate.ParseList(s, func(raw string) (Tile, bool) {
		t, ok := parseTile(raw)
		if ok {
			t.ID = newID()
		}
		return t, ok
	}, urlstate.ListOptions{
		Delimiter:     ";",
		MaxItems:      MaxTiles,
		MaxItemLength: urlstate.MaxRecordLength,
	})
}

var defaultID = idgen.Prefixed("tile-", idgen.Default)

func parseTile(raw string) (Tile, bool) {
	parts, ok := urlstate.SplitFields(raw, ":", tileFields)
	if !ok || len(parts) < tileFields || !ValidType(parts[0]) {
		return Tile{}, false
	}
	nums, ok := urlstate.SplitFields(parts[1], ",", numericFields)
	if !ok || len(nums) < numericFields {
		return Tile{}, false
	}

	var v [numericFields]int
	for i, f := range nums {
		parse := urlstate.StrictCoord
		if i == 0 {
			parse = urlstate.StrictInt
		}
		n, ok := parse(f)
		if !ok {
			return Tile{}, false
		}
		v[i] = n
	}
	return Tile{Type: parts[0], Value: v[0], X: float64(v[1]), Y: float64(v[2])}, true
}

// Serializer implements urlstate.Serializer for algebra-tile boards. Tile IDs
// are minted with NewID, or "tile-" prefixed random IDs when nil.
type Serializer struct {
	NewID idgen.Generator
}

var _ urlstate.Serializer[State] = Serializer{}

// Serialize implements urlstate.Serializer. Settings equal to Defaults are
// omitted.
func (s Serializer) Serialize(state State) urlstate.Params {
	var p urlstate.Params
	def := Defaults()
	if v := SerializeTiles(state.Tiles); v != "" {
		p.Set(ParamTiles, v)
	}
	if state.ShowLabels != def.ShowLabels {
		p.Set(ParamLabels, urlstate.FormatBool(state.ShowLabels))
	}
	if state.ShowY != def.ShowY {
		p.Set(ParamShowY, urlstate.FormatBool(state.ShowY))
	}
	if state.SnapToGrid != def.SnapToGrid {
		p.Set(ParamSnap, urlstate.FormatBool(state.SnapToGrid))
	}
	return p
}

// Deserialize implements urlstate.Serializer.
func (s Serializer) Deserialize(p urlstate.Params) (State, bool) {
	if !p.HasAny(ParamTiles, ParamLabels, ParamShowY, ParamSnap) {
		return State{}, false
	}
	def := Defaults()
	tiles, _ := p.Get(ParamTiles)
	return State{
		Tiles:      parseTiles(tiles, s.NewID),
		ShowLabels: urlstate.BoolParam(p, ParamLabels, def.ShowLabels),
		ShowY:      urlstate.BoolParam(p, ParamShowY, def.ShowY),
		SnapToGrid: urlstate.BoolParam(p, ParamSnap, def.SnapToGrid),
	}, true
}
