package numberline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Neumenon/statelink/urlstate"
)

func TestSerializePoints(t *testing.T) {
	points := []Point{
		{Value: 3, Label: "start", Color: "#3b82f6"},
		{Value: -7.5, Label: "a,b|c", Color: "red", Hidden: true},
	}
	want := "3,start,%233b82f6,|-7.5,a%2Cb%7Cc,red,1"
	if got := SerializePoints(points); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Point
	}{
		{
			name:  "valid",
			input: "3,start,%233b82f6,|-7.5,a%2Cb%7Cc,red,1",
			want: []Point{
				{ID: "p-1", Value: 3, Label: "start", Color: "#3b82f6"},
				{ID: "p-2", Value: -7.5, Label: "a,b|c", Color: "red", Hidden: true},
			},
		},
		{
			name:  "value only takes palette color",
			input: "1|2",
			want: []Point{
				{ID: "p-1", Value: 1, Color: Colors[0]},
				{ID: "p-2", Value: 2, Color: Colors[1]},
			},
		},
		{
			name:  "unreadable value dropped",
			input: "x,label|,label|4",
			want:  []Point{{ID: "p-1", Value: 4, Color: Colors[0]}},
		},
		{
			name:  "surplus commas stay in hidden flag",
			input: "5,,,1" + strings.Repeat(",", 50),
			want:  []Point{{ID: "p-1", Value: 5, Color: Colors[0], Hidden: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParsePoints(tt.input), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArcs(t *testing.T) {
	got := ParseArcs("p-1,p-2,%2B4|p-2,,x|,p-1|p-2,p-3")
	want := []Arc{{FromID: "p-1", ToID: "p-2", Label: "+4"}, {FromID: "p-2", ToID: "p-3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Bounded(t *testing.T) {
	if got := ParsePoints(strings.Repeat("1|", 1000)); len(got) != MaxPoints {
		t.Errorf("expected %d points, got %d", MaxPoints, len(got))
	}
	if got := ParseArcs(strings.Repeat("a,b|", 1000)); len(got) != MaxArcs {
		t.Errorf("expected %d arcs, got %d", MaxArcs, len(got))
	}
}

func TestSerializer_RoundTrip(t *testing.T) {
	state := State{
		Min: 0,
		Max: 20.5,
		Points: []Point{
			{ID: "a", Value: 3, Label: "start", Color: "#3b82f6"},
			{ID: "b", Value: 7.5, Label: "end; 100%", Color: "#ef4444", Hidden: true},
		},
		Arcs:        []Arc{{FromID: "a", ToID: "b", Label: "+4.5"}},
		ShowLabels:  false,
		HideValues:  true,
		SnapToTicks: true,
	}
	var s Serializer
	got, ok := s.Deserialize(urlstate.ParseParams(s.Serialize(state).Encode()))
	if !ok {
		t.Fatal("expected restorable state")
	}

	want := state
	want.Points = []Point{
		{ID: "p-1", Value: 3, Label: "start", Color: "#3b82f6"},
		{ID: "p-2", Value: 7.5, Label: "end; 100%", Color: "#ef4444", Hidden: true},
	}
	want.Arcs = []Arc{{FromID: "p-1", ToID: "p-2", Label: "+4.5"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializer_Defaults(t *testing.T) {
	var s Serializer
	if p := s.Serialize(Defaults()); p.Len() != 0 {
		t.Errorf("default state encoded to %q", p.Encode())
	}
	if _, ok := s.Deserialize(urlstate.Params{{Key: "x", Value: "1"}}); ok {
		t.Error("unrelated params should not be restorable")
	}

	got, ok := s.Deserialize(urlstate.ParseParams("min=abc&max=50"))
	if !ok {
		t.Fatal("expected restorable state")
	}
	want := Defaults()
	want.Max = 50
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
