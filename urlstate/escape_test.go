package urlstate

import (
	"strings"
	"testing"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a b", "a%20b"},
		{"a;b:c,d>e|f&g", "a%3Bb%3Ac%2Cd%3Ee%7Cf%26g"},
		{"100%", "100%25"},
		{"it's (ok)!", "it's%20(ok)!"},
		{"é", "%C3%A9"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := EscapeText(tt.in); got != tt.want {
				t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeText_NoDelimitersSurvive(t *testing.T) {
	got := EscapeText("x;y:z,w>v|u&t=s%r")
	if strings.ContainsAny(got, ";:,>|&=") {
		t.Errorf("escaped text still holds a delimiter: %q", got)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"no escapes", "hello", "hello", true},
		{"escaped", "a%3Bb", "a;b", true},
		{"utf8", "%C3%A9", "é", true},
		{"plus kept", "a+b", "a+b", true},
		{"legacy bare percent", "50%", "50%", false},
		{"bad hex", "%ZZ", "%ZZ", false},
		{"invalid utf8", "%FF%FE", "%FF%FE", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeText(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("DecodeText(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{
		"label; with: every, > delimiter | & =",
		"percent 100% done",
		"unicode ⊕ ✓ 日本",
		"constructor",
		"__proto__",
		"",
	} {
		if got := UnescapeText(EscapeText(s)); got != s {
			t.Errorf("round trip of %q gave %q", s, got)
		}
	}
}

func TestUnescapeText_FallsBack(t *testing.T) {
	if got := UnescapeText("50%"); got != "50%" {
		t.Errorf("got %q", got)
	}
}
