package urlstate

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func identity(s string) (string, bool) { return s, true }

func reject(string) (string, bool) { return "", false }

func TestParseList_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  ListOptions
		want  []string
	}{
		{"semicolon", "a;b;c", DefaultListOptions(), []string{"a", "b", "c"}},
		{"custom delimiter", "a,b,c", ListOptions{Delimiter: ","}, []string{"a", "b", "c"}},
		{"multi-byte delimiter", "a::b::c", ListOptions{Delimiter: "::"}, []string{"a", "b", "c"}},
		{"trims whitespace", " a ; b ; c ", DefaultListOptions(), []string{"a", "b", "c"}},
		{"keeps whitespace", " a ; b ", ListOptions{Delimiter: ";", NoTrim: true}, []string{" a ", " b "}},
		{"skips empty", "a;;b;", DefaultListOptions(), []string{"a", "b"}},
		{"max items", "a;b;c;d;e", ListOptions{Delimiter: ";", MaxItems: 3}, []string{"a", "b", "c"}},
		{"empty input", "", DefaultListOptions(), nil},
		{"blank input", "   ", DefaultListOptions(), nil},
		{"runes", "abc", ListOptions{}, []string{"a", "b", "c"}},
		{"runes max items", "abcde", ListOptions{MaxItems: 3}, []string{"a", "b", "c"}},
		{"runes multi-byte", "é✓", ListOptions{}, []string{"é", "✓"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.input, identity, tt.opts)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseList(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseList_SkipsRejected(t *testing.T) {
	got := ParseList("1;a;2", func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	}, DefaultListOptions())
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseList_DefaultMaxItems(t *testing.T) {
	got := ParseList(strings.Repeat("a;", 2000), identity, ListOptions{Delimiter: ";"})
	if len(got) != DefaultMaxItems {
		t.Errorf("expected %d items, got %d", DefaultMaxItems, len(got))
	}
}

func TestParseList_SkipsLongItems(t *testing.T) {
	input := "normal;" + strings.Repeat("a", 3000) + ";short"
	got := ParseList(input, identity, DefaultListOptions())
	if diff := cmp.Diff([]string{"normal", "short"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got = ParseList("a;abc;b", identity, ListOptions{Delimiter: ";", MaxItemLength: 2})
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("custom MaxItemLength mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_InputTooLong(t *testing.T) {
	input := strings.Repeat("a;", MaxInputLength/2) + "b"
	if len(input) != MaxInputLength+1 {
		t.Fatalf("test setup: length %d", len(input))
	}

	calls := 0
	start := time.Now()
	got, bounds := Tokenize(input, func(s string) (string, bool) {
		calls++
		return s, true
	}, DefaultListOptions())
	elapsed := time.Since(start)

	if len(got) != 0 || calls != 0 {
		t.Errorf("expected no work, got %d items and %d decode calls", len(got), calls)
	}
	if bounds.Reason != StopInputTooLong || !bounds.Truncated {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
	if elapsed > 50*time.Millisecond {
		t.Errorf("rejection took %v", elapsed)
	}

	// Exactly at the ceiling is still accepted.
	got, bounds = Tokenize(strings.Repeat("a", MaxInputLength), identity, ListOptions{MaxItems: 1})
	if len(got) != 1 || bounds.Reason != StopMaxItems {
		t.Errorf("input at ceiling: got %d items, bounds %+v", len(got), bounds)
	}
}

func TestTokenize_IterationLimit_BareDelimiters(t *testing.T) {
	input := strings.Repeat(";", 30000)
	got, bounds := Tokenize(input, identity, DefaultListOptions())
	if len(got) != 0 {
		t.Errorf("expected no items, got %d", len(got))
	}
	if bounds.Reason != StopIterationLimit || !bounds.Truncated {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
	if bounds.Steps != MaxParseIterations {
		t.Errorf("expected %d steps, got %d", MaxParseIterations, bounds.Steps)
	}
}

func TestTokenize_IterationLimit_RejectedRecords(t *testing.T) {
	input := strings.Repeat("invalid;", 30000)
	calls := 0
	got, bounds := Tokenize(input, func(s string) (string, bool) {
		calls++
		return reject(s)
	}, ListOptions{Delimiter: ";", MaxItems: 10})

	if len(got) != 0 {
		t.Errorf("expected no items, got %d", len(got))
	}
	if bounds.Reason != StopIterationLimit {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
	if calls != MaxParseIterations {
		t.Errorf("expected %d decode calls, got %d", MaxParseIterations, calls)
	}
}

func TestTokenize_IterationLimit_KeepsPartialResult(t *testing.T) {
	input := "a;b;" + strings.Repeat(";", 20000) + "c"
	got, bounds := Tokenize(input, identity, DefaultListOptions())
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if bounds.Reason != StopIterationLimit || bounds.Returned != 2 {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
}

func TestTokenize_RuneScanStopsEarly(t *testing.T) {
	huge := strings.Repeat("a", 1000000)
	start := time.Now()
	got, bounds := Tokenize(huge, identity, ListOptions{Delimiter: "", MaxItems: 10})
	elapsed := time.Since(start)

	if len(got) != 10 || got[0] != "a" {
		t.Fatalf("expected 10 tokens of \"a\", got %d", len(got))
	}
	if bounds.Steps != 10 || bounds.Reason != StopMaxItems {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
	if elapsed > 50*time.Millisecond {
		t.Errorf("rune scan took %v", elapsed)
	}
}

func TestTokenize_RuneScanIterationLimit(t *testing.T) {
	got, bounds := Tokenize(strings.Repeat("x", 50000), reject, ListOptions{})
	if len(got) != 0 || bounds.Reason != StopIterationLimit || bounds.Steps != MaxParseIterations {
		t.Errorf("got %d items, bounds %+v", len(got), bounds)
	}
}

func TestTokenize_StopsAtMaxItems(t *testing.T) {
	start := time.Now()
	got, bounds := Tokenize(strings.Repeat("a;", 400000), identity, ListOptions{Delimiter: ";", MaxItems: 10})
	if len(got) != 10 {
		t.Errorf("expected 10 items, got %d", len(got))
	}
	if bounds.Steps != 10 || bounds.Reason != StopMaxItems || !bounds.Truncated {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("took %v", elapsed)
	}
}

func TestTokenize_CompleteScan(t *testing.T) {
	_, bounds := Tokenize("a;b", identity, DefaultListOptions())
	want := Bounds{Returned: 2, Steps: 2, Reason: StopEnd}
	if bounds != want {
		t.Errorf("got %+v, want %+v", bounds, want)
	}
}

func TestStopReason_String(t *testing.T) {
	for r, want := range map[StopReason]string{
		StopEnd:            "end",
		StopMaxItems:       "max_items",
		StopIterationLimit: "iteration_limit",
		StopInputTooLong:   "input_too_long",
		StopReason(42):     "unknown",
	} {
		if got := r.String(); got != want {
			t.Errorf("%d: got %q, want %q", r, got, want)
		}
	}
}

func TestJoinList(t *testing.T) {
	if got := JoinList([]int(nil), strconv.Itoa, ";"); got != "" {
		t.Errorf("empty list: got %q", got)
	}
	if got := JoinList([]int{1, 2, 3}, strconv.Itoa, ","); got != "1,2,3" {
		t.Errorf("got %q", got)
	}
}
