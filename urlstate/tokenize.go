package urlstate

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// StopReason reports why a scan ended.
type StopReason uint8

const (
	StopEnd            StopReason = iota // input exhausted
	StopMaxItems                         // enough records decoded
	StopIterationLimit                   // MaxParseIterations reached
	StopInputTooLong                     // input rejected before scanning
)

// String returns the reason name.
func (r StopReason) String() string {
	switch r {
	case StopEnd:
		return "end"
	case StopMaxItems:
		return "max_items"
	case StopIterationLimit:
		return "iteration_limit"
	case StopInputTooLong:
		return "input_too_long"
	default:
		return "unknown"
	}
}

// Bounds describes how a scan was bounded. Returned is the number of records
// decoded; Truncated is set when input remained unread.
type Bounds struct {
	Returned  int
	Steps     int
	Truncated bool
	Reason    StopReason
}

// Decoder turns one raw token into a record. Returning false drops the token.
type Decoder[T any] func(token string) (T, bool)

// ListOptions configures Tokenize and ParseList.
type ListOptions struct {
	// Delimiter separates tokens. The empty string makes every rune a token.
	Delimiter string

	// MaxItems caps the number of decoded records (default: DefaultMaxItems).
	MaxItems int

	// MaxItemLength caps the raw length of one token in bytes
	// (default: MaxRecordLength). Longer tokens are skipped undecoded.
	MaxItemLength int

	// NoTrim keeps surrounding whitespace on delimited tokens.
	NoTrim bool
}

// DefaultListOptions returns semicolon-delimited options with the default caps.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Delimiter:     DefaultDelimiter,
		MaxItems:      DefaultMaxItems,
		MaxItemLength: MaxRecordLength,
	}
}

// ParseList splits input into tokens and decodes each one, keeping the
// records decode accepts. See Tokenize.
func ParseList[T any](input string, decode Decoder[T], opts ListOptions) []T {
	items, _ := Tokenize(input, decode, opts)
	return items
}

// Tokenize splits input into tokens and decodes each one.
//
// Input longer than MaxInputLength yields nothing. Delimiters are located one
// at a time; the scan stops when MaxItems records have been decoded or after
// MaxParseIterations steps, whichever comes first. Empty tokens and tokens
// rejected by decode count as steps but never as items.
func Tokenize[T any](input string, decode Decoder[T], opts ListOptions) ([]T, Bounds) {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.MaxItemLength <= 0 {
		opts.MaxItemLength = MaxRecordLength
	}

	if len(input) > MaxInputLength {
		slog.Warn("urlstate: input exceeds maximum length, ignoring",
			"length", len(input), "limit", MaxInputLength)
		return nil, Bounds{Truncated: true, Reason: StopInputTooLong}
	}
	if strings.TrimSpace(input) == "" {
		return nil, Bounds{Reason: StopEnd}
	}

	if opts.Delimiter == "" {
		return scanRunes(input, decode, opts)
	}
	return scanDelimited(input, decode, opts)
}

// scanRunes treats every rune as a token. It walks the string in place so the
// cost is bounded by MaxItems rather than by the input length.
func scanRunes[T any](input string, decode Decoder[T], opts ListOptions) ([]T, Bounds) {
	var items []T
	steps := 0
	for i := 0; i < len(input); {
		if len(items) >= opts.MaxItems {
			return items, Bounds{Returned: len(items), Steps: steps, Truncated: true, Reason: StopMaxItems}
		}
		if steps >= MaxParseIterations {
			warnIterations(steps, len(items))
			return items, Bounds{Returned: len(items), Steps: steps, Truncated: true, Reason: StopIterationLimit}
		}
		_, size := utf8.DecodeRuneInString(input[i:])
		token := input[i : i+size]
		i += size
		steps++

		if v, ok := decode(token); ok {
			items = append(items, v)
		}
	}
	return items, Bounds{Returned: len(items), Steps: steps, Reason: StopEnd}
}

func scanDelimited[T any](input string, decode Decoder[T], opts ListOptions) ([]T, Bounds) {
	var items []T
	steps := 0
	start := 0
	for start < len(input) {
		if len(items) >= opts.MaxItems {
			return items, Bounds{Returned: len(items), Steps: steps, Truncated: true, Reason: StopMaxItems}
		}
		if steps >= MaxParseIterations {
			warnIterations(steps, len(items))
			return items, Bounds{Returned: len(items), Steps: steps, Truncated: true, Reason: StopIterationLimit}
		}
		steps++

		var raw string
		if idx := strings.Index(input[start:], opts.Delimiter); idx >= 0 {
			raw = input[start : start+idx]
			start += idx + len(opts.Delimiter)
		} else {
			raw = input[start:]
			start = len(input)
		}

		if !opts.NoTrim {
			raw = strings.TrimSpace(raw)
		}
		if raw == "" || len(raw) > opts.MaxItemLength {
			continue
		}
		if v, ok := decode(raw); ok {
			items = append(items, v)
		}
	}
	return items, Bounds{Returned: len(items), Steps: steps, Reason: StopEnd}
}

func warnIterations(steps, decoded int) {
	slog.Warn("urlstate: exceeded maximum iterations, returning partial result",
		"limit", MaxParseIterations, "steps", steps, "decoded", decoded)
}

// JoinList formats each item and joins them with delimiter. An empty list
// yields the empty string.
func JoinList[T any](items []T, format func(T) string, delimiter string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(delimiter)
		}
		b.WriteString(format(item))
	}
	return b.String()
}
