// Package urlstate implements the bounded codec layer behind shareable tool links.
//
// Every interactive tool turns its session into a handful of short query
// parameters and restores it from whatever query string a visitor supplies.
// That string is untrusted: it can be hand-edited, truncated, or crafted to
// exhaust the decoder. The package is built around that threat:
//
//   - One tokenizer (Tokenize, ParseList) splits a parameter value into
//     records under fixed ceilings on input length, scan steps, record
//     length and record count.
//   - SplitFields splits a single record into a known number of fields;
//     surplus separators fold into the last field instead of shifting
//     alignment.
//   - EscapeText percent-encodes free text so user labels can never contain a
//     structural delimiter. DecodeText reports malformed escapes instead of
//     failing, and UnescapeText falls back to the raw text.
//
// # Ceilings
//
// The ceilings are constants, not options:
//
//	MaxInputLength     = 1 << 20  // bytes; longer input is rejected outright
//	MaxParseIterations = 10000    // delimiter matches + end-of-string
//	MaxRecordLength    = 2048     // bytes in one record's raw text
//
// # Serializers
//
// Each tool implements Serializer[T]:
//
//	Serialize(state T) Params
//	Deserialize(p Params) (T, bool)
//
// Serialize omits parameters that hold their default value and is
// deterministic. Deserialize reports false only when no parameter of the tool
// is present at all; partially populated parameters fall back to defaults.
//
// # Error Tolerance
//
// Nothing in this package returns an error for bad input. Oversized input is
// dropped whole, exhausted scans return what was decoded so far, malformed
// records are skipped, and malformed escapes are kept verbatim.
package urlstate
