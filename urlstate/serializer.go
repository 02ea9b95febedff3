package urlstate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Serializer converts one tool's state to and from query parameters.
// Implementations hold no mutable state and are safe for concurrent use.
type Serializer[T any] interface {
	// Serialize returns fresh parameters for state, omitting defaults.
	Serialize(state T) Params

	// Deserialize rebuilds state from p. It reports false when p carries
	// nothing this tool can restore.
	Deserialize(p Params) (T, bool)
}

// ShareURL appends the encoded parameters to base. Empty parameters yield
// base unchanged.
func ShareURL(base string, p Params) string {
	q := p.Encode()
	if q == "" {
		return base
	}
	return base + "?" + q
}

// ShareLink serializes state and assembles the shareable URL. The encoded
// parameters are returned alongside.
func ShareLink[T any](s Serializer[T], state T, base string) (string, Params) {
	p := s.Serialize(state)
	return ShareURL(base, p), p
}

// SplitURL separates a shared link into its base and its parameters. Any
// fragment is discarded.
func SplitURL(raw string) (string, Params) {
	raw, _, _ = strings.Cut(raw, "#")
	base, query, _ := strings.Cut(raw, "?")
	return base, ParseParams(query)
}

// Fingerprint returns the lowercase hex SHA-256 of the encoded parameters.
// Serializers are deterministic, so equal states share a fingerprint.
func Fingerprint(p Params) string {
	sum := sha256.Sum256([]byte(p.Encode()))
	return hex.EncodeToString(sum[:])
}
