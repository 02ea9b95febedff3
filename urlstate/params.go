package urlstate

import (
	"net/url"
	"strings"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of query parameters. The zero value is empty and
// ready to use. Order is kept for encoding only; lookups ignore it.
type Params []Param

// Get returns the first value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present, even with an empty value.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// HasAny reports whether at least one of keys is present.
func (p Params) HasAny(keys ...string) bool {
	for _, k := range keys {
		if p.Has(k) {
			return true
		}
	}
	return false
}

// Set stores value under key. An existing key keeps its position and any
// duplicates after it are dropped; a new key is appended.
func (p *Params) Set(key, value string) {
	out := (*p)[:0]
	found := false
	for _, kv := range *p {
		if kv.Key != key {
			out = append(out, kv)
			continue
		}
		if !found {
			out = append(out, Param{Key: key, Value: value})
			found = true
		}
	}
	if !found {
		out = append(out, Param{Key: key, Value: value})
	}
	*p = out
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p) }

// Keys returns the parameter names in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, kv := range p {
		keys[i] = kv.Key
	}
	return keys
}

// Encode returns the form-encoded query string ("k=v&k2=v2") in insertion
// order, without a leading '?'.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// ParseParams parses a raw query string. A leading '?' is ignored. At most
// MaxParams pairs are read; pairs with an empty key are dropped and
// malformed escapes are kept as written.
func ParseParams(query string) Params {
	query = strings.TrimPrefix(query, "?")
	return ParseList(query, decodePair, ListOptions{
		Delimiter:     "&",
		MaxItems:      MaxParams,
		MaxItemLength: MaxInputLength,
		NoTrim:        true,
	})
}

func decodePair(raw string) (Param, bool) {
	key, value, _ := strings.Cut(raw, "=")
	key = queryUnescape(key)
	if key == "" {
		return Param{}, false
	}
	return Param{Key: key, Value: queryUnescape(value)}, true
}

func queryUnescape(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}
