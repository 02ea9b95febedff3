package registry

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Neumenon/statelink/urlstate"
)

// Tool is a serializer addressed by name, working on JSON state.
type Tool interface {
	// Name is the registry key, e.g. "circuit".
	Name() string

	// Path is the site path the tool is served under.
	Path() string

	// Keys lists the query parameters the tool reads.
	Keys() []string

	// EncodeJSON decodes a JSON state and returns its shareable URL under
	// base together with the encoded parameters.
	EncodeJSON(state []byte, base string) (string, urlstate.Params, error)

	// DecodeJSON restores state from parameters and returns it as JSON. It
	// reports false when p holds nothing restorable.
	DecodeJSON(p urlstate.Params) ([]byte, bool, error)
}

// adapter binds a typed serializer to the Tool interface.
type adapter[T any] struct {
	name       string
	path       string
	keys       []string
	serializer urlstate.Serializer[T]
	defaults   func() T
}

// Adapt wraps s as a Tool. JSON input is decoded on top of defaults(), so
// fields it omits keep their default values; a nil defaults starts from the
// zero value.
func Adapt[T any](name, path string, keys []string, s urlstate.Serializer[T], defaults func() T) Tool {
	if defaults == nil {
		defaults = func() T {
			var zero T
			return zero
		}
	}
	return &adapter[T]{
		name:       name,
		path:       normalizePath(path),
		keys:       slices.Clone(keys),
		serializer: s,
		defaults:   defaults,
	}
}

func (a *adapter[T]) Name() string   { return a.name }
func (a *adapter[T]) Path() string   { return a.path }
func (a *adapter[T]) Keys() []string { return slices.Clone(a.keys) }

func (a *adapter[T]) EncodeJSON(state []byte, base string) (string, urlstate.Params, error) {
	v := a.defaults()
	if err := json.Unmarshal(state, &v); err != nil {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrInvalidState, a.name, err)
	}
	url, p := urlstate.ShareLink(a.serializer, v, base)
	return url, p, nil
}

func (a *adapter[T]) DecodeJSON(p urlstate.Params) ([]byte, bool, error) {
	v, ok := a.serializer.Deserialize(p)
	if !ok {
		return nil, false, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("registry: %s: marshal state: %w", a.name, err)
	}
	return b, true, nil
}

// relocated serves a tool under a different path.
type relocated struct {
	Tool
	path string
}

func (r relocated) Path() string { return r.path }
