package registry

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/Neumenon/statelink/idgen"
	"github.com/Neumenon/statelink/tools/areamodel"
	"github.com/Neumenon/statelink/tools/bars"
	"github.com/Neumenon/statelink/tools/circuit"
	"github.com/Neumenon/statelink/tools/countdown"
	"github.com/Neumenon/statelink/tools/counters"
	"github.com/Neumenon/statelink/tools/fractionwall"
	"github.com/Neumenon/statelink/tools/linear"
	"github.com/Neumenon/statelink/tools/numberline"
	"github.com/Neumenon/statelink/tools/percentgrid"
	"github.com/Neumenon/statelink/tools/pointless"
	"github.com/Neumenon/statelink/tools/sequences"
	"github.com/Neumenon/statelink/tools/tiles"
	"github.com/Neumenon/statelink/urlstate"
)

// Registry is a concurrency-safe catalog of tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Default returns a Registry holding every built-in tool at its site path.
func Default() *Registry {
	return WithIDs(nil)
}

// WithIDs is Default with regenerated record IDs minted by gen, each behind
// its tool's prefix. A nil gen uses idgen.Default.
func WithIDs(gen idgen.Generator) *Registry {
	r := New()
	for _, t := range builtins(idgen.Or(gen)) {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

func builtins(gen idgen.Generator) []Tool {
	return []Tool{
		Adapt[circuit.State]("circuit", "/computing/circuit-designer", circuit.Keys,
			circuit.Serializer{NewID: idgen.Prefixed("wire-", gen)}, nil),
		Adapt[tiles.State]("tiles", "/mathematics/algebra-tiles", tiles.Keys,
			tiles.Serializer{NewID: idgen.Prefixed("tile-", gen)}, tiles.Defaults),
		Adapt[bars.State]("bars", "/mathematics/bar-model", bars.Keys,
			bars.Serializer{NewID: idgen.Prefixed("bar-", gen)}, nil),
		Adapt[areamodel.State]("areamodel", "/mathematics/area-model", areamodel.Keys,
			areamodel.Serializer{}, areamodel.Defaults),
		Adapt[counters.State]("counters", "/mathematics/double-sided-counters", counters.Keys,
			counters.Serializer{NewID: idgen.Prefixed("counter-", gen)}, counters.Defaults),
		Adapt[linear.State]("linear", "/mathematics/linear-equations", linear.Keys,
			linear.Serializer{}, linear.Defaults),
		Adapt[numberline.State]("numberline", "/mathematics/number-line", numberline.Keys,
			numberline.Serializer{}, numberline.Defaults),
		Adapt[fractionwall.State]("fractionwall", "/mathematics/fraction-wall", fractionwall.Keys,
			fractionwall.Serializer{}, fractionwall.Defaults),
		Adapt[percentgrid.State]("percentgrid", "/mathematics/percentage-grid", percentgrid.Keys,
			percentgrid.Serializer{}, nil),
		Adapt[sequences.State]("sequences", "/mathematics/sequences", sequences.Keys,
			sequences.Serializer{}, sequences.Defaults),
		Adapt[pointless.State]("pointless", "/games/pointless", pointless.Keys,
			pointless.Serializer{}, nil),
		Adapt[countdown.State]("countdown", "/games/countdown", countdown.Keys,
			countdown.Serializer{}, func() countdown.State {
				return countdown.State{Config: countdown.DefaultConfig()}
			}),
	}
}

// Register adds t. Names and paths must be unique.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name())
	}
	if owner, ok := r.pathOwner(t.Path()); ok {
		return fmt.Errorf("%w: %s is served by %s", ErrInvalidPath, t.Path(), owner)
	}
	r.tools[t.Name()] = t
	return nil
}

// pathOwner returns the tool registered at exactly path. Callers hold r.mu.
func (r *Registry) pathOwner(path string) (string, bool) {
	for name, t := range r.tools {
		if t.Path() == path {
			return name, true
		}
	}
	return "", false
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Match returns the tool whose path is the longest prefix of path, matching
// whole segments only. Paths are unique, so the match is unambiguous.
func (r *Registry) Match(path string) (Tool, error) {
	path = normalizePath(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Tool
	for _, t := range r.tools {
		if !hasPathPrefix(path, t.Path()) {
			continue
		}
		if best == nil || len(t.Path()) > len(best.Path()) {
			best = t
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no tool at %s", ErrUnknownTool, path)
	}
	return best, nil
}

// List returns every tool sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Tool) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// Override serves the named tool under path instead. The path must not be
// served by another tool.
func (r *Registry) Override(name, path string) error {
	path = normalizePath(path)
	if path == "/" {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if owner, ok := r.pathOwner(path); ok && owner != name {
		return fmt.Errorf("%w: %s is served by %s", ErrInvalidPath, path, owner)
	}
	if rt, ok := t.(relocated); ok {
		t = rt.Tool
	}
	r.tools[name] = relocated{Tool: t, path: path}
	return nil
}

// ============================================================
// Links
// ============================================================

// Link is a shareable link for one state.
type Link struct {
	URL         string `json:"url"`
	Query       string `json:"query"`
	Fingerprint string `json:"fingerprint"`
}

// Link encodes a JSON state of the named tool into a shareable link. The
// tool path is appended to baseURL.
func (r *Registry) Link(name string, state []byte, baseURL string) (Link, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return Link{}, err
	}
	u, p, err := t.EncodeJSON(state, strings.TrimSuffix(baseURL, "/")+t.Path())
	if err != nil {
		return Link{}, err
	}
	return Link{
		URL:         u,
		Query:       p.Encode(),
		Fingerprint: urlstate.Fingerprint(p),
	}, nil
}

// Resolve matches a shared URL to its tool and decodes the state as JSON.
// It reports false when the link holds nothing restorable.
func (r *Registry) Resolve(rawURL string) (Tool, []byte, bool, error) {
	base, p := urlstate.SplitURL(rawURL)
	t, err := r.Match(pathOf(base))
	if err != nil {
		return nil, nil, false, err
	}
	state, ok, err := t.DecodeJSON(p)
	return t, state, ok, err
}

// ============================================================
// Paths
// ============================================================

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || prefix == "/" || path[len(prefix)] == '/'
}

// pathOf returns the path of a shared URL, absolute or not.
func pathOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	return u.Path
}
