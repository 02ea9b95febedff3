// Package registry catalogs the shareable tools by name and site path.
//
// Every typed urlstate.Serializer is wrapped by Adapt into a Tool that speaks
// JSON on one side and query parameters on the other, so callers that only
// hold a tool name (the command-line tool, the share service) can encode and
// decode any tool uniformly.
//
// Basic usage:
//
//	reg := registry.Default()
//	link, err := reg.Link("tiles", []byte(`{"tiles":[...]}`), "https://example.com")
//
//	tool, err := reg.Match("/mathematics/algebra-tiles")
//	state, ok, err := tool.DecodeJSON(params)
package registry
