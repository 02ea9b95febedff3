package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Neumenon/statelink/config"
	"github.com/Neumenon/statelink/registry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = "https://maths.example.org"
	cfg.MaxBodyBytes = 1024
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(newServer(cfg, registry.Default(), logger).routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %v (%v)", body, err)
	}
}

func TestListTools(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/tools")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var tools []toolInfo
	if err := json.NewDecoder(resp.Body).Decode(&tools); err != nil {
		t.Fatal(err)
	}
	if len(tools) != 12 || tools[0].Name != "areamodel" {
		t.Errorf("unexpected tools: %+v", tools)
	}
}

func postLink(t *testing.T, srv *httptest.Server, tool, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/tools/"+tool+"/link", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestLink(t *testing.T) {
	srv := newTestServer(t)
	body := `{"sources":[1,2,3],"target":6}`

	resp := postLink(t, srv, "countdown", body, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var link registry.Link
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		t.Fatal(err)
	}
	want := "https://maths.example.org/games/countdown?src=1%2C2%2C3&tgt=6"
	if link.URL != want {
		t.Errorf("url = %q, want %q", link.URL, want)
	}
	etag := resp.Header.Get("ETag")
	if etag != `"`+link.Fingerprint+`"` {
		t.Errorf("ETag = %q, fingerprint %q", etag, link.Fingerprint)
	}

	again := postLink(t, srv, "countdown", body, nil)
	if got := again.Header.Get("ETag"); got != etag {
		t.Errorf("ETag not stable: %q vs %q", got, etag)
	}

	cached := postLink(t, srv, "countdown", body, http.Header{"If-None-Match": {etag}})
	if cached.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", cached.StatusCode)
	}
}

func TestLink_Errors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		tool string
		body string
		want int
	}{
		{"unknown tool", "nope", `{}`, http.StatusNotFound},
		{"invalid json", "tiles", `{"tiles":`, http.StatusBadRequest},
		{"wrong type", "tiles", `{"tiles":"x"}`, http.StatusBadRequest},
		{"body too large", "bars", `{"bars":[` + strings.Repeat(" ", 2048) + `]}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postLink(t, srv, tt.tool, tt.body, nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			var e map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e["error"] == "" {
				t.Errorf("expected JSON error body, got %v (%v)", e, err)
			}
		})
	}
}

func TestState(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/tools/pointless/state?c=factors&p=n:36")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"category": "factors", "params": map[string]any{"n": float64(36)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestState_NoContentAndNotFound(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/v1/tools/pointless/state", http.StatusNoContent},
		{"/v1/tools/pointless/state?c=bogus", http.StatusNoContent},
		{"/v1/tools/tiles/state?" + strings.Repeat("x=1&", 100), http.StatusNoContent},
		{"/v1/tools/nope/state?a=1", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}
}
