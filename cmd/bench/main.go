// bench - shareable link size benchmark
//
// Compares the compact query encoding of each fixture state against:
//   - minified JSON
//   - minified JSON escaped into a single query parameter
//
// Output: CSV and markdown summary
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/pflag"

	"github.com/Neumenon/statelink/registry"
)

type CaseResult struct {
	Name         string
	Tool         string
	JSONBytes    int
	EscapedBytes int
	QueryBytes   int
	BytesSaved   int
	BytesPct     float64
}

type Manifest struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Cases       []struct {
		Name string `json:"name"`
		Tool string `json:"tool"`
		File string `json:"file"`
	} `json:"cases"`
}

func main() {
	fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
	dir := fs.String("testdata", "", "fixture directory holding manifest.json")
	csvPath := fs.String("csv", "bench_results.csv", "CSV output path (empty to skip)")
	mdPath := fs.String("md", "BENCH.md", "markdown output path (empty to skip)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	testdataDir := *dir
	if testdataDir == "" {
		testdataDir = findTestdata()
	}
	if testdataDir == "" {
		fmt.Fprintln(os.Stderr, "Cannot find testdata/states directory")
		os.Exit(1)
	}

	manifest, results, err := runCases(testdataDir, registry.Default(), os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}

	if *csvPath != "" {
		if f, err := os.Create(*csvPath); err == nil {
			writeCSV(f, results)
			f.Close()
			fmt.Fprintf(os.Stderr, "CSV written to: %s\n", *csvPath)
		}
	}
	if *mdPath != "" {
		if f, err := os.Create(*mdPath); err == nil {
			writeMarkdown(f, results, manifest.Version)
			f.Close()
			fmt.Fprintf(os.Stderr, "Markdown written to: %s\n", *mdPath)
		}
	}

	t := totals(results)
	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Cases:         %d\n", len(results))
	fmt.Printf("JSON total:    %d bytes\n", t.JSONBytes)
	fmt.Printf("Escaped total: %d bytes\n", t.EscapedBytes)
	fmt.Printf("Query total:   %d bytes\n", t.QueryBytes)
	fmt.Printf("Bytes saved:   %d (%.1f%% vs escaped JSON)\n", t.BytesSaved, t.BytesPct)
}

// runCases encodes every manifest case. Cases that fail are reported on log
// and skipped.
func runCases(dir string, reg *registry.Registry, log io.Writer) (*Manifest, []CaseResult, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, nil, fmt.Errorf("parse manifest: %w", err)
	}

	fmt.Fprintf(log, "Link Size Benchmark\n")
	fmt.Fprintf(log, "===================\n")
	fmt.Fprintf(log, "Corpus: %s (%d cases)\n\n", manifest.Version, len(manifest.Cases))

	var results []CaseResult
	for _, c := range manifest.Cases {
		state, err := os.ReadFile(filepath.Join(dir, c.File))
		if err != nil {
			fmt.Fprintf(log, "Skip %s: %v\n", c.Name, err)
			continue
		}
		r, err := measure(reg, c.Tool, state)
		if err != nil {
			fmt.Fprintf(log, "Skip %s: %v\n", c.Name, err)
			continue
		}
		r.Name = c.Name
		results = append(results, r)
	}
	return &manifest, results, nil
}

func measure(reg *registry.Registry, tool string, state []byte) (CaseResult, error) {
	link, err := reg.Link(tool, state, "")
	if err != nil {
		return CaseResult{}, err
	}

	// Minify JSON for fair comparison
	var v any
	if err := json.Unmarshal(state, &v); err != nil {
		return CaseResult{}, err
	}
	jsonMin, err := json.Marshal(v)
	if err != nil {
		return CaseResult{}, err
	}

	r := CaseResult{
		Tool:         tool,
		JSONBytes:    len(jsonMin),
		EscapedBytes: len("s=" + url.QueryEscape(string(jsonMin))),
		QueryBytes:   len(link.Query),
	}
	r.BytesSaved = r.EscapedBytes - r.QueryBytes
	if r.EscapedBytes > 0 {
		r.BytesPct = float64(r.BytesSaved) / float64(r.EscapedBytes) * 100.0
	}
	return r, nil
}

func totals(results []CaseResult) CaseResult {
	var t CaseResult
	for _, r := range results {
		t.JSONBytes += r.JSONBytes
		t.EscapedBytes += r.EscapedBytes
		t.QueryBytes += r.QueryBytes
	}
	t.BytesSaved = t.EscapedBytes - t.QueryBytes
	if t.EscapedBytes > 0 {
		t.BytesPct = float64(t.BytesSaved) / float64(t.EscapedBytes) * 100.0
	}
	return t
}

func findTestdata() string {
	// Try relative paths from likely locations
	paths := []string{
		"testdata/states",
		"../testdata/states",
		"../../testdata/states",
	}

	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(p, "manifest.json")); err == nil {
			return p
		}
	}

	return ""
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,tool,json_bytes,escaped_bytes,query_bytes,bytes_saved,bytes_pct")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%s,%d,%d,%d,%d,%.1f\n",
			r.Name, r.Tool, r.JSONBytes, r.EscapedBytes, r.QueryBytes, r.BytesSaved, r.BytesPct)
	}
}

func writeMarkdown(w io.Writer, results []CaseResult, version string) {
	t := totals(results)

	fmt.Fprintf(w, "# Link Size Benchmark Results\n\n")
	fmt.Fprintf(w, "**Corpus:** %s (%d cases)  \n\n", version, len(results))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | JSON (minified) | JSON (escaped) | Query | Savings |\n")
	fmt.Fprintf(w, "|--------|-----------------|----------------|-------|---------|\n")
	fmt.Fprintf(w, "| **Bytes** | %d | %d | %d | %d (%.1f%%) |\n\n",
		t.JSONBytes, t.EscapedBytes, t.QueryBytes, t.BytesSaved, t.BytesPct)

	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BytesPct > sorted[j].BytesPct
	})

	fmt.Fprintf(w, "## Detailed Results\n\n")
	fmt.Fprintf(w, "| Case | Tool | JSON | Escaped | Query | Saved |\n")
	fmt.Fprintf(w, "|------|------|------|---------|-------|-------|\n")
	for _, r := range sorted {
		fmt.Fprintf(w, "| %s | %s | %d | %d | %d | %.1f%% |\n",
			truncateName(r.Name, 25), r.Tool, r.JSONBytes, r.EscapedBytes, r.QueryBytes, r.BytesPct)
	}

	fmt.Fprintf(w, "\n## Methodology\n\n")
	fmt.Fprintf(w, "- **JSON:** Minified (no whitespace), using Go's `json.Marshal`\n")
	fmt.Fprintf(w, "- **Escaped:** Minified JSON carried as one `s=` query parameter\n")
	fmt.Fprintf(w, "- **Query:** The tool's own parameters, form-encoded\n")
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
