package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/knowtree/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	results  []types.SearchResult
	err      error
	calls    int
	gotQuery string
	gotLimit int
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Search(_ context.Context, query string, limit int) ([]types.SearchResult, error) {
	m.calls++
	m.gotQuery = query
	m.gotLimit = limit
	return m.results, m.err
}

func nResults(n int) []types.SearchResult {
	results := make([]types.SearchResult, n)
	for i := range results {
		results[i] = types.SearchResult{
			Title: fmt.Sprintf("Result %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		}
	}
	return results
}

// --- Client ---

func TestClientSearchClampsNumResults(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero clamps up", 0, 1},
		{"negative clamps up", -5, 1},
		{"above range clamps down", 99, 10},
		{"in range passes through", 5, 5},
		{"lower bound", 1, 1},
		{"upper bound", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockBackend{}
			c := NewClient(m, nil)
			c.Search(context.Background(), "q", tt.in)
			if m.gotLimit != tt.want {
				t.Errorf("backend limit = %d, want %d", m.gotLimit, tt.want)
			}
		})
	}
}

func TestClientSearchSwallowsBackendError(t *testing.T) {
	m := &mockBackend{err: fmt.Errorf("provider exploded")}
	c := NewClient(m, nil)

	results := c.Search(context.Background(), "q", 3)
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 on backend error", len(results))
	}
	if m.calls != 1 {
		t.Errorf("backend calls = %d, want 1", m.calls)
	}
}

func TestClientSearchTruncatesToNumResults(t *testing.T) {
	m := &mockBackend{results: nResults(12)}
	c := NewClient(m, nil)

	for _, n := range []int{1, 3, 10} {
		results := c.Search(context.Background(), "q", n)
		if len(results) != n {
			t.Errorf("Search(n=%d) returned %d results", n, len(results))
		}
	}
}

func TestClientSearchFewerThanRequested(t *testing.T) {
	m := &mockBackend{results: nResults(2)}
	c := NewClient(m, nil)

	results := c.Search(context.Background(), "q", 10)
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestClientSearchPassesQuery(t *testing.T) {
	m := &mockBackend{}
	c := NewClient(m, nil)
	c.Search(context.Background(), "quantum computing", 3)
	if m.gotQuery != "quantum computing" {
		t.Errorf("backend query = %q", m.gotQuery)
	}
}

// --- NewBackend ---

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		cfg      types.SearchConfig
		wantName string
		wantErr  bool
	}{
		{"default is serpapi", types.SearchConfig{APIKey: "k"}, "serpapi", false},
		{"serpapi explicit", types.SearchConfig{Provider: "serpapi", APIKey: "k"}, "serpapi", false},
		{"serpapi without key", types.SearchConfig{Provider: "serpapi"}, "", true},
		{"duckduckgo", types.SearchConfig{Provider: "duckduckgo"}, "duckduckgo", false},
		{"unknown provider", types.SearchConfig{Provider: "altavista"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
		})
	}
}

// --- DuckDuckGo backend ---

const sampleDuckDuckGoHTML = `<html><body>
<div class="serp__results">
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fquantum&rut=abc123">Quantum Computing Basics</a>
  </h2>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fquantum">An introduction to qubits.</a>
</div>
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a class="result__a" href="https://plain.example.org/page">Plain Link Result</a>
  </h2>
  <a class="result__snippet" href="https://plain.example.org/page">Another snippet here.</a>
</div>
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a class="result__a" href="https://third.example.org/">Third Result</a>
  </h2>
</div>
</div>
</body></html>`

func TestDuckDuckGoBackendSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("missing q parameter")
		}
		fmt.Fprint(w, sampleDuckDuckGoHTML)
	}))
	defer ts.Close()

	old := duckduckgoBase
	duckduckgoBase = ts.URL
	defer func() { duckduckgoBase = old }()

	b := &DuckDuckGoBackend{Client: ts.Client()}
	results, err := b.Search(context.Background(), "quantum computing", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Title != "Quantum Computing Basics" {
		t.Errorf("Title = %q", results[0].Title)
	}
	if results[0].URL != "https://example.com/quantum" {
		t.Errorf("redirect URL not decoded: %q", results[0].URL)
	}
	if results[0].Snippet != "An introduction to qubits." {
		t.Errorf("Snippet = %q", results[0].Snippet)
	}
	if results[1].URL != "https://plain.example.org/page" {
		t.Errorf("plain URL = %q", results[1].URL)
	}
	if results[2].Snippet != "" {
		t.Errorf("snippet-less result should have empty snippet, got %q", results[2].Snippet)
	}
}

func TestDuckDuckGoBackendLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleDuckDuckGoHTML)
	}))
	defer ts.Close()

	old := duckduckgoBase
	duckduckgoBase = ts.URL
	defer func() { duckduckgoBase = old }()

	b := &DuckDuckGoBackend{Client: ts.Client()}
	results, err := b.Search(context.Background(), "quantum", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestDuckDuckGoBackendHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := duckduckgoBase
	duckduckgoBase = ts.URL
	defer func() { duckduckgoBase = old }()

	b := &DuckDuckGoBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), "quantum", 3)
	if err == nil || !strings.Contains(err.Error(), "HTTP 429") {
		t.Errorf("expected HTTP error, got: %v", err)
	}
}

func TestDecodeRedirect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"redirect with trailing params",
			"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=xyz",
			"https://example.com/page",
		},
		{
			"redirect without trailing params",
			"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage",
			"https://example.com/page",
		},
		{
			"plain url untouched",
			"https://example.com/direct",
			"https://example.com/direct",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeRedirect(tt.input); got != tt.want {
				t.Errorf("decodeRedirect(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// --- Output formatting ---

func TestFormatTable(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Paper A", Snippet: "about A", URL: "https://a.example.com"},
		{Title: "Paper B", URL: "https://b.example.com"},
	}

	var buf bytes.Buffer
	FormatTable(results, &buf)
	s := buf.String()

	for _, want := range []string{"Paper A", "about A", "https://b.example.com", "2 results"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No results") {
		t.Error("empty output should say 'No results'")
	}
}

func TestFormatJSON(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Paper A", Snippet: "s", URL: "https://a.example.com"},
	}

	var buf bytes.Buffer
	if err := FormatJSON(results, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var parsed []types.SearchResult
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(parsed) != 1 || parsed[0].URL != "https://a.example.com" {
		t.Errorf("parsed = %+v", parsed)
	}
}
