package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/commute-coach/internal/fetch"
	"github.com/jonathan/commute-coach/internal/types"
)

const indexHTML = `<html><body>
<ul class="video-list">
  <li class="video" data-id="v1" data-duration="300" data-level="beginner" data-source="chan1" data-tags="python,basics">
    <a href="https://example.com/v1">Intro to Python</a>
  </li>
  <li class="video" data-id="v2" data-duration="480" data-level="advanced" data-source="chan2" data-tags="python">
    <a href="https://example.com/v2">Python Internals</a>
  </li>
  <li class="video" data-id="v3" data-duration="240" data-source="chan1" data-tags="javascript">
    <a href="https://example.com/v3">JS Crash Course</a>
  </li>
  <li class="video" data-id="v4" data-duration="oops" data-tags="python">
    <a href="https://example.com/v4">Broken Entry</a>
  </li>
  <li class="video" data-id="" data-duration="120" data-tags="python">
    <a href="https://example.com/v5">Missing ID</a>
  </li>
</ul>
</body></html>`

func TestParseIndexHTML(t *testing.T) {
	candidates, err := ParseIndexHTML(indexHTML)
	if err != nil {
		t.Fatalf("ParseIndexHTML failed: %v", err)
	}

	// v4 has a bad duration and v5 has no id; both are skipped.
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %v", len(candidates), candidates)
	}

	first := candidates[0]
	if first.ID != "v1" || first.DurationSec != 300 || first.Level != types.LevelBeginner {
		t.Errorf("unexpected first candidate: %+v", first)
	}
	if first.Title != "Intro to Python" || first.URL != "https://example.com/v1" {
		t.Errorf("title/url not extracted: %+v", first)
	}
	if first.SourceID != "chan1" {
		t.Errorf("source not extracted: %+v", first)
	}
	if !first.HasTopic("python") || !first.HasTopic("basics") {
		t.Errorf("tags not extracted: %+v", first)
	}

	// Unlabeled entries stay unlabeled.
	if candidates[2].Level != "" {
		t.Errorf("v3 has no data-level, got %q", candidates[2].Level)
	}
}

func TestIndexSource_FetchFiltersByTopic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(indexHTML))
	}))
	defer server.Close()

	src := NewIndexSource(server.URL, fetch.NewCachedFetcher(nil), false)

	candidates, err := src.Fetch(context.Background(), "Python", "")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected v1 and v2 for topic python, got %v", candidates)
	}
	for _, c := range candidates {
		if !c.HasTopic("python") {
			t.Errorf("candidate %s does not carry the topic", c.ID)
		}
	}
}

func TestIndexSource_FetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewIndexSource(server.URL, fetch.NewCachedFetcher(nil), false)

	if _, err := src.Fetch(context.Background(), "python", ""); err == nil {
		t.Error("transport failure must surface as an error")
	}
}

func TestIndexSource_NoMatchesIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(indexHTML))
	}))
	defer server.Close()

	src := NewIndexSource(server.URL, fetch.NewCachedFetcher(nil), false)

	candidates, err := src.Fetch(context.Background(), "haskell", "")
	if err != nil {
		t.Fatalf("no matches must not be an error, got %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected empty pool, got %v", candidates)
	}
}
