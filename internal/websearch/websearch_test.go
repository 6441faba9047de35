package websearch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serpServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSerpClient_QueryParameters(t *testing.T) {
	srv := serpServer(t, http.StatusOK, `{"organic_results":[]}`, func(r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "sudan & war?" {
			t.Errorf("expected decoded query, got %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "secret" {
			t.Errorf("expected api key, got %q", got)
		}
	})

	c := NewSerpClient(srv.URL+"/search.json", "secret", time.Second)
	if _, err := c.Search(context.Background(), "sudan & war?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetcher_TakesFirstThreeAndKeepsMissingSnippets(t *testing.T) {
	body := `{"organic_results":[{"snippet":"one"},{"title":"no snippet"},{"snippet":"three"},{"snippet":"four"}]}`
	srv := serpServer(t, http.StatusOK, body, nil)

	f := NewFetcher(NewSerpClient(srv.URL, "k", time.Second), discardLogger())
	got := f.Fetch(context.Background(), "q")
	if got != "one\n\nthree" {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestFetcher_NoResults(t *testing.T) {
	for _, body := range []string{`{"organic_results":[]}`, `{"search_metadata":{}}`} {
		srv := serpServer(t, http.StatusOK, body, nil)
		f := NewFetcher(NewSerpClient(srv.URL, "k", time.Second), discardLogger())
		if got := f.Fetch(context.Background(), "q"); got != MsgNoResults {
			t.Errorf("body %s: expected %q, got %q", body, MsgNoResults, got)
		}
	}
}

func TestFetcher_ErrorsBecomeFetchError(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid API key"}`},
		{"invalid json", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		srv := serpServer(t, tc.status, tc.body, nil)
		f := NewFetcher(NewSerpClient(srv.URL, "k", time.Second), discardLogger())
		if got := f.Fetch(context.Background(), "q"); got != MsgFetchError {
			t.Errorf("%s: expected %q, got %q", tc.name, MsgFetchError, got)
		}
	}
}

func TestFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(NewSerpClient(url, "k", time.Second), discardLogger())
	if got := f.Fetch(context.Background(), "q"); got != MsgFetchError {
		t.Errorf("expected %q, got %q", MsgFetchError, got)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := NewFetcher(NewSerpClient(srv.URL, "k", 50*time.Millisecond), discardLogger())
	if got := f.Fetch(context.Background(), "q"); got != MsgFetchError {
		t.Errorf("expected %q, got %q", MsgFetchError, got)
	}
}

type countingSearcher struct {
	calls    int
	snippets []string
	err      error
}

func (s *countingSearcher) Search(ctx context.Context, query string) ([]string, error) {
	s.calls++
	return s.snippets, s.err
}

func TestFetcher_NotConfigured(t *testing.T) {
	f := NewFetcher(nil, discardLogger())
	if f.Configured() {
		t.Error("expected fetcher without searcher to be unconfigured")
	}
	if got := f.Fetch(context.Background(), "q"); got != MsgNotConfigured {
		t.Errorf("expected %q, got %q", MsgNotConfigured, got)
	}
}

func TestFetcher_SearcherError(t *testing.T) {
	s := &countingSearcher{err: errors.New("boom")}
	f := NewFetcher(s, discardLogger())
	if got := f.Fetch(context.Background(), "q"); got != MsgFetchError {
		t.Errorf("expected %q, got %q", MsgFetchError, got)
	}
	if s.calls != 1 {
		t.Errorf("expected one search, got %d", s.calls)
	}
}

func TestFetcher_CapsSearcherResults(t *testing.T) {
	s := &countingSearcher{snippets: []string{"a", "b", "c", "d"}}
	f := NewFetcher(s, discardLogger())
	if got := f.Fetch(context.Background(), "q"); got != "a\nb\nc" {
		t.Errorf("unexpected reply %q", got)
	}
}
