package websuggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func suggestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got == "" {
			t.Errorf("query parameter missing from %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestDecodesFullResponse(t *testing.T) {
	srv := suggestServer(t, `["golang",
		["golang tutorial", "https://golang.org/"],
		[],
		{"google:suggestrelevance": [601, 1200],
		 "google:suggesttype": ["QUERY", "NAVIGATION"]}]`)

	c := New(srv.URL + "/complete?q=%s")
	got, err := c.Suggest(context.Background(), "golang")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}

	if got[0].Text != "golang tutorial" || got[0].IsNavigation || got[0].Relevance != 601 {
		t.Errorf("first suggestion mis-decoded: %+v", got[0])
	}
	if !got[1].IsNavigation || got[1].URL != "https://golang.org/" || got[1].Relevance != 1200 {
		t.Errorf("navigation suggestion mis-decoded: %+v", got[1])
	}
}

func TestSuggestWithoutMetadata(t *testing.T) {
	srv := suggestServer(t, `["go", ["go playground", "go modules"]]`)

	c := New(srv.URL + "/complete?q=%s")
	got, err := c.Suggest(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	for _, s := range got {
		if s.IsNavigation || s.Relevance != 0 {
			t.Errorf("bare response should yield plain suggestions: %+v", s)
		}
	}
}

func TestSuggestErrorPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"short array", `["only-query"]`},
		{"suggestions not strings", `["q", [1, 2]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := suggestServer(t, tt.body)
			c := New(srv.URL + "/complete?q=%s")
			if _, err := c.Suggest(context.Background(), "q"); err == nil {
				t.Error("expected a decode error")
			}
		})
	}
}

func TestSuggestNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL + "/complete?q=%s")
	if _, err := c.Suggest(context.Background(), "q"); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestSuggestAbortsOnCancel(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-blocked:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(blocked); srv.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	c := New(srv.URL + "/complete?q=%s")
	go func() {
		_, err := c.Suggest(ctx, "q")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("cancelled fetch should return an error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled fetch never returned")
	}
}
