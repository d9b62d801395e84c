// Package websuggest fetches search suggestions from an
// OpenSearch-style suggest endpoint, the JSON-array protocol most search
// engines expose:
//
//	["query", ["s1", "s2"], [], {"google:suggestrelevance": [601, 600],
//	 "google:suggesttype": ["QUERY", "NAVIGATION"]}]
//
// Requests carry the caller's context, so an in-flight fetch is aborted
// the moment its query cycle is cancelled.
package websuggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/remiges/omnibox/store"
)

// DefaultEndpoint is the suggest service queried when none is
// configured; %s receives the escaped query.
const DefaultEndpoint = "https://suggestqueries.google.com/complete/search?client=firefox&q=%s"

// Client fetches suggestions over HTTP and implements
// store.SuggestSource.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the given endpoint template; empty means
// DefaultEndpoint.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client,
// used by tests.
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	c := New(endpoint)
	c.http = hc
	return c
}

// Suggest fetches suggestions for the query. Cancellation of ctx aborts
// the request; any other failure is returned as an error for the caller
// to degrade on.
func (c *Client) Suggest(ctx context.Context, query string) ([]store.WebSuggestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf(c.endpoint, url.QueryEscape(query)), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest: unexpected status %d", resp.StatusCode)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("suggest: decode: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("suggest: short response")
	}

	var texts []string
	if err := json.Unmarshal(raw[1], &texts); err != nil {
		return nil, fmt.Errorf("suggest: decode suggestions: %w", err)
	}

	var meta struct {
		Relevance []int    `json:"google:suggestrelevance"`
		Types     []string `json:"google:suggesttype"`
	}
	if len(raw) >= 4 {
		// Metadata is optional; a response without it still yields
		// usable suggestions.
		_ = json.Unmarshal(raw[3], &meta)
	}

	out := make([]store.WebSuggestion, 0, len(texts))
	for i, text := range texts {
		s := store.WebSuggestion{Text: text}
		if i < len(meta.Relevance) {
			s.Relevance = meta.Relevance[i]
		}
		if i < len(meta.Types) && meta.Types[i] == "NAVIGATION" {
			s.IsNavigation = true
			s.URL = text
		}
		out = append(out, s)
	}
	return out, nil
}
