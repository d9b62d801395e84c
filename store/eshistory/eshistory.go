// Package eshistory implements the omnibox HistoryStore on
// Elasticsearch. Visit records are documents in a single index; Search
// is a multi_match over the URL and title, and the significant-history,
// recent and most-visited views are sorted filter queries.
package eshistory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"
)

const indexMappingTemplate = `{
	"settings": {
		"number_of_shards": %d,
		"number_of_replicas": %d
	},
	"mappings": {
		"properties": {
			"url": {
				"type": "text",
				"analyzer": "simple",
				"fields": {"keyword": {"type": "keyword"}}
			},
			"title": {"type": "text", "analyzer": "simple"},
			"visit_count": {"type": "integer"},
			"typed_count": {"type": "integer"},
			"last_visit": {"type": "date"},
			"last_visit_type": {"type": "keyword"}
		}
	}
}`

// visitTypeNames maps the persisted transition names onto scoring visit
// types; unknown names fall back to a plain link visit.
var visitTypeNames = map[string]scoring.VisitType{
	"link":     scoring.VisitLink,
	"typed":    scoring.VisitTyped,
	"bookmark": scoring.VisitBookmark,
	"redirect": scoring.VisitRedirect,
	"reload":   scoring.VisitReload,
}

// Store implements store.HistoryStore on Elasticsearch.
type Store struct {
	client *elasticsearch.Client
	index  string

	// minVisits is the visit-count floor for SignificantHistory;
	// entries with a typed visit always qualify.
	minVisits int

	// maxSignificant caps the significant-history scan.
	maxSignificant int
}

// Config holds Elasticsearch connection parameters.
type Config struct {
	// URLs is the list of Elasticsearch node URLs.
	URLs []string

	// Index is the index holding visit documents. Default: "omnibox-history".
	Index string

	// Username and Password for basic authentication.
	Username string
	Password string

	// MinVisitsSignificant is the visit-count floor for the in-memory
	// index feed. Default: 3.
	MinVisitsSignificant int

	// MaxSignificant caps the significant-history scan. Default: 10000.
	MaxSignificant int

	// NumberOfShards and NumberOfReplicas are applied only when the
	// index is created by this store.
	NumberOfShards   int
	NumberOfReplicas int
}

func (c *Config) setDefaults() {
	if c.Index == "" {
		c.Index = "omnibox-history"
	}
	if c.MinVisitsSignificant == 0 {
		c.MinVisitsSignificant = 3
	}
	if c.MaxSignificant == 0 {
		c.MaxSignificant = 10000
	}
	if c.NumberOfShards == 0 {
		c.NumberOfShards = 1
	}
}

// New connects to Elasticsearch, verifies connectivity and creates the
// history index if it does not exist.
func New(config Config) (*Store, error) {
	config.setDefaults()

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.URLs,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch connection error: %s", res.String())
	}

	s := &Store{
		client:         client,
		index:          config.Index,
		minVisits:      config.MinVisitsSignificant,
		maxSignificant: config.MaxSignificant,
	}
	if err := s.createIndexIfNotExists(config); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return s, nil
}

func (s *Store) createIndexIfNotExists(config Config) error {
	existsRes, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(context.Background(), s.client)
	if err != nil {
		return err
	}
	defer func() { _ = existsRes.Body.Close() }()
	if existsRes.StatusCode == 200 {
		return nil
	}

	mapping := fmt.Sprintf(indexMappingTemplate, config.NumberOfShards, config.NumberOfReplicas)
	res, err := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(mapping),
	}.Do(context.Background(), s.client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index create: %s", res.String())
	}
	return nil
}

// visitDoc is the document shape of one history entry.
type visitDoc struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	VisitCount    int       `json:"visit_count"`
	TypedCount    int       `json:"typed_count"`
	LastVisit     time.Time `json:"last_visit"`
	LastVisitType string    `json:"last_visit_type"`
}

// RecordVisit writes the visit document keyed by URL, replacing any
// previous one. Used by hosts that route their navigation history
// through this store.
func (s *Store) RecordVisit(ctx context.Context, entry store.HistoryEntry) error {
	doc := visitDoc{
		URL:           entry.URL,
		Title:         entry.Title,
		VisitCount:    entry.VisitCount,
		TypedCount:    entry.TypedCount,
		LastVisit:     entry.LastVisit,
		LastVisitType: visitTypeName(entry.LastVisitType),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("visit encode: %w", err)
	}
	res, err := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: entry.URL,
		Body:       bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("visit index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("visit index: %s", res.String())
	}
	return nil
}

// SignificantHistory returns the entries worth holding in the in-memory
// index: enough visits, or at least one typed visit.
func (s *Store) SignificantHistory(ctx context.Context) ([]store.HistoryEntry, error) {
	query := map[string]any{
		"size": s.maxSignificant,
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"range": map[string]any{"visit_count": map[string]any{"gte": s.minVisits}}},
					map[string]any{"range": map[string]any{"typed_count": map[string]any{"gte": 1}}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []any{map[string]any{"visit_count": "desc"}},
	}
	return s.search(ctx, query)
}

// Search returns entries matching the query text in URL or title.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]store.HistoryEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	body := map[string]any{
		"size": sizeOr(limit, 10),
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"url^2", "title"},
				"type":   "most_fields",
			},
		},
	}
	return s.search(ctx, body)
}

// Recent returns the most recently visited entries.
func (s *Store) Recent(ctx context.Context, limit int) ([]store.HistoryEntry, error) {
	body := map[string]any{
		"size":  sizeOr(limit, 10),
		"query": map[string]any{"match_all": map[string]any{}},
		"sort":  []any{map[string]any{"last_visit": "desc"}},
	}
	return s.search(ctx, body)
}

// MostVisited returns the entries with the highest visit counts.
func (s *Store) MostVisited(ctx context.Context, limit int) ([]store.HistoryEntry, error) {
	body := map[string]any{
		"size":  sizeOr(limit, 10),
		"query": map[string]any{"match_all": map[string]any{}},
		"sort":  []any{map[string]any{"visit_count": "desc"}},
	}
	return s.search(ctx, body)
}

func (s *Store) search(ctx context.Context, body map[string]any) ([]store.HistoryEntry, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("history query encode: %w", err)
	}
	res, err := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  &buf,
	}.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("history search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("history search: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source visitDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("history decode: %w", err)
	}

	entries := make([]store.HistoryEntry, 0, len(response.Hits.Hits))
	for _, h := range response.Hits.Hits {
		entries = append(entries, store.HistoryEntry{
			URL:           h.Source.URL,
			Title:         h.Source.Title,
			VisitCount:    h.Source.VisitCount,
			TypedCount:    h.Source.TypedCount,
			LastVisit:     h.Source.LastVisit,
			LastVisitType: visitTypeNames[h.Source.LastVisitType],
		})
	}
	return entries, nil
}

func sizeOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

func visitTypeName(t scoring.VisitType) string {
	for name, vt := range visitTypeNames {
		if vt == t {
			return name
		}
	}
	return "link"
}
