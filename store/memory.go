package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryHistory is an in-memory HistoryStore. Safe for concurrent use.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []HistoryEntry

	// MinVisitsSignificant is the visit-count floor for
	// SignificantHistory; entries with a typed visit always qualify.
	MinVisitsSignificant int
}

// NewMemoryHistory creates an empty in-memory history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{MinVisitsSignificant: 3}
}

// Add records or replaces an entry, keyed by URL.
func (h *MemoryHistory) Add(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		if h.entries[i].URL == e.URL {
			h.entries[i] = e
			return
		}
	}
	h.entries = append(h.entries, e)
}

func (h *MemoryHistory) snapshot() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// SignificantHistory returns entries with enough visits or a typed visit.
func (h *MemoryHistory) SignificantHistory(_ context.Context) ([]HistoryEntry, error) {
	var out []HistoryEntry
	for _, e := range h.snapshot() {
		if e.VisitCount >= h.MinVisitsSignificant || e.TypedCount > 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

// Search matches the query case-insensitively against URL and title.
func (h *MemoryHistory) Search(_ context.Context, query string, limit int) ([]HistoryEntry, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	var out []HistoryEntry
	for _, e := range h.snapshot() {
		if strings.Contains(strings.ToLower(e.URL), q) || strings.Contains(strings.ToLower(e.Title), q) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitCount > out[j].VisitCount })
	return clip(out, limit), nil
}

// Recent returns entries ordered by last visit, newest first.
func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]HistoryEntry, error) {
	out := h.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].LastVisit.After(out[j].LastVisit) })
	return clip(out, limit), nil
}

// MostVisited returns entries ordered by visit count, highest first.
func (h *MemoryHistory) MostVisited(_ context.Context, limit int) ([]HistoryEntry, error) {
	out := h.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].VisitCount > out[j].VisitCount })
	return clip(out, limit), nil
}

func clip(entries []HistoryEntry, limit int) []HistoryEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// MemoryShortcuts is an in-memory ShortcutStore. Safe for concurrent use.
type MemoryShortcuts struct {
	mu        sync.RWMutex
	shortcuts map[string]Shortcut // keyed by trigger + "\x00" + destination
	now       func() time.Time
}

// NewMemoryShortcuts creates an empty in-memory shortcut store.
func NewMemoryShortcuts() *MemoryShortcuts {
	return &MemoryShortcuts{
		shortcuts: make(map[string]Shortcut),
		now:       time.Now,
	}
}

// SetClock overrides the clock used to stamp recorded usages. Test hook.
func (s *MemoryShortcuts) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Search returns shortcuts whose trigger starts with the input text or
// whose trigger is a prefix of it, most used first.
func (s *MemoryShortcuts) Search(_ context.Context, inputText string, limit int) ([]Shortcut, error) {
	q := strings.ToLower(strings.TrimSpace(inputText))
	if q == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Shortcut
	for _, sc := range s.shortcuts {
		trig := strings.ToLower(sc.Trigger)
		if strings.HasPrefix(trig, q) || strings.HasPrefix(q, trig) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HitCount != out[j].HitCount {
			return out[i].HitCount > out[j].HitCount
		}
		return out[i].LastUsed.After(out[j].LastUsed)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RecordUsage increments the hit count for the trigger/destination pair,
// creating it on first use.
func (s *MemoryShortcuts) RecordUsage(_ context.Context, inputText, destinationURL, destinationTitle, matchType string) error {
	trig := strings.ToLower(strings.TrimSpace(inputText))
	if trig == "" || destinationURL == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := trig + "\x00" + destinationURL
	sc, ok := s.shortcuts[key]
	if !ok {
		sc = Shortcut{
			Trigger:          trig,
			DestinationURL:   destinationURL,
			DestinationTitle: destinationTitle,
			MatchType:        matchType,
		}
	}
	sc.HitCount++
	sc.LastUsed = s.now()
	sc.DestinationTitle = destinationTitle
	s.shortcuts[key] = sc
	return nil
}

// EmptyBookmarks is the stub BookmarkStore: the bookmark subsystem is not
// implemented upstream yet, so every lookup is empty and nothing is
// bookmarked.
type EmptyBookmarks struct{}

func (EmptyBookmarks) Search(context.Context, string, int) ([]HistoryEntry, error) { return nil, nil }
func (EmptyBookmarks) IsBookmarked(context.Context, string) (bool, error)         { return false, nil }
func (EmptyBookmarks) All(context.Context) ([]HistoryEntry, error)                { return nil, nil }

// StaticTabs is a TabSource over a fixed slice, used by tests and small
// embedders that push the tab list in from outside.
type StaticTabs struct {
	mu   sync.RWMutex
	tabs []Tab
}

// NewStaticTabs creates a TabSource over the given tabs.
func NewStaticTabs(tabs ...Tab) *StaticTabs {
	return &StaticTabs{tabs: tabs}
}

// SetTabs replaces the tab list.
func (s *StaticTabs) SetTabs(tabs []Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = tabs
}

// OpenTabs returns a copy of the current tab list.
func (s *StaticTabs) OpenTabs() []Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}
