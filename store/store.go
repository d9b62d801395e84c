// Package store defines the collaborator interfaces the omnibox engine
// consumes: history, learned shortcuts, bookmarks, open tabs and the
// network suggestion source. Backends implement these interfaces in their
// own packages; in-memory implementations live alongside for tests and
// small embedders.
package store

import (
	"context"
	"time"

	"github.com/remiges/omnibox/scoring"
)

// HistoryEntry is one visited URL as recorded by the host's history store.
type HistoryEntry struct {
	URL           string
	Title         string
	VisitCount    int
	TypedCount    int
	LastVisit     time.Time
	LastVisitType scoring.VisitType
}

// Shortcut is a learned input-to-destination mapping: the user typed
// Trigger and ended up choosing DestinationURL.
type Shortcut struct {
	Trigger          string
	DestinationURL   string
	DestinationTitle string
	MatchType        string
	HitCount         int
	LastUsed         time.Time
}

// Tab identifies one currently open tab.
type Tab struct {
	ID    string
	Title string
	URL   string
}

// WebSuggestion is one entry of a network suggest response.
type WebSuggestion struct {
	Text         string
	URL          string
	IsNavigation bool
	Relevance    int
}

// HistoryStore exposes the host's persistent visit history.
type HistoryStore interface {
	// SignificantHistory returns the entries worth indexing in memory,
	// typically those with enough visits or at least one typed visit.
	SignificantHistory(ctx context.Context) ([]HistoryEntry, error)

	// Search returns entries whose URL or title matches the query text,
	// most relevant first.
	Search(ctx context.Context, query string, limit int) ([]HistoryEntry, error)

	// Recent returns the most recently visited entries.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// MostVisited returns the entries with the highest visit counts.
	MostVisited(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// ShortcutStore persists learned shortcuts. RecordUsage is fire-and-forget
// from the engine's point of view and must not block navigation.
type ShortcutStore interface {
	// Search returns shortcuts whose trigger is a prefix-compatible match
	// for the input text, strongest first.
	Search(ctx context.Context, inputText string, limit int) ([]Shortcut, error)

	// RecordUsage records that inputText led the user to destinationURL.
	RecordUsage(ctx context.Context, inputText, destinationURL, destinationTitle, matchType string) error
}

// BookmarkStore is the future bookmark collaborator. The engine tolerates
// implementations that always return empty results.
type BookmarkStore interface {
	Search(ctx context.Context, query string, limit int) ([]HistoryEntry, error)
	IsBookmarked(ctx context.Context, url string) (bool, error)
	All(ctx context.Context) ([]HistoryEntry, error)
}

// TabSource enumerates the currently open tabs for the active window
// scope.
type TabSource interface {
	OpenTabs() []Tab
}

// SuggestSource fetches search suggestions for a query over the network.
// Implementations must honor ctx cancellation.
type SuggestSource interface {
	Suggest(ctx context.Context, query string) ([]WebSuggestion, error)
}
