package providers

import (
	"context"

	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"

	"github.com/charmbracelet/log"
)

// Bookmark surfaces bookmarked URLs. The bookmark subsystem is not
// implemented upstream yet, so with the stub store this provider always
// delivers an empty result; the plumbing is in place for when it lands.
type Bookmark struct {
	bookmarks store.BookmarkStore
	limit     int
	log       *log.Logger
}

// NewBookmark creates the provider over the given bookmark store.
func NewBookmark(bookmarks store.BookmarkStore, limit int) *Bookmark {
	return &Bookmark{
		bookmarks: bookmarks,
		limit:     limit,
		log:       logger.New(NameBookmark),
	}
}

// Name implements Provider.
func (p *Bookmark) Name() string { return NameBookmark }

// Stop implements Provider.
func (p *Bookmark) Stop() {}

// Start implements Provider.
func (p *Bookmark) Start(ctx context.Context, input Input, emit EmitFunc) {
	if len(input.Terms) == 0 || p.bookmarks == nil {
		emit(nil, true)
		return
	}
	entries, err := p.bookmarks.Search(ctx, input.Text, p.limit)
	if err != nil {
		p.log.Warn("bookmark search failed", "err", err)
		emit(nil, true)
		return
	}
	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, Match{
			Provider:       NameBookmark,
			Relevance:      scoring.BandHistory.Min,
			Contents:       e.URL,
			Description:    e.Title,
			DestinationURL: e.URL,
			Type:           TypeBookmark,
			DedupKey:       DedupKey(e.URL),
			Signals:        ScoringSignals{IsBookmarked: true, URLLength: len(e.URL)},
		})
	}
	emit(matches, true)
}
