package providers

import (
	"context"
	"sort"
	"time"

	"github.com/remiges/omnibox/classify"
	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"
	"github.com/remiges/omnibox/tokenize"

	"github.com/charmbracelet/log"
)

// HistoryURL asks the persistent history store for matches the in-memory
// index may lack. It is asynchronous: Start returns immediately and the
// delivery happens from a worker goroutine unless the cycle is cancelled
// first.
type HistoryURL struct {
	history store.HistoryStore
	limit   int
	now     func() time.Time
	log     *log.Logger
}

// NewHistoryURL creates the provider over the given history store.
func NewHistoryURL(history store.HistoryStore, limit int) *HistoryURL {
	return &HistoryURL{
		history: history,
		limit:   limit,
		now:     time.Now,
		log:     logger.New(NameHistoryURL),
	}
}

// SetClock overrides the provider's clock. Test hook.
func (p *HistoryURL) SetClock(now func() time.Time) { p.now = now }

// Name implements Provider.
func (p *HistoryURL) Name() string { return NameHistoryURL }

// Stop implements Provider. In-flight queries are aborted through the
// cycle context.
func (p *HistoryURL) Stop() {}

// Start implements Provider.
func (p *HistoryURL) Start(ctx context.Context, input Input, emit EmitFunc) {
	terms := queryTerms(input)
	if len(terms) == 0 || input.Type == classify.ForcedQuery || p.history == nil {
		emit(nil, true)
		return
	}

	go func() {
		entries, err := p.history.Search(ctx, input.Text, p.limit)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.log.Warn("history search failed", "err", err)
			emit(nil, true)
			return
		}

		now := p.now()
		matches := make([]Match, 0, len(entries))
		for _, e := range entries {
			if m, ok := p.toMatch(e, terms, input, now); ok {
				matches = append(matches, m)
			}
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].Relevance > matches[j].Relevance })
		if p.limit > 0 && len(matches) > p.limit {
			matches = matches[:p.limit]
		}
		if ctx.Err() != nil {
			return
		}
		emit(matches, true)
	}()
}

func (p *HistoryURL) toMatch(e store.HistoryEntry, terms []string, input Input, now time.Time) (Match, bool) {
	urlTokens := tokenize.Tokenize(e.URL)
	titleTokens := tokenize.Tokenize(e.Title)
	best := tokenize.MatchExact
	for _, term := range terms {
		kind := tokenize.FindBestMatch(term, urlTokens)
		if k := tokenize.FindBestMatch(term, titleTokens); k > kind {
			kind = k
		}
		if kind == tokenize.MatchNone {
			return Match{}, false
		}
		if kind < best {
			best = kind
		}
	}

	frecency := scoring.Frecency(e.VisitCount, e.TypedCount, e.LastVisit, e.LastVisitType, now)
	quality := matchKindQuality(best)

	inline, allowedDefault := "", false
	if !input.PreventInline {
		if suffix, ok := inlineSuffix(input.Text, e.URL); ok {
			inline = suffix
			allowedDefault = true
		}
	}

	rel := scoring.Relevance(scoring.BandHistory, frecency, quality,
		len(input.Text), e.TypedCount > 0, inline != "")

	return Match{
		Provider:           NameHistoryURL,
		Relevance:          rel,
		Contents:           e.URL,
		Description:        e.Title,
		DestinationURL:     e.URL,
		Type:               TypeHistoryURL,
		InlineCompletion:   inline,
		AllowedToBeDefault: allowedDefault,
		DedupKey:           DedupKey(e.URL),
		Signals: ScoringSignals{
			TypedCount:            e.TypedCount,
			VisitCount:            e.VisitCount,
			ElapsedSinceLastVisit: now.Sub(e.LastVisit),
			Frecency:              frecency,
			MatchQuality:          quality,
			URLLength:             len(e.URL),
		},
	}, true
}
