package providers

import (
	"context"
	"sort"
	"time"

	"github.com/remiges/omnibox/classify"
	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/tokenize"
	"github.com/remiges/omnibox/urlindex"

	"github.com/charmbracelet/log"
)

// HistoryQuick serves matches out of the in-memory URL index. It is fully
// synchronous: every result is delivered before Start returns, off a
// single in-memory snapshot lookup.
type HistoryQuick struct {
	index *urlindex.Index
	limit int
	now   func() time.Time
	log   *log.Logger
}

// NewHistoryQuick creates the provider over the given index. limit caps
// the number of matches per cycle.
func NewHistoryQuick(index *urlindex.Index, limit int) *HistoryQuick {
	return &HistoryQuick{
		index: index,
		limit: limit,
		now:   time.Now,
		log:   logger.New(NameHistoryQuick),
	}
}

// SetClock overrides the provider's clock. Test hook.
func (p *HistoryQuick) SetClock(now func() time.Time) { p.now = now }

// Name implements Provider.
func (p *HistoryQuick) Name() string { return NameHistoryQuick }

// Stop implements Provider. The provider holds no in-flight work.
func (p *HistoryQuick) Stop() {}

// Start implements Provider.
func (p *HistoryQuick) Start(_ context.Context, input Input, emit EmitFunc) {
	terms := queryTerms(input)
	if len(terms) == 0 || input.Type == classify.ForcedQuery {
		emit(nil, true)
		return
	}

	hits := p.index.Query(terms)
	now := p.now()
	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, p.toMatch(h, input, now))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Relevance > matches[j].Relevance })
	if p.limit > 0 && len(matches) > p.limit {
		matches = matches[:p.limit]
	}
	emit(matches, true)
}

func (p *HistoryQuick) toMatch(h urlindex.Hit, input Input, now time.Time) Match {
	e := h.Entry
	quality := matchKindQuality(h.Best)
	if h.HostMatch {
		quality += 0.1
	}
	if h.WordBoundary {
		quality += 0.05
	}
	if quality > 1 {
		quality = 1
	}

	inline, allowedDefault := "", false
	if !input.PreventInline {
		if suffix, ok := inlineSuffix(input.Text, e.URL); ok {
			inline = suffix
			allowedDefault = true
		}
	}

	rel := scoring.Relevance(scoring.BandHistory, e.Frecency, quality,
		len(input.Text), e.TypedCount > 0, inline != "")

	return Match{
		Provider:           NameHistoryQuick,
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
			Frecency:              e.Frecency,
			MatchQuality:          quality,
			IsHostMatch:           h.HostMatch,
			IsWordBoundary:        h.WordBoundary,
			URLLength:             len(e.URL),
		},
	}
}

// queryTerms returns the terms to run against history. URL-typed input is
// tokenized on structural boundaries instead of whitespace, so a pasted
// or fully typed URL matches its own tokens.
func queryTerms(input Input) []string {
	if input.Type == classify.URL {
		return tokenize.Tokenize(input.Text)
	}
	return input.Terms
}

// matchKindQuality maps the limiting term's match kind onto [0,1].
func matchKindQuality(k tokenize.MatchKind) float64 {
	switch k {
	case tokenize.MatchExact:
		return 0.85
	case tokenize.MatchPrefix:
		return 0.65
	case tokenize.MatchSubstring:
		return 0.4
	default:
		return 0
	}
}
