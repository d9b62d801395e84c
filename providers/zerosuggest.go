package providers

import (
	"context"
	"strings"

	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"

	"github.com/charmbracelet/log"
)

// ZeroSuggest surfaces suggestions for the empty input box: recent visits
// first, then most-visited sites. It only fires on a focus trigger with
// empty text; any other input is answered with nothing.
type ZeroSuggest struct {
	history store.HistoryStore
	limit   int
	log     *log.Logger
}

// NewZeroSuggest creates the provider over the given history store.
func NewZeroSuggest(history store.HistoryStore, limit int) *ZeroSuggest {
	return &ZeroSuggest{
		history: history,
		limit:   limit,
		log:     logger.New(NameZeroSuggest),
	}
}

// Name implements Provider.
func (p *ZeroSuggest) Name() string { return NameZeroSuggest }

// Stop implements Provider.
func (p *ZeroSuggest) Stop() {}

// Start implements Provider.
func (p *ZeroSuggest) Start(ctx context.Context, input Input, emit EmitFunc) {
	if strings.TrimSpace(input.Text) != "" || input.Trigger != TriggerFocus || p.history == nil {
		emit(nil, true)
		return
	}

	go func() {
		recent, err := p.history.Recent(ctx, p.limit)
		if err != nil {
			p.log.Warn("recent fetch failed", "err", err)
		}
		most, err := p.history.MostVisited(ctx, p.limit)
		if err != nil {
			p.log.Warn("most-visited fetch failed", "err", err)
		}
		if ctx.Err() != nil {
			return
		}

		seen := make(map[string]struct{})
		var matches []Match
		for _, e := range append(recent, most...) {
			key := DedupKey(e.URL)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if p.limit > 0 && len(matches) >= p.limit {
				break
			}
			rel := scoring.BandZeroSuggest.Max - 25*len(matches)
			if rel < scoring.BandZeroSuggest.Min {
				rel = scoring.BandZeroSuggest.Min
			}
			matches = append(matches, Match{
				Provider:       NameZeroSuggest,
				Relevance:      rel,
				Contents:       e.URL,
				Description:    e.Title,
				DestinationURL: e.URL,
				Type:           TypeZeroSuggest,
				DedupKey:       key,
				Signals: ScoringSignals{
					VisitCount: e.VisitCount,
					TypedCount: e.TypedCount,
					URLLength:  len(e.URL),
				},
			})
		}
		if ctx.Err() != nil {
			return
		}
		emit(matches, true)
	}()
}
