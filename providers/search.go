package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/remiges/omnibox/classify"
	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"

	"github.com/charmbracelet/log"
)

// DefaultSearchURL is the search destination template; %s receives the
// escaped query.
const DefaultSearchURL = "https://www.google.com/search?q=%s"

// Search produces the verbatim (what-you-typed) match synchronously and
// server suggestions asynchronously via the suggest source. Empty input
// produces nothing.
type Search struct {
	suggest   store.SuggestSource
	searchURL string
	limit     int
	log       *log.Logger
}

// NewSearch creates the provider. suggest may be nil, in which case only
// the verbatim match is produced. searchURL defaults to DefaultSearchURL
// when empty.
func NewSearch(suggest store.SuggestSource, searchURL string, limit int) *Search {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Search{
		suggest:   suggest,
		searchURL: searchURL,
		limit:     limit,
		log:       logger.New(NameSearch),
	}
}

// Name implements Provider.
func (p *Search) Name() string { return NameSearch }

// Stop implements Provider.
func (p *Search) Stop() {}

// Start implements Provider.
func (p *Search) Start(ctx context.Context, input Input, emit EmitFunc) {
	text := strings.TrimSpace(input.Text)
	if input.Type == classify.ForcedQuery {
		text = strings.TrimSpace(strings.TrimPrefix(text, "?"))
	}
	if text == "" {
		emit(nil, true)
		return
	}

	verbatim := p.verbatimMatch(text, input)
	if p.suggest == nil || input.Type == classify.URL {
		emit([]Match{verbatim}, true)
		return
	}

	emit([]Match{verbatim}, false)

	go func() {
		suggestions, err := p.suggest.Suggest(ctx, text)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.log.Warn("suggest fetch failed", "err", err)
			emit(nil, true)
			return
		}
		matches := p.toMatches(suggestions, text)
		if ctx.Err() != nil {
			return
		}
		emit(matches, true)
	}()
}

// verbatimMatch is the fallback default: searching for exactly what was
// typed, or navigating to it when the input is already a URL.
func (p *Search) verbatimMatch(text string, input Input) Match {
	if input.Type == classify.URL {
		dest := text
		if !strings.Contains(dest, "://") {
			dest = "https://" + dest
		}
		return Match{
			Provider:           NameSearch,
			Relevance:          scoring.VerbatimRelevance,
			Contents:           text,
			Type:               TypeVerbatim,
			DestinationURL:     dest,
			AllowedToBeDefault: true,
			DedupKey:           DedupKey(dest),
			Signals:            ScoringSignals{MatchQuality: 1, URLLength: len(dest)},
		}
	}
	return Match{
		Provider:           NameSearch,
		Relevance:          scoring.VerbatimRelevance,
		Contents:           text,
		Type:               TypeVerbatim,
		DestinationURL:     p.queryURL(text),
		AllowedToBeDefault: true,
		DedupKey:           "search:" + strings.ToLower(text),
		Signals:            ScoringSignals{MatchQuality: 1},
	}
}

func (p *Search) toMatches(suggestions []store.WebSuggestion, text string) []Match {
	matches := make([]Match, 0, len(suggestions))
	for i, s := range suggestions {
		if p.limit > 0 && len(matches) >= p.limit {
			break
		}
		rel := s.Relevance
		if rel <= 0 {
			rel = scoring.BandSuggest.Max - 100 - 40*i
		}
		if rel > scoring.BandSuggest.Max {
			rel = scoring.BandSuggest.Max
		}
		if rel < scoring.BandSuggest.Min {
			rel = scoring.BandSuggest.Min
		}
		m := Match{
			Provider:  NameSearch,
			Relevance: rel,
			Contents:  s.Text,
			Signals:   ScoringSignals{MatchQuality: 0.5},
		}
		if s.IsNavigation && s.URL != "" {
			m.Type = TypeNavSuggest
			m.DestinationURL = s.URL
			m.DedupKey = DedupKey(s.URL)
			m.Signals.URLLength = len(s.URL)
		} else {
			m.Type = TypeSearchQuery
			m.DestinationURL = p.queryURL(s.Text)
			m.DedupKey = "search:" + strings.ToLower(s.Text)
		}
		if strings.EqualFold(s.Text, text) {
			// Server echo of the verbatim query; the verbatim match
			// already covers it.
			m.DedupKey = "search:" + strings.ToLower(text)
		}
		matches = append(matches, m)
	}
	return matches
}

func (p *Search) queryURL(text string) string {
	return fmt.Sprintf(p.searchURL, url.QueryEscape(text))
}
