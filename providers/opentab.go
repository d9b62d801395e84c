package providers

import (
	"context"
	"sort"

	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/tokenize"

	"github.com/remiges/omnibox/store"
)

// TabDestinationPrefix marks a match destination that refers to an open
// tab rather than a URL; the remainder is the tab's ID.
const TabDestinationPrefix = "tab:"

// OpenTab matches input against the currently open tabs. It is
// synchronous and occupies the highest relevance band, so a
// switch-to-tab suggestion outranks any same-URL navigation.
type OpenTab struct {
	tabs store.TabSource
}

// NewOpenTab creates the provider over the given tab enumerator.
func NewOpenTab(tabs store.TabSource) *OpenTab {
	return &OpenTab{tabs: tabs}
}

// Name implements Provider.
func (p *OpenTab) Name() string { return NameOpenTab }

// Stop implements Provider.
func (p *OpenTab) Stop() {}

// Start implements Provider.
func (p *OpenTab) Start(_ context.Context, input Input, emit EmitFunc) {
	terms := queryTerms(input)
	if len(terms) == 0 || p.tabs == nil {
		emit(nil, true)
		return
	}

	var matches []Match
	for _, tab := range p.tabs.OpenTabs() {
		tokens := append(tokenize.Tokenize(tab.URL), tokenize.Tokenize(tab.Title)...)
		if !tokenize.AllTermsMatch(terms, tokens) {
			continue
		}
		best := tokenize.MatchExact
		for _, term := range terms {
			if k := tokenize.FindBestMatch(term, tokens); k < best {
				best = k
			}
		}
		quality := matchKindQuality(best)
		rel := scoring.Relevance(scoring.BandOpenTab, 0, quality, len(input.Text), false, false)
		matches = append(matches, Match{
			Provider:           NameOpenTab,
			Relevance:          rel,
			Contents:           tab.URL,
			Description:        tab.Title,
			DestinationURL:     TabDestinationPrefix + tab.ID,
			Type:               TypeOpenTab,
			AllowedToBeDefault: false,
			DedupKey:           DedupKey(tab.URL),
			Signals: ScoringSignals{
				MatchQuality: quality,
				HasOpenTab:   true,
				URLLength:    len(tab.URL),
			},
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Relevance > matches[j].Relevance })
	emit(matches, true)
}
