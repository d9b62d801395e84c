package providers

import (
	"context"

	"github.com/sahilm/fuzzy"

	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/tokenize"
)

// PedalDestinationPrefix marks a match destination that is an in-app
// action rather than a URL; the remainder is the action name.
const PedalDestinationPrefix = "pedal:"

// PedalAction maps a trigger phrase to an in-app action.
type PedalAction struct {
	Phrase string
	Action string
}

// DefaultPedals is the built-in command set.
var DefaultPedals = []PedalAction{
	{Phrase: "open settings", Action: "open-settings"},
	{Phrase: "open new window", Action: "open-new-window"},
	{Phrase: "open extensions", Action: "open-extensions"},
	{Phrase: "open downloads", Action: "open-downloads"},
	{Phrase: "clear browsing data", Action: "clear-browsing-data"},
}

// Pedal matches fixed command phrases against the input and surfaces them
// as executable matches. Synchronous. Admission requires every input term
// to match a phrase token; ranking among admitted phrases uses the fuzzy
// match score.
type Pedal struct {
	actions []PedalAction
	phrases []string
	tokens  [][]string
}

// NewPedal creates the provider over the given action set; nil means
// DefaultPedals.
func NewPedal(actions []PedalAction) *Pedal {
	if actions == nil {
		actions = DefaultPedals
	}
	p := &Pedal{actions: actions}
	for _, a := range actions {
		p.phrases = append(p.phrases, a.Phrase)
		p.tokens = append(p.tokens, tokenize.Tokenize(a.Phrase))
	}
	return p
}

// Name implements Provider.
func (p *Pedal) Name() string { return NamePedal }

// Stop implements Provider.
func (p *Pedal) Stop() {}

// Start implements Provider.
func (p *Pedal) Start(_ context.Context, input Input, emit EmitFunc) {
	if len(input.Terms) == 0 {
		emit(nil, true)
		return
	}

	admitted := make(map[int]struct{})
	for i := range p.actions {
		if tokenize.AllTermsMatch(input.Terms, p.tokens[i]) {
			admitted[i] = struct{}{}
		}
	}
	if len(admitted) == 0 {
		emit(nil, true)
		return
	}

	var matches []Match
	ranked := fuzzy.Find(input.Text, p.phrases)
	rank := 0
	for _, fm := range ranked {
		if _, ok := admitted[fm.Index]; !ok {
			continue
		}
		matches = append(matches, p.toMatch(p.actions[fm.Index], input, rank))
		delete(admitted, fm.Index)
		rank++
	}
	// Admitted phrases the fuzzy pass skipped (multi-word term order
	// differences) still rank, after the fuzzy ones.
	for i, a := range p.actions {
		if _, ok := admitted[i]; ok {
			matches = append(matches, p.toMatch(a, input, rank))
			rank++
		}
	}
	emit(matches, true)
}

func (p *Pedal) toMatch(a PedalAction, input Input, rank int) Match {
	coverage := float64(len(input.Text)) / float64(len(a.Phrase))
	if coverage > 1 {
		coverage = 1
	}
	rel := scoring.BandPedal.Min +
		int(float64(scoring.BandPedal.Max-scoring.BandPedal.Min)*coverage) - 20*rank
	if rel < scoring.BandPedal.Min {
		rel = scoring.BandPedal.Min
	}
	return Match{
		Provider:       NamePedal,
		Relevance:      rel,
		Contents:       a.Phrase,
		DestinationURL: PedalDestinationPrefix + a.Action,
		Type:           TypePedal,
		DedupKey:       PedalDestinationPrefix + a.Action,
		Signals:        ScoringSignals{MatchQuality: coverage},
	}
}
