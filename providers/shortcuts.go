package providers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"

	"github.com/charmbracelet/log"
)

// defaultShortcutThreshold is the relevance at which a shortcut match may
// become the default (inline-completed, Enter-navigable) match.
const defaultShortcutThreshold = 1200

// Shortcuts surfaces learned input-to-destination mappings: if the user
// once typed "gi" and chose github.com, "gi" brings it back.
// Asynchronous; results come from the shortcut store on a worker
// goroutine.
type Shortcuts struct {
	shortcuts store.ShortcutStore
	limit     int
	now       func() time.Time
	log       *log.Logger
}

// NewShortcuts creates the provider over the given shortcut store.
func NewShortcuts(shortcuts store.ShortcutStore, limit int) *Shortcuts {
	return &Shortcuts{
		shortcuts: shortcuts,
		limit:     limit,
		now:       time.Now,
		log:       logger.New(NameShortcuts),
	}
}

// SetClock overrides the provider's clock. Test hook.
func (p *Shortcuts) SetClock(now func() time.Time) { p.now = now }

// Name implements Provider.
func (p *Shortcuts) Name() string { return NameShortcuts }

// Stop implements Provider.
func (p *Shortcuts) Stop() {}

// Start implements Provider.
func (p *Shortcuts) Start(ctx context.Context, input Input, emit EmitFunc) {
	text := strings.TrimSpace(strings.ToLower(input.Text))
	if text == "" || p.shortcuts == nil {
		emit(nil, true)
		return
	}

	go func() {
		found, err := p.shortcuts.Search(ctx, text, p.limit*2)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.log.Warn("shortcut search failed", "err", err)
			emit(nil, true)
			return
		}

		now := p.now()
		matches := make([]Match, 0, len(found))
		for _, sc := range found {
			matches = append(matches, p.toMatch(sc, text, input, now))
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

func (p *Shortcuts) toMatch(sc store.Shortcut, text string, input Input, now time.Time) Match {
	trigger := strings.ToLower(sc.Trigger)
	covered := len(trigger)
	if covered > len(text) {
		covered = len(text)
	}
	coverage := float64(covered) / float64(len(text))

	rel := scoring.ShortcutScore(sc.HitCount, sc.LastUsed, coverage, now)

	inline, allowedDefault := "", false
	if !input.PreventInline && rel >= defaultShortcutThreshold {
		allowedDefault = true
		if suffix, ok := inlineSuffix(input.Text, sc.DestinationURL); ok {
			inline = suffix
		}
	}

	return Match{
		Provider:           NameShortcuts,
		Relevance:          rel,
		Contents:           sc.DestinationURL,
		Description:        sc.DestinationTitle,
		DestinationURL:     sc.DestinationURL,
		Type:               TypeShortcut,
		InlineCompletion:   inline,
		AllowedToBeDefault: allowedDefault,
		DedupKey:           DedupKey(sc.DestinationURL),
		Signals: ScoringSignals{
			VisitCount:            sc.HitCount,
			ElapsedSinceLastVisit: now.Sub(sc.LastUsed),
			MatchQuality:          coverage,
			URLLength:             len(sc.DestinationURL),
		},
	}
}
