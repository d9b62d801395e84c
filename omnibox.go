// Package omnibox implements the address-bar autocomplete engine: it
// turns each keystroke into a ranked, deduplicated list of navigable
// suggestions drawn from history, open tabs, learned shortcuts, network
// search suggestions and built-in commands.
//
// The package separates suggestion logic from storage concerns through
// the store interfaces, so different backends can be used
// interchangeably; in-memory implementations ship with the store package
// and a Redis shortcut store and an Elasticsearch history store live in
// their own packages.
//
// Basic usage:
//
//	deps := omnibox.Deps{
//		History:   store.NewMemoryHistory(),
//		Shortcuts: store.NewMemoryShortcuts(),
//		Navigate: func(url string, _ omnibox.Disposition) error {
//			return browser.Open(url)
//		},
//	}
//	ob, err := omnibox.New(deps, omnibox.DefaultOptions(), onUpdate)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ob.RefreshIndex(ctx)
//	ob.HandleInput("gi", omnibox.TriggerKeystroke)
package omnibox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/providers"
	"github.com/remiges/omnibox/store"
	"github.com/remiges/omnibox/urlindex"
)

// Convenience aliases so embedders only import the root package.
type (
	// Match is one ranked suggestion.
	Match = providers.Match

	// Trigger is what caused the input to be issued.
	Trigger = providers.Trigger
)

// Re-exported trigger values.
const (
	TriggerKeystroke = providers.TriggerKeystroke
	TriggerFocus     = providers.TriggerFocus
	TriggerPaste     = providers.TriggerPaste
)

// Disposition says where a navigation should land.
type Disposition int

const (
	// CurrentTab replaces the current page.
	CurrentTab Disposition = iota

	// NewTab opens a fresh tab.
	NewTab

	// NewWindow opens a fresh window.
	NewWindow
)

// Deps are the host collaborators the engine consumes. History is
// required; everything else degrades gracefully when nil (the matching
// provider simply stays empty, and opening a match of a kind without a
// handler fails with a sentinel error).
type Deps struct {
	History   store.HistoryStore
	Shortcuts store.ShortcutStore
	Bookmarks store.BookmarkStore
	Tabs      store.TabSource
	Suggest   store.SuggestSource

	// Navigate opens a URL in the given disposition.
	Navigate func(url string, where Disposition) error

	// SwitchToTab focuses the tab with the given ID.
	SwitchToTab func(tabID string) error

	// RunAction executes a pedal action by name.
	RunAction func(action string) error
}

// Omnibox is the single entry point consumed by the UI: it classifies
// input, drives the controller and translates a selected match into a
// navigation or action.
type Omnibox struct {
	mu       sync.Mutex
	deps     Deps
	opts     Options
	index    *urlindex.Index
	ctrl     *Controller
	lastText string
	closed   bool
	log      *log.Logger
}

// New wires up the engine. onUpdate receives every merged result set; it
// must not call back into the engine (see UpdateFunc).
func New(deps Deps, opts Options, onUpdate UpdateFunc) (*Omnibox, error) {
	if deps.History == nil {
		return nil, ErrNoHistory
	}
	if deps.Bookmarks == nil {
		deps.Bookmarks = store.EmptyBookmarks{}
	}

	index := urlindex.New()
	provs := assembleProviders(deps, opts, index)
	if len(provs) == 0 {
		return nil, ErrNoProviders
	}

	return &Omnibox{
		deps:  deps,
		opts:  opts,
		index: index,
		ctrl:  NewController(provs, opts.ProviderPriority, opts.MaxResults, onUpdate),
		log:   logger.New("omnibox"),
	}, nil
}

func assembleProviders(deps Deps, opts Options, index *urlindex.Index) []providers.Provider {
	disabled := make(map[string]struct{}, len(opts.DisabledProviders))
	for _, name := range opts.DisabledProviders {
		disabled[name] = struct{}{}
	}

	all := []providers.Provider{
		providers.NewOpenTab(deps.Tabs),
		providers.NewShortcuts(deps.Shortcuts, opts.ShortcutLimit),
		providers.NewHistoryQuick(index, opts.HistoryQuickLimit),
		providers.NewHistoryURL(deps.History, opts.HistoryURLLimit),
		providers.NewSearch(deps.Suggest, opts.SearchURL, opts.SuggestLimit),
		providers.NewZeroSuggest(deps.History, opts.ZeroSuggestLimit),
		providers.NewPedal(opts.Pedals),
		providers.NewBookmark(deps.Bookmarks, opts.BookmarkLimit),
	}

	provs := make([]providers.Provider, 0, len(all))
	for _, p := range all {
		if _, off := disabled[p.Name()]; !off {
			provs = append(provs, p)
		}
	}
	return provs
}

// HandleInput processes one input event. A keystroke trigger with
// unchanged text (arrow-key navigation through the dropdown) does not
// re-issue the query; a focus trigger with unchanged text does, which is
// what lets zero-suggest fire when the box regains focus.
func (o *Omnibox) HandleInput(text string, trigger Trigger) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrEngineClosed
	}
	if trigger == TriggerKeystroke && text == o.lastText && o.ctrl.Active() {
		o.mu.Unlock()
		return nil
	}
	o.lastText = text
	o.mu.Unlock()

	o.ctrl.Start(providers.NewInput(text, trigger))
	return nil
}

// StopQuery cancels the in-flight query cycle, if any.
func (o *Omnibox) StopQuery() {
	o.ctrl.Stop()
}

// Results returns the current merged, ranked matches.
func (o *Omnibox) Results() []Match {
	return o.ctrl.Results()
}

// DefaultMatch returns the match Enter would open, if any.
func (o *Omnibox) DefaultMatch() (Match, bool) {
	return o.ctrl.DefaultMatch()
}

// OpenMatch performs the selected match's action: switching to an open
// tab, running a pedal, or navigating to the destination URL. A
// successful navigation records a learned shortcut for the typed text,
// without blocking the navigation itself.
func (o *Omnibox) OpenMatch(m Match, where Disposition) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrEngineClosed
	}
	typed := o.lastText
	o.mu.Unlock()

	switch m.Type {
	case providers.TypeOpenTab:
		if o.deps.SwitchToTab == nil {
			return ErrNoTabHandler
		}
		return o.deps.SwitchToTab(strings.TrimPrefix(m.DestinationURL, providers.TabDestinationPrefix))

	case providers.TypePedal:
		if o.deps.RunAction == nil {
			return ErrNoActionHandler
		}
		return o.deps.RunAction(strings.TrimPrefix(m.DestinationURL, providers.PedalDestinationPrefix))

	default:
		if o.deps.Navigate == nil {
			return ErrNoNavigator
		}
		if err := o.deps.Navigate(m.DestinationURL, where); err != nil {
			return err
		}
		o.recordShortcut(typed, m)
		return nil
	}
}

// recordShortcut feeds the shortcuts provider's future queries.
// Fire-and-forget: failures are logged, never surfaced.
func (o *Omnibox) recordShortcut(typed string, m Match) {
	if o.deps.Shortcuts == nil || strings.TrimSpace(typed) == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := o.deps.Shortcuts.RecordUsage(ctx, typed, m.DestinationURL, m.Description, string(m.Type)); err != nil {
			o.log.Warn("shortcut record failed", "err", err)
		}
	}()
}

// RefreshIndex rebuilds the in-memory URL index from the history store's
// significant entries. Call it at startup and whenever the history store
// signals change; concurrent queries see the old snapshot until the swap.
func (o *Omnibox) RefreshIndex(ctx context.Context) error {
	entries, err := o.deps.History.SignificantHistory(ctx)
	if err != nil {
		return err
	}
	o.index.Rebuild(entries, time.Now())
	o.log.Debug("index refreshed", "entries", len(entries))
	return nil
}

// Close stops any in-flight query and marks the engine unusable.
// Safe to call multiple times.
func (o *Omnibox) Close() error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.ctrl.Stop()
	return nil
}
