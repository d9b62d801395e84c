// Package providers contains the suggestion sources the autocomplete
// controller fans out to, and the match type they all produce. Every
// provider implements the same start/stop contract: Start may deliver
// results synchronously before it returns or asynchronously afterwards,
// and must fall silent once its cycle's context is cancelled. Providers
// never surface errors to the controller; they log and degrade to an
// empty delivery.
package providers

import (
	"context"

	"github.com/remiges/omnibox/classify"
	"github.com/remiges/omnibox/tokenize"
)

// Trigger is what caused the input to be (re)issued.
type Trigger int

const (
	// TriggerKeystroke is ordinary typing.
	TriggerKeystroke Trigger = iota

	// TriggerFocus is the input box gaining focus, possibly with
	// unchanged text. Zero-suggest only fires on this trigger.
	TriggerFocus

	// TriggerPaste is pasted text; inline completion is suppressed.
	TriggerPaste
)

// Input is one immutable query-cycle input: the raw text plus everything
// derived from it at classification time. One instance lives for exactly
// one cycle.
type Input struct {
	Text          string
	Trigger       Trigger
	Type          classify.InputType
	Terms         []string
	PreventInline bool
}

// NewInput classifies and tokenizes text into a cycle input. Inline
// autocompletion is prevented for pasted input, forced queries and
// multi-word queries.
func NewInput(text string, trigger Trigger) Input {
	t := classify.Classify(text)
	terms := tokenize.TokenizeInput(text)
	prevent := trigger == TriggerPaste || t == classify.ForcedQuery ||
		(t == classify.Query && len(terms) > 1)
	return Input{
		Text:          text,
		Trigger:       trigger,
		Type:          t,
		Terms:         terms,
		PreventInline: prevent,
	}
}

// EmitFunc delivers a batch of matches to the controller. A provider
// passes done=true with its final batch for the cycle; a cancelled
// provider may simply stop emitting instead.
type EmitFunc func(matches []Match, done bool)

// Provider is the capability interface every suggestion source
// implements.
type Provider interface {
	// Name returns the provider's stable name, used for logging and for
	// the controller's tie-break priority.
	Name() string

	// Start begins resolving matches for input. Synchronous providers
	// call emit before returning; asynchronous providers call it from
	// their own goroutine until ctx is cancelled.
	Start(ctx context.Context, input Input, emit EmitFunc)

	// Stop aborts any in-flight work for the current cycle. It must be
	// idempotent, and emissions after Stop are dropped by the controller
	// in any case.
	Stop()
}

// Provider names, also the default tie-break priority order (strongest
// first; history-quick shares the history-url slot).
const (
	NameOpenTab      = "open-tab"
	NameShortcuts    = "shortcuts"
	NameHistoryQuick = "history-quick"
	NameHistoryURL   = "history-url"
	NameSearch       = "search"
	NameZeroSuggest  = "zero-suggest"
	NamePedal        = "pedal"
	NameBookmark     = "bookmark"
)
