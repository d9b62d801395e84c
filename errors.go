package omnibox

import "errors"

// Sentinel errors for contract violations at the engine boundary.
// Provider-level failures never surface here; providers log and degrade
// to empty results.

var (
	// ErrEngineClosed is returned when the engine is used after Close.
	ErrEngineClosed = errors.New("omnibox engine closed")

	// ErrNoHistory is returned by New when no history store is supplied.
	ErrNoHistory = errors.New("history store required")

	// ErrNoProviders is returned by New when every provider has been
	// disabled.
	ErrNoProviders = errors.New("no providers configured")

	// ErrNoNavigator is returned by OpenMatch for a navigation match
	// when no Navigate handler was supplied.
	ErrNoNavigator = errors.New("no navigate handler")

	// ErrNoTabHandler is returned by OpenMatch for an open-tab match
	// when no SwitchToTab handler was supplied.
	ErrNoTabHandler = errors.New("no switch-to-tab handler")

	// ErrNoActionHandler is returned by OpenMatch for a pedal match
	// when no RunAction handler was supplied.
	ErrNoActionHandler = errors.New("no action handler")
)
