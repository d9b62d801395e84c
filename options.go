package omnibox

import "github.com/remiges/omnibox/providers"

// Default per-provider result caps and the dropdown size.
const (
	defaultHistoryQuickLimit = 3
	defaultHistoryURLLimit   = 3
	defaultShortcutLimit     = 3
	defaultSuggestLimit      = 5
	defaultZeroSuggestLimit  = 8
	defaultBookmarkLimit     = 3
	defaultMaxResults        = 8
)

// Options contains engine behavior settings. Use DefaultOptions() for
// defaults.
type Options struct {
	// HistoryQuickLimit caps the in-memory index provider's matches per
	// cycle. Default: 3.
	HistoryQuickLimit int

	// HistoryURLLimit caps the storage-backed history provider's matches.
	// Default: 3.
	HistoryURLLimit int

	// ShortcutLimit caps learned-shortcut matches. Default: 3.
	ShortcutLimit int

	// SuggestLimit caps network search suggestions. Default: 5.
	SuggestLimit int

	// ZeroSuggestLimit caps empty-input suggestions. Default: 8.
	ZeroSuggestLimit int

	// BookmarkLimit caps bookmark matches. Default: 3.
	BookmarkLimit int

	// MaxResults caps the merged result set handed to onUpdate, 0 for
	// unlimited. Default: 8.
	MaxResults int

	// SearchURL is the search destination template with %s for the
	// escaped query. Default: the engine's built-in template.
	SearchURL string

	// Pedals overrides the built-in command set; nil keeps the default.
	Pedals []providers.PedalAction

	// ProviderPriority is the tie-break order for equal-relevance
	// matches, strongest first. The relevance bands of several match
	// types deliberately overlap, so this order is policy, not law;
	// adjust it rather than the bands.
	ProviderPriority []string

	// DisabledProviders lists provider names to leave out entirely.
	DisabledProviders []string
}

// DefaultPriority is the default tie-break order.
var DefaultPriority = []string{
	providers.NameOpenTab,
	providers.NameShortcuts,
	providers.NameHistoryQuick,
	providers.NameHistoryURL,
	providers.NameSearch,
	providers.NameZeroSuggest,
	providers.NamePedal,
	providers.NameBookmark,
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{
		HistoryQuickLimit: defaultHistoryQuickLimit,
		HistoryURLLimit:   defaultHistoryURLLimit,
		ShortcutLimit:     defaultShortcutLimit,
		SuggestLimit:      defaultSuggestLimit,
		ZeroSuggestLimit:  defaultZeroSuggestLimit,
		BookmarkLimit:     defaultBookmarkLimit,
		MaxResults:        defaultMaxResults,
		ProviderPriority:  DefaultPriority,
	}
}
