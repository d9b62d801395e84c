package omnibox

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/remiges/omnibox/providers"
)

// fileOptions is the TOML shape of an options file. Zero values fall
// back to the defaults, so a file only needs the knobs it changes.
type fileOptions struct {
	Limits struct {
		HistoryQuick int `toml:"history_quick"`
		HistoryURL   int `toml:"history_url"`
		Shortcuts    int `toml:"shortcuts"`
		Suggest      int `toml:"suggest"`
		ZeroSuggest  int `toml:"zero_suggest"`
		Bookmarks    int `toml:"bookmarks"`
		MaxResults   int `toml:"max_results"`
	} `toml:"limits"`

	Search struct {
		URL string `toml:"url"`
	} `toml:"search"`

	Providers struct {
		Priority []string `toml:"priority"`
		Disabled []string `toml:"disabled"`
	} `toml:"providers"`

	Pedals []struct {
		Phrase string `toml:"phrase"`
		Action string `toml:"action"`
	} `toml:"pedals"`
}

// LoadOptions reads engine options from a TOML file, applying
// DefaultOptions for anything the file leaves out.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	var raw fileOptions
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return opts, fmt.Errorf("load options %s: %w", path, err)
	}

	if raw.Limits.HistoryQuick > 0 {
		opts.HistoryQuickLimit = raw.Limits.HistoryQuick
	}
	if raw.Limits.HistoryURL > 0 {
		opts.HistoryURLLimit = raw.Limits.HistoryURL
	}
	if raw.Limits.Shortcuts > 0 {
		opts.ShortcutLimit = raw.Limits.Shortcuts
	}
	if raw.Limits.Suggest > 0 {
		opts.SuggestLimit = raw.Limits.Suggest
	}
	if raw.Limits.ZeroSuggest > 0 {
		opts.ZeroSuggestLimit = raw.Limits.ZeroSuggest
	}
	if raw.Limits.Bookmarks > 0 {
		opts.BookmarkLimit = raw.Limits.Bookmarks
	}
	if raw.Limits.MaxResults > 0 {
		opts.MaxResults = raw.Limits.MaxResults
	}
	if raw.Search.URL != "" {
		opts.SearchURL = raw.Search.URL
	}
	if len(raw.Providers.Priority) > 0 {
		opts.ProviderPriority = raw.Providers.Priority
	}
	if len(raw.Providers.Disabled) > 0 {
		opts.DisabledProviders = raw.Providers.Disabled
	}
	for _, p := range raw.Pedals {
		opts.Pedals = append(opts.Pedals, providers.PedalAction{
			Phrase: p.Phrase,
			Action: p.Action,
		})
	}
	return opts, nil
}
