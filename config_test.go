package omnibox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omnibox.toml")
	content := `
[limits]
history_quick = 5
max_results = 12

[search]
url = "https://duckduckgo.com/?q=%s"

[providers]
disabled = ["bookmark"]

[[pedals]]
phrase = "take screenshot"
action = "screenshot"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.HistoryQuickLimit != 5 {
		t.Errorf("HistoryQuickLimit = %d, want 5", opts.HistoryQuickLimit)
	}
	if opts.MaxResults != 12 {
		t.Errorf("MaxResults = %d, want 12", opts.MaxResults)
	}
	// Unset knobs keep their defaults.
	if opts.SuggestLimit != DefaultOptions().SuggestLimit {
		t.Errorf("SuggestLimit = %d, want default", opts.SuggestLimit)
	}
	if opts.SearchURL != "https://duckduckgo.com/?q=%s" {
		t.Errorf("SearchURL = %q", opts.SearchURL)
	}
	if len(opts.DisabledProviders) != 1 || opts.DisabledProviders[0] != "bookmark" {
		t.Errorf("DisabledProviders = %v", opts.DisabledProviders)
	}
	if len(opts.Pedals) != 1 || opts.Pedals[0].Action != "screenshot" {
		t.Errorf("Pedals = %v", opts.Pedals)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	// The defaults still come back usable.
	if opts.MaxResults != DefaultOptions().MaxResults {
		t.Errorf("MaxResults = %d, want default", opts.MaxResults)
	}
}
