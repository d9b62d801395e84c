package providers

import (
	"testing"
	"time"

	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"
)

func zeroHistory(t *testing.T) *store.MemoryHistory {
	t.Helper()
	h := store.NewMemoryHistory()
	h.Add(store.HistoryEntry{URL: "https://news.ycombinator.com/", Title: "Hacker News", VisitCount: 100, LastVisit: testNow.Add(-5 * time.Minute)})
	h.Add(store.HistoryEntry{URL: "https://github.com/", Title: "GitHub", VisitCount: 60, LastVisit: testNow.Add(-time.Hour)})
	// Same site, different scheme spelling: must dedup away.
	h.Add(store.HistoryEntry{URL: "http://github.com", Title: "GitHub", VisitCount: 4, LastVisit: testNow.Add(-24 * time.Hour)})
	return h
}

func TestZeroSuggestFiresOnEmptyFocusOnly(t *testing.T) {
	p := NewZeroSuggest(zeroHistory(t), 5)

	tests := []struct {
		name  string
		input Input
		want  bool
	}{
		{"empty focus", NewInput("", TriggerFocus), true},
		{"whitespace focus", NewInput("   ", TriggerFocus), true},
		{"empty keystroke", NewInput("", TriggerKeystroke), false},
		{"text focus", NewInput("git", TriggerFocus), false},
		{"text keystroke", NewInput("git", TriggerKeystroke), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := runAsync(t, p, tt.input)
			if got := len(matches) > 0; got != tt.want {
				t.Errorf("fired = %v, want %v (matches %v)", got, tt.want, matches)
			}
		})
	}
}

func TestZeroSuggestDedupsAndRanksByPosition(t *testing.T) {
	p := NewZeroSuggest(zeroHistory(t), 5)
	matches := runAsync(t, p, NewInput("", TriggerFocus))
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 after dedup: %v", len(matches), matches)
	}
	for i, m := range matches {
		if m.Type != TypeZeroSuggest {
			t.Errorf("Type = %q", m.Type)
		}
		if m.Relevance < scoring.BandZeroSuggest.Min || m.Relevance > scoring.BandZeroSuggest.Max {
			t.Errorf("Relevance %d outside zero-suggest band", m.Relevance)
		}
		if i > 0 && m.Relevance >= matches[i-1].Relevance {
			t.Error("positional relevance should strictly decrease")
		}
		if m.AllowedToBeDefault {
			t.Error("zero-suggest matches are never default")
		}
	}
	// Recent visits come before most-visited.
	if matches[0].DestinationURL != "https://news.ycombinator.com/" {
		t.Errorf("top match = %q, want the most recent visit", matches[0].DestinationURL)
	}
}

func TestZeroSuggestLimit(t *testing.T) {
	h := store.NewMemoryHistory()
	for i := 0; i < 10; i++ {
		h.Add(store.HistoryEntry{
			URL:        "https://example.com/" + string(rune('a'+i)),
			VisitCount: 1,
			LastVisit:  testNow.Add(-time.Duration(i) * time.Minute),
		})
	}
	p := NewZeroSuggest(h, 3)
	matches := runAsync(t, p, NewInput("", TriggerFocus))
	if len(matches) != 3 {
		t.Errorf("limit not applied: got %d matches", len(matches))
	}
}
