package providers

import (
	"testing"
	"time"

	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"
	"github.com/remiges/omnibox/urlindex"
)

func quickIndex(t *testing.T) *urlindex.Index {
	t.Helper()
	ix := urlindex.New()
	ix.Rebuild([]store.HistoryEntry{
		{URL: "https://github.com/golang/go", Title: "The Go Programming Language", VisitCount: 42, TypedCount: 10, LastVisit: testNow.Add(-time.Hour)},
		{URL: "https://go.dev/doc/", Title: "Documentation", VisitCount: 20, LastVisit: testNow.Add(-2 * time.Hour)},
		{URL: "https://news.ycombinator.com/", Title: "Hacker News", VisitCount: 100, LastVisit: testNow.Add(-10 * time.Minute)},
	}, testNow)
	return ix
}

func TestHistoryQuickMatches(t *testing.T) {
	p := NewHistoryQuick(quickIndex(t), 3)
	p.SetClock(func() time.Time { return testNow })

	matches := runSync(t, p, NewInput("github", TriggerKeystroke))
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %v", len(matches), matches)
	}
	m := matches[0]
	if m.DestinationURL != "https://github.com/golang/go" {
		t.Errorf("DestinationURL = %q", m.DestinationURL)
	}
	if m.Type != TypeHistoryURL {
		t.Errorf("Type = %q, want %q", m.Type, TypeHistoryURL)
	}
	if m.Relevance < scoring.BandHistory.Min || m.Relevance > scoring.BandHistory.Max {
		t.Errorf("Relevance %d outside history band", m.Relevance)
	}
	if !m.Signals.IsHostMatch {
		t.Error("'github' matches the host, IsHostMatch should be set")
	}
}

func TestHistoryQuickInlineCompletion(t *testing.T) {
	p := NewHistoryQuick(quickIndex(t), 3)
	p.SetClock(func() time.Time { return testNow })

	// Prefix of the URL with inline allowed: completed and default-able.
	matches := runSync(t, p, NewInput("github.com/gol", TriggerKeystroke))
	if len(matches) == 0 {
		t.Fatal("expected a match for github.com/gol")
	}
	m := matches[0]
	if m.InlineCompletion != "ang/go" {
		t.Errorf("InlineCompletion = %q, want %q", m.InlineCompletion, "ang/go")
	}
	if !m.AllowedToBeDefault {
		t.Error("inline-completed match should be allowed to be default")
	}

	// Same text pasted: inline suppressed.
	matches = runSync(t, p, NewInput("github.com/gol", TriggerPaste))
	if len(matches) == 0 {
		t.Fatal("expected a match for pasted input")
	}
	if matches[0].InlineCompletion != "" || matches[0].AllowedToBeDefault {
		t.Error("pasted input must not inline-complete")
	}
}

func TestHistoryQuickSkipsForcedQuery(t *testing.T) {
	p := NewHistoryQuick(quickIndex(t), 3)
	matches := runSync(t, p, NewInput("?github", TriggerKeystroke))
	if len(matches) != 0 {
		t.Errorf("forced query should produce no history matches, got %v", matches)
	}
}

func TestHistoryQuickSortsAndClips(t *testing.T) {
	ix := urlindex.New()
	entries := make([]store.HistoryEntry, 0, 6)
	for i := 0; i < 6; i++ {
		entries = append(entries, store.HistoryEntry{
			URL:        "https://go.dev/blog/post" + string(rune('a'+i)),
			Title:      "go blog",
			VisitCount: 1 + i*10,
			LastVisit:  testNow.Add(-time.Hour),
		})
	}
	ix.Rebuild(entries, testNow)

	p := NewHistoryQuick(ix, 3)
	p.SetClock(func() time.Time { return testNow })
	matches := runSync(t, p, NewInput("blog", TriggerKeystroke))
	if len(matches) != 3 {
		t.Fatalf("limit not applied: got %d matches", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Relevance > matches[i-1].Relevance {
			t.Errorf("matches not sorted by relevance: %d before %d",
				matches[i-1].Relevance, matches[i].Relevance)
		}
	}
}
