package omnibox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/remiges/omnibox/providers"
	"github.com/remiges/omnibox/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testHistory() *store.MemoryHistory {
	h := store.NewMemoryHistory()
	h.Add(store.HistoryEntry{URL: "https://github.com/golang/go", Title: "The Go Programming Language", VisitCount: 42, TypedCount: 10, LastVisit: testNow.Add(-time.Hour)})
	h.Add(store.HistoryEntry{URL: "https://news.ycombinator.com/", Title: "Hacker News", VisitCount: 100, LastVisit: testNow.Add(-10 * time.Minute)})
	return h
}

func testEngine(t *testing.T, deps Deps, onUpdate UpdateFunc) *Omnibox {
	t.Helper()
	if deps.History == nil {
		deps.History = testHistory()
	}
	ob, err := New(deps, DefaultOptions(), onUpdate)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ob.Close() })
	if err := ob.RefreshIndex(context.Background()); err != nil {
		t.Fatal(err)
	}
	return ob
}

func TestNewRequiresHistory(t *testing.T) {
	if _, err := New(Deps{}, DefaultOptions(), nil); !errors.Is(err, ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

func TestNewRejectsAllDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.DisabledProviders = DefaultPriority
	if _, err := New(Deps{History: testHistory()}, opts, nil); !errors.Is(err, ErrNoProviders) {
		t.Errorf("err = %v, want ErrNoProviders", err)
	}
}

func TestHandleInputProducesHistoryMatches(t *testing.T) {
	rec := newUpdateRecorder()
	ob := testEngine(t, Deps{}, rec.fn)

	if err := ob.HandleInput("github", TriggerKeystroke); err != nil {
		t.Fatal(err)
	}
	rec.waitSettled(t)

	found := false
	for _, m := range ob.Results() {
		if m.DestinationURL == "https://github.com/golang/go" {
			found = true
		}
	}
	if !found {
		t.Errorf("history match missing from %v", ob.Results())
	}
}

func TestHandleInputUnchangedKeystrokeIsNoop(t *testing.T) {
	rec := newUpdateRecorder()
	ob := testEngine(t, Deps{}, rec.fn)

	if err := ob.HandleInput("github", TriggerKeystroke); err != nil {
		t.Fatal(err)
	}
	rec.waitSettled(t)
	settled := rec.updateCount()

	// Arrow-key navigation re-reports the same text; nothing re-runs.
	if err := ob.HandleInput("github", TriggerKeystroke); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if rec.updateCount() != settled {
		t.Error("unchanged keystroke text must not re-issue the query")
	}

	// A focus trigger with the same text does re-issue.
	if err := ob.HandleInput("github", TriggerFocus); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if rec.updateCount() == settled {
		t.Error("focus trigger should re-issue even with unchanged text")
	}
}

func TestZeroSuggestOnEmptyFocus(t *testing.T) {
	rec := newUpdateRecorder()
	ob := testEngine(t, Deps{}, rec.fn)

	if err := ob.HandleInput("", TriggerFocus); err != nil {
		t.Fatal(err)
	}
	rec.waitSettled(t)

	results := ob.Results()
	if len(results) == 0 {
		t.Fatal("empty focus should produce zero-suggest matches")
	}
	for _, m := range results {
		if m.Type != providers.TypeZeroSuggest {
			t.Errorf("unexpected %q match on empty input: %+v", m.Type, m)
		}
	}
	if _, ok := ob.DefaultMatch(); ok {
		t.Error("zero-suggest results must not offer a default match")
	}
}

func TestOpenMatchDispatch(t *testing.T) {
	var navigated, switched, acted string
	deps := Deps{
		History:     testHistory(),
		Shortcuts:   store.NewMemoryShortcuts(),
		Navigate:    func(url string, _ Disposition) error { navigated = url; return nil },
		SwitchToTab: func(id string) error { switched = id; return nil },
		RunAction:   func(a string) error { acted = a; return nil },
	}
	ob := testEngine(t, deps, nil)

	if err := ob.OpenMatch(Match{Type: providers.TypeHistoryURL, DestinationURL: "https://github.com/"}, CurrentTab); err != nil {
		t.Fatal(err)
	}
	if navigated != "https://github.com/" {
		t.Errorf("navigated = %q", navigated)
	}

	if err := ob.OpenMatch(Match{Type: providers.TypeOpenTab, DestinationURL: "tab:7"}, CurrentTab); err != nil {
		t.Fatal(err)
	}
	if switched != "7" {
		t.Errorf("switched = %q, want bare tab id", switched)
	}

	if err := ob.OpenMatch(Match{Type: providers.TypePedal, DestinationURL: "pedal:open-settings"}, CurrentTab); err != nil {
		t.Fatal(err)
	}
	if acted != "open-settings" {
		t.Errorf("acted = %q, want bare action name", acted)
	}
}

func TestOpenMatchMissingHandlers(t *testing.T) {
	ob := testEngine(t, Deps{History: testHistory()}, nil)

	if err := ob.OpenMatch(Match{Type: providers.TypeHistoryURL, DestinationURL: "https://x/"}, CurrentTab); !errors.Is(err, ErrNoNavigator) {
		t.Errorf("err = %v, want ErrNoNavigator", err)
	}
	if err := ob.OpenMatch(Match{Type: providers.TypeOpenTab, DestinationURL: "tab:1"}, CurrentTab); !errors.Is(err, ErrNoTabHandler) {
		t.Errorf("err = %v, want ErrNoTabHandler", err)
	}
	if err := ob.OpenMatch(Match{Type: providers.TypePedal, DestinationURL: "pedal:x"}, CurrentTab); !errors.Is(err, ErrNoActionHandler) {
		t.Errorf("err = %v, want ErrNoActionHandler", err)
	}
}

func TestOpenMatchRecordsShortcut(t *testing.T) {
	shortcuts := store.NewMemoryShortcuts()
	rec := newUpdateRecorder()
	deps := Deps{
		History:   testHistory(),
		Shortcuts: shortcuts,
		Navigate:  func(string, Disposition) error { return nil },
	}
	ob := testEngine(t, deps, rec.fn)

	if err := ob.HandleInput("gi", TriggerKeystroke); err != nil {
		t.Fatal(err)
	}
	rec.waitSettled(t)
	if err := ob.OpenMatch(Match{
		Type:           providers.TypeHistoryURL,
		DestinationURL: "https://github.com/",
		Description:    "GitHub",
	}, CurrentTab); err != nil {
		t.Fatal(err)
	}

	// Recording is fire-and-forget; poll for it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		found, err := shortcuts.Search(context.Background(), "gi", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(found) > 0 {
			if found[0].DestinationURL != "https://github.com/" {
				t.Errorf("recorded destination = %q", found[0].DestinationURL)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("shortcut was never recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFailedNavigationRecordsNothing(t *testing.T) {
	shortcuts := store.NewMemoryShortcuts()
	deps := Deps{
		History:   testHistory(),
		Shortcuts: shortcuts,
		Navigate:  func(string, Disposition) error { return errors.New("blocked") },
	}
	ob := testEngine(t, deps, nil)

	if err := ob.HandleInput("gi", TriggerKeystroke); err != nil {
		t.Fatal(err)
	}
	if err := ob.OpenMatch(Match{Type: providers.TypeHistoryURL, DestinationURL: "https://github.com/"}, CurrentTab); err == nil {
		t.Fatal("navigation error should surface")
	}
	time.Sleep(50 * time.Millisecond)
	if found, _ := shortcuts.Search(context.Background(), "gi", 5); len(found) != 0 {
		t.Errorf("failed navigation must not record a shortcut, got %v", found)
	}
}

func TestCloseMakesEngineUnusable(t *testing.T) {
	ob := testEngine(t, Deps{}, nil)
	if err := ob.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ob.HandleInput("x", TriggerKeystroke); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("HandleInput after Close: %v, want ErrEngineClosed", err)
	}
	if err := ob.OpenMatch(Match{}, CurrentTab); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("OpenMatch after Close: %v, want ErrEngineClosed", err)
	}
	if err := ob.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestDisabledProviderStaysSilent(t *testing.T) {
	opts := DefaultOptions()
	opts.DisabledProviders = []string{providers.NameSearch}
	rec := newUpdateRecorder()
	ob, err := New(Deps{History: testHistory()}, opts, rec.fn)
	if err != nil {
		t.Fatal(err)
	}
	defer ob.Close()

	if err := ob.HandleInput("anything at all", TriggerKeystroke); err != nil {
		t.Fatal(err)
	}
	rec.waitSettled(t)
	for _, m := range ob.Results() {
		if m.Provider == providers.NameSearch {
			t.Errorf("disabled provider delivered %+v", m)
		}
	}
}
