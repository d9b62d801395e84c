// Package urlindex is the in-memory URL index: a synchronous lookup
// structure over significant history entries, built for sub-20ms
// multi-term queries. Tokens are held in a patricia trie mapping each
// token to the posting list of entries containing it, so a multi-term
// query intersects posting lists instead of scanning the corpus.
//
// The index is refreshed by a full rebuild that swaps in a complete new
// snapshot; concurrent queries observe either the old or the new snapshot,
// never a partially built one.
package urlindex

import (
	"net/url"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/remiges/omnibox/scoring"
	"github.com/remiges/omnibox/store"
	"github.com/remiges/omnibox/tokenize"
)

// Entry is one indexed significant-history record. Entries are owned by
// the index and immutable after a rebuild.
type Entry struct {
	URL         string
	Title       string
	URLTokens   []string
	TitleTokens []string
	HostTokens  []string
	VisitCount  int
	TypedCount  int
	LastVisit   time.Time
	Frecency    float64
}

// Hit is one entry admitted by a query, with the match information the
// consuming provider needs for scoring.
type Hit struct {
	Entry *Entry

	// Best is the weakest per-term best match kind, i.e. the quality of
	// the limiting term.
	Best tokenize.MatchKind

	// WordBoundary is true when every term matched at a token start.
	WordBoundary bool

	// HostMatch is true when some term matched a hostname token.
	HostMatch bool
}

type snapshot struct {
	entries []Entry
	trie    *patricia.Trie // token -> *postings
}

type postings struct {
	ids []int32
}

// Index is the process-lifetime in-memory URL index.
type Index struct {
	snap atomic.Pointer[snapshot]
}

// New creates an empty index.
func New() *Index {
	ix := &Index{}
	ix.snap.Store(&snapshot{trie: patricia.NewTrie()})
	return ix
}

// Len returns the number of indexed entries in the current snapshot.
func (ix *Index) Len() int {
	return len(ix.snap.Load().entries)
}

// Rebuild tokenizes the given history entries, computes their frecency at
// now, builds a fresh snapshot and swaps it in atomically.
func (ix *Index) Rebuild(entries []store.HistoryEntry, now time.Time) {
	snap := &snapshot{
		entries: make([]Entry, 0, len(entries)),
		trie:    patricia.NewTrie(),
	}
	for _, he := range entries {
		e := Entry{
			URL:         he.URL,
			Title:       he.Title,
			URLTokens:   tokenize.Tokenize(he.URL),
			TitleTokens: tokenize.Tokenize(he.Title),
			HostTokens:  hostTokens(he.URL),
			VisitCount:  he.VisitCount,
			TypedCount:  he.TypedCount,
			LastVisit:   he.LastVisit,
			Frecency:    scoring.Frecency(he.VisitCount, he.TypedCount, he.LastVisit, he.LastVisitType, now),
		}
		id := int32(len(snap.entries))
		snap.entries = append(snap.entries, e)
		for _, tok := range uniqueTokens(e.URLTokens, e.TitleTokens) {
			p, ok := snap.trie.Get(patricia.Prefix(tok)).(*postings)
			if !ok {
				p = &postings{}
				snap.trie.Insert(patricia.Prefix(tok), p)
			}
			p.ids = append(p.ids, id)
		}
	}
	ix.snap.Store(snap)
}

// Query returns the entries for which every term matches at least one URL
// or title token. Results are in unspecified pre-filter order; ranking is
// the consuming provider's job.
func (ix *Index) Query(terms []string) []Hit {
	snap := ix.snap.Load()
	if len(terms) == 0 || len(snap.entries) == 0 {
		return nil
	}

	candidates := snap.candidates(terms)
	var hits []Hit
	for _, id := range candidates {
		e := &snap.entries[id]
		if hit, ok := admit(e, terms); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// candidates intersects per-term posting lists. A term's list must carry
// every entry the term could match, substring matches included, so each
// term walks the full token set; the trie still keeps that walk over
// distinct tokens rather than entries. An empty intersection is final:
// the token set covers every entry, so no admission test can succeed.
func (s *snapshot) candidates(terms []string) []int32 {
	var acc map[int32]struct{}
	for _, term := range terms {
		ids := make(map[int32]struct{})
		_ = s.trie.Visit(func(tok patricia.Prefix, item patricia.Item) error {
			if !strings.Contains(string(tok), term) {
				return nil
			}
			if p, ok := item.(*postings); ok {
				for _, id := range p.ids {
					ids[id] = struct{}{}
				}
			}
			return nil
		})
		if len(ids) == 0 {
			return nil
		}
		if acc == nil {
			acc = ids
			continue
		}
		for id := range acc {
			if _, ok := ids[id]; !ok {
				delete(acc, id)
			}
		}
		if len(acc) == 0 {
			return nil
		}
	}
	out := make([]int32, 0, len(acc))
	for id := range acc {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// admit runs the full AND admission test and computes the hit's match
// information.
func admit(e *Entry, terms []string) (Hit, bool) {
	best := tokenize.MatchExact
	wordBoundary := true
	hostMatch := false
	for _, term := range terms {
		kind := tokenize.FindBestMatch(term, e.URLTokens)
		if k := tokenize.FindBestMatch(term, e.TitleTokens); k > kind {
			kind = k
		}
		if kind == tokenize.MatchNone {
			return Hit{}, false
		}
		if kind < best {
			best = kind
		}
		if kind < tokenize.MatchPrefix {
			wordBoundary = false
		}
		if tokenize.FindBestMatch(term, e.HostTokens) != tokenize.MatchNone {
			hostMatch = true
		}
	}
	return Hit{Entry: e, Best: best, WordBoundary: wordBoundary, HostMatch: hostMatch}, true
}

// hostTokens tokenizes just the hostname of a URL, tolerating bare
// scheme-less strings.
func hostTokens(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		if u2, err2 := url.Parse("https://" + raw); err2 == nil {
			u = u2
		}
	}
	if u == nil || u.Host == "" {
		return nil
	}
	return tokenize.Tokenize(u.Hostname())
}

func uniqueTokens(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, tok := range list {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
