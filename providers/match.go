package providers

import (
	"net/url"
	"strings"
	"time"
)

// MatchType tags the kind of suggestion a match is, driving
// kind-specific open behavior and UI treatment.
type MatchType string

const (
	// TypeHistoryURL is a URL from visit history.
	TypeHistoryURL MatchType = "history-url"

	// TypeShortcut is a learned input-to-destination mapping.
	TypeShortcut MatchType = "shortcut"

	// TypeOpenTab is a switch-to-tab suggestion.
	TypeOpenTab MatchType = "open-tab"

	// TypeSearchQuery is a server-provided search suggestion.
	TypeSearchQuery MatchType = "search-query"

	// TypeVerbatim is the what-you-typed match.
	TypeVerbatim MatchType = "verbatim"

	// TypeNavSuggest is a server-provided navigation suggestion.
	TypeNavSuggest MatchType = "navsuggest"

	// TypeZeroSuggest is an empty-input suggestion.
	TypeZeroSuggest MatchType = "zero-suggest"

	// TypePedal is an in-app command shortcut.
	TypePedal MatchType = "pedal"

	// TypeBookmark is a bookmarked URL (stub until the bookmark
	// subsystem lands).
	TypeBookmark MatchType = "bookmark"
)

// ScoringSignals is the fixed record of behavioral and match-quality
// features behind a match's relevance. It is never mutated after
// creation; re-rankers read it as-is.
type ScoringSignals struct {
	TypedCount            int
	VisitCount            int
	ElapsedSinceLastVisit time.Duration
	Frecency              float64

	// MatchQuality is in [0,1].
	MatchQuality float64

	IsHostMatch    bool
	IsWordBoundary bool
	IsBookmarked   bool
	HasOpenTab     bool
	URLLength      int
}

// Match is one ranked suggestion. Providers produce matches; the
// controller and UI consume them read-only.
type Match struct {
	Provider           string
	Relevance          int
	Contents           string
	Description        string
	DestinationURL     string
	Type               MatchType
	InlineCompletion   string
	AllowedToBeDefault bool
	DedupKey           string
	Signals            ScoringSignals
}

// DedupKey normalizes a destination so equivalent matches from different
// providers merge: scheme, "www." and a trailing slash are ignored.
// Non-URL destinations (tab and pedal references, search keys) are used
// as-is.
func DedupKey(destination string) string {
	if destination == "" {
		return ""
	}
	if strings.HasPrefix(destination, "tab:") || strings.HasPrefix(destination, "pedal:") ||
		strings.HasPrefix(destination, "search:") {
		return destination
	}
	raw := destination
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(destination)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.TrimSuffix(u.Path, "/")
	key := host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// inlineSuffix computes the inline completion that extends input to
// candidate. It tries the candidate verbatim, without its scheme, and
// without scheme plus "www.". ok is true when the input is a prefix of
// some variant; the suffix is empty when the input is already the
// complete candidate.
func inlineSuffix(input, candidate string) (suffix string, ok bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || candidate == "" {
		return "", false
	}
	variants := []string{candidate}
	if i := strings.Index(candidate, "://"); i >= 0 {
		bare := candidate[i+3:]
		variants = append(variants, bare)
		if strings.HasPrefix(strings.ToLower(bare), "www.") {
			variants = append(variants, bare[4:])
		}
	}
	for _, v := range variants {
		if strings.HasPrefix(strings.ToLower(v), in) {
			return v[len(in):], true
		}
	}
	return "", false
}
