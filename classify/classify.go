// Package classify assigns a coarse type to raw omnibox input. The
// classifier is an ordered rule list evaluated over trimmed text; the first
// rule that matches wins. It is a pure total function: no I/O, no clock.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// InputType is the coarse classification of omnibox input.
type InputType int

const (
	// Unknown is ambiguous input, typically a single word that could be
	// either a navigation or a search. Keyword-trigger classification is a
	// deferred extension point; ambiguous single words stay Unknown rather
	// than being guessed at.
	Unknown InputType = iota

	// URL is input the user almost certainly means as a navigation.
	URL

	// Query is input the user means as a web search.
	Query

	// ForcedQuery is a search explicitly requested with a leading "?".
	ForcedQuery
)

// String returns the lowercase name of the input type.
func (t InputType) String() string {
	switch t {
	case URL:
		return "url"
	case Query:
		return "query"
	case ForcedQuery:
		return "forced-query"
	default:
		return "unknown"
	}
}

var (
	schemeRe   = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)
	hostPortRe = regexp.MustCompile(`^[a-zA-Z0-9.-]+:[0-9]{1,5}(/.*)?$`)
	ipv4Re     = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})(:[0-9]{1,5})?(/.*)?$`)
)

// Classify classifies trimmed input text. Empty or whitespace-only text is
// Unknown. Repeated calls with identical text return identical results.
func Classify(text string) InputType {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unknown
	}
	if strings.HasPrefix(text, "?") {
		return ForcedQuery
	}
	if schemeRe.MatchString(strings.ToLower(text)) {
		return URL
	}
	if !strings.ContainsAny(text, " \t") {
		if isIPv4Literal(text) {
			return URL
		}
		if hostPortRe.MatchString(text) {
			return URL
		}
		if strings.HasSuffix(text, "/") {
			return URL
		}
		if hasKnownTLD(text) {
			return URL
		}
		return Unknown
	}
	if hostPortRe.MatchString(text) {
		return URL
	}
	if strings.Contains(text, " ") {
		return Query
	}
	return Unknown
}

// isIPv4Literal reports whether text is a dotted-quad IPv4 address with an
// optional port and path.
func isIPv4Literal(text string) bool {
	m := ipv4Re.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	for _, part := range m[1:5] {
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// hasKnownTLD reports whether a single-token, domain-like string ends in a
// suffix on the public suffix list. The default rule is disabled so made-up
// suffixes do not match.
func hasKnownTLD(text string) bool {
	host := strings.ToLower(text)
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if !strings.Contains(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	rule := publicsuffix.DefaultList.Find(host, &publicsuffix.FindOptions{
		IgnorePrivate: true,
		DefaultRule:   nil,
	})
	return rule != nil
}
