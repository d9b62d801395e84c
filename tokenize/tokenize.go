// Package tokenize splits free text, URLs and titles into lowercase tokens
// and classifies how well a typed term matches a token. It is the admission
// layer for the in-memory URL index: an entry is only considered when every
// input term matches at least one of its tokens.
package tokenize

import (
	"strings"
	"unicode"
)

// MatchKind classifies how a term matched a token. Higher values are
// stronger matches.
type MatchKind int

const (
	// MatchNone means the term does not appear in the token.
	MatchNone MatchKind = iota

	// MatchSubstring means the term appears somewhere inside the token.
	MatchSubstring

	// MatchPrefix means the token starts with the term.
	MatchPrefix

	// MatchExact means the term equals the token.
	MatchExact
)

// String returns a short name for the match kind, used in logs.
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Tokenize splits text into non-empty lowercase tokens on every
// non-alphanumeric boundary. Empty or whitespace-only input yields an
// empty slice, never an error.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// TokenizeInput splits user input into lowercase terms on whitespace only,
// preserving the order the user typed them in. Unlike Tokenize it keeps
// punctuation inside a term, so "example.com" stays one term.
func TokenizeInput(text string) []string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// MatchTerm classifies how term matches token, with exact taking precedence
// over prefix and prefix over substring.
func MatchTerm(term, token string) MatchKind {
	if term == "" || token == "" {
		return MatchNone
	}
	if term == token {
		return MatchExact
	}
	if strings.HasPrefix(token, term) {
		return MatchPrefix
	}
	if strings.Contains(token, term) {
		return MatchSubstring
	}
	return MatchNone
}

// FindBestMatch returns the strongest MatchTerm result of term against any
// token in the collection, short-circuiting on an exact match.
func FindBestMatch(term string, tokens []string) MatchKind {
	best := MatchNone
	for _, tok := range tokens {
		kind := MatchTerm(term, tok)
		if kind == MatchExact {
			return MatchExact
		}
		if kind > best {
			best = kind
		}
	}
	return best
}

// AllTermsMatch reports whether every term matches at least one token.
// An empty term list matches trivially.
func AllTermsMatch(terms, tokens []string) bool {
	for _, term := range terms {
		if FindBestMatch(term, tokens) == MatchNone {
			return false
		}
	}
	return true
}
