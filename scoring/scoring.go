// Package scoring holds the pure scoring model: frecency (frequency plus
// recency decay) and the mapping of match signals onto each provider's
// integer relevance band. Every function takes the current time as a
// parameter so results are reproducible under test.
package scoring

import (
	"math"
	"time"
)

// VisitType is the transition that produced a history entry's last visit.
type VisitType int

const (
	VisitLink VisitType = iota
	VisitTyped
	VisitBookmark
	VisitRedirect
	VisitReload
)

// typeWeight is the fixed per-transition weight used by Frecency.
func typeWeight(t VisitType) float64 {
	switch t {
	case VisitTyped:
		return 4.0
	case VisitBookmark:
		return 2.0
	case VisitRedirect:
		return 0.3
	case VisitReload:
		return 0.5
	default:
		return 1.0
	}
}

const (
	frecencyHalfLife       = 30 * 24 * time.Hour
	simpleFrecencyHalfLife = 72 * time.Hour
	shortcutHalfLife       = 7 * 24 * time.Hour

	typedVisitBonus     = 20
	inlineEligibleBonus = 30
)

// Band is a provider's fixed integer relevance range. Bands of different
// match types may overlap; cross-provider ordering inside the overlap is
// the controller's tie-break policy.
type Band struct {
	Min int
	Max int
}

// The relevance bands. Open-tab matches occupy the highest band so a
// switch-to-tab suggestion always outranks a same-URL navigation.
var (
	BandOpenTab     = Band{Min: 1450, Max: 1600}
	BandShortcut    = Band{Min: 1000, Max: 1450}
	BandHistory     = Band{Min: 900, Max: 1400}
	BandSuggest     = Band{Min: 550, Max: 1250}
	BandZeroSuggest = Band{Min: 500, Max: 900}
	BandPedal       = Band{Min: 800, Max: 1100}
)

// VerbatimRelevance is the fixed score of the what-you-typed search match.
const VerbatimRelevance = 1300

// decay returns the exponential half-life decay factor for the elapsed
// time between lastVisit and now. Future timestamps are clamped to now.
func decay(lastVisit, now time.Time, halfLife time.Duration) float64 {
	elapsed := now.Sub(lastVisit)
	if elapsed < 0 {
		elapsed = 0
	}
	return math.Exp(-math.Ln2 * float64(elapsed) / float64(halfLife))
}

// clampCount guards against negative counts coming out of untrusted
// persisted state.
func clampCount(n int) float64 {
	if n < 0 {
		return 0
	}
	return float64(n)
}

// Frecency computes the combined frequency and recency score of a history
// entry with a 30-day half-life. It is monotonically non-increasing in
// elapsed time and non-decreasing in visit count.
func Frecency(visitCount, typedCount int, lastVisit time.Time, lastType VisitType, now time.Time) float64 {
	typedBonus := 0.0
	if typedCount > 0 {
		typedBonus = 2 * math.Log1p(clampCount(typedCount))
	}
	base := typeWeight(lastType)*math.Log1p(clampCount(visitCount)) + typedBonus
	return decay(lastVisit, now, frecencyHalfLife) * base
}

// SimpleFrecency is the fast-path variant: visit count alone under a
// 72-hour half-life.
func SimpleFrecency(visitCount int, lastVisit time.Time, now time.Time) float64 {
	return decay(lastVisit, now, simpleFrecencyHalfLife) * math.Log1p(clampCount(visitCount))
}

// normalizeFrecency maps a frecency value onto [0,1). The saturation
// constant keeps a handful of typed visits from pinning the score.
func normalizeFrecency(f float64) float64 {
	if f <= 0 {
		return 0
	}
	return f / (f + 5.0)
}

// Relevance maps frecency and match quality onto a provider band. The
// frecency weight shrinks as the input grows, because longer inputs carry
// more matching signal of their own. Fixed bonuses are applied for typed
// visits and inline-completion eligibility, capped at the band maximum.
func Relevance(band Band, frecency, matchQuality float64, inputLen int, typed, inlineEligible bool) int {
	if matchQuality < 0 {
		matchQuality = 0
	}
	if matchQuality > 1 {
		matchQuality = 1
	}
	n := inputLen
	if n > 30 {
		n = 30
	}
	fw := 0.7 - 0.02*float64(n)
	if fw < 0.3 {
		fw = 0.3
	}
	blend := fw*normalizeFrecency(frecency) + (1-fw)*matchQuality
	score := band.Min + int(math.Round(float64(band.Max-band.Min)*blend))
	if typed {
		score += typedVisitBonus
	}
	if inlineEligible {
		score += inlineEligibleBonus
	}
	if score > band.Max {
		score = band.Max
	}
	return score
}

// ShortcutScore scores a learned shortcut onto the shortcut band from its
// hit count, a 7-day half-life on last use, and how much of the current
// input the stored trigger covers (1.0 when the trigger covers it fully).
func ShortcutScore(hitCount int, lastUsed time.Time, coverage float64, now time.Time) int {
	if coverage < 0 {
		coverage = 0
	}
	if coverage > 1 {
		coverage = 1
	}
	hits := math.Log1p(clampCount(hitCount)) / math.Log1p(100)
	if hits > 1 {
		hits = 1
	}
	blend := 0.6*hits*decay(lastUsed, now, shortcutHalfLife) + 0.4*coverage
	score := BandShortcut.Min + int(math.Round(float64(BandShortcut.Max-BandShortcut.Min)*blend))
	if score > BandShortcut.Max {
		score = BandShortcut.Max
	}
	return score
}
