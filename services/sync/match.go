package sync

import (
	"math"

	"github.com/antzucaro/matchr"

	"parlwatch-backend/lib/textutil"
	"parlwatch-backend/services/sync/db"
)

// nameMatches decides whether a scraped name and a roster name refer
// to the same person. Scraped pages use the short parliamentary name,
// the feed the full legal name, so exact equality is the exception:
// containment and a 70% token overlap (on the shorter name) also
// count.
func nameMatches(a, b string) bool {
	na := textutil.NormalizeName(a)
	nb := textutil.NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	ta := textutil.Tokens(na)
	tb := textutil.Tokens(nb)
	if containsAll(ta, tb) || containsAll(tb, ta) {
		return true
	}

	shorter := ta
	if len(tb) < len(ta) {
		shorter = tb
	}
	needed := int(math.Ceil(float64(len(shorter)) * 0.7))
	return tokenOverlap(ta, tb) >= needed
}

func containsAll(haystack, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	set := make(map[string]bool, len(haystack))
	for _, t := range haystack {
		set[t] = true
	}
	for _, t := range needles {
		if !set[t] {
			return false
		}
	}
	return true
}

func tokenOverlap(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	n := 0
	for _, t := range b {
		if set[t] {
			n++
			delete(set, t)
		}
	}
	return n
}

// matchDeputy finds the roster deputy a scraped name belongs to. When
// several candidates pass, Jaro-Winkler similarity on the normalized
// names breaks the tie. Both the full and the parliamentary name are
// tried per candidate.
func matchDeputy(scrapedName string, candidates []db.ActiveDeputy) (db.ActiveDeputy, bool) {
	normalized := textutil.NormalizeName(scrapedName)

	var best db.ActiveDeputy
	bestScore := -1.0
	for _, c := range candidates {
		if !nameMatches(scrapedName, c.Name) && !nameMatches(scrapedName, c.ShortName) {
			continue
		}
		score := math.Max(
			matchr.JaroWinkler(normalized, textutil.NormalizeName(c.Name), true),
			matchr.JaroWinkler(normalized, textutil.NormalizeName(c.ShortName), true),
		)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best, bestScore >= 0
}
