package sync

import (
	"context"
	"regexp"
	"strings"

	"parlwatch-backend/lib/apis/parlamento"
)

// debate author entries look like "Maria Silva (PS)"; the acronym in
// parentheses may itself be hyphenated (CDS-PP).
var debateAuthorRegex = regexp.MustCompile(`^(.+?)\s*\((\w+(?:-\w+)?)\)$`)

// partyInterventionCounts tallies floor interventions per party. A
// debate authored by parliamentary groups credits every listed group
// with all of its interventions; otherwise the single deputy author's
// party is read off the "Name (PARTY)" suffix. A debate with no
// recorded interventions contributes nothing.
func partyInterventionCounts(debates []parlamento.Debate) map[string]int64 {
	counts := make(map[string]int64)
	for _, d := range debates {
		n := int64(len(d.Intervencoes))
		if n == 0 {
			continue
		}

		if d.AutoresGP != "" {
			for _, gp := range strings.Split(d.AutoresGP, ",") {
				gp = strings.TrimSpace(gp)
				if gp != "" {
					counts[gp] += n
				}
			}
			continue
		}

		m := debateAuthorRegex.FindStringSubmatch(strings.TrimSpace(d.AutoresDeputados))
		if m != nil {
			counts[m[2]] += n
		}
	}
	return counts
}

// syncActivities parses the activities feed and caches the per-party
// intervention tallies for the stats phase. Nothing is written here;
// the debates themselves have no table of their own.
func (s *Service) syncActivities(ctx context.Context, atividades *parlamento.Atividades) (stepCounts, error) {
	s.interventions = partyInterventionCounts(atividades.Debates)
	return stepCounts{processed: len(atividades.Debates)}, nil
}

// distribute spreads a party-level count over its deputies: everyone
// gets the floor share and the first remainder-many deputies get one
// extra, so the total is preserved exactly.
func distribute(total int64, deputyIds []int64) map[int64]int64 {
	out := make(map[int64]int64, len(deputyIds))
	if len(deputyIds) == 0 {
		return out
	}
	share := total / int64(len(deputyIds))
	remainder := total % int64(len(deputyIds))
	for i, id := range deputyIds {
		out[id] = share
		if int64(i) < remainder {
			out[id]++
		}
	}
	return out
}

// deputyIdsForParty is the party's currently sitting bench. Counts are
// only spread over active deputies; a party with nobody sitting gets
// nothing.
func (s *Service) deputyIdsForParty(ctx context.Context, partyId int64) ([]int64, error) {
	return s.qry.GetDeputyIdsByParty(ctx, partyId, true)
}
