package sync

import (
	"context"
	"encoding/json"

	"parlwatch-backend/lib/apis/parlamento"
	"parlwatch-backend/services/sync/db"
)

// updateProposalStats counts authored initiatives per deputy. Counts
// are written for every known deputy, zero included, so a shrinking
// feed cannot leave stale numbers behind.
func (s *Service) updateProposalStats(ctx context.Context, iniciativas []parlamento.Iniciativa) (stepCounts, error) {
	counts := make(map[int64]int64)
	for _, ini := range iniciativas {
		for _, autor := range ini.IniAutorDeputados {
			cadId, err := autor.IdCadastro.Int()
			if err != nil {
				continue
			}
			if deputyId, ok := s.ids.deputyByCadastro[cadastroId(cadId)]; ok {
				counts[deputyId]++
			}
		}
	}

	var tally rowErrors
	updated := 0
	for _, deputyId := range s.ids.deputyByCadastro {
		err := s.qry.UpdateProposalCount(ctx, deputyId, counts[deputyId])
		if err != nil {
			tally.addf("deputy %d: %w", deputyId, err)
			continue
		}
		updated++
	}
	return tally.counts(updated), nil
}

// updateInterventionStats spreads the cached per-party intervention
// tallies over each party's bench.
func (s *Service) updateInterventionStats(ctx context.Context) (stepCounts, error) {
	perDeputy := make(map[int64]int64)
	var tally rowErrors

	for acronym, count := range s.interventions {
		partyId, ok := s.ids.partyByAcronym[acronym]
		if !ok {
			tally.addf("interventions for unknown party %q", acronym)
			continue
		}
		deputyIds, err := s.deputyIdsForParty(ctx, partyId)
		if err != nil {
			tally.addf("party %s bench: %w", acronym, err)
			continue
		}
		for deputyId, share := range distribute(count, deputyIds) {
			perDeputy[deputyId] += share
		}
	}

	updated := 0
	for deputyId, count := range perDeputy {
		err := s.qry.UpdateInterventionCount(ctx, deputyId, count)
		if err != nil {
			tally.addf("deputy %d: %w", deputyId, err)
			continue
		}
		updated++
	}
	return tally.counts(updated), nil
}

func decodeJsonList(raw string) []string {
	var out []string
	if json.Unmarshal([]byte(raw), &out) != nil {
		return nil
	}
	return out
}

// updatePartyVoteStats attributes every recorded party vote to the
// deputies of the voting party. A party's total is the sum of its own
// recorded positions, favor plus against plus abstentions.
func (s *Service) updatePartyVoteStats(ctx context.Context) (stepCounts, error) {
	tallies, err := s.qry.GetPartyVoteTallies(ctx)
	if err != nil {
		return stepCounts{}, err
	}

	type voteCounts struct{ favor, against, abstain int64 }
	perParty := make(map[string]*voteCounts)
	bump := func(acronyms []string, f func(*voteCounts)) {
		for _, a := range acronyms {
			c, ok := perParty[a]
			if !ok {
				c = &voteCounts{}
				perParty[a] = c
			}
			f(c)
		}
	}
	for _, t := range tallies {
		bump(decodeJsonList(t.PartiesFavor), func(c *voteCounts) { c.favor++ })
		bump(decodeJsonList(t.PartiesAgainst), func(c *voteCounts) { c.against++ })
		bump(decodeJsonList(t.PartiesAbstain), func(c *voteCounts) { c.abstain++ })
	}

	var tally rowErrors
	updated := 0
	for acronym, counts := range perParty {
		partyId, ok := s.ids.partyByAcronym[acronym]
		if !ok {
			// vote details name parties outside the roster (e.g.
			// single-deputy movements that dissolved); skip quietly
			continue
		}
		deputyIds, err := s.deputyIdsForParty(ctx, partyId)
		if err != nil {
			tally.addf("party %s bench: %w", acronym, err)
			continue
		}
		for _, deputyId := range deputyIds {
			err = s.qry.UpdatePartyVoteStats(ctx, db.UpdatePartyVoteStatsParams{
				DeputyID: deputyId,
				Favor:    counts.favor,
				Against:  counts.against,
				Abstain:  counts.abstain,
				Total:    counts.favor + counts.against + counts.abstain,
			})
			if err != nil {
				tally.addf("deputy %d: %w", deputyId, err)
				continue
			}
			updated++
		}
	}
	return tally.counts(updated), nil
}

// recalculateStats rebuilds scores, grades and ranks inside one
// transaction.
func (s *Service) recalculateStats(ctx context.Context) (stepCounts, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stepCounts{}, err
	}
	defer tx.Rollback()

	err = s.qry.WithTx(tx).RecalculateAllStats(ctx)
	if err != nil {
		return stepCounts{}, err
	}
	return stepCounts{}, tx.Commit()
}
