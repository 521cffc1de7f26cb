package sync

import (
	"context"
	"strconv"

	"parlwatch-backend/lib/apis/parlamento"
	"parlwatch-backend/services/sync/db"
)

func (s *Service) syncParties(ctx context.Context, base *parlamento.BaseInfo) (stepCounts, error) {
	var tally rowErrors
	for _, gp := range base.GruposParlamentares {
		if gp.Sigla == "" {
			tally.addf("parliamentary group with empty acronym (%q)", gp.Nome)
			continue
		}
		name := gp.Nome
		if name == "" {
			name = gp.Sigla
		}
		id, err := s.qry.UpsertParty(ctx, db.UpsertPartyParams{
			ExternalID: gp.Sigla,
			Acronym:    gp.Sigla,
			Name:       name,
			Color:      partyColor(gp.Sigla),
		})
		if err != nil {
			if isAuthError(err) {
				return tally.counts(len(s.ids.partyByAcronym)), err
			}
			tally.addf("party %s: %w", gp.Sigla, err)
			continue
		}
		s.ids.partyByAcronym[gp.Sigla] = id
	}
	return tally.counts(len(s.ids.partyByAcronym)), nil
}

func (s *Service) syncDistricts(ctx context.Context, base *parlamento.BaseInfo) (stepCounts, error) {
	var tally rowErrors
	for _, c := range base.CirculosEleitorais {
		if c.CpId == 0 || c.CpDes == "" {
			tally.addf("district with missing id or name (%d, %q)", c.CpId, c.CpDes)
			continue
		}
		id, err := s.qry.UpsertDistrict(ctx, db.UpsertDistrictParams{
			ExternalID: strconv.FormatInt(c.CpId, 10),
			Name:       c.CpDes,
		})
		if err != nil {
			if isAuthError(err) {
				return tally.counts(len(s.ids.districtByCpId)), err
			}
			tally.addf("district %d: %w", c.CpId, err)
			continue
		}
		s.ids.districtByCpId[districtCpId(c.CpId)] = id
	}
	return tally.counts(len(s.ids.districtByCpId)), nil
}
