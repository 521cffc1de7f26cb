package sync

import (
	"context"
	"database/sql"
	"strconv"

	"parlwatch-backend/lib/apis/parlamento"
	"parlwatch-backend/services/sync/db"
)

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullId(id int64, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: ok}
}

// syncDeputies upserts the deduplicated roster and guarantees every
// deputy has a stats row. Party and district lookups fall back to NULL
// references when the roster mentions a group or district the earlier
// transforms never saw.
func (s *Service) syncDeputies(ctx context.Context, base *parlamento.BaseInfo) (stepCounts, error) {
	deputados := deduplicateDeputies(base.Deputados)
	today := s.now().Format("2006-01-02")

	var tally rowErrors
	synced := 0
	for _, d := range deputados {
		partyId, hasParty := s.ids.partyByAcronym[getCurrentParty(d, today)]
		districtId, hasDistrict := s.ids.districtByCpId[districtCpId(d.DepCPId)]
		start, end := getMandateDates(d)

		id, err := s.qry.UpsertDeputy(ctx, db.UpsertDeputyParams{
			ExternalID:   strconv.FormatInt(d.DepId, 10),
			Name:         d.DepNomeCompleto,
			ShortName:    d.DepNomeParlamentar,
			PhotoUrl:     photoUrl(d.DepId),
			PartyID:      nullId(partyId, hasParty),
			DistrictID:   nullId(districtId, hasDistrict),
			IsActive:     isActiveDeputy(d),
			MandateStart: nullStr(start),
			MandateEnd:   nullStr(end),
			Legislature:  parseLegislature(d.LegDes),
		})
		if err != nil {
			if isAuthError(err) {
				return tally.counts(synced), err
			}
			tally.addf("deputy %d: %w", d.DepId, err)
			continue
		}
		err = s.qry.EnsureDeputyStats(ctx, id)
		if err != nil {
			tally.addf("deputy %d stats row: %w", d.DepId, err)
			continue
		}

		s.ids.deputyByDepId[depId(d.DepId)] = id
		if d.DepCadId != 0 {
			s.ids.deputyByCadastro[cadastroId(d.DepCadId)] = id
		}
		synced++
	}
	return tally.counts(synced), nil
}

// syncDeputyExtendedInfo rewrites the role, party and status history
// tables for every known deputy. Each deputy's history is replaced
// inside one transaction so a failure never leaves it half-written.
func (s *Service) syncDeputyExtendedInfo(ctx context.Context, base *parlamento.BaseInfo) (stepCounts, error) {
	deputados := deduplicateDeputies(base.Deputados)

	var tally rowErrors
	synced := 0
	for _, d := range deputados {
		deputyId, ok := s.ids.deputyByDepId[depId(d.DepId)]
		if !ok {
			continue
		}
		err := s.replaceDeputyHistory(ctx, deputyId, d)
		if err != nil {
			if isAuthError(err) {
				return tally.counts(synced), err
			}
			tally.addf("deputy %d history: %w", d.DepId, err)
			continue
		}
		synced++
	}
	return tally.counts(synced), nil
}

func (s *Service) replaceDeputyHistory(ctx context.Context, deputyId int64, d parlamento.Deputado) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qry := s.qry.WithTx(tx)

	err = qry.DeleteDeputyRoles(ctx, deputyId)
	if err != nil {
		return err
	}
	for _, cargo := range d.DepCargo {
		err = qry.InsertDeputyRole(ctx, db.InsertDeputyRoleParams{
			DeputyID:  deputyId,
			RoleID:    cargo.CarId,
			RoleName:  cargo.CarDes,
			StartDate: nullStr(cargo.CarDtInicio),
			EndDate:   nullStr(cargo.CarDtFim),
		})
		if err != nil {
			return err
		}
	}

	err = qry.DeleteDeputyPartyHistory(ctx, deputyId)
	if err != nil {
		return err
	}
	for _, gp := range d.DepGP {
		partyId, hasParty := s.ids.partyByAcronym[gp.GpSigla]
		err = qry.InsertDeputyPartyHistory(ctx, db.InsertDeputyPartyHistoryParams{
			DeputyID:     deputyId,
			PartyID:      nullId(partyId, hasParty),
			PartyAcronym: gp.GpSigla,
			StartDate:    nullStr(gp.GpDtInicio),
			EndDate:      nullStr(gp.GpDtFim),
		})
		if err != nil {
			return err
		}
	}

	err = qry.DeleteDeputyStatusHistory(ctx, deputyId)
	if err != nil {
		return err
	}
	for _, sit := range d.DepSituacao {
		err = qry.InsertDeputyStatusHistory(ctx, db.InsertDeputyStatusHistoryParams{
			DeputyID:  deputyId,
			Status:    sit.SioDes,
			StartDate: nullStr(sit.SioDtInicio),
			EndDate:   nullStr(sit.SioDtFim),
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
