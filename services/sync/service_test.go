package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parlwatch-backend/lib/apis/parlamento"
	"parlwatch-backend/lib/sqliteutil"
	"parlwatch-backend/services/sync/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := sqliteutil.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewService(database, Config{})
}

func testBaseInfo() *parlamento.BaseInfo {
	return &parlamento.BaseInfo{
		GruposParlamentares: []parlamento.GrupoParlamentar{
			{Sigla: "PS", Nome: "Partido Socialista"},
			{Sigla: "PSD", Nome: "Partido Social Democrata"},
		},
		CirculosEleitorais: []parlamento.CirculoEleitoral{
			{CpId: 1, CpDes: "Lisboa"},
			{CpId: 2, CpDes: "Porto"},
		},
		Deputados: []parlamento.Deputado{
			{
				DepId:              100,
				DepCadId:           9100,
				DepNomeCompleto:    "Maria da Conceição Pereira Silva",
				DepNomeParlamentar: "Maria Silva",
				DepCPId:            1,
				LegDes:             "XVII",
				DepSituacao: []parlamento.DepSituacao{
					{SioDes: "Efetivo", SioDtInicio: "2024-03-26"},
				},
				DepGP:    []parlamento.DepGP{{GpSigla: "PS", GpDtInicio: "2024-03-26"}},
				DepCargo: []parlamento.DepCargo{{CarId: 5, CarDes: "Vice-Presidente"}},
			},
			{
				// older duplicate of deputy 100, displaced by the row
				// above regardless of feed order
				DepId:              100,
				DepCadId:           9100,
				DepNomeCompleto:    "Maria da Conceição Pereira Silva",
				DepNomeParlamentar: "Maria Silva",
				DepCPId:            1,
				LegDes:             "XVII",
				DepSituacao: []parlamento.DepSituacao{
					{SioDes: "Suplente", SioDtInicio: "2024-01-01", SioDtFim: "2024-03-25"},
				},
				DepGP: []parlamento.DepGP{{GpSigla: "PSD", GpDtFim: "2024-03-25"}},
			},
			{
				DepId:              200,
				DepCadId:           9200,
				DepNomeCompleto:    "Rui Tavares Marques",
				DepNomeParlamentar: "Rui Tavares",
				DepCPId:            2,
				LegDes:             "XVII",
				DepSituacao: []parlamento.DepSituacao{
					{SioDes: "Efetivo", SioDtInicio: "2024-03-26"},
				},
				DepGP: []parlamento.DepGP{{GpSigla: "PSD", GpDtInicio: "2024-03-26"}},
			},
		},
	}
}

func TestFeedTransforms(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	base := testBaseInfo()

	counts, err := s.syncParties(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 2, counts.processed)
	require.Zero(t, counts.failed)

	counts, err = s.syncDistricts(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 2, counts.processed)

	counts, err = s.syncDeputies(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 2, counts.processed)

	counts, err = s.syncDeputyExtendedInfo(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 2, counts.processed)

	deputies, err := s.qry.GetActiveDeputies(ctx)
	require.NoError(t, err)
	require.Len(t, deputies, 2)

	// every deputy starts with a zeroed stats row
	for _, d := range deputies {
		stats, err := s.qry.GetDeputyStats(ctx, d.ID)
		require.NoError(t, err)
		require.Zero(t, stats.ProposalCount)
		require.Zero(t, stats.InterventionCount)
		require.Zero(t, stats.WorkScore)
		require.Equal(t, "F", stats.Grade)
	}

	// the duplicate resolved to the newer row: active, PS
	mariaId := s.ids.deputyByDepId[100]
	psBench, err := s.qry.GetDeputyIdsByParty(ctx, s.ids.partyByAcronym["PS"], true)
	require.NoError(t, err)
	require.Equal(t, []int64{mariaId}, psBench)

	// reruns are idempotent
	counts, err = s.syncDeputies(ctx, base)
	require.NoError(t, err)
	require.Equal(t, 2, counts.processed)
	deputies, err = s.qry.GetActiveDeputies(ctx)
	require.NoError(t, err)
	require.Len(t, deputies, 2)
}

func TestStatsPipeline(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	base := testBaseInfo()
	_, err := s.syncParties(ctx, base)
	require.NoError(t, err)
	_, err = s.syncDistricts(ctx, base)
	require.NoError(t, err)
	_, err = s.syncDeputies(ctx, base)
	require.NoError(t, err)

	iniciativas := []parlamento.Iniciativa{
		{
			IniId:       "1001",
			IniDescTipo: "Projeto de Lei",
			IniNr:       "42",
			IniTitulo:   "Uma proposta",
			IniAutorDeputados: []parlamento.AutorDeputado{
				{IdCadastro: "9100", Nome: "Maria Silva", GP: "PS"},
			},
			IniEventos: []parlamento.Evento{
				{EvtId: "1", Fase: "Entrada", CodigoFase: "10", DataFase: "2025-01-02"},
				{
					EvtId: "2", Fase: "Votação", CodigoFase: "30", DataFase: "2025-02-01",
					Votacao: []parlamento.Votacao{{
						Id:        "v1",
						Data:      "2025-02-01",
						Detalhe:   "A Favor: <I>PS</I><BR>Contra: <I>PSD</I>",
						Resultado: "Aprovado",
						Unanime:   "Não",
					}},
				},
			},
		},
		{
			IniId: "1002",
			IniAutorDeputados: []parlamento.AutorDeputado{
				{IdCadastro: "9100", Nome: "Maria Silva", GP: "PS"},
			},
		},
	}

	counts, err := s.syncInitiatives(ctx, iniciativas)
	require.NoError(t, err)
	require.Equal(t, 2, counts.processed)

	_, err = s.syncActivities(ctx, &parlamento.Atividades{Debates: []parlamento.Debate{
		{AutoresGP: "PSD", Intervencoes: []string{"a", "b", "c"}},
	}})
	require.NoError(t, err)

	_, err = s.updateProposalStats(ctx, iniciativas)
	require.NoError(t, err)
	_, err = s.updateInterventionStats(ctx)
	require.NoError(t, err)
	_, err = s.updatePartyVoteStats(ctx)
	require.NoError(t, err)
	_, err = s.recalculateStats(ctx)
	require.NoError(t, err)

	maria, err := s.qry.GetDeputyStats(ctx, s.ids.deputyByDepId[100])
	require.NoError(t, err)
	require.EqualValues(t, 2, maria.ProposalCount)
	require.EqualValues(t, 0, maria.InterventionCount)
	require.EqualValues(t, 1, maria.PartyVotesFavor)
	require.EqualValues(t, 0, maria.PartyVotesAgainst)
	require.EqualValues(t, 1, maria.PartyTotalVotes)
	require.Greater(t, maria.WorkScore, 0.0)
	require.NotEqual(t, "F", maria.Grade)

	rui, err := s.qry.GetDeputyStats(ctx, s.ids.deputyByDepId[200])
	require.NoError(t, err)
	require.EqualValues(t, 0, rui.ProposalCount)
	require.EqualValues(t, 3, rui.InterventionCount)
	require.EqualValues(t, 1, rui.PartyVotesAgainst)

	// maria outscores rui: 2 proposals beat 3 interventions
	require.EqualValues(t, 1, maria.NationalRank)
	require.EqualValues(t, 2, rui.NationalRank)
	// each is alone in their district
	require.EqualValues(t, 1, maria.DistrictRank)
	require.EqualValues(t, 1, rui.DistrictRank)
}

func TestBadRowLeavesRequiredStepAtWarning(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	base := &parlamento.BaseInfo{
		GruposParlamentares: []parlamento.GrupoParlamentar{
			{Sigla: "PS", Nome: "Partido Socialista"},
			{Sigla: "", Nome: "Grupo sem sigla"},
		},
	}

	result := &RunResult{}
	err := result.runStep(ctx, "parties", true, func(ctx context.Context) (stepCounts, error) {
		return s.syncParties(ctx, base)
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode())

	steps := result.Steps()
	require.Len(t, steps, 1)
	require.Equal(t, StepWarning, steps[0].Status)
	require.Equal(t, 1, steps[0].Processed)
	require.Equal(t, 1, steps[0].Failed)
	// the good row still landed
	require.Contains(t, s.ids.partyByAcronym, "PS")
}

func TestDeputyIdsForPartySkipsEmptyBench(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	// a party whose only member is no longer sitting gets no counts
	partyId, err := s.qry.UpsertParty(ctx, db.UpsertPartyParams{
		ExternalID: "MPT", Acronym: "MPT", Name: "Partido da Terra",
		Color: defaultPartyColor,
	})
	require.NoError(t, err)
	_, err = s.qry.UpsertDeputy(ctx, db.UpsertDeputyParams{
		ExternalID:  "999",
		Name:        "Deputado Cessante",
		ShortName:   "Deputado Cessante",
		PhotoUrl:    photoUrl(999),
		PartyID:     nullId(partyId, true),
		IsActive:    false,
		Legislature: 16,
	})
	require.NoError(t, err)

	ids, err := s.deputyIdsForParty(ctx, partyId)
	require.NoError(t, err)
	require.Empty(t, ids)
}
