package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"parlwatch-backend/lib/apis/parlamento"
	"parlwatch-backend/lib/htmlutil"
	"parlwatch-backend/services/sync/db"
)

const maxTitleLength = 500

const submissionPhaseCode = "10"

// initiativeStatus is the phase label of the event with the most
// recent date. Events without a date are ignored.
func initiativeStatus(eventos []parlamento.Evento) string {
	latest := ""
	status := ""
	for _, e := range eventos {
		if e.DataFase != "" && e.DataFase >= latest {
			latest = e.DataFase
			status = e.Fase
		}
	}
	return status
}

func initiativeSubmittedAt(eventos []parlamento.Evento) string {
	for _, e := range eventos {
		if e.CodigoFase == submissionPhaseCode {
			return e.DataFase
		}
	}
	return ""
}

var voteLabels = []struct {
	label  string
	bucket int
}{
	{"a favor", 0},
	{"contra", 1},
	{"abstenção", 2},
	{"abstencao", 2},
}

// ParseVoteDetail extracts the per-position party lists from the HTML
// blob of a voting record. The blob is line-oriented once <BR> tags
// become newlines; a line whose position label opens it carries a
// comma-separated list of acronyms. Labels buried mid-sentence are
// prose, not positions. Anything 20 characters or longer is prose too
// and gets dropped.
func ParseVoteDetail(detail string) (favor, against, abstain []string) {
	buckets := [3][]string{}

	text := htmlutil.StripTags(detail)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		bucket := -1
		rest := ""
		for _, vl := range voteLabels {
			if !strings.HasPrefix(lower, vl.label) {
				continue
			}
			bucket = vl.bucket
			rest = line[len(vl.label):]
			break
		}
		if bucket < 0 {
			continue
		}

		rest = strings.TrimLeft(rest, ": ")
		for _, token := range strings.Split(rest, ",") {
			token = strings.TrimSpace(token)
			if token == "" || len(token) >= 20 {
				continue
			}
			buckets[bucket] = append(buckets[bucket], token)
		}
	}
	return buckets[0], buckets[1], buckets[2]
}

func jsonList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// syncInitiatives upserts every initiative and the party votes hanging
// off its events. Votes without their own id get a synthetic one from
// the initiative and event ids so reruns stay idempotent.
func (s *Service) syncInitiatives(ctx context.Context, iniciativas []parlamento.Iniciativa) (stepCounts, error) {
	var tally rowErrors
	synced := 0
	for _, ini := range iniciativas {
		if ini.IniId == "" {
			tally.addf("initiative with no id (%q)", ini.IniTitulo)
			continue
		}

		initiativeId, err := s.qry.UpsertInitiative(ctx, db.UpsertInitiativeParams{
			ExternalID:  ini.IniId.String(),
			Type:        ini.IniDescTipo,
			Number:      ini.IniNr,
			Title:       truncate(ini.IniTitulo, maxTitleLength),
			Status:      initiativeStatus(ini.IniEventos),
			SubmittedAt: nullStr(initiativeSubmittedAt(ini.IniEventos)),
		})
		if err != nil {
			if isAuthError(err) {
				return tally.counts(synced), err
			}
			tally.addf("initiative %s: %w", ini.IniId, err)
			continue
		}

		err = s.syncInitiativeVotes(ctx, initiativeId, ini)
		if err != nil {
			tally.addError(err)
			continue
		}
		synced++
	}
	return tally.counts(synced), nil
}

func (s *Service) syncInitiativeVotes(ctx context.Context, initiativeId int64, ini parlamento.Iniciativa) error {
	for _, evt := range ini.IniEventos {
		for i, v := range evt.Votacao {
			externalId := v.Id
			if externalId == "" {
				externalId = ini.IniId.String() + "-" + evt.EvtId.String() + "-" + strconv.Itoa(i)
			}

			favor, against, abstain := ParseVoteDetail(v.Detalhe)

			result := "rejected"
			if strings.Contains(strings.ToLower(v.Resultado), "aprovad") {
				result = "approved"
			}

			var session sql.NullInt64
			if n, err := strconv.ParseInt(strings.TrimSpace(v.Reuniao), 10, 64); err == nil {
				session = sql.NullInt64{Int64: n, Valid: true}
			}

			err := s.qry.UpsertPartyVote(ctx, db.UpsertPartyVoteParams{
				ExternalID:     externalId,
				InitiativeID:   sql.NullInt64{Int64: initiativeId, Valid: true},
				SessionNumber:  session,
				VotedAt:        nullStr(v.Data),
				Result:         result,
				IsUnanimous:    v.Unanime == "Sim",
				PartiesFavor:   jsonList(favor),
				PartiesAgainst: jsonList(against),
				PartiesAbstain: jsonList(abstain),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
