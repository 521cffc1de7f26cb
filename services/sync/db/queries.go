package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertParty = `
INSERT INTO parties (external_id, acronym, name, color)
VALUES (?, ?, ?, ?)
ON CONFLICT (external_id) DO UPDATE SET
    acronym = excluded.acronym,
    name = excluded.name,
    color = excluded.color
RETURNING id
`

type UpsertPartyParams struct {
	ExternalID string
	Acronym    string
	Name       string
	Color      string
}

func (q *Queries) UpsertParty(ctx context.Context, arg UpsertPartyParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertParty, arg.ExternalID, arg.Acronym, arg.Name, arg.Color)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertDistrict = `
INSERT INTO districts (external_id, name)
VALUES (?, ?)
ON CONFLICT (external_id) DO UPDATE SET name = excluded.name
RETURNING id
`

type UpsertDistrictParams struct {
	ExternalID string
	Name       string
}

func (q *Queries) UpsertDistrict(ctx context.Context, arg UpsertDistrictParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertDistrict, arg.ExternalID, arg.Name)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertDeputy = `
INSERT INTO deputies (
    external_id, name, short_name, photo_url, party_id, district_id,
    is_active, mandate_start, mandate_end, legislature
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (external_id) DO UPDATE SET
    name = excluded.name,
    short_name = excluded.short_name,
    photo_url = excluded.photo_url,
    party_id = excluded.party_id,
    district_id = excluded.district_id,
    is_active = excluded.is_active,
    mandate_start = excluded.mandate_start,
    mandate_end = excluded.mandate_end,
    legislature = excluded.legislature
RETURNING id
`

type UpsertDeputyParams struct {
	ExternalID   string
	Name         string
	ShortName    string
	PhotoUrl     string
	PartyID      sql.NullInt64
	DistrictID   sql.NullInt64
	IsActive     bool
	MandateStart sql.NullString
	MandateEnd   sql.NullString
	Legislature  int64
}

func (q *Queries) UpsertDeputy(ctx context.Context, arg UpsertDeputyParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertDeputy,
		arg.ExternalID, arg.Name, arg.ShortName, arg.PhotoUrl, arg.PartyID,
		arg.DistrictID, arg.IsActive, arg.MandateStart, arg.MandateEnd, arg.Legislature,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const setDeputyBiographyId = `
UPDATE deputies SET biography_id = ? WHERE id = ?
`

func (q *Queries) SetDeputyBiographyId(ctx context.Context, deputyID, biographyID int64) error {
	_, err := q.db.ExecContext(ctx, setDeputyBiographyId, biographyID, deputyID)
	return err
}

const getActiveDeputies = `
SELECT id, name, short_name, biography_id FROM deputies WHERE is_active = 1
`

type ActiveDeputy struct {
	ID          int64
	Name        string
	ShortName   string
	BiographyID sql.NullInt64
}

func (q *Queries) GetActiveDeputies(ctx context.Context) ([]ActiveDeputy, error) {
	rows, err := q.db.QueryContext(ctx, getActiveDeputies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveDeputy
	for rows.Next() {
		var d ActiveDeputy
		err = rows.Scan(&d.ID, &d.Name, &d.ShortName, &d.BiographyID)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const getDeputyIdsByParty = `
SELECT id FROM deputies WHERE party_id = ? AND (? = 0 OR is_active = 1) ORDER BY id
`

func (q *Queries) GetDeputyIdsByParty(ctx context.Context, partyID int64, activeOnly bool) ([]int64, error) {
	activeFlag := 0
	if activeOnly {
		activeFlag = 1
	}
	rows, err := q.db.QueryContext(ctx, getDeputyIdsByParty, partyID, activeFlag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		err = rows.Scan(&id)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

const ensureDeputyStats = `
INSERT OR IGNORE INTO deputy_stats (deputy_id) VALUES (?)
`

func (q *Queries) EnsureDeputyStats(ctx context.Context, deputyID int64) error {
	_, err := q.db.ExecContext(ctx, ensureDeputyStats, deputyID)
	return err
}

const getDeputyStats = `
SELECT deputy_id, proposal_count, intervention_count, question_count,
    party_votes_favor, party_votes_against, party_votes_abstain,
    party_total_votes, work_score, grade, national_rank, district_rank
FROM deputy_stats WHERE deputy_id = ?
`

func (q *Queries) GetDeputyStats(ctx context.Context, deputyID int64) (DeputyStats, error) {
	row := q.db.QueryRowContext(ctx, getDeputyStats, deputyID)
	var s DeputyStats
	err := row.Scan(
		&s.DeputyID, &s.ProposalCount, &s.InterventionCount, &s.QuestionCount,
		&s.PartyVotesFavor, &s.PartyVotesAgainst, &s.PartyVotesAbstain,
		&s.PartyTotalVotes, &s.WorkScore, &s.Grade, &s.NationalRank, &s.DistrictRank,
	)
	return s, err
}

func (q *Queries) DeleteDeputyRoles(ctx context.Context, deputyID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM deputy_roles WHERE deputy_id = ?`, deputyID)
	return err
}

type InsertDeputyRoleParams struct {
	DeputyID  int64
	RoleID    int64
	RoleName  string
	StartDate sql.NullString
	EndDate   sql.NullString
}

func (q *Queries) InsertDeputyRole(ctx context.Context, arg InsertDeputyRoleParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO deputy_roles (deputy_id, role_id, role_name, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		arg.DeputyID, arg.RoleID, arg.RoleName, arg.StartDate, arg.EndDate,
	)
	return err
}

func (q *Queries) DeleteDeputyPartyHistory(ctx context.Context, deputyID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM deputy_party_history WHERE deputy_id = ?`, deputyID)
	return err
}

type InsertDeputyPartyHistoryParams struct {
	DeputyID     int64
	PartyID      sql.NullInt64
	PartyAcronym string
	StartDate    sql.NullString
	EndDate      sql.NullString
}

func (q *Queries) InsertDeputyPartyHistory(ctx context.Context, arg InsertDeputyPartyHistoryParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO deputy_party_history (deputy_id, party_id, party_acronym, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		arg.DeputyID, arg.PartyID, arg.PartyAcronym, arg.StartDate, arg.EndDate,
	)
	return err
}

func (q *Queries) DeleteDeputyStatusHistory(ctx context.Context, deputyID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM deputy_status_history WHERE deputy_id = ?`, deputyID)
	return err
}

type InsertDeputyStatusHistoryParams struct {
	DeputyID  int64
	Status    string
	StartDate sql.NullString
	EndDate   sql.NullString
}

func (q *Queries) InsertDeputyStatusHistory(ctx context.Context, arg InsertDeputyStatusHistoryParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO deputy_status_history (deputy_id, status, start_date, end_date) VALUES (?, ?, ?, ?)`,
		arg.DeputyID, arg.Status, arg.StartDate, arg.EndDate,
	)
	return err
}

const upsertInitiative = `
INSERT INTO initiatives (external_id, type, number, title, status, submitted_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (external_id) DO UPDATE SET
    type = excluded.type,
    number = excluded.number,
    title = excluded.title,
    status = excluded.status,
    submitted_at = excluded.submitted_at
RETURNING id
`

type UpsertInitiativeParams struct {
	ExternalID  string
	Type        string
	Number      string
	Title       string
	Status      string
	SubmittedAt sql.NullString
}

func (q *Queries) UpsertInitiative(ctx context.Context, arg UpsertInitiativeParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertInitiative,
		arg.ExternalID, arg.Type, arg.Number, arg.Title, arg.Status, arg.SubmittedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertPartyVote = `
INSERT INTO party_votes (
    external_id, initiative_id, session_number, voted_at, result,
    is_unanimous, parties_favor, parties_against, parties_abstain
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (external_id) DO UPDATE SET
    initiative_id = excluded.initiative_id,
    session_number = excluded.session_number,
    voted_at = excluded.voted_at,
    result = excluded.result,
    is_unanimous = excluded.is_unanimous,
    parties_favor = excluded.parties_favor,
    parties_against = excluded.parties_against,
    parties_abstain = excluded.parties_abstain
`

type UpsertPartyVoteParams struct {
	ExternalID     string
	InitiativeID   sql.NullInt64
	SessionNumber  sql.NullInt64
	VotedAt        sql.NullString
	Result         string
	IsUnanimous    bool
	PartiesFavor   string
	PartiesAgainst string
	PartiesAbstain string
}

func (q *Queries) UpsertPartyVote(ctx context.Context, arg UpsertPartyVoteParams) error {
	_, err := q.db.ExecContext(ctx, upsertPartyVote,
		arg.ExternalID, arg.InitiativeID, arg.SessionNumber, arg.VotedAt, arg.Result,
		arg.IsUnanimous, arg.PartiesFavor, arg.PartiesAgainst, arg.PartiesAbstain,
	)
	return err
}

const getPartyVoteTallies = `
SELECT parties_favor, parties_against, parties_abstain FROM party_votes
`

type PartyVoteTally struct {
	PartiesFavor   string
	PartiesAgainst string
	PartiesAbstain string
}

func (q *Queries) GetPartyVoteTallies(ctx context.Context) ([]PartyVoteTally, error) {
	rows, err := q.db.QueryContext(ctx, getPartyVoteTallies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PartyVoteTally
	for rows.Next() {
		var t PartyVoteTally
		err = rows.Scan(&t.PartiesFavor, &t.PartiesAgainst, &t.PartiesAbstain)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const upsertMeeting = `
INSERT INTO plenary_meetings (external_id, meeting_date, legislature)
VALUES (?, ?, ?)
ON CONFLICT (external_id) DO UPDATE SET
    meeting_date = excluded.meeting_date,
    legislature = excluded.legislature
RETURNING id
`

type UpsertMeetingParams struct {
	ExternalID  int64
	MeetingDate string
	Legislature int64
}

func (q *Queries) UpsertMeeting(ctx context.Context, arg UpsertMeetingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertMeeting, arg.ExternalID, arg.MeetingDate, arg.Legislature)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getLatestMeetingDate = `
SELECT COALESCE(MAX(meeting_date), '') FROM plenary_meetings
`

func (q *Queries) GetLatestMeetingDate(ctx context.Context) (string, error) {
	row := q.db.QueryRowContext(ctx, getLatestMeetingDate)
	var date string
	err := row.Scan(&date)
	return date, err
}

const upsertAttendance = `
INSERT INTO plenary_attendance (deputy_id, meeting_id, status, status_raw, reason)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (deputy_id, meeting_id) DO UPDATE SET
    status = excluded.status,
    status_raw = excluded.status_raw,
    reason = excluded.reason
`

type UpsertAttendanceParams struct {
	DeputyID  int64
	MeetingID int64
	Status    string
	StatusRaw string
	Reason    string
}

func (q *Queries) UpsertAttendance(ctx context.Context, arg UpsertAttendanceParams) error {
	_, err := q.db.ExecContext(ctx, upsertAttendance,
		arg.DeputyID, arg.MeetingID, arg.Status, arg.StatusRaw, arg.Reason,
	)
	return err
}

const getDeputiesWithBiographyId = `
SELECT id, name, biography_id FROM deputies
WHERE biography_id IS NOT NULL AND is_active = 1
`

type DeputyWithBiography struct {
	ID          int64
	Name        string
	BiographyID int64
}

func (q *Queries) GetDeputiesWithBiographyId(ctx context.Context) ([]DeputyWithBiography, error) {
	rows, err := q.db.QueryContext(ctx, getDeputiesWithBiographyId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeputyWithBiography
	for rows.Next() {
		var d DeputyWithBiography
		err = rows.Scan(&d.ID, &d.Name, &d.BiographyID)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const getBiographyScrapedAt = `
SELECT deputy_id, scraped_at FROM deputy_biographies
`

func (q *Queries) GetBiographyScrapedAt(ctx context.Context) (map[int64]string, error) {
	rows, err := q.db.QueryContext(ctx, getBiographyScrapedAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var deputyID int64
		var scrapedAt string
		err = rows.Scan(&deputyID, &scrapedAt)
		if err != nil {
			return nil, err
		}
		out[deputyID] = scrapedAt
	}
	return out, rows.Err()
}

const upsertBiography = `
INSERT INTO deputy_biographies (
    deputy_id, birth_date, profession, education, bio_narrative, source_url, scraped_at
)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (deputy_id) DO UPDATE SET
    birth_date = excluded.birth_date,
    profession = excluded.profession,
    education = excluded.education,
    bio_narrative = excluded.bio_narrative,
    source_url = excluded.source_url,
    scraped_at = excluded.scraped_at
`

type UpsertBiographyParams struct {
	DeputyID     int64
	BirthDate    sql.NullString
	Profession   sql.NullString
	Education    sql.NullString
	BioNarrative sql.NullString
	SourceUrl    string
	ScrapedAt    string
}

func (q *Queries) UpsertBiography(ctx context.Context, arg UpsertBiographyParams) error {
	_, err := q.db.ExecContext(ctx, upsertBiography,
		arg.DeputyID, arg.BirthDate, arg.Profession, arg.Education,
		arg.BioNarrative, arg.SourceUrl, arg.ScrapedAt,
	)
	return err
}

func (q *Queries) UpdateProposalCount(ctx context.Context, deputyID, count int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE deputy_stats SET proposal_count = ? WHERE deputy_id = ?`, count, deputyID)
	return err
}

func (q *Queries) UpdateInterventionCount(ctx context.Context, deputyID, count int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE deputy_stats SET intervention_count = ? WHERE deputy_id = ?`, count, deputyID)
	return err
}

type UpdatePartyVoteStatsParams struct {
	DeputyID int64
	Favor    int64
	Against  int64
	Abstain  int64
	Total    int64
}

func (q *Queries) UpdatePartyVoteStats(ctx context.Context, arg UpdatePartyVoteStatsParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE deputy_stats SET
		    party_votes_favor = ?,
		    party_votes_against = ?,
		    party_votes_abstain = ?,
		    party_total_votes = ?
		WHERE deputy_id = ?`,
		arg.Favor, arg.Against, arg.Abstain, arg.Total, arg.DeputyID,
	)
	return err
}

const getSyncState = `
SELECT dataset, hash, file_size, last_synced_at, last_changed_at
FROM sync_state WHERE dataset = ?
`

func (q *Queries) GetSyncState(ctx context.Context, dataset string) (SyncState, error) {
	row := q.db.QueryRowContext(ctx, getSyncState, dataset)
	var s SyncState
	err := row.Scan(&s.Dataset, &s.Hash, &s.FileSize, &s.LastSyncedAt, &s.LastChangedAt)
	return s, err
}

const upsertSyncState = `
INSERT INTO sync_state (dataset, hash, file_size, last_synced_at, last_changed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (dataset) DO UPDATE SET
    hash = excluded.hash,
    file_size = excluded.file_size,
    last_synced_at = excluded.last_synced_at,
    last_changed_at = CASE WHEN ? THEN excluded.last_changed_at ELSE sync_state.last_changed_at END
`

type UpsertSyncStateParams struct {
	Dataset    string
	Hash       string
	FileSize   sql.NullInt64
	Now        string
	HasChanged bool
}

func (q *Queries) UpsertSyncState(ctx context.Context, arg UpsertSyncStateParams) error {
	_, err := q.db.ExecContext(ctx, upsertSyncState,
		arg.Dataset, arg.Hash, arg.FileSize, arg.Now, arg.Now, arg.HasChanged,
	)
	return err
}
