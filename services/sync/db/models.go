package db

import "database/sql"

type Party struct {
	ID         int64
	ExternalID string
	Acronym    string
	Name       string
	Color      string
}

type District struct {
	ID         int64
	ExternalID string
	Name       string
}

type Deputy struct {
	ID           int64
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
	BiographyID  sql.NullInt64
}

type DeputyStats struct {
	DeputyID          int64
	ProposalCount     int64
	InterventionCount int64
	QuestionCount     int64
	PartyVotesFavor   int64
	PartyVotesAgainst int64
	PartyVotesAbstain int64
	PartyTotalVotes   int64
	WorkScore         float64
	Grade             string
	NationalRank      int64
	DistrictRank      int64
}

type Initiative struct {
	ID          int64
	ExternalID  string
	Type        string
	Number      string
	Title       string
	Status      string
	SubmittedAt sql.NullString
}

type PartyVote struct {
	ID             int64
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

type PlenaryMeeting struct {
	ID          int64
	ExternalID  int64
	MeetingDate string
	Legislature int64
}

type SyncState struct {
	Dataset       string
	Hash          string
	FileSize      sql.NullInt64
	LastSyncedAt  string
	LastChangedAt string
}
