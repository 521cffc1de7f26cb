// Package sync turns Parliament open-data snapshots and scraped pages
// into the normalized relational schema, then recomputes per-deputy
// statistics. It is driven by the parlwatch command, not a server.
package sync

import (
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"

	scrapers "parlwatch-backend/lib/scrapers/parlamento"
	"parlwatch-backend/services/sync/db"
)

var tracer = otel.Tracer("services/sync")

type Service struct {
	db      *sql.DB
	qry     *db.Queries
	cfg     Config
	scraper *scrapers.Client

	// now is swapped out by tests that exercise TTL logic.
	now func() time.Time

	ids idMap

	// interventions holds the per-party tallies cached by the
	// activities step for the stats phase.
	interventions map[string]int64
}

func NewService(database *sql.DB, cfg Config) *Service {
	cfg = cfg.WithDefaults()
	return &Service{
		db:  database,
		qry: db.New(database),
		cfg: cfg,
		scraper: scrapers.NewClient(scrapers.ClientOptions{
			UserAgent:  cfg.Scraper.UserAgent,
			Politeness: cfg.Politeness(),
			Retry:      cfg.Retry(),
		}),
		now: time.Now,
		ids: newIdMap(),
	}
}

// The feed uses three unrelated numeric id spaces. Distinct key types
// keep a cadastro id from ever being looked up where a deputy id is
// expected.
type (
	depId        int64
	cadastroId   int64
	districtCpId int64
)

// idMap translates feed identifiers into database row ids. It is
// filled by the party, district and deputy transforms and read by
// every later phase, so those transforms must run first.
type idMap struct {
	partyByAcronym   map[string]int64
	districtByCpId   map[districtCpId]int64
	deputyByDepId    map[depId]int64
	deputyByCadastro map[cadastroId]int64
}

func newIdMap() idMap {
	return idMap{
		partyByAcronym:   make(map[string]int64),
		districtByCpId:   make(map[districtCpId]int64),
		deputyByDepId:    make(map[depId]int64),
		deputyByCadastro: make(map[cadastroId]int64),
	}
}
