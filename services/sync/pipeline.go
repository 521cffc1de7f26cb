package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	stdsync "sync"

	"parlwatch-backend/lib/apis/parlamento"
	"parlwatch-backend/lib/restyutil"
)

type Options struct {
	// Force records every dataset as changed regardless of the stored
	// hashes.
	Force bool
	// Full rescrapes every plenary meeting and every biography instead
	// of only what is new or stale.
	Full bool
}

// Fetch downloads a fresh snapshot of every open-data dataset and
// returns its directory. A failed download aborts the whole snapshot.
func (s *Service) Fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	client := restyutil.NewClient(s.cfg.Scraper.UserAgent, s.cfg.Retry())
	timestamp := parlamento.SnapshotTimestamp(s.now())
	err := parlamento.FetchDatasets(ctx, client, s.cfg.SnapshotRoot, timestamp, s.cfg.Politeness())
	if err != nil {
		return "", err
	}
	return filepath.Join(s.cfg.SnapshotRoot, timestamp), nil
}

// LatestSnapshotDir finds the most recent snapshot under the snapshot
// root. Timestamped names sort lexicographically.
func (s *Service) LatestSnapshotDir() (string, error) {
	entries, err := os.ReadDir(s.cfg.SnapshotRoot)
	if err != nil {
		return "", err
	}
	latest := ""
	for _, e := range entries {
		if e.IsDir() && e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no snapshots under %s, run fetch first", s.cfg.SnapshotRoot)
	}
	return filepath.Join(s.cfg.SnapshotRoot, latest), nil
}

// Run is fetch followed by transform.
func (s *Service) Run(ctx context.Context, opts Options) (*RunResult, error) {
	snapshotDir, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.Transform(ctx, snapshotDir, opts), nil
}

var feedDatasets = []string{"informacao_base", "agenda", "atividades", "iniciativas"}

// Transform runs the whole pipeline against one snapshot:
//
//	phase 1  parties and districts, in parallel, both required
//	phase 2  deputies, their stats rows and history, required
//	phase 3  initiatives, activities and the two scrapers, in
//	         parallel, each allowed to fail on its own
//	phase 4  derived statistics and the final recalculation
//
// Change detection is advisory: the verdicts are logged and written to
// sync_state so operators can see when a dataset last moved, but the
// transforms run either way. Upserts are idempotent, so re-transforming
// unchanged data is safe. An unchanged run still refreshes
// last_synced_at; last_changed_at only moves with the content.
func (s *Service) Transform(ctx context.Context, snapshotDir string, opts Options) *RunResult {
	ctx, span := tracer.Start(ctx, "Transform")
	defer span.End()

	result := &RunResult{}

	changes := s.checkDatasets(ctx, snapshotDir, feedDatasets)
	if opts.Force {
		for dataset, c := range changes {
			if c.Err == nil {
				c.Changed = true
				changes[dataset] = c
			}
		}
	}

	ok := s.transformFeeds(ctx, snapshotDir, opts, result)
	if !ok {
		return result
	}
	for _, dataset := range feedDatasets {
		err := s.recordSyncState(ctx, changes[dataset])
		if err != nil {
			slog.WarnContext(ctx, "failed to record sync state", "err", err)
		}
	}
	return result
}

// transformFeeds runs phases 1 through 4. Returns false when a
// required step failed and the rest of the run was abandoned.
func (s *Service) transformFeeds(ctx context.Context, snapshotDir string, opts Options, result *RunResult) bool {
	base, err := parlamento.LoadBaseInfo(snapshotDir)
	if err != nil {
		result.add(StepResult{Name: "load base info", Status: StepError, Critical: true, Err: err})
		return false
	}

	// phase 1
	var wg stdsync.WaitGroup
	var partiesErr, districtsErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		partiesErr = result.runStep(ctx, "parties", true, func(ctx context.Context) (stepCounts, error) {
			return s.syncParties(ctx, base)
		})
	}()
	go func() {
		defer wg.Done()
		districtsErr = result.runStep(ctx, "districts", true, func(ctx context.Context) (stepCounts, error) {
			return s.syncDistricts(ctx, base)
		})
	}()
	wg.Wait()
	if partiesErr != nil || districtsErr != nil {
		return false
	}

	// phase 2
	err = result.runStep(ctx, "deputies", true, func(ctx context.Context) (stepCounts, error) {
		return s.syncDeputies(ctx, base)
	})
	if err != nil {
		return false
	}
	err = result.runStep(ctx, "deputy extended info", true, func(ctx context.Context) (stepCounts, error) {
		return s.syncDeputyExtendedInfo(ctx, base)
	})
	if err != nil {
		return false
	}

	// phase 3
	var iniciativas []parlamento.Iniciativa
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.runStep(ctx, "initiatives", false, func(ctx context.Context) (stepCounts, error) {
			loaded, err := parlamento.LoadIniciativas(snapshotDir)
			if err != nil {
				return stepCounts{}, err
			}
			iniciativas = loaded
			return s.syncInitiatives(ctx, loaded)
		})
	}()
	go func() {
		defer wg.Done()
		result.runStep(ctx, "activities", false, func(ctx context.Context) (stepCounts, error) {
			atividades, err := parlamento.LoadAtividades(snapshotDir)
			if err != nil {
				return stepCounts{}, err
			}
			return s.syncActivities(ctx, atividades)
		})
	}()
	s.runScrapers(ctx, opts, result, &wg)
	wg.Wait()

	// phase 4
	result.runStep(ctx, "proposal stats", false, func(ctx context.Context) (stepCounts, error) {
		return s.updateProposalStats(ctx, iniciativas)
	})
	result.runStep(ctx, "intervention stats", false, func(ctx context.Context) (stepCounts, error) {
		return s.updateInterventionStats(ctx)
	})
	result.runStep(ctx, "party vote stats", false, func(ctx context.Context) (stepCounts, error) {
		return s.updatePartyVoteStats(ctx)
	})
	err = result.runStep(ctx, "recalculate stats", true, func(ctx context.Context) (stepCounts, error) {
		return s.recalculateStats(ctx)
	})
	return err == nil
}

// runScrapers joins phase 3's fan-out with the attendance scrape and,
// once the biography ids it pins are in place, the biography scrape.
func (s *Service) runScrapers(ctx context.Context, opts Options, result *RunResult, wg *stdsync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		result.runStep(ctx, "attendance", false, func(ctx context.Context) (stepCounts, error) {
			return s.syncAttendance(ctx, opts.Full)
		})
		result.runStep(ctx, "biographies", false, func(ctx context.Context) (stepCounts, error) {
			return s.syncBiographies(ctx, opts.Full)
		})
	}()
}
