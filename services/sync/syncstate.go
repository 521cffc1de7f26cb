package sync

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	stdsync "sync"
	"time"

	"parlwatch-backend/services/sync/db"
)

// datasetChange is the change-detection verdict for one dataset file.
type datasetChange struct {
	Dataset string
	Changed bool
	Hash    string
	Size    int64
	Err     error
}

func hashFile(path string) (hash string, size int64, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), int64(len(raw)), nil
}

// checkDataset compares a snapshot file against the stored hash. A
// dataset never seen before counts as changed so the first sync always
// transforms everything.
func (s *Service) checkDataset(ctx context.Context, snapshotDir, dataset string) datasetChange {
	hash, size, err := hashFile(filepath.Join(snapshotDir, dataset+".json"))
	if err != nil {
		return datasetChange{Dataset: dataset, Err: err}
	}

	prev, err := s.qry.GetSyncState(ctx, dataset)
	if errors.Is(err, sql.ErrNoRows) {
		return datasetChange{Dataset: dataset, Changed: true, Hash: hash, Size: size}
	}
	if err != nil {
		return datasetChange{Dataset: dataset, Err: err}
	}
	return datasetChange{
		Dataset: dataset,
		Changed: prev.Hash != hash,
		Hash:    hash,
		Size:    size,
	}
}

// checkDatasets runs change detection over every dataset concurrently.
// One unreadable file fails only its own dataset; the others still get
// a verdict.
func (s *Service) checkDatasets(ctx context.Context, snapshotDir string, datasets []string) map[string]datasetChange {
	results := make([]datasetChange, len(datasets))
	var wg stdsync.WaitGroup
	for i, dataset := range datasets {
		wg.Add(1)
		go func(i int, dataset string) {
			defer wg.Done()
			results[i] = s.checkDataset(ctx, snapshotDir, dataset)
		}(i, dataset)
	}
	wg.Wait()

	out := make(map[string]datasetChange, len(datasets))
	for _, r := range results {
		if r.Err != nil {
			slog.WarnContext(ctx, "change detection failed", "dataset", r.Dataset, "err", r.Err)
		} else {
			slog.InfoContext(ctx, "change detection", "dataset", r.Dataset, "changed", r.Changed)
		}
		out[r.Dataset] = r
	}
	return out
}

// recordSyncState persists the verdict after the transforms ran,
// changed or not. last_synced_at always moves; last_changed_at only
// when the content changed.
func (s *Service) recordSyncState(ctx context.Context, change datasetChange) error {
	if change.Err != nil {
		return fmt.Errorf("sync state for %s: %w", change.Dataset, change.Err)
	}
	return s.qry.UpsertSyncState(ctx, db.UpsertSyncStateParams{
		Dataset:    change.Dataset,
		Hash:       change.Hash,
		FileSize:   sql.NullInt64{Int64: change.Size, Valid: true},
		Now:        s.now().UTC().Format(time.RFC3339),
		HasChanged: change.Changed,
	})
}
