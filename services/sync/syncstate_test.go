package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644)
		require.NoError(t, err)
	}
}

func TestChangeDetection(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	dir := t.TempDir()
	writeSnapshot(t, dir, map[string]string{
		"informacao_base": `{"Deputados":[]}`,
		"iniciativas":     `[]`,
	})
	datasets := []string{"informacao_base", "iniciativas", "atividades"}

	// never-seen datasets count as changed, unreadable ones as errors
	changes := s.checkDatasets(ctx, dir, datasets)
	require.True(t, changes["informacao_base"].Changed)
	require.True(t, changes["iniciativas"].Changed)
	require.Error(t, changes["atividades"].Err)

	require.NoError(t, s.recordSyncState(ctx, changes["informacao_base"]))
	require.NoError(t, s.recordSyncState(ctx, changes["iniciativas"]))
	require.Error(t, s.recordSyncState(ctx, changes["atividades"]))

	firstState, err := s.qry.GetSyncState(ctx, "informacao_base")
	require.NoError(t, err)

	// same bytes again: the run still counts as a sync, so
	// last_synced_at moves while last_changed_at stays put
	s.now = func() time.Time { return time.Now().Add(time.Minute * 30) }
	changes = s.checkDatasets(ctx, dir, datasets[:2])
	require.False(t, changes["informacao_base"].Changed)
	require.NoError(t, s.recordSyncState(ctx, changes["informacao_base"]))

	state, err := s.qry.GetSyncState(ctx, "informacao_base")
	require.NoError(t, err)
	require.NotEqual(t, firstState.LastSyncedAt, state.LastSyncedAt)
	require.Equal(t, firstState.LastChangedAt, state.LastChangedAt)
	require.Equal(t, firstState.Hash, state.Hash)

	// new bytes: changed, last_changed_at moves
	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	writeSnapshot(t, dir, map[string]string{
		"informacao_base": `{"Deputados":[{"DepId":1}]}`,
	})
	changes = s.checkDatasets(ctx, dir, datasets[:1])
	require.True(t, changes["informacao_base"].Changed)
	require.NoError(t, s.recordSyncState(ctx, changes["informacao_base"]))

	state, err = s.qry.GetSyncState(ctx, "informacao_base")
	require.NoError(t, err)
	require.NotEqual(t, firstState.Hash, state.Hash)
	require.NotEqual(t, firstState.LastChangedAt, state.LastChangedAt)
}
