package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parlwatch-backend/lib/configutil"
	"parlwatch-backend/lib/telemetry"
	"parlwatch-backend/lib/util/serviceutil"
	"parlwatch-backend/services/sync"
	syncdb "parlwatch-backend/services/sync/db"
)

var (
	configPath *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "parlwatch",
	Short: "parlwatch ingests Parliament open data into a local database.",
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "Path to the config file.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup wires everything a subcommand needs: logging, telemetry, the
// database and the sync service. The returned cleanup flushes spans
// and closes the database.
func setup(ctx context.Context) (*sync.Service, func()) {
	telemetry.InitSlog(*verbose)

	cfg, err := configutil.ReadConfig[sync.Config](*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	database, err := cfg.Database.OpenDB(syncdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "parlwatch")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	cleanup := func() {
		t.Shutdown(context.Background())
		database.Close()
	}
	return sync.NewService(database, cfg), cleanup
}
