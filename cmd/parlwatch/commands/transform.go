package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parlwatch-backend/lib/util/serviceutil"
	"parlwatch-backend/services/sync"
)

var (
	transformForce    *bool
	transformFull     *bool
	transformSnapshot *string
)

func init() {
	transformForce = transformCmd.Flags().Bool("force", false, "Transform even when no dataset changed.")
	transformFull = transformCmd.Flags().Bool("full", false, "Rescrape every meeting and biography.")
	transformSnapshot = transformCmd.Flags().String("snapshot", "", "Snapshot directory to transform, defaults to the latest.")
	rootCmd.AddCommand(transformCmd)
}

var transformCmd = &cobra.Command{
	Use:   "transform [--force] [--full] [--snapshot <dir>]",
	Short: "Transforms a snapshot into the database and recomputes stats.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		service, cleanup := setup(ctx)

		snapshotDir := *transformSnapshot
		if snapshotDir == "" {
			var err error
			snapshotDir, err = service.LatestSnapshotDir()
			if err != nil {
				serviceutil.Fatal("no snapshot to transform", err)
			}
		}

		result := service.Transform(ctx, snapshotDir, sync.Options{
			Force: *transformForce,
			Full:  *transformFull,
		})
		fmt.Println(result.Summary())
		cleanup()
		os.Exit(result.ExitCode())
	},
}
