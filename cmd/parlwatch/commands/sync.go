package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parlwatch-backend/lib/util/serviceutil"
	"parlwatch-backend/services/sync"
)

var (
	syncForce *bool
	syncFull  *bool
)

func init() {
	syncForce = syncCmd.Flags().Bool("force", false, "Transform even when no dataset changed.")
	syncFull = syncCmd.Flags().Bool("full", false, "Rescrape every meeting and biography.")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [--force] [--full]",
	Short: "Fetches a fresh snapshot and transforms it in one go.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		service, cleanup := setup(ctx)

		result, err := service.Run(ctx, sync.Options{
			Force: *syncForce,
			Full:  *syncFull,
		})
		if err != nil {
			serviceutil.Fatal("sync failed", err)
		}
		fmt.Println(result.Summary())
		cleanup()
		os.Exit(result.ExitCode())
	},
}
