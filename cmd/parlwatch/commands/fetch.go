package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"parlwatch-backend/lib/util/serviceutil"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Downloads a timestamped snapshot of every open-data dataset.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		service, cleanup := setup(ctx)
		defer cleanup()

		dir, err := service.Fetch(ctx)
		if err != nil {
			serviceutil.Fatal("fetch failed", err)
		}
		slog.Info("snapshot written", "dir", dir)
	},
}
