package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// InstrumentPerfStats periodically logs process resource usage until
// ctx is cancelled. Useful for long sync runs on small CI runners.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				attrs := []any{
					"allocated_mb", memStats.Alloc / 1_000_000,
					"live_objects", int64(memStats.Mallocs) - int64(memStats.Frees),
					"goroutines", runtime.NumGoroutine(),
				}
				cpuUsage, err := cpu.Percent(0, false)
				if err == nil && len(cpuUsage) > 0 {
					attrs = append(attrs, "cpu_pct", cpuUsage[0])
				}
				slog.DebugContext(ctx, "perf stats", attrs...)
			case <-ctx.Done():
				return
			}
		}
	}()
}
