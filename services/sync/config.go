package sync

import (
	"time"

	"parlwatch-backend/lib/restyutil"
	"parlwatch-backend/lib/sqliteutil"
)

type ScraperConfig struct {
	UserAgent    string `json:"user_agent"`
	PolitenessMs int    `json:"politeness_ms"`
}

type Config struct {
	Database     sqliteutil.Config `json:"database"`
	SnapshotRoot string            `json:"snapshot_root"`
	Scraper      ScraperConfig     `json:"scraper"`
	// BiographyTtlDays is how long a scraped biography stays fresh
	// before it is fetched again.
	BiographyTtlDays int `json:"biography_ttl_days"`
	BiographyBatch   int `json:"biography_batch"`
}

func (c Config) WithDefaults() Config {
	if c.SnapshotRoot == "" {
		c.SnapshotRoot = "snapshots"
	}
	if c.Scraper.PolitenessMs == 0 {
		c.Scraper.PolitenessMs = 500
	}
	if c.BiographyTtlDays == 0 {
		c.BiographyTtlDays = 7
	}
	if c.BiographyBatch == 0 {
		c.BiographyBatch = 50
	}
	return c
}

func (c Config) Politeness() time.Duration {
	return time.Duration(c.Scraper.PolitenessMs) * time.Millisecond
}

func (c Config) BiographyTtl() time.Duration {
	return time.Duration(c.BiographyTtlDays) * 24 * time.Hour
}

func (c Config) Retry() restyutil.RetryOptions {
	return restyutil.DefaultRetry
}
