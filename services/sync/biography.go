package sync

import (
	"context"
	"log/slog"
	"time"

	"parlwatch-backend/services/sync/db"
)

// syncBiographies scrapes biography pages for deputies whose page id
// is known (pinned during the attendance step). Pages refetch only
// after the TTL expires, and at most BiographyBatch pages per run so a
// cold database does not hammer the site.
func (s *Service) syncBiographies(ctx context.Context, force bool) (stepCounts, error) {
	deputies, err := s.qry.GetDeputiesWithBiographyId(ctx)
	if err != nil {
		return stepCounts{}, err
	}
	scrapedAt, err := s.qry.GetBiographyScrapedAt(ctx)
	if err != nil {
		return stepCounts{}, err
	}

	cutoff := s.now().Add(-s.cfg.BiographyTtl())

	var due []db.DeputyWithBiography
	for _, d := range deputies {
		if !force {
			if last, ok := scrapedAt[d.ID]; ok {
				t, err := time.Parse(time.RFC3339, last)
				if err == nil && t.After(cutoff) {
					continue
				}
			}
		}
		due = append(due, d)
	}
	if len(due) > s.cfg.BiographyBatch {
		due = due[:s.cfg.BiographyBatch]
	}
	slog.InfoContext(ctx, "biographies due", "total", len(deputies), "due", len(due))

	var tally rowErrors
	synced := 0
	for _, d := range due {
		bio, err := s.scraper.FetchBiography(ctx, d.BiographyID)
		if err != nil {
			tally.addf("biography %s: %w", d.Name, err)
			continue
		}

		params := db.UpsertBiographyParams{
			DeputyID:  d.ID,
			ScrapedAt: s.now().UTC().Format(time.RFC3339),
		}
		if bio != nil {
			params.BirthDate = nullStr(bio.BirthDate)
			params.Profession = nullStr(bio.Profession)
			params.Education = nullStr(bio.Education)
			params.BioNarrative = nullStr(bio.BioNarrative)
			params.SourceUrl = bio.SourceUrl
		}

		// an empty page still gets a row so the TTL stops us from
		// refetching it every run
		err = s.qry.UpsertBiography(ctx, params)
		if err != nil {
			tally.addf("biography %s: %w", d.Name, err)
			continue
		}
		synced++
	}
	return tally.counts(synced), nil
}
