package sync

import (
	"context"
	"database/sql"
	"log/slog"

	scrapers "parlwatch-backend/lib/scrapers/parlamento"
	"parlwatch-backend/services/sync/db"
)

// syncAttendance scrapes plenary sittings and records who showed up.
// Unless full is set, only meetings newer than the latest stored one
// are fetched. Scraped names are fuzzy-matched against the roster and
// the first match also pins the deputy's biography page id, which no
// open-data feed carries.
func (s *Service) syncAttendance(ctx context.Context, full bool) (stepCounts, error) {
	sinceDate := ""
	if !full {
		latest, err := s.qry.GetLatestMeetingDate(ctx)
		if err != nil {
			return stepCounts{}, err
		}
		sinceDate = latest
	}

	meetings, records, err := s.scraper.FetchAllAttendance(ctx, sinceDate)
	if err != nil {
		return stepCounts{}, err
	}

	meetingIds := make(map[int64]int64, len(meetings))
	var tally rowErrors
	for _, m := range meetings {
		id, err := s.qry.UpsertMeeting(ctx, db.UpsertMeetingParams{
			ExternalID:  m.Bid,
			MeetingDate: m.Date,
			Legislature: fallbackLegislature,
		})
		if err != nil {
			tally.addf("meeting %d: %w", m.Bid, err)
			continue
		}
		meetingIds[m.Bid] = id
	}

	candidates, err := s.qry.GetActiveDeputies(ctx)
	if err != nil {
		return stepCounts{}, err
	}

	synced := 0
	unmatched := 0
	type attendanceKey struct {
		deputyId  int64
		meetingId int64
	}
	seen := make(map[attendanceKey]bool)

	for _, rec := range records {
		meetingId, ok := meetingIds[rec.MeetingBid]
		if !ok {
			continue
		}

		deputy, ok := s.matchAttendanceDeputy(ctx, rec, candidates)
		if !ok {
			unmatched++
			continue
		}

		// a deputy substituted mid-sitting appears twice; the first
		// row wins.
		key := attendanceKey{deputyId: deputy.ID, meetingId: meetingId}
		if seen[key] {
			continue
		}
		seen[key] = true

		err = s.qry.UpsertAttendance(ctx, db.UpsertAttendanceParams{
			DeputyID:  deputy.ID,
			MeetingID: meetingId,
			Status:    string(rec.Status),
			StatusRaw: rec.StatusRaw,
			Reason:    rec.Reason,
		})
		if err != nil {
			tally.addf("attendance %s @ %s: %w", rec.DeputyName, rec.MeetingDate, err)
			continue
		}
		synced++
	}

	if unmatched > 0 {
		slog.WarnContext(ctx, "attendance rows without a roster match", "count", unmatched)
	}
	return tally.counts(synced), nil
}

// matchAttendanceDeputy resolves a scraped row to a roster deputy and,
// on the first successful match, stores the biography page id the row
// carries. candidates is mutated in place so later rows see the id.
func (s *Service) matchAttendanceDeputy(ctx context.Context, rec scrapers.AttendanceRecord, candidates []db.ActiveDeputy) (db.ActiveDeputy, bool) {
	// the biography id, once known, beats any name heuristic
	for _, c := range candidates {
		if c.BiographyID.Valid && c.BiographyID.Int64 == rec.DeputyBid {
			return c, true
		}
	}

	deputy, ok := matchDeputy(rec.DeputyName, candidates)
	if !ok {
		return db.ActiveDeputy{}, false
	}

	if !deputy.BiographyID.Valid && rec.DeputyBid != 0 {
		err := s.qry.SetDeputyBiographyId(ctx, deputy.ID, rec.DeputyBid)
		if err != nil {
			slog.WarnContext(ctx, "failed to store biography id",
				"deputy", deputy.Name, "bid", rec.DeputyBid, "err", err)
		} else {
			for i := range candidates {
				if candidates[i].ID == deputy.ID {
					candidates[i].BiographyID = sql.NullInt64{Int64: rec.DeputyBid, Valid: true}
					deputy = candidates[i]
					break
				}
			}
		}
	}
	return deputy, true
}
