package db

import "context"

// recalcWorkScore folds the raw activity counters into a single score.
// Proposals weigh heaviest, then interventions; the party's recorded
// votes enter lightly so plenary presence counts without drowning out
// individual work.
const recalcWorkScore = `
UPDATE deputy_stats SET work_score =
    proposal_count * 3.0
    + intervention_count * 1.0
    + question_count * 1.5
    + party_total_votes * 0.2
`

const recalcGrades = `
UPDATE deputy_stats SET grade = CASE
    WHEN work_score >= 40 THEN 'A'
    WHEN work_score >= 25 THEN 'B'
    WHEN work_score >= 15 THEN 'C'
    WHEN work_score >= 8 THEN 'D'
    WHEN work_score > 0 THEN 'E'
    ELSE 'F'
END
`

const recalcNationalRanks = `
UPDATE deputy_stats SET national_rank = ranked.r
FROM (
    SELECT s.deputy_id, RANK() OVER (ORDER BY s.work_score DESC) AS r
    FROM deputy_stats s
    JOIN deputies d ON d.id = s.deputy_id
    WHERE d.is_active = 1
) AS ranked
WHERE deputy_stats.deputy_id = ranked.deputy_id
`

const recalcDistrictRanks = `
UPDATE deputy_stats SET district_rank = ranked.r
FROM (
    SELECT s.deputy_id,
        RANK() OVER (PARTITION BY d.district_id ORDER BY s.work_score DESC) AS r
    FROM deputy_stats s
    JOIN deputies d ON d.id = s.deputy_id
    WHERE d.is_active = 1 AND d.district_id IS NOT NULL
) AS ranked
WHERE deputy_stats.deputy_id = ranked.deputy_id
`

// RecalculateAllStats rebuilds every derived column of deputy_stats
// from the raw counters. Callers run it inside a transaction so a
// partial recalculation never becomes visible.
func (q *Queries) RecalculateAllStats(ctx context.Context) error {
	for _, stmt := range []string{
		recalcWorkScore,
		recalcGrades,
		recalcNationalRanks,
		recalcDistrictRanks,
	} {
		if _, err := q.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
