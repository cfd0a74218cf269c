// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/danielhkuo/pollbooth/models"
)

// statsQuery joins options left-inclusively onto votes so zero-vote options
// still appear, grouped per (poll, option). Poll order is id ascending;
// option order within a poll is creation order.
const statsQuery = `
	SELECT
		p.id,
		p.title,
		p.created_at,
		p.end_time,
		p.is_active,
		po.option_text,
		COUNT(v.id) AS votes_count
	FROM polls p
	JOIN poll_options po ON po.poll_id = p.id
	LEFT JOIN votes v ON v.option_id = po.id
	WHERE %s
	GROUP BY p.id, po.id
	ORDER BY p.id, po.id
`

// Aggregate computes per-option counts and percentages for the given polls.
// Polls with no votes report every option at 0.0, never a division fault.
func (s *Service) Aggregate(ctx context.Context, pollIDs []int64) ([]models.PollStats, error) {
	if len(pollIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(statsQuery, `p.id = ANY($1)`), pq.Array(pollIDs))
	if err != nil {
		return nil, storeErr("aggregate", err)
	}
	defer rows.Close()
	return collectStats(rows)
}

// AggregateVisible computes statistics for every poll the viewer may see:
// all public polls plus private polls the viewer created or participates in.
// Ended polls are included; statistics outlive voting.
func (s *Service) AggregateVisible(ctx context.Context, viewerID int64) ([]models.PollStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cond := `(p.is_private = FALSE
		OR p.creator_id = $1
		OR p.id IN (SELECT poll_id FROM poll_participants WHERE user_id = $1))`
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(statsQuery, cond), viewerID)
	if err != nil {
		return nil, storeErr("aggregate visible", err)
	}
	defer rows.Close()
	return collectStats(rows)
}

func collectStats(rows *sql.Rows) ([]models.PollStats, error) {
	var stats []models.PollStats
	for rows.Next() {
		var (
			ps    models.PollStats
			opt   models.OptionStats
			count int
		)
		err := rows.Scan(&ps.PollID, &ps.Title, &ps.CreatedAt, &ps.EndTime, &ps.IsActive, &opt.Text, &count)
		if err != nil {
			return nil, storeErr("scan stats", err)
		}
		opt.Votes = count

		if n := len(stats); n > 0 && stats[n-1].PollID == ps.PollID {
			stats[n-1].Options = append(stats[n-1].Options, opt)
			stats[n-1].TotalVotes += count
		} else {
			ps.Options = []models.OptionStats{opt}
			ps.TotalVotes = count
			stats = append(stats, ps)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("scan stats", err)
	}

	// Percentages in a second pass, once per-poll totals are known.
	for i := range stats {
		total := stats[i].TotalVotes
		for j := range stats[i].Options {
			if total > 0 {
				stats[i].Options[j].Percent = float64(stats[i].Options[j].Votes) / float64(total) * 100
			}
		}
	}
	return stats, nil
}
