package analytics

import (
	"fmt"
	"targetrange/internal/db"
	"time"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetSessionStats(sessionID string) (*SessionStats, error) {
	rec, err := q.DB.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	stats := &SessionStats{
		SessionID:    rec.ID,
		Code:         rec.Code,
		PlayerName:   rec.PlayerName,
		TargetsTotal: rec.TargetsTotal,
		StartedAt:    rec.StartedAt,
		EndedAt:      rec.EndedAt,
	}
	err = q.DB.QueryRow(`SELECT COUNT(*) FROM shots WHERE session_id = $1`, sessionID).Scan(&stats.Shots)
	if err != nil {
		return nil, fmt.Errorf("counting shots: %w", err)
	}

	var (
		lastHit   *time.Time
		lastScore int
	)
	err = q.DB.QueryRow(`
		SELECT COUNT(*), MAX(hit_at), COALESCE(MAX(score_after), 0)
		FROM hits WHERE session_id = $1
	`, sessionID).Scan(&stats.Hits, &lastHit, &lastScore)
	if err != nil {
		return nil, fmt.Errorf("counting hits: %w", err)
	}
	// a running session has no final score yet
	stats.Score = lastScore
	if rec.FinalScore != nil {
		stats.Score = *rec.FinalScore
	}

	stats.Accuracy = Accuracy(stats.Shots, stats.Hits)
	if rec.EndedAt != nil {
		stats.Duration = rec.EndedAt.Sub(rec.StartedAt)
	}
	if stats.Cleared() && lastHit != nil {
		stats.ClearedIn = lastHit.Sub(rec.StartedAt)
	}
	stats.Badges = EvaluateBadges(*stats)
	return stats, nil
}

// GetLeaderboard ranks finished sessions by "score" or "accuracy".
func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "score":
		query = `
			SELECT s.id, s.player_name, s.final_score::float8
			FROM sessions s
			WHERE s.final_score IS NOT NULL
			ORDER BY s.final_score DESC, s.ended_at ASC
			LIMIT $1`
	case "accuracy":
		query = `
			SELECT s.id, s.player_name,
				LEAST(
					(SELECT COUNT(*) FROM hits h WHERE h.session_id = s.id),
					(SELECT COUNT(*) FROM shots sh WHERE sh.session_id = s.id)
				)::float8 * 100 /
				(SELECT COUNT(*) FROM shots sh WHERE sh.session_id = s.id) AS accuracy
			FROM sessions s
			WHERE s.final_score IS NOT NULL
				AND EXISTS (SELECT 1 FROM shots sh WHERE sh.session_id = s.id)
			ORDER BY accuracy DESC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown leaderboard category: %s", category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.SessionID, &e.PlayerName, &e.Value); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		rank++
		e.Rank = rank
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
