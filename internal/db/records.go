package db

import (
	"database/sql"
	"fmt"
	"time"
)

type ShotRecord struct {
	SessionID    string
	ProjectileID uint64
	Origin       [3]float64
	Direction    [3]float64
	FiredAt      time.Time
}

type HitRecord struct {
	SessionID  string
	TargetID   int
	ScoreAfter int
	HitAt      time.Time
}

// Record carries exactly one of Shot or Hit through the batch writer.
type Record struct {
	Shot *ShotRecord
	Hit  *HitRecord
}

// Batch collects records for one BatchRecord call.
type Batch struct {
	Shots []ShotRecord
	Hits  []HitRecord
}

func (b *Batch) Add(r Record) {
	if r.Shot != nil {
		b.Shots = append(b.Shots, *r.Shot)
	}
	if r.Hit != nil {
		b.Hits = append(b.Hits, *r.Hit)
	}
}

func (b *Batch) Len() int {
	return len(b.Shots) + len(b.Hits)
}

func (b *Batch) Reset() {
	b.Shots = b.Shots[:0]
	b.Hits = b.Hits[:0]
}

// BatchRecord writes a batch in one transaction. A hit already stored for
// the same session and target is skipped.
func (d *DB) BatchRecord(b Batch) error {
	if b.Len() == 0 {
		return nil
	}
	return d.withTx(func(tx *sql.Tx) error {
		if len(b.Shots) > 0 {
			stmt, err := tx.Prepare(`
				INSERT INTO shots (session_id, projectile_id, origin_x, origin_y, origin_z, dir_x, dir_y, dir_z, fired_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`)
			if err != nil {
				return fmt.Errorf("preparing shot statement: %w", err)
			}
			defer stmt.Close()

			for _, s := range b.Shots {
				if _, err := stmt.Exec(s.SessionID, int64(s.ProjectileID),
					s.Origin[0], s.Origin[1], s.Origin[2],
					s.Direction[0], s.Direction[1], s.Direction[2], s.FiredAt); err != nil {
					return fmt.Errorf("recording shot in batch: %w", err)
				}
			}
		}

		if len(b.Hits) > 0 {
			stmt, err := tx.Prepare(`
				INSERT INTO hits (session_id, target_id, score_after, hit_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (session_id, target_id) DO NOTHING
			`)
			if err != nil {
				return fmt.Errorf("preparing hit statement: %w", err)
			}
			defer stmt.Close()

			for _, h := range b.Hits {
				if _, err := stmt.Exec(h.SessionID, h.TargetID, h.ScoreAfter, h.HitAt); err != nil {
					return fmt.Errorf("recording hit in batch: %w", err)
				}
			}
		}
		return nil
	})
}
