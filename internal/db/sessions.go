package db

import (
	"fmt"
	"time"
)

type SessionRecord struct {
	ID           string
	Code         string
	PlayerName   string
	TargetsTotal int
	FinalScore   *int
	StartedAt    time.Time
	EndedAt      *time.Time
}

func (d *DB) CreateSession(id, code, playerName string, targetsTotal int) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, code, player_name, targets_total)
		VALUES ($1, $2, $3, $4)
	`, id, code, playerName, targetsTotal)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

func (d *DB) EndSession(id string, finalScore int) error {
	_, err := d.conn.Exec(`
		UPDATE sessions SET ended_at = now(), final_score = $2 WHERE id = $1
	`, id, finalScore)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

func (d *DB) GetSession(id string) (*SessionRecord, error) {
	var s SessionRecord
	err := d.conn.QueryRow(`
		SELECT id, code, player_name, targets_total, final_score, started_at, ended_at
		FROM sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.Code, &s.PlayerName, &s.TargetsTotal, &s.FinalScore, &s.StartedAt, &s.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &s, nil
}
