package analytics

import (
	"os"
	"targetrange/internal/db"
	"testing"
	"time"

	"github.com/google/uuid"
)

func getTestQueries(t *testing.T) *Queries {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := db.Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewQueries(database)
}

func TestGetSessionStats_Score(t *testing.T) {
	q := getTestQueries(t)
	id := uuid.New().String()
	if err := q.DB.CreateSession(id, "STAT", "Alice", 3); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	var batch db.Batch
	batch.Add(db.Record{Shot: &db.ShotRecord{SessionID: id, ProjectileID: 1, Direction: [3]float64{0, 0, -1}, FiredAt: now}})
	batch.Add(db.Record{Hit: &db.HitRecord{SessionID: id, TargetID: 1, ScoreAfter: 1, HitAt: now}})
	batch.Add(db.Record{Hit: &db.HitRecord{SessionID: id, TargetID: 2, ScoreAfter: 2, HitAt: now}})
	if err := q.DB.BatchRecord(batch); err != nil {
		t.Fatal(err)
	}

	// still running: score comes from the last recorded hit
	stats, err := q.GetSessionStats(id)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Score != 2 {
		t.Errorf("running Score = %d, want 2", stats.Score)
	}
	if stats.Accuracy != 100 {
		t.Errorf("Accuracy = %v, want 100 (capped)", stats.Accuracy)
	}

	if err := q.DB.EndSession(id, 3); err != nil {
		t.Fatal(err)
	}
	stats, err = q.GetSessionStats(id)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Score != 3 {
		t.Errorf("final Score = %d, want 3", stats.Score)
	}
}
