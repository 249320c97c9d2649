package sessions

import (
	"context"
	"errors"
	"math"
	"targetrange/internal/gamedata"
	"targetrange/internal/metrics"
	"targetrange/internal/targets"
	"targetrange/internal/wshub"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.FrameRate = 1000
	return opts
}

func startTest(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := Start("TEST", "Alice", opts)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStart(t *testing.T) {
	s := startTest(t, testOptions())

	if s.ID == "" {
		t.Error("session ID should not be empty")
	}
	if s.Hub == nil || s.Broadcaster == nil {
		t.Error("session Hub and Broadcaster should not be nil")
	}
	if s.TargetsTotal != 3 {
		t.Errorf("TargetsTotal = %d, want 3", s.TargetsTotal)
	}
}

func TestStart_BadLayout(t *testing.T) {
	opts := testOptions()
	opts.Game.Layout = []targets.Target{{ID: 1}, {ID: 1}}
	if _, err := Start("TEST", "Alice", opts); err == nil {
		t.Fatal("Start() should fail on duplicate target ids")
	}
}

func TestSession_FireAdvances(t *testing.T) {
	s := startTest(t, testOptions())
	ctx := context.Background()

	id, err := s.Fire(ctx, mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})
	if err != nil {
		t.Fatalf("Fire() error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f, err := s.Snapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(f.Projectiles) == 1 && f.Projectiles[0].ID == id && f.Projectiles[0].Position.Z() < 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("projectile did not advance")
}

func TestSession_FireRejectsZeroDirection(t *testing.T) {
	s := startTest(t, testOptions())
	if _, err := s.Fire(context.Background(), mgl64.Vec3{}, mgl64.Vec3{}); !errors.Is(err, ErrBadDirection) {
		t.Errorf("Fire() error = %v, want ErrBadDirection", err)
	}
}

func TestSession_FireHugeDirection(t *testing.T) {
	s := startTest(t, testOptions())
	ctx := context.Background()

	id, err := s.Fire(ctx, mgl64.Vec3{}, mgl64.Vec3{1e200, 0, 0})
	if err != nil {
		t.Fatalf("Fire() error: %v", err)
	}
	frame, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range frame.Projectiles {
		if p.ID == id && math.Abs(p.Direction.Len()-1) > 1e-9 {
			t.Errorf("direction = %v, want a unit vector", p.Direction)
		}
	}
}

func TestSession_RejectsNonFiniteRay(t *testing.T) {
	s := startTest(t, testOptions())
	ctx := context.Background()

	if _, err := s.Fire(ctx, mgl64.Vec3{}, mgl64.Vec3{math.Inf(1), 0, 0}); !errors.Is(err, ErrBadDirection) {
		t.Errorf("Fire(inf direction) error = %v, want ErrBadDirection", err)
	}
	if _, err := s.Shoot(ctx, mgl64.Vec3{}, mgl64.Vec3{math.NaN(), 0, -1}); !errors.Is(err, ErrBadDirection) {
		t.Errorf("Shoot(NaN direction) error = %v, want ErrBadDirection", err)
	}
	if _, err := s.Fire(ctx, mgl64.Vec3{math.Inf(-1), 0, 0}, mgl64.Vec3{0, 0, -1}); !errors.Is(err, ErrBadOrigin) {
		t.Errorf("Fire(inf origin) error = %v, want ErrBadOrigin", err)
	}

	frame, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Projectiles) != 0 {
		t.Errorf("projectiles = %d, want 0 after rejected input", len(frame.Projectiles))
	}
}

func TestSession_PickTwice(t *testing.T) {
	s := startTest(t, testOptions())
	ctx := context.Background()

	res, score, err := s.Pick(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res != targets.Hit || score != 1 {
		t.Errorf("first Pick(2) = %v/%d, want hit/1", res, score)
	}

	res, score, err = s.Pick(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res != targets.Miss || score != 1 {
		t.Errorf("second Pick(2) = %v/%d, want miss/1", res, score)
	}
}

func TestSession_Shoot(t *testing.T) {
	s := startTest(t, testOptions())

	res, err := s.Shoot(context.Background(), mgl64.Vec3{}, mgl64.Vec3{0, 5, -5})
	if err != nil {
		t.Fatal(err)
	}
	if res.TargetID != 3 || res.Result != targets.Hit || res.Score != 1 || res.ProjectileID == 0 {
		t.Errorf("Shoot() = %+v, want hit on target 3", res)
	}
}

func TestSession_ClosedReturnsErrClosed(t *testing.T) {
	s, err := Start("TEST", "Alice", testOptions())
	if err != nil {
		t.Fatal(err)
	}
	s.Pick(context.Background(), 1)
	s.Close()
	s.Close()

	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Snapshot() after close error = %v, want ErrClosed", err)
	}
	if s.FinalScore() != 1 {
		t.Errorf("FinalScore = %d, want 1", s.FinalScore())
	}
}

func TestSession_OnClose(t *testing.T) {
	got := make(chan int, 1)
	opts := testOptions()
	opts.OnClose = func(_ *Session, finalScore int) { got <- finalScore }

	s, err := Start("TEST", "Alice", opts)
	if err != nil {
		t.Fatal(err)
	}
	s.Pick(context.Background(), 1)
	s.Pick(context.Background(), 3)
	s.Close()

	select {
	case score := <-got:
		if score != 2 {
			t.Errorf("OnClose score = %d, want 2", score)
		}
	case <-time.After(time.Second):
		t.Fatal("OnClose not called")
	}
}

func TestSession_BroadcastsFramesToHub(t *testing.T) {
	s := startTest(t, testOptions())
	c := &wshub.Client{ID: "viewer", Send: make(chan []byte, 4)}
	s.Hub.Register(c)

	select {
	case data := <-c.Send:
		if len(data) == 0 {
			t.Error("empty frame message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame broadcast to hub client")
	}
}

func TestSession_ForwardsHitsToBroadcaster(t *testing.T) {
	s := startTest(t, testOptions())
	ch := s.Broadcaster.Subscribe()

	s.Pick(context.Background(), 1)

	select {
	case msg := <-ch:
		if msg.Event != "hit" {
			t.Errorf("event = %q, want hit", msg.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hit not broadcast")
	}
}

func TestSession_Metrics(t *testing.T) {
	opts := testOptions()
	opts.Metrics = metrics.New()
	s := startTest(t, opts)
	ctx := context.Background()

	s.Fire(ctx, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	s.Pick(ctx, 1)
	s.Pick(ctx, 1)

	got, err := opts.Metrics.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if got["targetrange_shots_fired_total"] != 1 {
		t.Errorf("shots = %v, want 1", got["targetrange_shots_fired_total"])
	}
	if got["targetrange_hits_total"] != 1 || got["targetrange_misses_total"] != 1 {
		t.Errorf("hits/misses = %v/%v, want 1/1", got["targetrange_hits_total"], got["targetrange_misses_total"])
	}
	if got["targetrange_active_sessions"] != 1 {
		t.Errorf("active sessions = %v, want 1", got["targetrange_active_sessions"])
	}
}

func TestSession_ContextCancelled(t *testing.T) {
	s := startTest(t, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// either the loop takes the work or the context wins; neither may hang
	done := make(chan struct{})
	go func() {
		s.Snapshot(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Snapshot hung on cancelled context")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.FrameRate != 60 {
		t.Errorf("FrameRate = %d, want 60", opts.FrameRate)
	}
	if len(opts.Game.Layout) != len(gamedata.DefaultConfig().Layout) {
		t.Error("default options should use the default layout")
	}
}

func TestStart_ClampsFrameRate(t *testing.T) {
	opts := testOptions()
	opts.FrameRate = 2_000_000_000
	s := startTest(t, opts)

	if s.opts.FrameRate != maxFrameRate {
		t.Errorf("FrameRate = %d, want %d", s.opts.FrameRate, maxFrameRate)
	}
	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Errorf("Snapshot() error: %v", err)
	}
}
