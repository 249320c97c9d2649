package sessions

import (
	"context"
	"errors"
	"log"
	"sync"
	"targetrange/internal/broadcast"
	"targetrange/internal/events"
	"targetrange/internal/gamedata"
	"targetrange/internal/metrics"
	"targetrange/internal/projectiles"
	"targetrange/internal/targets"
	"targetrange/internal/wshub"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var (
	ErrClosed       = errors.New("session closed")
	ErrNotFound     = errors.New("session not found")
	ErrBadDirection = errors.New("direction must be a non-zero finite vector")
	ErrBadOrigin    = errors.New("origin must be a finite point")
)

// maxFrameRate keeps the frame interval well above zero.
const maxFrameRate = 1000

type Options struct {
	Game      gamedata.Config
	FrameRate int
	Codes     CodeFormat
	Metrics   *metrics.Collectors
	// OnClose runs on the session goroutine after the last frame.
	OnClose func(s *Session, finalScore int)
}

func DefaultOptions() Options {
	return Options{
		Game:      gamedata.DefaultConfig(),
		FrameRate: 60,
		Codes:     DefaultCodeFormat,
	}
}

// ShotResult is the outcome of a click while aiming.
type ShotResult struct {
	ProjectileID projectiles.ID
	TargetID     targets.ID
	Result       targets.HitResult
	Score        int
}

// Session is one running game. Its frame loop owns the game; every other
// goroutine reaches the game by posting work to the loop.
type Session struct {
	ID           string
	Code         string
	PlayerName   string
	TargetsTotal int
	CreatedAt    time.Time
	Hub          *wshub.Hub
	Broadcaster  *broadcast.Broadcaster

	game    *gamedata.Game
	bus     *events.Bus
	inputs  chan func(*gamedata.Game)
	opts    Options
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	final   int
}

// Start creates a session and launches its frame loop.
func Start(code, playerName string, opts Options) (*Session, error) {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	opts.FrameRate = min(opts.FrameRate, maxFrameRate)
	bus := events.NewBus()
	game, err := gamedata.NewGame(bus, opts.Game)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:           uuid.New().String(),
		Code:         code,
		PlayerName:   playerName,
		TargetsTotal: game.Targets.Total(),
		CreatedAt:    time.Now(),
		Hub:          wshub.NewHub(),
		Broadcaster:  broadcast.NewBroadcaster(bus),
		game:         game,
		bus:          bus,
		inputs:       make(chan func(*gamedata.Game)),
		opts:         opts,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	opts.Metrics.SessionStarted()
	go s.run(ctx)
	return s, nil
}

func (s *Session) run(ctx context.Context) {
	interval := time.Second / time.Duration(s.opts.FrameRate)
	ticker := time.NewTicker(interval)

	defer func() {
		ticker.Stop()
		s.final = s.game.Score()
		s.bus.Close()
		<-s.Broadcaster.Done()
		s.Broadcaster.CloseAll()
		s.Hub.CloseAll()
		s.opts.Metrics.SessionEnded()
		if s.opts.OnClose != nil {
			s.opts.OnClose(s, s.final)
		}
		log.Printf("[Session] %s closed with score %d\n", s.Code, s.final)
		close(s.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-s.inputs:
			fn(s.game)
		case <-ticker.C:
			start := time.Now()
			expired := s.game.OnFrame()
			s.opts.Metrics.Frame(time.Since(start), expired)
			if s.Hub.Count() > 0 {
				s.Hub.Broadcast(wshub.FrameMessage(s.game.Snapshot()))
			}
		}
	}
}

// exec runs fn on the frame loop and waits for it to finish.
func (s *Session) exec(ctx context.Context, fn func(*gamedata.Game)) error {
	finished := make(chan struct{})
	wrapped := func(g *gamedata.Game) {
		defer close(finished)
		fn(g)
	}
	select {
	case s.inputs <- wrapped:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// the loop has taken fn and runs it before anything else
	<-finished
	return nil
}

// checkRay rejects input the projectile manager would panic on.
func checkRay(origin, direction mgl64.Vec3) error {
	if _, ok := projectiles.Normalize(direction); !ok {
		return ErrBadDirection
	}
	if !projectiles.Finite(origin) {
		return ErrBadOrigin
	}
	return nil
}

func (s *Session) Fire(ctx context.Context, origin, direction mgl64.Vec3) (projectiles.ID, error) {
	if err := checkRay(origin, direction); err != nil {
		return 0, err
	}
	var id projectiles.ID
	err := s.exec(ctx, func(g *gamedata.Game) {
		id = g.OnFireInput(origin, direction)
	})
	if err != nil {
		return 0, err
	}
	s.opts.Metrics.Shot()
	return id, nil
}

func (s *Session) Shoot(ctx context.Context, origin, direction mgl64.Vec3) (ShotResult, error) {
	if err := checkRay(origin, direction); err != nil {
		return ShotResult{}, err
	}
	var res ShotResult
	err := s.exec(ctx, func(g *gamedata.Game) {
		res.ProjectileID, res.TargetID, res.Result = g.OnShootInput(origin, direction)
		res.Score = g.Score()
	})
	if err != nil {
		return ShotResult{}, err
	}
	s.opts.Metrics.Shot()
	if res.TargetID != 0 {
		s.opts.Metrics.Pick(res.Result == targets.Hit)
	}
	return res, nil
}

// Pick forwards a render-surface pick. A Miss is a normal outcome.
func (s *Session) Pick(ctx context.Context, id targets.ID) (targets.HitResult, int, error) {
	var (
		res   targets.HitResult
		score int
	)
	err := s.exec(ctx, func(g *gamedata.Game) {
		res = g.OnTargetPicked(id)
		score = g.Score()
	})
	if err != nil {
		return targets.Miss, 0, err
	}
	s.opts.Metrics.Pick(res == targets.Hit)
	return res, score, nil
}

func (s *Session) Snapshot(ctx context.Context) (gamedata.Frame, error) {
	var f gamedata.Frame
	err := s.exec(ctx, func(g *gamedata.Game) {
		f = g.Snapshot()
	})
	return f, err
}

// Close stops the frame loop and waits for it to exit. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// FinalScore is valid once Done is closed.
func (s *Session) FinalScore() int {
	<-s.done
	return s.final
}
