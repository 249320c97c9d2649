package gamedata

import (
	"targetrange/internal/events"
	"targetrange/internal/pick"
	"targetrange/internal/projectiles"
	"targetrange/internal/targets"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type Config struct {
	Projectiles projectiles.Config
	Layout      []targets.Target
}

func DefaultConfig() Config {
	return Config{
		Projectiles: projectiles.DefaultConfig(),
		Layout:      targets.DefaultLayout(),
	}
}

// Frame is everything a render surface draws for one frame.
type Frame struct {
	Tick        uint64
	Projectiles []projectiles.Projectile
	Targets     []targets.Target
	Score       int
	Cleared     bool
}

// Game sequences input and frame callbacks into the projectile manager and
// the target registry. It keeps no state of its own; all of it lives in the
// two components. Events is optional.
type Game struct {
	Projectiles *projectiles.Manager
	Targets     *targets.Registry
	Events      *events.Bus
	Config      Config
}

func NewGame(bus *events.Bus, cfg Config) (*Game, error) {
	reg := targets.NewRegistry()
	if err := reg.Initialize(cfg.Layout); err != nil {
		return nil, err
	}
	return &Game{
		Projectiles: projectiles.NewManager(cfg.Projectiles),
		Targets:     reg,
		Events:      bus,
		Config:      cfg,
	}, nil
}

// OnFrame runs one simulation tick and returns how many projectiles expired.
func (g *Game) OnFrame() int {
	return g.Projectiles.Tick()
}

func (g *Game) OnFireInput(origin, direction mgl64.Vec3) projectiles.ID {
	id := g.Projectiles.Fire(origin, direction)
	if g.Events != nil {
		p, _ := g.Projectiles.Get(id)
		g.Events.PublishShot(events.ShotEvent{
			ProjectileID: id,
			Origin:       p.Origin,
			Direction:    p.Direction,
			At:           time.Now(),
		})
	}
	return id
}

func (g *Game) OnTargetPicked(id targets.ID) targets.HitResult {
	t, _ := g.Targets.Get(id)
	res := g.Targets.Hit(id)
	if res == targets.Hit && g.Events != nil {
		g.Events.PublishHit(events.HitEvent{
			TargetID: id,
			Position: t.Position,
			Score:    g.Targets.Score(),
			Cleared:  g.Targets.Cleared(),
			At:       time.Now(),
		})
	}
	return res
}

// OnShootInput is a click while aiming: it fires a projectile and picks
// along the same ray. picked is zero when the ray hits nothing.
func (g *Game) OnShootInput(origin, direction mgl64.Vec3) (id projectiles.ID, picked targets.ID, res targets.HitResult) {
	id = g.OnFireInput(origin, direction)
	p, _ := g.Projectiles.Get(id)
	picked, ok := pick.First(pick.Ray{Origin: origin, Direction: p.Direction}, g.Targets.Live())
	if !ok {
		return id, 0, targets.Miss
	}
	return id, picked, g.OnTargetPicked(picked)
}

func (g *Game) Snapshot() Frame {
	return Frame{
		Tick:        g.Projectiles.Ticks(),
		Projectiles: g.Projectiles.Live(),
		Targets:     g.Targets.Live(),
		Score:       g.Targets.Score(),
		Cleared:     g.Targets.Cleared(),
	}
}

// Score is a shortcut for the scoreboard.
func (g *Game) Score() int {
	return g.Targets.Score()
}
