package main

import (
	"fmt"
	"math"
	"targetrange/internal/audio"
	"targetrange/internal/gamedata"
	"targetrange/internal/targets"
	"targetrange/internal/view"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

const turnStep = 3 * math.Pi / 180

var (
	targetStyle     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	projectileStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	crosshairStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	hudStyle        = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// surface renders the game to a terminal and turns key presses into input.
// Everything runs on the caller's goroutine except PollEvent.
type surface struct {
	screen tcell.Screen
	game   *gamedata.Game
	cam    view.Camera
	sound  *audio.Player
	status string
}

func newSurface(screen tcell.Screen, game *gamedata.Game, sound *audio.Player) *surface {
	return &surface{
		screen: screen,
		game:   game,
		cam:    view.NewCamera(),
		sound:  sound,
	}
}

// handleKey applies one key press and reports whether to keep running.
func (s *surface) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		s.cam.Turn(turnStep, 0)
	case tcell.KeyRight:
		s.cam.Turn(-turnStep, 0)
	case tcell.KeyUp:
		s.cam.Turn(0, turnStep)
	case tcell.KeyDown:
		s.cam.Turn(0, -turnStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			s.shoot()
		}
	}
	return true
}

func (s *surface) shoot() {
	s.sound.Shot()
	_, picked, res := s.game.OnShootInput(s.cam.Eye, s.cam.Forward())
	if res == targets.Hit {
		s.status = fmt.Sprintf("hit target %d", picked)
	} else {
		s.status = "miss"
	}
}

func (s *surface) draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	frame := s.game.Snapshot()

	for _, t := range frame.Targets {
		s.drawTarget(t, w, h)
	}
	for _, p := range frame.Projectiles {
		if x, y, ok := s.cam.Project(p.Position, w, h); ok {
			s.screen.SetContent(x, y, '*', nil, projectileStyle)
		}
	}
	s.screen.SetContent(w/2, h/2, '+', nil, crosshairStyle)

	hud := fmt.Sprintf("score %d/%d  projectiles %d", frame.Score, s.game.Targets.Total(), len(frame.Projectiles))
	if frame.Cleared {
		hud += "  all targets down, q to quit"
	} else if s.status != "" {
		hud += "  " + s.status
	}
	drawText(s.screen, 0, 0, hud, hudStyle)
	s.screen.Show()
}

// drawTarget fills the screen rectangle covered by the target's front face.
func (s *surface) drawTarget(t targets.Target, w, h int) {
	half := t.Size / 2
	x0, y0, ok0 := s.cam.Project(t.Position.Add(mgl64.Vec3{-half, half, 0}), w, h)
	x1, y1, ok1 := s.cam.Project(t.Position.Add(mgl64.Vec3{half, -half, 0}), w, h)
	if !ok0 && !ok1 {
		if x, y, ok := s.cam.Project(t.Position, w, h); ok {
			s.screen.SetContent(x, y, '#', nil, targetStyle)
		}
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := max(y0, 0); y <= min(y1, h-1); y++ {
		for x := max(x0, 0); x <= min(x1, w-1); x++ {
			s.screen.SetContent(x, y, '#', nil, targetStyle)
		}
	}
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// run drives the game at fps until the player quits.
func (s *surface) run(fps int) {
	fps = max(1, min(fps, 1000))
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !s.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		case <-ticker.C:
			s.game.OnFrame()
			s.draw()
		}
	}
}
