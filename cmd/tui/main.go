package main

import (
	"log"
	"os"
	"targetrange/internal/audio"
	"targetrange/internal/config"
	"targetrange/internal/gamedata"
	"targetrange/internal/targets"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := config.Load()

	// keep log output off the terminal we draw on
	if f, err := os.OpenFile("targetrange-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	game, err := gamedata.NewGame(nil, gamedata.Config{
		Projectiles: cfg.Projectiles(),
		Layout:      targets.DefaultLayout(),
	})
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	sound, err := audio.NewPlayer(0.5)
	if err != nil {
		// Non-fatal, the range works without sound
		log.Printf("[Audio] %v\n", err)
	}

	s := newSurface(screen, game, sound)
	s.run(cfg.FrameRate)

	sound.Close()
	screen.Fini()
	log.Printf("[TUI] Final score %d/%d\n", game.Score(), game.Targets.Total())
}
