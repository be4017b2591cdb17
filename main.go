package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	boss := flag.String("boss", "", "fight one boss prefab (papia, harus, helma, harus_killer) instead of the campaign")
	debug := flag.Bool("debug", false, "draw hitboxes, log at debug level and hot-reload prefabs")
	seed := flag.Int64("seed", -1, "override the prefab seed")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "fadingmemory"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(960, 540)
	ebiten.SetWindowTitle("Fading Memory")
	ebiten.SetTPS(60)

	game, err := NewGame(Options{Boss: *boss, Debug: *debug, Seed: *seed}, logger)
	if err != nil {
		logger.Fatal("start game", "err", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		logger.Fatal("run game", "err", err)
	}
}
