package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/fadingmemory/prefabs"
	"github.com/milk9111/fadingmemory/system"
)

var errQuit = errors.New("quit")

type Options struct {
	// Boss names a single boss prefab. Empty plays campaign.yaml.
	Boss  string
	Debug bool
	// Seed overrides the prefab seed when non-negative.
	Seed int64
}

type screenState int

const (
	statePlaying screenState = iota
	statePaused
	stateDefeated
	stateVictory
)

type Game struct {
	opts   Options
	logger *log.Logger

	campaign  *system.Campaign
	encounter *system.Encounter
	// pending holds reloaded prefabs until the next run starts.
	pending *system.CampaignConfig

	state    screenState
	menu     *ebitenui.UI
	input    *Input
	renderer *Renderer
	sounds   *Sounds
	watcher  *prefabs.Watcher
	quit     bool
}

func NewGame(opts Options, logger *log.Logger) (*Game, error) {
	g := &Game{opts: opts, logger: logger, input: &Input{}}

	cfg, err := g.loadCampaign()
	if err != nil {
		return nil, err
	}
	if err := g.startCampaign(cfg); err != nil {
		return nil, err
	}

	arena, err := prefabs.LoadSpec[prefabs.ArenaSpec]("arena.yaml")
	if err != nil {
		logger.Warn("arena colours unavailable", "err", err)
	}
	g.renderer = NewRenderer(cfg.Arena, arena, logger)
	g.sounds = NewSounds(logger)

	if opts.Debug {
		g.startWatcher()
	}
	return g, nil
}

func (g *Game) loadCampaign() (system.CampaignConfig, error) {
	cfg, err := prefabs.LoadRun(g.opts.Boss)
	if err != nil {
		return cfg, err
	}
	if g.opts.Seed >= 0 {
		cfg.Seed = g.opts.Seed
	}
	cfg.Logger = g.logger
	return cfg, nil
}

func (g *Game) startCampaign(cfg system.CampaignConfig) error {
	c, err := system.NewCampaign(cfg)
	if err != nil {
		return fmt.Errorf("game: campaign: %w", err)
	}
	g.campaign = c
	g.campaign.Start()
	g.state = statePlaying
	g.menu = nil
	return nil
}

func (g *Game) startWatcher() {
	if info, err := os.Stat("prefabs"); err != nil || !info.IsDir() {
		g.logger.Warn("hot reload disabled, no prefabs directory", "cwd", mustGetwd())
		return
	}
	w, err := prefabs.NewWatcher("prefabs")
	if err != nil {
		g.logger.Warn("hot reload disabled", "err", err)
		return
	}
	g.watcher = w
	g.logger.Debug("watching prefabs")
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "?"
	}
	return wd
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return errQuit
	}
	g.pollReload()

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return errQuit
	}
	if g.opts.Debug && inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.restart()
		return nil
	}

	switch g.state {
	case statePlaying:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.openMenu(statePaused)
			return nil
		}
		g.track()
		switch g.campaign.Step(g.input.Poll(), system.FixedStep) {
		case system.OutcomePlayerDefeated:
			g.openMenu(stateDefeated)
		case system.OutcomeBossDefeated:
			if g.campaign.Done() {
				g.openMenu(stateVictory)
			}
		}
		g.track()
		g.renderer.Update(system.FixedStep, g.encounter)
	case statePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.resume()
			return nil
		}
		g.menu.Update()
	default:
		g.menu.Update()
	}
	return nil
}

// track follows the campaign onto a new encounter.
func (g *Game) track() {
	e := g.campaign.Encounter()
	if e == nil || e == g.encounter {
		return
	}
	g.encounter = e
	e.Events.Subscribe(g.sounds.OnEvent)
	g.renderer.Reset()
}

func (g *Game) openMenu(s screenState) {
	g.state = s
	switch s {
	case statePaused:
		g.menu = newMenuUI("Paused", "",
			menuButton{"Resume", g.resume},
			menuButton{"Restart", g.restart},
			menuButton{"Quit", g.exit},
		)
	case stateDefeated:
		label := "Restart"
		if g.campaign.Checkpoint() >= 0 {
			label = "Retry from checkpoint"
		}
		g.menu = newMenuUI("You fell", g.encounter.Boss.Config().Title,
			menuButton{label, g.retry},
			menuButton{"Quit", g.exit},
		)
	case stateVictory:
		g.menu = newMenuUI("The memory fades", "Every boss is defeated",
			menuButton{"Play again", g.restart},
			menuButton{"Quit", g.exit},
		)
	}
}

func (g *Game) resume() {
	g.state = statePlaying
	g.menu = nil
}

func (g *Game) retry() {
	if g.applyPending() {
		return
	}
	g.campaign.Retry()
	g.resume()
}

func (g *Game) restart() {
	if g.applyPending() {
		return
	}
	g.campaign.Start()
	g.resume()
}

func (g *Game) exit() {
	g.quit = true
}

// applyPending swaps in reloaded prefabs and starts over with them.
func (g *Game) applyPending() bool {
	if g.pending == nil {
		return false
	}
	cfg := *g.pending
	g.pending = nil
	if err := g.startCampaign(cfg); err != nil {
		g.logger.Error("reloaded prefabs rejected", "err", err)
		return false
	}
	g.logger.Info("reloaded prefabs applied")
	return true
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			cfg, err := g.loadCampaign()
			if err != nil {
				g.logger.Error("prefab reload failed", "file", name, "err", err)
				continue
			}
			g.pending = &cfg
			g.logger.Info("prefab reloaded, applies on next restart", "file", name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("prefab watcher", "err", err)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.encounter, g.opts.Debug)
	if g.state != statePlaying && g.menu != nil {
		g.menu.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.renderer.arena.Width, g.renderer.arena.Height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
