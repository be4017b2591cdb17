package system

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
)

var ErrNoStages = errors.New("campaign has no stages")

// Stage is one boss fight of a campaign plus what happens on entering it.
type Stage struct {
	Boss       *obj.BossConfig
	UnlockDash bool
	// Heal restores the player and marks the stage as a checkpoint.
	Heal bool
}

type CampaignConfig struct {
	Arena  obj.Arena
	Player obj.PlayerConfig
	Stages []Stage
	Seed   int64
	Logger *log.Logger
}

// Campaign sequences encounters using only their outcome signals. Player
// health carries from one stage to the next unless the next stage heals.
type Campaign struct {
	cfg  CampaignConfig
	opts []EncounterOption

	stage      int
	checkpoint int
	attempt    int
	canDash    bool
	savedDash  bool
	carryHP    int

	encounter *Encounter
	done      bool
	logger    *log.Logger
}

func NewCampaign(cfg CampaignConfig, opts ...EncounterOption) (*Campaign, error) {
	if len(cfg.Stages) == 0 {
		return nil, ErrNoStages
	}
	for i, s := range cfg.Stages {
		if s.Boss == nil {
			return nil, fmt.Errorf("campaign: stage %d: missing boss", i)
		}
	}
	c := &Campaign{cfg: cfg, checkpoint: -1, logger: cfg.Logger}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.opts = append([]EncounterOption{WithLogger(c.logger)}, opts...)
	return c, nil
}

// Start begins the campaign from its first stage with a fresh player.
func (c *Campaign) Start() {
	c.attempt = 0
	c.reset()
	c.enter(c.stage)
}

func (c *Campaign) reset() {
	c.stage = 0
	c.checkpoint = -1
	c.canDash = c.cfg.Player.CanDash
	c.savedDash = c.canDash
	c.carryHP = 0
	c.done = false
}

func (c *Campaign) enter(i int) {
	s := c.cfg.Stages[i]
	if s.UnlockDash {
		c.canDash = true
	}
	if s.Heal {
		c.carryHP = 0
		c.checkpoint = i
		c.savedDash = c.canDash
	}
	pc := c.cfg.Player
	pc.CanDash = c.canDash
	c.encounter = NewEncounter(EncounterConfig{
		Arena:    c.cfg.Arena,
		Player:   pc,
		Boss:     s.Boss,
		Seed:     c.cfg.Seed + int64(i)*1000 + int64(c.attempt),
		PlayerHP: c.carryHP,
	}, c.opts...)
	c.logger.Info("stage entered", "stage", i, "boss", s.Boss.Name, "dash", c.canDash, "heal", s.Heal)
}

// Step advances the current encounter. A boss defeat moves on to the next
// stage; a player defeat waits for Retry.
func (c *Campaign) Step(held component.InputAction, dt float64) Outcome {
	if c.done || c.encounter == nil {
		return OutcomeNone
	}
	o := c.encounter.Step(held, dt)
	if o != OutcomeBossDefeated {
		return o
	}
	if c.stage+1 >= len(c.cfg.Stages) {
		c.done = true
		c.logger.Info("campaign complete", "stages", len(c.cfg.Stages))
		return o
	}
	// A player felled on the same frame as the boss limps on with 1 HP.
	c.carryHP = max(c.encounter.Player.Health.Current, 1)
	c.stage++
	c.enter(c.stage)
	return o
}

// Retry resumes after a player defeat: from the last checkpoint if one was
// reached, otherwise from the very beginning.
func (c *Campaign) Retry() {
	c.attempt++
	if c.checkpoint < 0 {
		c.reset()
		c.enter(c.stage)
		return
	}
	c.stage = c.checkpoint
	c.canDash = c.savedDash
	c.carryHP = 0
	c.done = false
	c.enter(c.stage)
}

func (c *Campaign) Done() bool { return c.done }

// Encounter is the fight in progress.
func (c *Campaign) Encounter() *Encounter { return c.encounter }

func (c *Campaign) StageIndex() int { return c.stage }

func (c *Campaign) Checkpoint() int { return c.checkpoint }

func (c *Campaign) CanDash() bool { return c.canDash }
