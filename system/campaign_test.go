package system

import (
	"errors"
	"testing"

	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
)

func campaignConfig() CampaignConfig {
	first := bossConfig(bash(1))
	first.Name = "first"
	second := bossConfig(bash(1))
	second.Name = "second"
	third := bossConfig(bash(1))
	third.Name = "third"

	pc := obj.DefaultPlayerConfig()
	pc.CanDash = false
	return CampaignConfig{
		Arena:  obj.DefaultArena(),
		Player: pc,
		Seed:   5,
		Stages: []Stage{
			{Boss: first},
			{Boss: second, UnlockDash: true},
			{Boss: third, Heal: true},
		},
	}
}

func winStage(c *Campaign) Outcome {
	c.Encounter().Boss.Health.Current = 0
	return c.Step(component.InputNone, step)
}

func TestCampaignRequiresStages(t *testing.T) {
	if _, err := NewCampaign(CampaignConfig{}); !errors.Is(err, ErrNoStages) {
		t.Fatalf("expected ErrNoStages, got %v", err)
	}
	if _, err := NewCampaign(CampaignConfig{Stages: []Stage{{}}}); err == nil {
		t.Fatalf("expected an error for a stage without a boss")
	}
}

func TestCampaignCarriesHealthAndUnlocks(t *testing.T) {
	c, err := NewCampaign(campaignConfig())
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	c.Start()
	if c.Encounter().Player.CanDash {
		t.Fatalf("dash should start locked")
	}

	c.Encounter().Player.Health.Current = 6
	if o := winStage(c); o != OutcomeBossDefeated {
		t.Fatalf("expected boss defeated, got %v", o)
	}
	if c.StageIndex() != 1 || c.Encounter().Boss.Name() != "second" {
		t.Fatalf("expected the second stage, got %d", c.StageIndex())
	}
	if hp := c.Encounter().Player.Health.Current; hp != 6 {
		t.Fatalf("expected carried HP 6, got %d", hp)
	}
	if !c.Encounter().Player.CanDash {
		t.Fatalf("second stage should unlock dash")
	}

	c.Encounter().Player.Health.Current = 3
	winStage(c)
	if c.Checkpoint() != 2 {
		t.Fatalf("healing stage should become the checkpoint")
	}
	if hp := c.Encounter().Player.Health.Current; hp != 10 {
		t.Fatalf("expected full heal, got %d", hp)
	}

	winStage(c)
	if !c.Done() {
		t.Fatalf("campaign should be complete after the final boss")
	}
	if o := c.Step(component.InputNone, step); o != OutcomeNone {
		t.Fatalf("a finished campaign should not step")
	}
}

func TestCampaignDoubleDefeatCarriesOneHP(t *testing.T) {
	c, err := NewCampaign(campaignConfig())
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	c.Start()
	c.Encounter().Player.Health.Current = 0
	if o := winStage(c); o != OutcomeBossDefeated {
		t.Fatalf("a simultaneous defeat should count as a boss defeat, got %v", o)
	}
	if c.StageIndex() != 1 {
		t.Fatalf("expected the second stage, got %d", c.StageIndex())
	}
	if hp := c.Encounter().Player.Health.Current; hp != 1 {
		t.Fatalf("expected the player to carry 1 HP, got %d", hp)
	}
}

func TestCampaignRetry(t *testing.T) {
	c, _ := NewCampaign(campaignConfig())
	c.Start()
	winStage(c)

	c.Encounter().Player.Health.Current = 0
	if o := c.Step(component.InputNone, step); o != OutcomePlayerDefeated {
		t.Fatalf("expected player defeated, got %v", o)
	}
	c.Retry()
	if c.StageIndex() != 0 || c.CanDash() {
		t.Fatalf("without a checkpoint the campaign restarts from scratch")
	}

	winStage(c)
	winStage(c)
	c.Encounter().Player.Health.Current = 0
	c.Step(component.InputNone, step)
	c.Retry()
	if c.StageIndex() != 2 {
		t.Fatalf("expected retry from the checkpoint, got stage %d", c.StageIndex())
	}
	p := c.Encounter().Player
	if p.Health.Current != p.Health.Max || !p.CanDash {
		t.Fatalf("checkpoint retry should restore a fresh player with dash")
	}
}
