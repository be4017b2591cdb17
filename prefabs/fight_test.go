package prefabs

import (
	"testing"

	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/system"
)

// Every shipped boss must hold up a full autopiloted fight and replay it
// exactly from the same seed.
func TestPrefabBossesFightDeterministically(t *testing.T) {
	player, err := LoadPlayer("player")
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	arena, err := LoadArena("arena")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}

	for _, name := range BossNames() {
		t.Run(name, func(t *testing.T) {
			boss, err := LoadBoss(name)
			if err != nil {
				t.Fatalf("load %s: %v", name, err)
			}
			run := func() (system.HUD, map[component.CombatEventType]int) {
				e := system.NewEncounter(system.EncounterConfig{Arena: arena, Player: player, Boss: boss, Seed: 7})
				counts := map[component.CombatEventType]int{}
				e.Events.Subscribe(func(evt component.CombatEvent) { counts[evt.Type]++ })
				ap := system.NewAutopilot(3)
				for i := 0; i < 90*60 && e.Outcome() == system.OutcomeNone; i++ {
					e.Step(ap.Next(e), system.FixedStep)
				}
				return e.HUD(), counts
			}

			a, events := run()
			b, _ := run()
			if a != b {
				t.Fatalf("replay diverged:\n%+v\n%+v", a, b)
			}
			if events[component.EventDamageApplied]+events[component.EventHit] == 0 {
				t.Fatalf("nobody took damage in %d frames: %+v", a.Frame, events)
			}
			if a.BossHP > a.BossMaxHP || a.PlayerHP > a.PlayerMaxHP {
				t.Fatalf("health above max: %+v", a)
			}
		})
	}
}
