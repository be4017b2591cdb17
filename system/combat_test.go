package system

import (
	"math/rand"
	"testing"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
)

const step = FixedStep

func bossConfig(attacks ...obj.AttackSpec) *obj.BossConfig {
	var choices []obj.WeightedAttack
	for _, a := range attacks {
		choices = append(choices, obj.WeightedAttack{Attack: a.Name, Weight: 1})
	}
	return &obj.BossConfig{
		Name:        "test",
		MaxHP:       20,
		SpawnX:      600,
		HalfWidth:   30,
		HurtHeight:  120,
		ArenaMargin: 80,
		IdlePause:   0.2,
		Cooldown:    obj.Jitter{Base: 0.5},
		Stun:        obj.StunConfig{Duration: 0.9, Recovery: 0.7, Knockback: 20},
		Attacks:     attacks,
		Phases:      []obj.BossPhase{{Name: "base", HPFraction: 1, Table: obj.SelectionTable{{Choices: choices}}}},
	}
}

// horizontalSwing points its tip straight at a left-side player.
func horizontalSwing() obj.AttackSpec {
	return obj.AttackSpec{
		Name:        "swing",
		Timing:      component.ActionTiming{Windup: 0.82, Active: 0.25, Recovery: 1.0},
		ParryWindow: 0.12,
		Counter:     obj.CounterTip,
		ParryReach:  12,
		Hit:         obj.HitSpec{Damage: 1, IFrames: 0.5, Knockback: 200},
		Shape:       obj.ArcSwing{Reach: 100, TipRadius: 14, PivotY: -60, StartAngle: 0, TargetAngle: 0},
	}
}

func bash(damage int) obj.AttackSpec {
	return obj.AttackSpec{
		Name:   "bash",
		Timing: component.ActionTiming{Windup: 0.2, Active: 0.3, Recovery: 0.5},
		Hit:    obj.HitSpec{Damage: damage, Knockback: 150},
		Shape:  obj.ShieldBash{OffsetX: 20, OffsetY: -80, Width: 70, Height: 60},
	}
}

func newPlayer(x float64) *obj.Player {
	p := obj.NewPlayer(obj.DefaultPlayerConfig(), obj.DefaultArena())
	p.Pos.X = x
	return p
}

func stepBossUntil(t *testing.T, b *obj.Boss, p *obj.Player, cond func() bool) {
	t.Helper()
	for i := 0; i < 600; i++ {
		if cond() {
			return
		}
		b.Update(step, p)
	}
	t.Fatalf("boss never reached the expected state, stuck in %s", b.StateName())
}

// forceActive puts a player melee action mid-swing with the given hitbox.
func forceActive(a *component.TimedAction, r common.Rect) {
	a.Start()
	a.State = component.ActionActive
	a.Timer = a.Timing.Active
	a.Hitbox.Set(r)
}

func recordEvents(em *component.CombatEventEmitter) *[]component.CombatEvent {
	var got []component.CombatEvent
	em.Subscribe(func(evt component.CombatEvent) { got = append(got, evt) })
	return &got
}

func TestResolveTipParry(t *testing.T) {
	b := obj.NewBoss(bossConfig(horizontalSwing()), obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(396)
	stepBossUntil(t, b, p, b.ParryWindow)

	forceActive(&p.Light, common.FacingRect(p.Pos.X, p.Pos.Y-60, 48, 56, 24, 1))
	em := &component.CombatEventEmitter{}
	events := recordEvents(em)

	res := Resolve(p, b, 1, em)
	if !res.Parried {
		tip, _ := b.TipPos()
		t.Fatalf("expected parry, tip %+v player tip %+v", tip, p.AttackTip())
	}
	if b.StateName() != "stunned" {
		t.Fatalf("expected boss stunned, got %s", b.StateName())
	}
	if res.PlayerDamage != 0 || p.Health.Current != p.Health.Max {
		t.Fatalf("parry must not hurt the player")
	}
	if res.BossDamage != 0 {
		t.Fatalf("a parried light should not also damage, got %d", res.BossDamage)
	}
	if len(*events) == 0 || (*events)[0].Type != component.EventParry {
		t.Fatalf("expected a parry event first, got %+v", *events)
	}
}

func TestResolveTipOutOfReach(t *testing.T) {
	b := obj.NewBoss(bossConfig(horizontalSwing()), obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(300)
	stepBossUntil(t, b, p, b.ParryWindow)

	forceActive(&p.Light, common.FacingRect(p.Pos.X, p.Pos.Y-60, 48, 56, 24, 1))
	if res := Resolve(p, b, 1, nil); res.Parried {
		t.Fatalf("tip 70 px away must not parry")
	}
	if b.StateName() == "stunned" {
		t.Fatalf("boss should keep attacking")
	}
}

func shieldConfig() *obj.BossConfig {
	slash := obj.AttackSpec{
		Name:             "slash",
		Timing:           component.ActionTiming{Windup: 0.6, Active: 0.2, Recovery: 0.6},
		ParryWindow:      0.12,
		Counter:          obj.CounterDeflect,
		ParryNeedsShield: true,
		Hit:              obj.HitSpec{Damage: 1, IFrames: 0.5},
		Shape:            obj.ArcSwing{Reach: 112, TipRadius: 21, PivotY: -60, StartAngle: -140, TargetAngle: 40},
	}
	cfg := bossConfig(slash)
	cfg.Shield = &obj.ShieldConfig{
		Timing:  component.ShieldTiming{Break: 2.5, Down: 1.0},
		OffsetX: 10, OffsetY: -100, Width: 45, Height: 90,
	}
	return cfg
}

func TestResolveShieldDeflect(t *testing.T) {
	b := obj.NewBoss(shieldConfig(), obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(480)
	stepBossUntil(t, b, p, b.ParryWindow)

	shield, _ := b.ShieldRect()
	forceActive(&p.Heavy, common.R(shield.X-50, shield.Y+20, 100, 28))
	res := Resolve(p, b, 1, nil)
	if !res.Parried || !res.Deflected || res.Blocked {
		t.Fatalf("expected deflect, got %+v", res)
	}
	if b.StateName() != "stunned" {
		t.Fatalf("expected boss stunned, got %s", b.StateName())
	}
	if b.ShieldUp() || b.Shield.Disabled() != 2.5 {
		t.Fatalf("expected shield disabled for 2.5 s, got %.2f", b.Shield.Disabled())
	}
	if res.BossDamage != 2 {
		t.Fatalf("expected deflect bonus damage 2, got %d", res.BossDamage)
	}
}

func TestResolveLightBlockedByShield(t *testing.T) {
	cfg := shieldConfig()
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(480)
	b.Update(step, p)

	shield, _ := b.ShieldRect()
	forceActive(&p.Light, common.R(shield.X-20, shield.Y+20, 56, 24))
	res := Resolve(p, b, 1, nil)
	if !res.Blocked || res.BossDamage != 0 {
		t.Fatalf("expected block without damage, got %+v", res)
	}
	if p.Light.State != component.ActionRecovery {
		t.Fatalf("blocked light should be forced into recovery")
	}
	if p.Vel.X != -BlockBounceSpeed {
		t.Fatalf("expected bounce away from the boss, got %.1f", p.Vel.X)
	}
	if p.Vulnerable() {
		t.Fatalf("bounce should grant i-frames")
	}
}

func TestResolveDamageOncePerActivation(t *testing.T) {
	b := obj.NewBoss(bossConfig(bash(1)), obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(560)
	stepBossUntil(t, b, p, b.Striking)

	total := 0
	for i := 0; i < 10; i++ {
		p.Health.IFrames = 0
		total += Resolve(p, b, i, nil).PlayerDamage
	}
	if total != 1 {
		t.Fatalf("expected one hit over 10 frames, got %d", total)
	}
	if p.Vel.X >= 0 {
		t.Fatalf("knockback should push the player away from the boss, got vx %.1f", p.Vel.X)
	}
}

func TestResolveLightHitsBossOnce(t *testing.T) {
	cfg := bossConfig(bash(1))
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(520)
	b.Update(step, p)

	forceActive(&p.Light, common.FacingRect(p.Pos.X, p.Pos.Y-60, 48, 56, 24, 1))
	total := 0
	for i := 0; i < 10; i++ {
		total += Resolve(p, b, i, nil).BossDamage
	}
	if total != 1 || b.Health.Current != 19 {
		t.Fatalf("expected exactly one point of damage, got %d (hp %d)", total, b.Health.Current)
	}
}

func TestResolveHazardIsConsumed(t *testing.T) {
	cfg := bossConfig(bash(1))
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(300)
	b.Update(step, p)

	wave := obj.ShockwaveSpec{Width: 80, Height: 60, OffsetY: -60, Hit: obj.HitSpec{Damage: 2}}
	b.AddHazard(obj.NewShockwave(280, 440, 1, wave, 960))

	res := Resolve(p, b, 1, nil)
	if res.PlayerDamage != 2 {
		t.Fatalf("expected wave damage 2, got %d", res.PlayerDamage)
	}
	if len(b.Hazards()) != 0 {
		t.Fatalf("a hazard that lands should be removed")
	}
}

func TestResolveHazardConsumedWithoutDamage(t *testing.T) {
	cfg := bossConfig(bash(1))
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	wave := obj.ShockwaveSpec{Width: 80, Height: 60, OffsetY: -60, Hit: obj.HitSpec{Damage: 2}}

	t.Run("iframes", func(t *testing.T) {
		b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
		p := newPlayer(300)
		b.Update(step, p)
		b.AddHazard(obj.NewShockwave(280, 440, 1, wave, 960))
		p.Health.IFrames = 0.5

		if res := Resolve(p, b, 1, nil); res.PlayerDamage != 0 {
			t.Fatalf("an invulnerable player should take no damage, got %d", res.PlayerDamage)
		}
		if len(b.Hazards()) != 0 {
			t.Fatalf("the wave should be consumed once its hit test fires")
		}
		p.Health.Tick(0.5)
		if res := Resolve(p, b, 2, nil); res.PlayerDamage != 0 {
			t.Fatalf("a consumed wave must not hit later, got %d", res.PlayerDamage)
		}
	})

	t.Run("dashing", func(t *testing.T) {
		b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
		p := newPlayer(300)
		b.Update(step, p)
		orb := obj.NewOrb(common.V(0, 0), 0, obj.OrbSpec{Radius: 20, Speed: 100, Life: 1, Hit: obj.HitSpec{Damage: 1}}, common.R(0, 0, 960, 540))
		orb.Update(step, p.Pos)
		orb.Pos = p.Hurtbox().Center()
		b.AddHazard(orb)
		if !p.StartDash() {
			t.Fatalf("dash should start")
		}

		if res := Resolve(p, b, 1, nil); res.PlayerDamage != 0 {
			t.Fatalf("a dashing player should take no damage, got %d", res.PlayerDamage)
		}
		if len(b.Hazards()) != 0 {
			t.Fatalf("the orb should be consumed even though the dash avoided damage")
		}
	})
}

func TestResolveHeavyOnShieldOnly(t *testing.T) {
	cfg := shieldConfig()
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(480)
	b.Update(step, p)

	shield, _ := b.ShieldRect()
	hurt := b.Hurtbox()
	r := common.R(shield.X-50, shield.Y+20, 50+shield.Width/2, 28)
	if r.Intersects(hurt) {
		t.Fatalf("test hitbox should miss the hurtbox, shield %+v hurtbox %+v", shield, hurt)
	}
	forceActive(&p.Heavy, r)
	res := Resolve(p, b, 1, nil)
	if res.BossDamage != 0 || res.Parried {
		t.Fatalf("a heavy on the shield alone should deal nothing outside a parry window, got %+v", res)
	}
	if !b.ShieldUp() {
		t.Fatalf("the shield should stay up")
	}
}

func TestResolveOrbBreak(t *testing.T) {
	cfg := bossConfig(bash(1))
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(300)
	b.Update(step, p)

	orb := obj.NewOrb(common.V(370, 392), 0, obj.OrbSpec{Radius: 20, Windup: 1, Life: 1}, common.R(0, 0, 960, 540))
	b.AddHazard(orb)
	forceActive(&p.Light, common.FacingRect(p.Pos.X, p.Pos.Y-60, 48, 56, 24, 1))

	res := Resolve(p, b, 1, nil)
	if len(b.Hazards()) != 0 {
		t.Fatalf("expected orb destroyed")
	}
	if res.BossDamage != OrbBreakDamage {
		t.Fatalf("expected orb break damage, got %d", res.BossDamage)
	}
}

func TestResolveLightKnocksDownMeteor(t *testing.T) {
	cfg := bossConfig(bash(1))
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(300)
	b.Update(step, p)

	m := obj.NewMeteor(370, 0, 440, obj.MeteorSpec{StartY: 385, FallSpeed: 1, Impact: 0.5, ForcedImpact: 0.18})
	m.Update(step, common.Vec2{})
	b.AddHazard(m)
	forceActive(&p.Light, common.FacingRect(p.Pos.X, p.Pos.Y-60, 48, 56, 24, 1))

	Resolve(p, b, 1, nil)
	if m.Stage() != obj.MeteorImpact || m.Timer() != 0.18 {
		t.Fatalf("expected forced impact, got %v %.2f", m.Stage(), m.Timer())
	}
}

func TestResolveDashIntoShield(t *testing.T) {
	cfg := shieldConfig()
	cfg.InitialCooldown = obj.Jitter{Base: 10}
	b := obj.NewBoss(cfg, obj.DefaultArena(), rand.New(rand.NewSource(1)))
	p := newPlayer(540)
	b.Update(step, p)

	p.StartDash()
	res := Resolve(p, b, 1, nil)
	if !res.Blocked || p.Dashing() {
		t.Fatalf("expected dash stopped by the shield")
	}
	if p.Vel.X != -DashBlockKnockback {
		t.Fatalf("expected knockback away from the boss, got %.1f", p.Vel.X)
	}
}
