package obj

import (
	"math"
	"testing"

	"github.com/milk9111/fadingmemory/component"
)

func stepPlayer(p *Player, in *component.Input, held component.InputAction, frames int) {
	for i := 0; i < frames; i++ {
		in.Advance(held)
		p.Update(step, in)
	}
}

func TestPlayerLandsOnGround(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	p.Pos.Y = 300
	p.OnGround = false

	stepPlayer(p, &component.Input{}, component.InputNone, 120)
	if p.Pos.Y != 440 || !p.OnGround || p.Vel.Y != 0 {
		t.Fatalf("expected player clamped to ground, got y=%.2f onGround=%v vy=%.2f", p.Pos.Y, p.OnGround, p.Vel.Y)
	}
}

func TestPlayerJumpsOncePerPress(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	in := &component.Input{}

	takeoffs := 0
	wasGrounded := p.OnGround
	for i := 0; i < 180; i++ {
		in.Advance(component.InputJump)
		p.Update(step, in)
		if wasGrounded && !p.OnGround {
			takeoffs++
		}
		wasGrounded = p.OnGround
	}
	if takeoffs != 1 {
		t.Fatalf("holding jump should take off once, got %d", takeoffs)
	}
	if !p.OnGround {
		t.Fatalf("expected player to have landed")
	}
}

func TestPlayerStaysInArena(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	p.Pos.X = 5
	stepPlayer(p, &component.Input{}, component.InputMoveLeft, 30)
	if p.Pos.X != 0 {
		t.Fatalf("expected x clamped to 0, got %.2f", p.Pos.X)
	}
	if p.Facing != -1 {
		t.Fatalf("expected facing left")
	}
}

func TestPlayerMoveGuards(t *testing.T) {
	tests := []struct {
		name  string
		first func(p *Player) bool
		then  func(p *Player) bool
	}{
		{"heavy blocked by light", (*Player).StartLight, (*Player).StartHeavy},
		{"dash blocked by light", (*Player).StartLight, (*Player).StartDash},
		{"launcher blocked by heavy", (*Player).StartHeavy, (*Player).StartLauncher},
		{"light blocked by dash", (*Player).StartDash, (*Player).StartLight},
		{"heavy blocked by launcher", (*Player).StartLauncher, (*Player).StartHeavy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
			if !tt.first(p) {
				t.Fatalf("first move should start")
			}
			if tt.then(p) {
				t.Fatalf("second move should be rejected")
			}
		})
	}
}

func TestPlayerLockedAbilities(t *testing.T) {
	cfg := DefaultPlayerConfig()
	cfg.CanDash = false
	cfg.CanHeavy = false
	p := NewPlayer(cfg, DefaultArena())
	if p.StartDash() || p.StartHeavy() {
		t.Fatalf("locked abilities must not start")
	}
	p.CanDash = true
	if !p.StartDash() {
		t.Fatalf("unlocked dash should start")
	}
}

func TestPlayerDash(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	if !p.StartDash() {
		t.Fatalf("dash should start")
	}
	if p.Vel.X != 740 {
		t.Fatalf("expected dash speed 740, got %.1f", p.Vel.X)
	}
	if p.Vulnerable() {
		t.Fatalf("dash should be invulnerable")
	}
	in := &component.Input{}
	stepPlayer(p, in, component.InputNone, 20)
	if p.Dashing() {
		t.Fatalf("dash should be over after 0.2 s")
	}
	if p.Vel.X != 0 {
		t.Fatalf("expected dash to stop, got vx %.1f", p.Vel.X)
	}
	if p.StartDash() {
		t.Fatalf("dash should be cooling down")
	}
	stepPlayer(p, in, component.InputNone, 60)
	if !p.DashReady() {
		t.Fatalf("dash should be ready after its cooldown")
	}
}

func TestPlayerDashCancelsAtWall(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	p.Pos.X = 950
	p.StartDash()
	stepPlayer(p, &component.Input{}, component.InputNone, 1)
	if p.Dashing() || p.Vel.X != 0 {
		t.Fatalf("dash into the wall should cancel, dashing=%v vx=%.1f", p.Dashing(), p.Vel.X)
	}

	p = NewPlayer(DefaultPlayerConfig(), DefaultArena())
	p.Pos.X = 950
	p.Facing = -1
	p.StartDash()
	stepPlayer(p, &component.Input{}, component.InputNone, 1)
	if !p.Dashing() {
		t.Fatalf("dash away from the wall should continue")
	}
}

func TestPlayerLightHitboxFollowsFeet(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	in := &component.Input{}
	p.StartLight()
	for i := 0; i < 30 && !p.Light.IsActive(); i++ {
		stepPlayer(p, in, component.InputNone, 1)
	}
	r, ok := p.Light.Hitbox.Get()
	if !ok {
		t.Fatalf("expected light hitbox while active")
	}
	if r.Left() != p.Pos.X+48 || r.Top() != p.Pos.Y-60 {
		t.Fatalf("unexpected hitbox %+v for player at %+v", r, p.Pos)
	}

	p.Pos.X += 10
	stepPlayer(p, in, component.InputMoveLeft, 1)
	r, _ = p.Light.Hitbox.Get()
	if r.Left() != p.Pos.X+48 {
		t.Fatalf("hitbox did not follow the player")
	}
	if p.Facing != 1 {
		t.Fatalf("facing must not change mid-attack")
	}
	if tip := p.AttackTip(); tip.X != r.Right() {
		t.Fatalf("attack tip should be the leading edge, got %.1f", tip.X)
	}
}

func TestPlayerBounce(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	p.StartLight()
	stepPlayer(p, &component.Input{}, component.InputNone, 8)
	p.Bounce(-260, 0.45, 0.35)
	if p.Light.State != component.ActionRecovery || math.Abs(p.Light.Timer-0.35) > 1e-9 {
		t.Fatalf("bounce should force recovery, got %v %.2f", p.Light.State, p.Light.Timer)
	}
	if p.Vulnerable() {
		t.Fatalf("bounce grants invulnerability")
	}
	if p.Vel.X != -260 {
		t.Fatalf("expected knockback velocity, got %.1f", p.Vel.X)
	}
}

func TestPlayerAnimStates(t *testing.T) {
	p := NewPlayer(DefaultPlayerConfig(), DefaultArena())
	if p.AnimState() != "idle" {
		t.Fatalf("expected idle, got %s", p.AnimState())
	}
	p.StartHeavy()
	if p.AnimState() != "windup" || p.AttackState() != "heavy:windup" {
		t.Fatalf("expected heavy windup, got %s / %s", p.AnimState(), p.AttackState())
	}
}
