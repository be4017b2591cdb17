package obj

import (
	"math"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
)

// Arena is the playfield shared by every actor of an encounter.
type Arena struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	GroundY float64 `yaml:"ground_y"`
}

// DefaultArena matches the 960x540 screen with the ground at y=440.
func DefaultArena() Arena {
	return Arena{Width: 960, Height: 540, GroundY: 440}
}

// MeleeConfig places a player attack hitbox relative to the feet.
type MeleeConfig struct {
	Timing  component.ActionTiming
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
	Damage  int
}

func (m MeleeConfig) rect(pos common.Vec2, facing int) common.Rect {
	return common.FacingRect(pos.X, pos.Y+m.OffsetY, m.OffsetX, m.Width, m.Height, facing)
}

type DashConfig struct {
	Speed        float64
	Duration     float64
	Cooldown     float64
	Invulnerable bool
	// WallMargin cancels the dash this close to the arena edge.
	WallMargin float64
}

type PlayerConfig struct {
	MaxHP         int
	Spawn         common.Vec2
	HurtWidth     float64
	HurtHeight    float64
	Gravity       float64
	MoveSpeed     float64
	MaxSpeedX     float64
	JumpSpeed     float64
	JumpHold      float64
	JumpHoldAccel float64

	Light    MeleeConfig
	Heavy    MeleeConfig
	Launcher MeleeConfig
	Dash     DashConfig

	CanDash     bool
	CanHeavy    bool
	CanLauncher bool

	Clips []component.Clip
}

// DefaultPlayerConfig is the campaign protagonist.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		MaxHP:         10,
		Spawn:         common.V(220, 440),
		HurtWidth:     40,
		HurtHeight:    80,
		Gravity:       1300,
		MoveSpeed:     200,
		MaxSpeedX:     400,
		JumpSpeed:     300,
		JumpHold:      0.3,
		JumpHoldAccel: 900,
		Light: MeleeConfig{
			Timing:  component.ActionTiming{Windup: 0.10, Active: 0.12, Recovery: 0.20},
			OffsetX: 48, OffsetY: -60, Width: 56, Height: 24, Damage: 1,
		},
		Heavy: MeleeConfig{
			Timing:  component.ActionTiming{Windup: 0.25, Active: 0.18, Recovery: 0.45, Cooldown: 3.2},
			OffsetX: 70, OffsetY: -62, Width: 100, Height: 28, Damage: 2,
		},
		Launcher: MeleeConfig{
			Timing:  component.ActionTiming{Windup: 0.12, Active: 0.14, Recovery: 0.28},
			OffsetX: 32, OffsetY: -72, Width: 36, Height: 48, Damage: 1,
		},
		Dash: DashConfig{
			Speed: 740, Duration: 0.20, Cooldown: 0.65, Invulnerable: true, WallMargin: 20,
		},
		CanDash:     true,
		CanHeavy:    true,
		CanLauncher: true,
	}
}

// Player is the controllable character. Its light, heavy, launcher and dash
// moves are independent TimedActions gated by explicit guards.
type Player struct {
	Pos      common.Vec2
	Vel      common.Vec2
	Facing   int
	OnGround bool

	Health *component.Health

	Light    component.TimedAction
	Heavy    component.TimedAction
	Launcher component.TimedAction
	Dash     component.TimedAction

	CanDash     bool
	CanHeavy    bool
	CanLauncher bool

	cfg      PlayerConfig
	arena    Arena
	jumpHold float64
	anim     *component.Animator
}

func NewPlayer(cfg PlayerConfig, arena Arena) *Player {
	p := &Player{
		Pos:         cfg.Spawn,
		Facing:      1,
		OnGround:    true,
		Health:      component.NewHealth(cfg.MaxHP),
		Light:       component.NewTimedAction("light", cfg.Light.Timing),
		Heavy:       component.NewTimedAction("heavy", cfg.Heavy.Timing),
		Launcher:    component.NewTimedAction("launcher", cfg.Launcher.Timing),
		Dash:        component.NewTimedAction("dash", component.ActionTiming{Active: cfg.Dash.Duration, Cooldown: cfg.Dash.Cooldown}),
		CanDash:     cfg.CanDash,
		CanHeavy:    cfg.CanHeavy,
		CanLauncher: cfg.CanLauncher,
		cfg:         cfg,
		arena:       arena,
		anim:        component.NewAnimator(cfg.Clips),
	}
	if p.Pos.Y == 0 {
		p.Pos.Y = arena.GroundY
	}
	p.anim.Play("idle")
	return p
}

func (p *Player) Config() PlayerConfig { return p.cfg }

// Hurtbox is the rect above the player's feet.
func (p *Player) Hurtbox() common.Rect {
	return common.R(p.Pos.X-p.cfg.HurtWidth/2, p.Pos.Y-p.cfg.HurtHeight, p.cfg.HurtWidth, p.cfg.HurtHeight)
}

func (p *Player) Dashing() bool {
	return p.Dash.State == component.ActionWindup || p.Dash.State == component.ActionActive
}

// Vulnerable reports whether boss damage can land this frame.
func (p *Player) Vulnerable() bool {
	return p.Health.Vulnerable() && !(p.cfg.Dash.Invulnerable && p.Dashing())
}

// AttackTip is the leading edge midpoint of the active melee hitbox, or the
// feet when nothing is out.
func (p *Player) AttackTip() common.Vec2 {
	for _, a := range []*component.TimedAction{&p.Light, &p.Heavy, &p.Launcher} {
		r, ok := a.Hitbox.Get()
		if !ok {
			continue
		}
		c := r.Center()
		if p.Facing >= 0 {
			return common.V(r.Right(), c.Y)
		}
		return common.V(r.Left(), c.Y)
	}
	return p.Pos
}

func (p *Player) lightBusy() bool    { return p.Light.IsBusy() }
func (p *Player) heavyBusy() bool    { return p.Heavy.IsBusy() }
func (p *Player) launcherBusy() bool { return p.Launcher.IsBusy() }

// StartLight begins a light attack unless another move holds the player.
func (p *Player) StartLight() bool {
	if p.Dashing() || p.heavyBusy() || p.launcherBusy() {
		return false
	}
	return p.Light.Start()
}

// StartHeavy begins the heavy attack. Its cooldown starts with the swing.
func (p *Player) StartHeavy() bool {
	if !p.CanHeavy || p.Dashing() || p.lightBusy() || p.launcherBusy() {
		return false
	}
	return p.Heavy.Start()
}

// StartLauncher begins the upward launcher strike.
func (p *Player) StartLauncher() bool {
	if !p.CanLauncher || p.Dashing() || p.Light.State != component.ActionReady || p.Heavy.State != component.ActionReady {
		return false
	}
	return p.Launcher.Start()
}

// StartDash bursts forward. Every attack must be fully ready.
func (p *Player) StartDash() bool {
	if !p.CanDash || p.Dashing() {
		return false
	}
	if p.Light.State != component.ActionReady || p.Heavy.State != component.ActionReady || p.Launcher.State != component.ActionReady {
		return false
	}
	if !p.Dash.Start() {
		return false
	}
	p.Vel.X = p.cfg.Dash.Speed * float64(p.Facing)
	if p.cfg.Dash.Invulnerable {
		p.Health.StartIFrames(p.cfg.Dash.Duration)
	}
	return true
}

// EndDash stops a dash early.
func (p *Player) EndDash() {
	if !p.Dashing() {
		return
	}
	p.Dash.Reset()
	p.Vel.X = 0
}

// Knockback sets horizontal velocity directly.
func (p *Player) Knockback(vx float64) {
	p.Vel.X = vx
}

// Launch throws the player into the air.
func (p *Player) Launch(vx, vy float64) {
	p.Vel.X = vx
	p.Vel.Y = vy
	p.OnGround = false
	p.jumpHold = 0
}

// Bounce punishes a blocked light attack: knockback plus forced recovery.
func (p *Player) Bounce(vx, iframes, recovery float64) {
	p.Health.StartIFrames(iframes)
	p.Vel.X = vx
	p.Light.ForceRecovery(recovery)
}

func (p *Player) canMove() bool {
	return !p.lightBusy() && !p.heavyBusy() && !p.launcherBusy() && !p.Dashing()
}

// Update advances the player one fixed step.
func (p *Player) Update(dt float64, in *component.Input) {
	p.Health.Tick(dt)

	if in.Held(component.InputLauncher) {
		p.StartLauncher()
	}

	p.Vel.Y += p.cfg.Gravity * dt

	if p.canMove() {
		switch in.MoveAxis() {
		case -1:
			p.Facing = -1
			p.Vel.X = -p.cfg.MoveSpeed
		case 1:
			p.Facing = 1
			p.Vel.X = p.cfg.MoveSpeed
		default:
			p.Vel.X = 0
		}

		if in.Pressed(component.InputJump) && p.OnGround {
			p.Vel.Y = -p.cfg.JumpSpeed
			p.jumpHold = p.cfg.JumpHold
			p.OnGround = false
		}
		if !in.Held(component.InputJump) {
			p.jumpHold = 0
		}
		if p.jumpHold > 0 {
			p.Vel.Y -= p.cfg.JumpHoldAccel * dt
			p.jumpHold -= dt
		}

		if in.Held(component.InputLight) {
			p.StartLight()
		}
		if in.Held(component.InputDash) {
			p.StartDash()
		}
		if in.Held(component.InputHeavy) {
			p.StartHeavy()
		}
	} else if p.lightBusy() || p.heavyBusy() || p.launcherBusy() {
		p.Vel.X = 0
	}

	p.updateDash(dt)
	p.updateMelee(&p.Light, p.cfg.Light, dt)
	p.updateMelee(&p.Heavy, p.cfg.Heavy, dt)
	p.updateMelee(&p.Launcher, p.cfg.Launcher, dt)

	if !p.Dashing() && math.Abs(p.Vel.X) > p.cfg.MaxSpeedX {
		p.Vel.X = p.cfg.MaxSpeedX * float64(common.Sign(p.Vel.X))
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Pos.X = common.Clamp(p.Pos.X, 0, p.arena.Width)

	if p.Pos.Y >= p.arena.GroundY {
		p.Pos.Y = p.arena.GroundY
		p.Vel.Y = 0
		p.OnGround = true
	}

	p.anim.Play(p.AnimState())
	p.anim.Update(dt)
}

func (p *Player) updateDash(dt float64) {
	if !p.Dashing() {
		p.Dash.Update(dt)
		return
	}
	margin := p.cfg.Dash.WallMargin
	if (p.Pos.X < margin && p.Vel.X < 0) || (p.Pos.X > p.arena.Width-margin && p.Vel.X > 0) {
		p.EndDash()
		return
	}
	if next, changed := p.Dash.Update(dt); changed && next != component.ActionActive {
		p.Vel.X = 0
	}
}

// updateMelee re-anchors the hitbox to the feet on every active frame.
func (p *Player) updateMelee(a *component.TimedAction, cfg MeleeConfig, dt float64) {
	next, changed := a.Update(dt)
	if changed && next == component.ActionActive {
		a.Hitbox.Set(cfg.rect(p.Pos, p.Facing))
		a.DamageApplied = false
		return
	}
	if a.IsActive() {
		a.Hitbox.Set(cfg.rect(p.Pos, p.Facing))
	}
}

// AnimState is the logical animation name for the renderer.
func (p *Player) AnimState() string {
	switch {
	case p.Dashing():
		return "dash"
	case p.Heavy.State == component.ActionWindup || p.Light.State == component.ActionWindup || p.Launcher.State == component.ActionWindup:
		return "windup"
	case p.Heavy.IsActive() || p.Light.IsActive() || p.Launcher.IsActive():
		return "attack"
	case p.Heavy.State == component.ActionRecovery || p.Light.State == component.ActionRecovery || p.Launcher.State == component.ActionRecovery:
		return "recovery"
	case !p.OnGround:
		return "jump"
	case math.Abs(p.Vel.X) > 10:
		return "walk"
	default:
		return "idle"
	}
}

// Animation exposes the animator for the renderer.
func (p *Player) Animation() *component.Animator { return p.anim }

// AttackState names the most significant player action for the HUD.
func (p *Player) AttackState() string {
	for _, a := range []*component.TimedAction{&p.Heavy, &p.Launcher, &p.Light} {
		if a.State != component.ActionReady {
			return a.Name + ":" + a.State.String()
		}
	}
	if p.Dashing() {
		return "dash"
	}
	return "ready"
}

// DashReady reports whether a dash could start now.
func (p *Player) DashReady() bool {
	return p.CanDash && p.Dash.Cooldown <= 0 && !p.Dashing()
}
