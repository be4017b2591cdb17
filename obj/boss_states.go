package obj

import (
	"math"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
)

// bossState is implemented by each logical boss state. The attack phase
// timer decides when states change; states only react.
type bossState interface {
	Name() string
	Enter(b *Boss)
	Exit(b *Boss)
	Update(b *Boss, p *Player, dt float64)
}

var (
	stateBossIdle      bossState = &bossIdleState{}
	stateBossTelegraph bossState = &bossTelegraphState{}
	stateBossActive    bossState = &bossActiveState{}
	stateBossRecovery  bossState = &bossRecoveryState{}
	stateBossStunned   bossState = &bossStunnedState{}
)

func stateForAction(s component.ActionState) bossState {
	switch s {
	case component.ActionWindup:
		return stateBossTelegraph
	case component.ActionActive:
		return stateBossActive
	case component.ActionRecovery:
		return stateBossRecovery
	case component.ActionStunned:
		return stateBossStunned
	default:
		return stateBossIdle
	}
}

type bossIdleState struct{}

func (bossIdleState) Name() string { return "idle" }

func (bossIdleState) Enter(b *Boss) {
	if b.current != nil {
		cd := b.cfg.Cooldown
		if b.current.Cooldown != nil {
			cd = *b.current.Cooldown
		}
		b.action.Cooldown = cd.Roll(b.rng) * b.cooldownScale()
	}
	b.current = nil
	b.action.Hitbox.Clear()
	b.AttackFacing = b.Facing
	b.shockwaveSpawned = false
}

func (bossIdleState) Exit(b *Boss) {}

func (bossIdleState) Update(b *Boss, p *Player, dt float64) {
	b.AttackFacing = b.Facing
	dist := math.Abs(p.Pos.X - b.Pos.X)
	if b.cfg.ApproachRange > 0 && dist > b.cfg.ApproachRange {
		b.Pos.X += float64(b.Facing) * b.cfg.ApproachSpeed * dt
		return
	}
	if !b.action.CanStart() {
		return
	}
	if b.cfg.WaitForHazards && len(b.hazards) > 0 {
		return
	}
	spec, ok := b.SelectAttack(p)
	if !ok {
		b.action.Cooldown = b.cfg.IdlePause
		return
	}
	b.startAttack(spec)
}

type bossTelegraphState struct{}

func (bossTelegraphState) Name() string { return "telegraph" }

func (bossTelegraphState) Enter(b *Boss) {
	b.shockwaveSpawned = false
	switch s := b.current.Shape.(type) {
	case ArcSwing:
		b.rotation, _ = b.arcAngles(s)
		b.prevTipY = b.tipAt(s, b.rotation).Y
	case SpinArea:
		b.rotation = 0
		b.action.Hitbox.Set(b.spinRect(s))
	case MeteorShower, OrbShot, Combo:
		b.cast(s)
	}
}

func (bossTelegraphState) Exit(b *Boss) {}

func (bossTelegraphState) Update(b *Boss, p *Player, dt float64) {
	if s, ok := b.current.Shape.(SpinArea); ok {
		b.rotation += s.SpinRate * dt
		b.action.Hitbox.Set(b.spinRect(s))
	}
}

type bossActiveState struct{}

func (bossActiveState) Name() string { return "active" }

func (bossActiveState) Enter(b *Boss) {
	switch s := b.current.Shape.(type) {
	case DashLunge:
		b.action.Hitbox.Set(b.lungeRect(s))
	case ShieldBash:
		b.action.Hitbox.Set(common.FacingRect(b.Pos.X, b.Pos.Y+s.OffsetY, s.OffsetX, s.Width, s.Height, b.AttackFacing))
	case LauncherStrike:
		b.action.Hitbox.Set(common.FacingRect(b.Pos.X, b.Pos.Y+s.OffsetY, s.OffsetX, s.Width, s.Height, b.AttackFacing))
	}
}

// Exit settles an uninterrupted swing at its target angle so a blade that
// reaches the ground on the final frame still raises its wave.
func (bossActiveState) Exit(b *Boss) {
	s, ok := b.current.Shape.(ArcSwing)
	if !ok || b.action.State != component.ActionRecovery || b.action.DamageApplied {
		return
	}
	_, b.rotation = b.arcAngles(s)
	b.SpawnShockwaveOnContact()
}

func (bossActiveState) Update(b *Boss, p *Player, dt float64) {
	switch s := b.current.Shape.(type) {
	case ArcSwing:
		from, to := b.arcAngles(s)
		b.rotation = common.Lerp(from, to, common.EaseOut(b.action.Progress()))
		b.SpawnShockwaveOnContact()
	case SpinArea:
		b.rotation += s.SpinRate * dt
		b.action.Hitbox.Set(b.spinRect(s))
	case DashLunge:
		b.Pos.X += float64(b.AttackFacing) * s.Speed * dt
		b.clampToArena()
		b.action.Hitbox.Set(b.lungeRect(s))
	}
}

type bossRecoveryState struct{}

func (bossRecoveryState) Name() string { return "recovery" }

func (bossRecoveryState) Enter(b *Boss) {
	b.action.Hitbox.Clear()
	if b.prev == stateBossStunned && b.cfg.Shield != nil {
		b.Shield.Drop(b.cfg.Shield.Timing.Down)
	}
}

func (bossRecoveryState) Exit(b *Boss)                          {}
func (bossRecoveryState) Update(b *Boss, p *Player, dt float64) {}

type bossStunnedState struct{}

func (bossStunnedState) Name() string                          { return "stunned" }
func (bossStunnedState) Enter(b *Boss)                         { b.action.Hitbox.Clear() }
func (bossStunnedState) Exit(b *Boss)                          {}
func (bossStunnedState) Update(b *Boss, p *Player, dt float64) {}

func (b *Boss) spinRect(s SpinArea) common.Rect {
	return common.R(b.Pos.X-s.Width/2, b.Pos.Y+s.OffsetY, s.Width, s.Height)
}

func (b *Boss) lungeRect(s DashLunge) common.Rect {
	return common.FacingRect(b.Pos.X, b.Pos.Y+s.OffsetY, 0, s.Width, s.Height, b.AttackFacing)
}
