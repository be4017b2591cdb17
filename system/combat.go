package system

import (
	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
)

const (
	// A light attack on a raised shield bounces the player off it.
	BlockBounceSpeed = 260.0
	BlockIFrames     = 0.45
	BlockRecovery    = 0.35
	// DashBlockKnockback is applied when the player dashes into the shield.
	DashBlockKnockback = 220.0
	// OrbBreakDamage is dealt to the caster when the player pops its orb.
	OrbBreakDamage = 1
)

// Resolution summarizes what happened in one resolve pass.
type Resolution struct {
	Parried      bool
	Deflected    bool
	Blocked      bool
	PlayerDamage int
	BossDamage   int
}

type resolver struct {
	p     *obj.Player
	b     *obj.Boss
	frame int
	em    *component.CombatEventEmitter
	res   Resolution
}

// Resolve arbitrates every player, boss and hazard interaction for the frame.
// Counters are checked first; a successful one cancels the boss's own damage
// for the frame.
func Resolve(p *obj.Player, b *obj.Boss, frame int, em *component.CombatEventEmitter) Resolution {
	if p == nil || b == nil {
		return Resolution{}
	}
	r := &resolver{p: p, b: b, frame: frame, em: em}

	r.res.Parried = r.counter()
	r.playerOffense()
	r.hazardCounterplay()
	if !b.Health.IsAlive() {
		return r.res
	}
	if !r.res.Parried {
		r.bossOffense()
	}
	r.hazards()
	r.dashIntoShield()
	return r.res
}

func (r *resolver) emit(evt component.CombatEvent) {
	evt.Frame = r.frame
	r.em.Emit(evt)
}

// awayFromBoss is the horizontal direction pointing from the boss to the player.
func (r *resolver) awayFromBoss() float64 {
	if r.p.Pos.X == r.b.Pos.X {
		return float64(r.b.AttackFacing)
	}
	return float64(common.Sign(r.p.Pos.X - r.b.Pos.X))
}

func (r *resolver) counter() bool {
	b, p := r.b, r.p
	if !b.ParryWindow() {
		return false
	}
	spec := b.CurrentAttack()
	switch spec.Counter {
	case obj.CounterTip:
		arc, ok := spec.Shape.(obj.ArcSwing)
		tip, hasTip := b.TipPos()
		if !ok || !hasTip || !p.Light.IsActive() {
			return false
		}
		if p.AttackTip().Dist(tip) > arc.TipRadius+spec.ParryReach {
			return false
		}
		p.Light.DamageApplied = true
		r.parry(component.EventParry, 0)
	case obj.CounterHitbox:
		light, ok := p.Light.Hitbox.Get()
		if !ok {
			return false
		}
		target, ok := b.AttackHitbox()
		if !ok {
			target = b.Hurtbox()
		}
		if !light.Intersects(target) {
			return false
		}
		p.Light.DamageApplied = true
		r.parry(component.EventParry, 0)
	case obj.CounterDeflect:
		heavy, ok := p.Heavy.Hitbox.Get()
		shield, hasShield := b.ShieldRect()
		if !ok || !hasShield || !b.ShieldUp() || !heavy.Intersects(shield) {
			return false
		}
		p.Heavy.DamageApplied = true
		r.parry(component.EventDeflect, p.Config().Heavy.Damage)
		b.Shield.Break()
		r.res.Deflected = true
	default:
		return false
	}
	return true
}

func (r *resolver) parry(kind component.CombatEventType, damage int) {
	r.b.Parried()
	r.emit(component.CombatEvent{
		Type:     kind,
		Attacker: component.FactionPlayer,
		Source:   "player",
		Target:   r.b.Name(),
		Pos:      r.b.Pos,
	})
	if damage > 0 {
		r.damageBoss(damage, "deflect")
	}
}

func (r *resolver) damageBoss(amount int, source string) {
	evt := component.CombatEvent{
		Type:     component.EventHit,
		Attacker: component.FactionPlayer,
		Source:   source,
		Target:   r.b.Name(),
		Damage:   amount,
		Frame:    r.frame,
		Pos:      r.b.Pos,
	}
	if r.b.Health.Damage(amount, evt) {
		r.res.BossDamage += amount
		r.em.Emit(evt)
	}
}

func (r *resolver) block(source string) {
	r.res.Blocked = true
	r.emit(component.CombatEvent{
		Type:     component.EventBlock,
		Attacker: component.FactionPlayer,
		Source:   source,
		Target:   r.b.Name(),
		Pos:      r.p.Pos,
	})
}

func (r *resolver) playerOffense() {
	p, b := r.p, r.b
	if !b.Health.IsAlive() {
		return
	}
	shield, hasShield := b.ShieldRect()
	shieldUp := hasShield && b.ShieldUp()
	hurt := b.Hurtbox()

	if light, ok := p.Light.Hitbox.Get(); ok && !p.Light.DamageApplied {
		switch {
		case shieldUp && light.Intersects(shield):
			p.Light.DamageApplied = true
			p.Bounce(r.awayFromBoss()*BlockBounceSpeed, BlockIFrames, BlockRecovery)
			r.block("light")
		case light.Intersects(hurt):
			p.Light.DamageApplied = true
			r.damageBoss(p.Config().Light.Damage, "light")
			b.Stagger()
		}
	}

	if heavy, ok := p.Heavy.Hitbox.Get(); ok && !p.Heavy.DamageApplied {
		if heavy.Intersects(hurt) {
			p.Heavy.DamageApplied = true
			r.damageBoss(p.Config().Heavy.Damage, "heavy")
			b.Shield.Break()
		}
	}

	if launch, ok := p.Launcher.Hitbox.Get(); ok && !p.Launcher.DamageApplied {
		switch {
		case shieldUp && launch.Intersects(shield):
			p.Launcher.DamageApplied = true
			r.block("launcher")
		case launch.Intersects(hurt):
			p.Launcher.DamageApplied = true
			r.damageBoss(p.Config().Launcher.Damage, "launcher")
		}
	}
}

// hazardCounterplay lets the light attack pop orbs and knock down meteors.
func (r *resolver) hazardCounterplay() {
	light, ok := r.p.Light.Hitbox.Get()
	if !ok {
		return
	}
	for _, h := range append([]obj.Hazard(nil), r.b.Hazards()...) {
		switch hz := h.(type) {
		case *obj.Orb:
			if !light.Intersects(hz.Rect()) {
				continue
			}
			r.b.RemoveHazard(hz)
			r.emit(component.CombatEvent{
				Type:     component.EventHazardBreak,
				Attacker: component.FactionPlayer,
				Source:   "light",
				Target:   string(obj.HazardOrb),
				Pos:      hz.Pos,
			})
			r.damageBoss(OrbBreakDamage, "orb")
		case *obj.Meteor:
			if !light.ContainsPoint(hz.Position()) || !hz.ForceImpact() {
				continue
			}
			r.emit(component.CombatEvent{
				Type:     component.EventHazardBreak,
				Attacker: component.FactionPlayer,
				Source:   "light",
				Target:   string(obj.HazardMeteor),
				Pos:      hz.Position(),
			})
		}
	}
}

// hurtPlayer applies a boss-side hit unless the player is invulnerable.
func (r *resolver) hurtPlayer(hit obj.HitSpec, dir float64, attacker component.Faction, source string) bool {
	p := r.p
	if !p.Vulnerable() {
		return false
	}
	evt := component.CombatEvent{
		Type:      component.EventDamageApplied,
		Attacker:  attacker,
		Source:    source,
		Target:    "player",
		Damage:    hit.Damage,
		Frame:     r.frame,
		Pos:       p.Pos,
		Knockback: hit.Knockback,
	}
	if !p.Health.ApplyDamage(hit.Damage, evt) {
		return false
	}
	p.Health.StartIFrames(hit.IFrames)
	if hit.Knockback != 0 {
		p.Knockback(dir * hit.Knockback)
	}
	r.res.PlayerDamage += hit.Damage
	r.em.Emit(evt)
	return true
}

func (r *resolver) bossOffense() {
	b, p := r.b, r.p
	spec := b.CurrentAttack()
	if !b.Striking() || b.DamageApplied() {
		return
	}
	hurt := p.Hurtbox()
	hit := false
	arc, isArc := spec.Shape.(obj.ArcSwing)
	if isArc {
		tip, _ := b.TipPos()
		hit = common.RectPointDistance(hurt, tip) <= arc.TipRadius
	} else if box, ok := b.AttackHitbox(); ok {
		hit = box.Intersects(hurt)
	}
	if !hit {
		return
	}
	if !r.hurtPlayer(spec.Hit, float64(b.AttackFacing), component.FactionBoss, spec.Name) {
		return
	}
	b.MarkDamageApplied()

	if l, ok := spec.Shape.(obj.LauncherStrike); ok {
		p.Launch(l.LaunchX*float64(b.AttackFacing), l.LaunchY)
		b.LauncherUsed()
		r.emit(component.CombatEvent{
			Type:     component.EventLaunch,
			Attacker: component.FactionBoss,
			Source:   spec.Name,
			Target:   "player",
			Pos:      p.Pos,
		})
	}
	if spec.EndOnHit {
		b.EndAttack()
	}
}

// hazards applies hazard contact. A hazard is consumed the frame its hit
// test fires, even when the player is invulnerable and takes no damage.
func (r *resolver) hazards() {
	hurt := r.p.Hurtbox()
	for _, h := range append([]obj.Hazard(nil), r.b.Hazards()...) {
		if !h.Hits(hurt) {
			continue
		}
		r.b.RemoveHazard(h)
		dir := float64(common.Sign(r.p.Pos.X - h.Position().X))
		r.hurtPlayer(h.HitSpec(), dir, component.FactionHazard, string(h.Kind()))
	}
}

func (r *resolver) dashIntoShield() {
	p, b := r.p, r.b
	shield, ok := b.ShieldRect()
	if !ok || !p.Dashing() || !b.ShieldUp() || !p.Hurtbox().Intersects(shield) {
		return
	}
	p.EndDash()
	p.Knockback(r.awayFromBoss() * DashBlockKnockback)
	r.block("dash")
}
