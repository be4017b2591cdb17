package obj

import (
	"math"
	"math/rand"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
)

type StunConfig struct {
	Duration  float64
	Recovery  float64
	Knockback float64
}

// ShieldConfig places the shield rect in front of the boss.
type ShieldConfig struct {
	Timing  component.ShieldTiming
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// BossPhase swaps the selection table once health falls to HPFraction of max.
type BossPhase struct {
	Name          string
	HPFraction    float64
	Table         SelectionTable
	CooldownScale float64
}

// BossConfig is a complete boss variant: body, catalog and policy.
type BossConfig struct {
	Name       string
	Title      string
	MaxHP      int
	SpawnX     float64
	HalfWidth  float64
	HurtHeight float64

	// ApproachRange is the distance beyond which the boss walks instead of
	// attacking. Zero disables walking.
	ApproachRange float64
	ApproachSpeed float64
	// IdlePause is the wait when no attack is eligible.
	IdlePause float64

	InitialCooldown Jitter
	Cooldown        Jitter
	Stun            StunConfig
	// StaggerOnHit pushes the boss back when a light attack lands.
	StaggerOnHit   float64
	WaitForHazards bool
	ArenaMargin    float64
	Shield         *ShieldConfig
	// ShakeOnShockwave requests a screen shake whenever a wave spawns.
	ShakeOnShockwave float64

	Attacks []AttackSpec
	Phases  []BossPhase
	Clips   []component.Clip
}

// Attack looks up a catalog entry by name.
func (c *BossConfig) Attack(name string) (*AttackSpec, bool) {
	for i := range c.Attacks {
		if c.Attacks[i].Name == name {
			return &c.Attacks[i], true
		}
	}
	return nil, false
}

// Boss runs the shared boss state machine over its catalog.
type Boss struct {
	Pos    common.Vec2
	Facing int
	// AttackFacing is captured when a telegraph begins and holds until the
	// boss is idle again.
	AttackFacing int

	Health *component.Health
	Shield *component.Shield
	Events *component.CombatEventEmitter
	// ShakeRequested is this frame's screen shake magnitude.
	ShakeRequested float64

	cfg   *BossConfig
	arena Arena
	rng   *rand.Rand

	action  component.TimedAction
	state   bossState
	prev    bossState
	current *AttackSpec
	phase   int

	rotation         float64
	prevTipY         float64
	shockwaveSpawned bool
	launcherUses     int

	hazards []Hazard
	anim    *component.Animator
	frame   int
}

// NewBoss builds a boss from its config. The rng drives attack selection and
// cooldown jitter; seed it for reproducible fights.
func NewBoss(cfg *BossConfig, arena Arena, rng *rand.Rand) *Boss {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	b := &Boss{
		Pos:          common.V(cfg.SpawnX, arena.GroundY),
		Facing:       -1,
		AttackFacing: -1,
		Health:       component.NewHealth(cfg.MaxHP),
		cfg:          cfg,
		arena:        arena,
		rng:          rng,
		action:       component.NewTimedAction(cfg.Name, component.ActionTiming{}),
		state:        stateBossIdle,
		prev:         stateBossIdle,
		anim:         component.NewAnimator(cfg.Clips),
	}
	if cfg.Shield != nil {
		b.Shield = component.NewShield(cfg.Shield.Timing)
	}
	b.action.Cooldown = cfg.InitialCooldown.Roll(rng)
	b.anim.Play("idle")
	return b
}

func (b *Boss) Config() *BossConfig { return b.cfg }
func (b *Boss) Name() string        { return b.cfg.Name }

// Hurtbox is the body rect above the feet.
func (b *Boss) Hurtbox() common.Rect {
	return common.R(b.Pos.X-b.cfg.HalfWidth, b.Pos.Y-b.cfg.HurtHeight, 2*b.cfg.HalfWidth, b.cfg.HurtHeight)
}

// ShieldRect is the blocking area in front of the boss along AttackFacing.
func (b *Boss) ShieldRect() (common.Rect, bool) {
	if b.cfg.Shield == nil {
		return common.Rect{}, false
	}
	s := b.cfg.Shield
	return common.FacingRect(b.Pos.X, b.Pos.Y+s.OffsetY, s.OffsetX, s.Width, s.Height, b.AttackFacing), true
}

// ShieldUp reports whether the shield currently blocks.
func (b *Boss) ShieldUp() bool {
	return b.Shield.IsUp()
}

// CurrentAttack is the attack being telegraphed, performed or recovered from.
func (b *Boss) CurrentAttack() *AttackSpec {
	return b.current
}

// Striking reports whether the current attack can damage the player.
func (b *Boss) Striking() bool {
	return b.current != nil && b.action.State == component.ActionActive
}

// Action exposes the attack phase timer.
func (b *Boss) Action() *component.TimedAction {
	return &b.action
}

// AttackHitbox is the current attack rect, present for rect-based kinds.
func (b *Boss) AttackHitbox() (common.Rect, bool) {
	return b.action.Hitbox.Get()
}

// DamageApplied reports whether the current attack already landed.
func (b *Boss) DamageApplied() bool {
	return b.action.DamageApplied
}

// MarkDamageApplied latches the per-activation damage flag.
func (b *Boss) MarkDamageApplied() {
	b.action.DamageApplied = true
}

// Rotation is the weapon angle in degrees.
func (b *Boss) Rotation() float64 { return b.rotation }

func (b *Boss) arc() (ArcSwing, bool) {
	if b.current == nil {
		return ArcSwing{}, false
	}
	a, ok := b.current.Shape.(ArcSwing)
	return a, ok
}

// TipPos is the weapon tip for arc attacks.
func (b *Boss) TipPos() (common.Vec2, bool) {
	a, ok := b.arc()
	if !ok {
		return common.Vec2{}, false
	}
	return b.tipAt(a, b.rotation), true
}

func (b *Boss) tipAt(a ArcSwing, deg float64) common.Vec2 {
	pivot := common.V(b.Pos.X, b.Pos.Y+a.PivotY)
	return pivot.Add(common.FromAngle(deg, a.Reach))
}

// arcAngles returns the sweep for the locked facing.
func (b *Boss) arcAngles(a ArcSwing) (float64, float64) {
	if b.AttackFacing >= 0 {
		return a.StartAngle, a.TargetAngle
	}
	return common.MirrorAngle(a.StartAngle), common.MirrorAngle(a.TargetAngle)
}

// ParryWindow reports the narrow interval at the end of a telegraph where a
// counter turns the attack into a stun.
func (b *Boss) ParryWindow() bool {
	s := b.current
	if s == nil || s.Counter == CounterNone || s.ParryWindow <= 0 {
		return false
	}
	if b.action.State != component.ActionWindup || b.action.Timer > s.ParryWindow {
		return false
	}
	if s.ParryNeedsShield && !b.Shield.IsUp() {
		return false
	}
	return true
}

// Stunned reports whether a parry has the boss reeling.
func (b *Boss) Stunned() bool {
	return b.action.State == component.ActionStunned
}

// Parried stuns the boss, knocking it back along its locked facing. The
// interrupted attack never resumes.
func (b *Boss) Parried() {
	b.action.Stun(b.cfg.Stun.Duration, b.cfg.Stun.Recovery)
	b.Pos.X -= float64(b.AttackFacing) * b.cfg.Stun.Knockback
	b.clampToArena()
	b.setState(stateBossStunned)
}

// EndAttack cuts the current attack short and enters recovery.
func (b *Boss) EndAttack() {
	if b.current == nil || b.action.State == component.ActionStunned || b.action.State == component.ActionReady {
		return
	}
	b.action.ForceRecovery(b.current.Timing.Recovery)
	b.setState(stateBossRecovery)
}

// Stagger nudges the boss away from its locked facing.
func (b *Boss) Stagger() {
	if b.cfg.StaggerOnHit == 0 {
		return
	}
	b.Pos.X -= float64(b.AttackFacing) * b.cfg.StaggerOnHit
	b.clampToArena()
}

// LauncherUsed counts a landed launcher.
func (b *Boss) LauncherUsed() {
	b.launcherUses++
}

func (b *Boss) LauncherUses() int { return b.launcherUses }

func (b *Boss) Hazards() []Hazard { return b.hazards }

// RemoveHazard drops h from the boss's collection.
func (b *Boss) RemoveHazard(h Hazard) {
	for i, x := range b.hazards {
		if x == h {
			b.hazards = append(b.hazards[:i], b.hazards[i+1:]...)
			return
		}
	}
}

// PhaseName is the active selection phase.
func (b *Boss) PhaseName() string {
	if len(b.cfg.Phases) == 0 {
		return ""
	}
	return b.cfg.Phases[b.phase].Name
}

// StateName is the logical state for the HUD and animation boundary.
func (b *Boss) StateName() string {
	if b.state == stateBossTelegraph && b.ParryWindow() {
		return "parry"
	}
	return b.state.Name()
}

func (b *Boss) Animation() *component.Animator { return b.anim }

// Update advances the boss one fixed step against the player.
func (b *Boss) Update(dt float64, p *Player) {
	b.frame++
	b.ShakeRequested = 0
	b.Shield.Update(dt)
	b.updatePhase()

	if b.state == stateBossIdle || b.state == stateBossRecovery {
		if p.Pos.X > b.Pos.X {
			b.Facing = 1
		} else {
			b.Facing = -1
		}
	}

	if next, changed := b.action.Update(dt); changed {
		b.setState(stateForAction(next))
	}
	b.state.Update(b, p, dt)

	b.updateHazards(dt, p.Pos)
	b.clampToArena()

	b.anim.Play(b.animState(p))
	b.anim.Update(dt)
}

func (b *Boss) setState(s bossState) {
	if s == b.state {
		return
	}
	b.prev = b.state
	b.state.Exit(b)
	b.state = s
	b.state.Enter(b)
}

func (b *Boss) updatePhase() {
	for i := b.phase + 1; i < len(b.cfg.Phases); i++ {
		ph := b.cfg.Phases[i]
		if float64(b.Health.Current) <= ph.HPFraction*float64(b.Health.Max) {
			b.phase = i
		}
	}
}

func (b *Boss) table() SelectionTable {
	if len(b.cfg.Phases) == 0 {
		return nil
	}
	return b.cfg.Phases[b.phase].Table
}

func (b *Boss) cooldownScale() float64 {
	if len(b.cfg.Phases) == 0 || b.cfg.Phases[b.phase].CooldownScale <= 0 {
		return 1
	}
	return b.cfg.Phases[b.phase].CooldownScale
}

func (b *Boss) updateHazards(dt float64, target common.Vec2) {
	kept := b.hazards[:0]
	for _, h := range b.hazards {
		h.Update(dt, target)
		if !h.Finished() {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(b.hazards); i++ {
		b.hazards[i] = nil
	}
	b.hazards = kept
}

func (b *Boss) clampToArena() {
	lo, hi := b.cfg.ArenaMargin, b.arena.Width-b.cfg.ArenaMargin
	if hi < lo {
		return
	}
	b.Pos.X = common.Clamp(b.Pos.X, lo, hi)
}

// eligible applies the per-attack preconditions on top of the table.
func (b *Boss) eligible(p *Player, dist float64) func(string) bool {
	return func(name string) bool {
		spec, ok := b.cfg.Attack(name)
		if !ok {
			return false
		}
		if l, ok := spec.Shape.(LauncherStrike); ok {
			if l.MaxUses > 0 && b.launcherUses >= l.MaxUses {
				return false
			}
			if l.MaxRange > 0 && dist >= l.MaxRange {
				return false
			}
			if l.RequireGrounded && !p.OnGround {
				return false
			}
		}
		return true
	}
}

// SelectAttack draws the next attack for the given player distance.
func (b *Boss) SelectAttack(p *Player) (*AttackSpec, bool) {
	dist := math.Abs(p.Pos.X - b.Pos.X)
	name, ok := b.table().Choose(dist, b.rng, b.eligible(p, dist))
	if !ok {
		return nil, false
	}
	return b.cfg.Attack(name)
}

// StartAttack begins the named attack's telegraph if the boss is idle.
func (b *Boss) StartAttack(name string) bool {
	spec, ok := b.cfg.Attack(name)
	if !ok || b.state != stateBossIdle {
		return false
	}
	return b.startAttack(spec)
}

func (b *Boss) startAttack(spec *AttackSpec) bool {
	b.action.Timing = spec.Timing
	b.action.Timing.Cooldown = 0
	if !b.action.Start() {
		return false
	}
	b.current = spec
	b.AttackFacing = b.Facing
	b.setState(stateBossTelegraph)
	return true
}

func (b *Boss) requestShake(magnitude float64) {
	if magnitude <= 0 {
		return
	}
	if magnitude > b.ShakeRequested {
		b.ShakeRequested = magnitude
	}
	b.Events.Emit(component.CombatEvent{
		Type:      component.EventShake,
		Attacker:  component.FactionBoss,
		Source:    b.cfg.Name,
		Frame:     b.frame,
		Pos:       b.Pos,
		Magnitude: magnitude,
	})
}

// AddHazard hands a hazard to the boss, which updates and owns it from now on.
func (b *Boss) AddHazard(h Hazard) {
	b.spawn(h)
}

func (b *Boss) spawn(h Hazard) {
	b.hazards = append(b.hazards, h)
	b.Events.Emit(component.CombatEvent{
		Type:     component.EventHazardSpawn,
		Attacker: component.FactionHazard,
		Source:   string(h.Kind()),
		Frame:    b.frame,
		Pos:      h.Position(),
	})
}

func (b *Boss) spawnShockwave(spec ShockwaveSpec) {
	x := b.Pos.X + float64(b.AttackFacing)*spec.SpawnX
	b.spawn(NewShockwave(x, b.arena.GroundY, b.AttackFacing, spec, b.arena.Width))
	b.requestShake(b.cfg.ShakeOnShockwave)
}

// SpawnShockwaveOnContact fires the arc's shockwave on the frame the tip
// crosses from above the ground contact line to on or below it. It spawns at
// most once per attack.
func (b *Boss) SpawnShockwaveOnContact() bool {
	a, ok := b.arc()
	if !ok {
		return false
	}
	line := b.arena.GroundY - a.GroundContact
	tip := b.tipAt(a, b.rotation)
	crossed := b.prevTipY < line && tip.Y >= line
	b.prevTipY = tip.Y
	if !crossed || a.Shockwave == nil || b.shockwaveSpawned {
		return false
	}
	b.shockwaveSpawned = true
	b.spawnShockwave(*a.Shockwave)
	return true
}

// cast spawns the hazards of a caster shape.
func (b *Boss) cast(shape AttackShape) {
	switch s := shape.(type) {
	case MeteorShower:
		b.castMeteors(s)
	case OrbShot:
		b.castOrb(s)
	case Combo:
		for _, step := range s.Steps {
			b.cast(step)
		}
	}
}

func (b *Boss) castMeteors(s MeteorShower) {
	if s.GridStep <= 0 {
		return
	}
	parity := b.rng.Intn(2)
	var columns []float64
	i := 0
	for x := s.GridStart; x < s.GridEnd; x += s.GridStep {
		if i%2 == parity {
			columns = append(columns, x)
		}
		i++
	}
	b.rng.Shuffle(len(columns), func(i, j int) { columns[i], columns[j] = columns[j], columns[i] })
	if len(columns) > s.Count {
		columns = columns[:s.Count]
	}
	for i, x := range columns {
		b.spawn(NewMeteor(x, s.Delay+float64(i)*s.Stagger, b.arena.GroundY, s.Meteor))
	}
}

func (b *Boss) castOrb(s OrbShot) {
	pos := common.V(b.Pos.X, b.Pos.Y-s.SpawnHeight)
	if s.JitterX > 0 {
		pos.X += float64(b.rng.Intn(2*s.JitterX+1) - s.JitterX)
	}
	if s.JitterY > 0 {
		pos.Y += float64(b.rng.Intn(2*s.JitterY+1) - s.JitterY)
	}
	bounds := common.R(0, -200, b.arena.Width, b.arena.Height+400)
	b.spawn(NewOrb(pos, s.Delay, s.Orb, bounds))
}

func (b *Boss) animState(p *Player) string {
	switch b.state {
	case stateBossTelegraph:
		if b.current != nil && b.current.Kind() == AttackSpin {
			return "spin"
		}
		if b.current != nil && isCaster(b.current.Kind()) {
			return "cast"
		}
		return "windup"
	case stateBossActive:
		if b.current != nil && b.current.Kind() == AttackSpin {
			return "spin"
		}
		return "attack"
	case stateBossRecovery, stateBossStunned:
		return "recover"
	}
	if b.cfg.ApproachRange > 0 && math.Abs(p.Pos.X-b.Pos.X) > b.cfg.ApproachRange {
		return "walk"
	}
	return "idle"
}

func isCaster(k AttackKind) bool {
	return k == AttackMeteorShower || k == AttackOrb || k == AttackCombo
}
