package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/fadingmemory/assets"
	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
	"github.com/milk9111/fadingmemory/prefabs"
	"github.com/milk9111/fadingmemory/system"
)

const (
	bossBarWidth = 420.0
	pipSize      = 14.0
)

// look is how an actor is drawn: its sprite folder and a fallback tint for
// the hurtbox outline.
type look struct {
	sheet string
	tint  color.Color
}

// Renderer draws an encounter. It only reads simulation state.
type Renderer struct {
	arena  obj.Arena
	bg     color.Color
	ground color.Color
	face   *text.GoXFace
	world  *ebiten.Image

	player look
	bosses map[string]look
	sheets map[string]*assets.Sheet

	rng    *rand.Rand
	offset common.Vec2
	ticks  int
	logger *log.Logger
}

func NewRenderer(arena obj.Arena, spec prefabs.ArenaSpec, logger *log.Logger) *Renderer {
	r := &Renderer{
		arena:  arena,
		bg:     spec.Background.Or(colornames.Midnightblue),
		ground: spec.Ground.Or(colornames.Darkslategray),
		face:   text.NewGoXFace(basicfont.Face7x13),
		player: look{sheet: "protag", tint: colornames.Lightsteelblue},
		bosses: map[string]look{},
		sheets: map[string]*assets.Sheet{},
		rng:    rand.New(rand.NewSource(1)),
		logger: logger,
	}
	if ps, err := prefabs.LoadSpec[prefabs.PlayerSpec]("player.yaml"); err == nil {
		if ps.Sheet != "" {
			r.player.sheet = ps.Sheet
		}
		r.player.tint = ps.Color.Or(r.player.tint)
	}
	return r
}

// Reset clears per-encounter visual state.
func (r *Renderer) Reset() {
	r.offset = common.Vec2{}
	r.ticks = 0
}

// Update advances screen shake and flicker timers.
func (r *Renderer) Update(dt float64, e *system.Encounter) {
	r.ticks++
	if e == nil {
		return
	}
	mag := e.Shake()
	if mag <= 0 {
		r.offset = common.Vec2{}
		return
	}
	r.offset = common.V((r.rng.Float64()*2-1)*mag, (r.rng.Float64()*2-1)*mag)
}

func (r *Renderer) Draw(screen *ebiten.Image, e *system.Encounter, debug bool) {
	w, h := int(r.arena.Width), int(r.arena.Height)
	if r.world == nil || r.world.Bounds().Dx() != w || r.world.Bounds().Dy() != h {
		r.world = ebiten.NewImage(w, h)
	}
	r.world.Fill(r.bg)
	gy := float32(r.arena.GroundY)
	vector.DrawFilledRect(r.world, 0, gy, float32(r.arena.Width), float32(r.arena.Height)-gy, r.ground, false)

	if e != nil {
		r.drawBoss(r.world, e.Boss, debug)
		r.drawHazards(r.world, e.Boss.Hazards(), debug)
		r.drawPlayer(r.world, e.Player, debug)
	}

	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(r.offset.X, r.offset.Y)
	screen.DrawImage(r.world, op)

	if e != nil {
		r.drawHUD(screen, e, debug)
	}
}

func (r *Renderer) bossLook(name string) look {
	if l, ok := r.bosses[name]; ok {
		return l
	}
	l := look{sheet: name, tint: colornames.Indianred}
	spec, err := prefabs.LoadBossSpec(name)
	if err != nil {
		r.logger.Warn("boss look unavailable", "boss", name, "err", err)
	} else {
		if spec.Sheet != "" {
			l.sheet = spec.Sheet
		}
		l.tint = spec.Color.Or(l.tint)
	}
	r.bosses[name] = l
	return l
}

// sheet returns the strip for actor/clip, caching misses as a placeholder.
func (r *Renderer) sheet(actor string, clip component.Clip) *assets.Sheet {
	key := actor + "/" + clip.Name
	if s, ok := r.sheets[key]; ok {
		return s
	}
	frames := clip.Frames
	if frames < 1 {
		frames = 1
	}
	s, err := assets.LoadSheet(actor, clip.Name, frames)
	if err != nil {
		r.logger.Warn("sprite sheet missing", "actor", actor, "clip", clip.Name, "err", err)
		s = assets.PlaceholderSheet(64, 64)
	}
	r.sheets[key] = s
	return s
}

// drawSprite draws the current animation frame standing on feet, scaled to
// height and mirrored for a left facing. A non-nil outline draws the frame's
// silhouette ring in that colour underneath.
func (r *Renderer) drawSprite(dst *ebiten.Image, actor string, anim *component.Animator, feet common.Vec2, height float64, facing int, alpha float32, outline color.Color) {
	s := r.sheet(actor, anim.Clip())
	scale := height / float64(s.FrameH)
	flip := 1.0
	if facing < 0 {
		flip = -1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(s.FrameW)/2, -float64(s.FrameH))
	op.GeoM.Scale(scale*flip, scale)
	op.GeoM.Translate(feet.X, feet.Y)

	if outline != nil {
		if img := s.Outline(anim.Frame()); img != nil {
			oop := &ebiten.DrawImageOptions{GeoM: op.GeoM}
			oop.ColorScale.ScaleWithColor(outline)
			dst.DrawImage(img, oop)
		}
	}
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(s.Frame(anim.Frame()), op)
}

func (r *Renderer) drawPlayer(dst *ebiten.Image, p *obj.Player, debug bool) {
	hb := p.Hurtbox()
	alpha := float32(1)
	if !p.Health.Vulnerable() && r.ticks%8 < 4 {
		alpha = 0.35
	}
	r.drawSprite(dst, r.player.sheet, p.Animation(), p.Pos, hb.Height*1.2, p.Facing, alpha, nil)

	if debug {
		strokeRect(dst, hb, r.player.tint, 1)
	}
	for _, a := range []*component.TimedAction{&p.Light, &p.Heavy, &p.Launcher} {
		if rect, ok := a.Hitbox.Get(); ok {
			strokeRect(dst, rect, colornames.Gold, 2)
		}
	}
	if p.Dashing() {
		vector.StrokeLine(dst, float32(p.Pos.X), float32(hb.Center().Y), float32(p.Pos.X-float64(p.Facing)*40), float32(hb.Center().Y), 3, colornames.Lightskyblue, true)
	}
}

// threatColor shows the boss attack phase: telegraph, parry window, then
// the damaging frames.
func threatColor(b *obj.Boss) color.Color {
	switch {
	case b.Striking():
		return colornames.Red
	case b.ParryWindow():
		return colornames.White
	default:
		return colornames.Orange
	}
}

func (r *Renderer) drawBoss(dst *ebiten.Image, b *obj.Boss, debug bool) {
	l := r.bossLook(b.Name())
	hb := b.Hurtbox()
	var outline color.Color
	switch {
	case b.ParryWindow():
		outline = colornames.White
	case b.Stunned():
		outline = colornames.Yellow
	}
	r.drawSprite(dst, l.sheet, b.Animation(), b.Pos, hb.Height*1.15, b.Facing, 1, outline)
	if debug {
		strokeRect(dst, hb, l.tint, 1)
	}

	if rect, ok := b.ShieldRect(); ok && b.ShieldUp() {
		fill(dst, rect, color.NRGBA{R: 150, G: 170, B: 200, A: 140})
		strokeRect(dst, rect, colornames.Lightsteelblue, 2)
	}

	if b.CurrentAttack() == nil {
		return
	}
	clr := threatColor(b)
	if tip, ok := b.TipPos(); ok {
		if a, ok := b.CurrentAttack().Shape.(obj.ArcSwing); ok {
			pivot := common.V(b.Pos.X, b.Pos.Y+a.PivotY)
			vector.StrokeLine(dst, float32(pivot.X), float32(pivot.Y), float32(tip.X), float32(tip.Y), 4, clr, true)
			vector.StrokeCircle(dst, float32(tip.X), float32(tip.Y), float32(a.TipRadius), 2, clr, true)
		}
	}
	if rect, ok := b.AttackHitbox(); ok {
		if b.Striking() {
			fill(dst, rect, color.NRGBA{R: 220, G: 30, B: 30, A: 90})
		}
		strokeRect(dst, rect, clr, 2)
	}
	if b.Stunned() {
		top := hb.Top() - 12
		for i := 0; i < 3; i++ {
			a := float64(r.ticks)*0.1 + float64(i)*2*math.Pi/3
			vector.DrawFilledCircle(dst, float32(b.Pos.X+math.Cos(a)*24), float32(top+math.Sin(a)*6), 4, colornames.Yellow, true)
		}
	}
}

func (r *Renderer) drawHazards(dst *ebiten.Image, hazards []obj.Hazard, debug bool) {
	for _, h := range hazards {
		switch h := h.(type) {
		case *obj.Meteor:
			r.drawMeteor(dst, h)
		case *obj.Orb:
			pos := h.Position()
			if !h.Launched() {
				pulse := 1 + 0.2*math.Sin(float64(r.ticks)*0.3)
				vector.StrokeCircle(dst, float32(pos.X), float32(pos.Y), float32(h.Spec.Radius*pulse), 2, colornames.Violet, true)
				continue
			}
			vector.DrawFilledCircle(dst, float32(pos.X), float32(pos.Y), float32(h.Spec.Radius), colornames.Mediumpurple, true)
			if debug {
				strokeRect(dst, h.Rect(), colornames.White, 1)
			}
		case *obj.Shockwave:
			fill(dst, h.Rect, color.NRGBA{R: 255, G: 120, B: 40, A: 150})
			strokeRect(dst, h.Rect, colornames.Orangered, 2)
		}
	}
}

func (r *Renderer) drawMeteor(dst *ebiten.Image, m *obj.Meteor) {
	x := float32(m.X)
	switch m.Stage() {
	case obj.MeteorWindup:
		gy := float32(m.GroundY)
		vector.StrokeLine(dst, x, 0, x, gy, 1, color.NRGBA{R: 255, G: 140, B: 0, A: 90}, false)
		vector.StrokeCircle(dst, x, gy, float32(m.Spec.Radius), 2, colornames.Orange, true)
	case obj.MeteorFalling:
		y := float32(m.Y)
		vector.StrokeLine(dst, x, y-40, x, y, 6, color.NRGBA{R: 255, G: 200, B: 80, A: 120}, true)
		vector.DrawFilledCircle(dst, x, y, 12, colornames.Orange, true)
	case obj.MeteorImpact:
		t := 0.0
		if m.Spec.Impact > 0 {
			t = common.Clamp(m.Timer()/m.Spec.Impact, 0, 1)
		}
		radius := m.Spec.Radius * (1.2 + 1.4*(1-t))
		vector.DrawFilledCircle(dst, x, float32(m.Y), float32(radius), color.NRGBA{R: 255, G: 90, B: 20, A: uint8(60 + 160*t)}, true)
	}
}

func (r *Renderer) drawHUD(screen *ebiten.Image, e *system.Encounter, debug bool) {
	hud := e.HUD()

	for i := 0; i < hud.PlayerMaxHP; i++ {
		x := float32(16 + float64(i)*(pipSize+4))
		if i < hud.PlayerHP {
			vector.DrawFilledRect(screen, x, 16, pipSize, pipSize, colornames.Crimson, false)
		}
		vector.StrokeRect(screen, x, 16, pipSize, pipSize, 1, colornames.White, false)
	}
	if e.Player.CanDash {
		clr := colornames.Gray
		if hud.DashReady {
			clr = colornames.Lightskyblue
		}
		r.print(screen, "DASH", 16, 36, clr)
	}

	x := (r.arena.Width - bossBarWidth) / 2
	y := r.arena.Height - 40
	title := hud.BossTitle
	if title == "" {
		title = hud.BossName
	}
	if hud.BossPhase != "" {
		title += "  [" + hud.BossPhase + "]"
	}
	r.print(screen, title, x, y-18, colornames.White)
	frac := 0.0
	if hud.BossMaxHP > 0 {
		frac = float64(hud.BossHP) / float64(hud.BossMaxHP)
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(bossBarWidth), 10, colornames.Dimgray, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(bossBarWidth*frac), 10, r.bossLook(hud.BossName).tint, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(bossBarWidth), 10, 1, colornames.White, false)

	if debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()), int(r.arena.Width)-150, 8)
		r.print(screen, fmt.Sprintf(
			"frame %d\nplayer %s\nboss %s\nparry %t  shield %t\nhazards %d  shake %.1f",
			hud.Frame, hud.PlayerState, hud.BossState, hud.ParryWindow, hud.ShieldUp, hud.Hazards, hud.Shake,
		), 16, 60, colornames.Lightgreen)
	}
}

func (r *Renderer) print(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = 14
	text.Draw(dst, s, r.face, op)
}

func fill(dst *ebiten.Image, rect common.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), clr, false)
}

func strokeRect(dst *ebiten.Image, rect common.Rect, clr color.Color, width float32) {
	vector.StrokeRect(dst, float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), width, clr, false)
}
