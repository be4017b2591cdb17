package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/fadingmemory/assets"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/prefabs"
)

const viewSize = 512

type clipView struct {
	actor string
	clips []component.Clip
	index int
	anim  *component.Animator
	// speed scales playback; 0 pauses.
	speed  float64
	sheets map[string]*assets.Sheet
	logger *log.Logger
}

func (g *clipView) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.play(g.index + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.play(g.index - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.anim.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.speed == 0 {
			g.speed = 1
		} else {
			g.speed = 0
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.speed *= 2
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.speed /= 2
	}
	g.anim.Update(g.speed / float64(ebiten.TPS()))
	return nil
}

func (g *clipView) play(i int) {
	n := len(g.clips)
	g.index = ((i % n) + n) % n
	g.anim.Play(g.clips[g.index].Name)
	g.anim.Reset()
}

func (g *clipView) sheet(clip component.Clip) *assets.Sheet {
	if s, ok := g.sheets[clip.Name]; ok {
		return s
	}
	s, err := assets.LoadSheet(g.actor, clip.Name, max(clip.Frames, 1))
	if err != nil {
		g.logger.Warn("sprite sheet missing", "actor", g.actor, "clip", clip.Name, "err", err)
		s = assets.PlaceholderSheet(64, 64)
	}
	g.sheets[clip.Name] = s
	return s
}

func (g *clipView) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	clip := g.anim.Clip()
	s := g.sheet(clip)
	frame := s.Frame(g.anim.Frame())

	scale := float64(viewSize/2) / float64(s.FrameH)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((viewSize-float64(s.FrameW)*scale)/2, (viewSize-float64(s.FrameH)*scale)/2)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(frame, op)

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s/%s  frame %d/%d  %.3fs loop=%t\nspeed x%.2f  progress %.2f\n<- -> clip  space pause  up/down speed  r restart",
		g.actor, clip.Name, g.anim.Frame()+1, clip.Frames, clip.FrameTime, clip.Loop, g.speed, g.anim.Progress(),
	))
}

func (g *clipView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

// loadClips reads the clip table of the player or a boss prefab.
func loadClips(name string) (string, []component.Clip, error) {
	if name == "" || name == "player" {
		spec, err := prefabs.LoadSpec[prefabs.PlayerSpec]("player.yaml")
		if err != nil {
			return "", nil, err
		}
		return spec.Sheet, spec.Animations, nil
	}
	spec, err := prefabs.LoadBossSpec(name)
	if err != nil {
		return "", nil, err
	}
	sheet := spec.Sheet
	if sheet == "" {
		sheet = name
	}
	return sheet, spec.Animations, nil
}

func main() {
	var name string
	flag.StringVar(&name, "actor", "player", "player or a boss prefab name")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "clipview"})
	actor, clips, err := loadClips(name)
	if err != nil {
		logger.Fatal("load clips", "actor", name, "err", err)
	}
	if len(clips) == 0 {
		logger.Fatal("no clips", "actor", name)
	}

	g := &clipView{
		actor:  actor,
		clips:  clips,
		anim:   component.NewAnimator(clips),
		speed:  1,
		sheets: map[string]*assets.Sheet{},
		logger: logger,
	}
	g.play(0)

	ebiten.SetWindowSize(viewSize, viewSize)
	ebiten.SetWindowTitle("Clip Viewer: " + name)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal(err)
	}
}
