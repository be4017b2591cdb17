package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

//go:embed protag harus helma papia sfx
var assetsFS embed.FS

const SampleRate = 44100

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

// AudioContext returns the shared audio context, creating it on first use.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// PlaceholderColor fills sheets that are missing or malformed.
var PlaceholderColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Sheet is a horizontal strip of equally sized animation frames.
type Sheet struct {
	Image       *ebiten.Image
	FrameW      int
	FrameH      int
	Frames      int
	Placeholder bool

	// Source is the decoded strip, kept for CPU-side effects.
	Source   image.Image
	outlines map[int]*ebiten.Image
}

// Frame returns frame i, clamped to the strip.
func (s *Sheet) Frame(i int) *ebiten.Image {
	if s.Frames <= 1 {
		return s.Image
	}
	if i < 0 {
		i = 0
	}
	if i >= s.Frames {
		i = s.Frames - 1
	}
	r := image.Rect(i*s.FrameW, 0, (i+1)*s.FrameW, s.FrameH)
	return s.Image.SubImage(r).(*ebiten.Image)
}

// PlaceholderSheet is a single magenta frame of the given size.
func PlaceholderSheet(w, h int) *Sheet {
	img := ebiten.NewImage(w, h)
	img.Fill(PlaceholderColor)
	return &Sheet{Image: img, FrameW: w, FrameH: h, Frames: 1, Placeholder: true}
}

// LoadSheet loads assets/<actor>/<clip>.png and splits it into frames
// columns.
func LoadSheet(actor, clip string, frames int) (*Sheet, error) {
	src, err := DecodeImage(path.Join(actor, clip+".png"))
	if err != nil {
		return nil, err
	}
	if frames <= 0 {
		frames = 1
	}
	b := src.Bounds()
	if b.Dx()%frames != 0 {
		return nil, fmt.Errorf("assets: sheet %s/%s: width %d is not %d frames", actor, clip, b.Dx(), frames)
	}
	return &Sheet{
		Image:  ebiten.NewImageFromImage(src),
		Source: src,
		FrameW: b.Dx() / frames,
		FrameH: b.Dy(),
		Frames: frames,
	}, nil
}

// LoadImage loads an embedded asset by assets-relative path.
func LoadImage(path string) (*ebiten.Image, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

// DecodeImage decodes an embedded image without touching the GPU.
func DecodeImage(path string) (image.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return img, nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	return assetsFS.ReadFile(clean)
}

// LoadAudioPlayer loads an embedded audio asset and creates an audio player.
func LoadAudioPlayer(path string) (*audio.Player, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	clean := strings.ToLower(cleanAssetPath(path))
	reader := bytes.NewReader(b)
	ctx := AudioContext()

	if strings.HasSuffix(clean, ".wav") {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), reader)
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", path, err)
		}
		return ctx.NewPlayer(stream)
	}

	// Fallback for already-decoded PCM assets in Ebiten's native format.
	return ctx.NewPlayerFromBytes(b), nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
