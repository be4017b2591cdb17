package assets

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Outline returns a white outline of frame i, generated once per frame.
// Tint it with ColorScale when drawing. Sheets without a decoded source
// return nil.
func (s *Sheet) Outline(i int) *ebiten.Image {
	if s == nil || s.Source == nil {
		return nil
	}
	if s.Frames > 1 {
		i = max(0, min(i, s.Frames-1))
	} else {
		i = 0
	}
	if img, ok := s.outlines[i]; ok {
		return img
	}
	if s.outlines == nil {
		s.outlines = map[int]*ebiten.Image{}
	}
	b := s.Source.Bounds()
	r := image.Rect(b.Min.X+i*s.FrameW, b.Min.Y, b.Min.X+(i+1)*s.FrameW, b.Min.Y+s.FrameH)
	img := ebiten.NewImageFromImage(OutlineImage(subImage(s.Source, r), 2, color.White))
	s.outlines[i] = img
	return img
}

func subImage(src image.Image, r image.Rectangle) image.Image {
	if sub, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.Set(x, y, src.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

// OutlineImage marks every transparent pixel of src that lies within
// thickness of an opaque one. The result starts at the origin.
func OutlineImage(src image.Image, thickness int, col color.Color) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	opaque := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		_, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
		return a != 0
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if opaque(x, y) {
				continue
			}
			found := false
			for yy := max(y-thickness, 0); yy <= min(y+thickness, h-1) && !found; yy++ {
				for xx := max(x-thickness, 0); xx <= min(x+thickness, w-1); xx++ {
					if opaque(xx, yy) {
						found = true
						break
					}
				}
			}
			if found {
				out.Set(x, y, col)
			}
		}
	}
	return out
}
