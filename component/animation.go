package component

import "github.com/milk9111/fadingmemory/common"

// Clip describes a named animation: how many frames it has and how long each
// frame is shown. Loop=false holds the last frame.
type Clip struct {
	Name      string  `yaml:"name"`
	Frames    int     `yaml:"frames"`
	FrameTime float64 `yaml:"frame_time"`
	Loop      bool    `yaml:"loop"`
}

// Valid reports whether the clip can be played as configured.
func (c Clip) Valid() bool {
	return c.Frames > 0 && c.FrameTime > 0
}

// PlaceholderClip is a single static frame used for missing or empty clips.
func PlaceholderClip(name string) Clip {
	return Clip{Name: name, Frames: 1, FrameTime: 0, Loop: true}
}

// Animator maps a logical state name to a clip and tracks frame progress. It
// never touches images; the renderer resolves State() to pixels.
type Animator struct {
	clips map[string]Clip

	clip        Clip
	placeholder bool
	current     int
	timer       float64
}

// NewAnimator creates an Animator from a clip table.
func NewAnimator(clips []Clip) *Animator {
	a := &Animator{clips: make(map[string]Clip, len(clips))}
	for _, c := range clips {
		a.clips[c.Name] = c
	}
	return a
}

// Play switches to the named clip, restarting it only when the name changes.
func (a *Animator) Play(name string) {
	if a == nil || (name == a.clip.Name && a.clip.Frames > 0) {
		return
	}
	c, ok := a.clips[name]
	a.placeholder = !ok || !c.Valid()
	if a.placeholder {
		c = PlaceholderClip(name)
	}
	a.clip = c
	a.current = 0
	a.timer = 0
}

// Update advances the animation by dt seconds.
func (a *Animator) Update(dt float64) {
	if a == nil || a.placeholder || a.clip.Frames <= 1 {
		return
	}
	a.timer += dt
	for a.timer >= a.clip.FrameTime {
		a.timer -= a.clip.FrameTime
		a.current++
		if a.current >= a.clip.Frames {
			if a.clip.Loop {
				a.current = 0
			} else {
				a.current = a.clip.Frames - 1
				a.timer = 0
				return
			}
		}
	}
}

// Reset sets the animation back to the first frame.
func (a *Animator) Reset() {
	if a == nil {
		return
	}
	a.current = 0
	a.timer = 0
}

func (a *Animator) State() string {
	if a == nil {
		return ""
	}
	return a.clip.Name
}

func (a *Animator) Frame() int {
	if a == nil {
		return 0
	}
	return a.current
}

func (a *Animator) Clip() Clip {
	if a == nil {
		return Clip{}
	}
	return a.clip
}

// Placeholder reports whether the current clip fell back to a static frame.
func (a *Animator) Placeholder() bool {
	return a != nil && a.placeholder
}

// Progress is the fraction of the clip shown so far, in [0, 1].
func (a *Animator) Progress() float64 {
	if a == nil || a.placeholder || a.clip.Frames <= 0 {
		return 0
	}
	if a.clip.Frames == 1 {
		return 1
	}
	pos := float64(a.current) + a.timer/a.clip.FrameTime
	return common.Clamp01(pos / float64(a.clip.Frames-1))
}
