package main

import (
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/fadingmemory/assets"
	"github.com/milk9111/fadingmemory/component"
)

var eventSounds = map[component.CombatEventType]string{
	component.EventHit:           "sfx/hit.wav",
	component.EventDamageApplied: "sfx/hit.wav",
	component.EventParry:         "sfx/parry.wav",
	component.EventDeflect:       "sfx/parry.wav",
	component.EventBlock:         "sfx/block.wav",
	component.EventHazardBreak:   "sfx/block.wav",
}

// Sounds plays a short effect for combat events. Effects that fail to load
// are skipped.
type Sounds struct {
	players map[component.CombatEventType]*audio.Player
	logger  *log.Logger
}

func NewSounds(logger *log.Logger) *Sounds {
	s := &Sounds{players: map[component.CombatEventType]*audio.Player{}, logger: logger}
	loaded := map[string]*audio.Player{}
	for evt, path := range eventSounds {
		p, ok := loaded[path]
		if !ok {
			var err error
			p, err = assets.LoadAudioPlayer(path)
			if err != nil {
				logger.Warn("sound unavailable", "path", path, "err", err)
			}
			if p != nil {
				p.SetVolume(0.5)
			}
			loaded[path] = p
		}
		if p != nil {
			s.players[evt] = p
		}
	}
	return s
}

func (s *Sounds) OnEvent(evt component.CombatEvent) {
	p := s.players[evt.Type]
	if p == nil {
		return
	}
	if err := p.Rewind(); err != nil {
		s.logger.Debug("rewind sound", "event", evt.Type, "err", err)
		return
	}
	p.Play()
}
