package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/fadingmemory/component"
)

// Input maps the keyboard and the first gamepad onto held controls.
//
//	A/D or arrows  move        W or Up  jump
//	J              light       K        heavy
//	S+J            launcher    Space    dash
type Input struct {
	gamepads []ebiten.GamepadID
}

func keyDown(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// Poll returns the controls held this frame. Edge detection happens in
// component.Input.
func (i *Input) Poll() component.InputAction {
	var held component.InputAction

	left := keyDown(ebiten.KeyA, ebiten.KeyArrowLeft)
	right := keyDown(ebiten.KeyD, ebiten.KeyArrowRight)
	jump := keyDown(ebiten.KeyW, ebiten.KeyArrowUp)
	light := keyDown(ebiten.KeyJ)
	heavy := keyDown(ebiten.KeyK)
	dash := keyDown(ebiten.KeySpace, ebiten.KeyShiftLeft)
	down := keyDown(ebiten.KeyS, ebiten.KeyArrowDown)

	i.gamepads = ebiten.AppendGamepadIDs(i.gamepads[:0])
	if len(i.gamepads) > 0 {
		gid := i.gamepads[0]

		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 {
			left = true
		} else if leftX > 0.3 {
			right = true
		}
		if ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical) > 0.5 {
			down = true
		}

		jump = jump || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		light = light || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightLeft)
		heavy = heavy || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightTop)
		dash = dash || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	if left {
		held |= component.InputMoveLeft
	}
	if right {
		held |= component.InputMoveRight
	}
	if jump {
		held |= component.InputJump
	}
	switch {
	case light && down:
		held |= component.InputLauncher
	case light:
		held |= component.InputLight
	}
	if heavy {
		held |= component.InputHeavy
	}
	if dash {
		held |= component.InputDash
	}
	return held
}
