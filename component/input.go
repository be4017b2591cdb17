package component

import "strings"

// InputAction is a bit set of logical controls.
type InputAction uint16

const (
	InputMoveLeft InputAction = 1 << iota
	InputMoveRight
	InputJump
	InputLight
	InputHeavy
	InputDash
	InputLauncher

	InputNone InputAction = 0
)

var inputNames = []struct {
	action InputAction
	name   string
}{
	{InputMoveLeft, "left"},
	{InputMoveRight, "right"},
	{InputJump, "jump"},
	{InputLight, "light"},
	{InputHeavy, "heavy"},
	{InputDash, "dash"},
	{InputLauncher, "launcher"},
}

func (a InputAction) String() string {
	if a == InputNone {
		return "none"
	}
	parts := make([]string, 0, len(inputNames))
	for _, n := range inputNames {
		if a&n.action != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseInputAction maps a control name to its action.
func ParseInputAction(name string) (InputAction, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range inputNames {
		if n.name == name {
			return n.action, true
		}
	}
	return InputNone, false
}

// Input is the per-frame snapshot of held controls plus the previous frame's,
// which gives edge detection without touching hardware.
type Input struct {
	held InputAction
	prev InputAction
}

// Advance shifts the current snapshot to previous and records held.
func (in *Input) Advance(held InputAction) {
	if in == nil {
		return
	}
	in.prev = in.held
	in.held = held
}

func (in *Input) Held(a InputAction) bool {
	return in != nil && in.held&a != 0
}

// Pressed is true on the first frame a control is held.
func (in *Input) Pressed(a InputAction) bool {
	return in != nil && in.held&a != 0 && in.prev&a == 0
}

func (in *Input) Released(a InputAction) bool {
	return in != nil && in.held&a == 0 && in.prev&a != 0
}

// MoveAxis is -1, 0 or 1. Left wins when both directions are held.
func (in *Input) MoveAxis() int {
	switch {
	case in.Held(InputMoveLeft):
		return -1
	case in.Held(InputMoveRight):
		return 1
	default:
		return 0
	}
}

func (in *Input) Snapshot() InputAction {
	if in == nil {
		return InputNone
	}
	return in.held
}
