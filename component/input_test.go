package component

import "testing"

func TestInputEdges(t *testing.T) {
	var in Input
	in.Advance(InputJump | InputMoveRight)
	if !in.Pressed(InputJump) || !in.Held(InputJump) {
		t.Fatalf("jump should be pressed and held on the first frame")
	}
	in.Advance(InputJump)
	if in.Pressed(InputJump) {
		t.Fatalf("jump should not be pressed on the second held frame")
	}
	if !in.Released(InputMoveRight) {
		t.Fatalf("move right should be released")
	}
	if in.MoveAxis() != 0 {
		t.Fatalf("no direction held, got %d", in.MoveAxis())
	}
}

func TestInputNames(t *testing.T) {
	cases := []struct {
		name string
		want InputAction
	}{
		{"left", InputMoveLeft},
		{" Dash ", InputDash},
		{"launcher", InputLauncher},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ParseInputAction(c.name)
			if !ok || got != c.want {
				t.Fatalf("expected %v, got %v ok=%v", c.want, got, ok)
			}
		})
	}
	if _, ok := ParseInputAction("teleport"); ok {
		t.Fatalf("unknown control should not parse")
	}
	if s := (InputLight | InputHeavy).String(); s != "light+heavy" {
		t.Fatalf("unexpected string %q", s)
	}
}
