package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

// Input holds the per-frame control state.
type Input struct {
	// Move is the stick or key axis, each component in [-1, 1]. +Y is down.
	Move cp.Vector
	// Fire is true on the frame the fire key is pressed.
	Fire bool
	// Shield is true on the frame the shield key is pressed.
	Shield bool
	Pause  bool
	Copy   bool
	// Restart reloads the encounter from disk.
	Restart bool
	// Order cycles the ally's standing order.
	Order bool
	Quit  bool
	Debug bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and the first gamepad.
func (i *Input) Update() {
	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		move.Y -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		move.Y += 1
	}

	var gpFire, gpShield, gpPause bool
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]

		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx < -0.3 || lx > 0.3 {
			move.X = lx
		}
		if ly < -0.3 || ly > 0.3 {
			move.Y = ly
		}

		gpFire = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom) ||
			inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
		gpShield = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomLeft)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.Move = move
	i.Fire = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyJ) || gpFire
	i.Shield = inpututil.IsKeyJustPressed(ebiten.KeyE) || gpShield
	i.Pause = inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
	i.Copy = inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.Restart = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.Order = inpututil.IsKeyJustPressed(ebiten.KeyQ)
	i.Debug = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyF12)
}
