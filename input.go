package birch

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputSource is the device state the game polls once per frame. The default
// source reads Ebitengine; tests and scripted runs use ScriptedInput.
type InputSource interface {
	CursorPosition() (x, y int)
	MouseButtonPressed(b ebiten.MouseButton) bool
	KeyPressed(k ebiten.Key) bool

	// AppendGamepadIDs appends the connected gamepads to ids.
	AppendGamepadIDs(ids []ebiten.GamepadID) []ebiten.GamepadID
	IsStandardGamepad(id ebiten.GamepadID) bool
	GamepadButtonPressed(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool
	GamepadAxis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis) float64
	VibrateGamepad(id ebiten.GamepadID, d time.Duration, strong, weak float64)

	// Focused reports whether the window has input focus. A game treats an
	// unfocused window as hidden.
	Focused() bool
}

// ebitenInput reads the Ebitengine input state.
type ebitenInput struct{}

func (ebitenInput) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (ebitenInput) MouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

func (ebitenInput) KeyPressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

func (ebitenInput) AppendGamepadIDs(ids []ebiten.GamepadID) []ebiten.GamepadID {
	return ebiten.AppendGamepadIDs(ids)
}

func (ebitenInput) IsStandardGamepad(id ebiten.GamepadID) bool {
	return ebiten.IsStandardGamepadLayoutAvailable(id)
}

func (ebitenInput) GamepadButtonPressed(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool {
	return ebiten.IsStandardGamepadButtonPressed(id, b)
}

func (ebitenInput) GamepadAxis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis) float64 {
	return ebiten.StandardGamepadAxisValue(id, a)
}

func (ebitenInput) VibrateGamepad(id ebiten.GamepadID, d time.Duration, strong, weak float64) {
	ebiten.VibrateGamepad(id, &ebiten.VibrateGamepadOptions{
		Duration:        d,
		StrongMagnitude: strong,
		WeakMagnitude:   weak,
	})
}

func (ebitenInput) Focused() bool { return ebiten.IsFocused() }
