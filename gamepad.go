package birch

import (
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// gamepadButtons maps lower-cased button aliases to the standard layout.
var gamepadButtons = map[string]ebiten.StandardGamepadButton{
	"a":           ebiten.StandardGamepadButtonRightBottom,
	"b":           ebiten.StandardGamepadButtonRightRight,
	"x":           ebiten.StandardGamepadButtonRightLeft,
	"y":           ebiten.StandardGamepadButtonRightTop,
	"lb":          ebiten.StandardGamepadButtonFrontTopLeft,
	"rb":          ebiten.StandardGamepadButtonFrontTopRight,
	"lt":          ebiten.StandardGamepadButtonFrontBottomLeft,
	"rt":          ebiten.StandardGamepadButtonFrontBottomRight,
	"back":        ebiten.StandardGamepadButtonCenterLeft,
	"view":        ebiten.StandardGamepadButtonCenterLeft,
	"start":       ebiten.StandardGamepadButtonCenterRight,
	"left stick":  ebiten.StandardGamepadButtonLeftStick,
	"right stick": ebiten.StandardGamepadButtonRightStick,
	"up":          ebiten.StandardGamepadButtonLeftTop,
	"down":        ebiten.StandardGamepadButtonLeftBottom,
	"left":        ebiten.StandardGamepadButtonLeftLeft,
	"right":       ebiten.StandardGamepadButtonLeftRight,
	"home":        ebiten.StandardGamepadButtonCenterCenter,
	"guide":       ebiten.StandardGamepadButtonCenterCenter,
	"xbox":        ebiten.StandardGamepadButtonCenterCenter,
}

var gamepadSticks = map[string][2]ebiten.StandardGamepadAxis{
	"left":  {ebiten.StandardGamepadAxisLeftStickHorizontal, ebiten.StandardGamepadAxisLeftStickVertical},
	"right": {ebiten.StandardGamepadAxisRightStickHorizontal, ebiten.StandardGamepadAxisRightStickVertical},
}

// VibrationOptions sets the motor magnitudes of a rumble, in 0..1.
type VibrationOptions struct {
	Strong, Weak float64
}

// padState is a coarse snapshot used to detect which pad is in use.
type padState struct {
	buttons uint32
	axes    [4]int16
}

// Gamepad answers queries against the preferred connected standard-layout
// gamepad. With several pads connected, the one whose state changed most
// recently is preferred; ties go to the lowest ID.
type Gamepad struct {
	Emitter

	// Deadzone is the stick magnitude below which VectorQuery returns zero.
	Deadzone float64

	source    InputSource
	connected bool
	active    ebiten.GamepadID
	pinned    *ebiten.GamepadID

	ids     []ebiten.GamepadID
	states  map[ebiten.GamepadID]padState
	changed map[ebiten.GamepadID]uint64
	poll    uint64
}

func newGamepad(src InputSource) *Gamepad {
	return &Gamepad{
		Deadzone: 0.15,
		source:   src,
		states:   make(map[ebiten.GamepadID]padState),
		changed:  make(map[ebiten.GamepadID]uint64),
	}
}

// WithGamepad pins queries to id while it is connected.
func (g *Gamepad) WithGamepad(id ebiten.GamepadID) *Gamepad {
	g.pinned = &id
	return g
}

// PreferAny removes a pin set by WithGamepad.
func (g *Gamepad) PreferAny() *Gamepad {
	g.pinned = nil
	return g
}

// Connected reports whether a standard gamepad is available.
func (g *Gamepad) Connected() bool { return g.connected }

// ID returns the preferred gamepad.
func (g *Gamepad) ID() (ebiten.GamepadID, bool) {
	return g.active, g.connected
}

// update polls the pads, tracks state changes and emits connection events.
func (g *Gamepad) update() {
	g.poll++
	all := g.source.AppendGamepadIDs(g.ids[:0])
	g.ids = all[:0]
	for _, id := range all {
		if g.source.IsStandardGamepad(id) {
			g.ids = append(g.ids, id)
		}
	}

	live := make(map[ebiten.GamepadID]bool, len(g.ids))
	for _, id := range g.ids {
		live[id] = true
		st := g.snapshot(id)
		if prev, ok := g.states[id]; !ok || prev != st {
			g.changed[id] = g.poll
		}
		g.states[id] = st
	}
	for id := range g.states {
		if !live[id] {
			delete(g.states, id)
			delete(g.changed, id)
		}
	}

	was := g.connected
	g.connected = len(g.ids) > 0
	if g.connected {
		g.active = g.prefer(live)
	}
	switch {
	case g.connected && !was:
		g.Emit(Event{Kind: EventGamepadConnected})
	case !g.connected && was:
		g.Emit(Event{Kind: EventGamepadDisconnected})
	}
}

func (g *Gamepad) prefer(live map[ebiten.GamepadID]bool) ebiten.GamepadID {
	if g.pinned != nil && live[*g.pinned] {
		return *g.pinned
	}
	best := g.ids[0]
	for _, id := range g.ids[1:] {
		c, bc := g.changed[id], g.changed[best]
		if c > bc || (c == bc && id < best) {
			best = id
		}
	}
	return best
}

func (g *Gamepad) snapshot(id ebiten.GamepadID) padState {
	var st padState
	for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
		if g.source.GamepadButtonPressed(id, b) {
			st.buttons |= 1 << uint(b)
		}
	}
	for i := range st.axes {
		st.axes[i] = int16(math.Round(g.source.GamepadAxis(id, ebiten.StandardGamepadAxis(i)) * 100))
	}
	return st
}

// Lookup resolves a button alias, case-insensitively.
func (g *Gamepad) Lookup(name string) (ebiten.StandardGamepadButton, error) {
	b, ok := gamepadButtons[strings.ToLower(name)]
	if !ok {
		return 0, &ConfigError{Field: "gamepad button", Value: name}
	}
	return b, nil
}

// Query reports whether every named button is held on the preferred pad.
// It is false while no pad is connected. Unknown names panic with a
// *ConfigError.
func (g *Gamepad) Query(names ...string) bool {
	buttons := make([]ebiten.StandardGamepadButton, len(names))
	for i, n := range names {
		b, err := g.Lookup(n)
		if err != nil {
			panic(err)
		}
		buttons[i] = b
	}
	if !g.connected || len(buttons) == 0 {
		return false
	}
	for _, b := range buttons {
		if !g.source.GamepadButtonPressed(g.active, b) {
			return false
		}
	}
	return true
}

// VectorQuery returns the unit direction of the "left" or "right" stick, or
// zero inside the dead zone or while no pad is connected.
func (g *Gamepad) VectorQuery(stick string) Vec2 {
	axes, ok := gamepadSticks[strings.ToLower(stick)]
	if !ok {
		panic(&ConfigError{Field: "gamepad stick", Value: stick})
	}
	if !g.connected {
		return Vec2{}
	}
	v := Vec2{
		X: g.source.GamepadAxis(g.active, axes[0]),
		Y: g.source.GamepadAxis(g.active, axes[1]),
	}
	if v.Len() < g.Deadzone {
		return Vec2{}
	}
	return v.Normalize()
}

// Vibrate rumbles the preferred pad.
func (g *Gamepad) Vibrate(d time.Duration, opts VibrationOptions) {
	if !g.connected {
		return
	}
	g.source.VibrateGamepad(g.active, d, opts.Strong, opts.Weak)
}
