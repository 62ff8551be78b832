package birch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// syntheticPointerEvent is one queued pointer state, consumed one per frame.
type syntheticPointerEvent struct {
	x, y    int
	pressed bool
}

// ScriptedInput is an InputSource driven by code instead of devices. Pointer
// events queued with InjectPress and friends are consumed one per frame; keys
// and pads hold whatever state was last set.
type ScriptedInput struct {
	queue   []syntheticPointerEvent
	x, y    int
	pressed bool

	keys    map[ebiten.Key]bool
	pads    []ebiten.GamepadID
	buttons map[ebiten.GamepadID]map[ebiten.StandardGamepadButton]bool
	axes    map[ebiten.GamepadID]map[ebiten.StandardGamepadAxis]float64
	hidden  bool

	// Vibrations records every VibrateGamepad call.
	Vibrations []time.Duration
}

// NewScriptedInput creates an idle scripted source with the pointer at 0,0.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{
		keys:    make(map[ebiten.Key]bool),
		buttons: make(map[ebiten.GamepadID]map[ebiten.StandardGamepadButton]bool),
		axes:    make(map[ebiten.GamepadID]map[ebiten.StandardGamepadAxis]float64),
	}
}

// InjectPress queues a pointer press at the given surface coordinates.
func (s *ScriptedInput) InjectPress(x, y float64) {
	s.queue = append(s.queue, syntheticPointerEvent{x: int(x), y: int(y), pressed: true})
}

// InjectMove queues a pointer move keeping the current button state.
func (s *ScriptedInput) InjectMove(x, y float64) {
	pressed := s.pressed
	if n := len(s.queue); n > 0 {
		pressed = s.queue[n-1].pressed
	}
	s.queue = append(s.queue, syntheticPointerEvent{x: int(x), y: int(y), pressed: pressed})
}

// InjectRelease queues a pointer release at the given surface coordinates.
func (s *ScriptedInput) InjectRelease(x, y float64) {
	s.queue = append(s.queue, syntheticPointerEvent{x: int(x), y: int(y)})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (s *ScriptedInput) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over frames-2 intermediate frames, and a release at (toX, toY). Minimum
// frames is 2 (press + release).
func (s *ScriptedInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// Pending returns the number of queued pointer events.
func (s *ScriptedInput) Pending() int {
	return len(s.queue)
}

// SetKey holds or releases a key.
func (s *ScriptedInput) SetKey(k ebiten.Key, down bool) {
	s.keys[k] = down
}

// ConnectGamepad makes id available as a standard gamepad.
func (s *ScriptedInput) ConnectGamepad(id ebiten.GamepadID) {
	for _, p := range s.pads {
		if p == id {
			return
		}
	}
	s.pads = append(s.pads, id)
	s.buttons[id] = make(map[ebiten.StandardGamepadButton]bool)
	s.axes[id] = make(map[ebiten.StandardGamepadAxis]float64)
}

// DisconnectGamepad removes id.
func (s *ScriptedInput) DisconnectGamepad(id ebiten.GamepadID) {
	for i, p := range s.pads {
		if p == id {
			s.pads = append(s.pads[:i], s.pads[i+1:]...)
			break
		}
	}
	delete(s.buttons, id)
	delete(s.axes, id)
}

// SetGamepadButton holds or releases a button of a connected pad.
func (s *ScriptedInput) SetGamepadButton(id ebiten.GamepadID, b ebiten.StandardGamepadButton, down bool) {
	if m, ok := s.buttons[id]; ok {
		m[b] = down
	}
}

// SetGamepadAxis sets an axis of a connected pad.
func (s *ScriptedInput) SetGamepadAxis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis, v float64) {
	if m, ok := s.axes[id]; ok {
		m[a] = v
	}
}

// SetHidden simulates the window losing (true) or regaining focus.
func (s *ScriptedInput) SetHidden(hidden bool) {
	s.hidden = hidden
}

// --- InputSource ---

// CursorPosition pops the next queued pointer event, if any.
func (s *ScriptedInput) CursorPosition() (int, int) {
	if len(s.queue) > 0 {
		evt := s.queue[0]
		copy(s.queue, s.queue[1:])
		s.queue = s.queue[:len(s.queue)-1]
		s.x, s.y, s.pressed = evt.x, evt.y, evt.pressed
	}
	return s.x, s.y
}

func (s *ScriptedInput) MouseButtonPressed(b ebiten.MouseButton) bool {
	return b == ebiten.MouseButtonLeft && s.pressed
}

func (s *ScriptedInput) KeyPressed(k ebiten.Key) bool { return s.keys[k] }

func (s *ScriptedInput) AppendGamepadIDs(ids []ebiten.GamepadID) []ebiten.GamepadID {
	return append(ids, s.pads...)
}

func (s *ScriptedInput) IsStandardGamepad(id ebiten.GamepadID) bool {
	_, ok := s.buttons[id]
	return ok
}

func (s *ScriptedInput) GamepadButtonPressed(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool {
	return s.buttons[id][b]
}

func (s *ScriptedInput) GamepadAxis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis) float64 {
	return s.axes[id][a]
}

func (s *ScriptedInput) VibrateGamepad(_ ebiten.GamepadID, d time.Duration, _, _ float64) {
	s.Vibrations = append(s.Vibrations, d)
}

func (s *ScriptedInput) Focused() bool { return !s.hidden }

// --- scripts ---

// InputStep is one entry of an input script.
type InputStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// LoadInputScript queues the steps of a JSON script: an array of objects
// with an action among "click", "press", "move", "release", "drag", "wait",
// "keydown" and "keyup".
func (s *ScriptedInput) LoadInputScript(data []byte) error {
	var steps []InputStep
	if err := json.Unmarshal(data, &steps); err != nil {
		return fmt.Errorf("birch: parse input script: %w", err)
	}
	for i, st := range steps {
		switch st.Action {
		case "click":
			s.InjectClick(st.X, st.Y)
		case "press":
			s.InjectPress(st.X, st.Y)
		case "move":
			s.InjectMove(st.X, st.Y)
		case "release":
			s.InjectRelease(st.X, st.Y)
		case "drag":
			s.InjectDrag(st.X, st.Y, st.ToX, st.ToY, st.Frames)
		case "wait":
			for range max(st.Frames, 1) {
				s.InjectMove(s.lastX(), s.lastY())
			}
		case "keydown", "keyup":
			k, ok := keyNames[strings.ToLower(st.Key)]
			if !ok {
				return &ConfigError{Field: fmt.Sprintf("input script step %d key", i), Value: st.Key}
			}
			s.SetKey(k, st.Action == "keydown")
		default:
			return &ConfigError{Field: fmt.Sprintf("input script step %d action", i), Value: st.Action}
		}
	}
	return nil
}

func (s *ScriptedInput) lastX() float64 {
	if n := len(s.queue); n > 0 {
		return float64(s.queue[n-1].x)
	}
	return float64(s.x)
}

func (s *ScriptedInput) lastY() float64 {
	if n := len(s.queue); n > 0 {
		return float64(s.queue[n-1].y)
	}
	return float64(s.y)
}
