package birch

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func expectConfigPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		var ce *ConfigError
		if !ok || !errors.As(err, &ce) {
			t.Errorf("recovered %v, want *ConfigError", r)
		}
	}()
	fn()
}

func TestMouse_ClickIsEdgeTriggered(t *testing.T) {
	in := NewScriptedInput()
	m := newMouse(in)
	in.InjectPress(10, 20)
	in.InjectMove(15, 20)
	in.InjectRelease(15, 20)

	want := []struct {
		x              float64
		click, pressed bool
	}{
		{10, true, true},
		{15, false, true},
		{15, false, false},
		{15, false, false},
	}
	for i, w := range want {
		m.update()
		if m.X != w.x || m.Click != w.click || m.Pressed != w.pressed {
			t.Errorf("frame %d: x=%v click=%v pressed=%v, want %+v", i, m.X, m.Click, m.Pressed, w)
		}
	}
	assertRect(t, "Bounds", m.Bounds(), Rect{X: 15, Y: 20, Width: 1, Height: 1})
}

func TestKeyboard_Query(t *testing.T) {
	in := NewScriptedInput()
	k := newKeyboard(in)
	in.SetKey(ebiten.KeyA, true)
	in.SetKey(ebiten.KeyArrowUp, true)

	tests := []struct {
		names []string
		want  bool
	}{
		{[]string{"a"}, true},
		{[]string{"KeyA", "ArrowUp"}, true},
		{[]string{"a", "up", "b"}, false},
		{[]string{"Space"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := k.Query(tt.names...); got != tt.want {
			t.Errorf("Query(%v) = %v, want %v", tt.names, got, tt.want)
		}
	}
}

func TestKeyboard_UnknownNamePanics(t *testing.T) {
	k := newKeyboard(NewScriptedInput())
	expectConfigPanic(t, func() { k.Query("a", "hyperdrive") })
	expectConfigPanic(t, func() { k.VectorQuery("dvorak") })
	expectConfigPanic(t, func() { k.VectorQuery("up", "down") })
	if _, err := k.Lookup("Escape"); err != nil {
		t.Errorf("Lookup(Escape): %v", err)
	}
}

func TestKeyboard_VectorQuery(t *testing.T) {
	h := math.Sqrt2 / 2
	tests := []struct {
		name string
		held []ebiten.Key
		tmpl []string
		want Vec2
	}{
		{"idle", nil, []string{"wasd"}, Vec2{}},
		{"up", []ebiten.Key{ebiten.KeyW}, []string{"wasd"}, Vec2{0, -1}},
		{"diagonal", []ebiten.Key{ebiten.KeyW, ebiten.KeyD}, []string{"wasd"}, Vec2{h, -h}},
		{"opposites cancel", []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyArrowRight}, []string{"arrows"}, Vec2{}},
		{"custom", []ebiten.Key{ebiten.KeyK}, []string{"i", "j", "k", "l"}, Vec2{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewScriptedInput()
			for _, key := range tt.held {
				in.SetKey(key, true)
			}
			got := newKeyboard(in).VectorQuery(tt.tmpl...)
			assertNear(t, "X", got.X, tt.want.X)
			assertNear(t, "Y", got.Y, tt.want.Y)
		})
	}
}

func TestGamepad_DisconnectedQueriesAreFalse(t *testing.T) {
	in := NewScriptedInput()
	g := newGamepad(in)
	in.ConnectGamepad(0)
	in.SetGamepadButton(0, ebiten.StandardGamepadButtonRightBottom, true)
	in.SetGamepadAxis(0, ebiten.StandardGamepadAxisLeftStickHorizontal, 1)

	// Not polled yet: the pad is still unknown to the device.
	if g.Query("a") || g.VectorQuery("left") != (Vec2{}) {
		t.Fatal("query answered before the pad was seen")
	}

	connected := 0
	g.On(EventGamepadConnected, func(Event) { connected++ })
	g.update()
	if !g.Connected() || !g.Query("a") || connected != 1 {
		t.Fatal("pad not picked up")
	}
	assertNear(t, "stick X", g.VectorQuery("left").X, 1)

	disconnected := 0
	g.On(EventGamepadDisconnected, func(Event) { disconnected++ })
	in.DisconnectGamepad(0)
	g.update()
	if g.Connected() || g.Query("a") || disconnected != 1 {
		t.Error("pad still answering after disconnect")
	}
	expectConfigPanic(t, func() { g.Query("turbo") })
	expectConfigPanic(t, func() { g.VectorQuery("middle") })
}

func TestGamepad_PrefersMostRecentlyChanged(t *testing.T) {
	in := NewScriptedInput()
	g := newGamepad(in)
	in.ConnectGamepad(3)
	in.ConnectGamepad(1)

	active := func() ebiten.GamepadID {
		t.Helper()
		id, ok := g.ID()
		if !ok {
			t.Fatal("no pad connected")
		}
		return id
	}

	g.update()
	if id := active(); id != 1 {
		t.Fatalf("tie picked %d, want lowest id 1", id)
	}

	in.SetGamepadButton(3, ebiten.StandardGamepadButtonRightTop, true)
	g.update()
	if id := active(); id != 3 {
		t.Fatalf("active = %d after pad 3 changed, want 3", id)
	}
	g.update()
	if id := active(); id != 3 {
		t.Fatalf("active = %d with no change, want 3", id)
	}
	if !g.Query("y") {
		t.Error("Query(y) on the preferred pad = false")
	}

	in.SetGamepadAxis(1, ebiten.StandardGamepadAxisLeftStickVertical, -0.5)
	g.update()
	if id := active(); id != 1 {
		t.Fatalf("active = %d after pad 1 changed, want 1", id)
	}

	g.WithGamepad(3)
	g.update()
	if id := active(); id != 3 {
		t.Errorf("active = %d with pin, want 3", id)
	}
	g.PreferAny()
	g.update()
	if id := active(); id != 1 {
		t.Errorf("active = %d after unpinning, want 1", id)
	}
}

func TestGamepad_DeadzoneAndVibrate(t *testing.T) {
	in := NewScriptedInput()
	g := newGamepad(in)
	in.ConnectGamepad(0)
	in.SetGamepadAxis(0, ebiten.StandardGamepadAxisRightStickHorizontal, 0.1)
	g.update()
	if v := g.VectorQuery("right"); v != (Vec2{}) {
		t.Errorf("VectorQuery inside dead zone = %+v", v)
	}
	g.Vibrate(200*time.Millisecond, VibrationOptions{Strong: 1})
	if len(in.Vibrations) != 1 || in.Vibrations[0] != 200*time.Millisecond {
		t.Errorf("Vibrations = %v", in.Vibrations)
	}
}

func TestScriptedInput_LoadInputScript(t *testing.T) {
	in := NewScriptedInput()
	script := `[
		{"action": "click", "x": 5, "y": 6},
		{"action": "wait", "frames": 2},
		{"action": "drag", "x": 0, "y": 0, "toX": 30, "toY": 0, "frames": 4},
		{"action": "keydown", "key": "Space"}
	]`
	if err := in.LoadInputScript([]byte(script)); err != nil {
		t.Fatal(err)
	}
	if in.Pending() != 2+2+4 {
		t.Errorf("Pending = %d, want 8", in.Pending())
	}
	if !in.KeyPressed(ebiten.KeySpace) {
		t.Error("keydown not applied")
	}

	m := newMouse(in)
	var xs []float64
	for range 8 {
		m.update()
		xs = append(xs, m.X)
	}
	want := []float64{5, 5, 5, 5, 0, 10, 20, 30}
	for i := range want {
		if xs[i] != want[i] {
			t.Fatalf("pointer xs = %v, want %v", xs, want)
		}
	}
}

func TestScriptedInput_LoadInputScriptErrors(t *testing.T) {
	tests := map[string]string{
		"bad json":   `{`,
		"bad action": `[{"action": "teleport"}]`,
		"bad key":    `[{"action": "keyup", "key": "nope"}]`,
	}
	for name, script := range tests {
		t.Run(name, func(t *testing.T) {
			if err := NewScriptedInput().LoadInputScript([]byte(script)); err == nil {
				t.Error("LoadInputScript accepted an invalid script")
			}
		})
	}
}
