package birch

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewGame_Errors(t *testing.T) {
	tests := []struct {
		name   string
		scenes func(*Game) *SceneManager
	}{
		{"nil builder", nil},
		{"no scenes", NewSceneManager()},
		{"nil manager", func(*Game) *SceneManager { return nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGame(Config{Scenes: tt.scenes, Input: NewScriptedInput(), Audio: NewMixerOutput(44100)})
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != "scenes" {
				t.Errorf("err = %v, want *ConfigError for scenes", err)
			}
		})
	}
}

func TestGame_PercentSizeFollowsContainer(t *testing.T) {
	cfg := Config{Width: Percent(50), Height: Num(100), ContainerWidth: 400}
	g, _ := newTestGame(t, cfg, NewScene("main"))
	if g.Width() != 200 || g.Height() != 100 {
		t.Fatalf("size = %vx%v, want 200x100", g.Width(), g.Height())
	}

	g.SetContainerSize(600, 300)
	if g.Width() != 200 {
		t.Error("size changed before the resize event")
	}
	runFrames(g, 1)
	if g.Width() != 300 || g.Height() != 100 {
		t.Errorf("size = %vx%v after resize, want 300x100", g.Width(), g.Height())
	}

	if w, h := g.Layout(800, 300); w != 300 || h != 100 {
		t.Errorf("Layout = %d,%d, want the current canvas", w, h)
	}
	runFrames(g, 1)
	if g.Width() != 400 {
		t.Errorf("Width = %v after Layout reported 800, want 400", g.Width())
	}

	fixed, _ := newTestGame(t, Config{Width: Px(320), Height: Px(200)}, NewScene("main"))
	if fixed.Globals().Has(EventResize) {
		t.Error("resize handler registered for a fixed size")
	}
}

func TestGame_PercentSizeTruncates(t *testing.T) {
	tests := []struct {
		name      string
		container float64
		want      float64
	}{
		{"odd", 401, 200},
		{"just below", 399.9, 199},
		{"even", 400, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t, Config{Width: Percent(50), Height: Percent(50), ContainerWidth: tt.container, ContainerHeight: 300}, NewScene("main"))
			if g.Width() != tt.want {
				t.Errorf("Width = %v, want %v", g.Width(), tt.want)
			}

			g.SetContainerSize(tt.container+400, 301)
			runFrames(g, 1)
			if g.Width() != tt.want+200 || g.Height() != 150 {
				t.Errorf("size = %vx%v after resize, want %vx150", g.Width(), g.Height(), tt.want+200)
			}
		})
	}
}

func TestGame_BackgroundAndDrawOrder(t *testing.T) {
	s := NewScene("main")
	a := NewRectangle("a", 10, 10, 4, 4)
	a.ZIndex = 5
	b := NewRectangle("b", 20, 20, 4, 4)
	s.Add(a, b)
	g, _ := newTestGame(t, Config{Width: Px(320), Height: Px(200), Background: ColorRed}, s)

	runFrames(g, 1)
	cmds := g.DrawList().Commands()
	if len(cmds) == 0 {
		t.Fatal("no commands recorded")
	}
	if bg := cmds[0]; bg.Type != CommandFillRect || bg.Color != ColorRed || bg.Width != 320 || bg.Height != 200 || bg.Entity != nil {
		t.Errorf("first command = %+v, want the background", bg)
	}
	first := map[*Entity]int{}
	for i, c := range cmds {
		if _, seen := first[c.Entity]; !seen {
			first[c.Entity] = i
		}
	}
	if first[a] >= first[b] {
		t.Errorf("a drawn at %d, b at %d: want registration order", first[a], first[b])
	}
}

func TestGame_HiddenAndLayerAlpha(t *testing.T) {
	main := NewScene("main")
	hidden := NewRectangle("hidden", 0, 0, 4, 4)
	hidden.Hidden = true
	main.Add(hidden)

	layer := NewScene("hud")
	badge := NewRectangle("badge", 0, 0, 4, 4)
	badge.Hidden = true
	badge.Alpha = 0.8
	layer.Add(badge)

	g, _ := newTestGame(t, Config{}, main, layer)
	g.Scenes().PlayWithOpacity("hud", 0.5)
	runFrames(g, 1)

	if n := len(commandsOf(g, hidden)); n != 0 {
		t.Errorf("hidden main entity recorded %d commands", n)
	}
	cmds := commandsOf(g, badge)
	if len(cmds) != 1 {
		t.Fatalf("layer entity recorded %d commands, want 1", len(cmds))
	}
	assertNear(t, "layer alpha", cmds[0].Color.A, 0.4)
}

func TestGame_PointerEvents(t *testing.T) {
	s := NewScene("main")
	target := NewRectangle("button", 50, 50, 20, 20)
	far := NewRectangle("far", 200, 200, 20, 20)
	s.Add(target, far)
	g, in := newTestGame(t, Config{}, s)

	var hovers, clicks, farHovers int
	target.On(EventMouseHover, func(Event) { hovers++ })
	target.On(EventMouseClick, func(Event) { clicks++ })
	far.On(EventMouseHover, func(Event) { farHovers++ })

	// 60,50 sits on the right edge of the button.
	in.InjectClick(60, 50)
	runFrames(g, 3)
	if hovers != 3 || clicks != 1 || farHovers != 0 {
		t.Errorf("hovers=%d clicks=%d farHovers=%d, want 3 1 0", hovers, clicks, farHovers)
	}
}

func TestGame_NoMainScene(t *testing.T) {
	s := NewScene("main")
	g, _ := newTestGame(t, Config{}, s)
	runFrames(g, 1)
	if g.err != nil {
		t.Fatalf("err = %v on a live scene", g.err)
	}

	s.Destroy()
	runFrames(g, 1)
	if err := g.Update(); !errors.Is(err, ErrNoMainScene) {
		t.Errorf("Update = %v, want ErrNoMainScene", err)
	}
	if g.Loop().IsPlaying() {
		t.Error("scheduler still playing without a main scene")
	}
}

func TestGame_HookOrder(t *testing.T) {
	var got []string
	rec := func(s string) func() { return func() { got = append(got, s) } }

	s := NewScene("main")
	s.OnInit = rec("scene.init")
	s.OnBeforeUpdate = rec("scene.before")
	s.OnUpdate = func(float64) { got = append(got, "scene.update") }
	s.OnAfterUpdate = rec("scene.after")

	e := NewRectangle("e", 0, 0, 4, 4)
	e.OnInit = rec("e.init")
	e.OnBeforeRedraw = rec("e.before")
	e.OnRedraw = func(float64) { got = append(got, "e.redraw") }
	e.OnDraw = func(*DrawList) { got = append(got, "e.draw") }
	e.OnAfterRedraw = rec("e.after")
	s.Add(e)

	g, _ := newTestGame(t, Config{}, s)
	g.On(EventUpdated, func(Event) { got = append(got, "updated") })

	frame := []string{"updated", "scene.before", "e.before", "e.redraw", "e.draw", "e.after", "scene.update", "scene.after"}
	runFrames(g, 2)
	want := append([]string{"scene.init", "e.init"}, frame...)
	want = append(want, frame...)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("hooks:\n got %v\nwant %v", got, want)
	}
}

func TestGame_FrameTiming(t *testing.T) {
	g, _ := newTestGame(t, Config{}, NewScene("main"))
	runFrames(g, 2)
	if g.FPS() != 60 {
		t.Errorf("FPS = %d, want 60", g.FPS())
	}
	assertNear(t, "SecondsPassed", g.SecondsPassed(), 1.0/60)

	g.setFPS(g.oldTime)
	if g.FPS() != 0 {
		t.Errorf("FPS = %d for a zero delta, want 0", g.FPS())
	}
}

func TestGame_VisibilityChange(t *testing.T) {
	g, in := newTestGame(t, Config{}, NewScene("main"))
	var events []bool
	g.Globals().On(EventVisibilityChange, func(ev Event) { events = append(events, ev.Hidden) })

	runFrames(g, 1)
	in.SetHidden(true)
	runFrames(g, 2)
	in.SetHidden(false)
	runFrames(g, 1)
	if !reflect.DeepEqual(events, []bool{true, false}) {
		t.Errorf("visibility events = %v, want [true false]", events)
	}
}

func TestGame_DebugCrosshair(t *testing.T) {
	g, _ := newTestGame(t, Config{Debug: true}, NewScene("main"))
	runFrames(g, 1)
	cmds := g.DrawList().Commands()
	if len(cmds) < 3 {
		t.Fatalf("commands = %d", len(cmds))
	}
	h, v := cmds[len(cmds)-2], cmds[len(cmds)-1]
	if h.Type != CommandFillRect || h.X != -1004 || h.Y != -1000 || h.Width != 9 {
		t.Errorf("horizontal bar = %+v", h)
	}
	if v.Type != CommandFillRect || v.X != -1000 || v.Y != -1004 || v.Height != 9 {
		t.Errorf("vertical bar = %+v", v)
	}
}

func TestGame_EntityAddedMidFrame(t *testing.T) {
	s := NewScene("main")
	late := NewRectangle("late", 0, 0, 4, 4)
	host := NewRectangle("host", 0, 0, 4, 4)
	host.OnRedraw = func(float64) {
		if late.Scene() == nil {
			s.Add(late)
		}
	}
	s.Add(host)
	g, _ := newTestGame(t, Config{}, s)

	runFrames(g, 1)
	if late.Scene() != s {
		t.Fatal("late entity not added")
	}
	if late.IsInitialized() || len(commandsOf(g, late)) != 0 {
		t.Error("entity added mid-frame took part in the same frame")
	}
	runFrames(g, 1)
	if !late.IsInitialized() || len(commandsOf(g, late)) != 1 {
		t.Error("entity added mid-frame not drawn on the next frame")
	}
}
