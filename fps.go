package birch

import "fmt"

// fpsRefresh is how often an FPS counter rewrites its text, in seconds.
const fpsRefresh = 0.5

// NewFPSCounter creates and registers a fixed, left-aligned text entity
// showing the game's frame rate. The text is refreshed every half second.
func (s *Scene) NewFPSCounter(x, y float64) *Entity {
	st := DefaultTextStyle()
	st.FontSize = 12
	st.Align = TextAlignLeft
	st.Background = Color{0, 0, 0, 0.5}
	st.Padding = Padding{Top: 2, Right: 4, Bottom: 2, Left: 4}

	e := NewText("", x, y, "FPS: -", st)
	e.Fixed = true

	var elapsed float64
	e.OnRedraw = func(dt float64) {
		elapsed += dt
		if elapsed < fpsRefresh {
			return
		}
		elapsed = 0
		if g := e.scene.Game(); g != nil {
			e.SetText(fmt.Sprintf("FPS: %d", g.FPS()))
		}
	}
	s.Add(e)
	return e
}
