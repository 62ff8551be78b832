package birch

import "github.com/hajimehoshi/ebiten/v2"

// Mouse is the pointer device: its position on the drawing surface, a hit
// footprint and an edge-triggered click flag refreshed once per frame.
type Mouse struct {
	X, Y float64
	// Width and Height size the footprint tested against entities.
	Width, Height float64
	// Button is the button that produces clicks.
	Button ebiten.MouseButton
	// Cursor, when set, is drawn at the pointer position after everything
	// else.
	Cursor *Entity

	// Click is true during the frame the button went down.
	Click bool
	// Pressed is true while the button is held.
	Pressed bool

	source InputSource
}

func newMouse(src InputSource) *Mouse {
	return &Mouse{Width: 1, Height: 1, Button: ebiten.MouseButtonLeft, source: src}
}

// update reads the device. Click is set only on the press edge.
func (m *Mouse) update() {
	x, y := m.source.CursorPosition()
	m.X, m.Y = float64(x), float64(y)
	pressed := m.source.MouseButtonPressed(m.Button)
	m.Click = pressed && !m.Pressed
	m.Pressed = pressed
}

// Bounds implements Collider.
func (m *Mouse) Bounds() Rect {
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// Position returns the pointer position.
func (m *Mouse) Position() Vec2 {
	return Vec2{m.X, m.Y}
}

// draw records the cursor entity, or a crosshair in debug mode.
func (m *Mouse) draw(dl *DrawList, debug bool) {
	if c := m.Cursor; c != nil && !c.destroyed {
		c.X, c.Y = m.X, m.Y
		c.draw(dl, 1)
		return
	}
	if debug {
		dl.FillRect(m.X-4, m.Y, 9, 1, ColorRed)
		dl.FillRect(m.X, m.Y-4, 1, 9, ColorRed)
	}
}
