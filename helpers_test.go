package birch

import (
	"math"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertNear(t *testing.T, label string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, 1e-6) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func assertRect(t *testing.T, label string, got, want Rect) {
	t.Helper()
	if !approxEqual(got.X, want.X, 1e-6) || !approxEqual(got.Y, want.Y, 1e-6) ||
		!approxEqual(got.Width, want.Width, 1e-6) || !approxEqual(got.Height, want.Height, 1e-6) {
		t.Errorf("%s = %+v, want %+v", label, got, want)
	}
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestGame builds a game fed by a scripted input and an offline mixer.
// The pointer starts far from the canvas so nothing is hovered by accident.
func newTestGame(t *testing.T, cfg Config, scenes ...*Scene) (*Game, *ScriptedInput) {
	t.Helper()
	in := NewScriptedInput()
	in.x, in.y = -1000, -1000
	cfg.Input = in
	if cfg.Audio == nil {
		cfg.Audio = NewMixerOutput(44100)
	}
	if cfg.Scenes == nil {
		cfg.Scenes = NewSceneManager(scenes...)
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Close)
	return g, in
}

// frameMS is the frame length used by runFrames, in milliseconds.
const frameMS = 1000.0 / 60

// runFrames runs n frames of 1/60 s directly, bypassing the scheduler clock.
func runFrames(g *Game, n int) {
	for range n {
		g.update(FrameInfo{Time: g.oldTime + frameMS, Frame: g.stats.frame + 1})
	}
}

// commandsOf returns the commands recorded for e in the last frame.
func commandsOf(g *Game, e *Entity) []DrawCommand {
	var out []DrawCommand
	for _, c := range g.dl.Commands() {
		if c.Entity == e {
			out = append(out, c)
		}
	}
	return out
}

// fakeFont measures every rune as half the font size wide.
type fakeFont struct {
	size float64
}

func (f fakeFont) MeasureString(s string) (float64, float64) {
	return float64(len([]rune(s))) * f.size / 2, f.size
}

func (f fakeFont) LineHeight() float64 { return f.size }
func (f fakeFont) Face() text.Face     { return nil }
