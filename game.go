package birch

import (
	"context"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game runs the frame pipeline: it owns the scene manager, the main scene and
// the scenes layered above it, the input devices, the asset registry and the
// global event bus. Game implements ebiten.Game.
type Game struct {
	// Emitter carries EventUpdated once per frame.
	Emitter

	// State is the host data passed in Config.State.
	State any
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	cfg     Config
	globals *Emitter

	width, height          float64
	containerW, containerH float64
	resizeW, resizeH       float64

	scenes  *SceneManager
	current *Scene
	layers  []*Scene
	inited  map[*Scene]bool

	input    InputSource
	mouse    *Mouse
	keyboard *Keyboard
	gamepad  *Gamepad
	focused  bool

	assets *AssetRegistry
	fonts  *FontRegistry
	audio  AudioOutput

	loop          *FrameScheduler
	oldTime       float64
	secondsPassed float64
	fps           int

	dl  *DrawList
	err error

	loads       chan loadResult
	pending     int
	cancelLoads context.CancelFunc

	stats           debugStats
	screenshotQueue []string
	showFPS         bool
}

// NewGame builds a game from cfg: it resolves the canvas size, builds the
// scene manager, starts the loads, plays LoadScene and then the first scene,
// and starts the frame scheduler.
func NewGame(cfg Config) (*Game, error) {
	if cfg.Scenes == nil {
		return nil, &ConfigError{Field: "scenes", Value: "<nil>"}
	}
	cfg = cfg.withDefaults()

	g := &Game{
		State:         cfg.State,
		ScreenshotDir: "screenshots",
		cfg:           cfg,
		globals:       &Emitter{},
		containerW:    cfg.ContainerWidth,
		containerH:    cfg.ContainerHeight,
		inited:        make(map[*Scene]bool),
		assets:        NewAssetRegistry(),
		fonts:         cfg.Fonts,
		audio:         cfg.Audio,
		focused:       true,
		dl:            newDrawList(),
	}
	if g.fonts == nil {
		g.fonts = fallbackFonts
	}
	g.resolveSize()
	g.resizeW, g.resizeH = g.containerW, g.containerH
	if cfg.Width.IsPercent() || cfg.Height.IsPercent() {
		g.globals.On(EventResize, g.onResize)
	}

	g.input = cfg.Input
	if g.input == nil {
		g.input = ebitenInput{}
	}
	g.mouse = newMouse(g.input)
	g.keyboard = newKeyboard(g.input)
	g.gamepad = newGamepad(g.input)

	g.scenes = cfg.Scenes(g)
	if g.scenes == nil || g.scenes.Len() == 0 {
		return nil, &ConfigError{Field: "scenes", Value: "empty"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancelLoads = cancel
	var forced []string
	if ls := cfg.LoadScene; ls != nil {
		forced = ls.ForcedLoadingOfEntities
		if g.scenes.Get(ls.Name) != ls {
			ls.game, ls.manager = g, g.scenes
			ls.entities.assets = g.assets
		}
	}
	g.startLoads(ctx, cfg.Load, forced)

	if cfg.LoadScene != nil {
		g.ChangeScene(cfg.LoadScene)
	}
	g.ChangeScene(g.scenes.First())

	g.loop = NewFrameScheduler(cfg.FrameRate, g.update)
	g.loop.Start()
	return g, nil
}

// resolveSize resolves the canvas size against the container.
func (g *Game) resolveSize() {
	g.width = math.Floor(g.cfg.Width.Resolve(g.containerW))
	g.height = math.Floor(g.cfg.Height.Resolve(g.containerH))
}

// onResize re-resolves percent dimensions when the container changed since
// the last resize event.
func (g *Game) onResize(Event) {
	if g.containerW == g.resizeW && g.containerH == g.resizeH {
		return
	}
	g.resizeW, g.resizeH = g.containerW, g.containerH
	if g.cfg.Width.IsPercent() {
		g.width = math.Floor(g.cfg.Width.Resolve(g.containerW))
	}
	if g.cfg.Height.IsPercent() {
		g.height = math.Floor(g.cfg.Height.Resolve(g.containerH))
	}
}

// SetContainerSize reports a new container size. The canvas follows on the
// next resize event.
func (g *Game) SetContainerSize(w, h float64) {
	g.containerW, g.containerH = w, h
}

// --- accessors ---

func (g *Game) Width() float64         { return g.width }
func (g *Game) Height() float64        { return g.height }
func (g *Game) FPS() int               { return g.fps }
func (g *Game) SecondsPassed() float64 { return g.secondsPassed }
func (g *Game) Mouse() *Mouse          { return g.mouse }
func (g *Game) Keyboard() *Keyboard    { return g.keyboard }
func (g *Game) Gamepad() *Gamepad      { return g.gamepad }
func (g *Game) Scenes() *SceneManager  { return g.scenes }
func (g *Game) Current() *Scene        { return g.current }
func (g *Game) Assets() *AssetRegistry { return g.assets }
func (g *Game) Fonts() *FontRegistry   { return g.fonts }
func (g *Game) Globals() *Emitter      { return g.globals }
func (g *Game) Loop() *FrameScheduler  { return g.loop }
func (g *Game) Debug() bool            { return g.cfg.Debug }
func (g *Game) DrawList() *DrawList    { return g.dl }

// SetAudioOutput replaces the output used by audio managers created later.
func (g *Game) SetAudioOutput(out AudioOutput) { g.audio = out }

// Layers returns the scenes layered above the main scene, bottom first.
func (g *Game) Layers() []*Scene {
	out := make([]*Scene, len(g.layers))
	copy(out, g.layers)
	return out
}

// --- transitions ---

// ChangeScene makes target the main scene when the transition guards allow
// it: with no current scene, or when the current scene allows moving Next to
// target, or target allows coming back Prev from it. An allowed change
// clears the layered scenes, even when target already is the main scene.
// It returns the main scene after the call.
func (g *Game) ChangeScene(target *Scene) *Scene {
	if target == nil {
		return g.current
	}
	prev := g.current
	if prev != nil && !prev.allowChange(target, Next) && !target.allowChange(prev, Prev) {
		g.debugf("scene change %q -> %q refused", prev.Name, target.Name)
		return g.current
	}
	target.Emit(Event{Kind: EventSceneCalled, Scene: prev})
	if prev != nil {
		prev.state = PlayNone
	}
	for _, l := range g.layers {
		if l != target {
			l.state = PlayNone
		}
	}
	g.layers = g.layers[:0]
	target.state = PlayMain
	g.current = target
	if prev != nil {
		g.debugf("scene change %q -> %q", prev.Name, target.Name)
	}
	return g.current
}

// PlayWithOpacity layers s above the main scene, drawn at alpha. The guards
// are not consulted. A request for the main scene is ignored; a scene
// already layered only takes the new alpha.
func (g *Game) PlayWithOpacity(s *Scene, alpha float64) *Scene {
	if s == nil || s == g.current {
		return s
	}
	s.Alpha = alpha
	for _, l := range g.layers {
		if l == s {
			return s
		}
	}
	s.state = PlayOpacity
	g.layers = append(g.layers, s)
	return s
}

// --- ebiten.Game ---

// Update fires a frame when the scheduler allows one. It returns
// ErrNoMainScene once a frame ran without a live main scene.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	g.loop.Tick()
	return g.err
}

// Draw replays the commands of the last frame onto the canvas.
func (g *Game) Draw(screen *ebiten.Image) {
	t0 := time.Now()
	dst := screen
	if g.cfg.Canvas != nil {
		dst = g.cfg.Canvas
		dst.Clear()
	}
	g.dl.submit(dst, g.filter())
	if dst != screen {
		screen.DrawImage(dst, nil)
	}
	g.stats.submitTime = time.Since(t0)
	g.drawFPS(screen)
	g.debugLog()
	g.flushScreenshots(screen)
}

// Layout reports the window size as the container size and returns the
// canvas size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.SetContainerSize(float64(outsideWidth), float64(outsideHeight))
	return max(int(g.width), 1), max(int(g.height), 1)
}

func (g *Game) filter() ebiten.Filter {
	if g.cfg.Pixel {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// --- frame pipeline ---

// update is the scheduler callback: one full frame.
func (g *Game) update(info FrameInfo) {
	t0 := time.Now()
	g.drainLoads()

	main := g.current
	if main == nil || main.destroyed {
		g.err = ErrNoMainScene
		g.loop.Pause()
		return
	}
	g.initScene(main)
	entities := main.entities.All()

	g.setFPS(info.Time)
	g.pollFocus()
	g.mouse.update()
	g.gamepad.update()
	g.Emit(Event{Kind: EventUpdated})
	g.globals.Emit(Event{Kind: EventResize, Width: g.width, Height: g.height})

	main.beforeUpdate()
	g.dispatch(entities)
	main.world.step(entities)

	layers := g.Layers()
	for _, s := range layers {
		s.beforeUpdate()
		g.dispatch(s.entities.All())
	}

	g.dl.reset()
	g.dl.FillRect(0, 0, g.width, g.height, g.cfg.Background)
	for _, e := range entities {
		if e.destroyed {
			continue
		}
		if !e.Hidden && e.initialized {
			e.draw(g.dl, 1)
			g.drawDebug(e)
		}
		e.afterRedraw()
	}
	for _, s := range layers {
		for _, e := range s.entities.All() {
			if e.destroyed {
				continue
			}
			e.draw(g.dl, s.Alpha)
			g.drawDebug(e)
			e.afterRedraw()
		}
		s.update(g.secondsPassed)
		s.afterUpdate()
	}
	g.mouse.draw(g.dl, g.cfg.Debug)

	main.update(g.secondsPassed)
	main.afterUpdate()

	g.stats.frame = info.Frame
	g.stats.updateTime = time.Since(t0)
	g.stats.commandCount = g.dl.Len()
}

// initScene runs the init hooks of s and its layers the first time they take
// part in a frame, and of entities added since.
func (g *Game) initScene(s *Scene) {
	if !g.inited[s] {
		g.inited[s] = true
		s.init()
	}
	for _, e := range s.entities.All() {
		e.init()
	}
	if s.state == PlayMain {
		for _, l := range g.layers {
			g.initScene(l)
		}
	}
}

// dispatch runs the pointer events and redraw hooks of one frame.
func (g *Game) dispatch(entities []*Entity) {
	for _, e := range entities {
		if e.destroyed {
			continue
		}
		if e.Collide(g.mouse) {
			e.Emit(Event{Kind: EventMouseHover, Entity: e})
			if g.mouse.Click {
				e.Emit(Event{Kind: EventMouseClick, Entity: e})
			}
		}
		e.beforeRedraw()
		e.redraw(g.secondsPassed)
		e.Emit(Event{Kind: EventMoveVelocity, Entity: e})
	}
}

// setFPS derives the frame delta from the frame time in milliseconds.
func (g *Game) setFPS(ms float64) {
	g.secondsPassed = (ms - g.oldTime) / 1000
	g.oldTime = ms
	if g.secondsPassed > 0 {
		g.fps = int(math.Round(1 / g.secondsPassed))
	} else {
		g.fps = 0
	}
}

func (g *Game) pollFocus() {
	focused := g.input.Focused()
	if focused == g.focused {
		return
	}
	g.focused = focused
	g.globals.Emit(Event{Kind: EventVisibilityChange, Hidden: !focused})
}

// Close stops the scheduler and abandons pending loads.
func (g *Game) Close() {
	g.loop.Pause()
	if g.cancelLoads != nil {
		g.cancelLoads()
	}
}
