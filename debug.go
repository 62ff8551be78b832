package birch

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugStats holds per-frame timing and draw-list metrics.
// Only reported when Config.Debug is true.
type debugStats struct {
	frame        uint64
	updateTime   time.Duration
	submitTime   time.Duration
	commandCount int
	imageCount   int
	textCount    int
}

// debugf prints a diagnostic line to stderr in debug mode.
func (g *Game) debugf(format string, args ...any) {
	if !g.cfg.Debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[birch] "+format+"\n", args...)
}

// debugLog prints the stats of the last frame to stderr.
func (g *Game) debugLog() {
	if !g.cfg.Debug {
		return
	}
	s := g.stats
	s.imageCount, s.textCount = countCommands(g.dl.Commands())
	_, _ = fmt.Fprintf(os.Stderr,
		"[birch] frame %d | update: %v | submit: %v | total: %v\n",
		s.frame, s.updateTime, s.submitTime, s.updateTime+s.submitTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[birch] commands: %d | images: %d | texts: %d | scenes: %d\n",
		s.commandCount, s.imageCount, s.textCount, 1+len(g.layers))
}

// countCommands counts the image and text commands of a frame.
func countCommands(commands []DrawCommand) (images, texts int) {
	for i := range commands {
		switch commands[i].Type {
		case CommandImage:
			images++
		case CommandText:
			texts++
		}
	}
	return images, texts
}

// debugHitbox is the color of the hitbox overlay.
var debugHitbox = Color{0, 1, 0, 0.8}

// drawDebug records e's hitbox and a dot on its position in debug mode,
// offset by the camera like the entity itself.
func (g *Game) drawDebug(e *Entity) {
	if !g.cfg.Debug || !e.collidable() {
		return
	}
	var ox, oy float64
	if cam := e.camera(); cam != nil && !e.Fixed {
		ox, oy = cam.X, cam.Y
	}
	b := e.Bounds()
	g.dl.StrokeRect(b.X+ox, b.Y+oy, b.Width, b.Height, 1, debugHitbox)
	g.dl.FillRect(e.X+ox-1, e.Y+oy-1, 3, 3, ColorRed)
}

// drawFPS prints the frame rate over the screen when Run was asked to.
func (g *Game) drawFPS(screen *ebiten.Image) {
	if !g.showFPS {
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %d\nTPS: %.1f", g.fps, ebiten.ActualTPS()))
}
