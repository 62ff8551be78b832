package birch

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// runTPS ties Update to the display refresh. The frame scheduler drops the
// ticks above its cap, so SetFrameRate applies while the window is open.
const runTPS = ebiten.SyncWithFPS

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height size the window. Zero uses the canvas size.
	Width, Height int
	// ShowFPS prints the frame rate over every frame.
	ShowFPS bool
	// Resizable lets the user resize the window; percent canvas sizes follow.
	Resizable bool
}

// Run opens a window and runs g until it is closed or Update fails. Without
// a configured audio output, the system speaker is opened; if that fails,
// an EventAudioError is emitted and the game runs silent.
func Run(g *Game, cfg RunConfig) error {
	if g == nil {
		return fmt.Errorf("birch: run: nil game")
	}
	if g.audio == nil {
		out, err := NewSpeakerOutput(DefaultSampleRate, speakerLatency)
		if err != nil {
			g.globals.Emit(Event{Kind: EventAudioError, Err: &AudioError{Source: "speaker", Err: err}})
		} else {
			g.audio = out
		}
	}
	g.showFPS = cfg.ShowFPS

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = int(g.width)
	}
	if h <= 0 {
		h = int(g.height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(runTPS)
	defer g.Close()
	return ebiten.RunGame(g)
}
