package birch

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
)

// Default container size, used until the host reports one through Layout.
const (
	DefaultContainerWidth  = 800
	DefaultContainerHeight = 600
)

// Config configures a Game. Only Scenes is required.
type Config struct {
	// Width and Height size the canvas. Percentages resolve against the
	// container and follow it on resize. Zero values fill the container.
	Width, Height Dimension
	// ContainerWidth and ContainerHeight are the initial container size.
	ContainerWidth, ContainerHeight float64

	// Debug draws hitboxes and the pointer, and logs frame stats to stderr.
	Debug bool
	// Pixel disables smoothing when images and shapes are drawn.
	Pixel bool
	// Canvas, when set, receives every frame instead of the screen.
	Canvas *ebiten.Image
	// Background fills the canvas before each frame. The zero value is black.
	Background Color
	// FrameRate caps the frames per second. Zero selects DefaultFrameRate.
	FrameRate int

	// Load maps asset names to their loaders.
	Load map[string]LoadFunc
	// LoadScene is played first. Its ForcedLoadingOfEntities load before
	// every other asset.
	LoadScene *Scene
	// Scenes builds the scene manager. The first scene is played after
	// LoadScene, through the transition guards.
	Scenes func(*Game) *SceneManager

	// Save enables Game.Save and Game.Restore through SaveStore.
	Save      bool
	SaveStore SaveStore
	// State is host-defined data carried by the game.
	State any

	// Input replaces the Ebitengine input source.
	Input InputSource
	// Audio receives started sounds. Without it, Run opens the speaker.
	Audio AudioOutput
	// Fonts resolves text font families. Nil uses the builtin face.
	Fonts *FontRegistry
}

// fileConfig is the JSON form read by LoadConfig.
type fileConfig struct {
	Width      *Dimension `json:"width"`
	Height     *Dimension `json:"height"`
	Debug      bool       `json:"debug"`
	Pixel      bool       `json:"pixel"`
	FrameRate  int        `json:"frameRate"`
	Background string     `json:"background"`
	Title      string     `json:"title"`
	Save       bool       `json:"save"`
}

// LoadConfig reads the plain-data part of a Config from a JSON file, along
// with the window title. Code-valued fields are left for the caller.
func LoadConfig(fsys fs.FS, name string) (Config, string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, "", fmt.Errorf("birch: read config: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return Config{}, "", fmt.Errorf("birch: parse config %s: %w", name, err)
	}
	cfg := Config{
		Debug:     fc.Debug,
		Pixel:     fc.Pixel,
		FrameRate: fc.FrameRate,
		Save:      fc.Save,
	}
	if fc.Width != nil {
		cfg.Width = *fc.Width
	}
	if fc.Height != nil {
		cfg.Height = *fc.Height
	}
	if fc.FrameRate < 0 {
		return Config{}, "", &ConfigError{Field: "frameRate", Value: fmt.Sprint(fc.FrameRate)}
	}
	if fc.Background != "" {
		c, err := ParseColor(fc.Background)
		if err != nil {
			return Config{}, "", err
		}
		cfg.Background = c
	}
	return cfg, fc.Title, nil
}

// withDefaults fills the zero fields.
func (c Config) withDefaults() Config {
	if c.Width == (Dimension{}) {
		c.Width = Percent(100)
	}
	if c.Height == (Dimension{}) {
		c.Height = Percent(100)
	}
	if c.ContainerWidth <= 0 {
		c.ContainerWidth = DefaultContainerWidth
	}
	if c.ContainerHeight <= 0 {
		c.ContainerHeight = DefaultContainerHeight
	}
	if c.Background == (Color{}) {
		c.Background = ColorBlack
	}
	if c.FrameRate <= 0 {
		c.FrameRate = DefaultFrameRate
	}
	return c
}
