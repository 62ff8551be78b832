package birch

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time. The zero value is fully
// transparent and means "not painted" for fill and stroke colors.
type Color struct {
	R, G, B, A float64
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
)

// RGB builds an opaque color from a 0xRRGGBB integer.
func RGB(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" and "0xrrggbb" notations.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	default:
		return Color{}, fmt.Errorf("birch: unsupported color %q", s)
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("birch: unsupported color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("birch: parse color %q: %w", s, err)
	}
	if len(s) == 6 {
		return RGB(uint32(v)), nil
	}
	c := RGB(uint32(v >> 8))
	c.A = float64(v&0xff) / 255
	return c, nil
}

// MustParseColor is like ParseColor but panics on malformed input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// visible reports whether painting with c produces any output.
func (c Color) visible() bool {
	return c.A > 0
}

// toRGBA converts c to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// withAlpha returns c with its alpha multiplied by a.
func (c Color) withAlpha(a float64) Color {
	c.A *= a
	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns v scaled to unit length. The zero vector is returned as is.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle covering r and other.
func (r Rect) Union(other Rect) Rect {
	x0, y0 := math.Min(r.X, other.X), math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.Width, other.X+other.Width)
	y1 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// EntityKind selects the draw strategy of an Entity.
type EntityKind uint8

const (
	KindRectangle EntityKind = iota // solid or stroked rectangle, optionally cropped
	KindCircle                      // arc centered on the entity position
	KindImage                       // cached image media
	KindSprite                      // frame rectangle stepped over an image
	KindText                        // measured multi-line text
	KindCamera                      // view offset consumed by non-fixed entities
)

var kindNames = [...]string{"rectangle", "circle", "image", "sprite", "text", "camera"}

func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// PlayState is the role a Scene currently plays in the frame pipeline.
type PlayState uint8

const (
	PlayNone    PlayState = iota // not updated nor drawn
	PlayOpacity                  // drawn above the main scene with its own alpha
	PlayMain                     // the active scene
)

var playStateNames = [...]string{"none", "opacity", "main"}

func (p PlayState) String() string {
	if int(p) < len(playStateNames) {
		return playStateNames[p]
	}
	return "playstate(" + strconv.Itoa(int(p)) + ")"
}

// Direction tells a scene transition guard which way the change goes.
type Direction uint8

const (
	Next Direction = iota // the guarded scene is being left
	Prev                  // the guarded scene is being entered
)

// TextAlign controls horizontal text alignment within a text entity.
type TextAlign uint8

const (
	TextAlignCenter TextAlign = iota // center each line in the block (default)
	TextAlignLeft                    // align lines to the left edge
	TextAlignRight                   // align lines to the right edge
)
