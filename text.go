package birch

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is the interface for text measurement and rendering.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
	// Face returns the face used to render; nil disables rendering.
	Face() text.Face
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face *text.GoTextFace
	lh   float64
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("birch: failed to parse TTF data: %w", err)
	}
	return newTTFFont(source, size), nil
}

func newTTFFont(source *text.GoTextFaceSource, size float64) *TTFFont {
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &TTFFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 { return f.lh }

// Face returns the underlying GoTextFace.
func (f *TTFFont) Face() text.Face { return f.face }

// --- XFont ---

// XFont adapts a golang.org/x/image font.Face, such as one built by
// truetype.NewFace.
type XFont struct {
	face *text.GoXFace
	lh   float64
}

// NewXFont wraps f.
func NewXFont(f font.Face) *XFont {
	m := f.Metrics()
	return &XFont{
		face: text.NewGoXFace(f),
		lh:   float64(m.Height) / 64,
	}
}

// MeasureString returns the width and height of the rendered text.
func (f *XFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *XFont) LineHeight() float64 { return f.lh }

// Face returns the underlying GoXFace.
func (f *XFont) Face() text.Face { return f.face }

// --- FontRegistry ---

// DefaultFontFamily names the built-in Go Regular font.
const DefaultFontFamily = "sans-serif"

type fontKey struct {
	family string
	size   float64
}

// FontRegistry resolves a family and size to a Font, caching faces. Unknown
// families fall back to the built-in Go Regular font.
type FontRegistry struct {
	mu      sync.Mutex
	sources map[string]*text.GoTextFaceSource
	faces   map[fontKey]Font
	builtin *truetype.Font
}

// NewFontRegistry creates a registry holding only the built-in font.
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{
		sources: make(map[string]*text.GoTextFaceSource),
		faces:   make(map[fontKey]Font),
	}
}

// Register makes TTF/OTF data available under family.
func (r *FontRegistry) Register(family string, ttfData []byte) error {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return fmt.Errorf("birch: register font %q: %w", family, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[family] = source
	for k := range r.faces {
		if k.family == family {
			delete(r.faces, k)
		}
	}
	return nil
}

// Font returns the face for family at size.
func (r *FontRegistry) Font(family string, size float64) Font {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := fontKey{family, size}
	if f, ok := r.faces[k]; ok {
		return f
	}
	var f Font
	if src, ok := r.sources[family]; ok {
		f = newTTFFont(src, size)
	} else {
		if r.builtin == nil {
			tt, err := truetype.Parse(goregular.TTF)
			if err != nil {
				panic(fmt.Sprintf("birch: parse built-in font: %v", err))
			}
			r.builtin = tt
		}
		f = NewXFont(truetype.NewFace(r.builtin, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		}))
	}
	r.faces[k] = f
	return f
}

// fallbackFonts serves text entities that are not attached to a game.
var fallbackFonts = NewFontRegistry()

// --- Text entity ---

// Padding is space added around a text block, inside its background.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// TextShadow draws an offset copy of each line behind it.
type TextShadow struct {
	Color            Color
	OffsetX, OffsetY float64
}

// TextStyle controls how a text entity is laid out and painted. The fill and
// outline colors come from the entity's FillColor and StrokeColor.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	// Font, when set, overrides FontFamily and FontSize lookup.
	Font        Font
	LineSpacing float64
	Align       TextAlign
	Padding     Padding
	Background  Color
	Shadow      *TextShadow
}

// DefaultTextStyle returns 16px built-in font, 6px line spacing, centered.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontFamily:  DefaultFontFamily,
		FontSize:    16,
		LineSpacing: 6,
		Align:       TextAlignCenter,
	}
}

type textState struct {
	content    string
	style      TextStyle
	background *Entity
	lines      []string
	widths     []float64
}

// outlineOffsets are the eight directions of the outline pass.
var outlineOffsets = [8][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// NewText creates a text entity painted white with the given style. Its size
// is measured from the content every time it is drawn.
func NewText(name string, x, y float64, content string, style TextStyle) *Entity {
	e := newEntity(KindText, name)
	e.X, e.Y = x, y
	e.FillColor = ColorWhite
	e.text.content = content
	e.text.style = style
	if e.text.style.FontSize <= 0 {
		e.text.style.FontSize = 16
	}
	return e
}

// SetText replaces the content.
func (e *Entity) SetText(s string) *Entity {
	e.text.content = s
	return e
}

// Text returns the content.
func (e *Entity) Text() string {
	return e.text.content
}

// SetTextStyle replaces the style.
func (e *Entity) SetTextStyle(st TextStyle) *Entity {
	e.text.style = st
	return e
}

// TextStyle returns the style.
func (e *Entity) TextStyle() TextStyle {
	return e.text.style
}

// SetBackgroundEntity makes bg follow the text's position, scale, origin and
// box every frame. Pass nil to detach.
func (e *Entity) SetBackgroundEntity(bg *Entity) *Entity {
	e.text.background = bg
	e.syncBackground()
	return e
}

func (e *Entity) syncBackground() {
	bg := e.text.background
	if bg == nil || bg.destroyed {
		return
	}
	bg.ScaleX, bg.ScaleY = e.scaleFactors()
	bg.OriginX, bg.OriginY = e.OriginX, e.OriginY
	bg.X, bg.Y = e.X, e.Y
	if e.box != nil && bg.box != e.box {
		e.box.MoveEntity(bg)
	}
}

func (e *Entity) font() Font {
	st := &e.text.style
	if st.Font != nil {
		return st.Font
	}
	reg := fallbackFonts
	if e.scene != nil && e.scene.game != nil {
		reg = e.scene.game.fonts
	}
	return reg.Font(st.FontFamily, st.FontSize)
}

// measure recomputes the text size from its content: the widest trimmed line
// by the font size plus spacing for every further line.
func (e *Entity) measure() {
	st := &e.text.style
	f := e.font()
	e.text.lines = e.text.lines[:0]
	e.text.widths = e.text.widths[:0]
	var width float64
	for _, line := range strings.Split(e.text.content, "\n") {
		line = strings.TrimSpace(line)
		w, _ := f.MeasureString(line)
		e.text.lines = append(e.text.lines, line)
		e.text.widths = append(e.text.widths, w)
		width = max(width, w)
	}
	n := len(e.text.lines)
	e.Width = width
	e.Height = st.FontSize + float64(n-1)*(st.LineSpacing+st.FontSize)
}

func (e *Entity) drawText(dl *DrawList) {
	st := &e.text.style
	f := e.font()
	pad := st.Padding
	dl.FillRect(e.X, e.Y, e.Width+pad.Left+pad.Right, e.Height+pad.Top+pad.Bottom, st.Background)

	for i, line := range e.text.lines {
		var off float64
		switch st.Align {
		case TextAlignCenter:
			off = (e.Width - e.text.widths[i]) / 2
		case TextAlignRight:
			off = e.Width - e.text.widths[i]
		}
		x := e.X + pad.Left + off
		y := e.Y + pad.Top + float64(i)*(st.LineSpacing+st.FontSize)

		if sh := st.Shadow; sh != nil {
			dl.DrawText(line, f, x+sh.OffsetX, y+sh.OffsetY, sh.Color)
		}
		if e.StrokeColor.visible() && e.LineWidth > 0 {
			for _, o := range outlineOffsets {
				dl.DrawText(line, f, x+o[0]*e.LineWidth, y+o[1]*e.LineWidth, e.StrokeColor)
			}
		}
		dl.DrawText(line, f, x, y, e.FillColor)
	}
}
