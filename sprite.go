package birch

import (
	"image"
	"math"
)

// spriteState steps a frame rectangle across a sheet.
type spriteState struct {
	frame    Rect
	start    Vec2
	count    int
	duration float64
	index    int
	elapsed  float64
}

// NewImage creates an entity drawing the cached image media. A zero size
// takes the media size once the media is available.
func NewImage(name string, x, y float64, media string) *Entity {
	e := newEntity(KindImage, name)
	e.X, e.Y = x, y
	e.Media = media
	return e
}

// NewSprite creates an entity drawing the frame rectangle of a sprite sheet.
// The entity takes the frame size.
func NewSprite(name string, x, y float64, media string, frame Rect) *Entity {
	e := newEntity(KindSprite, name)
	e.X, e.Y = x, y
	e.Media = media
	e.Width, e.Height = frame.Width, frame.Height
	e.sprite.frame = frame
	e.sprite.start = Vec2{frame.X, frame.Y}
	return e
}

// SetAnimation makes a sprite step through count frames, each shown for
// duration seconds. Frames run left to right, wrapping to the next row at the
// sheet edge. A count below 2 or a non-positive duration stops stepping.
func (e *Entity) SetAnimation(count int, duration float64) *Entity {
	e.sprite.count = count
	e.sprite.duration = duration
	e.sprite.elapsed = 0
	return e
}

// SetFrame moves the sprite to r and makes r the first frame.
func (e *Entity) SetFrame(r Rect) *Entity {
	e.sprite.frame = r
	e.sprite.start = Vec2{r.X, r.Y}
	e.sprite.index = 0
	e.Width, e.Height = r.Width, r.Height
	return e
}

// Frame returns the current frame rectangle.
func (e *Entity) Frame() Rect {
	return e.sprite.frame
}

// FrameIndex returns the position of the current frame in the animation.
func (e *Entity) FrameIndex() int {
	return e.sprite.index
}

// NextFrame advances the sprite by one frame.
func (e *Entity) NextFrame() *Entity {
	s := &e.sprite
	if s.count < 2 || s.frame.Width <= 0 {
		return e
	}
	s.index = (s.index + 1) % s.count
	perRow := s.count
	if m := e.media(); m != nil {
		w, _ := m.Size()
		perRow = max(int(math.Floor((float64(w)-s.start.X)/s.frame.Width)), 1)
	}
	col, row := s.index%perRow, s.index/perRow
	s.frame.X = s.start.X + float64(col)*s.frame.Width
	s.frame.Y = s.start.Y + float64(row)*s.frame.Height
	return e
}

func (e *Entity) stepFrames(dt float64) {
	s := &e.sprite
	if s.count < 2 || s.duration <= 0 {
		return
	}
	s.elapsed += dt
	for s.elapsed >= s.duration {
		s.elapsed -= s.duration
		e.NextFrame()
	}
}

// media returns the image media e draws, or nil while it is not loaded.
func (e *Entity) media() *ImageMedia {
	if e.Media == "" || e.manager == nil || e.manager.assets == nil {
		return nil
	}
	return e.manager.assets.Image(e.Media)
}

// fitMedia gives an unsized image entity the size of its media.
func (e *Entity) fitMedia(m *ImageMedia) {
	if e.Kind == KindImage && e.Width == 0 && e.Height == 0 {
		w, h := m.Size()
		e.Width, e.Height = float64(w), float64(h)
	}
}

func (e *Entity) drawImage(dl *DrawList) {
	m := e.media()
	if m == nil {
		return
	}
	e.fitMedia(m)
	cw, ch := e.Crop()
	if e.Width == 0 || e.Height == 0 {
		return
	}
	mw, mh := m.Size()
	// The crop keeps the source proportional to the entity size.
	src := image.Rect(0, 0,
		int(math.Round(float64(mw)*cw/e.Width)),
		int(math.Round(float64(mh)*ch/e.Height)))
	sx, sy := e.scaleFactors()
	dl.DrawImage(m, src.Add(m.Bounds().Min).Intersect(m.Bounds()), e.X, e.Y, cw*sx, ch*sy)
}

func (e *Entity) drawSprite(dl *DrawList) {
	m := e.media()
	if m == nil {
		return
	}
	f := e.sprite.frame
	cw, ch := e.Crop()
	if e.Width > 0 && e.Height > 0 {
		f.Width *= cw / e.Width
		f.Height *= ch / e.Height
	}
	src := image.Rect(int(f.X), int(f.Y), int(f.X+f.Width), int(f.Y+f.Height))
	src = src.Add(m.Bounds().Min).Intersect(m.Bounds())
	sx, sy := e.scaleFactors()
	dl.DrawImage(m, src, e.X, e.Y, cw*sx, ch*sy)
}
