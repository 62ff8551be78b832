package birch

import "fmt"

// Collider is anything with an axis-aligned footprint in scene space.
type Collider interface {
	Bounds() Rect
}

// Entity is a drawable object of a scene. A single struct covers every kind;
// Kind selects how it is drawn and which of the kind-specific fields are used.
//
// Hooks are nil by default and skipped. Hooks run on the frame goroutine.
type Entity struct {
	Emitter

	// Name identifies the entity in its manager. Use SetName once the entity
	// is registered. Unnamed entities get a generated name when added.
	Name string
	Kind EntityKind

	X, Y          float64
	Width, Height float64

	// ScaleX and ScaleY scale boxes; ScaleR scales a circle's radius.
	ScaleX, ScaleY, ScaleR float64
	// OriginX and OriginY move the anchor inside the entity, in -1..1 units of
	// half its size. 0,0 is the center.
	OriginX, OriginY float64

	// VelocityX and VelocityY are in pixels per second, multiplied by Speed.
	VelocityX, VelocityY float64
	Speed                float64
	// Gravity is added to VelocityY every second.
	Gravity float64
	// Bounce reflects the velocity on the edges of the entity's box without
	// losing speed.
	Bounce bool

	ZIndex int
	Alpha  float64
	// Fixed entities ignore the camera.
	Fixed  bool
	Hidden bool

	FillColor   Color
	StrokeColor Color
	LineWidth   float64

	// Media is the asset registry key of an image or sprite.
	Media string

	// CropWidth and CropHeight, when positive, limit the drawn area without
	// changing the entity's size.
	CropWidth, CropHeight float64

	// Radius of a circle, before ScaleR.
	Radius float64

	sprite spriteState
	text   textState
	cam    cameraState

	OnInit         func()
	OnBeforeRedraw func()
	OnRedraw       func(dt float64)
	OnAfterRedraw  func()
	OnDraw         func(dl *DrawList)
	OnDestroy      func()

	scene   *Scene
	manager *EntityManager
	box     *BoundingBox
	body    *Rect
	timers  []*Timer
	audio   []*AudioManager

	initialized bool
	destroyed   bool
}

func newEntity(kind EntityKind, name string) *Entity {
	return &Entity{
		Name:      name,
		Kind:      kind,
		ScaleX:    1,
		ScaleY:    1,
		ScaleR:    1,
		Speed:     1,
		Alpha:     1,
		LineWidth: 1,
	}
}

// NewRectangle creates a rectangle entity of the given size, filled white.
func NewRectangle(name string, x, y, w, h float64) *Entity {
	e := newEntity(KindRectangle, name)
	e.X, e.Y, e.Width, e.Height = x, y, w, h
	e.FillColor = ColorWhite
	return e
}

// NewCircle creates a circle entity centered on x, y, filled white. Circles
// have zero width and height; their footprint comes from the radius.
func NewCircle(name string, x, y, radius float64) *Entity {
	e := newEntity(KindCircle, name)
	e.X, e.Y, e.Radius = x, y, radius
	e.FillColor = ColorWhite
	return e
}

// Scene returns the owning scene, or nil.
func (e *Entity) Scene() *Scene { return e.scene }

// Box returns the bounding box e belongs to, or nil.
func (e *Entity) Box() *BoundingBox { return e.box }

// IsDestroyed reports whether Destroy has run.
func (e *Entity) IsDestroyed() bool { return e.destroyed }

// IsInitialized reports whether the init hook has run.
func (e *Entity) IsInitialized() bool { return e.initialized }

// SetName renames e, keeping its position in its manager.
func (e *Entity) SetName(name string) *Entity {
	if e.manager != nil {
		e.manager.rename(e, name)
		return e
	}
	e.Name = name
	return e
}

func (e *Entity) SetPosition(x, y float64) *Entity { e.X, e.Y = x, y; return e }
func (e *Entity) SetSize(w, h float64) *Entity     { e.Width, e.Height = w, h; return e }

// SetScale sets the horizontal and vertical scale.
func (e *Entity) SetScale(sx, sy float64) *Entity {
	e.ScaleX, e.ScaleY = sx, sy
	return e
}

// SetScaleR sets the radius scale of a circle.
func (e *Entity) SetScaleR(sr float64) *Entity {
	e.ScaleR = sr
	return e
}

// Scale returns the effective scale. Text always reports 1, 1; its anchor
// offset still uses ScaleX and ScaleY.
func (e *Entity) Scale() (x, y, r float64) {
	sx, sy := e.scaleFactors()
	return sx, sy, e.ScaleR
}

func (e *Entity) scaleFactors() (float64, float64) {
	if e.Kind == KindText {
		return 1, 1
	}
	return e.ScaleX, e.ScaleY
}

func (e *Entity) SetOrigin(ox, oy float64) *Entity {
	e.OriginX, e.OriginY = ox, oy
	return e
}

func (e *Entity) Origin() Vec2 { return Vec2{e.OriginX, e.OriginY} }

func (e *Entity) SetVelocity(vx, vy float64) *Entity {
	e.VelocityX, e.VelocityY = vx, vy
	return e
}

func (e *Entity) Velocity() Vec2 { return Vec2{e.VelocityX, e.VelocityY} }

func (e *Entity) SetSpeed(s float64) *Entity   { e.Speed = s; return e }
func (e *Entity) SetGravity(g float64) *Entity { e.Gravity = g; return e }
func (e *Entity) SetBounce(b bool) *Entity     { e.Bounce = b; return e }
func (e *Entity) SetZIndex(z int) *Entity      { e.ZIndex = z; return e }
func (e *Entity) SetAlpha(a float64) *Entity   { e.Alpha = a; return e }
func (e *Entity) SetFixed(f bool) *Entity      { e.Fixed = f; return e }
func (e *Entity) SetHidden(h bool) *Entity     { e.Hidden = h; return e }
func (e *Entity) SetFill(c Color) *Entity      { e.FillColor = c; return e }

// SetStroke sets the outline color and width.
func (e *Entity) SetStroke(c Color, width float64) *Entity {
	e.StrokeColor, e.LineWidth = c, width
	return e
}

// SetCrop limits the drawn area to w x h (before scale).
func (e *Entity) SetCrop(w, h float64) *Entity {
	e.CropWidth, e.CropHeight = w, h
	return e
}

// Crop returns the crop size, or the entity size when not cropped.
func (e *Entity) Crop() (w, h float64) {
	w, h = e.Width, e.Height
	if e.CropWidth > 0 {
		w = e.CropWidth
	}
	if e.CropHeight > 0 {
		h = e.CropHeight
	}
	return w, h
}

// SetBox moves e into b.
func (e *Entity) SetBox(b *BoundingBox) *Entity {
	b.MoveEntity(e)
	return e
}

// SetBodyBox overrides the collision footprint with r, relative to the
// top-left corner of the drawn area.
func (e *Entity) SetBodyBox(r Rect) *Entity {
	e.body = &r
	return e
}

// BodyBox returns the collision override, if any.
func (e *Entity) BodyBox() (Rect, bool) {
	if e.body == nil {
		return Rect{}, false
	}
	return *e.body, true
}

// ClearBodyBox restores the default collision footprint.
func (e *Entity) ClearBodyBox() *Entity {
	e.body = nil
	return e
}

func (e *Entity) camera() *Entity {
	if e.scene == nil {
		return nil
	}
	return e.scene.camera
}

func (e *Entity) collidable() bool {
	return !e.destroyed && e.Kind != KindCamera
}

// Bounds returns the collision rectangle: the drawn area after scale and
// origin, before the camera offset.
func (e *Entity) Bounds() Rect {
	if e.Kind == KindCamera {
		return Rect{}
	}
	m := localTransform(e, false)
	x, y := transformPoint(m, e.X, e.Y)
	if e.Kind == KindCircle {
		r := e.Radius * e.ScaleR
		return Rect{X: x - r, Y: y - r, Width: 2 * r, Height: 2 * r}
	}
	if e.body != nil {
		return Rect{X: x + e.body.X, Y: y + e.body.Y, Width: e.body.Width, Height: e.body.Height}
	}
	sx, sy := e.scaleFactors()
	return Rect{X: x, Y: y, Width: e.Width * sx, Height: e.Height * sy}
}

// Collide reports whether e overlaps c. Edges touching count as overlap.
// Cameras and destroyed entities never collide.
func (e *Entity) Collide(c Collider) bool {
	if c == nil || !e.collidable() {
		return false
	}
	if other, ok := c.(*Entity); ok && !other.collidable() {
		return false
	}
	return e.Bounds().Intersects(c.Bounds())
}

// Colliding returns the entities overlapping e in its scene's active world.
func (e *Entity) Colliding() []*Entity {
	if e.scene == nil {
		return nil
	}
	return e.scene.world.Colliding(e)
}

// --- lifecycle ---

func (e *Entity) init() {
	if e.initialized || e.destroyed {
		return
	}
	e.initialized = true
	if e.OnInit != nil {
		e.OnInit()
	}
}

func (e *Entity) beforeRedraw() {
	if e.OnBeforeRedraw != nil {
		e.OnBeforeRedraw()
	}
}

func (e *Entity) redraw(dt float64) {
	if e.destroyed {
		return
	}
	if e.scene != nil && e.scene.world.active {
		e.integrate(dt)
	}
	switch e.Kind {
	case KindSprite:
		e.stepFrames(dt)
	case KindCamera:
		e.follow(dt)
	case KindText:
		e.syncBackground()
	}
	if e.OnRedraw != nil {
		e.OnRedraw(dt)
	}
}

func (e *Entity) afterRedraw() {
	if e.OnAfterRedraw != nil {
		e.OnAfterRedraw()
	}
}

// integrate applies gravity and velocity, then bounces on the box edges.
func (e *Entity) integrate(dt float64) {
	if e.Kind == KindCamera {
		return
	}
	e.VelocityY += e.Gravity * dt
	e.X += e.VelocityX * e.Speed * dt
	e.Y += e.VelocityY * e.Speed * dt

	box := e.box
	if box == nil || !(e.Bounce || box.Rebound) {
		return
	}
	b, r := e.Bounds(), box.Rect()
	switch {
	case b.X < r.X && e.VelocityX < 0:
		e.VelocityX = -e.VelocityX
		e.X += r.X - b.X
	case b.X+b.Width > r.X+r.Width && e.VelocityX > 0:
		e.VelocityX = -e.VelocityX
		e.X -= b.X + b.Width - (r.X + r.Width)
	}
	switch {
	case b.Y < r.Y && e.VelocityY < 0:
		e.VelocityY = -e.VelocityY
		e.Y += r.Y - b.Y
	case b.Y+b.Height > r.Y+r.Height && e.VelocityY > 0:
		e.VelocityY = -e.VelocityY
		e.Y -= b.Y + b.Height - (r.Y + r.Height)
	}
}

// NewTimer creates a timer owned by e. It stops when e is destroyed.
func (e *Entity) NewTimer(fn func(), opts TimerOptions, unique bool) *Timer {
	if e.scene == nil {
		panic(fmt.Sprintf("birch: entity %q must be added to a scene before creating timers", e.Name))
	}
	t := e.scene.NewTimer(fn, opts, unique)
	t.owner = e
	e.timers = append(e.timers, t)
	return t
}

// AttachAudio ties am to e's lifetime.
func (e *Entity) AttachAudio(am *AudioManager) *Entity {
	e.audio = append(e.audio, am)
	return e
}

// Destroy runs the destroy hook and releases everything e owns: timers,
// audio, box membership, broad-phase presence and its manager slot. Calling
// it again does nothing.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.OnDestroy != nil {
		e.OnDestroy()
	}
	for _, t := range e.timers {
		t.Cancel()
	}
	e.timers = nil
	for _, am := range e.audio {
		am.Deletion()
	}
	e.audio = nil
	if e.box != nil {
		e.box.evict(e)
	}
	if e.scene != nil {
		e.scene.world.remove(e)
	}
	if e.manager != nil {
		e.manager.Remove(e)
	}
	e.OffAll()
}

// --- save ---

// EntitySave is the serialized state of an entity.
type EntitySave struct {
	Name       string     `json:"name"`
	Kind       EntityKind `json:"kind"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	ScaleX     float64    `json:"scaleX"`
	ScaleY     float64    `json:"scaleY"`
	ScaleR     float64    `json:"scaleR"`
	OriginX    float64    `json:"originX"`
	OriginY    float64    `json:"originY"`
	VelocityX  float64    `json:"velocityX"`
	VelocityY  float64    `json:"velocityY"`
	Speed      float64    `json:"speed"`
	Gravity    float64    `json:"gravity"`
	Bounce     bool       `json:"bounce,omitempty"`
	ZIndex     int        `json:"zindex"`
	Alpha      float64    `json:"alpha"`
	Fixed      bool       `json:"fixed,omitempty"`
	Hidden     bool       `json:"hidden,omitempty"`
	CropWidth  float64    `json:"cropWidth,omitempty"`
	CropHeight float64    `json:"cropHeight,omitempty"`
	Radius     float64    `json:"radius,omitempty"`
	Media      string     `json:"media,omitempty"`
	Content    string     `json:"content,omitempty"`
	Frame      *Rect      `json:"frame,omitempty"`
	FrameIndex int        `json:"frameIndex,omitempty"`
}

// Save returns the serializable state of e.
func (e *Entity) Save() EntitySave {
	s := EntitySave{
		Name: e.Name, Kind: e.Kind,
		X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
		ScaleX: e.ScaleX, ScaleY: e.ScaleY, ScaleR: e.ScaleR,
		OriginX: e.OriginX, OriginY: e.OriginY,
		VelocityX: e.VelocityX, VelocityY: e.VelocityY,
		Speed: e.Speed, Gravity: e.Gravity, Bounce: e.Bounce,
		ZIndex: e.ZIndex, Alpha: e.Alpha, Fixed: e.Fixed, Hidden: e.Hidden,
		CropWidth: e.CropWidth, CropHeight: e.CropHeight,
		Radius: e.Radius, Media: e.Media,
	}
	switch e.Kind {
	case KindText:
		s.Content = e.text.content
	case KindSprite:
		f := e.sprite.frame
		s.Frame = &f
		s.FrameIndex = e.sprite.index
	}
	return s
}

// Restore applies a saved state. Name and kind are left untouched.
func (e *Entity) Restore(s EntitySave) {
	e.X, e.Y, e.Width, e.Height = s.X, s.Y, s.Width, s.Height
	e.ScaleX, e.ScaleY, e.ScaleR = s.ScaleX, s.ScaleY, s.ScaleR
	e.OriginX, e.OriginY = s.OriginX, s.OriginY
	e.VelocityX, e.VelocityY = s.VelocityX, s.VelocityY
	e.Speed, e.Gravity, e.Bounce = s.Speed, s.Gravity, s.Bounce
	e.ZIndex, e.Alpha, e.Fixed, e.Hidden = s.ZIndex, s.Alpha, s.Fixed, s.Hidden
	e.CropWidth, e.CropHeight = s.CropWidth, s.CropHeight
	e.Radius = s.Radius
	if s.Media != "" {
		e.Media = s.Media
	}
	switch e.Kind {
	case KindText:
		e.text.content = s.Content
	case KindSprite:
		if s.Frame != nil {
			e.sprite.frame = *s.Frame
		}
		e.sprite.index = s.FrameIndex
	}
}
