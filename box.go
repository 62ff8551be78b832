package birch

// sizer is anything a BoundingBox can resolve percentages against.
type sizer interface {
	Width() float64
	Height() float64
}

// BoundingBox is a rectangular region whose position and size may be
// percentages of a parent region. Percentages are resolved at read time, so a
// box follows its parent when the parent is resized. An entity belongs to at
// most one box.
type BoundingBox struct {
	x, y, w, h Dimension
	parent     sizer
	entities   []*Entity

	// Rebound makes member entities bounce off the box edges while their
	// world is active.
	Rebound bool
}

// NewBoundingBox creates a parentless box. Percentages of a parentless box
// resolve to zero.
func NewBoundingBox(x, y, w, h Dimension) *BoundingBox {
	return &BoundingBox{x: x, y: y, w: w, h: h}
}

// SetParent sets the region percentages resolve against.
func (b *BoundingBox) SetParent(p *BoundingBox) *BoundingBox {
	if p == b {
		panic("birch: bounding box cannot be its own parent")
	}
	if p == nil {
		b.parent = nil
	} else {
		b.parent = p
	}
	return b
}

func (b *BoundingBox) parentSize() (float64, float64) {
	if b.parent == nil {
		return 0, 0
	}
	return b.parent.Width(), b.parent.Height()
}

// X returns the resolved left edge.
func (b *BoundingBox) X() float64 {
	pw, _ := b.parentSize()
	return b.x.Resolve(pw)
}

// Y returns the resolved top edge.
func (b *BoundingBox) Y() float64 {
	_, ph := b.parentSize()
	return b.y.Resolve(ph)
}

// Width returns the resolved width.
func (b *BoundingBox) Width() float64 {
	pw, _ := b.parentSize()
	return b.w.Resolve(pw)
}

// Height returns the resolved height.
func (b *BoundingBox) Height() float64 {
	_, ph := b.parentSize()
	return b.h.Resolve(ph)
}

// Rect returns the resolved rectangle.
func (b *BoundingBox) Rect() Rect {
	return Rect{X: b.X(), Y: b.Y(), Width: b.Width(), Height: b.Height()}
}

// Dimensions returns the unresolved x, y, width and height.
func (b *BoundingBox) Dimensions() (x, y, w, h Dimension) {
	return b.x, b.y, b.w, b.h
}

func (b *BoundingBox) SetX(d Dimension) *BoundingBox      { b.x = d; return b }
func (b *BoundingBox) SetY(d Dimension) *BoundingBox      { b.y = d; return b }
func (b *BoundingBox) SetWidth(d Dimension) *BoundingBox  { b.w = d; return b }
func (b *BoundingBox) SetHeight(d Dimension) *BoundingBox { b.h = d; return b }

// Clone returns a box with the same dimensions and parent and no members.
func (b *BoundingBox) Clone() *BoundingBox {
	return &BoundingBox{x: b.x, y: b.y, w: b.w, h: b.h, parent: b.parent, Rebound: b.Rebound}
}

// MoveEntity makes e a member of b, removing it from its previous box.
func (b *BoundingBox) MoveEntity(e *Entity) *BoundingBox {
	if e == nil {
		panic("birch: cannot move nil entity into a bounding box")
	}
	if e.box == b {
		return b
	}
	if e.box != nil {
		e.box.evict(e)
	}
	b.entities = append(b.entities, e)
	e.box = b
	return b
}

func (b *BoundingBox) evict(e *Entity) {
	for i, m := range b.entities {
		if m == e {
			b.entities = append(b.entities[:i], b.entities[i+1:]...)
			break
		}
	}
	if e.box == b {
		e.box = nil
	}
}

// Contains reports whether e is a member of b.
func (b *BoundingBox) Contains(e *Entity) bool {
	return e != nil && e.box == b
}

// Entities returns the members in the order they joined.
func (b *BoundingBox) Entities() []*Entity {
	out := make([]*Entity, len(b.entities))
	copy(out, b.entities)
	return out
}

// Bounds implements Collider.
func (b *BoundingBox) Bounds() Rect {
	return b.Rect()
}

// BoxSave is the serialized form of a BoundingBox.
type BoxSave struct {
	X       Dimension `json:"x"`
	Y       Dimension `json:"y"`
	Width   Dimension `json:"width"`
	Height  Dimension `json:"height"`
	Rebound bool      `json:"rebound,omitempty"`
	Members []string  `json:"members,omitempty"`
}

// Save returns the serializable state of b.
func (b *BoundingBox) Save() BoxSave {
	s := BoxSave{X: b.x, Y: b.y, Width: b.w, Height: b.h, Rebound: b.Rebound}
	for _, e := range b.entities {
		s.Members = append(s.Members, e.Name)
	}
	return s
}

// Restore applies a saved state. Membership is restored by the owning scene.
func (b *BoundingBox) Restore(s BoxSave) {
	b.x, b.y, b.w, b.h = s.X, s.Y, s.Width, s.Height
	b.Rebound = s.Rebound
}
