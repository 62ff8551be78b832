package birch

import (
	"math"

	"github.com/solarlune/resolv"
)

// worldCellSize is the broad-phase cell size in pixels.
const worldCellSize = 32

// worldSkin inflates broad-phase objects so that touching footprints share a
// cell.
const worldSkin = 1

// World is a scene's root bounding box plus its physics switch. While the
// world is inactive entities still draw but velocity and gravity are frozen
// and no collision events are produced.
type World struct {
	Emitter

	// Box covers the whole scene unless resized.
	Box *BoundingBox

	scene  *Scene
	active bool

	space            *resolv.Space
	originX, originY float64
	spaceW, spaceH   int
	objects        map[*Entity]*resolv.Object
}

func newWorld(s *Scene) *World {
	w := &World{scene: s, objects: make(map[*Entity]*resolv.Object)}
	w.Box = NewBoundingBox(Num(0), Num(0), Percent(100), Percent(100))
	w.Box.parent = s
	return w
}

// Activation turns physics integration and collision tracking on or off.
func (w *World) Activation(active bool) *World {
	w.active = active
	if !active {
		w.space = nil
		clear(w.objects)
	}
	return w
}

// IsActive reports whether physics runs.
func (w *World) IsActive() bool {
	return w.active
}

// Rect returns the resolved world bounds.
func (w *World) Rect() Rect {
	return w.Box.Rect()
}

// Bounds implements Collider.
func (w *World) Bounds() Rect { return w.Rect() }

// sync mirrors the collidable entities into the broad-phase space. The space
// is placed over the union of the world and every live footprint, so entities
// at negative coordinates or past the world box still meet. Objects are
// inflated by worldSkin on each side: resolv only shares cells between
// objects that overlap, and touching edges collide here.
func (w *World) sync(entities []*Entity) {
	area := w.Rect()
	live := make(map[*Entity]Rect, len(entities))
	for _, e := range entities {
		if !e.collidable() {
			continue
		}
		b := e.Bounds()
		live[e] = b
		area = area.Union(b)
	}
	w.fit(area)

	for e, b := range live {
		x, y := b.X-w.originX-worldSkin, b.Y-w.originY-worldSkin
		bw, bh := b.Width+2*worldSkin, b.Height+2*worldSkin
		obj, ok := w.objects[e]
		if !ok {
			obj = resolv.NewObject(x, y, bw, bh)
			obj.Data = e
			w.space.Add(obj)
			w.objects[e] = obj
		} else {
			obj.X, obj.Y, obj.W, obj.H = x, y, bw, bh
		}
		obj.Update()
	}
	for e, obj := range w.objects {
		if _, ok := live[e]; !ok {
			w.space.Remove(obj)
			delete(w.objects, e)
		}
	}
}

// fit rebuilds the space when area, plus the skin, leaves it. The new space
// keeps one spare cell on every side so small moves do not rebuild it.
func (w *World) fit(area Rect) {
	minX, minY := area.X-worldSkin, area.Y-worldSkin
	maxX, maxY := area.X+area.Width+worldSkin, area.Y+area.Height+worldSkin
	if w.space != nil && minX >= w.originX && minY >= w.originY &&
		maxX <= w.originX+float64(w.spaceW) && maxY <= w.originY+float64(w.spaceH) {
		return
	}
	w.originX = math.Floor(minX) - worldCellSize
	w.originY = math.Floor(minY) - worldCellSize
	w.spaceW = int(math.Ceil(maxX-w.originX)) + worldCellSize
	w.spaceH = int(math.Ceil(maxY-w.originY)) + worldCellSize
	w.space = resolv.NewSpace(w.spaceW, w.spaceH, worldCellSize, worldCellSize)
	clear(w.objects)
}

// remove drops e from the broad-phase space.
func (w *World) remove(e *Entity) {
	if obj, ok := w.objects[e]; ok {
		if w.space != nil {
			w.space.Remove(obj)
		}
		delete(w.objects, e)
	}
}

// Colliding returns the entities whose bounds overlap e, in no particular
// order. It returns nil while the world is inactive or before e took part in
// a frame.
func (w *World) Colliding(e *Entity) []*Entity {
	if !w.active || w.space == nil {
		return nil
	}
	obj, ok := w.objects[e]
	if !ok {
		return nil
	}
	col := obj.Check(0, 0)
	if col == nil {
		return nil
	}
	var out []*Entity
	seen := make(map[*Entity]bool)
	bounds := e.Bounds()
	for _, o := range col.Objects {
		other, ok := o.Data.(*Entity)
		if !ok || other == e || seen[other] || other.destroyed {
			continue
		}
		seen[other] = true
		if bounds.Intersects(other.Bounds()) {
			out = append(out, other)
		}
	}
	return out
}

// step refreshes the space and emits EventCollide on both entities of every
// overlapping pair, once per pair.
func (w *World) step(entities []*Entity) {
	if !w.active {
		return
	}
	w.sync(entities)
	order := make(map[*Entity]int, len(entities))
	for i, e := range entities {
		order[e] = i
	}
	for i, e := range entities {
		if !e.collidable() {
			continue
		}
		for _, other := range w.Colliding(e) {
			j, ok := order[other]
			if !ok || j <= i {
				continue
			}
			e.Emit(Event{Kind: EventCollide, Entity: e, Other: other})
			other.Emit(Event{Kind: EventCollide, Entity: other, Other: e})
			w.Emit(Event{Kind: EventCollide, Entity: e, Other: other})
		}
	}
}
