package birch

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

type cameraState struct {
	target *Entity
	center *BoundingBox
	lerp   float64
	scroll *scrollAnim
}

// NewCamera creates a camera entity. Its X and Y are the translation applied
// to every non-fixed entity of its scene. A camera is never drawn and never
// collides.
func NewCamera(name string) *Entity {
	e := newEntity(KindCamera, name)
	e.Fixed = true
	return e
}

func (e *Entity) mustCamera(op string) {
	if e.Kind != KindCamera {
		panic(fmt.Sprintf("birch: %s on %s entity %q", op, e.Kind, e.Name))
	}
}

// SetTarget makes the camera keep target centered in its center box. Pass nil
// to stop following.
func (e *Entity) SetTarget(target *Entity) *Entity {
	e.mustCamera("SetTarget")
	e.cam.target = target
	return e
}

// Target returns the followed entity, or nil.
func (e *Entity) Target() *Entity {
	return e.cam.target
}

// SetCenter sets the region the target is kept centered in. Defaults to the
// whole scene.
func (e *Entity) SetCenter(b *BoundingBox) *Entity {
	e.mustCamera("SetCenter")
	e.cam.center = b
	return e
}

// Center returns the centering region.
func (e *Entity) Center() *BoundingBox {
	return e.cam.center
}

// SetFollowLerp smooths following. A lerp of 0 or 1 snaps immediately; lower
// values give smoother following.
func (e *Entity) SetFollowLerp(lerp float64) *Entity {
	e.mustCamera("SetFollowLerp")
	e.cam.lerp = lerp
	return e
}

// ScrollTo animates the camera offset to x, y over duration seconds. Following
// is suspended while the scroll runs.
func (e *Entity) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) *Entity {
	e.mustCamera("ScrollTo")
	e.cam.scroll = &scrollAnim{
		tweenX: gween.New(float32(e.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(e.Y), float32(y), duration, easeFn),
	}
	return e
}

// IsScrolling reports whether a ScrollTo animation is running.
func (e *Entity) IsScrolling() bool {
	return e.cam.scroll != nil
}

// follow advances the scroll animation, or re-centers on the target.
func (e *Entity) follow(dt float64) {
	if s := e.cam.scroll; s != nil {
		if !s.doneX {
			v, done := s.tweenX.Update(float32(dt))
			e.X = float64(v)
			s.doneX = done
		}
		if !s.doneY {
			v, done := s.tweenY.Update(float32(dt))
			e.Y = float64(v)
			s.doneY = done
		}
		if s.doneX && s.doneY {
			e.cam.scroll = nil
		}
		return
	}
	t := e.cam.target
	if t == nil || t.destroyed {
		return
	}
	var c Rect
	switch {
	case e.cam.center != nil:
		c = e.cam.center.Rect()
	case e.scene != nil:
		c = Rect{Width: e.scene.Width(), Height: e.scene.Height()}
	}
	tx := c.X + c.Width/2 - t.X
	ty := c.Y + c.Height/2 - t.Y
	if l := e.cam.lerp; l > 0 && l < 1 {
		e.X += (tx - e.X) * l
		e.Y += (ty - e.Y) * l
		return
	}
	e.X, e.Y = tx, ty
}
