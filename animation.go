package birch

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of an Entity simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAlpha, TweenFill) and either call Update(dt) each frame or hand it to
// Scene.Animate. If the target entity is destroyed, the group stops
// immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Entity
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target entity has been destroyed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDestroyed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition animates e.X and e.Y to the given coordinates.
func TweenPosition(e *Entity, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.Y), float32(toY), duration, fn)
	g.fields[0] = &e.X
	g.fields[1] = &e.Y
	return g
}

// TweenScale animates e.ScaleX and e.ScaleY.
func TweenScale(e *Entity, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(e.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &e.ScaleX
	g.fields[1] = &e.ScaleY
	return g
}

// TweenFill animates the four components of e.FillColor.
func TweenFill(e *Entity, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: e}
	g.tweens[0] = gween.New(float32(e.FillColor.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(e.FillColor.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(e.FillColor.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(e.FillColor.A), float32(to.A), duration, fn)
	g.fields[0] = &e.FillColor.R
	g.fields[1] = &e.FillColor.G
	g.fields[2] = &e.FillColor.B
	g.fields[3] = &e.FillColor.A
	return g
}

// TweenAlpha animates e.Alpha.
func TweenAlpha(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.Alpha), float32(to), duration, fn)
	g.fields[0] = &e.Alpha
	return g
}

// Animate advances groups during the scene's update step until they are
// done.
func (s *Scene) Animate(groups ...*TweenGroup) *Scene {
	s.tweens = append(s.tweens, groups...)
	return s
}

// stepTweens advances the animated groups and drops the finished ones.
func (s *Scene) stepTweens(dt float64) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(float32(dt))
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}
