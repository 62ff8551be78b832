package birch

import "fmt"

// Scene owns a set of entities, their world and camera, timers and audio.
// Exactly one scene of a game is the main scene at a time; others may be
// layered above it with their own alpha.
type Scene struct {
	Emitter

	Name string
	// Alpha multiplies every entity's alpha while the scene is layered.
	Alpha float64
	// ForcedLoadingOfEntities names the assets a loading scene needs before
	// any other asset is requested.
	ForcedLoadingOfEntities []string

	OnInit         func()
	OnBeforeUpdate func()
	OnUpdate       func(dt float64)
	OnAfterUpdate  func()
	OnDestroy      func()
	// ChangeAllow guards transitions away from (Next) or into (Prev) this
	// scene. Nil allows every transition.
	ChangeAllow func(other *Scene, dir Direction) bool

	game     *Game
	manager  *SceneManager
	entities *EntityManager
	managers *ContainerManager
	world    *World
	camera   *Entity

	state     PlayState
	timers    []*Timer
	tweens    []*TweenGroup
	boxes     []*BoundingBox
	destroyed bool
}

// NewScene creates a scene with an inactive world and a camera.
func NewScene(name string) *Scene {
	s := &Scene{Name: name, Alpha: 1}
	s.entities = NewEntityManager(nil)
	s.entities.scene = s
	s.managers = NewContainerManager()
	s.world = newWorld(s)
	s.camera = NewCamera("camera")
	s.camera.cam.center = NewBoundingBox(Num(0), Num(0), Percent(100), Percent(100))
	s.camera.cam.center.parent = s
	s.entities.Add(s.camera)
	return s
}

// adopt is called by the entity manager for every entity it registers.
func (s *Scene) adopt(e *Entity) {
	e.scene = s
	if e.box == nil && e.Kind != KindCamera {
		s.world.Box.MoveEntity(e)
	}
	if m := e.media(); m != nil {
		e.fitMedia(m)
	}
}

// Game returns the game the scene belongs to, or nil.
func (s *Scene) Game() *Game { return s.game }

// Entities returns the scene's entity manager.
func (s *Scene) Entities() *EntityManager { return s.entities }

// Managers returns the scene's container manager.
func (s *Scene) Managers() *ContainerManager { return s.managers }

// World returns the scene's world.
func (s *Scene) World() *World { return s.world }

// Camera returns the scene's camera entity.
func (s *Scene) Camera() *Entity { return s.camera }

// State returns the scene's role in the frame pipeline.
func (s *Scene) State() PlayState { return s.state }

// Played reports whether the scene is the main scene.
func (s *Scene) Played() bool { return s.state == PlayMain }

// Width returns the canvas width, or 0 while the scene has no game.
func (s *Scene) Width() float64 {
	if s.game == nil {
		return 0
	}
	return s.game.Width()
}

// Height returns the canvas height, or 0 while the scene has no game.
func (s *Scene) Height() float64 {
	if s.game == nil {
		return 0
	}
	return s.game.Height()
}

// Add registers entities with the scene.
func (s *Scene) Add(entities ...*Entity) *Scene {
	s.entities.Add(entities...)
	return s
}

// Entity returns the entity registered under name, or nil.
func (s *Scene) Entity(name string) *Entity {
	return s.entities.Entity(name)
}

// --- creation helpers ---

// NewRectangle creates and registers an unnamed rectangle.
func (s *Scene) NewRectangle(x, y, w, h float64) *Entity {
	e := NewRectangle("", x, y, w, h)
	s.Add(e)
	return e
}

// NewCircle creates and registers an unnamed circle.
func (s *Scene) NewCircle(x, y, radius float64) *Entity {
	e := NewCircle("", x, y, radius)
	s.Add(e)
	return e
}

// NewImage creates and registers an unnamed image entity.
func (s *Scene) NewImage(x, y float64, media string) *Entity {
	e := NewImage("", x, y, media)
	s.Add(e)
	return e
}

// NewSprite creates and registers an unnamed sprite.
func (s *Scene) NewSprite(x, y float64, media string, frame Rect) *Entity {
	e := NewSprite("", x, y, media, frame)
	s.Add(e)
	return e
}

// NewText creates and registers an unnamed text entity with the default
// style.
func (s *Scene) NewText(x, y float64, content string) *Entity {
	e := NewText("", x, y, content, DefaultTextStyle())
	s.Add(e)
	return e
}

// NewBox creates a bounding box whose percentages resolve against the world.
func (s *Scene) NewBox(x, y, w, h Dimension) *BoundingBox {
	b := NewBoundingBox(x, y, w, h)
	b.parent = s.world.Box
	s.boxes = append(s.boxes, b)
	return b
}

// NewTimer creates a playing timer advanced by the scene's update step.
func (s *Scene) NewTimer(fn func(), opts TimerOptions, unique bool) *Timer {
	t := &Timer{fn: fn, opts: opts, unique: unique, scene: s, playing: true}
	s.timers = append(s.timers, t)
	return t
}

// Audio returns the audio manager playing the cached buffer name, creating
// and registering it on first use.
func (s *Scene) Audio(name string) *AudioManager {
	if s.game == nil {
		panic(fmt.Sprintf("birch: scene %q must belong to a game before using audio", s.Name))
	}
	if am, ok := s.managers.Get(name).(*AudioManager); ok && !am.deleted {
		return am
	}
	assets := s.game.assets
	am := newAudioManager(name, assets.Audio(name), s.game.audio, s.game.globals)
	am.resolve = func() *AudioBuffer { return assets.Audio(name) }
	s.managers.Add(am)
	return am
}

// --- lifecycle ---

func (s *Scene) init() {
	if s.OnInit != nil {
		s.OnInit()
	}
}

func (s *Scene) beforeUpdate() {
	if s.OnBeforeUpdate != nil {
		s.OnBeforeUpdate()
	}
}

// update advances tweens and timers, then runs the update hook.
func (s *Scene) update(dt float64) {
	s.stepTweens(dt)
	timers := make([]*Timer, len(s.timers))
	copy(timers, s.timers)
	for _, t := range timers {
		t.advance(dt)
	}
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	clear(s.timers[len(live):])
	s.timers = live

	if s.OnUpdate != nil {
		s.OnUpdate(dt)
	}
}

func (s *Scene) afterUpdate() {
	if s.OnAfterUpdate != nil {
		s.OnAfterUpdate()
	}
}

func (s *Scene) allowChange(other *Scene, dir Direction) bool {
	return s.ChangeAllow == nil || s.ChangeAllow(other, dir)
}

// Destroy runs the destroy hook, cancels timers and destroys every entity
// and manager of the scene.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.OnDestroy != nil {
		s.OnDestroy()
	}
	for _, t := range s.timers {
		t.Cancel()
	}
	s.timers = nil
	s.tweens = nil
	for _, e := range s.entities.All() {
		if e != s.camera {
			e.Destroy()
		}
	}
	s.managers.destroy()
	s.world.Activation(false)
	s.OffAll()
}

// --- save ---

// WorldSave is the serialized state of a world.
type WorldSave struct {
	Active bool    `json:"active"`
	Box    BoxSave `json:"box"`
}

// SceneSave is the serialized state of a scene.
type SceneSave struct {
	Name     string       `json:"name"`
	Alpha    float64      `json:"alpha"`
	World    WorldSave    `json:"world"`
	Boxes    []BoxSave    `json:"boxes,omitempty"`
	Entities []EntitySave `json:"entities"`
}

// Save returns the serializable state of the scene.
func (s *Scene) Save() SceneSave {
	out := SceneSave{
		Name:  s.Name,
		Alpha: s.Alpha,
		World: WorldSave{Active: s.world.active, Box: s.world.Box.Save()},
	}
	for _, b := range s.boxes {
		out.Boxes = append(out.Boxes, b.Save())
	}
	for _, e := range s.entities.All() {
		out.Entities = append(out.Entities, e.Save())
	}
	return out
}

// Restore applies a saved state to the entities, boxes and world that exist
// in the scene, matched by name and position. Unknown entries are skipped.
func (s *Scene) Restore(save SceneSave) {
	s.Alpha = save.Alpha
	s.world.Activation(save.World.Active)
	s.world.Box.Restore(save.World.Box)

	for _, es := range save.Entities {
		if e := s.entities.Entity(es.Name); e != nil && e.Kind == es.Kind {
			e.Restore(es)
		}
	}

	s.restoreMembers(s.world.Box, save.World.Box.Members)
	for i, bs := range save.Boxes {
		if i >= len(s.boxes) {
			break
		}
		s.boxes[i].Restore(bs)
		s.restoreMembers(s.boxes[i], bs.Members)
	}
}

func (s *Scene) restoreMembers(b *BoundingBox, names []string) {
	for _, n := range names {
		if e := s.entities.Entity(n); e != nil {
			b.MoveEntity(e)
		}
	}
}
