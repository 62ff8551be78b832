package birch

import "strconv"

// SceneManager holds a game's scenes in registration order and starts
// transitions between them.
type SceneManager struct {
	game *Game
	reg  registry[*Scene]
}

// NewSceneManager returns a Config.Scenes factory registering scenes in
// order. The first scene is played when the game starts.
func NewSceneManager(scenes ...*Scene) func(*Game) *SceneManager {
	return func(g *Game) *SceneManager {
		m := &SceneManager{game: g, reg: newRegistry[*Scene]()}
		m.Add(scenes...)
		return m
	}
}

// Add registers scenes with the game. A scene named like a registered one
// replaces it in place.
func (m *SceneManager) Add(scenes ...*Scene) *SceneManager {
	for _, s := range scenes {
		if s == nil {
			panic("birch: cannot add nil scene")
		}
		s.game = m.game
		s.manager = m
		if m.game != nil {
			s.entities.assets = m.game.assets
		}
		m.reg.put(s.Name, s)
	}
	return m
}

// Get returns the scene registered under name, or nil.
func (m *SceneManager) Get(name string) *Scene {
	s, _ := m.reg.get(name)
	return s
}

// At returns the scene at registration index i, or nil.
func (m *SceneManager) At(i int) *Scene {
	if i < 0 || i >= m.reg.len() {
		return nil
	}
	return m.reg.items[m.reg.order[i]]
}

// First returns the first registered scene, or nil.
func (m *SceneManager) First() *Scene { return m.At(0) }

// Last returns the last registered scene, or nil.
func (m *SceneManager) Last() *Scene { return m.At(m.reg.len() - 1) }

// Len returns the number of scenes.
func (m *SceneManager) Len() int { return m.reg.len() }

// All returns the scenes in registration order.
func (m *SceneManager) All() []*Scene { return m.reg.values() }

func (m *SceneManager) mustGet(name string) *Scene {
	s := m.Get(name)
	if s == nil {
		panic(&ConfigError{Field: "scene", Value: name})
	}
	return s
}

func (m *SceneManager) mustAt(i int) *Scene {
	s := m.At(i)
	if s == nil {
		panic(&ConfigError{Field: "scene index", Value: strconv.Itoa(i)})
	}
	return s
}

// Play asks for the named scene to become the main scene. The transition
// guards may refuse it. Panics with a *ConfigError for unknown names.
func (m *SceneManager) Play(name string) *Scene {
	s := m.mustGet(name)
	m.game.ChangeScene(s)
	return s
}

// PlayAt is Play by registration index.
func (m *SceneManager) PlayAt(i int) *Scene {
	s := m.mustAt(i)
	m.game.ChangeScene(s)
	return s
}

// PlayWithOpacity layers the named scene above the main scene.
func (m *SceneManager) PlayWithOpacity(name string, alpha float64) *Scene {
	s := m.mustGet(name)
	m.game.PlayWithOpacity(s, alpha)
	return s
}

// PlayWithOpacityAt is PlayWithOpacity by registration index.
func (m *SceneManager) PlayWithOpacityAt(i int, alpha float64) *Scene {
	s := m.mustAt(i)
	m.game.PlayWithOpacity(s, alpha)
	return s
}
