package birch

import (
	"fmt"

	"github.com/google/uuid"
)

// registry is an ordered name-keyed collection. Re-adding a name replaces the
// value in place, keeping its position.
type registry[T comparable] struct {
	order []string
	items map[string]T
}

func newRegistry[T comparable]() registry[T] {
	return registry[T]{items: make(map[string]T)}
}

// put stores v under name and returns the value it replaced.
func (r *registry[T]) put(name string, v T) (old T, replaced bool) {
	if cur, ok := r.items[name]; ok {
		r.items[name] = v
		return cur, true
	}
	r.items[name] = v
	r.order = append(r.order, name)
	return old, false
}

func (r *registry[T]) get(name string) (T, bool) {
	v, ok := r.items[name]
	return v, ok
}

func (r *registry[T]) remove(name string) bool {
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// rename moves the value under from to to, keeping its position. A value
// already stored under to is dropped and returned.
func (r *registry[T]) rename(from, to string) (dropped T, ok bool) {
	v, found := r.items[from]
	if !found || from == to {
		return dropped, false
	}
	if cur, taken := r.items[to]; taken {
		dropped, ok = cur, true
		r.remove(to)
	}
	delete(r.items, from)
	r.items[to] = v
	for i, n := range r.order {
		if n == from {
			r.order[i] = to
			break
		}
	}
	return dropped, ok
}

// values returns a snapshot in registration order.
func (r *registry[T]) values() []T {
	out := make([]T, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.items[n])
	}
	return out
}

func (r *registry[T]) len() int {
	return len(r.order)
}

func (r *registry[T]) clear() {
	r.order = r.order[:0]
	clear(r.items)
}

// autoNameSpace seeds the name-based UUIDs given to unnamed entities.
var autoNameSpace = uuid.MustParse("6f1d3c52-8f0e-4b7a-9a61-2b9e0c4d7f13")

// EntityManager keeps a scene's entities in registration order, keyed by
// name, and shares the game's media cache with them.
type EntityManager struct {
	reg    registry[*Entity]
	scene  *Scene
	assets *AssetRegistry
	seq    map[EntityKind]int
}

// NewEntityManager creates an empty manager reading media from assets.
func NewEntityManager(assets *AssetRegistry) *EntityManager {
	return &EntityManager{reg: newRegistry[*Entity](), assets: assets, seq: make(map[EntityKind]int)}
}

// autoName returns the next free generated name for kind. Names derive from
// the scene name, the kind and a per-kind counter, so a scene built the same
// way twice names its entities the same way and saved states restore.
func (m *EntityManager) autoName(kind EntityKind) string {
	scope := ""
	if m.scene != nil {
		scope = m.scene.Name
	}
	for {
		m.seq[kind]++
		key := fmt.Sprintf("%s/%s-%d", scope, kind, m.seq[kind])
		name := uuid.NewSHA1(autoNameSpace, []byte(key)).String()
		if _, taken := m.reg.get(name); !taken {
			return name
		}
	}
}

// release detaches e once it left m: a scene's entity also leaves the
// scene's boxes and broad-phase space.
func (m *EntityManager) release(e *Entity) {
	e.manager = nil
	s := m.scene
	if s == nil || e.scene != s {
		return
	}
	if e.box != nil {
		e.box.evict(e)
	}
	s.world.remove(e)
	e.scene = nil
}

// Add registers entities. Unnamed entities get a generated name; an entity
// whose name is taken replaces the previous holder in place. An entity
// registered with another manager moves here.
func (m *EntityManager) Add(entities ...*Entity) *EntityManager {
	for _, e := range entities {
		if e == nil {
			panic("birch: cannot add nil entity")
		}
		if e.manager != nil && e.manager != m {
			e.manager.Remove(e)
		}
		if e.Name == "" {
			e.Name = m.autoName(e.Kind)
		}
		if old, replaced := m.reg.put(e.Name, e); replaced && old != e {
			m.release(old)
		}
		e.manager = m
		if m.scene != nil {
			m.scene.adopt(e)
		}
	}
	return m
}

// Remove unregisters entities. Removing an unknown entity does nothing.
func (m *EntityManager) Remove(entities ...*Entity) *EntityManager {
	for _, e := range entities {
		if e == nil || e.manager != m {
			continue
		}
		if cur, ok := m.reg.get(e.Name); ok && cur == e {
			m.reg.remove(e.Name)
		}
		m.release(e)
	}
	return m
}

func (m *EntityManager) rename(e *Entity, name string) {
	if dropped, ok := m.reg.rename(e.Name, name); ok {
		m.release(dropped)
	}
	e.Name = name
}

// Entity returns the entity registered under name, or nil.
func (m *EntityManager) Entity(name string) *Entity {
	e, _ := m.reg.get(name)
	return e
}

// All returns a snapshot of the entities in registration order. Changes to
// the manager do not affect a snapshot already taken.
func (m *EntityManager) All() []*Entity {
	return m.reg.values()
}

// Len returns the number of registered entities.
func (m *EntityManager) Len() int {
	return m.reg.len()
}

// Media returns the shared media cache.
func (m *EntityManager) Media() *AssetRegistry {
	return m.assets
}

// ManagerType groups managers in a ContainerManager.
type ManagerType uint8

const (
	ManagerAudio ManagerType = iota // *AudioManager
	ManagerCustom                   // user-defined managers
)

// Manager is a non-entity object owned by a scene.
type Manager interface {
	ManagerName() string
	ManagerType() ManagerType
	// Deletion releases the manager's resources.
	Deletion()
}

// ContainerManager keeps a scene's non-entity managers in registration
// order, keyed by name.
type ContainerManager struct {
	reg registry[Manager]
}

// NewContainerManager creates an empty manager.
func NewContainerManager() *ContainerManager {
	return &ContainerManager{reg: newRegistry[Manager]()}
}

// Add registers managers, replacing same-named ones in place.
func (c *ContainerManager) Add(managers ...Manager) *ContainerManager {
	for _, mg := range managers {
		if mg == nil {
			panic("birch: cannot add nil manager")
		}
		if mg.ManagerName() == "" {
			panic(fmt.Sprintf("birch: %T has no name", mg))
		}
		c.reg.put(mg.ManagerName(), mg)
	}
	return c
}

// Remove unregisters managers without releasing them.
func (c *ContainerManager) Remove(managers ...Manager) *ContainerManager {
	for _, mg := range managers {
		if cur, ok := c.reg.get(mg.ManagerName()); ok && cur == mg {
			c.reg.remove(mg.ManagerName())
		}
	}
	return c
}

// Get returns the manager registered under name, or nil.
func (c *ContainerManager) Get(name string) Manager {
	mg, _ := c.reg.get(name)
	return mg
}

// All returns a snapshot in registration order.
func (c *ContainerManager) All() []Manager {
	return c.reg.values()
}

// OfType returns the managers of type t in registration order.
func (c *ContainerManager) OfType(t ManagerType) []Manager {
	var out []Manager
	for _, mg := range c.reg.values() {
		if mg.ManagerType() == t {
			out = append(out, mg)
		}
	}
	return out
}

// Len returns the number of registered managers.
func (c *ContainerManager) Len() int {
	return c.reg.len()
}

// destroy releases and unregisters every manager.
func (c *ContainerManager) destroy() {
	for _, mg := range c.reg.values() {
		mg.Deletion()
	}
	c.reg.clear()
}
