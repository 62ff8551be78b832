package birch

import "strconv"

// EventKind identifies a kind of event published on an Emitter.
type EventKind uint8

const (
	EventUpdated             EventKind = iota // game: a frame started its update step
	EventResize                               // global: container size check, once per frame
	EventMouseHover                           // entity: the pointer footprint overlaps it
	EventMouseClick                           // entity: the pointer clicked while overlapping it
	EventMoveVelocity                         // entity: redraw finished for this frame
	EventSceneCalled                          // scene: it became the main scene
	EventLoadError                            // global: an asset failed to load
	EventAudioError                           // global: audio failed to decode or play
	EventLoaded                               // global: an asset finished loading
	EventVisibilityChange                     // global: the window lost or regained focus
	EventCollide                              // entity: overlapping another entity in an active world
	EventGamepadConnected                     // gamepad: a device became available
	EventGamepadDisconnected                  // gamepad: the last device went away
	EventTimer                                // timer: the timer fired
)

var eventKindNames = [...]string{
	"updated", "window:resize", "mouse:hover", "mouse:click", "move:velocity",
	"called", "load:error", "audio:error", "loaded", "visibilitychange",
	"collide", "gamepad:connected", "gamepad:disconnected", "timer",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "event(" + strconv.Itoa(int(k)) + ")"
}

// Event is the payload passed to listeners. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind   EventKind
	Entity *Entity
	Other  *Entity
	Scene  *Scene
	Name   string
	Err    error
	Hidden bool
	Width  float64
	Height float64
}

// Handler receives events from an Emitter.
type Handler func(Event)

type listener struct {
	id   uint64
	fn   Handler
	once bool
}

// Emitter is a typed publish/subscribe bus. Listeners run synchronously, in
// subscription order, on the goroutine that calls Emit. The zero value is
// ready to use.
type Emitter struct {
	listeners map[EventKind][]listener
	nextID    uint64
}

// Subscription identifies a registered listener.
type Subscription struct {
	emitter *Emitter
	kind    EventKind
	id      uint64
}

// Remove unregisters the listener. Safe to call more than once.
func (s Subscription) Remove() {
	if s.emitter != nil {
		s.emitter.Off(s)
	}
}

// On registers fn for events of the given kind.
func (e *Emitter) On(kind EventKind, fn Handler) Subscription {
	return e.add(kind, fn, false)
}

// Once registers fn to run for the next event of the given kind only.
func (e *Emitter) Once(kind EventKind, fn Handler) Subscription {
	return e.add(kind, fn, true)
}

func (e *Emitter) add(kind EventKind, fn Handler, once bool) Subscription {
	if fn == nil {
		panic("birch: nil event handler")
	}
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]listener)
	}
	e.nextID++
	e.listeners[kind] = append(e.listeners[kind], listener{id: e.nextID, fn: fn, once: once})
	return Subscription{emitter: e, kind: kind, id: e.nextID}
}

// Off removes a listener. It reports whether the listener was registered.
func (e *Emitter) Off(sub Subscription) bool {
	list := e.listeners[sub.kind]
	for i, l := range list {
		if l.id == sub.id {
			e.listeners[sub.kind] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// OffAll removes every listener of the given kinds, or every listener at all
// when no kind is given.
func (e *Emitter) OffAll(kinds ...EventKind) {
	if len(kinds) == 0 {
		e.listeners = nil
		return
	}
	for _, k := range kinds {
		delete(e.listeners, k)
	}
}

// Has reports whether at least one listener is registered for kind.
func (e *Emitter) Has(kind EventKind) bool {
	return len(e.listeners[kind]) > 0
}

// Emit delivers ev to the listeners registered for ev.Kind and reports
// whether any listener ran. The listener set is captured before dispatch;
// listeners added during dispatch wait for the next Emit.
func (e *Emitter) Emit(ev Event) bool {
	list := e.listeners[ev.Kind]
	if len(list) == 0 {
		return false
	}
	snapshot := make([]listener, len(list))
	copy(snapshot, list)
	for _, l := range snapshot {
		if l.once {
			if !e.Off(Subscription{kind: ev.Kind, id: l.id}) {
				continue
			}
		}
		l.fn(ev)
	}
	return true
}
