package birch

import "testing"

func TestEmitter_OrderAndOnce(t *testing.T) {
	var e Emitter
	var got []string
	e.On(EventUpdated, func(Event) { got = append(got, "a") })
	e.Once(EventUpdated, func(Event) { got = append(got, "once") })
	e.On(EventUpdated, func(Event) { got = append(got, "b") })

	if !e.Emit(Event{Kind: EventUpdated}) {
		t.Fatal("Emit reported no listener")
	}
	e.Emit(Event{Kind: EventUpdated})

	want := []string{"a", "once", "b", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEmitter_EmitWithoutListeners(t *testing.T) {
	var e Emitter
	if e.Emit(Event{Kind: EventResize}) {
		t.Error("Emit with no listeners returned true")
	}
	if e.Has(EventResize) {
		t.Error("Has = true on empty emitter")
	}
}

func TestEmitter_Off(t *testing.T) {
	var e Emitter
	calls := 0
	sub := e.On(EventMouseClick, func(Event) { calls++ })
	if !e.Off(sub) {
		t.Fatal("Off returned false for a registered listener")
	}
	if e.Off(sub) {
		t.Error("second Off returned true")
	}
	sub.Remove()
	e.Emit(Event{Kind: EventMouseClick})
	if calls != 0 {
		t.Errorf("calls = %d after Off, want 0", calls)
	}
}

func TestEmitter_RemoveDuringDispatch(t *testing.T) {
	var e Emitter
	var second Subscription
	secondRan := 0
	e.On(EventCollide, func(Event) { second.Remove() })
	second = e.On(EventCollide, func(Event) { secondRan++ })

	e.Emit(Event{Kind: EventCollide})
	if secondRan != 1 {
		t.Fatalf("listener removed during dispatch ran %d times, want 1", secondRan)
	}
	e.Emit(Event{Kind: EventCollide})
	if secondRan != 1 {
		t.Errorf("removed listener ran again: %d", secondRan)
	}
}

func TestEmitter_AddDuringDispatch(t *testing.T) {
	var e Emitter
	late := 0
	e.Once(EventLoaded, func(Event) {
		e.On(EventLoaded, func(Event) { late++ })
	})
	e.Emit(Event{Kind: EventLoaded})
	if late != 0 {
		t.Fatalf("listener added during dispatch ran in the same Emit")
	}
	e.Emit(Event{Kind: EventLoaded})
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}

func TestEmitter_OffAll(t *testing.T) {
	var e Emitter
	e.On(EventUpdated, func(Event) {})
	e.On(EventResize, func(Event) {})

	e.OffAll(EventUpdated)
	if e.Has(EventUpdated) || !e.Has(EventResize) {
		t.Fatal("OffAll(kind) removed the wrong listeners")
	}
	e.OffAll()
	if e.Has(EventResize) {
		t.Error("OffAll() left listeners")
	}
}

func TestEmitter_EventPayload(t *testing.T) {
	var e Emitter
	ent := NewRectangle("r", 0, 0, 1, 1)
	var got Event
	e.On(EventMouseHover, func(ev Event) { got = ev })
	e.Emit(Event{Kind: EventMouseHover, Entity: ent})
	if got.Entity != ent || got.Kind != EventMouseHover {
		t.Errorf("payload = %+v", got)
	}
}

func TestEventKind_String(t *testing.T) {
	if s := EventMouseClick.String(); s == "" {
		t.Error("empty name for EventMouseClick")
	}
	if EventMouseClick.String() == EventMouseHover.String() {
		t.Error("distinct kinds share a name")
	}
}
