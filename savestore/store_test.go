package savestore

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if err := s.Put(ctx, "slot1", "first"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "slot1", "second"); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, err := s.Get(ctx, "slot1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "second" {
		t.Errorf("Get = %q, want %q", got, "second")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestStore_SlotsAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	clock := time.Unix(1000, 0)
	s.now = func() time.Time { return clock }

	if err := s.Put(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Minute)
	if err := s.Put(ctx, "b", "2"); err != nil {
		t.Fatal(err)
	}

	slots, err := s.Slots(ctx)
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 2 || slots[0].Name != "b" || slots[1].Name != "a" {
		t.Fatalf("Slots = %+v, want b then a", slots)
	}

	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	slots, err = s.Slots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || slots[0].Name != "a" {
		t.Errorf("Slots after delete = %+v", slots)
	}
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "saves.db")
	s, err := Open(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "slot", "data"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "slot")
	if err != nil || got != "data" {
		t.Fatalf("Get after reopen = %q, %v", got, err)
	}
}
