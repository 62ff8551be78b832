package birch

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestScene_AnimateRunsToCompletion(t *testing.T) {
	s := NewScene("s")
	e := NewRectangle("e", 0, 0, 4, 4)
	s.Add(e)
	move := TweenPosition(e, 100, 40, 1, ease.Linear)
	s.Animate(move)

	s.update(0.5)
	assertNear(t, "X halfway", e.X, 50)
	assertNear(t, "Y halfway", e.Y, 20)
	if move.Done {
		t.Fatal("group done halfway")
	}
	s.update(0.5)
	assertNear(t, "X", e.X, 100)
	if !move.Done || len(s.tweens) != 0 {
		t.Error("finished group kept by the scene")
	}
}

func TestTweenGroup_Fields(t *testing.T) {
	e := NewRectangle("e", 0, 0, 4, 4)
	tests := []struct {
		name  string
		group *TweenGroup
		check func() bool
	}{
		{"scale", TweenScale(e, 2, 3, 1, ease.Linear), func() bool { return e.ScaleX == 2 && e.ScaleY == 3 }},
		{"alpha", TweenAlpha(e, 0.5, 1, ease.Linear), func() bool { return e.Alpha == 0.5 }},
		{"fill", TweenFill(e, ColorBlack, 1, ease.Linear), func() bool { return e.FillColor == ColorBlack }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.group.Update(1)
			if !tt.group.Done || !tt.check() {
				t.Errorf("group did not reach its target: %+v", e)
			}
		})
	}
}

func TestTweenGroup_StopsOnDestroyedTarget(t *testing.T) {
	s := NewScene("s")
	e := NewRectangle("e", 0, 0, 4, 4)
	s.Add(e)
	fade := TweenAlpha(e, 0, 1, ease.Linear)
	s.Animate(fade)
	e.Destroy()

	s.update(0.5)
	if !fade.Done || e.Alpha != 1 {
		t.Errorf("Done=%v Alpha=%v, want the group stopped untouched", fade.Done, e.Alpha)
	}
}
