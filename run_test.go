package birch

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestRun_TicksFollowTheDisplay(t *testing.T) {
	if runTPS != ebiten.SyncWithFPS {
		t.Fatalf("runTPS = %d, want ebiten.SyncWithFPS", runTPS)
	}

	// A 144 Hz display drives Update; the scheduler keeps whatever cap is set.
	tests := []struct {
		name string
		fps  int
	}{
		{"lowered", 30},
		{"raised", 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock, frames := newTestScheduler(60)
			s.Start()
			s.SetFrameRate(tt.fps)
			refresh := time.Second / 144
			for i := 0; i < 144; i++ {
				s.Tick()
				clock.advance(refresh)
			}
			if n := len(*frames); n < tt.fps-1 || n > tt.fps+1 {
				t.Errorf("frames = %d in one second, want about %d", n, tt.fps)
			}
		})
	}
}
