package birch

import (
	"context"
	"time"
)

// DefaultFrameRate is the frame cap used when none is configured.
const DefaultFrameRate = 240

// FrameInfo describes a fired frame.
type FrameInfo struct {
	// Time is the monotonic play time in milliseconds. Paused spans are not
	// counted.
	Time float64
	// Frame counts fired frames, starting at 1.
	Frame uint64
}

// FrameScheduler fires a callback at most FrameRate times per second while
// playing. It does not own a goroutine: the host calls Tick (Ebitengine's
// Update does) or Run drives it from a ticker. Frames never overlap because
// Tick runs the callback inline.
type FrameScheduler struct {
	fps      int
	interval time.Duration
	callback func(FrameInfo)

	// now is the clock; replaced in tests.
	now func() time.Time

	playing     bool
	origin      time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	last        time.Duration
	frame       uint64

	// Frames are numbered on a grid of interval steps from base; slot is the
	// grid step of the last fired frame.
	base time.Duration
	slot int64

	reset chan time.Duration
}

// NewFrameScheduler creates a paused scheduler invoking fn once per frame.
// A non-positive fps selects DefaultFrameRate.
func NewFrameScheduler(fps int, fn func(FrameInfo)) *FrameScheduler {
	s := &FrameScheduler{callback: fn, now: time.Now}
	s.SetFrameRate(fps)
	return s
}

// Start begins or resumes firing frames.
func (s *FrameScheduler) Start() {
	if s.playing {
		return
	}
	now := s.now()
	if s.origin.IsZero() {
		s.origin = now
	} else if !s.pausedAt.IsZero() {
		s.pausedTotal += now.Sub(s.pausedAt)
	}
	s.pausedAt = time.Time{}
	s.playing = true
}

// Pause stops firing frames. No partial frame runs after Pause returns.
func (s *FrameScheduler) Pause() {
	if !s.playing {
		return
	}
	s.playing = false
	s.pausedAt = s.now()
}

// IsPlaying reports whether the scheduler fires frames.
func (s *FrameScheduler) IsPlaying() bool {
	return s.playing
}

// SetFrameRate changes the frame cap. It takes effect on the next Tick.
func (s *FrameScheduler) SetFrameRate(fps int) {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	s.fps = fps
	s.interval = time.Second / time.Duration(fps)
	s.base, s.slot = s.last, 0
	if s.reset != nil {
		select {
		case s.reset <- s.interval:
		default:
		}
	}
}

// FrameRate returns the current frame cap.
func (s *FrameScheduler) FrameRate() int {
	return s.fps
}

// Frame returns the number of frames fired so far.
func (s *FrameScheduler) Frame() uint64 {
	return s.frame
}

// Elapsed returns the play time, excluding paused spans.
func (s *FrameScheduler) Elapsed() time.Duration {
	if s.origin.IsZero() {
		return 0
	}
	now := s.now()
	if !s.playing && !s.pausedAt.IsZero() {
		now = s.pausedAt
	}
	return now.Sub(s.origin) - s.pausedTotal
}

// Tick fires one frame if the scheduler is playing and play time entered a
// new frame slot since the previous frame. Slots are fixed interval steps,
// so a host tick arriving slightly early still fires. It reports whether the
// callback ran.
func (s *FrameScheduler) Tick() bool {
	if !s.playing {
		return false
	}
	elapsed := s.Elapsed()
	slot := int64((elapsed - s.base) / s.interval)
	if s.frame > 0 && slot <= s.slot {
		return false
	}
	s.slot = slot
	s.last = elapsed
	s.frame++
	if s.callback != nil {
		s.callback(FrameInfo{
			Time:  float64(elapsed) / float64(time.Millisecond),
			Frame: s.frame,
		})
	}
	return true
}

// Run drives the scheduler from a ticker until ctx is done. It is meant for
// headless hosts; under Ebitengine the game's Update calls Tick instead.
func (s *FrameScheduler) Run(ctx context.Context) error {
	s.reset = make(chan time.Duration, 1)
	defer func() { s.reset = nil }()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-s.reset:
			ticker.Reset(d)
		case <-ticker.C:
			s.Tick()
		}
	}
}
