package birch

// TimerOptions sets how long a timer waits between firings. Tick, when
// positive, counts scene updates and takes precedence over Time, which is in
// seconds.
type TimerOptions struct {
	Time float64
	Tick int
}

// Timer runs a callback after a wait, inside its scene's update step. A
// unique timer fires once; others repeat until cancelled.
type Timer struct {
	Emitter

	fn     func()
	opts   TimerOptions
	unique bool

	scene *Scene
	owner *Entity

	playing   bool
	cancelled bool
	elapsed   float64
	ticks     int
}

// Play starts or resumes the timer.
func (t *Timer) Play() *Timer {
	if !t.cancelled {
		t.playing = true
	}
	return t
}

// Pause stops the timer, keeping its progress.
func (t *Timer) Pause() *Timer {
	t.playing = false
	return t
}

// Cancel stops the timer for good. Its callback never runs afterwards.
func (t *Timer) Cancel() {
	t.playing = false
	t.cancelled = true
}

// IsPlaying reports whether the timer is counting.
func (t *Timer) IsPlaying() bool { return t.playing }

// IsCancelled reports whether Cancel ran.
func (t *Timer) IsCancelled() bool { return t.cancelled }

// Wait returns the configured wait: the tick count when counting ticks, the
// time in seconds otherwise.
func (t *Timer) Wait() float64 {
	if t.opts.Tick > 0 {
		return float64(t.opts.Tick)
	}
	return t.opts.Time
}

// SetWait changes the wait, keeping the unit in use, and restarts counting.
func (t *Timer) SetWait(v float64) *Timer {
	if t.opts.Tick > 0 {
		t.opts.Tick = int(v)
	} else {
		t.opts.Time = v
	}
	t.elapsed, t.ticks = 0, 0
	return t
}

// SetTimeWait replaces the options and restarts counting.
func (t *Timer) SetTimeWait(opts TimerOptions) *Timer {
	t.opts = opts
	t.elapsed, t.ticks = 0, 0
	return t
}

// advance counts one scene update of dt seconds and fires when due.
func (t *Timer) advance(dt float64) {
	if !t.playing || t.cancelled || (t.owner != nil && t.owner.destroyed) {
		return
	}
	if t.opts.Tick > 0 {
		t.ticks++
		if t.ticks < t.opts.Tick {
			return
		}
	} else {
		t.elapsed += dt
		if t.elapsed < t.opts.Time {
			return
		}
	}
	t.elapsed, t.ticks = 0, 0
	if t.unique {
		t.Cancel()
	}
	if t.fn != nil {
		t.fn()
	}
	t.Emit(Event{Kind: EventTimer, Scene: t.scene, Entity: t.owner})
}
