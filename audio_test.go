package birch

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestAudio(t *testing.T) (*AudioManager, *MixerOutput, *Emitter) {
	t.Helper()
	out := NewMixerOutput(44100)
	globals := &Emitter{}
	return newAudioManager("music", silentBuffer(t, "music.wav"), out, globals), out, globals
}

func drain(out *MixerOutput, n int) {
	samples := make([][2]float64, 8192)
	for range n {
		out.Stream(samples)
	}
}

func TestAudio_CloneIndependence(t *testing.T) {
	am, out, _ := newTestAudio(t)
	c := am.CreateClone()
	am.Play()
	c.Play()
	if out.Len() != 2 {
		t.Fatalf("mixer streams = %d, want 2", out.Len())
	}

	c.Pause()
	if !am.IsPlaying() || am.IsPaused() {
		t.Error("pausing the clone paused the manager")
	}
	if c.IsPlaying() || !c.IsPaused() {
		t.Error("clone not paused")
	}

	am.SetVolume(0.5)
	c.SetSpeed(2)
	if c.Volume() != 1 || am.Speed() != 1 {
		t.Errorf("settings leaked: clone volume %v, manager speed %v", c.Volume(), am.Speed())
	}
	if am.Volume() != 0.5 || c.Speed() != 2 {
		t.Errorf("settings lost: manager volume %v, clone speed %v", am.Volume(), c.Speed())
	}
}

func TestAudio_ResumeDoesNotRestart(t *testing.T) {
	am, out, _ := newTestAudio(t)
	am.Play()
	ctrl := am.ctrl
	am.Pause()
	if !ctrl.Paused {
		t.Fatal("Pause did not pause the stream")
	}
	am.Play()
	if am.ctrl != ctrl || ctrl.Paused || out.Len() != 1 {
		t.Error("Play after Pause restarted playback")
	}

	am.Toggle()
	if !am.IsPaused() {
		t.Error("Toggle did not pause")
	}
	am.Toggle()
	if !am.IsPlaying() {
		t.Error("Toggle did not resume")
	}
}

func TestAudio_PlayToEndThenRestart(t *testing.T) {
	am, out, _ := newTestAudio(t)
	am.Loop = false
	am.Play()
	drain(out, 2)
	if am.IsPlaying() {
		t.Fatal("clone still playing after its buffer ran out")
	}
	first := am.ctrl
	am.Play()
	if am.ctrl == first || !am.IsPlaying() {
		t.Error("Play after the end did not start over")
	}

	looped, out2, _ := newTestAudio(t)
	if !looped.Loop || !looped.CreateClone().Loop {
		t.Fatal("clones do not loop by default")
	}
	looped.Play()
	drain(out2, 4)
	if !looped.IsPlaying() {
		t.Error("looping clone ended")
	}
}

func TestAudio_VisibilitySuspends(t *testing.T) {
	am, _, globals := newTestAudio(t)
	paused := am.CreateClone()
	am.Play()
	paused.Play()
	paused.Pause()

	globals.Emit(Event{Kind: EventVisibilityChange, Hidden: true})
	if !am.ctrl.Paused || !am.IsPlaying() {
		t.Fatal("playing clone not suspended while hidden")
	}

	globals.Emit(Event{Kind: EventVisibilityChange, Hidden: false})
	if am.ctrl.Paused {
		t.Error("suspended clone not resumed")
	}
	if !paused.ctrl.Paused || !paused.IsPaused() {
		t.Error("clone paused by the user was resumed")
	}
}

func TestAudio_MissingBufferEmitsError(t *testing.T) {
	out := NewMixerOutput(44100)
	globals := &Emitter{}
	var got error
	globals.On(EventAudioError, func(ev Event) { got = ev.Err })

	var cached *AudioBuffer
	am := newAudioManager("ghost", nil, out, globals)
	am.resolve = func() *AudioBuffer { return cached }

	am.Play()
	var ae *AudioError
	if !errors.As(got, &ae) || ae.Source != "ghost" {
		t.Fatalf("error = %v, want *AudioError for ghost", got)
	}
	if am.IsStarted() {
		t.Error("clone started without a buffer")
	}

	cached = silentBuffer(t, "ghost.wav")
	am.Play()
	if !am.IsPlaying() {
		t.Error("clone did not pick up the buffer once cached")
	}
}

func TestAudio_Deletion(t *testing.T) {
	am, out, globals := newTestAudio(t)
	c1, c2 := am.CreateClone(), am.CreateClone()
	am.Play()
	c1.Play()
	am.Deletion()

	for i, c := range []*AudioClone{am.AudioClone, c1, c2} {
		if !c.IsDestroyed() || c.IsPlaying() {
			t.Errorf("clone %d not destroyed", i)
		}
	}
	if len(am.Clones()) != 0 {
		t.Error("clones kept after Deletion")
	}
	drain(out, 1)
	if out.Len() != 0 {
		t.Errorf("mixer still holds %d streams", out.Len())
	}
	if globals.Has(EventVisibilityChange) {
		t.Error("destroyed clones still listen for visibility")
	}
	am.Play()
	if am.IsPlaying() {
		t.Error("Play revived a destroyed clone")
	}
}

func TestDecodeAudio_Invalid(t *testing.T) {
	_, err := DecodeAudio("broken.wav", io.NopCloser(strings.NewReader("not a wav")))
	var ae *AudioError
	if !errors.As(err, &ae) || ae.Source != "broken.wav" {
		t.Errorf("err = %v, want *AudioError", err)
	}
}
