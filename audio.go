package birch

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// DefaultSampleRate is the output rate used by Run.
const DefaultSampleRate = beep.SampleRate(48000)

// speakerLatency is the speaker buffer length used by Run.
const speakerLatency = 100 * time.Millisecond

// resampleQuality is the beep resampler quality for speed changes.
const resampleQuality = 4

var (
	errNoBuffer = errors.New("audio buffer not loaded")
	errNoOutput = errors.New("no audio output")
)

// AudioBuffer is a fully decoded sound, shared by every clone playing it.
type AudioBuffer struct {
	// Source is where the sound was decoded from.
	Source string
	Format beep.Format
	buf    *beep.Buffer
}

func (*AudioBuffer) isMedia() {}

// NewAudioBuffer drains s into memory.
func NewAudioBuffer(source string, s beep.Streamer, format beep.Format) *AudioBuffer {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return &AudioBuffer{Source: source, Format: format, buf: buf}
}

// DecodeAudio decodes an mp3 or wav stream, picked by the source extension,
// and closes rc.
func DecodeAudio(source string, rc io.ReadCloser) (*AudioBuffer, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch strings.ToLower(path.Ext(source)) {
	case ".mp3":
		s, format, err = mp3.Decode(rc)
	default:
		s, format, err = wav.Decode(rc)
	}
	if err != nil {
		rc.Close()
		return nil, &AudioError{Source: source, Err: err}
	}
	defer s.Close()
	return NewAudioBuffer(source, s, format), nil
}

// Len returns the number of samples.
func (b *AudioBuffer) Len() int {
	return b.buf.Len()
}

// Duration returns the playing time at normal speed.
func (b *AudioBuffer) Duration() time.Duration {
	return b.Format.SampleRate.D(b.buf.Len())
}

// AudioOutput receives the streamers of started clones. Lock and Unlock guard
// changes to streamers the output is already playing.
type AudioOutput interface {
	Add(s beep.Streamer)
	Lock()
	Unlock()
	SampleRate() beep.SampleRate
}

// SpeakerOutput plays through the system speaker.
type SpeakerOutput struct {
	mixer *beep.Mixer
	sr    beep.SampleRate
}

// NewSpeakerOutput initializes the speaker at sr with the given buffer
// latency.
func NewSpeakerOutput(sr beep.SampleRate, latency time.Duration) (*SpeakerOutput, error) {
	if err := speaker.Init(sr, sr.N(latency)); err != nil {
		return nil, fmt.Errorf("birch: init speaker: %w", err)
	}
	out := &SpeakerOutput{mixer: &beep.Mixer{}, sr: sr}
	speaker.Play(out.mixer)
	return out, nil
}

func (o *SpeakerOutput) Add(s beep.Streamer) {
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

func (o *SpeakerOutput) Lock()                       { speaker.Lock() }
func (o *SpeakerOutput) Unlock()                     { speaker.Unlock() }
func (o *SpeakerOutput) SampleRate() beep.SampleRate { return o.sr }

// MixerOutput mixes clones in memory. Pull samples with Stream, for offline
// rendering or tests.
type MixerOutput struct {
	mu    sync.Mutex
	mixer beep.Mixer
	sr    beep.SampleRate
}

// NewMixerOutput creates an offline output at sr.
func NewMixerOutput(sr beep.SampleRate) *MixerOutput {
	return &MixerOutput{sr: sr}
}

func (o *MixerOutput) Add(s beep.Streamer) {
	o.mu.Lock()
	o.mixer.Add(s)
	o.mu.Unlock()
}

func (o *MixerOutput) Lock()                       { o.mu.Lock() }
func (o *MixerOutput) Unlock()                     { o.mu.Unlock() }
func (o *MixerOutput) SampleRate() beep.SampleRate { return o.sr }

// Stream implements beep.Streamer. It always fills samples, with silence when
// nothing plays.
func (o *MixerOutput) Stream(samples [][2]float64) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Stream(samples)
}

func (o *MixerOutput) Err() error { return nil }

// Len returns the number of streamers still mixed.
func (o *MixerOutput) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Len()
}

// AudioClone is one independently controlled playback of a buffer. It is
// stopped until the first Play; later plays resume. A clone that is playing
// when the window is hidden is suspended and resumes when it is shown again.
type AudioClone struct {
	// Loop repeats the buffer forever. It is on by default; clear it for a
	// one-shot sound. It applies from the next start.
	Loop bool

	key     string
	buffer  *AudioBuffer
	resolve func() *AudioBuffer
	output  AudioOutput
	globals *Emitter
	sub     Subscription

	ctrl      *beep.Ctrl
	volume    *effects.Volume
	resampler *beep.Resampler
	ended     atomic.Bool

	started   bool
	playing   bool
	paused    bool
	suspended bool
	destroyed bool

	vol   float64
	speed float64
}

func newAudioClone(buf *AudioBuffer, out AudioOutput, globals *Emitter) *AudioClone {
	c := &AudioClone{Loop: true, buffer: buf, output: out, globals: globals, vol: 1, speed: 1}
	if globals != nil {
		c.sub = globals.On(EventVisibilityChange, c.onVisibility)
	}
	return c
}

func (c *AudioClone) source() string {
	if c.buffer == nil {
		return c.key
	}
	return c.buffer.Source
}

func (c *AudioClone) fail(err error) {
	if c.globals != nil {
		c.globals.Emit(Event{Kind: EventAudioError, Err: &AudioError{Source: c.source(), Err: err}})
	}
}

func (c *AudioClone) ratio() float64 {
	return c.speed * float64(c.buffer.Format.SampleRate) / float64(c.output.SampleRate())
}

// start builds the streamer chain and hands it to the output.
func (c *AudioClone) start() {
	n := c.buffer.Len()
	var src beep.Streamer
	if c.Loop {
		src = beep.Loop(-1, c.buffer.buf.Streamer(0, n))
	} else {
		src = beep.Seq(c.buffer.buf.Streamer(0, n), beep.Callback(func() { c.ended.Store(true) }))
	}
	c.ended.Store(false)
	c.resampler = beep.ResampleRatio(resampleQuality, c.ratio(), src)
	c.volume = &effects.Volume{Streamer: c.resampler, Base: 2}
	c.applyVolume()
	c.ctrl = &beep.Ctrl{Streamer: c.volume}
	c.output.Add(c.ctrl)
	c.started = true
}

// Play starts the clone, or resumes it when paused. A clone that played to
// its end starts over.
func (c *AudioClone) Play() {
	if c.destroyed {
		return
	}
	if c.buffer == nil && c.resolve != nil {
		c.buffer = c.resolve()
	}
	switch {
	case c.buffer == nil:
		c.fail(errNoBuffer)
		return
	case c.output == nil:
		c.fail(errNoOutput)
		return
	}
	if !c.started || c.ended.Load() {
		if c.ctrl != nil {
			c.output.Lock()
			c.ctrl.Streamer = nil
			c.output.Unlock()
		}
		c.start()
	} else {
		c.output.Lock()
		c.ctrl.Paused = false
		c.output.Unlock()
	}
	c.playing, c.paused, c.suspended = true, false, false
}

// Pause halts a playing clone, keeping its position.
func (c *AudioClone) Pause() {
	if c.destroyed || !c.playing {
		return
	}
	c.output.Lock()
	c.ctrl.Paused = true
	c.output.Unlock()
	c.playing, c.paused, c.suspended = false, true, false
}

// Toggle pauses a playing clone and plays any other.
func (c *AudioClone) Toggle() {
	if c.IsPlaying() {
		c.Pause()
		return
	}
	c.Play()
}

// Destroy stops the clone for good and releases its stream.
func (c *AudioClone) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.ctrl != nil {
		c.output.Lock()
		c.ctrl.Streamer = nil
		c.output.Unlock()
	}
	c.playing, c.paused, c.suspended = false, false, false
	c.sub.Remove()
}

// SetVolume sets the gain, 1 being unchanged and 0 silent.
func (c *AudioClone) SetVolume(v float64) {
	c.vol = math.Max(0, v)
	if c.volume != nil {
		c.output.Lock()
		c.applyVolume()
		c.output.Unlock()
	}
}

func (c *AudioClone) applyVolume() {
	c.volume.Silent = c.vol == 0
	if c.vol > 0 {
		c.volume.Volume = math.Log2(c.vol)
	}
}

// SetSpeed sets the playback rate, 1 being normal.
func (c *AudioClone) SetSpeed(s float64) {
	if s <= 0 {
		return
	}
	c.speed = s
	if c.resampler != nil {
		c.output.Lock()
		c.resampler.SetRatio(c.ratio())
		c.output.Unlock()
	}
}

// Volume returns the gain.
func (c *AudioClone) Volume() float64 { return c.vol }

// Speed returns the playback rate.
func (c *AudioClone) Speed() float64 { return c.speed }

// IsPlaying reports whether the clone plays or is suspended while hidden.
func (c *AudioClone) IsPlaying() bool { return c.playing && !c.ended.Load() }

// IsPaused reports whether Pause stopped the clone.
func (c *AudioClone) IsPaused() bool { return c.paused }

// IsStarted reports whether the clone was ever played.
func (c *AudioClone) IsStarted() bool { return c.started }

// IsDestroyed reports whether Destroy ran.
func (c *AudioClone) IsDestroyed() bool { return c.destroyed }

func (c *AudioClone) onVisibility(ev Event) {
	if c.destroyed || c.ctrl == nil {
		return
	}
	switch {
	case ev.Hidden && c.playing && !c.suspended:
		c.output.Lock()
		c.ctrl.Paused = true
		c.output.Unlock()
		c.suspended = true
	case !ev.Hidden && c.suspended:
		c.output.Lock()
		c.ctrl.Paused = false
		c.output.Unlock()
		c.suspended = false
	}
}

// AudioManager plays a cached buffer and owns extra clones of it. It lives in
// its scene's container manager.
type AudioManager struct {
	*AudioClone

	name    string
	clones  []*AudioClone
	deleted bool
}

func newAudioManager(name string, buf *AudioBuffer, out AudioOutput, globals *Emitter) *AudioManager {
	c := newAudioClone(buf, out, globals)
	c.key = name
	return &AudioManager{AudioClone: c, name: name}
}

// CreateClone returns a new clone of the buffer with its own volume, speed
// and state.
func (m *AudioManager) CreateClone() *AudioClone {
	c := newAudioClone(m.buffer, m.output, m.globals)
	c.key, c.resolve = m.key, m.resolve
	c.Loop = m.Loop
	m.clones = append(m.clones, c)
	return c
}

// Clones returns the clones created so far.
func (m *AudioManager) Clones() []*AudioClone {
	out := make([]*AudioClone, len(m.clones))
	copy(out, m.clones)
	return out
}

// Deletion destroys the manager's own playback and every clone.
func (m *AudioManager) Deletion() {
	m.deleted = true
	m.AudioClone.Destroy()
	for _, c := range m.clones {
		c.Destroy()
	}
	m.clones = nil
}

func (m *AudioManager) ManagerName() string      { return m.name }
func (m *AudioManager) ManagerType() ManagerType { return ManagerAudio }
