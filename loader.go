package birch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"sort"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a media value. Loads run off the frame goroutine; their
// results are cached on the next frame.
type LoadFunc func(ctx context.Context) (Media, error)

// LoadImage decodes a png, jpeg, gif, bmp or webp file.
func LoadImage(fsys fs.FS, name string) LoadFunc {
	return func(ctx context.Context) (Media, error) {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return NewImageMedia(img), nil
	}
}

// LoadImageData wraps an image that is already in memory.
func LoadImageData(img image.Image) LoadFunc {
	return func(context.Context) (Media, error) {
		if img == nil {
			return nil, errors.New("nil image")
		}
		return NewImageMedia(img), nil
	}
}

// audioDecodes shares one decode between concurrent loads of the same file
// content. Loads are keyed by path and content digest, so equal paths read
// from different file systems decode separately.
var audioDecodes singleflight.Group

// LoadAudio decodes a wav or mp3 file into an AudioBuffer. Decode failures
// are reported as *AudioError.
func LoadAudio(fsys fs.FS, name string) LoadFunc {
	return func(ctx context.Context) (Media, error) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		sum := sha256.Sum256(data)
		key := name + "@" + hex.EncodeToString(sum[:])
		v, err, _ := audioDecodes.Do(key, func() (any, error) {
			return DecodeAudio(name, io.NopCloser(bytes.NewReader(data)))
		})
		if err != nil {
			return nil, err
		}
		return v.(*AudioBuffer), nil
	}
}

// LoadText caches a literal string.
func LoadText(content string) LoadFunc {
	return func(context.Context) (Media, error) {
		return TextMedia(content), nil
	}
}

// LoadTextFile reads a text file.
func LoadTextFile(fsys fs.FS, name string) LoadFunc {
	return func(ctx context.Context) (Media, error) {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return TextMedia(b), nil
	}
}

type loadResult struct {
	name  string
	media Media
	err   error
}

// startLoads runs every load on its own goroutine. Names in forced load
// first; the others are requested once all of them settled, failed or not.
func (g *Game) startLoads(ctx context.Context, loads map[string]LoadFunc, forced []string) {
	if len(loads) == 0 {
		return
	}
	g.loads = make(chan loadResult, len(loads))
	g.pending = len(loads)

	first := make(map[string]bool, len(forced))
	for _, n := range forced {
		if _, ok := loads[n]; ok {
			first[n] = true
		}
	}
	var rest []string
	for n := range loads {
		if !first[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)

	run := func(names []string) {
		var grp errgroup.Group
		for _, n := range names {
			fn := loads[n]
			grp.Go(func() error {
				m, err := fn(ctx)
				if err == nil && m == nil {
					err = errors.New("load returned no media")
				}
				g.loads <- loadResult{name: n, media: m, err: err}
				return nil
			})
		}
		_ = grp.Wait()
	}

	names := make([]string, 0, len(first))
	for n := range first {
		names = append(names, n)
	}
	sort.Strings(names)
	go func() {
		run(names)
		run(rest)
	}()
}

// drainLoads caches the loads completed since the last frame and reports
// them on the global bus.
func (g *Game) drainLoads() {
	for g.pending > 0 {
		select {
		case r := <-g.loads:
			g.pending--
			g.settle(r)
		default:
			return
		}
	}
}

func (g *Game) settle(r loadResult) {
	if r.err != nil {
		var ae *AudioError
		if errors.As(r.err, &ae) {
			g.debugf("audio %s: %v", r.name, r.err)
			g.globals.Emit(Event{Kind: EventAudioError, Name: r.name, Err: ae})
			return
		}
		g.debugf("load %s: %v", r.name, r.err)
		g.globals.Emit(Event{Kind: EventLoadError, Name: r.name, Err: &LoadError{Name: r.name, Err: r.err}})
		return
	}
	if !g.assets.Add(r.name, r.media) {
		g.debugf("load %s: name already cached, result dropped", r.name)
	}
	g.globals.Emit(Event{Kind: EventLoaded, Name: r.name})
}

// Loading reports how many loads have not been cached yet.
func (g *Game) Loading() int {
	return g.pending
}
