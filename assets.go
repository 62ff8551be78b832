package birch

import (
	"image"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Media is a loaded asset: *ImageMedia, *AudioBuffer or TextMedia.
type Media interface {
	isMedia()
}

// TextMedia is a loaded text asset.
type TextMedia string

func (TextMedia) isMedia() {}

// imagePage is a decoded image shared by every ImageMedia cut from it. The
// GPU copy is created on first draw, on the frame goroutine.
type imagePage struct {
	src image.Image
	img *ebiten.Image
}

// ImageMedia is a rectangle of a decoded image.
type ImageMedia struct {
	page *imagePage
	rect image.Rectangle
}

func (*ImageMedia) isMedia() {}

// NewImageMedia wraps a decoded image. An *ebiten.Image is used directly.
func NewImageMedia(img image.Image) *ImageMedia {
	p := &imagePage{src: img}
	if eimg, ok := img.(*ebiten.Image); ok {
		p.img = eimg
	}
	return &ImageMedia{page: p, rect: img.Bounds()}
}

// Bounds returns the media rectangle within its page.
func (m *ImageMedia) Bounds() image.Rectangle {
	return m.rect
}

// Size returns the media size in pixels.
func (m *ImageMedia) Size() (w, h int) {
	return m.rect.Dx(), m.rect.Dy()
}

// Sub returns the media restricted to r, given relative to its top-left
// corner. The page is shared.
func (m *ImageMedia) Sub(r image.Rectangle) *ImageMedia {
	return &ImageMedia{page: m.page, rect: r.Add(m.rect.Min).Intersect(m.rect)}
}

// Source returns the decoded image the media was cut from.
func (m *ImageMedia) Source() image.Image {
	return m.page.src
}

func (m *ImageMedia) ebitenImage() *ebiten.Image {
	if m.page.img == nil && m.page.src != nil {
		m.page.img = ebiten.NewImageFromImage(m.page.src)
	}
	return m.page.img
}

// AssetRegistry caches loaded media by name. The first successful write for
// a name wins; it is shared by every scene of a game and safe for concurrent
// use.
type AssetRegistry struct {
	mu      sync.RWMutex
	entries map[string]Media
}

// NewAssetRegistry creates an empty registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{entries: make(map[string]Media)}
}

// Add stores m under name. It reports whether m is now the cached value:
// re-adding the cached value succeeds, any other write to a taken name is
// rejected.
func (r *AssetRegistry) Add(name string, m Media) bool {
	if m == nil {
		panic("birch: cannot cache nil media")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[name]; ok {
		return cur == m
	}
	r.entries[name] = m
	return true
}

// Get returns the media cached under name.
func (r *AssetRegistry) Get(name string) (Media, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[name]
	return m, ok
}

// Image returns the image cached under name, or nil.
func (r *AssetRegistry) Image(name string) *ImageMedia {
	m, _ := r.Get(name)
	img, _ := m.(*ImageMedia)
	return img
}

// Audio returns the audio buffer cached under name, or nil.
func (r *AssetRegistry) Audio(name string) *AudioBuffer {
	m, _ := r.Get(name)
	buf, _ := m.(*AudioBuffer)
	return buf
}

// Text returns the text cached under name.
func (r *AssetRegistry) Text(name string) (string, bool) {
	m, _ := r.Get(name)
	t, ok := m.(TextMedia)
	return string(t), ok
}

// Has reports whether name is cached.
func (r *AssetRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of cached entries.
func (r *AssetRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns the cached names in sorted order.
func (r *AssetRegistry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
