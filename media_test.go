package birch

import (
	"image"
	"strings"
	"sync"
	"testing"
)

func fakeStyle(align TextAlign) TextStyle {
	st := DefaultTextStyle()
	st.Font = fakeFont{size: 10}
	st.FontSize = 10
	st.Align = align
	return st
}

func TestText_MeasureEveryDraw(t *testing.T) {
	e := NewText("t", 0, 0, "ab\n  abcd ", fakeStyle(TextAlignCenter))
	dl := newDrawList()
	e.draw(dl, 1)
	assertNear(t, "Width", e.Width, 20)
	assertNear(t, "Height", e.Height, 10+6+10)

	e.SetText("abcdefgh")
	e.draw(dl, 1)
	assertNear(t, "Width after SetText", e.Width, 40)
	assertNear(t, "Height after SetText", e.Height, 10)
}

func TestText_Align(t *testing.T) {
	tests := []struct {
		align TextAlign
		want  float64
	}{
		{TextAlignLeft, 0},
		{TextAlignCenter, 5},
		{TextAlignRight, 10},
	}
	for _, tt := range tests {
		e := NewText("t", 0, 0, "ab\nabcd", fakeStyle(tt.align)).SetOrigin(-1, -1)
		dl := newDrawList()
		e.draw(dl, 1)
		var first *DrawCommand
		for i := range dl.Commands() {
			if c := &dl.Commands()[i]; c.Type == CommandText && c.Text == "ab" {
				first = c
				break
			}
		}
		if first == nil {
			t.Fatalf("align %d: no command for the first line", tt.align)
		}
		assertNear(t, "line x", first.X, tt.want)
	}
}

func TestText_DecorationsAndScale(t *testing.T) {
	st := fakeStyle(TextAlignLeft)
	st.Background = ColorBlack
	st.Padding = Padding{Top: 2, Right: 4, Bottom: 2, Left: 4}
	st.Shadow = &TextShadow{Color: ColorBlack, OffsetX: 1, OffsetY: 1}
	e := NewText("t", 0, 0, "abc", st).SetStroke(ColorRed, 1).SetScale(3, 3)

	dl := newDrawList()
	e.draw(dl, 1)
	cmds := dl.Commands()
	// background, shadow, 8 outline passes, fill
	if len(cmds) != 1+1+8+1 {
		t.Fatalf("commands = %d, want 11", len(cmds))
	}
	if bg := cmds[0]; bg.Type != CommandFillRect || bg.Width != 15+8 || bg.Height != 10+4 {
		t.Errorf("background = %+v", bg)
	}
	if sx, sy, _ := e.Scale(); sx != 1 || sy != 1 {
		t.Errorf("text scale = %v,%v, want 1,1", sx, sy)
	}
}

func TestText_BackgroundEntityFollows(t *testing.T) {
	s := NewScene("s")
	box := s.NewBox(Num(0), Num(0), Num(100), Num(100))
	e := NewText("t", 10, 20, "hi", fakeStyle(TextAlignLeft)).SetOrigin(-1, 0)
	bg := NewRectangle("bg", 0, 0, 30, 12)
	s.Add(e, bg)
	box.MoveEntity(e)
	e.SetBackgroundEntity(bg)

	e.SetPosition(40, 50)
	e.redraw(0)
	if bg.X != 40 || bg.Y != 50 || bg.OriginX != -1 || bg.Box() != box {
		t.Errorf("background not synced: %+v box=%p", bg.Save(), bg.Box())
	}
}

func TestFontRegistry_Fallback(t *testing.T) {
	r := NewFontRegistry()
	f := r.Font("no-such-family", 16)
	if f == nil || r.Font("no-such-family", 16) != f {
		t.Fatal("fallback face not cached")
	}
	if r.Font("no-such-family", 24) == f {
		t.Error("different sizes share a face")
	}
	if w, _ := f.MeasureString("hello"); w <= 0 {
		t.Errorf("MeasureString width = %v", w)
	}
	if err := r.Register("broken", []byte("not a font")); err == nil {
		t.Error("Register accepted garbage")
	}
}

func newTestImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestSprite_Frames(t *testing.T) {
	assets := NewAssetRegistry()
	assets.Add("sheet", NewImageMedia(newTestImage(64, 32)))
	m := NewEntityManager(assets)
	e := NewSprite("hero", 0, 0, "sheet", Rect{Width: 16, Height: 16}).SetAnimation(6, 0.1)
	m.Add(e)

	want := []Rect{
		{X: 16, Y: 0, Width: 16, Height: 16},
		{X: 32, Y: 0, Width: 16, Height: 16},
		{X: 48, Y: 0, Width: 16, Height: 16},
		{X: 0, Y: 16, Width: 16, Height: 16},
		{X: 16, Y: 16, Width: 16, Height: 16},
		{X: 0, Y: 0, Width: 16, Height: 16},
	}
	for i, w := range want {
		e.stepFrames(0.1)
		if e.Frame() != w {
			t.Fatalf("step %d: frame = %+v, want %+v", i, e.Frame(), w)
		}
	}
	if e.FrameIndex() != 0 {
		t.Errorf("FrameIndex = %d after a full cycle", e.FrameIndex())
	}

	dl := newDrawList()
	e.NextFrame().draw(dl, 1)
	cmds := dl.Commands()
	if len(cmds) != 1 || cmds[0].Source != image.Rect(16, 0, 32, 16) {
		t.Errorf("sprite source = %v", cmds[0].Source)
	}
}

func TestImage_FitsMediaAndCrops(t *testing.T) {
	assets := NewAssetRegistry()
	assets.Add("logo", NewImageMedia(newTestImage(40, 20)))
	m := NewEntityManager(assets)
	e := NewImage("logo", 0, 0, "logo")
	m.Add(e)

	dl := newDrawList()
	e.draw(dl, 1)
	if e.Width != 40 || e.Height != 20 {
		t.Fatalf("size = %vx%v, want media size", e.Width, e.Height)
	}
	e.SetCrop(20, 10)
	dl.reset()
	e.draw(dl, 1)
	if c := dl.Commands()[0]; c.Source != image.Rect(0, 0, 20, 10) || c.Width != 20 {
		t.Errorf("cropped command = %+v", c)
	}

	missing := NewImage("ghost", 0, 0, "not-loaded")
	m.Add(missing)
	dl.reset()
	missing.draw(dl, 1)
	if dl.Len() != 0 {
		t.Error("image without media recorded commands")
	}
}

func TestAssetRegistry_FirstWriterWins(t *testing.T) {
	r := NewAssetRegistry()
	a, b := TextMedia("a"), TextMedia("b")

	var wg sync.WaitGroup
	results := make([]bool, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := Media(a)
			if i%2 == 1 {
				m = b
			}
			results[i] = r.Add("shared", m)
		}(i)
	}
	wg.Wait()

	cached, _ := r.Text("shared")
	for i, ok := range results {
		wrote := "a"
		if i%2 == 1 {
			wrote = "b"
		}
		if ok != (wrote == cached) {
			t.Errorf("writer %d (%s) got %v with cached %q", i, wrote, ok, cached)
		}
	}
	if r.Len() != 1 || !r.Has("shared") {
		t.Errorf("Len = %d", r.Len())
	}
}

func TestAssetRegistry_TypedAccess(t *testing.T) {
	r := NewAssetRegistry()
	img := NewImageMedia(newTestImage(2, 2))
	r.Add("img", img)
	r.Add("txt", TextMedia("hello"))

	if r.Image("img") != img || r.Image("txt") != nil || r.Audio("img") != nil {
		t.Error("typed accessors mixed up kinds")
	}
	if _, ok := r.Text("img"); ok {
		t.Error("Text returned an image")
	}
	if got := strings.Join(r.Names(), ","); got != "img,txt" {
		t.Errorf("Names = %s", got)
	}
}

func TestAssetRegistry_AddAtlas(t *testing.T) {
	hash := `{"frames": {
		"hero": {"frame": {"x": 0, "y": 0, "w": 16, "h": 16}},
		"coin": {"frame": {"x": 16, "y": 0, "w": 8, "h": 8}}
	}}`
	array := `{"textures": [
		{"image": "a.png", "frames": {"tree": {"frame": {"x": 0, "y": 0, "w": 4, "h": 4}}}},
		{"image": "b.png", "frames": {"rock": {"frame": {"x": 2, "y": 2, "w": 4, "h": 4}}}}
	]}`

	r := NewAssetRegistry()
	n, err := r.AddAtlas([]byte(hash), []image.Image{newTestImage(32, 32)})
	if err != nil || n != 2 {
		t.Fatalf("hash atlas: n=%d err=%v", n, err)
	}
	if w, h := r.Image("coin").Size(); w != 8 || h != 8 {
		t.Errorf("coin size = %dx%d", w, h)
	}

	n, err = r.AddAtlas([]byte(array), []image.Image{newTestImage(8, 8), newTestImage(8, 8)})
	if err != nil || n != 2 {
		t.Fatalf("array atlas: n=%d err=%v", n, err)
	}
	if b := r.Image("rock").Bounds(); b != image.Rect(2, 2, 6, 6) {
		t.Errorf("rock bounds = %v", b)
	}

	errorCases := map[string]string{
		"rotated":      `{"frames": {"x": {"frame": {"x": 0, "y": 0, "w": 1, "h": 1}, "rotated": true}}}`,
		"missing page": `{"textures": [{}, {"frames": {"y": {"frame": {"x": 0, "y": 0, "w": 1, "h": 1}}}}]}`,
		"no frames":    `{}`,
		"bad json":     `{`,
	}
	for name, data := range errorCases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewAssetRegistry().AddAtlas([]byte(data), []image.Image{newTestImage(4, 4)}); err == nil {
				t.Error("AddAtlas accepted invalid data")
			}
		})
	}
}
