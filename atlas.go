package birch

import (
	"encoding/json"
	"fmt"
	"image"
)

// AddAtlas parses TexturePacker JSON data and caches every region as an
// image named after its frame, cut from the given page images. Supports both
// the hash format (single "frames" object) and the array format ("textures"
// array with per-page frame lists). It returns the number of regions added;
// names already taken keep their first value.
func (r *AssetRegistry) AddAtlas(jsonData []byte, pages []image.Image) (int, error) {
	var head struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &head); err != nil {
		return 0, fmt.Errorf("birch: failed to parse atlas JSON: %w", err)
	}

	media := make([]*ImageMedia, len(pages))
	for i, p := range pages {
		media[i] = NewImageMedia(p)
	}

	var regions map[string]atlasRegion
	var err error
	switch {
	case head.Textures != nil:
		regions, err = parseArrayFormat(head.Textures)
	case head.Frames != nil:
		regions, err = parseHashFrames(head.Frames, 0)
	default:
		return 0, fmt.Errorf("birch: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	if err != nil {
		return 0, err
	}

	added := 0
	for name, reg := range regions {
		if reg.page >= len(media) {
			return added, fmt.Errorf("birch: atlas region %q references missing page %d", name, reg.page)
		}
		if reg.rotated {
			return added, fmt.Errorf("birch: atlas region %q is rotated; export the atlas without rotation", name)
		}
		if r.Add(name, media[reg.page].Sub(reg.rect)) {
			added++
		}
	}
	return added, nil
}

type atlasRegion struct {
	page    int
	rect    image.Rectangle
	rotated bool
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int) (map[string]atlasRegion, error) {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return nil, fmt.Errorf("birch: failed to parse atlas frames: %w", err)
	}
	out := make(map[string]atlasRegion, len(frames))
	for name, f := range frames {
		out[name] = frameToRegion(f, page)
	}
	return out, nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage) (map[string]atlasRegion, error) {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return nil, fmt.Errorf("birch: failed to parse atlas textures array: %w", err)
	}
	out := make(map[string]atlasRegion)
	for i, tex := range textures {
		for name, f := range tex.Frames {
			out[name] = frameToRegion(f, i)
		}
	}
	return out, nil
}

func frameToRegion(f jsonFrame, page int) atlasRegion {
	return atlasRegion{
		page:    page,
		rect:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
		rotated: f.Rotated,
	}
}
