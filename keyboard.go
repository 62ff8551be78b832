package birch

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// keyNames maps lower-cased key names to keys: Ebitengine names ("arrowup",
// "a", "digit1"), DOM codes ("keya") and short aliases ("up", "1", "esc").
var keyNames = buildKeyNames()

func buildKeyNames() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		name := strings.ToLower(k.String())
		if name == "" {
			continue
		}
		m[name] = k
		switch {
		case len(name) == 1 && name[0] >= 'a' && name[0] <= 'z':
			m["key"+name] = k
		case strings.HasPrefix(name, "digit"):
			m[strings.TrimPrefix(name, "digit")] = k
		case strings.HasPrefix(name, "arrow"):
			m[strings.TrimPrefix(name, "arrow")] = k
		}
	}
	m["esc"] = ebiten.KeyEscape
	m["return"] = ebiten.KeyEnter
	m["ctrl"] = ebiten.KeyControl
	m[" "] = ebiten.KeySpace
	return m
}

// vectorTemplates lists up, left, down, right for the named layouts.
var vectorTemplates = map[string][4]string{
	"arrows": {"ArrowUp", "ArrowLeft", "ArrowDown", "ArrowRight"},
	"wasd":   {"KeyW", "KeyA", "KeyS", "KeyD"},
	"zqsd":   {"KeyZ", "KeyQ", "KeyS", "KeyD"},
}

// Keyboard answers key-state queries by name.
type Keyboard struct {
	source InputSource
}

func newKeyboard(src InputSource) *Keyboard {
	return &Keyboard{source: src}
}

// Lookup resolves a key name, case-insensitively.
func (k *Keyboard) Lookup(name string) (ebiten.Key, error) {
	key, ok := keyNames[strings.ToLower(name)]
	if !ok {
		return 0, &ConfigError{Field: "key", Value: name}
	}
	return key, nil
}

func (k *Keyboard) mustLookup(name string) ebiten.Key {
	key, err := k.Lookup(name)
	if err != nil {
		panic(err)
	}
	return key
}

// Query reports whether every named key is held. Unknown names panic with a
// *ConfigError.
func (k *Keyboard) Query(names ...string) bool {
	keys := make([]ebiten.Key, len(names))
	for i, n := range names {
		keys[i] = k.mustLookup(n)
	}
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if !k.source.KeyPressed(key) {
			return false
		}
	}
	return true
}

// VectorQuery returns the unit direction held on a layout: "arrows", "wasd",
// "zqsd", or four key names ordered up, left, down, right. Opposite keys
// cancel out.
func (k *Keyboard) VectorQuery(template ...string) Vec2 {
	var names [4]string
	switch len(template) {
	case 1:
		t, ok := vectorTemplates[strings.ToLower(template[0])]
		if !ok {
			panic(&ConfigError{Field: "vector template", Value: template[0]})
		}
		names = t
	case 4:
		copy(names[:], template)
	default:
		panic(&ConfigError{Field: "vector template", Value: strings.Join(template, ",")})
	}
	var held [4]float64
	for i, n := range names {
		if k.source.KeyPressed(k.mustLookup(n)) {
			held[i] = 1
		}
	}
	return Vec2{X: held[3] - held[1], Y: held[2] - held[0]}.Normalize()
}
