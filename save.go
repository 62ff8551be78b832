package birch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// saveVersion tags the state string layout.
const saveVersion = 1

// ErrSaveDisabled is returned by Game.Save and Game.Restore when Config.Save
// is off or no SaveStore is configured.
var ErrSaveDisabled = errors.New("birch: saving is disabled")

// SaveStore persists state strings by slot.
type SaveStore interface {
	Put(ctx context.Context, slot, data string) error
	// Get returns the data saved in slot. A missing slot is an error
	// wrapping fs.ErrNotExist.
	Get(ctx context.Context, slot string) (string, error)
}

// GameSave is the decoded content of a state string.
type GameSave struct {
	Version int         `json:"version"`
	Current string      `json:"current,omitempty"`
	Scenes  []SceneSave `json:"scenes"`
}

// Snapshot returns the saved state of every registered scene.
func (g *Game) Snapshot() GameSave {
	out := GameSave{Version: saveVersion}
	if g.current != nil {
		out.Current = g.current.Name
	}
	for _, s := range g.scenes.All() {
		out.Scenes = append(out.Scenes, s.Save())
	}
	return out
}

// Apply restores every scene named in save. Scenes it does not name keep
// their state; the main scene is not changed.
func (g *Game) Apply(save GameSave) {
	for _, ss := range save.Scenes {
		if s := g.scenes.Get(ss.Name); s != nil {
			s.Restore(ss)
		}
	}
}

// StateSave encodes the state of every scene as an opaque string: JSON,
// zstd-compressed, base64-encoded.
func (g *Game) StateSave() (string, error) {
	return encodeSave(g.Snapshot())
}

// SetStateSave restores a string produced by StateSave.
func (g *Game) SetStateSave(s string) error {
	save, err := decodeSave(s)
	if err != nil {
		return err
	}
	g.Apply(save)
	return nil
}

// Save writes the current state to slot of the configured store.
func (g *Game) Save(ctx context.Context, slot string) error {
	if !g.cfg.Save || g.cfg.SaveStore == nil {
		return ErrSaveDisabled
	}
	s, err := g.StateSave()
	if err != nil {
		return err
	}
	if err := g.cfg.SaveStore.Put(ctx, slot, s); err != nil {
		return fmt.Errorf("birch: save slot %q: %w", slot, err)
	}
	return nil
}

// Restore reads slot from the configured store and applies it.
func (g *Game) Restore(ctx context.Context, slot string) error {
	if !g.cfg.Save || g.cfg.SaveStore == nil {
		return ErrSaveDisabled
	}
	s, err := g.cfg.SaveStore.Get(ctx, slot)
	if err != nil {
		return fmt.Errorf("birch: restore slot %q: %w", slot, err)
	}
	return g.SetStateSave(s)
}

func encodeSave(save GameSave) (string, error) {
	data, err := json.Marshal(save)
	if err != nil {
		return "", fmt.Errorf("birch: marshal save: %w", err)
	}
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return "", fmt.Errorf("birch: create zstd writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return "", fmt.Errorf("birch: compress save: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("birch: close zstd writer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeSave(s string) (GameSave, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return GameSave{}, fmt.Errorf("birch: decode save: %w", err)
	}
	zr, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return GameSave{}, fmt.Errorf("birch: create zstd reader: %w", err)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return GameSave{}, fmt.Errorf("birch: decompress save: %w", err)
	}
	var save GameSave
	if err := json.Unmarshal(data, &save); err != nil {
		return GameSave{}, fmt.Errorf("birch: unmarshal save: %w", err)
	}
	if save.Version != saveVersion {
		return GameSave{}, fmt.Errorf("birch: unsupported save version %d", save.Version)
	}
	return save, nil
}
