package birch

import (
	"errors"
	"fmt"
)

// ErrNoMainScene is returned from Game.Update when a frame runs without a
// main scene.
var ErrNoMainScene = errors.New("birch: no main scene; play a scene before the first frame")

// ConfigError reports an invalid configuration or an unknown input name.
// It is raised synchronously: returned from constructors and lookups,
// panicked with from Query helpers.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("birch: invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("birch: invalid %s %q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadError reports an asset that could not be fetched or decoded. It is
// delivered as an EventLoadError on the global bus.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("birch: load %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AudioError reports an audio buffer that could not be decoded or played.
// It is delivered as an EventAudioError on the global bus.
type AudioError struct {
	Source string
	Err    error
}

func (e *AudioError) Error() string {
	return fmt.Sprintf("birch: audio %q: %v", e.Source, e.Err)
}

func (e *AudioError) Unwrap() error { return e.Err }
