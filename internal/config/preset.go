package config

import (
	"fmt"
	"sort"
)

// RenderPreset bundles the encode and pacing parameters for one quality
// mode. The mode name travels with the job so a poller can tell what was
// requested.
type RenderPreset struct {
	// Name is the mode identifier stored on the job.
	Name string

	// Width and Height are the output frame dimensions.
	Width  int
	Height int

	// FPS is the output frame rate.
	FPS int

	// VideoBitrate is the encoder target, in ffmpeg notation.
	VideoBitrate string

	// MaxSegments caps how many segments a run renders in this mode.
	MaxSegments int

	// PreferVideo selects the video-first provider order for segment media.
	PreferVideo bool

	// WorkerCeiling bounds the render pool regardless of host resources.
	WorkerCeiling int
}

// presets ordered from cheapest to most expensive.
var presets = map[string]RenderPreset{
	"ultra_fast": {
		Name:          "ultra_fast",
		Width:         854,
		Height:        480,
		FPS:           24,
		VideoBitrate:  "1M",
		MaxSegments:   6,
		PreferVideo:   false,
		WorkerCeiling: 8,
	},
	"fast": {
		Name:          "fast",
		Width:         1280,
		Height:        720,
		FPS:           30,
		VideoBitrate:  "2.5M",
		MaxSegments:   10,
		PreferVideo:   false,
		WorkerCeiling: 8,
	},
	"balanced": {
		Name:          "balanced",
		Width:         1920,
		Height:        1080,
		FPS:           30,
		VideoBitrate:  "5M",
		MaxSegments:   14,
		PreferVideo:   true,
		WorkerCeiling: 6,
	},
	"hq": {
		Name:          "hq",
		Width:         1920,
		Height:        1080,
		FPS:           60,
		VideoBitrate:  "8M",
		MaxSegments:   18,
		PreferVideo:   true,
		WorkerCeiling: 4,
	},
	"production": {
		Name:          "production",
		Width:         3840,
		Height:        2160,
		FPS:           60,
		VideoBitrate:  "20M",
		MaxSegments:   24,
		PreferVideo:   true,
		WorkerCeiling: 2,
	},
}

// DefaultPresetName is used when no mode is requested.
const DefaultPresetName = "balanced"

// PresetByName returns the preset for the given mode name.
func PresetByName(name string) (RenderPreset, error) {
	if name == "" {
		name = DefaultPresetName
	}
	p, ok := presets[name]
	if !ok {
		return RenderPreset{}, fmt.Errorf("unknown render preset %q (known: %v)", name, PresetNames())
	}
	return p, nil
}

// PresetNames returns all known mode names in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
