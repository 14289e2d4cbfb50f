// Package assemble orchestrates one end-to-end video assembly run: feed
// intake, script generation, narration, transcription, per-segment media
// resolution, and rendering. Every reusable artifact goes through the
// cache first, so a warm rerun of the same inputs touches no provider.
package assemble

import "errors"

// ErrNoSegments indicates transcription produced nothing to render.
var ErrNoSegments = errors.New("no narration segments to render")
