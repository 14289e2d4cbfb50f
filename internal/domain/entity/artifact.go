package entity

import "time"

// MediaType classifies a fetched media artifact.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Artifact is a concrete fetched or generated result attached to a job:
// an image, video clip, transcript, or script text reference.
type Artifact struct {
	Kind        ArtifactKind
	URL         string
	LocalPath   string
	ContentHash string
	Provider    string
	MediaType   MediaType
	Text        string // populated for script artifacts
	FetchedAt   time.Time
}

// Segment is one narration segment with its timing window. The render
// stage consumes one visual artifact per segment.
type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}
