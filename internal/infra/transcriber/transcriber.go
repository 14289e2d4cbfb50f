// Package transcriber produces timed text segments from narration audio.
// Transcripts are cached upstream by audio content hash and model, so the
// same narration is never transcribed twice.
package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"newsreel/internal/domain/entity"
	"newsreel/internal/resilience/retry"
)

// DefaultModel is the transcription model used when callers pass none.
const DefaultModel = "whisper-1"

// Transcriber converts an audio file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, model string) ([]entity.Segment, error)
}

// Whisper transcribes through the OpenAI audio API.
type Whisper struct {
	client      *openai.Client
	retryConfig retry.Config
	timeout     time.Duration
}

// NewWhisper creates a Whisper transcriber.
func NewWhisper(apiKey string) *Whisper {
	return NewWhisperWithClient(openai.NewClient(apiKey))
}

// NewWhisperWithClient creates a Whisper transcriber around an existing
// client, mainly for pointing at a test server.
func NewWhisperWithClient(client *openai.Client) *Whisper {
	return &Whisper{
		client:      client,
		retryConfig: retry.AIAPIConfig(),
		timeout:     5 * time.Minute,
	}
}

// Transcribe requests a verbose transcription and maps its segments to
// entity.Segment. Timestamps come from the API unchanged.
func (w *Whisper) Transcribe(ctx context.Context, audioPath, model string) ([]entity.Segment, error) {
	if model == "" {
		model = DefaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	var resp openai.AudioResponse
	err := retry.WithBackoff(ctx, w.retryConfig, func(ctx context.Context) error {
		start := time.Now()
		r, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    model,
			FilePath: audioPath,
			Format:   openai.AudioResponseFormatVerboseJSON,
		})
		if err != nil {
			return fmt.Errorf("transcription api error: %w", err)
		}
		resp = r
		slog.InfoContext(ctx, "transcription completed",
			slog.String("model", model),
			slog.Int("segments", len(r.Segments)),
			slog.Duration("duration", time.Since(start)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", audioPath, err)
	}

	segments := make([]entity.Segment, 0, len(resp.Segments))
	for i, s := range resp.Segments {
		segments = append(segments, entity.Segment{
			Index: i,
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("transcribe %s: empty transcript", audioPath)
	}
	return segments, nil
}
