package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"

	"newsreel/internal/domain/entity"
)

// wordsPerSecond approximates a measured narration pace. It only matters
// for the estimated timings the splitter fabricates.
const wordsPerSecond = 2.5

// Splitter derives segments directly from script text on disk instead of
// transcribing audio. It backs the noop narrator: timings are estimated
// from word counts at a fixed speaking pace.
type Splitter struct{}

func NewSplitter() *Splitter {
	return &Splitter{}
}

// Transcribe reads the script text at audioPath and splits it into timed
// sentence segments. The model argument is ignored.
func (s *Splitter) Transcribe(ctx context.Context, audioPath, model string) ([]entity.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("Transcribe: %w", err)
	}

	sentences := splitSentences(string(raw))
	if len(sentences) == 0 {
		return nil, fmt.Errorf("Transcribe: empty script at %s", audioPath)
	}

	segments := make([]entity.Segment, 0, len(sentences))
	cursor := 0.0
	for i, sentence := range sentences {
		words := len(strings.Fields(sentence))
		duration := float64(words) / wordsPerSecond
		segments = append(segments, entity.Segment{
			Index: i,
			Start: cursor,
			End:   cursor + duration,
			Text:  sentence,
		})
		cursor += duration
	}
	return segments, nil
}

func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
