package assemble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"newsreel/internal/config"
	"newsreel/internal/domain/entity"
	"newsreel/internal/infra/renderer"
	"newsreel/internal/infra/worker"
	"newsreel/internal/usecase/route"
	"newsreel/pkg/hashutil"
)

// queryWords caps how many words of a segment feed the media search.
const queryWords = 6

// ArticleSource supplies the articles one run is built from.
type ArticleSource interface {
	Fetch(ctx context.Context, limit int) ([]*entity.Article, error)
}

// ScriptGenerator produces narration script text from articles.
type ScriptGenerator interface {
	Generate(ctx context.Context, articles []*entity.Article) (string, error)
}

// Narrator synthesizes narration audio for a script.
type Narrator interface {
	Synthesize(ctx context.Context, script, outPath string) error
}

// Transcriber converts narration audio into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, model string) ([]entity.Segment, error)
}

// MediaFetcher resolves one visual artifact per request, falling back
// across providers. It returns the provider that served the artifact.
type MediaFetcher interface {
	Fetch(ctx context.Context, j *entity.Job, req route.Request) (*entity.Artifact, string, error)
}

// RenderPool renders segment tasks under a concurrency budget, firing the
// hooks as tasks settle.
type RenderPool interface {
	Render(ctx context.Context, tasks []renderer.Task, hooks worker.RenderHooks) (int64, []renderer.Task, error)
}

// CacheStore is the artifact cache surface the run reads and writes.
type CacheStore interface {
	Lookup(ctx context.Context, kind entity.ArtifactKind, key string) (*entity.CacheEntry, error)
	Put(ctx context.Context, kind entity.ArtifactKind, key, payloadRef string, meta entity.CacheMetadata) (*entity.CacheEntry, error)
}

// Ledger is the job bookkeeping surface the run reports to.
type Ledger interface {
	Create(ctx context.Context, name, mode string) (*entity.Job, error)
	Advance(ctx context.Context, j *entity.Job, step string, processedSegments int64) error
	RecordError(ctx context.Context, j *entity.Job, jobErr entity.JobError)
	IncrMetric(ctx context.Context, j *entity.Job, name string, delta int64)
	Finish(ctx context.Context, j *entity.Job, processedSegments, minSegments int64) error
	Fail(ctx context.Context, j *entity.Job, reason string) error
	Pause(ctx context.Context, j *entity.Job) error
	PauseRequested(ctx context.Context, j *entity.Job) bool
}

// Service runs the assembly pipeline. Collaborator fields are exported so
// callers wire concrete adapters; the remaining fields tune one run.
type Service struct {
	Articles    ArticleSource
	Scripts     ScriptGenerator
	Narrator    Narrator
	Transcriber Transcriber
	Media       MediaFetcher
	Pool        RenderPool
	Cache       CacheStore
	Jobs        Ledger
	Logger      *slog.Logger

	Preset          config.RenderPreset
	ArticleLimit    int
	MinSegments     int
	OutputDir       string
	TranscribeModel string

	// ImageProviders and VideoProviders are the preference orders used
	// for cache lookups; they must match the router's fallback orders so
	// a warm cache is probed in the same sequence providers would be.
	ImageProviders []string
	VideoProviders []string

	// FallbackImage is the placeholder visual used when every provider
	// is exhausted for a segment.
	FallbackImage string
}

// NewService wires a Service with the run defaults.
func NewService(logger *slog.Logger) *Service {
	preset, _ := config.PresetByName(config.DefaultPresetName)
	return &Service{
		Logger:          logger,
		Preset:          preset,
		ArticleLimit:    5,
		MinSegments:     3,
		OutputDir:       "./out",
		TranscribeModel: "whisper-1",
		ImageProviders:  route.ImageOrder,
		VideoProviders:  route.VideoOrder,
	}
}

// Run executes one full assembly. It always returns the job so callers
// can inspect progress, metrics, and the error log even on failure.
func (s *Service) Run(ctx context.Context) (*entity.Job, error) {
	j, err := s.Jobs.Create(ctx, "news video assembly", s.Preset.Name)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	j.OutputPath = s.OutputDir

	articles, err := s.fetchArticles(ctx, j)
	if err != nil {
		return j, s.settle(ctx, j, err)
	}

	script, scriptKey, err := s.resolveScript(ctx, j, articles)
	if err != nil {
		return j, s.settle(ctx, j, err)
	}

	audioPath, err := s.narrate(ctx, j, script, scriptKey)
	if err != nil {
		return j, s.settle(ctx, j, err)
	}

	segments, err := s.resolveTranscript(ctx, j, audioPath)
	if err != nil {
		return j, s.settle(ctx, j, err)
	}

	tasks, err := s.resolveMedia(ctx, j, segments)
	if err != nil {
		return j, s.settle(ctx, j, err)
	}

	completed, err := s.render(ctx, j, tasks)
	if err != nil {
		return j, s.settle(ctx, j, err)
	}

	if err := s.Jobs.Finish(ctx, j, completed, int64(s.MinSegments)); err != nil {
		return j, fmt.Errorf("Run: %w", err)
	}
	s.Logger.Info("assembly finished",
		slog.String("job_id", j.ID),
		slog.String("status", string(j.Status)),
		slog.Int64("segments_completed", completed),
	)
	return j, nil
}

// settle maps a step error to its final handling. A pause request parks
// the job at the boundary that observed it; anything else was already
// recorded by the failing step and passes through.
func (s *Service) settle(ctx context.Context, j *entity.Job, err error) error {
	if errors.Is(err, entity.ErrPauseRequested) || errors.Is(err, worker.ErrPaused) {
		if j.Status == entity.JobStatusPaused {
			return nil
		}
		return s.Jobs.Pause(ctx, j)
	}
	return err
}

// pauseBoundary is checked before each unit of work starts. It rereads
// the ledger, so a pause issued through the control API stops the run
// even though the run holds its own in-memory copy of the job.
func (s *Service) pauseBoundary(ctx context.Context, j *entity.Job) error {
	if s.Jobs.PauseRequested(ctx, j) {
		return entity.ErrPauseRequested
	}
	return nil
}

// recordElapsed stores a step's wall time in the job counters under
// <step>_elapsed_ms.
func (s *Service) recordElapsed(ctx context.Context, j *entity.Job, step string, start time.Time) {
	s.Jobs.IncrMetric(ctx, j, step+"_elapsed_ms", time.Since(start).Milliseconds())
}

func (s *Service) fetchArticles(ctx context.Context, j *entity.Job) ([]*entity.Article, error) {
	if err := s.Jobs.Advance(ctx, j, "fetch", 0); err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	defer s.recordElapsed(ctx, j, "fetch", time.Now())

	articles, err := s.Articles.Fetch(ctx, s.ArticleLimit)
	if err != nil {
		return nil, s.abort(ctx, j, "fetch", err)
	}
	return articles, nil
}

func (s *Service) resolveScript(ctx context.Context, j *entity.Job, articles []*entity.Article) (string, string, error) {
	if err := s.pauseBoundary(ctx, j); err != nil {
		return "", "", err
	}
	if err := s.Jobs.Advance(ctx, j, "script", 0); err != nil {
		return "", "", fmt.Errorf("resolve script: %w", err)
	}
	defer s.recordElapsed(ctx, j, "script", time.Now())

	urls := make([]string, len(articles))
	for i, a := range articles {
		urls[i] = a.URL
	}
	key := hashutil.ScriptKey(urls)

	if script, ok := s.cachedText(ctx, j, entity.ArtifactKindScript, key); ok {
		return script, key, nil
	}

	script, err := s.Scripts.Generate(ctx, articles)
	if err != nil {
		return "", "", s.abort(ctx, j, "script", err)
	}

	path := filepath.Join(s.OutputDir, "script-"+shortKey(key)+".txt")
	s.storeArtifact(ctx, entity.ArtifactKindScript, key, path, []byte(script), entity.CacheMetadata{
		WordCount: len(strings.Fields(script)),
	})
	return script, key, nil
}

func (s *Service) narrate(ctx context.Context, j *entity.Job, script, scriptKey string) (string, error) {
	if err := s.pauseBoundary(ctx, j); err != nil {
		return "", err
	}
	if err := s.Jobs.Advance(ctx, j, "narration", 0); err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	defer s.recordElapsed(ctx, j, "narration", time.Now())

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return "", s.abort(ctx, j, "narration", err)
	}

	audioPath := filepath.Join(s.OutputDir, "narration-"+shortKey(scriptKey)+".audio")
	if err := s.Narrator.Synthesize(ctx, script, audioPath); err != nil {
		return "", s.abort(ctx, j, "narration", err)
	}
	return audioPath, nil
}

func (s *Service) resolveTranscript(ctx context.Context, j *entity.Job, audioPath string) ([]entity.Segment, error) {
	if err := s.pauseBoundary(ctx, j); err != nil {
		return nil, err
	}
	if err := s.Jobs.Advance(ctx, j, "transcript", 0); err != nil {
		return nil, fmt.Errorf("resolve transcript: %w", err)
	}
	defer s.recordElapsed(ctx, j, "transcript", time.Now())

	audioHash, err := hashutil.File(audioPath)
	if err != nil {
		return nil, s.abort(ctx, j, "transcript", err)
	}
	key := hashutil.TranscriptKey(audioHash, s.TranscribeModel)

	segments, ok := s.cachedSegments(ctx, j, key)
	if !ok {
		segments, err = s.Transcriber.Transcribe(ctx, audioPath, s.TranscribeModel)
		if err != nil {
			return nil, s.abort(ctx, j, "transcript", err)
		}
		if raw, err := json.Marshal(segments); err == nil {
			path := filepath.Join(s.OutputDir, "transcript-"+shortKey(key)+".json")
			s.storeArtifact(ctx, entity.ArtifactKindTranscript, key, path, raw, entity.CacheMetadata{
				Model:       s.TranscribeModel,
				DurationSec: totalDuration(segments),
			})
		}
	}

	if len(segments) == 0 {
		return nil, s.abort(ctx, j, "transcript", ErrNoSegments)
	}
	if len(segments) > s.Preset.MaxSegments {
		s.Logger.Info("capping segments to preset limit",
			slog.String("job_id", j.ID),
			slog.Int("segments", len(segments)),
			slog.Int("max", s.Preset.MaxSegments),
		)
		segments = segments[:s.Preset.MaxSegments]
	}
	return segments, nil
}

// resolveMedia assembles one render task per segment. Each segment is a
// task boundary: a pending pause stops resolution before the next fetch,
// and resumption re-resolves from the cache.
func (s *Service) resolveMedia(ctx context.Context, j *entity.Job, segments []entity.Segment) ([]renderer.Task, error) {
	j.TotalSegments = len(segments)
	if err := s.Jobs.Advance(ctx, j, "media", 0); err != nil {
		return nil, fmt.Errorf("resolve media: %w", err)
	}
	defer s.recordElapsed(ctx, j, "media", time.Now())

	tasks := make([]renderer.Task, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, s.abort(ctx, j, "media", err)
		}
		if err := s.pauseBoundary(ctx, j); err != nil {
			return nil, err
		}
		tasks = append(tasks, renderer.Task{
			Segment:  seg,
			Artifact: s.mediaFor(ctx, j, seg),
			Preset:   s.Preset.Name,
		})
	}
	return tasks, nil
}

// mediaFor resolves one visual for a segment: cached artifact first, then
// the provider router, then the fallback image. It never fails the run;
// a segment without real footage still renders against the placeholder.
func (s *Service) mediaFor(ctx context.Context, j *entity.Job, seg entity.Segment) *entity.Artifact {
	query := queryFor(seg)
	mediaType := entity.MediaTypeImage
	if s.Preset.PreferVideo {
		mediaType = entity.MediaTypeVideo
	}

	if art, ok := s.cachedMedia(ctx, j, query, mediaType); ok {
		return art
	}

	art, provider, err := s.Media.Fetch(ctx, j, route.Request{
		Query:      query,
		Media:      mediaType,
		SegmentIdx: seg.Index,
	})
	if err != nil {
		var exhausted *route.AllExhaustedError
		if errors.As(err, &exhausted) {
			s.Logger.Warn("all providers exhausted, using fallback imagery",
				slog.String("job_id", j.ID),
				slog.String("query", query),
				slog.Int("segment", seg.Index),
			)
			s.Jobs.IncrMetric(ctx, j, "fallback_used", 1)
			return &entity.Artifact{
				Kind:      entity.ArtifactKindMedia,
				LocalPath: s.FallbackImage,
				Provider:  "fallback",
				MediaType: entity.MediaTypeImage,
			}
		}
		s.Jobs.RecordError(ctx, j, entity.JobError{
			Step:       "media",
			SegmentIdx: seg.Index,
			Message:    err.Error(),
		})
		return &entity.Artifact{
			Kind:      entity.ArtifactKindMedia,
			LocalPath: s.FallbackImage,
			Provider:  "fallback",
			MediaType: entity.MediaTypeImage,
		}
	}

	key := hashutil.MediaKey(query, provider, string(art.MediaType))
	s.storeArtifactRef(ctx, entity.ArtifactKindMedia, key, art.URL, entity.CacheMetadata{
		MediaType: string(art.MediaType),
		Provider:  provider,
	})
	return art
}

// render hands the tasks to the pool. The hooks keep the ledger current
// per task: pollers see processed_segments climb as segments finish, and
// an externally issued pause is observed at the next batch boundary.
func (s *Service) render(ctx context.Context, j *entity.Job, tasks []renderer.Task) (int64, error) {
	if err := s.pauseBoundary(ctx, j); err != nil {
		return 0, err
	}
	if err := s.Jobs.Advance(ctx, j, "render", 0); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	defer s.recordElapsed(ctx, j, "render", time.Now())

	hooks := worker.RenderHooks{
		ShouldPause: func() bool {
			return s.Jobs.PauseRequested(ctx, j)
		},
		OnRendered: func(task renderer.Task) {
			if err := s.Jobs.Advance(ctx, j, "render", 1); err != nil {
				s.Logger.Warn("segment progress not recorded",
					slog.String("job_id", j.ID),
					slog.Int("segment", task.Segment.Index),
					slog.String("error", err.Error()),
				)
			}
		},
		OnError: func(task renderer.Task, err error) {
			s.Jobs.RecordError(ctx, j, entity.JobError{
				Step:       "render",
				SegmentIdx: task.Segment.Index,
				Message:    err.Error(),
			})
		},
	}

	completed, remaining, err := s.Pool.Render(ctx, tasks, hooks)
	if err != nil {
		if errors.Is(err, worker.ErrPaused) {
			s.Logger.Info("render paused",
				slog.String("job_id", j.ID),
				slog.Int64("completed", completed),
				slog.Int("remaining", len(remaining)),
			)
			return completed, err
		}
		return completed, s.abort(ctx, j, "render", err)
	}
	return completed, nil
}

// cachedMedia probes the cache in provider preference order, the same
// sequence the router would try on a miss.
func (s *Service) cachedMedia(ctx context.Context, j *entity.Job, query string, mediaType entity.MediaType) (*entity.Artifact, bool) {
	order := s.ImageProviders
	if mediaType == entity.MediaTypeVideo {
		order = s.VideoProviders
	}
	for _, provider := range order {
		entry, err := s.Cache.Lookup(ctx, entity.ArtifactKindMedia, hashutil.MediaKey(query, provider, string(mediaType)))
		if err != nil || entry == nil {
			continue
		}
		s.Jobs.IncrMetric(ctx, j, "cache_hits", 1)
		return &entity.Artifact{
			Kind:      entity.ArtifactKindMedia,
			URL:       entry.PayloadRef,
			Provider:  entry.Metadata.Provider,
			MediaType: entity.MediaType(entry.Metadata.MediaType),
		}, true
	}
	return nil, false
}

func (s *Service) cachedText(ctx context.Context, j *entity.Job, kind entity.ArtifactKind, key string) (string, bool) {
	entry, err := s.Cache.Lookup(ctx, kind, key)
	if err != nil || entry == nil {
		return "", false
	}
	raw, err := os.ReadFile(entry.PayloadRef)
	if err != nil {
		s.Logger.Warn("cached payload unreadable, regenerating",
			slog.String("kind", string(kind)),
			slog.String("payload_ref", entry.PayloadRef),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	s.Jobs.IncrMetric(ctx, j, "cache_hits", 1)
	return string(raw), true
}

func (s *Service) cachedSegments(ctx context.Context, j *entity.Job, key string) ([]entity.Segment, bool) {
	raw, ok := s.cachedText(ctx, j, entity.ArtifactKindTranscript, key)
	if !ok {
		return nil, false
	}
	var segments []entity.Segment
	if err := json.Unmarshal([]byte(raw), &segments); err != nil {
		s.Logger.Warn("cached transcript corrupt, regenerating",
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return segments, true
}

// storeArtifact writes the payload to disk and records it in the cache.
// Cache failures only log; the in-memory artifact carries the run.
func (s *Service) storeArtifact(ctx context.Context, kind entity.ArtifactKind, key, path string, payload []byte, meta entity.CacheMetadata) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.Logger.Warn("artifact directory unavailable", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		s.Logger.Warn("artifact payload write failed", slog.String("error", err.Error()))
		return
	}
	s.storeArtifactRef(ctx, kind, key, path, meta)
}

func (s *Service) storeArtifactRef(ctx context.Context, kind entity.ArtifactKind, key, payloadRef string, meta entity.CacheMetadata) {
	if _, err := s.Cache.Put(ctx, kind, key, payloadRef, meta); err != nil {
		s.Logger.Warn("artifact cache write failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

// abort records the failure on the job, moves it to failed, and returns
// the wrapped cause.
func (s *Service) abort(ctx context.Context, j *entity.Job, step string, cause error) error {
	s.Jobs.RecordError(ctx, j, entity.JobError{
		Step:    step,
		Message: cause.Error(),
	})
	if err := s.Jobs.Fail(ctx, j, fmt.Sprintf("%s: %v", step, cause)); err != nil {
		s.Logger.Warn("marking job failed did not persist",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
	}
	return fmt.Errorf("%s: %w", step, cause)
}

// queryFor derives a media search query from a segment's opening words.
func queryFor(seg entity.Segment) string {
	words := strings.Fields(seg.Text)
	if len(words) > queryWords {
		words = words[:queryWords]
	}
	return strings.Trim(strings.Join(words, " "), ".,!?")
}

func totalDuration(segments []entity.Segment) float64 {
	var total float64
	for _, seg := range segments {
		total += seg.Duration()
	}
	return total
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
