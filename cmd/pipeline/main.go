package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"newsreel/internal/config"
	"newsreel/internal/domain/entity"
	pgRepo "newsreel/internal/infra/adapter/persistence/postgres"
	sqliteRepo "newsreel/internal/infra/adapter/persistence/sqlite"
	"newsreel/internal/infra/db"
	"newsreel/internal/infra/feed"
	"newsreel/internal/infra/governor"
	"newsreel/internal/infra/narrator"
	"newsreel/internal/infra/notifier"
	"newsreel/internal/infra/provider"
	"newsreel/internal/infra/renderer"
	"newsreel/internal/infra/scriptgen"
	"newsreel/internal/infra/transcriber"
	workerPkg "newsreel/internal/infra/worker"
	"newsreel/internal/observability/logging"
	"newsreel/internal/observability/slo"
	"newsreel/internal/repository"
	"newsreel/internal/resilience/circuitbreaker"
	"newsreel/internal/resilience/health"
	"newsreel/internal/usecase/assemble"
	cacheUC "newsreel/internal/usecase/cache"
	jobUC "newsreel/internal/usecase/job"
	"newsreel/internal/usecase/route"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "newsreel",
		Usage: "automated news video assembly pipeline",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "execute one assembly run and exit",
				Flags:  commonFlags(),
				Action: runAction,
			},
			{
				Name:   "schedule",
				Usage:  "run assemblies on a cron schedule",
				Flags:  commonFlags(),
				Action: scheduleAction,
			},
			{
				Name:   "evict",
				Usage:  "remove expired cache entries",
				Flags:  commonFlags(),
				Action: evictAction,
			},
			{
				Name:   "presets",
				Usage:  "list the available render presets",
				Action: presetsAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Usage: "environment file path",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML pipeline config path (overrides environment values)",
		},
	}
}

// pipeline holds the wired dependency graph for one command invocation.
type pipeline struct {
	logger   *slog.Logger
	cfg      *config.PipelineConfig
	preset   config.RenderPreset
	database *sql.DB
	jobs     *jobUC.Service
	cache    *cacheUC.Service
	breakers *circuitbreaker.Registry
	assemble *assemble.Service
	notify   *notifier.Multi
	metrics  *workerPkg.PipelineMetrics

	runsTotal     int64
	runsSucceeded int64
}

func (p *pipeline) close() {
	if err := p.database.Close(); err != nil {
		p.logger.Error("failed to close database", slog.Any("error", err))
	}
}

// runOnce executes one assembly run, records run metrics, and sweeps the
// cache for expired entries afterwards.
func (p *pipeline) runOnce(ctx context.Context) error {
	start := time.Now()
	j, err := p.assemble.Run(ctx)

	outcome := "failed"
	if err == nil && j != nil {
		outcome = string(j.Status)
	}
	p.metrics.RecordRun(outcome)
	p.metrics.RecordRunDuration(time.Since(start).Seconds())
	if j != nil {
		p.metrics.RecordSegmentsRendered(int64(j.ProcessedSegments))
		p.logger.Info("run finished",
			slog.String("job_id", j.ID),
			slog.String("status", string(j.Status)),
			slog.Int("progress_percent", j.ProgressPercent),
			slog.Int("processed_segments", j.ProcessedSegments),
			slog.Duration("elapsed", time.Since(start)))
	}
	if outcome == "completed" {
		p.metrics.RecordLastSuccess()
	}
	p.updateSLOs(outcome, j)

	if j != nil && p.notify.Enabled() {
		_ = p.notify.NotifyRun(ctx, j)
	}

	if evicted, evictErr := p.cache.Evict(ctx); evictErr != nil {
		p.logger.Warn("cache eviction failed", slog.Any("error", evictErr))
	} else if evicted > 0 {
		p.metrics.RecordEvicted(evicted)
		p.logger.Info("cache eviction complete", slog.Int64("removed", evicted))
	}

	return err
}

// updateSLOs recomputes the service level gauges after each run. The run
// success ratio is process-lifetime; the fallback and cache-hit ratios are
// per job.
func (p *pipeline) updateSLOs(outcome string, j *entity.Job) {
	p.runsTotal++
	if outcome == "completed" {
		p.runsSucceeded++
	}
	slo.UpdateRunSuccess(float64(p.runsSucceeded) / float64(p.runsTotal))

	if j == nil {
		return
	}
	if j.TotalSegments > 0 {
		slo.UpdateSegmentFallback(float64(j.Metrics.Get("fallback_used")) / float64(j.TotalSegments))
	}
	hits := j.Metrics.Get("cache_hits")
	if lookups := hits + j.Metrics.Get("api_calls_made"); lookups > 0 {
		slo.UpdateCacheHit(float64(hits) / float64(lookups))
	}
}

func setup(cmd *cli.Command) (*pipeline, error) {
	_ = godotenv.Load(cmd.String("env"))

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	var cfg *config.PipelineConfig
	var err error
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadPipelineFile(path)
	} else {
		cfg, err = config.LoadPipelineConfig()
	}
	if err != nil {
		return nil, err
	}

	preset, err := config.PresetByName(cfg.Mode)
	if err != nil {
		return nil, err
	}

	return buildPipeline(logger, cfg, preset)
}

// buildPipeline wires the full dependency graph: persistence, resilience,
// providers, script generation, narration, transcription, and the render
// pool, all feeding one assemble.Service.
func buildPipeline(logger *slog.Logger, cfg *config.PipelineConfig, preset config.RenderPreset) (*pipeline, error) {
	database, jobs, cache, records, err := openStores(logger, cfg)
	if err != nil {
		return nil, err
	}

	breakers := circuitbreaker.NewRegistry(circuitbreaker.MediaProviderConfig())
	tracker := health.NewTracker(health.DefaultWindow)

	router := route.NewRouter(buildProviders(logger, cfg), breakers, tracker, logger)
	router.Records = records
	router.Ledger = jobs

	src := feed.NewRSSSource(cfg.FeedURLs, breakers, logger)
	src.Enricher = feed.NewReadabilityEnricher(10 * time.Second)

	gov := governor.New(governor.Config{
		Floor:            1,
		Ceiling:          preset.WorkerCeiling,
		OutputPath:       cfg.OutputDir,
		DiskSafetyMargin: governor.DefaultDiskSafetyMargin,
	}, logger)
	pool := workerPkg.NewPool(renderer.NewNoop(logger), gov, logger)

	scripts, err := buildScriptChain(logger, cfg, breakers)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	svc := assemble.NewService(logger)
	svc.Articles = src
	svc.Scripts = scripts
	svc.Narrator = narrator.NewNoop(logger)
	svc.Transcriber = buildTranscriber(logger, cfg)
	svc.Media = router
	svc.Pool = pool
	svc.Cache = cache
	svc.Jobs = jobs
	svc.Preset = preset
	svc.ArticleLimit = cfg.ArticleLimit
	svc.MinSegments = cfg.MinSegments
	svc.OutputDir = cfg.OutputDir
	if fallback := os.Getenv("FALLBACK_IMAGE"); fallback != "" {
		svc.FallbackImage = fallback
	}

	return &pipeline{
		logger:   logger,
		cfg:      cfg,
		preset:   preset,
		database: database,
		jobs:     jobs,
		cache:    cache,
		breakers: breakers,
		assemble: svc,
		notify:   buildNotifier(logger),
		metrics:  workerPkg.NewPipelineMetrics(),
	}, nil
}

// buildNotifier assembles the run-outcome notification fan-out from
// webhook URLs in the environment. No URLs means notifications are off.
func buildNotifier(logger *slog.Logger) *notifier.Multi {
	var channels []notifier.Notifier
	if url := os.Getenv("SLACK_WEBHOOK_URL"); url != "" {
		channels = append(channels, notifier.NewSlack(url, logger))
	}
	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		channels = append(channels, notifier.NewDiscord(url, logger))
	}
	if len(channels) > 0 {
		names := make([]string, 0, len(channels))
		for _, ch := range channels {
			names = append(names, ch.Name())
		}
		logger.Info("run notifications enabled", slog.Any("channels", names))
	}
	return notifier.NewMulti(logger, channels...)
}

// openStores opens PostgreSQL when DATABASE_URL is set and falls back to
// the local SQLite file otherwise. Call records are only persisted on
// PostgreSQL; the SQLite schema keeps health scoring in memory.
func openStores(logger *slog.Logger, cfg *config.PipelineConfig) (*sql.DB, *jobUC.Service, *cacheUC.Service, repository.CallRecordRepository, error) {
	if os.Getenv("DATABASE_URL") != "" {
		database := db.Open()
		if err := db.MigrateUp(database); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		jobs := jobUC.NewService(pgRepo.NewJobRepo(database), logger)
		cache := cacheUC.NewService(pgRepo.NewCacheRepo(database), logger)
		return database, jobs, cache, pgRepo.NewCallRecordRepo(database), nil
	}

	database, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.MigrateUpSQLite(database); err != nil {
		_ = database.Close()
		return nil, nil, nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	jobs := jobUC.NewService(sqliteRepo.NewJobRepo(database), logger)
	cache := cacheUC.NewService(sqliteRepo.NewCacheRepo(database), logger)
	return database, jobs, cache, nil, nil
}

// buildProviders assembles the media provider registry. NASA needs no key;
// every other provider is enabled by its API key.
func buildProviders(logger *slog.Logger, cfg *config.PipelineConfig) map[string]route.Provider {
	providers := map[string]route.Provider{
		"nasa": provider.NewNASA(provider.Config{}),
	}
	if cfg.PixabayKey != "" {
		providers["pixabay"] = provider.NewPixabay(provider.Config{APIKey: cfg.PixabayKey})
	}
	if cfg.PexelsKey != "" {
		providers["pexels"] = provider.NewPexels(provider.Config{APIKey: cfg.PexelsKey})
	}
	if cfg.UnsplashKey != "" {
		providers["unsplash"] = provider.NewUnsplash(provider.Config{APIKey: cfg.UnsplashKey})
	}
	if cfg.GiphyKey != "" {
		providers["giphy"] = provider.NewGiphy(provider.Config{APIKey: cfg.GiphyKey})
	}

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Info("media providers enabled", slog.Any("providers", names))
	return providers
}

// buildScriptChain orders script generators by preference: OpenAI, then
// Anthropic, then the offline template generator that always succeeds.
func buildScriptChain(logger *slog.Logger, cfg *config.PipelineConfig, breakers *circuitbreaker.Registry) (*scriptgen.Chain, error) {
	sgCfg, err := scriptgen.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("script generation config: %w", err)
	}

	var generators []scriptgen.Generator
	if cfg.OpenAIKey != "" {
		generators = append(generators, scriptgen.NewOpenAIGenerator(cfg.OpenAIKey, sgCfg, breakers))
	}
	if cfg.AnthropicKey != "" {
		generators = append(generators, scriptgen.NewAnthropicGenerator(cfg.AnthropicKey, sgCfg, breakers))
	}
	generators = append(generators, scriptgen.NewTemplateGenerator())

	return scriptgen.NewChain(logger, generators...), nil
}

// buildTranscriber prefers Whisper when an OpenAI key is present and
// otherwise falls back to the deterministic text splitter.
func buildTranscriber(logger *slog.Logger, cfg *config.PipelineConfig) assemble.Transcriber {
	if cfg.OpenAIKey != "" {
		return transcriber.NewWhisper(cfg.OpenAIKey)
	}
	logger.Info("no OpenAI key configured, using splitter transcription")
	return transcriber.NewSplitter()
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	p, err := setup(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	return p.runOnce(ctx)
}

func scheduleAction(ctx context.Context, cmd *cli.Command) error {
	p, err := setup(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	scheduleCfg, err := workerPkg.LoadScheduleFromEnv(p.logger, p.metrics)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(scheduleCfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	startMetricsServer(ctx, p.logger, p.breakers)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", scheduleCfg.HealthPort), p.logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			p.logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(scheduleCfg.CronSchedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, scheduleCfg.RunTimeout)
		defer cancel()
		if err := p.runOnce(runCtx); err != nil {
			p.logger.Error("scheduled run failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("register cron schedule: %w", err)
	}

	c.Start()
	healthServer.SetReady(true)
	p.logger.Info("scheduler started",
		slog.String("cron_schedule", scheduleCfg.CronSchedule),
		slog.String("timezone", scheduleCfg.Timezone),
		slog.Duration("run_timeout", scheduleCfg.RunTimeout))

	<-ctx.Done()
	p.logger.Info("shutting down scheduler...")
	stopCtx := c.Stop()
	<-stopCtx.Done()
	p.logger.Info("scheduler stopped")
	return nil
}

func evictAction(ctx context.Context, cmd *cli.Command) error {
	p, err := setup(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	removed, err := p.cache.Evict(ctx)
	if err != nil {
		return err
	}
	p.metrics.RecordEvicted(removed)
	p.logger.Info("cache eviction complete", slog.Int64("removed", removed))
	return nil
}

func presetsAction(_ context.Context, _ *cli.Command) error {
	fmt.Printf("%-12s %-11s %4s %9s %13s %13s %8s\n",
		"NAME", "RESOLUTION", "FPS", "BITRATE", "MAX SEGMENTS", "PREFER VIDEO", "WORKERS")
	for _, name := range config.PresetNames() {
		p, err := config.PresetByName(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %dx%-6d %4d %9s %13d %13t %8d\n",
			p.Name, p.Width, p.Height, p.FPS, p.VideoBitrate, p.MaxSegments, p.PreferVideo, p.WorkerCeiling)
	}
	return nil
}
