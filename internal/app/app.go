package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsDesk/internal/config"
	"NewsDesk/internal/infrastructure/gemini"
	"NewsDesk/internal/infrastructure/llm"
	"NewsDesk/internal/infrastructure/naver"
	"NewsDesk/internal/infrastructure/rss"
	"NewsDesk/internal/infrastructure/scheduler"
	"NewsDesk/internal/infrastructure/server"
	"NewsDesk/internal/infrastructure/telegram"
	"NewsDesk/internal/judge"
	"NewsDesk/internal/logging"
	"NewsDesk/internal/metrics"
	"NewsDesk/internal/ports"
	"NewsDesk/internal/source"
	"NewsDesk/internal/usecase"
)

const shutdownGrace = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *server.Server
	gemini    *gemini.Client
}

// New builds a runnable application instance. Judge stages and the notifier
// are wired only when their credentials are configured; the pipeline treats
// the missing pieces as disabled.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{cfg: cfg, logger: baseLogger, metrics: metrics.New()}

	registry := source.NewRegistry()
	if cfg.Naver.ClientID != "" && cfg.Naver.ClientSecret != "" {
		registry.Register(naver.New(cfg.Naver, cfg.Search, cfg.AllowedDomains(),
			baseLogger.With("component", "source.naver")))
	} else {
		baseLogger.Warn("naver credentials missing, search source disabled")
	}
	if len(cfg.RSS.Feeds) > 0 {
		registry.Register(rss.New(cfg.RSS, cfg.SearchKeywords(),
			baseLogger.With("component", "source.rss")))
	}

	judgeClient, err := a.buildJudgeClient(ctx)
	if err != nil {
		return nil, err
	}

	var printStage, relevanceStage *judge.Stage
	if judgeClient != nil {
		fallback := judge.FallbackPolicy(cfg.Judges.Fallback)
		if cfg.Judges.Print.IsEnabled() {
			printStage = judge.NewPrintStage(judgeClient,
				cfg.Judges.Print.Threshold, fallback, cfg.Judges.Concurrency)
		}
		if cfg.Judges.Relevance.IsEnabled() {
			relevanceStage = judge.NewRelevanceStage(judgeClient,
				cfg.Judges.Relevance.Threshold, fallback,
				cfg.Judges.Relevance.ExcludeTags, cfg.Judges.Concurrency)
		}
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	a.pipeline = usecase.NewPipeline(usecase.Deps{
		Config:    &a.cfg,
		Source:    source.NewAggregator(registry, baseLogger.With("component", "source")),
		Print:     printStage,
		Relevance: relevanceStage,
		Notifier:  notifier,
		Metrics:   a.metrics,
		Logger:    baseLogger.With("component", "pipeline"),
	})
	if a.pipeline == nil {
		return nil, fmt.Errorf("pipeline configuration is empty")
	}

	a.scheduler = usecase.NewScheduler(
		scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location()),
		a.pipeline,
		baseLogger.With("component", "scheduler"))
	a.server = server.New(cfg.Server.Addr, a.pipeline, a.metrics,
		baseLogger.With("component", "server"))

	return a, nil
}

// buildJudgeClient selects the configured AI provider. A missing API key
// disables judging instead of failing startup.
func (a *Application) buildJudgeClient(ctx context.Context) (ports.Judge, error) {
	switch a.cfg.Judges.Provider {
	case "gemini":
		if a.cfg.Gemini.APIKey == "" {
			a.logger.Warn("gemini api key missing, judge stages disabled")
			return nil, nil
		}
		client, err := gemini.NewClient(ctx, a.cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		a.gemini = client
		return client, nil
	default:
		if a.cfg.OpenAI.APIKey == "" {
			a.logger.Warn("openai api key missing, judge stages disabled")
			return nil, nil
		}
		return llm.NewChatGPTClient(a.cfg.OpenAI), nil
	}
}

// RunOnce performs a single curation pass and reports its outcome.
func (a *Application) RunOnce(ctx context.Context) error {
	if a == nil || a.pipeline == nil {
		return fmt.Errorf("application is not configured")
	}

	now := time.Now().In(a.cfg.Window.Location())
	result, err := a.pipeline.Run(ctx, now)
	if err != nil {
		return err
	}

	a.logger.Info("curation run done",
		"selected", len(result.Articles),
		"rejected", len(result.Report.Rejections))
	return nil
}

// Serve starts the cron schedule and the HTTP API, then blocks until ctx is
// cancelled or the listener fails.
func (a *Application) Serve(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("application is not configured")
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	a.logger.Info("server listening",
		"addr", a.cfg.Server.Addr,
		"schedule", a.cfg.Scheduler.CronExpression)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop failed", "error", err)
	}
	return a.server.Shutdown(shutdownCtx)
}

// Close releases provider clients.
func (a *Application) Close() error {
	if a == nil || a.gemini == nil {
		return nil
	}
	a.gemini.Close()
	return nil
}
