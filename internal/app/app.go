package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/infrastructure/download"
	"ShortsPublisher/internal/infrastructure/editor"
	"ShortsPublisher/internal/infrastructure/llm"
	"ShortsPublisher/internal/infrastructure/scheduler"
	"ShortsPublisher/internal/infrastructure/source"
	"ShortsPublisher/internal/infrastructure/storage"
	"ShortsPublisher/internal/infrastructure/telegram"
	"ShortsPublisher/internal/infrastructure/upload"
	"ShortsPublisher/internal/logging"
	"ShortsPublisher/internal/ports"
	"ShortsPublisher/internal/scraper"
	"ShortsPublisher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg         config.Config
	logger      *slog.Logger
	pipeline    *usecase.Pipeline
	coordinator *usecase.Coordinator
	scheduler   *usecase.Scheduler
	bot         *telegram.Bot
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scraper.NewRegistry()
	registry.Register(source.NewInstagramScanner(nil))
	if redditScanner, err := source.NewRedditScanner(cfg.Reddit); err != nil {
		baseLogger.Warn("reddit scraper unavailable", "error", err)
	} else {
		registry.Register(redditScanner)
	}

	src := source.NewStrategySource(registry, cfg.Accounts, baseLogger.With("component", "source"))
	store := storage.NewJSONStore(cfg.Dirs.StateFile, baseLogger.With("component", "store"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      src,
		Downloader:  download.NewClient(nil),
		Editor:      editor.NewFFmpeg(cfg.Dirs.Processed, assetPath(cfg.Dirs.Assets, "intro.mp4"), assetPath(cfg.Dirs.Assets, "outro.mp4"), baseLogger.With("component", "editor")),
		Store:       store,
		Logger:      baseLogger.With("component", "pipeline"),
		DownloadDir: cfg.Dirs.Download,
	})

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	coordinator := usecase.NewCoordinator(usecase.CoordinatorDeps{
		Store:        store,
		Metadata:     llm.NewChatGPTClient(cfg.ChatGPT),
		Publisher:    upload.NewYouTube(cfg.YouTube, cfg.Upload),
		Notifier:     notifier,
		Logger:       baseLogger.With("component", "coordinator"),
		ProcessedDir: cfg.Dirs.Processed,
		MaxDaily:     cfg.Upload.MaxDaily,
	})

	driver := scheduler.NewDailyScheduler(buildSlots(cfg.Scheduler), cfg.Scheduler.Location(), baseLogger)
	sched := usecase.NewScheduler(driver, pipeline, coordinator, baseLogger.With("component", "dispatch"))

	var bot *telegram.Bot
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		bot = telegram.NewBot(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID,
			logging.FilePath(cfg.Dirs.Logs),
			coordinator,
			baseLogger,
		)
	}

	return &Application{
		cfg:         cfg,
		logger:      baseLogger.With("component", "app"),
		pipeline:    pipeline,
		coordinator: coordinator,
		scheduler:   sched,
		bot:         bot,
	}
}

// Run starts the scheduler and the operator bot and blocks until a signal
// arrives or the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.ensureDirs(); err != nil {
		return err
	}

	// Catch up on source content missed while the process was down.
	now := time.Now().In(a.cfg.Scheduler.Location())
	if err := a.pipeline.ProcessDay(ctx, now); err != nil {
		a.logger.Error("initial ingest run failed", "error", err)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	if a.bot != nil {
		go func() {
			if err := a.bot.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("telegram bot stopped", "error", err)
			}
		}()
	}

	a.logger.Info("application started",
		"accounts", len(a.cfg.Accounts),
		"upload_slots", a.cfg.Scheduler.UploadSlots,
		"max_daily", a.cfg.Upload.MaxDaily,
	)

	<-ctx.Done()
	a.logger.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

func (a *Application) ensureDirs() error {
	dirs := []string{a.cfg.Dirs.Download, a.cfg.Dirs.Processed, a.cfg.Dirs.Logs}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return nil
}

func buildSlots(cfg config.SchedulerConfig) []scheduler.Slot {
	var slots []scheduler.Slot
	if hour, minute, err := config.ParseSlot(cfg.IngestAt); err == nil {
		slots = append(slots, scheduler.Slot{Name: usecase.IngestSlotName, Hour: hour, Minute: minute})
	}
	for _, label := range cfg.UploadSlots {
		hour, minute, err := config.ParseSlot(label)
		if err != nil {
			continue
		}
		slots = append(slots, scheduler.Slot{Name: label, Hour: hour, Minute: minute})
	}
	return slots
}

// assetPath returns the clip path under assets, or empty when the clip is
// not installed, which disables intro/outro concatenation.
func assetPath(assetsDir, name string) string {
	path := filepath.Join(assetsDir, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
