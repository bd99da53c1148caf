package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studyplanner/internal/config"
	"studyplanner/internal/handler"
	"studyplanner/internal/httpserver"
	"studyplanner/internal/repository"
	"studyplanner/internal/service/notify"
	"studyplanner/internal/service/planner"
	"studyplanner/internal/service/summary"
	"studyplanner/pkg/db"
	"studyplanner/pkg/logger"
	"studyplanner/pkg/quota"
	pkgredis "studyplanner/pkg/redis"
	"studyplanner/pkg/util"
	"studyplanner/pkg/webhook"
)

const dedupTTL = 24 * time.Hour

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_DIR"))
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	rdb := pkgredis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	planRepo := repository.NewPlanRepository(pool, log)
	taskRepo := repository.NewTaskRepository(pool, log)
	logRepo := repository.NewStudyLogRepository(pool, log)
	bookmarkRepo := repository.NewBookmarkRepository(pool, log)
	faqRepo := repository.NewFAQRepository(pool, log)

	quotas := quota.NewService(
		repository.Counts{Plans: planRepo, Tasks: taskRepo, Logs: logRepo},
		quota.Limits{
			MaxPlans: cfg.Limits.MaxPlans,
			MaxTasks: cfg.Limits.MaxTasks,
			MaxLogs:  cfg.Limits.MaxLogs,
		},
		log,
	)

	dispatchQueue := webhook.NewQueue(
		webhook.NewClient(log),
		log,
		cfg.Webhook.QueueSize,
		cfg.Webhook.Workers,
	)
	dispatchQueue.Start()

	summaries := summary.NewService(planRepo, taskRepo, logRepo, bookmarkRepo, log)
	notifier := notify.NewNotifier(summaries, dispatchQueue, cfg.Webhook, log)
	detector := notify.NewDetector(taskRepo, notifier, util.NewDeduper(rdb, dedupTTL, log), log)
	plannerSvc := planner.NewService(planRepo, taskRepo, logRepo, bookmarkRepo, quotas, notifier, detector, log)

	router := httpserver.NewRouter(httpserver.Handlers{
		Plans:         handler.NewPlanHandler(plannerSvc, log),
		Tasks:         handler.NewTaskHandler(plannerSvc, log),
		Logs:          handler.NewLogHandler(plannerSvc, log),
		Snapshots:     handler.NewSnapshotHandler(plannerSvc, log),
		Bookmarks:     handler.NewBookmarkHandler(plannerSvc, log),
		FAQs:          handler.NewFAQHandler(faqRepo, log),
		Summaries:     handler.NewSummaryHandler(summaries, notifier, log),
		Notifications: handler.NewNotificationsHandler(cfg.Parent, log),
	}, pool, cfg.JWT.Secret, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// Drain queued webhook deliveries before releasing the pool.
	dispatchQueue.Stop()

	log.Info("Server stopped")
}
