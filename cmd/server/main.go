package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"progresstracker/config"
	"progresstracker/internal/api"
	"progresstracker/internal/backup"
	"progresstracker/internal/event"
	"progresstracker/internal/repository"
	"progresstracker/internal/service"
	"progresstracker/pkg/circuitbreaker"
	"progresstracker/pkg/clock"
	"progresstracker/pkg/logger"
	"progresstracker/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	gin.SetMode(cfg.Server.Mode)

	log.Info("Starting progress tracker...",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("static_dir", cfg.Server.StaticDir),
	)

	ctx := context.Background()

	// Store
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to init store", zap.Error(err))
	}
	defer st.close()
	log.Info("Store initialized", zap.String("backend", st.backend.Name()))

	// Events (可选)
	var publisher event.Publisher = event.Nop{}
	var mqPublisher *mq.Publisher
	if cfg.MQ.URL != "" {
		mqPublisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("Failed to init MQ publisher, events disabled", zap.Error(err))
		} else {
			defer mqPublisher.Close()
			publisher = event.Guard(mqPublisher, circuitbreaker.New(circuitbreaker.DefaultConfig()))
			log.Info("MQ publisher connected", zap.String("exchange", mq.ExchangeName))
		}
	}

	clk := clock.Real{}
	emitter := event.NewEmitter(publisher, log, clk.Now)

	projectRepo := repository.NewProjectRepository(st.backend, st.projectSeq, log)
	progressRepo := repository.NewProgressRepository(st.backend, st.progressSeq, log)

	projectService := service.NewProjectService(projectRepo, emitter, clk)
	progressService := service.NewProgressService(progressRepo, projectRepo, emitter, clk)
	dashboardService := service.NewDashboardService(projectRepo, progressRepo, clk)

	// Backup
	scheduler := backup.NewScheduler(st.backend, cfg.Backup.Dir, log, clk.Now)
	if err := scheduler.Start(cfg.Backup.Schedule); err != nil {
		log.Fatal("Failed to start backup scheduler", zap.Error(err))
	}

	checks := map[string]api.ReadinessCheck{
		"store": st.backend.Ping,
	}
	if mqPublisher != nil {
		checks["mq"] = func(context.Context) error {
			if !mqPublisher.IsConnected() {
				return mq.ErrNotConnected
			}
			return nil
		}
	}

	router := api.NewRouter(
		api.NewProjectHandler(projectService, log),
		api.NewProgressHandler(progressService, log),
		api.NewDashboardHandler(dashboardService, log),
		api.RouterConfig{StaticDir: cfg.Server.StaticDir, Checks: checks},
		log,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	scheduler.Stop(shutdownCtx)
	log.Info("shutdown complete")
}
