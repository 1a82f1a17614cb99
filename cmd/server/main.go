package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecovoz/internal/admin"
	"ecovoz/internal/commons"
	"ecovoz/internal/config"
	"ecovoz/internal/infrastructure/backend"
	"ecovoz/internal/infrastructure/logger"
	"ecovoz/internal/server"
	"ecovoz/internal/wizard"
	wizardctrl "ecovoz/internal/wizard/controller"

	"go.uber.org/zap"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	client := backend.NewClient(cfg.Backend, zapLogger)
	zapLogger.Info("backend client configured", zap.String("baseURL", cfg.Backend.BaseURL))

	wizardUC := wizard.NewModule(client, cfg, zapLogger)
	wizardCtrl := wizardctrl.NewController(wizardUC, zapLogger)
	adminCtrl := admin.NewController(client, zapLogger)

	router := server.NewRouter(wizardCtrl, adminCtrl, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	wizardUC.StartJanitor(janitorCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("ECOVOZ_CONFIG"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
