// Command subwatch monitors Subspace wallet balances and posts a
// Discord notification whenever a balance changes.
//
// Usage:
//
//	subwatch --config config.yaml
//	subwatch --setup   (interactive configuration wizard)
//
// The Discord webhook URL can be supplied via the DISCORD_WEBHOOK_URL
// environment variable instead of the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/steelsmol/subwatch/config"
	"github.com/steelsmol/subwatch/internal"
	"github.com/steelsmol/subwatch/internal/clients"
	"github.com/steelsmol/subwatch/internal/health"
	"github.com/steelsmol/subwatch/internal/services/balance"
	"github.com/steelsmol/subwatch/internal/services/chart"
	"github.com/steelsmol/subwatch/internal/services/gain"
	"github.com/steelsmol/subwatch/internal/services/notifier"
	"github.com/steelsmol/subwatch/internal/setup"
	"github.com/steelsmol/subwatch/internal/storage/balances"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	runSetup := flag.Bool("setup", false, "run the interactive configuration wizard")
	flag.Parse()

	if *runSetup {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		*configPath = "config.gen.yaml"
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chain, err := clients.NewSubstrateClient(cfg.NodeURL)
	if err != nil {
		logger.Fatal("failed to connect to node", zap.String("url", cfg.NodeURL), zap.Error(err))
	}

	source, err := balance.NewSource(chain)
	if err != nil {
		logger.Fatal("failed to read chain properties", zap.Error(err))
	}

	subscan := clients.NewSubscanClient(cfg.HistoryAPIURL)
	gains := gain.NewResolver(source, subscan)
	charts := chart.NewBuilder(subscan, source, cfg.ChartDays)
	dispatcher := notifier.NewDiscordDispatcher(cfg.WebhookURL)
	store, err := balances.NewStore(cfg.StateFile, logger)
	if err != nil {
		logger.Fatal("failed to prepare state store", zap.Error(err))
	}

	monitor := internal.NewMonitor(cfg, source, gains, charts, dispatcher, store, logger)

	if cfg.HealthAddr != "" {
		// a cycle is stale after three missed intervals
		healthSrv := health.NewServer(monitor, cfg.HealthAddr, 3*cfg.PollInterval)
		go func() {
			logger.Info("health server listening", zap.String("addr", cfg.HealthAddr))
			if err := healthSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Stop(shutdownCtx); err != nil {
				logger.Warn("health server shutdown failed", zap.Error(err))
			}
		}()
	}

	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("monitor stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
