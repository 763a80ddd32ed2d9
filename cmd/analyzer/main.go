package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"wallet_analyzer/internal/app/service"
	"wallet_analyzer/internal/config"
	"wallet_analyzer/internal/infrastructure/chains"
	"wallet_analyzer/internal/infrastructure/insights"
	"wallet_analyzer/internal/infrastructure/pricing"
	"wallet_analyzer/internal/infrastructure/restapi"
	"wallet_analyzer/internal/pkg/logger"
	"wallet_analyzer/pkg/metrics"
)

func main() {
	// Credentials may live in a local .env during development; a missing file
	// is the normal production case.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Route slog users (including library code) through the same zap core.
	slog.SetDefault(slog.New(zapslog.NewHandler(zapLogger.Core())))

	metrics.MustRegisterMetrics()

	factory := chains.NewFactory(cfg, zapLogger)
	oracle := pricing.NewCoinGeckoOracle(cfg.CoinGecko, zapLogger)
	insightsAgent := insights.NewAgent(cfg.Insights, zapLogger)
	analyzer := service.NewWalletAnalyzer(factory, oracle, cfg.Etherscan.APIKey != "", zapLogger)

	handler := restapi.NewAnalyzeHandler(analyzer, insightsAgent, zapLogger)
	router := restapi.SetupRouter(handler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if cfg.Etherscan.APIKey == "" {
		zapLogger.Warn("No ETHERSCAN_API_KEY configured; EVM chain coverage will be degraded")
	}
	if insightsAgent == nil {
		zapLogger.Info("AI insights disabled: no provider API key configured")
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	zapLogger.Info("Shutdown signal received, draining HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Analyzer stopped")
}
