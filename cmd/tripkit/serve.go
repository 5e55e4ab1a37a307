package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/tripkit/config"
	"github.com/rushteam/tripkit/pkg/logging"
	"github.com/rushteam/tripkit/rank"
	"github.com/rushteam/tripkit/server"
	"github.com/rushteam/tripkit/service"
	"github.com/rushteam/tripkit/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP ranking service",
	Long: `Start the HTTP ranking service.

Examples:
  # Memory store, defaults
  tripkit serve

  # Redis-backed preferences and blocklists
  TRIPKIT_STORE_BACKEND=redis TRIPKIT_STORE_REDIS_ADDR=localhost:6379 tripkit serve -c tripkit.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.New(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	opts, err := serviceOptions(cfg.Ranking, logger)
	if err != nil {
		return err
	}
	opts = append(opts, service.WithMetrics(metrics))
	svc := service.New(st, opts...)

	srv, err := server.NewServer(svc, logger, &cfg.Server, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal", zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serviceOptions 把排序配置（预设文件、阶段 Pipeline）转换为服务选项。
func serviceOptions(cfg config.RankingConfig, logger *zap.Logger) ([]service.Option, error) {
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithRankConfig(cfg),
	}
	if cfg.PresetsFile != "" {
		book, err := rank.LoadPresetBook(cfg.PresetsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithPresets(book))
	}
	if cfg.FlightPipeline != "" {
		p, err := config.LoadPipeline(cfg.FlightPipeline)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithFlightStages(p))
	}
	if cfg.HotelPipeline != "" {
		p, err := config.LoadPipeline(cfg.HotelPipeline)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithHotelStages(p))
	}
	return opts, nil
}
