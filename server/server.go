// Package server 提供排序服务的 HTTP API。
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rushteam/tripkit/config"
	"github.com/rushteam/tripkit/service"
)

// BodyLimit 是请求体大小上限。
const BodyLimit = "4M"

// Server 是 HTTP 服务。
type Server struct {
	echo    *echo.Echo
	svc     *service.RankingService
	logger  *zap.Logger
	config  *config.ServerConfig
	metrics prometheus.Gatherer
}

// NewServer 创建 HTTP 服务。gatherer 为 nil 时不挂载 /metrics。
func NewServer(svc *service.RankingService, logger *zap.Logger, cfg *config.ServerConfig, gatherer prometheus.Gatherer) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("ranking service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		def := config.DefaultAppConfig().Server
		cfg = &def
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(BodyLimit))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		echo:    e,
		svc:     svc,
		logger:  logger,
		config:  cfg,
		metrics: gatherer,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/presets", s.handlePresets)
	v1.POST("/rank/flights", s.handleRankFlights)
	v1.POST("/rank/hotels", s.handleRankHotels)
	v1.POST("/rank/trip", s.handleRankTrip)

	users := v1.Group("/users/:user")
	users.GET("/preferences", s.handleGetPreferences)
	users.PUT("/preferences", s.handleSavePreferences)
	users.GET("/blocked", s.handleBlocked)
	users.PUT("/blocked/:value", s.handleBlock)
	users.DELETE("/blocked/:value", s.handleUnblock)
}

// Handler 返回底层 http.Handler。
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start 启动 HTTP 服务，阻塞直到服务关闭。
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown 优雅关闭。
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
