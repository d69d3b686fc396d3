// Package server wires the service registry, providers, and transports
// into a runnable backend process.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	apihttp "github.com/jmluang/xTerm/internal/api/http"
	"github.com/jmluang/xTerm/internal/api/middleware"
	"github.com/jmluang/xTerm/internal/api/ws"
	"github.com/jmluang/xTerm/internal/events"
	"github.com/jmluang/xTerm/internal/infrastructure/config"
	"github.com/jmluang/xTerm/internal/infrastructure/logging"
	"github.com/jmluang/xTerm/internal/infrastructure/monitoring"
	"github.com/jmluang/xTerm/internal/providers/credentials"
	"github.com/jmluang/xTerm/internal/providers/hosts"
	"github.com/jmluang/xTerm/internal/providers/probe"
	"github.com/jmluang/xTerm/internal/providers/settings"
	"github.com/jmluang/xTerm/internal/providers/sshconfig"
	"github.com/jmluang/xTerm/internal/providers/terminal"
	"github.com/jmluang/xTerm/internal/providers/webdav"
	"github.com/jmluang/xTerm/internal/service"
	"github.com/jmluang/xTerm/internal/shared/paths"
)

// Server hosts the HTTP and WebSocket transports plus the provider
// registry behind them.
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	registry *service.Registry
	manager  *terminal.Manager
	hub      *events.Hub
	store    *hosts.Store
	syncer   *webdav.Syncer
	cron     *cron.Cron
	router   *gin.Engine
	httpSrv  *http.Server
}

// hubSink forwards terminal events onto the broadcast hub so every
// subscribed stream observes them in emit order.
type hubSink struct {
	hub *events.Hub
}

func (s *hubSink) EmitData(ev terminal.DataEvent) {
	s.hub.Publish(events.Event{Type: terminal.EventData, Payload: ev})
}

func (s *hubSink) EmitExit(ev terminal.ExitEvent) {
	s.hub.Publish(events.Event{Type: terminal.EventExit, Payload: ev})
}

// New assembles a server from configuration: storage, providers,
// registry, and routes. The returned server is not yet listening.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	dir, err := paths.ConfigDir(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	metrics := monitoring.NewMetrics()
	hub := events.NewHub()
	manager := terminal.NewManager(&hubSink{hub: hub}, logger).WithMetrics(metrics)

	creds := credentials.NewStore()
	store, err := hosts.Open(dir, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("open host store: %w", err)
	}

	generator := sshconfig.NewGenerator(dir)
	scanner := sshconfig.NewScanner("")
	settingsStore := settings.NewStore(dir)
	syncer := webdav.NewSyncer(settingsStore, store, generator, webdav.NewClient(), logger)
	prober := probe.NewProber(creds)

	registry := service.NewRegistry()
	providers := []service.Provider{
		terminal.NewProvider(manager),
		hosts.NewProvider(store, generator),
		settings.NewProvider(settingsStore),
		credentials.NewProvider(creds),
		sshconfig.NewProvider(generator, scanner),
		webdav.NewProvider(syncer),
		probe.NewProvider(prober),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			store.Close()
			return nil, fmt.Errorf("register provider: %w", err)
		}
	}

	// A fresh legacy import has no ssh_config rendering yet.
	if store.LegacyImported() {
		if list, err := store.Load(); err == nil {
			if err := generator.WriteConfig(list); err != nil {
				logger.Warn("ssh_config regeneration failed", zap.Error(err))
			}
		}
	}

	srv := &Server{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
		manager:  manager,
		hub:      hub,
		store:    store,
		syncer:   syncer,
	}
	srv.router = srv.buildRouter()

	if cfg.Sync.Schedule != "" {
		if err := srv.scheduleAutoPush(cfg.Sync.Schedule); err != nil {
			store.Close()
			return nil, err
		}
	}

	logger.Info("server assembled",
		zap.String("config_dir", dir),
		zap.Int("services", len(providers)),
		zap.Bool("legacy_import", store.LegacyImported()))

	return srv, nil
}

func (s *Server) buildRouter() *gin.Engine {
	if !s.cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimit.RequestsPerSecond,
			Burst:             s.cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(s.registry, s.manager).WithMetrics(s.metrics)
	wsHandler := ws.NewHandler(s.manager, s.hub, s.logger).WithMetrics(s.metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

func (s *Server) scheduleAutoPush(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.syncer.Push(ctx); err != nil {
			s.logger.Warn("scheduled sync push failed", zap.Error(err))
			return
		}
		s.logger.Info("scheduled sync push complete")
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	s.cron = c
	return nil
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run starts the HTTP listener and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}

	if s.cron != nil {
		s.cron.Start()
	}

	s.logger.Info("listening", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener gracefully and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cron != nil {
		cronCtx := s.cron.Stop()
		select {
		case <-cronCtx.Done():
		case <-ctx.Done():
		}
	}

	var firstErr error
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.logger.Info("server stopped")
	return firstErr
}
