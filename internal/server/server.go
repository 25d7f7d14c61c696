package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/scriptbridge/internal/builtins"
	"github.com/GriffinCanCode/scriptbridge/internal/host/gojahost"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/scriptbridge/internal/manifest"
	"github.com/GriffinCanCode/scriptbridge/internal/plugin"
	"github.com/GriffinCanCode/scriptbridge/internal/server/middleware"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	plugin   *plugin.Plugin
	pool     *plugin.Pool
	runtime  gojahost.Config
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	registry *prometheus.Registry
	tracer   *tracing.Tracer
}

// LoadManifest reads the manifests GLUE_MANIFEST points at, or returns
// the built-in one when it is empty
func LoadManifest(fs afero.Fs, cfg config.GlueConfig) (*manifest.Manifest, error) {
	if cfg.Manifest == "" {
		return builtins.Manifest()
	}
	return manifest.LoadGlob(fs, cfg.Manifest)
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		var err error
		logger, err = logging.New(logging.Config{Level: cfg.Logging.Level})
		if err != nil {
			logger = logging.NewDefault()
		}
	}
	return New(cfg, afero.NewOsFs(), logger)
}

// New creates a server reading manifests from fs
func New(cfg *config.Config, fs afero.Fs, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing script bridge server",
		zap.String("port", cfg.Server.Port),
		zap.String("manifest", cfg.Glue.Manifest),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	m, err := LoadManifest(fs, cfg.Glue)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	opts, err := plugin.OptionsFromConfig(cfg.Glue)
	if err != nil {
		return nil, err
	}

	p, err := plugin.New(m, builtins.NewRegistry(),
		plugin.WithOptions(opts),
		plugin.WithLogger(logger.Component("plugin")),
		plugin.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plugin: %w", err)
	}
	logger.Info("Plugin loaded",
		zap.String("name", m.Name),
		zap.String("mime", p.MIMEDescription()),
		zap.Strings("classes", p.Registry().List()),
	)

	runtime := gojahost.Config{
		Timeout:          cfg.Script.Timeout,
		EnableConsole:    cfg.Script.EnableConsole,
		MaxAllocBytes:    cfg.Script.MaxAllocBytes,
		MaxCallStackSize: gojahost.DefaultConfig().MaxCallStackSize,
	}
	pool, err := plugin.NewPool(p, runtime, cfg.Script.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create session pool: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	tracer := tracing.New("scriptbridge", logger.Component("tracing"))

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	s := &Server{
		router:   router,
		plugin:   p,
		pool:     pool,
		runtime:  runtime,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		registry: registry,
		tracer:   tracer,
	}
	s.routes()

	logger.Info("Server initialized successfully")
	return s, nil
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler { return s.router }

// Run serves HTTP until Shutdown
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and releases every session
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if err := s.pool.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pool: %w", err))
	}

	s.tracer.Close()
	s.logger.Sync()
	return errors.Join(errs...)
}
