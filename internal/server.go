package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gympro/internal/config"
	"github.com/2beens/gympro/internal/middleware"
	"github.com/2beens/gympro/internal/misc"
	"github.com/2beens/gympro/internal/telemetry/metrics"
	"github.com/2beens/gympro/internal/telemetry/tracing"
	"github.com/2beens/gympro/internal/workouts"
	workoutsmcp "github.com/2beens/gympro/internal/workouts/mcp"
	"github.com/2beens/gympro/internal/workouts/store"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	apiToken          string

	config     *config.Config
	stateStore *store.StateStore
	closeStore func()
	service    *workouts.Service
	mcpServer  *sdkmcp.Server

	// counts failed token checks, nil when the limit is off
	authLimiterRedis *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gympro", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, "gympro-service")
	if err != nil {
		return nil, err
	}

	openParams := store.ParamsFromConfig(cfg, params.Secrets)
	openParams.PromRegistry = promRegistry
	openParams.MetricsManager = metricsManager
	stateStore, closeStore, err := store.Open(ctx, openParams)
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("open state store: %w", err)
	}
	log.Debugf("state store backend: %s", stateStore.Backend())

	service, err := workouts.NewService(ctx, workouts.NewServiceParams{
		Store:                  stateStore,
		Tracker:                workouts.NewTracker(workouts.WithDateLayout(cfg.DateLayout)),
		MetricsManager:         metricsManager,
		WeightReminderInterval: cfg.WeightReminderInterval(),
	})
	if err != nil {
		closeStore()
		otelShutdown()
		return nil, fmt.Errorf("new workouts service: %w", err)
	}

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		apiToken:    params.Secrets.APIToken,

		stateStore: stateStore,
		closeStore: closeStore,
		service:    service,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if cfg.FailedAuthAllowedPerMin > 0 && s.apiToken != "" {
		s.authLimiterRedis = store.NewRedisClient(store.NewRedisClientParams{
			Host:           cfg.RedisHost,
			Port:           cfg.RedisPort,
			Password:       params.Secrets.RedisPassword,
			TracingEnabled: params.Secrets.HoneycombEnabled,
		})
		log.Debugf("failed auth limit: %d per minute", cfg.FailedAuthAllowedPerMin)
	}

	if cfg.MCPEnabled {
		s.mcpServer = workoutsmcp.NewServer(service, metricsManager, params.VersionInfo)
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.stateStore.Backend())
	miscHandler.SetupRoutes(r)

	workoutsHandler := workouts.NewHandler(s.service)
	workoutsHandler.SetupRoutes(r)

	if s.mcpServer != nil {
		mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
			return s.mcpServer
		}, nil)
		r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcpHandler, "mcp")).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	var authOpts []middleware.AuthOption
	if s.authLimiterRedis != nil {
		authOpts = append(authOpts, middleware.WithFailedAttemptsLimit(
			redis_rate.NewLimiter(s.authLimiterRedis),
			s.config.FailedAuthAllowedPerMin,
		))
	}
	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiToken, authOpts...)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{Registry: s.promRegistry}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// no more intents can come in, release the store last
	s.closeStore()
	log.Trace("state store closed ...")

	if s.authLimiterRedis != nil {
		if err := s.authLimiterRedis.Close(); err != nil {
			log.Errorf("close auth limiter redis client: %s", err)
		}
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
