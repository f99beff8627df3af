package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"greendash/backend/libs/db"
	libredis "greendash/backend/libs/redis"
	"greendash/backend/services/dashboard/internal/auth"
	"greendash/backend/services/dashboard/internal/calendar"
	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/config"
	httpserver "greendash/backend/services/dashboard/internal/http"
	"greendash/backend/services/dashboard/internal/http/handlers"
	"greendash/backend/services/dashboard/internal/http/middleware"
	"greendash/backend/services/dashboard/internal/metrics"
	"greendash/backend/services/dashboard/internal/payment"
	"greendash/backend/services/dashboard/internal/schedule"
	"greendash/backend/services/dashboard/internal/ws"
)

// App wires dashboard dependencies.
type App struct {
	server  *httpserver.Server
	hub     *ws.Hub
	feed    *ws.Server
	sweeper *sweeper
	redis   *goredis.Client
	db      *sql.DB
	logger  *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	m := metrics.New(cfg.Metrics.Namespace)

	api := clients.NewAPI(cfg.API.BaseURL, clients.NewDefaultHTTPClient(cfg.API.Timeout), clients.WithObserver(m))

	store, err := a.sessionStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	authService := auth.NewService(api.Users, store, auth.NewCookieCodec(cfg.Session.Secret), cfg.Session.TTL, logger)
	guard := middleware.NewAuth(authService, cfg.Session.CookieName, cfg.Session.SecureCookie, logger)

	views := schedule.NewStore(cfg.Schedule.ViewTTL, calendar.WithLocation(loc))
	payments := payment.NewService(
		api.Payments,
		payment.NewHostedProcessor(cfg.Payment.PublishableKey, cfg.Payment.ReturnURL),
		m,
		logger,
	)

	a.hub = ws.NewHub(cfg.Feed.PingInterval, logger)
	a.feed = ws.NewServer(a.hub, api.Stations, identity, m, ws.Options{
		PollInterval:   cfg.Feed.PollInterval,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, logger)

	common := handlers.Common{Auth: authService, Cookies: guard, Logger: logger}
	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:       handlers.NewAuthHandlers(common, views),
		MapHandlers:        handlers.NewMapHandlers(common, api.Stations),
		StationsHandlers:   handlers.NewStationsHandlers(common, api.Stations, api.Spots),
		ScheduleHandlers:   handlers.NewScheduleHandlers(common, api, views, nil),
		SessionsHandlers:   handlers.NewSessionsHandlers(common, api.Sessions, payments),
		ManagementHandlers: handlers.NewManagementHandlers(common, api.Stations, api.Sessions, calendar.WithLocation(loc)),
		VehiclesHandlers:   handlers.NewVehiclesHandlers(common, api.Vehicles),
		ProfileHandlers:    handlers.NewProfileHandlers(common, views),
		HealthHandler:      handlers.NewHealthHandler(),
		MetricsHandler:     m.Handler(),
		WSHandler:          a.feed.HandleWS,
		LoginLimiter:       middleware.NewIPRateLimiter(rate.Limit(cfg.Security.LoginRatePerS), cfg.Security.LoginRateBurst),
		Observer:           m,
		CSRF:               middleware.CSRF([]byte(cfg.Security.CSRFKey), cfg.Session.SecureCookie, cfg.HTTP.AllowedOrigins),
	})

	a.server = httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
		guard.Load,
		middleware.LoggingMiddleware(logger),
	)

	logger.Info("dashboard configured",
		zap.String("api", cfg.API.BaseURL),
		zap.String("session_store", cfg.Session.Store),
		zap.Bool("csrf", cfg.Security.CSRFKey != ""),
		zap.Duration("poll_interval", cfg.Feed.PollInterval),
	)
	return a, nil
}

// sessionStore picks the configured backend. Redis and Postgres keep backend tokens sealed.
func (a *App) sessionStore(cfg *config.Config) (auth.Store, error) {
	if cfg.Session.Store == config.StoreMemory {
		return auth.NewMemoryStore(time.Minute), nil
	}

	sealer, err := auth.NewSealer(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("app: connect redis: %w", err)
		}
		a.redis = client
		return auth.NewRedisStore(client, sealer), nil
	case config.StorePostgres:
		conn, err := db.NewPostgresDB(ctx, cfg.Postgres.DSN, db.PoolOptions{MaxOpenConns: cfg.Postgres.MaxOpenConns})
		if err != nil {
			return nil, fmt.Errorf("app: connect postgres: %w", err)
		}
		a.db = conn
		store := auth.NewPostgresStore(conn, sealer)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("app: session schema: %w", err)
		}
		a.sweeper = newSweeper(store, cfg.Postgres.SweepEvery, a.logger)
		return store, nil
	}
	return nil, fmt.Errorf("app: unknown session store %q", cfg.Session.Store)
}

func identity(r *http.Request) (ws.Identity, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return ws.Identity{}, false
	}
	return ws.Identity{UserID: sess.User().ID, Token: sess.Token(), Operator: sess.IsOperator()}, true
}

// Run starts serving HTTP traffic and the background workers. It returns once the server has
// drained after ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.feed.WithContext(ctx)
	go a.hub.Run(ctx)
	if a.sweeper != nil {
		go a.sweeper.Run(ctx)
	}
	return a.server.Run(ctx)
}

// Close releases the store connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close postgres", zap.Error(err))
		}
	}
}
