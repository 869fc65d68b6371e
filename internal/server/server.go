// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the notification dispatcher
//   - the contact route rate limiter
//   - redis client and background job worker server (asynq), when configured
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/lib/job"
	"github.com/npyskills/contact-api/internal/lib/ratelimit"
	loggerPkg "github.com/npyskills/contact-api/internal/logger"
	"github.com/npyskills/contact-api/internal/notify"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger(s)
//   - the dispatcher every submission goes through
//   - the rate limiter shared by all requests
//   - redis and the background job service, both optional
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Dispatcher sends notifications over every configured channel.
	Dispatcher *notify.Dispatcher

	// RateLimiter counts contact submissions per client.
	RateLimiter *limiter.Limiter

	// Redis is nil unless redis.address is set.
	Redis *redis.Client

	// Job is nil unless notify.async is on.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server directly. That is done in SetupHTTPServer + Start.
//
// What it wires, in order:
//  1. The dispatcher, from the integration credentials. Channels without
//     credentials are kept and report themselves as not configured.
//  2. Redis, when redis.address is set. It backs the shared rate limit
//     store and the asynq queue.
//  3. The rate limiter on the memory or Redis store.
//  4. The job service, when notify.async is on. Optional channels are then
//     queued instead of sent from a goroutine.
//  5. One log line per channel so a missing credential is visible at boot.
//
// Notes:
//   - A Redis ping failure does not block startup on its own; once running,
//     the rate limiter lets requests through while Redis is unreachable.
//   - The Redis rate limit store loads its scripts on creation, so with
//     rate_limit.store=redis an unreachable Redis DOES block startup.
//   - JobService Start failure DOES block startup (returns error).
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Dispatcher:    notify.NewFromConfig(cfg, logger),
	}

	if cfg.Redis.Address != "" {
		server.Redis = newRedisClient(cfg, logger, loggerService)
	}

	var store limiter.Store
	switch cfg.RateLimit.Store {
	case config.RateLimitStoreRedis:
		if server.Redis == nil {
			return nil, errors.New("rate_limit.store=redis needs redis.address")
		}
		redisStore, err := ratelimit.NewRedisStore(server.Redis, ratelimit.DefaultKeyPrefix)
		if err != nil {
			_ = server.Redis.Close()
			return nil, fmt.Errorf("failed to create rate limit store: %w", err)
		}
		store = redisStore
	default:
		store = ratelimit.NewMemoryStore(ratelimit.DefaultCleanUpInterval)
	}
	server.RateLimiter = ratelimit.New(store, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	if cfg.Notify.Async {
		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(server.Dispatcher)

		if err := jobService.Start(); err != nil {
			if server.Redis != nil {
				_ = server.Redis.Close()
			}
			return nil, fmt.Errorf("failed to start job service: %w", err)
		}

		server.Job = jobService
		server.Dispatcher.UseQueue(jobService)
	}

	for _, st := range server.Dispatcher.Statuses() {
		logger.Info().
			Str("channel", string(st.Channel)).
			Bool("primary", st.Primary).
			Bool("configured", st.Configured).
			Msg("notification channel")
	}

	return server, nil
}

func newRedisClient(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Instrument Redis commands when New Relic is enabled.
	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	return redisClient
}

// SetupHTTPServer configures the internal net/http server.
//
// Config stores the timeouts as seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// In order it:
//   - stops the HTTP server (in-flight requests finish until ctx deadline)
//   - waits for background notification sends
//   - stops the job service
//   - closes redis
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.Dispatcher.Wait(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("background notifications still running at shutdown")
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis connection: %w", err)
		}
	}

	return nil
}
