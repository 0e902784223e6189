// Package factory is the composition root: it builds every dependency
// once at startup, resolves the storage and rate-limit backends, and
// owns graceful teardown.
package factory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"snapdish/internal/auth"
	"snapdish/internal/bucketing"
	"snapdish/internal/client"
	"snapdish/internal/config"
	"snapdish/internal/event"
	"snapdish/internal/handler"
	"snapdish/internal/hashing"
	"snapdish/internal/ratelimit"
	"snapdish/internal/service"
	"snapdish/internal/store"
	"snapdish/internal/util"
)

// Factory manages the lifecycle of all application dependencies.
type Factory struct {
	config *config.Config

	// Clients
	redisClient  *client.RedisClient
	scyllaClient *store.ScyllaClient
	publisher    *event.Publisher

	// Resolved backends
	userStore      store.Store
	storeBackend   store.Backend
	limiter        *ratelimit.Limiter
	limiterBackend ratelimit.Backend

	// Services
	hasher      *hashing.Hasher
	sessions    *auth.Sessions
	provider    *auth.Provider
	authService *service.AuthService

	closeOnce sync.Once
}

// NewFactory loads configuration and initializes all dependencies.
func NewFactory() (*Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	util.Init(cfg.Environment, cfg.LogLevel, cfg.LogFormat)

	f := &Factory{config: cfg}

	if err := f.initializeClients(); err != nil {
		return nil, fmt.Errorf("failed to initialize clients: %w", err)
	}

	if err := f.resolveBackends(); err != nil {
		return nil, err
	}

	if err := f.initializeServices(); err != nil {
		return nil, err
	}

	util.Info("Factory initialized successfully",
		util.String("environment", cfg.Environment),
		util.String("store_backend", string(f.storeBackend)),
		util.Int("signup_rate_limit", cfg.SignupRateLimit))

	return f, nil
}

// initializeClients connects to the configured external services. A
// backend that is configured but unreachable is fatal in production
// and a warning in development, where the next backend takes over.
func (f *Factory) initializeClients() error {
	var initErrors []error

	if f.config.RedisURL != "" {
		if redisClient, err := client.NewRedisClient(f.config, util.Get()); err != nil {
			initErrors = append(initErrors, fmt.Errorf("redis: %w", err))
		} else {
			f.redisClient = redisClient
		}
	}

	if len(f.config.ScyllaNodes) > 0 {
		if scyllaClient, err := store.NewScyllaClient(f.config, util.Get()); err != nil {
			initErrors = append(initErrors, fmt.Errorf("scylla: %w", err))
		} else {
			f.scyllaClient = scyllaClient
		}
	}

	// The event stream is always best effort.
	f.publisher = event.NewPublisher(f.config, util.Get())

	if len(initErrors) > 0 {
		if f.config.IsProduction() {
			return fmt.Errorf("critical service initialization failed: %v", initErrors)
		}
		for _, err := range initErrors {
			util.Warn("Service initialization warning", util.ErrorField(err))
		}
	}

	return nil
}

// resolveBackends picks the user store and rate-limit backends once for
// the process lifetime: cache service, then KV service, then memory.
func (f *Factory) resolveBackends() error {
	switch {
	case f.redisClient != nil:
		f.storeBackend = store.BackendRedis
		f.userStore = store.NewRedisStore(f.redisClient, util.Get())
	case f.scyllaClient != nil:
		f.storeBackend = store.BackendScylla
		f.userStore = store.NewScyllaStore(f.scyllaClient, bucketing.NewManager(bucketing.DefaultUserBuckets))
	default:
		f.storeBackend = store.BackendMemory
		f.userStore = store.NewMemoryStore()
		util.Warn("Using in-memory user store; records will not survive restarts")
	}

	if f.redisClient != nil {
		f.limiterBackend = ratelimit.NewRedisBackend(
			f.redisClient, f.config.SignupRateLimit, f.config.SignupRateWindow)
	} else {
		f.limiterBackend = ratelimit.NewMemoryBackend(
			f.config.SignupRateLimit, f.config.SignupRateWindow)
	}
	f.limiter = ratelimit.NewLimiter(f.limiterBackend, util.Get())

	return nil
}

func (f *Factory) initializeServices() error {
	hasher, err := hashing.NewHasher(f.config)
	if err != nil {
		return fmt.Errorf("failed to initialize hasher: %w", err)
	}
	f.hasher = hasher

	f.sessions = auth.NewSessions(f.config.SessionSecret, f.config.SessionTTL)
	f.provider = auth.NewProvider(f.userStore, f.hasher, f.sessions, util.Get())
	f.authService = service.NewAuthService(
		f.userStore, f.hasher, f.provider, f.publisher, util.Get())

	return nil
}

// AuthHandler builds the HTTP handler over the resolved dependencies.
func (f *Factory) AuthHandler() *handler.AuthHandler {
	return handler.NewAuthHandler(
		f.authService,
		f.limiter,
		util.Get(),
		f.config.StrictHeaders,
		f.config.IsProduction(),
	)
}

// HealthCheck fans out to every initialized dependency.
func (f *Factory) HealthCheck(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return f.userStore.HealthCheck(ctx)
	})

	if f.redisClient != nil {
		g.Go(func() error {
			return f.redisClient.HealthCheck(ctx)
		})
	}

	return g.Wait()
}

// Close tears down clients in reverse initialization order.
func (f *Factory) Close() error {
	f.closeOnce.Do(func() {
		util.Info("Shutting down factory...")

		if f.publisher != nil {
			if err := f.publisher.Close(); err != nil {
				util.Error("Failed to close event publisher", util.ErrorField(err))
			}
		}

		if memBackend, ok := f.limiterBackend.(*ratelimit.MemoryBackend); ok {
			memBackend.Close()
		}

		if f.scyllaClient != nil {
			f.scyllaClient.Close()
		}

		if f.redisClient != nil {
			if err := f.redisClient.Close(); err != nil {
				util.Error("Failed to close Redis client", util.ErrorField(err))
			}
		}

		util.Sync()
		util.Info("Factory shutdown completed")
	})

	return nil
}

// Config returns the loaded configuration.
func (f *Factory) Config() *config.Config {
	return f.config
}

// StoreBackend reports which persistence backend was resolved.
func (f *Factory) StoreBackend() store.Backend {
	return f.storeBackend
}
