package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-crud-service/cmd/api/infrastructure"
	"user-crud-service/internal/adapter/db/postgres"
	ginhandler "user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/internal/adapter/gin/router"
	"user-crud-service/internal/config"
	"user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/metrics"
	redisclient "user-crud-service/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// schemaTimeout bounds the users table bootstrap.
const schemaTimeout = 10 * time.Second

// processStart is the reference point for the uptime reported by /health.
var processStart = time.Now()

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil unless rate limiting is enabled
	UserRepo    *postgres.UserRepoPG
	UserUC      user.Usecase
	Metrics     *metrics.Metrics // nil when metrics are disabled
	RateLimiter *middleware.RateLimiter
	Router      *gin.Engine
}

// NewContainer validates the configuration, connects to storage and wires
// the request handlers.
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var rdb *redisclient.Client
	if cfg.RateLimit.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			_ = infrastructure.CloseDatabase(db)
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	c, err := Build(cfg, l, db, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = infrastructure.CloseDatabase(db)
		return nil, err
	}
	return c, nil
}

// Build wires the container around already opened connections. rdb may be
// nil, in which case no rate limiter is installed.
func Build(cfg *config.Config, l *zap.Logger, db *gorm.DB, rdb *redisclient.Client) (*Container, error) {
	repo := postgres.NewUserRepoPG(db, l)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	userUC := user.New(repo, l)

	var m *metrics.Metrics
	if cfg.App.MetricsEnabled {
		m = metrics.New(metricsNamespace(cfg.Logger.ServiceName))
	}

	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		rateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	r := router.SetupRouter(router.Options{
		Log:            l,
		Users:          ginhandler.NewUserHandler(userUC, l),
		Health:         ginhandler.NewHealthHandler(repo, processStart, l),
		Metrics:        m,
		RateLimiter:    rateLimiter,
		RequestTimeout: time.Duration(cfg.App.RequestTimeoutSeconds) * time.Second,
		SwaggerEnabled: cfg.App.SwaggerEnabled,
	})

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		UserRepo:    repo,
		UserUC:      userUC,
		Metrics:     m,
		RateLimiter: rateLimiter,
		Router:      r,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}

// metricsNamespace turns a service name into a valid metric prefix.
func metricsNamespace(service string) string {
	out := []byte(service)
	for i, b := range out {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b == '_':
		case b >= '0' && b <= '9' && i > 0:
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
