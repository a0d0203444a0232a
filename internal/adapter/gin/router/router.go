package router

import (
	"net/http"
	"time"

	"user-crud-service/api/swagger"
	"user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/pkg/metrics"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Options carries the handlers and the optional pieces of the router.
type Options struct {
	Log         *zap.Logger
	Users       *handler.UserHandler
	Health      *handler.HealthHandler
	Metrics     *metrics.Metrics        // nil disables /metrics and request timing
	RateLimiter *middleware.RateLimiter // nil disables rate limiting

	RequestTimeout time.Duration
	SwaggerEnabled bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(o Options) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(ginzap.RecoveryWithZap(o.Log, true))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(o.Log))
	if o.Metrics != nil {
		router.Use(middleware.Metrics(o.Metrics))
	}
	if o.RateLimiter != nil {
		router.Use(o.RateLimiter.Handler())
	}
	router.Use(middleware.Timeout(o.RequestTimeout))

	router.GET("/health", o.Health.Health)

	users := router.Group("/users")
	{
		users.POST("", o.Users.CreateUser)
		users.GET("", o.Users.ListUsers)
		users.PUT("/:id", o.Users.UpdateUser)
		users.DELETE("/:id", o.Users.DeleteUser)
	}

	if o.Metrics != nil {
		router.GET("/metrics", handler.NewMetricsHandler(o.Metrics.Registry).Metrics)
	}

	if o.SwaggerEnabled {
		ui := httpSwagger.Handler(httpSwagger.URL("/swagger" + swagger.DocPath))
		router.GET("/swagger/*any", func(c *gin.Context) {
			if c.Param("any") == swagger.DocPath {
				c.Data(http.StatusOK, "application/json", swagger.Doc)
				return
			}
			ui(c.Writer, c.Request)
		})
	}

	return router
}
