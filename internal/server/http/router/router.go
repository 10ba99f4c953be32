package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/metrics"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DeskFacade, m *metrics.Metrics, logger *slog.Logger) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	blacklistHandler := handlers.NewBlacklistHandler(facade)
	statisticsHandler := handlers.NewStatisticsHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)
	subscriptionHandler := handlers.NewSubscriptionHandler(facade)

	engine.POST("/register", authHandler.Register)
	engine.POST("/login", authHandler.Login)
	engine.POST("/logout", authHandler.Logout)
	engine.POST("/password-recovery", authHandler.RecoverPassword)
	engine.POST("/password-reset", authHandler.ResetPassword)
	engine.GET("/session/validate", authHandler.Session)
	engine.POST("/subscribe", subscriptionHandler.Subscribe)
	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	staff := engine.Group("")
	staff.Use(middleware.AuthRequired(facade))

	orders := staff.Group("/orders")
	orders.GET("/active", orderHandler.Active)
	orders.GET("/shipped", orderHandler.Shipped)
	orders.GET("/history", orderHandler.History)
	orders.POST("", orderHandler.Create)
	orders.PATCH("/:orderNumber", orderHandler.Commit)
	orders.DELETE("/:orderNumber", orderHandler.Delete)
	orders.GET("/:orderNumber/transitions", orderHandler.Transitions)

	staff.GET("/statistics", statisticsHandler.Get)
	staff.GET("/blacklist", blacklistHandler.List)
	staff.POST("/blacklist", blacklistHandler.Apply)
	staff.GET("/users", authHandler.ListUsers)

	return engine, nil
}
