package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderstatus/internal/config"
	"github.com/polkiloo/orderstatus/internal/metrics"
	"github.com/polkiloo/orderstatus/internal/server/http/handlers"
	"github.com/polkiloo/orderstatus/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Facade, recorder *metrics.Recorder, cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	cors, err := middleware.CORS(cfg.CORSAllowedOrigins)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(cors)
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	orderHandler := handlers.NewOrderHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/ping", healthHandler.Ping)
	engine.GET("/metrics", gin.WrapH(recorder.Handler()))

	orders := engine.Group("/orders")
	orders.POST("/", orderHandler.Create)
	orders.GET("/:order_id/status", orderHandler.Status)
	orders.GET("/user/:user_id", orderHandler.ListByRequester)
	orders.GET("/created_by/:created_by", orderHandler.ListByCreator)

	ordersAuth := orders.Group("")
	ordersAuth.Use(middleware.AuthRequired(facade))
	ordersAuth.PUT("/:order_id/update", orderHandler.Update)

	return engine, nil
}
