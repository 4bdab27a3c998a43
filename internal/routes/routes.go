package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"kvcache/internal/auth"
	"kvcache/internal/cache"
	"kvcache/internal/handlers"
	"kvcache/internal/middleware"
	"kvcache/internal/realtime"
)

// Dependencies are the collaborators the HTTP API is built from.
type Dependencies struct {
	Cache    cache.Cache
	Hub      *realtime.Hub
	Gatherer prometheus.Gatherer
	// Issuer protects the /api group. Nil disables authentication.
	Issuer *auth.Issuer
	Logger zerolog.Logger
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger), middleware.CORS())

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	if deps.Gatherer != nil {
		ginRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := ginRouter.Group("/api")
	if deps.Issuer != nil {
		api.Use(middleware.JWTAuthMiddleware(deps.Issuer))
	}

	cacheHandler := handlers.NewCacheHandler(deps.Cache, deps.Logger)
	{
		api.GET("/cache/:key", cacheHandler.GetEntry)
		api.PUT("/cache/:key", cacheHandler.PutEntry)
		api.DELETE("/cache/:key", cacheHandler.DeleteEntry)
		api.POST("/sweep", cacheHandler.Sweep)
	}

	if deps.Hub != nil {
		api.GET("/events", handlers.NewEventsHandler(deps.Hub, deps.Logger).Subscribe)
	}

	return ginRouter
}
