package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/auth"
	"movie-catalog-backend/internal/mw"
)

// limiterIdleTTL is how long a quiet client's rate limiter is kept.
const limiterIdleTTL = 10 * time.Minute

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	Server   config.ServerConfig
	Tokens   auth.TokenManager
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(cfg.Log))
	r.Use(mw.NewHTTPMetrics(cfg.Registry).Handler())

	limit := rate.Limit(cfg.Server.RateLimitPerSec)
	if cfg.Server.RateLimitPerSec <= 0 {
		limit = rate.Inf
	}
	rateLimiter := mw.RateLimiter(mw.NewIPRateLimiter(limit, cfg.Server.RateLimitBurst, limiterIdleTTL))
	cacheStore := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.Server.CacheTTL)
	authenticated := mw.RequireAuth(cfg.Tokens)

	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/")
	api.Use(rateLimiter)
	{
		api.POST("/users", handler.CreateUser)
		api.POST("/authenticate", handler.Authenticate)
		api.GET("/uploads/:key", handler.GetUpload)
	}

	private := api.Group("/")
	private.Use(authenticated)
	{
		private.POST("/upload", handler.UploadFile)

		movies := private.Group("/movies")
		movies.GET("/genres", caching, handler.GetGenres)
		movies.POST("", handler.CreateMovie)
		movies.GET("", handler.ListMovies)
		movies.GET("/user/:userId", handler.ListMoviesByUser)
		movies.GET("/:slug", handler.GetMovieBySlug)
		movies.PATCH("/:movieId", handler.UpdateMovie)
		movies.DELETE("/:movieId", handler.DeleteMovie)
		movies.POST("/:movieId/genres", handler.AddGenresToMovie)
		movies.DELETE("/:movieId/genres/:genreId", handler.RemoveGenreFromMovie)

		notifications := private.Group("/notifications/movies")
		notifications.POST("/:movieId", handler.SubscribeToMovie)
		notifications.DELETE("/:movieId", handler.UnsubscribeFromMovie)
		notifications.GET("/:movieId/status", handler.GetMovieSubscriptionStatus)

		private.POST("/email/send-movie-available", handler.SendMovieAvailableEmail)

		private.PUT("/push/subscriptions", handler.PutPushDevice)
		private.DELETE("/push/subscriptions", handler.DeletePushDevice)
		private.GET("/push/vapid-public-key", handler.GetVAPIDPublicKey)
	}

	return r
}
