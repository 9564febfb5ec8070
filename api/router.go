package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter 组装 gin 路由。
func NewRouter(h *Handler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/recommendations", h.RecommendByVector)
		v1.GET("/recommendations/by-mood", h.RecommendByMood)
		v1.GET("/recommendations/by-emotion/:emotion", h.RecommendByEmotion)

		v1.GET("/movies/top-rated", h.TopRated)
		v1.GET("/movies/:movieId/similar", h.SimilarMovies)
		v1.POST("/movies/:movieId/analyze", h.AnalyzeMovie)

		v1.GET("/users/:userId/recommendations", h.RecommendForUser)
		v1.GET("/users/:userId/history", h.RecommendationHistory)
		v1.POST("/users/:userId/interactions", h.RecordInteraction)

		v1.GET("/users/:userId/watchlist", h.GetWatchlist)
		v1.POST("/users/:userId/watchlist", h.AddToWatchlist)
		v1.DELETE("/users/:userId/watchlist/:movieId", h.RemoveFromWatchlist)

		v1.GET("/users/:userId/profile", h.UserProfile)
		v1.GET("/users/:userId/analyses", h.AnalysisHistory)
		v1.POST("/users/:userId/analyses", h.RecordAnalysis)
	}
	return r
}

// RequestLogger 是基于 zerolog 的访问日志中间件。
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}
