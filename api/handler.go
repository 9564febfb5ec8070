package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/service"
)

// Handler 是 HTTP 接口层：解析请求参数，调用 Recommender，映射领域错误。
type Handler struct {
	recommender *service.Recommender
	logger      zerolog.Logger
}

// NewHandler ..
func NewHandler(r *service.Recommender, logger zerolog.Logger) *Handler {
	return &Handler{recommender: r, logger: logger}
}

// movieDTO 是对外的电影表示。
type movieDTO struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Rating         float64              `json:"rating"`
	Genres         []string             `json:"genres,omitempty"`
	MatchScore     float64              `json:"match_score"`
	EmotionProfile *core.EmotionProfile `json:"emotion_profile,omitempty"`
	Labels         map[string]string    `json:"labels,omitempty"`
}

func toDTO(items []*core.Item) []movieDTO {
	out := make([]movieDTO, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		labels := make(map[string]string, len(it.Labels))
		for k, v := range it.Labels {
			labels[k] = v.Value
		}
		out = append(out, movieDTO{
			ID:             it.ID,
			Title:          it.Title,
			Rating:         it.Rating,
			Genres:         it.Genres,
			MatchScore:     it.Score,
			EmotionProfile: it.Profile,
			Labels:         labels,
		})
	}
	return out
}

// abortWithError 把领域错误映射为 HTTP 状态码。
func (h *Handler) abortWithError(c *gin.Context, err error) {
	switch {
	case core.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case core.IsNotSupported(err):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) parseOptions(c *gin.Context) service.Options {
	opt := service.Options{Genre: c.Query("genre")}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		opt.Limit = v
	}
	if v, err := strconv.ParseFloat(c.Query("min_rating"), 64); err == nil && v > 0 {
		opt.MinRating = v
	}
	return opt
}

// RecommendByVector 处理 POST /recommendations
//
// 请求体：{"emotions": {"joy": 0.8, "thrill": 0.5}, "limit": 10, "min_rating": 6.0}
func (h *Handler) RecommendByVector(c *gin.Context) {
	var req struct {
		Emotions  map[string]float64 `json:"emotions" binding:"required"`
		Limit     int                `json:"limit"`
		MinRating float64            `json:"min_rating"`
		Genre     string             `json:"genre"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	query := core.EmotionVector{}
	for k, v := range req.Emotions {
		query[k] = v
	}
	items, err := h.recommender.RecommendByVector(c.Request.Context(), query, service.Options{
		Limit:     req.Limit,
		MinRating: req.MinRating,
		Genre:     req.Genre,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": toDTO(items)})
}

// RecommendByMood 处理 GET /recommendations/by-mood?mood=happy
func (h *Handler) RecommendByMood(c *gin.Context) {
	mood := c.Query("mood")
	if mood == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mood is required"})
		return
	}
	items, err := h.recommender.RecommendByMood(c.Request.Context(), mood, h.parseOptions(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mood": mood, "recommendations": toDTO(items)})
}

// SimilarMovies 处理 GET /movies/:movieId/similar
func (h *Handler) SimilarMovies(c *gin.Context) {
	movieID := c.Param("movieId")
	items, err := h.recommender.RecommendByMovieID(c.Request.Context(), movieID, h.parseOptions(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie_id": movieID, "recommendations": toDTO(items)})
}

// RecommendByEmotion 处理 GET /recommendations/by-emotion/:emotion
func (h *Handler) RecommendByEmotion(c *gin.Context) {
	emotionName := c.Param("emotion")
	items, err := h.recommender.RecommendByDominantEmotion(c.Request.Context(), emotionName, h.parseOptions(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emotion": emotionName, "recommendations": toDTO(items)})
}

// RecommendForUser 处理 GET /users/:userId/recommendations
func (h *Handler) RecommendForUser(c *gin.Context) {
	userID := c.Param("userId")
	items, err := h.recommender.RecommendForUser(c.Request.Context(), userID, h.parseOptions(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "recommendations": toDTO(items)})
}

// TopRated 处理 GET /movies/top-rated
func (h *Handler) TopRated(c *gin.Context) {
	items, err := h.recommender.TopRated(c.Request.Context(), h.parseOptions(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": toDTO(items)})
}

// AnalyzeMovie 处理 POST /movies/:movieId/analyze
//
// 请求体：{"reviews": ["great movie", ...]}
func (h *Handler) AnalyzeMovie(c *gin.Context) {
	movieID := c.Param("movieId")
	var req struct {
		Reviews []string `json:"reviews"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.recommender.AnalyzeMovie(c.Request.Context(), movieID, req.Reviews)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie_id": movieID, "emotion_profile": p})
}

// RecordInteraction 处理 POST /users/:userId/interactions
//
// 请求体：{"movie_id": "m1", "liked": true, "rating": 8.5}
func (h *Handler) RecordInteraction(c *gin.Context) {
	userID := c.Param("userId")
	var req struct {
		MovieID string  `json:"movie_id" binding:"required"`
		Liked   bool    `json:"liked"`
		Rating  float64 `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	err := h.recommender.RecordInteraction(c.Request.Context(), userID, core.Interaction{
		MovieID: req.MovieID,
		Liked:   req.Liked,
		Rating:  req.Rating,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

// AddToWatchlist 处理 POST /users/:userId/watchlist
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID := c.Param("userId")
	var req struct {
		MovieID string `json:"movie_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	wl := h.recommender.WatchlistStore()
	if wl == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "watchlist not configured"})
		return
	}
	if err := wl.AddToWatchlist(c.Request.Context(), userID, req.MovieID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

// RemoveFromWatchlist 处理 DELETE /users/:userId/watchlist/:movieId
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID := c.Param("userId")
	movieID := c.Param("movieId")
	wl := h.recommender.WatchlistStore()
	if wl == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "watchlist not configured"})
		return
	}
	if err := wl.RemoveFromWatchlist(c.Request.Context(), userID, movieID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// GetWatchlist 处理 GET /users/:userId/watchlist
func (h *Handler) GetWatchlist(c *gin.Context) {
	userID := c.Param("userId")
	wl := h.recommender.WatchlistStore()
	if wl == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "watchlist not configured"})
		return
	}
	ids, err := wl.GetWatchlist(c.Request.Context(), userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "watchlist": ids})
}

// RecordAnalysis 处理 POST /users/:userId/analyses
//
// 请求体：{"emotions": {"joy": 0.8, ...}, "movie_count": 3}
func (h *Handler) RecordAnalysis(c *gin.Context) {
	userID := c.Param("userId")
	var req struct {
		Emotions   map[string]float64 `json:"emotions" binding:"required"`
		MovieCount int                `json:"movie_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	users := h.recommender.UserProfiles()
	if users == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "user profiles not configured"})
		return
	}
	emotions := core.EmotionVector{}
	for k, v := range req.Emotions {
		emotions[k] = v
	}
	analysis, err := users.RecordAnalysis(c.Request.Context(), userID, emotions, req.MovieCount)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, analysis)
}

// UserProfile 处理 GET /users/:userId/profile
func (h *Handler) UserProfile(c *gin.Context) {
	userID := c.Param("userId")
	users := h.recommender.UserProfiles()
	if users == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "user profiles not configured"})
		return
	}
	p, err := users.CurrentProfile(c.Request.Context(), userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "emotion_profile": p})
}

// RecommendationHistory 处理 GET /users/:userId/history
func (h *Handler) RecommendationHistory(c *gin.Context) {
	userID := c.Param("userId")
	recLog := h.recommender.RecommendationLogStore()
	if recLog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "recommendation log not configured"})
		return
	}
	limit := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	history, err := recLog.RecommendationHistory(c.Request.Context(), userID, limit)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "history": history})
}

// AnalysisHistory 处理 GET /users/:userId/analyses
func (h *Handler) AnalysisHistory(c *gin.Context) {
	userID := c.Param("userId")
	users := h.recommender.UserProfiles()
	if users == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "user profiles not configured"})
		return
	}
	history, err := users.History(c.Request.Context(), userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "analyses": history})
}
