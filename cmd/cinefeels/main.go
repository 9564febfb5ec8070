package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rushteam/cinekit/api"
	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/feast"
	"github.com/rushteam/cinekit/profile"
	"github.com/rushteam/cinekit/recall"
	"github.com/rushteam/cinekit/service"
	"github.com/rushteam/cinekit/store"
)

// cinefeels 是情绪驱动电影推荐的 HTTP 服务入口。
//
// 环境变量（.env 支持）：
//
//	ADDR                服务监听地址，默认 ":8080"
//	STORE_BACKEND       memory / redis，默认 memory
//	REDIS_ADDR          Redis 地址，默认 "localhost:6379"
//	REDIS_PASSWORD      Redis 密码
//	REDIS_DB            Redis DB 序号
//	CLASSIFIER_ENDPOINT 文本情绪分类服务地址，为空时禁用 AnalyzeMovie 的影评路径
//	FEAST_HOST          Feast 在线特征库地址，为空时禁用用户画像冷启动先验
//	FEAST_PORT          Feast gRPC 端口，默认 6565
//	FEAST_PROJECT       Feast 项目名，默认 cinefeels
//	LOG_LEVEL           zerolog 级别，默认 info
func main() {
	// .env 是可选的，缺失不算错误
	_ = godotenv.Load()

	logger := newLogger()

	s, err := newStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("init store")
	}
	defer s.Close()

	catalog := store.NewCatalog(s, "movies")
	graph := recall.NewStoreGraphAdapter(s, "graph")
	users := profile.NewAccumulator(s, "user:analyses")

	if host := getEnv("FEAST_HOST", ""); host != "" {
		port, _ := strconv.Atoi(getEnv("FEAST_PORT", "6565"))
		client, err := feast.NewGrpcClient(host, port, getEnv("FEAST_PROJECT", "cinefeels"))
		if err != nil {
			logger.Fatal().Err(err).Msg("init feast client")
		}
		defer client.Close()
		users.Prior = profile.NewFeastProvider(client)
	}

	opts := []service.Option{
		service.WithGraph(graph),
		service.WithWatchlist(graph),
		service.WithUserProfiles(users),
		service.WithRecommendationLog(graph),
		service.WithLogger(logger),
		service.WithTopRatedZSet(s, catalog.TopRatedKey()),
	}
	if endpoint := getEnv("CLASSIFIER_ENDPOINT", ""); endpoint != "" {
		opts = append(opts, service.WithClassifier(service.NewHTTPClassifier(endpoint, 30*time.Second)))
	}
	recommender := service.NewRecommender(catalog, opts...)

	router := api.NewRouter(api.NewHandler(recommender, logger), logger)

	addr := getEnv("ADDR", ":8080")
	logger.Info().Str("addr", addr).Str("store", s.Name()).Msg("cinefeels listening")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func newStore() (core.Store, error) {
	switch getEnv("STORE_BACKEND", "memory") {
	case "redis":
		db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
		return store.NewRedisStore(
			getEnv("REDIS_ADDR", "localhost:6379"),
			getEnv("REDIS_PASSWORD", ""),
			db,
		)
	default:
		return store.NewMemoryStore(), nil
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
