package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/emotion"
	"github.com/rushteam/cinekit/filter"
	"github.com/rushteam/cinekit/model"
	"github.com/rushteam/cinekit/pipeline"
	"github.com/rushteam/cinekit/pkg/utils"
	"github.com/rushteam/cinekit/profile"
	"github.com/rushteam/cinekit/rank"
	"github.com/rushteam/cinekit/recall"
	"github.com/rushteam/cinekit/rerank"
)

// Options 是单次推荐请求的可选参数，零值走 RecommendConfig 的默认。
type Options struct {
	// Limit 返回条数，<=0 时取默认值
	Limit int

	// MinRating 评分下限，<=0 表示该路径的默认策略
	MinRating float64

	// Genre 非空时只在该 genre 内推荐
	Genre string
}

// Recommender 是推荐服务编排层：把召回/过滤/排序/重排节点
// 按请求路径拼成 Pipeline 并执行。自身无状态，可并发使用。
//
// 依赖通过构造函数注入；除 Catalog 外都是可选的，
// 缺失的依赖只会让对应路径退化（如没有 Graph 就没有个性化推荐）。
type Recommender struct {
	catalog    core.MovieCatalog
	graph      core.LikeGraph
	watchlist  core.Watchlist
	classifier core.Classifier
	scorer     model.Scorer
	moods      *emotion.MoodResolver
	aggregator *emotion.Aggregator
	users      *profile.Accumulator
	recLog     core.RecommendationLog
	cfg        core.RecommendConfig
	logger     zerolog.Logger

	// topRatedStore / topRatedKey 指向评分榜单 zset（可选，加速 TopRated）
	topRatedStore core.Store
	topRatedKey   string
}

// Option 配置 Recommender 的可选依赖。
type Option func(*Recommender)

// WithGraph 注入交互图（启用个性化推荐与已看过滤）。
func WithGraph(g core.LikeGraph) Option {
	return func(r *Recommender) { r.graph = g }
}

// WithWatchlist 注入想看清单。
func WithWatchlist(w core.Watchlist) Option {
	return func(r *Recommender) { r.watchlist = w }
}

// WithClassifier 注入文本情绪分类器（启用 AnalyzeMovie）。
func WithClassifier(c core.Classifier) Option {
	return func(r *Recommender) { r.classifier = c }
}

// WithScorer 替换默认的加权匹配打分模型。
func WithScorer(s model.Scorer) Option {
	return func(r *Recommender) { r.scorer = s }
}

// WithUserProfiles 注入用户画像累积器（启用会话画像推荐）。
func WithUserProfiles(a *profile.Accumulator) Option {
	return func(r *Recommender) { r.users = a }
}

// WithRecommendationLog 注入推荐下发日志（启用个性化推荐历史）。
func WithRecommendationLog(l core.RecommendationLog) Option {
	return func(r *Recommender) { r.recLog = l }
}

// WithConfig 替换默认配置。
func WithConfig(cfg core.RecommendConfig) Option {
	return func(r *Recommender) { r.cfg = cfg }
}

// WithLogger 注入结构化日志。
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recommender) { r.logger = l }
}

// WithTopRatedZSet 指定评分榜单 zset，TopRated 优先走它而不是扫片库。
func WithTopRatedZSet(s core.Store, key string) Option {
	return func(r *Recommender) {
		r.topRatedStore = s
		r.topRatedKey = key
	}
}

// NewRecommender 创建推荐服务。catalog 是唯一必需依赖。
func NewRecommender(catalog core.MovieCatalog, opts ...Option) *Recommender {
	r := &Recommender{
		catalog:    catalog,
		scorer:     model.NewEmotionMatch(),
		moods:      emotion.NewMoodResolver(),
		aggregator: emotion.NewAggregator(),
		cfg:        &core.DefaultRecommendConfig{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecommendByVector 按显式情绪向量推荐。
// 查询维度决定打分维度；全零/空查询不报错，所有候选得 0 分后按稳定序返回。
func (r *Recommender) RecommendByVector(ctx context.Context, query core.EmotionVector, opt Options) ([]*core.Item, error) {
	rctx := r.newContext("", "", query, opt)
	items, err := r.run(ctx, rctx, r.matchNodes(opt))
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("path", "vector").Int("results", len(items)).Msg("recommend done")
	return items, nil
}

// RecommendByMood 按心情关键词推荐。
// 未命中词表回落到温和默认查询；评分下限未显式给出时用 mood 路径默认值。
func (r *Recommender) RecommendByMood(ctx context.Context, mood string, opt Options) ([]*core.Item, error) {
	query, matched := r.moods.Resolve(mood)
	if opt.MinRating <= 0 {
		opt.MinRating = r.cfg.DefaultMoodMinRating()
	}

	rctx := r.newContext("", mood, query, opt)
	rctx.PutLabel("mood_matched", utils.Label{Value: boolStr(matched), Source: "service"})

	items, err := r.run(ctx, rctx, r.matchNodes(opt))
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("path", "mood").Str("mood", mood).Bool("matched", matched).
		Int("results", len(items)).Msg("recommend done")
	return items, nil
}

// RecommendByMovieID 找相似电影：参考电影画像的派生维度作为查询，
// 参考电影自身从结果中排除。参考电影不存在时返回 ErrMovieNotFound。
func (r *Recommender) RecommendByMovieID(ctx context.Context, movieID string, opt Options) ([]*core.Item, error) {
	ref, err := r.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	p := ref.Profile
	if p == nil {
		p = emotion.FromGenres(ref.Genres)
	}
	query := p.DerivedVector()

	rctx := r.newContext("", "", query, opt)
	nodes := r.matchNodes(opt)
	// 把参考电影挡在结果外
	nodes = append([]pipeline.Node{}, nodes...)
	for i, n := range nodes {
		if fn, ok := n.(*filter.FilterNode); ok {
			fn.Filters = append(fn.Filters, &filter.BlacklistFilter{MovieIDs: []string{movieID}})
			nodes[i] = fn
		}
	}

	items, err := r.run(ctx, rctx, nodes)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("path", "similar").Str("movie_id", movieID).
		Int("results", len(items)).Msg("recommend done")
	return items, nil
}

// RecommendByDominantEmotion 按主导情绪推荐：只保留主导情绪一致的电影，
// 按评分降序排序。没有存档画像的电影用 genre 兜底画像参与判断。
func (r *Recommender) RecommendByDominantEmotion(ctx context.Context, emotionName string, opt Options) ([]*core.Item, error) {
	rctx := r.newContext("", "", nil, opt)
	rctx.Params["dominant_emotion"] = emotionName

	nodes := []pipeline.Node{
		&recall.Catalog{Catalog: r.catalog},
		&profileHydrateNode{},
		&filter.FilterNode{Filters: []filter.Filter{
			&filter.MinRatingFilter{},
			&filter.DominantEmotionFilter{},
		}},
		&rank.RatingNode{},
		&rerank.TopNNode{N: r.limit(opt)},
	}
	items, err := r.run(ctx, rctx, nodes)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("path", "dominant").Str("emotion", emotionName).
		Int("results", len(items)).Msg("recommend done")
	return items, nil
}

// RecommendForUser 个性化推荐：图协同过滤，按邻居票数排序。
// 配置了想看清单时并发多召回一路（协同过滤优先）。
// 冷启动（无喜欢记录或无邻居）时回落到高分榜。
func (r *Recommender) RecommendForUser(ctx context.Context, userID string, opt Options) ([]*core.Item, error) {
	if r.graph == nil {
		return r.TopRated(ctx, opt)
	}

	var recallNode pipeline.Node = &recall.GraphCF{Graph: r.graph}
	if r.watchlist != nil {
		recallNode = &recall.Fanout{
			Sources: []recall.Source{
				&recall.GraphCF{Graph: r.graph},
				&recall.WatchlistRecall{Watchlist: r.watchlist, TopK: r.limit(opt)},
			},
			Dedup:         true,
			MergeStrategy: "priority",
		}
	}

	rctx := r.newContext(userID, "", nil, opt)
	nodes := []pipeline.Node{
		recallNode,
		&hydrateNode{Catalog: r.catalog},
		&filter.FilterNode{Filters: []filter.Filter{&filter.MinRatingFilter{}}},
		&rerank.TopNNode{N: r.limit(opt)},
	}
	items, err := r.run(ctx, rctx, nodes)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		r.logger.Debug().Str("path", "user").Str("user_id", userID).Msg("cf empty, fallback to top rated")
		return r.TopRated(ctx, opt)
	}
	r.appendRecLog(ctx, userID, "user", items)
	r.logger.Debug().Str("path", "user").Str("user_id", userID).
		Int("results", len(items)).Msg("recommend done")
	return items, nil
}

// appendRecLog 记录本次下发。日志失败只告警，不影响推荐结果。
func (r *Recommender) appendRecLog(ctx context.Context, userID, path string, items []*core.Item) {
	if r.recLog == nil || userID == "" || len(items) == 0 {
		return
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}
	if err := r.recLog.AppendRecommendation(ctx, userID, core.RecommendationRecord{
		MovieIDs: ids,
		Path:     path,
	}); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("append recommendation log")
	}
}

// TopRated 高分榜（非个性化）。
func (r *Recommender) TopRated(ctx context.Context, opt Options) ([]*core.Item, error) {
	limit := r.limit(opt)
	rctx := r.newContext("", "", nil, opt)
	nodes := []pipeline.Node{
		&recall.TopRated{
			Store:   r.topRatedStore,
			Key:     r.topRatedKey,
			Catalog: r.catalog,
			TopK:    limit * 2, // 过滤可能吃掉一部分，多召一倍
		},
		&hydrateNode{Catalog: r.catalog},
		&filter.FilterNode{Filters: []filter.Filter{
			&filter.MinRatingFilter{},
			&filter.GenreFilter{},
		}},
		&rank.RatingNode{},
		&rerank.TopNNode{N: limit},
	}
	return r.run(ctx, rctx, nodes)
}

// AnalyzeMovie 分析一部电影的影评并产出画像。
//   - 有影评：批量走分类器 → 聚合 → 落库（幂等 upsert）
//   - 无影评：返回 genre 兜底画像，不落库
//
// 电影不存在返回 ErrMovieNotFound；分类器故障原样传播 UNAVAILABLE。
func (r *Recommender) AnalyzeMovie(ctx context.Context, movieID string, reviews []string) (*core.EmotionProfile, error) {
	movie, err := r.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 || r.classifier == nil {
		return emotion.FromGenres(movie.Genres), nil
	}

	vectors, err := r.classifier.ClassifyBatch(ctx, reviews)
	if err != nil {
		return nil, err
	}
	p, err := r.aggregator.Aggregate(vectors)
	if err != nil {
		if core.IsNotFound(err) {
			return emotion.FromGenres(movie.Genres), nil
		}
		return nil, err
	}
	if err := r.catalog.SaveProfile(ctx, movieID, p); err != nil {
		return nil, err
	}
	r.logger.Info().Str("movie_id", movieID).Int("reviews", p.ReviewsAnalyzed).
		Str("dominant", p.DominantEmotion).Msg("movie profile updated")
	return p, nil
}

// RecordInteraction 记录一次用户-电影交互（看过/喜欢）。
func (r *Recommender) RecordInteraction(ctx context.Context, userID string, in core.Interaction) error {
	if r.graph == nil {
		return core.NewDomainError(core.ModuleGraph, core.ErrorCodeNotSupported, "graph: interaction graph not configured")
	}
	if _, err := r.catalog.GetMovie(ctx, in.MovieID); err != nil {
		return err
	}
	return r.graph.AddInteraction(ctx, userID, in)
}

// UserProfiles 返回用户画像累积器（未配置时为 nil）。
func (r *Recommender) UserProfiles() *profile.Accumulator {
	return r.users
}

// WatchlistStore 返回想看清单存储（未配置时为 nil）。
func (r *Recommender) WatchlistStore() core.Watchlist {
	return r.watchlist
}

// RecommendationLogStore 返回推荐下发日志（未配置时为 nil）。
func (r *Recommender) RecommendationLogStore() core.RecommendationLog {
	return r.recLog
}

// matchNodes 是情绪匹配主路径的节点编排：
// 片库召回 → 评分过滤 → 加权匹配排序 → TopN。
func (r *Recommender) matchNodes(opt Options) []pipeline.Node {
	return []pipeline.Node{
		&recall.Catalog{Catalog: r.catalog},
		&filter.FilterNode{Filters: []filter.Filter{&filter.MinRatingFilter{}}},
		&rank.EmotionNode{Model: r.scorer, Catalog: r.catalog},
		&rerank.TopNNode{N: r.limit(opt)},
	}
}

func (r *Recommender) run(ctx context.Context, rctx *core.RecommendContext, nodes []pipeline.Node) ([]*core.Item, error) {
	p := &pipeline.Pipeline{Nodes: nodes}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*core.Item{}
	}
	return items, nil
}

func (r *Recommender) newContext(userID, mood string, query core.EmotionVector, opt Options) *core.RecommendContext {
	params := map[string]any{}
	if opt.MinRating > 0 {
		params["min_rating"] = opt.MinRating
	}
	if opt.Genre != "" {
		params["genre"] = opt.Genre
	}
	return &core.RecommendContext{
		UserID: userID,
		Mood:   mood,
		Query:  query,
		Params: params,
	}
}

func (r *Recommender) limit(opt Options) int {
	if opt.Limit > 0 {
		return opt.Limit
	}
	return r.cfg.DefaultLimit()
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// hydrateNode 为只带 ID 的召回结果补全片库数据，保持原有 Score 不变。
// 片库里查不到的候选（下架）直接剔除。
type hydrateNode struct {
	Catalog core.MovieCatalog
}

func (n *hydrateNode) Name() string        { return "service.hydrate" }
func (n *hydrateNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *hydrateNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil {
		return items, nil
	}
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Title != "" {
			out = append(out, it)
			continue
		}
		movie, err := n.Catalog.GetMovie(ctx, it.ID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		movie.Score = it.Score
		movie.Labels = it.Labels
		out = append(out, movie)
	}
	return out, nil
}

// profileHydrateNode 给没有存档画像的候选挂上 genre 兜底画像（仅本次请求内存中）。
type profileHydrateNode struct{}

func (n *profileHydrateNode) Name() string        { return "service.profile_hydrate" }
func (n *profileHydrateNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *profileHydrateNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil || it.Profile != nil {
			continue
		}
		it.Profile = emotion.FromGenres(it.Genres)
	}
	return items, nil
}
