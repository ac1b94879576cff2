package di

import (
	"fmt"
	"time"

	"chatmood/backend/ai"
	"chatmood/backend/internal/insights"
	"chatmood/backend/internal/sentiment"
	"chatmood/backend/internal/service"
	"chatmood/backend/pkg/cache"
	"chatmood/backend/pkg/config"
	"chatmood/backend/pkg/health"
	"chatmood/backend/pkg/logger"
	"chatmood/backend/shared/redis"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB              *gorm.DB
	Logger          *logger.Logger
	Redis           *redis.RedisClient
	Scorer          *ai.Scorer
	Bridge          *ai.Bridge
	Classifier      *sentiment.CorpusClassifier
	Aggregator      *sentiment.Aggregator
	Insights        *insights.Engine
	AnalysisService *service.AnalysisService
	Health          *health.Checker
}

// Config holds the configuration for the container
type Config struct {
	LoggerConfig      logger.Config
	HealthCheckPeriod time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LoggerConfig:      logger.DefaultConfig(),
		HealthCheckPeriod: 30 * time.Second,
	}
}

// New creates a new dependency injection container
func New(db *gorm.DB, containerConfig *Config) (*Container, error) {
	if containerConfig == nil {
		containerConfig = DefaultConfig()
	}

	cfg := config.Get()

	// Initialize the logger
	log := logger.New(containerConfig.LoggerConfig)

	// Report cache (redis) and in-process score cache
	redisClient := redis.NewRedisClient()

	var scoreCache *cache.Cache
	if cfg.Cache.Enabled {
		scoreCache = cache.NewCache()
	}

	// Scorer client and the bridge guarding it
	scorer, err := ai.NewScorer(cfg.Model.ServiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model scorer: %w", err)
	}
	bridge := ai.NewBridge(scorer, log)

	// Classification pipeline: bridge -> score memoization -> corpus policy
	var capability sentiment.Classifier = bridge
	if scoreCache != nil {
		capability = service.NewCachingClassifier(bridge, scoreCache)
	}
	classifier := sentiment.NewCorpusClassifier(capability, sentiment.AdapterConfig{
		SampleCap:  cfg.Analysis.SampleCap,
		MaxTextLen: cfg.Analysis.MaxTextLen,
	}, log)

	aggregator := sentiment.NewAggregator(sentiment.AggregatorConfig{
		RollingWindow:       cfg.Analysis.RollingWindow,
		CurvePoints:         cfg.Analysis.CurvePoints,
		WeeklyThreshold:     cfg.Analysis.WeeklyThreshold,
		HighlightCount:      cfg.Analysis.HighlightCount,
		ClusterWindow:       cfg.Analysis.ClusterWindow,
		ClusterMinNegatives: cfg.Analysis.ClusterMinNegatives,
		NegativeThreshold:   cfg.Analysis.NegativeThreshold,
	})

	insightsEngine := insights.NewEngine(insights.Config{
		StarterGap:    cfg.Analysis.StarterGap,
		TopEmojis:     cfg.Analysis.TopEmojis,
		TopWords:      cfg.Analysis.TopWords,
		MinWordLen:    cfg.Analysis.MinWordLen,
		ShiftTopN:     cfg.Analysis.ShiftTopN,
		ShiftMinDelta: cfg.Analysis.ShiftMinDelta,
	})

	analysisService := service.NewAnalysisService(
		db, classifier, aggregator, insightsEngine,
		redisClient, cfg.Redis.ReportTTL, log,
	)

	// Health checker covering every external dependency
	checker := health.NewChecker(log, containerConfig.HealthCheckPeriod)
	if db != nil {
		checker.RegisterDatabaseCheck(func() error {
			return db.Exec("SELECT 1").Error
		})
	}
	checker.RegisterModelCheck(bridge.Ready)
	checker.RegisterRedisCheck(redisClient.Ping)

	return &Container{
		DB:              db,
		Logger:          log,
		Redis:           redisClient,
		Scorer:          scorer,
		Bridge:          bridge,
		Classifier:      classifier,
		Aggregator:      aggregator,
		Insights:        insightsEngine,
		AnalysisService: analysisService,
		Health:          checker,
	}, nil
}
