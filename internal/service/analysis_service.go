package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatmood/backend/internal/chat"
	"chatmood/backend/internal/insights"
	"chatmood/backend/internal/models"
	"chatmood/backend/internal/sentiment"
	"chatmood/backend/pkg/cache"
	"chatmood/backend/pkg/logger"
	"chatmood/backend/shared/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoMessages reports that parsing produced zero messages from the input.
// It is a reportable outcome of valid input, distinguishable from a crash;
// the caller decides whether to treat it as user error.
var ErrNoMessages = errors.New("no messages found in chat export")

// ErrAnalysisNotFound reports an unknown analysis ID
var ErrAnalysisNotFound = errors.New("analysis not found")

// AnalysisService runs the full pipeline: parse, classify, aggregate,
// derive. Each invocation is independent given its inputs; the only shared
// state is the injected model capability.
type AnalysisService struct {
	db         *gorm.DB
	classifier *sentiment.CorpusClassifier
	aggregator *sentiment.Aggregator
	insights   *insights.Engine
	reports    *redis.RedisClient
	reportTTL  time.Duration
	log        *logger.Logger
}

// NewAnalysisService wires the pipeline together
func NewAnalysisService(
	db *gorm.DB,
	classifier *sentiment.CorpusClassifier,
	aggregator *sentiment.Aggregator,
	engine *insights.Engine,
	reports *redis.RedisClient,
	reportTTL time.Duration,
	log *logger.Logger,
) *AnalysisService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &AnalysisService{
		db:         db,
		classifier: classifier,
		aggregator: aggregator,
		insights:   engine,
		reports:    reports,
		reportTTL:  reportTTL,
		log:        log,
	}
}

// AnalyzeOptions carries per-run metadata and the progress observer
type AnalyzeOptions struct {
	FileName   string
	OnProgress sentiment.ProgressFunc
}

// Analyze runs one corpus through the whole pipeline and persists the
// resulting report.
func (s *AnalysisService) Analyze(ctx context.Context, raw string, opts AnalyzeOptions) (*models.Report, error) {
	id := uuid.New().String()
	log := s.log.WithAnalysisID(id)

	report := func(p models.Progress) {
		if opts.OnProgress != nil {
			opts.OnProgress(p)
		}
	}

	report(models.Progress{Current: 0, Total: 100, Status: "Parsing chat file..."})
	parsed := chat.Parse(raw)
	if parsed.TotalMessages == 0 {
		return nil, ErrNoMessages
	}
	log.Info("chat parsed",
		"messages", parsed.TotalMessages,
		"participants", len(parsed.Participants),
	)

	if s.db != nil {
		row := &models.Analysis{
			ID:            id,
			Status:        models.AnalysisStatusRunning,
			FileName:      opts.FileName,
			TotalMessages: parsed.TotalMessages,
			Participants:  len(parsed.Participants),
		}
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			log.LogError(err, "failed to persist analysis row")
		}
	}

	classified, err := s.classifier.ClassifyCorpus(ctx, parsed.Messages, report)
	if err != nil {
		s.markFailed(ctx, id, err)
		return nil, err
	}

	view := s.aggregator.View(classified)
	daily := s.aggregator.DailyTimeline(classified)

	result := &models.Report{
		ID:         id,
		Chat:       *parsed,
		Classified: classified,
		Timeline:   daily,
		Curve:      view.Curve,
		Clusters:   view.NegativityCluster,
		Stats:      s.aggregator.OverallStats(classified),
		Highlights: s.aggregator.Highlights(classified),
		Insights:   s.insights.Compute(parsed, view),
		CreatedAt:  time.Now().UTC(),
	}
	if s.aggregator.NeedsWeeklyView(daily) {
		result.WeeklyTimeline = s.aggregator.WeeklyTimeline(daily)
	}

	s.store(ctx, result, opts.FileName)
	report(models.Progress{Current: 100, Total: 100, Status: "Analysis complete"})
	return result, nil
}

// GetReport fetches a persisted report, redis first, then the database.
func (s *AnalysisService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if s.reports != nil {
		if cached, err := s.reports.Get(reportKey(id)); err == nil {
			var result models.Report
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		} else if !redis.IsNotFound(err) {
			s.log.LogError(err, "report cache read failed", "analysis_id", id)
		}
	}

	if s.db == nil {
		return nil, ErrAnalysisNotFound
	}

	var row models.Analysis
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.Status != models.AnalysisStatusComplete {
		return nil, ErrAnalysisNotFound
	}

	var result models.Report
	if err := json.Unmarshal(row.Report, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *AnalysisService) store(ctx context.Context, result *models.Report, fileName string) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.LogError(err, "failed to serialize report", "analysis_id", result.ID)
		return
	}

	if s.db != nil {
		update := map[string]interface{}{
			"status": models.AnalysisStatusComplete,
			"report": payload,
		}
		if err := s.db.WithContext(ctx).Model(&models.Analysis{}).Where("id = ?", result.ID).Updates(update).Error; err != nil {
			s.log.LogError(err, "failed to store report", "analysis_id", result.ID)
		}
	}

	if s.reports != nil {
		if err := s.reports.Set(reportKey(result.ID), payload, s.reportTTL); err != nil {
			s.log.LogError(err, "failed to cache report", "analysis_id", result.ID)
		}
	}
}

func (s *AnalysisService) markFailed(ctx context.Context, id string, cause error) {
	if s.db == nil {
		return
	}
	update := map[string]interface{}{
		"status": models.AnalysisStatusFailed,
		"error":  cause.Error(),
	}
	if err := s.db.WithContext(ctx).Model(&models.Analysis{}).Where("id = ?", id).Updates(update).Error; err != nil {
		s.log.LogError(err, "failed to mark analysis failed", "analysis_id", id)
	}
}

func reportKey(id string) string {
	return "chatmood:report:" + id
}

// CachingClassifier memoizes per-text verdicts so overlapping corpora do
// not re-hit the model service.
type CachingClassifier struct {
	inner sentiment.Classifier
	cache *cache.Cache
}

// NewCachingClassifier wraps a classifier with the in-process cache
func NewCachingClassifier(inner sentiment.Classifier, scoreCache *cache.Cache) *CachingClassifier {
	return &CachingClassifier{inner: inner, cache: scoreCache}
}

// Ready implements sentiment.Classifier
func (c *CachingClassifier) Ready() bool {
	return c.inner.Ready()
}

// Classify implements sentiment.Classifier with read-through caching
func (c *CachingClassifier) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(text); ok {
			if verdict, ok := v.(models.Sentiment); ok {
				return verdict, nil
			}
		}
	}

	verdict, err := c.inner.Classify(ctx, text)
	if err == nil && c.cache != nil {
		c.cache.Set(text, verdict)
	}
	return verdict, err
}
