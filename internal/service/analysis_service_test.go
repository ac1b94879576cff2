package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"chatmood/backend/internal/insights"
	"chatmood/backend/internal/models"
	"chatmood/backend/internal/sentiment"
	"chatmood/backend/pkg/cache"
	"chatmood/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordClassifier scores by spotting obvious words, which keeps the
// pipeline deterministic without a model service
type keywordClassifier struct {
	calls int
}

func (k *keywordClassifier) Ready() bool { return true }

func (k *keywordClassifier) Classify(_ context.Context, text string) (models.Sentiment, error) {
	k.calls++
	switch {
	case strings.Contains(text, "love"):
		return models.Sentiment{Label: models.LabelPositive, Score: 0.9}, nil
	case strings.Contains(text, "awful"):
		return models.Sentiment{Label: models.LabelNegative, Score: 0.8}, nil
	default:
		return models.Sentiment{Label: models.LabelNeutral, Score: 0.5}, nil
	}
}

func newTestService(classifier sentiment.Classifier) *AnalysisService {
	logConfig := logger.DefaultConfig()
	logConfig.Output = io.Discard
	log := logger.New(logConfig)

	return NewAnalysisService(
		nil,
		sentiment.NewCorpusClassifier(classifier, sentiment.AdapterConfig{}, log),
		sentiment.NewAggregator(sentiment.AggregatorConfig{}),
		insights.NewEngine(insights.Config{}),
		nil, 0, log,
	)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	raw := strings.Join([]string{
		"[12/30/23, 09:00] Ana: I love this plan",
		"[12/30/23, 09:05] Ben: the weather was awful though",
		"[12/31/23, 10:00] Ana: meeting at noon",
		"[12/31/23, 10:01] Ben: I love it, see you there",
	}, "\n")

	svc := newTestService(&keywordClassifier{})

	var progress []models.Progress
	report, err := svc.Analyze(context.Background(), raw, AnalyzeOptions{
		FileName: "chat.txt",
		OnProgress: func(p models.Progress) {
			progress = append(progress, p)
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 4, report.Chat.TotalMessages)
	assert.Len(t, report.Classified, 4)
	assert.False(t, report.CreatedAt.IsZero())

	require.Len(t, report.Timeline, 2)
	for _, bucket := range report.Timeline {
		assert.Equal(t, bucket.MessageCount, bucket.Positive+bucket.Negative+bucket.Neutral)
	}
	// Short timeline never triggers the weekly view
	assert.Empty(t, report.WeeklyTimeline)

	assert.Equal(t, 4, report.Stats.Total)
	assert.Equal(t, 2, report.Stats.Positive)
	assert.Equal(t, 1, report.Stats.Negative)
	assert.Len(t, report.Highlights.Positive, 2)
	assert.Len(t, report.Highlights.Negative, 1)

	assert.NotEmpty(t, report.Insights.ActivityByHour)
	assert.NotEmpty(t, report.Insights.Starters)
	assert.NotEmpty(t, report.Insights.WordCloud)

	require.NotEmpty(t, progress)
	assert.Equal(t, "Parsing chat file...", progress[0].Status)
	last := progress[len(progress)-1]
	assert.Equal(t, 100, last.Current)
	assert.Equal(t, 100, last.Total)
}

func TestAnalyzeNoMessages(t *testing.T) {
	svc := newTestService(&keywordClassifier{})
	_, err := svc.Analyze(context.Background(), "nothing resembling an export", AnalyzeOptions{})
	assert.ErrorIs(t, err, ErrNoMessages)
}

func TestGetReportUnknownWithoutStores(t *testing.T) {
	svc := newTestService(&keywordClassifier{})
	_, err := svc.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestCachingClassifierMemoizes(t *testing.T) {
	inner := &keywordClassifier{}
	c := NewCachingClassifier(inner, cache.NewCache())

	assert.True(t, c.Ready())

	first, err := c.Classify(context.Background(), "I love this")
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), "I love this")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}
