package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatmood/backend/internal/models"
	"chatmood/backend/pkg/logger"
)

// ErrModelNotReady is returned when classification is requested before the
// external scorer capability has been initialized.
var ErrModelNotReady = errors.New("sentiment model not ready")

// Classifier is the injected external scorer capability. The engine never
// loads model weights itself; it only relies on this call contract.
type Classifier interface {
	// Ready reports whether the capability can accept Classify calls.
	Ready() bool
	// Classify scores a single text.
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}

// ProgressFunc receives per-item progress events. It is a fire-and-forget
// side channel; no engine behavior depends on it being invoked.
type ProgressFunc func(p models.Progress)

// AdapterConfig bounds the analysis cost regardless of corpus size
type AdapterConfig struct {
	// SampleCap is the maximum number of messages sent to the scorer
	SampleCap int
	// MaxTextLen is the truncation length applied before scoring
	MaxTextLen int
}

// DefaultAdapterConfig returns the reference limits
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		SampleCap:  500,
		MaxTextLen: 512,
	}
}

// CorpusClassifier applies filtering, sampling and truncation policy around
// a Classifier so that classifying a corpus stays bounded and reproducible.
type CorpusClassifier struct {
	classifier Classifier
	config     AdapterConfig
	log        *logger.Logger
}

// NewCorpusClassifier creates a corpus classifier around the given capability
func NewCorpusClassifier(classifier Classifier, config AdapterConfig, log *logger.Logger) *CorpusClassifier {
	if config.SampleCap <= 0 {
		config.SampleCap = DefaultAdapterConfig().SampleCap
	}
	if config.MaxTextLen <= 0 {
		config.MaxTextLen = DefaultAdapterConfig().MaxTextLen
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	return &CorpusClassifier{
		classifier: classifier,
		config:     config,
		log:        log,
	}
}

// Eligible reports whether a message is sent to the scorer at all: media
// placeholders and near-empty texts are skipped.
func Eligible(m models.Message) bool {
	return !m.IsMedia && len(strings.TrimSpace(m.Text)) > 3
}

// Sample evenly downsamples messages to at most cap entries, taking every
// stride-th element starting at index 0. Deterministic by construction: the
// same corpus always yields the same sampled indices.
func Sample(messages []models.Message, limit int) []models.Message {
	if len(messages) <= limit {
		return messages
	}

	stride := len(messages) / limit
	sampled := make([]models.Message, 0, limit)
	for i := 0; i < len(messages) && len(sampled) < limit; i += stride {
		sampled = append(sampled, messages[i])
	}
	return sampled
}

// ClassifyCorpus scores the eligible, sampled subset of messages in
// chronological order. The scorer being unavailable fails the whole batch;
// a single item failing does not, it degrades to a neutral verdict.
func (c *CorpusClassifier) ClassifyCorpus(ctx context.Context, messages []models.Message, onProgress ProgressFunc) ([]models.ClassifiedMessage, error) {
	if c.classifier == nil || !c.classifier.Ready() {
		return nil, ErrModelNotReady
	}

	eligible := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if Eligible(m) {
			eligible = append(eligible, m)
		}
	}

	sampled := Sample(eligible, c.config.SampleCap)
	results := make([]models.ClassifiedMessage, 0, len(sampled))

	for i, m := range sampled {
		if onProgress != nil {
			onProgress(models.Progress{
				Current: i + 1,
				Total:   len(sampled),
				Status:  fmt.Sprintf("Analyzing message %d of %d...", i+1, len(sampled)),
			})
		}

		text := m.Text
		if len([]rune(text)) > c.config.MaxTextLen {
			text = string([]rune(text)[:c.config.MaxTextLen])
		}

		verdict, err := c.classifier.Classify(ctx, text)
		if err != nil {
			c.log.Warn("scoring failed, substituting neutral",
				"index", i,
				"error", err.Error(),
			)
			verdict = models.Sentiment{Label: models.LabelNeutral, Score: 0.5}
		}

		results = append(results, models.ClassifiedMessage{Message: m, Sentiment: verdict})
	}

	return results, nil
}
