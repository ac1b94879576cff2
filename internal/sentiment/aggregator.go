package sentiment

import (
	"sort"
	"time"

	"chatmood/backend/internal/models"
)

// AggregatorConfig tunes the windowed statistics computed over a classified
// corpus. Zero values fall back to the reference behavior.
type AggregatorConfig struct {
	// RollingWindow is the trailing window size of the mood signal
	RollingWindow int
	// CurvePoints caps how many samples the rendered mood curve carries
	CurvePoints int
	// WeeklyThreshold is the daily-bucket count above which a weekly view
	// is derived
	WeeklyThreshold int
	// HighlightCount is the K of the top-K highlight extraction
	HighlightCount int
	// ClusterWindow and ClusterMinNegatives define a negativity cluster: at
	// least ClusterMinNegatives messages below -NegativeThreshold within a
	// trailing run of ClusterWindow messages
	ClusterWindow       int
	ClusterMinNegatives int
	NegativeThreshold   float64
	// NegativesAscending flips the negative-highlight comparator so the
	// most negative messages are picked instead of the least negative ones
	NegativesAscending bool
}

// DefaultAggregatorConfig returns the reference tuning
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		RollingWindow:       20,
		CurvePoints:         300,
		WeeklyThreshold:     60,
		HighlightCount:      5,
		ClusterWindow:       5,
		ClusterMinNegatives: 3,
		NegativeThreshold:   0.3,
	}
}

// Aggregator combines classified messages into timeline buckets, the rolling
// mood signal, negativity-cluster flags, overall statistics and highlights.
type Aggregator struct {
	config AggregatorConfig
}

// NewAggregator creates an aggregator with the given tuning
func NewAggregator(config AggregatorConfig) *Aggregator {
	def := DefaultAggregatorConfig()
	if config.RollingWindow <= 0 {
		config.RollingWindow = def.RollingWindow
	}
	if config.CurvePoints <= 0 {
		config.CurvePoints = def.CurvePoints
	}
	if config.WeeklyThreshold <= 0 {
		config.WeeklyThreshold = def.WeeklyThreshold
	}
	if config.HighlightCount <= 0 {
		config.HighlightCount = def.HighlightCount
	}
	if config.ClusterWindow <= 0 {
		config.ClusterWindow = def.ClusterWindow
	}
	if config.ClusterMinNegatives <= 0 {
		config.ClusterMinNegatives = def.ClusterMinNegatives
	}
	if config.NegativeThreshold <= 0 {
		config.NegativeThreshold = def.NegativeThreshold
	}
	return &Aggregator{config: config}
}

// Config returns the effective tuning
func (a *Aggregator) Config() AggregatorConfig {
	return a.config
}

// DailyTimeline groups classified messages by UTC calendar date and computes
// per-bucket label counts and the mean signed score.
func (a *Aggregator) DailyTimeline(messages []models.ClassifiedMessage) []models.TimelineBucket {
	byDay := make(map[string][]models.ClassifiedMessage)
	for _, m := range messages {
		key := m.Timestamp.UTC().Format("2006-01-02")
		byDay[key] = append(byDay[key], m)
	}

	timeline := make([]models.TimelineBucket, 0, len(byDay))
	for date, msgs := range byDay {
		bucket := models.TimelineBucket{Date: date, MessageCount: len(msgs)}
		var sum float64
		for _, m := range msgs {
			switch m.Sentiment.Label {
			case models.LabelPositive:
				bucket.Positive++
			case models.LabelNegative:
				bucket.Negative++
			default:
				bucket.Neutral++
			}
			sum += m.Sentiment.Signed()
		}
		bucket.AvgScore = sum / float64(len(msgs))
		timeline = append(timeline, bucket)
	}

	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Date < timeline[j].Date
	})
	return timeline
}

// NeedsWeeklyView reports whether the daily timeline is dense enough that a
// weekly re-bucketing should be derived for display.
func (a *Aggregator) NeedsWeeklyView(daily []models.TimelineBucket) bool {
	return len(daily) > a.config.WeeklyThreshold
}

// WeeklyTimeline re-buckets a daily timeline by week, summing counts and
// averaging the daily average scores of the merged days. Week buckets align
// to the date minus its weekday offset. This is a display-density view; the
// daily timeline stays the primary one.
func (a *Aggregator) WeeklyTimeline(daily []models.TimelineBucket) []models.TimelineBucket {
	byWeek := make(map[string][]models.TimelineBucket)
	for _, bucket := range daily {
		day, err := time.Parse("2006-01-02", bucket.Date)
		if err != nil {
			continue
		}
		weekStart := day.AddDate(0, 0, -int(day.Weekday()))
		key := weekStart.Format("2006-01-02")
		byWeek[key] = append(byWeek[key], bucket)
	}

	weekly := make([]models.TimelineBucket, 0, len(byWeek))
	for week, buckets := range byWeek {
		merged := models.TimelineBucket{Date: week}
		var sum float64
		for _, b := range buckets {
			merged.Positive += b.Positive
			merged.Negative += b.Negative
			merged.Neutral += b.Neutral
			merged.MessageCount += b.MessageCount
			sum += b.AvgScore
		}
		merged.AvgScore = sum / float64(len(buckets))
		weekly = append(weekly, merged)
	}

	sort.Slice(weekly, func(i, j int) bool {
		return weekly[i].Date < weekly[j].Date
	})
	return weekly
}

// RollingSignal computes the trailing-window average of signed scores for
// every message position. The window never looks ahead of the current
// position and shrinks at the start of the sequence, so the first value is
// defined as soon as one message exists.
func (a *Aggregator) RollingSignal(messages []models.ClassifiedMessage) []float64 {
	rolling := make([]float64, len(messages))
	var sum float64
	for i, m := range messages {
		sum += m.Sentiment.Signed()
		if i >= a.config.RollingWindow {
			sum -= messages[i-a.config.RollingWindow].Sentiment.Signed()
		}
		span := i + 1
		if span > a.config.RollingWindow {
			span = a.config.RollingWindow
		}
		rolling[i] = sum / float64(span)
	}
	return rolling
}

// Curve downsamples the rolling signal to at most CurvePoints samples using
// a fixed stride, so rendering cost stays flat for huge corpora.
func (a *Aggregator) Curve(messages []models.ClassifiedMessage, rolling []float64) []models.RollingPoint {
	stride := len(messages) / a.config.CurvePoints
	if stride < 1 {
		stride = 1
	}

	points := make([]models.RollingPoint, 0, a.config.CurvePoints)
	for i := 0; i < len(messages); i += stride {
		points = append(points, models.RollingPoint{
			Index:     i,
			Timestamp: messages[i].Timestamp,
			Value:     rolling[i],
		})
	}
	return points
}

// NegativityClusters flags, per message, whether it sits inside a localized
// run of strongly negative sentiment: at least ClusterMinNegatives messages
// with signed score below -NegativeThreshold inside the trailing
// ClusterWindow. These flags mark candidate communication-breakdown points.
func (a *Aggregator) NegativityClusters(messages []models.ClassifiedMessage) []bool {
	flags := make([]bool, len(messages))
	negatives := 0
	for i, m := range messages {
		if m.Sentiment.Signed() < -a.config.NegativeThreshold {
			negatives++
		}
		if j := i - a.config.ClusterWindow; j >= 0 {
			if messages[j].Sentiment.Signed() < -a.config.NegativeThreshold {
				negatives--
			}
		}
		flags[i] = negatives >= a.config.ClusterMinNegatives
	}
	return flags
}

// OverallStats computes corpus-wide counts, percentages and the 0-100
// positivity score. An empty corpus yields all zeros, never a division
// fault.
func (a *Aggregator) OverallStats(messages []models.ClassifiedMessage) models.OverallStats {
	stats := models.OverallStats{Total: len(messages)}
	if stats.Total == 0 {
		return stats
	}

	var sum float64
	for _, m := range messages {
		switch m.Sentiment.Label {
		case models.LabelPositive:
			stats.Positive++
		case models.LabelNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
		sum += m.Sentiment.Signed()
	}

	total := float64(stats.Total)
	stats.PositivePct = float64(stats.Positive) / total * 100
	stats.NegativePct = float64(stats.Negative) / total * 100
	stats.NeutralPct = float64(stats.Neutral) / total * 100
	stats.AvgPositivity = (sum/total + 1) / 2 * 100
	return stats
}

// Highlights extracts the top-K messages per polarity from a single
// descending-by-signed-score sort. With the default comparator the negative side
// therefore picks the least-negative-scoring negative messages, mirroring
// the historical behavior; NegativesAscending selects the most negative
// instead.
func (a *Aggregator) Highlights(messages []models.ClassifiedMessage) models.Highlights {
	sorted := make([]models.ClassifiedMessage, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sentiment.Signed() > sorted[j].Sentiment.Signed()
	})

	var highlights models.Highlights
	for _, m := range sorted {
		switch m.Sentiment.Label {
		case models.LabelPositive:
			if len(highlights.Positive) < a.config.HighlightCount {
				highlights.Positive = append(highlights.Positive, m)
			}
		case models.LabelNegative:
			if len(highlights.Negative) < a.config.HighlightCount {
				highlights.Negative = append(highlights.Negative, m)
			}
		}
	}

	if a.config.NegativesAscending {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Sentiment.Signed() < sorted[j].Sentiment.Signed()
		})
		highlights.Negative = highlights.Negative[:0]
		for _, m := range sorted {
			if m.Sentiment.Label == models.LabelNegative && len(highlights.Negative) < a.config.HighlightCount {
				highlights.Negative = append(highlights.Negative, m)
			}
		}
	}

	return highlights
}

// View assembles every per-message signal in one pass over the classified
// sequence.
func (a *Aggregator) View(messages []models.ClassifiedMessage) *models.ClassifiedView {
	rolling := a.RollingSignal(messages)
	return &models.ClassifiedView{
		Messages:          messages,
		RollingAvg:        rolling,
		NegativityCluster: a.NegativityClusters(messages),
		Curve:             a.Curve(messages, rolling),
	}
}
