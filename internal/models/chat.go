package models

import (
	"time"
)

// Message represents one logical chat utterance extracted from an export file.
// Text may span multiple source lines, newline-joined.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	IsMedia   bool      `json:"is_media"`
}

// ParsedChat is the corpus-level view derived from the ordered message sequence
type ParsedChat struct {
	Messages              []Message      `json:"messages"`
	Participants          []string       `json:"participants"`
	StartDate             time.Time      `json:"start_date"`
	EndDate               time.Time      `json:"end_date"`
	TotalMessages         int            `json:"total_messages"`
	MessagesByParticipant map[string]int `json:"messages_by_participant"`
}

// Sentiment labels assigned by the external classifier
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Sentiment is the classifier's verdict for a single text
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Signed maps the sentiment onto [-1,1]: positive scores count up,
// negative scores count down, neutral contributes nothing.
func (s Sentiment) Signed() float64 {
	switch s.Label {
	case LabelPositive:
		return s.Score
	case LabelNegative:
		return -s.Score
	default:
		return 0
	}
}

// ClassifiedMessage is a Message enriched with its sentiment verdict
type ClassifiedMessage struct {
	Message
	Sentiment Sentiment `json:"sentiment"`
}

// TimelineBucket aggregates sentiment counts for one calendar day (or one
// week under downsampling). Positive+Negative+Neutral always equals
// MessageCount.
type TimelineBucket struct {
	Date         string  `json:"date"`
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
	AvgScore     float64 `json:"avg_score"`
	MessageCount int     `json:"message_count"`
}

// RollingPoint is one sample of the smoothed mood curve
type RollingPoint struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ClassifiedView carries the per-message signals computed alongside the
// rolling mood curve
type ClassifiedView struct {
	Messages          []ClassifiedMessage `json:"messages"`
	RollingAvg        []float64           `json:"rolling_avg"`
	NegativityCluster []bool              `json:"negativity_cluster"`
	Curve             []RollingPoint      `json:"curve"`
}

// Highlights holds the top-scoring messages per polarity
type Highlights struct {
	Positive []ClassifiedMessage `json:"positive"`
	Negative []ClassifiedMessage `json:"negative"`
}

// OverallStats summarizes the classified corpus. AvgPositivity is the mean
// signed score remapped from [-1,1] to [0,100].
type OverallStats struct {
	Total         int     `json:"total"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	PositivePct   float64 `json:"positive_pct"`
	NegativePct   float64 `json:"negative_pct"`
	NeutralPct    float64 `json:"neutral_pct"`
	AvgPositivity float64 `json:"avg_positivity"`
}

// Progress is the side-channel event emitted during model setup and
// classification. 0 <= Current <= Total always holds.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Status  string `json:"status"`
}
