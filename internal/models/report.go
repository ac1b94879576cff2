package models

import (
	"time"
)

// ActivityBucket counts messages for one hour-of-day or day-of-week slot
type ActivityBucket struct {
	Label    string `json:"label"`
	Messages int    `json:"messages"`
}

// ResponseTime is a participant's average reply delay in seconds
type ResponseTime struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`
}

// StarterCount tallies conversation starts per participant
type StarterCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EmojiCount is one entry of the emoji frequency ranking
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// WordCount is one entry of the word frequency ranking
type WordCount struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// ShiftTriggers holds the messages immediately following the largest jumps
// in the rolling mood signal, per polarity
type ShiftTriggers struct {
	Positive []ClassifiedMessage `json:"positive"`
	Negative []ClassifiedMessage `json:"negative"`
}

// Insights bundles the secondary behavioral metrics derived from a corpus
type Insights struct {
	ActivityByHour []ActivityBucket `json:"activity_by_hour"`
	ActivityByDay  []ActivityBucket `json:"activity_by_day"`
	ResponseTimes  []ResponseTime   `json:"avg_response_times"`
	Starters       []StarterCount   `json:"starters"`
	Emojis         []EmojiCount     `json:"emojis"`
	WordCloud      []WordCount      `json:"word_cloud"`
	Shifts         ShiftTriggers    `json:"sentiment_shifts"`
}

// Report is the full analysis output handed to the presentation layer.
// It is a plain value with no behavior, safe to serialize.
type Report struct {
	ID             string              `json:"id"`
	Chat           ParsedChat          `json:"chat"`
	Classified     []ClassifiedMessage `json:"classified"`
	Timeline       []TimelineBucket    `json:"timeline"`
	WeeklyTimeline []TimelineBucket    `json:"weekly_timeline,omitempty"`
	Curve          []RollingPoint      `json:"mood_curve"`
	Clusters       []bool              `json:"negativity_clusters"`
	Stats          OverallStats        `json:"stats"`
	Highlights     Highlights          `json:"highlights"`
	Insights       Insights            `json:"insights"`
	CreatedAt      time.Time           `json:"created_at"`
}
