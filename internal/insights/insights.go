package insights

import (
	"sort"
	"strconv"
	"time"

	"chatmood/backend/internal/models"
)

// Config tunes the derived-metrics engine. Zero values fall back to the
// reference behavior.
type Config struct {
	// StarterGap is the silence after which the next message counts as a
	// conversation start
	StarterGap time.Duration
	// TopEmojis and TopWords cap the frequency rankings for presentation
	TopEmojis int
	TopWords  int
	// MinWordLen filters short tokens out of the word ranking
	MinWordLen int
	// ShiftTopN and ShiftMinDelta select the sentiment-shift trigger
	// messages: the top N jumps per polarity, ignoring jumps smaller than
	// the minimum delta
	ShiftTopN     int
	ShiftMinDelta float64
}

// DefaultConfig returns the reference tuning
func DefaultConfig() Config {
	return Config{
		StarterGap:    4 * time.Hour,
		TopEmojis:     15,
		TopWords:      50,
		MinWordLen:    4,
		ShiftTopN:     3,
		ShiftMinDelta: 0.1,
	}
}

// Engine computes secondary behavioral metrics over the full parsed corpus
// and the classified view.
type Engine struct {
	config Config
}

// NewEngine creates a derived-metrics engine
func NewEngine(config Config) *Engine {
	def := DefaultConfig()
	if config.StarterGap <= 0 {
		config.StarterGap = def.StarterGap
	}
	if config.TopEmojis <= 0 {
		config.TopEmojis = def.TopEmojis
	}
	if config.TopWords <= 0 {
		config.TopWords = def.TopWords
	}
	if config.MinWordLen <= 0 {
		config.MinWordLen = def.MinWordLen
	}
	if config.ShiftTopN <= 0 {
		config.ShiftTopN = def.ShiftTopN
	}
	if config.ShiftMinDelta <= 0 {
		config.ShiftMinDelta = def.ShiftMinDelta
	}
	return &Engine{config: config}
}

// Compute derives the full metrics bundle. Activity, response times,
// starters and token frequencies run over the complete message set; shift
// triggers run over the classified view because they depend on the rolling
// signal.
func (e *Engine) Compute(chat *models.ParsedChat, view *models.ClassifiedView) models.Insights {
	return models.Insights{
		ActivityByHour: e.ActivityByHour(chat.Messages),
		ActivityByDay:  e.ActivityByDay(chat.Messages),
		ResponseTimes:  e.ResponseTimes(chat.Messages),
		Starters:       e.Starters(chat.Messages),
		Emojis:         e.EmojiFrequency(chat.Messages),
		WordCloud:      e.WordFrequency(chat.Messages, chat.Participants),
		Shifts:         e.ShiftTriggers(view),
	}
}

// ActivityByHour counts messages per hour of day, ascending by hour.
func (e *Engine) ActivityByHour(messages []models.Message) []models.ActivityBucket {
	counts := make(map[int]int)
	for _, m := range messages {
		counts[m.Timestamp.Hour()]++
	}

	buckets := make([]models.ActivityBucket, 0, len(counts))
	for hour := 0; hour < 24; hour++ {
		if n, ok := counts[hour]; ok {
			buckets = append(buckets, models.ActivityBucket{Label: strconv.Itoa(hour), Messages: n})
		}
	}
	return buckets
}

// weekdayLabels in Monday-first order
var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ActivityByDay counts messages per day of week, Monday first.
func (e *Engine) ActivityByDay(messages []models.Message) []models.ActivityBucket {
	counts := make(map[int]int)
	for _, m := range messages {
		// Monday-first index; time.Weekday puts Sunday at 0
		idx := (int(m.Timestamp.Weekday()) + 6) % 7
		counts[idx]++
	}

	buckets := make([]models.ActivityBucket, 0, len(counts))
	for idx := 0; idx < 7; idx++ {
		if n, ok := counts[idx]; ok {
			buckets = append(buckets, models.ActivityBucket{Label: weekdayLabels[idx], Messages: n})
		}
	}
	return buckets
}

// ResponseTimes averages, per participant, the delay between their message
// and the immediately preceding message from a different participant.
// Consecutive messages from the same sender are not response events.
func (e *Engine) ResponseTimes(messages []models.Message) []models.ResponseTime {
	if len(messages) == 0 {
		return nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	lastSender := messages[0].Sender
	lastTimestamp := messages[0].Timestamp
	for _, m := range messages[1:] {
		if m.Sender != lastSender {
			if counts[m.Sender] == 0 {
				order = append(order, m.Sender)
			}
			sums[m.Sender] += m.Timestamp.Sub(lastTimestamp).Seconds()
			counts[m.Sender]++
		}
		lastSender, lastTimestamp = m.Sender, m.Timestamp
	}

	times := make([]models.ResponseTime, 0, len(order))
	for _, name := range order {
		times = append(times, models.ResponseTime{
			Name:    name,
			Seconds: sums[name] / float64(counts[name]),
		})
	}
	return times
}

// Starters attributes conversation starts: the first message overall, and
// any message arriving after a silence longer than the starter gap.
func (e *Engine) Starters(messages []models.Message) []models.StarterCount {
	if len(messages) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	record := func(sender string) {
		if counts[sender] == 0 {
			order = append(order, sender)
		}
		counts[sender]++
	}

	record(messages[0].Sender)
	for i := 1; i < len(messages); i++ {
		if messages[i].Timestamp.Sub(messages[i-1].Timestamp) > e.config.StarterGap {
			record(messages[i].Sender)
		}
	}

	starters := make([]models.StarterCount, 0, len(order))
	for _, name := range order {
		starters = append(starters, models.StarterCount{Name: name, Count: counts[name]})
	}
	return starters
}

// ShiftTriggers finds the messages immediately following the largest jumps
// of the rolling mood signal, per polarity. Jumps below the minimum delta
// are not considered significant.
func (e *Engine) ShiftTriggers(view *models.ClassifiedView) models.ShiftTriggers {
	var triggers models.ShiftTriggers
	if view == nil || len(view.Messages) < 2 {
		return triggers
	}

	diffs := make([]float64, len(view.RollingAvg))
	for i := 1; i < len(view.RollingAvg); i++ {
		diffs[i] = view.RollingAvg[i] - view.RollingAvg[i-1]
	}

	indices := make([]int, len(diffs))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return diffs[indices[a]] > diffs[indices[b]]
	})
	for _, idx := range indices[:min(e.config.ShiftTopN, len(indices))] {
		if diffs[idx] > e.config.ShiftMinDelta {
			triggers.Positive = append(triggers.Positive, view.Messages[idx])
		}
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return diffs[indices[a]] < diffs[indices[b]]
	})
	for _, idx := range indices[:min(e.config.ShiftTopN, len(indices))] {
		if diffs[idx] < -e.config.ShiftMinDelta {
			triggers.Negative = append(triggers.Negative, view.Messages[idx])
		}
	}

	return triggers
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
