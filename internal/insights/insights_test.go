package insights

import (
	"testing"
	"time"

	"chatmood/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(ts time.Time, sender, text string) models.Message {
	return models.Message{Timestamp: ts, Sender: sender, Text: text}
}

func at(hour, minute int) time.Time {
	// 2024-01-01 is a Monday
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func TestActivityByHour(t *testing.T) {
	e := NewEngine(Config{})
	msgs := []models.Message{
		msg(at(9, 0), "Ana", "a"),
		msg(at(9, 30), "Ben", "b"),
		msg(at(22, 0), "Ana", "c"),
	}

	buckets := e.ActivityByHour(msgs)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.ActivityBucket{Label: "9", Messages: 2}, buckets[0])
	assert.Equal(t, models.ActivityBucket{Label: "22", Messages: 1}, buckets[1])
}

func TestActivityByDayMondayFirst(t *testing.T) {
	e := NewEngine(Config{})
	msgs := []models.Message{
		msg(at(9, 0), "Ana", "monday"),
		msg(at(9, 0).AddDate(0, 0, 6), "Ana", "sunday"),
		msg(at(9, 0).AddDate(0, 0, 6), "Ben", "sunday too"),
	}

	buckets := e.ActivityByDay(msgs)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.ActivityBucket{Label: "Mon", Messages: 1}, buckets[0])
	assert.Equal(t, models.ActivityBucket{Label: "Sun", Messages: 2}, buckets[1])
}

func TestResponseTimes(t *testing.T) {
	e := NewEngine(Config{})
	msgs := []models.Message{
		msg(at(9, 0), "Ana", "hi"),
		msg(at(9, 1), "Ben", "hey"),     // Ben responds in 60s
		msg(at(9, 2), "Ben", "you there"), // same sender, not a response
		msg(at(9, 5), "Ana", "yes"),     // Ana responds in 180s
		msg(at(9, 6), "Ben", "good"),    // Ben responds in 60s
	}

	times := e.ResponseTimes(msgs)
	require.Len(t, times, 2)
	assert.Equal(t, "Ben", times[0].Name)
	assert.InDelta(t, 60.0, times[0].Seconds, 1e-9)
	assert.Equal(t, "Ana", times[1].Name)
	assert.InDelta(t, 180.0, times[1].Seconds, 1e-9)
}

func TestStarters(t *testing.T) {
	e := NewEngine(Config{StarterGap: 4 * time.Hour})
	msgs := []models.Message{
		msg(at(9, 0), "Ana", "morning"),
		msg(at(9, 5), "Ben", "hi"),
		msg(at(14, 0), "Ben", "lunch?"),         // 4h55m silence: new conversation
		msg(at(14, 1), "Ana", "sure"),
		msg(at(23, 0), "Ana", "good night"),     // 8h59m silence: new conversation
	}

	starters := e.Starters(msgs)
	require.Len(t, starters, 2)
	assert.Equal(t, models.StarterCount{Name: "Ana", Count: 2}, starters[0])
	assert.Equal(t, models.StarterCount{Name: "Ben", Count: 1}, starters[1])
}

func TestShiftTriggers(t *testing.T) {
	e := NewEngine(Config{ShiftTopN: 1, ShiftMinDelta: 0.1})
	base := at(9, 0)
	view := &models.ClassifiedView{
		Messages: []models.ClassifiedMessage{
			{Message: msg(base, "Ana", "flat")},
			{Message: msg(base.Add(time.Minute), "Ben", "spike up")},
			{Message: msg(base.Add(2*time.Minute), "Ana", "crash down")},
			{Message: msg(base.Add(3*time.Minute), "Ben", "barely moves")},
		},
		RollingAvg: []float64{0, 0.5, -0.3, -0.25},
	}

	triggers := e.ShiftTriggers(view)
	require.Len(t, triggers.Positive, 1)
	assert.Equal(t, "spike up", triggers.Positive[0].Text)
	require.Len(t, triggers.Negative, 1)
	assert.Equal(t, "crash down", triggers.Negative[0].Text)
}

func TestShiftTriggersIgnoresSmallJumps(t *testing.T) {
	e := NewEngine(Config{ShiftTopN: 3, ShiftMinDelta: 0.1})
	view := &models.ClassifiedView{
		Messages: []models.ClassifiedMessage{
			{Message: msg(at(9, 0), "Ana", "a")},
			{Message: msg(at(9, 1), "Ben", "b")},
		},
		RollingAvg: []float64{0, 0.05},
	}

	triggers := e.ShiftTriggers(view)
	assert.Empty(t, triggers.Positive)
	assert.Empty(t, triggers.Negative)
}

func TestEmojiFrequency(t *testing.T) {
	e := NewEngine(Config{TopEmojis: 2})
	msgs := []models.Message{
		msg(at(9, 0), "Ana", "nice 😂😂❤️"),
		msg(at(9, 1), "Ben", "😂 same"),
		msg(at(9, 2), "Ana", "🎉"),
		{Timestamp: at(9, 3), Sender: "Ben", Text: "😂 <Media omitted>", IsMedia: true},
	}

	ranked := e.EmojiFrequency(msgs)
	require.Len(t, ranked, 2)
	assert.Equal(t, models.EmojiCount{Emoji: "😂", Count: 3}, ranked[0])
	assert.Equal(t, 1, ranked[1].Count)
}

func TestWordFrequency(t *testing.T) {
	e := NewEngine(Config{MinWordLen: 4, TopWords: 10})
	msgs := []models.Message{
		msg(at(9, 0), "Ana Torres", "the coffee was great, really great coffee"),
		msg(at(9, 1), "Ben", "Torres makes great coffee too"),
		{Timestamp: at(9, 2), Sender: "Ana Torres", Text: "coffee image omitted", IsMedia: true},
	}

	ranked := e.WordFrequency(msgs, []string{"Ana Torres", "Ben"})
	require.NotEmpty(t, ranked)

	assert.Equal(t, models.WordCount{Text: "coffee", Value: 3}, ranked[0])
	assert.Equal(t, models.WordCount{Text: "great", Value: 3}, ranked[1])

	for _, w := range ranked {
		// stop words, short tokens and participant names never rank
		assert.NotEqual(t, "the", w.Text)
		assert.NotEqual(t, "was", w.Text)
		assert.NotEqual(t, "torres", w.Text)
		assert.NotEqual(t, "too", w.Text)
	}
}

func TestComputeBundlesEverything(t *testing.T) {
	e := NewEngine(Config{})
	chat := &models.ParsedChat{
		Messages: []models.Message{
			msg(at(9, 0), "Ana", "hello there friend 😂"),
			msg(at(9, 1), "Ben", "hello again"),
		},
		Participants: []string{"Ana", "Ben"},
	}
	view := &models.ClassifiedView{
		Messages: []models.ClassifiedMessage{
			{Message: chat.Messages[0]},
			{Message: chat.Messages[1]},
		},
		RollingAvg: []float64{0, 0.4},
	}

	result := e.Compute(chat, view)
	assert.NotEmpty(t, result.ActivityByHour)
	assert.NotEmpty(t, result.ActivityByDay)
	assert.NotEmpty(t, result.Emojis)
	assert.NotEmpty(t, result.WordCloud)
	assert.NotEmpty(t, result.Starters)
	assert.NotEmpty(t, result.Shifts.Positive)
}
