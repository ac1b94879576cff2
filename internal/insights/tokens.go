package insights

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"chatmood/backend/internal/models"
)

// emojiRanges covers the unicode blocks used by common chat emoji:
// emoticons, pictographs, transport, supplemental symbols, dingbats and
// regional indicators.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // misc symbols, dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1}, // regional indicators
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // misc pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // extended symbols
	},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopWords are excluded from the word ranking; the tail entries keep the
// exporter's media placeholders out of the cloud.
var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
		"between", "both", "but", "by", "can", "did", "do", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "had", "has", "have",
		"having", "he", "her", "here", "hers", "herself", "him", "himself", "his",
		"how", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
		"more", "most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "our", "ours", "ourselves", "out", "over",
		"own", "s", "same", "she", "should", "so", "some", "such", "t", "than",
		"that", "the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under", "until",
		"up", "very", "was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "you", "your", "yours", "yourself",
		"yourselves",
		"omitted", "image", "video", "audio", "sticker", "gif", "media",
	}
	words := make(map[string]bool, len(list))
	for _, w := range list {
		words[w] = true
	}
	return words
}

// EmojiFrequency ranks every emoji occurrence across non-media messages,
// capped to the configured top N. Ties break on codepoint order so the
// ranking is deterministic.
func (e *Engine) EmojiFrequency(messages []models.Message) []models.EmojiCount {
	counts := make(map[rune]int)
	for _, m := range messages {
		if m.IsMedia {
			continue
		}
		for _, r := range m.Text {
			if unicode.Is(emojiRanges, r) {
				counts[r]++
			}
		}
	}

	ranked := make([]models.EmojiCount, 0, len(counts))
	for r, n := range counts {
		ranked = append(ranked, models.EmojiCount{Emoji: string(r), Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Emoji < ranked[j].Emoji
	})

	if len(ranked) > e.config.TopEmojis {
		ranked = ranked[:e.config.TopEmojis]
	}
	return ranked
}

// WordFrequency ranks word tokens across non-media messages, excluding stop
// words, participant name parts and tokens shorter than the minimum length.
func (e *Engine) WordFrequency(messages []models.Message, participants []string) []models.WordCount {
	excluded := make(map[string]bool, len(stopWords)+len(participants))
	for w := range stopWords {
		excluded[w] = true
	}
	for _, name := range participants {
		for _, part := range strings.Fields(strings.ToLower(name)) {
			excluded[part] = true
		}
	}

	counts := make(map[string]int)
	for _, m := range messages {
		if m.IsMedia {
			continue
		}
		for _, token := range wordPattern.FindAllString(strings.ToLower(m.Text), -1) {
			if excluded[token] || len([]rune(token)) < e.config.MinWordLen {
				continue
			}
			counts[token]++
		}
	}

	ranked := make([]models.WordCount, 0, len(counts))
	for w, n := range counts {
		ranked = append(ranked, models.WordCount{Text: w, Value: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Text < ranked[j].Text
	})

	if len(ranked) > e.config.TopWords {
		ranked = ranked[:e.config.TopWords]
	}
	return ranked
}
