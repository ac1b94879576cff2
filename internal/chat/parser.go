package chat

import (
	"sort"
	"strings"
	"time"

	"chatmood/backend/internal/models"
)

// Parse scans a raw chat export and assembles the ordered message sequence
// plus the corpus-level aggregates derived from it.
//
// Each line is matched against the prioritized pattern list. A matching line
// closes the message currently being accumulated and, unless it is a system
// notice or its timestamp is unusable, opens a new one. Non-matching,
// non-blank lines continue the open message; with no message open they are
// dropped. Producing zero messages from non-empty input is a valid outcome
// reported through the empty result, not an error.
func Parse(raw string) *models.ParsedChat {
	var (
		messages     []models.Message
		participants []string
		current      *models.Message
	)
	seen := make(map[string]bool)
	counts := make(map[string]int)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")

		var match []string
		for _, p := range messagePatterns {
			if match = p.re.FindStringSubmatch(line); match != nil {
				break
			}
		}

		if match == nil {
			if current != nil && strings.TrimSpace(line) != "" {
				current.Text += "\n" + strings.TrimSpace(line)
			}
			continue
		}

		// A matched line always closes the open message, even when the
		// line itself is discarded below.
		if current != nil {
			messages = append(messages, *current)
			current = nil
		}

		timestamp, ok := ResolveTimestamp(match[1], match[2])
		if !ok {
			continue
		}

		sender := strings.TrimSpace(match[3])
		body := strings.TrimSpace(match[4])
		if sender == "" || IsSystemNotice(sender, body) {
			continue
		}

		if !seen[sender] {
			seen[sender] = true
			participants = append(participants, sender)
		}
		counts[sender]++

		current = &models.Message{
			Timestamp: timestamp,
			Sender:    sender,
			Text:      body,
			IsMedia:   IsMediaMessage(body),
		}
	}

	if current != nil {
		messages = append(messages, *current)
	}

	// Stable sort keeps the original relative order of equal timestamps.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	start, end := time.Now(), time.Now()
	if len(messages) > 0 {
		start = messages[0].Timestamp
		end = messages[len(messages)-1].Timestamp
	}

	return &models.ParsedChat{
		Messages:              messages,
		Participants:          participants,
		StartDate:             start,
		EndDate:               end,
		TotalMessages:         len(messages),
		MessagesByParticipant: counts,
	}
}
