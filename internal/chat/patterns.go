package chat

import (
	"regexp"
	"strings"
)

// linePattern is one recognized message-line shape. Patterns are evaluated
// in order and the first match wins; adding a new export variant means
// appending to the list, not touching the parse loop.
type linePattern struct {
	name string
	re   *regexp.Regexp
}

// Submatch layout for every pattern: date, time, sender, body.
var messagePatterns = []linePattern{
	{
		// [DD/MM/YYYY, HH:MM:SS] Sender: Message
		name: "bracketed",
		re:   regexp.MustCompile(`(?i)^\[(\d{1,4}[/-]\d{1,2}[/-]\d{1,4}),?\s*(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?)\]\s*([^:]+):\s*(.*)$`),
	},
	{
		// DD/MM/YYYY, HH:MM - Sender: Message
		name: "dashed",
		re:   regexp.MustCompile(`(?i)^(\d{1,4}[/-]\d{1,2}[/-]\d{1,4}),?\s*(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?)\s*-\s*([^:]+):\s*(.*)$`),
	},
	{
		// MM/DD/YY, HH:MM AM/PM - Sender: Message
		name: "dashed-12h",
		re:   regexp.MustCompile(`(?i)^(\d{1,4}[/-]\d{1,2}[/-]\d{1,4}),?\s*(\d{1,2}:\d{2}(?:\s*[AP]M)?)\s*-\s*([^:]+):\s*(.*)$`),
	},
}

// systemNoticeFragments marks lines emitted by the messaging app itself
// (group management, encryption banner) rather than by a participant.
// Matching is case-sensitive substring matching; a participant whose name
// contains one of these fragments is misclassified. That limitation is
// deliberate and kept testable here instead of being scattered through the
// parse loop.
var systemNoticeFragments = []string{
	"Messages and calls are end-to-end encrypted",
	"created group",
	"added",
	"left",
	"changed",
}

// mediaMarkers are the placeholder bodies the exporter substitutes for
// attachments.
var mediaMarkers = []string{
	"<Media omitted>",
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"GIF omitted",
}

// IsSystemNotice reports whether a matched line is a system notice rather
// than a participant message.
func IsSystemNotice(sender, body string) bool {
	for _, fragment := range systemNoticeFragments {
		if strings.Contains(sender, fragment) || strings.Contains(body, fragment) {
			return true
		}
	}
	return false
}

// IsMediaMessage reports whether a message body is an attachment placeholder.
func IsMediaMessage(body string) bool {
	for _, marker := range mediaMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
