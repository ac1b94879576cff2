package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBracketedExport(t *testing.T) {
	raw := strings.Join([]string{
		"[12/31/23, 10:05:33] Ana: Happy new year!",
		"see you at the party",
		"[12/31/23, 10:07:02] Ben: On my way",
	}, "\n")

	parsed := Parse(raw)
	require.Equal(t, 2, parsed.TotalMessages)

	assert.Equal(t, "Ana", parsed.Messages[0].Sender)
	assert.Equal(t, "Happy new year!\nsee you at the party", parsed.Messages[0].Text)
	assert.Equal(t, time.Date(2023, time.December, 31, 10, 5, 33, 0, time.UTC), parsed.Messages[0].Timestamp)

	assert.Equal(t, []string{"Ana", "Ben"}, parsed.Participants)
	assert.Equal(t, 1, parsed.MessagesByParticipant["Ana"])
	assert.Equal(t, 1, parsed.MessagesByParticipant["Ben"])
	assert.Equal(t, parsed.Messages[0].Timestamp, parsed.StartDate)
	assert.Equal(t, parsed.Messages[1].Timestamp, parsed.EndDate)
}

func TestParseDashedExport(t *testing.T) {
	raw := strings.Join([]string{
		"31/12/2023, 22:15 - Ana: almost midnight",
		"31/12/2023, 22:16 - Ben: counting down",
	}, "\n")

	parsed := Parse(raw)
	require.Equal(t, 2, parsed.TotalMessages)
	assert.Equal(t, 22, parsed.Messages[0].Timestamp.Hour())
	assert.Equal(t, "counting down", parsed.Messages[1].Text)
}

func TestParseDashedTwelveHourExport(t *testing.T) {
	parsed := Parse("12/31/23, 9:05 PM - Ana: good evening")
	require.Equal(t, 1, parsed.TotalMessages)
	assert.Equal(t, 21, parsed.Messages[0].Timestamp.Hour())
}

func TestParseDropsSystemNotices(t *testing.T) {
	raw := strings.Join([]string{
		"[12/31/23, 10:00] Ana: hello",
		"[12/31/23, 10:01] Ana changed this group's icon: updated",
		"[12/31/23, 10:02] Ben: Carla left",
		"[12/31/23, 10:03] Ben: still here?",
	}, "\n")

	parsed := Parse(raw)
	require.Equal(t, 2, parsed.TotalMessages)
	assert.Equal(t, "hello", parsed.Messages[0].Text)
	assert.Equal(t, "still here?", parsed.Messages[1].Text)
	assert.Equal(t, []string{"Ana", "Ben"}, parsed.Participants)
}

func TestParseDroppedLineStillClosesOpenMessage(t *testing.T) {
	// The notice line closes Ana's message; the line after it must not be
	// glued onto anything.
	raw := strings.Join([]string{
		"[12/31/23, 10:00] Ana: hello",
		"[12/31/23, 10:01] Ben: Carla left",
		"orphaned continuation",
	}, "\n")

	parsed := Parse(raw)
	require.Equal(t, 1, parsed.TotalMessages)
	assert.Equal(t, "hello", parsed.Messages[0].Text)
}

func TestParseMediaPlaceholders(t *testing.T) {
	raw := strings.Join([]string{
		"[12/31/23, 10:00] Ana: <Media omitted>",
		"[12/31/23, 10:01] Ben: sticker omitted",
		"[12/31/23, 10:02] Ana: a real message",
	}, "\n")

	parsed := Parse(raw)
	require.Equal(t, 3, parsed.TotalMessages)
	assert.True(t, parsed.Messages[0].IsMedia)
	assert.True(t, parsed.Messages[1].IsMedia)
	assert.False(t, parsed.Messages[2].IsMedia)
}

func TestParseSortsOutOfOrderMessages(t *testing.T) {
	raw := strings.Join([]string{
		"[12/31/23, 12:00] Ana: second",
		"[12/31/23, 11:00] Ben: first",
		"[12/31/23, 13:00] Ana: third",
	}, "\n")

	parsed := Parse(raw)
	require.Equal(t, 3, parsed.TotalMessages)
	assert.Equal(t, "first", parsed.Messages[0].Text)
	assert.Equal(t, "second", parsed.Messages[1].Text)
	assert.Equal(t, "third", parsed.Messages[2].Text)

	// Participant order reflects appearance in the file, not the sort
	assert.Equal(t, []string{"Ana", "Ben"}, parsed.Participants)
}

func TestParseUnrecognizedInputYieldsEmptyResult(t *testing.T) {
	parsed := Parse("not a chat export\njust some prose\n")
	assert.Equal(t, 0, parsed.TotalMessages)
	assert.Empty(t, parsed.Messages)
	assert.Empty(t, parsed.Participants)
}

func TestParseCRLFInput(t *testing.T) {
	parsed := Parse("[12/31/23, 10:00] Ana: hello\r\n[12/31/23, 10:01] Ben: hi\r\n")
	require.Equal(t, 2, parsed.TotalMessages)
	assert.Equal(t, "hi", parsed.Messages[1].Text)
}

func TestIsSystemNotice(t *testing.T) {
	assert.True(t, IsSystemNotice("Ana added Ben", ""))
	assert.True(t, IsSystemNotice("Ana", "Messages and calls are end-to-end encrypted"))
	assert.False(t, IsSystemNotice("Ana", "see you tomorrow"))
}

func TestIsMediaMessage(t *testing.T) {
	assert.True(t, IsMediaMessage("<Media omitted>"))
	assert.True(t, IsMediaMessage("GIF omitted"))
	assert.False(t, IsMediaMessage("a gif would be funnier"))
}
