package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Export files carry dates in regional variants: slash-separated with either
// day-first or month-first ordering, and ISO dash-separated. Ordering is
// resolved by value where possible; genuinely ambiguous dates default to
// day-first (international convention).

var clockPattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*([AP]M))?`)

// ResolveTimestamp turns a (date, time) string pair into an absolute UTC
// timestamp. It fails only when the date part is unusable; an unparseable
// time degrades to midnight rather than dropping the message.
func ResolveTimestamp(dateStr, timeStr string) (time.Time, bool) {
	year, month, day, ok := resolveDate(dateStr)
	if !ok {
		return time.Time{}, false
	}

	hours, minutes, seconds := resolveClock(timeStr)
	return time.Date(year, time.Month(month), day, hours, minutes, seconds, 0, time.UTC), true
}

func resolveDate(dateStr string) (year, month, day int, ok bool) {
	dateStr = strings.TrimSpace(dateStr)

	sep := "/"
	if !strings.Contains(dateStr, "/") {
		sep = "-"
	}

	parts := strings.Split(dateStr, sep)
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}

	// ISO form: a four-digit leading field is always the year
	if sep == "-" && len(parts[0]) == 4 {
		return nums[0], nums[1], nums[2], true
	}

	first, second := nums[0], nums[1]
	switch {
	case first > 12:
		// first cannot be a month, so this is day-first
		day, month = first, second
	case second > 12:
		// month-first with the day in second position
		month, day = first, second
	default:
		// ambiguous; assume day-first
		day, month = first, second
	}

	year = nums[2]
	if year < 100 {
		if year > 50 {
			year += 1900
		} else {
			year += 2000
		}
	}

	return year, month, day, true
}

// resolveClock parses H:MM[:SS][ AM|PM]. A string that does not match
// resolves to midnight.
func resolveClock(timeStr string) (hours, minutes, seconds int) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(timeStr))
	if m == nil {
		return 0, 0, 0
	}

	hours, _ = strconv.Atoi(m[1])
	minutes, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		seconds, _ = strconv.Atoi(m[3])
	}

	switch strings.ToUpper(m[4]) {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}

	return hours, minutes, seconds
}
