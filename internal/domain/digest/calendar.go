// internal/domain/digest/calendar.go
package digest

import (
	"net/url"
	"strings"
	"time"
	"unicode"

	"surf_class_notifier/internal/domain/class"
)

const calendarTimeLayout = "20060102T150405"

// CalendarLink builds a Google Calendar event-creation deep link for a
// session. Returns "" when the session carries no parseable start/end
// times; rendering must skip the link for those, not fail.
func CalendarLink(s class.Session) string {
	if !s.StartTime.Valid || !s.EndTime.Valid {
		return ""
	}
	start, err := time.Parse("2006-01-02 15:04", s.Date+" "+s.StartTime.String)
	if err != nil {
		return ""
	}
	end, err := time.Parse("2006-01-02 15:04", s.Date+" "+s.EndTime.String)
	if err != nil {
		return ""
	}

	params := url.Values{}
	params.Set("text", TitleCase(s.ClassName))
	params.Set("dates", start.Format(calendarTimeLayout)+"/"+end.Format(calendarTimeLayout))
	params.Set("details", "Coach: "+TitleCase(s.CoachName))
	return "https://calendar.google.com/calendar/u/0/r/eventedit?" + params.Encode()
}

// TitleCase lower-cases a string and capitalizes the first letter of
// each space-separated word.
func TitleCase(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, word := range words {
		runes := []rune(word)
		if len(runes) == 0 {
			continue
		}
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
