package digest

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"surf_class_notifier/internal/domain/class"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2025-03-10")
	require.NoError(t, err)
	return d
}

func session(name, timeRange, coach string, energy int64) class.Session {
	s := class.Session{
		Date:      "2025-03-10",
		ClassName: name,
		TimeRange: timeRange,
		CoachName: coach,
		State:     class.StatePending,
	}
	if start, end, ok := class.SplitTimeRange(timeRange); ok {
		s.StartTime = sql.NullString{String: start, Valid: true}
		s.EndTime = sql.NullString{String: end, Valid: true}
	}
	if energy >= 0 {
		s.WaveEnergy = sql.NullInt64{Int64: energy, Valid: true}
	}
	return s
}

func TestCompose_FeaturedBucketing(t *testing.T) {
	c := NewComposer([]string{"PERFORMANCE LARANJA"}, "https://surf.example")
	text := c.Compose([]class.Session{
		session("PERFORMANCE LARANJA", "09:00 - 10:00", "Ana Silva", 14),
		session("BODYBOARD", "11:00 - 12:00", "Rui Costa", 8),
	}, testDate(t), "")

	featuredIdx := strings.Index(text, "*Featured*")
	otherIdx := strings.Index(text, "*Other*")
	require.GreaterOrEqual(t, featuredIdx, 0, "digest must carry a featured section")
	require.GreaterOrEqual(t, otherIdx, 0, "digest must carry an other section")
	assert.Less(t, featuredIdx, otherIdx, "featured section renders first")

	featuredPart := text[featuredIdx:otherIdx]
	assert.Contains(t, featuredPart, "Performance Laranja")
	assert.Contains(t, featuredPart, "⚡14")
	assert.Contains(t, text[otherIdx:], "Bodyboard")
}

func TestCompose_GroupsByTimeRangeInFirstSeenOrder(t *testing.T) {
	c := NewComposer(nil, "")
	text := c.Compose([]class.Session{
		session("CINZA", "11:00 - 12:00", "Rui", 5),
		session("AZUL", "09:00 - 10:00", "Ana", 5),
		session("VERDE", "11:00 - 12:00", "Ana", 5),
	}, testDate(t), "")

	late := strings.Index(text, "11:00 - 12:00:")
	early := strings.Index(text, "09:00 - 10:00:")
	require.GreaterOrEqual(t, late, 0)
	require.GreaterOrEqual(t, early, 0)
	assert.Less(t, late, early, "time ranges keep first-seen order, not clock order")

	line := text[late:early]
	assert.Contains(t, line, "Cinza")
	assert.Contains(t, line, "Verde")
	assert.Contains(t, line, ", ", "entries sharing a time range join on one line")
}

func TestCompose_UnknownEnergyMarker(t *testing.T) {
	c := NewComposer(nil, "")
	text := c.Compose([]class.Session{
		session("AZUL", "09:00 - 10:00", "Ana", -1),
	}, testDate(t), "")

	assert.Contains(t, text, "energy n/a", "missing forecast data is rendered explicitly")
	assert.NotContains(t, text, "⚡")
}

func TestCompose_HeaderLinksRegistrationSiteAndWeather(t *testing.T) {
	c := NewComposer(nil, "https://surf.example")
	text := c.Compose([]class.Session{
		session("AZUL", "09:00 - 10:00", "Ana", 5),
	}, testDate(t), "☀️+21")

	assert.Contains(t, text, "[March 10, Monday](https://surf.example)")
	assert.Contains(t, text, "☀️+21")
}

func TestCompose_SessionWithoutTimesHasNoLink(t *testing.T) {
	c := NewComposer(nil, "")
	s := session("AZUL", "No time available", "Ana", 5)
	text := c.Compose([]class.Session{s}, testDate(t), "")

	assert.NotContains(t, text, "calendar.google.com", "unparseable times must skip the calendar link")
	assert.Contains(t, text, "Azul with Ana")
}

func TestCalendarLink(t *testing.T) {
	link := CalendarLink(session("PERFORMANCE LARANJA", "09:00 - 10:00", "Ana Silva", 14))

	require.NotEmpty(t, link)
	assert.Contains(t, link, "https://calendar.google.com/calendar/u/0/r/eventedit?")
	assert.Contains(t, link, "20250310T090000%2F20250310T100000")
	assert.Contains(t, link, "text=Performance+Laranja")
	assert.Contains(t, link, "details=Coach%3A+Ana+Silva")
}

func TestCalendarLink_InvalidTimes(t *testing.T) {
	s := session("AZUL", "09:00 - 10:00", "Ana", 5)
	s.StartTime = sql.NullString{String: "whenever", Valid: true}
	assert.Empty(t, CalendarLink(s))

	s.StartTime = sql.NullString{}
	assert.Empty(t, CalendarLink(s))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Performance Laranja", TitleCase("PERFORMANCE LARANJA"))
	assert.Equal(t, "Ana Silva", TitleCase("ana silva"))
	assert.Equal(t, "Treino Físico Groms", TitleCase("TREINO FÍSICO GROMS"))
	assert.Equal(t, "", TitleCase(""))
}
