// internal/domain/forecast/index.go
package forecast

import (
	"regexp"
	"strconv"
	"time"
)

// Period is the half-day bucket used to join sessions to wave-energy
// values. The forecast table additionally carries Night rows, which
// only matter for date inference.
type Period string

const (
	PeriodAM    Period = "AM"
	PeriodPM    Period = "PM"
	PeriodNight Period = "Night"
)

// PeriodForHour maps a class start hour to its half-day period.
func PeriodForHour(hour int) Period {
	if hour < 12 {
		return PeriodAM
	}
	return PeriodPM
}

// Row is one scraped forecast observation: a period label and the raw
// energy cell text, in table order. Rows carry no dates of their own.
type Row struct {
	PeriodLabel string
	Energy      string
}

// Index maps (date, period) to the raw energy value scraped for that
// slot. It is rebuilt from a fresh scrape on every run and never
// persisted.
type Index struct {
	entries map[indexKey]string
}

type indexKey struct {
	date   string
	period string
}

var digitsRe = regexp.MustCompile(`\d+`)

// Build walks the ordered forecast rows and infers each row's calendar
// date positionally, starting at start and advancing one day whenever
// an AM label follows a PM or Night label (one physical day's periods
// are assumed contiguous and ordered AM, PM, Night).
//
// This inference is load-bearing: if the source sequence skips a day or
// starts mid-day, every subsequent inferred date shifts with it.
func Build(rows []Row, start time.Time) *Index {
	idx := &Index{entries: make(map[indexKey]string, len(rows))}

	current := start
	prevLabel := ""
	for _, row := range rows {
		if row.PeriodLabel == string(PeriodAM) &&
			(prevLabel == string(PeriodPM) || prevLabel == string(PeriodNight)) {
			current = current.AddDate(0, 0, 1)
		}
		key := indexKey{date: current.Format("2006-01-02"), period: row.PeriodLabel}
		if _, exists := idx.entries[key]; !exists {
			idx.entries[key] = row.Energy
		}
		prevLabel = row.PeriodLabel
	}
	return idx
}

// Lookup returns the numeric portion (first run of digits) of the
// energy value recorded for the date and period. ok is false when no
// entry matches or the raw value carries no digits.
func (i *Index) Lookup(date string, period Period) (int64, bool) {
	if i == nil {
		return 0, false
	}
	raw, found := i.entries[indexKey{date: date, period: string(period)}]
	if !found {
		return 0, false
	}
	digits := digitsRe.FindString(raw)
	if digits == "" {
		return 0, false
	}
	energy, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return energy, true
}
