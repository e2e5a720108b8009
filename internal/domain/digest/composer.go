// internal/domain/digest/composer.go
package digest

import (
	"fmt"
	"strings"
	"time"

	"surf_class_notifier/internal/domain/class"
)

// Composer renders the single notification digest for one date. The
// featured-keyword list and the registration-site link are configuration
// inputs, not hardcoded knowledge of class names.
type Composer struct {
	featuredKeywords []string
	registrationURL  string
}

func NewComposer(featuredKeywords []string, registrationURL string) *Composer {
	return &Composer{
		featuredKeywords: featuredKeywords,
		registrationURL:  registrationURL,
	}
}

// Compose builds the digest text for the sessions of one date.
//
// Callers must not invoke Compose with an empty session list; an empty
// notify set means there is nothing to deliver and the composer has no
// meaningful output for it.
func (c *Composer) Compose(sessions []class.Session, date time.Time, weather string) string {
	featured := newTimeGroups()
	other := newTimeGroups()

	for _, s := range sessions {
		entry := c.renderEntry(s)
		if c.isFeatured(s.ClassName) {
			featured.add(s.TimeRange, entry)
		} else {
			other.add(s.TimeRange, entry)
		}
	}

	var b strings.Builder
	header := date.Format("January 2, Monday")
	if c.registrationURL != "" {
		fmt.Fprintf(&b, "🌊 *[%s](%s)*", header, c.registrationURL)
	} else {
		fmt.Fprintf(&b, "🌊 *%s*", header)
	}
	if weather != "" {
		b.WriteString(" ")
		b.WriteString(weather)
	}
	b.WriteString("\n")

	if !featured.empty() {
		b.WriteString("\n🔥 *Featured*\n")
		featured.render(&b)
	}
	if !other.empty() {
		b.WriteString("\n🏄 *Other*\n")
		other.render(&b)
	}
	return b.String()
}

// renderEntry builds one human-readable line fragment for a session:
// linked title-cased class name, coach and the wave energy marker.
func (c *Composer) renderEntry(s class.Session) string {
	name := TitleCase(s.ClassName)
	if link := CalendarLink(s); link != "" {
		name = fmt.Sprintf("[%s](%s)", name, link)
	}

	energy := "energy n/a"
	if s.WaveEnergy.Valid {
		energy = fmt.Sprintf("⚡%d", s.WaveEnergy.Int64)
	}
	return fmt.Sprintf("%s with %s (%s)", name, TitleCase(s.CoachName), energy)
}

func (c *Composer) isFeatured(className string) bool {
	name := strings.ToLower(strings.TrimSpace(className))
	for _, keyword := range c.featuredKeywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(name, strings.ToLower(strings.TrimSpace(keyword))) {
			return true
		}
	}
	return false
}

// timeGroups keeps entries grouped by time range, preserving the order
// in which time ranges were first seen.
type timeGroups struct {
	order   []string
	entries map[string][]string
}

func newTimeGroups() *timeGroups {
	return &timeGroups{entries: make(map[string][]string)}
}

func (g *timeGroups) add(timeRange, entry string) {
	if _, seen := g.entries[timeRange]; !seen {
		g.order = append(g.order, timeRange)
	}
	g.entries[timeRange] = append(g.entries[timeRange], entry)
}

func (g *timeGroups) empty() bool {
	return len(g.order) == 0
}

func (g *timeGroups) render(b *strings.Builder) {
	for _, timeRange := range g.order {
		fmt.Fprintf(b, "%s: %s\n", timeRange, strings.Join(g.entries[timeRange], ", "))
	}
}
